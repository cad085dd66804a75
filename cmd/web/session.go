package main

type sessionKey string

// gameIDSessionKey stores the id of the game the visitor is playing.
const gameIDSessionKey = sessionKey("gameID")
