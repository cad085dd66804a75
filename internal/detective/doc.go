// Package detective implements the rules of the detective game.
//
// A thief hides among a dozen suspects, each carrying a unique set of items. The player rolls dice to either reveal
// suspects or reveal clues about the thief's items, and has to name the thief before the fox escapes. Every failed
// turn and every wrong guess lets the fox run further.
//
// [Generate] builds a [Puzzle]. A [Game] owns a puzzle and the state of the turn being played. Its methods are the
// player actions; actions that are not allowed in the current phase are ignored. Delays between actions are modelled
// as [ScheduledEvent] values fired by [Game.Advance].
package detective
