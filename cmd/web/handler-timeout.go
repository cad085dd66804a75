package main

import (
	"net/http"
	"time"
)

// timeoutBody carries no script because the CSP nonce is not available to [http.TimeoutHandler].
const timeoutBody = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Timeout - Foxtrail</title></head>
<body>
<h1>The fox was faster than the server</h1>
<p>Your game is saved. <a href="/detective">Back to the trail</a></p>
</body>
</html>
`

// timeoutHandler responds with a 503 Service Unavailable error when the handler does not meet the deadline.
func timeoutHandler(h http.Handler, defaultTimeout time.Duration) http.Handler {
	// We want the timeout to be a little shorter than the server's read timeout so that the
	// timeout handler has a chance to respond before the server closes the connection.
	httpHandlerTimeout := defaultTimeout - 500*time.Millisecond //nolint:mnd // 500ms
	return http.TimeoutHandler(h, httpHandlerTimeout, timeoutBody)
}
