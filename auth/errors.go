package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrAccessDenied       = errors.New("access denied")

	// ErrNoToken flags the backend answering a login with a 2xx but no
	// accessToken cookie. Reported distinctly, never silently ignored.
	ErrNoToken = errors.New("authenticated but no token received")

	// ErrServer wraps non-2xx login responses; the wrapping message
	// carries the status code and body text.
	ErrServer = errors.New("login rejected by server")
)
