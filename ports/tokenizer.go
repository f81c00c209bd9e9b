package ports

import "github.com/layer-3/jumper/core"

// Tokenizer converts sessions to signed cookie values and back
type Tokenizer interface {
	SessionToCookie(session *core.Session) (string, error)
	// CookieToSessionID validates the cookie signature and expiry
	CookieToSessionID(cookie string) (string, error)
}
