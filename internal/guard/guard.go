// Package guard decides whether a navigation to a protected view may
// proceed for a given session state. It is a pure decision; acting on it
// (rendering a loading state, prompting for login, remembering the original
// destination) belongs to the caller.
package guard

import "github.com/cmmeyer1800/accountabilidash/internal/session"

type Decision int

const (
	// Allow lets the navigation proceed.
	Allow Decision = iota
	// Defer means the session is still hydrating; show a neutral loading
	// state and decide again once it settles.
	Defer
	// RedirectToLogin sends the user to the login view, remembering the
	// requested destination for the post-login return.
	RedirectToLogin
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Defer:
		return "defer"
	case RedirectToLogin:
		return "redirect_to_login"
	}
	return "unknown"
}

// Decide maps session state to a navigation decision.
func Decide(state session.State) Decision {
	switch state {
	case session.StateAuthenticated:
		return Allow
	case session.StateHydrating:
		return Defer
	default:
		return RedirectToLogin
	}
}
