package session

import (
	"fmt"

	"skillsync/internal/errors"
)

// AuthView is the form shown in the auth modal
type AuthView string

const (
	AuthViewLogin  AuthView = "login"
	AuthViewSignup AuthView = "signup"
)

// AuthState is the auth overlay state
type AuthState struct {
	LoggedIn  bool     `json:"loggedIn"`
	ShowModal bool     `json:"showModal"`
	View      AuthView `json:"view"`
}

// Auth is a local login flag with its modal. Nothing is verified and nothing
// is gated on it.
type Auth struct {
	s *Session

	loggedIn  bool
	showModal bool
	view      AuthView
}

// OpenModal shows the modal on the login form
func (a *Auth) OpenModal() AuthState {
	return a.update(func() {
		a.showModal = true
		a.view = AuthViewLogin
	})
}

// CloseModal hides the modal
func (a *Auth) CloseModal() AuthState {
	return a.update(func() { a.showModal = false })
}

// ToggleView switches between the login and signup forms of an open modal
func (a *Auth) ToggleView() AuthState {
	return a.update(func() {
		if !a.showModal {
			return
		}
		if a.view == AuthViewLogin {
			a.view = AuthViewSignup
		} else {
			a.view = AuthViewLogin
		}
	})
}

// Login marks the user as logged in and closes the modal
func (a *Auth) Login() AuthState {
	return a.update(func() {
		a.loggedIn = true
		a.showModal = false
	})
}

// Logout clears the login flag
func (a *Auth) Logout() AuthState {
	return a.update(func() { a.loggedIn = false })
}

// Apply runs a named action: open, close, toggle, login or logout
func (a *Auth) Apply(action string) (AuthState, error) {
	switch action {
	case "open":
		return a.OpenModal(), nil
	case "close":
		return a.CloseModal(), nil
	case "toggle":
		return a.ToggleView(), nil
	case "login":
		return a.Login(), nil
	case "logout":
		return a.Logout(), nil
	default:
		return a.State(), errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("Unknown auth action %q.", action), nil)
	}
}

// State returns the current auth state
func (a *Auth) State() AuthState {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return a.stateLocked()
}

func (a *Auth) update(fn func()) AuthState {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	a.s.touchLocked()
	fn()
	return a.stateLocked()
}

func (a *Auth) stateLocked() AuthState {
	return AuthState{LoggedIn: a.loggedIn, ShowModal: a.showModal, View: a.view}
}
