// Package gate decides which screen a request may render from the signed-in
// identity, its stored account and the health of the backing store.
package gate

import "codeclass/internal/models"

// State is one of the mutually exclusive render states
type State string

const (
	Loading         State = "loading"
	Unauthenticated State = "unauthenticated"
	WaitingRoom     State = "waiting_room"
	Rejected        State = "rejected"
	SetupRequired   State = "setup_required"
	Main            State = "main"

	// AccessDenied replaces an admin-only screen for non-admin accounts
	AccessDenied State = "access_denied"
)

// Input is the external state the gate is derived from
type Input struct {
	// Resolving is set while the identity lookup is still in flight
	Resolving bool
	SignedIn  bool
	Account   *models.Account
	// ConfigError is set when the store reported a setup problem
	ConfigError bool
}

// Resolve applies the gate precedence. Admin accounts bypass the pending
// and rejected gates.
func Resolve(in Input) State {
	switch {
	case in.Resolving:
		return Loading
	case !in.SignedIn:
		return Unauthenticated
	}

	admin := in.Account.IsAdmin()
	if in.Account != nil && !admin {
		switch in.Account.Status {
		case models.StatusPending:
			return WaitingRoom
		case models.StatusRejected:
			return Rejected
		}
	}

	if in.ConfigError {
		return SetupRequired
	}
	return Main
}

// Screen identifies a page of the main shell
type Screen string

const (
	ScreenDashboard   Screen = "dashboard"
	ScreenLessons     Screen = "lessons"
	ScreenLesson      Screen = "lesson"
	ScreenProfile     Screen = "profile"
	ScreenLiveClass   Screen = "live"
	ScreenAdmin       Screen = "admin"
	ScreenEditor      Screen = "editor"
	ScreenAdminCourse Screen = "admin_classes"
)

var adminScreens = map[Screen]bool{
	ScreenAdmin:       true,
	ScreenEditor:      true,
	ScreenAdminCourse: true,
}

// IsAdminScreen reports whether s is restricted to administrators
func IsAdminScreen(s Screen) bool {
	return adminScreens[s]
}

// CanView reports whether account may open s from the main shell
func CanView(account *models.Account, s Screen) bool {
	return !IsAdminScreen(s) || account.IsAdmin()
}

// ResolveScreen combines Resolve and CanView. A main-shell request for a
// forbidden screen yields AccessDenied.
func ResolveScreen(in Input, s Screen) State {
	state := Resolve(in)
	if state == Main && !CanView(in.Account, s) {
		return AccessDenied
	}
	return state
}
