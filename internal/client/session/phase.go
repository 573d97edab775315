// Package session drives the client's startup sequence: initialize the
// identity, resolve the backend actor, load the caller's profile, and only
// then declare the session ready. The sequence is an explicit state machine
// evaluated as a prioritized decision list over dependency signals, with a
// watchdog so a connect attempt that never settles still surfaces as an
// error instead of an eternal spinner.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sachwave/sachwave/internal/common"
)

// Phase is one startup state.
type Phase string

const (
	// PhaseInitializingIdentity: the identity layer has not settled yet.
	PhaseInitializingIdentity Phase = "initializing-identity"

	// PhaseUnauthenticated: identity init finished with no signed-in
	// identity. Bootstrap is bypassed; the pre-auth flow takes over.
	PhaseUnauthenticated Phase = "unauthenticated"

	// PhaseConnecting: identity present, backend actor not yet resolved.
	PhaseConnecting Phase = "connecting-backend"

	// PhaseLoadingProfile: actor resolved, profile fetch not yet settled.
	PhaseLoadingProfile Phase = "loading-profile"

	// PhaseReady: profile fetch settled. A nil profile is still ready: it
	// means a valid identity that has not signed up yet.
	PhaseReady Phase = "ready"

	// PhaseError: a startup step failed. Reachable from every non-ready
	// phase; left only through Retry.
	PhaseError Phase = "error"
)

// StartupError describes a failed startup step with separate audiences: a
// short actionable message for the user and a diagnostic one for logs.
type StartupError struct {
	Phase       Phase
	UserMessage string
	DevMessage  string
	Err         error
}

func (e *StartupError) Error() string { return e.DevMessage }

func (e *StartupError) Unwrap() error { return e.Err }

// Signals is the dependency snapshot the decision list runs over.
type Signals struct {
	IdentityInitializing bool
	IdentityErr          error
	IdentityPresent      bool

	ActorReady      bool
	ActorErr        error
	ConnectingSince time.Time

	ProfileLoading bool
	ProfileFetched bool
	ProfileErr     error

	Now time.Time
}

// Next evaluates the prioritized transition rules and returns the phase the
// session should be in, plus the startup error when that phase is
// PhaseError. It is pure: same signals, same answer.
func Next(sig Signals, connectTimeout time.Duration) (Phase, *StartupError) {
	if sig.IdentityInitializing {
		return PhaseInitializingIdentity, nil
	}
	if sig.IdentityErr != nil {
		return PhaseError, Classify(PhaseInitializingIdentity, sig.IdentityErr)
	}
	if !sig.IdentityPresent {
		return PhaseUnauthenticated, nil
	}
	if sig.ActorErr != nil {
		return PhaseError, Classify(PhaseConnecting, sig.ActorErr)
	}
	if !sig.ActorReady {
		if !sig.ConnectingSince.IsZero() && sig.Now.Sub(sig.ConnectingSince) > connectTimeout {
			return PhaseError, &StartupError{
				Phase:       PhaseConnecting,
				UserMessage: "Connecting to the server is taking too long. Check your connection and retry.",
				DevMessage:  fmt.Sprintf("backend connect exceeded %s watchdog", connectTimeout),
			}
		}
		return PhaseConnecting, nil
	}
	if sig.ProfileErr != nil && !profileAbsenceError(sig.ProfileErr) {
		return PhaseError, Classify(PhaseLoadingProfile, sig.ProfileErr)
	}
	if sig.ProfileFetched || profileAbsenceError(sig.ProfileErr) {
		return PhaseReady, nil
	}
	return PhaseLoadingProfile, nil
}

// profileAbsenceError reports errors that mean "this identity has no profile
// yet", which is a valid settled outcome, not a failure. An authorization
// refusal for a not-yet-registered identity lands here.
func profileAbsenceError(err error) bool {
	return errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrUnauthorized)
}

// Classify maps an underlying failure to a per-phase (user message, dev
// message) pair. Connectivity-shaped failures get a "check your connection"
// message; everything else a generic one for the phase.
func Classify(phase Phase, err error) *StartupError {
	connectivity := isConnectivityError(err)

	var user string
	switch phase {
	case PhaseInitializingIdentity:
		user = "Couldn't set up your session. Please retry."
	case PhaseConnecting:
		if connectivity {
			user = "Can't reach the server. Check your connection and retry."
		} else {
			user = "Something went wrong while connecting to the server. Please retry."
		}
	case PhaseLoadingProfile:
		if connectivity {
			user = "Lost the connection while loading your profile. Please retry."
		} else {
			user = "Couldn't load your profile. Please retry."
		}
	default:
		user = "Something went wrong during startup. Please retry."
	}

	return &StartupError{
		Phase:       phase,
		UserMessage: user,
		DevMessage:  fmt.Sprintf("%s failed: %v", phase, err),
		Err:         err,
	}
}

var connectivityMarkers = []string{
	"timeout",
	"timed out",
	"deadline exceeded",
	"unavailable",
	"unreachable",
	"connection refused",
	"connection reset",
	"no such host",
}

func isConnectivityError(err error) bool {
	if errors.Is(err, common.ErrUnavailable) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range connectivityMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
