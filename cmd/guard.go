package cmd

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/fakeyudi/fitflex/internal/api"
	"github.com/fakeyudi/fitflex/internal/guard"
	"github.com/fakeyudi/fitflex/internal/session"
	"github.com/fakeyudi/fitflex/internal/workout"
)

var errNotLoggedIn = errors.New("not logged in, run 'fitflex login' first")

// requireSession fails unless a token is stored and has not expired. An
// expired token is dropped so the next login starts clean.
func requireSession() error {
	if !sessions.LoggedIn() {
		return errNotLoggedIn
	}
	if guard.Check(sessions.Token(), time.Now()) == guard.Expired {
		if err := sessions.Invalidate(session.ReasonExpired); err != nil {
			log.WithError(err).Warn("failed to drop expired session")
		}
		return workout.ErrSessionExpired
	}
	return nil
}

// apiFailure turns an API error into a user-facing one and drops the
// session when the server rejected the token.
func apiFailure(action string, err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		if ierr := sessions.Invalidate(session.ReasonUnauthorized); ierr != nil {
			log.WithError(ierr).Warn("failed to drop rejected session")
		}
		return fmt.Errorf("%s: the server rejected your session, please log in again", action)
	}
	return fmt.Errorf("%s: %s", action, api.DetailOf(err))
}
