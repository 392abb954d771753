package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tareas-app/tareas/internal/db"
)

// Result is the outcome of a login attempt. A store failure is a failed
// login surfaced to the user, never a crash.
type Result int

const (
	Authenticated Result = iota
	InvalidCredentials
	StoreUnavailable
)

func (r Result) String() string {
	switch r {
	case Authenticated:
		return "authenticated"
	case InvalidCredentials:
		return "invalid credentials"
	case StoreUnavailable:
		return "store unavailable"
	}
	return "unknown"
}

// Session identifies one authenticated run of the task board. The
// transition from login to board is one-way; there is no logout.
type Session struct {
	Token    string
	Username string
}

type Controller struct {
	db  *db.DB
	log *logrus.Entry
}

func New(database *db.DB, log *logrus.Entry) *Controller {
	return &Controller{db: database, log: log}
}

// Login validates the credentials with a single count query and, when they
// match, mints a session for the board.
func (c *Controller) Login(ctx context.Context, username, password string) (Result, *Session) {
	ok, err := c.db.Authenticate(ctx, username, password)
	if err != nil {
		c.log.WithField("username", username).WithError(err).Error("credential check failed")
		return StoreUnavailable, nil
	}
	if !ok {
		c.log.WithField("username", username).Info("login rejected")
		return InvalidCredentials, nil
	}

	s := &Session{
		Token:    uuid.New().String(),
		Username: username,
	}
	c.log.WithField("username", username).Info("login accepted")
	return Authenticated, s
}
