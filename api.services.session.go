package main

import (
	"context"
	"crypto/subtle"

	"go.uber.org/zap"
)

type SessionServiceProvider interface {
	Login(ctx context.Context, username, password string) (Session, error)
	Logout(ctx context.Context, sessionID string) error
}

type SessionService struct {
	logger   *zap.Logger
	config   *Config
	clock    Clocker
	ids      UIDHandler
	users    UserStorage
	sessions SessionStore
}

func NewSessionService(logger *zap.Logger, config *Config, clock Clocker, ids UIDHandler, users UserStorage, sessions SessionStore) SessionServiceProvider {
	return &SessionService{
		logger:   logger,
		config:   config,
		clock:    clock,
		ids:      ids,
		users:    users,
		sessions: sessions,
	}
}

// Login verifies the credentials against the users storage and opens a
// new session carrying the user permissions. A wrong username and a
// wrong password are indistinguishable for the caller.
func (ss *SessionService) Login(ctx context.Context, username, password string) (Session, error) {
	user, err := ss.users.GetByUsername(ctx, username)
	if err == ErrNotFoundUser {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
		return Session{}, ErrInvalidCredentials
	}

	session := Session{
		ID:          ss.ids.Generate(SessionIDPrefix),
		UserID:      user.ID,
		Username:    user.Username,
		Permissions: user.Permissions,
		CreatedAt:   ss.clock.Now().UTC().String(),
	}
	if err = ss.sessions.Save(ctx, session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Logout destroys the session, its visit counter included.
func (ss *SessionService) Logout(ctx context.Context, sessionID string) error {
	return ss.sessions.Delete(ctx, sessionID)
}
