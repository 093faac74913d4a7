package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/padraicbc/gymapi/credentials"
	"github.com/padraicbc/gymapi/models"
	"github.com/padraicbc/gymapi/repository"
)

// AuthService checks username/password pairs.
type AuthService struct {
	store repository.Store
	log   *zap.Logger
	// dummyHash is verified against when the username is unknown so that
	// unknown and known users take the same time to reject.
	dummyHash string
}

// NewAuthService returns an AuthService over store.
func NewAuthService(store repository.Store, bcryptCost int, log *zap.Logger) *AuthService {
	dummy, err := credentials.HashPassword("unknown-user", bcryptCost)
	if err != nil {
		panic(fmt.Sprintf("auth: hashing dummy password: %v", err))
	}
	return &AuthService{store: store, log: log, dummyHash: dummy}
}

// Authenticate reports whether username exists, is active and password matches.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	u, err := s.authenticate(ctx, s.store.Users(), username, password)
	return u != nil, err
}

// authenticate returns the user when the credentials are valid for an active user.
func (s *AuthService) authenticate(ctx context.Context, users repository.UserRepository, username, password string) (*models.User, error) {
	u, err := s.lookup(ctx, users, username, false)
	if err != nil || u == nil {
		return nil, err
	}
	if !s.check(u, password, true) {
		return nil, nil
	}
	return u, nil
}

// lookup loads the user, optionally with a row lock. A miss burns one bcrypt
// comparison, logs and returns nil.
func (s *AuthService) lookup(ctx context.Context, users repository.UserRepository, username string, lock bool) (*models.User, error) {
	var (
		u   *models.User
		err error
	)
	if lock {
		u, err = users.LockByUsername(ctx, username)
	} else {
		u, err = users.FindByUsername(ctx, username)
	}
	if errors.Is(err, repository.ErrNotFound) {
		credentials.VerifyPassword(s.dummyHash, username)
		s.reject(username)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return u, nil
}

// check verifies password and, when requireActive is set, the active flag.
func (s *AuthService) check(u *models.User, password string, requireActive bool) bool {
	ok := credentials.VerifyPassword(u.Password, password)
	if !ok || (requireActive && !u.IsActive) {
		s.reject(u.Username)
		return false
	}
	s.log.Debug("authenticated", zap.String("username", u.Username))
	return true
}

// reject logs the same message for every failure cause.
func (s *AuthService) reject(username string) {
	s.log.Warn("authentication failed", zap.String("username", username))
}
