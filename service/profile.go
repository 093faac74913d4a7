package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/padraicbc/gymapi/credentials"
	"github.com/padraicbc/gymapi/models"
	"github.com/padraicbc/gymapi/repository"
)

// profiles holds the user-level flows shared by trainees and trainers.
type profiles struct {
	store      repository.Store
	auth       *AuthService
	gen        *credentials.Generator
	bcryptCost int
	log        *zap.Logger
	kind       string
	// exists reports whether username owns a profile of this kind.
	exists func(ctx context.Context, tx repository.Store, username string) (bool, error)
}

// newUser issues credentials and inserts an active user. It returns the
// plaintext password, which is never stored.
func (p *profiles) newUser(ctx context.Context, tx repository.Store, first, last string) (*models.User, string, error) {
	username, err := p.gen.GenerateUsername(ctx, first, last, tx.Users())
	if err != nil {
		return nil, "", err
	}
	password := p.gen.GeneratePassword()
	hash, err := credentials.HashPassword(password, p.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	u := &models.User{
		FirstName: first,
		LastName:  last,
		Username:  username,
		Password:  hash,
		IsActive:  true,
	}
	if err := tx.Users().Insert(ctx, u); err != nil {
		return nil, "", fmt.Errorf("saving user: %w", err)
	}
	return u, password, nil
}

// lockAuthenticated locks the user row and checks credentials and profile kind.
// It returns nil when any check fails.
func (p *profiles) lockAuthenticated(ctx context.Context, tx repository.Store, username, password string, requireActive bool) (*models.User, error) {
	u, err := p.auth.lookup(ctx, tx.Users(), username, true)
	if err != nil || u == nil {
		return nil, err
	}
	if !p.auth.check(u, password, requireActive) {
		return nil, nil
	}
	ok, err := p.exists(ctx, tx, username)
	if err != nil {
		return nil, err
	}
	if !ok {
		p.log.Warn(p.kind+" not found", zap.String("username", username))
		return nil, nil
	}
	return u, nil
}

// setActive flips the active flag. Asking for the current state is refused
// with false rather than treated as success.
func (p *profiles) setActive(ctx context.Context, username, password string, active bool) (bool, error) {
	changed := false
	err := p.store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
		// Credentials are checked without the active gate, otherwise an
		// inactive profile could never be re-activated.
		u, err := p.lockAuthenticated(ctx, tx, username, password, false)
		if err != nil || u == nil {
			return err
		}
		if u.IsActive == active {
			p.log.Warn(p.kind+" already in requested state",
				zap.String("username", username), zap.Bool("active", active))
			return nil
		}
		u.IsActive = active
		if err := tx.Users().Update(ctx, u); err != nil {
			return fmt.Errorf("saving user: %w", err)
		}
		changed = true
		return nil
	})
	if err != nil {
		p.log.Error("updating "+p.kind+" status failed", zap.String("username", username), zap.Error(err))
		return false, fmt.Errorf("updating %s status: %w", p.kind, err)
	}
	if changed {
		p.log.Info(p.kind+" status changed", zap.String("username", username), zap.Bool("active", active))
	}
	return changed, nil
}

// changePassword replaces the password after verifying the old one.
func (p *profiles) changePassword(ctx context.Context, username, oldPassword, newPassword string) (bool, error) {
	newPassword = strings.TrimSpace(newPassword)
	if newPassword == "" {
		p.log.Warn("new password is empty", zap.String("username", username))
		return false, nil
	}

	changed := false
	err := p.store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
		u, err := p.lockAuthenticated(ctx, tx, username, oldPassword, true)
		if err != nil || u == nil {
			return err
		}
		hash, err := credentials.HashPassword(newPassword, p.bcryptCost)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		u.Password = hash
		if err := tx.Users().Update(ctx, u); err != nil {
			return fmt.Errorf("saving user: %w", err)
		}
		changed = true
		return nil
	})
	if err != nil {
		p.log.Error("changing "+p.kind+" password failed", zap.String("username", username), zap.Error(err))
		return false, fmt.Errorf("changing %s password: %w", p.kind, err)
	}
	if changed {
		p.log.Info(p.kind+" password changed", zap.String("username", username))
	}
	return changed, nil
}

// applyNames overwrites only the non-blank names and a non-nil active flag.
func applyNames(u *models.User, first, last string, active *bool) {
	if first = strings.TrimSpace(first); first != "" {
		u.FirstName = first
	}
	if last = strings.TrimSpace(last); last != "" {
		u.LastName = last
	}
	if active != nil {
		u.IsActive = *active
	}
}

func optionalString(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
