// Package credentials issues usernames and passwords for new gym profiles
// and hashes passwords for storage.
package credentials

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	alphabet       = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	PasswordLength = 10
)

// UsernameLookup reports whether a username is already taken.
type UsernameLookup interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// Generator produces passwords from a cryptographically secure source.
type Generator struct {
	rand io.Reader
}

// NewGenerator returns a Generator reading from crypto/rand.
func NewGenerator() *Generator {
	return &Generator{rand: rand.Reader}
}

// GeneratePassword returns PasswordLength characters drawn uniformly from alphabet.
// It panics if the entropy source fails.
func (g *Generator) GeneratePassword() string {
	size := big.NewInt(int64(len(alphabet)))
	var sb strings.Builder
	sb.Grow(PasswordLength)
	for i := 0; i < PasswordLength; i++ {
		n, err := rand.Int(g.rand, size)
		if err != nil {
			panic(fmt.Sprintf("credentials: reading random source: %v", err))
		}
		sb.WriteByte(alphabet[n.Int64()])
	}
	return sb.String()
}

// GenerateUsername returns "first.last" lowercased, or the first free
// "first.lastN" for N = 1, 2, ... when that is taken.
func (g *Generator) GenerateUsername(ctx context.Context, firstName, lastName string, lookup UsernameLookup) (string, error) {
	base := BaseUsername(firstName, lastName)
	username := base
	for n := 1; ; n++ {
		taken, err := lookup.ExistsByUsername(ctx, username)
		if err != nil {
			return "", fmt.Errorf("checking username %q: %w", username, err)
		}
		if !taken {
			return username, nil
		}
		username = base + strconv.Itoa(n)
	}
}

// BaseUsername is the collision-free candidate for a name pair.
func BaseUsername(firstName, lastName string) string {
	return strings.ToLower(strings.TrimSpace(firstName) + "." + strings.TrimSpace(lastName))
}

// HashPassword returns a bcrypt hash of plain using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the bcrypt hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
