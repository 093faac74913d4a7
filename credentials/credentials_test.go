package credentials

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type takenSet map[string]bool

func (s takenSet) ExistsByUsername(_ context.Context, username string) (bool, error) {
	return s[username], nil
}

type failingLookup struct{}

func (failingLookup) ExistsByUsername(context.Context, string) (bool, error) {
	return false, errors.New("db down")
}

func TestGeneratePassword(t *testing.T) {
	g := NewGenerator()
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		p := g.GeneratePassword()
		require.Len(t, p, PasswordLength)
		for _, r := range p {
			assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q in %q", r, p)
		}
		seen[p] = true
	}
	assert.Greater(t, len(seen), 190)
}

func TestGenerateUsername(t *testing.T) {
	ctx := context.Background()
	g := NewGenerator()

	tests := []struct {
		name  string
		first string
		last  string
		taken takenSet
		want  string
	}{
		{"free", "John", "Doe", takenSet{}, "john.doe"},
		{"trimmed", "  John ", " Doe", takenSet{}, "john.doe"},
		{"first collision", "John", "Doe", takenSet{"john.doe": true}, "john.doe1"},
		{"skips taken suffixes", "John", "Doe", takenSet{"john.doe": true, "john.doe1": true, "john.doe2": true}, "john.doe3"},
		{"gap is reused", "John", "Doe", takenSet{"john.doe": true, "john.doe2": true}, "john.doe1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.GenerateUsername(ctx, tt.first, tt.last, tt.taken)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.False(t, tt.taken[got])
		})
	}
}

func TestGenerateUsernameNeverReturnsTaken(t *testing.T) {
	ctx := context.Background()
	g := NewGenerator()
	taken := takenSet{}
	for i := 0; i < 25; i++ {
		got, err := g.GenerateUsername(ctx, "Ann", "Lee", taken)
		require.NoError(t, err)
		require.False(t, taken[got])
		taken[got] = true
	}
	assert.Len(t, taken, 25)
	assert.True(t, taken["ann.lee24"])
}

func TestGenerateUsernameLookupError(t *testing.T) {
	_, err := NewGenerator().GenerateUsername(context.Background(), "a", "b", failingLookup{})
	assert.Error(t, err)
}

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("s3cretPass", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretPass", hash)
	assert.True(t, VerifyPassword(hash, "s3cretPass"))
	assert.False(t, VerifyPassword(hash, "s3cretpass"))
	assert.False(t, VerifyPassword("not-a-hash", "s3cretPass"))
}
