package crypto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheck(t *testing.T) {
	h, err := HashPasswordCost("s3cret!", bcrypt.MinCost)
	require.NoError(t, err)
	require.True(t, CheckPassword("s3cret!", h))
	require.False(t, CheckPassword("wrong", h))
}

func TestHashPassword_Error(t *testing.T) {
	prev := bcryptGenerateFromPassword
	bcryptGenerateFromPassword = func([]byte, int) ([]byte, error) { return nil, errors.New("boom") }
	t.Cleanup(func() { bcryptGenerateFromPassword = prev })

	_, err := HashPassword("x")
	require.Error(t, err)
}
