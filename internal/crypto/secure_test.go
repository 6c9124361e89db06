package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vigcoin/cryptonotewallet/internal/crypto"
)

func TestSecret_Lifecycle(t *testing.T) {
	t.Parallel()
	src := []byte("hunter2")
	s := crypto.NewSecret(src)

	src[0] = 'X'
	assert.Equal(t, "hunter2", s.String(), "secret owns a copy")
	assert.True(t, s.Equal("hunter2"))
	assert.False(t, s.Equal("hunter3"))
	assert.Equal(t, 7, s.Len())

	s.Destroy()
	assert.Empty(t, s.String())
	assert.Zero(t, s.Len())
	assert.False(t, s.IsLocked())
	s.Destroy()
}

func TestSecret_Empty(t *testing.T) {
	t.Parallel()
	s := crypto.NewSecretString("")
	assert.True(t, s.Equal(""))
	assert.False(t, s.IsLocked())
}
