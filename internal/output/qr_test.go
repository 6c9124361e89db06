package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rsc.io/qr"
)

const testAddress = "cn1qz3vfm0ejg2x6g4u8l4a7yvmhs0r7r3t9y8kp7z"

func TestDefaultQRConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultQRConfig()

	assert.Equal(t, qr.M, cfg.Level)
	assert.Equal(t, 1, cfg.QuietZone)
	assert.True(t, cfg.HalfBlocks)
	assert.False(t, cfg.Force)
}

func TestRenderQR_NonTerminalWritesNothing(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	require.NoError(t, RenderQR(&buf, testAddress, DefaultQRConfig()))
	assert.Empty(t, buf.String())
}

func TestRenderQR_Forced(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	cfg := DefaultQRConfig()
	cfg.Force = true

	require.NoError(t, RenderQR(&buf, testAddress, cfg))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Greater(t, len(lines), 10)
}

func TestRenderQR_TooLong(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	cfg := DefaultQRConfig()
	cfg.Level = qr.H
	cfg.Force = true

	require.Error(t, RenderQR(&buf, strings.Repeat("x", 4000), cfg))
	assert.Empty(t, buf.String())
}
