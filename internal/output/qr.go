package output

import (
	"fmt"
	"io"

	"github.com/mdp/qrterminal/v3"
	"rsc.io/qr"
)

// QRConfig configures terminal QR rendering.
type QRConfig struct {
	Level      qr.Level
	QuietZone  int
	HalfBlocks bool

	// Force renders even when the writer is not a terminal.
	Force bool
}

// DefaultQRConfig suits wallet addresses on a terminal.
func DefaultQRConfig() QRConfig {
	return QRConfig{
		Level:      qr.M,
		QuietZone:  1,
		HalfBlocks: true,
	}
}

// RenderQR draws data as a QR code. Nothing is written to a non-terminal
// unless cfg.Force is set. Data that does not fit a QR code at cfg.Level is
// an error.
func RenderQR(w io.Writer, data string, cfg QRConfig) error {
	if _, err := qr.Encode(data, cfg.Level); err != nil {
		return fmt.Errorf("encoding QR code: %w", err)
	}
	if !cfg.Force && !IsTerminal(w) {
		return nil
	}

	qrterminal.GenerateWithConfig(data, qrterminal.Config{
		Level:          cfg.Level,
		Writer:         w,
		QuietZone:      cfg.QuietZone,
		HalfBlocks:     cfg.HalfBlocks,
		BlackChar:      qrterminal.BLACK_BLACK,
		WhiteChar:      qrterminal.WHITE_WHITE,
		WhiteBlackChar: qrterminal.WHITE_BLACK,
		BlackWhiteChar: qrterminal.BLACK_WHITE,
	})
	return nil
}
