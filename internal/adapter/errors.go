package adapter

import (
	"errors"
	"strconv"

	"github.com/vigcoin/cryptonotewallet/internal/engine"
	cnerr "github.com/vigcoin/cryptonotewallet/pkg/errors"
)

// ErrShutdown is returned by commands issued after Shutdown.
var ErrShutdown = errors.New("session shut down")

// mapEngineError translates an engine failure into the session taxonomy.
// Errors that already belong to the taxonomy pass through unchanged.
func mapEngineError(err error) error {
	if err == nil {
		return nil
	}

	var ce *cnerr.CNError
	if errors.As(err, &ce) {
		return err
	}

	var ee *engine.Error
	if !errors.As(err, &ee) {
		return cnerr.WithCause(cnerr.ErrEngine, err)
	}

	switch {
	case ee.Code == engine.CodeWrongPassword:
		return cnerr.WithCause(cnerr.ErrInvalidPassword, err)
	case ee.Code.IsValidation():
		return cnerr.WithDetails(cnerr.WithCause(cnerr.ErrValidation, err), engineDetails(ee))
	default:
		return cnerr.WithDetails(cnerr.WithCause(cnerr.ErrEngine, err), engineDetails(ee))
	}
}

func engineDetails(ee *engine.Error) map[string]string {
	return map[string]string{"engine_code": strconv.Itoa(int(ee.Code))}
}
