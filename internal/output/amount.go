package output

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	cnerr "github.com/vigcoin/cryptonotewallet/pkg/errors"
)

// Decimals is the number of fractional digits in one coin.
const Decimals = 8

const atomicPerCoin = 100_000_000

// FormatAmount renders atomic units as a decimal coin amount with trailing
// zeros trimmed, for example 150000000 as "1.5".
func FormatAmount(atomic uint64) string {
	whole := atomic / atomicPerCoin
	frac := atomic % atomicPerCoin
	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}
	fs := strings.TrimRight(fmt.Sprintf("%0*d", Decimals, frac), "0")
	return strconv.FormatUint(whole, 10) + "." + fs
}

// FormatSigned renders a signed transaction total with an explicit sign.
func FormatSigned(amount int64) string {
	if amount < 0 {
		return "-" + FormatAmount(uint64(-amount)) //nolint:gosec // G115: negated negative value
	}
	return "+" + FormatAmount(uint64(amount))
}

// ParseAmount parses a decimal coin amount into atomic units. At most
// Decimals fractional digits are accepted.
func ParseAmount(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	invalid := cnerr.WithDetails(cnerr.ErrInvalidInput, map[string]string{"amount": s})
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, invalid
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && (!hasFrac || frac == "") {
		return 0, invalid
	}
	if len(frac) > Decimals {
		return 0, cnerr.WithSuggestion(invalid, fmt.Sprintf("use at most %d decimal places", Decimals))
	}

	var w uint64
	if whole != "" {
		var err error
		if w, err = strconv.ParseUint(whole, 10, 64); err != nil {
			return 0, invalid
		}
	}
	var f uint64
	if frac != "" {
		var err error
		if f, err = strconv.ParseUint(frac+strings.Repeat("0", Decimals-len(frac)), 10, 64); err != nil {
			return 0, invalid
		}
	}

	if w > (math.MaxUint64-f)/atomicPerCoin {
		return 0, invalid
	}
	return w*atomicPerCoin + f, nil
}
