// Package format holds the pure conversions between on-chain values and the
// strings the UI displays.
package format

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"

	"crowdfund/internal/domain"
)

const etherDecimals = 18

var weiPerEther = big.NewInt(params.Ether)

// FormatEther renders a wei amount as a decimal ether string. The fraction is
// trimmed of trailing zeros but always keeps one digit, so one ether is "1.0".
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}
	neg := wei.Sign() < 0
	abs := new(big.Int).Abs(wei)
	whole, frac := new(big.Int).QuoRem(abs, weiPerEther, new(big.Int))

	fraction := frac.String()
	fraction = strings.Repeat("0", etherDecimals-len(fraction)) + fraction
	fraction = strings.TrimRight(fraction, "0")
	if fraction == "" {
		fraction = "0"
	}
	out := whole.String() + "." + fraction
	if neg {
		out = "-" + out
	}
	return out
}

// ParseEther converts a decimal ether string into wei. At most 18 fractional
// digits are accepted.
func ParseEther(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("parse ether %q: %w", s, domain.ErrInvalidInput)
	}
	if !digitsOnly(whole) || !digitsOnly(frac) {
		return nil, fmt.Errorf("parse ether %q: %w", s, domain.ErrInvalidInput)
	}
	if len(frac) > etherDecimals {
		return nil, fmt.Errorf("parse ether %q: fractional component exceeds %d decimals: %w", s, etherDecimals, domain.ErrInvalidInput)
	}
	if whole == "" {
		whole = "0"
	}
	frac += strings.Repeat("0", etherDecimals-len(frac))

	wei, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("parse ether %q: %w", s, domain.ErrInvalidInput)
	}
	if neg {
		wei.Neg(wei)
	}
	return wei, nil
}

// FormatFixed renders wei with exactly places fractional digits, rounding
// half away from zero.
func FormatFixed(wei *big.Int, places int) string {
	if wei == nil {
		wei = new(big.Int)
	}
	if places < 0 {
		places = 0
	}
	if places > etherDecimals {
		places = etherDecimals
	}
	neg := wei.Sign() < 0
	abs := new(big.Int).Abs(wei)

	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(etherDecimals-places)), nil)
	half := new(big.Int).Quo(unit, big.NewInt(2))
	scaled := new(big.Int).Quo(new(big.Int).Add(abs, half), unit)

	digits := scaled.String()
	if len(digits) <= places {
		digits = strings.Repeat("0", places-len(digits)+1) + digits
	}
	out := digits
	if places > 0 {
		out = digits[:len(digits)-places] + "." + digits[len(digits)-places:]
	}
	if neg && scaled.Sign() != 0 {
		out = "-" + out
	}
	return out
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
