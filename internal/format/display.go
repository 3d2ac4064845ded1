package format

import (
	"fmt"
	"math"
	"math/big"
	"time"
)

// EstimatedGas is the flat fee shown on confirmation screens.
const EstimatedGas = "0.002"

var estimatedGasWei = big.NewInt(2_000_000_000_000_000)

// DaysLeft returns the whole days between now and deadline, rounded to the
// nearest day. Deadlines in the past report zero.
func DaysLeft(deadline, now time.Time) int {
	days := math.Round(deadline.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

// BarPercentage returns round(collected/target*100) clamped to [0, 100].
// Unparseable amounts and a zero target yield zero.
func BarPercentage(target, collected string) int {
	t, err := ParseEther(target)
	if err != nil || t.Sign() <= 0 {
		return 0
	}
	c, err := ParseEther(collected)
	if err != nil || c.Sign() <= 0 {
		return 0
	}
	// round half up: (2*c*100 + t) / (2*t)
	num := new(big.Int).Mul(c, big.NewInt(200))
	num.Add(num, t)
	den := new(big.Int).Mul(t, big.NewInt(2))
	pct := new(big.Int).Quo(num, den)
	if pct.Cmp(big.NewInt(100)) > 0 {
		return 100
	}
	return int(pct.Int64())
}

// TotalCost adds the estimated gas to amount and renders three decimals.
func TotalCost(amount string) (string, error) {
	wei, err := ParseEther(amount)
	if err != nil {
		return "", fmt.Errorf("total cost: %w", err)
	}
	return FormatFixed(new(big.Int).Add(wei, estimatedGasWei), 3), nil
}

// ShortAddress abbreviates a hex address as 0x1234...abcd.
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
