// Package fixedpoint implements the ray/wad/bps fixed-point arithmetic the
// lending engine runs on. Every reserve index, rate, price, and risk
// parameter is a scaled integer; this package is the one place that
// performs the scaling, rounding, and overflow checks. Every update
// allocates a fresh new(big.Int).Add/Sub/Mul result rather than mutating
// in place, and truncates by default, with an explicit ceiling variant for
// amounts that must never round in the caller's favor.
package fixedpoint

import (
	"errors"
	"math/big"
)

var (
	// ErrOverflow is returned when an arithmetic result would not fit in
	// the 256-bit unsigned range the underlying settlement runtime uses.
	// A conventional-host port of an EVM contract must reproduce this
	// bound explicitly since math/big never overflows on its own.
	ErrOverflow = errors.New("fixedpoint: arithmetic overflow")
	// ErrDivByZero is returned by Div/MulDiv when the divisor is zero.
	ErrDivByZero = errors.New("fixedpoint: division by zero")
)

// Scale constants for the ray/wad/bps fixed-point representations.
const (
	rayDecimals = 27
	wadDecimals = 18
)

// RAY is the 27-decimal scale used for rates and indices.
var RAY = pow10(rayDecimals)

// WAD is the 18-decimal scale used for USD prices and the health factor.
var WAD = pow10(wadDecimals)

// BPS is the basis-point scale used for risk parameters.
var BPS = big.NewInt(10_000)

// maxUint256 bounds every intermediate result, mirroring the 256-bit
// unsigned register the source settlement runtime checks arithmetic
// against.
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// checkBounds rejects negative results and results that exceed the
// 256-bit unsigned range.
func checkBounds(v *big.Int) error {
	if v.Sign() < 0 {
		return ErrOverflow
	}
	if v.Cmp(maxUint256) > 0 {
		return ErrOverflow
	}
	return nil
}

// Mul multiplies two non-negative integers, failing on overflow.
func Mul(a, b *big.Int) (*big.Int, error) {
	r := new(big.Int).Mul(a, b)
	if err := checkBounds(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Div performs floor division, failing on a zero divisor.
func Div(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, ErrDivByZero
	}
	return new(big.Int).Div(a, b), nil
}

// MulDiv computes floor(a*b/c), multiplying before dividing to preserve
// precision.
func MulDiv(a, b, c *big.Int) (*big.Int, error) {
	p, err := Mul(a, b)
	if err != nil {
		return nil, err
	}
	return Div(p, c)
}

// MulDivCeil computes ceil(a*b/c) — used where rounding in the protocol's
// favor matters (e.g. debt owed).
func MulDivCeil(a, b, c *big.Int) (*big.Int, error) {
	p, err := Mul(a, b)
	if err != nil {
		return nil, err
	}
	if c.Sign() == 0 {
		return nil, ErrDivByZero
	}
	q, r := new(big.Int).DivMod(p, c, new(big.Int))
	if r.Sign() != 0 {
		q = new(big.Int).Add(q, big.NewInt(1))
	}
	if err := checkBounds(q); err != nil {
		return nil, err
	}
	return q, nil
}

// Add adds two non-negative integers, failing on overflow.
func Add(a, b *big.Int) (*big.Int, error) {
	r := new(big.Int).Add(a, b)
	if err := checkBounds(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Sub subtracts b from a, failing if the result would be negative.
func Sub(a, b *big.Int) (*big.Int, error) {
	r := new(big.Int).Sub(a, b)
	if r.Sign() < 0 {
		return nil, ErrOverflow
	}
	return r, nil
}

// Min returns the smaller of two integers.
func Min(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}

// MaxUint256 returns the maximum representable value, used to saturate the
// health factor to "infinity" when a user carries no debt.
func MaxUint256() *big.Int {
	return new(big.Int).Set(maxUint256)
}
