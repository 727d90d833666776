// Package ratemodel implements the interest-rate model: a pure, stateless
// mapping from (totalLiquidity, totalDebt) to (liquidityRate, borrowRate),
// expressed in ray.
package ratemodel

import (
	"math/big"

	"github.com/palaseus/adrenolend/pkg/fixedpoint"
)

// Model is the interest-rate-model interface consumed by a Reserve. Each
// reserve holds its own Model handle, so different reserves may use
// different curves rather than sharing one global model.
type Model interface {
	// CalculateInterestRates returns (liquidityRate, borrowRate) in ray,
	// given the reserve's total liquidity and total debt in the
	// underlying asset's native units.
	CalculateInterestRates(totalLiquidity, totalDebt *big.Int) (liquidityRate, borrowRate *big.Int, err error)
}

// TwoSlopeModel is a kinked interest-rate curve: a base rate, a first
// slope up to the optimal utilization point, and a steeper second slope
// beyond it.
type TwoSlopeModel struct {
	BaseRate           *big.Int // ray
	Slope1             *big.Int // ray
	Slope2             *big.Int // ray
	OptimalUtilization *big.Int // ray, in (0, RAY)
}

// RayFromPercent converts an integer percentage (e.g. 80 for 80%) into its
// ray-scaled fixed-point representation, the unit config.ReserveConfig's
// human-readable percentage fields are expressed in.
func RayFromPercent(percent int64) (*big.Int, error) {
	return fixedpoint.MulDiv(big.NewInt(percent), fixedpoint.RAY, big.NewInt(100))
}

// NewTwoSlopeModel constructs a model from its four ray-valued constants.
func NewTwoSlopeModel(baseRate, slope1, slope2, optimalUtilization *big.Int) *TwoSlopeModel {
	return &TwoSlopeModel{
		BaseRate:           new(big.Int).Set(baseRate),
		Slope1:             new(big.Int).Set(slope1),
		Slope2:             new(big.Int).Set(slope2),
		OptimalUtilization: new(big.Int).Set(optimalUtilization),
	}
}

// MaxBorrowRate returns baseRate + slope1 + slope2, the cap applied to the
// computed borrow rate.
func (m *TwoSlopeModel) MaxBorrowRate() (*big.Int, error) {
	sum, err := fixedpoint.Add(m.BaseRate, m.Slope1)
	if err != nil {
		return nil, err
	}
	return fixedpoint.Add(sum, m.Slope2)
}

// CalculateInterestRates implements Model.
func (m *TwoSlopeModel) CalculateInterestRates(totalLiquidity, totalDebt *big.Int) (*big.Int, *big.Int, error) {
	maxBorrowRate, err := m.MaxBorrowRate()
	if err != nil {
		return nil, nil, err
	}

	if totalLiquidity.Sign() == 0 {
		return big.NewInt(0), new(big.Int).Set(m.BaseRate), nil
	}

	utilization := big.NewInt(0)
	if totalDebt.Sign() != 0 {
		u, err := fixedpoint.MulDiv(totalDebt, fixedpoint.RAY, totalLiquidity)
		if err != nil {
			return nil, nil, err
		}
		utilization = u
	}

	var borrowRate *big.Int
	if utilization.Cmp(m.OptimalUtilization) <= 0 {
		// borrowRate = baseRate + utilization * slope1 / optimalUtilization
		term, err := fixedpoint.MulDiv(utilization, m.Slope1, m.OptimalUtilization)
		if err != nil {
			return nil, nil, err
		}
		borrowRate, err = fixedpoint.Add(m.BaseRate, term)
		if err != nil {
			return nil, nil, err
		}
	} else {
		// excess = utilization - optimalUtilization
		excess, err := fixedpoint.Sub(utilization, m.OptimalUtilization)
		if err != nil {
			return nil, nil, err
		}
		denom, err := fixedpoint.Sub(fixedpoint.RAY, m.OptimalUtilization)
		if err != nil {
			return nil, nil, err
		}
		term, err := fixedpoint.MulDiv(excess, m.Slope2, denom)
		if err != nil {
			return nil, nil, err
		}
		base1, err := fixedpoint.Add(m.BaseRate, m.Slope1)
		if err != nil {
			return nil, nil, err
		}
		borrowRate, err = fixedpoint.Add(base1, term)
		if err != nil {
			return nil, nil, err
		}
	}

	if borrowRate.Cmp(maxBorrowRate) > 0 {
		borrowRate = new(big.Int).Set(maxBorrowRate)
	}

	liquidityRate, err := fixedpoint.MulDiv(borrowRate, utilization, fixedpoint.RAY)
	if err != nil {
		return nil, nil, err
	}

	return liquidityRate, borrowRate, nil
}
