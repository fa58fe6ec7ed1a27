// Package math provides the statistical primitives the results analyzer
// is built on. Undefined conditions surface as errors so a zero is never
// mistaken for a computed value
package math

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoValues occurs when a calculation requires at least one value
	ErrNoValues = errors.New("no values provided")
	// ErrNotEnoughValues occurs when a calculation requires more values
	// than were provided
	ErrNotEnoughValues = errors.New("not enough values provided")
	// ErrZeroVariance occurs when a ratio would divide by a zero spread
	ErrZeroVariance = errors.New("standard deviation is zero, ratio undefined")
	// ErrLengthMismatch occurs when paired series differ in length
	ErrLengthMismatch = errors.New("series lengths do not match")
)

// DecimalArithmeticMean returns the arithmetic mean of values
func DecimalArithmeticMean(values []decimal.Decimal) (decimal.Decimal, error) {
	if len(values) == 0 {
		return decimal.Zero, ErrNoValues
	}
	var sum decimal.Decimal
	for x := range values {
		sum = sum.Add(values[x])
	}
	return sum.Div(decimal.NewFromInt(int64(len(values)))), nil
}

// DecimalSampleStandardDeviation measures dispersion relative to the mean
// using the n-1 denominator. The square root is taken through float64,
// which is close enough for ratio reporting
func DecimalSampleStandardDeviation(values []decimal.Decimal) (decimal.Decimal, error) {
	if len(values) < 2 {
		return decimal.Zero, ErrNotEnoughValues
	}
	mean, err := DecimalArithmeticMean(values)
	if err != nil {
		return decimal.Zero, err
	}
	var combined decimal.Decimal
	for x := range values {
		diff := values[x].Sub(mean)
		combined = combined.Add(diff.Mul(diff))
	}
	variance := combined.Div(decimal.NewFromInt(int64(len(values) - 1)))
	v, _ := variance.Float64()
	return decimal.NewFromFloat(math.Sqrt(v)), nil
}

// DecimalSharpeRatio returns the annualised excess return per unit of
// volatility. ErrZeroVariance is returned when the returns do not move,
// as the ratio is undefined rather than zero
func DecimalSharpeRatio(returns []decimal.Decimal, riskFreeRatePerPeriod decimal.Decimal, periodsPerYear float64) (decimal.Decimal, error) {
	if len(returns) < 2 {
		return decimal.Zero, ErrNotEnoughValues
	}
	excess := make([]decimal.Decimal, len(returns))
	for x := range returns {
		excess[x] = returns[x].Sub(riskFreeRatePerPeriod)
	}
	mean, err := DecimalArithmeticMean(excess)
	if err != nil {
		return decimal.Zero, err
	}
	stdDev, err := DecimalSampleStandardDeviation(excess)
	if err != nil {
		return decimal.Zero, err
	}
	if stdDev.IsZero() {
		return decimal.Zero, ErrZeroVariance
	}
	annualise := decimal.NewFromFloat(math.Sqrt(periodsPerYear))
	return mean.Div(stdDev).Mul(annualise), nil
}

// DecimalOrdinaryLeastSquares regresses y on x and returns the slope
// (beta) and intercept (alpha)
func DecimalOrdinaryLeastSquares(x, y []decimal.Decimal) (beta, alpha decimal.Decimal, err error) {
	if len(x) != len(y) {
		return decimal.Zero, decimal.Zero, ErrLengthMismatch
	}
	if len(x) < 2 {
		return decimal.Zero, decimal.Zero, ErrNotEnoughValues
	}
	meanX, err := DecimalArithmeticMean(x)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	meanY, err := DecimalArithmeticMean(y)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	var covariance, varianceX decimal.Decimal
	for i := range x {
		dx := x[i].Sub(meanX)
		covariance = covariance.Add(dx.Mul(y[i].Sub(meanY)))
		varianceX = varianceX.Add(dx.Mul(dx))
	}
	if varianceX.IsZero() {
		return decimal.Zero, decimal.Zero, ErrZeroVariance
	}
	beta = covariance.Div(varianceX)
	alpha = meanY.Sub(beta.Mul(meanX))
	return beta, alpha, nil
}
