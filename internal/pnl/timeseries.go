package pnl

import "math"

// Mean returns the arithmetic mean, 0 for an empty series.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Std returns the population standard deviation, 0 for an empty series.
func Std(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mean := Mean(xs)
	sq := 0.0
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(xs)))
}

// Zscore measures how many standard deviations v sits from the series mean.
// A zero-deviation series yields 0.
func Zscore(xs []float64, v float64) float64 {
	std := Std(xs)
	if std == 0 {
		return 0
	}
	return (v - Mean(xs)) / std
}
