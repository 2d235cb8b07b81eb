package windowing

import (
	"fmt"
)

// Type identifies a window (taper) function
type Type string

const (
	TypeHann        Type = "hann"
	TypeHamming     Type = "hamming"
	TypeRectangular Type = "rectangular"
)

// Window is the common surface of the taper implementations in this package.
// Energy (sum of squared coefficients) and Sum feed spectral density
// normalization, so both are computed once at construction.
type Window interface {
	Apply(signal []float64) []float64
	ApplyInPlace(signal []float64) error
	GetCoefficients() []float64
	GetSize() int
	GetType() string
	Energy() float64
	Sum() float64
}

// New creates a window of the given type. Periodic (symmetric=false)
// windows are the right choice for spectral estimation; symmetric ones
// for filter design.
func New(windowType Type, size int, symmetric bool) (Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be positive: %d", size)
	}

	switch windowType {
	case TypeHann:
		return NewHann(size, symmetric), nil
	case TypeHamming:
		return NewHamming(size, symmetric), nil
	case TypeRectangular:
		return NewRectangular(size), nil
	default:
		return nil, fmt.Errorf("unsupported window type: %s", windowType)
	}
}

// coefficientEnergy returns the sum of squared coefficients
func coefficientEnergy(coefficients []float64) float64 {
	energy := 0.0
	for _, c := range coefficients {
		energy += c * c
	}
	return energy
}

// coefficientSum returns the plain sum of coefficients
func coefficientSum(coefficients []float64) float64 {
	sum := 0.0
	for _, c := range coefficients {
		sum += c
	}
	return sum
}
