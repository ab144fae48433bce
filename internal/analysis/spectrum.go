package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform. len(data) must be a power
// of two; use PowerSpectrum for arbitrary lengths.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PowerSpectrum removes the mean, zero pads to a power of two and returns
// the magnitude of bins 0..n/2-1. Bin 0 is always zero after detrending.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	mean := Describe(data).Mean
	padded := make([]float64, nextPow2(len(data)))
	for i, v := range data {
		padded[i] = v - mean
	}

	fft := FFT(padded)
	ps := make([]float64, len(fft)/2)
	for i := 1; i < len(ps); i++ {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// DominantPeriod returns the period of the strongest spectral component
// in units of interval. ok is false for flat or too short series.
func DominantPeriod(data []float64, interval float64) (period float64, ok bool) {
	ps := PowerSpectrum(data)
	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if best == 0 || ps[best] < 1e-12 {
		return 0, false
	}
	n := 2 * len(ps)
	return float64(n) / float64(best) * interval, true
}

// Autocorrelation returns the normalized autocorrelation at lag.
func Autocorrelation(data []float64, lag int) float64 {
	if lag < 0 || lag >= len(data) {
		return 0
	}
	m := Describe(data).Mean
	var num, den float64
	for i, v := range data {
		d := v - m
		den += d * d
		if i+lag < len(data) {
			num += d * (data[i+lag] - m)
		}
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// Moments summarizes a series.
type Moments struct {
	Count    int
	Mean     float64
	StdDev   float64
	Min, Max float64
}

func Describe(data []float64) Moments {
	if len(data) == 0 {
		return Moments{}
	}
	m := Moments{Count: len(data), Min: data[0], Max: data[0]}
	for _, v := range data {
		m.Mean += v
		m.Min = math.Min(m.Min, v)
		m.Max = math.Max(m.Max, v)
	}
	m.Mean /= float64(len(data))
	for _, v := range data {
		m.StdDev += (v - m.Mean) * (v - m.Mean)
	}
	m.StdDev = math.Sqrt(m.StdDev / float64(len(data)))
	return m
}
