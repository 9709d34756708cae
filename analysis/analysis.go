// Package analysis measures the tone and banding scale of a frame.
//
// Stats summarizes the luminance distribution. DominantWavelength estimates
// the spacing of the bands from the averaged power spectrum of the rows,
// and RadialProfile averages luminance over rings around a point, which is
// how rings spreading from a seed show up.
package analysis

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/gogpu/turing/frame"
)

// Stats summarizes the luminance of a buffer.
type Stats struct {
	Mean     float64
	Variance float64
	Min      float64
	Max      float64

	// DarkFraction is the share of texels with luminance below 0.5.
	DarkFraction float64
}

// Measure computes luminance statistics over every texel of buf.
func Measure(buf *frame.Buffer) Stats {
	w, h := buf.Width(), buf.Height()
	n := w * h
	if n == 0 {
		return Stats{}
	}

	s := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum, sum2 float64
	dark := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float64(buf.At(x, y).Luminance())
			sum += v
			sum2 += v * v
			s.Min = math.Min(s.Min, v)
			s.Max = math.Max(s.Max, v)
			if v < 0.5 {
				dark++
			}
		}
	}
	s.Mean = sum / float64(n)
	s.Variance = math.Max(0, sum2/float64(n)-s.Mean*s.Mean)
	s.DarkFraction = float64(dark) / float64(n)
	return s
}

// Spectrum is the row-averaged power spectrum of a buffer's luminance.
// Power[k] belongs to a spatial period of Width/k texels.
type Spectrum struct {
	Width int
	Power []float64
}

// RowSpectrum computes the power spectrum of every row's luminance, with
// the row mean removed, and averages them.
func RowSpectrum(buf *frame.Buffer) Spectrum {
	w, h := buf.Width(), buf.Height()
	if w < 2 || h == 0 {
		return Spectrum{Width: w}
	}

	fft := fourier.NewFFT(w)
	row := make([]float64, w)
	coeff := make([]complex128, w/2+1)
	power := make([]float64, w/2+1)

	for y := 0; y < h; y++ {
		var mean float64
		for x := range row {
			row[x] = float64(buf.At(x, y).Luminance())
			mean += row[x]
		}
		mean /= float64(w)
		for x := range row {
			row[x] -= mean
		}
		coeff = fft.Coefficients(coeff, row)
		for k, c := range coeff {
			a := cmplx.Abs(c)
			power[k] += a * a
		}
	}
	for k := range power {
		power[k] /= float64(h)
	}
	return Spectrum{Width: w, Power: power}
}

// noiseFloor is the power below which a bin is rounding noise.
const noiseFloor = 1e-12

// Peak returns the frequency index with the most power, ignoring the DC
// term. It returns 0 when the spectrum carries no power.
func (s Spectrum) Peak() int {
	best, bestPower := 0, noiseFloor
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > bestPower {
			best, bestPower = k, s.Power[k]
		}
	}
	return best
}

// Wavelength returns the period in texels of frequency index k, or 0 for
// the DC term.
func (s Spectrum) Wavelength(k int) float64 {
	if k <= 0 {
		return 0
	}
	return float64(s.Width) / float64(k)
}

// DominantWavelength returns the strongest banding period along x, in
// texels. A flat buffer has no bands and yields 0.
func DominantWavelength(buf *frame.Buffer) float64 {
	s := RowSpectrum(buf)
	return s.Wavelength(s.Peak())
}

// RadialProfile returns the mean luminance of the texels whose centre lies
// at distance [r, r+1) from (cx, cy), for r = 0 … bins-1. Rings holding no
// texel are NaN.
func RadialProfile(buf *frame.Buffer, cx, cy float64, bins int) []float64 {
	if bins <= 0 {
		return nil
	}
	sum := make([]float64, bins)
	count := make([]int, bins)
	for y := 0; y < buf.Height(); y++ {
		for x := 0; x < buf.Width(); x++ {
			r := int(math.Hypot(float64(x)-cx, float64(y)-cy))
			if r >= bins {
				continue
			}
			sum[r] += float64(buf.At(x, y).Luminance())
			count[r]++
		}
	}
	for i := range sum {
		if count[i] == 0 {
			sum[i] = math.NaN()
			continue
		}
		sum[i] /= float64(count[i])
	}
	return sum
}
