package dsp

import (
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/hamzabk/termscope/internal/frame"
)

// Spectrum frequency range shown by the spectrum bar mode.
const (
	spectrumMinHz = 30.0
	spectrumMaxHz = 12000.0
)

// Spectrum splits a frame into logarithmically spaced frequency bands.
// The band energies feed the same per-bar envelope smoothing as the
// time-domain bar graph.
type Spectrum struct {
	bands  int
	window []float64
	buf    []float64
	edges  []int
}

// NewSpectrum creates an analyzer producing the given number of bands.
func NewSpectrum(bands int) *Spectrum {
	if bands <= 0 {
		bands = 32
	}
	s := &Spectrum{
		bands:  bands,
		window: make([]float64, frame.Frames),
		buf:    make([]float64, frame.Frames),
	}
	sizeF := float64(frame.Frames)
	for i := range s.window {
		s.window[i] = hann(float64(i), sizeF)
	}
	s.edges = bandEdges(bands, frame.Frames)
	return s
}

// Bands returns the number of bands produced by Analyze.
func (s *Spectrum) Bands() int {
	return s.bands
}

// Analyze fills out with one energy in [0,1] per band for the frame's
// mono mix. len(out) must be Bands().
func (s *Spectrum) Analyze(f *frame.Frame, out []float64) {
	f.MonoFloat(s.buf)
	for i := range s.buf {
		s.buf[i] *= s.window[i]
	}

	bins := fft.FFTReal(s.buf)

	// Hann window halves the coherent gain, hence 4/N to bring a
	// full-scale sine back to ~1.0 at its bin.
	scale := 4.0 / float64(frame.Frames)
	for b := 0; b < s.bands && b < len(out); b++ {
		lo, hi := s.edges[b], s.edges[b+1]
		peak := 0.0
		for i := lo; i < hi && i < len(bins)/2; i++ {
			if m := cmag(bins[i]) * scale; m > peak {
				peak = m
			}
		}
		if peak > 1 {
			peak = 1
		}
		out[b] = peak
	}
}

// bandEdges returns bands+1 bin boundaries, log spaced across the
// displayed frequency range and at least one bin wide each.
func bandEdges(bands, size int) []int {
	res := frame.SampleRate / float64(size)
	edges := make([]int, bands+1)
	ratio := spectrumMaxHz / spectrumMinHz
	for k := 0; k <= bands; k++ {
		hz := spectrumMinHz * math.Pow(ratio, float64(k)/float64(bands))
		bin := int(hz / res)
		if k > 0 && bin <= edges[k-1] {
			bin = edges[k-1] + 1
		}
		if bin > size/2 {
			bin = size / 2
		}
		edges[k] = bin
	}
	return edges
}

func hann(i, size float64) float64 {
	return 0.5 * (1.0 - math.Cos(2.0*math.Pi*i/size))
}

func cmag(c complex128) float64 {
	return math.Sqrt(real(c)*real(c) + imag(c)*imag(c))
}
