package frame

import "math"

// Audio format constants shared by every capture backend. Backends that
// cannot deliver this format natively are responsible for converting.
const (
	SampleRate = 44100
	Channels   = 2
	// Frames is the number of stereo sample pairs per Frame.
	Frames = 1024
	// TotalSamples is the interleaved sample count per Frame.
	TotalSamples = Frames * Channels
)

// MaxSample is the largest representable magnitude of a 16-bit sample,
// used to normalize amplitudes into [0,1].
const MaxSample = 32767.0

// Channel indices into interleaved sample data.
const (
	Left  = 0
	Right = 1
)

// Frame is one fixed-size block of interleaved stereo 16-bit samples.
// It is a value type so ring slots and reader copies never alias.
type Frame struct {
	Samples [TotalSamples]int16
}

// Sample returns sample i of the given channel.
func (f *Frame) Sample(ch, i int) int16 {
	return f.Samples[i*Channels+ch]
}

// Peak returns the largest absolute sample of the channel, normalized
// to [0,1].
func (f *Frame) Peak(ch int) float64 {
	var peak int16
	for i := 0; i < Frames; i++ {
		s := f.Sample(ch, i)
		if s == math.MinInt16 {
			return 1
		}
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return float64(peak) / MaxSample
}

// RMS returns the root-mean-square of the channel, normalized to [0,1].
func (f *Frame) RMS(ch int) float64 {
	return f.SegmentRMS(ch, 0, 1)
}

// SegmentRMS returns the RMS of segment seg out of nseg equal slices of
// the channel, normalized to [0,1].
func (f *Frame) SegmentRMS(ch, seg, nseg int) float64 {
	start := seg * Frames / nseg
	end := (seg + 1) * Frames / nseg
	if end <= start {
		return 0
	}
	sumSq := 0.0
	for i := start; i < end; i++ {
		s := float64(f.Sample(ch, i)) / MaxSample
		sumSq += s * s
	}
	rms := math.Sqrt(sumSq / float64(end-start))
	if rms > 1 {
		return 1
	}
	return rms
}

// SegmentPeak returns the normalized peak of segment seg out of nseg
// equal slices of the channel.
func (f *Frame) SegmentPeak(ch, seg, nseg int) float64 {
	start := seg * Frames / nseg
	end := (seg + 1) * Frames / nseg
	peak := 0.0
	for i := start; i < end; i++ {
		s := math.Abs(float64(f.Sample(ch, i)))
		if s > peak {
			peak = s
		}
	}
	peak /= MaxSample
	if peak > 1 {
		return 1
	}
	return peak
}

// MinMax returns the smallest and largest raw sample of the channel in
// [start, end).
func (f *Frame) MinMax(ch, start, end int) (int16, int16) {
	if end > Frames {
		end = Frames
	}
	minS, maxS := int16(math.MaxInt16), int16(math.MinInt16)
	for i := start; i < end; i++ {
		s := f.Sample(ch, i)
		if s < minS {
			minS = s
		}
		if s > maxS {
			maxS = s
		}
	}
	return minS, maxS
}

// MonoFloat copies the frame into dst as mono float64 samples in
// [-1,1], averaging both channels. dst must hold Frames values.
func (f *Frame) MonoFloat(dst []float64) {
	n := len(dst)
	if n > Frames {
		n = Frames
	}
	for i := 0; i < n; i++ {
		l := float64(f.Sample(Left, i))
		r := float64(f.Sample(Right, i))
		dst[i] = (l + r) / (2 * MaxSample)
	}
}
