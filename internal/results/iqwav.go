package results

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// EncodeIQ converts samples to interleaved 16-bit I/Q pairs scaled so the
// largest component sits just below full scale. It returns the scale used;
// an all-zero input yields zero samples and a zero scale.
func EncodeIQ(samples []complex128) (data []int, scale float64) {
	peak := 0.0
	for _, s := range samples {
		peak = math.Max(peak, math.Max(math.Abs(real(s)), math.Abs(imag(s))))
	}
	data = make([]int, len(samples)*iqChannels)
	if peak == 0 {
		return data, 0
	}

	scale = iqHeadroom * iqFullScale / peak
	for i, s := range samples {
		data[iqChannels*i] = int(math.Round(real(s) * scale))
		data[iqChannels*i+1] = int(math.Round(imag(s) * scale))
	}
	return data, scale
}

// WriteIQWAV writes samples as a stereo 16-bit PCM WAV file (I left, Q
// right) at sampleRate, for inspection in SDR and audio tools. It returns the
// scale applied to the samples.
func WriteIQWAV(path string, samples []complex128, sampleRate int) (scale float64, err error) {
	if sampleRate <= 0 {
		sampleRate = DefaultIQRate
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create I/Q WAV: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close I/Q WAV: %w", cerr)
		}
	}()

	data, scale := EncodeIQ(samples)
	enc := wav.NewEncoder(f, sampleRate, iqBitDepth, iqChannels, iqPCMFormat)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: iqChannels,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: iqBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return 0, fmt.Errorf("failed to encode I/Q WAV: %w", err)
	}
	if err := enc.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize I/Q WAV: %w", err)
	}
	return scale, nil
}

// WriteIQ writes the I/Q capture to name inside the writer directory.
func (w *Writer) WriteIQ(name string, samples []complex128, sampleRate int) error {
	_, err := WriteIQWAV(w.Path(name), samples, sampleRate)
	w.logResult(name, err)
	return err
}

// IQCapture is an I/Q WAV read back from disk, normalised so a full-scale
// PCM value reads as 1.
type IQCapture struct {
	Samples    []complex128
	SampleRate int
	BitDepth   int
}

// ReadIQWAV loads a stereo PCM WAV as I/Q samples in [-1, 1].
func ReadIQWAV(path string) (*IQCapture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open I/Q WAV: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid WAV file: %s", ErrMalformed, path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode I/Q WAV: %w", err)
	}
	if buf.Format.NumChannels != iqChannels {
		return nil, fmt.Errorf("%w: I/Q WAV needs %d channels, got %d", ErrMalformed, iqChannels, buf.Format.NumChannels)
	}

	bitDepth := int(dec.BitDepth)
	fullScale := float64(int(1)<<(bitDepth-1) - 1)
	n := len(buf.Data) / iqChannels
	c := &IQCapture{
		Samples:    make([]complex128, n),
		SampleRate: buf.Format.SampleRate,
		BitDepth:   bitDepth,
	}
	for i := range n {
		c.Samples[i] = complex(
			float64(buf.Data[iqChannels*i])/fullScale,
			float64(buf.Data[iqChannels*i+1])/fullScale)
	}
	return c, nil
}
