package results

import "os"

// Result file names, matching the layout consumed by external checkers.
const (
	FileMultiInput  = "cma_multimode_input.txt"
	FileMultiOutEq  = "cma_multimode_outeq.txt"
	FileSingleLoop  = "cma_singlemode_loop_output.txt"
	FileSingleBroad = "cma_singlemode_broadcast_output.txt"
	FileMultiLoop   = "cma_multimode_loop_output.txt"
	FileMultiBroad  = "cma_multimode_broadcast_output.txt"
	FileTiming      = "cma_timing.txt"

	// Optional artifacts
	FileMetrics  = "cma_timing.prom"
	FileIQWAV    = "cma_multimode_input_iq.wav"
	FileManifest = "cma_manifest.json"

	// DefaultDir is the result directory used when none is configured.
	DefaultDir = "data"

	filePerm = os.FileMode(0o644)
)

// Text formatting
const (
	// complexDigits is the number of digits after the point in %e notation,
	// giving 19 significant digits per component.
	complexDigits = 18

	// timingDigits is the fractional precision of elapsed seconds.
	timingDigits = 10

	// timingFileLines is four elapsed times plus the iteration count.
	timingFileLines = 5

	writerBufferSize = 64 * 1024
)

// I/Q WAV export
const (
	iqChannels  = 2 // I on the left channel, Q on the right
	iqBitDepth  = 16
	iqPCMFormat = 1
	iqFullScale = 32767.0
	iqHeadroom  = 0.99

	// DefaultIQRate is the nominal sample rate written to the WAV header.
	DefaultIQRate = 48000
)
