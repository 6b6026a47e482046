package bench

// Driver defaults
const (
	// DefaultIterations is the number of back-to-back updates per timed batch.
	DefaultIterations = 10000

	// DefaultRepeats is the number of timed batches per variant.
	DefaultRepeats = 1

	// minStdDevSamples is the batch count below which the spread is reported as zero.
	minStdDevSamples = 2
)

// Mode and strategy labels used in file names, logs and metrics.
const (
	ModeSingle = "singlemode"
	ModeMulti  = "multimode"

	StrategySequential = "loop"
	StrategyBroadcast  = "broadcast"
)
