package bench

// Variant identifies one mode-configuration x strategy combination.
type Variant int

// The four benchmarked combinations, in the order the timing file lists them.
const (
	SingleSequential Variant = iota
	SingleBroadcast
	MultiSequential
	MultiBroadcast

	NumVariants = 4
)

// Variants lists every combination in timing-file order.
var Variants = [NumVariants]Variant{SingleSequential, SingleBroadcast, MultiSequential, MultiBroadcast}

// Mode returns ModeSingle or ModeMulti.
func (v Variant) Mode() string {
	if v == SingleSequential || v == SingleBroadcast {
		return ModeSingle
	}
	return ModeMulti
}

// Strategy returns StrategySequential or StrategyBroadcast.
func (v Variant) Strategy() string {
	if v == SingleSequential || v == MultiSequential {
		return StrategySequential
	}
	return StrategyBroadcast
}

// Multi reports whether v updates the multi-mode bank.
func (v Variant) Multi() bool {
	return v.Mode() == ModeMulti
}

// String returns e.g. "multimode_broadcast".
func (v Variant) String() string {
	if v < 0 || v >= NumVariants {
		return "unknown"
	}
	return v.Mode() + "_" + v.Strategy()
}
