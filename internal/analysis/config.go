// Package analysis is the analytical core: per-period stats, category
// breakdowns, rule-based pattern detection, category trends and the
// cross-month behavior profiler. Everything here is a pure computation over
// an in-memory transaction slice; no I/O, no shared state.
package analysis

// Config carries every tunable threshold the engine uses. Thresholds are
// injected rather than hard-coded so tests can override them and product
// tuning never touches detection logic.
type Config struct {
	// SpikeMultiplier: a day is a spike candidate when its expense total
	// exceeds SpikeMultiplier times the period's median daily expense.
	SpikeMultiplier float64

	// SpikeFloorCents: absolute minimum a day must exceed to be flagged,
	// so trivial days in a low-spend month are never reported.
	SpikeFloorCents int64

	// HealthySavingsRate: the cashflow flag is "warning" when net is
	// non-negative but the savings rate is at or below this value. The
	// boundary is inclusive: exactly 0.10 is still a warning.
	HealthySavingsRate float64

	// Rule-fallback archetype cutoffs, checked in fixed priority order:
	// subscription share first, then savings rate, then shopping share.
	SubscriptionShareCutoff float64
	SuperSaverRate          float64
	ShoppingShareCutoff     float64

	// MinClusterPeriods gates the clustering path; below it the profiler
	// always uses the deterministic rule fallback.
	MinClusterPeriods int

	// ClusterCount is one cluster per archetype.
	ClusterCount int
}

// Default threshold values. These are product decisions; the comparison
// directions around them are contractual, the values are tuning.
const (
	DefaultSpikeMultiplier         = 1.5
	DefaultSpikeFloorCents         = 50_000 // 500.00 in currency units
	DefaultHealthySavingsRate      = 0.10
	DefaultSubscriptionShareCutoff = 0.20
	DefaultSuperSaverRate          = 0.40
	DefaultShoppingShareCutoff     = 0.25
	DefaultMinClusterPeriods       = 4
	DefaultClusterCount            = 4
)

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		SpikeMultiplier:         DefaultSpikeMultiplier,
		SpikeFloorCents:         DefaultSpikeFloorCents,
		HealthySavingsRate:      DefaultHealthySavingsRate,
		SubscriptionShareCutoff: DefaultSubscriptionShareCutoff,
		SuperSaverRate:          DefaultSuperSaverRate,
		ShoppingShareCutoff:     DefaultShoppingShareCutoff,
		MinClusterPeriods:       DefaultMinClusterPeriods,
		ClusterCount:            DefaultClusterCount,
	}
}

// Engine evaluates the analysis functions under one set of thresholds.
// The zero value is not usable; construct with New.
type Engine struct {
	cfg Config
}

// New returns an engine using the given thresholds.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Categories with special meaning to the detectors. The categorizer (an
// upstream collaborator) assigns these names; the engine only consumes them.
const (
	categorySubscriptions = "Subscriptions"
	categoryShopping      = "Shopping"
	categoryFees          = "Fees & Charges"
)
