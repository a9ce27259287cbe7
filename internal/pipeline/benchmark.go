package pipeline

// BenchmarkTier classifies an observed metric against its industry
// benchmark.
type BenchmarkTier string

const (
	TierAbove BenchmarkTier = "above"
	TierAt    BenchmarkTier = "at"
	TierBelow BenchmarkTier = "below"
	// TierNone marks a metric with no defined benchmark.
	TierNone BenchmarkTier = ""
)

// NoBenchmarkLabel is rendered for metrics that have no defined benchmark
// (e.g. raw sent counts).
const NoBenchmarkLabel = "—"

// Industry benchmark rates, in percent, per outreach metric.
const (
	BenchmarkDeliveredRate     = 95.8
	BenchmarkOpenedRate        = 28.0
	BenchmarkReplyRate         = 6.5
	BenchmarkPositiveReplyRate = 4.0
	BenchmarkInterviewRate     = 1.5
)

// atAverageTolerance: an actual within 5% under the benchmark still
// counts as at-average.
const atAverageTolerance = 0.95

// BenchmarkComparison is the tier plus the display label for one metric.
type BenchmarkComparison struct {
	Tier  BenchmarkTier `json:"tier,omitempty"`
	Label string        `json:"label"`
}

// CompareBenchmark classifies an observed rate against a benchmark:
//
//	actual > benchmark                    → Above avg
//	benchmark×0.95 ≤ actual ≤ benchmark   → At avg
//	actual < benchmark×0.95               → Below avg
func CompareBenchmark(actual, benchmark float64) BenchmarkComparison {
	switch {
	case actual > benchmark:
		return BenchmarkComparison{Tier: TierAbove, Label: "Above avg"}
	case actual >= benchmark*atAverageTolerance:
		return BenchmarkComparison{Tier: TierAt, Label: "At avg"}
	default:
		return BenchmarkComparison{Tier: TierBelow, Label: "Below avg"}
	}
}

// NoBenchmark is the comparison rendered for metrics without a defined
// benchmark: a dash and no tier.
func NoBenchmark() BenchmarkComparison {
	return BenchmarkComparison{Tier: TierNone, Label: NoBenchmarkLabel}
}
