package features

import (
    "math"
    "sort"
    "strconv"

    "liftcheck/internal/data"
)

// DefaultIdentifierColumns are the non-physiological columns of the lifting
// dataset: row index, subject and the timestamp/window markers. They track
// collection order, not sensor physics, and would let a model memorize
// sequence instead of execution quality.
var DefaultIdentifierColumns = []string{
    "X",
    "user_name",
    "raw_timestamp_part_1",
    "raw_timestamp_part_2",
    "cvtd_timestamp",
    "new_window",
    "num_window",
}

type Config struct {
    // MaxMissing is the highest tolerated missing-value count per column.
    // The default 0 drops on any missing value: the dataset's missingness
    // is bimodal, columns are either fully populated or mostly empty.
    MaxMissing int
    // FreqRatioCutoff and UniqueCut drive the near-zero-variance pass:
    // a column is dropped when mode count / second-mode count exceeds
    // FreqRatioCutoff, or when distinct values / rows falls below UniqueCut.
    FreqRatioCutoff float64
    UniqueCut       float64
    // IdentifierColumns overrides DefaultIdentifierColumns when non-nil.
    IdentifierColumns []string
}

func DefaultConfig() Config {
    return Config{
        MaxMissing:      0,
        FreqRatioCutoff: 19.0,
        UniqueCut:       0.002,
    }
}

// DropSet is the immutable set of column names removed from every table of
// one run. It is computed once, from fit-subset statistics only, and handed
// forward by value.
type DropSet map[string]struct{}

func (d DropSet) Add(names ...string) {
    for _, n := range names {
        d[n] = struct{}{}
    }
}

func (d DropSet) Has(name string) bool {
    _, ok := d[name]
    return ok
}

func (d DropSet) Names() []string {
    out := make([]string, 0, len(d))
    for n := range d {
        out = append(out, n)
    }
    sort.Strings(out)
    return out
}

// ComputeDropSet runs the three filtering passes on the fit subset, in the
// fixed order: missingness, near-zero variance, identifier/time columns.
// The label column is never dropped.
func ComputeDropSet(fit *data.Frame, label string, cfg Config) DropSet {
    drop := DropSet{}
    drop.Add(MissingnessPass(fit, label, cfg.MaxMissing)...)
    drop.Add(NearZeroVariancePass(fit, label, drop, cfg.FreqRatioCutoff, cfg.UniqueCut)...)
    ids := cfg.IdentifierColumns
    if ids == nil {
        ids = DefaultIdentifierColumns
    }
    for _, name := range ids {
        if name != label && fit.HasColumn(name) {
            drop.Add(name)
        }
    }
    return drop
}

// MissingnessPass flags columns whose missing count exceeds maxMissing.
func MissingnessPass(f *data.Frame, label string, maxMissing int) []string {
    var out []string
    for _, name := range f.Names() {
        if name == label {
            continue
        }
        c, _ := f.Column(name)
        if c.MissingCount() > maxMissing {
            out = append(out, name)
        }
    }
    return out
}

// NearZeroVariancePass flags near-constant columns among those not already
// dropped. Frequencies are computed over non-missing values; a column with
// a single distinct value has an infinite frequency ratio and is always
// flagged.
func NearZeroVariancePass(f *data.Frame, label string, skip DropSet, freqRatioCutoff, uniqueCut float64) []string {
    var out []string
    for _, name := range f.Names() {
        if name == label || skip.Has(name) {
            continue
        }
        c, _ := f.Column(name)
        counts := valueCounts(c)
        if len(counts) == 0 {
            out = append(out, name)
            continue
        }
        first, second := topTwo(counts)
        ratio := math.Inf(1)
        if second > 0 {
            ratio = float64(first) / float64(second)
        }
        distinctFrac := float64(len(counts)) / float64(f.NumRows())
        if ratio > freqRatioCutoff || distinctFrac < uniqueCut {
            out = append(out, name)
        }
    }
    return out
}

// Apply projects the drop set away from a table. Pure and idempotent:
// columns already absent are ignored.
func Apply(f *data.Frame, drop DropSet) *data.Frame {
    return f.DropColumns(map[string]struct{}(drop))
}

func valueCounts(c *data.Column) map[string]int {
    counts := make(map[string]int)
    for i := 0; i < c.Len(); i++ {
        if c.Missing[i] {
            continue
        }
        var key string
        if c.Kind == data.Numeric {
            key = strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
        } else {
            key = c.Labels[i]
        }
        counts[key]++
    }
    return counts
}

func topTwo(counts map[string]int) (first, second int) {
    for _, n := range counts {
        if n > first {
            first, second = n, first
        } else if n > second {
            second = n
        }
    }
    return
}
