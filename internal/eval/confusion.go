package eval

import (
    "fmt"
    "sort"
    "strings"
)

// Classifier is the slice of the model surface evaluation needs.
type Classifier interface {
    Predict(X [][]float64) []string
}

// ConfusionMatrix counts predicted-vs-actual label pairs. Rows are actual
// classes, columns predicted classes, in Classes order.
type ConfusionMatrix struct {
    Classes []string
    Counts  [][]int
}

// Confusion builds the matrix for paired actual/predicted labels. When
// classes is nil the sorted union of observed labels is used; otherwise any
// label outside classes is an error.
func Confusion(actual, predicted []string, classes []string) (*ConfusionMatrix, error) {
    if len(actual) != len(predicted) {
        return nil, fmt.Errorf("confusion: %d actual vs %d predicted labels", len(actual), len(predicted))
    }
    if classes == nil {
        seen := make(map[string]struct{})
        for _, l := range actual {
            seen[l] = struct{}{}
        }
        for _, l := range predicted {
            seen[l] = struct{}{}
        }
        for l := range seen {
            classes = append(classes, l)
        }
        sort.Strings(classes)
    }
    idx := make(map[string]int, len(classes))
    for i, c := range classes {
        idx[c] = i
    }
    counts := make([][]int, len(classes))
    for i := range counts {
        counts[i] = make([]int, len(classes))
    }
    for i := range actual {
        a, ok := idx[actual[i]]
        if !ok {
            return nil, fmt.Errorf("confusion: unknown actual label %q", actual[i])
        }
        p, ok := idx[predicted[i]]
        if !ok {
            return nil, fmt.Errorf("confusion: unknown predicted label %q", predicted[i])
        }
        counts[a][p]++
    }
    return &ConfusionMatrix{Classes: classes, Counts: counts}, nil
}

// FromCounts wraps precomputed counts (e.g. a forest's out-of-bag
// breakdown) in a ConfusionMatrix.
func FromCounts(classes []string, counts [][]int) *ConfusionMatrix {
    return &ConfusionMatrix{Classes: classes, Counts: counts}
}

func (m *ConfusionMatrix) Total() int {
    total := 0
    for _, row := range m.Counts {
        for _, c := range row {
            total += c
        }
    }
    return total
}

func (m *ConfusionMatrix) RowTotals() []int {
    out := make([]int, len(m.Counts))
    for i, row := range m.Counts {
        for _, c := range row {
            out[i] += c
        }
    }
    return out
}

// Accuracy is trace over total. Zero rows yield zero.
func (m *ConfusionMatrix) Accuracy() float64 {
    total := m.Total()
    if total == 0 {
        return 0
    }
    trace := 0
    for i := range m.Counts {
        trace += m.Counts[i][i]
    }
    return float64(trace) / float64(total)
}

func (m *ConfusionMatrix) String() string {
    var b strings.Builder
    width := 12
    for _, c := range m.Classes {
        if len(c)+2 > width {
            width = len(c) + 2
        }
    }
    fmt.Fprintf(&b, "%*s", width, "actual\\pred")
    for _, c := range m.Classes {
        fmt.Fprintf(&b, "%*s", width, c)
    }
    b.WriteByte('\n')
    for i, c := range m.Classes {
        fmt.Fprintf(&b, "%*s", width, c)
        for j := range m.Classes {
            fmt.Fprintf(&b, "%*d", width, m.Counts[i][j])
        }
        b.WriteByte('\n')
    }
    return b.String()
}

// Evaluate applies the model to a labeled table and reports the confusion
// matrix plus its accuracy scalar.
func Evaluate(c Classifier, X [][]float64, actual []string) (*ConfusionMatrix, float64, error) {
    predicted := c.Predict(X)
    m, err := Confusion(actual, predicted, nil)
    if err != nil {
        return nil, 0, err
    }
    return m, m.Accuracy(), nil
}
