package data

import (
    "fmt"
    "math"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func splitFixture(t *testing.T, perClass map[string]int) *Frame {
    t.Helper()
    var labels []string
    var values []float64
    for _, class := range []string{"A", "B", "C", "D", "E"} {
        n := perClass[class]
        for i := 0; i < n; i++ {
            labels = append(labels, class)
            values = append(values, float64(len(values)))
        }
    }
    f, err := NewFrame([]*Column{
        numColumn("roll_belt", values...),
        catColumn("classe", labels...),
    })
    require.NoError(t, err)
    return f
}

func TestStratifiedSplitIsDeterministic(t *testing.T) {
    f := splitFixture(t, map[string]int{"A": 120, "B": 90, "C": 60, "D": 45, "E": 30})
    first, err := StratifiedSplit(f, "classe", 0.7, 42)
    require.NoError(t, err)
    second, err := StratifiedSplit(f, "classe", 0.7, 42)
    require.NoError(t, err)
    assert.Equal(t, first.Fit, second.Fit)
    assert.Equal(t, first.Holdout, second.Holdout)

    other, err := StratifiedSplit(f, "classe", 0.7, 43)
    require.NoError(t, err)
    assert.NotEqual(t, first.Fit, other.Fit)
}

func TestStratifiedSplitIsDisjointAndComplete(t *testing.T) {
    f := splitFixture(t, map[string]int{"A": 100, "B": 80, "C": 50})
    part, err := StratifiedSplit(f, "classe", 0.7, 7)
    require.NoError(t, err)

    seen := make(map[int]int)
    for _, i := range part.Fit {
        seen[i]++
    }
    for _, i := range part.Holdout {
        seen[i]++
    }
    require.Len(t, seen, f.NumRows())
    for i, n := range seen {
        assert.Equalf(t, 1, n, "row %d assigned %d times", i, n)
    }
}

func TestStratifiedSplitPerClassProportions(t *testing.T) {
    f := splitFixture(t, map[string]int{"A": 500, "B": 400, "C": 300, "D": 200, "E": 100})
    const p = 0.7
    part, err := StratifiedSplit(f, "classe", p, 99)
    require.NoError(t, err)

    labels, err := f.ClassLabels("classe")
    require.NoError(t, err)
    total := make(map[string]int)
    fit := make(map[string]int)
    for _, l := range labels {
        total[l]++
    }
    for _, i := range part.Fit {
        fit[labels[i]]++
    }
    for class, n := range total {
        frac := float64(fit[class]) / float64(n)
        assert.InDeltaf(t, p, frac, 0.02, "class %s fit fraction %f", class, frac)
    }
}

func TestStratifiedSplitTinyClassMayEmptyOneSide(t *testing.T) {
    f := splitFixture(t, map[string]int{"A": 50, "B": 1})
    part, err := StratifiedSplit(f, "classe", 0.7, 5)
    require.NoError(t, err)
    assert.Equal(t, f.NumRows(), len(part.Fit)+len(part.Holdout))
}

func TestStratifiedSplitRejectsBadFraction(t *testing.T) {
    f := splitFixture(t, map[string]int{"A": 10, "B": 10})
    for _, p := range []float64{0, 1, -0.3, 1.5, math.NaN()} {
        _, err := StratifiedSplit(f, "classe", p, 1)
        var ce *ConfigurationError
        require.ErrorAsf(t, err, &ce, "fraction %v", p)
    }
}

func TestStratifiedSplitSeedsAreIndependent(t *testing.T) {
    f := splitFixture(t, map[string]int{"A": 200, "B": 200})
    // Two experiments in one process must not interfere: re-running the
    // first seed after the second reproduces the first partition.
    a1, err := StratifiedSplit(f, "classe", 0.7, 11)
    require.NoError(t, err)
    _, err = StratifiedSplit(f, "classe", 0.7, 22)
    require.NoError(t, err)
    a2, err := StratifiedSplit(f, "classe", 0.7, 11)
    require.NoError(t, err)
    assert.Equal(t, fmt.Sprint(a1), fmt.Sprint(a2))
}
