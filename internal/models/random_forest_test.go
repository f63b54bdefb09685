package models

import (
    "math"
    "math/rand"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

// blobs builds three well-separated clusters labelled A, B, C.
func blobs(n int, seed int64) ([][]float64, []string) {
    rng := rand.New(rand.NewSource(seed))
    classes := []string{"A", "B", "C"}
    X := make([][]float64, n)
    y := make([]string, n)
    for i := 0; i < n; i++ {
        c := i % len(classes)
        X[i] = []float64{
            float64(c)*8 + rng.NormFloat64(),
            float64(c)*-6 + rng.NormFloat64(),
            rng.NormFloat64(), // pure noise feature
        }
        y[i] = classes[c]
    }
    return X, y
}

func TestRandomForestLearnsSeparableClasses(t *testing.T) {
    X, y := blobs(300, 1)
    cfg := DefaultForestConfig()
    cfg.Trees = 30
    cfg.MaxDepth = 10
    cfg.Seed = 7

    rf := NewRandomForest(cfg)
    require.NoError(t, rf.Fit(X, y))
    require.Equal(t, []string{"A", "B", "C"}, rf.Classes)

    holdX, holdY := blobs(90, 2)
    preds := rf.Predict(holdX)
    require.Len(t, preds, len(holdX))
    correct := 0
    for i := range preds {
        if preds[i] == holdY[i] {
            correct++
        }
    }
    acc := float64(correct) / float64(len(preds))
    assert.Greaterf(t, acc, 0.9, "holdout accuracy %f", acc)
}

func TestRandomForestOOBStats(t *testing.T) {
    X, y := blobs(240, 3)
    cfg := DefaultForestConfig()
    cfg.Trees = 25
    cfg.MaxDepth = 10
    cfg.Seed = 11

    rf := NewRandomForest(cfg)
    require.NoError(t, rf.Fit(X, y))
    require.NotNil(t, rf.OOB)

    assert.GreaterOrEqual(t, rf.OOB.ErrorRate, 0.0)
    assert.Less(t, rf.OOB.ErrorRate, 0.5)
    assert.Len(t, rf.OOB.ErrorByTree, cfg.Trees)
    assert.Greater(t, rf.OOB.Covered, 200)

    require.Len(t, rf.OOB.Confusion, 3)
    total := 0
    for _, row := range rf.OOB.Confusion {
        require.Len(t, row, 3)
        for _, c := range row {
            total += c
        }
    }
    assert.Equal(t, rf.OOB.Covered, total)
}

func TestRandomForestIsSeedDeterministic(t *testing.T) {
    X, y := blobs(150, 4)
    cfg := DefaultForestConfig()
    cfg.Trees = 10
    cfg.MaxDepth = 8
    cfg.Seed = 99

    a := NewRandomForest(cfg)
    require.NoError(t, a.Fit(X, y))
    b := NewRandomForest(cfg)
    require.NoError(t, b.Fit(X, y))

    testX, _ := blobs(40, 5)
    assert.Equal(t, a.Predict(testX), b.Predict(testX))
    assert.Equal(t, a.OOB.ErrorRate, b.OOB.ErrorRate)
    assert.Equal(t, a.Importances, b.Importances)
}

func TestRandomForestImportanceFavorsInformativeFeatures(t *testing.T) {
    X, y := blobs(300, 6)
    cfg := DefaultForestConfig()
    cfg.Trees = 20
    cfg.MaxDepth = 10
    cfg.Seed = 21

    rf := NewRandomForest(cfg)
    rf.FeatureNames = []string{"shift_x", "shift_y", "noise"}
    require.NoError(t, rf.Fit(X, y))
    require.Len(t, rf.Importances, 3)

    ranked := rf.RankedImportances()
    require.Len(t, ranked, 3)
    assert.NotEqual(t, "noise", ranked[0].Name)
    assert.GreaterOrEqual(t, ranked[0].Score, ranked[1].Score)
    assert.GreaterOrEqual(t, ranked[1].Score, ranked[2].Score)
}

func TestRandomForestRejectsBadInput(t *testing.T) {
    cfg := DefaultForestConfig()

    rf := NewRandomForest(cfg)
    require.Error(t, rf.Fit(nil, nil))

    cfg.Trees = 0
    rf = NewRandomForest(cfg)
    X, y := blobs(30, 1)
    require.Error(t, rf.Fit(X, y))

    cfg = DefaultForestConfig()
    rf = NewRandomForest(cfg)
    oneClass := make([]string, len(y))
    for i := range oneClass {
        oneClass[i] = "A"
    }
    require.Error(t, rf.Fit(X, oneClass))
}

func TestPredictProbaRowsSumToOne(t *testing.T) {
    X, y := blobs(120, 8)
    cfg := DefaultForestConfig()
    cfg.Trees = 8
    cfg.MaxDepth = 6
    rf := NewRandomForest(cfg)
    require.NoError(t, rf.Fit(X, y))

    probs := rf.PredictProba(X[:10])
    for _, p := range probs {
        sum := 0.0
        for _, v := range p {
            sum += v
        }
        assert.InDelta(t, 1.0, sum, 1e-9)
        assert.False(t, math.IsNaN(sum))
    }
}
