package models

import (
    "errors"
    "math"
    "math/rand"
    "sort"

    "gonum.org/v1/gonum/floats"
)

type ForestConfig struct {
    Trees                   int
    MaxDepth                int
    MinSamplesSplit         int
    MaxFeatures             int // 0 picks sqrt(n_features) per node
    MaxThresholdsPerFeature int
    Seed                    int64
}

func DefaultForestConfig() ForestConfig {
    return ForestConfig{
        Trees:                   100,
        MaxDepth:                20,
        MinSamplesSplit:         2,
        MaxThresholdsPerFeature: 32,
        Seed:                    1,
    }
}

// OOBStats is the forest's internal error estimate, computed purely from
// bootstrap resampling: rows vote only on trees that never saw them.
type OOBStats struct {
    ErrorRate   float64
    Confusion   [][]int // rows = actual class, cols = predicted class
    ErrorByTree []float64
    Covered     int // rows with at least one out-of-bag vote
}

// RandomForest is a bootstrap-aggregated ensemble of decision trees over
// string class labels. Immutable after Fit.
type RandomForest struct {
    Config       ForestConfig
    Classes      []string
    FeatureNames []string
    Trees        []*DecisionTree
    Importances  []float64
    OOB          *OOBStats
}

func NewRandomForest(cfg ForestConfig) *RandomForest {
    return &RandomForest{Config: cfg}
}

func (rf *RandomForest) Name() string { return "RandomForest" }

func (rf *RandomForest) Fit(X [][]float64, labels []string) error {
    if rf.Config.Trees <= 0 {
        return errors.New("random forest: ensemble size must be positive")
    }
    n := len(X)
    if n == 0 {
        return errors.New("random forest: empty training set")
    }
    if n != len(labels) {
        return errors.New("random forest: feature/label length mismatch")
    }
    nFeats := len(X[0])

    rf.Classes = uniqueSorted(labels)
    k := len(rf.Classes)
    if k < 2 {
        return errors.New("random forest: need at least two classes")
    }
    classIdx := make(map[string]int, k)
    for i, c := range rf.Classes {
        classIdx[c] = i
    }
    y := make([]int, n)
    for i, l := range labels {
        y[i] = classIdx[l]
    }

    maxFeatures := rf.Config.MaxFeatures
    if maxFeatures <= 0 {
        maxFeatures = int(math.Max(1, math.Sqrt(float64(nFeats))))
    }

    rng := rand.New(rand.NewSource(rf.Config.Seed))
    votes := make([][]int, n)
    for i := range votes {
        votes[i] = make([]int, k)
    }
    importSum := make([]float64, nFeats)
    errByTree := make([]float64, 0, rf.Config.Trees)

    rf.Trees = make([]*DecisionTree, 0, rf.Config.Trees)
    inBag := make([]bool, n)
    for t := 0; t < rf.Config.Trees; t++ {
        for i := range inBag {
            inBag[i] = false
        }
        Xb := make([][]float64, n)
        yb := make([]int, n)
        for i := 0; i < n; i++ {
            j := rng.Intn(n)
            Xb[i] = X[j]
            yb[i] = y[j]
            inBag[j] = true
        }

        dt := NewDecisionTree(k, rng)
        dt.MaxDepth = rf.Config.MaxDepth
        dt.MinSamplesSplit = rf.Config.MinSamplesSplit
        dt.MaxThresholdsPerFeature = rf.Config.MaxThresholdsPerFeature
        dt.MaxFeatures = maxFeatures
        if err := dt.Fit(Xb, yb); err != nil {
            return err
        }
        rf.Trees = append(rf.Trees, dt)
        floats.Add(importSum, dt.Importance())

        for i := 0; i < n; i++ {
            if !inBag[i] {
                votes[i][argmax(dt.ProbaOne(X[i]))]++
            }
        }
        errByTree = append(errByTree, oobError(votes, y))
    }

    floats.Scale(1/float64(len(rf.Trees)), importSum)
    rf.Importances = importSum
    rf.OOB = finalOOB(votes, y, k, errByTree)
    return nil
}

func (rf *RandomForest) PredictProba(X [][]float64) [][]float64 {
    k := len(rf.Classes)
    out := make([][]float64, len(X))
    for i, x := range X {
        acc := make([]float64, k)
        for _, dt := range rf.Trees {
            floats.Add(acc, dt.ProbaOne(x))
        }
        if len(rf.Trees) > 0 {
            floats.Scale(1/float64(len(rf.Trees)), acc)
        }
        out[i] = acc
    }
    return out
}

// Predict returns one label per row, in row order.
func (rf *RandomForest) Predict(X [][]float64) []string {
    probs := rf.PredictProba(X)
    out := make([]string, len(X))
    for i, p := range probs {
        out[i] = rf.Classes[argmax(p)]
    }
    return out
}

type FeatureImportance struct {
    Name  string
    Score float64
}

// RankedImportances returns the mean-decrease-gini ranking, highest first.
// Ties break on feature order for a stable report.
func (rf *RandomForest) RankedImportances() []FeatureImportance {
    out := make([]FeatureImportance, len(rf.Importances))
    for i, s := range rf.Importances {
        name := ""
        if i < len(rf.FeatureNames) {
            name = rf.FeatureNames[i]
        }
        out[i] = FeatureImportance{Name: name, Score: s}
    }
    sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
    return out
}

func oobError(votes [][]int, y []int) float64 {
    covered, wrong := 0, 0
    for i, v := range votes {
        pred, total := -1, 0
        best := 0
        for c, cnt := range v {
            total += cnt
            if cnt > best {
                best = cnt
                pred = c
            }
        }
        if total == 0 {
            continue
        }
        covered++
        if pred != y[i] {
            wrong++
        }
    }
    if covered == 0 {
        return math.NaN()
    }
    return float64(wrong) / float64(covered)
}

func finalOOB(votes [][]int, y []int, k int, errByTree []float64) *OOBStats {
    confusion := make([][]int, k)
    for i := range confusion {
        confusion[i] = make([]int, k)
    }
    covered, wrong := 0, 0
    for i, v := range votes {
        pred, total := -1, 0
        best := 0
        for c, cnt := range v {
            total += cnt
            if cnt > best {
                best = cnt
                pred = c
            }
        }
        if total == 0 {
            continue
        }
        covered++
        confusion[y[i]][pred]++
        if pred != y[i] {
            wrong++
        }
    }
    rate := math.NaN()
    if covered > 0 {
        rate = float64(wrong) / float64(covered)
    }
    return &OOBStats{ErrorRate: rate, Confusion: confusion, ErrorByTree: errByTree, Covered: covered}
}

func uniqueSorted(labels []string) []string {
    seen := make(map[string]struct{})
    var out []string
    for _, l := range labels {
        if _, ok := seen[l]; !ok {
            seen[l] = struct{}{}
            out = append(out, l)
        }
    }
    sort.Strings(out)
    return out
}
