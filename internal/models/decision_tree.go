package models

import (
    "errors"
    "math"
    "math/rand"
)

type TreeNode struct {
    Feature   int
    Threshold float64
    Left      *TreeNode
    Right     *TreeNode
    IsLeaf    bool
    Probs     []float64
}

// DecisionTree is a K-class CART tree with gini splits, random candidate
// thresholds and optional random feature subsets per node. All randomness
// comes from the rng handed to NewDecisionTree, never from global state.
type DecisionTree struct {
    NumClasses              int
    MaxDepth                int
    MinSamplesSplit         int
    MaxThresholdsPerFeature int
    MaxFeatures             int
    Root                    *TreeNode

    rng        *rand.Rand
    importance []float64
    nTotal     int
}

func NewDecisionTree(numClasses int, rng *rand.Rand) *DecisionTree {
    if rng == nil {
        rng = rand.New(rand.NewSource(1))
    }
    return &DecisionTree{
        NumClasses:              numClasses,
        MaxDepth:                20,
        MinSamplesSplit:         2,
        MaxThresholdsPerFeature: 32,
        rng:                     rng,
    }
}

func (dt *DecisionTree) Name() string { return "DecisionTree" }

func (dt *DecisionTree) Fit(X [][]float64, y []int) error {
    if len(X) == 0 {
        return errors.New("decision tree: empty training set")
    }
    if len(X) != len(y) {
        return errors.New("decision tree: feature/label length mismatch")
    }
    if dt.NumClasses < 2 {
        return errors.New("decision tree: need at least two classes")
    }
    if dt.rng == nil {
        dt.rng = rand.New(rand.NewSource(1))
    }
    dt.nTotal = len(X)
    dt.importance = make([]float64, len(X[0]))
    idx := make([]int, len(X))
    for i := range idx {
        idx[i] = i
    }
    dt.Root = dt.build(X, y, idx, 0)
    return nil
}

// Importance is the per-feature sum of node-weighted gini decrease
// accumulated while the tree was built.
func (dt *DecisionTree) Importance() []float64 {
    return dt.importance
}

func (dt *DecisionTree) ProbaOne(x []float64) []float64 {
    n := dt.Root
    if n == nil {
        return uniformProbs(dt.NumClasses)
    }
    for !n.IsLeaf {
        if x[n.Feature] <= n.Threshold {
            n = n.Left
        } else {
            n = n.Right
        }
        if n == nil {
            return uniformProbs(dt.NumClasses)
        }
    }
    return n.Probs
}

func (dt *DecisionTree) build(X [][]float64, y []int, idx []int, depth int) *TreeNode {
    counts := classCounts(y, idx, dt.NumClasses)
    probs := countProbs(counts, len(idx))
    parentGini := gini(counts, len(idx))

    node := &TreeNode{}
    if len(idx) < dt.MinSamplesSplit || (dt.MaxDepth > 0 && depth >= dt.MaxDepth) || parentGini == 0 {
        node.IsLeaf = true
        node.Probs = probs
        return node
    }

    bestFeature := -1
    bestThr := 0.0
    bestImp := math.MaxFloat64
    var leftBest, rightBest []int

    nFeats := len(X[0])
    feats := pickFeatures(dt.rng, nFeats, dt.MaxFeatures)
    for _, f := range feats {
        cand := candidateThresholds(dt.rng, X, idx, f, dt.MaxThresholdsPerFeature)
        for _, thr := range cand {
            lIdx, rIdx := splitIdx(X, idx, f, thr)
            if len(lIdx) == 0 || len(rIdx) == 0 {
                continue
            }
            imp := weightedGini(y, lIdx, rIdx, dt.NumClasses)
            if imp < bestImp {
                bestImp = imp
                bestFeature = f
                bestThr = thr
                leftBest = lIdx
                rightBest = rIdx
            }
        }
    }

    if bestFeature == -1 {
        node.IsLeaf = true
        node.Probs = probs
        return node
    }
    dt.importance[bestFeature] += (parentGini - bestImp) * float64(len(idx)) / float64(dt.nTotal)
    node.Feature = bestFeature
    node.Threshold = bestThr
    node.Left = dt.build(X, y, leftBest, depth+1)
    node.Right = dt.build(X, y, rightBest, depth+1)
    return node
}

func classCounts(y []int, idx []int, k int) []int {
    counts := make([]int, k)
    for _, i := range idx {
        counts[y[i]]++
    }
    return counts
}

func countProbs(counts []int, n int) []float64 {
    probs := make([]float64, len(counts))
    if n == 0 {
        return probs
    }
    for c, cnt := range counts {
        probs[c] = float64(cnt) / float64(n)
    }
    return probs
}

func gini(counts []int, n int) float64 {
    if n == 0 {
        return 0
    }
    g := 1.0
    for _, cnt := range counts {
        p := float64(cnt) / float64(n)
        g -= p * p
    }
    return g
}

func weightedGini(y []int, lIdx, rIdx []int, k int) float64 {
    gl := gini(classCounts(y, lIdx, k), len(lIdx))
    gr := gini(classCounts(y, rIdx, k), len(rIdx))
    wl := float64(len(lIdx))
    wr := float64(len(rIdx))
    n := wl + wr
    return (wl/n)*gl + (wr/n)*gr
}

func splitIdx(X [][]float64, idx []int, f int, thr float64) ([]int, []int) {
    l := make([]int, 0, len(idx))
    r := make([]int, 0, len(idx))
    for _, i := range idx {
        if X[i][f] <= thr {
            l = append(l, i)
        } else {
            r = append(r, i)
        }
    }
    return l, r
}

func candidateThresholds(rng *rand.Rand, X [][]float64, idx []int, f int, maxC int) []float64 {
    values := make([]float64, len(idx))
    for j, i := range idx {
        values[j] = X[i][f]
    }
    for i := range values {
        j := rng.Intn(len(values))
        values[i], values[j] = values[j], values[i]
    }
    m := maxC
    if m > len(values) {
        m = len(values)
    }
    return values[:m]
}

func pickFeatures(rng *rand.Rand, nFeats, maxFeats int) []int {
    idx := make([]int, nFeats)
    for i := 0; i < nFeats; i++ {
        idx[i] = i
    }
    if maxFeats <= 0 || maxFeats >= nFeats {
        return idx
    }
    for i := range idx {
        j := rng.Intn(nFeats)
        idx[i], idx[j] = idx[j], idx[i]
    }
    return idx[:maxFeats]
}

func uniformProbs(k int) []float64 {
    p := make([]float64, k)
    for i := range p {
        p[i] = 1.0 / float64(k)
    }
    return p
}

func argmax(p []float64) int {
    best := 0
    for i := 1; i < len(p); i++ {
        if p[i] > p[best] {
            best = i
        }
    }
    return best
}
