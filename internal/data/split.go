package data

import (
    "fmt"
    "math"
    "math/rand"
    "sort"
)

// Partition holds the two disjoint row-index sets of a stratified split.
// Indices are sorted ascending so downstream subsets keep the source row
// order.
type Partition struct {
    Fit     []int
    Holdout []int
}

// StratifiedSplit splits the table rows so that each class of the label
// column lands in the fit side with fraction p. The split is computed
// independently within each class and concatenated. The same seed on the
// same table always yields the same partition; randomness never comes from
// ambient global state.
//
// A class with very few rows may leave one side empty; that is accepted.
func StratifiedSplit(f *Frame, label string, p float64, seed int64) (Partition, error) {
    if !(p > 0 && p < 1) {
        return Partition{}, &ConfigurationError{Msg: fmt.Sprintf("train fraction must be in (0,1), got %g", p)}
    }
    labels, err := f.ClassLabels(label)
    if err != nil {
        return Partition{}, err
    }

    byClass := make(map[string][]int)
    for i, l := range labels {
        byClass[l] = append(byClass[l], i)
    }
    classes := make([]string, 0, len(byClass))
    for c := range byClass {
        classes = append(classes, c)
    }
    sort.Strings(classes)

    rng := rand.New(rand.NewSource(seed))
    var fit, holdout []int
    for _, c := range classes {
        idx := byClass[c]
        perm := rng.Perm(len(idx))
        nFit := int(math.Round(p * float64(len(idx))))
        for j, pj := range perm {
            if j < nFit {
                fit = append(fit, idx[pj])
            } else {
                holdout = append(holdout, idx[pj])
            }
        }
    }
    sort.Ints(fit)
    sort.Ints(holdout)
    return Partition{Fit: fit, Holdout: holdout}, nil
}
