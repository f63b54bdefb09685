package models

import (
    "errors"
    "math/rand"
)

// CrossValidate produces seeded k-fold out-of-fold predictions over the
// training rows: every row is predicted exactly once, by a forest that was
// fitted without it. Fold assignment and each fold's forest derive from
// cfg.Seed, so repeated calls are identical.
func CrossValidate(cfg ForestConfig, X [][]float64, labels []string, folds int) ([]string, error) {
    n := len(X)
    if folds < 2 {
        return nil, errors.New("cross-validation: need at least two folds")
    }
    if folds > n {
        return nil, errors.New("cross-validation: more folds than rows")
    }

    rng := rand.New(rand.NewSource(cfg.Seed))
    perm := rng.Perm(n)
    preds := make([]string, n)
    for f := 0; f < folds; f++ {
        lo := f * n / folds
        hi := (f + 1) * n / folds
        test := perm[lo:hi]

        trainX := make([][]float64, 0, n-len(test))
        trainLabels := make([]string, 0, n-len(test))
        for _, i := range perm[:lo] {
            trainX = append(trainX, X[i])
            trainLabels = append(trainLabels, labels[i])
        }
        for _, i := range perm[hi:] {
            trainX = append(trainX, X[i])
            trainLabels = append(trainLabels, labels[i])
        }

        foldCfg := cfg
        foldCfg.Seed = cfg.Seed + int64(f) + 1
        rf := NewRandomForest(foldCfg)
        if err := rf.Fit(trainX, trainLabels); err != nil {
            return nil, err
        }

        testX := make([][]float64, len(test))
        for j, i := range test {
            testX[j] = X[i]
        }
        for j, p := range rf.Predict(testX) {
            preds[test[j]] = p
        }
    }
    return preds, nil
}
