package models

type Classifier interface {
    Predict(X [][]float64) []string
    PredictProba(X [][]float64) [][]float64
    Name() string
}
