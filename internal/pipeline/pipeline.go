package pipeline

import (
    "io"

    "go.uber.org/zap"

    "liftcheck/internal/config"
    "liftcheck/internal/data"
    "liftcheck/internal/eval"
    "liftcheck/internal/features"
    "liftcheck/internal/models"
)

// Training summarizes the trainer's internal resampling: out-of-bag error,
// its per-class confusion breakdown, the error trajectory per added tree
// and, when configured, cross-validated out-of-fold results.
type Training struct {
    OOBError     float64
    OOBConfusion *eval.ConfusionMatrix
    ErrorByTree  []float64

    CVConfusion *eval.ConfusionMatrix
    CVAccuracy  float64
}

type Validation struct {
    Confusion *eval.ConfusionMatrix
    Accuracy  float64
}

// Result is everything the run hands to the report renderer.
type Result struct {
    Model        *models.RandomForest
    DropSet      features.DropSet
    FeatureNames []string
    FitRows      int
    HoldoutRows  int
    Training     Training
    Validation   Validation
    Predictions  []string
}

// Run executes the whole pipeline, strictly linear:
// Loaded → Partitioned → Filtered → Trained → Validated → Scored.
// Any failure aborts; there is no partial-result mode. The drop set is
// computed once from fit-subset statistics and applied unchanged to fit,
// validation and scoring tables.
func Run(cfg *config.Config, training, scoring io.Reader, logger *zap.Logger) (*Result, error) {
    if logger == nil {
        logger = zap.NewNop()
    }
    if err := cfg.Validate(); err != nil {
        return nil, err
    }

    trainTab, err := data.ReadTable(training, data.LoadOptions{
        Table:          "training",
        LabelColumn:    cfg.LabelColumn,
        MissingMarkers: cfg.MissingMarkers,
    })
    if err != nil {
        return nil, err
    }
    scoreTab, err := data.ReadTable(scoring, data.LoadOptions{
        Table:          "scoring",
        MissingMarkers: cfg.MissingMarkers,
    })
    if err != nil {
        return nil, err
    }
    logger.Info("tabelas carregadas",
        zap.Int("linhas_treino", trainTab.NumRows()),
        zap.Int("colunas_treino", trainTab.NumCols()),
        zap.Int("linhas_pontuacao", scoreTab.NumRows()),
    )

    part, err := data.StratifiedSplit(trainTab, cfg.LabelColumn, cfg.TrainFraction, cfg.Seed)
    if err != nil {
        return nil, err
    }
    fit := trainTab.Subset(part.Fit)
    holdout := trainTab.Subset(part.Holdout)
    logger.Info("particionamento estratificado",
        zap.Int("ajuste", fit.NumRows()),
        zap.Int("validacao", holdout.NumRows()),
        zap.Float64("fracao", cfg.TrainFraction),
    )

    drop := features.ComputeDropSet(fit, cfg.LabelColumn, features.Config{
        MaxMissing:        cfg.Filter.MaxMissing,
        FreqRatioCutoff:   cfg.Filter.FreqRatioCutoff,
        UniqueCut:         cfg.Filter.UniqueCut,
        IdentifierColumns: cfg.Filter.IdentifierColumns,
    })
    fitF := features.Apply(fit, drop)
    holdF := features.Apply(holdout, drop)
    scoreF := features.Apply(scoreTab, drop)
    logger.Info("colunas filtradas",
        zap.Int("removidas", len(drop)),
        zap.Int("mantidas", fitF.NumCols()),
    )

    featNames := fitF.FeatureColumns(cfg.LabelColumn)
    Xfit, err := fitF.Matrix("fit", featNames)
    if err != nil {
        return nil, err
    }
    yfit, err := fitF.ClassLabels(cfg.LabelColumn)
    if err != nil {
        return nil, err
    }
    Xval, err := holdF.Matrix("validation", featNames)
    if err != nil {
        return nil, err
    }
    yval, err := holdF.ClassLabels(cfg.LabelColumn)
    if err != nil {
        return nil, err
    }
    Xscore, err := scoreF.Matrix("scoring", featNames)
    if err != nil {
        return nil, err
    }

    fcfg := models.ForestConfig{
        Trees:                   cfg.Forest.Trees,
        MaxDepth:                cfg.Forest.MaxDepth,
        MinSamplesSplit:         cfg.Forest.MinSamplesSplit,
        MaxFeatures:             cfg.Forest.MaxFeatures,
        MaxThresholdsPerFeature: cfg.Forest.MaxThresholdsPerFeature,
        Seed:                    cfg.Seed,
    }
    rf := models.NewRandomForest(fcfg)
    rf.FeatureNames = featNames
    if err := rf.Fit(Xfit, yfit); err != nil {
        return nil, err
    }
    train := Training{
        OOBError:     rf.OOB.ErrorRate,
        OOBConfusion: eval.FromCounts(rf.Classes, rf.OOB.Confusion),
        ErrorByTree:  rf.OOB.ErrorByTree,
    }
    logger.Info("modelo treinado",
        zap.Int("arvores", len(rf.Trees)),
        zap.Int("variaveis", len(featNames)),
        zap.Float64("erro_oob", train.OOBError),
    )

    if cfg.Resampling.Method == "cv" {
        oof, err := models.CrossValidate(fcfg, Xfit, yfit, cfg.Resampling.Folds)
        if err != nil {
            return nil, err
        }
        cm, err := eval.Confusion(yfit, oof, rf.Classes)
        if err != nil {
            return nil, err
        }
        train.CVConfusion = cm
        train.CVAccuracy = cm.Accuracy()
        logger.Info("validacao cruzada",
            zap.Int("folds", cfg.Resampling.Folds),
            zap.Float64("acuracia", train.CVAccuracy),
        )
    }

    cm, acc, err := eval.Evaluate(rf, Xval, yval)
    if err != nil {
        return nil, err
    }
    logger.Info("validacao holdout", zap.Float64("acuracia", acc))

    preds := rf.Predict(Xscore)
    logger.Info("pontuacao concluida", zap.Int("previsoes", len(preds)))

    return &Result{
        Model:        rf,
        DropSet:      drop,
        FeatureNames: featNames,
        FitRows:      fit.NumRows(),
        HoldoutRows:  holdout.NumRows(),
        Training:     train,
        Validation:   Validation{Confusion: cm, Accuracy: acc},
        Predictions:  preds,
    }, nil
}
