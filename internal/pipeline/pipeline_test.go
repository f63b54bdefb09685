package pipeline

import (
    "bytes"
    "fmt"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "go.uber.org/zap"

    "liftcheck/internal/config"
    "liftcheck/internal/data"
)

func syntheticRun(t *testing.T, cfg *config.Config, trainRows int) *Result {
    t.Helper()
    var train, score bytes.Buffer
    require.NoError(t, data.WriteSyntheticTable(&train, trainRows, 42, true))
    require.NoError(t, data.WriteSyntheticTable(&score, 20, 43, false))
    res, err := Run(cfg, &train, &score, zap.NewNop())
    require.NoError(t, err)
    return res
}

func TestRunEndToEnd(t *testing.T) {
    cfg := config.Default()
    cfg.Seed = 7
    cfg.Forest.Trees = 25
    cfg.Forest.MaxDepth = 10

    res := syntheticRun(t, cfg, 900)

    require.Len(t, res.Predictions, 20)
    for _, p := range res.Predictions {
        assert.Contains(t, []string{"A", "B", "C", "D", "E"}, p)
    }

    // Identifier/time and mostly-missing columns are gone; the surviving
    // feature set excludes the label and every dropped column.
    for _, name := range []string{
        "X", "user_name", "raw_timestamp_part_1", "raw_timestamp_part_2",
        "cvtd_timestamp", "new_window", "num_window",
        "kurtosis_roll_belt", "skewness_roll_belt",
    } {
        assert.Truef(t, res.DropSet.Has(name), "expected %s in drop set", name)
    }
    assert.NotContains(t, res.FeatureNames, "classe")
    for _, name := range res.FeatureNames {
        assert.Falsef(t, res.DropSet.Has(name), "feature %s is in drop set", name)
    }

    assert.Equal(t, 900, res.FitRows+res.HoldoutRows)
    assert.Equal(t, res.HoldoutRows, res.Validation.Confusion.Total())
    assert.InDelta(t, res.Validation.Accuracy, res.Validation.Confusion.Accuracy(), 1e-12)
    assert.Greaterf(t, res.Validation.Accuracy, 0.7, "validation accuracy %f", res.Validation.Accuracy)

    require.NotNil(t, res.Model.OOB)
    assert.Len(t, res.Training.ErrorByTree, cfg.Forest.Trees)
    assert.Less(t, res.Training.OOBError, 0.5)
    assert.Nil(t, res.Training.CVConfusion)
}

func TestRunIsReproducible(t *testing.T) {
    cfg := config.Default()
    cfg.Seed = 31
    cfg.Forest.Trees = 10
    cfg.Forest.MaxDepth = 8

    a := syntheticRun(t, cfg, 400)
    b := syntheticRun(t, cfg, 400)

    assert.Equal(t, a.Predictions, b.Predictions)
    assert.Equal(t, a.Validation.Accuracy, b.Validation.Accuracy)
    assert.Equal(t, a.Training.OOBError, b.Training.OOBError)
    assert.Equal(t, a.DropSet.Names(), b.DropSet.Names())
}

func TestRunWithCrossValidation(t *testing.T) {
    cfg := config.Default()
    cfg.Seed = 3
    cfg.Forest.Trees = 8
    cfg.Forest.MaxDepth = 8
    cfg.Resampling.Method = "cv"
    cfg.Resampling.Folds = 3

    res := syntheticRun(t, cfg, 300)
    require.NotNil(t, res.Training.CVConfusion)
    assert.Greater(t, res.Training.CVAccuracy, 0.0)
    assert.LessOrEqual(t, res.Training.CVAccuracy, 1.0)
    assert.Equal(t, res.FitRows, res.Training.CVConfusion.Total())
}

func smallTrainCSV(rows int) string {
    var b strings.Builder
    b.WriteString("alpha,beta,classe\n")
    for i := 0; i < rows; i++ {
        if i%2 == 0 {
            fmt.Fprintf(&b, "%d,%d,A\n", i, 100+i)
        } else {
            fmt.Fprintf(&b, "%d,%d,B\n", 50+i, 200+i)
        }
    }
    return b.String()
}

func TestRunDetectsScoringSchemaDrift(t *testing.T) {
    cfg := config.Default()
    cfg.Forest.Trees = 5
    cfg.Filter.IdentifierColumns = []string{}

    scoring := "alpha\n1\n2\n"
    _, err := Run(cfg, strings.NewReader(smallTrainCSV(40)), strings.NewReader(scoring), nil)
    var sme *data.SchemaMismatchError
    require.ErrorAs(t, err, &sme)
    assert.Equal(t, "scoring", sme.Table)
    assert.Contains(t, sme.Columns, "beta")
}

func TestRunFailsFastOnMissingLabel(t *testing.T) {
    cfg := config.Default()
    training := "alpha,beta\n1,2\n3,4\n"
    scoring := "alpha,beta\n1,2\n"
    _, err := Run(cfg, strings.NewReader(training), strings.NewReader(scoring), nil)
    var dfe *data.DataFormatError
    require.ErrorAs(t, err, &dfe)
    assert.Equal(t, "training", dfe.Table)
}

func TestRunRejectsInvalidConfigBeforeLoading(t *testing.T) {
    cfg := config.Default()
    cfg.TrainFraction = 1.5
    _, err := Run(cfg, strings.NewReader(""), strings.NewReader(""), nil)
    var ce *data.ConfigurationError
    require.ErrorAs(t, err, &ce)
}
