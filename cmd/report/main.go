package main

import (
    "encoding/csv"
    "encoding/gob"
    "flag"
    "fmt"
    "math"
    "os"
    "path/filepath"
    "strconv"
    "strings"

    "gonum.org/v1/plot"
    "gonum.org/v1/plot/plotter"
    "gonum.org/v1/plot/plotutil"
    "gonum.org/v1/plot/vg"

    "github.com/google/uuid"
    "go.uber.org/zap"

    "liftcheck/internal/config"
    "liftcheck/internal/data"
    "liftcheck/internal/models"
    "liftcheck/internal/pipeline"
    "liftcheck/pkg/utils"
)

func main() {
    logger := utils.Logger()
    defer logger.Sync()

    cfgPath := flag.String("config", "", "Arquivo YAML de configuração (vazio usa os padrões)")
    trainPath := flag.String("train", "data/pml-training.csv", "CSV de treino (com a coluna classe)")
    scorePath := flag.String("score", "data/pml-testing.csv", "CSV de pontuação (sem rótulo)")
    seed := flag.Int64("seed", 0, "Sobrescreve a seed da configuração (0 mantém)")
    trees := flag.Int("trees", 0, "Sobrescreve o número de árvores (0 mantém)")
    synth := flag.Bool("synth", false, "Gerar dataset sintético quando os CSVs não existem")
    synthRows := flag.Int("synth_n", 4000, "Linhas do dataset sintético de treino")
    modelOut := flag.String("model_out", "models/rf_model.gob", "Arquivo do modelo treinado")
    impImg := flag.String("importance_img", "reports/importance.png", "PNG do ranking de importância")
    curveImg := flag.String("curve_out_img", "reports/oob_curve.png", "PNG da curva de erro OOB")
    curveCsv := flag.String("curve_out_csv", "data/oob_curve.csv", "CSV da curva de erro OOB")
    flag.Parse()

    log := logger.With(zap.String("run_id", uuid.NewString()))

    cfg := config.Default()
    if *cfgPath != "" {
        var err error
        cfg, err = config.Load(*cfgPath)
        if err != nil { log.Fatal("Configuração inválida", zap.Error(err)) }
    }
    if *seed != 0 { cfg.Seed = *seed }
    if *trees > 0 { cfg.Forest.Trees = *trees }

    if *synth {
        ensureSynthetic(log, *trainPath, *scorePath, *synthRows, cfg.Seed)
    }

    trainFile, err := os.Open(*trainPath)
    if err != nil { log.Fatal("Falha ao abrir CSV de treino", zap.Error(err)) }
    defer trainFile.Close()
    scoreFile, err := os.Open(*scorePath)
    if err != nil { log.Fatal("Falha ao abrir CSV de pontuação", zap.Error(err)) }
    defer scoreFile.Close()

    res, err := pipeline.Run(cfg, trainFile, scoreFile, log)
    if err != nil { log.Fatal("Pipeline abortado", zap.Error(err)) }

    fmt.Println("Modelo:", res.Model.Name())
    fmt.Printf("Colunas removidas (%d): %s\n\n", len(res.DropSet), strings.Join(res.DropSet.Names(), ", "))
    fmt.Printf("Erro OOB do treino: %.4f\n", res.Training.OOBError)
    fmt.Println("Matriz de confusão OOB:")
    fmt.Println(res.Training.OOBConfusion)
    if res.Training.CVConfusion != nil {
        fmt.Printf("Acurácia por validação cruzada: %.4f\n", res.Training.CVAccuracy)
        fmt.Println(res.Training.CVConfusion)
    }
    fmt.Printf("Acurácia na validação: %.4f\n", res.Validation.Accuracy)
    fmt.Println("Matriz de confusão da validação:")
    fmt.Println(res.Validation.Confusion)

    top := res.Model.RankedImportances()
    if len(top) > cfg.TopFeatures { top = top[:cfg.TopFeatures] }
    fmt.Println("Variáveis mais importantes:")
    for i, fi := range top {
        fmt.Printf("%3d. %-24s %.5f\n", i+1, fi.Name, fi.Score)
    }
    fmt.Println()
    fmt.Println("Previsões da pontuação:", strings.Join(res.Predictions, " "))

    if err := saveModel(*modelOut, res.Model); err != nil {
        log.Fatal("Falha ao salvar modelo", zap.Error(err))
    }
    log.Info("Modelo salvo", zap.String("path", *modelOut))

    if err := plotImportancePNG(*impImg, top); err != nil {
        log.Warn("Falha ao salvar PNG de importância", zap.Error(err))
    }
    if err := writeCurveCSV(*curveCsv, res.Training.ErrorByTree); err != nil {
        log.Warn("Falha ao salvar CSV da curva", zap.Error(err))
    }
    if err := plotCurvePNG(*curveImg, res.Training.ErrorByTree); err != nil {
        log.Warn("Falha ao salvar PNG da curva", zap.Error(err))
    } else {
        log.Info("Curva de erro OOB gerada", zap.String("png", *curveImg), zap.String("csv", *curveCsv))
    }
}

func ensureSynthetic(log *zap.Logger, trainPath, scorePath string, n int, seed int64) {
    if _, err := os.Stat(trainPath); os.IsNotExist(err) {
        log.Info("Gerando dataset sintético de treino", zap.Int("n", n), zap.String("out", trainPath))
        if err := data.GenerateSyntheticDataset(trainPath, n, seed, true); err != nil {
            log.Fatal("Falha ao gerar dataset de treino", zap.Error(err))
        }
    }
    if _, err := os.Stat(scorePath); os.IsNotExist(err) {
        log.Info("Gerando dataset sintético de pontuação", zap.Int("n", 20), zap.String("out", scorePath))
        if err := data.GenerateSyntheticDataset(scorePath, 20, seed+1, false); err != nil {
            log.Fatal("Falha ao gerar dataset de pontuação", zap.Error(err))
        }
    }
}

func saveModel(path string, rf *models.RandomForest) error {
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { return err }
    f, err := os.Create(path)
    if err != nil { return err }
    defer f.Close()
    return gob.NewEncoder(f).Encode(rf)
}

func plotImportancePNG(path string, imps []models.FeatureImportance) error {
    p := plot.New()
    p.Title.Text = "Importância das variáveis"
    p.Y.Label.Text = "Queda média de Gini"

    vals := make(plotter.Values, len(imps))
    names := make([]string, len(imps))
    for i, fi := range imps {
        vals[i] = fi.Score
        names[i] = fi.Name
    }
    bars, err := plotter.NewBarChart(vals, vg.Points(12))
    if err != nil { return err }
    p.Add(bars)
    p.NominalX(names...)
    p.X.Tick.Label.Rotation = math.Pi / 3
    p.X.Tick.Label.XAlign = -1
    p.X.Tick.Label.YAlign = -0.5

    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { return err }
    return p.Save(10*vg.Inch, 5*vg.Inch, path)
}

func plotCurvePNG(path string, errs []float64) error {
    p := plot.New()
    p.Title.Text = "Erro OOB por número de árvores"
    p.X.Label.Text = "Árvores"
    p.Y.Label.Text = "Erro OOB"
    p.Y.Min = 0

    pts := make(plotter.XYs, 0, len(errs))
    for i, e := range errs {
        if math.IsNaN(e) { continue }
        pts = append(pts, plotter.XY{X: float64(i + 1), Y: e})
    }
    if err := plotutil.AddLinePoints(p, "OOB", pts); err != nil { return err }
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { return err }
    return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

func writeCurveCSV(path string, errs []float64) error {
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { return err }
    f, err := os.Create(path)
    if err != nil { return err }
    defer f.Close()
    w := csv.NewWriter(f)
    defer w.Flush()
    if err := w.Write([]string{"trees", "oob_error"}); err != nil { return err }
    for i, e := range errs {
        rec := []string{strconv.Itoa(i + 1), fmt.Sprintf("%.6f", e)}
        if err := w.Write(rec); err != nil { return err }
    }
    return nil
}
