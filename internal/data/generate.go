package data

import (
    "encoding/csv"
    "fmt"
    "io"
    "math/rand"
    "os"
    "path/filepath"
    "strconv"
    "time"
)

var syntheticUsers = []string{"adelmo", "carlitos", "charles", "eurico", "jeremy", "pedro"}
var syntheticClasses = []string{"A", "B", "C", "D", "E"}

// WriteSyntheticTable writes a structurally faithful synthetic lifting-motion
// table: identifier/time columns that track collection order, fully populated
// sensor channels whose distribution shifts with the execution class, and
// mostly-missing summary-statistic columns. withLabel controls the trailing
// classe column.
func WriteSyntheticTable(w io.Writer, n int, seed int64, withLabel bool) error {
    rng := rand.New(rand.NewSource(seed))
    cw := csv.NewWriter(w)
    defer cw.Flush()

    header := []string{
        "X", "user_name", "raw_timestamp_part_1", "raw_timestamp_part_2", "cvtd_timestamp",
        "new_window", "num_window",
        "roll_belt", "pitch_belt", "yaw_belt", "total_accel_belt",
        "kurtosis_roll_belt", "skewness_roll_belt",
        "gyros_arm_x", "gyros_arm_y", "accel_dumbbell_z", "magnet_forearm_y",
    }
    if withLabel {
        header = append(header, "classe")
    }
    if err := cw.Write(header); err != nil {
        return err
    }

    base := time.Date(2011, 12, 5, 11, 23, 0, 0, time.UTC)
    window := 1
    for i := 0; i < n; i++ {
        cls := rng.Intn(len(syntheticClasses))
        shift := float64(cls)

        if rng.Float64() < 0.04 {
            window++
        }
        ts := base.Add(time.Duration(i) * 40 * time.Millisecond)
        newWindow := "no"
        if rng.Float64() < 0.02 {
            newWindow = "yes"
        }

        kurtosis := "#DIV/0!"
        skewness := "NA"
        if rng.Float64() < 0.02 {
            kurtosis = strconv.FormatFloat(rng.NormFloat64(), 'f', 4, 64)
            skewness = strconv.FormatFloat(rng.NormFloat64(), 'f', 4, 64)
        }

        rec := []string{
            strconv.Itoa(i + 1),
            syntheticUsers[rng.Intn(len(syntheticUsers))],
            strconv.FormatInt(ts.Unix(), 10),
            strconv.Itoa(rng.Intn(1000000)),
            ts.Format("02/01/2006 15:04"),
            newWindow,
            strconv.Itoa(window),
            fmt.Sprintf("%.2f", 60+8*shift+rng.NormFloat64()*3),
            fmt.Sprintf("%.2f", -20+5*shift+rng.NormFloat64()*2),
            fmt.Sprintf("%.2f", -10+6*shift+rng.NormFloat64()*4),
            strconv.Itoa(3 + cls + rng.Intn(4)),
            kurtosis,
            skewness,
            fmt.Sprintf("%.2f", 0.3*shift+rng.NormFloat64()*0.5),
            fmt.Sprintf("%.2f", -0.2*shift+rng.NormFloat64()*0.5),
            fmt.Sprintf("%.2f", -120+15*shift+rng.NormFloat64()*10),
            fmt.Sprintf("%.2f", 400-30*shift+rng.NormFloat64()*25),
        }
        if withLabel {
            rec = append(rec, syntheticClasses[cls])
        }
        if err := cw.Write(rec); err != nil {
            return err
        }
    }
    return nil
}

// GenerateSyntheticDataset writes a synthetic table to path, creating the
// parent directory as needed.
func GenerateSyntheticDataset(path string, n int, seed int64, withLabel bool) error {
    if dir := filepath.Dir(path); dir != "." {
        if err := os.MkdirAll(dir, 0o755); err != nil {
            return err
        }
    }
    f, err := os.Create(path)
    if err != nil {
        return err
    }
    defer f.Close()
    return WriteSyntheticTable(f, n, seed, withLabel)
}
