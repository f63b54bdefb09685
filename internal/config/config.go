package config

import (
    "fmt"
    "os"

    "github.com/go-playground/validator/v10"
    "github.com/goccy/go-yaml"

    "liftcheck/internal/data"
)

type FilterConfig struct {
    MaxMissing        int      `yaml:"max_missing" validate:"gte=0"`
    FreqRatioCutoff   float64  `yaml:"freq_ratio_cutoff" validate:"gt=1"`
    UniqueCut         float64  `yaml:"unique_cut" validate:"gt=0,lt=1"`
    IdentifierColumns []string `yaml:"identifier_columns"`
}

type ForestConfig struct {
    Trees                   int `yaml:"trees" validate:"gt=0"`
    MaxDepth                int `yaml:"max_depth" validate:"gte=0"`
    MinSamplesSplit         int `yaml:"min_samples_split" validate:"gte=2"`
    MaxFeatures             int `yaml:"max_features" validate:"gte=0"`
    MaxThresholdsPerFeature int `yaml:"max_thresholds_per_feature" validate:"gt=0"`
}

type ResamplingConfig struct {
    Method string `yaml:"method" validate:"oneof=oob cv"`
    Folds  int    `yaml:"folds" validate:"gte=2"`
}

// Config drives one pipeline run. The seed feeds both the partitioner and
// the forest's internal resampling, so repeated runs are bit-reproducible.
type Config struct {
    Seed           int64    `yaml:"seed"`
    TrainFraction  float64  `yaml:"train_fraction" validate:"gt=0,lt=1"`
    LabelColumn    string   `yaml:"label_column" validate:"required"`
    MissingMarkers []string `yaml:"missing_markers"`
    TopFeatures    int      `yaml:"top_features" validate:"gt=0"`

    Filter     FilterConfig     `yaml:"filter"`
    Forest     ForestConfig     `yaml:"forest"`
    Resampling ResamplingConfig `yaml:"resampling"`
}

func Default() *Config {
    return &Config{
        Seed:           12345,
        TrainFraction:  0.70,
        LabelColumn:    "classe",
        MissingMarkers: data.DefaultMissingMarkers,
        TopFeatures:    20,
        Filter: FilterConfig{
            MaxMissing:      0,
            FreqRatioCutoff: 19.0,
            UniqueCut:       0.002,
        },
        Forest: ForestConfig{
            Trees:                   100,
            MaxDepth:                20,
            MinSamplesSplit:         2,
            MaxFeatures:             0,
            MaxThresholdsPerFeature: 32,
        },
        Resampling: ResamplingConfig{
            Method: "oob",
            Folds:  5,
        },
    }
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
    raw, err := os.ReadFile(path)
    if err != nil {
        return nil, fmt.Errorf("config: %w", err)
    }
    cfg := Default()
    if err := yaml.Unmarshal(raw, cfg); err != nil {
        return nil, &data.ConfigurationError{Msg: fmt.Sprintf("parse %s: %v", path, err)}
    }
    if err := cfg.Validate(); err != nil {
        return nil, err
    }
    return cfg, nil
}

func (c *Config) Validate() error {
    if err := validator.New().Struct(c); err != nil {
        return &data.ConfigurationError{Msg: err.Error()}
    }
    return nil
}
