package utils

import (
    "os"
    "path/filepath"

    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

// Logger builds the process logger: console output always, plus a JSON tee
// into LOG_FILE when that variable is set.
func Logger() *zap.Logger {
    encCfg := zap.NewProductionEncoderConfig()
    encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
    console := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stderr), zapcore.InfoLevel)

    logFile := os.Getenv("LOG_FILE")
    if logFile == "" {
        return zap.New(console)
    }
    if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
        return zap.New(console)
    }
    f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return zap.New(console)
    }
    file := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), zapcore.InfoLevel)
    return zap.New(zapcore.NewTee(console, file))
}
