package data

import (
    "fmt"
    "strings"
)

// DataFormatError reports an input table that does not match the declared
// shape: missing label column, unexpected width, empty body.
type DataFormatError struct {
    Table string
    Msg   string
}

func (e *DataFormatError) Error() string {
    return fmt.Sprintf("table %s: %s", e.Table, e.Msg)
}

func formatErrf(table, format string, args ...interface{}) error {
    return &DataFormatError{Table: table, Msg: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports invalid pipeline configuration (bad fraction,
// non-positive ensemble size). Always fatal before training.
type ConfigurationError struct {
    Msg string
}

func (e *ConfigurationError) Error() string {
    return "configuration: " + e.Msg
}

// SchemaMismatchError reports silent data-shape drift: a table that lost or
// retyped columns the filtered schema expects.
type SchemaMismatchError struct {
    Table   string
    Reason  string
    Columns []string
}

func (e *SchemaMismatchError) Error() string {
    return fmt.Sprintf("table %s: %s columns: %s", e.Table, e.Reason, strings.Join(e.Columns, ", "))
}
