package data

import (
    "math"
)

type Kind uint8

const (
    Numeric Kind = iota
    Categorical
)

// Column is one named column of an observation table. Numeric columns carry
// Floats (NaN at missing positions), categorical columns carry Labels ("" at
// missing positions). Missing is the authoritative mask for both kinds.
type Column struct {
    Name    string
    Kind    Kind
    Floats  []float64
    Labels  []string
    Missing []bool
}

func (c *Column) Len() int {
    if c.Kind == Numeric {
        return len(c.Floats)
    }
    return len(c.Labels)
}

func (c *Column) MissingCount() int {
    n := 0
    for _, m := range c.Missing {
        if m {
            n++
        }
    }
    return n
}

// Frame is an immutable columnar observation table. Every transformation
// produces a new Frame; no method mutates the receiver.
type Frame struct {
    cols  []*Column
    index map[string]int
    nrow  int
}

func NewFrame(cols []*Column) (*Frame, error) {
    f := &Frame{cols: cols, index: make(map[string]int, len(cols))}
    for i, c := range cols {
        if _, dup := f.index[c.Name]; dup {
            return nil, formatErrf("<frame>", "duplicate column %q", c.Name)
        }
        if i == 0 {
            f.nrow = c.Len()
        } else if c.Len() != f.nrow {
            return nil, formatErrf("<frame>", "column %q has %d rows, want %d", c.Name, c.Len(), f.nrow)
        }
        if len(c.Missing) != c.Len() {
            return nil, formatErrf("<frame>", "column %q missing-mask length %d, want %d", c.Name, len(c.Missing), c.Len())
        }
        f.index[c.Name] = i
    }
    return f, nil
}

func (f *Frame) NumRows() int { return f.nrow }
func (f *Frame) NumCols() int { return len(f.cols) }

func (f *Frame) Names() []string {
    out := make([]string, len(f.cols))
    for i, c := range f.cols {
        out[i] = c.Name
    }
    return out
}

func (f *Frame) Column(name string) (*Column, bool) {
    i, ok := f.index[name]
    if !ok {
        return nil, false
    }
    return f.cols[i], true
}

func (f *Frame) HasColumn(name string) bool {
    _, ok := f.index[name]
    return ok
}

// Subset returns a new Frame holding the given rows, in the given order.
func (f *Frame) Subset(rows []int) *Frame {
    cols := make([]*Column, len(f.cols))
    for i, c := range f.cols {
        nc := &Column{Name: c.Name, Kind: c.Kind, Missing: make([]bool, len(rows))}
        if c.Kind == Numeric {
            nc.Floats = make([]float64, len(rows))
            for j, r := range rows {
                nc.Floats[j] = c.Floats[r]
                nc.Missing[j] = c.Missing[r]
            }
        } else {
            nc.Labels = make([]string, len(rows))
            for j, r := range rows {
                nc.Labels[j] = c.Labels[r]
                nc.Missing[j] = c.Missing[r]
            }
        }
        cols[i] = nc
    }
    nf, _ := NewFrame(cols)
    return nf
}

// DropColumns projects away the named columns. Names absent from the frame
// are ignored, which makes the projection idempotent. Column slices are
// shared with the receiver; frames are never mutated so sharing is safe.
func (f *Frame) DropColumns(drop map[string]struct{}) *Frame {
    kept := make([]*Column, 0, len(f.cols))
    for _, c := range f.cols {
        if _, gone := drop[c.Name]; !gone {
            kept = append(kept, c)
        }
    }
    nf, _ := NewFrame(kept)
    nf.nrow = f.nrow
    return nf
}

// FeatureColumns lists every column name except the label, in table order.
func (f *Frame) FeatureColumns(label string) []string {
    out := make([]string, 0, len(f.cols))
    for _, c := range f.cols {
        if c.Name != label {
            out = append(out, c.Name)
        }
    }
    return out
}

// Matrix builds a row-major feature matrix with the given columns in the
// given order. Absent or non-numeric columns are schema drift and reported
// as SchemaMismatchError; missing numeric cells become NaN.
func (f *Frame) Matrix(table string, features []string) ([][]float64, error) {
    var absent, nonNumeric []string
    cols := make([]*Column, 0, len(features))
    for _, name := range features {
        c, ok := f.Column(name)
        if !ok {
            absent = append(absent, name)
            continue
        }
        if c.Kind != Numeric {
            nonNumeric = append(nonNumeric, name)
            continue
        }
        cols = append(cols, c)
    }
    if len(absent) > 0 {
        return nil, &SchemaMismatchError{Table: table, Reason: "absent", Columns: absent}
    }
    if len(nonNumeric) > 0 {
        return nil, &SchemaMismatchError{Table: table, Reason: "non-numeric", Columns: nonNumeric}
    }
    X := make([][]float64, f.nrow)
    for i := 0; i < f.nrow; i++ {
        row := make([]float64, len(cols))
        for j, c := range cols {
            if c.Missing[i] {
                row[j] = math.NaN()
            } else {
                row[j] = c.Floats[i]
            }
        }
        X[i] = row
    }
    return X, nil
}

// ClassLabels returns the values of a categorical column with no missing
// entries, as required for the label column.
func (f *Frame) ClassLabels(name string) ([]string, error) {
    c, ok := f.Column(name)
    if !ok {
        return nil, formatErrf("<frame>", "label column %q absent", name)
    }
    if c.Kind != Categorical {
        return nil, formatErrf("<frame>", "label column %q is not categorical", name)
    }
    if n := c.MissingCount(); n > 0 {
        return nil, formatErrf("<frame>", "label column %q has %d missing values", name, n)
    }
    out := make([]string, len(c.Labels))
    copy(out, c.Labels)
    return out, nil
}
