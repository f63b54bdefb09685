package data

import (
    "io"

    "github.com/go-gota/gota/dataframe"
    "github.com/go-gota/gota/series"
)

// DefaultMissingMarkers are the cell values treated as missing in the raw
// sensor export. The summary columns mix empty cells, "NA" and spreadsheet
// division errors.
var DefaultMissingMarkers = []string{"NA", "#DIV/0!", ""}

type LoadOptions struct {
    // Table names the source in error messages.
    Table string
    // LabelColumn, when set, must exist, be categorical and fully populated.
    LabelColumn string
    // MissingMarkers overrides DefaultMissingMarkers when non-nil.
    MissingMarkers []string
    // ExpectColumns, when positive, enforces the declared table width.
    ExpectColumns int
}

// ReadTable parses a header-first delimited table into a Frame. Numeric
// columns keep NaN at missing cells, everything else becomes a categorical
// column with an explicit missing mask.
func ReadTable(r io.Reader, opts LoadOptions) (*Frame, error) {
    table := opts.Table
    if table == "" {
        table = "<input>"
    }
    markers := opts.MissingMarkers
    if markers == nil {
        markers = DefaultMissingMarkers
    }

    df := dataframe.ReadCSV(r,
        dataframe.HasHeader(true),
        dataframe.DetectTypes(true),
        dataframe.DefaultType(series.String),
        dataframe.NaNValues(markers),
    )
    if df.Err != nil {
        return nil, formatErrf(table, "read: %v", df.Err)
    }
    if df.Nrow() == 0 {
        return nil, formatErrf(table, "no data rows")
    }

    names := df.Names()
    types := df.Types()
    cols := make([]*Column, 0, len(names))
    for i, name := range names {
        s := df.Col(name)
        miss := s.IsNaN()
        c := &Column{Name: name, Missing: miss}
        switch types[i] {
        case series.Float, series.Int:
            c.Kind = Numeric
            c.Floats = s.Float()
        default:
            c.Kind = Categorical
            c.Labels = s.Records()
            for j, m := range miss {
                if m {
                    c.Labels[j] = ""
                }
            }
        }
        cols = append(cols, c)
    }
    f, err := NewFrame(cols)
    if err != nil {
        return nil, formatErrf(table, "%v", err)
    }

    if opts.ExpectColumns > 0 && f.NumCols() != opts.ExpectColumns {
        return nil, formatErrf(table, "declared %d columns, found %d", opts.ExpectColumns, f.NumCols())
    }
    if opts.LabelColumn != "" {
        c, ok := f.Column(opts.LabelColumn)
        if !ok {
            return nil, formatErrf(table, "label column %q absent", opts.LabelColumn)
        }
        if c.Kind != Categorical {
            return nil, formatErrf(table, "label column %q is not categorical", opts.LabelColumn)
        }
        if n := c.MissingCount(); n > 0 {
            return nil, formatErrf(table, "label column %q has %d missing values", opts.LabelColumn, n)
        }
    }
    return f, nil
}
