// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

const parquetBatch = 128

// ReadParquet reads a Parquet file with a flat schema. Column paths become
// header names joined with "."; repeated values of one column are joined
// with "; " so list-typed author columns read like an export cell.
func ReadParquet(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening parquet file %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("opening parquet %s: %w", path, err)
	}

	columns := pf.Schema().Columns()
	header := make([]string, len(columns))
	for i, p := range columns {
		header[i] = strings.Join(p, ".")
	}

	t := &Table{
		Name:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Header: header,
	}

	reader := parquet.NewReader(file)
	defer reader.Close()

	buf := make([]parquet.Row, parquetBatch)
	for {
		n, err := reader.ReadRows(buf)
		for _, row := range buf[:n] {
			t.Rows = append(t.Rows, rowCells(row, len(header)))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading parquet rows: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return t, nil
}

func rowCells(row parquet.Row, width int) []string {
	cells := make([]string, width)
	for _, v := range row {
		col := v.Column()
		if v.IsNull() || col < 0 || col >= width {
			continue
		}
		s := v.String()
		if cells[col] != "" {
			cells[col] += "; " + s
		} else {
			cells[col] = s
		}
	}
	return cells
}
