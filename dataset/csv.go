package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/statkit/pkg/errors"
)

// CSVOption configures ReadCSV
type CSVOption func(*csvConfig)

type csvConfig struct {
	header      bool
	labelColumn int
	comma       rune
}

// WithHeader skips the first row (default: false)
func WithHeader(header bool) CSVOption {
	return func(c *csvConfig) { c.header = header }
}

// WithLabelColumn sets the column holding the label. Negative values count
// from the end of the row (default: -1, the last column).
func WithLabelColumn(col int) CSVOption {
	return func(c *csvConfig) { c.labelColumn = col }
}

// WithComma sets the field delimiter (default: ',')
func WithComma(r rune) CSVOption {
	return func(c *csvConfig) { c.comma = r }
}

// StringLabel は CSV のラベル列をそのまま文字列ラベルとして使う
func StringLabel(s string) (string, error) { return s, nil }

// ReadCSV は数値の特徴量列と1つのラベル列からなる CSV を読み込む。
// ラベル列は parseLabel で L に変換される。行ごとに列数が異なる場合や
// 特徴量が数値として解釈できない場合は、行番号付きのエラーで失敗する。
//
//	ds, err := dataset.ReadCSV(f, dataset.StringLabel, dataset.WithHeader(true))
func ReadCSV[L comparable](r io.Reader, parseLabel func(string) (L, error), opts ...CSVOption) (*Classification[L], error) {
	const op = "ReadCSV"
	cfg := csvConfig{labelColumn: -1, comma: ','}
	for _, opt := range opts {
		opt(&cfg)
	}

	reader := csv.NewReader(bufio.NewReader(r))
	reader.Comma = cfg.comma
	reader.ReuseRecord = true
	reader.TrimLeadingSpace = true

	var records []Record[L]
	line := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "%s: line %d", op, line)
		}
		if cfg.header && line == 1 {
			continue
		}

		labelCol := cfg.labelColumn
		if labelCol < 0 {
			labelCol += len(rec)
		}
		if labelCol < 0 || labelCol >= len(rec) || len(rec) < 2 {
			return nil, errors.NewValueError(op,
				fmt.Sprintf("line %d: label column %d out of range for %d fields", line, cfg.labelColumn, len(rec)))
		}

		features := make([]float64, 0, len(rec)-1)
		var label L
		for i, field := range rec {
			if i == labelCol {
				if label, err = parseLabel(field); err != nil {
					return nil, errors.Wrapf(err, "%s: line %d: parse label %q", op, line, field)
				}
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.NewValueError(op,
					fmt.Sprintf("line %d: field %d is not numeric: %q", line, i, field))
			}
			features = append(features, v)
		}
		records = append(records, Record[L]{Features: features, Label: label})
	}

	if len(records) == 0 {
		return nil, errors.NewModelError(op, "no data rows", errors.ErrEmptyData)
	}
	return FromRecords(records)
}

// ReadCSVFile は path の CSV を ReadCSV で読み込む
func ReadCSVFile[L comparable](path string, parseLabel func(string) (L, error), opts ...CSVOption) (*Classification[L], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return ReadCSV(f, parseLabel, opts...)
}
