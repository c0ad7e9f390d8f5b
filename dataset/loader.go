package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/YuminosukeSato/icesales/pkg/errors"
)

// Canonical column names, also used when writing CSV.
const (
	ColumnDate        = "Date"
	ColumnTemperature = "Temperature"
	ColumnSales       = "Sales"
)

// header aliases, compared after lower-casing and trimming
var (
	temperatureAliases = []string{"temperature", "temperatura", "temp"}
	salesAliases       = []string{"sales", "vendas"}
	dateAliases        = []string{"date", "data"}
)

// Load はCSVファイルを読み込んで Dataset を返す
//
// ファイルを開けない場合やCSVとして解釈できない場合は IOError、
// 温度または販売数の列が見つからない場合は SchemaError を返す。
// 値が不正な行はエラーにせず除外し、Dropped() で報告する。
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOError("dataset.Load", path, err)
	}
	defer f.Close()
	return LoadReader(f, path)
}

// LoadReader reads comma-delimited records with a header row from r. source
// labels the input in errors and logs.
func LoadReader(r io.Reader, source string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.NewSchemaError([]string{ColumnTemperature, ColumnSales}, nil)
		}
		return nil, errors.NewIOError("dataset.LoadReader", source, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	normalized := lo.Map(header, func(h string, _ int) string {
		return strings.ToLower(strings.TrimSpace(h))
	})
	tempIdx := columnIndex(normalized, temperatureAliases)
	salesIdx := columnIndex(normalized, salesAliases)
	dateIdx := columnIndex(normalized, dateAliases)

	var missing []string
	if tempIdx < 0 {
		missing = append(missing, ColumnTemperature)
	}
	if salesIdx < 0 {
		missing = append(missing, ColumnSales)
	}
	if len(missing) > 0 {
		return nil, errors.NewSchemaError(missing, header)
	}

	ds := &Dataset{source: source, columns: header}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.NewIOError("dataset.LoadReader", source, err)
		}
		line, _ := reader.FieldPos(0)

		rec, reason := parseRow(row, tempIdx, salesIdx, dateIdx)
		if reason != "" {
			ds.dropped = append(ds.dropped, RowIssue{Line: line, Reason: reason})
			continue
		}
		ds.records = append(ds.records, rec)
	}

	if len(ds.dropped) > 0 {
		errors.Warn(errors.NewDroppedRowsWarning(source, len(ds.dropped), len(ds.records)))
	}
	return ds, nil
}

func columnIndex(header, aliases []string) int {
	for i, h := range header {
		if lo.Contains(aliases, h) {
			return i
		}
	}
	return -1
}

func parseRow(row []string, tempIdx, salesIdx, dateIdx int) (Record, string) {
	field := func(i int) (string, bool) {
		if i < 0 || i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}

	var rec Record
	rawTemp, ok := field(tempIdx)
	if !ok || rawTemp == "" {
		return rec, "missing temperature"
	}
	temp, err := strconv.ParseFloat(rawTemp, 64)
	if err != nil || !errors.IsFinite(temp) {
		return rec, fmt.Sprintf("invalid temperature %q", rawTemp)
	}

	rawSales, ok := field(salesIdx)
	if !ok || rawSales == "" {
		return rec, "missing sales"
	}
	sales, err := strconv.ParseFloat(rawSales, 64)
	if err != nil || !errors.IsFinite(sales) {
		return rec, fmt.Sprintf("invalid sales %q", rawSales)
	}
	if sales != math.Trunc(sales) || math.Abs(sales) > math.MaxInt32 {
		return rec, fmt.Sprintf("sales %q is not a whole number", rawSales)
	}

	rec.Temperature = temp
	rec.Sales = int(sales)
	if date, ok := field(dateIdx); ok {
		rec.Date = date
	}
	return rec, ""
}
