package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// LoadTable parses an uploaded byte blob into an ordered sequence of flow
// records based on the filename extension. Supported formats match the
// upload endpoint contract: .csv, .parquet and .json.
func LoadTable(content []byte, filename string) ([]FlowRecord, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(content)
	case ".parquet":
		return parseParquet(content)
	case ".json":
		return parseJSON(content)
	default:
		return nil, newError(KindUnsupportedFormat, "unsupported file type: %s", filename)
	}
}

func parseCSV(content []byte) ([]FlowRecord, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, newError(KindParse, "failed to read CSV header: %v", err)
	}

	var records []FlowRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newError(KindParse, "failed to read CSV row %d: %v", len(records)+2, err)
		}

		record := make(FlowRecord, len(header))
		for i, name := range header {
			if i >= len(row) {
				break
			}
			// Numeric columns become numbers, anything else stays a string.
			if f, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64); err == nil {
				record[name] = f
			} else {
				record[name] = row[i]
			}
		}
		records = append(records, record)
	}
	return records, nil
}

func parseJSON(content []byte) ([]FlowRecord, error) {
	var records []FlowRecord
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, newError(KindParse, "failed to parse JSON dataset: %v", err)
	}
	return records, nil
}

func parseParquet(content []byte) ([]FlowRecord, error) {
	file, err := parquet.OpenFile(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, newError(KindParse, "failed to open parquet file: %v", err)
	}

	columns := file.Schema().Columns()
	names := make([]string, len(columns))
	for i, path := range columns {
		names[i] = strings.Join(path, ".")
	}

	var records []FlowRecord
	for _, group := range file.RowGroups() {
		rows := group.Rows()
		buf := make([]parquet.Row, 64)
		for {
			n, err := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				record := make(FlowRecord, len(names))
				for _, value := range row {
					col := value.Column()
					if col < 0 || col >= len(names) || value.IsNull() {
						continue
					}
					record[names[col]] = parquetValue(value)
				}
				records = append(records, record)
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				rows.Close()
				return nil, newError(KindParse, "failed to read parquet rows: %v", err)
			}
		}
		rows.Close()
	}
	return records, nil
}

func parquetValue(v parquet.Value) interface{} {
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return float64(v.Int32())
	case parquet.Int64:
		return float64(v.Int64())
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	default:
		return v.String()
	}
}
