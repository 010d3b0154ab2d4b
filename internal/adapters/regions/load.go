package regions

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tealeg/xlsx/v2"
)

// CodeColumn is the header looked up in tabular files.
const CodeColumn = "zipcode"

// LoadFile reads region codes from path. .csv and .xlsx files must carry a
// zipcode header column; anything else is read as one code per line.
func LoadFile(path string) ([]string, error) {
	var (
		codes []string
		err   error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		codes, err = loadCSV(path)
	case ".xlsx":
		codes, err = loadXLSX(path)
	default:
		codes, err = loadLines(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("load %s: %w", path, ErrEmptyFile)
	}
	return codes, nil
}

// PadCode left-pads a numeric code with zeros to five digits. Spreadsheet
// tools drop the leading zero of New England ZIPs.
func PadCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" || len(code) >= 5 {
		return code
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return code
		}
	}
	return strings.Repeat("0", 5-len(code)) + code
}

func loadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	var codes []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			codes = append(codes, line)
		}
	}
	return codes, sc.Err()
}

func loadCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	col := columnIndex(header)
	if col < 0 {
		return nil, ErrMissingColumn
	}

	var codes []string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if col < len(rec) {
			if code := PadCode(rec[col]); code != "" {
				codes = append(codes, code)
			}
		}
	}
	return codes, nil
}

func loadXLSX(path string) ([]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, err
	}
	if len(f.Sheets) == 0 || len(f.Sheets[0].Rows) == 0 {
		return nil, nil
	}

	rows := f.Sheets[0].Rows
	col := columnIndex(rowStrings(rows[0]))
	if col < 0 {
		return nil, ErrMissingColumn
	}

	var codes []string
	for _, row := range rows[1:] {
		cells := rowStrings(row)
		if col < len(cells) {
			if code := PadCode(cells[col]); code != "" {
				codes = append(codes, code)
			}
		}
	}
	return codes, nil
}

func rowStrings(row *xlsx.Row) []string {
	if row == nil {
		return nil
	}
	cells := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		cells[i] = c.String()
	}
	return cells
}

func columnIndex(header []string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), CodeColumn) {
			return i
		}
	}
	return -1
}
