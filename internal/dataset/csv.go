package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LoadCSV reads a delimited file and keeps its numeric columns.
func LoadCSV(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	if opt.Delimiter == 0 {
		opt.Delimiter = delimiterFor(path)
	}
	return ReadCSV(f, filepath.Base(path), opt)
}

// ReadCSV parses CSV content from r. The first record is the header.
func ReadCSV(r io.Reader, name string, opt Options) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Dataset{Name: name}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) == 0 {
		return &Dataset{Name: name}, nil
	}
	// ReuseRecord recycles the backing array, so copy the header before reading on.
	header = append([]string(nil), header...)
	col := newCollector(header, opt)
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", col.rows+1, err)
		}
		col.add(rec)
	}
	return col.dataset(name), nil
}
