package etl

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BartekS5/revetl/pkg/models"
	"github.com/jszwec/csvutil"
)

var requiredColumns = []string{"id", "country", "amount", "date"}

// CSVReader loads RawRecords from a delimited file with a header row.
type CSVReader struct {
	Path      string
	Delimiter rune
}

func NewCSVReader(path string, delimiter rune) *CSVReader {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVReader{Path: path, Delimiter: delimiter}
}

func (r *CSVReader) Source() string {
	return r.Path
}

// Read parses the whole file. Values are kept as the strings found in the
// file; header names are matched case-insensitively.
func (r *CSVReader) Read(ctx context.Context) ([]models.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrSourceNotFound, r.Path)
	}

	cr := csv.NewReader(bufio.NewReader(f))
	cr.Comma = r.Delimiter

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s is empty", ErrSourceMalformed, r.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrSourceMalformed, err)
	}

	header, err = normalizeHeader(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceMalformed, r.Path, err)
	}

	dec, err := csvutil.NewDecoder(cr, header...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceMalformed, err)
	}
	dec.DisallowMissingColumns = true

	var records []models.RawRecord
	for {
		var rec models.RawRecord
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceMalformed, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func normalizeHeader(header []string) ([]string, error) {
	out := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			h = fmt.Sprintf("_unnamed_%d", i)
		}
		if seen[h] {
			return nil, fmt.Errorf("duplicate column %q", h)
		}
		seen[h] = true
		out[i] = h
	}

	var missing []string
	for _, c := range requiredColumns {
		if !seen[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return out, nil
}
