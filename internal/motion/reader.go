// Package motion reads recorded motion tables from delimited text files.
package motion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/posereplay/internal/mocap"
)

// Options controls parsing. The zero value reads comma separated files with
// an optional header row.
type Options struct {
	Comma rune
	// Header forces the first row to be treated as column names. When
	// false the first row is a header only if it does not parse as numbers.
	Header bool
}

// ReadFile loads a motion table from path.
func ReadFile(path string, opts Options) (*mocap.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, mocap.NotFound("motion", path)
		}
		return nil, fmt.Errorf("open motion file: %w", err)
	}
	defer f.Close()

	tbl, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tbl, nil
}

// Read parses a motion table. Every data row must have the same number of
// numeric fields.
func Read(r io.Reader, opts Options) (*mocap.Table, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	tbl := &mocap.Table{}
	width := -1
	line := 0

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read motion table: %w", err)
		}
		line++

		if line == 1 && (opts.Header || !numeric(rec)) {
			tbl.Columns = make([]string, len(rec))
			for i, name := range rec {
				tbl.Columns[i] = strings.TrimSpace(name)
			}
			width = len(rec)
			continue
		}

		frame, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if width < 0 {
			width = len(frame)
		}
		if len(frame) != width {
			return nil, &mocap.DimensionError{Expected: width, Actual: len(frame), Row: len(tbl.Frames), Msg: "ragged motion table"}
		}
		tbl.Frames = append(tbl.Frames, frame)
	}

	return tbl, nil
}

func numeric(rec []string) bool {
	for _, v := range rec {
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return false
		}
	}
	return len(rec) > 0
}

func parseRow(rec []string) (mocap.Frame, error) {
	frame := make(mocap.Frame, len(rec))
	for i, v := range rec {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		frame[i] = f
	}
	return frame, nil
}
