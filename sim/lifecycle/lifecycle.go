// Package lifecycle reads the mainframe lifecycle timeline: one CSV row per
// family with its general-availability (GA), hardware-withdrawal (HWFM) and
// end-of-support (EOS) dates.
package lifecycle

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mainframe-market/mfsim/sim"
)

// Column names of the timeline CSV header.
const (
	ColumnFamily       = "Family"
	ColumnRelease      = "GA"
	ColumnWithdrawal   = "HWFM"
	ColumnEndOfSupport = "EOS"
)

const dateLayout = "2006-01-02"

// Load reads and parses a timeline CSV file.
func Load(path string) ([]sim.FamilyLifecycle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading lifecycle timeline: %w", err)
	}
	defer f.Close()
	lcs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing lifecycle timeline %s: %w", path, err)
	}
	return lcs, nil
}

// Parse reads timeline rows from r. The header must name Family and GA;
// HWFM and EOS are optional columns and may be empty per row.
// Rows with an empty GA are skipped.
func Parse(r io.Reader) ([]sim.FamilyLifecycle, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty timeline: missing header")
	}
	if err != nil {
		return nil, err
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{ColumnFamily, ColumnRelease} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing %q column in header %v", required, header)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []sim.FamilyLifecycle
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, err
		}
		name := field(row, ColumnFamily)
		ga := field(row, ColumnRelease)
		if ga == "" {
			logrus.Debugf("timeline line %d: family %q has no GA date, skipped", line, name)
			continue
		}
		if name == "" {
			return nil, fmt.Errorf("line %d: empty family name", line)
		}
		release, err := time.Parse(dateLayout, ga)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, ColumnRelease, err)
		}
		lc := sim.FamilyLifecycle{Name: name, Release: release}
		if lc.Withdrawal, err = optionalDate(field(row, ColumnWithdrawal)); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, ColumnWithdrawal, err)
		}
		if lc.EndOfSupport, err = optionalDate(field(row, ColumnEndOfSupport)); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, ColumnEndOfSupport, err)
		}
		out = append(out, lc)
	}
	return out, nil
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
