// Package load implements a convenience loader for tab-delimited similarity
// tables: a header row identifies the id1/id2/score columns (by name or by
// 1-based position), and each data row is fed into a ClusterGroup via
// AddSim. Parsing itself is read from a LineSource, so the engine core
// never depends on this package or on any file I/O.
package load

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/crowsonkb/hcluster"
)

// LineSource is the minimal abstraction the loader needs over a line-based
// input stream. NewScannerSource adapts a bufio.Scanner to it, and anything
// else that can hand back lines one at a time can implement it; this keeps
// the loader usable against sources
// other than a plain os.File (e.g. a network stream, or an in-memory test
// fixture) without pulling their dependencies into this package.
type LineSource interface {
	// Next returns the next line (without its trailing newline) and true,
	// or ("", false) once the source is exhausted. A non-nil err aborts
	// iteration.
	Next() (line string, ok bool, err error)
}

// scannerSource adapts a bufio.Scanner to LineSource.
type scannerSource struct {
	sc *bufio.Scanner
}

// NewScannerSource wraps an io.Reader as a LineSource using bufio.Scanner.
func NewScannerSource(r io.Reader) LineSource {
	return &scannerSource{sc: bufio.NewScanner(r)}
}

func (s *scannerSource) Next() (string, bool, error) {
	if !s.sc.Scan() {
		return "", false, s.sc.Err()
	}
	return s.sc.Text(), true, nil
}

// Column identifies a TSV column either by header name or by 1-based
// position; exactly one should be set. Position wins if both are set, so
// callers can specify either without needing a separate enum to
// distinguish the two.
type Column struct {
	Name     string
	Position int // 1-based; 0 means unset
}

// Options configures the loader.
type Options struct {
	ID1, ID2, Score Column

	// Sparse suppresses the expected-vs-actual edge count check; dense
	// mode performs it when ExpectedEdges is positive.
	Sparse        bool
	ExpectedEdges int
}

// DefaultOptions selects the first three columns as id1, id2, score.
func DefaultOptions() Options {
	return Options{
		ID1:   Column{Position: 1},
		ID2:   Column{Position: 2},
		Score: Column{Position: 3},
	}
}

// Stats summarizes what the loader observed, for callers that want to log
// or report on ingestion quality.
type Stats struct {
	RowsRead      int
	DuplicateRows int
}

// Load reads a tab-delimited stream (header row first) from src and feeds
// every row into group via AddSim. Non-finite scores are read as -Inf.
// Duplicate edges (same unordered id pair seen twice) are logged and
// forwarded to AddSim, which overwrites the earlier entry with the latest
// score.
func Load(src LineSource, group *cluster.ClusterGroup, opts Options, log *slog.Logger) (Stats, error) {
	if log == nil {
		log = slog.Default()
	}

	headerLine, ok, err := src.Next()
	if err != nil {
		return Stats{}, fmt.Errorf("load: reading header: %w", err)
	}
	if !ok {
		return Stats{}, fmt.Errorf("load: empty input, expected a header row")
	}
	header := splitTSV(headerLine)

	id1Idx, err := resolveColumn(opts.ID1, header, "id1")
	if err != nil {
		return Stats{}, err
	}
	id2Idx, err := resolveColumn(opts.ID2, header, "id2")
	if err != nil {
		return Stats{}, err
	}
	scoreIdx, err := resolveColumn(opts.Score, header, "score")
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	seen := make(map[string]bool)

	for {
		line, ok, err := src.Next()
		if err != nil {
			return stats, fmt.Errorf("load: reading row %d: %w", stats.RowsRead+1, err)
		}
		if !ok {
			break
		}
		if line == "" {
			continue
		}

		fields := splitTSV(line)
		maxIdx := id1Idx
		if id2Idx > maxIdx {
			maxIdx = id2Idx
		}
		if scoreIdx > maxIdx {
			maxIdx = scoreIdx
		}
		if maxIdx >= len(fields) {
			return stats, fmt.Errorf("load: row %d has %d columns, need at least %d", stats.RowsRead+1, len(fields), maxIdx+1)
		}

		id1 := fields[id1Idx]
		id2 := fields[id2Idx]
		score, err := parseScore(fields[scoreIdx])
		if err != nil {
			return stats, fmt.Errorf("load: row %d: %w", stats.RowsRead+1, err)
		}

		key := pairKey(id1, id2)
		if seen[key] {
			stats.DuplicateRows++
			log.Warn("duplicate edge ignored in favor of latest score", "id1", id1, "id2", id2)
		}
		seen[key] = true

		group.AddSim(id1, id2, score)
		stats.RowsRead++
	}

	if !opts.Sparse && opts.ExpectedEdges > 0 && stats.RowsRead != opts.ExpectedEdges {
		log.Warn("dense-mode edge count mismatch",
			"expected", opts.ExpectedEdges,
			"actual", stats.RowsRead,
		)
	}

	return stats, nil
}

func pairKey(id1, id2 string) string {
	if id2 < id1 {
		id1, id2 = id2, id1
	}
	return id1 + "\x00" + id2
}

func resolveColumn(c Column, header []string, label string) (int, error) {
	if c.Position > 0 {
		return c.Position - 1, nil
	}
	if c.Name != "" {
		for i, h := range header {
			if h == c.Name {
				return i, nil
			}
		}
		return 0, fmt.Errorf("load: %s column %q not found in header", label, c.Name)
	}
	return 0, fmt.Errorf("load: no column specified for %s", label)
}

func parseScore(field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid score %q: %w", field, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 1) {
		return math.Inf(-1), nil
	}
	return v, nil
}

// splitTSV splits one line into fields, tolerating quoted fields that
// embed a literal tab (e.g. values exported from a spreadsheet tool) by
// running it through the same tab-delimited csv.Reader NewTSVReader
// builds.
func splitTSV(line string) []string {
	cr := NewTSVReader(strings.NewReader(line))
	fields, err := cr.Read()
	if err != nil {
		// LazyQuotes accepts stray quotes, so this is reached only when the
		// reader yields no record (an empty line); fall back to a plain tab
		// split rather than failing on it.
		return strings.Split(line, "\t")
	}
	return fields
}

// NewTSVReader builds an encoding/csv.Reader configured for tab-delimited
// input with quoting support, for sources (e.g. exports from spreadsheet
// tools) that embed literal tabs inside quoted fields. splitTSV uses this
// for every row and header Load reads.
func NewTSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	return cr
}
