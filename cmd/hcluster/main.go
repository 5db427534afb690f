// Command hcluster performs agglomerative hierarchical clustering over a
// tab-delimited table of pairwise similarity scores, printing the
// resulting clusters once no further merge is possible under the given
// cutoff and size cap.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	flag "github.com/spf13/pflag"

	cluster "github.com/crowsonkb/hcluster"
	"github.com/crowsonkb/hcluster/internal/load"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "hcluster - agglomerative hierarchical clustering\n\nUsage:\n\n  %s [<options>] [--input <input.tsv>]\n\nAllowed options:\n\n", os.Args[0])
		flag.PrintDefaults()
	}

	inputPath := flag.StringP("input", "i", "", "tab-delimited input file (header row, id1/id2/score columns); reads stdin if empty")
	linkage := flag.StringP("linkage", "l", "complete", "linkage method: complete, single, or average")
	minSim := flag.Float64P("min-sim", "m", 0.0, "stop merging once the best remaining candidate scores below this")
	maxSize := flag.IntP("max-size", "s", 0, "maximum cluster size; 0 means unbounded")
	sparse := flag.BoolP("sparse", "p", false, "sparse input: suppress the expected-vs-actual edge count check")
	expectedEdges := flag.IntP("expected-edges", "n", 0, "expected edge count for the dense-mode consistency check")
	colID1 := flag.String("col-id1", "id1", "header name (or 1-based column number) of the first id column")
	colID2 := flag.String("col-id2", "id2", "header name (or 1-based column number) of the second id column")
	colScore := flag.String("col-score", "score", "header name (or 1-based column number) of the score column")
	verbose := flag.BoolP("verbose", "v", false, "also log Info-level messages such as the load summary (loader warnings are always logged)")

	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	method, err := parseLinkage(*linkage)
	if err != nil {
		logger.Error("invalid linkage method", "error", err)
		os.Exit(1)
	}

	in := os.Stdin
	if *inputPath != "" {
		f, err := os.Open(*inputPath)
		if err != nil {
			logger.Error("opening input", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	opts := load.Options{
		ID1:           columnSpec(*colID1),
		ID2:           columnSpec(*colID2),
		Score:         columnSpec(*colScore),
		Sparse:        *sparse,
		ExpectedEdges: *expectedEdges,
	}

	group := cluster.New(1024, method)
	if *maxSize > 0 {
		group.SetMaxSize(*maxSize)
	}

	src := load.NewScannerSource(in)
	stats, err := load.Load(src, group, opts, logger)
	if err != nil {
		logger.Error("loading input", "error", err)
		os.Exit(1)
	}
	logger.Info("loaded similarity table", "rows", stats.RowsRead, "duplicates", stats.DuplicateRows, "clusters", group.Size())

	for group.Merge(*minSim) {
	}

	printClusters(os.Stdout, group)
}

func parseLinkage(s string) (cluster.LinkageMethod, error) {
	switch s {
	case "complete":
		return cluster.COMPLETE, nil
	case "single":
		return cluster.SINGLE, nil
	case "average":
		return cluster.AVERAGE, nil
	default:
		return 0, fmt.Errorf("unknown linkage method %q (want complete, single, or average)", s)
	}
}

// columnSpec interprets a flag value as a 1-based column position when it
// parses as a positive integer, and as a header name otherwise.
func columnSpec(v string) load.Column {
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return load.Column{Position: n}
	}
	return load.Column{Name: v}
}

func printClusters(w *os.File, group *cluster.ClusterGroup) {
	fmt.Fprintln(w, "cluster_id\tmember\theight\tscore")
	for _, c := range group.GetClusters() {
		for _, member := range c.GetMembers() {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", c.ID(), member, c.GetHeight(), formatScore(c.GetScore()))
		}
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
