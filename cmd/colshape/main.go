// Command colshape reshapes a tab-delimited stream's column layout to
// match the column order of a reference header. It shares this repository
// with the hcluster clustering engine but is otherwise unrelated: a
// standalone columnar-stream transformer, not a collaborator of the
// clustering core.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "colshape - reorder a TSV stream's columns to match a reference header\n\nUsage:\n\n  %s --reference <header.tsv> <input.tsv >output.tsv\n\nAllowed options:\n\n", os.Args[0])
		flag.PrintDefaults()
	}

	referencePath := flag.StringP("reference", "r", "", "file whose header row defines the target column order")
	missingValue := flag.StringP("missing", "m", "", "value to emit for columns present in the reference but absent from the input")
	flag.Parse()

	if *referencePath == "" {
		flag.Usage()
		os.Exit(1)
	}

	refHeader, err := readHeader(*referencePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "colshape: %v\n", err)
		os.Exit(1)
	}

	if err := reshape(os.Stdin, os.Stdout, refHeader, *missingValue); err != nil {
		fmt.Fprintf(os.Stderr, "colshape: %v\n", err)
		os.Exit(1)
	}
}

func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening reference: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return nil, fmt.Errorf("reference file has no header row")
	}
	return strings.Split(sc.Text(), "\t"), sc.Err()
}

// reshape reads a tab-delimited stream from r (header row first) and
// writes it back out with columns reordered to match target, filling any
// column named in target but absent from the input with missingValue.
func reshape(r *os.File, w *os.File, target []string, missingValue string) error {
	sc := bufio.NewScanner(r)
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	if !sc.Scan() {
		return nil
	}
	srcHeader := strings.Split(sc.Text(), "\t")
	srcIndex := make(map[string]int, len(srcHeader))
	for i, name := range srcHeader {
		srcIndex[name] = i
	}

	fmt.Fprintln(bw, strings.Join(target, "\t"))

	for sc.Scan() {
		fields := strings.Split(sc.Text(), "\t")
		row := make([]string, len(target))
		for i, name := range target {
			if idx, ok := srcIndex[name]; ok && idx < len(fields) {
				row[i] = fields[idx]
			} else {
				row[i] = missingValue
			}
		}
		fmt.Fprintln(bw, strings.Join(row, "\t"))
	}
	return sc.Err()
}
