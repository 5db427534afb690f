package load

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cluster "github.com/crowsonkb/hcluster"
)

func TestLoadDefaultColumns(t *testing.T) {
	src := NewScannerSource(strings.NewReader("id1\tid2\tscore\nA\tB\t0.9\nB\tC\t0.5\n"))
	g := cluster.New(2, cluster.COMPLETE)

	stats, err := Load(src, g, DefaultOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.RowsRead)
	assert.Equal(t, 0, stats.DuplicateRows)

	a, ok := g.GetCluster("A")
	require.True(t, ok)
	assert.InDelta(t, 0.9, a.ScoreTo("B"), 1e-9)
}

func TestLoadColumnsByName(t *testing.T) {
	src := NewScannerSource(strings.NewReader("score\tid2\tid1\n0.7\tY\tX\n"))
	opts := Options{
		ID1:   Column{Name: "id1"},
		ID2:   Column{Name: "id2"},
		Score: Column{Name: "score"},
	}
	g := cluster.New(1, cluster.COMPLETE)

	_, err := Load(src, g, opts, nil)
	require.NoError(t, err)

	x, ok := g.GetCluster("X")
	require.True(t, ok)
	assert.InDelta(t, 0.7, x.ScoreTo("Y"), 1e-9)
}

func TestLoadColumnsByPosition(t *testing.T) {
	src := NewScannerSource(strings.NewReader("h1\th2\th3\th4\nfoo\tA\tB\t0.3\n"))
	opts := Options{
		ID1:   Column{Position: 2},
		ID2:   Column{Position: 3},
		Score: Column{Position: 4},
	}
	g := cluster.New(1, cluster.COMPLETE)

	_, err := Load(src, g, opts, nil)
	require.NoError(t, err)

	a, ok := g.GetCluster("A")
	require.True(t, ok)
	assert.InDelta(t, 0.3, a.ScoreTo("B"), 1e-9)
}

func TestLoadUnknownColumnName(t *testing.T) {
	src := NewScannerSource(strings.NewReader("id1\tid2\tscore\nA\tB\t0.9\n"))
	opts := Options{
		ID1:   Column{Name: "nope"},
		ID2:   Column{Name: "id2"},
		Score: Column{Name: "score"},
	}
	g := cluster.New(1, cluster.COMPLETE)

	_, err := Load(src, g, opts, nil)
	assert.Error(t, err)
}

func TestLoadEmptyInput(t *testing.T) {
	src := NewScannerSource(strings.NewReader(""))
	g := cluster.New(1, cluster.COMPLETE)

	_, err := Load(src, g, DefaultOptions(), nil)
	assert.Error(t, err)
}

func TestLoadTooFewColumnsInRow(t *testing.T) {
	src := NewScannerSource(strings.NewReader("id1\tid2\tscore\nA\tB\n"))
	g := cluster.New(1, cluster.COMPLETE)

	_, err := Load(src, g, DefaultOptions(), nil)
	assert.Error(t, err)
}

func TestLoadInvalidScore(t *testing.T) {
	src := NewScannerSource(strings.NewReader("id1\tid2\tscore\nA\tB\tnotanumber\n"))
	g := cluster.New(1, cluster.COMPLETE)

	_, err := Load(src, g, DefaultOptions(), nil)
	assert.Error(t, err)
}

func TestLoadNonFiniteScoreBecomesNegativeInfinity(t *testing.T) {
	src := NewScannerSource(strings.NewReader("id1\tid2\tscore\nA\tB\tNaN\n"))
	g := cluster.New(1, cluster.COMPLETE)

	_, err := Load(src, g, DefaultOptions(), nil)
	require.NoError(t, err)

	a, _ := g.GetCluster("A")
	assert.True(t, a.ScoreTo("B") < 0)
}

func TestLoadDuplicateRowOverwritesAndCounts(t *testing.T) {
	src := NewScannerSource(strings.NewReader("id1\tid2\tscore\nA\tB\t0.1\nA\tB\t0.8\n"))
	g := cluster.New(1, cluster.COMPLETE)

	stats, err := Load(src, g, DefaultOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DuplicateRows)

	a, _ := g.GetCluster("A")
	assert.InDelta(t, 0.8, a.ScoreTo("B"), 1e-9)
}

func TestLoadBlankLinesSkipped(t *testing.T) {
	src := NewScannerSource(strings.NewReader("id1\tid2\tscore\nA\tB\t0.9\n\nB\tC\t0.4\n"))
	g := cluster.New(2, cluster.COMPLETE)

	stats, err := Load(src, g, DefaultOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.RowsRead)
}

func TestNewTSVReaderTabDelimited(t *testing.T) {
	cr := NewTSVReader(strings.NewReader("a\tb\tc\n1\t2\t3\n"))
	record, err := cr.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, record)
}
