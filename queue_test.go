package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarityQueuePopsHighestScoreFirst(t *testing.T) {
	q := newSimilarityQueue()
	q.Insert(NewSimilarity("a", "b", 0.1))
	q.Insert(NewSimilarity("b", "c", 0.9))
	q.Insert(NewSimilarity("a", "c", 0.5))

	first, ok := q.PopBest()
	require.True(t, ok)
	assert.InDelta(t, 0.9, first.score, 1e-9)

	second, ok := q.PopBest()
	require.True(t, ok)
	assert.InDelta(t, 0.5, second.score, 1e-9)

	third, ok := q.PopBest()
	require.True(t, ok)
	assert.InDelta(t, 0.1, third.score, 1e-9)

	_, ok = q.PopBest()
	assert.False(t, ok)
}

func TestSimilarityQueueRemove(t *testing.T) {
	q := newSimilarityQueue()
	keep := NewSimilarity("a", "b", 0.9)
	drop := NewSimilarity("b", "c", 0.95)
	q.Insert(keep)
	q.Insert(drop)

	q.Remove(drop)
	assert.Equal(t, -1, drop.heapIndex)

	top, ok := q.PopBest()
	require.True(t, ok)
	assert.True(t, top.Equal(keep))

	_, ok = q.PopBest()
	assert.False(t, ok)
}

func TestSimilarityQueueRemoveIsNoOpWhenNotQueued(t *testing.T) {
	q := newSimilarityQueue()
	e := NewSimilarity("a", "b", 0.5)
	q.Remove(e) // never inserted
	assert.Equal(t, 0, q.Len())
}

func TestSimilarityQueueRescored(t *testing.T) {
	q := newSimilarityQueue()
	e1 := NewSimilarity("a", "b", 0.1)
	e2 := NewSimilarity("b", "c", 0.2)
	q.Insert(e1)
	q.Insert(e2)

	e1.score = 0.9
	q.Rescored(e1)

	top, ok := q.PopBest()
	require.True(t, ok)
	assert.True(t, top.Equal(e1))
}
