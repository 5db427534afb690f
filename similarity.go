package cluster

import (
	"math"

	"github.com/crowsonkb/hcluster/internal/natural"
)

// Similarity is an undirected edge between two clusters carrying a scalar
// score. Its two endpoints are stored in canonical (ascending) order so
// that two Similarity values built from the same unordered pair of ids are
// always equal, regardless of which order the caller supplied them in.
type Similarity struct {
	cluster1, cluster2 string
	score              float64

	// heapIndex tracks this edge's slot in a similarityQueue, or -1 when
	// the edge is not currently queued. It is owned entirely by
	// similarityQueue; nothing outside queue.go reads or writes it.
	heapIndex int
}

// NewSimilarity builds a Similarity with its endpoints in canonical order.
// Non-finite scores (NaN, +Inf) are coerced to -Inf, matching the
// ClusterGroup/Similarity invariant that every stored score is a concrete,
// comparable float.
func NewSimilarity(cl1, cl2 string, score float64) *Similarity {
	if cl2 < cl1 {
		cl1, cl2 = cl2, cl1
	}
	if math.IsNaN(score) || math.IsInf(score, 1) {
		score = math.Inf(-1)
	}
	return &Similarity{cluster1: cl1, cluster2: cl2, score: score, heapIndex: -1}
}

// Cluster1 returns the lexicographically-smaller endpoint id.
func (s *Similarity) Cluster1() string { return s.cluster1 }

// Cluster2 returns the lexicographically-larger endpoint id.
func (s *Similarity) Cluster2() string { return s.cluster2 }

// Score returns the edge's current score.
func (s *Similarity) Score() float64 { return s.score }

// OtherID returns the id of the endpoint that is not cl's id. It panics if
// cl is not one of this edge's two endpoints, which would indicate a bug in
// the caller's bookkeeping rather than a recoverable condition.
func (s *Similarity) OtherID(cl *Cluster) string {
	switch cl.id {
	case s.cluster1:
		return s.cluster2
	case s.cluster2:
		return s.cluster1
	default:
		panic("cluster: OtherID called with a cluster that is not an endpoint of this edge")
	}
}

// Equal reports whether two edges connect the same unordered pair of
// cluster ids. Score does not participate in equality.
func (s *Similarity) Equal(o *Similarity) bool {
	if o == nil {
		return false
	}
	return s.cluster1 == o.cluster1 && s.cluster2 == o.cluster2
}

// update recomputes s's score in place, treating s as the (pre-merge) A-X
// or B-X edge that is about to become the merged-AB to X edge. A and B are
// the pre-merge clusters being merged; X is the third cluster at s's other
// endpoint. simAB is the score of the A-B edge that triggered the merge.
func (s *Similarity) update(method LinkageMethod, simAB float64, a, b, x *Cluster) {
	ax := a.ScoreTo(x.id)
	bx := b.ScoreTo(x.id)
	s.score = method.MergedSim(simAB, ax, bx, len(a.members), len(b.members), len(x.members))
}

// less orders edges for the queue: descending score, then ascending
// cluster1, then ascending cluster2 (natural sort on both id fields,
// matching the tie-break natural sort already used for cluster listing so
// the two orderings agree on ties).
func (s *Similarity) less(o *Similarity) bool {
	if s.score != o.score {
		return s.score > o.score
	}
	if s.cluster1 != o.cluster1 {
		return natural.Less(s.cluster1, o.cluster1)
	}
	return natural.Less(s.cluster2, o.cluster2)
}
