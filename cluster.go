// Package cluster implements agglomerative hierarchical clustering over an
// arbitrary set of named data points given a sparse or dense list of
// pairwise similarity scores. Starting from singleton clusters, ClusterGroup
// repeatedly merges the two most-similar extant clusters using one of three
// linkage rules (complete, single, average) until no remaining pair of
// clusters has similarity at or above a caller-supplied cutoff, or a
// caller-supplied maximum cluster size would be exceeded.
package cluster

import (
	"math"

	"github.com/crowsonkb/hcluster/internal/natural"
)

// Cluster holds one cluster's identity, members, internal-cohesion score,
// height, and its adjacency map to every other currently-extant cluster it
// shares an edge with.
//
// A Cluster's id is fixed at creation (the id of the singleton it started
// life as) and never changes; when two clusters merge, the surviving
// Cluster keeps its own id and absorbs the other's members.
type Cluster struct {
	id      string
	members []string // kept sorted by natural.Less; always contains id
	height  int
	score   float64
	adj     map[string]*Similarity
}

// NewSingleton creates a new one-member cluster. Its internal score starts
// at +Inf; since listing orders by size first, singletons still sort after
// every larger cluster and among themselves by id. LinkageMethod's SINGLE
// and AVERAGE rules ignore a size-1 operand's internal score.
func NewSingleton(id string) *Cluster {
	return &Cluster{
		id:      id,
		members: []string{id},
		height:  1,
		score:   math.Inf(1),
		adj:     make(map[string]*Similarity),
	}
}

// ID returns this cluster's stable identifier.
func (c *Cluster) ID() string { return c.id }

// Size returns the number of data points this cluster contains.
func (c *Cluster) Size() int { return len(c.members) }

// GetMembers returns the cluster's members in natural-sort order. The
// returned slice is owned by the caller; mutating it does not affect c.
func (c *Cluster) GetMembers() []string {
	out := make([]string, len(c.members))
	copy(out, c.members)
	return out
}

// GetHeight returns the depth of the merge tree rooted at this cluster (1
// for singletons).
func (c *Cluster) GetHeight() int { return c.height }

// GetScore returns the cluster's internal cohesion score.
func (c *Cluster) GetScore() float64 { return c.score }

// setScore is called only by ClusterGroup, during a merge; nothing outside
// this package may change a cluster's internal score directly.
func (c *Cluster) setScore(v float64) { c.score = v }

// AddSim records e as the edge to the neighbour at e's other endpoint,
// overwriting any prior edge this cluster held to that same neighbour.
func (c *Cluster) AddSim(e *Similarity) {
	c.adj[e.OtherID(c)] = e
}

// RemoveSim drops the adjacency entry for the neighbour with the given id,
// if one exists.
func (c *Cluster) RemoveSim(otherID string) {
	delete(c.adj, otherID)
}

// ScoreTo returns the score of the edge to the cluster with id otherID, or
// -Inf if no such edge (or cluster) currently exists.
func (c *Cluster) ScoreTo(otherID string) float64 {
	if e, ok := c.adj[otherID]; ok {
		return e.score
	}
	return math.Inf(-1)
}

// ScoreToCluster is a convenience wrapper around ScoreTo for callers that
// already hold the neighbouring Cluster.
func (c *Cluster) ScoreToCluster(other *Cluster) float64 {
	return c.ScoreTo(other.id)
}

// Sims returns a live view over this cluster's adjacent edges; the order
// of iteration is unspecified. Callers must not mutate the returned map.
func (c *Cluster) Sims() map[string]*Similarity {
	return c.adj
}

// merge absorbs other's members into c and bumps c's height. It does not
// touch scores or adjacency maps: ClusterGroup.Merge orchestrates those
// separately, since they require coordinated updates across more than one
// cluster.
func (c *Cluster) merge(other *Cluster) {
	c.members = mergeSortedMembers(c.members, other.members)
	if other.height > c.height {
		c.height = other.height
	}
	c.height++
}

// mergeSortedMembers merges two natural-sort-ordered, disjoint slices into
// one natural-sort-ordered slice, in linear time.
func mergeSortedMembers(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if natural.Less(a[i], b[j]) {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// Less orders clusters for listing: descending size, descending score,
// then ascending id by natural sort.
func (c *Cluster) Less(o *Cluster) bool {
	if len(c.members) != len(o.members) {
		return len(c.members) > len(o.members)
	}
	if c.score != o.score {
		return c.score > o.score
	}
	return natural.Less(c.id, o.id)
}
