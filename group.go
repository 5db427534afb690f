package cluster

import (
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
)

// unboundedMaxSize is the default maxSize: large enough that it never
// constrains a merge in practice, without relying on a sentinel value that
// callers could accidentally trip over in arithmetic.
const unboundedMaxSize = math.MaxInt

// ClusterGroup owns the cluster collection (indexed by id) and the global
// ordered set of similarity edges, and drives merges. It is not safe for
// concurrent use: callers must not read or mutate a ClusterGroup, or any
// Cluster or Similarity it owns, while a call to Merge is in flight.
type ClusterGroup struct {
	clusters map[string]*Cluster
	queue    *similarityQueue
	method   LinkageMethod
	maxSize  int
}

// New creates an empty ClusterGroup using the given linkage method.
// estimatedPoints presizes the internal cluster map; it is only a
// performance hint and need not be exact. maxSize defaults to effectively
// unbounded.
func New(estimatedPoints int, method LinkageMethod) *ClusterGroup {
	if estimatedPoints < 0 {
		estimatedPoints = 0
	}
	return &ClusterGroup{
		clusters: make(map[string]*Cluster, estimatedPoints),
		queue:    newSimilarityQueue(),
		method:   method,
		maxSize:  unboundedMaxSize,
	}
}

// Size returns the number of currently extant clusters.
func (g *ClusterGroup) Size() int { return len(g.clusters) }

// GetCluster returns the extant cluster with the given id, or (nil, false)
// if none exists.
func (g *ClusterGroup) GetCluster(id string) (*Cluster, bool) {
	c, ok := g.clusters[id]
	return c, ok
}

// GetClusters returns every extant cluster, sorted descending by size,
// then descending by score, then ascending by id (natural sort).
func (g *ClusterGroup) GetClusters() []*Cluster {
	out := make([]*Cluster, 0, len(g.clusters))
	for _, c := range g.clusters {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// SetMaxSize sets the maximum allowed size of any cluster produced by a
// future merge.
func (g *ClusterGroup) SetMaxSize(n int) { g.maxSize = n }

// GetMaxSize returns the current maximum cluster size.
func (g *ClusterGroup) GetMaxSize() int { return g.maxSize }

func (g *ClusterGroup) getOrCreate(id string) *Cluster {
	if c, ok := g.clusters[id]; ok {
		return c
	}
	c := NewSingleton(id)
	g.clusters[id] = c
	return c
}

// AddSim ingests one similarity observation between id1 and id2, creating
// singleton clusters for either id on first sight. A duplicate edge (the
// same unordered pair seen again) overwrites the stored score in both the
// adjacency maps and the queue, rather than being dropped or accumulating
// a second entry: the engine favours the most recently observed score.
func (g *ClusterGroup) AddSim(id1, id2 string, score float64) {
	a := g.getOrCreate(id1)
	b := g.getOrCreate(id2)

	if existing, ok := a.adj[b.id]; ok {
		existing.score = sanitizeScore(score)
		g.queue.Rescored(existing)
		return
	}

	e := NewSimilarity(id1, id2, score)
	a.AddSim(e)
	b.AddSim(e)
	g.queue.Insert(e)
}

func sanitizeScore(score float64) float64 {
	if math.IsNaN(score) || math.IsInf(score, 1) {
		return math.Inf(-1)
	}
	return score
}

// Merge attempts exactly one merge and reports whether it happened. The
// caller loops: `for group.Merge(minSim) { }`. Merge returns false once no
// pair of extant clusters has an edge scoring at least minSim that also
// respects the size cap.
func (g *ClusterGroup) Merge(minSim float64) bool {
	for {
		edge, ok := g.queue.PopBest()
		if !ok {
			return false
		}
		if edge.score < minSim {
			return false
		}

		a, okA := g.clusters[edge.cluster1]
		b, okB := g.clusters[edge.cluster2]
		if !okA || !okB {
			// Stale edge referencing an already-absorbed cluster; the
			// queue/adj invariant guarantees this cannot happen in
			// practice, but skip defensively rather than panic.
			continue
		}
		if a.Size()+b.Size() > g.maxSize {
			// This pair can never merge: sizes only grow, so the edge is
			// discarded forever rather than requeued.
			continue
		}

		g.doMerge(a, b, edge.score, edge)
		return true
	}
}

// doMerge executes steps 2-10 of the merge algorithm once A, B, and the
// triggering A-B edge (already popped from the queue) have been chosen.
func (g *ClusterGroup) doMerge(A, B *Cluster, simAB float64, ab *Similarity) {
	// Step 2: snapshot edge sets before anything is mutated.
	aSims := sims(A)
	bSims := sims(B)

	// Step 3: purge the queue of every edge incident to A or B. ab was
	// already popped, so removing it again is a safe no-op.
	g.queue.RemoveAll(bSims)
	g.queue.RemoveAll(aSims)

	// Step 4: sever the A-B adjacency entry on A's side so it is not
	// revisited in step 6. B's side is dropped wholesale when B is
	// deleted from the cluster map in step 9.
	A.RemoveSim(B.id)

	// Step 5: compute the merged cluster's new internal score using the
	// pre-merge sizes and internal scores; applied only in step 9.
	newScore := g.method.MergedScore(A.score, B.score, simAB, A.Size(), B.Size())

	// Step 6: update A's remaining outgoing edges to reflect the merge.
	// Each task reads only A/B/X's pre-merge state and writes a distinct
	// edge's score, so the updates can run concurrently; step 7 is
	// independent of step 6 for the same reason and runs alongside it.
	var eg errgroup.Group
	for _, f := range A.adj {
		f := f
		eg.Go(func() error {
			x, ok := g.clusters[f.OtherID(A)]
			if !ok {
				return nil
			}
			f.update(g.method, simAB, A, B, x)
			return nil
		})
	}

	// Step 7: detach B from every neighbour but A (already handled above).
	for _, gEdge := range bSims {
		if gEdge.Equal(ab) {
			continue
		}
		y, ok := g.clusters[gEdge.OtherID(B)]
		if !ok {
			continue
		}
		y.RemoveSim(B.id)
	}

	// Step 6 must fully complete before step 8 reinserts its results.
	_ = eg.Wait()

	// Step 8: reinsert A's updated edges, unless the merged cluster is
	// already at the size cap (in which case none of its edges can ever
	// be chosen, so they are abandoned for good).
	if A.Size()+B.Size() < g.maxSize {
		for _, f := range A.adj {
			g.queue.Insert(f)
		}
	}

	// Step 9: apply membership and score changes; step 7 (detaching B's
	// neighbours) must have completed before B is deleted here.
	A.merge(B)
	delete(g.clusters, B.id)
	A.setScore(newScore)
}

// sims returns a snapshot slice of a cluster's currently adjacent edges.
// Taking a slice (rather than iterating the live map) matters because the
// caller is about to mutate the very map being iterated.
func sims(c *Cluster) []*Similarity {
	out := make([]*Similarity, 0, len(c.adj))
	for _, e := range c.adj {
		out = append(out, e)
	}
	return out
}
