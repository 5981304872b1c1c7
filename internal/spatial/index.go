// Package spatial provides fixed-radius queries over a static point set.
package spatial

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/quadtree"
)

// Match pairs the ordinal of an indexed point with its planar degree-space
// distance to the query point.
type Match struct {
	Index    int
	Distance float64
}

// Index answers radius queries over the point set it was built from. The
// concrete structure is an implementation detail; the scoring formula only
// depends on this interface. Implementations are safe for concurrent queries.
type Index interface {
	// Within returns every indexed point at planar distance <= radius from p,
	// in no particular order.
	Within(p orb.Point, radius float64) []Match
}

// item carries the ordinal of an indexed point through the quadtree.
type item struct {
	pt  orb.Point
	idx int
}

func (i item) Point() orb.Point { return i.pt }

type quadtreeIndex struct {
	tree *quadtree.Quadtree
}

// NewQuadtreeIndex builds a quadtree over the given points. Match.Index
// refers back to positions in the input slice.
func NewQuadtreeIndex(points []orb.Point) (Index, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("no points to index")
	}

	bound := orb.MultiPoint(points).Bound()
	// Pad so a degenerate (single-point or collinear) bound still accepts
	// inserts on its edge.
	bound = bound.Pad(1e-9)

	tree := quadtree.New(bound)
	for i, p := range points {
		if err := tree.Add(item{pt: p, idx: i}); err != nil {
			return nil, fmt.Errorf("index point %d: %w", i, err)
		}
	}
	return &quadtreeIndex{tree: tree}, nil
}

func (q *quadtreeIndex) Within(p orb.Point, radius float64) []Match {
	// Query the bounding square, then filter by true planar distance.
	box := orb.Bound{
		Min: orb.Point{p[0] - radius, p[1] - radius},
		Max: orb.Point{p[0] + radius, p[1] + radius},
	}

	var matches []Match
	for _, ptr := range q.tree.InBound(nil, box) {
		it := ptr.(item)
		d := planar.Distance(p, it.pt)
		if d <= radius {
			matches = append(matches, Match{Index: it.idx, Distance: d})
		}
	}
	return matches
}
