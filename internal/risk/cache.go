package risk

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sync"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
	"github.com/couchcryptid/fire-risk-service/internal/observability"
)

// CachedScorer wraps a TrackScorer with an in-memory LRU cache keyed by a
// digest of the point sequence. Scoring is deterministic for a fixed corpus,
// so cached results stay valid until the corpus is swapped, at which point a
// fresh CachedScorer is built alongside the new Scorer.
type CachedScorer struct {
	inner   TrackScorer
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedScorer creates a cache decorator around a scorer.
func NewCachedScorer(inner TrackScorer, maxEntries int, metrics *observability.Metrics) *CachedScorer {
	return &CachedScorer{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedScorer) ScoreTrack(points []domain.TrackPoint) ([]float64, error) {
	key := trackDigest(points)
	if scores, ok := c.cache.get(key); ok {
		c.metrics.ScoreCache.WithLabelValues("hit").Inc()
		return scores, nil
	}
	c.metrics.ScoreCache.WithLabelValues("miss").Inc()

	scores, err := c.inner.ScoreTrack(points)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, scores)
	return scores, nil
}

// trackDigest produces a deterministic key from the exact coordinate
// sequence, order included.
func trackDigest(points []domain.TrackPoint) string {
	h := sha256.New()
	var buf [16]byte
	for _, p := range points {
		binary.BigEndian.PutUint64(buf[:8], math.Float64bits(p.Lat))
		binary.BigEndian.PutUint64(buf[8:], math.Float64bits(p.Lon))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// lruCache is a simple thread-safe LRU cache for score slices.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key    string
	scores []float64
	prev   *entry
	next   *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

// get returns a copy so callers can't mutate cached scores.
func (c *lruCache) get(key string) ([]float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	out := make([]float64, len(e.scores))
	copy(out, e.scores)
	return out, true
}

func (c *lruCache) put(key string, scores []float64) {
	if c.maxEntries <= 0 {
		return
	}

	stored := make([]float64, len(scores))
	copy(stored, scores)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.scores = stored
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, scores: stored}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
