package topk

import (
	"fmt"
	"math"
	"sort"

	"terramosaic/internal/grid"
)

// Record is a snapshot of one scanned raster point: independent of the line
// it came from, so it stays valid after extraction results are discarded.
// X and Y are tile-local raster coordinates; Latitude and Longitude are in
// radians; Value is the proximity sample (smaller is closer).
type Record struct {
	Tile      grid.Tile `json:"tile"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Value     float64   `json:"value"`
}

// Tracker retains the K records with the smallest value seen across a single
// raster scan. The capacity is fixed at construction and never grows.
//
// The worst retained value is rescanned linearly on every admission instead
// of keeping a heap: K stays small (around a hundred), so the linear scan is
// simpler and fast enough, and a bounded priority queue would produce the
// identical final set.
type Tracker struct {
	k         int
	records   []Record
	threshold float64
	sorted    bool
}

// NewTracker creates a tracker retaining at most k records. k must be positive.
func NewTracker(k int) *Tracker {
	if k <= 0 {
		panic(fmt.Sprintf("topk: invalid capacity %d", k))
	}
	return &Tracker{
		k:         k,
		records:   make([]Record, 0, k),
		threshold: math.Inf(1),
	}
}

// Offer submits one scanned point. It is admitted when the set is not yet
// full or its value beats the current worst retained value; on admission at
// capacity the worst entry is evicted first.
func (t *Tracker) Offer(r Record) {
	if len(t.records) < t.k {
		t.records = append(t.records, r)
		if len(t.records) == t.k {
			t.threshold = t.worst()
		}
		t.sorted = false
		return
	}

	if r.Value >= t.threshold {
		return
	}

	worstIdx := 0
	for i := 1; i < len(t.records); i++ {
		if t.records[i].Value > t.records[worstIdx].Value {
			worstIdx = i
		}
	}
	t.records[worstIdx] = r
	t.threshold = t.worst()
	t.sorted = false
}

func (t *Tracker) worst() float64 {
	w := math.Inf(-1)
	for _, r := range t.records {
		if r.Value > w {
			w = r.Value
		}
	}
	return w
}

// Threshold returns the worst retained value, or +Inf while the set is not
// yet full.
func (t *Tracker) Threshold() float64 {
	return t.threshold
}

// Len returns the number of retained records.
func (t *Tracker) Len() int {
	return len(t.records)
}

// Capacity returns the fixed retention bound K.
func (t *Tracker) Capacity() int {
	return t.k
}

// Top returns the n closest retained records, ascending by value. Asking for
// more than the tracker's capacity is a caller bug and errors; asking for
// more than were retained returns everything retained.
func (t *Tracker) Top(n int) ([]Record, error) {
	if n < 0 || n > t.k {
		return nil, fmt.Errorf("topk: requested %d of at most %d records", n, t.k)
	}
	t.sortRecords()
	if n > len(t.records) {
		n = len(t.records)
	}
	return t.records[:n], nil
}

// All returns every retained record, ascending by value.
func (t *Tracker) All() []Record {
	t.sortRecords()
	return t.records
}

func (t *Tracker) sortRecords() {
	if t.sorted {
		return
	}
	sort.Slice(t.records, func(i, j int) bool {
		return t.records[i].Value < t.records[j].Value
	})
	t.sorted = true
}
