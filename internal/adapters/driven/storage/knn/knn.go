// Package knn implements exact nearest-neighbour ranking over small
// in-process vector sets. It is shared by the storage adapters.
package knn

import (
	"errors"
	"sort"
)

// ErrDimensionMismatch is returned when a query and an entry differ in size.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Item is a candidate vector with its stable ID.
type Item struct {
	ID        int64
	Embedding []float32
}

// Result is a ranked item.
type Result struct {
	Index    int
	ID       int64
	Distance float64
}

// SquaredL2 returns the squared Euclidean distance between a and b.
func SquaredL2(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum, nil
}

// TopK ranks items by ascending squared L2 distance to query and returns
// at most k results. Ties are broken by ascending ID so results are stable.
func TopK(items []Item, query []float32, k int) ([]Result, error) {
	if k <= 0 || len(items) == 0 {
		return nil, nil
	}
	results := make([]Result, 0, len(items))
	for i, it := range items {
		d, err := SquaredL2(query, it.Embedding)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Index: i, ID: it.ID, Distance: d})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}
