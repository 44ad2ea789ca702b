// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package algorithms

import (
	"sort"

	"github.com/tomtom215/bundlecraft/internal/models"
)

// DefaultMaxOrders caps the order sample analyzed per anchor.
const DefaultMaxOrders = 100

// CoPurchaseResult is the outcome of analyzing one order sample.
type CoPurchaseResult struct {
	// Counts holds the companions that met MinCount.
	Counts models.CoOccurrenceTable

	// Order lists the ids of Counts in first-encountered order. It is the
	// tie-breaker for RankCounts.
	Order []string

	// Ranked is Order sorted by count descending.
	Ranked []string

	// OrderCount is the number of analyzed orders containing the anchor.
	OrderCount int

	// MinCount is the threshold applied, see MinCoOccurrence.
	MinCount int
}

// MinCoOccurrence returns the minimum count a companion needs for a sample
// of orderCount orders. Small samples keep a permissive floor so some
// signal surfaces; large samples filter noise.
func MinCoOccurrence(orderCount int) int {
	switch {
	case orderCount < 50:
		return 2
	case orderCount < 200:
		return 3
	default:
		return 5
	}
}

// Analyze counts companions of anchorID over at most maxOrders orders that
// contain the anchor (DefaultMaxOrders when maxOrders <= 0). Each companion
// counts at most once per order so one large order cannot dominate.
func Analyze(anchorID string, orders []models.Order, maxOrders int) CoPurchaseResult {
	if maxOrders <= 0 {
		maxOrders = DefaultMaxOrders
	}

	counts := make(models.CoOccurrenceTable)
	var firstSeen []string
	qualifying := 0

	for i := range orders {
		if qualifying >= maxOrders {
			break
		}
		order := &orders[i]
		if !order.Contains(anchorID) {
			continue
		}
		qualifying++

		inOrder := make(map[string]struct{}, len(order.LineItemProductIDs))
		for _, id := range order.LineItemProductIDs {
			if id == "" || id == anchorID {
				continue
			}
			if _, dup := inOrder[id]; dup {
				continue
			}
			inOrder[id] = struct{}{}

			if _, known := counts[id]; !known {
				firstSeen = append(firstSeen, id)
			}
			counts[id]++
		}
	}

	result := CoPurchaseResult{
		Counts:     make(models.CoOccurrenceTable),
		OrderCount: qualifying,
		MinCount:   MinCoOccurrence(qualifying),
	}
	for _, id := range firstSeen {
		if counts[id] >= result.MinCount {
			result.Counts[id] = counts[id]
			result.Order = append(result.Order, id)
		}
	}
	result.Ranked = RankCounts(result.Counts, result.Order)
	return result
}

// RankCounts returns the ids of order that are present in counts, sorted by
// count descending. Equal counts keep their position in order.
func RankCounts(counts models.CoOccurrenceTable, order []string) []string {
	ranked := make([]string, 0, len(counts))
	for _, id := range order {
		if _, ok := counts[id]; ok {
			ranked = append(ranked, id)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	return ranked
}
