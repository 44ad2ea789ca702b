// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package algorithms

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/tomtom215/bundlecraft/internal/models"
)

// ordersWith returns n orders that all contain the anchor and companion.
func ordersWith(n int, anchor, companion string) []models.Order {
	orders := make([]models.Order, n)
	for i := range orders {
		orders[i] = models.Order{
			OrderID:            fmt.Sprintf("o%d", i),
			LineItemProductIDs: []string{anchor, companion},
		}
	}
	return orders
}

func TestMinCoOccurrence(t *testing.T) {
	tests := []struct {
		orders int
		want   int
	}{
		{0, 2},
		{30, 2},
		{49, 2},
		{50, 3},
		{60, 3},
		{199, 3},
		{200, 5},
		{250, 5},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_orders", tt.orders), func(t *testing.T) {
			if got := MinCoOccurrence(tt.orders); got != tt.want {
				t.Errorf("MinCoOccurrence(%d) = %d, want %d", tt.orders, got, tt.want)
			}
		})
	}
}

func TestAnalyzeThresholdFollowsSampleSize(t *testing.T) {
	tests := []struct {
		name      string
		orders    int
		maxOrders int
		wantCount int
		wantMin   int
	}{
		{"small sample", 30, 0, 30, 2},
		{"medium sample", 60, 0, 60, 3},
		{"large sample", 250, 300, 250, 5},
		{"default cap", 250, 0, DefaultMaxOrders, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Analyze("a", ordersWith(tt.orders, "a", "b"), tt.maxOrders)
			if res.OrderCount != tt.wantCount {
				t.Errorf("OrderCount = %d, want %d", res.OrderCount, tt.wantCount)
			}
			if res.MinCount != tt.wantMin {
				t.Errorf("MinCount = %d, want %d", res.MinCount, tt.wantMin)
			}
			if res.Counts["b"] != tt.wantCount {
				t.Errorf("Counts[b] = %d, want %d", res.Counts["b"], tt.wantCount)
			}
		})
	}
}

func TestAnalyzeCountsOncePerOrder(t *testing.T) {
	orders := []models.Order{
		{OrderID: "1", LineItemProductIDs: []string{"a", "b", "b", "b", "c"}},
		{OrderID: "2", LineItemProductIDs: []string{"a", "b", "a"}},
		{OrderID: "3", LineItemProductIDs: []string{"x", "b", "c"}}, // no anchor
	}

	res := Analyze("a", orders, 0)

	if res.OrderCount != 2 {
		t.Errorf("OrderCount = %d, want 2", res.OrderCount)
	}
	if res.Counts["b"] != 2 {
		t.Errorf("Counts[b] = %d, want 2", res.Counts["b"])
	}
	if _, ok := res.Counts["c"]; ok {
		t.Errorf("c appears once, below the minimum of 2, but was kept: %v", res.Counts)
	}
	if _, ok := res.Counts["a"]; ok {
		t.Error("anchor must not count as its own companion")
	}
}

func TestAnalyzeRanksByCountThenFirstSeen(t *testing.T) {
	orders := []models.Order{
		{OrderID: "1", LineItemProductIDs: []string{"a", "c", "b"}},
		{OrderID: "2", LineItemProductIDs: []string{"a", "b", "c", "d"}},
		{OrderID: "3", LineItemProductIDs: []string{"d", "a"}},
		{OrderID: "4", LineItemProductIDs: []string{"a", "d"}},
	}

	res := Analyze("a", orders, 0)

	// d: 3, c: 2, b: 2. c was seen before b.
	want := []string{"d", "c", "b"}
	if !reflect.DeepEqual(res.Ranked, want) {
		t.Errorf("Ranked = %v, want %v", res.Ranked, want)
	}
}

func TestAnalyzeWithoutQualifyingOrders(t *testing.T) {
	res := Analyze("a", []models.Order{{OrderID: "1", LineItemProductIDs: []string{"b", "c"}}}, 0)
	if res.OrderCount != 0 || len(res.Ranked) != 0 || len(res.Counts) != 0 {
		t.Errorf("Analyze() = %+v, want empty result", res)
	}
}

func TestRankCountsUsesBoostedCounts(t *testing.T) {
	counts := models.CoOccurrenceTable{"b": 4, "c": 7, "d": 4}
	got := RankCounts(counts, []string{"b", "c", "d", "missing"})
	want := []string{"c", "b", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RankCounts() = %v, want %v", got, want)
	}
}
