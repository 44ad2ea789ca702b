// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package algorithms

// PopularityScores scores a best-seller list by position: the first entry
// scores 1 and each following entry loses 1/len. Duplicate and empty ids
// are skipped and keep the score of their first position.
func PopularityScores(bestSellerIDs []string) map[string]float64 {
	scores := make(map[string]float64, len(bestSellerIDs))
	n := float64(len(bestSellerIDs))
	for i, id := range bestSellerIDs {
		if id == "" {
			continue
		}
		if _, dup := scores[id]; dup {
			continue
		}
		scores[id] = (n - float64(i)) / n
	}
	return scores
}
