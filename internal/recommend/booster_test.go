// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package recommend

import (
	"testing"

	"github.com/tomtom215/bundlecraft/internal/models"
)

func TestBoosterBoost(t *testing.T) {
	b := DefaultBooster()

	tests := []struct {
		name   string
		count  int
		viewed bool
		carted bool
		want   int
	}{
		{"untouched", 4, false, false, 4},
		{"viewed", 4, true, false, 6},
		{"carted", 4, false, true, 7},
		{"viewed and carted takes cart only", 4, true, true, 7},
		{"rounds half up", 5, true, false, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &models.UserProfile{}
			if tt.viewed {
				profile.ViewedProducts = []string{"p"}
			}
			if tt.carted {
				profile.CartedProducts = []string{"p"}
			}

			got := b.Boost(models.CoOccurrenceTable{"p": tt.count}, profile)
			if got["p"] != tt.want {
				t.Errorf("boosted count = %d, want %d", got["p"], tt.want)
			}
		})
	}
}

func TestBoosterDoesNotMutateInput(t *testing.T) {
	counts := models.CoOccurrenceTable{"a": 2, "b": 3}
	profile := &models.UserProfile{ViewedProducts: []string{"a", "a"}, CartedProducts: []string{"b", "zz"}}

	got := DefaultBooster().Boost(counts, profile)

	if counts["a"] != 2 || counts["b"] != 3 {
		t.Errorf("input mutated: %v", counts)
	}
	if got["a"] != 3 || got["b"] != 5 {
		t.Errorf("Boost() = %v, want a=3 b=5", got)
	}
	if _, ok := got["zz"]; ok {
		t.Error("ids absent from the counts must not be added")
	}
}

func TestBoosterNilProfile(t *testing.T) {
	counts := models.CoOccurrenceTable{"a": 2}
	got := DefaultBooster().Boost(counts, nil)
	if got["a"] != 2 {
		t.Errorf("Boost(nil profile) = %v, want unchanged", got)
	}
	got["a"] = 9
	if counts["a"] != 2 {
		t.Error("Boost must return a copy")
	}
}
