// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package events

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/bundlecraft/internal/models"
)

// Marshal validates and encodes an event.
func Marshal(ev *models.InteractionEvent) ([]byte, error) {
	if err := Validate(ev); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// Unmarshal decodes and validates an event.
func Unmarshal(data []byte) (*models.InteractionEvent, error) {
	var ev models.InteractionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	if err := Validate(&ev); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}
	return &ev, nil
}
