// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package models

// Place is one normalized entry of the place catalog.
type Place struct {
	ID         string  `json:"id" validate:"required"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Address    string  `json:"address"`
	Latitude   float64 `json:"latitude" validate:"latitude"`
	Longitude  float64 `json:"longitude" validate:"longitude"`
	MapLink    string  `json:"map_link"`
	IsActive   bool    `json:"is_active"`
	CrowdLevel string  `json:"crowd_level,omitempty"`
}

// Candidate is a place evaluated for recommendation in one decision cycle.
//
// DistanceKM is nil only when no usable origin coordinate exists; such
// candidates are scored with the configured "very far" sentinel distance.
type Candidate struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Address       string   `json:"address"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	DistanceKM    *float64 `json:"distance_km"`
	PriorityScore float64  `json:"priority_score"`
	IsActive      bool     `json:"is_active"`
	MapLink       string   `json:"map_link"`
	CrowdLevel    string   `json:"crowd_level,omitempty"`
}

// NewCandidate copies the catalog fields of a place into an unscored candidate.
func NewCandidate(p *Place) Candidate {
	return Candidate{
		ID:         p.ID,
		Name:       p.Name,
		Category:   p.Category,
		Address:    p.Address,
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
		IsActive:   p.IsActive,
		MapLink:    p.MapLink,
		CrowdLevel: p.CrowdLevel,
	}
}
