package rituals

import "time"

// Ritual is one bookable treatment in the services catalogue.
type Ritual struct {
	ID              string    `json:"id"`
	Slug            string    `json:"slug"`
	Name            string    `json:"name"`
	Category        string    `json:"category,omitempty"`
	Summary         string    `json:"summary"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"durationMinutes"`
	PriceCents      int       `json:"priceCents"`
	Currency        string    `json:"currency"`
	ImageKey        string    `json:"imageKey,omitempty"`
	Active          bool      `json:"active"`
	SortOrder       int       `json:"sortOrder"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Input is the admin-editable part of a Ritual.
type Input struct {
	Slug            string `json:"slug"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	Summary         string `json:"summary"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes"`
	PriceCents      int    `json:"priceCents"`
	Currency        string `json:"currency"`
	ImageKey        string `json:"imageKey"`
	Active          *bool  `json:"active"`
	SortOrder       int    `json:"sortOrder"`
}

// ListFilter narrows catalogue listings.
type ListFilter struct {
	IncludeInactive bool
	Category        string
}
