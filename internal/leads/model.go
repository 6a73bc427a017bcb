package leads

import "time"

// Status tracks how far a lead has progressed.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusBooked    Status = "booked"
	StatusArchived  Status = "archived"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusBooked, StatusArchived:
		return true
	default:
		return false
	}
}

// Lead is a contact or booking request left on the website.
type Lead struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone,omitempty"`
	Message            string    `json:"message,omitempty"`
	Source             string    `json:"source"`
	ServiceSlug        string    `json:"serviceSlug,omitempty"`
	PreferredDate      string    `json:"preferredDate,omitempty"`
	DiagnosticCategory string    `json:"diagnosticCategory,omitempty"`
	Status             Status    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Input is what a visitor submits.
type Input struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Message            string `json:"message"`
	Source             string `json:"source"`
	ServiceSlug        string `json:"serviceSlug"`
	PreferredDate      string `json:"preferredDate"`
	DiagnosticCategory string `json:"diagnosticCategory"`
}

// Page is one slice of the lead inbox.
type Page struct {
	Items  []Lead `json:"items"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}
