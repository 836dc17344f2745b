package db

import "time"

// Candidate represents a person who may apply to any number of jobs
type Candidate struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Location     string    `json:"location,omitempty"`
	ResumeURL    string    `json:"resumeUrl,omitempty"`
	LinkedinURL  string    `json:"linkedinUrl,omitempty"`
	PortfolioURL string    `json:"portfolioUrl,omitempty"`
	Skills       []string  `json:"skills"`
	Experience   string    `json:"experience,omitempty"`
	Education    string    `json:"education,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FullName returns the display name used by joined views.
func (c *Candidate) FullName() string {
	return c.FirstName + " " + c.LastName
}
