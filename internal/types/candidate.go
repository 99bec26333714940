package types

import "strings"

// Candidate represents a vendor discovered during candidate identification.
// Candidates are created by the discovery stage and read-only afterward.
type Candidate struct {
	Name            string `json:"name"`
	Category        string `json:"category"`
	Description     string `json:"description,omitempty"`
	Website         string `json:"website,omitempty"`
	GitHubURL       string `json:"github_url,omitempty"`
	Rationale       string `json:"rationale,omitempty"`
	DiscoverySource string `json:"discovery_source,omitempty"`
}

// Validate checks that the candidate has the minimum required fields.
func (c *Candidate) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &FieldError{Entity: "candidate", Field: "name", Message: "must not be empty"}
	}
	return nil
}

// CandidateNames returns the names of the given candidates in order.
func CandidateNames(candidates []Candidate) []string {
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.Name)
	}
	return names
}
