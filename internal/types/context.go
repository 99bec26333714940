// Package types defines the core data structures shared across the evaluation pipeline.
package types

import "strings"

// EvaluationContext holds the structured context extracted from a raw
// evaluation query. It is built once at the start of a run and treated as
// immutable by every later stage.
type EvaluationContext struct {
	Category   string   `json:"category"`
	TechStack  []string `json:"tech_stack,omitempty"`
	Domain     string   `json:"domain,omitempty"`
	Region     string   `json:"region,omitempty"`
	Scale      string   `json:"scale,omitempty"`
	Priorities []string `json:"priorities,omitempty"`
	Compliance []string `json:"compliance,omitempty"`
	RawQuery   string   `json:"raw_query,omitempty"`
}

// Normalize fills defaults for fields the parser left empty.
func (c *EvaluationContext) Normalize() {
	c.Category = strings.TrimSpace(c.Category)
	if c.Domain == "" {
		c.Domain = "general"
	}
	if c.Region == "" {
		c.Region = "Global"
	}
	if c.Scale == "" {
		c.Scale = "startup"
	}
}

// Summary formats the context as a single display line.
func (c *EvaluationContext) Summary() string {
	parts := []string{"Category: " + c.Category}
	if len(c.TechStack) > 0 {
		parts = append(parts, "Tech Stack: "+strings.Join(c.TechStack, ", "))
	}
	if c.Domain != "" {
		parts = append(parts, "Domain: "+c.Domain)
	}
	if c.Region != "" {
		parts = append(parts, "Region: "+c.Region)
	}
	if c.Scale != "" {
		parts = append(parts, "Scale: "+c.Scale)
	}
	if len(c.Priorities) > 0 {
		parts = append(parts, "Priorities: "+strings.Join(c.Priorities, ", "))
	}
	if len(c.Compliance) > 0 {
		parts = append(parts, "Compliance: "+strings.Join(c.Compliance, ", "))
	}
	return strings.Join(parts, " | ")
}
