package types

import "time"

// Research dimension names. These are the fixed set of dimensions every
// candidate is investigated across; they double as rubric criterion names.
const (
	DimSDKQuality            = "sdk_quality"
	DimAPIQuality            = "api_quality"
	DimIntegrationComplexity = "integration_complexity"
	DimPerformance           = "performance"
	DimUptimeReliability     = "uptime_reliability"
	DimSupportQuality        = "support_quality"
	DimScalability           = "scalability"
	DimPricing               = "pricing"
	DimVendorHealth          = "vendor_health"
	DimCompliance            = "compliance"
)

// Dimensions returns all research dimensions in presentation order.
func Dimensions() []string {
	return []string{
		DimSDKQuality,
		DimAPIQuality,
		DimIntegrationComplexity,
		DimPerformance,
		DimUptimeReliability,
		DimSupportQuality,
		DimScalability,
		DimPricing,
		DimVendorHealth,
		DimCompliance,
	}
}

// HiddenRisk is a risk surfaced during research that a feature comparison
// would not capture (maintainer churn, pricing cliffs, acquisitions, ...).
type HiddenRisk struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Evidence    string `json:"evidence,omitempty"`
	Vendor      string `json:"vendor,omitempty"`
}

// ResearchFindings holds the evidence collected for a single candidate.
// Evidence maps a dimension name to the condensed evidence bullets for it.
type ResearchFindings struct {
	VendorName   string              `json:"vendor_name"`
	Evidence     map[string][]string `json:"evidence"`
	HiddenRisks  []HiddenRisk        `json:"hidden_risks,omitempty"`
	Sources      []string            `json:"sources,omitempty"`
	ResearchedAt time.Time           `json:"researched_at"`
}

// NewResearchFindings creates an empty findings record for a vendor.
func NewResearchFindings(vendorName string) *ResearchFindings {
	return &ResearchFindings{
		VendorName:   vendorName,
		Evidence:     make(map[string][]string),
		ResearchedAt: time.Now(),
	}
}

// AddEvidence appends evidence bullets for a dimension.
func (f *ResearchFindings) AddEvidence(dimension string, bullets ...string) {
	if f.Evidence == nil {
		f.Evidence = make(map[string][]string)
	}
	f.Evidence[dimension] = append(f.Evidence[dimension], bullets...)
}

// EvidenceFor returns the evidence bullets for a dimension, or nil.
func (f *ResearchFindings) EvidenceFor(dimension string) []string {
	if f.Evidence == nil {
		return nil
	}
	return f.Evidence[dimension]
}

// CollectHiddenRisks gathers all hidden risks across findings, tagging each
// with its vendor name.
func CollectHiddenRisks(findings []*ResearchFindings) []HiddenRisk {
	var risks []HiddenRisk
	for _, f := range findings {
		for _, r := range f.HiddenRisks {
			r.Vendor = f.VendorName
			risks = append(risks, r)
		}
	}
	return risks
}
