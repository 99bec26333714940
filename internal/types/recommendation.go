package types

// Alternative suggests a different vendor for a different context.
type Alternative struct {
	Condition string `json:"condition,omitempty"`
	Vendor    string `json:"vendor,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Text      string `json:"text"`
}

// Discovery is a research fact that shaped the evaluation, paired with the
// weight impact it had.
type Discovery struct {
	Finding   string `json:"finding"`
	Evidence  string `json:"evidence,omitempty"`
	Impact    string `json:"impact"`
	Triggered string `json:"triggered,omitempty"`
}

// Recommendation is the terminal output of an evaluation run.
type Recommendation struct {
	RecommendedVendor string             `json:"recommended_vendor"`
	Rationale         string             `json:"rationale"`
	TradeOffs         []string           `json:"trade_offs,omitempty"`
	Alternatives      []Alternative      `json:"alternatives,omitempty"`
	NextSteps         []string           `json:"next_steps,omitempty"`
	ContextSummary    string             `json:"context_summary"`
	Candidates        []string           `json:"candidates"`
	KeyDiscoveries    []Discovery        `json:"key_discoveries,omitempty"`
	WeightAdjustments []WeightAdjustment `json:"weight_adjustments,omitempty"`
	FinalWeights      map[string]float64 `json:"final_weights"`
	VendorScores      []VendorScore      `json:"vendor_scores"`
	ComparisonMatrix  string             `json:"comparison_matrix"`
	HiddenRisks       []HiddenRisk       `json:"hidden_risks,omitempty"`
	Report            string             `json:"report"`
}
