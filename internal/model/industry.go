package model

// IndustryConfig is the tenant-resolved classification configuration: vendor
// lists, account label mappings, keyword lists, and benchmark data for one
// industry. It is read once per batch and treated as immutable for the run.
type IndustryConfig struct {
	Slug string

	// Vendor lists for the built-in matching tiers.
	SupplyVendors    []string // industry supply houses
	LabNames         []string // exact lab names
	LabKeywords      []string // lab patterns matched against vendor+description
	SoftwareVendors  []string // practice-management software
	PayrollVendors   []string // payroll processors
	AmbiguousRetail  []string // big-box retailers forced to manual review
	PersonalVendors  []string // personal subscription services
	PersonalKeywords []string // personal patterns matched against vendor+description

	// Account label sets for the account-mapping fallback.
	BusinessAccounts  []string
	PersonalAccounts  []string
	AmbiguousAccounts []string

	// Keyword lists used by downstream analysis consumers.
	OwnerDrawKeywords   []string
	DebtServiceKeywords []string

	// Monthly seasonality indices, January first. 1.0 means an average month.
	Seasonality [12]float64

	// Overhead-ratio benchmark thresholds for this industry.
	OverheadBenchmarkLow  float64
	OverheadBenchmarkHigh float64
}
