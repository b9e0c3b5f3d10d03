// Package industry resolves per-tenant classification configuration:
// tenant-specific override first, then the named template for the tenant's
// industry slug, then the generic default.
package industry

import "github.com/sablefin/sable/internal/model"

// templates is the named template registry keyed by industry slug.
var templates = map[string]func() *model.IndustryConfig{
	"dental": dentalTemplate,
}

// dentalTemplate returns the built-in configuration for dental practices.
func dentalTemplate() *model.IndustryConfig {
	return &model.IndustryConfig{
		Slug: "dental",
		SupplyVendors: []string{
			"Henry Schein",
			"Patterson Dental",
			"Benco Dental",
			"Darby Dental",
			"Net32",
			"Safco Dental",
			"Ultradent",
			"Dentsply",
			"Kerr Dental",
			"3M Oral Care",
		},
		LabNames: []string{
			"Glidewell",
			"National Dentex",
			"DDS Lab",
			"Burdette Dental Lab",
			"Keating Dental",
		},
		LabKeywords: []string{
			"dental lab",
			"crown and bridge",
			"denture",
			"orthodontic appliance",
			"implant abutment",
			"night guard",
		},
		SoftwareVendors: []string{
			"Dentrix",
			"Eaglesoft",
			"Open Dental",
			"Curve Dental",
			"Weave",
			"Solutionreach",
		},
		PayrollVendors: []string{
			"Gusto",
			"ADP",
			"Paychex",
			"QuickBooks Payroll",
			"Heartland Payroll",
		},
		AmbiguousRetail: []string{
			"Amazon",
			"Costco",
			"Walmart",
			"Target",
			"Sam's Club",
			"Best Buy",
			"Staples",
			"Office Depot",
		},
		PersonalVendors: []string{
			"Netflix",
			"Spotify",
			"Hulu",
			"Disney Plus",
			"Apple.com/bill",
			"Peloton",
			"Audible",
		},
		PersonalKeywords: []string{
			"grocery",
			"restaurant",
			"liquor",
			"vacation",
			"daycare",
			"tuition",
			"veterinary",
		},
		BusinessAccounts: []string{
			"dental supplies",
			"lab fees",
			"office expenses",
			"equipment",
			"continuing education",
			"professional fees",
			"rent",
			"utilities",
			"payroll",
		},
		PersonalAccounts: []string{
			"owner draw",
			"owner's draw",
			"personal",
			"shareholder distribution",
		},
		AmbiguousAccounts: []string{
			"uncategorized",
			"ask my accountant",
			"miscellaneous",
		},
		OwnerDrawKeywords: []string{
			"owner draw",
			"distribution",
			"shareholder",
			"personal withdrawal",
		},
		DebtServiceKeywords: []string{
			"loan payment",
			"practice loan",
			"equipment finance",
			"sba loan",
			"line of credit",
		},
		// Dental production dips in summer and late December.
		Seasonality: [12]float64{
			1.05, 1.02, 1.06, 1.01, 0.98, 0.92,
			0.88, 0.94, 1.03, 1.06, 1.04, 0.90,
		},
		OverheadBenchmarkLow:  0.55,
		OverheadBenchmarkHigh: 0.70,
	}
}

// GenericDefault returns the fallback configuration used when a tenant's
// industry slug has no named template.
func GenericDefault() *model.IndustryConfig {
	return &model.IndustryConfig{
		Slug: "generic",
		SupplyVendors: []string{
			"Uline",
			"Grainger",
			"McMaster-Carr",
		},
		SoftwareVendors: []string{
			"QuickBooks",
			"Microsoft 365",
			"Google Workspace",
			"Adobe",
			"Zoom",
		},
		PayrollVendors: []string{
			"Gusto",
			"ADP",
			"Paychex",
		},
		AmbiguousRetail: []string{
			"Amazon",
			"Costco",
			"Walmart",
			"Target",
		},
		PersonalVendors: []string{
			"Netflix",
			"Spotify",
			"Hulu",
		},
		PersonalKeywords: []string{
			"grocery",
			"restaurant",
			"vacation",
		},
		BusinessAccounts: []string{
			"office expenses",
			"supplies",
			"rent",
			"utilities",
			"payroll",
		},
		PersonalAccounts: []string{
			"owner draw",
			"personal",
		},
		AmbiguousAccounts: []string{
			"uncategorized",
			"miscellaneous",
		},
		OwnerDrawKeywords: []string{
			"owner draw",
			"distribution",
		},
		DebtServiceKeywords: []string{
			"loan payment",
			"line of credit",
		},
		Seasonality: [12]float64{
			1.0, 1.0, 1.0, 1.0, 1.0, 1.0,
			1.0, 1.0, 1.0, 1.0, 1.0, 1.0,
		},
		OverheadBenchmarkLow:  0.60,
		OverheadBenchmarkHigh: 0.80,
	}
}

// TemplateFor returns the named template for a slug, or nil if none exists.
func TemplateFor(slug string) *model.IndustryConfig {
	if build, ok := templates[slug]; ok {
		return build()
	}
	return nil
}
