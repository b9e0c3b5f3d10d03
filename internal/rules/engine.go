// Package rules implements the deterministic categorization engine. The
// engine is a pure function of a transaction, the tenant's user rules, and
// the resolved industry configuration; it holds no hidden state between
// calls.
package rules

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sablefin/sable/internal/model"
)

// Match is a single categorization decision with its audit trail.
type Match struct {
	RuleID     *int64
	Reasoning  string
	Category   model.Category
	Confidence int
}

// Engine evaluates transactions against user rules and the built-in vendor
// and keyword tiers, in a fixed priority order.
type Engine struct {
	config *model.IndustryConfig
	rules  []model.UserRule
}

// NewEngine creates an engine for one batch run. User rules are evaluated in
// ascending priority order; equal priorities keep insertion order.
func NewEngine(config *model.IndustryConfig, userRules []model.UserRule) *Engine {
	sorted := make([]model.UserRule, len(userRules))
	copy(sorted, userRules)
	sortRules(sorted)

	return &Engine{
		config: config,
		rules:  sorted,
	}
}

// Classify returns the first matching tier's decision, or nil when no tier
// matches and the transaction should remain uncategorized.
//
// Tier order: user rules, ambiguous-retail override, supply vendors, lab
// names, lab keywords, practice-management software, payroll processors,
// personal vendors, personal keywords. The ambiguous-retail override
// intentionally beats the business vendor tiers so big-box retailers always
// land in manual review.
func (e *Engine) Classify(txn model.Transaction) *Match {
	if m := e.matchUserRules(txn); m != nil {
		return m
	}

	vendor := txn.VendorName
	combined := txn.VendorName + " " + txn.Description

	if term := containsAny(vendor, e.config.AmbiguousRetail); term != "" {
		return &Match{
			Category:   model.CategoryAmbiguous,
			Confidence: 40,
			Reasoning:  fmt.Sprintf("%q is a mixed-use retailer; flagged for manual review", term),
		}
	}

	if term := containsAny(vendor, e.config.SupplyVendors); term != "" {
		return &Match{
			Category:   model.CategoryBusiness,
			Confidence: 100,
			Reasoning:  fmt.Sprintf("vendor matches industry supplier %q", term),
		}
	}

	if term := containsAny(vendor, e.config.LabNames); term != "" {
		return &Match{
			Category:   model.CategoryBusiness,
			Confidence: 100,
			Reasoning:  fmt.Sprintf("vendor matches lab %q", term),
		}
	}

	if term := containsAny(combined, e.config.LabKeywords); term != "" {
		return &Match{
			Category:   model.CategoryBusiness,
			Confidence: 95,
			Reasoning:  fmt.Sprintf("transaction mentions lab keyword %q", term),
		}
	}

	if term := containsAny(vendor, e.config.SoftwareVendors); term != "" {
		return &Match{
			Category:   model.CategoryBusiness,
			Confidence: 100,
			Reasoning:  fmt.Sprintf("vendor matches practice software %q", term),
		}
	}

	if term := containsAny(vendor, e.config.PayrollVendors); term != "" {
		return &Match{
			Category:   model.CategoryBusiness,
			Confidence: 100,
			Reasoning:  fmt.Sprintf("vendor matches payroll processor %q", term),
		}
	}

	if term := containsAny(vendor, e.config.PersonalVendors); term != "" {
		return &Match{
			Category:   model.CategoryPersonal,
			Confidence: 95,
			Reasoning:  fmt.Sprintf("vendor matches personal subscription %q", term),
		}
	}

	if term := containsAny(combined, e.config.PersonalKeywords); term != "" {
		return &Match{
			Category:   model.CategoryPersonal,
			Confidence: 85,
			Reasoning:  fmt.Sprintf("transaction mentions personal keyword %q", term),
		}
	}

	return nil
}

// matchUserRules evaluates tenant rules in priority order. User rule matches
// always carry confidence 100.
func (e *Engine) matchUserRules(txn model.Transaction) *Match {
	for i := range e.rules {
		rule := &e.rules[i]

		var matched bool
		var detail string

		switch rule.MatchType {
		case model.MatchVendor:
			matched = containsFold(txn.VendorName, rule.MatchValue)
			detail = fmt.Sprintf("vendor contains %q", rule.MatchValue)
		case model.MatchDescription:
			matched = containsFold(txn.Description, rule.MatchValue)
			detail = fmt.Sprintf("description contains %q", rule.MatchValue)
		case model.MatchAmountRange:
			min, max, err := parseAmountRange(rule.MatchValue)
			if err != nil {
				continue
			}
			abs := math.Abs(txn.Amount)
			matched = abs >= min && abs <= max
			detail = fmt.Sprintf("amount within %s", rule.MatchValue)
		}

		if matched {
			id := rule.ID
			return &Match{
				Category:   rule.Category,
				Confidence: 100,
				RuleID:     &id,
				Reasoning:  fmt.Sprintf("user rule #%d: %s", rule.ID, detail),
			}
		}
	}
	return nil
}

// parseAmountRange parses a "min-max" rule value into inclusive bounds.
func parseAmountRange(value string) (float64, float64, error) {
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid amount range %q", value)
	}

	min, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid amount range %q: %w", value, err)
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid amount range %q: %w", value, err)
	}

	return min, max, nil
}

// containsAny returns the first term contained in s, case-insensitively, or
// the empty string when none match.
func containsAny(s string, terms []string) string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(term)) {
			return term
		}
	}
	return ""
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	if substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// sortRules orders by ascending priority, then insertion order (lowest id
// first) so equal priorities stay deterministic.
func sortRules(rules []model.UserRule) {
	for i := 0; i < len(rules)-1; i++ {
		for j := 0; j < len(rules)-i-1; j++ {
			if rules[j].Priority > rules[j+1].Priority ||
				(rules[j].Priority == rules[j+1].Priority && rules[j].ID > rules[j+1].ID) {
				rules[j], rules[j+1] = rules[j+1], rules[j]
			}
		}
	}
}
