package rules

import (
	"fmt"

	"github.com/sablefin/sable/internal/model"
)

// MatchAccountLabel is the secondary classifier keyed on a transaction's
// current remote account label. It is only consulted when the engine itself
// yields no decision; an engine match always takes precedence.
func MatchAccountLabel(config *model.IndustryConfig, accountName string) *Match {
	if accountName == "" {
		return nil
	}

	if term := containsAny(accountName, config.BusinessAccounts); term != "" {
		return &Match{
			Category:   model.CategoryBusiness,
			Confidence: 95,
			Reasoning:  fmt.Sprintf("current account %q maps to business (%q)", accountName, term),
		}
	}

	if term := containsAny(accountName, config.PersonalAccounts); term != "" {
		return &Match{
			Category:   model.CategoryPersonal,
			Confidence: 90,
			Reasoning:  fmt.Sprintf("current account %q maps to personal (%q)", accountName, term),
		}
	}

	if term := containsAny(accountName, config.AmbiguousAccounts); term != "" {
		return &Match{
			Category:   model.CategoryAmbiguous,
			Confidence: 50,
			Reasoning:  fmt.Sprintf("current account %q maps to ambiguous (%q)", accountName, term),
		}
	}

	return nil
}
