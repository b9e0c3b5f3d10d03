package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sablefin/sable/internal/model"
)

func fallbackConfig() *model.IndustryConfig {
	return &model.IndustryConfig{
		BusinessAccounts:  []string{"dental supplies", "lab fees", "office expenses"},
		PersonalAccounts:  []string{"owner draw", "personal"},
		AmbiguousAccounts: []string{"uncategorized", "ask my accountant"},
	}
}

func TestMatchAccountLabel(t *testing.T) {
	cfg := fallbackConfig()

	tests := []struct {
		name       string
		label      string
		category   model.Category
		confidence int
	}{
		{"business account", "Dental Supplies", model.CategoryBusiness, 95},
		{"personal account", "Owner Draw - Checking", model.CategoryPersonal, 90},
		{"ambiguous account", "Ask My Accountant", model.CategoryAmbiguous, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := MatchAccountLabel(cfg, tt.label)
			require.NotNil(t, match)
			assert.Equal(t, tt.category, match.Category)
			assert.Equal(t, tt.confidence, match.Confidence)
			assert.Contains(t, match.Reasoning, tt.label)
		})
	}
}

func TestMatchAccountLabelNoMatch(t *testing.T) {
	cfg := fallbackConfig()

	assert.Nil(t, MatchAccountLabel(cfg, ""))
	assert.Nil(t, MatchAccountLabel(cfg, "Travel"))
}
