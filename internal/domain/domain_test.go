package domain

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyEquity(t *testing.T) {
	p := PropertyDetails{
		MarketValue:         decimal.NewFromInt(300000),
		OutstandingMortgage: decimal.NewFromInt(50000),
	}
	assert.True(t, p.Equity().Equal(decimal.NewFromInt(250000)))

	underwater := PropertyDetails{
		MarketValue:         decimal.NewFromInt(100000),
		OutstandingMortgage: decimal.NewFromInt(150000),
	}
	assert.True(t, underwater.Equity().IsNegative())
}

func TestSeverityPointsLookup(t *testing.T) {
	table := SeverityPoints{"none": decimal.Zero, "severe": decimal.NewFromInt(8)}

	pts, ok := table.Points(SeveritySevere)
	require.True(t, ok)
	assert.True(t, pts.Equal(decimal.NewFromInt(8)))

	_, ok = table.Points(SeverityPriority)
	assert.False(t, ok, "a missing severity reports a miss, never zero")
}

func TestDisregardRecognition(t *testing.T) {
	dr := DisregardRules{
		IncomeTypes: []string{"pip_mobility", "war_pension"},
		AssetTypes:  []string{"personal_possessions"},
	}

	assert.True(t, dr.RecognizesIncomeType("war_pension"))
	assert.False(t, dr.RecognizesIncomeType("lottery_winnings"))
	assert.True(t, dr.RecognizesAssetType("personal_possessions"))
	assert.False(t, dr.RecognizesAssetType("war_pension"))
}

func TestFundingComparisonScenarioLookup(t *testing.T) {
	fc := FundingComparison{
		Scenarios: []ScenarioProjection{
			{Name: ScenarioSelfFunding},
			{Name: ScenarioCHCFunded},
		},
	}

	s, ok := fc.Scenario(ScenarioCHCFunded)
	require.True(t, ok)
	assert.Equal(t, ScenarioCHCFunded, s.Name)

	_, ok = fc.Scenario(ScenarioDPADeferred)
	assert.False(t, ok)
}

func TestValidationErrorTaxonomy(t *testing.T) {
	ve := NewValidationError("age", "age must be between %d and %d", 18, 110)
	assert.Equal(t, "validation failed for age: age must be between 18 and 110", ve.Error())
	assert.True(t, IsValidationError(ve))
	assert.False(t, IsConfigurationError(ve))

	wrapped := fmt.Errorf("assess: %w", ve)
	assert.True(t, IsValidationError(wrapped))
}

func TestConfigurationErrorTaxonomy(t *testing.T) {
	ce := NewConfigurationError("domain_scores.cognition.severe", "score table missing severity")
	assert.Equal(t, "configuration error at domain_scores.cognition.severe: score table missing severity", ce.Error())
	assert.True(t, IsConfigurationError(ce))
	assert.False(t, IsValidationError(ce))

	wrapped := fmt.Errorf("load: %w", ce)
	assert.True(t, IsConfigurationError(wrapped))
}

func TestRequestDeferredWeeklyDefaults(t *testing.T) {
	req := AssessmentRequest{WeeklyCareCost: decimal.NewFromInt(1200)}
	assert.True(t, req.DeferredWeekly().Equal(decimal.NewFromInt(1200)), "deferral defaults to the full care cost")

	partial := decimal.NewFromInt(800)
	req.WeeklyDeferred = &partial
	assert.True(t, req.DeferredWeekly().Equal(partial))
}
