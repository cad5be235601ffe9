package calculation

import (
	"testing"

	"github.com/elderplan/carefund/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeansTestCapitalAboveUpperLimit(t *testing.T) {
	rc := testRules()
	fp := domain.FinancialProfile{
		LiquidCapital: dec("30000"),
		WeeklyIncome:  dec("200"),
	}

	result, err := RunMeansTest(fp, dec("1000"), asOf(2026, 4, 1), nil, rc)
	require.NoError(t, err)

	assert.Equal(t, domain.FundingNone, result.FundingLevel)
	assert.True(t, result.WeeklyContribution.Equal(dec("1000")), "above the upper limit the full cost is self-funded")
	assert.True(t, result.WeeklyLAContribution.IsZero())
	assert.True(t, result.AnnualContribution.Equal(dec("52000")))
	assert.True(t, result.Income.AssessableIncome.IsZero(), "no income test above the upper limit")
}

func TestMeansTestTariffIncome(t *testing.T) {
	rc := testRules()
	fp := domain.FinancialProfile{
		LiquidCapital: dec("18750"),
		WeeklyIncome:  dec("200"),
	}

	result, err := RunMeansTest(fp, dec("1000"), asOf(2026, 4, 1), nil, rc)
	require.NoError(t, err)

	// (18750 - 14250) / 250 = 18, no rounding needed.
	assert.True(t, result.Capital.TariffIncomeWeekly.Equal(dec("18")))
	// 200 + 18 - 25 allowance = 193.
	assert.True(t, result.Income.AssessableIncome.Equal(dec("193")))
	assert.Equal(t, domain.FundingPartial, result.FundingLevel)
	assert.True(t, result.WeeklyContribution.Equal(dec("193")))
	assert.True(t, result.WeeklyLAContribution.Equal(dec("807")))
	assert.True(t, result.AnnualContribution.Equal(dec("10036")))
	assert.True(t, result.AnnualLAContribution.Equal(dec("41964")))
}

func TestTariffIncomeBoundaries(t *testing.T) {
	limits := testRules().CapitalLimits

	tests := []struct {
		name    string
		capital string
		want    string
	}{
		{"below lower limit", "10000", "0"},
		{"exactly at lower limit", "14250", "0"},
		{"a penny over the lower limit rounds up", "14250.01", "1"},
		{"exact multiple", "14500", "1"},
		{"partial band rounds up", "14501", "2"},
		{"exactly at upper limit", "23250", "36"},
		{"above upper limit yields none", "23250.01", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tariffIncome(dec(tt.capital), limits)
			assert.True(t, got.Equal(dec(tt.want)), "capital %s: want %s, got %s", tt.capital, tt.want, got)
		})
	}
}

func TestMeansTestFullFunding(t *testing.T) {
	rc := testRules()
	fp := domain.FinancialProfile{
		LiquidCapital: dec("5000"),
		WeeklyIncome:  dec("20"),
	}

	result, err := RunMeansTest(fp, dec("900"), asOf(2026, 4, 1), nil, rc)
	require.NoError(t, err)

	assert.Equal(t, domain.FundingFull, result.FundingLevel)
	assert.True(t, result.WeeklyContribution.IsZero())
	assert.True(t, result.WeeklyLAContribution.Equal(dec("900")))
	assert.True(t, result.Income.AssessableIncome.IsZero(), "income below the allowance floors at zero")
}

func TestMeansTestIncomeCoversFullCost(t *testing.T) {
	rc := testRules()
	fp := domain.FinancialProfile{
		LiquidCapital: dec("1000"),
		WeeklyIncome:  dec("2000"),
	}

	result, err := RunMeansTest(fp, dec("500"), asOf(2026, 4, 1), nil, rc)
	require.NoError(t, err)

	assert.Equal(t, domain.FundingNone, result.FundingLevel)
	assert.True(t, result.WeeklyContribution.Equal(dec("500")), "contribution caps at the care cost")
	assert.True(t, result.WeeklyLAContribution.IsZero())
}

func TestMeansTestPropertyDisregardedForRelative(t *testing.T) {
	rc := testRules()
	fp := domain.FinancialProfile{
		LiquidCapital: dec("10000"),
		WeeklyIncome:  dec("150"),
		Property: &domain.PropertyDetails{
			MarketValue:                dec("300000"),
			Ownership:                  domain.OwnershipSole,
			QualifyingRelativeOccupies: true,
		},
	}

	result, err := RunMeansTest(fp, dec("1000"), asOf(2026, 4, 1), nil, rc)
	require.NoError(t, err)

	assert.True(t, result.Capital.PropertyDisregarded)
	assert.NotEmpty(t, result.Capital.DisregardReason)
	assert.True(t, result.Capital.PropertyValue.IsZero())
	assert.True(t, result.Capital.AssessableCapital.Equal(dec("10000")))
	assert.NotEqual(t, domain.FundingNone, result.FundingLevel)
}

func TestMeansTestPropertyDisregardWindow(t *testing.T) {
	rc := testRules()
	admission := asOf(2026, 1, 1)
	property := &domain.PropertyDetails{
		MarketValue:         dec("300000"),
		OutstandingMortgage: dec("50000"),
		Ownership:           domain.OwnershipSole,
	}
	fp := domain.FinancialProfile{
		LiquidCapital: dec("10000"),
		WeeklyIncome:  dec("150"),
		Property:      property,
	}

	// 12 weeks from 1 January is 26 March.
	inside, err := RunMeansTest(fp, dec("1000"), asOf(2026, 2, 1), &admission, rc)
	require.NoError(t, err)
	assert.True(t, inside.Capital.PropertyDisregarded, "assessment inside the window disregards the property")

	outside, err := RunMeansTest(fp, dec("1000"), asOf(2026, 4, 1), &admission, rc)
	require.NoError(t, err)
	assert.False(t, outside.Capital.PropertyDisregarded)
	assert.True(t, outside.Capital.PropertyValue.Equal(dec("250000")), "net equity counts once the window lapses")
	assert.Equal(t, domain.FundingNone, outside.FundingLevel)
}

func TestMeansTestAssetDisregardReducesCapital(t *testing.T) {
	rc := testRules()
	fp := domain.FinancialProfile{
		LiquidCapital: dec("25000"),
		WeeklyIncome:  dec("150"),
		AssetDisregards: []domain.Disregard{
			{Type: "personal_possessions", Amount: dec("5000")},
		},
	}

	result, err := RunMeansTest(fp, dec("1000"), asOf(2026, 4, 1), nil, rc)
	require.NoError(t, err)

	assert.True(t, result.Capital.AssessableCapital.Equal(dec("20000")))
	assert.NotEqual(t, domain.FundingNone, result.FundingLevel, "disregard pulls capital back under the upper limit")
}

func TestMeansTestIncomeDisregard(t *testing.T) {
	rc := testRules()
	fp := domain.FinancialProfile{
		WeeklyIncome: dec("300"),
		IncomeDisregards: []domain.Disregard{
			{Type: "pip_mobility", Amount: dec("75")},
		},
	}

	result, err := RunMeansTest(fp, dec("1000"), asOf(2026, 4, 1), nil, rc)
	require.NoError(t, err)

	// 300 - 25 allowance - 75 disregard = 200.
	assert.True(t, result.Income.AssessableIncome.Equal(dec("200")))
	assert.True(t, result.Income.DisregardsTotal.Equal(dec("75")))
}

func TestMeansTestRejectsBadInputs(t *testing.T) {
	rc := testRules()

	tests := []struct {
		name  string
		fp    domain.FinancialProfile
		cost  string
		field string
	}{
		{
			name:  "zero care cost",
			fp:    domain.FinancialProfile{},
			cost:  "0",
			field: "weekly_care_cost",
		},
		{
			name:  "negative capital",
			fp:    domain.FinancialProfile{LiquidCapital: dec("-1")},
			cost:  "1000",
			field: "capital_assets",
		},
		{
			name: "unrecognized income disregard type",
			fp: domain.FinancialProfile{
				IncomeDisregards: []domain.Disregard{{Type: "lottery_winnings", Amount: dec("10")}},
			},
			cost:  "1000",
			field: "income_disregards[0].type",
		},
		{
			name: "negative asset disregard",
			fp: domain.FinancialProfile{
				AssetDisregards: []domain.Disregard{{Type: "personal_possessions", Amount: dec("-10")}},
			},
			cost:  "1000",
			field: "asset_disregards[0].amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RunMeansTest(tt.fp, dec(tt.cost), asOf(2026, 4, 1), nil, rc)
			require.Error(t, err)
			assert.True(t, domain.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestMeansTestGrossValueWhenNetEquityOff(t *testing.T) {
	rc := testRules()
	rc.Disregards.AssessNetEquity = false
	fp := domain.FinancialProfile{
		WeeklyIncome: dec("150"),
		Property: &domain.PropertyDetails{
			MarketValue:         dec("300000"),
			OutstandingMortgage: dec("50000"),
			Ownership:           domain.OwnershipSole,
		},
	}

	result, err := RunMeansTest(fp, dec("1000"), asOf(2026, 4, 1), nil, rc)
	require.NoError(t, err)
	assert.True(t, result.Capital.PropertyValue.Equal(dec("300000")))
}
