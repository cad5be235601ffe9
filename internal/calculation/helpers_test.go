package calculation

import (
	"time"

	"github.com/elderplan/carefund/internal/domain"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// testRules returns a fresh rules configuration with round numbers so
// expected values can be computed by hand. Tests mutate their own copy.
func testRules() *domain.RulesConfig {
	scores := make(map[domain.DSTDomain]domain.SeverityPoints, len(domain.AllDomains))
	for _, d := range domain.AllDomains {
		scores[d] = domain.SeverityPoints{
			"none":     dec("0"),
			"low":      dec("1"),
			"moderate": dec("2"),
			"high":     dec("4"),
			"severe":   dec("8"),
			"priority": dec("70"),
		}
	}

	return &domain.RulesConfig{
		Metadata: domain.RulesMetadata{
			Version:  "test-1",
			RuleYear: "2025-26",
		},
		DomainScores: scores,
		BonusRules: []domain.BonusRule{
			{
				Name:   "unpredictable_needs",
				Points: dec("10"),
				When:   domain.BonusCondition{Kind: domain.ConditionFlag, Flag: domain.FlagUnpredictableNeeds},
			},
			{
				Name:   "complex_medication",
				Points: dec("3"),
				When: domain.BonusCondition{
					Kind:     domain.ConditionDomainAtLeast,
					Domain:   domain.DomainDrugTherapies,
					Severity: "high",
				},
			},
			{
				Name:   "multiple_severe",
				Points: dec("5"),
				When: domain.BonusCondition{
					Kind:     domain.ConditionCountAtLeast,
					Severity: "severe",
					Count:    3,
				},
			},
		},
		Scoring: domain.ScoringRules{MaxScore: dec("100"), MaxKeyFactors: 5},
		ProbabilityBands: []domain.ProbabilityBand{
			{ScoreMin: dec("0"), ScoreMax: dec("25"), PercentMin: dec("0"), PercentMax: dec("19")},
			{ScoreMin: dec("25"), ScoreMax: dec("50"), PercentMin: dec("20"), PercentMax: dec("69")},
			{ScoreMin: dec("50"), ScoreMax: dec("75"), PercentMin: dec("70"), PercentMax: dec("91")},
			{ScoreMin: dec("75"), ScoreMax: dec("100"), PercentMin: dec("92"), PercentMax: dec("98")},
		},
		CapitalLimits: domain.CapitalLimits{
			UpperLimit:    dec("23250"),
			LowerLimit:    dec("14250"),
			TariffDivisor: dec("250"),
		},
		IncomeAllowances: domain.IncomeAllowances{PersonalExpensesAllowance: dec("25")},
		Disregards: domain.DisregardRules{
			IncomeTypes:            []string{"pip_mobility", "war_pension"},
			AssetTypes:             []string{"personal_possessions"},
			PropertyDisregardWeeks: 12,
			AssessNetEquity:        true,
		},
		DPAParameters: domain.DPAParameters{
			MinimumEquity:      dec("14250"),
			MaxDeferralPercent: dec("0.8"),
			AnnualInterestRate: dec("0.05"),
			AnnualAdminFee:     dec("100"),
		},
		Projection: domain.ProjectionRules{
			InflationRate: dec("0"),
			HorizonYears:  3,
		},
	}
}

func testProfile(assessments map[domain.DSTDomain]domain.Severity, flags map[string]bool) domain.NeedsProfile {
	return domain.NewNeedsProfile(assessments, flags)
}

func asOf(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
