package domain

import (
	"github.com/shopspring/decimal"
)

// ScenarioName identifies one funding scenario in a projection comparison.
type ScenarioName string

const (
	ScenarioSelfFunding ScenarioName = "self_funding"
	ScenarioCHCFunded   ScenarioName = "chc_funded"
	ScenarioLAFunded    ScenarioName = "la_funded"
	ScenarioDPADeferred ScenarioName = "dpa_deferred"
)

// YearCost is one projection year for one scenario. The advertised care cost
// compounds with inflation; the out-of-pocket figure is what the individual
// actually bears under the scenario.
type YearCost struct {
	Year                  int             `json:"year"`
	WeeklyCareCost        decimal.Decimal `json:"weekly_care_cost"`
	AnnualCareCost        decimal.Decimal `json:"annual_care_cost"`
	AnnualOutOfPocket     decimal.Decimal `json:"annual_out_of_pocket"`
	CumulativeOutOfPocket decimal.Decimal `json:"cumulative_out_of_pocket"`
}

// ScenarioProjection is one named funding scenario across the full horizon.
type ScenarioProjection struct {
	Name             ScenarioName    `json:"name"`
	Description      string          `json:"description"`
	Feasible         bool            `json:"feasible"`
	InfeasibleReason string          `json:"infeasible_reason,omitempty"`
	Years            []YearCost      `json:"years"`
	TotalAtHorizon   decimal.Decimal `json:"total_at_horizon"`
}

// FundingComparison holds every scenario projection plus the recommendation,
// which is selected after all scenarios are computed, never interleaved with
// their computation.
type FundingComparison struct {
	HorizonYears        int                  `json:"horizon_years"`
	Scenarios           []ScenarioProjection `json:"scenarios"`
	RecommendedScenario ScenarioName         `json:"recommended_scenario"`
	PotentialSavings    decimal.Decimal      `json:"potential_savings"`
}

// Scenario returns the projection with the given name, if present.
func (fc *FundingComparison) Scenario(name ScenarioName) (ScenarioProjection, bool) {
	for _, s := range fc.Scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return ScenarioProjection{}, false
}
