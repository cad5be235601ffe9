package calculation

import (
	"github.com/elderplan/carefund/internal/domain"
	"github.com/shopspring/decimal"
)

// BuildProjections composes the engine outputs into multi-year,
// inflation-adjusted cost projections per funding scenario, then selects the
// recommendation. Every scenario is computed independently and completely;
// selection is a separate step afterwards, never interleaved.
func BuildProjections(chc *domain.CHCAssessmentResult, means *domain.MeansTestResult, dpa *domain.DPAResult, weeklyCareCost decimal.Decimal, rc *domain.RulesConfig) (*domain.FundingComparison, error) {
	if weeklyCareCost.Sign() <= 0 {
		return nil, domain.NewValidationError("weekly_care_cost", "weekly care cost must be positive")
	}

	horizon := rc.Projection.HorizonYears

	comparison := &domain.FundingComparison{
		HorizonYears: horizon,
		Scenarios: []domain.ScenarioProjection{
			projectSelfFunding(weeklyCareCost, rc),
			projectCHCFunded(chc, weeklyCareCost, rc),
			projectLAFunded(means, weeklyCareCost, rc),
			projectDPADeferred(dpa, weeklyCareCost, rc),
		},
	}

	recommend(comparison)
	return comparison, nil
}

// inflatedWeeklyCost compounds inflation onto the advertised care cost.
// Year 1 is the uninflated base.
func inflatedWeeklyCost(base decimal.Decimal, year int, rc *domain.RulesConfig) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(rc.Projection.InflationRate).Pow(decimal.NewFromInt(int64(year - 1)))
	return base.Mul(factor)
}

// projectYears builds the year rows for one scenario. outOfPocket maps a
// projection year and that year's annual care cost to the amount the
// individual bears.
func projectYears(weeklyCareCost decimal.Decimal, rc *domain.RulesConfig, outOfPocket func(year int, annualCost decimal.Decimal) decimal.Decimal) ([]domain.YearCost, decimal.Decimal) {
	years := make([]domain.YearCost, 0, rc.Projection.HorizonYears)
	cumulative := decimal.Zero

	for year := 1; year <= rc.Projection.HorizonYears; year++ {
		weekly := inflatedWeeklyCost(weeklyCareCost, year, rc)
		annual := weekly.Mul(weeksPerYear)
		out := outOfPocket(year, annual)
		cumulative = cumulative.Add(out)

		years = append(years, domain.YearCost{
			Year:                  year,
			WeeklyCareCost:        weekly,
			AnnualCareCost:        annual,
			AnnualOutOfPocket:     out,
			CumulativeOutOfPocket: cumulative,
		})
	}
	return years, cumulative
}

func projectSelfFunding(weeklyCareCost decimal.Decimal, rc *domain.RulesConfig) domain.ScenarioProjection {
	years, total := projectYears(weeklyCareCost, rc, func(_ int, annualCost decimal.Decimal) decimal.Decimal {
		return annualCost
	})
	return domain.ScenarioProjection{
		Name:           domain.ScenarioSelfFunding,
		Description:    "full advertised cost paid privately",
		Feasible:       true,
		Years:          years,
		TotalAtHorizon: total,
	}
}

func projectCHCFunded(chc *domain.CHCAssessmentResult, weeklyCareCost decimal.Decimal, rc *domain.RulesConfig) domain.ScenarioProjection {
	years, total := projectYears(weeklyCareCost, rc, func(_ int, _ decimal.Decimal) decimal.Decimal {
		return decimal.Zero
	})
	projection := domain.ScenarioProjection{
		Name:           domain.ScenarioCHCFunded,
		Description:    "health service meets the full cost of care",
		Feasible:       chc.IsLikelyEligible,
		Years:          years,
		TotalAtHorizon: total,
	}
	if !projection.Feasible {
		projection.InfeasibleReason = "assessed probability below the likely-eligible threshold"
	}
	return projection
}

// projectLAFunded holds the assessed contribution constant across the
// horizon unless the rules escalate it, a documented simplifying assumption:
// a fuller model would re-means-test annually.
func projectLAFunded(means *domain.MeansTestResult, weeklyCareCost decimal.Decimal, rc *domain.RulesConfig) domain.ScenarioProjection {
	baseContribution := means.AnnualContribution
	years, total := projectYears(weeklyCareCost, rc, func(year int, _ decimal.Decimal) decimal.Decimal {
		if rc.Projection.EscalateLAContribution {
			factor := decimal.NewFromInt(1).Add(rc.Projection.InflationRate).Pow(decimal.NewFromInt(int64(year - 1)))
			return baseContribution.Mul(factor)
		}
		return baseContribution
	})
	projection := domain.ScenarioProjection{
		Name:           domain.ScenarioLAFunded,
		Description:    "means-tested contribution with authority support",
		Feasible:       means.FundingLevel != domain.FundingNone,
		Years:          years,
		TotalAtHorizon: total,
	}
	if !projection.Feasible {
		projection.InfeasibleReason = "capital or income above the authority support thresholds"
	}
	return projection
}

// projectDPADeferred charges the deferral schedule while the limit holds,
// then reverts to self-funding rates for the remaining years.
func projectDPADeferred(dpa *domain.DPAResult, weeklyCareCost decimal.Decimal, rc *domain.RulesConfig) domain.ScenarioProjection {
	years, total := projectYears(weeklyCareCost, rc, func(year int, annualCost decimal.Decimal) decimal.Decimal {
		if !dpa.IsEligible || year > dpa.YearsCovered {
			return annualCost
		}
		entry := dpa.Schedule[year-1]
		out := entry.DeferredAmount.Add(entry.InterestAccrued).Add(entry.AdminFee)
		if shortfall := annualCost.Sub(entry.DeferredAmount); shortfall.IsPositive() {
			// Deferring less than the full cost leaves the rest payable now.
			out = out.Add(shortfall)
		}
		return out
	})
	projection := domain.ScenarioProjection{
		Name:           domain.ScenarioDPADeferred,
		Description:    "fees deferred against home equity while the limit holds",
		Feasible:       dpa.IsEligible,
		Years:          years,
		TotalAtHorizon: total,
	}
	if !projection.Feasible {
		reason := dpa.IneligibilityReason
		if reason == "" {
			reason = "not eligible for a deferred payment agreement"
		}
		projection.InfeasibleReason = reason
	}
	return projection
}

// recommend selects the lowest-cost feasible scenario at the horizon and
// reports the saving against self-funding. Ties keep the earlier scenario.
func recommend(comparison *domain.FundingComparison) {
	var best *domain.ScenarioProjection
	for i := range comparison.Scenarios {
		s := &comparison.Scenarios[i]
		if !s.Feasible {
			continue
		}
		if best == nil || s.TotalAtHorizon.LessThan(best.TotalAtHorizon) {
			best = s
		}
	}
	if best == nil {
		return
	}

	comparison.RecommendedScenario = best.Name
	if self, ok := comparison.Scenario(domain.ScenarioSelfFunding); ok {
		comparison.PotentialSavings = self.TotalAtHorizon.Sub(best.TotalAtHorizon)
	}
}
