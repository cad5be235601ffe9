package calculation

import (
	"testing"

	"github.com/elderplan/carefund/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eligibleCHC() *domain.CHCAssessmentResult {
	return &domain.CHCAssessmentResult{ProbabilityPercent: 93, IsLikelyEligible: true}
}

func ineligibleCHC() *domain.CHCAssessmentResult {
	return &domain.CHCAssessmentResult{ProbabilityPercent: 12}
}

func partialMeans() *domain.MeansTestResult {
	return &domain.MeansTestResult{
		FundingLevel:       domain.FundingPartial,
		WeeklyContribution: dec("193"),
		AnnualContribution: dec("10036"),
	}
}

func selfFundingMeans() *domain.MeansTestResult {
	return &domain.MeansTestResult{
		FundingLevel:       domain.FundingNone,
		WeeklyContribution: dec("1000"),
		AnnualContribution: dec("52000"),
	}
}

func ineligibleDPA() *domain.DPAResult {
	return &domain.DPAResult{IneligibilityReason: "no property to secure the agreement against"}
}

func TestBuildProjectionsScenarioSet(t *testing.T) {
	rc := testRules()
	dpa, err := AssessDPA(&domain.PropertyDetails{
		MarketValue: dec("300000"), Ownership: domain.OwnershipSole,
	}, dec("1000"), rc)
	require.NoError(t, err)

	comparison, err := BuildProjections(eligibleCHC(), partialMeans(), dpa, dec("1000"), rc)
	require.NoError(t, err)

	assert.Equal(t, 3, comparison.HorizonYears)
	require.Len(t, comparison.Scenarios, 4)
	assert.Equal(t, domain.ScenarioSelfFunding, comparison.Scenarios[0].Name)
	assert.Equal(t, domain.ScenarioCHCFunded, comparison.Scenarios[1].Name)
	assert.Equal(t, domain.ScenarioLAFunded, comparison.Scenarios[2].Name)
	assert.Equal(t, domain.ScenarioDPADeferred, comparison.Scenarios[3].Name)

	for _, scenario := range comparison.Scenarios {
		assert.Len(t, scenario.Years, 3, "scenario %s covers the full horizon", scenario.Name)
	}
}

func TestProjectionsSelfFundingTotals(t *testing.T) {
	rc := testRules()

	comparison, err := BuildProjections(ineligibleCHC(), selfFundingMeans(), ineligibleDPA(), dec("1000"), rc)
	require.NoError(t, err)

	self, ok := comparison.Scenario(domain.ScenarioSelfFunding)
	require.True(t, ok)
	assert.True(t, self.Feasible, "self-funding is always feasible")
	assert.True(t, self.TotalAtHorizon.Equal(dec("156000")))
	assert.True(t, self.Years[0].CumulativeOutOfPocket.Equal(dec("52000")))
	assert.True(t, self.Years[1].CumulativeOutOfPocket.Equal(dec("104000")))
	assert.True(t, self.Years[2].CumulativeOutOfPocket.Equal(dec("156000")))
}

func TestProjectionsInflationCompounding(t *testing.T) {
	rc := testRules()
	rc.Projection.InflationRate = dec("0.1")

	comparison, err := BuildProjections(ineligibleCHC(), selfFundingMeans(), ineligibleDPA(), dec("1000"), rc)
	require.NoError(t, err)

	self, ok := comparison.Scenario(domain.ScenarioSelfFunding)
	require.True(t, ok)

	// Year one is the uninflated base.
	assert.True(t, self.Years[0].WeeklyCareCost.Equal(dec("1000")))
	assert.True(t, self.Years[1].WeeklyCareCost.Equal(dec("1100")))
	assert.True(t, self.Years[2].WeeklyCareCost.Equal(dec("1210")))
}

func TestProjectionsRecommendCheapestFeasible(t *testing.T) {
	rc := testRules()
	dpa, err := AssessDPA(&domain.PropertyDetails{
		MarketValue: dec("300000"), Ownership: domain.OwnershipSole,
	}, dec("1000"), rc)
	require.NoError(t, err)

	comparison, err := BuildProjections(eligibleCHC(), partialMeans(), dpa, dec("1000"), rc)
	require.NoError(t, err)

	assert.Equal(t, domain.ScenarioCHCFunded, comparison.RecommendedScenario)
	assert.True(t, comparison.PotentialSavings.Equal(dec("156000")), "full health funding saves the whole self-funded cost")

	chc, _ := comparison.Scenario(domain.ScenarioCHCFunded)
	assert.True(t, chc.TotalAtHorizon.IsZero())
}

func TestProjectionsFeasibilityGating(t *testing.T) {
	rc := testRules()

	comparison, err := BuildProjections(ineligibleCHC(), selfFundingMeans(), ineligibleDPA(), dec("1000"), rc)
	require.NoError(t, err)

	for _, name := range []domain.ScenarioName{domain.ScenarioCHCFunded, domain.ScenarioLAFunded, domain.ScenarioDPADeferred} {
		scenario, ok := comparison.Scenario(name)
		require.True(t, ok)
		assert.False(t, scenario.Feasible, "scenario %s", name)
		assert.NotEmpty(t, scenario.InfeasibleReason, "scenario %s", name)
	}

	assert.Equal(t, domain.ScenarioSelfFunding, comparison.RecommendedScenario)
	assert.True(t, comparison.PotentialSavings.IsZero())
}

func TestProjectionsLAFundedContributionConstant(t *testing.T) {
	rc := testRules()
	rc.Projection.InflationRate = dec("0.1")

	comparison, err := BuildProjections(ineligibleCHC(), partialMeans(), ineligibleDPA(), dec("1000"), rc)
	require.NoError(t, err)

	la, ok := comparison.Scenario(domain.ScenarioLAFunded)
	require.True(t, ok)
	assert.True(t, la.Feasible)
	for _, year := range la.Years {
		assert.True(t, year.AnnualOutOfPocket.Equal(dec("10036")),
			"contribution stays constant across the horizon, year %d got %s", year.Year, year.AnnualOutOfPocket)
	}
}

func TestProjectionsLAFundedContributionEscalates(t *testing.T) {
	rc := testRules()
	rc.Projection.InflationRate = dec("0.1")
	rc.Projection.EscalateLAContribution = true

	comparison, err := BuildProjections(ineligibleCHC(), partialMeans(), ineligibleDPA(), dec("1000"), rc)
	require.NoError(t, err)

	la, ok := comparison.Scenario(domain.ScenarioLAFunded)
	require.True(t, ok)
	assert.True(t, la.Years[0].AnnualOutOfPocket.Equal(dec("10036")))
	assert.True(t, la.Years[1].AnnualOutOfPocket.Equal(dec("11039.6")))
}

func TestProjectionsDPARevertsAfterCoverage(t *testing.T) {
	rc := testRules()
	// Limit covers two years; year three reverts to the full cost.
	dpa, err := AssessDPA(&domain.PropertyDetails{
		MarketValue: dec("150000"), Ownership: domain.OwnershipSole,
	}, dec("1000"), rc)
	require.NoError(t, err)
	require.Equal(t, 2, dpa.YearsCovered)

	comparison, err := BuildProjections(ineligibleCHC(), selfFundingMeans(), dpa, dec("1000"), rc)
	require.NoError(t, err)

	scenario, ok := comparison.Scenario(domain.ScenarioDPADeferred)
	require.True(t, ok)
	assert.True(t, scenario.Feasible)

	// Covered years carry the deferral plus interest and fee.
	assert.True(t, scenario.Years[0].AnnualOutOfPocket.Equal(dec("54700")))
	assert.True(t, scenario.Years[1].AnnualOutOfPocket.Equal(dec("57300")))
	// Past the limit the full advertised cost is payable.
	assert.True(t, scenario.Years[2].AnnualOutOfPocket.Equal(dec("52000")))
}

func TestProjectionsCumulativesMonotonic(t *testing.T) {
	rc := testRules()
	rc.Projection.InflationRate = dec("0.05")
	rc.Projection.HorizonYears = 8
	dpa, err := AssessDPA(&domain.PropertyDetails{
		MarketValue: dec("400000"), Ownership: domain.OwnershipSole,
	}, dec("1000"), rc)
	require.NoError(t, err)

	comparison, err := BuildProjections(eligibleCHC(), partialMeans(), dpa, dec("1000"), rc)
	require.NoError(t, err)

	for _, scenario := range comparison.Scenarios {
		prev := scenario.Years[0].CumulativeOutOfPocket
		for _, year := range scenario.Years[1:] {
			assert.True(t, year.CumulativeOutOfPocket.GreaterThanOrEqual(prev),
				"scenario %s year %d", scenario.Name, year.Year)
			prev = year.CumulativeOutOfPocket
		}
	}
}

func TestBuildProjectionsRejectsZeroCost(t *testing.T) {
	rc := testRules()
	_, err := BuildProjections(eligibleCHC(), partialMeans(), ineligibleDPA(), dec("0"), rc)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}
