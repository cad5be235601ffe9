package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/elderplan/carefund/internal/domain"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// ReportGenerator renders assessment results for the CLI. Document and
// report delivery beyond this live elsewhere; this stays deliberately thin.
type ReportGenerator struct{}

// NewReportGenerator creates a new report generator.
func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{}
}

// GenerateReport renders a result in the requested format.
func GenerateReport(result *domain.AssessmentResult, format string) error {
	generator := NewReportGenerator()

	switch format {
	case "console":
		return generator.GenerateConsoleReport(result)
	case "json":
		return generator.GenerateJSONReport(result)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// GenerateJSONReport writes the result as indented JSON to stdout.
func (rg *ReportGenerator) GenerateJSONReport(result *domain.AssessmentResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}

// GenerateConsoleReport writes a readable breakdown to stdout.
func (rg *ReportGenerator) GenerateConsoleReport(result *domain.AssessmentResult) error {
	fmt.Println("=================================================================================")
	fmt.Println("CARE FUNDING ASSESSMENT")
	fmt.Println("=================================================================================")
	fmt.Printf("Assessment: %s  (rules %s, as of %s)\n", result.AssessmentID, result.RulesVersion, result.AssessedAt.Format("2006-01-02"))
	fmt.Println()

	rg.printCHC(&result.CHC)
	rg.printMeansTest(&result.LA)
	rg.printDPA(&result.DPA)
	rg.printProjections(&result.Projections)
	return nil
}

func (rg *ReportGenerator) printCHC(chc *domain.CHCAssessmentResult) {
	fmt.Println("CONTINUING HEALTHCARE (CHC)")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Probability:          %d%%  (%s)\n", chc.ProbabilityPercent, chc.Category)
	fmt.Printf("Likely eligible:      %t\n", chc.IsLikelyEligible)
	fmt.Printf("Primary health need:  %t\n", chc.PrimaryHealthNeedIndicated)
	fmt.Printf("Score:                %s raw + %s bonus = %s\n",
		chc.RawScore.StringFixed(0), chc.BonusTotal.StringFixed(0), chc.FinalScore.StringFixed(0))
	if len(chc.KeyFactors) > 0 {
		fmt.Println("Key factors:")
		for _, f := range chc.KeyFactors {
			fmt.Printf("  %-28s %s pts (%s)\n", f.Name, f.Points.StringFixed(0), f.Source)
		}
	}
	fmt.Println()
}

func (rg *ReportGenerator) printMeansTest(la *domain.MeansTestResult) {
	fmt.Println("LOCAL AUTHORITY MEANS TEST")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Funding level:        %s\n", la.FundingLevel)
	fmt.Printf("Assessable capital:   %s\n", FormatCurrency(la.Capital.AssessableCapital))
	if la.Capital.PropertyDisregarded {
		fmt.Printf("Property:             disregarded (%s)\n", la.Capital.DisregardReason)
	} else if la.Capital.PropertyValue.IsPositive() {
		fmt.Printf("Property counted:     %s\n", FormatCurrency(la.Capital.PropertyValue))
	}
	if la.Capital.TariffIncomeWeekly.IsPositive() {
		fmt.Printf("Tariff income:        %s/week\n", FormatCurrency(la.Capital.TariffIncomeWeekly))
	}
	fmt.Printf("Your contribution:    %s/week  (%s/year)\n",
		FormatCurrency(la.WeeklyContribution), FormatCurrency(la.AnnualContribution))
	fmt.Printf("Authority pays:       %s/week  (%s/year)\n",
		FormatCurrency(la.WeeklyLAContribution), FormatCurrency(la.AnnualLAContribution))
	fmt.Println()
}

func (rg *ReportGenerator) printDPA(dpa *domain.DPAResult) {
	fmt.Println("DEFERRED PAYMENT AGREEMENT")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Eligible:             %t\n", dpa.IsEligible)
	if !dpa.IsEligible {
		fmt.Printf("Reason:               %s\n", dpa.IneligibilityReason)
		fmt.Println()
		return
	}
	fmt.Printf("Equity:               %s\n", FormatCurrency(dpa.Equity))
	fmt.Printf("Deferral limit:       %s\n", FormatCurrency(dpa.DeferralLimit))
	fmt.Printf("Years covered:        %d\n", dpa.YearsCovered)
	fmt.Println("Schedule:")
	for _, entry := range dpa.Schedule {
		marker := ""
		if !entry.WithinLimit {
			marker = "  <- limit exceeded"
		}
		fmt.Printf("  year %d: deferred %s, interest %s, total %s%s\n",
			entry.Year, FormatCurrency(entry.DeferredAmount),
			FormatCurrency(entry.InterestAccrued), FormatCurrency(entry.CumulativeTotal), marker)
	}
	fmt.Println()
}

func (rg *ReportGenerator) printProjections(projections *domain.FundingComparison) {
	fmt.Printf("%d-YEAR COST PROJECTIONS\n", projections.HorizonYears)
	fmt.Println(strings.Repeat("=", 50))
	for _, scenario := range projections.Scenarios {
		status := fmt.Sprintf("total %s", FormatCurrency(scenario.TotalAtHorizon))
		if !scenario.Feasible {
			status = "not feasible: " + scenario.InfeasibleReason
		}
		marker := "  "
		if scenario.Name == projections.RecommendedScenario {
			marker = "* "
		}
		fmt.Printf("%s%-14s %s\n", marker, scenario.Name, status)
	}
	if projections.RecommendedScenario != "" {
		fmt.Printf("\nRecommended: %s  (potential saving %s over %d years)\n",
			projections.RecommendedScenario, FormatCurrency(projections.PotentialSavings), projections.HorizonYears)
	}
	fmt.Println()
}

// FormatCurrency renders a pound amount with thousands separators.
func FormatCurrency(amount decimal.Decimal) string {
	negative := amount.IsNegative()
	fixed := amount.Abs().StringFixed(2)

	parts := strings.SplitN(fixed, ".", 2)
	whole := parts[0]

	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s£%s.%s", sign, grouped.String(), parts[1])
}
