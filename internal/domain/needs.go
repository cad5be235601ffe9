package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Severity is the ordinal scale shared by all twelve DST domains.
// The scale is closed: every assessment carries exactly one of these values,
// and an unassessed domain is recorded as SeverityNone, never omitted.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityLow
	SeverityModerate
	SeverityHigh
	SeveritySevere
	SeverityPriority
)

var severityKeys = [...]string{"none", "low", "moderate", "high", "severe", "priority"}

// Key returns the lower-case identifier used in rules files and wire formats.
func (s Severity) Key() string {
	if !s.Valid() {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityKeys[s]
}

func (s Severity) String() string { return s.Key() }

// Valid reports whether s is one of the six defined severities.
func (s Severity) Valid() bool {
	return s >= SeverityNone && s <= SeverityPriority
}

// AtLeast reports whether s is at or above the given severity on the ordinal scale.
func (s Severity) AtLeast(min Severity) bool { return s >= min }

// ParseSeverity converts the wire identifier back to a Severity.
func ParseSeverity(key string) (Severity, error) {
	for i, k := range severityKeys {
		if k == key {
			return Severity(i), nil
		}
	}
	return SeverityNone, fmt.Errorf("unknown severity %q", key)
}

// MarshalYAML implements yaml.Marshaler using the string form.
func (s Severity) MarshalYAML() (interface{}, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid severity %d", int(s))
	}
	return s.Key(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	var key string
	if err := value.Decode(&key); err != nil {
		return err
	}
	parsed, err := ParseSeverity(key)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalJSON implements json.Marshaler using the string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid severity %d", int(s))
	}
	return []byte(`"` + s.Key() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Severity) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("severity must be a JSON string, got %s", string(data))
	}
	parsed, err := ParseSeverity(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// DSTDomain identifies one of the twelve standardized clinical-need domains.
type DSTDomain string

const (
	DomainBreathing            DSTDomain = "breathing"
	DomainNutrition            DSTDomain = "nutrition"
	DomainContinence           DSTDomain = "continence"
	DomainSkinIntegrity        DSTDomain = "skin_integrity"
	DomainMobility             DSTDomain = "mobility"
	DomainCommunication        DSTDomain = "communication"
	DomainPsychological        DSTDomain = "psychological_emotional"
	DomainCognition            DSTDomain = "cognition"
	DomainBehaviour            DSTDomain = "behaviour"
	DomainDrugTherapies        DSTDomain = "drug_therapies"
	DomainAlteredConsciousness DSTDomain = "altered_consciousness"
	DomainOtherNeeds           DSTDomain = "other_significant_needs"
)

// AllDomains lists every DST domain in declaration order. The order is
// load-bearing: key-factor ties are broken by it.
var AllDomains = []DSTDomain{
	DomainBreathing,
	DomainNutrition,
	DomainContinence,
	DomainSkinIntegrity,
	DomainMobility,
	DomainCommunication,
	DomainPsychological,
	DomainCognition,
	DomainBehaviour,
	DomainDrugTherapies,
	DomainAlteredConsciousness,
	DomainOtherNeeds,
}

// ValidDomain reports whether d is one of the twelve DST domains.
func ValidDomain(d DSTDomain) bool {
	for _, known := range AllDomains {
		if known == d {
			return true
		}
	}
	return false
}

// FlagUnpredictableNeeds is the supplementary indicator for day-to-day
// unpredictability of needs, consumed by bonus rules.
const FlagUnpredictableNeeds = "unpredictable_needs"

// NeedsProfile is the full set of twelve domain assessments for one
// individual plus supplementary boolean indicators. Profiles are immutable
// after creation; a re-assessment produces a new profile.
type NeedsProfile struct {
	Assessments map[DSTDomain]Severity `yaml:"domain_assessments" json:"domain_assessments"`
	Flags       map[string]bool        `yaml:"supplementary_flags,omitempty" json:"supplementary_flags,omitempty"`
}

// NewNeedsProfile builds a profile covering all twelve domains. Domains
// absent from assessments default to SeverityNone.
func NewNeedsProfile(assessments map[DSTDomain]Severity, flags map[string]bool) NeedsProfile {
	full := make(map[DSTDomain]Severity, len(AllDomains))
	for _, d := range AllDomains {
		full[d] = SeverityNone
	}
	for d, s := range assessments {
		full[d] = s
	}
	copied := make(map[string]bool, len(flags))
	for k, v := range flags {
		copied[k] = v
	}
	return NeedsProfile{Assessments: full, Flags: copied}
}

// SeverityOf returns the assessed severity for a domain, defaulting to None.
func (np NeedsProfile) SeverityOf(d DSTDomain) Severity {
	return np.Assessments[d]
}

// FlagSet reports whether a supplementary flag is set.
func (np NeedsProfile) FlagSet(name string) bool {
	return np.Flags[name]
}

// CountAtLeast returns how many domains are assessed at or above min.
func (np NeedsProfile) CountAtLeast(min Severity) int {
	count := 0
	for _, d := range AllDomains {
		if np.SeverityOf(d).AtLeast(min) {
			count++
		}
	}
	return count
}

// ThresholdCategory is the human-readable likelihood band derived from the
// probability percent.
type ThresholdCategory string

const (
	CategoryVeryHigh ThresholdCategory = "Very High"
	CategoryHigh     ThresholdCategory = "High"
	CategoryModerate ThresholdCategory = "Moderate"
	CategoryLow      ThresholdCategory = "Low"
)

// KeyFactorSource distinguishes domain contributions from bonus contributions.
type KeyFactorSource string

const (
	FactorSourceDomain KeyFactorSource = "domain"
	FactorSourceBonus  KeyFactorSource = "bonus"
)

// KeyFactor is one contributing factor to a CHC assessment, ordered by
// descending point contribution.
type KeyFactor struct {
	Name   string          `json:"name"`
	Source KeyFactorSource `json:"source"`
	Points decimal.Decimal `json:"points"`
}

// AppliedBonus records a satisfied bonus rule and the points it added.
type AppliedBonus struct {
	Name   string          `json:"name"`
	Points decimal.Decimal `json:"points"`
}

// CHCAssessmentResult is the derived outcome of scoring a NeedsProfile
// against one rules version. It is computed synchronously and never stored
// independently of its inputs.
type CHCAssessmentResult struct {
	RawScore                   decimal.Decimal               `json:"raw_score"`
	BonusTotal                 decimal.Decimal               `json:"bonus_total"`
	FinalScore                 decimal.Decimal               `json:"final_score"`
	ProbabilityPercent         int                           `json:"probability_percent"`
	Category                   ThresholdCategory             `json:"category"`
	IsLikelyEligible           bool                          `json:"is_likely_eligible"`
	PrimaryHealthNeedIndicated bool                          `json:"primary_health_need_indicated"`
	SevereDomainsCount         int                           `json:"severe_domains_count"`
	PriorityDomainsCount       int                           `json:"priority_domains_count"`
	DomainScores               map[DSTDomain]decimal.Decimal `json:"domain_scores"`
	BonusesApplied             []AppliedBonus                `json:"bonuses_applied"`
	KeyFactors                 []KeyFactor                   `json:"key_factors"`
}
