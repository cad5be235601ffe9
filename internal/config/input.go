package config

import (
	"fmt"
	"os"

	"github.com/elderplan/carefund/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of assessment request files. Full field
// validation happens inside the calculation engine, before any computation
// runs; the parser only guarantees a structurally sound document.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads an assessment request from a YAML file.
func (ip *InputParser) LoadFromFile(filename string) (*domain.AssessmentRequest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse unmarshals an assessment request from raw YAML.
func (ip *InputParser) Parse(data []byte) (*domain.AssessmentRequest, error) {
	var req domain.AssessmentRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if req.AsOfDate.IsZero() {
		return nil, domain.NewValidationError("as_of_date", "as-of date is required")
	}
	return &req, nil
}
