package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Origins accepted in ImportSchema.Origin.
const (
	OriginEstimate     = "estimate"
	OriginCostEstimate = "cost_estimate"
	OriginOffer        = "offer"
)

// ImportSchema is the top-level structure of an import file. Exactly one of
// the origin payloads must be present, matching Origin.
type ImportSchema struct {
	Origin       string              `json:"origin" yaml:"origin"`
	Mode         string              `json:"mode,omitempty" yaml:"mode,omitempty"`
	Project      *ProjectImport      `json:"project,omitempty" yaml:"project,omitempty"`
	Estimate     *EstimateImport     `json:"estimate,omitempty" yaml:"estimate,omitempty"`
	CostEstimate *CostEstimateImport `json:"cost_estimate,omitempty" yaml:"cost_estimate,omitempty"`
	Offer        *OfferImport        `json:"offer,omitempty" yaml:"offer,omitempty"`
}

// ProjectImport carries the project fields used when an import creates the
// project as well as its schedule.
type ProjectImport struct {
	ShortID     string  `json:"short_id" yaml:"short_id"`
	Name        string  `json:"name" yaml:"name"`
	StartDate   string  `json:"start_date" yaml:"start_date"`
	Deadline    *string `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	WorkingDays string  `json:"working_days,omitempty" yaml:"working_days,omitempty"`
}

// EstimateImport is a structured estimate: stages with tasks.
type EstimateImport struct {
	Stages []EstimateStageImport `json:"stages" yaml:"stages"`
	Tasks  []EstimateTaskImport  `json:"tasks" yaml:"tasks"`
}

type EstimateStageImport struct {
	Ref   string `json:"ref" yaml:"ref"`
	Name  string `json:"name" yaml:"name"`
	Order int    `json:"order" yaml:"order"`
}

type EstimateTaskImport struct {
	Ref          string `json:"ref" yaml:"ref"`
	StageRef     string `json:"stage_ref,omitempty" yaml:"stage_ref,omitempty"`
	Name         string `json:"name" yaml:"name"`
	DurationDays int    `json:"duration_days" yaml:"duration_days"`
	Order        int    `json:"order" yaml:"order"`
}

// CostEstimateImport is a flat list of priced lines grouped by a free-text
// label. Each distinct label becomes a stage.
type CostEstimateImport struct {
	LineItems []CostLineImport `json:"line_items" yaml:"line_items"`
}

type CostLineImport struct {
	Ref          string  `json:"ref" yaml:"ref"`
	Group        string  `json:"group,omitempty" yaml:"group,omitempty"`
	Description  string  `json:"description" yaml:"description"`
	Quantity     float64 `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	UnitPrice    float64 `json:"unit_price,omitempty" yaml:"unit_price,omitempty"`
	DurationDays int     `json:"duration_days" yaml:"duration_days"`
	Order        int     `json:"order" yaml:"order"`
}

// OfferImport is a client offer: sections and the items priced in them.
type OfferImport struct {
	Sections []OfferSectionImport `json:"sections" yaml:"sections"`
	Items    []OfferItemImport    `json:"items" yaml:"items"`
}

type OfferSectionImport struct {
	Ref   string `json:"ref" yaml:"ref"`
	Title string `json:"title" yaml:"title"`
	Order int    `json:"order" yaml:"order"`
}

type OfferItemImport struct {
	Ref          string `json:"ref" yaml:"ref"`
	SectionRef   string `json:"section_ref,omitempty" yaml:"section_ref,omitempty"`
	Title        string `json:"title" yaml:"title"`
	DurationDays int    `json:"duration_days" yaml:"duration_days"`
	Order        int    `json:"order" yaml:"order"`
}

// Format of an import payload.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadImportSchema reads and parses an import file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data, FormatFromPath(path))
}

// ParseImportSchema decodes an import payload in the given format.
func ParseImportSchema(data []byte, format Format) (*ImportSchema, error) {
	var schema ImportSchema
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	}
	return &schema, nil
}
