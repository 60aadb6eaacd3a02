package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Estimate(t *testing.T) {
	n, err := Normalize(validEstimateSchema())
	require.NoError(t, err)

	assert.Equal(t, domain.SourceEstimate, n.Source)
	assert.Equal(t, schedule.ModeGeneral, n.Mode)
	assert.Equal(t, []schedule.Stage{{ID: "s1", Name: "Groundworks"}}, n.Stages)
	require.Len(t, n.Items, 1)
	assert.Equal(t, "s1", n.Items[0].StageID)
	assert.Equal(t, 3, n.Items[0].DurationDays)
}

func TestNormalize_CostEstimateGroupsByLabel(t *testing.T) {
	schema := &ImportSchema{
		Origin: OriginCostEstimate,
		Mode:   "detailed",
		CostEstimate: &CostEstimateImport{LineItems: []CostLineImport{
			{Ref: "l1", Group: "Electrical ", Description: "Cabling", DurationDays: 2, Order: 0},
			{Ref: "l2", Group: "Plumbing", Description: "Pipes", DurationDays: 1, Order: 1},
			{Ref: "l3", Group: "electrical", Description: "Sockets", DurationDays: 1, Order: 2},
			{Ref: "l4", Description: "Skip hire", Order: 3},
		}},
	}
	n, err := Normalize(schema)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceCostEstimate, n.Source)
	assert.Equal(t, schedule.ModeDetailed, n.Mode)
	require.Len(t, n.Stages, 2)
	assert.Equal(t, "Electrical", n.Stages[0].Name)
	assert.Equal(t, 0, n.Stages[0].SortOrder)
	assert.Equal(t, "Plumbing", n.Stages[1].Name)
	assert.Equal(t, 1, n.Stages[1].SortOrder)

	require.Len(t, n.Items, 4)
	assert.Equal(t, n.Stages[0].ID, n.Items[0].StageID)
	assert.Equal(t, n.Stages[0].ID, n.Items[2].StageID, "labels match case-insensitively")
	assert.Empty(t, n.Items[3].StageID, "unlabelled lines are orphans")
}

func TestNormalize_Offer(t *testing.T) {
	schema := &ImportSchema{
		Origin: OriginOffer,
		Offer: &OfferImport{
			Sections: []OfferSectionImport{{Ref: "roof", Title: "Roof", Order: 2}},
			Items: []OfferItemImport{
				{Ref: "i1", SectionRef: "roof", Title: "Tiles", DurationDays: 4},
				{Ref: "i2", SectionRef: "walls", Title: "Render", DurationDays: 2},
			},
		},
	}
	n, err := Normalize(schema)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceOffer, n.Source)
	assert.Equal(t, 2, n.Stages[0].SortOrder)
	assert.Equal(t, "walls", n.Items[1].StageID)
}

func TestNormalize_FeedsBuilder(t *testing.T) {
	schema := validEstimateSchema()
	schema.Estimate.Tasks = append(schema.Estimate.Tasks,
		EstimateTaskImport{Ref: "t2", StageRef: "gone", Name: "Orphaned", DurationDays: 1, Order: 1})
	n, err := Normalize(schema)
	require.NoError(t, err)

	res, err := schedule.Build(schedule.Input{
		StartDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Calendar:  calendar.MustNew(calendar.WeekdaysMask),
		Stages:    n.Stages,
		Items:     n.Items,
		Mode:      n.Mode,
		Source:    n.Source,
	})
	require.NoError(t, err)
	assert.Len(t, res.Tasks, 2)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "t2", res.Warnings[0].ItemID)
}

func TestConvertProject(t *testing.T) {
	p, err := ConvertProject(&ProjectImport{
		ShortID:     "bld01",
		Name:        "Warehouse",
		StartDate:   "2025-06-02",
		Deadline:    ptrStr("2025-09-30"),
		WorkingDays: "mon-sat",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "BLD01", p.ShortID)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), p.StartDate)
	require.NotNil(t, p.Deadline)
	assert.Equal(t, 6, p.WorkingDays.Count())
	assert.NoError(t, p.Validate())
}

func TestConvertProject_DefaultsToWeekdays(t *testing.T) {
	p, err := ConvertProject(&ProjectImport{ShortID: "BLD02", Name: "x", StartDate: "2025-06-02"})
	require.NoError(t, err)
	assert.Equal(t, calendar.WeekdaysMask, p.WorkingDays)
	assert.Nil(t, p.Deadline)
}

func TestConvertProject_NoBlock(t *testing.T) {
	_, err := ConvertProject(nil)
	assert.Error(t, err)
}

const yamlImport = `
origin: offer
mode: detailed
project:
  short_id: OFF01
  name: Loft conversion
  start_date: "2025-06-02"
  working_days: mon-fri
offer:
  sections:
    - ref: prep
      title: Preparation
      order: 0
  items:
    - ref: i1
      section_ref: prep
      title: Scaffolding
      duration_days: 2
`

func TestLoadImportSchema_YAMLAndJSON(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "offer.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlImport), 0o644))
	schema, err := LoadImportSchema(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, OriginOffer, schema.Origin)
	require.NotNil(t, schema.Offer)
	assert.Equal(t, "prep", schema.Offer.Items[0].SectionRef)
	assert.Equal(t, "OFF01", schema.Project.ShortID)
	assert.Empty(t, ValidateImportSchema(schema))

	jsonPath := filepath.Join(dir, "estimate.json")
	require.NoError(t, os.WriteFile(jsonPath,
		[]byte(`{"origin":"estimate","estimate":{"stages":[{"ref":"s","name":"S"}],"tasks":[]}}`), 0o644))
	schema, err = LoadImportSchema(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "S", schema.Estimate.Stages[0].Name)
}

func TestParseImportSchema_Malformed(t *testing.T) {
	_, err := ParseImportSchema([]byte("{"), FormatJSON)
	assert.ErrorContains(t, err, "parsing import file")

	_, err = ParseImportSchema([]byte("origin: [unclosed"), FormatYAML)
	assert.ErrorContains(t, err, "parsing import yaml")
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("a/b.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("a/b.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("noext"))
}
