package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/schedule"
	"github.com/google/uuid"
)

// Normalized is the origin-independent stage/item shape the schedule
// builder consumes.
type Normalized struct {
	Source domain.TaskSource
	Mode   schedule.Mode
	Stages []schedule.Stage
	Items  []schedule.Item
}

// Normalize converts a validated ImportSchema into stages and items.
// Call ValidateImportSchema first; Normalize assumes the schema is valid.
func Normalize(schema *ImportSchema) (*Normalized, error) {
	mode, err := schedule.ParseMode(schema.Mode)
	if err != nil {
		return nil, err
	}
	out := &Normalized{Source: SourceFor(schema.Origin), Mode: mode}

	switch schema.Origin {
	case OriginEstimate:
		normalizeEstimate(schema.Estimate, out)
	case OriginCostEstimate:
		normalizeCostEstimate(schema.CostEstimate, out)
	case OriginOffer:
		normalizeOffer(schema.Offer, out)
	default:
		return nil, fmt.Errorf("unknown origin %q", schema.Origin)
	}
	return out, nil
}

func normalizeEstimate(e *EstimateImport, out *Normalized) {
	for _, st := range e.Stages {
		out.Stages = append(out.Stages, schedule.Stage{ID: st.Ref, Name: st.Name, SortOrder: st.Order})
	}
	for _, t := range e.Tasks {
		out.Items = append(out.Items, schedule.Item{
			ID:           t.Ref,
			StageID:      t.StageRef,
			Name:         t.Name,
			DurationDays: t.DurationDays,
			SortOrder:    t.Order,
		})
	}
}

// normalizeCostEstimate turns each distinct group label into a stage, in
// order of first appearance. Labels match case-insensitively after
// trimming; the first spelling seen names the stage. Unlabelled lines
// become orphans.
func normalizeCostEstimate(c *CostEstimateImport, out *Normalized) {
	stageIDs := make(map[string]string)
	for _, line := range c.LineItems {
		label := strings.TrimSpace(line.Group)
		stageID := ""
		if label != "" {
			key := strings.ToLower(label)
			id, ok := stageIDs[key]
			if !ok {
				id = "group:" + key
				stageIDs[key] = id
				out.Stages = append(out.Stages, schedule.Stage{
					ID:        id,
					Name:      label,
					SortOrder: len(out.Stages),
				})
			}
			stageID = id
		}
		out.Items = append(out.Items, schedule.Item{
			ID:           line.Ref,
			StageID:      stageID,
			Name:         line.Description,
			DurationDays: line.DurationDays,
			SortOrder:    line.Order,
		})
	}
}

func normalizeOffer(o *OfferImport, out *Normalized) {
	for _, s := range o.Sections {
		out.Stages = append(out.Stages, schedule.Stage{ID: s.Ref, Name: s.Title, SortOrder: s.Order})
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, schedule.Item{
			ID:           it.Ref,
			StageID:      it.SectionRef,
			Name:         it.Title,
			DurationDays: it.DurationDays,
			SortOrder:    it.Order,
		})
	}
}

// ConvertProject builds a new project from the import's project block.
// The working-day mask defaults to Monday to Friday.
func ConvertProject(p *ProjectImport) (*domain.Project, error) {
	if p == nil {
		return nil, fmt.Errorf("import has no project block")
	}
	now := time.Now().UTC()

	startDate, err := calendar.ParseDate(p.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}

	var deadline *time.Time
	if p.Deadline != nil && *p.Deadline != "" {
		d, err := calendar.ParseDate(*p.Deadline)
		if err != nil {
			return nil, fmt.Errorf("parsing deadline: %w", err)
		}
		deadline = &d
	}

	mask := calendar.WeekdaysMask
	if p.WorkingDays != "" {
		mask, err = calendar.ParseMask(p.WorkingDays)
		if err != nil {
			return nil, fmt.Errorf("parsing working_days: %w", err)
		}
	}

	return &domain.Project{
		ID:          uuid.New().String(),
		ShortID:     strings.ToUpper(p.ShortID),
		Name:        p.Name,
		StartDate:   startDate,
		Deadline:    deadline,
		WorkingDays: mask,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
