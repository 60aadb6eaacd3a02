package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/schedule"
)

// ValidateImportSchema checks the import schema for errors before
// normalisation. Returns a slice of all validation errors found.
// Stage references that match nothing are not errors: those items are
// scheduled as orphans and reported as warnings.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	if schema.Mode != "" {
		if _, err := schedule.ParseMode(schema.Mode); err != nil {
			errs = append(errs, fmt.Errorf("mode: invalid value %q", schema.Mode))
		}
	}
	if schema.Project != nil {
		errs = append(errs, validateProject(schema.Project)...)
	}

	present := 0
	for _, p := range []bool{schema.Estimate != nil, schema.CostEstimate != nil, schema.Offer != nil} {
		if p {
			present++
		}
	}
	if present > 1 {
		errs = append(errs, fmt.Errorf("only one of estimate, cost_estimate or offer may be given"))
	}

	switch schema.Origin {
	case OriginEstimate:
		if schema.Estimate == nil {
			errs = append(errs, fmt.Errorf("estimate is required for origin %q", schema.Origin))
		} else {
			errs = append(errs, validateEstimate(schema.Estimate)...)
		}
	case OriginCostEstimate:
		if schema.CostEstimate == nil {
			errs = append(errs, fmt.Errorf("cost_estimate is required for origin %q", schema.Origin))
		} else {
			errs = append(errs, validateCostEstimate(schema.CostEstimate)...)
		}
	case OriginOffer:
		if schema.Offer == nil {
			errs = append(errs, fmt.Errorf("offer is required for origin %q", schema.Origin))
		} else {
			errs = append(errs, validateOffer(schema.Offer)...)
		}
	case "":
		errs = append(errs, fmt.Errorf("origin is required"))
	default:
		errs = append(errs, fmt.Errorf("origin: invalid value %q", schema.Origin))
	}

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	if p.ShortID == "" {
		errs = append(errs, fmt.Errorf("project.short_id is required"))
	}
	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	if p.StartDate == "" {
		errs = append(errs, fmt.Errorf("project.start_date is required"))
	} else if _, err := calendar.ParseDate(p.StartDate); err != nil {
		errs = append(errs, fmt.Errorf("project.start_date: invalid date format %q (expected YYYY-MM-DD)", p.StartDate))
	}
	if p.Deadline != nil {
		deadline, err := calendar.ParseDate(*p.Deadline)
		if err != nil {
			errs = append(errs, fmt.Errorf("project.deadline: invalid date format %q (expected YYYY-MM-DD)", *p.Deadline))
		} else if start, startErr := calendar.ParseDate(p.StartDate); startErr == nil && deadline.Before(start) {
			errs = append(errs, fmt.Errorf("project.deadline %q must not be before start_date %q", *p.Deadline, p.StartDate))
		}
	}
	if p.WorkingDays != "" {
		mask, err := calendar.ParseMask(p.WorkingDays)
		if err != nil {
			errs = append(errs, fmt.Errorf("project.working_days: %w", err))
		} else if err := mask.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("project.working_days: %w", err))
		}
	}

	return errs
}

// refSet tracks refs within one list and reports missing or duplicate ones.
type refSet map[string]bool

func (s refSet) check(prefix, ref string) error {
	switch {
	case ref == "":
		return fmt.Errorf("%s.ref is required", prefix)
	case s[ref]:
		return fmt.Errorf("%s.ref: duplicate ref %q", prefix, ref)
	}
	s[ref] = true
	return nil
}

func validateDuration(prefix string, days int) error {
	if days < 0 {
		return fmt.Errorf("%s.duration_days must not be negative", prefix)
	}
	return nil
}

func validateEstimate(e *EstimateImport) []error {
	var errs []error

	stageRefs := refSet{}
	for i, st := range e.Stages {
		prefix := fmt.Sprintf("estimate.stages[%d]", i)
		if err := stageRefs.check(prefix, st.Ref); err != nil {
			errs = append(errs, err)
		}
		if strings.TrimSpace(st.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
	}

	taskRefs := refSet{}
	for i, t := range e.Tasks {
		prefix := fmt.Sprintf("estimate.tasks[%d]", i)
		if err := taskRefs.check(prefix, t.Ref); err != nil {
			errs = append(errs, err)
		}
		if strings.TrimSpace(t.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if err := validateDuration(prefix, t.DurationDays); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

func validateCostEstimate(c *CostEstimateImport) []error {
	var errs []error

	refs := refSet{}
	for i, line := range c.LineItems {
		prefix := fmt.Sprintf("cost_estimate.line_items[%d]", i)
		if err := refs.check(prefix, line.Ref); err != nil {
			errs = append(errs, err)
		}
		if strings.TrimSpace(line.Description) == "" {
			errs = append(errs, fmt.Errorf("%s.description is required", prefix))
		}
		if line.Quantity < 0 {
			errs = append(errs, fmt.Errorf("%s.quantity must not be negative", prefix))
		}
		if line.UnitPrice < 0 {
			errs = append(errs, fmt.Errorf("%s.unit_price must not be negative", prefix))
		}
		if err := validateDuration(prefix, line.DurationDays); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

func validateOffer(o *OfferImport) []error {
	var errs []error

	sectionRefs := refSet{}
	for i, s := range o.Sections {
		prefix := fmt.Sprintf("offer.sections[%d]", i)
		if err := sectionRefs.check(prefix, s.Ref); err != nil {
			errs = append(errs, err)
		}
		if strings.TrimSpace(s.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
	}

	itemRefs := refSet{}
	for i, it := range o.Items {
		prefix := fmt.Sprintf("offer.items[%d]", i)
		if err := itemRefs.check(prefix, it.Ref); err != nil {
			errs = append(errs, err)
		}
		if strings.TrimSpace(it.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if err := validateDuration(prefix, it.DurationDays); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

// FormatValidationErrors joins validation errors into one error.
func FormatValidationErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = "  - " + e.Error()
	}
	return fmt.Errorf("import validation failed:\n%s", strings.Join(msgs, "\n"))
}

// SourceFor maps an origin to the provenance tag stamped on generated tasks.
func SourceFor(origin string) domain.TaskSource {
	switch origin {
	case OriginCostEstimate:
		return domain.SourceCostEstimate
	case OriginOffer:
		return domain.SourceOffer
	default:
		return domain.SourceEstimate
	}
}
