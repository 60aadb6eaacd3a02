package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
)

var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

// Project groups a task collection and owns its working-day calendar.
type Project struct {
	ID          string
	ShortID     string
	Name        string
	StartDate   time.Time
	Deadline    *time.Time
	WorkingDays calendar.Mask
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateShortID checks that ShortID is non-empty and matches the required
// format: 3-6 uppercase letters followed by 2-4 digits (e.g. BLD01, SITE0234).
func (p *Project) ValidateShortID() error {
	if p.ShortID == "" {
		return fmt.Errorf("short ID is required (use --id flag)")
	}
	if !shortIDPattern.MatchString(p.ShortID) {
		return fmt.Errorf("short ID %q must be 3-6 uppercase letters followed by 2-4 digits (e.g. BLD01)", p.ShortID)
	}
	return nil
}

// Validate checks the fields every persisted project must carry.
func (p *Project) Validate() error {
	if err := p.ValidateShortID(); err != nil {
		return err
	}
	if p.Name == "" {
		return fmt.Errorf("project name is required")
	}
	if p.StartDate.IsZero() {
		return fmt.Errorf("project start date is required")
	}
	if p.Deadline != nil && p.Deadline.Before(p.StartDate) {
		return fmt.Errorf("deadline %s is before start date %s",
			p.Deadline.Format(calendar.DateLayout), p.StartDate.Format(calendar.DateLayout))
	}
	return p.WorkingDays.Validate()
}

// Calendar returns the project's validated working-day calendar.
func (p *Project) Calendar() (*calendar.Calendar, error) {
	return calendar.New(p.WorkingDays)
}

// DisplayID returns the best short identifier for display.
// It prefers ShortID; if empty it truncates ID to 8 characters.
func (p *Project) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
