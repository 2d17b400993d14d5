package accreditation

import (
	"strings"

	"github.com/becreativeqatar/bceportal/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Project is the aggregate root for an event project. Every accreditation
// record belongs to exactly one project and inherits its phase windows.
type Project struct {
	shared.AuditedAggregateRoot
	Name         string         `json:"name"`
	Code         string         `json:"code"`
	Description  string         `json:"description"`
	AccessGroups pq.StringArray `json:"access_groups"`
	BumpIn       Window         `json:"bump_in"`
	Live         Window         `json:"live"`
	BumpOut      Window         `json:"bump_out"`
	Active       bool           `json:"active"`
}

// NewProject creates a new project with three phase windows
func NewProject(name, code, description string, bumpIn, live, bumpOut Window, accessGroups []string, createdBy uuid.UUID) (*Project, error) {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "project name is required")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "project code is required")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_INPUT", "project code must not exceed 50 characters")
	}
	groups, err := normalizeAccessGroups(accessGroups)
	if err != nil {
		return nil, err
	}
	if err := validateWindows(bumpIn, live, bumpOut); err != nil {
		return nil, err
	}

	project := &Project{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		Name:                 name,
		Code:                 code,
		Description:          strings.TrimSpace(description),
		AccessGroups:         groups,
		BumpIn:               bumpIn,
		Live:                 live,
		BumpOut:              bumpOut,
		Active:               true,
	}
	project.AddDomainEvent(NewProjectCreatedEvent(project))
	return project, nil
}

// Update replaces the mutable fields of the project
func (p *Project) Update(name, description string, bumpIn, live, bumpOut Window, accessGroups []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "project name is required")
	}
	groups, err := normalizeAccessGroups(accessGroups)
	if err != nil {
		return err
	}
	if err := validateWindows(bumpIn, live, bumpOut); err != nil {
		return err
	}
	p.Name = name
	p.Description = strings.TrimSpace(description)
	p.AccessGroups = groups
	p.BumpIn = bumpIn
	p.Live = live
	p.BumpOut = bumpOut
	return nil
}

// Activate marks the project as active
func (p *Project) Activate() {
	p.Active = true
}

// Deactivate marks the project as inactive; records and scans remain readable
func (p *Project) Deactivate() {
	p.Active = false
}

// Window returns the project-level window for the given phase
func (p *Project) Window(phase Phase) Window {
	switch phase {
	case PhaseBumpIn:
		return p.BumpIn
	case PhaseLive:
		return p.Live
	case PhaseBumpOut:
		return p.BumpOut
	}
	return Window{}
}

// AllowsGroup reports whether the given access group is configured for the project
func (p *Project) AllowsGroup(group string) bool {
	group = strings.TrimSpace(group)
	for _, g := range p.AccessGroups {
		if strings.EqualFold(g, group) {
			return true
		}
	}
	return false
}

func normalizeAccessGroups(groups []string) (pq.StringArray, error) {
	out := make(pq.StringArray, 0, len(groups))
	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		key := strings.ToLower(g)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, g)
	}
	if len(out) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "project requires at least one access group")
	}
	return out, nil
}

func validateWindows(bumpIn, live, bumpOut Window) error {
	for _, w := range []struct {
		phase  Phase
		window Window
	}{
		{PhaseBumpIn, bumpIn},
		{PhaseLive, live},
		{PhaseBumpOut, bumpOut},
	} {
		if w.window.Start.IsZero() || w.window.End.IsZero() {
			return shared.NewDomainError("INVALID_WINDOW", "phase "+w.phase.String()+" requires both start and end dates")
		}
		if w.window.Start.After(w.window.End) {
			return shared.NewDomainError("INVALID_WINDOW", "phase "+w.phase.String()+" window start must not be after its end")
		}
	}
	return nil
}
