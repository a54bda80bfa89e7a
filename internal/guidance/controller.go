// Package guidance implements the career-guidance screen: the roadmap view
// state machine plus the topic detail and quiz overlays.
package guidance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"CareerNav/internal/career"
	"CareerNav/internal/screen"
)

var (
	ErrNoRole            = errors.New("select a role first")
	ErrNoActiveRoadmap   = errors.New("no active roadmap")
	ErrNoPreview         = errors.New("no roadmap preview to track")
	ErrStepNotFound      = errors.New("step not found in active roadmap")
	ErrInvalidTransition = errors.New("not available from this view")
)

// Gateway is the subset of the API client the screen needs.
type Gateway interface {
	History(ctx context.Context) ([]career.HistoryEntry, error)
	ActiveRoadmap(ctx context.Context) (*career.Roadmap, error)
	GenerateRoadmap(ctx context.Context, role string) (*career.Roadmap, error)
	SaveRoadmap(ctx context.Context, r *career.Roadmap) error
	UpdateStep(ctx context.Context, stepID int64, status career.StepStatus) error
	TopicDetails(ctx context.Context, topic, role string) (string, error)
	TopicQuiz(ctx context.Context, topic string) ([]career.QuizQuestion, error)
}

// View is what the screen is showing.
type View int

const (
	Dashboard View = iota
	Preview
	Tracked
)

func (v View) String() string {
	switch v {
	case Preview:
		return "preview"
	case Tracked:
		return "tracked"
	default:
		return "dashboard"
	}
}

// Displayed is the roadmap on screen, tagged by view. Roadmap is nil on the
// dashboard and is a copy otherwise.
type Displayed struct {
	View    View
	Roadmap *career.Roadmap
}

// Controller owns the guidance screen state for one mounted lifetime.
type Controller struct {
	screen.Lifecycle

	gw     Gateway
	logger *slog.Logger

	view    View
	ready   bool
	roles   []string
	active  *career.Roadmap
	preview *career.Roadmap

	details    Details
	detailsSeq int
	quiz       Quiz
	quizSeq    int
}

// New mounts a guidance screen.
func New(gw Gateway, logger *slog.Logger) *Controller {
	c := &Controller{gw: gw, logger: logger.With("screen", "guidance")}
	c.Mount()
	return c
}

// LoadDashboardData fetches the selectable roles and the active roadmap.
// Failures are logged and returned joined, but the dashboard is marked ready
// with whatever loaded.
func (c *Controller) LoadDashboardData(ctx context.Context) error {
	ctx, done := c.Context(ctx)
	defer done()

	var errs []error

	var roles []string
	history, err := c.gw.History(ctx)
	if err != nil {
		c.logger.Error("failed to load analysis history", "error", err)
		errs = append(errs, fmt.Errorf("failed to load roles: %w", err))
	} else {
		roles = career.Roles(history)
	}

	active, err := c.gw.ActiveRoadmap(ctx)
	if err != nil {
		c.logger.Error("failed to load active roadmap", "error", err)
		errs = append(errs, fmt.Errorf("failed to load active roadmap: %w", err))
		active = nil
	}

	if err := c.Apply(func() {
		c.roles = roles
		c.active = active
		c.ready = true
	}); err != nil {
		return err
	}
	c.logger.Info("dashboard loaded", "roles", len(roles), "has_active", active != nil)
	return errors.Join(errs...)
}

// Generate asks for a roadmap for role and shows it as a preview.
func (c *Controller) Generate(ctx context.Context, role string) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return ErrNoRole
	}
	c.Mu.Lock()
	view := c.view
	c.Mu.Unlock()
	if view != Dashboard {
		return fmt.Errorf("generate from %s view: %w", view, ErrInvalidTransition)
	}

	ctx, done := c.Context(ctx)
	defer done()

	roadmap, err := c.gw.GenerateRoadmap(ctx, role)
	if err == nil && roadmap == nil {
		err = errors.New("empty roadmap")
	}
	if err != nil {
		if applyErr := c.Apply(func() {
			c.preview = nil
			c.view = Dashboard
		}); applyErr != nil {
			return applyErr
		}
		c.logger.Error("failed to generate roadmap", "role", role, "error", err)
		return fmt.Errorf("failed to generate roadmap: %w", err)
	}

	// a preview never carries server ids
	roadmap.ID = 0
	for i := range roadmap.Steps {
		roadmap.Steps[i].ID = 0
	}

	if err := c.Apply(func() {
		c.preview = roadmap
		c.view = Preview
	}); err != nil {
		return err
	}
	c.logger.Info("roadmap generated", "role", role, "steps", len(roadmap.Steps))
	return nil
}

// StartTracking saves the preview and replaces it with the reloaded active
// roadmap, whose steps carry server ids.
func (c *Controller) StartTracking(ctx context.Context) error {
	c.Mu.Lock()
	view, preview := c.view, c.preview.Clone()
	c.Mu.Unlock()
	if view != Preview || preview == nil {
		return ErrNoPreview
	}

	ctx, done := c.Context(ctx)
	defer done()

	if err := c.gw.SaveRoadmap(ctx, preview); err != nil {
		c.logger.Error("failed to save roadmap", "role", preview.Role, "error", err)
		if c.Closed() {
			return screen.ErrClosed
		}
		return fmt.Errorf("failed to save roadmap: %w", err)
	}

	active, err := c.gw.ActiveRoadmap(ctx)
	if err == nil {
		err = checkTracked(active)
	}
	if err != nil {
		// the save went through, so the preview must not be offered again
		if applyErr := c.Apply(func() {
			c.preview = nil
			c.view = Dashboard
		}); applyErr != nil {
			return applyErr
		}
		c.logger.Error("roadmap saved but reload failed", "error", err)
		return fmt.Errorf("roadmap saved but reload failed: %w", err)
	}

	if err := c.Apply(func() {
		c.preview = nil
		c.active = active
		c.view = Tracked
	}); err != nil {
		return err
	}
	c.logger.Info("tracking started", "roadmap_id", active.ID, "steps", len(active.Steps))
	return nil
}

func checkTracked(r *career.Roadmap) error {
	if r == nil {
		return ErrNoActiveRoadmap
	}
	for _, s := range r.Steps {
		if !s.Tracked() {
			return fmt.Errorf("active step %q has no id", s.Title)
		}
	}
	return nil
}

// ContinueJourney shows the existing active roadmap. No network call.
func (c *Controller) ContinueJourney() error {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	if c.view != Dashboard {
		return fmt.Errorf("continue from %s view: %w", c.view, ErrInvalidTransition)
	}
	if c.active == nil {
		return ErrNoActiveRoadmap
	}
	c.view = Tracked
	return nil
}

// Back returns to the dashboard. An unsaved preview is discarded.
func (c *Controller) Back() {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	c.preview = nil
	c.view = Dashboard
	c.details = Details{}
	c.quiz = Quiz{}
}

// UpdateStepStatus flips the step locally first, then tells the server.
// A server failure is returned but the local change is kept.
func (c *Controller) UpdateStepStatus(ctx context.Context, stepID int64, status career.StepStatus) error {
	if _, err := career.ParseStepStatus(string(status)); err != nil {
		return err
	}

	var found bool
	if err := c.Apply(func() {
		if c.active == nil {
			return
		}
		for i := range c.active.Steps {
			if c.active.Steps[i].ID == stepID {
				c.active.Steps[i].Status = status
				found = true
				return
			}
		}
	}); err != nil {
		return err
	}
	if !found {
		return ErrStepNotFound
	}

	ctx, done := c.Context(ctx)
	defer done()

	if err := c.gw.UpdateStep(ctx, stepID, status); err != nil {
		c.logger.Warn("step status update failed, keeping local change", "step_id", stepID, "status", status, "error", err)
		return fmt.Errorf("failed to update step %d: %w", stepID, err)
	}
	c.logger.Info("step status updated", "step_id", stepID, "status", status)
	return nil
}

// Displayed returns the roadmap on screen.
func (c *Controller) Displayed() Displayed {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	return c.displayed()
}

func (c *Controller) displayed() Displayed {
	switch c.view {
	case Preview:
		return Displayed{View: Preview, Roadmap: c.preview.Clone()}
	case Tracked:
		return Displayed{View: Tracked, Roadmap: c.active.Clone()}
	default:
		return Displayed{View: Dashboard}
	}
}

// Progress is the completion percent of the displayed roadmap.
func (c *Controller) Progress() int {
	return c.Displayed().Roadmap.Progress()
}

// Roles returns the selectable roles.
func (c *Controller) Roles() []string {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	return append([]string(nil), c.roles...)
}

// Active returns a copy of the active roadmap, or nil.
func (c *Controller) Active() *career.Roadmap {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	return c.active.Clone()
}

// Ready reports whether LoadDashboardData has completed.
func (c *Controller) Ready() bool {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	return c.ready
}
