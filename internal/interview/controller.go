// Package interview drives one simulated-interview conversation per mounted
// screen: role setup, session start, and optimistic chat turns.
package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"CareerNav/internal/career"
	"CareerNav/internal/screen"
)

var (
	// ErrNoRoles means no analysed résumé has produced a role yet; the user
	// should run an analysis first.
	ErrNoRoles       = errors.New("no roles available, analyze a resume first")
	ErrEmptyRole     = errors.New("role cannot be empty")
	ErrEmptyMessage  = errors.New("message cannot be empty")
	ErrNoSession     = errors.New("no interview in progress")
	ErrSessionActive = errors.New("an interview is already in progress")
)

// Gateway is the subset of the API client the screen needs.
type Gateway interface {
	History(ctx context.Context) ([]career.HistoryEntry, error)
	StartInterview(ctx context.Context, role string) (career.InterviewSession, error)
	ListInterviews(ctx context.Context) ([]career.InterviewSession, error)
	Messages(ctx context.Context, sessionID int64) ([]career.Message, error)
	Chat(ctx context.Context, sessionID int64, text string) (career.Message, error)
}

// Controller owns the interview screen state for one mounted lifetime.
type Controller struct {
	screen.Lifecycle

	gw     Gateway
	logger *slog.Logger
	now    func() time.Time

	roles       []string
	rolesLoaded bool
	session     *career.InterviewSession
	messages    []career.Message
	lastTempID  int64
}

// New mounts an interview screen.
func New(gw Gateway, logger *slog.Logger) *Controller {
	c := &Controller{gw: gw, logger: logger.With("screen", "interview"), now: time.Now}
	c.Mount()
	return c
}

// LoadRoles derives the selectable roles from analysis history.
func (c *Controller) LoadRoles(ctx context.Context) ([]string, error) {
	ctx, done := c.Context(ctx)
	defer done()

	history, err := c.gw.History(ctx)
	if err != nil {
		c.logger.Error("failed to load analysis history", "error", err)
		if c.Closed() {
			return nil, screen.ErrClosed
		}
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	roles := career.Roles(history)
	if err := c.Apply(func() {
		c.roles = roles
		c.rolesLoaded = true
	}); err != nil {
		return nil, err
	}
	return append([]string(nil), roles...), nil
}

// StartSession creates a session for role and loads its opening messages.
// Roles are loaded first if needed; with none, it returns ErrNoRoles without
// creating anything.
func (c *Controller) StartSession(ctx context.Context, role string) (career.InterviewSession, error) {
	role = strings.TrimSpace(role)

	c.Mu.Lock()
	active, loaded, roleCount := c.session != nil, c.rolesLoaded, len(c.roles)
	c.Mu.Unlock()
	if active {
		return career.InterviewSession{}, ErrSessionActive
	}
	if !loaded {
		roles, err := c.LoadRoles(ctx)
		if err != nil {
			return career.InterviewSession{}, err
		}
		roleCount = len(roles)
	}
	if roleCount == 0 {
		return career.InterviewSession{}, ErrNoRoles
	}
	if role == "" {
		return career.InterviewSession{}, ErrEmptyRole
	}

	ctx, done := c.Context(ctx)
	defer done()

	sess, err := c.gw.StartInterview(ctx, role)
	if err != nil {
		c.logger.Error("failed to start interview", "role", role, "error", err)
		if c.Closed() {
			return career.InterviewSession{}, screen.ErrClosed
		}
		return career.InterviewSession{}, fmt.Errorf("failed to start interview: %w", err)
	}
	if err := c.Apply(func() {
		c.session = &sess
		c.messages = nil
	}); err != nil {
		return career.InterviewSession{}, err
	}
	c.logger.Info("interview started", "session_id", sess.ID, "role", sess.JobRole)

	msgs, err := c.gw.Messages(ctx, sess.ID)
	if err != nil {
		c.logger.Error("failed to load opening messages", "session_id", sess.ID, "error", err)
		if c.Closed() {
			return career.InterviewSession{}, screen.ErrClosed
		}
		return sess, fmt.Errorf("interview started but messages failed to load: %w", err)
	}
	if err := c.Apply(func() {
		if c.session == nil || c.session.ID != sess.ID {
			return
		}
		// anything sent meanwhile stays after the opening messages
		c.messages = append(msgs, c.messages...)
	}); err != nil {
		return career.InterviewSession{}, err
	}
	return sess, nil
}

// tempID returns a time-based id for an optimistic message, strictly
// increasing within this controller.
func (c *Controller) tempID() int64 {
	id := c.now().UnixMilli()
	if id <= c.lastTempID {
		id = c.lastTempID + 1
	}
	c.lastTempID = id
	return id
}

// SendMessage appends text as a pending user message, then sends it. The
// reply is appended on success. On failure the user message stays, marked
// Failed, and the error is returned.
func (c *Controller) SendMessage(ctx context.Context, text string) (career.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return career.Message{}, ErrEmptyMessage
	}

	var sessionID, tempID int64
	if err := c.Apply(func() {
		if c.session == nil {
			return
		}
		sessionID = c.session.ID
		tempID = c.tempID()
		c.messages = append(c.messages, career.Message{
			ID:        tempID,
			Sender:    career.SenderUser,
			Content:   text,
			Timestamp: c.now(),
			Delivery:  career.Pending,
		})
	}); err != nil {
		return career.Message{}, err
	}
	if tempID == 0 {
		return career.Message{}, ErrNoSession
	}

	ctx, done := c.Context(ctx)
	defer done()

	reply, chatErr := c.gw.Chat(ctx, sessionID, text)

	if err := c.Apply(func() {
		if c.session == nil || c.session.ID != sessionID {
			return
		}
		for i := range c.messages {
			if c.messages[i].ID == tempID && c.messages[i].Delivery == career.Pending {
				if chatErr != nil {
					c.messages[i].Delivery = career.Failed
				} else {
					c.messages[i].Delivery = career.Confirmed
				}
				break
			}
		}
		if chatErr == nil {
			c.messages = append(c.messages, reply)
		}
	}); err != nil {
		return career.Message{}, err
	}

	if chatErr != nil {
		c.logger.Warn("chat turn failed, keeping message", "session_id", sessionID, "error", chatErr)
		return career.Message{}, fmt.Errorf("failed to send message: %w", chatErr)
	}
	return reply, nil
}

// EndSession forgets the current session. The server is not told.
func (c *Controller) EndSession() error {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	if c.session == nil {
		return ErrNoSession
	}
	c.logger.Info("interview ended", "session_id", c.session.ID, "messages", len(c.messages))
	c.session = nil
	c.messages = nil
	return nil
}

// PastSessions lists previous interviews, newest first.
func (c *Controller) PastSessions(ctx context.Context) ([]career.InterviewSession, error) {
	ctx, done := c.Context(ctx)
	defer done()

	sessions, err := c.gw.ListInterviews(ctx)
	if err != nil {
		if c.Closed() {
			return nil, screen.ErrClosed
		}
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return sessions, nil
}

// Session returns the current session, if any.
func (c *Controller) Session() (career.InterviewSession, bool) {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	if c.session == nil {
		return career.InterviewSession{}, false
	}
	return *c.session, true
}

// Messages returns the transcript in insertion order.
func (c *Controller) Messages() []career.Message {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	return append([]career.Message(nil), c.messages...)
}

// Roles returns the roles found by LoadRoles.
func (c *Controller) Roles() []string {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	return append([]string(nil), c.roles...)
}
