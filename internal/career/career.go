// Package career holds the client-side domain types shared by every screen.
package career

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// StepStatus is the progress state of a tracked roadmap step.
type StepStatus string

const (
	StatusTodo       StepStatus = "todo"
	StatusInProgress StepStatus = "in_progress"
	StatusDone       StepStatus = "done"
)

// ParseStepStatus accepts the wire values plus a few shell-friendly aliases.
func ParseStepStatus(s string) (StepStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo", "to-do":
		return StatusTodo, nil
	case "in_progress", "in-progress", "doing":
		return StatusInProgress, nil
	case "done", "complete":
		return StatusDone, nil
	default:
		return "", fmt.Errorf("unknown step status %q (todo|in_progress|done)", s)
	}
}

// Step is one roadmap entry. ID is zero until the roadmap is saved server-side.
type Step struct {
	ID                int64
	Title             string
	Description       string
	EstimatedDuration string
	Status            StepStatus
}

// Tracked reports whether the step carries a server-issued id.
func (s Step) Tracked() bool {
	return s.ID != 0
}

// Roadmap is either a preview (no ids) or the user's active roadmap.
type Roadmap struct {
	ID    int64
	Role  string
	Steps []Step
}

// Clone returns a deep copy so callers can't mutate controller state.
func (r *Roadmap) Clone() *Roadmap {
	if r == nil {
		return nil
	}
	out := *r
	out.Steps = append([]Step(nil), r.Steps...)
	return &out
}

// Progress is the rounded percentage of steps marked done.
func (r *Roadmap) Progress() int {
	if r == nil {
		return 0
	}
	done := 0
	for _, s := range r.Steps {
		if s.Status == StatusDone {
			done++
		}
	}
	return Percent(done, len(r.Steps))
}

// Percent rounds done/total to the nearest integer percent, 0 when total is 0.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) * 100 / float64(total)))
}

// NoDomain is what the backend reports when it could not identify a domain.
const NoDomain = "N/A"

// HistoryEntry is one past résumé analysis.
type HistoryEntry struct {
	ID        string
	Filename  string
	CreatedAt time.Time
	Score     int
	Domain    string
}

// Roles derives the selectable job roles from analysis history: one entry
// per domain, first appearance wins, blanks and NoDomain skipped.
func Roles(history []HistoryEntry) []string {
	seen := make(map[string]struct{}, len(history))
	roles := make([]string, 0, len(history))
	for _, h := range history {
		d := strings.TrimSpace(h.Domain)
		if d == "" || d == NoDomain {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		roles = append(roles, d)
	}
	return roles
}

// Skill is one extracted résumé skill.
type Skill struct {
	Name string
	Type string
}

// Analysis is the detailed result of a résumé analysis.
type Analysis struct {
	ID                 string
	Domain             string
	Score              int
	MissingSkills      []string
	RecommendedCourses []string
	Skills             []Skill
}

// QuizQuestion is a multiple-choice question for a roadmap topic.
type QuizQuestion struct {
	Question      string
	Options       []string
	CorrectAnswer string
}

// Score counts the answers matching each question's correct answer.
// answers is keyed by question index; unanswered questions score nothing.
func Score(questions []QuizQuestion, answers map[int]string) int {
	score := 0
	for i, q := range questions {
		if a, ok := answers[i]; ok && a == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// User is the authenticated profile.
type User struct {
	ID    string
	Name  string
	Email string
}

// InterviewSession is one simulated interview.
type InterviewSession struct {
	ID        int64
	JobRole   string
	IsActive  bool
	CreatedAt time.Time
}

// Sender identifies who wrote an interview message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Delivery tracks optimistic messages. Server messages are always Confirmed.
type Delivery int

const (
	Confirmed Delivery = iota
	Pending
	Failed
)

func (d Delivery) String() string {
	switch d {
	case Pending:
		return "pending"
	case Failed:
		return "failed"
	default:
		return "confirmed"
	}
}

// Message is one interview turn.
type Message struct {
	ID        int64
	Sender    Sender
	Content   string
	Timestamp time.Time
	Delivery  Delivery
}
