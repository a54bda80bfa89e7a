package backend

import (
	"strings"

	"CareerNav/internal/career"
)

// RoadmapRequest asks for a generated roadmap.
type RoadmapRequest struct {
	JobRole string `json:"job_role"`
}

// RoadmapStep is a step as sent by either the generator (step_title, no id)
// or the active-roadmap endpoint (title, id, status).
type RoadmapStep struct {
	ID                FlexID `json:"id,omitempty"`
	Title             string `json:"title,omitempty"`
	StepTitle         string `json:"step_title,omitempty"`
	Description       string `json:"description"`
	EstimatedDuration string `json:"estimated_duration"`
	Status            string `json:"status,omitempty"`
}

// Roadmap is both the generate response and the active-roadmap response.
type Roadmap struct {
	ID    FlexID        `json:"id,omitempty"`
	Role  string        `json:"role"`
	Steps []RoadmapStep `json:"steps"`
}

// SaveStep is the shape /guidance/save expects for each step.
type SaveStep struct {
	StepTitle         string `json:"step_title"`
	Description       string `json:"description"`
	EstimatedDuration string `json:"estimated_duration"`
}

// SaveRoadmapRequest persists a preview roadmap.
type SaveRoadmapRequest struct {
	Role  string     `json:"role"`
	Steps []SaveStep `json:"steps"`
}

// StepStatusRequest is the PATCH body for a step.
type StepStatusRequest struct {
	Status career.StepStatus `json:"status"`
}

// TopicRequest asks for an explanation of a topic for a role.
type TopicRequest struct {
	Topic string `json:"topic"`
	Role  string `json:"role"`
}

// TopicDetails carries markdown content.
type TopicDetails struct {
	Content *string `json:"content"`
}

// QuizRequest asks for a quiz on a topic.
type QuizRequest struct {
	Topic string `json:"topic"`
}

// QuizQuestion is one generated question.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// ToStep normalises either step shape into a career.Step.
func ToStep(s RoadmapStep) (career.Step, error) {
	title := strings.TrimSpace(s.StepTitle)
	if title == "" {
		title = strings.TrimSpace(s.Title)
	}
	if title == "" {
		return career.Step{}, malformed("roadmap step without title")
	}
	id, err := s.ID.Int64()
	if err != nil {
		return career.Step{}, err
	}
	status := career.StatusTodo
	if s.Status != "" {
		status, err = career.ParseStepStatus(s.Status)
		if err != nil {
			return career.Step{}, malformed("step %q: %v", title, err)
		}
	}
	return career.Step{
		ID:                id,
		Title:             title,
		Description:       s.Description,
		EstimatedDuration: s.EstimatedDuration,
		Status:            status,
	}, nil
}

// ToRoadmap validates and maps a roadmap. A nil input maps to nil.
func ToRoadmap(r *Roadmap) (*career.Roadmap, error) {
	if r == nil {
		return nil, nil
	}
	if strings.TrimSpace(r.Role) == "" {
		return nil, malformed("roadmap without role")
	}
	id, err := r.ID.Int64()
	if err != nil {
		return nil, err
	}
	out := &career.Roadmap{ID: id, Role: r.Role, Steps: make([]career.Step, 0, len(r.Steps))}
	for _, s := range r.Steps {
		step, err := ToStep(s)
		if err != nil {
			return nil, err
		}
		out.Steps = append(out.Steps, step)
	}
	return out, nil
}

// FromRoadmap builds the save body from a preview roadmap.
func FromRoadmap(r *career.Roadmap) SaveRoadmapRequest {
	req := SaveRoadmapRequest{Role: r.Role, Steps: make([]SaveStep, 0, len(r.Steps))}
	for _, s := range r.Steps {
		req.Steps = append(req.Steps, SaveStep{
			StepTitle:         s.Title,
			Description:       s.Description,
			EstimatedDuration: s.EstimatedDuration,
		})
	}
	return req
}

// ToQuiz validates and maps quiz questions.
func ToQuiz(qs []QuizQuestion) ([]career.QuizQuestion, error) {
	out := make([]career.QuizQuestion, 0, len(qs))
	for i, q := range qs {
		if strings.TrimSpace(q.Question) == "" {
			return nil, malformed("quiz question %d has no text", i+1)
		}
		if len(q.Options) == 0 {
			return nil, malformed("quiz question %d has no options", i+1)
		}
		if q.CorrectAnswer == "" {
			return nil, malformed("quiz question %d has no correct answer", i+1)
		}
		out = append(out, career.QuizQuestion{
			Question:      q.Question,
			Options:       append([]string(nil), q.Options...),
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return out, nil
}
