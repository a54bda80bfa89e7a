package guidance

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"CareerNav/internal/career"
)

const (
	// DetailsFailure replaces the content when details can't be fetched.
	DetailsFailure = "Failed to retrieve details."
	// DefaultRole is sent when no roadmap is on screen.
	DefaultRole = "General"
)

var (
	ErrNoTopic        = errors.New("topic cannot be empty")
	ErrQuizNotOpen    = errors.New("no quiz open")
	ErrQuizIncomplete = errors.New("answer every question before submitting")
	ErrBadAnswer      = errors.New("invalid answer")
)

// Details is the topic explanation overlay.
type Details struct {
	Open    bool
	Loading bool
	Topic   string
	Role    string
	Content string
}

// Quiz is the topic quiz overlay. Score is nil until submitted.
type Quiz struct {
	Open      bool
	Loading   bool
	Topic     string
	Questions []career.QuizQuestion
	Answers   map[int]string
	Score     *int
}

func (q Quiz) clone() Quiz {
	out := q
	out.Questions = append([]career.QuizQuestion(nil), q.Questions...)
	out.Answers = make(map[int]string, len(q.Answers))
	for k, v := range q.Answers {
		out.Answers[k] = v
	}
	if q.Score != nil {
		s := *q.Score
		out.Score = &s
	}
	return out
}

// OpenDetails fetches an explanation of topic, scoped to the displayed
// roadmap's role. On failure the content becomes DetailsFailure.
func (c *Controller) OpenDetails(ctx context.Context, topic string) (Details, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Details{}, ErrNoTopic
	}

	var seq int
	var role string
	if err := c.Apply(func() {
		role = DefaultRole
		if d := c.displayed(); d.Roadmap != nil && d.Roadmap.Role != "" {
			role = d.Roadmap.Role
		}
		c.detailsSeq++
		seq = c.detailsSeq
		c.details = Details{Open: true, Loading: true, Topic: topic, Role: role}
	}); err != nil {
		return Details{}, err
	}

	ctx, done := c.Context(ctx)
	defer done()

	content, fetchErr := c.gw.TopicDetails(ctx, topic, role)
	if fetchErr != nil {
		c.logger.Warn("failed to fetch topic details", "topic", topic, "error", fetchErr)
		content = DetailsFailure
	}

	var out Details
	if err := c.Apply(func() {
		if seq != c.detailsSeq || !c.details.Open {
			out = c.details
			return
		}
		c.details.Loading = false
		c.details.Content = content
		out = c.details
	}); err != nil {
		return Details{}, err
	}
	if fetchErr != nil {
		return out, fmt.Errorf("failed to fetch details for %q: %w", topic, fetchErr)
	}
	return out, nil
}

// CloseDetails hides the details overlay.
func (c *Controller) CloseDetails() {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	c.details = Details{}
}

// DetailsState returns the details overlay.
func (c *Controller) DetailsState() Details {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	return c.details
}

// OpenQuiz fetches a quiz for topic, discarding previous answers and score.
func (c *Controller) OpenQuiz(ctx context.Context, topic string) (Quiz, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Quiz{}, ErrNoTopic
	}

	var seq int
	if err := c.Apply(func() {
		c.quizSeq++
		seq = c.quizSeq
		c.quiz = Quiz{Open: true, Loading: true, Topic: topic, Answers: map[int]string{}}
	}); err != nil {
		return Quiz{}, err
	}

	ctx, done := c.Context(ctx)
	defer done()

	questions, fetchErr := c.gw.TopicQuiz(ctx, topic)
	if fetchErr != nil {
		c.logger.Warn("failed to fetch quiz", "topic", topic, "error", fetchErr)
		questions = nil
	}

	var out Quiz
	if err := c.Apply(func() {
		if seq != c.quizSeq || !c.quiz.Open {
			out = c.quiz.clone()
			return
		}
		c.quiz.Loading = false
		c.quiz.Questions = questions
		out = c.quiz.clone()
	}); err != nil {
		return Quiz{}, err
	}
	if fetchErr != nil {
		return out, fmt.Errorf("failed to fetch quiz for %q: %w", topic, fetchErr)
	}
	return out, nil
}

// Answer records option as the answer to question index (0-based).
func (c *Controller) Answer(index int, option string) error {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	if !c.quiz.Open || c.quiz.Loading {
		return ErrQuizNotOpen
	}
	if index < 0 || index >= len(c.quiz.Questions) {
		return fmt.Errorf("%w: question %d out of range", ErrBadAnswer, index+1)
	}
	if !slices.Contains(c.quiz.Questions[index].Options, option) {
		return fmt.Errorf("%w: %q is not an option", ErrBadAnswer, option)
	}
	c.quiz.Answers[index] = option
	c.quiz.Score = nil
	return nil
}

// CanSubmit is true once every question has an answer.
func (c *Controller) CanSubmit() bool {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	return c.canSubmit()
}

func (c *Controller) canSubmit() bool {
	q := c.quiz
	return q.Open && !q.Loading && len(q.Questions) > 0 && len(q.Answers) == len(q.Questions)
}

// SubmitQuiz scores the answers locally. Nothing is sent to the server.
func (c *Controller) SubmitQuiz() (int, error) {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	if !c.quiz.Open {
		return 0, ErrQuizNotOpen
	}
	if !c.canSubmit() {
		return 0, ErrQuizIncomplete
	}
	score := career.Score(c.quiz.Questions, c.quiz.Answers)
	c.quiz.Score = &score
	return score, nil
}

// CloseQuiz hides the quiz overlay.
func (c *Controller) CloseQuiz() {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	c.quiz = Quiz{}
}

// QuizState returns a copy of the quiz overlay.
func (c *Controller) QuizState() Quiz {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	return c.quiz.clone()
}
