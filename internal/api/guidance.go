package api

import (
	"context"
	"fmt"
	"net/http"

	"CareerNav/internal/backend"
	"CareerNav/internal/career"
)

// ActiveRoadmap returns the saved roadmap, or nil when the user has none.
func (c *Client) ActiveRoadmap(ctx context.Context) (*career.Roadmap, error) {
	var resp *backend.Roadmap
	cl := call{name: "guidance.active", method: http.MethodGet, path: "/guidance/active", auth: true}
	if err := c.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	return backend.ToRoadmap(resp)
}

// GenerateRoadmap asks for a new preview roadmap. Its steps have no ids.
func (c *Client) GenerateRoadmap(ctx context.Context, role string) (*career.Roadmap, error) {
	cl, err := jsonCall("guidance.generate", http.MethodPost, "/guidance/generate", backend.RoadmapRequest{JobRole: role})
	if err != nil {
		return nil, err
	}
	var resp backend.Roadmap
	if err := c.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	return backend.ToRoadmap(&resp)
}

// SaveRoadmap makes r the user's active roadmap.
func (c *Client) SaveRoadmap(ctx context.Context, r *career.Roadmap) error {
	if r == nil {
		return fmt.Errorf("roadmap cannot be nil")
	}
	cl, err := jsonCall("guidance.save", http.MethodPost, "/guidance/save", backend.FromRoadmap(r))
	if err != nil {
		return err
	}
	var ack backend.AckResponse
	return c.do(ctx, cl, &ack)
}

// UpdateStep sets the status of one tracked step.
func (c *Client) UpdateStep(ctx context.Context, stepID int64, status career.StepStatus) error {
	cl, err := jsonCall("guidance.update_step", http.MethodPatch, fmt.Sprintf("/guidance/steps/%d", stepID), backend.StepStatusRequest{Status: status})
	if err != nil {
		return err
	}
	var ack backend.AckResponse
	return c.do(ctx, cl, &ack)
}

// TopicDetails returns a markdown explanation of topic for role.
func (c *Client) TopicDetails(ctx context.Context, topic, role string) (string, error) {
	cl, err := jsonCall("guidance.details", http.MethodPost, "/guidance/details", backend.TopicRequest{Topic: topic, Role: role})
	if err != nil {
		return "", err
	}
	var resp backend.TopicDetails
	if err := c.do(ctx, cl, &resp); err != nil {
		return "", err
	}
	if resp.Content == nil {
		return "", fmt.Errorf("%w: details without content", backend.ErrMalformedResponse)
	}
	return *resp.Content, nil
}

// TopicQuiz returns the quiz questions for topic, in order.
func (c *Client) TopicQuiz(ctx context.Context, topic string) ([]career.QuizQuestion, error) {
	cl, err := jsonCall("guidance.quiz", http.MethodPost, "/guidance/quiz", backend.QuizRequest{Topic: topic})
	if err != nil {
		return nil, err
	}
	var resp []backend.QuizQuestion
	if err := c.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	return backend.ToQuiz(resp)
}
