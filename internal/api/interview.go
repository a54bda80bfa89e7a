package api

import (
	"context"
	"fmt"
	"net/http"

	"CareerNav/internal/backend"
	"CareerNav/internal/career"
)

// StartInterview creates a session; the backend stores a greeting with it.
func (c *Client) StartInterview(ctx context.Context, role string) (career.InterviewSession, error) {
	cl, err := jsonCall("interview.start", http.MethodPost, "/interview/sessions", backend.SessionStartRequest{JobRole: role})
	if err != nil {
		return career.InterviewSession{}, err
	}
	var resp backend.InterviewSession
	if err := c.do(ctx, cl, &resp); err != nil {
		return career.InterviewSession{}, err
	}
	return backend.ToSession(resp)
}

// ListInterviews returns past sessions, newest first.
func (c *Client) ListInterviews(ctx context.Context) ([]career.InterviewSession, error) {
	var resp []backend.InterviewSession
	cl := call{name: "interview.list", method: http.MethodGet, path: "/interview/sessions", auth: true}
	if err := c.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	out := make([]career.InterviewSession, 0, len(resp))
	for _, s := range resp {
		sess, err := backend.ToSession(s)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, nil
}

// Messages returns the transcript of a session in server order.
func (c *Client) Messages(ctx context.Context, sessionID int64) ([]career.Message, error) {
	var resp []backend.Message
	cl := call{name: "interview.messages", method: http.MethodGet, path: fmt.Sprintf("/interview/sessions/%d/messages", sessionID), auth: true}
	if err := c.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	return backend.ToMessages(resp)
}

// Chat sends one user turn and returns the interviewer's reply.
func (c *Client) Chat(ctx context.Context, sessionID int64, text string) (career.Message, error) {
	cl, err := jsonCall("interview.chat", http.MethodPost, fmt.Sprintf("/interview/sessions/%d/chat", sessionID), backend.ChatRequest{Message: text})
	if err != nil {
		return career.Message{}, err
	}
	var resp backend.Message
	if err := c.do(ctx, cl, &resp); err != nil {
		return career.Message{}, err
	}
	msg, err := backend.ToMessage(resp)
	if err != nil {
		return career.Message{}, err
	}
	if msg.Sender != career.SenderAI || msg.Content == "" {
		return career.Message{}, fmt.Errorf("%w: chat reply must be a non-empty ai message", backend.ErrMalformedResponse)
	}
	return msg, nil
}
