package backend

import (
	"CareerNav/internal/career"
)

// SessionStartRequest opens an interview.
type SessionStartRequest struct {
	JobRole string `json:"job_role"`
}

// InterviewSession is the session resource.
type InterviewSession struct {
	ID        FlexID    `json:"id"`
	JobRole   string    `json:"job_role"`
	CreatedAt Timestamp `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}

// ChatRequest is one user turn.
type ChatRequest struct {
	Message string `json:"message"`
}

// Message is one stored interview message.
type Message struct {
	ID        FlexID    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp Timestamp `json:"timestamp"`
}

// ToSession validates and maps a session.
func ToSession(s InterviewSession) (career.InterviewSession, error) {
	id, err := s.ID.Int64()
	if err != nil {
		return career.InterviewSession{}, err
	}
	if id == 0 {
		return career.InterviewSession{}, malformed("interview session without id")
	}
	return career.InterviewSession{
		ID:        id,
		JobRole:   s.JobRole,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt.Time,
	}, nil
}

// ToMessage validates and maps a message.
func ToMessage(m Message) (career.Message, error) {
	var sender career.Sender
	switch m.Sender {
	case string(career.SenderUser):
		sender = career.SenderUser
	case string(career.SenderAI):
		sender = career.SenderAI
	default:
		return career.Message{}, malformed("unknown message sender %q", m.Sender)
	}
	id, err := m.ID.Int64()
	if err != nil {
		return career.Message{}, err
	}
	return career.Message{
		ID:        id,
		Sender:    sender,
		Content:   m.Content,
		Timestamp: m.Timestamp.Time,
		Delivery:  career.Confirmed,
	}, nil
}

// ToMessages maps a message list, preserving order.
func ToMessages(ms []Message) ([]career.Message, error) {
	out := make([]career.Message, 0, len(ms))
	for _, m := range ms {
		msg, err := ToMessage(m)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}
