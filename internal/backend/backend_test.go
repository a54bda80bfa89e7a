package backend

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CareerNav/internal/career"
)

func TestFlexID(t *testing.T) {
	var v struct {
		A FlexID `json:"a"`
		B FlexID `json:"b"`
		C FlexID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 42, "b": "65f0c1", "c": null}`), &v))
	assert.Equal(t, FlexID("42"), v.A)
	assert.Equal(t, FlexID("65f0c1"), v.B)
	assert.Equal(t, FlexID(""), v.C)

	n, err := v.A.Int64()
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)

	_, err = v.B.Int64()
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestTimestamp(t *testing.T) {
	var v struct {
		A Timestamp `json:"a"`
		B Timestamp `json:"b"`
		C Timestamp `json:"c"`
	}
	body := `{"a": "2025-03-01T10:20:30.123456", "b": "2025-03-01T10:20:30Z", "c": null}`
	require.NoError(t, json.Unmarshal([]byte(body), &v))

	want := time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)
	assert.True(t, v.A.Truncate(time.Second).Equal(want))
	assert.True(t, v.B.Equal(want))
	assert.True(t, v.C.IsZero())
}

func TestToStep_NormalisesBothShapes(t *testing.T) {
	generated, err := ToStep(RoadmapStep{StepTitle: "Learn SQL", EstimatedDuration: "2 weeks"})
	require.NoError(t, err)
	assert.Equal(t, "Learn SQL", generated.Title)
	assert.False(t, generated.Tracked())
	assert.Equal(t, career.StatusTodo, generated.Status)

	stored, err := ToStep(RoadmapStep{ID: "7", Title: "Learn SQL", Status: "in_progress"})
	require.NoError(t, err)
	assert.EqualValues(t, 7, stored.ID)
	assert.Equal(t, career.StatusInProgress, stored.Status)

	_, err = ToStep(RoadmapStep{Description: "no title"})
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = ToStep(RoadmapStep{Title: "x", Status: "paused"})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestToRoadmap(t *testing.T) {
	r, err := ToRoadmap(nil)
	require.NoError(t, err)
	assert.Nil(t, r)

	_, err = ToRoadmap(&Roadmap{Steps: []RoadmapStep{{Title: "x"}}})
	assert.ErrorIs(t, err, ErrMalformedResponse)

	var raw Roadmap
	body := `{"role":"Backend Developer","steps":[{"step_title":"Learn SQL","description":"d","estimated_duration":"2 weeks"}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	r, err = ToRoadmap(&raw)
	require.NoError(t, err)
	require.Len(t, r.Steps, 1)
	assert.Equal(t, "Learn SQL", r.Steps[0].Title)
	assert.Zero(t, r.Steps[0].ID)
}

func TestFromRoadmap_UsesGeneratorShape(t *testing.T) {
	req := FromRoadmap(&career.Roadmap{Role: "Backend Developer", Steps: []career.Step{
		{Title: "Learn SQL", Description: "d", EstimatedDuration: "2 weeks"},
	}})
	b, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"Backend Developer","steps":[{"step_title":"Learn SQL","description":"d","estimated_duration":"2 weeks"}]}`, string(b))
}

func TestToQuiz(t *testing.T) {
	qs, err := ToQuiz([]QuizQuestion{{Question: "q", Options: []string{"a", "b"}, CorrectAnswer: "a"}})
	require.NoError(t, err)
	require.Len(t, qs, 1)

	_, err = ToQuiz([]QuizQuestion{{Question: "q", CorrectAnswer: "a"}})
	assert.ErrorIs(t, err, ErrMalformedResponse)
	_, err = ToQuiz([]QuizQuestion{{Question: "q", Options: []string{"a"}}})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestToMessage(t *testing.T) {
	m, err := ToMessage(Message{ID: "3", Sender: "ai", Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, career.SenderAI, m.Sender)
	assert.Equal(t, career.Confirmed, m.Delivery)

	_, err = ToMessage(Message{Sender: "bot"})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestToHistory_MissingDomain(t *testing.T) {
	h := ToHistory([]HistoryEntry{{ID: "1", Domain: ""}, {ID: "2", Domain: "Data Scientist", Score: 81}})
	require.Len(t, h, 2)
	assert.Equal(t, career.NoDomain, h[0].Domain)
	assert.Equal(t, 81, h[1].Score)
	assert.Equal(t, []string{"Data Scientist"}, career.Roles(h))
}

func TestErrorResponseMessage(t *testing.T) {
	var e ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(`{"detail":"Email already registered"}`), &e))
	assert.Equal(t, "Email already registered", e.Message())

	require.NoError(t, json.Unmarshal([]byte(`{"detail":[{"msg":"field required"},{"msg":"too short"}]}`), &e))
	assert.Equal(t, "field required; too short", e.Message())
}

func TestScoresAreRounded(t *testing.T) {
	h := ToHistory([]HistoryEntry{{ID: "1", Score: 79.6}, {ID: "2", Score: 79.4}})
	assert.Equal(t, 80, h[0].Score)
	assert.Equal(t, 79, h[1].Score)

	var d AnalysisDetail
	require.NoError(t, json.Unmarshal([]byte(`{"analysis":{"identified_domain":"Data Scientist","score":81.5}}`), &d))
	a, err := ToAnalysis("abc", &d)
	require.NoError(t, err)
	assert.Equal(t, 82, a.Score)
}
