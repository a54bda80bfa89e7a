package guidance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CareerNav/internal/career"
)

func sampleQuiz() []career.QuizQuestion {
	return []career.QuizQuestion{
		{Question: "q1", Options: []string{"a", "b"}, CorrectAnswer: "a"},
		{Question: "q2", Options: []string{"x", "y"}, CorrectAnswer: "x"},
		{Question: "q3", Options: []string{"c", "d"}, CorrectAnswer: "c"},
	}
}

func TestOpenDetails_UsesDisplayedRole(t *testing.T) {
	gw := &fakeGateway{generated: generatedRoadmap(), details: "SQL is a query language."}
	c := newTestController(gw)
	ctx := context.Background()

	d, err := c.OpenDetails(ctx, "Learn SQL")
	require.NoError(t, err)
	assert.True(t, d.Open)
	assert.False(t, d.Loading)
	assert.Equal(t, "SQL is a query language.", d.Content)

	require.NoError(t, c.Generate(ctx, "Backend Developer"))
	_, err = c.OpenDetails(ctx, "Learn SQL")
	require.NoError(t, err)

	assert.Equal(t, []string{DefaultRole, "Backend Developer"}, gw.detailRoles)
}

func TestOpenDetails_FailureShowsFallback(t *testing.T) {
	c := newTestController(&fakeGateway{detailsErr: errors.New("timeout")})

	d, err := c.OpenDetails(context.Background(), "Learn SQL")
	assert.Error(t, err)
	assert.True(t, d.Open)
	assert.False(t, d.Loading)
	assert.Equal(t, DetailsFailure, d.Content)
	assert.Equal(t, DetailsFailure, c.DetailsState().Content)

	c.CloseDetails()
	assert.False(t, c.DetailsState().Open)
}

func TestQuizFlow(t *testing.T) {
	c := newTestController(&fakeGateway{quiz: sampleQuiz()})

	q, err := c.OpenQuiz(context.Background(), "Learn SQL")
	require.NoError(t, err)
	require.Len(t, q.Questions, 3)
	assert.Nil(t, q.Score)

	_, err = c.SubmitQuiz()
	assert.ErrorIs(t, err, ErrQuizIncomplete)

	require.NoError(t, c.Answer(0, "a"))
	require.NoError(t, c.Answer(1, "y"))
	assert.False(t, c.CanSubmit())
	require.NoError(t, c.Answer(2, "c"))
	assert.True(t, c.CanSubmit())

	score, err := c.SubmitQuiz()
	require.NoError(t, err)
	assert.Equal(t, 2, score)
	require.NotNil(t, c.QuizState().Score)
	assert.Equal(t, 2, *c.QuizState().Score)
}

func TestQuiz_ReopenResetsAnswers(t *testing.T) {
	c := newTestController(&fakeGateway{quiz: sampleQuiz()})
	ctx := context.Background()

	_, err := c.OpenQuiz(ctx, "Learn SQL")
	require.NoError(t, err)
	for i, a := range []string{"a", "x", "c"} {
		require.NoError(t, c.Answer(i, a))
	}
	_, err = c.SubmitQuiz()
	require.NoError(t, err)

	q, err := c.OpenQuiz(ctx, "Learn SQL")
	require.NoError(t, err)
	assert.Empty(t, q.Answers)
	assert.Nil(t, q.Score)
	assert.False(t, c.CanSubmit())
}

func TestAnswer_Validation(t *testing.T) {
	c := newTestController(&fakeGateway{quiz: sampleQuiz()})
	assert.ErrorIs(t, c.Answer(0, "a"), ErrQuizNotOpen)

	_, err := c.OpenQuiz(context.Background(), "Learn SQL")
	require.NoError(t, err)
	assert.ErrorIs(t, c.Answer(5, "a"), ErrBadAnswer)
	assert.ErrorIs(t, c.Answer(0, "z"), ErrBadAnswer)
}

func TestOpenQuiz_Failure(t *testing.T) {
	c := newTestController(&fakeGateway{quizErr: errors.New("bad gateway")})

	q, err := c.OpenQuiz(context.Background(), "Learn SQL")
	assert.Error(t, err)
	assert.True(t, q.Open)
	assert.Empty(t, q.Questions)
	assert.False(t, c.CanSubmit())
}
