package guidance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CareerNav/internal/career"
	"CareerNav/internal/screen"
)

type fakeGateway struct {
	mu sync.Mutex

	history    []career.HistoryEntry
	historyErr error
	active     *career.Roadmap
	activeErr  error
	generated  *career.Roadmap
	genErr     error
	saveErr    error
	updateErr  error
	details    string
	detailsErr error
	quiz       []career.QuizQuestion
	quizErr    error

	// block, when set, holds GenerateRoadmap until the request context ends.
	block chan struct{}
	// updateStarted and updateRelease, when set, hold UpdateStep in flight.
	updateStarted chan struct{}
	updateRelease chan struct{}

	saved       []*career.Roadmap
	updates     []int64
	detailRoles []string
}

func (f *fakeGateway) History(context.Context) ([]career.HistoryEntry, error) {
	return f.history, f.historyErr
}

func (f *fakeGateway) ActiveRoadmap(context.Context) (*career.Roadmap, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active.Clone(), f.activeErr
}

func (f *fakeGateway) GenerateRoadmap(ctx context.Context, role string) (*career.Roadmap, error) {
	if f.block != nil {
		close(f.block)
		<-ctx.Done()
		return f.generated.Clone(), nil
	}
	return f.generated.Clone(), f.genErr
}

func (f *fakeGateway) SaveRoadmap(_ context.Context, r *career.Roadmap) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, r)
	// the server assigns ids on save
	stored := r.Clone()
	stored.ID = 5
	for i := range stored.Steps {
		stored.Steps[i].ID = int64(40 + i)
		stored.Steps[i].Status = career.StatusTodo
	}
	f.active = stored
	return nil
}

func (f *fakeGateway) UpdateStep(_ context.Context, id int64, _ career.StepStatus) error {
	if f.updateStarted != nil {
		close(f.updateStarted)
		<-f.updateRelease
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, id)
	return f.updateErr
}

func (f *fakeGateway) TopicDetails(_ context.Context, _, role string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailRoles = append(f.detailRoles, role)
	return f.details, f.detailsErr
}

func (f *fakeGateway) TopicQuiz(context.Context, string) ([]career.QuizQuestion, error) {
	return f.quiz, f.quizErr
}

func newTestController(gw Gateway) *Controller {
	return New(gw, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func generatedRoadmap() *career.Roadmap {
	return &career.Roadmap{Role: "Backend Developer", Steps: []career.Step{
		{Title: "Learn SQL", EstimatedDuration: "2 weeks", Status: career.StatusTodo},
		{Title: "Build an API", EstimatedDuration: "3 weeks", Status: career.StatusTodo},
	}}
}

func TestLoadDashboardData(t *testing.T) {
	gw := &fakeGateway{
		history: []career.HistoryEntry{
			{Domain: "Backend Developer"}, {Domain: "N/A"}, {Domain: "Data Scientist"}, {Domain: "Backend Developer"},
		},
	}
	c := newTestController(gw)

	require.NoError(t, c.LoadDashboardData(context.Background()))
	assert.True(t, c.Ready())
	assert.Equal(t, []string{"Backend Developer", "Data Scientist"}, c.Roles())
	assert.Nil(t, c.Active())
	assert.Equal(t, Dashboard, c.Displayed().View)
	assert.ErrorIs(t, c.ContinueJourney(), ErrNoActiveRoadmap)
}

func TestLoadDashboardData_FailuresLeaveUsableDashboard(t *testing.T) {
	boom := errors.New("boom")
	gw := &fakeGateway{historyErr: boom, activeErr: boom}
	c := newTestController(gw)

	err := c.LoadDashboardData(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, c.Ready())
	assert.Empty(t, c.Roles())
	assert.Nil(t, c.Active())
}

func TestGenerateTrackAndUpdate(t *testing.T) {
	gw := &fakeGateway{generated: generatedRoadmap()}
	c := newTestController(gw)
	ctx := context.Background()
	require.NoError(t, c.LoadDashboardData(ctx))

	require.NoError(t, c.Generate(ctx, "Backend Developer"))
	d := c.Displayed()
	require.Equal(t, Preview, d.View)
	for _, s := range d.Roadmap.Steps {
		assert.False(t, s.Tracked())
	}
	assert.Equal(t, 0, c.Progress())

	require.NoError(t, c.StartTracking(ctx))
	d = c.Displayed()
	require.Equal(t, Tracked, d.View)
	require.Len(t, gw.saved, 1)
	assert.Equal(t, "Learn SQL", gw.saved[0].Steps[0].Title)
	for _, s := range d.Roadmap.Steps {
		assert.True(t, s.Tracked())
	}

	require.NoError(t, c.UpdateStepStatus(ctx, 40, career.StatusDone))
	assert.Equal(t, 50, c.Progress())
	assert.Equal(t, []int64{40}, gw.updates)

	c.Back()
	assert.Equal(t, Dashboard, c.Displayed().View)
	require.NoError(t, c.ContinueJourney())
	assert.Equal(t, Tracked, c.Displayed().View)
}

func TestGenerate_StripsIDsFromPreview(t *testing.T) {
	r := generatedRoadmap()
	r.Steps[0].ID = 99
	c := newTestController(&fakeGateway{generated: r})

	require.NoError(t, c.Generate(context.Background(), "Backend Developer"))
	assert.Zero(t, c.Displayed().Roadmap.Steps[0].ID)
}

func TestGenerate_FailureStaysOnDashboard(t *testing.T) {
	boom := errors.New("generator unavailable")
	c := newTestController(&fakeGateway{genErr: boom})

	err := c.Generate(context.Background(), "Backend Developer")
	assert.ErrorIs(t, err, boom)
	d := c.Displayed()
	assert.Equal(t, Dashboard, d.View)
	assert.Nil(t, d.Roadmap)
}

func TestGenerate_RequiresRoleAndDashboard(t *testing.T) {
	c := newTestController(&fakeGateway{generated: generatedRoadmap()})
	assert.ErrorIs(t, c.Generate(context.Background(), "  "), ErrNoRole)

	require.NoError(t, c.Generate(context.Background(), "Backend Developer"))
	assert.ErrorIs(t, c.Generate(context.Background(), "Other"), ErrInvalidTransition)
}

func TestStartTracking_SaveFailureKeepsPreview(t *testing.T) {
	boom := errors.New("save failed")
	c := newTestController(&fakeGateway{generated: generatedRoadmap(), saveErr: boom})
	require.NoError(t, c.Generate(context.Background(), "Backend Developer"))

	assert.ErrorIs(t, c.StartTracking(context.Background()), boom)
	assert.Equal(t, Preview, c.Displayed().View)
}

func TestStartTracking_WithoutPreview(t *testing.T) {
	c := newTestController(&fakeGateway{})
	assert.ErrorIs(t, c.StartTracking(context.Background()), ErrNoPreview)
}

func TestUpdateStepStatus_KeepsLocalChangeOnFailure(t *testing.T) {
	gw := &fakeGateway{
		active: &career.Roadmap{ID: 5, Role: "Backend Developer", Steps: []career.Step{
			{ID: 42, Title: "Learn SQL", Status: career.StatusTodo},
			{ID: 43, Title: "Build an API", Status: career.StatusTodo},
		}},
		updateErr: errors.New("500"),
	}
	c := newTestController(gw)
	ctx := context.Background()
	require.NoError(t, c.LoadDashboardData(ctx))
	require.NoError(t, c.ContinueJourney())

	err := c.UpdateStepStatus(ctx, 42, career.StatusDone)
	assert.Error(t, err)
	assert.Equal(t, career.StatusDone, c.Active().Steps[0].Status)
	assert.Equal(t, 50, c.Progress())
}

func TestUpdateStepStatus_UnknownStep(t *testing.T) {
	gw := &fakeGateway{active: &career.Roadmap{ID: 5, Role: "x", Steps: []career.Step{{ID: 42, Title: "a"}}}}
	c := newTestController(gw)
	require.NoError(t, c.LoadDashboardData(context.Background()))

	assert.ErrorIs(t, c.UpdateStepStatus(context.Background(), 7, career.StatusDone), ErrStepNotFound)
	assert.Empty(t, gw.updates)
}

func TestClosedScreenDropsLateResult(t *testing.T) {
	gw := &fakeGateway{generated: generatedRoadmap(), block: make(chan struct{})}
	c := newTestController(gw)

	errc := make(chan error, 1)
	go func() { errc <- c.Generate(context.Background(), "Backend Developer") }()

	<-gw.block
	c.Close()

	assert.ErrorIs(t, <-errc, screen.ErrClosed)
	assert.Equal(t, Dashboard, c.Displayed().View)
}

func TestStartTracking_ReloadFailureDropsPreview(t *testing.T) {
	boom := errors.New("reload failed")
	gw := &fakeGateway{generated: generatedRoadmap(), activeErr: boom}
	c := newTestController(gw)
	ctx := context.Background()
	require.NoError(t, c.Generate(ctx, "Backend Developer"))

	err := c.StartTracking(ctx)
	assert.ErrorIs(t, err, boom)
	d := c.Displayed()
	assert.Equal(t, Dashboard, d.View)
	assert.Nil(t, d.Roadmap)
	require.Len(t, gw.saved, 1)

	// the saved preview can't be submitted a second time
	assert.ErrorIs(t, c.StartTracking(ctx), ErrNoPreview)
	assert.Len(t, gw.saved, 1)
}

// untrackedGateway reloads a roadmap whose steps never got ids.
type untrackedGateway struct {
	*fakeGateway
}

func (u untrackedGateway) ActiveRoadmap(context.Context) (*career.Roadmap, error) {
	return generatedRoadmap(), nil
}

func TestStartTracking_UntrackedReloadDropsPreview(t *testing.T) {
	gw := untrackedGateway{&fakeGateway{generated: generatedRoadmap()}}
	c := newTestController(gw)
	ctx := context.Background()
	require.NoError(t, c.Generate(ctx, "Backend Developer"))

	assert.Error(t, c.StartTracking(ctx))
	d := c.Displayed()
	assert.Equal(t, Dashboard, d.View)
	assert.Nil(t, d.Roadmap)
	assert.Nil(t, c.Active())
}

func TestUpdateStepStatus_AppliedBeforeServerAnswers(t *testing.T) {
	gw := &fakeGateway{
		active: &career.Roadmap{ID: 5, Role: "Backend Developer", Steps: []career.Step{
			{ID: 42, Title: "Learn SQL", Status: career.StatusTodo},
		}},
		updateStarted: make(chan struct{}),
		updateRelease: make(chan struct{}),
	}
	c := newTestController(gw)
	ctx := context.Background()
	require.NoError(t, c.LoadDashboardData(ctx))
	require.NoError(t, c.ContinueJourney())

	errc := make(chan error, 1)
	go func() { errc <- c.UpdateStepStatus(ctx, 42, career.StatusDone) }()

	<-gw.updateStarted
	assert.Equal(t, career.StatusDone, c.Active().Steps[0].Status)
	assert.Equal(t, 100, c.Progress())

	close(gw.updateRelease)
	require.NoError(t, <-errc)
	assert.Equal(t, career.StatusDone, c.Active().Steps[0].Status)
}
