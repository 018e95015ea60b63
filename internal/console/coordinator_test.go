package console_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/lumispec/internal/api"
	"github.com/piwi3910/lumispec/internal/console"
	"github.com/piwi3910/lumispec/internal/model"
	"github.com/piwi3910/lumispec/internal/store"
	"github.com/piwi3910/lumispec/internal/store/mocks"
)

type recorder struct {
	mu      sync.Mutex
	notices []console.Notice
}

func (r *recorder) Notify(n console.Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

func (r *recorder) all() []console.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]console.Notice(nil), r.notices...)
}

func (r *recorder) count(sev console.Severity) int {
	n := 0
	for _, x := range r.all() {
		if x.Severity == sev {
			n++
		}
	}
	return n
}

func measurement(id string) model.Measurement {
	return model.Measurement{
		ID:       id,
		Type:     model.IntegratingSphere,
		SampleID: "s",
		Parameters: []model.Parameter{
			{ID: id + "-pot", Name: "potencia", Value: model.Unmeasured, Unit: "W"},
			{ID: id + "-ten", Name: "tensao", Value: model.Unmeasured, Unit: "V"},
		},
	}
}

func fixtureSamples() []model.Sample {
	return []model.Sample{{
		ID:           "s",
		Code:         "A1",
		ProjectID:    "pj",
		Measurements: []model.Measurement{measurement("m1"), measurement("m2")},
	}}
}

func stubProject(b *mocks.Backend, id, number string, samples []model.Sample) {
	b.On("GetProject", mock.Anything, "p", id).Return(model.Project{ID: id, Number: number}, nil)
	b.On("ListSamples", mock.Anything, "p", id).Return(samples, nil)
}

func newCoordinator(b *mocks.Backend) (*console.Coordinator, *recorder) {
	rec := &recorder{}
	c := console.NewCoordinator(store.NewHub(b, nil), "p", console.WithNotifier(rec))
	return c, rec
}

func TestOpenProjectTabTwiceReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	stubProject(b, "pj", "P-01", fixtureSamples())
	stubProject(b, "pj2", "P-02", nil)
	c, _ := newCoordinator(b)

	require.NoError(t, c.OpenProjectTab(ctx, "pj"))
	require.NoError(t, c.OpenProjectTab(ctx, "pj2"))
	require.NoError(t, c.OpenProjectTab(ctx, "pj"))

	st := c.Snapshot()
	require.Len(t, st.Tabs, 2)
	assert.Equal(t, "pj", st.Tabs[0].Project.ID)
	assert.Equal(t, "pj2", st.Tabs[1].Project.ID)
	assert.Equal(t, []string{"pj2", "pj"}, st.History)
	assert.Equal(t, console.ProjectTabRef("pj"), st.Active)
	assert.Equal(t, console.ProjectTabRef("pj"), st.Pending)
}

func TestClosingOnlyTabReturnsToProjects(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	stubProject(b, "pj", "P-01", nil)
	c, _ := newCoordinator(b)

	require.NoError(t, c.SelectProjectRow(ctx, "pj"))
	assert.Equal(t, "pj", c.Snapshot().SelectedProject)

	c.CloseProjectTab("pj")
	st := c.Snapshot()
	assert.Empty(t, st.History)
	assert.Empty(t, st.Tabs)
	assert.Equal(t, console.ProjectsTab, st.Active)
	assert.Equal(t, console.ProjectsTab, st.Pending)
	assert.Empty(t, st.SelectedProject)
}

func TestClosingActiveTabFollowsHistoryTail(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	stubProject(b, "a", "A", nil)
	stubProject(b, "b", "B", nil)
	c, _ := newCoordinator(b)

	require.NoError(t, c.OpenProjectTab(ctx, "a"))
	require.NoError(t, c.OpenProjectTab(ctx, "b"))
	c.CloseProjectTab("b")

	st := c.Snapshot()
	assert.Equal(t, []string{"a"}, st.History)
	assert.Equal(t, console.ProjectTabRef("a"), st.Active)
	assert.Equal(t, console.ProjectTabRef("a"), st.Pending)
	assert.Equal(t, "a", st.SelectedProject)
}

func TestClosingTabFromFixedTabResetsToProjects(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	stubProject(b, "a", "A", nil)
	stubProject(b, "b", "B", nil)
	c, _ := newCoordinator(b)

	require.NoError(t, c.OpenProjectTab(ctx, "a"))
	require.NoError(t, c.OpenProjectTab(ctx, "b"))
	require.NoError(t, c.SelectTab(ctx, console.SpecTab))
	c.CloseProjectTab("b")

	st := c.Snapshot()
	assert.Equal(t, []string{"a"}, st.History)
	assert.Equal(t, console.ProjectsTab, st.Active)
}

func TestSelectSampleIsPerProject(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	stubProject(b, "pj", "P-01", fixtureSamples())
	other := []model.Sample{{ID: "o", Code: "B1", ProjectID: "pj2"}}
	stubProject(b, "pj2", "P-02", other)
	c, _ := newCoordinator(b)

	require.NoError(t, c.OpenProjectTab(ctx, "pj"))
	require.NoError(t, c.OpenProjectTab(ctx, "pj2"))
	require.NoError(t, c.SelectSample("pj", "s"))
	require.NoError(t, c.SelectSample("pj2", "o"))
	assert.ErrorIs(t, c.SelectSample("pj", "nope"), console.ErrNoSample)
	assert.ErrorIs(t, c.SelectSample("closed", "s"), console.ErrNoProject)

	st := c.Snapshot()
	assert.Equal(t, "s", st.SelectedSample["pj"].ID)
	assert.Equal(t, "o", st.SelectedSample["pj2"].ID)
	assert.Len(t, st.Measurements("pj"), 2)
	assert.Empty(t, st.Measurements("pj2"))
}

func TestOnlyOneMeasurementEditable(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	stubProject(b, "pj", "P-01", fixtureSamples())
	c, _ := newCoordinator(b)
	require.NoError(t, c.OpenProjectTab(ctx, "pj"))

	require.NoError(t, c.ToggleMeasurementEdit(ctx, "m1"))
	before := c.Snapshot()
	err := c.ToggleMeasurementEdit(ctx, "m2")
	require.ErrorIs(t, err, console.ErrEditLocked)

	st := c.Snapshot()
	assert.Equal(t, "m1", st.EditingMeasurement)
	assert.Equal(t, before.MeasurementRows, st.MeasurementRows)
	assert.True(t, st.CanEditMeasurement("m1"))
	assert.False(t, st.CanEditMeasurement("m2"))
	assert.ErrorIs(t, c.SetMeasurementRows("m2", nil), console.ErrNotEditing)
	assert.ErrorIs(t, c.ToggleMeasurementEdit(ctx, "ghost"), console.ErrEditLocked)
}

func TestLeavingMeasurementEditSubmitsParsedRowsOnly(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	stubProject(b, "pj", "P-01", fixtureSamples())
	ref := model.MeasurementRef{ProductID: "p", ProjectID: "pj", SampleID: "s", MeasurementID: "m1"}
	b.On("UpdateMeasurementParameter", mock.Anything, ref, "m1-pot", 12.5).
		Return(model.Parameter{ID: "m1-pot", Name: "potencia", Value: 12.5}, nil)
	c, rec := newCoordinator(b)
	require.NoError(t, c.OpenProjectTab(ctx, "pj"))
	require.NoError(t, c.SelectSample("pj", "s"))

	require.NoError(t, c.ToggleMeasurementEdit(ctx, "m1"))
	rows := c.Snapshot().MeasurementRows["m1"]
	require.Len(t, rows, len(model.Catalog))
	assert.Equal(t, "-", rows[0].Value)
	rows[0].Value = "12,5"
	rows[1].Value = "abc"
	require.NoError(t, c.SetMeasurementRows("m1", rows))

	require.NoError(t, c.ToggleMeasurementEdit(ctx, "m1"))

	b.AssertNumberOfCalls(t, "UpdateMeasurementParameter", 1)
	b.AssertCalled(t, "UpdateMeasurementParameter", mock.Anything, ref, "m1-pot", 12.5)
	st := c.Snapshot()
	assert.Empty(t, st.EditingMeasurement)
	assert.False(t, st.Stale.Any())
	assert.Equal(t, 1, rec.count(console.Success))
	// reconciliation re-fetched the tab
	b.AssertNumberOfCalls(t, "GetProject", 2)
}

func TestLeavingMeasurementEditWithoutChangesSkipsBatch(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	stubProject(b, "pj", "P-01", fixtureSamples())
	c, rec := newCoordinator(b)
	require.NoError(t, c.OpenProjectTab(ctx, "pj"))

	require.NoError(t, c.ToggleMeasurementEdit(ctx, "m1"))
	require.NoError(t, c.ToggleMeasurementEdit(ctx, "m1"))

	b.AssertNotCalled(t, "UpdateMeasurementParameter", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, c.Snapshot().EditingMeasurement)
	assert.Empty(t, rec.all())
}

func TestFailedMeasurementUpdateStillClearsEditFlag(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	stubProject(b, "pj", "P-01", fixtureSamples())
	b.On("UpdateMeasurementParameter", mock.Anything, mock.Anything, "m1-ten", 220.0).
		Return(model.Parameter{}, &api.Error{Status: 500, Message: "falhou"})
	c, rec := newCoordinator(b)
	require.NoError(t, c.OpenProjectTab(ctx, "pj"))

	require.NoError(t, c.ToggleMeasurementEdit(ctx, "m1"))
	rows := c.Snapshot().MeasurementRows["m1"]
	rows[1].Value = "220"
	require.NoError(t, c.SetMeasurementRows("m1", rows))

	err := c.ToggleMeasurementEdit(ctx, "m1")
	require.Error(t, err)
	assert.Empty(t, c.Snapshot().EditingMeasurement)
	assert.Equal(t, 1, rec.count(console.Failure))
}

func TestEditedRowsSurviveTabRebuild(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	stubProject(b, "pj", "P-01", fixtureSamples())
	c, _ := newCoordinator(b)
	require.NoError(t, c.OpenProjectTab(ctx, "pj"))
	require.NoError(t, c.ToggleMeasurementEdit(ctx, "m1"))

	rows := c.Snapshot().MeasurementRows["m1"]
	rows[4].Value = "810"
	require.NoError(t, c.SetMeasurementRows("m1", rows))
	require.NoError(t, c.OpenProjectTab(ctx, "pj"))

	st := c.Snapshot()
	assert.Equal(t, "810", st.MeasurementRows["m1"][4].Value)
	assert.Equal(t, "m1", st.EditingMeasurement)
}

func TestDeleteSampleCascadesInOrder(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	stubProject(b, "pj", "P-01", fixtureSamples())

	var (
		mu    sync.Mutex
		calls []string
	)
	record := func(s string) func(mock.Arguments) {
		return func(mock.Arguments) {
			mu.Lock()
			calls = append(calls, s)
			mu.Unlock()
		}
	}
	for _, m := range []string{"m1", "m2"} {
		ref := model.MeasurementRef{ProductID: "p", ProjectID: "pj", SampleID: "s", MeasurementID: m}
		b.On("DeleteMeasurementParameter", mock.Anything, ref, m+"-pot").Return(nil).Run(record("param:" + m))
		b.On("DeleteMeasurementParameter", mock.Anything, ref, m+"-ten").Return(nil).Run(record("param:" + m))
		b.On("DeleteMeasurement", mock.Anything, ref).Return(nil).Run(record("measurement:" + m))
	}
	b.On("DeleteSample", mock.Anything, "p", "pj", "s").Return(nil).Run(record("sample"))

	c, rec := newCoordinator(b)
	require.NoError(t, c.OpenProjectTab(ctx, "pj"))
	require.NoError(t, c.SelectSample("pj", "s"))

	require.NoError(t, c.DeleteSelectedSample(ctx))

	assert.Equal(t, []string{
		"param:m1", "param:m1", "measurement:m1",
		"param:m2", "param:m2", "measurement:m2",
		"sample",
	}, calls)

	st := c.Snapshot()
	_, selected := st.SelectedSample["pj"]
	assert.False(t, selected)
	notices := rec.all()
	require.Len(t, notices, 1)
	assert.Equal(t, console.Notice{Severity: console.Success, Message: "Sample deleted."}, notices[0])
}

func TestDeleteSampleStopsWhenCascadeFails(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	stubProject(b, "pj", "P-01", fixtureSamples())
	b.On("DeleteMeasurementParameter", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	b.On("DeleteMeasurement", mock.Anything, mock.Anything).Return(errors.New("boom"))

	c, rec := newCoordinator(b)
	require.NoError(t, c.OpenProjectTab(ctx, "pj"))
	require.NoError(t, c.SelectSample("pj", "s"))

	require.Error(t, c.DeleteSelectedSample(ctx))
	b.AssertNotCalled(t, "DeleteSample", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	_, selected := c.Snapshot().SelectedSample["pj"]
	assert.True(t, selected)
	assert.Equal(t, 1, rec.count(console.Failure))
	assert.Equal(t, 0, rec.count(console.Success))
}

func TestDeleteSampleNeedsSelection(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	stubProject(b, "pj", "P-01", fixtureSamples())
	c, rec := newCoordinator(b)

	assert.ErrorIs(t, c.DeleteSelectedSample(ctx), console.ErrNoProject)
	require.NoError(t, c.OpenProjectTab(ctx, "pj"))
	assert.ErrorIs(t, c.DeleteSelectedSample(ctx), console.ErrNoSample)
	assert.Equal(t, 2, rec.count(console.Failure))
}

func TestDeleteMeasurementShowsSuccessAndClosesDialog(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	stubProject(b, "pj", "P-01", fixtureSamples())
	b.On("DeleteMeasurementParameter", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	b.On("DeleteMeasurement", mock.Anything, mock.Anything).Return(nil)
	c, rec := newCoordinator(b)
	require.NoError(t, c.OpenProjectTab(ctx, "pj"))

	closeDialog, err := c.DeleteMeasurement(ctx, "m2")
	require.NoError(t, err)
	assert.True(t, closeDialog)
	b.AssertNumberOfCalls(t, "DeleteMeasurementParameter", 2)
	assert.Equal(t, []console.Notice{{Severity: console.Success, Message: "Measurement deleted."}}, rec.all())
}

func TestCreateActionsResolveCurrentProject(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	stubProject(b, "pj", "P-01", fixtureSamples())
	b.On("CreateSample", mock.Anything, "p", "pj", "A2").Return(model.Sample{ID: "s2", Code: "A2"}, nil)
	c, _ := newCoordinator(b)

	assert.ErrorIs(t, c.CreateSample(ctx, "A2"), console.ErrNoProject)
	assert.ErrorIs(t, c.CreateMeasurement(ctx, model.Goniophotometer), console.ErrNoProject)

	require.NoError(t, c.OpenProjectTab(ctx, "pj"))
	assert.ErrorIs(t, c.CreateMeasurement(ctx, model.Goniophotometer), console.ErrNoSample)
	require.NoError(t, c.CreateSample(ctx, "A2"))
	b.AssertCalled(t, "CreateSample", mock.Anything, "p", "pj", "A2")
	assert.False(t, c.Snapshot().Stale.Any())
}

func TestCreateMeasurementCreatesCatalog(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	stubProject(b, "pj", "P-01", fixtureSamples())
	b.On("GetProduct", mock.Anything, "p").Return(model.Product{ID: "p"}, nil)
	b.On("CreateMeasurement", mock.Anything, "p", "pj", "s", model.Goniophotometer).
		Return(model.Measurement{ID: "m3", Type: model.Goniophotometer}, nil)
	ref := model.MeasurementRef{ProductID: "p", ProjectID: "pj", SampleID: "s", MeasurementID: "m3"}
	b.On("CreateMeasurementParameter", mock.Anything, ref, mock.Anything).Return(model.Parameter{ID: "x"}, nil)

	c, rec := newCoordinator(b)
	require.NoError(t, c.OpenProjectTab(ctx, "pj"))
	require.NoError(t, c.SelectSample("pj", "s"))
	require.NoError(t, c.CreateMeasurement(ctx, model.Goniophotometer))

	b.AssertNumberOfCalls(t, "CreateMeasurementParameter", len(model.Catalog))
	for _, d := range model.Catalog {
		b.AssertCalled(t, "CreateMeasurementParameter", mock.Anything, ref,
			model.Parameter{Name: d.Key, Value: model.Unmeasured, Unit: d.Unit})
	}
	assert.Equal(t, []console.Notice{{Severity: console.Success, Message: "Measurement created."}}, rec.all())
}

func TestProductEditSubmitsAndReturnsToSpecTab(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	product := model.Product{ID: "p", Parameters: []model.Parameter{
		{ID: "pot", Name: "potencia", Value: model.Unmeasured, Unit: "W"},
		{ID: "flx", Name: "fluxo", Value: 800, Unit: "lm"},
	}}
	b.On("GetProduct", mock.Anything, "p").Return(product, nil)
	b.On("UpdateProductParameter", mock.Anything, "p", "flx", 812.5).
		Return(model.Parameter{ID: "flx", Name: "fluxo", Value: 812.5}, nil)
	stubProject(b, "pj", "P-01", nil)

	c, rec := newCoordinator(b)
	require.NoError(t, c.Load(ctx))
	require.NoError(t, c.OpenProjectTab(ctx, "pj"))

	require.NoError(t, c.ToggleProductEdit(ctx))
	assert.True(t, c.Snapshot().ProductEdit)
	rows := c.Snapshot().ProductRows
	assert.Equal(t, "-", rows[0].Value)
	assert.Equal(t, "800", rows[4].Value)
	rows[4].Value = "812,5"
	require.NoError(t, c.SetProductRows(rows))

	require.NoError(t, c.ToggleProductEdit(ctx))

	// the untouched sentinel row is not sent back
	b.AssertNumberOfCalls(t, "UpdateProductParameter", 1)
	b.AssertNumberOfCalls(t, "GetProduct", 2)
	st := c.Snapshot()
	assert.False(t, st.ProductEdit)
	assert.Equal(t, console.SpecTab, st.Active)
	assert.Equal(t, console.SpecTab, st.Pending)
	assert.Equal(t, 1, rec.count(console.Success))
	assert.ErrorIs(t, c.SetProductRows(rows), console.ErrNotEditing)
}

func TestLoadFailureMarksNotFound(t *testing.T) {
	b := &mocks.Backend{}
	b.On("GetProduct", mock.Anything, "p").Return(model.Product{}, &api.Error{Status: 404, Message: "Produto não encontrado"})
	c, rec := newCoordinator(b)

	require.Error(t, c.Load(context.Background()))
	assert.True(t, c.Snapshot().NotFound)
	assert.Equal(t, []console.Notice{{Severity: console.Failure, Message: "Produto não encontrado"}}, rec.all())
}

func TestStaleProjectResponseIsDropped(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	started := make(chan struct{})
	release := make(chan struct{})
	b.On("GetProject", mock.Anything, "p", "pj").Return(model.Project{ID: "pj", Number: "old"}, nil).Once().
		Run(func(mock.Arguments) {
			close(started)
			<-release
		})
	b.On("GetProject", mock.Anything, "p", "pj").Return(model.Project{ID: "pj", Number: "new"}, nil)
	b.On("ListSamples", mock.Anything, "p", "pj").Return([]model.Sample{}, nil)
	c, _ := newCoordinator(b)

	done := make(chan error)
	go func() { done <- c.OpenProjectTab(ctx, "pj") }()
	<-started
	require.NoError(t, c.OpenProjectTab(ctx, "pj"))
	close(release)
	require.NoError(t, <-done)

	st := c.Snapshot()
	require.Len(t, st.Tabs, 1)
	assert.Equal(t, "new", st.Tabs[0].Project.Number)
}

func TestLateResponseAfterCloseIsIgnored(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	started := make(chan struct{})
	release := make(chan struct{})
	b.On("GetProject", mock.Anything, "p", "pj").Return(model.Project{ID: "pj"}, nil).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		})
	b.On("ListSamples", mock.Anything, "p", "pj").Return([]model.Sample{}, nil)
	c, _ := newCoordinator(b)

	done := make(chan error)
	go func() { done <- c.OpenProjectTab(ctx, "pj") }()
	<-started
	c.Close()
	close(release)
	require.NoError(t, <-done)

	assert.Empty(t, c.Snapshot().Tabs)
}

func TestTabClosedWhileLoadingIsNotReopened(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	started := make(chan struct{})
	release := make(chan struct{})
	b.On("GetProject", mock.Anything, "p", "pj").Return(model.Project{ID: "pj"}, nil).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		})
	b.On("ListSamples", mock.Anything, "p", "pj").Return([]model.Sample{}, nil)
	c, _ := newCoordinator(b)

	done := make(chan error)
	go func() { done <- c.OpenProjectTab(ctx, "pj") }()
	<-started
	c.CloseProjectTab("pj")
	close(release)
	require.NoError(t, <-done)

	st := c.Snapshot()
	assert.Empty(t, st.Tabs)
	assert.Equal(t, console.ProjectsTab, st.Active)
}

func TestCurrentProjectResolution(t *testing.T) {
	s := console.State{Active: console.ProjectTabRef("a"), Pending: console.ProjectTabRef("b")}
	assert.Equal(t, "b", s.CurrentProject())

	s.Pending = console.SpecTab
	assert.Equal(t, "a", s.CurrentProject())

	s.Active = console.ProjectsTab
	assert.Empty(t, s.CurrentProject())
}

func TestTabRef(t *testing.T) {
	id, ok := console.ProjectTabRef("x").ProjectID()
	assert.True(t, ok)
	assert.Equal(t, "x", id)
	_, ok = console.SpecTab.ProjectID()
	assert.False(t, ok)
	assert.True(t, console.ProjectsTab.IsFixed())
	assert.False(t, console.ProjectTabRef("x").IsFixed())
	assert.Equal(t, "project:x", console.ProjectTabRef("x").String())
}

func TestSelectFixedTabActivatesWithoutFetch(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	c, _ := newCoordinator(b)

	require.NoError(t, c.SelectTab(ctx, console.ProjectsTab))
	st := c.Snapshot()
	assert.Equal(t, console.ProjectsTab, st.Active)
	assert.Equal(t, console.ProjectsTab, st.Pending)
	b.AssertNotCalled(t, "GetProject", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitProjectCreatesAndReloadsProduct(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	b.On("CreateProject", mock.Anything, "p", "P-07").Return(model.Project{ID: "new", Number: "P-07"}, nil)
	b.On("GetProduct", mock.Anything, "p").Return(model.Product{ID: "p"}, nil)
	c, rec := newCoordinator(b)

	require.NoError(t, c.SubmitProject(ctx, "", "P-07"))
	b.AssertCalled(t, "GetProduct", mock.Anything, "p")
	assert.Equal(t, 1, rec.count(console.Success))
	assert.Equal(t, console.ProjectsTab, c.Snapshot().Active)
}

func TestSubmitProjectFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	b.On("UpdateProject", mock.Anything, "p", "pj", "").Return(model.Project{}, &api.Error{Status: 400, Message: "Número obrigatório"})
	c, rec := newCoordinator(b)

	require.Error(t, c.SubmitProject(ctx, "pj", ""))
	notices := rec.all()
	require.Len(t, notices, 1)
	assert.Equal(t, console.Failure, notices[0].Severity)
	assert.Equal(t, "Número obrigatório", notices[0].Message)
	b.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
}

func TestDeleteProjectClosesItsTab(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	stubProject(b, "pj", "P-01", fixtureSamples())
	b.On("DeleteProject", mock.Anything, "p", "pj").Return(nil)
	b.On("GetProduct", mock.Anything, "p").Return(model.Product{ID: "p"}, nil)
	c, _ := newCoordinator(b)

	require.NoError(t, c.OpenProjectTab(ctx, "pj"))
	require.NoError(t, c.SelectSample("pj", "s"))
	require.NoError(t, c.DeleteProject(ctx, "pj"))

	st := c.Snapshot()
	assert.Empty(t, st.Tabs)
	assert.Empty(t, st.History)
	assert.NotContains(t, st.SelectedSample, "pj")
	assert.Equal(t, console.ProjectsTab, st.Active)
}

func TestSlowOpenDoesNotStealFocus(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	started := make(chan struct{})
	release := make(chan struct{})
	b.On("GetProject", mock.Anything, "p", "a").Return(model.Project{ID: "a", Number: "A"}, nil).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		})
	b.On("ListSamples", mock.Anything, "p", "a").Return([]model.Sample{}, nil)
	stubProject(b, "b", "B", nil)
	c, _ := newCoordinator(b)

	done := make(chan error)
	go func() { done <- c.OpenProjectTab(ctx, "a") }()
	<-started
	require.NoError(t, c.OpenProjectTab(ctx, "b"))
	close(release)
	require.NoError(t, <-done)

	st := c.Snapshot()
	assert.Equal(t, console.ProjectTabRef("b"), st.Active)
	assert.Equal(t, st.Pending, st.Active)
	assert.Equal(t, "b", st.CurrentProject())
	_, ok := st.Tab("a")
	assert.True(t, ok, "late tab is still installed")
	assert.Contains(t, st.History, "a")
}

func TestClosingOtherTabKeepsSelectedProjectWhileOpening(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	stubProject(b, "a", "A", nil)
	stubProject(b, "b", "B", nil)
	started := make(chan struct{})
	release := make(chan struct{})
	b.On("GetProject", mock.Anything, "p", "c").Return(model.Project{ID: "c", Number: "C"}, nil).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		})
	b.On("ListSamples", mock.Anything, "p", "c").Return([]model.Sample{}, nil)
	c, _ := newCoordinator(b)

	require.NoError(t, c.OpenProjectTab(ctx, "a"))
	require.NoError(t, c.SelectProjectRow(ctx, "b"))

	done := make(chan error)
	go func() { done <- c.OpenProjectTab(ctx, "c") }()
	<-started

	// Pending is c, which is not the history tail, but the active tab is
	// still the selected project.
	c.CloseProjectTab("a")
	st := c.Snapshot()
	assert.Equal(t, []string{"b"}, st.History)
	assert.Equal(t, console.ProjectTabRef("b"), st.Active)
	assert.Equal(t, console.ProjectTabRef("b"), st.Pending)
	assert.Equal(t, "b", st.SelectedProject)

	close(release)
	require.NoError(t, <-done)
	st = c.Snapshot()
	assert.Equal(t, console.ProjectTabRef("b"), st.Active)
	assert.Equal(t, []string{"b", "c"}, st.History)
}
