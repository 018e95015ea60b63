// Package console drives the screens of the LumiSpec admin console. The
// Coordinator owns the view state of the product specification screen and
// the ProductList owns the product list; both talk to the backend through a
// store.Hub and report outcomes as Notices.
package console

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/piwi3910/lumispec/internal/api"
	"github.com/piwi3910/lumispec/internal/model"
	"github.com/piwi3910/lumispec/internal/store"
)

var (
	// ErrNoProduct is returned before the product has loaded.
	ErrNoProduct = errors.New("product not loaded")
	// ErrNoProject is returned when no project tab is current.
	ErrNoProject = errors.New("no project selected")
	// ErrNoSample is returned when the current project has no selected sample.
	ErrNoSample = errors.New("no sample selected")
	// ErrEditLocked is returned when another measurement is in edit mode.
	ErrEditLocked = errors.New("another measurement is being edited")
	// ErrNotEditing is returned when rows change outside edit mode.
	ErrNotEditing = errors.New("not in edit mode")
	// ErrUnknownMeasurement is returned for a measurement outside the open tabs.
	ErrUnknownMeasurement = errors.New("measurement not found in open tabs")
)

// Messages shown to the user.
const (
	msgParamsUpdated        = "Parameters updated."
	msgParamsUpdateFailed   = "Failed to update parameters."
	msgSampleCreated        = "Sample created."
	msgSampleCreateFailed   = "Failed to create sample."
	msgSampleDeleted        = "Sample deleted."
	msgSampleDeleteFailed   = "Failed to delete the sample."
	msgNoSample             = "No sample selected to delete."
	msgNoProject            = "Invalid product or project."
	msgMeasurementCreated   = "Measurement created."
	msgMeasurementNoParams  = "Measurement created, but parameter creation failed."
	msgMeasurementFailed    = "Failed to create measurement."
	msgMeasurementDeleted   = "Measurement deleted."
	msgMeasurementDelFailed = "Failed to delete the measurement or its parameters."
	msgProjectCreated       = "Project created."
	msgProjectUpdated       = "Project updated."
	msgProjectDeleted       = "Project deleted."
	msgProjectDeleteFailed  = "Failed to delete the project."
)

// Coordinator is the state machine behind the specification screen of one
// product. Every method is safe for concurrent use; network calls never run
// under the state lock.
type Coordinator struct {
	hub       *store.Hub
	productID string
	notifier  Notifier
	logger    *zap.Logger

	mu        sync.Mutex
	st        State
	gen       map[string]uint64
	busy      int
	closed    bool
	listeners []func()
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithNotifier sets where notices go.
func WithNotifier(n Notifier) Option {
	return func(c *Coordinator) {
		c.notifier = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) {
		c.logger = l
	}
}

// NewCoordinator creates the coordinator for productID. Call Load to fetch
// the product.
func NewCoordinator(hub *store.Hub, productID string, opts ...Option) *Coordinator {
	c := &Coordinator{
		hub:       hub,
		productID: productID,
		notifier:  discard{},
		logger:    zap.NewNop(),
		gen:       make(map[string]uint64),
		st: State{
			Active:          SpecTab,
			Pending:         SpecTab,
			SelectedSample:  make(map[string]model.Sample),
			MeasurementRows: make(map[string][]model.ParamRow),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProductID returns the product this coordinator manages.
func (c *Coordinator) ProductID() string { return c.productID }

// Snapshot returns a deep copy of the current state.
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.st.clone()
	s.Busy = c.busy > 0
	return s
}

// OnChange registers fn to run after every state change. fn runs on the
// goroutine that made the change.
func (c *Coordinator) OnChange(fn func()) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Close detaches the coordinator from its view. Responses that arrive
// afterwards are discarded.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	c.listeners = nil
	c.mu.Unlock()
}

// update applies fn under the lock and notifies listeners. It reports false
// when the coordinator is closed.
func (c *Coordinator) update(fn func(s *State)) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	fn(&c.st)
	c.st.repairActive()
	listeners := append([]func(){}, c.listeners...)
	c.mu.Unlock()
	for _, l := range listeners {
		l()
	}
	return true
}

func (c *Coordinator) read() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.clone()
}

func (c *Coordinator) setBusy(delta int) {
	c.update(func(*State) { c.busy += delta })
}

// Load fetches the product and lays out its parameter rows.
func (c *Coordinator) Load(ctx context.Context) error {
	c.setBusy(1)
	defer c.setBusy(-1)
	return c.loadProduct(ctx)
}

func (c *Coordinator) loadProduct(ctx context.Context) error {
	p, err := c.hub.ShowProduct(ctx, c.productID)
	if err != nil {
		c.update(func(s *State) {
			if s.Product == nil {
				s.NotFound = true
			}
		})
		failure(c.notifier, api.Message(err))
		return fmt.Errorf("loading product %s: %w", c.productID, err)
	}
	c.update(func(s *State) {
		s.Product = &p
		s.NotFound = false
		if !s.ProductEdit {
			s.ProductRows = model.BuildRows(p.Parameters)
		}
	})
	return nil
}

// SelectTab handles a click on a tab header.
func (c *Coordinator) SelectTab(ctx context.Context, ref TabRef) error {
	if id, ok := ref.ProjectID(); ok {
		return c.OpenProjectTab(ctx, id)
	}
	c.update(func(s *State) {
		s.Pending = ref
		s.Active = ref
	})
	return nil
}

// SelectProjectRow handles a click on a row of the Projects tab.
func (c *Coordinator) SelectProjectRow(ctx context.Context, projectID string) error {
	c.update(func(s *State) { s.SelectedProject = projectID })
	return c.OpenProjectTab(ctx, projectID)
}

// OpenProjectTab fetches a project with its samples and shows it in its own
// tab, replacing the tab if it is already open.
func (c *Coordinator) OpenProjectTab(ctx context.Context, projectID string) error {
	c.update(func(s *State) { s.Pending = ProjectTabRef(projectID) })
	return c.refreshTab(ctx, projectID)
}

// refreshTab re-fetches project id and installs it as the active tab. Only
// the newest fetch per project is applied.
func (c *Coordinator) refreshTab(ctx context.Context, projectID string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.gen[projectID]++
	gen := c.gen[projectID]
	c.mu.Unlock()

	c.setBusy(1)
	defer c.setBusy(-1)

	project, err := c.hub.ShowProject(ctx, c.productID, projectID)
	var samples []model.Sample
	if err == nil {
		samples, err = c.hub.ListSamples(ctx, c.productID, projectID)
	}

	if err != nil {
		c.mu.Lock()
		stale := c.closed || c.gen[projectID] != gen
		c.mu.Unlock()
		if stale {
			c.dropped(projectID, gen)
			return nil
		}
		failure(c.notifier, api.Message(err))
		return fmt.Errorf("opening project %s: %w", projectID, err)
	}
	if project.ID == "" {
		project.ID = projectID
	}

	applied := false
	c.update(func(s *State) {
		if c.gen[projectID] != gen {
			return
		}
		applied = true
		s.upsertTab(ProjectTab{Project: project, Samples: samples})
		// A response for a tab the user has since left must not take focus.
		if s.Pending == ProjectTabRef(projectID) {
			s.History = history(s.History).touch(projectID)
			s.Active = ProjectTabRef(projectID)
		} else if !history(s.History).contains(projectID) {
			s.History = history(s.History).touch(projectID)
		}
		s.syncSelection(projectID)
		s.rebuildRows()
	})
	if !applied {
		c.dropped(projectID, gen)
	}
	return nil
}

func (c *Coordinator) dropped(projectID string, gen uint64) {
	c.logger.Debug("dropping stale project response",
		zap.String("project", projectID),
		zap.Uint64("generation", gen))
}

// CloseProjectTab removes a project tab and picks the tab to show next.
func (c *Coordinator) CloseProjectTab(projectID string) {
	c.mu.Lock()
	c.gen[projectID]++
	c.mu.Unlock()

	c.update(func(s *State) {
		prevTail := history(s.History).tail()
		s.removeTab(projectID)
		s.History = history(s.History).without(projectID)

		if len(s.History) == 0 {
			s.SelectedProject = ""
			s.Active = ProjectsTab
			s.Pending = ProjectsTab
		} else {
			tail := history(s.History).tail()
			followTail := s.Pending == ProjectTabRef(prevTail) ||
				(s.SelectedProject != "" && s.Active == ProjectTabRef(s.SelectedProject))
			if followTail {
				s.SelectedProject = tail
				s.Active = ProjectTabRef(tail)
				s.Pending = ProjectTabRef(tail)
			} else {
				s.Active = ProjectsTab
				s.Pending = ProjectsTab
			}
		}
		s.rebuildRows()
	})
}

// SelectSample marks a sample of an open project as selected.
func (c *Coordinator) SelectSample(projectID, sampleID string) error {
	var err error
	c.update(func(s *State) {
		tab, ok := s.Tab(projectID)
		if !ok {
			err = ErrNoProject
			return
		}
		for _, smp := range tab.Samples {
			if smp.ID == sampleID {
				s.SelectedSample[projectID] = smp
				return
			}
		}
		err = ErrNoSample
	})
	return err
}

// ToggleProductEdit enters or leaves inline editing of the product
// parameters. Leaving submits every edited row that parses, re-fetches the
// product and returns to the specification tab.
func (c *Coordinator) ToggleProductEdit(ctx context.Context) error {
	var (
		leaving bool
		rows    []model.ParamRow
		product *model.Product
	)
	c.update(func(s *State) {
		leaving = s.ProductEdit
		s.ProductEdit = !s.ProductEdit
		rows = model.CopyRows(s.ProductRows)
		product = s.Product
	})
	if !leaving {
		return nil
	}
	if product == nil {
		return ErrNoProduct
	}

	c.setBusy(1)
	defer c.setBusy(-1)

	updates := model.BuildUpdates(rows, product.Parameters)
	res := c.hub.UpdateProductParameters(ctx, product.ID, updates)
	if res.OK() {
		success(c.notifier, msgParamsUpdated)
	} else {
		failure(c.notifier, msgParamsUpdateFailed)
	}

	loadErr := c.loadProduct(ctx)
	c.update(func(s *State) {
		s.Active = SpecTab
		s.Pending = SpecTab
	})
	if res.Err != nil {
		return fmt.Errorf("updating product parameters: %w", res.Err)
	}
	return loadErr
}

// SetProductRows stores the rows typed into the specification table.
func (c *Coordinator) SetProductRows(rows []model.ParamRow) error {
	var err error
	c.update(func(s *State) {
		if !s.ProductEdit {
			err = ErrNotEditing
			return
		}
		s.ProductRows = model.CopyRows(rows)
	})
	return err
}

// ToggleMeasurementEdit enters or leaves inline editing of one measurement.
// Only one measurement can be in edit mode at a time.
func (c *Coordinator) ToggleMeasurementEdit(ctx context.Context, measurementID string) error {
	var (
		leaving bool
		rows    []model.ParamRow
		meas    model.Measurement
		project string
		err     error
	)
	c.update(func(s *State) {
		switch s.EditingMeasurement {
		case "":
			if _, _, ok := s.locate(measurementID); !ok {
				err = ErrUnknownMeasurement
				return
			}
			s.EditingMeasurement = measurementID
		case measurementID:
			leaving = true
			rows = model.CopyRows(s.MeasurementRows[measurementID])
			meas, project, _ = s.locate(measurementID)
			s.EditingMeasurement = ""
		default:
			err = ErrEditLocked
		}
	})
	if err != nil || !leaving {
		return err
	}

	updates := model.BuildUpdates(rows, meas.Parameters)
	if len(updates) > 0 {
		ref := model.MeasurementRef{
			ProductID:     c.productID,
			ProjectID:     project,
			SampleID:      meas.SampleID,
			MeasurementID: measurementID,
		}
		res := c.hub.UpdateMeasurementParameters(ctx, ref, updates)
		if res.OK() {
			success(c.notifier, msgParamsUpdated)
		} else {
			failure(c.notifier, msgParamsUpdateFailed)
			err = fmt.Errorf("updating measurement parameters: %w", res.Err)
		}
	}

	c.update(func(s *State) { s.Stale.MeasurementChanged = true })
	if rerr := c.reconcile(ctx); err == nil {
		err = rerr
	}
	return err
}

// SetMeasurementRows stores the rows typed into a measurement table.
func (c *Coordinator) SetMeasurementRows(measurementID string, rows []model.ParamRow) error {
	var err error
	c.update(func(s *State) {
		if s.EditingMeasurement != measurementID {
			err = ErrNotEditing
			return
		}
		s.MeasurementRows[measurementID] = model.CopyRows(rows)
	})
	return err
}

// ImportMeasurementRows fills the value cells of the measurement being
// edited from readings keyed by catalog key. It returns how many rows
// changed.
func (c *Coordinator) ImportMeasurementRows(measurementID string, readings map[string]string) (int, error) {
	var (
		n   int
		err error
	)
	c.update(func(s *State) {
		if s.EditingMeasurement != measurementID {
			err = ErrNotEditing
			return
		}
		rows := model.CopyRows(s.MeasurementRows[measurementID])
		n = applyReadings(rows, readings)
		s.MeasurementRows[measurementID] = rows
	})
	return n, err
}

// ImportProductRows is ImportMeasurementRows for the product parameters.
func (c *Coordinator) ImportProductRows(readings map[string]string) (int, error) {
	var (
		n   int
		err error
	)
	c.update(func(s *State) {
		if !s.ProductEdit {
			err = ErrNotEditing
			return
		}
		rows := model.CopyRows(s.ProductRows)
		n = applyReadings(rows, readings)
		s.ProductRows = rows
	})
	return n, err
}

func applyReadings(rows []model.ParamRow, readings map[string]string) int {
	n := 0
	for key, value := range readings {
		def, ok := model.CatalogByKey(key)
		if !ok {
			continue
		}
		for i := range rows {
			if rows[i].Key == def.Key && rows[i].Value != value {
				rows[i].Value = value
				n++
			}
		}
	}
	return n
}

// DeleteSelectedSample deletes the sample selected in the current project,
// removing its measurements first.
func (c *Coordinator) DeleteSelectedSample(ctx context.Context) error {
	st := c.read()
	projectID := st.CurrentProject()
	if projectID == "" {
		failure(c.notifier, msgNoProject)
		return ErrNoProject
	}
	sample, ok := st.SelectedSample[projectID]
	if !ok {
		failure(c.notifier, msgNoSample)
		return ErrNoSample
	}
	if tab, ok := st.Tab(projectID); ok {
		for _, smp := range tab.Samples {
			if smp.ID == sample.ID {
				sample = smp
			}
		}
	}

	c.setBusy(1)
	defer c.setBusy(-1)

	for _, m := range sample.Measurements {
		ref := model.MeasurementRef{
			ProductID:     c.productID,
			ProjectID:     projectID,
			SampleID:      sample.ID,
			MeasurementID: m.ID,
		}
		if err := c.deleteMeasurement(ctx, ref, m, true); err != nil {
			c.update(func(s *State) { s.Stale.SamplesChanged = true })
			_ = c.reconcile(ctx)
			return err
		}
	}

	if err := c.hub.DeleteSample(ctx, c.productID, projectID, sample.ID); err != nil {
		failure(c.notifier, msgSampleDeleteFailed)
		c.update(func(s *State) { s.Stale.SamplesChanged = true })
		_ = c.reconcile(ctx)
		return fmt.Errorf("deleting sample %s: %w", sample.ID, err)
	}
	success(c.notifier, msgSampleDeleted)

	c.update(func(s *State) {
		delete(s.SelectedSample, projectID)
		s.Stale.SamplesChanged = true
	})
	return c.reconcile(ctx)
}

// DeleteMeasurement deletes a measurement and its catalog parameters. It
// reports whether the confirmation dialog should close.
func (c *Coordinator) DeleteMeasurement(ctx context.Context, measurementID string) (bool, error) {
	st := c.read()
	m, projectID, ok := st.locate(measurementID)
	if !ok {
		failure(c.notifier, msgMeasurementDelFailed)
		return true, ErrUnknownMeasurement
	}
	ref := model.MeasurementRef{
		ProductID:     c.productID,
		ProjectID:     projectID,
		SampleID:      m.SampleID,
		MeasurementID: measurementID,
	}

	c.setBusy(1)
	defer c.setBusy(-1)

	err := c.deleteMeasurement(ctx, ref, m, false)
	c.update(func(s *State) {
		if err == nil && s.EditingMeasurement == measurementID {
			s.EditingMeasurement = ""
		}
		s.Stale.MeasurementChanged = true
	})
	if rerr := c.reconcile(ctx); err == nil {
		err = rerr
	}
	return true, err
}

// deleteMeasurement removes the matched parameters, then the measurement.
// In a cascade the success notice is left to the caller.
func (c *Coordinator) deleteMeasurement(ctx context.Context, ref model.MeasurementRef, m model.Measurement, cascade bool) error {
	if ids := model.MatchedParameterIDs(m.Parameters); len(ids) > 0 {
		if res := c.hub.DeleteMeasurementParameters(ctx, ref, ids); !res.OK() {
			failure(c.notifier, msgMeasurementDelFailed)
			return fmt.Errorf("deleting parameters of measurement %s: %w", ref.MeasurementID, res.Err)
		}
	}
	if err := c.hub.DeleteMeasurement(ctx, ref); err != nil {
		failure(c.notifier, msgMeasurementDelFailed)
		return fmt.Errorf("deleting measurement %s: %w", ref.MeasurementID, err)
	}
	if !cascade {
		success(c.notifier, msgMeasurementDeleted)
	}
	return nil
}

// CreateSample adds a sample to the current project.
func (c *Coordinator) CreateSample(ctx context.Context, code string) error {
	st := c.read()
	projectID := st.CurrentProject()
	if projectID == "" {
		failure(c.notifier, msgNoProject)
		return ErrNoProject
	}

	_, err := c.hub.CreateSample(ctx, c.productID, projectID, code)
	if err != nil {
		msg := api.Message(err)
		if msg == "" {
			msg = msgSampleCreateFailed
		}
		failure(c.notifier, msg)
		err = fmt.Errorf("creating sample: %w", err)
	} else {
		success(c.notifier, msgSampleCreated)
	}

	c.update(func(s *State) {
		s.Stale.SamplesChanged = true
		s.Stale.SampleCreated = true
	})
	if rerr := c.reconcile(ctx); err == nil {
		err = rerr
	}
	return err
}

// CreateMeasurement adds a measurement of type t to the sample selected in
// the current project, with the full parameter catalog unmeasured.
func (c *Coordinator) CreateMeasurement(ctx context.Context, t model.MeasurementType) error {
	st := c.read()
	projectID := st.CurrentProject()
	if projectID == "" {
		failure(c.notifier, msgNoProject)
		return ErrNoProject
	}
	sample, ok := st.SelectedSample[projectID]
	if !ok {
		failure(c.notifier, msgNoSample)
		return ErrNoSample
	}

	c.setBusy(1)
	defer c.setBusy(-1)

	m, err := c.hub.CreateMeasurement(ctx, c.productID, projectID, sample.ID, t)
	if err != nil {
		msg := api.Message(err)
		if msg == "" {
			msg = msgMeasurementFailed
		}
		failure(c.notifier, msg)
		err = fmt.Errorf("creating measurement: %w", err)
	} else {
		ref := model.MeasurementRef{
			ProductID:     c.productID,
			ProjectID:     projectID,
			SampleID:      sample.ID,
			MeasurementID: m.ID,
		}
		if res := c.hub.CreateMeasurementParameters(ctx, ref); !res.OK() {
			failure(c.notifier, msgMeasurementNoParams)
			err = fmt.Errorf("creating measurement parameters: %w", res.Err)
		} else {
			success(c.notifier, msgMeasurementCreated)
		}
	}

	c.update(func(s *State) { s.Stale.MeasurementChanged = true })
	_ = c.loadProduct(ctx)
	if rerr := c.reconcile(ctx); err == nil {
		err = rerr
	}
	return err
}

// SubmitProject creates a project, or renames projectID when it is set.
func (c *Coordinator) SubmitProject(ctx context.Context, projectID, number string) error {
	c.setBusy(1)
	defer c.setBusy(-1)

	var err error
	if projectID == "" {
		_, err = c.hub.CreateProject(ctx, c.productID, number)
	} else {
		_, err = c.hub.UpdateProject(ctx, c.productID, projectID, number)
	}
	if err != nil {
		failure(c.notifier, api.Message(err))
		return fmt.Errorf("saving project: %w", err)
	}
	if projectID == "" {
		success(c.notifier, msgProjectCreated)
	} else {
		success(c.notifier, msgProjectUpdated)
	}

	if st := c.read(); projectID != "" && st.hasTab(projectID) {
		_ = c.refreshTab(ctx, projectID)
	}
	loadErr := c.loadProduct(ctx)
	c.update(func(s *State) {
		s.Active = ProjectsTab
		s.Pending = ProjectsTab
	})
	return loadErr
}

// DeleteProject deletes a project and closes its tab.
func (c *Coordinator) DeleteProject(ctx context.Context, projectID string) error {
	c.setBusy(1)
	defer c.setBusy(-1)

	err := c.hub.DeleteProject(ctx, c.productID, projectID)
	if err != nil {
		failure(c.notifier, msgProjectDeleteFailed)
		err = fmt.Errorf("deleting project %s: %w", projectID, err)
	} else {
		success(c.notifier, msgProjectDeleted)
		if st := c.read(); st.hasTab(projectID) {
			c.CloseProjectTab(projectID)
		}
		c.update(func(s *State) { delete(s.SelectedSample, projectID) })
	}

	loadErr := c.loadProduct(ctx)
	c.update(func(s *State) {
		s.Active = ProjectsTab
		s.Pending = ProjectsTab
	})
	if err != nil {
		return err
	}
	return loadErr
}

// reconcile rebuilds the current project tab when a mutation left it stale.
func (c *Coordinator) reconcile(ctx context.Context) error {
	st := c.read()
	if !st.Stale.Any() {
		return nil
	}
	projectID := st.CurrentProject()
	if projectID == "" {
		return nil
	}
	err := c.refreshTab(ctx, projectID)
	c.update(func(s *State) { s.Stale = Staleness{} })
	return err
}
