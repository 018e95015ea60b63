package console

import (
	"github.com/piwi3910/lumispec/internal/model"
)

// ProjectTab is the content of an open project tab.
type ProjectTab struct {
	Project model.Project
	Samples []model.Sample
}

// Staleness records which lists changed since a tab was last built.
type Staleness struct {
	SamplesChanged     bool
	SampleCreated      bool
	MeasurementChanged bool
}

// Any reports whether a re-fetch is due.
func (s Staleness) Any() bool {
	return s.SamplesChanged || s.SampleCreated || s.MeasurementChanged
}

// State is the view state of the specification screen for one product.
type State struct {
	Product  *model.Product
	NotFound bool
	Busy     bool

	Active  TabRef
	Pending TabRef
	History []string
	Tabs    []ProjectTab

	// SelectedProject is the project row most recently clicked.
	SelectedProject string
	SelectedSample  map[string]model.Sample

	// EditingMeasurement is the single measurement in edit mode, "" if none.
	EditingMeasurement string
	ProductEdit        bool

	ProductRows     []model.ParamRow
	MeasurementRows map[string][]model.ParamRow

	Stale Staleness
}

// CurrentProject resolves the project the sample and measurement actions
// apply to: the pending tab if it is a project tab, else the active tab.
func (s *State) CurrentProject() string {
	if id, ok := s.Pending.ProjectID(); ok {
		return id
	}
	if id, ok := s.Active.ProjectID(); ok {
		return id
	}
	return ""
}

// Tab returns the open tab of project id.
func (s *State) Tab(id string) (ProjectTab, bool) {
	for _, t := range s.Tabs {
		if t.Project.ID == id {
			return t, true
		}
	}
	return ProjectTab{}, false
}

// Measurements returns the measurements of the sample selected in project
// id, in backend order.
func (s *State) Measurements(projectID string) []model.Measurement {
	smp, ok := s.SelectedSample[projectID]
	if !ok {
		return nil
	}
	return smp.Measurements
}

// CanEditMeasurement reports whether the edit control of measurement id is
// enabled: either nothing is being edited or id itself is.
func (s *State) CanEditMeasurement(id string) bool {
	return s.EditingMeasurement == "" || s.EditingMeasurement == id
}

// locate finds a measurement among the open tabs.
func (s *State) locate(measurementID string) (model.Measurement, string, bool) {
	for _, t := range s.Tabs {
		for _, smp := range t.Samples {
			for _, m := range smp.Measurements {
				if m.ID == measurementID {
					if m.SampleID == "" {
						m.SampleID = smp.ID
					}
					return m, t.Project.ID, true
				}
			}
		}
	}
	return model.Measurement{}, "", false
}

func (s *State) hasTab(id string) bool {
	_, ok := s.Tab(id)
	return ok
}

func (s *State) upsertTab(tab ProjectTab) {
	for i := range s.Tabs {
		if s.Tabs[i].Project.ID == tab.Project.ID {
			s.Tabs[i] = tab
			return
		}
	}
	s.Tabs = append(s.Tabs, tab)
}

func (s *State) removeTab(id string) {
	kept := s.Tabs[:0]
	for _, t := range s.Tabs {
		if t.Project.ID != id {
			kept = append(kept, t)
		}
	}
	s.Tabs = kept
}

// syncSelection refreshes the selected sample of project id from its tab,
// dropping the selection when the sample is gone.
func (s *State) syncSelection(id string) {
	sel, ok := s.SelectedSample[id]
	if !ok {
		return
	}
	tab, ok := s.Tab(id)
	if !ok {
		return
	}
	for _, smp := range tab.Samples {
		if smp.ID == sel.ID {
			s.SelectedSample[id] = smp
			return
		}
	}
	delete(s.SelectedSample, id)
}

// rebuildRows lays out the rows of every measurement in the open tabs. The
// rows of the measurement being edited are kept as typed.
func (s *State) rebuildRows() {
	rows := make(map[string][]model.ParamRow)
	editingFound := false
	for _, t := range s.Tabs {
		for _, smp := range t.Samples {
			for _, m := range smp.Measurements {
				if m.ID == s.EditingMeasurement {
					editingFound = true
					if prev, ok := s.MeasurementRows[m.ID]; ok {
						rows[m.ID] = prev
						continue
					}
				}
				rows[m.ID] = model.BuildRows(m.Parameters)
			}
		}
	}
	s.MeasurementRows = rows
	if !editingFound {
		s.EditingMeasurement = ""
	}
}

// repairActive falls back to the most recent open tab, then to the Projects
// tab, when the active tab no longer exists.
func (s *State) repairActive() {
	id, ok := s.Active.ProjectID()
	if !ok || s.hasTab(id) {
		return
	}
	h := history(s.History)
	for i := len(h) - 1; i >= 0; i-- {
		if s.hasTab(h[i]) {
			s.Active = ProjectTabRef(h[i])
			return
		}
	}
	s.Active = ProjectsTab
}

func (s State) clone() State {
	out := s
	if s.Product != nil {
		p := cloneProduct(*s.Product)
		out.Product = &p
	}
	out.History = append([]string(nil), s.History...)
	out.Tabs = make([]ProjectTab, len(s.Tabs))
	for i, t := range s.Tabs {
		out.Tabs[i] = ProjectTab{Project: cloneProject(t.Project), Samples: cloneSamples(t.Samples)}
	}
	out.SelectedSample = make(map[string]model.Sample, len(s.SelectedSample))
	for k, v := range s.SelectedSample {
		out.SelectedSample[k] = cloneSample(v)
	}
	out.ProductRows = model.CopyRows(s.ProductRows)
	out.MeasurementRows = make(map[string][]model.ParamRow, len(s.MeasurementRows))
	for k, v := range s.MeasurementRows {
		out.MeasurementRows[k] = model.CopyRows(v)
	}
	return out
}

func cloneParams(ps []model.Parameter) []model.Parameter {
	return append([]model.Parameter(nil), ps...)
}

func cloneSample(s model.Sample) model.Sample {
	ms := make([]model.Measurement, len(s.Measurements))
	for i, m := range s.Measurements {
		m.Parameters = cloneParams(m.Parameters)
		ms[i] = m
	}
	s.Measurements = ms
	return s
}

func cloneSamples(ss []model.Sample) []model.Sample {
	out := make([]model.Sample, len(ss))
	for i, s := range ss {
		out[i] = cloneSample(s)
	}
	return out
}

func cloneProject(p model.Project) model.Project {
	p.Samples = cloneSamples(p.Samples)
	return p
}

func cloneProduct(p model.Product) model.Product {
	p.Parameters = cloneParams(p.Parameters)
	projects := make([]model.Project, len(p.Projects))
	for i, pj := range p.Projects {
		projects[i] = cloneProject(pj)
	}
	p.Projects = projects
	return p
}
