package console

type tabKind int

const (
	specKind tabKind = iota + 1
	projectsKind
	projectKind
)

// TabRef identifies a tab of the specification screen: one of the two fixed
// tabs or the tab of an open project.
type TabRef struct {
	kind      tabKind
	projectID string
}

var (
	// SpecTab is the fixed tab holding the product's own parameters.
	SpecTab = TabRef{kind: specKind}
	// ProjectsTab is the fixed tab listing the product's projects.
	ProjectsTab = TabRef{kind: projectsKind}
)

// ProjectTabRef refers to the tab of project id.
func ProjectTabRef(id string) TabRef {
	return TabRef{kind: projectKind, projectID: id}
}

// ProjectID returns the project of a project tab.
func (r TabRef) ProjectID() (string, bool) {
	if r.kind != projectKind {
		return "", false
	}
	return r.projectID, true
}

// IsFixed reports whether r is SpecTab or ProjectsTab.
func (r TabRef) IsFixed() bool {
	return r.kind == specKind || r.kind == projectsKind
}

func (r TabRef) String() string {
	switch r.kind {
	case specKind:
		return "spec"
	case projectsKind:
		return "projects"
	case projectKind:
		return "project:" + r.projectID
	default:
		return "none"
	}
}

// history is the ordered set of open project tab ids, most recent last.
type history []string

func (h history) tail() string {
	if len(h) == 0 {
		return ""
	}
	return h[len(h)-1]
}

func (h history) without(id string) history {
	out := make(history, 0, len(h))
	for _, v := range h {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (h history) contains(id string) bool {
	for _, v := range h {
		if v == id {
			return true
		}
	}
	return false
}

// touch moves id to the end, adding it if absent.
func (h history) touch(id string) history {
	return append(h.without(id), id)
}
