package console

// Severity of a Notice.
type Severity int

const (
	Success Severity = iota
	Failure
)

func (s Severity) String() string {
	if s == Failure {
		return "error"
	}
	return "success"
}

// Notice is a transient message for the user.
type Notice struct {
	Severity Severity
	Message  string
}

// Notifier receives notices. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discard struct{}

func (discard) Notify(Notice) {}

func success(n Notifier, msg string) { n.Notify(Notice{Severity: Success, Message: msg}) }
func failure(n Notifier, msg string) { n.Notify(Notice{Severity: Failure, Message: msg}) }
