package ws

type StatusKind int

const (
	StatusConnecting StatusKind = iota
	StatusOpened
	StatusClosed
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusConnecting:
		return "Connecting"
	case StatusOpened:
		return "Opened"
	case StatusClosed:
		return "Closed"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Status is a connection status notification. Err is set only for StatusError.
type Status struct {
	Kind StatusKind
	Err  error
}

var (
	Connecting = Status{Kind: StatusConnecting}
	Opened     = Status{Kind: StatusOpened}
	Closed     = Status{Kind: StatusClosed}
)

func Failed(err error) Status {
	return Status{Kind: StatusError, Err: err}
}

func (s Status) String() string {
	return s.Kind.String()
}

// IsTerminal reports whether no further status can follow s on the same task.
func (s Status) IsTerminal() bool {
	return s.Kind == StatusClosed || s.Kind == StatusError
}

// canTransition reports whether a task in status from may move to to.
func canTransition(from, to StatusKind) bool {
	switch from {
	case StatusConnecting:
		return to == StatusOpened || to == StatusError
	case StatusOpened:
		return to == StatusClosed || to == StatusError
	default:
		return false
	}
}
