package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary of one file.
type PhaseEvent struct {
	Name    string
	Path    string
	Status  PhaseStatus
	Elapsed time.Duration
	// Failed is set on the PhaseEnd of a phase that aborted the file.
	Failed bool
}

// PhaseObserver receives phase events emitted during Tokenize.
// TokenizeDir calls it from several goroutines at once.
type PhaseObserver func(PhaseEvent)

func (o PhaseObserver) start(name, path string) {
	if o != nil {
		o(PhaseEvent{Name: name, Path: path, Status: PhaseStart})
	}
}

func (o PhaseObserver) end(name, path string, elapsed time.Duration, failed bool) {
	if o != nil {
		o(PhaseEvent{Name: name, Path: path, Status: PhaseEnd, Elapsed: elapsed, Failed: failed})
	}
}

// ChannelObserver forwards every event to ch. The sender blocks when ch
// is full.
func ChannelObserver(ch chan<- PhaseEvent) PhaseObserver {
	return func(ev PhaseEvent) { ch <- ev }
}
