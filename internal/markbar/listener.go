package markbar

// DeleteListener observes the delete-back protocol.
//
// OnConfirm fires when a confirm-mode delete enters its preview phase.
// OnDelete fires when a deletion is committed, either immediately in
// non-confirm mode or on the second confirm-mode call. In both callbacks
// lastProgress is the position being rewound to and progress is the value
// before the rewind.
type DeleteListener interface {
	OnConfirm(lastProgress, progress int)
	OnDelete(lastProgress, progress int)
}

// ListenerFuncs adapts a pair of optional functions to DeleteListener.
// A nil field ignores that callback.
type ListenerFuncs struct {
	Confirm func(lastProgress, progress int)
	Delete  func(lastProgress, progress int)
}

// OnConfirm implements DeleteListener.
func (f ListenerFuncs) OnConfirm(lastProgress, progress int) {
	if f.Confirm != nil {
		f.Confirm(lastProgress, progress)
	}
}

// OnDelete implements DeleteListener.
func (f ListenerFuncs) OnDelete(lastProgress, progress int) {
	if f.Delete != nil {
		f.Delete(lastProgress, progress)
	}
}

type eventKind int

const (
	eventConfirm eventKind = iota
	eventDelete
)

// notification is a listener call captured inside a critical section and
// delivered once the bar's lock is released.
type notification struct {
	kind         eventKind
	listener     DeleteListener
	lastProgress int
	progress     int
}

func (n notification) deliver() {
	switch n.kind {
	case eventConfirm:
		n.listener.OnConfirm(n.lastProgress, n.progress)
	case eventDelete:
		n.listener.OnDelete(n.lastProgress, n.progress)
	}
}
