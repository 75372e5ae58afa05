package markbar

import "sync/atomic"

// Host is the environment a Bar paints into.
//
// RequestRepaint is a fire-and-forget signal. It is only sent when
// OwnsRenderContext reports true for the calling context; requests made
// from anywhere else are dropped and the change shows up on the next
// repaint the owning context triggers.
type Host interface {
	RequestRepaint()
	OwnsRenderContext() bool
}

// HostFuncs adapts plain functions to Host.
// A nil Owner means every context owns rendering.
type HostFuncs struct {
	Repaint func()
	Owner   func() bool
}

// RequestRepaint implements Host.
func (h HostFuncs) RequestRepaint() {
	if h.Repaint != nil {
		h.Repaint()
	}
}

// OwnsRenderContext implements Host.
func (h HostFuncs) OwnsRenderContext() bool {
	if h.Owner == nil {
		return true
	}
	return h.Owner()
}

// DirtyFlag is a Host that coalesces repaint requests into a single flag
// the render loop checks once per frame.
type DirtyFlag struct {
	dirty atomic.Bool
}

// RequestRepaint implements Host.
func (d *DirtyFlag) RequestRepaint() {
	d.dirty.Store(true)
}

// OwnsRenderContext implements Host. A dirty flag accepts requests from any context.
func (d *DirtyFlag) OwnsRenderContext() bool {
	return true
}

// IsDirty reports whether a repaint is pending without clearing it.
func (d *DirtyFlag) IsDirty() bool {
	return d.dirty.Load()
}

// TakeDirty reports whether a repaint is pending and clears the flag.
func (d *DirtyFlag) TakeDirty() bool {
	return d.dirty.Swap(false)
}
