package dashboard

import (
	"context"

	"github.com/rewired-gh/tradedash/internal/logger"
	"github.com/rewired-gh/tradedash/internal/models"
	"github.com/rewired-gh/tradedash/internal/render"
	"github.com/rewired-gh/tradedash/internal/store"
	"github.com/rewired-gh/tradedash/internal/view"
)

// Dashboard binds the store and the render engine to a loop. Only the
// loop goroutine touches either of them.
type Dashboard struct {
	loop   *Loop
	store  *store.Store
	engine *render.Engine
	hold   *holdDrawer
}

// New wires st to eng so that every applied delta triggers one render pass.
// drawer may be nil.
func New(loop *Loop, st *store.Store, doc *view.Document, drawer view.Drawer) *Dashboard {
	h := &holdDrawer{inner: drawer}
	d := &Dashboard{
		loop:   loop,
		store:  st,
		engine: render.New(doc, h),
		hold:   h,
	}
	st.Subscribe(func(s models.Snapshot) {
		if err := d.engine.RenderAll(s); err != nil {
			logger.Error("Render failed: %v", err)
		}
	})
	return d
}

// Loop returns the loop the dashboard runs on.
func (d *Dashboard) Loop() *Loop {
	return d.loop
}

// Apply queues a delta. Deltas are applied in the order Apply is called.
func (d *Dashboard) Apply(delta models.Delta) {
	if !d.loop.Post(func() { d.store.ApplyDelta(delta) }) {
		logger.Debug("Dropping delta %v: loop stopped", delta.Keys())
	}
}

// RenderDefaults queues a render pass of the current snapshot without
// applying anything. At startup that draws the built-in defaults.
func (d *Dashboard) RenderDefaults() {
	d.loop.Post(func() {
		if err := d.engine.RenderAll(d.store.Snapshot()); err != nil {
			logger.Error("Render failed: %v", err)
		}
	})
}

// SetPaused swaps the pause button between its pause and resume states.
// The snapshot is not involved.
func (d *Dashboard) SetPaused(paused bool) {
	d.loop.Post(func() {
		icon, label := view.PauseIcon, view.PauseLabel
		if paused {
			icon, label = view.ResumeIcon, view.ResumeLabel
		}
		d.engine.Document().SetButton(view.PauseButton, icon, label)
		if err := d.engine.Redraw(); err != nil {
			logger.Error("Redraw failed: %v", err)
		}
	})
}

// Snapshot returns a copy of the current snapshot.
func (d *Dashboard) Snapshot(ctx context.Context) (models.Snapshot, error) {
	var s models.Snapshot
	err := d.loop.Call(ctx, func() { s = d.store.Snapshot() })
	return s, err
}

// Summary returns the current document as plain text.
func (d *Dashboard) Summary(ctx context.Context) (string, error) {
	var text string
	err := d.loop.Call(ctx, func() { text = view.PlainText(d.engine.Document()) })
	return text, err
}

// Hold suspends drawing, for example while a prompt owns the terminal.
// Render passes still run and the document stays current.
func (d *Dashboard) Hold(ctx context.Context) error {
	return d.loop.Call(ctx, func() { d.hold.held = true })
}

// Release resumes drawing and redraws the current document.
func (d *Dashboard) Release() {
	d.loop.Post(func() {
		d.hold.held = false
		if err := d.engine.Redraw(); err != nil {
			logger.Error("Redraw failed: %v", err)
		}
	})
}

type holdDrawer struct {
	inner view.Drawer
	held  bool
}

func (h *holdDrawer) Draw(doc *view.Document) error {
	if h.held || h.inner == nil {
		return nil
	}
	return h.inner.Draw(doc)
}
