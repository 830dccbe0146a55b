package ar

import (
	"context"

	"ar-storefront-be/internal/pkg/logger"
)

// Reticle marks where the next placement would land. Pose is nil whenever the
// reticle is hidden so a stale pose can never be read back.
type Reticle struct {
	Visible bool  `json:"visible"`
	Pose    *Pose `json:"pose,omitempty"`
}

func (r *Reticle) show(p Pose) {
	r.Visible = true
	r.Pose = &p
}

func (r *Reticle) hide() {
	r.Visible = false
	r.Pose = nil
}

type Options struct {
	Mode PlacementMode
	// OnPlacement runs after a placement is committed.
	OnPlacement func(Placement)
	// Assets and AssetRef are optional; without them no scene objects are built.
	Assets   AssetLoader
	AssetRef string
	Logger   logger.ILogger
}

// Widget is the AR preview: session, reticle, placements and scene.
//
// A Widget is not safe for concurrent use. Drive it from the goroutine that owns
// the render loop (or the connection feeding it platform data).
type Widget struct {
	logger      logger.ILogger
	session     *SessionManager
	reticle     Reticle
	placements  placementSet
	scene       *Scene
	onPlacement func(Placement)
}

func NewWidget(platform Platform, opts Options) *Widget {
	log := opts.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	w := &Widget{
		logger:      log,
		session:     NewSessionManager(platform, log),
		placements:  placementSet{mode: opts.Mode},
		onPlacement: opts.OnPlacement,
	}
	if opts.Assets != nil {
		w.scene = NewScene(opts.Assets, opts.AssetRef, log)
	}
	w.session.onEnd = w.clear
	return w
}

// RequestSession starts the immersive session and, once it is active, loads the
// 3D asset. Asset failures are logged by the scene and do not fail the session.
func (w *Widget) RequestSession(ctx context.Context) error {
	if err := w.session.RequestSession(ctx); err != nil {
		return err
	}
	if w.scene != nil {
		_ = w.scene.Load(ctx)
	}
	return nil
}

// EndSession is idempotent.
func (w *Widget) EndSession() {
	w.session.EndSession()
}

// OnFrame runs the hit-test for one rendered frame.
func (w *Widget) OnFrame(frame Frame) {
	source := w.session.HitTestSource()
	if source == nil || frame == nil {
		return
	}

	results := frame.HitTestResults(source)
	if len(results) == 0 {
		w.reticle.hide()
		return
	}

	pose, ok := results[0].Pose(w.session.ReferenceSpace())
	if !ok {
		w.reticle.hide()
		return
	}
	w.reticle.show(pose)
}

// Select commits the reticle pose. It does nothing while the reticle is hidden.
func (w *Widget) Select() (Placement, bool) {
	if !w.reticle.Visible || w.reticle.Pose == nil {
		return Placement{}, false
	}

	p := w.placements.commit(*w.reticle.Pose)
	if w.scene != nil {
		w.scene.Sync(w.placements.list())
	}
	if w.onPlacement != nil {
		w.onPlacement(p)
	}
	return p, true
}

func (w *Widget) clear() {
	w.reticle.hide()
	w.placements.clear()
	if w.scene != nil {
		w.scene.Clear()
	}
}

func (w *Widget) State() SessionState {
	return w.session.State()
}

func (w *Widget) Available() bool {
	return w.session.Available()
}

func (w *Widget) Reticle() Reticle {
	r := w.reticle
	if r.Pose != nil {
		p := *r.Pose
		r.Pose = &p
	}
	return r
}

func (w *Widget) Placements() []Placement {
	return w.placements.list()
}

func (w *Widget) Objects() []Object {
	if w.scene == nil {
		return nil
	}
	return w.scene.Objects()
}

// Snapshot is a copy of the widget state safe to hand to other goroutines.
type Snapshot struct {
	State      string      `json:"state"`
	Available  bool        `json:"available"`
	Mode       string      `json:"mode"`
	Reticle    Reticle     `json:"reticle"`
	Placements []Placement `json:"placements"`
	Objects    []Object    `json:"objects"`
}

func (w *Widget) Snapshot() Snapshot {
	objects := w.Objects()
	if objects == nil {
		objects = []Object{}
	}
	return Snapshot{
		State:      w.State().String(),
		Available:  w.Available(),
		Mode:       w.placements.mode.String(),
		Reticle:    w.Reticle(),
		Placements: w.Placements(),
		Objects:    objects,
	}
}
