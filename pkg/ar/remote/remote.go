// Package remote adapts platform data streamed by a remote client (a browser
// driving its own immersive session) to the ar.Platform interfaces.
//
// Hit poses arrive relative to the viewer together with the viewer pose in the
// local space; results are resolved by composing the two.
package remote

import (
	"context"
	"errors"

	"ar-storefront-be/pkg/ar"
)

var (
	ErrDeclined       = errors.New("user declined the immersive session")
	ErrSourceCanceled = errors.New("hit-test source already canceled")
	ErrSessionEnded   = errors.New("session has ended")
)

// Platform answers session requests from the capabilities the client reported.
type Platform struct {
	Supported bool
	Granted   bool

	last *Session
}

func NewPlatform(supported, granted bool) *Platform {
	return &Platform{Supported: supported, Granted: granted}
}

func (p *Platform) IsSessionSupported(_ context.Context, mode string) (bool, error) {
	return p.Supported && mode == ar.SessionModeImmersiveAR, nil
}

func (p *Platform) RequestSession(ctx context.Context, _ string, _ []string) (ar.XRSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !p.Granted {
		return nil, ErrDeclined
	}
	p.last = &Session{}
	return p.last, nil
}

// LastSession is the most recently granted session, if any.
func (p *Platform) LastSession() *Session {
	return p.last
}

type Space struct {
	kind ar.ReferenceSpaceType
}

func (s Space) Type() ar.ReferenceSpaceType {
	return s.kind
}

type Session struct {
	ended   bool
	sources []*Source
}

func (s *Session) RequestReferenceSpace(_ context.Context, kind ar.ReferenceSpaceType) (ar.ReferenceSpace, error) {
	if s.ended {
		return nil, ErrSessionEnded
	}
	return Space{kind: kind}, nil
}

func (s *Session) RequestHitTestSource(_ context.Context, space ar.ReferenceSpace) (ar.HitTestSource, error) {
	if s.ended {
		return nil, ErrSessionEnded
	}
	src := &Source{space: space}
	s.sources = append(s.sources, src)
	return src, nil
}

// End may be called more than once.
func (s *Session) End() error {
	s.ended = true
	return nil
}

func (s *Session) Ended() bool {
	return s.ended
}

func (s *Session) Sources() []*Source {
	return s.sources
}

// Source rejects a second Cancel, like the browser API does.
type Source struct {
	space    ar.ReferenceSpace
	canceled bool
}

func (s *Source) Cancel() error {
	if s.canceled {
		return ErrSourceCanceled
	}
	s.canceled = true
	return nil
}

func (s *Source) Canceled() bool {
	return s.canceled
}

// Frame is one rendered frame as reported by the client.
type Frame struct {
	Viewer ar.Pose   `json:"viewer"`
	Hits   []ar.Pose `json:"hits"`
}

func (f *Frame) HitTestResults(source ar.HitTestSource) []ar.HitTestResult {
	src, ok := source.(*Source)
	if !ok || src.canceled {
		return nil
	}
	results := make([]ar.HitTestResult, len(f.Hits))
	for i, h := range f.Hits {
		results[i] = hitResult{viewer: f.Viewer, hit: h}
	}
	return results
}

type hitResult struct {
	viewer ar.Pose
	hit    ar.Pose
}

func (r hitResult) Pose(space ar.ReferenceSpace) (ar.Pose, bool) {
	if space == nil {
		return ar.Pose{}, false
	}
	switch space.Type() {
	case ar.ReferenceSpaceViewer:
		return r.hit, true
	case ar.ReferenceSpaceLocal:
		return r.viewer.Compose(r.hit), true
	}
	// local-floor needs the floor offset, which remote clients do not report
	return ar.Pose{}, false
}
