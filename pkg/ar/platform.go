// Package ar implements the immersive-AR placement flow: an immersive session
// with a hit-test source, a per-frame reticle update and the commit of reticle
// poses as placements that a scene turns into 3D objects.
//
// The platform (browser immersive-session API or a remote client) is abstracted
// behind the interfaces in this file.
package ar

import (
	"context"
	"errors"
)

const (
	SessionModeImmersiveAR = "immersive-ar"
	FeatureHitTest         = "hit-test"
)

type ReferenceSpaceType string

const (
	ReferenceSpaceViewer     ReferenceSpaceType = "viewer"
	ReferenceSpaceLocal      ReferenceSpaceType = "local"
	ReferenceSpaceLocalFloor ReferenceSpaceType = "local-floor"
)

var (
	ErrNotSupported      = errors.New("immersive-ar is not supported on this platform")
	ErrSessionDeclined   = errors.New("immersive session request was declined")
	ErrSessionInProgress = errors.New("an immersive session is already requested or active")
)

// ReferenceSpace is a coordinate frame poses can be expressed in.
type ReferenceSpace interface {
	Type() ReferenceSpaceType
}

// HitTestSource is the platform handle that hit-test queries run against.
type HitTestSource interface {
	Cancel() error
}

// HitTestResult is one candidate surface intersection.
type HitTestResult interface {
	// Pose resolves the result against space. ok is false when the platform
	// cannot express the result in that space.
	Pose(space ReferenceSpace) (pose Pose, ok bool)
}

// Frame is the platform data for one rendered frame.
type Frame interface {
	// HitTestResults returns the results for source ordered nearest first.
	HitTestResults(source HitTestSource) []HitTestResult
}

// XRSession is a granted immersive session.
type XRSession interface {
	RequestReferenceSpace(ctx context.Context, kind ReferenceSpaceType) (ReferenceSpace, error)
	RequestHitTestSource(ctx context.Context, space ReferenceSpace) (HitTestSource, error)
	End() error
}

// Platform grants immersive sessions.
type Platform interface {
	IsSessionSupported(ctx context.Context, mode string) (bool, error)
	RequestSession(ctx context.Context, mode string, requiredFeatures []string) (XRSession, error)
}
