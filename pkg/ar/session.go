package ar

import (
	"context"
	"fmt"

	"ar-storefront-be/internal/pkg/logger"
)

const logModule = "AR"

type SessionState int

const (
	SessionIdle SessionState = iota
	SessionRequesting
	SessionActive
)

func (s SessionState) String() string {
	switch s {
	case SessionRequesting:
		return "requesting"
	case SessionActive:
		return "active"
	default:
		return "idle"
	}
}

// SessionManager owns the immersive session lifecycle and the hit-test source.
//
// Idle -> Requesting -> Active -> Idle, or Requesting -> Idle on failure.
// A failed request is never retried; the caller needs a fresh user gesture.
type SessionManager struct {
	platform Platform
	logger   logger.ILogger

	state     SessionState
	available bool

	session XRSession
	local   ReferenceSpace
	source  HitTestSource

	onEnd func()
}

func NewSessionManager(platform Platform, log logger.ILogger) *SessionManager {
	return &SessionManager{
		platform:  platform,
		logger:    log,
		state:     SessionIdle,
		available: true,
	}
}

func (m *SessionManager) State() SessionState {
	return m.state
}

// Available reports whether the AR affordance should be offered.
func (m *SessionManager) Available() bool {
	return m.available
}

// HitTestSource is nil unless a session is active.
func (m *SessionManager) HitTestSource() HitTestSource {
	return m.source
}

// ReferenceSpace is the space hit results are resolved against.
func (m *SessionManager) ReferenceSpace() ReferenceSpace {
	return m.local
}

// RequestSession must be called in response to a user gesture.
func (m *SessionManager) RequestSession(ctx context.Context) error {
	if m.state != SessionIdle {
		return ErrSessionInProgress
	}
	if !m.available {
		return ErrNotSupported
	}
	m.state = SessionRequesting

	supported, err := m.platform.IsSessionSupported(ctx, SessionModeImmersiveAR)
	if err != nil || !supported {
		m.available = false
		m.state = SessionIdle
		m.logger.Warn(logModule, "immersive-ar unsupported, disabling AR", map[string]interface{}{"error": errString(err)})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNotSupported, err)
		}
		return ErrNotSupported
	}

	sess, err := m.platform.RequestSession(ctx, SessionModeImmersiveAR, []string{FeatureHitTest})
	if err != nil {
		m.state = SessionIdle
		m.logger.Warn(logModule, "immersive session request rejected", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("%w: %v", ErrSessionDeclined, err)
	}

	local, err := sess.RequestReferenceSpace(ctx, ReferenceSpaceLocal)
	if err != nil {
		m.abort(sess, err)
		return fmt.Errorf("request local reference space: %w", err)
	}

	viewer, err := sess.RequestReferenceSpace(ctx, ReferenceSpaceViewer)
	if err != nil {
		m.abort(sess, err)
		return fmt.Errorf("request viewer reference space: %w", err)
	}

	source, err := sess.RequestHitTestSource(ctx, viewer)
	if err != nil {
		m.abort(sess, err)
		return fmt.Errorf("request hit-test source: %w", err)
	}

	if err := ctx.Err(); err != nil {
		_ = source.Cancel()
		m.abort(sess, err)
		return err
	}

	m.session = sess
	m.local = local
	m.source = source
	m.state = SessionActive
	m.logger.Info(logModule, "immersive session active", nil)
	return nil
}

func (m *SessionManager) abort(sess XRSession, cause error) {
	m.logger.Warn(logModule, "immersive session setup failed", map[string]interface{}{"error": cause.Error()})
	if err := sess.End(); err != nil {
		m.logger.Warn(logModule, "failed to end aborted session", map[string]interface{}{"error": err.Error()})
	}
	m.state = SessionIdle
}

// EndSession releases the hit-test source exactly once and clears derived state.
// It is safe to call at any time, including repeatedly.
func (m *SessionManager) EndSession() {
	if m.session == nil && m.source == nil {
		return
	}

	source, sess := m.source, m.session
	m.source = nil
	m.session = nil
	m.local = nil
	m.state = SessionIdle

	if source != nil {
		if err := source.Cancel(); err != nil {
			m.logger.Warn(logModule, "failed to cancel hit-test source", map[string]interface{}{"error": err.Error()})
		}
	}
	if sess != nil {
		if err := sess.End(); err != nil {
			m.logger.Warn(logModule, "failed to end immersive session", map[string]interface{}{"error": err.Error()})
		}
	}

	if m.onEnd != nil {
		m.onEnd()
	}
	m.logger.Info(logModule, "immersive session ended", nil)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
