package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ar-storefront-be/internal/dto"
	"ar-storefront-be/internal/entity"
	"ar-storefront-be/internal/pkg/logger"
	"ar-storefront-be/internal/pkg/metrics"
	"ar-storefront-be/internal/repository/memory"
	"ar-storefront-be/internal/repository/specification"
	"ar-storefront-be/internal/repository/unitofwork"
	"ar-storefront-be/pkg/ar"
	"ar-storefront-be/pkg/ar/remote"
	"ar-storefront-be/pkg/events"

	"github.com/google/uuid"
)

const arModule = "AR_SESSION"

var (
	ErrUnknownMessage   = errors.New("unknown message type")
	ErrARSessionMissing = errors.New("ar session not found")
)

type IARService interface {
	// Open prepares a preview of the product's 3D model. Nothing is stored
	// until Hello; the session must be driven from a single goroutine and
	// closed when the client leaves.
	Open(ctx context.Context, productCode string) (*ARSession, error)
	GetSession(ctx context.Context, sessionID string) (*dto.ARSessionResponse, error)
}

type arService struct {
	uowFactory unitofwork.RepositoryFactory
	sessions   *memory.SessionRepository
	assets     ar.AssetLoader
	mode       ar.PlacementMode
	metrics    *metrics.Metrics
	publisher  IPublisherService
	logger     logger.ILogger
}

func NewARService(
	uowFactory unitofwork.RepositoryFactory,
	sessions *memory.SessionRepository,
	assets ar.AssetLoader,
	mode ar.PlacementMode,
	m *metrics.Metrics,
	publisher IPublisherService,
	log logger.ILogger,
) IARService {
	return &arService{
		uowFactory: uowFactory,
		sessions:   sessions,
		assets:     assets,
		mode:       mode,
		metrics:    m,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *arService) Open(ctx context.Context, productCode string) (*ARSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	product, err := uow.ProductRepository().FindOne(ctx, specification.ByProductCode{ProductCode: productCode})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	sess := &ARSession{
		ID:          uuid.NewString(),
		ProductCode: product.ProductCode,
		platform:    remote.NewPlatform(false, false),
		svc:         s,
		startedAt:   time.Now(),
	}

	opts := ar.Options{
		Mode:        s.mode,
		Logger:      s.logger,
		OnPlacement: sess.onPlacement,
	}
	if product.ModelURL != "" && s.assets != nil {
		opts.Assets = s.assets
		opts.AssetRef = product.ModelURL
	}
	sess.widget = ar.NewWidget(sess.platform, opts)

	s.logger.Info(arModule, "ar session opened", map[string]interface{}{
		"session_id":   sess.ID,
		"product_code": sess.ProductCode,
	})
	return sess, nil
}

func (s *arService) GetSession(_ context.Context, sessionID string) (*dto.ARSessionResponse, error) {
	stored, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrARSessionMissing
	}
	return &dto.ARSessionResponse{
		Id:          stored.Id,
		ProductCode: stored.ProductCode,
		Snapshot:    stored.Snapshot,
		StartedAt:   stored.StartedAt,
		UpdatedAt:   stored.UpdatedAt,
	}, nil
}

// ARSession binds one widget to one client connection.
type ARSession struct {
	ID          string
	ProductCode string

	widget    *ar.Widget
	platform  *remote.Platform
	svc       *arService
	startedAt time.Time
	// ctx of the message being handled, for callbacks fired by the widget
	ctx context.Context
}

// Handle applies one client message and returns the replies to send back.
func (a *ARSession) Handle(ctx context.Context, in dto.ARInbound) ([]dto.AROutbound, error) {
	a.ctx = ctx
	defer func() { a.ctx = nil }()

	var out []dto.AROutbound
	switch in.Type {
	case dto.ARMessageRequestSession:
		var req dto.ARRequestSession
		if err := decodeData(in.Data, &req); err != nil {
			return nil, err
		}
		a.platform.Supported = req.Supported
		a.platform.Granted = req.Granted

		err := a.widget.RequestSession(ctx)
		if err == nil {
			a.svc.metrics.SessionStarted()
		}
		out = append(out, a.sessionMessage(err))

	case dto.ARMessageFrame:
		var frame remote.Frame
		if err := decodeData(in.Data, &frame); err != nil {
			return nil, err
		}
		if a.widget.State() == ar.SessionActive {
			a.widget.OnFrame(&frame)
			a.svc.metrics.Frame(a.widget.Reticle().Visible)
		}
		out = append(out, dto.AROutbound{Type: dto.ARMessageReticle, Data: a.widget.Reticle()})

	case dto.ARMessageSelect:
		a.widget.Select()
		out = append(out, a.placementsMessage())

	case dto.ARMessageEnd:
		a.end()
		out = append(out, a.sessionMessage(nil))

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, in.Type)
	}

	a.save()
	return out, nil
}

// Hello stores the first snapshot and reports the initial session state,
// including the session id.
func (a *ARSession) Hello() dto.AROutbound {
	a.save()
	return a.sessionMessage(nil)
}

// Close ends the immersive session and forgets the snapshot.
func (a *ARSession) Close() {
	a.end()
	a.svc.sessions.Delete(a.ID)
	a.svc.logger.Info(arModule, "ar session closed", map[string]interface{}{"session_id": a.ID})
}

func (a *ARSession) Snapshot() ar.Snapshot {
	return a.widget.Snapshot()
}

func (a *ARSession) end() {
	wasActive := a.widget.State() == ar.SessionActive
	a.widget.EndSession()
	if wasActive {
		a.svc.metrics.SessionEnded()
	}
}

func (a *ARSession) onPlacement(p ar.Placement) {
	a.svc.metrics.Placement()

	ctx := a.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	publishOrWarn(ctx, a.svc.publisher, a.svc.logger, arModule, events.New(events.ARPlacement, map[string]interface{}{
		"session_id":   a.ID,
		"product_code": a.ProductCode,
		"placement_id": p.ID,
		"position":     p.Pose.Position,
	}))
}

func (a *ARSession) save() {
	a.svc.sessions.Save(&entity.ARSession{
		Id:          a.ID,
		ProductCode: a.ProductCode,
		Snapshot:    a.widget.Snapshot(),
		StartedAt:   a.startedAt,
		UpdatedAt:   time.Now(),
	})
}

func (a *ARSession) sessionMessage(err error) dto.AROutbound {
	state := dto.ARSessionState{
		SessionID: a.ID,
		State:     a.widget.State().String(),
		Available: a.widget.Available(),
	}
	if err != nil {
		state.Error = err.Error()
	}
	return dto.AROutbound{Type: dto.ARMessageSession, Data: state}
}

func (a *ARSession) placementsMessage() dto.AROutbound {
	snap := a.widget.Snapshot()
	return dto.AROutbound{Type: dto.ARMessagePlacements, Data: dto.ARPlacements{
		Placements: snap.Placements,
		Objects:    snap.Objects,
	}}
}

func decodeData(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode message data: %w", err)
	}
	return nil
}
