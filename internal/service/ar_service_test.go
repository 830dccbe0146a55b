package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ar-storefront-be/internal/dto"
	"ar-storefront-be/internal/entity"
	"ar-storefront-be/internal/model"
	"ar-storefront-be/internal/pkg/logger"
	"ar-storefront-be/internal/pkg/metrics"
	"ar-storefront-be/internal/repository/implementation"
	"ar-storefront-be/internal/repository/memory"
	"ar-storefront-be/internal/repository/unitofwork"
	"ar-storefront-be/pkg/ar"
	"ar-storefront-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testTopic = "test.events"

type fakeAssets struct{}

func (fakeAssets) Load(_ context.Context, ref string) (*ar.Asset, error) {
	return &ar.Asset{Ref: ref, URL: "https://cdn.test" + ref}, nil
}

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Product{}))

	require.NoError(t, implementation.NewProductRepository(db).Create(context.Background(), &entity.Product{
		ProductCode: "SOFA-1",
		Name:        "Sofa",
		Category:    "sofas",
		Price:       decimal.NewFromInt(300),
		ModelURL:    "/3DModels/sofa.glb",
	}))
	return db
}

func newPubSub(t *testing.T) *gochannel.GoChannel {
	t.Helper()
	ps := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	t.Cleanup(func() { _ = ps.Close() })
	return ps
}

func newTestARService(t *testing.T, mode ar.PlacementMode) (IARService, *memory.SessionRepository, *gochannel.GoChannel) {
	t.Helper()
	ps := newPubSub(t)
	sessions := memory.NewSessionRepository(time.Minute)
	svc := NewARService(
		unitofwork.NewRepositoryFactory(newServiceDB(t)),
		sessions,
		fakeAssets{},
		mode,
		metrics.New(),
		NewPublisherService(testTopic, ps),
		logger.NewNopLogger(),
	)
	return svc, sessions, ps
}

func inbound(t *testing.T, msgType string, data interface{}) dto.ARInbound {
	t.Helper()
	in := dto.ARInbound{Type: msgType}
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(t, err)
		in.Data = raw
	}
	return in
}

func handleOne(t *testing.T, sess *ARSession, in dto.ARInbound) dto.AROutbound {
	t.Helper()
	out, err := sess.Handle(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, out, 1)
	return out[0]
}

func frameAt(z float64) map[string]interface{} {
	return map[string]interface{}{
		"viewer": ar.IdentityPose(),
		"hits":   []ar.Pose{{Position: ar.Vector3{Z: z}, Orientation: ar.IdentityQuaternion()}},
	}
}

func TestARService_OpenUnknownProduct(t *testing.T) {
	svc, _, _ := newTestARService(t, ar.PlacementAccumulate)

	_, err := svc.Open(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestARService_PlacementLifecycle(t *testing.T) {
	svc, sessions, ps := newTestARService(t, ar.PlacementAccumulate)
	placed, err := ps.Subscribe(context.Background(), testTopic)
	require.NoError(t, err)

	sess, err := svc.Open(context.Background(), "SOFA-1")
	require.NoError(t, err)

	// nothing is visible until the connection says hello
	assert.Equal(t, 0, sessions.Count())
	_, err = svc.GetSession(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrARSessionMissing)

	hello := sess.Hello().Data.(dto.ARSessionState)
	assert.Equal(t, 1, sessions.Count())
	assert.Equal(t, sess.ID, hello.SessionID)
	assert.Equal(t, "idle", hello.State)

	out := handleOne(t, sess, inbound(t, dto.ARMessageRequestSession, dto.ARRequestSession{Supported: true, Granted: true}))
	state := out.Data.(dto.ARSessionState)
	require.Equal(t, "active", state.State, state.Error)

	out = handleOne(t, sess, inbound(t, dto.ARMessageFrame, frameAt(-2)))
	reticle := out.Data.(ar.Reticle)
	require.True(t, reticle.Visible)
	assert.InDelta(t, -2, reticle.Pose.Position.Z, 1e-9)

	out = handleOne(t, sess, inbound(t, dto.ARMessageSelect, nil))
	result := out.Data.(dto.ARPlacements)
	require.Len(t, result.Placements, 1)
	require.Len(t, result.Objects, 1)
	assert.Equal(t, "https://cdn.test/3DModels/sofa.glb", result.Objects[0].Asset.URL)

	select {
	case msg := <-placed:
		msg.Ack()
		event, err := events.Unmarshal(msg.Payload)
		require.NoError(t, err)
		assert.Equal(t, events.ARPlacement, event.EventType())
		assert.Equal(t, "SOFA-1", event.Payload()["product_code"])
	case <-time.After(2 * time.Second):
		t.Fatal("placement event not published")
	}

	stored, err := svc.GetSession(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "SOFA-1", stored.ProductCode)
	assert.Len(t, stored.Snapshot.Placements, 1)

	out = handleOne(t, sess, inbound(t, dto.ARMessageEnd, nil))
	assert.Equal(t, "idle", out.Data.(dto.ARSessionState).State)
	assert.Empty(t, sess.Snapshot().Placements)

	sess.Close()
	_, err = svc.GetSession(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrARSessionMissing)
}

func TestARService_SingleModeReplaces(t *testing.T) {
	svc, _, _ := newTestARService(t, ar.PlacementSingle)
	sess, err := svc.Open(context.Background(), "SOFA-1")
	require.NoError(t, err)
	defer sess.Close()

	handleOne(t, sess, inbound(t, dto.ARMessageRequestSession, dto.ARRequestSession{Supported: true, Granted: true}))
	for _, z := range []float64{-1, -3} {
		handleOne(t, sess, inbound(t, dto.ARMessageFrame, frameAt(z)))
		handleOne(t, sess, inbound(t, dto.ARMessageSelect, nil))
	}

	placements := sess.Snapshot().Placements
	require.Len(t, placements, 1)
	assert.InDelta(t, -3, placements[0].Pose.Position.Z, 1e-9)
}

func TestARService_DeclinedSession(t *testing.T) {
	svc, _, _ := newTestARService(t, ar.PlacementAccumulate)
	sess, err := svc.Open(context.Background(), "SOFA-1")
	require.NoError(t, err)
	defer sess.Close()

	out := handleOne(t, sess, inbound(t, dto.ARMessageRequestSession, dto.ARRequestSession{Supported: true, Granted: false}))
	state := out.Data.(dto.ARSessionState)
	assert.Equal(t, "idle", state.State)
	assert.True(t, state.Available)
	assert.Contains(t, state.Error, "declined")

	// frames are ignored until a session is active
	out = handleOne(t, sess, inbound(t, dto.ARMessageFrame, frameAt(-1)))
	assert.False(t, out.Data.(ar.Reticle).Visible)
}

func TestARService_RejectsBadMessages(t *testing.T) {
	svc, _, _ := newTestARService(t, ar.PlacementAccumulate)
	sess, err := svc.Open(context.Background(), "SOFA-1")
	require.NoError(t, err)
	defer sess.Close()

	_, err = sess.Handle(context.Background(), dto.ARInbound{Type: "teleport"})
	assert.ErrorIs(t, err, ErrUnknownMessage)

	_, err = sess.Handle(context.Background(), dto.ARInbound{Type: dto.ARMessageFrame, Data: json.RawMessage(`{"hits":"nope"}`)})
	assert.Error(t, err)
}

type recordingRelay struct {
	got chan events.Event
	err error
}

func (r *recordingRelay) Publish(_ context.Context, event events.Event) error {
	r.got <- event
	return r.err
}

func TestConsumerService_RelaysEvents(t *testing.T) {
	ps := newPubSub(t)
	relay := &recordingRelay{got: make(chan events.Event, 4)}
	consumer := NewConsumerService(ps, testTopic, relay, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	// undecodable payloads are acked and dropped
	require.NoError(t, ps.Publish(testTopic, message.NewMessage(watermill.NewUUID(), []byte("garbage"))))

	publisher := NewPublisherService(testTopic, ps)
	require.NoError(t, publisher.Publish(ctx, events.New(events.UserLogin, map[string]interface{}{"email": "a@b.co"})))

	select {
	case event := <-relay.got:
		assert.Equal(t, events.UserLogin, event.EventType())
		assert.Equal(t, "a@b.co", event.Payload()["email"])
	case <-time.After(2 * time.Second):
		t.Fatal("event not relayed")
	}
}
