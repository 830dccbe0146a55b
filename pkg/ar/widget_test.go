package ar_test

import (
	"context"
	"errors"
	"testing"

	"ar-storefront-be/pkg/ar"
	"ar-storefront-be/pkg/ar/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAssets struct {
	calls int
	err   error
}

func (s *stubAssets) Load(_ context.Context, ref string) (*ar.Asset, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &ar.Asset{Ref: ref, URL: "https://cdn.example.com/" + ref}, nil
}

func pose(x, y, z float64) ar.Pose {
	return ar.Pose{Position: ar.Vector3{X: x, Y: y, Z: z}, Orientation: ar.IdentityQuaternion()}
}

func activeWidget(t *testing.T, opts ar.Options) (*ar.Widget, *remote.Platform) {
	t.Helper()
	platform := remote.NewPlatform(true, true)
	w := ar.NewWidget(platform, opts)
	require.NoError(t, w.RequestSession(context.Background()))
	require.Equal(t, ar.SessionActive, w.State())
	return w, platform
}

func TestWidget_ReticleFollowsFirstHit(t *testing.T) {
	w, _ := activeWidget(t, ar.Options{})

	viewer := pose(0, 1.6, 0)
	w.OnFrame(&remote.Frame{Viewer: viewer, Hits: []ar.Pose{pose(0, -1.6, -2), pose(0, -1.6, -5)}})

	r := w.Reticle()
	require.True(t, r.Visible)
	require.NotNil(t, r.Pose)
	assert.True(t, r.Pose.ApproxEqual(pose(0, 0, -2), 1e-9), "got %+v", *r.Pose)
}

func TestWidget_EmptyHitsHideReticle(t *testing.T) {
	w, _ := activeWidget(t, ar.Options{})

	w.OnFrame(&remote.Frame{Viewer: ar.IdentityPose(), Hits: []ar.Pose{pose(1, 0, -1)}})
	require.True(t, w.Reticle().Visible)

	w.OnFrame(&remote.Frame{Viewer: ar.IdentityPose()})

	r := w.Reticle()
	assert.False(t, r.Visible)
	assert.Nil(t, r.Pose)
}

func TestWidget_FrameBeforeSessionIsNoop(t *testing.T) {
	w := ar.NewWidget(remote.NewPlatform(true, true), ar.Options{})

	w.OnFrame(&remote.Frame{Viewer: ar.IdentityPose(), Hits: []ar.Pose{pose(1, 0, -1)}})

	assert.False(t, w.Reticle().Visible)
	assert.Equal(t, ar.SessionIdle, w.State())
}

func TestWidget_SelectWhileHiddenDoesNotPlace(t *testing.T) {
	w, _ := activeWidget(t, ar.Options{})
	w.OnFrame(&remote.Frame{Viewer: ar.IdentityPose()})

	_, placed := w.Select()

	assert.False(t, placed)
	assert.Empty(t, w.Placements())
}

func TestWidget_SelectWhileVisiblePlacesReticlePose(t *testing.T) {
	var seen []ar.Placement
	w, _ := activeWidget(t, ar.Options{OnPlacement: func(p ar.Placement) { seen = append(seen, p) }})

	w.OnFrame(&remote.Frame{Viewer: ar.IdentityPose(), Hits: []ar.Pose{pose(0.5, 0, -1)}})
	reticle := w.Reticle()

	p, placed := w.Select()

	require.True(t, placed)
	require.Len(t, w.Placements(), 1)
	assert.Equal(t, *reticle.Pose, p.Pose)
	assert.Equal(t, p, w.Placements()[0])
	assert.Equal(t, []ar.Placement{p}, seen)
}

func TestWidget_PlacementModes(t *testing.T) {
	t.Run("accumulate keeps order", func(t *testing.T) {
		w, _ := activeWidget(t, ar.Options{Mode: ar.PlacementAccumulate})
		for _, x := range []float64{1, 2, 3} {
			w.OnFrame(&remote.Frame{Viewer: ar.IdentityPose(), Hits: []ar.Pose{pose(x, 0, -1)}})
			w.Select()
		}
		got := w.Placements()
		require.Len(t, got, 3)
		assert.Equal(t, 1.0, got[0].Pose.Position.X)
		assert.Equal(t, 3.0, got[2].Pose.Position.X)
	})

	t.Run("single replaces", func(t *testing.T) {
		w, _ := activeWidget(t, ar.Options{Mode: ar.PlacementSingle})
		for _, x := range []float64{1, 2} {
			w.OnFrame(&remote.Frame{Viewer: ar.IdentityPose(), Hits: []ar.Pose{pose(x, 0, -1)}})
			w.Select()
		}
		got := w.Placements()
		require.Len(t, got, 1)
		assert.Equal(t, 2.0, got[0].Pose.Position.X)
	})
}

func TestWidget_EndSessionTwice(t *testing.T) {
	w, platform := activeWidget(t, ar.Options{})
	w.OnFrame(&remote.Frame{Viewer: ar.IdentityPose(), Hits: []ar.Pose{pose(0, 0, -1)}})
	w.Select()

	sess := platform.LastSession()
	require.Len(t, sess.Sources(), 1)

	assert.NotPanics(t, func() {
		w.EndSession()
		w.EndSession()
	})

	assert.True(t, sess.Sources()[0].Canceled())
	assert.True(t, sess.Ended())
	assert.Equal(t, ar.SessionIdle, w.State())
	assert.False(t, w.Reticle().Visible)
	assert.Empty(t, w.Placements())

	// hit-test state stays cleared: frames are ignored after the session ended
	w.OnFrame(&remote.Frame{Viewer: ar.IdentityPose(), Hits: []ar.Pose{pose(0, 0, -1)}})
	assert.False(t, w.Reticle().Visible)
}

func TestWidget_EndSessionWithoutSession(t *testing.T) {
	w := ar.NewWidget(remote.NewPlatform(true, true), ar.Options{})
	assert.NotPanics(t, w.EndSession)
	assert.Equal(t, ar.SessionIdle, w.State())
}

func TestWidget_RequestSessionFailures(t *testing.T) {
	t.Run("unsupported disables AR", func(t *testing.T) {
		w := ar.NewWidget(remote.NewPlatform(false, true), ar.Options{})

		err := w.RequestSession(context.Background())

		assert.ErrorIs(t, err, ar.ErrNotSupported)
		assert.False(t, w.Available())
		assert.Equal(t, ar.SessionIdle, w.State())
		assert.ErrorIs(t, w.RequestSession(context.Background()), ar.ErrNotSupported)
	})

	t.Run("declined returns to idle", func(t *testing.T) {
		w := ar.NewWidget(remote.NewPlatform(true, false), ar.Options{})

		err := w.RequestSession(context.Background())

		assert.ErrorIs(t, err, ar.ErrSessionDeclined)
		assert.True(t, w.Available())
		assert.Equal(t, ar.SessionIdle, w.State())
	})

	t.Run("second request while active", func(t *testing.T) {
		w, _ := activeWidget(t, ar.Options{})
		assert.ErrorIs(t, w.RequestSession(context.Background()), ar.ErrSessionInProgress)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		w := ar.NewWidget(remote.NewPlatform(true, true), ar.Options{})

		assert.Error(t, w.RequestSession(ctx))
		assert.Equal(t, ar.SessionIdle, w.State())
	})
}

func TestWidget_SceneObjects(t *testing.T) {
	t.Run("one object per placement", func(t *testing.T) {
		assets := &stubAssets{}
		w, _ := activeWidget(t, ar.Options{Assets: assets, AssetRef: "models/chair.glb"})

		w.OnFrame(&remote.Frame{Viewer: ar.IdentityPose(), Hits: []ar.Pose{pose(0, 0, -1)}})
		w.Select()
		w.Select()

		objects := w.Objects()
		require.Len(t, objects, 2)
		assert.Equal(t, "models/chair.glb", objects[0].Asset.Ref)
		assert.Equal(t, 1, assets.calls)
	})

	t.Run("asset failure hides objects", func(t *testing.T) {
		assets := &stubAssets{err: errors.New("404")}
		w, _ := activeWidget(t, ar.Options{Assets: assets, AssetRef: "missing.glb"})

		w.OnFrame(&remote.Frame{Viewer: ar.IdentityPose(), Hits: []ar.Pose{pose(0, 0, -1)}})
		_, placed := w.Select()

		assert.True(t, placed)
		assert.Len(t, w.Placements(), 1)
		assert.Empty(t, w.Objects())
	})
}

func TestWidget_Snapshot(t *testing.T) {
	w, _ := activeWidget(t, ar.Options{Mode: ar.PlacementSingle})
	w.OnFrame(&remote.Frame{Viewer: ar.IdentityPose(), Hits: []ar.Pose{pose(0, 0, -1)}})
	w.Select()

	snap := w.Snapshot()

	assert.Equal(t, "active", snap.State)
	assert.Equal(t, "single", snap.Mode)
	assert.True(t, snap.Reticle.Visible)
	assert.Len(t, snap.Placements, 1)
	assert.NotNil(t, snap.Objects)
}
