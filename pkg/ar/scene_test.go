package ar

import (
	"context"
	"errors"
	"testing"

	"ar-storefront-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loaderFunc func(ctx context.Context, ref string) (*Asset, error)

func (f loaderFunc) Load(ctx context.Context, ref string) (*Asset, error) {
	return f(ctx, ref)
}

func okLoader(calls *int) AssetLoader {
	return loaderFunc(func(_ context.Context, ref string) (*Asset, error) {
		*calls++
		return &Asset{Ref: ref, URL: "/assets/" + ref}, nil
	})
}

func TestScene_SyncIsIdempotent(t *testing.T) {
	var calls int
	s := NewScene(okLoader(&calls), "sofa.glb", logger.NewNopLogger())
	require.NoError(t, s.Load(context.Background()))

	placements := []Placement{{ID: 1, Pose: IdentityPose()}, {ID: 2, Pose: IdentityPose()}}

	created := s.Sync(placements)
	assert.Len(t, created, 2)

	created = s.Sync(placements)
	assert.Empty(t, created)
	assert.Len(t, s.Objects(), 2)
}

func TestScene_SyncDropsRemovedPlacements(t *testing.T) {
	var calls int
	s := NewScene(okLoader(&calls), "sofa.glb", logger.NewNopLogger())
	require.NoError(t, s.Load(context.Background()))

	s.Sync([]Placement{{ID: 1}, {ID: 2}})
	created := s.Sync([]Placement{{ID: 3}})

	require.Len(t, created, 1)
	objects := s.Objects()
	require.Len(t, objects, 1)
	assert.Equal(t, uint64(3), objects[0].PlacementID)
}

func TestScene_LoadOnce(t *testing.T) {
	var calls int
	s := NewScene(okLoader(&calls), "sofa.glb", logger.NewNopLogger())

	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.Load(context.Background()))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "/assets/sofa.glb", s.Asset().URL)
}

func TestScene_FailedLoad(t *testing.T) {
	boom := errors.New("connection refused")
	s := NewScene(loaderFunc(func(context.Context, string) (*Asset, error) {
		return nil, boom
	}), "sofa.glb", logger.NewNopLogger())

	err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrAssetUnavailable)
	assert.ErrorIs(t, err, boom)

	assert.Nil(t, s.Sync([]Placement{{ID: 1}}))
	assert.Empty(t, s.Objects())
	assert.ErrorIs(t, s.Load(context.Background()), ErrAssetUnavailable)
}

func TestScene_ClearKeepsAsset(t *testing.T) {
	var calls int
	s := NewScene(okLoader(&calls), "sofa.glb", logger.NewNopLogger())
	require.NoError(t, s.Load(context.Background()))
	s.Sync([]Placement{{ID: 1}})

	s.Clear()

	assert.Empty(t, s.Objects())
	assert.NotNil(t, s.Asset())
	assert.Len(t, s.Sync([]Placement{{ID: 1}}), 1)
}

func TestParsePlacementMode(t *testing.T) {
	m, err := ParsePlacementMode("single")
	require.NoError(t, err)
	assert.Equal(t, PlacementSingle, m)

	m, err = ParsePlacementMode("")
	require.NoError(t, err)
	assert.Equal(t, PlacementAccumulate, m)

	_, err = ParsePlacementMode("stack")
	assert.Error(t, err)
}
