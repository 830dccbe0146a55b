package ar

import (
	"context"
	"errors"

	"ar-storefront-be/internal/pkg/logger"
)

var ErrAssetUnavailable = errors.New("3d asset unavailable")

// Asset is a resolved, externally authored 3D model.
type Asset struct {
	Ref         string `json:"ref"`
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// AssetLoader resolves an asset reference (a URL or a storage key).
type AssetLoader interface {
	Load(ctx context.Context, ref string) (*Asset, error)
}

// Object is a 3D model instantiated for one placement.
type Object struct {
	PlacementID uint64 `json:"placement_id"`
	Pose        Pose   `json:"pose"`
	Asset       *Asset `json:"asset"`
}

// Scene instantiates one object per placement. The asset is loaded once; if the
// load fails no object ever appears.
type Scene struct {
	loader AssetLoader
	ref    string
	logger logger.ILogger

	attempted bool
	asset     *Asset

	objects map[uint64]Object
	order   []uint64
}

func NewScene(loader AssetLoader, ref string, log logger.ILogger) *Scene {
	return &Scene{
		loader:  loader,
		ref:     ref,
		logger:  log,
		objects: make(map[uint64]Object),
	}
}

// Load fetches the asset on first call. Later calls return the first outcome.
func (s *Scene) Load(ctx context.Context) error {
	if s.attempted {
		if s.asset == nil {
			return ErrAssetUnavailable
		}
		return nil
	}
	s.attempted = true

	asset, err := s.loader.Load(ctx, s.ref)
	if err != nil {
		s.logger.Error(logModule, "failed to load 3d asset", map[string]interface{}{
			"ref":   s.ref,
			"error": err.Error(),
		})
		return errors.Join(ErrAssetUnavailable, err)
	}
	s.asset = asset
	s.logger.Info(logModule, "3d asset loaded", map[string]interface{}{"ref": s.ref, "url": asset.URL})
	return nil
}

func (s *Scene) Asset() *Asset {
	return s.asset
}

// Sync makes the object set mirror placements and returns the objects it created.
// Placements that already have an object are left untouched.
func (s *Scene) Sync(placements []Placement) []Object {
	if s.asset == nil {
		return nil
	}

	wanted := make(map[uint64]struct{}, len(placements))
	var created []Object
	for _, p := range placements {
		wanted[p.ID] = struct{}{}
		if _, ok := s.objects[p.ID]; ok {
			continue
		}
		obj := Object{PlacementID: p.ID, Pose: p.Pose, Asset: s.asset}
		s.objects[p.ID] = obj
		s.order = append(s.order, p.ID)
		created = append(created, obj)
	}

	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := wanted[id]; ok {
			kept = append(kept, id)
		} else {
			delete(s.objects, id)
		}
	}
	s.order = kept

	return created
}

// Objects returns the instantiated objects in placement order.
func (s *Scene) Objects() []Object {
	out := make([]Object, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.objects[id])
	}
	return out
}

// Clear removes every object but keeps the loaded asset.
func (s *Scene) Clear() {
	s.objects = make(map[uint64]Object)
	s.order = nil
}
