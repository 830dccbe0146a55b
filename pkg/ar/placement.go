package ar

import "fmt"

// PlacementMode decides what a confirmed placement does to earlier ones.
type PlacementMode int

const (
	// PlacementAccumulate appends every placement to an ordered sequence.
	PlacementAccumulate PlacementMode = iota
	// PlacementSingle keeps only the most recent placement.
	PlacementSingle
)

func (m PlacementMode) String() string {
	if m == PlacementSingle {
		return "single"
	}
	return "accumulate"
}

func ParsePlacementMode(s string) (PlacementMode, error) {
	switch s {
	case "", "accumulate":
		return PlacementAccumulate, nil
	case "single":
		return PlacementSingle, nil
	}
	return PlacementAccumulate, fmt.Errorf("unknown placement mode %q", s)
}

// Placement is a user-confirmed pose. IDs are unique for the widget's lifetime.
type Placement struct {
	ID   uint64 `json:"id"`
	Pose Pose   `json:"pose"`
}

type placementSet struct {
	mode  PlacementMode
	items []Placement
	next  uint64
}

func (s *placementSet) commit(pose Pose) Placement {
	s.next++
	p := Placement{ID: s.next, Pose: pose}
	if s.mode == PlacementSingle {
		s.items = []Placement{p}
	} else {
		s.items = append(s.items, p)
	}
	return p
}

func (s *placementSet) list() []Placement {
	out := make([]Placement, len(s.items))
	copy(out, s.items)
	return out
}

func (s *placementSet) clear() {
	s.items = nil
}
