package entity

import (
	"time"

	"ar-storefront-be/pkg/ar"
)

// ARSession is the last known state of a streamed AR preview.
type ARSession struct {
	Id          string
	ProductCode string
	Snapshot    ar.Snapshot
	StartedAt   time.Time
	UpdatedAt   time.Time
}
