package model

import "errors"

// ErrAtCapacity is returned by saturating inserts when a fixed-capacity
// container is full. The rejected element is dropped.
var ErrAtCapacity = errors.New("at capacity")
