package repository

import (
	"github.com/okian/runscope/internal/domain/model"
	"github.com/okian/runscope/pkg/logger"
)

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithProfile sets the deployment profile that bounds metrics per run.
func WithProfile(p model.Profile) Option {
	return func(s *SnapshotStore) {
		if p.Valid() {
			s.profile = p
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *SnapshotStore) {
		if l != nil {
			s.logger = l
		}
	}
}
