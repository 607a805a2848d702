// Package store persists curation configs.
//
// Two backends are provided. [FileStore] keeps the config as config.json in
// the source directory, which is what the build pipeline reads back on the
// next run. [MongoStore] keeps one document per font name in MongoDB so a
// curation server can be shared between machines.
package store

import (
	"context"

	"github.com/matzehuels/fontsmith/pkg/config"
)

// Store loads and saves curation configs by font name.
type Store interface {
	// Load returns the config saved for name. A missing config returns an
	// error with code ErrCodeNotFound.
	Load(ctx context.Context, name string) (*config.Config, error)
	// Save replaces the config saved for name.
	Save(ctx context.Context, name string, cfg *config.Config) error
	Close() error
}
