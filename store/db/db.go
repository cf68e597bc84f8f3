// Package db constructs the store driver selected by the profile.
package db

import (
	"github.com/pkg/errors"

	"github.com/nutrisense/nutrisense/internal/profile"
	"github.com/nutrisense/nutrisense/store"
	"github.com/nutrisense/nutrisense/store/db/sqlite"
)

// NewDBDriver creates a new db driver based on profile. Only SQLite is
// supported; the CRUD surface is small and embedded storage keeps the
// deployment to a single binary plus one file.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver: %s (only 'sqlite' is supported)", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
