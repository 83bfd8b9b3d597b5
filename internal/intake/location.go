package intake

import (
	"context"
	"errors"

	"github.com/matsen/profiles/internal/profile"
)

// ErrNoLocation is returned by providers that have no position to offer.
var ErrNoLocation = errors.New("no location available")

// LocationProvider supplies the current geocoordinate.
type LocationProvider interface {
	Current(ctx context.Context) (profile.Coordinate, error)
}

// FixedLocation always reports the same coordinate. An unset coordinate
// yields ErrNoLocation.
type FixedLocation profile.Coordinate

// Current implements LocationProvider.
func (f FixedLocation) Current(ctx context.Context) (profile.Coordinate, error) {
	c := profile.Coordinate(f)
	if !c.IsSet() {
		return profile.Coordinate{}, ErrNoLocation
	}
	return c.Clone(), nil
}
