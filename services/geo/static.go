// Package geosvc provides server-side Locator implementations. Position
// resolution normally happens on the client; these stand in when it did not.
package geosvc

import (
	"context"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/attendance"
)

// StaticLocator reports the configured campus position.
type StaticLocator struct {
	pos attendance.Location
}

var _ attendance.Locator = (*StaticLocator)(nil)

func NewStaticLocator(conf *core.Config) *StaticLocator {
	return &StaticLocator{pos: attendance.Location{Lat: conf.Campus.Lat, Lng: conf.Campus.Lng}}
}

func (l *StaticLocator) CurrentPosition(_ context.Context) (attendance.Location, error) {
	return l.pos, nil
}

// UnavailableLocator always fails; used where a position fallback must not be
// silently invented.
type UnavailableLocator struct{}

var _ attendance.Locator = (*UnavailableLocator)(nil)

func (UnavailableLocator) CurrentPosition(_ context.Context) (attendance.Location, error) {
	return attendance.Location{}, attendance.ErrLocationUnavailable
}
