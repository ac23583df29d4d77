package calendar

import "github.com/pkg/errors"

// View is a calendar view mode.
type View string

const (
	ViewDay    View = "day"
	ViewWeek   View = "week"
	ViewMonth  View = "month"
	ViewYear   View = "year"
	ViewAgenda View = "agenda"
)

var views = map[View]bool{
	ViewDay:    true,
	ViewWeek:   true,
	ViewMonth:  true,
	ViewYear:   true,
	ViewAgenda: true,
}

func (v View) Valid() bool { return views[v] }

func ParseView(s string) (View, error) {
	v := View(s)
	if !v.Valid() {
		return "", errors.Errorf("unknown view %q", s)
	}
	return v, nil
}

// Granularity is the bucketing resolution.
type Granularity string

const (
	GranularityDay  Granularity = "day"
	GranularityHour Granularity = "hour"
)

// DefaultGranularity is the bucketing resolution a view renders with:
// hourly grids for day and week, day cells otherwise.
func (v View) DefaultGranularity() Granularity {
	switch v {
	case ViewDay, ViewWeek:
		return GranularityHour
	default:
		return GranularityDay
	}
}

// UserIDSet is a set of selected user ids. The empty set is the
// sentinel for "no filter / show all"; every consumer must respect it
// identically.
type UserIDSet map[string]struct{}

func NewUserIDSet(ids ...string) UserIDSet {
	set := make(UserIDSet, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

func (s UserIDSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// ViewState is the caller-owned state driving a view computation.
// It is passed explicitly to consumers; the engine keeps no ambient copy.
type ViewState struct {
	Date    Date
	View    View
	UserIDs UserIDSet
}
