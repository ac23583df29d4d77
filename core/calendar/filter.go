package calendar

// FilterByUser returns the subset of events visible under the current
// user filter. The empty set means "show all" and returns the input
// slice untouched. With a filter active, inclusion is strict: events
// without a user id are excluded. Several views share this predicate;
// keeping one implementation here is what keeps them agreeing.
func FilterByUser(events []Event, ids UserIDSet) []Event {
	if len(ids) == 0 {
		return events
	}
	filtered := make([]Event, 0, len(events))
	for _, e := range events {
		if e.UserID != "" && ids.Contains(e.UserID) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
