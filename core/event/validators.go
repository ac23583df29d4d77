package event

import (
	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
)

var (
	paletteTag  = "palette"
	paletteText = "unknown color"

	rruleTag  = "rrule"
	rruleText = "invalid recurrence rule"

	timeOrderTag  = "timeorder"
	timeOrderText = "end must not be before start"

	spanRequiredTag  = "spanrequired"
	spanRequiredText = "this field is required"
)

// paletteValidation checks that the color is one of the fixed palette keys.
func paletteValidation(fl validator.FieldLevel) bool {
	color := fl.Field().String()
	for _, c := range Colors {
		if c == color {
			return true
		}
	}
	return false
}

// rruleValidation checks that the recurrence rule parses. The engine
// assumes rules were validated at the edge.
func rruleValidation(fl validator.FieldLevel) bool {
	_, err := rrule.StrToRRule(fl.Field().String())
	return err == nil
}

// eventStructValidation enforces the start <= end invariant and the
// all-day/timed field split on NewEvent (and merged UpdateEvent) data.
func eventStructValidation(sl validator.StructLevel) {
	ne, ok := sl.Current().Interface().(NewEvent)
	if !ok {
		return
	}

	if ne.AllDay {
		if ne.StartDay.IsZero() {
			sl.ReportError(ne.StartDay, "start_day", "StartDay", spanRequiredTag, "")
			return
		}
		if ne.EndDay.Before(ne.StartDay) {
			sl.ReportError(ne.EndDay, "end_day", "EndDay", timeOrderTag, "")
		}
		return
	}

	if ne.Start.IsZero() {
		sl.ReportError(ne.Start, "start", "Start", spanRequiredTag, "")
		return
	}
	if ne.End.Before(ne.Start) {
		sl.ReportError(ne.End, "end", "End", timeOrderTag, "")
	}
}
