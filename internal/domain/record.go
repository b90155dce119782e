package domain

import "reflect"

// WarningPresence reports which of the three warning-section conditions held
// on the scraped page. The distinction between "section missing" and "no
// active warning" is part of the external contract.
type WarningPresence string

const (
	// WarningSectionMissing means the page carried no warnings section at all.
	WarningSectionMissing WarningPresence = "section_missing"
	// WarningNoneActive means the warnings section was present but empty.
	WarningNoneActive WarningPresence = "none_active"
	// WarningActive means an active warning box was scraped.
	WarningActive WarningPresence = "active"
)

// Warning is a single active weather warning. Weerplaza shows at most one.
type Warning struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// FlashMessage is the yellow informational banner weerplaza occasionally
// shows above the forecast.
type FlashMessage struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// HourlyEntry is one item of the hour-by-hour forecast, in document order.
type HourlyEntry struct {
	Time          string `json:"time"`
	Description   string `json:"description"`
	Temperature   string `json:"temperature"`
	Precipitation string `json:"precipitation,omitempty"`
}

// DayPart is one part-of-day block inside a daily forecast entry.
type DayPart struct {
	TimeOfDay     string `json:"time_of_day"`
	Description   string `json:"description"`
	Temperature   string `json:"temperature"`
	Precipitation string `json:"precipitation,omitempty"`
}

// DailyEntry groups the day parts of a single forecast day.
type DailyEntry struct {
	Day   string    `json:"day"`
	Parts []DayPart `json:"parts"`
}

// Record is the immutable snapshot produced by one successful parse of a
// location page. All values are as published; no wall-clock fields, so
// identical input bytes always yield an identical Record.
type Record struct {
	WarningPresence    WarningPresence `json:"warning_presence"`
	Warning            *Warning        `json:"warning,omitempty"`
	FlashMessage       *FlashMessage   `json:"flash_message,omitempty"`
	Hourly             []HourlyEntry   `json:"hourly_forecast"`
	Daily              []DailyEntry    `json:"daily_forecast"`
	CurrentTemperature string          `json:"current_temperature,omitempty"`
}

// CurrentTemperatureOf derives the current temperature from an hourly
// forecast: the first entry's temperature, or empty when there are no
// entries. Records must never carry any other value here.
func CurrentTemperatureOf(hourly []HourlyEntry) string {
	if len(hourly) == 0 {
		return ""
	}
	return hourly[0].Temperature
}

// Empty reports whether the record holds no extractable content: no warnings
// section, no flash banner, and both forecast lists empty. A present but
// empty warnings section counts as content because the presence state itself
// is information.
func (r *Record) Empty() bool {
	return r.WarningPresence == WarningSectionMissing &&
		r.FlashMessage == nil &&
		len(r.Hourly) == 0 &&
		len(r.Daily) == 0
}

// Equal reports deep structural equality. The reconciler uses it to keep the
// previous record pointer when consecutive scrapes return identical content,
// suppressing spurious change notifications.
func (r *Record) Equal(other *Record) bool {
	if r == other {
		return true
	}
	if r == nil || other == nil {
		return false
	}
	return reflect.DeepEqual(*r, *other)
}
