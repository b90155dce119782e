// Package domain models the data scraped from weerplaza.nl location pages.
//
// # Data Source
//
// Weerplaza publishes per-location weather pages at
// https://www.weerplaza.nl/<location-path>/ (e.g. "nederland/amsterdam").
// There is no API; the service scrapes the HTML markup directly. A page
// carries up to five independent, individually optional sections:
//
//	Waarschuwingen            weather warning box (code, description, link)
//	flash banner              promotional/informational message (yellow box)
//	Weerbericht uur tot uur   hourly forecast items
//	Weerbericht daaglijks     daily forecast, grouped by day with day parts
//	current temperature       derived, not scraped (see below)
//
// # Page Conventions
//
// Section headings are literal Dutch strings matched exactly. Forecast item
// descriptions come from the alt attribute of the item's weather icon, so
// they are human-readable Dutch phrases ("Zonnig", "Bewolkt"). Temperatures
// and precipitation values are kept as published text ("15°", "2 mm"); the
// service does not validate or convert them beyond trimming whitespace.
//
// # Warning Presence
//
// The warnings section distinguishes three externally visible conditions:
// the section heading is absent from the page, the heading is present but no
// warning box is rendered (a quiet location), or an active warning exists.
// Consumers rely on this distinction, so it is modelled explicitly as
// [WarningPresence] rather than collapsed into a nil pointer.
//
// # Derived Current Temperature
//
// Weerplaza renders no standalone current-temperature element. The current
// temperature is always the temperature of the first hourly forecast item,
// and absent when the hourly section is empty. [CurrentTemperatureOf]
// implements the derivation; a Record never carries an independently scraped
// value.
//
// # Outcome Taxonomy
//
// A scrape ends in exactly one of: a record with content, a no-data signal
// (the page loaded but held nothing extractable, or returned 404 for an
// unknown location), or a [ScrapeError] with one of three kinds. Connection
// and parsing failures are update failures; no-data never is, so a location
// that legitimately has no warnings or forecast items does not inflate error
// counters or flap availability.
package domain
