// Package timeutil converts between the market's Eastern reference clock and UTC
// and parses the mixed-format timestamps that upstream systems send.
package timeutil

import (
	"strings"
	"time"

	// Embed the IANA database so DST rules never depend on the host's zoneinfo.
	_ "time/tzdata"

	"github.com/rxtech-lab/horizon-replay/pkg/errors"
)

const (
	// MarketTimezone is the IANA zone of the gold futures trading day.
	MarketTimezone = "America/New_York"
	// SessionCloseHour is the ET hour at which the trading day rolls over.
	SessionCloseHour = 17

	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	// MaxWindow is the longest span a single replay may request from a tick source.
	MaxWindow = 48 * time.Hour
)

// timestampLayouts are tried in order after the trailing Z has been normalised.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
}

// Window is a half-open UTC interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the window.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Validate checks Start < End and that the window does not exceed MaxWindow.
func (w Window) Validate() error {
	if !w.Start.Before(w.End) {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"window start %s must be before end %s", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
	}

	if w.Duration() > MaxWindow {
		return errors.Newf(errors.ErrCodeWindowTooLarge,
			"window of %s exceeds the maximum of %s", w.Duration(), MaxWindow)
	}

	return nil
}

// MarketLocation loads the America/New_York location.
func MarketLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(MarketTimezone)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeBadTimestamp, err, "failed to load timezone %s", MarketTimezone)
	}

	return loc, nil
}

// EntryWindow turns an ET entry date (YYYY-MM-DD) and clock time (HH:MM) into the
// UTC replay window. The window starts at the entry instant and ends at 17:00 ET on
// the entry day, or on the following day when the entry is at or after 17:00 ET.
func EntryWindow(entryDate string, entryTimeET string) (Window, error) {
	loc, err := MarketLocation()
	if err != nil {
		return Window{}, err
	}

	entry, err := time.ParseInLocation(DateLayout+" "+ClockLayout, entryDate+" "+entryTimeET, loc)
	if err != nil {
		return Window{}, errors.Wrapf(errors.ErrCodeBadTimestamp, err,
			"invalid entry date/time %q %q, expected YYYY-MM-DD and HH:MM", entryDate, entryTimeET)
	}

	closeDay := entry.Day()
	if entry.Hour() >= SessionCloseHour {
		closeDay++
	}

	// time.Date resolves the ET offset of the close itself, so a window that
	// crosses a DST transition ends at the correct UTC instant.
	end := time.Date(entry.Year(), entry.Month(), closeDay, SessionCloseHour, 0, 0, 0, loc)

	return Window{Start: entry.UTC(), End: end.UTC()}, nil
}

// ToMarketTime converts an instant to ET wall-clock time.
func ToMarketTime(t time.Time) (time.Time, error) {
	loc, err := MarketLocation()
	if err != nil {
		return time.Time{}, err
	}

	return t.In(loc), nil
}

// ParseTimestamp parses an ISO-8601 timestamp with or without a trailing Z.
// A trailing Z is rewritten to +00:00 before parsing and timestamps without an
// offset are read as UTC. The result is always in UTC.
func ParseTimestamp(value string) (time.Time, error) {
	normalized := strings.TrimSpace(value)
	if strings.HasSuffix(normalized, "Z") {
		normalized = strings.TrimSuffix(normalized, "Z") + "+00:00"
	}

	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, normalized)
		if err == nil {
			return parsed.UTC(), nil
		}
	}

	return time.Time{}, errors.Newf(errors.ErrCodeBadTimestamp, "unparseable timestamp %q", value)
}
