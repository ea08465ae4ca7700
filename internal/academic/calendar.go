// Package academic derives the current session and term from a school
// calendar. The resolver is a pure function: record-creation paths in
// different services must agree on the session/term for the same moment,
// so nothing here touches I/O or process state.
package academic

import (
	"errors"
	"fmt"
	"time"
)

// Term labels, three per session.
const (
	TermFirst  = "First"
	TermSecond = "Second"
	TermThird  = "Third"
)

var termLabels = [3]string{TermFirst, TermSecond, TermThird}

// ErrOutOfRange is returned when the reference date precedes the
// calendar's schedule start.
var ErrOutOfRange = errors.New("reference date is before the schedule start")

// Calendar is the school-calendar configuration the resolver walks over.
type Calendar struct {
	// ScheduleStart anchors the first term of the first session.
	ScheduleStart time.Time
	// TermWeeks is the teaching length of every term.
	TermWeeks int
	// HolidayWeeks holds the holiday duration following each term,
	// in order: after First, after Second, after Third.
	HolidayWeeks [3]int
	// PublicHolidays are single excluded days; each one falling inside
	// a term window pushes that window's end out by a day.
	PublicHolidays []time.Time
}

// TermContext identifies the academic period containing a reference date.
type TermContext struct {
	Session   string    `json:"session"`
	Term      string    `json:"term"`
	TermStart time.Time `json:"term_start"`
	TermEnd   time.Time `json:"term_end"`
}

// Resolve walks forward from the calendar anchor in term-sized windows
// until it finds the half-open window [start, end) containing ref. The
// session label rolls over every three terms.
func Resolve(ref time.Time, cal Calendar) (TermContext, error) {
	if cal.TermWeeks <= 0 {
		return TermContext{}, fmt.Errorf("calendar term length must be positive, got %d weeks", cal.TermWeeks)
	}

	ref = truncateToDay(ref)
	start := truncateToDay(cal.ScheduleStart)

	if ref.Before(start) {
		return TermContext{}, ErrOutOfRange
	}

	for {
		// Session label comes from the year this cycle's First term begins.
		sessionStartYear := start.Year()

		for i, label := range termLabels {
			days := (cal.TermWeeks+cal.HolidayWeeks[i])*7 + countHolidaysWithin(cal.PublicHolidays, start, (cal.TermWeeks+cal.HolidayWeeks[i])*7)
			end := start.AddDate(0, 0, days)

			if ref.Before(end) {
				return TermContext{
					Session:   fmt.Sprintf("%d/%d", sessionStartYear, sessionStartYear+1),
					Term:      label,
					TermStart: start,
					TermEnd:   end,
				}, nil
			}
			start = end
		}
	}
}

// countHolidaysWithin counts public holidays falling in the provisional
// window [start, start+days). Each one extends the window by a day; the
// extension itself is not re-scanned, matching a fixed per-term allowance.
func countHolidaysWithin(holidays []time.Time, start time.Time, days int) int {
	end := start.AddDate(0, 0, days)
	n := 0
	for _, h := range holidays {
		h = truncateToDay(h)
		if !h.Before(start) && h.Before(end) {
			n++
		}
	}
	return n
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
