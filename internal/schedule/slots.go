// Package schedule turns a doctor's free-text weekly timing into bookable slots.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/opdqueue/internal/domain"
)

// DefaultSlots is returned whenever the timing text cannot be turned into a window.
var DefaultSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00", "12:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
}

var timePattern = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(AM|PM)?`)

// Segment is one comma-separated part of a timing description, e.g. "Mon-Sat: 09:00-18:00".
type Segment struct {
	Label string
	Text  string
}

// Window is a half-open [Start, End) range in minutes of the day.
type Window struct {
	Start int
	End   int
}

// WeeklyTiming is the structured form of a timing description.
type WeeklyTiming struct {
	Segments []Segment
}

// ParseTiming splits a timing text on commas into one segment per schedule part.
func ParseTiming(timing string) WeeklyTiming {
	if !strings.Contains(timing, ",") {
		return WeeklyTiming{Segments: []Segment{{Label: timing, Text: timing}}}
	}
	parts := strings.Split(timing, ",")
	segments := make([]Segment, 0, len(parts))
	for _, p := range parts {
		segments = append(segments, Segment{Label: p, Text: p})
	}
	return WeeklyTiming{Segments: segments}
}

// SegmentFor picks the segment mentioning the weekday's three-letter name,
// falling back to the first one.
func (w WeeklyTiming) SegmentFor(day time.Weekday) Segment {
	if len(w.Segments) == 0 {
		return Segment{}
	}
	if len(w.Segments) == 1 {
		return w.Segments[0]
	}
	abbr := day.String()[:3]
	for _, s := range w.Segments {
		if strings.Contains(s.Label, abbr) {
			return s
		}
	}
	return w.Segments[0]
}

// WindowFor extracts the first two times of the day's segment.
func (w WeeklyTiming) WindowFor(day time.Weekday) (Window, error) {
	matches := timePattern.FindAllStringSubmatch(w.SegmentFor(day).Text, -1)
	if len(matches) < 2 {
		return Window{}, fmt.Errorf("expected two times, found %d", len(matches))
	}
	start, err := minuteOfDay(matches[0])
	if err != nil {
		return Window{}, err
	}
	end, err := minuteOfDay(matches[1])
	if err != nil {
		return Window{}, err
	}
	if start >= end {
		return Window{}, fmt.Errorf("start %s is not before end %s", FormatMinutes(start), FormatMinutes(end))
	}
	return Window{Start: start, End: end}, nil
}

// Slots emits start, start+gap, ... while below End.
func (w Window) Slots(gap int) []string {
	slots := make([]string, 0, (w.End-w.Start)/gap+1)
	for m := w.Start; m < w.End; m += gap {
		slots = append(slots, FormatMinutes(m))
	}
	return slots
}

// GenerateSlots never fails: any parse problem yields DefaultSlots.
func GenerateSlots(timing string, gapMinutes int, date string) []string {
	if gapMinutes <= 0 {
		return fallback()
	}
	day, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return fallback()
	}
	window, err := ParseTiming(timing).WindowFor(day.Weekday())
	if err != nil {
		return fallback()
	}
	slots := window.Slots(gapMinutes)
	if len(slots) == 0 {
		return fallback()
	}
	return slots
}

// FormatMinutes renders minutes after midnight as HH:MM.
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func minuteOfDay(match []string) (int, error) {
	hours, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.Atoi(match[2])
	if err != nil {
		return 0, err
	}
	if minutes > 59 {
		return 0, fmt.Errorf("invalid minutes in %q", match[0])
	}
	switch strings.ToUpper(match[3]) {
	case "PM":
		if hours < 12 {
			hours += 12
		}
	case "AM":
		if hours == 12 {
			hours = 0
		}
	}
	if hours > 24 {
		return 0, fmt.Errorf("invalid hours in %q", match[0])
	}
	return hours*60 + minutes, nil
}

func fallback() []string {
	out := make([]string, len(DefaultSlots))
	copy(out, DefaultSlots)
	return out
}
