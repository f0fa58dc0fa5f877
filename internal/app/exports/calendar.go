// Package exports contains read-only consumers of a built timeline:
// calendar-file serialization and navigation deep links. Nothing here
// mutates the override store.
package exports

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/storeops/route-scheduler-api/internal/domain"
)

const icsTimeLayout = "20060102T150405"

// Calendar serializes a built timeline into an iCalendar document, one VEVENT
// per timeline item. Items with no end time become zero-length events, except
// travel legs, whose end defaults to start + estimated duration.
func Calendar(items []domain.TimelineItem, ownerName string, date time.Time) string {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//storeops//route-scheduler//EN")
	line("CALSCALE:GREGORIAN")
	line("X-WR-CALNAME:" + escapeICSText(fmt.Sprintf("%s route %s", ownerName, date.Format("2006-01-02"))))

	stamp := time.Now().UTC().Format(icsTimeLayout) + "Z"
	for _, it := range items {
		line("BEGIN:VEVENT")
		line("UID:" + uuid.NewString() + "@route-scheduler")
		line("DTSTAMP:" + stamp)
		line("DTSTART:" + it.Start.Format(icsTimeLayout))
		line("DTEND:" + eventEnd(it).Format(icsTimeLayout))
		line("SUMMARY:" + escapeICSText(it.Label))
		if desc := eventDescription(it); desc != "" {
			line("DESCRIPTION:" + desc)
		}
		if it.Operational != nil && it.Operational.Location != nil {
			line("LOCATION:" + escapeICSText(*it.Operational.Location))
		}
		line("END:VEVENT")
	}

	line("END:VCALENDAR")
	return b.String()
}

func eventEnd(it domain.TimelineItem) time.Time {
	if it.End != nil {
		return *it.End
	}
	if it.Kind == domain.KindTravel && it.Travel != nil {
		return it.Start.Add(time.Duration(it.Travel.DurationMinutes) * time.Minute)
	}
	return it.Start
}

func eventDescription(it domain.TimelineItem) string {
	if it.Travel == nil {
		return ""
	}
	return escapeICSText(fmt.Sprintf("Distance: %.1f mi\nEstimated drive: %d min",
		it.Travel.Miles, it.Travel.DurationMinutes))
}

// escapeICSText escapes text per RFC 5545: backslash, semicolon, comma, and
// newlines (the latter as a literal \n sequence).
func escapeICSText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
	)
	return r.Replace(s)
}
