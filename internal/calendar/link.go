// Package calendar builds Google Calendar deep links for confirmed
// appointments. Links use floating local timestamps (no timezone suffix) and
// a fixed one-hour duration; no OAuth or API access is involved.
package calendar

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/smiledental/clinic-platform/internal/clinicdata"
)

const renderBaseURL = "https://calendar.google.com/calendar/render"

// EventLink constructs the deep link for an appointment. The date must look
// like YYYY-MM-DD and the time like "10:00 AM"; anything else is an error so
// the calendar pass can log it and retry on a later cycle.
func EventLink(appt clinicdata.Appointment) (string, error) {
	year, month, day, err := splitDate(appt.Date)
	if err != nil {
		return "", err
	}
	hour, minute, err := parseClock(appt.Time)
	if err != nil {
		return "", err
	}

	start := fmt.Sprintf("%s%s%sT%02d%02d00", year, month, day, hour, minute)
	// One-hour duration, same floating-time representation. Matches the
	// original link format, including no rollover past midnight.
	end := fmt.Sprintf("%s%s%sT%02d%02d00", year, month, day, hour+1, minute)

	title := url.QueryEscape(fmt.Sprintf("Dental: %s - %s", appt.Type, appt.Patient))
	return fmt.Sprintf("%s?action=TEMPLATE&text=%s&dates=%s/%s", renderBaseURL, title, start, end), nil
}

func splitDate(date string) (year, month, day string, err error) {
	parts := strings.Split(date, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return "", "", "", fmt.Errorf("calendar: date %q is not YYYY-MM-DD", date)
	}
	for _, p := range parts {
		if _, convErr := strconv.Atoi(p); convErr != nil {
			return "", "", "", fmt.Errorf("calendar: date %q is not numeric", date)
		}
	}
	return parts[0], parts[1], parts[2], nil
}

// parseClock converts a 12-hour clock string ("10:00 AM") to 24-hour parts.
func parseClock(clock string) (hour, minute int, err error) {
	fields := strings.Fields(clock)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("calendar: time %q missing AM/PM suffix", clock)
	}
	period := strings.ToUpper(fields[1])
	if period != "AM" && period != "PM" {
		return 0, 0, fmt.Errorf("calendar: time %q has invalid period %q", clock, fields[1])
	}

	hm := strings.Split(fields[0], ":")
	if len(hm) != 2 {
		return 0, 0, fmt.Errorf("calendar: time %q is not HH:MM", clock)
	}
	hour, err = strconv.Atoi(hm[0])
	if err != nil || hour < 1 || hour > 12 {
		return 0, 0, fmt.Errorf("calendar: time %q has invalid hour", clock)
	}
	minute, err = strconv.Atoi(hm[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("calendar: time %q has invalid minute", clock)
	}

	if period == "PM" && hour != 12 {
		hour += 12
	}
	if period == "AM" && hour == 12 {
		hour = 0
	}
	return hour, minute, nil
}
