package tracklib

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultMapZoom = 13
	EmptyMapZoom   = 2
)

var timezoneOffsetRegexp = regexp.MustCompile(
	`^(?i:UTC|GMT)?\s*([+-]?)\s*(\d{1,2})(?::?(\d{2}))?$`)

type MapView struct {
	Center Coordinates `json:"center"`
	Zoom   int         `json:"zoom"`
	Marker bool        `json:"marker"`
}

// View is what widget shows: a set of already formatted strings and a
// map position. It is derived from Result or from an error and never
// carries both.
type View struct {
	Query     string  `json:"query"`
	IPAddress string  `json:"ip_address"`
	Location  string  `json:"location"`
	Timezone  string  `json:"timezone"`
	ISP       string  `json:"isp"`
	Map       MapView `json:"map"`
	Error     string  `json:"error,omitempty"`
}

func (v View) OK() bool {
	return v.Error == "" && v.IPAddress != ""
}

// NewView derives a view state from the result. Results without an
// address or provider make an error view.
func NewView(result Result) View {
	if !result.OK() {
		return NewErrorView(result.Query, nil)
	}

	return View{
		Query:     result.Query,
		IPAddress: result.IP.String(),
		Location:  FormatLocation(result),
		Timezone:  FormatTimezone(result.Timezone),
		ISP:       result.ISP,
		Map: MapView{
			Center: result.Coordinates,
			Zoom:   DefaultMapZoom,
			Marker: true,
		},
	}
}

func NewErrorView(query string, err error) View {
	msg := "Unknown error"
	if err != nil {
		msg = err.Error()
	}

	return View{
		Query: query,
		Error: msg,
		Map: MapView{
			Zoom: EmptyMapZoom,
		},
	}
}

// FormatLocation joins city, region, postal code and country name with
// commas. Empty and repeating parts are skipped.
func FormatLocation(result Result) string {
	chunks := []string{
		result.City,
		result.Region,
		result.PostalCode,
		result.Country.CommonName,
	}
	parts := make([]string, 0, len(chunks))
	seen := map[string]bool{}

	for _, v := range chunks {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)

		if v == "" || seen[key] {
			continue
		}

		seen[key] = true
		parts = append(parts, v)
	}

	return strings.Join(parts, ", ")
}

// FormatTimezone returns a timezone like "UTC -07:00". It accepts
// offsets in any of -07:00, -0700, -7 forms and IANA names like
// America/Los_Angeles. Unknown values are formatted as an empty string.
func FormatTimezone(timezone string) string {
	return FormatTimezoneAt(timezone, time.Now())
}

// FormatTimezoneAt is FormatTimezone which uses a given moment to
// calculate an offset of IANA timezones.
func FormatTimezoneAt(timezone string, at time.Time) string {
	timezone = strings.TrimSpace(timezone)
	if timezone == "" {
		return ""
	}

	if offset, err := parseTimezoneOffset(timezone); err == nil {
		return formatTimezoneOffset(offset)
	}

	// LoadLocation treats Local as a zone of this server
	if strings.EqualFold(timezone, "Local") {
		return ""
	}

	location, err := time.LoadLocation(timezone)
	if err != nil {
		return ""
	}

	_, offset := at.In(location).Zone()

	return formatTimezoneOffset(offset)
}

func parseTimezoneOffset(value string) (int, error) {
	groups := timezoneOffsetRegexp.FindStringSubmatch(value)
	if groups == nil {
		return 0, fmt.Errorf("incorrect offset %s", value)
	}

	hours, _ := strconv.Atoi(groups[2])
	minutes := 0

	if groups[3] != "" {
		minutes, _ = strconv.Atoi(groups[3])
	}

	if hours > 14 || minutes >= 60 {
		return 0, fmt.Errorf("offset %s is out of range", value)
	}

	seconds := hours*3600 + minutes*60

	if groups[1] == "-" {
		seconds = -seconds
	}

	return seconds, nil
}

func formatTimezoneOffset(seconds int) string {
	sign := '+'

	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}

	minutes := seconds / 60

	return fmt.Sprintf("UTC %c%02d:%02d", sign, minutes/60, minutes%60)
}
