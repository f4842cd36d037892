package ytmusic

import (
	"regexp"
	"strconv"
)

// Album subtitles mix runs like "Single", "Album", a dot separator, and the
// year. The year run is four digits, sometimes with a localized year marker
// appended (e.g. "2019年").
var yearPattern = regexp.MustCompile(`^(\d{4})年?$`)

// parseReleaseYear extracts the release year from album subtitle runs. The
// first run matching the year pattern wins; no match means no year, never an
// error.
func parseReleaseYear(runs []string) *int64 {
	for _, run := range runs {
		m := yearPattern.FindStringSubmatch(run)
		if m == nil {
			continue
		}
		year, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		return &year
	}
	return nil
}
