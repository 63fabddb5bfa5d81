// Package parsing holds the pure text helpers shared by every extractor:
// whitespace normalization, list splitting, ISO-8601 durations, fractions,
// yields and instruction splitting.
package parsing

import (
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sosodev/duration"
)

// ErrInvalidDuration is returned by ParseMinutes for empty or malformed input.
var ErrInvalidDuration = errors.New("invalid duration")

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeString trims s and collapses every whitespace run to one space.
func NormalizeString(s string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// SplitToList splits value on sep, normalizes each item and drops empties.
func SplitToList(value, sep string) []string {
	if value == "" {
		return []string{}
	}
	return keepNonEmpty(strings.Split(value, sep))
}

func splitPattern(value string, re *regexp.Regexp) []string {
	if value == "" {
		return []string{}
	}
	return keepNonEmpty(re.Split(value, -1))
}

func keepNonEmpty(parts []string) []string {
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := NormalizeString(p); s != "" {
			items = append(items, s)
		}
	}
	return items
}

// ParseMinutes converts an ISO-8601 duration ("PT1H30M") into whole minutes,
// rounding seconds to the nearest minute.
func ParseMinutes(value string) (int, error) {
	text := strings.ToUpper(strings.TrimSpace(value))
	if text == "" {
		return 0, ErrInvalidDuration
	}
	d, err := duration.Parse(text)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidDuration, "%q: %v", value, err)
	}
	return int(math.Round(d.ToTimeDuration().Seconds() / 60)), nil
}

// HostName returns the host of rawURL, adding an https scheme when missing.
func HostName(rawURL string) (string, error) {
	u, err := ParseURL(rawURL)
	if err != nil {
		return "", err
	}
	return u.Hostname(), nil
}

// ParseURL parses rawURL, assuming https when no scheme is given.
func ParseURL(rawURL string) (*url.URL, error) {
	text := strings.TrimSpace(rawURL)
	if text == "" {
		return nil, errors.New("empty url")
	}
	if !strings.Contains(text, "://") {
		text = "https://" + strings.TrimPrefix(text, "//")
	}
	u, err := url.Parse(text)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid url %q", rawURL)
	}
	if u.Host == "" {
		return nil, errors.Newf("invalid url %q: no host", rawURL)
	}
	return u, nil
}
