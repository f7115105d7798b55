// Package extract holds the field-level parsing rules module parsers apply to
// raw element text.
//
// Extractors come in two tiers. Soft extractors return (value, ok) and never
// fail: bad input just leaves the field unset. Hard extractors return an error
// the caller must propagate, which aborts the parse of the whole element.
package extract

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrUnknownValue    = errors.New("unknown value")
	ErrInvalidDuration = errors.New("invalid duration")
)

// Normalize trims s and lower-cases it. A Caser is stateful, so each call
// gets its own.
func Normalize(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// URL parses trimmed text as an absolute URL. Malformed input is reported to
// diag and yields ok == false.
func URL(field, raw string, diag *Diagnostics) (*url.URL, bool) {
	text := strings.TrimSpace(raw)
	u, err := parseStrictURL(text)
	if err != nil {
		diag.Report(field, text, err)
		return nil, false
	}
	return u, true
}

// knownProtocols maps each accepted scheme to whether it requires a host.
var knownProtocols = map[string]bool{
	"http":   true,
	"https":  true,
	"ftp":    true,
	"file":   false,
	"jar":    false,
	"mailto": false,
}

func parseStrictURL(text string) (*url.URL, error) {
	if text == "" {
		return nil, errors.New("empty URL")
	}
	u, err := url.Parse(text)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("no protocol: %s", text)
	}
	needsHost, known := knownProtocols[strings.ToLower(u.Scheme)]
	if !known {
		return nil, fmt.Errorf("unknown protocol: %s", u.Scheme)
	}
	if needsHost && u.Host == "" {
		return nil, fmt.Errorf("missing host: %s", text)
	}
	return u, nil
}

// Flag reports whether text is "yes", ignoring case and surrounding space.
// Everything else, "no" and "true" included, is false.
func Flag(raw string) bool {
	return Normalize(raw) == "yes"
}

// Int parses trimmed text as a base 10 integer.
func Int(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Tokens splits text on commas, keeping empty tokens and the whitespace
// around each token. Empty text yields an empty list.
func Tokens(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, ",")
}

// Enum looks up the normalized text in vocab. Unrecognized text is a hard
// failure wrapping ErrUnknownValue.
func Enum[T any](field, raw string, vocab map[string]T) (T, error) {
	key := Normalize(raw)
	v, ok := vocab[key]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: %w %q", field, ErrUnknownValue, key)
	}
	return v, nil
}
