package sanitizer

import (
	"net/url"
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reKeepIdentifier  = regexp.MustCompile(`[^0-9a-z\-]+`)
	reCollapseHyphens = regexp.MustCompile(`-+`)
	reInnerSpace      = regexp.MustCompile(`\s+`)
)

func trimAndLower(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return s
}

func collapseHyphens(s string) string {
	s = reCollapseHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SanitizeIdentifier normalizes a cabin id such as " Lying_1 " to "lying-1".
func SanitizeIdentifier(input string) string {
	p := Pipeline{
		trimAndLower,
		func(s string) string { return strings.ReplaceAll(s, "_", "-") },
		func(s string) string { return reKeepIdentifier.ReplaceAllString(s, "-") },
		collapseHyphens,
	}
	return p.Apply(input)
}

func SanitizeEmail(input string) string {
	return Pipeline{trimAndLower}.Apply(input)
}

// SanitizeToken strips all whitespace. Used for date and time fields, which
// are validated afterwards against a strict format.
func SanitizeToken(input string) string {
	return reInnerSpace.ReplaceAllString(input, "")
}

func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}

// SanitizeURL trims an endpoint and rejects anything that is not an absolute
// http(s) URL. Path and query are kept as given.
func SanitizeURL(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return ""
	}
	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)

	return u.String()
}
