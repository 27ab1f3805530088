package urlnorm

import (
	"net/url"
	"strings"
)

// Param is a single query name/value pair. Order is preserved and the same
// name may appear more than once; each pair is independent.
type Param struct {
	Name  string
	Value string
}

// URL is the parsed form of an absolute URL.
type URL struct {
	Scheme   string
	Host     string
	Port     string
	Path     string
	Params   []Param
	Fragment string
}

// Parse splits a raw string into its URL components. Any string that is not
// a syntactically valid absolute URL fails with *MalformedURLError.
func Parse(raw string) (*URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &MalformedURLError{URL: raw}
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, &MalformedURLError{URL: raw, Cause: err}
	}
	if !parsed.IsAbs() || parsed.Hostname() == "" {
		return nil, &MalformedURLError{URL: raw}
	}

	return &URL{
		Scheme:   strings.ToLower(parsed.Scheme),
		Host:     parsed.Hostname(),
		Port:     parsed.Port(),
		Path:     parsed.Path,
		Params:   parseParams(parsed.RawQuery),
		Fragment: parsed.Fragment,
	}, nil
}

// parseParams decodes a raw query string into ordered name/value pairs.
// Pairs that fail percent-decoding are dropped rather than failing the parse.
func parseParams(rawQuery string) []Param {
	if rawQuery == "" {
		return nil
	}

	var params []Param
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		decodedName, err := url.QueryUnescape(name)
		if err != nil || decodedName == "" {
			continue
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		params = append(params, Param{Name: decodedName, Value: decodedValue})
	}
	return params
}

// Param returns the first value for the named query parameter.
func (u *URL) Param(name string) (string, bool) {
	for _, p := range u.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// String reconstructs a syntactically valid absolute URL.
func (u *URL) String() string {
	var sb strings.Builder

	sb.WriteString(u.Scheme)
	sb.WriteString("://")
	sb.WriteString(u.Host)
	if u.Port != "" {
		sb.WriteString(":")
		sb.WriteString(u.Port)
	}
	if u.Path != "" && !strings.HasPrefix(u.Path, "/") {
		sb.WriteString("/")
	}
	sb.WriteString((&url.URL{Path: u.Path}).EscapedPath())

	if len(u.Params) > 0 {
		sb.WriteString("?")
		for i, p := range u.Params {
			if i > 0 {
				sb.WriteString("&")
			}
			sb.WriteString(url.QueryEscape(p.Name))
			sb.WriteString("=")
			sb.WriteString(url.QueryEscape(p.Value))
		}
	}

	if u.Fragment != "" {
		sb.WriteString("#")
		sb.WriteString(url.PathEscape(u.Fragment))
	}

	return sb.String()
}
