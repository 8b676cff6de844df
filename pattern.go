package maw

import (
	"fmt"
	"strings"
)

// segmentKind identifies how a single pattern segment matches a path component.
type segmentKind int

const (
	segLiteral segmentKind = iota
	segParam
	segWildcard
)

// WildcardKey is the params key under which a trailing wildcard stores the
// remainder of the matched path.
const WildcardKey = "*"

type segment struct {
	kind segmentKind
	// literal text for segLiteral, param name for segParam
	value string
}

// Pattern is the compiled, immutable form of a route path template such as
// /user/{id} or /static/*. Compile once at build time, match per request.
type Pattern struct {
	raw      string
	segments []segment
	wildcard bool
}

// CompilePattern parses a path template into a Pattern.
//
// Templates are split on '/'. A segment wrapped in '{' and '}' captures
// exactly one path component under its name. A segment equal to "*" captures
// the remaining path and must be last. Everything else matches literally,
// case-sensitive.
func CompilePattern(raw string) (*Pattern, error) {
	if len(raw) == 0 || raw[0] != '/' {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, raw)
	}

	parts := strings.Split(raw[1:], "/")
	p := &Pattern{raw: raw, segments: make([]segment, 0, len(parts))}
	seen := make(map[string]struct{}, len(parts))

	for i, part := range parts {
		switch {
		case part == WildcardKey:
			if i != len(parts)-1 {
				return nil, fmt.Errorf("%w: %q", ErrWildcardPosition, raw)
			}
			p.wildcard = true
			p.segments = append(p.segments, segment{kind: segWildcard})

		case strings.HasPrefix(part, "{"):
			if !strings.HasSuffix(part, "}") {
				return nil, fmt.Errorf("%w: %q", ErrParamDelimiter, raw)
			}
			name := part[1 : len(part)-1]
			if name == "" {
				return nil, fmt.Errorf("%w: %q", ErrEmptyParam, raw)
			}
			if _, dup := seen[name]; dup {
				return nil, fmt.Errorf("%w: %q in %q", ErrDuplicateParam, name, raw)
			}
			seen[name] = struct{}{}
			p.segments = append(p.segments, segment{kind: segParam, value: name})

		default:
			if strings.Contains(part, "}") {
				return nil, fmt.Errorf("%w: %q", ErrParamDelimiter, raw)
			}
			p.segments = append(p.segments, segment{kind: segLiteral, value: part})
		}
	}

	return p, nil
}

// MustCompilePattern is CompilePattern that panics on error. Intended for
// package-level route constants in tests and examples.
func MustCompilePattern(raw string) *Pattern {
	p, err := CompilePattern(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether path satisfies the pattern and returns the captured
// parameters. The returned map is nil when the pattern captures nothing.
// Match is a pure function of (pattern, path).
func (p *Pattern) Match(path string) (map[string]string, bool) {
	if len(path) == 0 || path[0] != '/' {
		return nil, false
	}

	parts := strings.Split(path[1:], "/")
	if p.wildcard {
		// Wildcard consumes at least zero components after the prefix.
		if len(parts) < len(p.segments)-1 {
			return nil, false
		}
	} else if len(parts) != len(p.segments) {
		return nil, false
	}

	var params map[string]string
	capture := func(key, val string) {
		if params == nil {
			params = make(map[string]string)
		}
		params[key] = val
	}

	for i, seg := range p.segments {
		switch seg.kind {
		case segLiteral:
			if parts[i] != seg.value {
				return nil, false
			}
		case segParam:
			capture(seg.value, parts[i])
		case segWildcard:
			// len(parts) >= len(segments)-1 is already established, so the
			// slice below is valid even when nothing remains to consume.
			capture(WildcardKey, strings.Join(parts[i:], "/"))
			return params, true
		}
	}

	return params, true
}

// String returns the original template the pattern was compiled from.
func (p *Pattern) String() string {
	return p.raw
}

// ParamNames returns the named parameters in declaration order, excluding the
// wildcard.
func (p *Pattern) ParamNames() []string {
	var names []string
	for _, seg := range p.segments {
		if seg.kind == segParam {
			names = append(names, seg.value)
		}
	}
	return names
}

// HasWildcard reports whether the pattern ends with a wildcard segment.
func (p *Pattern) HasWildcard() bool {
	return p.wildcard
}
