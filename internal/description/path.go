package description

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"semantic-mapper/internal/resource"
)

// ParsePath parses a path expression into a resource path.
// Supports: "$", ".key", "[\"key\"]", "['key']", "[3]", "[*]",
// "[start:end:step]" with every part optional and a negative end counted
// from the container length.
func ParsePath(expr string) (resource.Path, error) {
	if expr == "" {
		return resource.Path{}, errors.New("empty path")
	}

	if expr[0] != '$' {
		return resource.Path{}, fmt.Errorf("invalid path %q: must start with $", expr)
	}

	var steps []resource.Step

	rest := expr[1:]

	for rest != "" {
		var (
			step resource.Step
			err  error
		)

		switch rest[0] {
		case '.':
			step, rest, err = parseKey(rest[1:])
		case '[':
			step, rest, err = parseBracket(rest[1:])
		default:
			err = fmt.Errorf("unexpected %q", rest[0])
		}

		if err != nil {
			return resource.Path{}, fmt.Errorf("invalid path %q: %w", expr, err)
		}

		steps = append(steps, step)
	}

	return resource.NewPath(steps...), nil
}

// parseKey reads a dotted key up to the next step.
func parseKey(s string) (resource.Step, string, error) {
	end := strings.IndexAny(s, ".[")
	if end < 0 {
		end = len(s)
	}

	key := s[:end]
	if key == "" {
		return resource.Step{}, "", errors.New("empty key after '.'")
	}

	if key == "*" {
		return resource.RangeStep(0, 1), s[end:], nil
	}

	return resource.IndexStep(resource.StrIndex(key)), s[end:], nil
}

// parseBracket reads the content of a bracket step, s starting after '['.
func parseBracket(s string) (resource.Step, string, error) {
	if s != "" && (s[0] == '"' || s[0] == '\'') {
		return parseQuoted(s)
	}

	end := strings.IndexByte(s, ']')
	if end < 0 {
		return resource.Step{}, "", errors.New("unterminated '['")
	}

	body, rest := strings.TrimSpace(s[:end]), s[end+1:]

	switch {
	case body == "*":
		return resource.RangeStep(0, 1), rest, nil
	case strings.Contains(body, ":"):
		step, err := parseRange(body)
		return step, rest, err
	default:
		i, err := strconv.Atoi(body)
		if err != nil || i < 0 {
			return resource.Step{}, "", fmt.Errorf("invalid index %q", body)
		}

		return resource.IndexStep(resource.IntIndex(i)), rest, nil
	}
}

func parseQuoted(s string) (resource.Step, string, error) {
	quote := s[0]

	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			raw := s[:i+1]
			if !strings.HasPrefix(s[i+1:], "]") {
				return resource.Step{}, "", fmt.Errorf("expected ']' after %s", raw)
			}

			key := raw[1 : len(raw)-1]
			if quote == '"' {
				unq, err := strconv.Unquote(raw)
				if err != nil {
					return resource.Step{}, "", fmt.Errorf("invalid key %s", raw)
				}

				key = unq
			}

			return resource.IndexStep(resource.StrIndex(key)), s[i+2:], nil
		}
	}

	return resource.Step{}, "", errors.New("unterminated quoted key")
}

// parseRange parses "start:end" or "start:end:step".
func parseRange(body string) (resource.Step, error) {
	parts := strings.Split(body, ":")
	if len(parts) > 3 {
		return resource.Step{}, fmt.Errorf("invalid range %q", body)
	}

	num := func(s string, def int) (int, bool, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return def, false, nil
		}

		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, false, fmt.Errorf("invalid range %q", body)
		}

		return n, true, nil
	}

	start, _, err := num(parts[0], 0)
	if err != nil {
		return resource.Step{}, err
	}

	if start < 0 {
		return resource.Step{}, fmt.Errorf("invalid range %q: negative start", body)
	}

	end, hasEnd, err := num(parts[1], 0)
	if err != nil {
		return resource.Step{}, err
	}

	stride := 1

	if len(parts) == 3 {
		if stride, _, err = num(parts[2], 1); err != nil {
			return resource.Step{}, err
		}

		if stride <= 0 {
			return resource.Step{}, fmt.Errorf("invalid range %q: step must be positive", body)
		}
	}

	if hasEnd {
		return resource.BoundedRangeStep(start, end, stride), nil
	}

	return resource.RangeStep(start, stride), nil
}
