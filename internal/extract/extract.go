// Package extract pulls structured records out of model output. Providers
// are asked to respond in JSON but are not guaranteed to comply, so every
// response goes through a three-tier fallback that never fails.
package extract

import (
	"encoding/json"
	"strings"
)

// Sentinel values used when the model response could not be parsed.
const (
	NoContext    = "No structured context available"
	NotAvailable = "N/A"
)

type Kind int

const (
	// Structured means the response parsed (directly or from an embedded
	// JSON object) into a field map.
	Structured Kind = iota
	// Fallback means no JSON could be recovered; only Raw is meaningful.
	Fallback
)

// Result is the outcome of extraction. Raw always holds the original
// response text; Fields is populated only when Kind == Structured.
type Result struct {
	Kind   Kind
	Fields map[string]any
	Raw    string
}

// Parse applies the fallback chain to raw model output:
//  1. direct JSON parse (after stripping code fences)
//  2. parse of the first balanced {...} substring
//  3. fallback carrying the raw text
func Parse(raw string) Result {
	cleaned := StripFences(raw)

	var fields map[string]any
	if err := json.Unmarshal([]byte(cleaned), &fields); err == nil {
		return Result{Kind: Structured, Fields: fields, Raw: raw}
	}

	if obj, ok := firstObject(cleaned); ok {
		fields = nil
		if err := json.Unmarshal([]byte(obj), &fields); err == nil {
			return Result{Kind: Structured, Fields: fields, Raw: raw}
		}
	}

	return Result{Kind: Fallback, Raw: strings.TrimSpace(raw)}
}

// firstObject returns the first balanced top-level {...} substring.
func firstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// StripFences removes markdown code fences that models often wrap JSON in.
func StripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		// drop the language tag line ("json", "JSON", ...)
		firstLine := strings.TrimSpace(trimmed[:idx])
		if len(firstLine) <= 10 && !strings.ContainsAny(firstLine, "{}") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// String returns the named field as a string, or fallback when the field
// is absent or not a string.
func (r Result) String(key, fallback string) string {
	if r.Kind != Structured {
		return fallback
	}
	if v, ok := r.Fields[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// Number returns the named field as a float64 when it is numeric (or a
// numeric string), along with whether a usable number was found.
func (r Result) Number(key string) (float64, bool) {
	if r.Kind != Structured {
		return 0, false
	}
	switch v := r.Fields[key].(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		var f float64
		if err := json.Unmarshal([]byte(v), &f); err == nil {
			return f, true
		}
	}
	return 0, false
}
