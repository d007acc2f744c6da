package extract

import (
	"testing"
)

func TestParseDirectJSON(t *testing.T) {
	result := Parse(`{"score": 8, "feedback": "ok"}`)

	if result.Kind != Structured {
		t.Fatalf("expected structured result, got %v", result.Kind)
	}
	if score, ok := result.Number("score"); !ok || score != 8 {
		t.Fatalf("expected score 8, got %v (ok=%v)", score, ok)
	}
	if result.String("feedback", "") != "ok" {
		t.Fatalf("expected feedback 'ok', got %q", result.String("feedback", ""))
	}
}

func TestParseEmbeddedObject(t *testing.T) {
	result := Parse(`Sure! {"score": 7} hope that helps`)

	if result.Kind != Structured {
		t.Fatalf("expected structured result from embedded object")
	}
	if score, ok := result.Number("score"); !ok || score != 7 {
		t.Fatalf("expected score 7, got %v (ok=%v)", score, ok)
	}
}

func TestParseNoJSONFallsBack(t *testing.T) {
	result := Parse("no json here")

	if result.Kind != Fallback {
		t.Fatalf("expected fallback result")
	}
	if result.Raw != "no json here" {
		t.Fatalf("raw text not preserved: %q", result.Raw)
	}
	if result.String("feedback", NotAvailable) != NotAvailable {
		t.Fatalf("expected sentinel for missing field")
	}
}

func TestParseFencedJSON(t *testing.T) {
	raw := "```json\n{\"question\": \"What is a goroutine?\"}\n```"
	result := Parse(raw)

	if result.Kind != Structured {
		t.Fatalf("expected structured result from fenced JSON")
	}
	if got := result.String("question", ""); got != "What is a goroutine?" {
		t.Fatalf("unexpected question: %q", got)
	}
}

func TestParseNestedObject(t *testing.T) {
	result := Parse(`prefix {"outer": {"inner": 1}, "feedback": "good"} suffix`)

	if result.Kind != Structured {
		t.Fatalf("expected structured result")
	}
	if result.String("feedback", "") != "good" {
		t.Fatalf("nested object broke extraction")
	}
}

func TestParseBraceInsideString(t *testing.T) {
	result := Parse(`{"feedback": "use {} literals", "score": 5}`)

	if result.Kind != Structured {
		t.Fatalf("expected structured result")
	}
	if score, ok := result.Number("score"); !ok || score != 5 {
		t.Fatalf("brace inside string broke parsing")
	}
}

func TestParseMalformedEmbeddedObject(t *testing.T) {
	result := Parse(`here is some {not: valid json} text`)

	if result.Kind != Fallback {
		t.Fatalf("expected fallback for unparseable object")
	}
}

func TestNumberFromString(t *testing.T) {
	result := Parse(`{"score": "9"}`)

	score, ok := result.Number("score")
	if !ok || score != 9 {
		t.Fatalf("expected numeric string to parse, got %v (ok=%v)", score, ok)
	}
}

func TestNumberMissing(t *testing.T) {
	result := Parse(`{"score": "excellent"}`)

	if _, ok := result.Number("score"); ok {
		t.Fatalf("non-numeric score must not parse")
	}
}

func TestStripFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
		{"  plain text  ", "plain text"},
	}
	for _, tc := range cases {
		if got := StripFences(tc.in); got != tc.want {
			t.Errorf("StripFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
