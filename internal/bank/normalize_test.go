package bank

import (
	"encoding/json"
	"reflect"
	"testing"

	"iqscalar-assessment-service/internal/domain"
)

const iqDocument = `{
  "iq_questions": [
    {"id": "q1", "category": "numerical", "question_text": "2, 4, 6, ?", "options": {"B": "8", "A": "7", "C": "9"}, "answer": "B", "explanation": "step 2"},
    {"id": 2, "category": "verbal", "question_text": "Odd one out", "options": {"A": "cat", "B": "dog", "C": "car"}, "answer": "car"},
    {"id": "q3", "question_text": "No options", "options": {"A": "only"}, "answer": "A"},
    {"id": "q4", "question_text": "", "options": {"A": "x", "B": "y"}, "answer": "A"},
    {"id": "q5", "question_text": "Letter out of range", "options": {"A": "x", "B": "y"}, "answer": "E"},
    {"id": "q6", "question_text": "Unknown literal", "options": {"A": "x", "B": "y"}, "answer": "z"},
    {"id": "q1", "category": "dup", "question_text": "Duplicate", "options": {"A": "x", "B": "y"}, "answer": "A"},
    null,
    {"options": {"A": "x", "B": "y"}, "question_text": "No id or category", "answer": " B "}
  ]
}`

func TestNormalizeLegacyDocument(t *testing.T) {
	questions, dropped, err := Normalize([]byte(iqDocument), "test_")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d: %+v", len(questions), questions)
	}
	if dropped != 5 {
		t.Fatalf("expected 5 dropped, got %d", dropped)
	}

	first := questions[0]
	if first.ID != "q1" || first.Category != "numerical" {
		t.Fatalf("unexpected first question %+v", first)
	}
	if !reflect.DeepEqual(first.Options, []string{"7", "8", "9"}) {
		t.Fatalf("expected letter keys sorted, got %v", first.Options)
	}
	if first.CorrectIndex != 1 || first.AnswerText() != "8" {
		t.Fatalf("expected answer B -> index 1, got %d", first.CorrectIndex)
	}

	second := questions[1]
	if second.ID != "2" || second.CorrectIndex != 2 {
		t.Fatalf("expected numeric id and literal answer match, got %+v", second)
	}

	last := questions[2]
	if last.ID != "test_8" || last.Category != "General" || last.CorrectIndex != 1 {
		t.Fatalf("expected defaults and trimmed letter, got %+v", last)
	}
}

func TestNormalizeDropsUnmatchedLiteralAnswer(t *testing.T) {
	doc := `[{"id": "q1", "question_text": "Odd one out", "options": {"A": "cat", "B": "dog"}, "answer": "car"}]`
	questions, dropped, err := Normalize([]byte(doc), "test_")
	if err != nil || len(questions) != 0 || dropped != 1 {
		t.Fatalf("expected unmatched answer dropped rather than keyed to A, got %+v dropped=%d err=%v", questions, dropped, err)
	}
}

func TestNormalizePracticeAndListShapes(t *testing.T) {
	doc := `{"practice_questions": [
	  {"id": "p1", "category": "Spatial", "question_text": "Rotate", "options": {"A": "left", "B": "right"}, "answer": "A"},
	  {"id": "p2", "category": "Spatial", "question": "Pick", "options": ["one", 2, "two", "three"], "answer": "three"}
	]}`
	questions, dropped, err := Normalize([]byte(doc), "practice_")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if dropped != 0 || len(questions) != 2 {
		t.Fatalf("expected 2 questions and no drops, got %d/%d", len(questions), dropped)
	}
	if !reflect.DeepEqual(questions[1].Options, []string{"one", "two", "three"}) {
		t.Fatalf("expected non-string option skipped, got %v", questions[1].Options)
	}
	if questions[1].CorrectIndex != 2 {
		t.Fatalf("expected literal answer index 2, got %d", questions[1].CorrectIndex)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	first, _, err := Normalize([]byte(iqDocument), "test_")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	encoded, err := json.Marshal(domain.Bank{Kind: domain.BankTest, Questions: first})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, dropped, err := Normalize(encoded, "test_")
	if err != nil {
		t.Fatalf("renormalize: %v", err)
	}
	if dropped != 0 {
		t.Fatalf("expected no drops on round trip, got %d", dropped)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("round trip drifted:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestNormalizeRejectsUnreadableDocument(t *testing.T) {
	cases := map[string]string{
		"not json":       `{"iq_questions": [`,
		"no record list": `{"something": []}`,
		"scalar":         `42`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := Normalize([]byte(doc), "test_"); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestNormalizeAcceptsBareArray(t *testing.T) {
	doc := `[{"id": "a", "question": "Q", "options": ["x", "y"], "answer": "y"}]`
	questions, _, err := Normalize([]byte(doc), "q_")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(questions) != 1 || questions[0].CorrectIndex != 1 {
		t.Fatalf("unexpected result %+v", questions)
	}
}

func TestValid(t *testing.T) {
	cases := []struct {
		name string
		q    domain.Question
		want bool
	}{
		{"ok", domain.Question{Prompt: "p", Options: []string{"a", "b"}, CorrectIndex: 1}, true},
		{"one option", domain.Question{Prompt: "p", Options: []string{"a"}}, false},
		{"empty prompt", domain.Question{Options: []string{"a", "b"}}, false},
		{"negative index", domain.Question{Prompt: "p", Options: []string{"a", "b"}, CorrectIndex: -1}, false},
		{"index past end", domain.Question{Prompt: "p", Options: []string{"a", "b"}, CorrectIndex: 2}, false},
	}
	for _, tc := range cases {
		if got := Valid(tc.q); got != tc.want {
			t.Errorf("%s: Valid = %v, want %v", tc.name, got, tc.want)
		}
	}
}
