package bank

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strings"
)

// answerLetters maps letter answer keys to option indexes.
var answerLetters = []string{"A", "B", "C", "D", "E"}

// documentKeys are the top-level fields a bank document may list its records under.
var documentKeys = []string{"iq_questions", "practice_questions", "questions"}

var errNoQuestions = errors.New("document has no question list")

type optionsKind int

const (
	optionsNone optionsKind = iota
	optionsList
	optionsLetterMap
)

// OptionsShape is the union of option encodings found in raw banks: an
// ordered list, or a map from answer letter to option text. It is resolved
// to a plain list once, during normalization.
type OptionsShape struct {
	kind    optionsKind
	list    []string
	letters map[string]string
}

// ListOptions builds a list-shaped option set.
func ListOptions(opts ...string) OptionsShape {
	return OptionsShape{kind: optionsList, list: opts}
}

// LetterOptions builds a letter-keyed option set.
func LetterOptions(letters map[string]string) OptionsShape {
	return OptionsShape{kind: optionsLetterMap, letters: letters}
}

// UnmarshalJSON accepts either a JSON array or an object. Non-string values are skipped.
func (o *OptionsShape) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*o = OptionsShape{}
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		list := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := asString(item); ok {
				list = append(list, s)
			}
		}
		o.kind, o.list = optionsList, list
	case '{':
		var items map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		letters := make(map[string]string, len(items))
		for k, item := range items {
			if s, ok := asString(item); ok {
				letters[k] = s
			}
		}
		o.kind, o.letters = optionsLetterMap, letters
	}
	return nil
}

// Values resolves the shape to an ordered list. Letter keys are sorted lexicographically.
func (o OptionsShape) Values() []string {
	switch o.kind {
	case optionsList:
		return append([]string(nil), o.list...)
	case optionsLetterMap:
		keys := make([]string, 0, len(o.letters))
		for k := range o.letters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		values := make([]string, 0, len(keys))
		for _, k := range keys {
			values = append(values, o.letters[k])
		}
		return values
	default:
		return nil
	}
}

// rawQuestion covers the legacy IQ bank, the practice bank and the normalized shape.
type rawQuestion struct {
	ID           json.RawMessage `json:"id"`
	Category     string          `json:"category"`
	QuestionText string          `json:"question_text"`
	Question     string          `json:"question"`
	Prompt       string          `json:"prompt"`
	Options      OptionsShape    `json:"options"`
	Answer       json.RawMessage `json:"answer"`
	CorrectIndex *int            `json:"correctIndex"`
	Explanation  string          `json:"explanation"`
}

func (r rawQuestion) prompt() string {
	switch {
	case r.QuestionText != "":
		return r.QuestionText
	case r.Question != "":
		return r.Question
	default:
		return r.Prompt
	}
}

// id returns the record's identifier as a string, or "" when absent.
func (r rawQuestion) id() string {
	if s, ok := asString(r.ID); ok {
		return s
	}
	trimmed := bytes.TrimSpace(r.ID)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err == nil {
		return n.String()
	}
	return ""
}

// correctIndex resolves the answer key against options; -1 when it cannot be resolved.
func (r rawQuestion) correctIndex(options []string) int {
	if r.CorrectIndex != nil {
		return *r.CorrectIndex
	}
	if answer, ok := asString(r.Answer); ok {
		return resolveAnswer(answer, options)
	}
	var n int
	if trimmed := bytes.TrimSpace(r.Answer); len(trimmed) > 0 && json.Unmarshal(trimmed, &n) == nil {
		return n
	}
	return -1
}

func resolveAnswer(answer string, options []string) int {
	letter := strings.TrimSpace(answer)
	for i, l := range answerLetters {
		if l == letter {
			return i
		}
	}
	for i, opt := range options {
		if opt == answer {
			return i
		}
	}
	return -1
}

// parseDocument returns the raw record list of a bank document.
func parseDocument(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []json.RawMessage
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	for _, key := range documentKeys {
		raw, ok := doc[key]
		if !ok {
			continue
		}
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	}
	return nil, errNoQuestions
}

func asString(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}
