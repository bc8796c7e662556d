package services

import (
	"bytes"
	"encoding/json"
	"strconv"

	types "github.com/JithuMorrison/Lingzee/internal/domain"
)

// QuizPassScore is the minimum score (inclusive) that passes a quiz.
const QuizPassScore = 80.0

type QuizResult struct {
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Score   float64 `json:"score"`
	Passed  bool    `json:"passed"`
}

// GradeQuiz scores answers against questions. answers is keyed by question
// index ("0", "1", ...); each value is a label or a list of labels, where a
// label is an option index (JSON number) or typed text (JSON string). A
// question counts only when the submitted set equals its correct set exactly.
func GradeQuiz(questions []types.Question, answers map[string]json.RawMessage) (*QuizResult, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyQuiz
	}
	correct := 0
	for i, q := range questions {
		want := labelSet(q.CorrectAnswers)
		got := labelSet(splitAnswer(answers[strconv.Itoa(i)]))
		if sameSet(want, got) {
			correct++
		}
	}
	score := float64(correct) / float64(len(questions)) * 100
	return &QuizResult{
		Correct: correct,
		Total:   len(questions),
		Score:   score,
		Passed:  score >= QuizPassScore,
	}, nil
}

// splitAnswer expands a submitted answer into its labels. A scalar is a
// one-element set; null or absent is the empty set.
func splitAnswer(raw json.RawMessage) []json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			return items
		}
		return nil
	}
	return []json.RawMessage{raw}
}

func labelSet(items []json.RawMessage) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		if label, ok := normalizeLabel(it); ok {
			out[label] = struct{}{}
		}
	}
	return out
}

// normalizeLabel renders a label in canonical string form so that 1, 1.0 and
// "1" compare equal.
func normalizeLabel(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case 'n':
		return "", false
	case 't', 'f':
		return string(raw), true
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return "", false
		}
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
