package quiz_test

import (
	"encoding/json"
	"testing"

	"github.com/placequest/placequest/internal/quiz"
)

func TestQuestionUnmarshalLenientCorrect(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want *int
	}{
		{"integer", `{"question":"q","choices":["a","b"],"correct":1}`, intp(1)},
		{"absent", `{"question":"q","choices":["a","b"]}`, nil},
		{"string", `{"question":"q","correct":"1"}`, nil},
		{"fractional", `{"question":"q","correct":1.5}`, nil},
		{"null", `{"question":"q","correct":null}`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var q quiz.Question
			if err := json.Unmarshal([]byte(tc.in), &q); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			switch {
			case tc.want == nil && q.Correct != nil:
				t.Fatalf("Correct = %d, want nil", *q.Correct)
			case tc.want != nil && (q.Correct == nil || *q.Correct != *tc.want):
				t.Fatalf("Correct = %v, want %d", q.Correct, *tc.want)
			}
		})
	}
}

func TestKnowledgeNodeUnmarshal(t *testing.T) {
	raw := `{
		"id": "n1",
		"title": "Old Depot",
		"subtitle": "Railroad history",
		"questions": [
			{"question": "q1", "choices": ["a","b"], "correct": 0, "explain": "because"},
			{"question": "q2", "hint": "look east"}
		]
	}`
	var node quiz.KnowledgeNode
	if err := json.Unmarshal([]byte(raw), &node); err != nil {
		t.Fatal(err)
	}
	if node.ID != "n1" || len(node.Questions) != 2 {
		t.Fatalf("bad decode: %+v", node)
	}
	if !node.Questions[0].Scorable() {
		t.Error("question 0 should be scorable")
	}
	if node.Questions[1].Scorable() {
		t.Error("hint-only question should be unscorable")
	}
	if node.Questions[1].Hint != "look east" {
		t.Errorf("hint = %q", node.Questions[1].Hint)
	}
}
