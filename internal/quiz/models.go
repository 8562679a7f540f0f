package quiz

import "encoding/json"

// Question is one quiz prompt inside a knowledge node. Choices may be empty
// (hint-only question) and Correct may be absent, in which case the question
// cannot be scored and choice clicks are inert.
type Question struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices,omitempty"`
	Correct  *int     `json:"correct,omitempty"`
	Explain  string   `json:"explain,omitempty"`
	Hint     string   `json:"hint,omitempty"`
}

// UnmarshalJSON tolerates a malformed "correct" value (non-integer, string,
// fractional number). Such a question is kept but unscorable rather than
// failing the whole feature decode.
func (q *Question) UnmarshalJSON(b []byte) error {
	type plain Question
	var aux struct {
		plain
		Correct json.RawMessage `json:"correct,omitempty"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*q = Question(aux.plain)
	q.Correct = nil
	if len(aux.Correct) > 0 {
		var n int
		if err := json.Unmarshal(aux.Correct, &n); err == nil {
			q.Correct = &n
		}
	}
	return nil
}

// Scorable reports whether the question has an answer key at all. The key is
// not range-checked: an out-of-range index simply means no click ever matches.
func (q Question) Scorable() bool {
	return q.Correct != nil
}

// KnowledgeNode is the static quiz content of one map point, decoded from the
// feature's property bag. Immutable for the lifetime of the process.
type KnowledgeNode struct {
	ID        string     `json:"id"`
	Title     string     `json:"title,omitempty"`
	Subtitle  string     `json:"subtitle,omitempty"`
	Questions []Question `json:"questions,omitempty"`
}

// NewsItem is the stateless property bag of a positive-news pin.
type NewsItem struct {
	ID         string `json:"id"`
	Title      string `json:"title,omitempty"`
	Date       string `json:"date,omitempty"`
	Summary    string `json:"summary,omitempty"`
	ArticleURL string `json:"article_url,omitempty"`
	WikiURL    string `json:"wiki_url,omitempty"`
	CharityURL string `json:"charity_url,omitempty"`
}
