package quiz

import (
	"context"
	"fmt"
	"html"
	"strings"
)

// Renderer turns a knowledge node plus the current store state into the popup
// card fragment. Rendering is pure given the feature data and store contents;
// the store is only read, never mutated.
type Renderer struct {
	store Store
}

func NewRenderer(store Store) *Renderer {
	return &Renderer{store: store}
}

func clampIndex(raw, questionCount int) int {
	max := questionCount - 1
	if max < 0 {
		max = 0
	}
	if raw > max {
		return max
	}
	if raw < 0 {
		return 0
	}
	return raw
}

// NodeCard renders the card for the question currently shown for the node.
// message is the transient inline notice for this popup session (may be "").
// All user-supplied text is escaped before insertion.
func (r *Renderer) NodeCard(ctx context.Context, profileID string, node KnowledgeNode, message string) string {
	questions := node.Questions
	idx := clampIndex(r.store.CurrentIndex(ctx, profileID, node.ID), len(questions))
	answered := r.store.IsAnswered(ctx, profileID, node.ID, idx)

	var q Question
	if idx < len(questions) {
		q = questions[idx]
	}

	done := idx >= len(questions)-1 // true for the last question and for zero questions
	canAdvance := answered && !done

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="pc-card" data-node="%s" data-idx="%d">`,
		html.EscapeString(node.ID), idx)

	title := node.Title
	if title == "" {
		title = "Knowledge Node"
	}
	fmt.Fprintf(&b, `<div class="pc-title">%s</div>`, html.EscapeString(title))
	if node.Subtitle != "" {
		fmt.Fprintf(&b, `<div class="pc-subtitle">%s</div>`, html.EscapeString(node.Subtitle))
	}

	if len(questions) == 0 {
		b.WriteString(`<div class="pc-question pc-empty">No questions yet.</div>`)
	} else {
		fmt.Fprintf(&b, `<div class="pc-qmeta">Question %d of %d</div>`, idx+1, len(questions))
		fmt.Fprintf(&b, `<div class="pc-question">%s</div>`, html.EscapeString(q.Question))
	}

	if message != "" {
		fmt.Fprintf(&b, `<div class="pc-msg">%s</div>`, html.EscapeString(message))
	}

	if len(questions) > 0 {
		if len(q.Choices) > 0 {
			b.WriteString(`<div class="pc-choices">`)
			for i, c := range q.Choices {
				disabled := ""
				if answered {
					disabled = " disabled"
				}
				fmt.Fprintf(&b, `<button class="pc-choice" data-action="choose" data-choice="%d"%s>%s</button>`,
					i, disabled, html.EscapeString(c))
			}
			b.WriteString(`</div>`)
		} else {
			hint := q.Hint
			if hint == "" {
				hint = "No answer choices yet."
			}
			fmt.Fprintf(&b, `<div class="pc-hint">%s</div>`, html.EscapeString(hint))
		}
		if answered && q.Explain != "" {
			fmt.Fprintf(&b, `<div class="pc-explain"><b>Explanation:</b> %s</div>`, html.EscapeString(q.Explain))
		}
	}

	label := "Next"
	if done {
		label = "Completed"
	}
	advanceAttr := " disabled"
	if canAdvance {
		advanceAttr = ""
	}
	b.WriteString(`<div class="pc-actions">`)
	b.WriteString(`<button class="pc-btn" data-action="reset">Reset</button>`)
	fmt.Fprintf(&b, `<button class="pc-btn pc-primary" data-action="next"%s>%s</button>`, advanceAttr, label)
	b.WriteString(`</div>`)

	b.WriteString(`</div>`)
	return b.String()
}

// NewsCard renders the static popup for a positive-news pin. No state, no
// interaction loop; link URLs are attribute-escaped like every other field.
func (r *Renderer) NewsCard(item NewsItem) string {
	var b strings.Builder
	b.WriteString(`<div class="pc-card">`)

	title := item.Title
	if title == "" {
		title = "Positive news"
	}
	fmt.Fprintf(&b, `<div class="pc-title">%s</div>`, html.EscapeString(title))
	if item.Date != "" {
		fmt.Fprintf(&b, `<div class="pc-qmeta">%s</div>`, html.EscapeString(item.Date))
	}
	fmt.Fprintf(&b, `<div class="pc-question">%s</div>`, html.EscapeString(item.Summary))

	b.WriteString(`<div class="pc-actions pc-wrap">`)
	writeNewsLink(&b, item.ArticleURL, "pc-btn pc-primary", "Read article")
	writeNewsLink(&b, item.WikiURL, "pc-btn", "Wikipedia")
	writeNewsLink(&b, item.CharityURL, "pc-btn", "How to help")
	b.WriteString(`</div>`)

	b.WriteString(`</div>`)
	return b.String()
}

func writeNewsLink(b *strings.Builder, url, class, label string) {
	if url == "" {
		return
	}
	fmt.Fprintf(b, `<a class="%s" href="%s" target="_blank" rel="noopener">%s</a>`,
		class, html.EscapeString(url), label)
}
