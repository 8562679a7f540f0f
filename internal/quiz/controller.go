package quiz

import (
	"context"
	"sync"
)

// Actions a popup click can dispatch. The identifiers double as the
// data-action attribute values on the card's controls.
const (
	ActionReset   = "reset"
	ActionChoose  = "choose"
	ActionAdvance = "next"
)

// Command is one decoded popup interaction. Index is the question index the
// card actually displayed (read back from its data-idx attribute), so a
// command always acts on what the user saw. Choice is only meaningful for
// ActionChoose.
type Command struct {
	Action string `json:"action"`
	Index  int    `json:"idx"`
	Choice int    `json:"choice"`
}

const wrongAnswerMessage = "Not quite — try again."

// Controller interprets popup commands, mutates the progress store and
// returns the re-rendered card. It also owns the transient inline message for
// each open popup: in-memory only, cleared on reset or a correct answer,
// dropped when the popup closes.
type Controller struct {
	store    Store
	renderer *Renderer

	mu       sync.Mutex
	messages map[string]string // profileID + "\x00" + nodeID
}

func NewController(store Store, renderer *Renderer) *Controller {
	return &Controller{
		store:    store,
		renderer: renderer,
		messages: map[string]string{},
	}
}

func (c *Controller) message(profileID, nodeID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messages[profileID+"\x00"+nodeID]
}

func (c *Controller) setMessage(profileID, nodeID, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := profileID + "\x00" + nodeID
	if msg == "" {
		delete(c.messages, key)
		return
	}
	c.messages[key] = msg
}

// OpenCard renders the node's current card without mutating anything.
func (c *Controller) OpenCard(ctx context.Context, profileID string, node KnowledgeNode) string {
	return c.renderer.NodeCard(ctx, profileID, node, c.message(profileID, node.ID))
}

// CloseCard drops the popup-session message. Called when the popup closes;
// persisted progress is untouched.
func (c *Controller) CloseCard(profileID, nodeID string) {
	c.setMessage(profileID, nodeID, "")
}

// Apply runs one command against the node and returns the re-rendered card.
// Malformed commands (unknown action, out-of-range indices, unscorable
// question) degrade to a plain re-render; they never fail.
func (c *Controller) Apply(ctx context.Context, profileID string, node KnowledgeNode, cmd Command) (string, error) {
	questions := node.Questions

	switch cmd.Action {
	case ActionReset:
		if err := c.store.Reset(ctx, profileID, node.ID, len(questions)); err != nil {
			return "", err
		}
		c.setMessage(profileID, node.ID, "")

	case ActionChoose:
		if cmd.Index >= 0 && cmd.Index < len(questions) {
			q := questions[cmd.Index]
			if q.Scorable() {
				if cmd.Choice == *q.Correct {
					if err := c.store.SetAnswered(ctx, profileID, node.ID, cmd.Index); err != nil {
						return "", err
					}
					c.setMessage(profileID, node.ID, "")
				} else {
					c.setMessage(profileID, node.ID, wrongAnswerMessage)
				}
			}
		}

	case ActionAdvance:
		// The control renders disabled until the question is answered, but a
		// forged request must not advance either: re-check the flag here.
		if cmd.Index >= 0 && cmd.Index < len(questions)-1 &&
			c.store.IsAnswered(ctx, profileID, node.ID, cmd.Index) {
			if err := c.store.SetCurrentIndex(ctx, profileID, node.ID, cmd.Index+1); err != nil {
				return "", err
			}
		}
	}

	return c.OpenCard(ctx, profileID, node), nil
}
