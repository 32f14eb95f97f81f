package sweep

import (
	"errors"
	"fmt"

	"mailmop/internal/model"
)

// ErrUnknownSender is returned when a decision is submitted for a sender
// that is not part of the current run.
var ErrUnknownSender = errors.New("unknown sender")

// Review is the pending-decision set for one run, decoupled from how the
// decisions are collected. Groups are presented largest first; each sender
// is shown once and leaves the pending set when a decision is submitted.
type Review struct {
	order     []model.SenderGroup
	pending   map[string]bool
	decisions map[string]model.Decision
}

// NewReview builds a review over the grouped fetch result.
func NewReview(groups map[string]*model.SenderGroup) *Review {
	order := SortGroups(groups)
	pending := make(map[string]bool, len(order))
	for _, g := range order {
		pending[g.Sender] = true
	}
	return &Review{
		order:     order,
		pending:   pending,
		decisions: make(map[string]model.Decision, len(order)),
	}
}

// Pending returns the groups still awaiting a decision, largest first.
func (r *Review) Pending() []model.SenderGroup {
	out := make([]model.SenderGroup, 0, len(r.pending))
	for _, g := range r.order {
		if r.pending[g.Sender] {
			out = append(out, g)
		}
	}
	return out
}

// Groups returns every group under review, largest first, decided or not.
func (r *Review) Groups() []model.SenderGroup {
	out := make([]model.SenderGroup, len(r.order))
	copy(out, r.order)
	return out
}

// Submit records the decision for one sender and removes it from the
// pending set. Re-submitting overwrites the earlier decision.
func (r *Review) Submit(sender string, d model.Decision) error {
	if !d.Valid() {
		return fmt.Errorf("invalid decision %q for %s", d, sender)
	}
	if _, ok := r.pending[sender]; !ok {
		if _, decided := r.decisions[sender]; !decided {
			return fmt.Errorf("%w: %s", ErrUnknownSender, sender)
		}
	}
	r.decisions[sender] = d
	delete(r.pending, sender)
	return nil
}

// Decision reports the current choice for a sender; senders never submitted
// default to skip.
func (r *Review) Decision(sender string) model.Decision {
	if d, ok := r.decisions[sender]; ok {
		return d
	}
	return model.DecisionSkip
}

// Done reports whether every group has been decided.
func (r *Review) Done() bool {
	return len(r.pending) == 0
}

// Decisions returns a snapshot of the submitted decisions.
func (r *Review) Decisions() map[string]model.Decision {
	out := make(map[string]model.Decision, len(r.decisions))
	for k, v := range r.decisions {
		out[k] = v
	}
	return out
}

// DeleteCount reports how many messages the current decisions would trash.
func (r *Review) DeleteCount() int {
	n := 0
	for _, g := range r.order {
		if r.decisions[g.Sender] == model.DecisionDelete {
			n += g.Count
		}
	}
	return n
}
