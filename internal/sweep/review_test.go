package sweep

import (
	"errors"
	"testing"

	"mailmop/internal/model"
)

func reviewFixture() *Review {
	return NewReview(map[string]*model.SenderGroup{
		"a@x.com": {Sender: "a@x.com", Count: 3},
		"b@y.com": {Sender: "b@y.com", Count: 1},
	})
}

func TestReview_PendingOrderAndSubmit(t *testing.T) {
	r := reviewFixture()

	pending := r.Pending()
	if len(pending) != 2 || pending[0].Sender != "a@x.com" {
		t.Fatalf("pending = %+v, want a@x.com first", pending)
	}
	if r.Done() {
		t.Fatal("review done before any decision")
	}

	if err := r.Submit("a@x.com", model.DecisionDelete); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := r.Pending(); len(got) != 1 || got[0].Sender != "b@y.com" {
		t.Fatalf("pending after submit = %+v", got)
	}

	if err := r.Submit("b@y.com", model.DecisionSkip); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !r.Done() {
		t.Fatal("review not done after all decisions")
	}

	d := r.Decisions()
	if d["a@x.com"] != model.DecisionDelete || d["b@y.com"] != model.DecisionSkip {
		t.Fatalf("decisions = %v", d)
	}
}

func TestReview_Resubmit(t *testing.T) {
	r := reviewFixture()
	if err := r.Submit("a@x.com", model.DecisionDelete); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := r.Submit("a@x.com", model.DecisionSkip); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if r.Decision("a@x.com") != model.DecisionSkip {
		t.Fatal("resubmit did not overwrite decision")
	}
}

func TestReview_Rejections(t *testing.T) {
	r := reviewFixture()
	if err := r.Submit("nobody@nowhere", model.DecisionDelete); !errors.Is(err, ErrUnknownSender) {
		t.Fatalf("unknown sender error = %v", err)
	}
	if err := r.Submit("a@x.com", model.Decision("purge")); err == nil {
		t.Fatal("invalid decision accepted")
	}
}

func TestReview_DefaultIsSkip(t *testing.T) {
	r := reviewFixture()
	if r.Decision("a@x.com") != model.DecisionSkip {
		t.Fatal("undecided sender should default to skip")
	}
	if r.DeleteCount() != 0 {
		t.Fatal("nothing marked delete yet")
	}
	r.Submit("a@x.com", model.DecisionDelete)
	if r.DeleteCount() != 3 {
		t.Fatalf("DeleteCount = %d, want 3", r.DeleteCount())
	}
}
