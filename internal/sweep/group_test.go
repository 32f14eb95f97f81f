package sweep

import (
	"testing"

	"mailmop/internal/model"
)

func TestGroupBySender_Partition(t *testing.T) {
	emails := []model.Email{
		{ID: "1", Sender: "Alice <A@X.com>"},
		{ID: "2", Sender: "a@x.com"},
		{ID: "3", Sender: "Bob <b@y.com>"},
		{ID: "4", Sender: "Mailer Daemon"},
	}

	groups := GroupBySender(emails)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	// Every email belongs to exactly one group and counts sum to the total.
	total := 0
	seen := make(map[string]bool)
	for _, g := range groups {
		if g.Count != len(g.Emails) {
			t.Errorf("group %s count %d != len %d", g.Sender, g.Count, len(g.Emails))
		}
		total += g.Count
		for _, e := range g.Emails {
			if seen[e.ID] {
				t.Errorf("email %s appears in more than one group", e.ID)
			}
			seen[e.ID] = true
		}
	}
	if total != len(emails) {
		t.Errorf("sum of counts = %d, want %d", total, len(emails))
	}

	g := groups["a@x.com"]
	if g == nil || g.Count != 2 {
		t.Fatalf("a@x.com group = %+v", g)
	}
	// Per-group order follows fetch order.
	if g.Emails[0].ID != "1" || g.Emails[1].ID != "2" {
		t.Errorf("group order = %s,%s", g.Emails[0].ID, g.Emails[1].ID)
	}

	if _, ok := groups["mailer daemon"]; !ok {
		t.Error("address-less sender not keyed by trimmed lower-cased string")
	}
}

func TestGroupBySender_Empty(t *testing.T) {
	if groups := GroupBySender(nil); len(groups) != 0 {
		t.Fatalf("expected empty map, got %d entries", len(groups))
	}
}

func TestSortGroups(t *testing.T) {
	groups := map[string]*model.SenderGroup{
		"b@y.com": {Sender: "b@y.com", Count: 2},
		"a@x.com": {Sender: "a@x.com", Count: 5},
		"c@z.com": {Sender: "c@z.com", Count: 2},
	}
	out := SortGroups(groups)
	want := []string{"a@x.com", "b@y.com", "c@z.com"}
	for i, w := range want {
		if out[i].Sender != w {
			t.Fatalf("order[%d] = %s, want %s", i, out[i].Sender, w)
		}
	}
}
