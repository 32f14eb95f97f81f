package sweep

import (
	"sort"

	"mailmop/internal/model"
	"mailmop/internal/util"
)

// GroupBySender buckets emails by normalized sender. Pure: no error
// conditions, an empty input yields an empty map. Each email lands in
// exactly one group and per-group order follows fetch order.
func GroupBySender(emails []model.Email) map[string]*model.SenderGroup {
	groups := make(map[string]*model.SenderGroup)
	for _, e := range emails {
		sender := util.NormalizeSender(e.Sender)
		g, ok := groups[sender]
		if !ok {
			g = &model.SenderGroup{Sender: sender}
			groups[sender] = g
		}
		g.Emails = append(g.Emails, e)
		g.Count++
	}
	return groups
}

// SortGroups flattens a group map into a slice ordered by Count descending,
// ties broken by sender ascending for a stable presentation.
func SortGroups(groups map[string]*model.SenderGroup) []model.SenderGroup {
	out := make([]model.SenderGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Sender < out[j].Sender
		}
		return out[i].Count > out[j].Count
	})
	return out
}
