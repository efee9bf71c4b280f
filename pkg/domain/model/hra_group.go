package model

import "sort"

// HRAGroup collects the HRA records that share one reference, as listed by the mobile screens.
type HRAGroup struct {
	Key     ReferenceID
	Parent  ReferenceID
	HRAIDs  []HRAID
	Records []*HRA
}

// GroupBySubProcess groups records by sub-process, keeping the owning process as Parent.
// Groups are ordered by first appearance; records without a sub-process are skipped.
func GroupBySubProcess(records []*HRA) []*HRAGroup {
	return groupBy(records, func(h *HRA) (ReferenceID, ReferenceID) {
		return h.SubProcessID, h.ProcessID
	})
}

// ActivityKey identifies an activity/sub-activity pair
type ActivityKey struct {
	ActivityID    ReferenceID
	SubActivityID ReferenceID
}

// ActivityGroup collects records sharing an activity/sub-activity pair
type ActivityGroup struct {
	Key     ActivityKey
	Records []*HRA
}

// GroupByActivity groups the records of one sub-process by activity and sub-activity
func GroupByActivity(records []*HRA, subProcessID ReferenceID) []*ActivityGroup {
	index := make(map[ActivityKey]*ActivityGroup)
	var groups []*ActivityGroup
	for _, h := range records {
		if h.SubProcessID != subProcessID {
			continue
		}
		key := ActivityKey{ActivityID: h.ActivityID, SubActivityID: h.SubActivityID}
		g, ok := index[key]
		if !ok {
			g = &ActivityGroup{Key: key}
			index[key] = g
			groups = append(groups, g)
		}
		g.Records = append(g.Records, h)
	}
	return groups
}

func groupBy(records []*HRA, keyOf func(*HRA) (ReferenceID, ReferenceID)) []*HRAGroup {
	index := make(map[ReferenceID]*HRAGroup)
	var groups []*HRAGroup
	for _, h := range records {
		key, parent := keyOf(h)
		if key == 0 {
			continue
		}
		g, ok := index[key]
		if !ok {
			g = &HRAGroup{Key: key, Parent: parent}
			index[key] = g
			groups = append(groups, g)
		}
		g.HRAIDs = append(g.HRAIDs, h.ID)
		g.Records = append(g.Records, h)
	}
	return groups
}

// SortHRAByID orders records by ascending ID in place
func SortHRAByID(records []*HRA) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})
}

// SortHRAIDs orders IDs ascending in place
func SortHRAIDs(ids []HRAID) {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
}
