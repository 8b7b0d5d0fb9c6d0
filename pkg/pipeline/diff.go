package pipeline

import "sort"

// StaleRows maps persisted identifiers that are absent from the incoming
// set to their 1-based sheet rows. Index i of the snapshot lives on row
// startRow+i; that mapping is fixed at snapshot time and stays valid only
// if deletes are applied bottom-up, so the rows come back in descending
// order.
func StaleRows(persisted, incoming []string, startRow int) []int {
	incomingSet := make(map[string]struct{}, len(incoming))
	for _, id := range incoming {
		incomingSet[id] = struct{}{}
	}

	var rows []int
	for i, id := range persisted {
		if _, ok := incomingSet[id]; !ok {
			rows = append(rows, startRow+i)
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(rows)))
	return rows
}

func containsID(persisted []string, id string) bool {
	for _, p := range persisted {
		if p == id {
			return true
		}
	}
	return false
}
