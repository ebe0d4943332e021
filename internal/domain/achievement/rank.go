package achievement

import "sort"

// Rank returns a copy of achievements in presentation order: the aggregate
// category first, then entries with a real rank before cap-only entries,
// then lower rank first. Ties keep their input order.
func Rank(achievements []Achievement) []Achievement {
	out := make([]Achievement, len(achievements))
	copy(out, achievements)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

func less(a, b Achievement) bool {
	if a.Category.Aggregate != b.Category.Aggregate {
		return a.Category.Aggregate
	}
	if a.HasRank() != b.HasRank() {
		return a.HasRank()
	}
	if a.HasRank() {
		return a.Rank < b.Rank
	}
	return false
}
