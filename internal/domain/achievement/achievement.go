// Package achievement turns a lite hiscore record into the notable
// achievements of one subject, orders them and renders the alert text.
package achievement

import (
	"strconv"

	"github.com/okian/hiscorewatch/internal/domain/catalog"
)

// Achievement constants.
const (
	// NoRank marks an achievement that only holds the experience cap signal.
	NoRank = -1
	// ExperienceCap is the maximum experience a skill can hold.
	ExperienceCap int64 = 200_000_000
)

// Achievement is the combined signal for one category.
type Achievement struct {
	Category         catalog.Category
	Rank             int // NoRank or 1..threshold
	HasExperienceCap bool
}

// HasRank reports whether the achievement carries a qualifying rank.
func (a Achievement) HasRank() bool { return a.Rank != NoRank }

// Kind labels the achievement for metrics: "rank", "cap" or "rank_cap".
func (a Achievement) Kind() string {
	switch {
	case a.HasRank() && a.HasExperienceCap:
		return "rank_cap"
	case a.HasRank():
		return "rank"
	default:
		return "cap"
	}
}

// String renders the display text used in alerts.
func (a Achievement) String() string {
	if !a.HasRank() {
		return "200m XP in " + a.Category.Name
	}
	s := "rank " + strconv.Itoa(a.Rank) + " in " + a.Category.Name
	if a.HasExperienceCap {
		s += " (200m XP)"
	}
	return s
}

// Strings renders each achievement in order.
func Strings(achievements []Achievement) []string {
	out := make([]string, len(achievements))
	for i, a := range achievements {
		out[i] = a.String()
	}
	return out
}
