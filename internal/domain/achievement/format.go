package achievement

import (
	"strconv"
	"strings"

	"github.com/okian/hiscorewatch/internal/domain/model"
)

// MaxListed is the most items shown before the list is summarised.
const MaxListed = 5

// FormatList joins items for display. Up to MaxListed items are joined with
// ", " and a final " and "; longer lists show the first MaxListed-1 items and
// ", ... and N more". The result always ends with a period.
func FormatList(items []string) string {
	n := len(items)
	if n == 0 {
		return ""
	}

	var b strings.Builder
	if n <= MaxListed {
		for i, item := range items {
			b.WriteString(item)
			switch {
			case i < n-2:
				b.WriteString(", ")
			case i == n-2:
				b.WriteString(" and ")
			}
		}
	} else {
		shown := MaxListed - 1
		for _, item := range items[:shown] {
			b.WriteString(item)
			b.WriteString(", ")
		}
		b.WriteString("... and ")
		b.WriteString(strconv.Itoa(n - shown))
		b.WriteString(" more")
	}
	b.WriteByte('.')
	return b.String()
}

// FormatAlert renders the full alert for subject. achievements should already be ranked.
func FormatAlert(subject string, source model.Source, achievements []Achievement) string {
	return subject + source.Phrase() + FormatList(Strings(achievements))
}

// Summary renders every achievement without truncation, for logs.
func Summary(achievements []Achievement) string {
	return strings.Join(Strings(achievements), ", ") + "."
}
