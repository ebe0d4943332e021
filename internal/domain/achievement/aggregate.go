package achievement

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/hiscorewatch/internal/domain/catalog"
)

// Options are the settings that decide what counts as notable.
type Options struct {
	// RankThreshold is the inclusive upper bound for a qualifying rank.
	RankThreshold int
	// AlertForExperienceCap enables the experience cap rule for skills.
	AlertForExperienceCap bool
}

// LineError records a category whose line could not be parsed.
type LineError struct {
	Category catalog.Category
	Line     string
	Err      error
}

func (e LineError) Error() string {
	return fmt.Sprintf("%s: %q: %v", e.Category.Name, e.Line, e.Err)
}

func (e LineError) Unwrap() error { return e.Err }

// Result is the outcome of aggregating one response.
type Result struct {
	// Achievements in catalog order, at most one per category.
	Achievements []Achievement
	// Truncated is set when the response had fewer lines than the catalog.
	Truncated bool
	// StoppedAt names the first category that had no line.
	StoppedAt string
	// Failures lists lines that were skipped because they did not parse.
	Failures []LineError
}

// Empty reports whether nothing notable was found.
func (r Result) Empty() bool { return len(r.Achievements) == 0 }

// Aggregate parses a lite record body against cat. Parsing stops entirely at
// the first category whose line is missing; a malformed line only drops its
// own category. The returned error is non-nil only if ctx is done.
func Aggregate(ctx context.Context, body string, cat *catalog.Catalog, opts Options) (Result, error) {
	lines := splitLines(body)

	var res Result
	byIndex := make(map[int]int)

	upsert := func(c catalog.Category) *Achievement {
		if i, ok := byIndex[c.APIIndex]; ok {
			return &res.Achievements[i]
		}
		res.Achievements = append(res.Achievements, Achievement{Category: c, Rank: NoRank})
		byIndex[c.APIIndex] = len(res.Achievements) - 1
		return &res.Achievements[len(res.Achievements)-1]
	}

	for _, c := range cat.All() {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if len(lines) <= c.APIIndex {
			res.Truncated = true
			res.StoppedAt = c.Name
			break
		}

		line := lines[c.APIIndex]
		if line == "" || !strings.Contains(line, ",") {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			continue
		}
		rank, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			res.Failures = append(res.Failures, lineError(c, line, "rank", err))
			continue
		}
		score, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
		if err != nil {
			res.Failures = append(res.Failures, lineError(c, line, "score", err))
			continue
		}

		if rank > 0 && score > 0 && rank <= opts.RankThreshold {
			upsert(c).Rank = rank
		}

		if !opts.AlertForExperienceCap || !c.ExperienceBearing || c.Aggregate || len(fields) < 3 {
			continue
		}
		xp, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
		if err != nil {
			res.Failures = append(res.Failures, lineError(c, line, "experience", err))
			continue
		}
		if xp >= ExperienceCap {
			upsert(c).HasExperienceCap = true
		}
	}

	return res, nil
}

func lineError(c catalog.Category, line, field string, err error) LineError {
	return LineError{
		Category: c,
		Line:     line,
		Err:      fmt.Errorf("%w: %s: %w", ErrMalformedLine, field, err),
	}
}

// splitLines splits on "\n", trims a trailing "\r" from each line and drops
// trailing empty lines so that a final newline does not count as a line.
func splitLines(body string) []string {
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
