package schedule

import "strings"

// Result names the first existing descriptor the candidate collides with.
type Result struct {
	Conflict bool
	With     string
}

// HasConflict checks a candidate descriptor against the descriptors a student
// already attends. Two readable descriptors conflict when they share a weekday
// and their [start, end) ranges overlap. Two unreadable descriptors conflict
// only when they are the same text. A readable and an unreadable descriptor
// never conflict, and blank descriptors conflict with nothing.
func HasConflict(candidate string, existing []string) Result {
	candidateText := strings.TrimSpace(candidate)
	if candidateText == "" {
		return Result{}
	}
	parsed, candidateOK := Parse(candidateText)

	for _, other := range existing {
		if strings.TrimSpace(other) == "" {
			continue
		}
		otherParsed, otherOK := Parse(other)

		switch {
		case candidateOK && otherOK:
			if parsed.Overlaps(otherParsed) {
				return Result{Conflict: true, With: other}
			}
		case !candidateOK && !otherOK:
			if candidateText == strings.TrimSpace(other) {
				return Result{Conflict: true, With: other}
			}
		}
	}

	return Result{}
}

// Conflicts reports whether two descriptors collide.
func Conflicts(a, b string) bool {
	return HasConflict(a, []string{b}).Conflict
}
