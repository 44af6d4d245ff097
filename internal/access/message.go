package access

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fdilabs/LevelGate_Go/internal/domain"
)

// InviteResult is the outcome of one invite-link request during
// synchronization: exactly one of Link set, Configured false, or Err set.
type InviteResult struct {
	Level      domain.Level
	Link       string
	Configured bool
	Err        error
}

// BuildLevelMessage renders the notification sent to a user after their level
// was synchronized. Pure function: same inputs, same text. One line per level
// in ascending order; when no level produced a usable link the message tells
// the user to contact an administrator instead.
func BuildLevelMessage(newLevel domain.Level, results []InviteResult) string {
	sorted := make([]InviteResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Level < sorted[j].Level })

	var b strings.Builder
	fmt.Fprintf(&b, "Your access level is now %d.", newLevel)

	hasLink := false
	var lines []string
	for _, res := range sorted {
		switch {
		case !res.Configured:
			lines = append(lines, fmt.Sprintf("Level %d: channel not configured", res.Level))
		case res.Err != nil:
			lines = append(lines, fmt.Sprintf("Level %d: could not generate an invite link", res.Level))
		default:
			hasLink = true
			lines = append(lines, fmt.Sprintf("Level %d: %s", res.Level, res.Link))
		}
	}

	if !hasLink {
		b.WriteString("\nNo channels are currently available. Contact an administrator for access.")
		return b.String()
	}

	b.WriteString("\nJoin your channels:")
	for _, line := range lines {
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}
