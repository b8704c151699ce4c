package output

import (
	"fmt"
	"strings"
)

// ShareBar renders part/total as a fixed-width bar with a percentage.
// Example: "██████░░░░ 60%"
func ShareBar(part, total float64, width int) string {
	if width <= 0 {
		width = 20
	}
	ratio := 0.0
	if total > 0 {
		ratio = part / total
	}
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %s", StyleHeader.Render(bar), StyleMuted.Render(fmt.Sprintf("%.0f%%", ratio*100)))
}

// ImpactBadge styles an impact level: high in red, medium in yellow,
// anything else in green.
func ImpactBadge(level string) string {
	label := "[" + strings.ToUpper(level) + "]"
	switch level {
	case "high":
		return StyleError.Render(label)
	case "medium":
		return StyleWarning.Render(label)
	default:
		return StyleSuccess.Render(label)
	}
}

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}
