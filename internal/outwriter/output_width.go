package outwriter

import (
	"os"

	"golang.org/x/term"

	"github.com/clutchmetrics/clutch/internal/contract"
)

// getMaxTableNameWidth calculates the maximum width for player and team names
// in table output based on terminal width and table configuration.
func getMaxTableNameWidth(cfg *contract.Config) int {
	// Get terminal width
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		termWidth = 80 // Conservative default for narrow terminals and CI
	}

	// Reserve space for fixed columns with table formatting
	baseWidth := 45 // Rank + Season + GP + CPI + Label with borders/padding

	// Add detail columns with formatting
	if cfg.Detail {
		baseWidth += 50 // Rate detail columns (MIN + RPG + 3P% + FT% + AST/TO + diffs)
	}

	// Add explain column
	if cfg.Explain {
		baseWidth += 30 // Breakdown column with formatting
	}

	// Calculate available space for the name
	available := termWidth - baseWidth
	if available < 12 {
		// Minimum reasonable name width
		return 12
	}
	if available > 30 {
		// Names never need more than this
		return 30
	}
	return available
}
