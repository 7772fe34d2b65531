package status

import (
	"fmt"

	"github.com/fatih/color"
)

// FileFormatter defines how run output should be formatted
type FileFormatter interface {
	// FormatEvent formats a copy or delete line, empty for skips
	FormatEvent(ev Event) string

	// FormatBanner formats the startup banner
	FormatBanner(b Banner) string

	// FormatSummary formats the final summary line
	FormatSummary(r *Result) string
}

// Banner echoes the resolved inputs of a run
type Banner struct {
	Source      string
	Destination string
	DryRun      bool
	Delete      bool
	OnlyCode    bool
}

// DefaultFileFormatter renders the plain line format used on stdout
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatEvent formats a file action. Colors are dropped when color.NoColor is set.
func (f *DefaultFileFormatter) FormatEvent(ev Event) string {
	switch ev.Decision {
	case DecisionCopy:
		return fmt.Sprintf("%s %s -> %s", color.GreenString("COPY"), ev.Source, ev.Destination)
	case DecisionDelete:
		return fmt.Sprintf("%s  %s", color.RedString("DEL"), ev.Destination)
	default:
		return ""
	}
}

func (f *DefaultFileFormatter) FormatBanner(b Banner) string {
	return fmt.Sprintf("Syncing\n  src:  %s\n  dest: %s\n  dry:  %t\n  del:  %t\n  only_code: %t",
		b.Source, b.Destination, b.DryRun, b.Delete, b.OnlyCode)
}

func (f *DefaultFileFormatter) FormatSummary(r *Result) string {
	return r.String()
}
