package util

import (
	"strings"

	"github.com/fatih/color"
)

var green = color.New(color.FgGreen).SprintFunc()
var whiteBold = color.New(color.FgWhite, color.Bold).SprintFunc()

// GenerateHelpSection formats a titled block of command help.
func GenerateHelpSection(title string, body string) string {
	return green(title) + "\n\n" + whiteBold(body)
}

// GenerateHelp returns the summary followed by the sections, each given as title and body pairs.
func GenerateHelp(summary string, sections ...string) string {
	var help strings.Builder
	help.WriteString(summary)
	help.WriteString("\n")
	for i := 0; i+1 < len(sections); i += 2 {
		help.WriteString("\n")
		help.WriteString(GenerateHelpSection(sections[i], sections[i+1]))
	}
	return help.String()
}
