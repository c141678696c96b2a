package routines

import (
	"regexp"
	"strconv"
	"strings"
)

// NoRationale is the reason shown when a line carries no " - " separator.
const NoRationale = "No rationale provided."

var ordinalPrefix = regexp.MustCompile(`^(\d+)\.\s*`)

// Step is one structured line of a routine string.
type Step struct {
	Number    string `json:"number"`
	StepTitle string `json:"stepTitle"`
	Product   string `json:"product"`
	Reason    string `json:"reason"`
}

// ParseRoutine splits a newline-delimited routine string into steps. Lines
// look like "N. Title: Product - Reason"; every part is optional and the
// parser degrades instead of failing. Blank lines are skipped and the
// fallback ordinal counts only kept lines.
func ParseRoutine(s string) []Step {
	steps := []Step{}
	if s == "" {
		return steps
	}

	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		steps = append(steps, parseLine(line, len(steps)+1))
	}
	return steps
}

func parseLine(line string, position int) Step {
	step := Step{Number: strconv.Itoa(position)}

	content := line
	if m := ordinalPrefix.FindStringSubmatchIndex(line); m != nil {
		step.Number = line[m[2]:m[3]]
		content = line[m[1]:]
	}

	title, rest, found := strings.Cut(content, ":")
	if !found {
		step.StepTitle = "Step"
		step.Product = strings.TrimSpace(content)
		return step
	}
	step.StepTitle = strings.TrimSpace(title)

	if i := strings.LastIndex(rest, " - "); i >= 0 {
		step.Product = strings.TrimSpace(rest[:i])
		step.Reason = strings.TrimSpace(rest[i+len(" - "):])
	} else {
		step.Product = strings.TrimSpace(rest)
		step.Reason = NoRationale
	}
	return step
}
