package todo

import "strings"

// Problem describes a single failed validation rule as shown to the user.
type Problem struct {
	Text string
}

// Validate checks the submitted title and details. Both must be non-empty
// after trimming surrounding whitespace. Returns one problem per failing
// field, title before details; an empty slice means the input is acceptable.
// Pure function, no I/O.
func Validate(title, details string) []Problem {
	var problems []Problem
	if strings.TrimSpace(title) == "" {
		problems = append(problems, Problem{Text: "Please add title"})
	}
	if strings.TrimSpace(details) == "" {
		problems = append(problems, Problem{Text: "Please add some details"})
	}
	return problems
}
