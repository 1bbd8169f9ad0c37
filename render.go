package mathy

import (
	"fmt"
	"strings"
)

// RenderState formats the current step for a terminal: turn counter, the
// expression, and the last applied rule with its focus token index.
//
//	002 | (4 + 2) * x | df @ 1
func RenderState(s *State) string {
	last := s.History[len(s.History)-1]
	line := fmt.Sprintf("%03d | %s", s.Turn, last.Raw)
	if last.RuleCode != "" {
		line += fmt.Sprintf(" | %s @ %d", strings.ToLower(last.RuleCode), last.Focus)
	}
	return line
}

// RenderHistory formats the whole episode, one line per step.
func RenderHistory(s *State) string {
	lines := make([]string, len(s.History))
	for i, rec := range s.History {
		line := fmt.Sprintf("%03d | %s", i, rec.Raw)
		if rec.RuleCode != "" {
			line += fmt.Sprintf(" | %s @ %d", strings.ToLower(rec.RuleCode), rec.Focus)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
