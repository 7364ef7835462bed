// Package scoring turns a referee's textual output into per-agent scores.
package scoring

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedOutput marks referee output that does not hold one integer
// score per seat.
var ErrMalformedOutput = errors.New("malformed referee output")

// warningLine matches whole lines the referee emits as diagnostics.
var warningLine = regexp.MustCompile(`(?im)^WARNING:.*(?:\n|$)`) //nolint:gochecknoglobals // compiled once

// Clean normalizes line endings and strips warning lines.
func Clean(output string) string {
	output = strings.ReplaceAll(output, "\r\n", "\n")
	return warningLine.ReplaceAllString(output, "")
}

// Parse reads one score per participant, in seat order, from output.
// Tokens beyond the seat count are ignored. The returned map is keyed by
// agent index.
func Parse(output string, participants []int) (map[int]int, error) {
	tokens := strings.Fields(Clean(output))
	if len(tokens) < len(participants) {
		return nil, fmt.Errorf("%w: want %d scores, got %d tokens", ErrMalformedOutput, len(participants), len(tokens))
	}

	scores := make(map[int]int, len(participants))
	for seat, agent := range participants {
		v, err := strconv.Atoi(tokens[seat])
		if err != nil {
			return nil, fmt.Errorf("%w: seat %d token %q", ErrMalformedOutput, seat, tokens[seat])
		}
		scores[agent] = v
	}
	return scores, nil
}
