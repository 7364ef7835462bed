// Package report prints tournament progress and the final summary for
// the operator.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/Telokis/cg-selfarena/internal/domain/model"
)

// Progress describes one completed match in the order results arrive.
type Progress struct {
	Result model.MatchResult
	Done   int // results received so far, including this one
	Total  int // tasks scheduled for the run
}

// Text writes plain-text reports. Styling is applied only when the
// writer is a terminal.
type Text struct {
	mu    sync.Mutex
	out   io.Writer
	names []string
	quiet bool

	header lipgloss.Style
	rate   lipgloss.Style
	void   lipgloss.Style
}

// New creates a reporter for the agents named by names.
func New(names []string, opts ...Option) *Text {
	t := &Text{
		out:   os.Stdout,
		names: append([]string(nil), names...),
	}

	for _, opt := range opts {
		opt(t)
	}

	r := lipgloss.NewRenderer(t.out)
	t.header = r.NewStyle().Bold(true).Underline(true)
	t.rate = r.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	t.void = r.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	return t
}

// Start announces the size of the run.
func (t *Text) Start(total, workers int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "Launching %d matches...\n", total)
	fmt.Fprintf(t.out, "Running matches in batches of %d (total: %d)...\n", workers, total)
}

// MatchCompleted prints one progress line unless quiet:
//
//	Match  3/12:  Seed=1234567890  alice:10 | bob:7
//
// Agents of a void match show "-" instead of a score.
func (t *Text) MatchCompleted(p Progress) {
	if t.quiet {
		return
	}

	infos := make([]string, len(p.Result.Participants))
	for i, agent := range p.Result.Participants {
		score := t.void.Render("-")
		if s, ok := p.Result.Scores[agent]; ok {
			score = strconv.Itoa(s)
		}
		infos[i] = t.name(agent) + ":" + score
	}

	width := len(strconv.Itoa(p.Total))

	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "Match %*d/%d:  Seed=%-10d  %s\n", width, p.Done, p.Total, p.Result.Seed, strings.Join(infos, " | "))
}

// Summary prints every agent's final tally.
func (t *Text) Summary(standings []model.Standing) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintln(t.out)
	fmt.Fprintln(t.out, t.header.Render("Summary of performance:"))
	for _, s := range standings {
		fmt.Fprintf(t.out, "%s: %s (%d win / %d lose / %d draw)\n",
			t.name(s.Agent),
			t.rate.Render(strconv.FormatFloat(s.WinRate, 'f', 2, 64)+"%"),
			s.Wins, s.Losses, s.Draws,
		)
	}
}

// Finish marks the end of the run.
func (t *Text) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, "Finished execution")
}

func (t *Text) name(agent int) string {
	if agent >= 0 && agent < len(t.names) && t.names[agent] != "" {
		return t.names[agent]
	}
	return "P" + strconv.Itoa(agent+1)
}
