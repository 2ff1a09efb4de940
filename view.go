package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/robmorgan/tempo/effect"
	"github.com/robmorgan/tempo/player"
	"github.com/robmorgan/tempo/rhythm"
	"github.com/robmorgan/tempo/score"
	"github.com/robmorgan/tempo/timing"
)

const (
	progressBarWidth  = 24
	progressFullChar  = "█"
	progressEmptyChar = "░"
	pulseChar         = "●"

	// The terminal is in raw mode while the keyboard is open.
	newline   = "\r\n"
	clearLine = "\r\x1b[K"
)

var (
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	stateStyle = lipgloss.NewStyle().Bold(true)
	gradeStyle = map[timing.Grade]lipgloss.Style{
		timing.Perfect: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		timing.Good:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		timing.Ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		timing.Miss:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

func renderHelp(bpm float64) string {
	return helpStyle.Render(fmt.Sprintf("%.0f BPM. Move with WASD or the arrow keys on the beat. Press q to quit.", bpm)) + newline
}

// renderStatus draws the single, constantly rewritten status line.
func renderStatus(frame effect.Frame, snap rhythm.Snapshot, state player.State, pos player.Position) string {
	pulseWidth := int(math.Round(frame.Scale * 2))
	pulse := lipgloss.NewStyle().Foreground(lipgloss.Color(frame.Color.Hex())).Render(strings.Repeat(pulseChar, pulseWidth))
	pulse += strings.Repeat(" ", int(math.Max(0, float64(4-pulseWidth))))

	return fmt.Sprintf("%s%s %s %s %-9s (%+.1f, %+.1f)",
		clearLine,
		pulse,
		snap.Marker(),
		progressBar(snap.BeatPhase()),
		stateStyle.Render(state.String()),
		pos.X, pos.Y,
	)
}

func progressBar(phase float64) string {
	full := int(math.Round(math.Max(0, math.Min(1, phase)) * progressBarWidth))
	return strings.Repeat(progressFullChar, full) + strings.Repeat(progressEmptyChar, progressBarWidth-full)
}

// renderJudgement draws the line printed for each input the player made.
func renderJudgement(outcome player.Outcome) string {
	j := outcome.Judgement
	result := "stumble"
	if outcome.Accepted {
		result = "move"
	}
	return fmt.Sprintf("%s%s %+4.0fms %s%s",
		clearLine,
		gradeStyle[j.Grade].Render(fmt.Sprintf("%-7s", j.Grade)),
		j.Distance*1000,
		helpStyle.Render(result),
		newline,
	)
}

func renderSummary(tally *score.Tally) string {
	var s string
	s += clearLine + newline
	for _, g := range timing.Grades {
		s += fmt.Sprintf("%s %d%s", gradeStyle[g].Render(fmt.Sprintf("%-7s", g)), tally.Count(g), newline)
	}
	s += fmt.Sprintf("Hits: %d/%d%s", tally.Hits(), tally.Total(), newline)
	if tally.Hits() > 0 {
		s += fmt.Sprintf("Mean offset: %+.1fms, deviation %.1fms%s", tally.Mean()*1000, tally.Stdev()*1000, newline)
	}
	return s
}
