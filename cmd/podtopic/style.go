package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cognicore/podtopic/pkg/podtopic"
	"github.com/cognicore/podtopic/pkg/podtopic/stoplist"
	"github.com/cognicore/podtopic/pkg/podtopic/store"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	scoreStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
)

// renderReport keeps the "Top N Topics:" layout, colored when the terminal
// supports it.
func renderReport(rep podtopic.Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Top %d Topics:", len(rep.Entries))))
	for _, e := range rep.Entries {
		fmt.Fprintf(&b, "\n%d: Topic: %s, Probability: %s",
			e.Rank, labelStyle.Render(e.Label), scoreStyle.Render(fmt.Sprint(e.Prob)))
	}
	return b.String()
}

func renderTopics(topics []podtopic.TopicSummary) string {
	var b strings.Builder
	for i, t := range topics {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s\n  %s",
			titleStyle.Render(fmt.Sprintf("Topic %d", t.Topic)),
			labelStyle.Render("("+t.Label+")"),
			t.String())
	}
	return b.String()
}

func renderCoherence(rep podtopic.CoherenceReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", titleStyle.Render("Coherence Score:"), scoreStyle.Render(fmt.Sprint(rep.Mean)),
		mutedStyle.Render("("+string(rep.Measure)+")"))
	for k, s := range rep.PerTopic {
		fmt.Fprintf(&b, "\n  %s %.4f", mutedStyle.Render(fmt.Sprintf("topic %d", k)), s)
	}
	return b.String()
}

func renderBundles(list []store.Summary) string {
	if len(list) == 0 {
		return mutedStyle.Render("No bundles stored.")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d bundle(s), newest first:", len(list))))
	for _, s := range list {
		fmt.Fprintf(&b, "\n  %s  %s  topics=%d vocab=%d",
			labelStyle.Render(s.ID), mutedStyle.Render(s.CreatedAt.Format("2006-01-02 15:04:05")),
			s.NumTopics, s.VocabSize)
	}
	return b.String()
}

func renderCandidates(cands []stoplist.Candidate) string {
	if len(cands) == 0 {
		return mutedStyle.Render("No exclusion candidates.")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Suggested exclusions:"))
	for _, c := range cands {
		fmt.Fprintf(&b, "\n  %-20s df=%d (%.1f%%)", c.Token, c.Reason.DF, c.Reason.DFPercent)
	}
	return b.String()
}
