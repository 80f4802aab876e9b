package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ppiankov/chatnow/internal/answer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Blue

	replyBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1)

	inputBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("245"))

	sendStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")) // Green

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("46"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

const (
	emptyReplyText = "Ask anything to get started."
	waitingText    = "Waiting for reply..."
	sendGlyph      = "➤"
)

// View renders the panel.
func (m Model) View() string {
	if m.quitting {
		return "chatnow stopped.\n"
	}

	// Render from LastReply on every frame; nothing derived is cached.
	m.refreshReply()

	var b strings.Builder

	b.WriteString(titleStyle.Render("chatnow"))
	if m.modelName != "" {
		b.WriteString(dimStyle.Render(" · " + m.modelName))
	}
	b.WriteString("\n")

	var body string
	if m.panel.LastReply == "" {
		body = dimStyle.Render(emptyReplyText)
	} else {
		body = m.reply.View()
	}
	b.WriteString(replyBorderStyle.Render(body))
	b.WriteString("\n")

	b.WriteString(renderStatus(m))
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		inputBorderStyle.Render(m.input.View()),
		" ",
		renderSend(m),
	))
	b.WriteString("\n")

	b.WriteString(renderHelp(m.keys))
	return b.String()
}

func renderStatus(m Model) string {
	switch {
	case m.panel.InFlight():
		return m.spinner.View() + " " + dimStyle.Render(waitingText)
	case m.exportErr != nil:
		return warnStyle.Render(fmt.Sprintf("Export failed: %v", m.exportErr))
	case m.exportPath != "":
		return okStyle.Render("Exported to " + m.exportPath)
	case m.panel.LastError != nil:
		return warnStyle.Render(fmt.Sprintf("Last request failed (%s); see log", answer.Kind(m.panel.LastError)))
	}
	return ""
}

// renderSend draws the send control: a spinner while busy, dimmed when
// there is nothing to send.
func renderSend(m Model) string {
	switch {
	case m.panel.InFlight():
		return m.spinner.View()
	case m.panel.CanSubmit():
		return sendStyle.Render(sendGlyph)
	}
	return dimStyle.Render(sendGlyph)
}

func renderHelp(k keyMap) string {
	parts := make([]string, 0, len(k.help()))
	for _, b := range k.help() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return dimStyle.Render(strings.Join(parts, " · "))
}
