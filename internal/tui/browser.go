package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/optiqa/wdmsim/internal/engine"
	"github.com/optiqa/wdmsim/internal/topology"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

type view int

const (
	viewLightpaths view = iota
	viewDetail
)

type model struct {
	net  *topology.Network
	perf *engine.Performance

	view   view
	cursor int
}

// NewModel builds the browser over a completed performance snapshot.
func NewModel(net *topology.Network, perf *engine.Performance) tea.Model {
	return model{net: net, perf: perf}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.view == viewLightpaths && m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.view == viewLightpaths && m.cursor < len(m.net.Lightpaths)-1 {
			m.cursor++
		}
	case "enter":
		if m.view == viewLightpaths && len(m.net.Lightpaths) > 0 {
			m.view = viewDetail
		}
	case "esc":
		m.view = viewLightpaths
	}
	return m, nil
}

func (m model) View() string {
	if m.view == viewDetail {
		return m.detailView()
	}
	return m.listView()
}

func (m model) listView() string {
	var sb strings.Builder
	sb.WriteString(cyan.Render("lightpaths") + "\n\n")

	for i, lp := range m.net.Lightpaths {
		marker := "  "
		style := white
		if i == m.cursor {
			marker = cyan.Render("> ")
			style = cyan
		}
		recv, ok := m.perf.ReceiverState(lp)
		line := fmt.Sprintf("%-14s %d hops  %.5f THz", lp.ID, len(lp.Route), lp.CentralFrequencyTHz())
		if ok {
			line += fmt.Sprintf("  rx %.2f dBm  osnr %s", recv.PowerDBm, recv.OSNR)
		}
		sb.WriteString(marker + style.Render(line) + "\n")
	}

	sb.WriteString("\n" + dim.Render("↑/↓ select · enter detail · q quit"))
	return sb.String()
}

func (m model) detailView() string {
	lp := m.net.Lightpaths[m.cursor]
	var sb strings.Builder
	sb.WriteString(cyan.Render("lightpath "+lp.ID) + "\n\n")

	for _, f := range lp.Route {
		start, end, ok := m.perf.LightpathStateAtFiberEnds(f, lp)
		if !ok {
			continue
		}
		sb.WriteString(white.Render(fmt.Sprintf("%s (%.0f km)", f.ID, f.LengthKm)) + "\n")
		sb.WriteString(fmt.Sprintf("  start  %7.2f dBm  cd %7.1f  pmd %6.3f ps  osnr %s\n",
			start.PowerDBm, start.CdPsPerNm, start.PmdPs(), start.OSNR))
		for i := range f.Amplifiers {
			in, out, err := m.perf.LightpathStateAtAmplifier(f, lp, i)
			if err != nil {
				continue
			}
			sb.WriteString(dim.Render(fmt.Sprintf("  ola %d  %7.2f → %.2f dBm  osnr %s → %s",
				i, in.PowerDBm, out.PowerDBm, in.OSNR, out.OSNR)) + "\n")
		}
		sb.WriteString(fmt.Sprintf("  end    %7.2f dBm  cd %7.1f  pmd %6.3f ps  osnr %s\n",
			end.PowerDBm, end.CdPsPerNm, end.PmdPs(), end.OSNR))

		feas := green.Render("power ok")
		if !m.perf.FeasibleAmplifierInputPower(f) {
			feas = red.Render("power violation")
		}
		sb.WriteString("  " + feas + "\n\n")
	}

	if recv, ok := m.perf.ReceiverState(lp); ok {
		sb.WriteString(yellow.Render(fmt.Sprintf("receiver  %.2f dBm  cd %.1f ps/nm  pmd %.3f ps  osnr %s",
			recv.PowerDBm, recv.CdPsPerNm, recv.PmdPs(), recv.OSNR)) + "\n")
	}

	sb.WriteString("\n" + dim.Render("esc back · q quit"))
	return sb.String()
}

// Run starts the interactive browser.
func Run(net *topology.Network, perf *engine.Performance) error {
	_, err := tea.NewProgram(NewModel(net, perf), tea.WithAltScreen()).Run()
	return err
}
