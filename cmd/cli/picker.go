package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tensorplex-labs/momentum/internal/viewerapi"
)

type stage int

const (
	stageLoading stage = iota
	stageLeague
	stageTeam
	stageMatch
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D64541"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2E86C1"))
	noticeStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A1F1B"))

	headerCellStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle       = lipgloss.NewStyle().Padding(0, 1)
)

type optionsMsg struct {
	stage   stage
	choices []string
	ids     []int64
	notice  string
}

type errMsg struct{ err error }

// picker walks league, team and match with a cursor menu.
type picker struct {
	ctx     context.Context
	api     viewerapi.ViewerAPIInterface
	timeout time.Duration

	stage   stage
	choices []string
	ids     []int64
	cursor  int
	notice  string

	league  string
	team    string
	matchID int64
	err     error
}

func newPicker(ctx context.Context, api viewerapi.ViewerAPIInterface, timeout time.Duration) *picker {
	return &picker{ctx: ctx, api: api, timeout: timeout, stage: stageLoading}
}

func (m *picker) Init() tea.Cmd {
	return m.loadLeagues
}

func (m *picker) loadLeagues() tea.Msg {
	ctx, cancel := context.WithTimeout(m.ctx, m.timeout)
	defer cancel()

	resp, err := m.api.Leagues(ctx)
	if err != nil {
		return errMsg{err}
	}
	if !resp.HasLeague {
		teams, err := m.api.Teams(ctx, "")
		if err != nil {
			return errMsg{err}
		}
		return optionsMsg{stage: stageTeam, choices: teams, notice: "League column not found in the match table: using all matches."}
	}
	return optionsMsg{stage: stageLeague, choices: resp.Leagues}
}

func (m *picker) loadTeams(league string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, m.timeout)
		defer cancel()

		teams, err := m.api.Teams(ctx, league)
		if err != nil {
			return errMsg{err}
		}
		return optionsMsg{stage: stageTeam, choices: teams}
	}
}

func (m *picker) loadMatches(league, team string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, m.timeout)
		defer cancel()

		matches, err := m.api.Matches(ctx, league, team)
		if err != nil {
			return errMsg{err}
		}
		msg := optionsMsg{stage: stageMatch}
		for _, o := range matches {
			msg.choices = append(msg.choices, o.Label)
			msg.ids = append(msg.ids, o.MatchID)
		}
		return msg
	}
}

func (m *picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case errMsg:
		m.err = msg.err
		return m, tea.Quit

	case optionsMsg:
		m.stage = msg.stage
		m.choices = msg.choices
		m.ids = msg.ids
		m.cursor = 0
		if msg.notice != "" {
			m.notice = msg.notice
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}

		case "esc", "backspace":
			return m.back()

		case "enter":
			if len(m.choices) == 0 {
				return m, nil
			}
			choice := m.choices[m.cursor]
			switch m.stage {
			case stageLeague:
				m.league = choice
				m.stage = stageLoading
				return m, m.loadTeams(choice)
			case stageTeam:
				m.team = choice
				m.stage = stageLoading
				return m, m.loadMatches(m.league, choice)
			case stageMatch:
				m.matchID = m.ids[m.cursor]
				return m, tea.Quit
			}
		}
	}

	return m, nil
}

func (m *picker) back() (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageMatch:
		m.stage = stageLoading
		return m, m.loadTeams(m.league)
	case stageTeam:
		if m.notice == "" {
			m.stage = stageLoading
			return m, m.loadLeagues
		}
	}
	return m, nil
}

func (m *picker) View() string {
	var b strings.Builder

	switch m.stage {
	case stageLoading:
		return "Loading...\n"
	case stageLeague:
		b.WriteString(titleStyle.Render("Select league"))
	case stageTeam:
		b.WriteString(titleStyle.Render("Select team"))
	case stageMatch:
		b.WriteString(titleStyle.Render("Select match"))
	}
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice) + "\n\n")
	}

	if m.stage == stageMatch && len(m.choices) == 0 {
		b.WriteString(errorStyle.Render("No matches found for this team.") + "\n")
	}

	for i, choice := range m.choices {
		if m.cursor == i {
			b.WriteString(cursorStyle.Render(fmt.Sprintf("> %s", choice)) + "\n")
			continue
		}
		b.WriteString(fmt.Sprintf("  %s\n", choice))
	}

	b.WriteString("\nenter: select, esc: back, q: quit\n")
	return b.String()
}
