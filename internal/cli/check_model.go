package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/checker"
	"github.com/alexanderramin/mirror/internal/cli/formatter"
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/intelligence"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type checkKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

func defaultCheckKeys() checkKeyMap {
	return checkKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k checkKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Quit}
}

// checkOption is one selectable answer on an escalation screen.
type checkOption struct {
	label  string
	action checker.Action
}

type statusLoadedMsg struct {
	status *app.ViolationStatus
	nudge  string
	err    error
}

type commandDoneMsg struct {
	message string
	err     error
}

// checkModel walks the user through this week's escalation screen.
type checkModel struct {
	ctx  context.Context
	app  *App
	user string
	now  *time.Time

	keys    checkKeyMap
	spinner spinner.Model
	loading bool

	status  *app.ViolationStatus
	screen  checker.Screen
	options []checkOption
	cursor  int
	nudge   string

	message  string
	err      error
	quitting bool
}

func newCheckModel(ctx context.Context, a *App, userID string, now *time.Time) checkModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StyleHeader
	return checkModel{
		ctx:     ctx,
		app:     a,
		user:    userID,
		now:     now,
		keys:    defaultCheckKeys(),
		spinner: sp,
		loading: true,
		screen:  checker.ScreenNone,
	}
}

func (m checkModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m checkModel) load() tea.Cmd {
	ctx, a, user, now := m.ctx, m.app, m.user, m.now
	return func() tea.Msg {
		st, err := a.Violations.Status(ctx, app.StatusRequest{UserID: user, Now: now})
		if err != nil {
			return statusLoadedMsg{err: err}
		}
		msg := statusLoadedMsg{status: st}
		if screen := checker.Route(*st); screen != checker.ScreenNone {
			msg.nudge = nudgeFor(ctx, a.Narrator, st)
		}
		return msg
	}
}

func nudgeFor(ctx context.Context, n intelligence.Narrator, st *app.ViolationStatus) string {
	var types []domain.ViolationType
	for _, v := range st.OpenViolations {
		if v.WeekNumber == st.WeekNumber {
			types = append(types, v.Type)
		}
	}
	if n == nil {
		return intelligence.DeterministicNudge(st.CurrentSeverity, types)
	}
	return n.Nudge(ctx, st.CurrentSeverity, types)
}

func (m checkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case statusLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = msg.status
		m.screen = checker.Route(*msg.status)
		m.options = optionsFor(m.screen)
		m.cursor = 0
		m.nudge = msg.nudge
		return m, nil

	case commandDoneMsg:
		if msg.err != nil {
			m.loading = false
			m.err = msg.err
			return m, nil
		}
		m.message = msg.message
		return m, m.load()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case m.loading:
			return m, nil
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			return m.choose()
		}
	}
	return m, nil
}

func (m checkModel) choose() (tea.Model, tea.Cmd) {
	if m.status == nil || m.cursor >= len(m.options) {
		return m, nil
	}
	_, cmd, err := checker.Transition(*m.status, m.screen, m.options[m.cursor].action)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, m.exec(cmd))
}

func (m checkModel) exec(c checker.Command) tea.Cmd {
	ctx, a, user, now := m.ctx, m.app, m.user, m.now
	return func() tea.Msg {
		switch c.Kind {
		case checker.CommandResolve:
			for _, id := range c.ViolationIDs {
				_, err := a.Violations.ResolveViolation(ctx, app.ResolveViolationRequest{
					UserID:      user,
					ViolationID: id,
					Resolution:  c.Resolution,
					Now:         now,
				})
				if err != nil {
					return commandDoneMsg{err: err}
				}
			}
			return commandDoneMsg{message: fmt.Sprintf("Recorded %s for %d violation(s).", c.Resolution, len(c.ViolationIDs))}
		case checker.CommandChoose:
			res, err := a.Terminations.Resolve(ctx, app.TerminationChoiceRequest{UserID: user, Choice: c.Choice, Now: now})
			if err != nil {
				return commandDoneMsg{err: err}
			}
			return commandDoneMsg{message: fmt.Sprintf("Recorded %s. Account is now %s.", res.Choice, res.Phase)}
		default:
			return commandDoneMsg{message: "Okay, we'll ask again next time."}
		}
	}
}

func optionsFor(screen checker.Screen) []checkOption {
	var out []checkOption
	for _, kind := range checker.Actions(screen) {
		switch kind {
		case checker.ActionAccept:
			out = append(out, checkOption{"Got it, I'll adjust", checker.Action{Kind: kind}})
		case checker.ActionDismiss:
			out = append(out, checkOption{"This wasn't a violation", checker.Action{Kind: kind}})
		case checker.ActionRenegotiate:
			out = append(out, checkOption{"Renegotiate my commitments", checker.Action{Kind: kind}})
		case checker.ActionContinue:
			out = append(out, checkOption{"Continue as planned", checker.Action{Kind: kind}})
		case checker.ActionLater:
			out = append(out, checkOption{"Remind me later", checker.Action{Kind: kind}})
		case checker.ActionChoose:
			for _, c := range []domain.FinalChoice{domain.ChoicePause, domain.ChoiceRedesign, domain.ChoiceTerminate} {
				out = append(out, checkOption{choiceLabel(c), checker.Action{Kind: kind, Choice: c}})
			}
		}
	}
	return out
}

func choiceLabel(c domain.FinalChoice) string {
	switch c {
	case domain.ChoicePause:
		return "Pause the program"
	case domain.ChoiceRedesign:
		return "Redesign my vow and commitments"
	default:
		return "End the program"
	}
}

var screenTitles = map[checker.Screen]string{
	checker.ScreenWarning:       "WARNING",
	checker.ScreenRenegotiation: "TIME TO RENEGOTIATE",
	checker.ScreenTermination:   "DECISION NEEDED",
}

func (m checkModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString("  " + m.spinner.View() + " " + formatter.Dim("checking this week...") + "\n")
	case m.status == nil:
		// load failed; the error is shown below
	case m.screen == checker.ScreenNone:
		b.WriteString("  " + formatter.StyleGreen.Render("No open violations for "+formatter.WeekLabel(m.status.WeekNumber)+".") + "\n")
	default:
		b.WriteString("  " + formatter.StyleHeader.Render(screenTitles[m.screen]) + "  " +
			formatter.Dim(formatter.WeekLabel(m.status.WeekNumber)) + "\n\n")
		if m.nudge != "" {
			b.WriteString("  " + m.nudge + "\n\n")
		}
		if m.status.PendingTermination != nil {
			for _, line := range strings.Split(formatter.FormatTermination(m.status.PendingTermination), "\n") {
				b.WriteString("  " + line + "\n")
			}
			b.WriteString("\n")
		}
		for _, v := range m.status.OpenViolations {
			if v.WeekNumber == m.status.WeekNumber {
				b.WriteString("  " + formatter.SeverityIndicator(v.Severity) + " " + string(v.Type) + "\n")
			}
		}
		b.WriteString("\n")
		for i, o := range m.options {
			cursor := "  "
			style := formatter.StyleFg
			if i == m.cursor {
				cursor = formatter.StyleGreen.Render("▸ ")
				style = formatter.StyleBold
			}
			b.WriteString("  " + cursor + style.Render(o.label) + "\n")
		}
	}

	if m.message != "" {
		b.WriteString("\n  " + formatter.StyleBlue.Render(m.message) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n  " + formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	}

	hints := make([]string, 0, 4)
	for _, k := range m.keys.ShortHelp() {
		hints = append(hints, formatter.Dim(k.Help().Key+": "+k.Help().Desc))
	}
	b.WriteString("\n  " + strings.Join(hints, "  ") + "\n")
	return b.String()
}
