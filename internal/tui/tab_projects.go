package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/cfarm/internal/cli"
	"github.com/theirongolddev/cfarm/internal/dispatch"
	"github.com/theirongolddev/cfarm/internal/model"
	"github.com/theirongolddev/cfarm/internal/tui/components"
	"github.com/theirongolddev/cfarm/internal/tui/theme"
	"github.com/theirongolddev/cfarm/internal/view"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// MsgInvalidAmount is shown when the custom amount does not parse.
const MsgInvalidAmount = "Please enter a valid amount"

// projectCardHeight is the rendered height of one project card.
const projectCardHeight = 5

func newAmountInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "amount"
	ti.CharLimit = 16
	ti.Width = 16
	ti.Prompt = "› "
	return ti
}

func presetKeys(n int) string {
	keys := make([]string, 0, n)
	for i := 1; i <= n && i <= 9; i++ {
		keys = append(keys, strconv.Itoa(i))
	}
	return strings.Join(keys, " ")
}

func (a App) selectedProject() (model.Project, bool) {
	if a.cursor < 0 || a.cursor >= len(a.projects) {
		return model.Project{}, false
	}
	return a.projects[a.cursor], true
}

// updateProjectsKey handles keys specific to the projects tab. ok is false
// when the key is not one of them.
func (a App) updateProjectsKey(key string) (m tea.Model, cmd tea.Cmd, ok bool) {
	switch key {
	case "j", "down":
		if a.cursor < len(a.projects)-1 {
			a.cursor++
		}
		return a, nil, true
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil, true
	case "g":
		a.cursor = 0
		return a, nil, true
	case "G":
		a.cursor = max(0, len(a.projects)-1)
		return a, nil, true
	case "enter":
		if _, ok := a.selectedProject(); !ok {
			return a, nil, true
		}
		a.entering = true
		a.amountInput = newAmountInput()
		a.amountInput.Focus()
		return a, textinput.Blink, true
	}

	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(a.cfg.Contribute.Amounts) {
		p, ok := a.selectedProject()
		if !ok {
			return a, nil, true
		}
		m, cmd := a.startConfirm(p.ID, a.cfg.Contribute.Amounts[n-1])
		return m, cmd, true
	}
	return a, nil, false
}

func (a App) updateAmountInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.entering = false
		a.amountInput.Blur()
		return a, nil
	case "enter":
		a.entering = false
		a.amountInput.Blur()
		p, ok := a.selectedProject()
		if !ok {
			return a, nil
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(a.amountInput.Value()), 64)
		if err != nil {
			a.notices.Notify(MsgInvalidAmount, model.NoticeError)
			return a, nil
		}
		return a, contributeCmd(a.disp, p.ID, amount, false)
	}

	var cmd tea.Cmd
	a.amountInput, cmd = a.amountInput.Update(msg)
	return a, cmd
}

// startConfirm opens the confirm dialog for a preset amount.
func (a App) startConfirm(id model.ProjectID, amount float64) (tea.Model, tea.Cmd) {
	answer := new(bool)
	a.pending = &pendingContribution{project: id, amount: amount, answer: answer}
	a.confirm = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(dispatch.ConfirmPrompt(amount)).
			Affirmative("Help").
			Negative("Cancel").
			Value(answer),
	)).WithShowHelp(false).WithWidth(min(max(a.width, 20), 60))
	return a, a.confirm.Init()
}

func (a App) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return a.resolveConfirm(false)
	}

	form, cmd := a.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.confirm = f
	}

	switch a.confirm.State {
	case huh.StateCompleted:
		return a.resolveConfirm(a.pending != nil && *a.pending.answer)
	case huh.StateAborted:
		return a.resolveConfirm(false)
	}
	return a, cmd
}

// resolveConfirm closes the dialog and, if the user agreed, sends the
// contribution over the form path.
func (a App) resolveConfirm(yes bool) (tea.Model, tea.Cmd) {
	p := a.pending
	a.confirm = nil
	a.pending = nil
	if !yes || p == nil {
		return a, nil
	}
	return a, contributeCmd(a.disp, p.project, p.amount, true)
}

func (a App) renderConfirm(cw int) string {
	return components.SelectedCard("Confirm contribution", a.confirm.View(), cw)
}

func (a App) renderProjectsTab(cw, contentH int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background)

	if len(a.projects) == 0 {
		return components.ContentCard("Projects", muted.Render("No projects to show."), cw)
	}

	footerH := 1
	if a.entering {
		footerH += 3
	}
	fit := max(1, (contentH-footerH)/projectCardHeight)
	start := 0
	if a.cursor >= fit {
		start = a.cursor - fit + 1
	}

	var b strings.Builder
	for i := start; i < len(a.projects) && i < start+fit; i++ {
		if !a.projectCardVisible(i) {
			break
		}
		b.WriteString(a.renderProjectCard(a.projects[i], i == a.cursor, cw))
		b.WriteString("\n")
	}

	if a.entering {
		p, _ := a.selectedProject()
		b.WriteString(components.SelectedCard("Help "+p.Title, a.amountInput.View(), cw))
		b.WriteString("\n")
	}

	hint := "[j/k] select  [enter] custom amount"
	for i, amt := range a.cfg.Contribute.Amounts {
		if i == 9 {
			break
		}
		hint += fmt.Sprintf("  [%d] %s", i+1, amountLabel(amt))
	}
	b.WriteString(dim.Render(hint))
	return b.String()
}

func (a App) renderProjectCard(p model.Project, selected bool, cw int) string {
	t := theme.Active
	title := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	amount := lipgloss.NewStyle().Foreground(t.Reward()).Background(t.Surface)

	id := string(p.ID)
	head := title.Render(cli.Truncate(p.Title, components.CardInnerWidth(cw)-24))
	var meta []string
	for _, s := range []string{p.Country, p.Category} {
		if s != "" {
			meta = append(meta, s)
		}
	}
	if len(meta) > 0 {
		head += muted.Render("  " + strings.Join(meta, " · "))
	}

	bar := view.ProjectBarTarget(id)
	barW := components.CardInnerWidth(cw) - 8
	progress := components.ProgressBar(view.Percent(a.vm.Width(bar)), barW, a.vm.Text(bar))

	current := a.vm.Text(view.ProjectAmountTarget(id))
	funds := amount.Render(orPlaceholder(current)) + muted.Render(" / "+view.FormatAmount(p.TargetAmount))

	body := progress + "\n" + funds
	if selected {
		return components.SelectedCard(head, body, cw)
	}
	return components.ContentCard(head, body, cw)
}
