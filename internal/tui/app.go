// Package tui provides the interactive Bubble Tea dashboard for cfarm.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/cfarm/internal/config"
	"github.com/theirongolddev/cfarm/internal/cooldown"
	"github.com/theirongolddev/cfarm/internal/dispatch"
	"github.com/theirongolddev/cfarm/internal/logging"
	"github.com/theirongolddev/cfarm/internal/model"
	"github.com/theirongolddev/cfarm/internal/notify"
	"github.com/theirongolddev/cfarm/internal/store"
	"github.com/theirongolddev/cfarm/internal/tui/components"
	"github.com/theirongolddev/cfarm/internal/tui/theme"
	"github.com/theirongolddev/cfarm/internal/view"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// History is the read side of the action journal.
type History interface {
	Recent(limit int) ([]model.ActionRecord, error)
	Totals() (store.Totals, error)
}

// Options wires an App.
type Options struct {
	Dispatcher *dispatch.Dispatcher
	// History may be nil when journaling is disabled.
	History History
	Config  config.Config
	Logger  logging.Logger
	// Server is shown in the status bar.
	Server string
	// Now defaults to time.Now.
	Now func() time.Time
	// SaveConfig persists settings edits. Defaults to config.Save.
	SaveConfig func(config.Config) error
}

type statsMsg struct{ res dispatch.Result }

type projectsMsg struct{ res dispatch.Result }

type tapMsg struct{ res dispatch.Result }

type afkMsg struct{ res dispatch.Result }

type contributeMsg struct {
	res       dispatch.Result
	confirmed bool
}

type historyMsg struct {
	records []model.ActionRecord
	totals  store.Totals
	err     error
}

type revealMsg struct{ restore []view.Command }

type rewardDoneMsg struct{ seq int }

type reloadMsg struct{}

type tickMsg struct{}

// pendingContribution is a preset amount waiting on the confirm dialog.
type pendingContribution struct {
	project model.ProjectID
	amount  float64
	answer  *bool
}

// App is the root Bubble Tea model. It owns the view model, the notification
// stack and, through the dispatcher, the tap cooldown gate.
type App struct {
	disp       *dispatch.Dispatcher
	history    History
	cfg        config.Config
	log        logging.Logger
	server     string
	now        func() time.Time
	saveConfig func(config.Config) error

	vm      *view.ViewModel
	notices *notify.Center

	// Data
	stats     *model.UserStats
	projects  []model.Project
	records   []model.ActionRecord
	totals    store.Totals
	statsIn   bool
	projIn    bool
	enteredAt time.Time
	revealed  bool

	// Reward flash
	reward    *float64
	rewardSeq int

	refreshing int
	reloading  bool
	collecting bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	cursor    int

	// Contribution input
	entering    bool
	amountInput textinput.Model
	confirm     *huh.Form
	pending     *pendingContribution

	settings settingsState
	spinner  spinner.Model
}

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
	minContentHeight = 5
	maxBanners       = 3
	historyLimit     = 50
	tickInterval     = 100 * time.Millisecond

	// dashboardCards counts the dashboard's cards: four metrics, experience,
	// tap and achievements. Project cards enter after them.
	dashboardCards = 7
)

const (
	tabDashboard = iota
	tabProjects
	tabHistory
	tabSettings
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	save := opts.SaveConfig
	if save == nil {
		save = config.Save
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		disp:       opts.Dispatcher,
		history:    opts.History,
		cfg:        opts.Config,
		log:        opts.Logger,
		server:     opts.Server,
		now:        now,
		saveConfig: save,
		vm:         view.New(),
		notices: notify.NewCenter(
			notify.WithTTL(config.Duration(opts.Config.Timing.NotificationMs)),
			notify.WithClock(now),
		),
		spinner:     sp,
		amountInput: newAmountInput(),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.refreshCmd(),
		a.spinner.Tick,
		tickCmd(),
	)
}

func (a *App) refreshCmd() tea.Cmd {
	a.refreshing = 2
	return tea.Batch(
		refreshStatsCmd(a.disp),
		refreshProjectsCmd(a.disp),
		loadHistoryCmd(a.history),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.confirm != nil {
			a.confirm = a.confirm.WithWidth(min(msg.Width, 60))
		}
		return a, nil

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case statsMsg:
		a.statsIn = true
		a.refreshing = max(0, a.refreshing-1)
		a.apply(msg.res)
		if msg.res.Stats != nil {
			a.stats = msg.res.Stats
		}
		return a, nil

	case projectsMsg:
		a.projIn = true
		a.refreshing = max(0, a.refreshing-1)
		a.apply(msg.res)
		if msg.res.Err != nil {
			return a, nil
		}
		a.projects = msg.res.Projects
		if a.cursor >= len(a.projects) {
			a.cursor = max(0, len(a.projects)-1)
		}
		if a.revealed {
			return a, nil
		}
		return a, a.startEntrance()

	case revealMsg:
		// A fresher response may already have set the bar.
		for _, c := range msg.restore {
			if a.vm.Width(c.Target) == "0%" {
				a.vm.Apply(c)
			}
		}
		return a, nil

	case tapMsg:
		a.apply(msg.res)
		if msg.res.Stats != nil {
			a.stats = msg.res.Stats
		}
		cmds := []tea.Cmd{loadHistoryCmd(a.history)}
		if msg.res.Reward != nil {
			a.reward = msg.res.Reward
			a.rewardSeq++
			seq := a.rewardSeq
			cmds = append(cmds, tea.Tick(config.Duration(a.cfg.Timing.RewardMs), func(time.Time) tea.Msg {
				return rewardDoneMsg{seq: seq}
			}))
		}
		return a, tea.Batch(cmds...)

	case afkMsg:
		a.collecting = false
		a.apply(msg.res)
		return a, loadHistoryCmd(a.history)

	case rewardDoneMsg:
		if msg.seq == a.rewardSeq {
			a.reward = nil
		}
		return a, nil

	case contributeMsg:
		a.apply(msg.res)
		cmds := []tea.Cmd{loadHistoryCmd(a.history)}
		if msg.res.Reload {
			a.reloading = true
			cmds = append(cmds, tea.Tick(config.Duration(a.cfg.Timing.ReloadMs), func(time.Time) tea.Msg {
				return reloadMsg{}
			}))
		}
		return a, tea.Batch(cmds...)

	case reloadMsg:
		a.reload()
		return a, a.refreshCmd()

	case historyMsg:
		if msg.err != nil {
			a.log.Warn().Err(msg.err).Msg("reading journal failed")
			return a, nil
		}
		a.records = msg.records
		a.totals = msg.totals
		return a, nil

	case spinner.TickMsg:
		if !a.loaded() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		a.notices.Prune(a.now())
		return a, tickCmd()
	}

	// Cursor blinks and other internal messages for the active input.
	switch {
	case a.confirm != nil:
		return a.updateConfirm(msg)
	case a.entering:
		var cmd tea.Cmd
		a.amountInput, cmd = a.amountInput.Update(msg)
		return a, cmd
	case a.settings.editing:
		var cmd tea.Cmd
		a.settings.input, cmd = a.settings.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// Modal inputs intercept all keys
	if a.confirm != nil {
		return a.updateConfirm(msg)
	}
	if a.entering {
		return a.updateAmountInput(msg)
	}
	if a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case " ", "space", "t":
		return a.tap()
	case "a":
		if a.collecting {
			return a, nil
		}
		a.collecting = true
		return a, afkCmd(a.disp)
	case "r":
		if a.refreshing > 0 {
			return a, nil
		}
		return a, a.refreshCmd()
	case "x":
		a.dismissTop()
		return a, nil
	case "tab", "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "shift+tab", "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	}

	switch a.activeTab {
	case tabProjects:
		if m, cmd, ok := a.updateProjectsKey(key); ok {
			return m, cmd
		}
	case tabSettings:
		if m, cmd, ok := a.updateSettingsKey(key); ok {
			return m, cmd
		}
	}

	if idx := components.TabIdxByKey(key); idx >= 0 {
		a.activeTab = idx
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !a.loaded() || a.showHelp || a.confirm != nil {
		return a, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabProjects && a.cursor > 0 {
			a.cursor--
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabProjects && a.cursor < len(a.projects)-1 {
			a.cursor++
		}
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return a, nil
		}
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// tap fires a tap request if the cooldown gate admits one. Denied taps are
// ignored without feedback.
func (a App) tap() (tea.Model, tea.Cmd) {
	tok, ok := a.disp.TryTap()
	if !ok {
		return a, nil
	}
	return a, tapCmd(a.disp, tok)
}

// apply pushes a dispatcher result into the view model and the banners.
func (a *App) apply(res dispatch.Result) {
	a.vm.Apply(res.Commands...)
	for _, n := range res.Notices {
		a.notices.Notify(n.Message, n.Kind)
	}
}

// startEntrance staggers every card, dashboard first, and hides every bar
// until the reveal tick puts the real widths back.
func (a *App) startEntrance() tea.Cmd {
	a.revealed = true
	a.enteredAt = a.now()
	a.vm.Apply(view.EntranceDelays(dashboardCards+len(a.projects), config.Duration(a.cfg.Timing.CardStaggerMs))...)

	reset, restore := view.RevealBars(a.vm)
	a.vm.Apply(reset...)
	return tea.Tick(config.Duration(a.cfg.Timing.RevealMs), func(time.Time) tea.Msg {
		return revealMsg{restore: restore}
	})
}

// reload starts the page over. Notifications survive it.
func (a *App) reload() {
	a.vm = view.New()
	a.stats = nil
	a.projects = nil
	a.statsIn = false
	a.projIn = false
	a.revealed = false
	a.reloading = false
	a.reward = nil
	a.cursor = 0
}

func (a *App) dismissTop() {
	active := a.notices.Active(a.now())
	if len(active) > 0 {
		a.notices.Dismiss(active[0].ID)
	}
}

func (a App) loaded() bool {
	return a.statsIn || a.projIn
}

// cardVisible reports whether the n-th card has passed its entrance delay.
// Before the first entrance no card has a delay and all are visible.
func (a App) cardVisible(n int) bool {
	return !a.now().Before(a.enteredAt.Add(a.vm.Delay(view.CardTarget(n))))
}

func (a App) projectCardVisible(i int) bool {
	return a.cardVisible(dashboardCards + i)
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded() {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  cfarm needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ cfarm"))
	b.WriteString(subtitleStyle.Render(" · Charity Farm"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Connecting to " + a.server))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

type binding struct{ key, desc string }

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	section := func(b *strings.Builder, title string, binds []binding) {
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, bind := range binds {
			fmt.Fprintf(b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	section(&b, "Navigation", []binding{
		{"d p h s", "Jump to tab"},
		{"← → Tab", "Previous / Next tab"},
		{"j k", "Select project"},
	})
	b.WriteString("\n")
	section(&b, "Actions", []binding{
		{"Space t", "Tap for a reward"},
		{"a", "Collect AFK earnings"},
		{"Enter", "Help with a custom amount"},
		{presetKeys(len(a.cfg.Contribute.Amounts)), "Help with a preset amount"},
		{"r", "Refresh"},
		{"x", "Dismiss notification"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	})
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar plus active notifications
	header := components.RenderTabBar(a.activeTab, w)
	active := a.notices.Active(a.now())
	for i, n := range active {
		if i == maxBanners {
			more := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background).Width(w)
			header += "\n" + more.Render(fmt.Sprintf(" +%d more", len(active)-maxBanners))
			break
		}
		header += "\n" + components.NotificationBanner(n.Message, n.Kind, w)
	}

	// 2. Status bar
	statusBar := a.renderStatusBar(w)

	// 3. Content zone height
	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Tab content, or the confirm dialog over it
	var content string
	switch {
	case a.confirm != nil:
		content = a.renderConfirm(cw)
	case a.activeTab == tabDashboard:
		content = a.renderDashboardTab(cw)
	case a.activeTab == tabProjects:
		content = a.renderProjectsTab(cw, contentH)
	case a.activeTab == tabHistory:
		content = a.renderHistoryTab(cw)
	case a.activeTab == tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderStatusBar(w int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	var user string
	if lvl := a.vm.Text(view.UserLevel); lvl != "" {
		user = muted.Render("Lv ") + accent.Render(lvl) +
			muted.Render(" · ") + accent.Render(a.vm.Text(view.UserBalance)) +
			muted.Render(" · xp ") + muted.Render(a.vm.Width(view.ExperienceBar))
	}

	var state string
	switch {
	case a.reloading:
		state = muted.Render("reloading…")
	case a.refreshing > 0:
		state = muted.Render("refreshing…")
	}

	return components.RenderStatusBar(w, "[space]tap  [a]fk  [r]efresh  [?]help  [q]uit",
		user,
		state,
		components.CooldownBar("tap", a.cooldownRemaining(), 14),
		muted.Render(a.server),
	)
}

// cooldownRemaining is the share of the tap window still to wait; 1 while a
// tap is in flight.
func (a App) cooldownRemaining() float64 {
	gate := a.disp.Gate()
	if gate.Busy() {
		return 1
	}
	spacing := config.Duration(a.cfg.Timing.TapCooldownMs)
	left := gate.ReadyAt().Sub(a.now())
	if spacing <= 0 || left <= 0 {
		return 0
	}
	return float64(left) / float64(spacing)
}

// ─── Commands ───────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func refreshStatsCmd(d *dispatch.Dispatcher) tea.Cmd {
	return func() tea.Msg {
		return statsMsg{res: d.RefreshStats(context.Background())}
	}
}

func refreshProjectsCmd(d *dispatch.Dispatcher) tea.Cmd {
	return func() tea.Msg {
		return projectsMsg{res: d.RefreshProjects(context.Background())}
	}
}

func tapCmd(d *dispatch.Dispatcher, tok cooldown.Token) tea.Cmd {
	return func() tea.Msg {
		return tapMsg{res: d.Tap(context.Background(), tok)}
	}
}

func afkCmd(d *dispatch.Dispatcher) tea.Cmd {
	return func() tea.Msg {
		return afkMsg{res: d.CollectAFK(context.Background())}
	}
}

func contributeCmd(d *dispatch.Dispatcher, id model.ProjectID, amount float64, confirmed bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if confirmed {
			return contributeMsg{res: d.ContributeConfirmed(ctx, id, amount), confirmed: true}
		}
		return contributeMsg{res: d.Contribute(ctx, id, amount)}
	}
}

func loadHistoryCmd(h History) tea.Cmd {
	if h == nil {
		return nil
	}
	return func() tea.Msg {
		recs, err := h.Recent(historyLimit)
		if err != nil {
			return historyMsg{err: err}
		}
		totals, err := h.Totals()
		return historyMsg{records: recs, totals: totals, err: err}
	}
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
