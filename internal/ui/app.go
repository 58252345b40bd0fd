package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/loomworks/orgdeck/internal/api"
	"github.com/loomworks/orgdeck/internal/config"
	"github.com/loomworks/orgdeck/internal/i18n"
	"github.com/loomworks/orgdeck/internal/ui/components"
)

// --- Tab Constants ---

const (
	tabMembers    = 0
	tabAttributes = 1
	tabProfile    = 2
	tabCount      = 3
)

var tabNames = []string{"Members", "Attributes", "Settings"}

// --- Messages ---

type errMsg struct{ err error }
type clearToastMsg struct{}
type reloginDoneMsg struct {
	apiKey string
	err    error
}
type startupCheckedMsg struct {
	apiErr  string
	authErr string
}

type startupSummary struct {
	API  string
	Auth string
	Done bool
}

type appToast struct {
	level string
	text  string
}

// --- App Model ---

// App is the root TUI model that routes between tabs.
type App struct {
	client      *api.Client
	config      *config.Config
	tab         int
	tabNav      bool
	width       int
	height      int
	err         string
	helpOpen    bool
	quitConfirm bool

	startupChecking bool
	startup         startupSummary
	toast           *appToast

	members    MembersModel
	attributes AttributesModel
	profile    ProfileModel
}

// NewApp creates the root application model.
func NewApp(client *api.Client, cfg *config.Config) App {
	return App{
		client:          client,
		config:          cfg,
		tab:             tabMembers,
		tabNav:          true,
		startupChecking: client != nil,
		startup: startupSummary{
			API:  "checking",
			Auth: "checking",
		},
		members:    NewMembersModel(client),
		attributes: NewAttributesModel(client),
		profile:    NewProfileModel(client, cfg),
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.members.Init()}
	if a.startupChecking {
		cmds = append(cmds, a.runStartupCheckCmd())
	}
	return tea.Batch(cmds...)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.members.width = msg.Width
		a.members.height = msg.Height
		a.members.assign.width = msg.Width
		a.attributes.width = msg.Width
		a.attributes.height = msg.Height
		a.profile.width = msg.Width
		a.profile.height = msg.Height
		return a, nil

	case errMsg:
		a.err = msg.err.Error()
		var cmd tea.Cmd
		switch a.tab {
		case tabMembers:
			a.members, cmd = a.members.Update(msg)
		case tabAttributes:
			a.attributes, cmd = a.attributes.Update(msg)
		}
		return a, cmd

	case clearToastMsg:
		a.toast = nil
		return a, nil

	case reloginDoneMsg:
		a.profile.busy = false
		if msg.err != nil {
			a.err = fmt.Sprintf("re-login failed: %v", msg.err)
			return a, nil
		}
		if a.config != nil {
			a.config.APIKey = msg.apiKey
			if err := a.config.Save(); err != nil {
				a.err = fmt.Sprintf("save config: %v", err)
				return a, nil
			}
		}
		if a.client != nil {
			a.client.SetAPIKey(msg.apiKey)
		}
		a.err = ""
		return a, a.setToast("success", i18n.T("toast.relogin"))

	case startupCheckedMsg:
		a.startupChecking = false
		a.startup.Done = true
		a.startup.API = classifyStartupAPI(msg.apiErr)
		if a.startup.API == "ok" {
			a.startup.Auth = classifyStartupAuth(msg.authErr, a.config)
		} else {
			a.startup.Auth = "missing"
		}
		level, text := startupToastCopy(a.startup)
		return a, a.setToast(level, text)

	case tea.KeyMsg:
		if a.quitConfirm {
			switch {
			case isKey(msg, "y"):
				return a, tea.Quit
			case isKey(msg, "n"), isBack(msg):
				a.quitConfirm = false
			}
			return a, nil
		}
		if a.helpOpen {
			if isBack(msg) || isKey(msg, "?") {
				a.helpOpen = false
			}
			return a, nil
		}
		if a.err != "" {
			a.err = ""
		}

		// Global keys. The assign popover owns the keyboard while open, so
		// tab switches and quit-by-q are suppressed until it closes.
		if !a.popoverActive() {
			if isKey(msg, "?") {
				a.helpOpen = true
				return a, nil
			}
			if isQuit(msg) {
				return a, tea.Quit
			}
			for n := 1; n <= tabCount; n++ {
				if isTab(msg, n) {
					return a.switchTab(n - 1)
				}
			}
			if a.tabNav {
				if isKey(msg, "left") {
					return a.switchTab((a.tab - 1 + tabCount) % tabCount)
				}
				if isKey(msg, "right") {
					return a.switchTab((a.tab + 1) % tabCount)
				}
				if isDown(msg) {
					a.tabNav = false
					return a, nil
				}
				a.tabNav = false
			} else {
				if isUp(msg) && a.canExitToTabNav() {
					a.tabNav = true
					return a, nil
				}
			}
		} else if isKey(msg, "ctrl+c") {
			a.quitConfirm = true
			return a, nil
		}
	}

	// Delegate to active tab
	var cmd tea.Cmd
	switch a.tab {
	case tabMembers:
		a.members, cmd = a.members.Update(msg)
	case tabAttributes:
		a.attributes, cmd = a.attributes.Update(msg)
	case tabProfile:
		a.profile, cmd = a.profile.Update(msg)
	}
	toastCmd := a.toastCmdForMsg(msg)
	if toastCmd != nil && cmd != nil {
		return a, tea.Batch(cmd, toastCmd)
	}
	if toastCmd != nil {
		return a, toastCmd
	}
	return a, cmd
}

func (a App) View() string {
	banner := centerBlockUniform(RenderBanner(), a.width)
	tabs := centerBlockUniform(a.renderTabs(), a.width)
	startupPanel := ""
	if a.startupChecking {
		startupPanel = "\n\n" + centerBlockUniform(a.renderStartupPanel(), a.width)
	}

	var content string
	switch a.tab {
	case tabMembers:
		content = a.members.View()
	case tabAttributes:
		content = a.attributes.View()
	case tabProfile:
		content = a.profile.View()
	}
	content = centerBlockUniform(content, a.width)

	if a.quitConfirm {
		content = centerBlockUniform(a.renderQuitConfirm(), a.width)
	} else if a.helpOpen {
		content = centerBlockUniform(a.renderHelp(), a.width)
	}

	hints := components.StatusBar(a.statusHints(), a.width)

	feedback := ""
	if a.err != "" {
		feedback = "\n\n" + centerBlockUniform(components.ErrorBox("Error", a.err, a.width), a.width)
	} else if a.toast != nil {
		feedback = "\n\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s\n\n\n%s%s", banner, tabs, startupPanel, content, hints, feedback)
}

func (a *App) switchTab(newTab int) (App, tea.Cmd) {
	oldTab := a.tab
	a.tab = newTab
	if oldTab != newTab {
		return *a, a.initTab(newTab)
	}
	return *a, nil
}

func (a App) popoverActive() bool {
	return a.tab == tabMembers && a.members.assign.open
}

func (a App) renderTabs() string {
	segments := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		if i == a.tab {
			segments = append(segments, TabActiveStyle.Render(name))
		} else {
			segments = append(segments, TabInactiveStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, segments...)
}

func (a App) initTab(tab int) tea.Cmd {
	switch tab {
	case tabMembers:
		return a.members.Init()
	case tabAttributes:
		return a.attributes.Init()
	case tabProfile:
		return a.profile.Init()
	}
	return nil
}

func (a App) statusHints() []string {
	if a.quitConfirm {
		return []string{
			components.Hint("y", "Confirm"),
			components.Hint("n", "Cancel"),
		}
	}
	if a.helpOpen {
		return []string{
			components.Hint("esc", "Back"),
		}
	}
	return a.statusHintsForTab()
}

func (a App) statusHintsForTab() []string {
	base := []string{
		components.Hint("1-3", "Tabs"),
		components.Hint("?", "Help"),
		components.Hint("q", "Quit"),
	}

	switch a.tab {
	case tabMembers:
		if a.members.assign.open {
			switch a.members.assign.step {
			case assignStepValue:
				return []string{
					components.Hint("↑/↓", "Scroll"),
					components.Hint("enter/space", "Pick"),
					components.Hint("ctrl+s", "Apply"),
					components.Hint("esc", "Back"),
				}
			case assignStepWarning:
				return []string{
					components.Hint("ctrl+s", "Apply Anyway"),
					components.Hint("esc", "Back"),
				}
			case assignStepSubmitting:
				return nil
			default:
				return []string{
					components.Hint("↑/↓", "Scroll"),
					components.Hint("enter", "Select"),
					components.Hint("esc", "Close"),
				}
			}
		}
		if a.members.view == membersViewDetail {
			return append(base, components.Hint("esc", "Back"))
		}
		hints := append(base,
			components.Hint("↑/↓", "Scroll"),
			components.Hint("enter", "Details"),
		)
		if strings.TrimSpace(a.members.searchBuf) == "" {
			hints = append(hints,
				components.Hint("space", "Select"),
				components.Hint("b", "Select All"),
			)
		}
		if a.members.bulkCount() > 0 {
			hints = append(hints,
				components.Hint("a", "Assign"),
				components.Hint("c", "Clear"),
			)
		}
		return hints
	case tabAttributes:
		if a.attributes.view == attributesViewDetail {
			return append(base, components.Hint("esc", "Back"))
		}
		return append(base,
			components.Hint("↑/↓", "Scroll"),
			components.Hint("enter", "Details"),
		)
	case tabProfile:
		return append(base, components.Hint("r", "Re-login"))
	}
	return base
}

func (a App) renderHelp() string {
	hints := a.statusHintsForTab()
	lines := make([]string, 0, len(hints)+2)
	lines = append(lines, MutedStyle.Render("esc to close"))
	lines = append(lines, "")
	for _, hint := range hints {
		lines = append(lines, "  "+hint)
	}
	body := strings.Join(lines, "\n")
	return components.Indent(components.TitledBox("Help", body, a.width), 1)
}

func (a App) renderQuitConfirm() string {
	body := "An assignment is in progress. Quit anyway?"
	return components.Indent(components.ConfirmDialog("Quit", body), 1)
}

func (a App) runStartupCheckCmd() tea.Cmd {
	return func() tea.Msg {
		var checkClient *api.Client
		if a.client != nil {
			checkClient = a.client.WithTimeout(700 * time.Millisecond)
		} else {
			apiKey := ""
			if a.config != nil {
				apiKey = a.config.APIKey
			}
			checkClient = api.NewDefaultClient(apiKey, 700*time.Millisecond)
		}

		msg := startupCheckedMsg{}
		if _, err := checkClient.Health(); err != nil {
			msg.apiErr = err.Error()
			return msg
		}
		if _, err := checkClient.ListAttributes(); err != nil {
			msg.authErr = err.Error()
		}
		return msg
	}
}

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(2500*time.Millisecond, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	title := "Info"
	text := a.toast.text
	switch a.toast.level {
	case "success":
		title = "Success"
		text = SuccessStyle.Render(text)
	case "warning":
		title = "Warning"
		text = WarningStyle.Render(text)
	case "error":
		return components.ErrorBox("Error", a.toast.text, a.width)
	}
	return components.TitledBox(title, text, a.width)
}

func (a App) renderStartupPanel() string {
	rows := []components.TableRow{
		{Label: "API", Value: a.startup.API},
		{Label: "Auth", Value: a.startup.Auth},
	}
	return components.Table("Startup Checks", rows, a.width)
}

func (a *App) toastCmdForMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case assignDoneMsg:
		text := strings.TrimSpace(msg.message)
		if text == "" {
			text = fmt.Sprintf("Attributes assigned to %d members.", msg.assigned)
		}
		return a.setToast("success", text)
	case assignFailedMsg:
		return a.setToast("error", msg.err.Error())
	}
	return nil
}

func classifyStartupAPI(errText string) string {
	if strings.TrimSpace(errText) == "" {
		return "ok"
	}
	lower := strings.ToLower(errText)
	if strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded") {
		return "timeout"
	}
	return "down"
}

func classifyStartupAuth(errText string, cfg *config.Config) string {
	if cfg == nil || strings.TrimSpace(cfg.APIKey) == "" {
		return "missing"
	}
	if strings.TrimSpace(errText) == "" {
		return "ok"
	}
	return "invalid"
}

func startupToastCopy(summary startupSummary) (string, string) {
	if summary.API == "ok" && summary.Auth == "ok" {
		return "success", "Startup checks passed: API and auth are healthy."
	}
	if summary.API != "ok" {
		return "error", fmt.Sprintf("Startup checks failed: API is %s.", summary.API)
	}
	return "warning", fmt.Sprintf("Startup checks: auth=%s.", summary.Auth)
}

func (a App) canExitToTabNav() bool {
	switch a.tab {
	case tabMembers:
		if a.members.assign.open || a.members.view != membersViewList {
			return false
		}
		return a.members.list == nil || a.members.list.Selected() == 0
	case tabAttributes:
		if a.attributes.view != attributesViewList {
			return false
		}
		return a.attributes.list == nil || a.attributes.list.Selected() == 0
	case tabProfile:
		return true
	}
	return false
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		w := lipgloss.Width(line)
		if w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
