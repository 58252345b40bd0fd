package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/loomworks/orgdeck/internal/api"
	"github.com/loomworks/orgdeck/internal/config"
	"github.com/loomworks/orgdeck/internal/i18n"
	"github.com/loomworks/orgdeck/internal/ui/components"
)

// --- Profile Model ---

// ProfileModel is the settings tab: connection info plus re-login.
type ProfileModel struct {
	client *api.Client
	config *config.Config
	width  int
	height int
	busy   bool
}

func NewProfileModel(client *api.Client, cfg *config.Config) ProfileModel {
	return ProfileModel{client: client, config: cfg}
}

func (m ProfileModel) Init() tea.Cmd {
	return nil
}

func (m ProfileModel) Update(msg tea.Msg) (ProfileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isKey(msg, "r") && !m.busy {
			m.busy = true
			return m, m.reloginCmd()
		}
	}
	return m, nil
}

func (m ProfileModel) reloginCmd() tea.Cmd {
	if m.client == nil || m.config == nil {
		return func() tea.Msg {
			return errMsg{err: fmt.Errorf("re-login unavailable; run orgdeck login")}
		}
	}
	username := strings.TrimSpace(m.config.Username)
	if username == "" {
		return func() tea.Msg {
			return errMsg{err: fmt.Errorf("username missing; run orgdeck login")}
		}
	}
	return func() tea.Msg {
		resp, err := m.client.Login(username)
		if err != nil {
			return reloginDoneMsg{err: err}
		}
		return reloginDoneMsg{apiKey: resp.APIKey}
	}
}

func (m ProfileModel) View() string {
	rows := []components.TableRow{
		{Label: "Server", Value: api.DefaultBaseURL},
	}
	if m.config != nil {
		rows = append(rows,
			components.TableRow{Label: "Username", Value: m.config.Username},
			components.TableRow{Label: "Organization", Value: m.config.OrgID},
			components.TableRow{Label: "API Key", Value: maskAPIKey(m.config.APIKey)},
		)
	} else {
		rows = append(rows, components.TableRow{Label: "Login", Value: "not logged in · run orgdeck login"})
	}
	rows = append(rows,
		components.TableRow{Label: "Config", Value: config.Path()},
		components.TableRow{Label: "Strings", Value: config.StringsPath()},
	)

	body := components.Table(i18n.T("profile.title"), rows, m.width)
	if m.busy {
		body += "\n\n  " + MutedStyle.Render("Logging in...")
	}
	return components.Indent(body, 1)
}

func maskAPIKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "not set"
	}
	if len(key) <= 8 {
		return key
	}
	return key[:8] + "…"
}
