package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/loomworks/orgdeck/internal/api"
	"github.com/loomworks/orgdeck/internal/i18n"
	"github.com/loomworks/orgdeck/internal/ui/components"
)

// --- Messages ---

type membersLoadedMsg struct{ items []api.Member }

// --- View States ---

type membersView int

const (
	membersViewList membersView = iota
	membersViewDetail
)

// --- Members Model ---

type MembersModel struct {
	client    *api.Client
	items     []api.Member
	list      *components.List
	loading   bool
	view      membersView
	searchBuf string
	width     int
	height    int

	detail *api.Member

	bulkSelected map[string]bool

	assignState *AssignState
	assign      AssignModel
}

func NewMembersModel(client *api.Client) MembersModel {
	state := &AssignState{}
	return MembersModel{
		client:       client,
		list:         components.NewList(12),
		view:         membersViewList,
		loading:      true,
		bulkSelected: map[string]bool{},
		assignState:  state,
		assign:       NewAssignModel(client, state),
	}
}

// Init reloads the directory. List position, search, and selection survive
// tab switches; only the data refreshes.
func (m MembersModel) Init() tea.Cmd {
	return m.loadMembers(strings.TrimSpace(m.searchBuf))
}

func (m MembersModel) loadMembers(query string) tea.Cmd {
	return func() tea.Msg {
		params := api.QueryParams{"limit": "200"}
		if query != "" {
			params["search_text"] = query
		}
		items, err := m.client.QueryMembers(params)
		if err != nil {
			return errMsg{err}
		}
		return membersLoadedMsg{items: items}
	}
}

func (m MembersModel) Update(msg tea.Msg) (MembersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case membersLoadedMsg:
		m.loading = false
		m.items = msg.items
		labels := make([]string, len(msg.items))
		for i, member := range msg.items {
			labels[i] = components.SanitizeOneLine(member.Name)
		}
		m.list.SetItems(labels)
		return m, nil

	case assignCatalogMsg, assignFailedMsg, spinner.TickMsg:
		if m.assign.open {
			var cmd tea.Cmd
			m.assign, cmd = m.assign.Update(msg)
			return m, cmd
		}
		return m, nil

	case assignDoneMsg:
		m.assign.Close()
		m.clearBulkSelection()
		m.loading = true
		return m, m.loadMembers(strings.TrimSpace(m.searchBuf))

	case errMsg:
		m.loading = false
		if m.assign.open {
			m.assign.loading = false
		}
		return m, nil

	case tea.KeyMsg:
		if m.assign.open {
			var cmd tea.Cmd
			m.assign, cmd = m.assign.Update(msg)
			return m, cmd
		}
		switch m.view {
		case membersViewDetail:
			return m.handleDetailKeys(msg)
		default:
			return m.handleListKeys(msg)
		}
	}
	return m, nil
}

// --- List View ---

func (m MembersModel) handleListKeys(msg tea.KeyMsg) (MembersModel, tea.Cmd) {
	switch {
	case isDown(msg):
		m.list.Down()
	case isUp(msg):
		m.list.Up()
	case isSpace(msg):
		if m.searchBuf == "" {
			m.toggleBulkSelection(m.list.Selected())
			return m, nil
		}
		return m.appendSearch(" ")
	case isEnter(msg):
		if idx := m.list.Selected(); idx < len(m.items) {
			member := m.items[idx]
			m.detail = &member
			m.view = membersViewDetail
		}
	// Selection hotkeys only act while no search is being typed; otherwise
	// the letter belongs to the query, same as space.
	case isKey(msg, "a"):
		if m.searchBuf != "" {
			return m.appendSearch("a")
		}
		if m.bulkCount() > 0 {
			return m, m.assign.Open(m.bulkSelectedIDs())
		}
	case isKey(msg, "b"):
		if m.searchBuf != "" {
			return m.appendSearch("b")
		}
		for _, member := range m.items {
			if member.ID != "" {
				m.bulkSelected[member.ID] = true
			}
		}
		return m, nil
	case isKey(msg, "c"):
		if m.searchBuf != "" {
			return m.appendSearch("c")
		}
		if m.bulkCount() > 0 {
			m.clearBulkSelection()
			return m, nil
		}
	case isKey(msg, "backspace", "delete"):
		if len(m.searchBuf) > 0 {
			m.searchBuf = m.searchBuf[:len(m.searchBuf)-1]
			m.loading = true
			return m, m.loadMembers(strings.TrimSpace(m.searchBuf))
		}
	case isKey(msg, "cmd+backspace", "cmd+delete", "ctrl+u"):
		if m.searchBuf != "" {
			m.searchBuf = ""
			m.loading = true
			return m, m.loadMembers("")
		}
	case isBack(msg):
		if m.searchBuf != "" {
			m.searchBuf = ""
			m.loading = true
			return m, m.loadMembers("")
		}
	default:
		ch := msg.String()
		if len(ch) == 1 {
			return m.appendSearch(ch)
		}
	}
	return m, nil
}

func (m MembersModel) appendSearch(ch string) (MembersModel, tea.Cmd) {
	m.searchBuf += ch
	m.loading = true
	return m, m.loadMembers(strings.TrimSpace(m.searchBuf))
}

func (m *MembersModel) toggleBulkSelection(absIdx int) {
	if absIdx < 0 || absIdx >= len(m.items) {
		return
	}
	id := m.items[absIdx].ID
	if id == "" {
		return
	}
	if m.bulkSelected[id] {
		delete(m.bulkSelected, id)
		return
	}
	m.bulkSelected[id] = true
}

func (m *MembersModel) clearBulkSelection() {
	m.bulkSelected = map[string]bool{}
}

func (m *MembersModel) bulkCount() int {
	return len(m.bulkSelected)
}

func (m *MembersModel) bulkSelectedIDs() []string {
	if len(m.bulkSelected) == 0 {
		return nil
	}
	ids := make([]string, 0, len(m.bulkSelected))
	for id := range m.bulkSelected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m MembersModel) renderList() string {
	if m.loading {
		return "  " + MutedStyle.Render(i18n.T("members.loading"))
	}

	if len(m.items) == 0 {
		content := MutedStyle.Render(i18n.T("members.empty"))
		return components.Box(content, m.width)
	}

	contentWidth := components.BoxContentWidth(m.width)
	columns := []components.TableColumn{
		{Header: "", Width: 3},
		{Header: "Name", Width: contentWidth * 4 / 10},
		{Header: "Email", Width: contentWidth * 4 / 10},
		{Header: "Role", Width: 10},
	}

	visible := m.list.Visible()
	rows := make([][]string, 0, len(visible))
	for i := range visible {
		absIdx := m.list.RelToAbs(i)
		if absIdx < 0 || absIdx >= len(m.items) {
			continue
		}
		member := m.items[absIdx]
		mark := ""
		if m.bulkSelected[member.ID] {
			mark = "[x]"
		}
		rows = append(rows, []string{
			mark,
			components.SanitizeOneLine(member.Name),
			components.SanitizeOneLine(member.Email),
			components.SanitizeOneLine(member.Role),
		})
	}

	grid := components.TableGridWithActiveRow(columns, rows, contentWidth, m.list.Cursor-m.list.Offset)

	countLine := fmt.Sprintf("%d total", len(m.items))
	if selected := m.bulkCount(); selected > 0 {
		countLine = fmt.Sprintf("%s · selected: %d", countLine, selected)
	}
	if query := strings.TrimSpace(m.searchBuf); query != "" {
		countLine = fmt.Sprintf("%s · search: %s", countLine, query)
	}
	content := MutedStyle.Render(countLine) + "\n\n" + grid
	return components.TitledBox(i18n.T("members.title"), content, m.width)
}

// --- Detail View ---

func (m MembersModel) handleDetailKeys(msg tea.KeyMsg) (MembersModel, tea.Cmd) {
	if isBack(msg) {
		m.detail = nil
		m.view = membersViewList
	}
	return m, nil
}

func (m MembersModel) renderDetail() string {
	if m.detail == nil {
		return m.renderList()
	}

	member := m.detail
	rows := []components.TableRow{
		{Label: "ID", Value: member.ID},
		{Label: "Name", Value: member.Name},
		{Label: "Email", Value: member.Email},
	}
	if member.Role != "" {
		rows = append(rows, components.TableRow{Label: "Role", Value: member.Role})
	}
	if !member.CreatedAt.IsZero() {
		rows = append(rows, components.TableRow{Label: "Joined", Value: member.CreatedAt.Format("2006-01-02 15:04")})
	}

	sections := []string{components.Table("Member", rows, m.width)}
	if len(member.Attributes) > 0 {
		names := make([]string, 0, len(member.Attributes))
		for name := range member.Attributes {
			names = append(names, name)
		}
		sort.Strings(names)
		attrRows := make([]components.TableRow, 0, len(names))
		for _, name := range names {
			attrRows = append(attrRows, components.TableRow{
				Label: name,
				Value: strings.Join(member.Attributes[name], ", "),
			})
		}
		sections = append(sections, components.Table("Attributes", attrRows, m.width))
	}
	return strings.Join(sections, "\n\n")
}

func (m MembersModel) View() string {
	if m.assign.open {
		return components.Indent(m.assign.View(), 1)
	}
	if m.view == membersViewDetail {
		return components.Indent(m.renderDetail(), 1)
	}
	return components.Indent(m.renderList(), 1)
}
