package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/loomworks/orgdeck/internal/api"
	"github.com/loomworks/orgdeck/internal/i18n"
	"github.com/loomworks/orgdeck/internal/ui/components"
)

// --- Messages ---

type attributesLoadedMsg struct{ items []api.Attribute }

// --- View States ---

type attributesView int

const (
	attributesViewList attributesView = iota
	attributesViewDetail
)

// --- Attributes Model ---

// AttributesModel browses the attribute schema read-only. Assignment happens
// from the members tab.
type AttributesModel struct {
	client  *api.Client
	items   []api.Attribute
	list    *components.List
	loading bool
	view    attributesView
	detail  *api.Attribute
	width   int
	height  int
}

func NewAttributesModel(client *api.Client) AttributesModel {
	return AttributesModel{
		client:  client,
		list:    components.NewList(12),
		view:    attributesViewList,
		loading: true,
	}
}

func (m AttributesModel) Init() tea.Cmd {
	return m.loadAttributes()
}

func (m AttributesModel) loadAttributes() tea.Cmd {
	return func() tea.Msg {
		items, err := m.client.ListAttributes()
		if err != nil {
			return errMsg{err}
		}
		return attributesLoadedMsg{items: items}
	}
}

func (m AttributesModel) Update(msg tea.Msg) (AttributesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case attributesLoadedMsg:
		m.loading = false
		m.items = msg.items
		labels := make([]string, len(msg.items))
		for i, attr := range msg.items {
			labels[i] = formatAttributeLine(attr)
		}
		m.list.SetItems(labels)
		return m, nil

	case errMsg:
		m.loading = false
		return m, nil

	case tea.KeyMsg:
		if m.view == attributesViewDetail {
			if isBack(msg) {
				m.detail = nil
				m.view = attributesViewList
			}
			return m, nil
		}
		switch {
		case isDown(msg):
			m.list.Down()
		case isUp(msg):
			m.list.Up()
		case isEnter(msg):
			if idx := m.list.Selected(); idx < len(m.items) {
				attr := m.items[idx]
				m.detail = &attr
				m.view = attributesViewDetail
			}
		}
	}
	return m, nil
}

func (m AttributesModel) View() string {
	if m.view == attributesViewDetail {
		return components.Indent(m.renderDetail(), 1)
	}
	return components.Indent(m.renderList(), 1)
}

func (m AttributesModel) renderList() string {
	if m.loading {
		return "  " + MutedStyle.Render(i18n.T("attributes.loading"))
	}
	if len(m.items) == 0 {
		content := MutedStyle.Render(i18n.T("attributes.empty"))
		return components.Box(content, m.width)
	}

	var rows strings.Builder
	visible := m.list.Visible()
	for i, label := range visible {
		absIdx := m.list.RelToAbs(i)
		if m.list.IsSelected(absIdx) {
			rows.WriteString(SelectedStyle.Render("  > ") + label)
		} else {
			rows.WriteString("    " + label)
		}
		if i < len(visible)-1 {
			rows.WriteString("\n")
		}
	}

	countLine := MutedStyle.Render(fmt.Sprintf("%d total", len(m.items)))
	content := countLine + "\n\n" + rows.String()
	return components.TitledBox(i18n.T("attributes.title"), content, m.width)
}

func (m AttributesModel) renderDetail() string {
	if m.detail == nil {
		return m.renderList()
	}

	attr := m.detail
	rows := []components.TableRow{
		{Label: "ID", Value: attr.ID},
		{Label: "Name", Value: attr.Name},
		{Label: "Type", Value: string(attr.Type)},
	}
	if attr.Type.Choice() {
		rows = append(rows, components.TableRow{Label: "Options", Value: fmt.Sprintf("%d", len(attr.Options))})
	}

	sections := []string{components.Table("Attribute", rows, m.width)}
	if len(attr.Options) > 0 {
		optionRows := make([]components.TableRow, 0, len(attr.Options))
		for _, opt := range attr.Options {
			optionRows = append(optionRows, components.TableRow{Label: opt.ID, Value: opt.Value})
		}
		sections = append(sections, components.Table("Options", optionRows, m.width))
	}
	return strings.Join(sections, "\n\n")
}
