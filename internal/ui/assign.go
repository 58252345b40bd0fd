package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/loomworks/orgdeck/internal/api"
	"github.com/loomworks/orgdeck/internal/i18n"
	"github.com/loomworks/orgdeck/internal/ui/components"
)

// --- Messages ---

type assignCatalogMsg struct {
	items []api.Attribute
	err   error
}
type assignDoneMsg struct {
	message  string
	assigned int
}
type assignFailedMsg struct{ err error }

// --- Assign State ---

// AssignState holds the in-progress bulk assignment selection. The members tab
// owns one instance and hands it to the popover model explicitly, so there is
// no hidden shared state and tests can inspect it directly.
type AssignState struct {
	Catalog      []api.Attribute
	AttributeID  string
	Values       []string
	Acknowledged bool
}

// Selected returns the picked attribute from the catalog, or nil.
func (s *AssignState) Selected() *api.Attribute {
	if s.AttributeID == "" {
		return nil
	}
	for i := range s.Catalog {
		if s.Catalog[i].ID == s.AttributeID {
			return &s.Catalog[i]
		}
	}
	return nil
}

// SetAttribute switches the picked attribute. Pending values and the warning
// acknowledgement belong to the previous attribute, so both are dropped.
func (s *AssignState) SetAttribute(id string) {
	s.AttributeID = id
	s.Values = nil
	s.Acknowledged = false
}

// ToggleValue adds the value if absent and removes it if already picked.
func (s *AssignState) ToggleValue(v string) {
	for i, existing := range s.Values {
		if existing == v {
			s.Values = append(s.Values[:i], s.Values[i+1:]...)
			return
		}
	}
	s.Values = append(s.Values, v)
}

// ReplaceValue keeps exactly one value.
func (s *AssignState) ReplaceValue(v string) {
	s.Values = []string{v}
}

// HasValue reports whether the value is currently picked.
func (s *AssignState) HasValue(v string) bool {
	for _, existing := range s.Values {
		if existing == v {
			return true
		}
	}
	return false
}

// Reset clears the whole selection, including the catalog.
func (s *AssignState) Reset() {
	*s = AssignState{}
}

// --- Popover Steps ---

type assignStep int

const (
	assignStepAttribute assignStep = iota
	assignStepValue
	assignStepWarning
	assignStepSubmitting
)

// --- Assign Model ---

// AssignModel is the bulk-assign popover hosted by the members tab.
type AssignModel struct {
	client  *api.Client
	state   *AssignState
	open    bool
	step    assignStep
	loading bool
	userIDs []string

	filterBuf string
	list      *components.List
	input     textinput.Model
	spin      spinner.Model
	errText   string
	width     int
}

func NewAssignModel(client *api.Client, state *AssignState) AssignModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AccentStyle

	return AssignModel{
		client: client,
		state:  state,
		list:   components.NewList(8),
		input:  ti,
		spin:   sp,
	}
}

// Open shows the popover for the given members and starts the catalog fetch.
func (m *AssignModel) Open(userIDs []string) tea.Cmd {
	m.open = true
	m.step = assignStepAttribute
	m.loading = true
	m.userIDs = append([]string{}, userIDs...)
	m.filterBuf = ""
	m.errText = ""
	m.list.SetItems(nil)
	m.input.SetValue("")
	m.input.Blur()
	m.state.Reset()
	return m.loadCatalog()
}

// Close dismisses the popover and drops every bit of in-progress selection,
// so reopening always starts from a clean picker.
func (m *AssignModel) Close() {
	m.open = false
	m.step = assignStepAttribute
	m.loading = false
	m.userIDs = nil
	m.filterBuf = ""
	m.errText = ""
	m.input.SetValue("")
	m.input.Blur()
	m.state.Reset()
}

func (m AssignModel) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		items, err := m.client.ListAttributes()
		if err != nil {
			return assignCatalogMsg{err: err}
		}
		return assignCatalogMsg{items: items}
	}
}

func (m AssignModel) Update(msg tea.Msg) (AssignModel, tea.Cmd) {
	switch msg := msg.(type) {
	case assignCatalogMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.state.Catalog = msg.items
		m.rebuildAttributeList()
		return m, nil

	case assignFailedMsg:
		// Submission failed: keep the picked attribute and values so the
		// user can retry. The app surfaces the server message as a toast.
		if m.step == assignStepSubmitting {
			m.step = assignStepValue
		}
		return m, nil

	case spinner.TickMsg:
		if m.step == assignStepSubmitting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch m.step {
		case assignStepAttribute:
			return m.handleAttributeKeys(msg)
		case assignStepValue:
			return m.handleValueKeys(msg)
		case assignStepWarning:
			return m.handleWarningKeys(msg)
		case assignStepSubmitting:
			return m, nil
		}
	}
	return m, nil
}

// --- Attribute Step ---

func (m AssignModel) handleAttributeKeys(msg tea.KeyMsg) (AssignModel, tea.Cmd) {
	switch {
	case isBack(msg):
		if m.filterBuf != "" {
			m.filterBuf = ""
			m.rebuildAttributeList()
			return m, nil
		}
		m.Close()
	case isDown(msg):
		m.list.Down()
	case isUp(msg):
		m.list.Up()
	case isEnter(msg):
		filtered := m.filteredCatalog()
		idx := m.list.Selected()
		if idx < 0 || idx >= len(filtered) {
			return m, nil
		}
		attr := filtered[idx]
		m.state.SetAttribute(attr.ID)
		m.errText = ""
		m.step = assignStepValue
		if attr.Type.Choice() {
			m.rebuildOptionList(attr)
			return m, nil
		}
		m.input.SetValue("")
		return m, m.input.Focus()
	case isKey(msg, "backspace", "delete"):
		if len(m.filterBuf) > 0 {
			m.filterBuf = m.filterBuf[:len(m.filterBuf)-1]
			m.rebuildAttributeList()
		}
	default:
		ch := msg.String()
		if len(ch) == 1 || ch == " " {
			m.filterBuf += ch
			m.rebuildAttributeList()
		}
	}
	return m, nil
}

func (m *AssignModel) filteredCatalog() []api.Attribute {
	query := strings.ToLower(strings.TrimSpace(m.filterBuf))
	if query == "" {
		return m.state.Catalog
	}
	filtered := make([]api.Attribute, 0, len(m.state.Catalog))
	for _, attr := range m.state.Catalog {
		if strings.Contains(strings.ToLower(attr.Name), query) {
			filtered = append(filtered, attr)
		}
	}
	return filtered
}

func (m *AssignModel) rebuildAttributeList() {
	filtered := m.filteredCatalog()
	labels := make([]string, len(filtered))
	for i, attr := range filtered {
		labels[i] = formatAttributeLine(attr)
	}
	m.list.SetItems(labels)
}

func formatAttributeLine(attr api.Attribute) string {
	name := components.SanitizeOneLine(attr.Name)
	kind := strings.ToLower(strings.ReplaceAll(string(attr.Type), "_", " "))
	return fmt.Sprintf("%s  %s", name, MutedStyle.Render("("+kind+")"))
}

// --- Value Step ---

func (m AssignModel) handleValueKeys(msg tea.KeyMsg) (AssignModel, tea.Cmd) {
	attr := m.state.Selected()
	if attr == nil {
		m.step = assignStepAttribute
		m.rebuildAttributeList()
		return m, nil
	}

	if isKey(msg, "ctrl+s") {
		return m.apply(attr)
	}
	if isBack(msg) {
		// Leaving the value step is a focus loss for scalar input: a valid
		// buffered value is committed before returning to the picker.
		if !attr.Type.Choice() {
			m.commitScalar()
			m.input.Blur()
		}
		m.errText = ""
		m.step = assignStepAttribute
		m.rebuildAttributeList()
		return m, nil
	}

	if attr.Type.Choice() {
		switch {
		case isDown(msg):
			m.list.Down()
		case isUp(msg):
			m.list.Up()
		case isEnter(msg), isSpace(msg):
			idx := m.list.Selected()
			if idx < 0 || idx >= len(attr.Options) {
				return m, nil
			}
			// Option ids are what the assign endpoint expects; the display
			// value is only ever rendered.
			id := attr.Options[idx].ID
			if attr.Type == api.AttributeMultiSelect {
				m.state.ToggleValue(id)
			} else {
				m.state.ReplaceValue(id)
			}
			m.errText = ""
			m.rebuildOptionList(*attr)
		}
		return m, nil
	}

	m.errText = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *AssignModel) rebuildOptionList(attr api.Attribute) {
	labels := make([]string, len(attr.Options))
	for i, opt := range attr.Options {
		mark := "( )"
		if m.state.HasValue(opt.ID) {
			mark = "(•)"
		}
		if attr.Type == api.AttributeMultiSelect {
			mark = "[ ]"
			if m.state.HasValue(opt.ID) {
				mark = "[x]"
			}
		}
		labels[i] = mark + " " + components.SanitizeOneLine(opt.Value)
	}
	keep := m.list.Cursor
	keepOffset := m.list.Offset
	m.list.SetItems(labels)
	if keep < len(labels) {
		m.list.Cursor = keep
		m.list.Offset = keepOffset
	}
}

// commitScalar moves the buffered input into the state. Keystrokes never touch
// the state directly; only this commit does. The server owns value validation,
// including number parsing.
func (m *AssignModel) commitScalar() bool {
	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		return false
	}
	m.state.ReplaceValue(raw)
	return true
}

// --- Apply / Warning ---

func (m AssignModel) apply(attr *api.Attribute) (AssignModel, tea.Cmd) {
	if !attr.Type.Choice() {
		if !m.commitScalar() {
			m.errText = "enter a value first"
			return m, nil
		}
	}
	if len(m.state.Values) == 0 {
		m.errText = "pick a value first"
		return m, nil
	}
	if attr.Type == api.AttributeMultiSelect && !m.state.Acknowledged {
		m.state.Acknowledged = true
		m.step = assignStepWarning
		return m, nil
	}
	return m.startSubmit()
}

func (m AssignModel) handleWarningKeys(msg tea.KeyMsg) (AssignModel, tea.Cmd) {
	switch {
	case isKey(msg, "ctrl+s"):
		return m.startSubmit()
	case isBack(msg):
		// Backing out re-arms the warning for the next apply.
		m.state.Acknowledged = false
		m.step = assignStepValue
	}
	return m, nil
}

func (m AssignModel) startSubmit() (AssignModel, tea.Cmd) {
	m.step = assignStepSubmitting
	m.errText = ""
	return m, tea.Batch(m.spin.Tick, m.submit())
}

func (m AssignModel) submit() tea.Cmd {
	attr := m.state.Selected()
	if attr == nil || len(m.state.Values) == 0 {
		return nil
	}

	assignment := api.AttributeAssignment{ID: attr.ID}
	if attr.Type.Choice() {
		refs := make([]api.AssignOptionRef, 0, len(m.state.Values))
		for _, v := range m.state.Values {
			refs = append(refs, api.AssignOptionRef{Value: v})
		}
		assignment.Options = refs
	} else {
		value := m.state.Values[0]
		assignment.Value = &value
	}

	input := api.AssignAttributesInput{
		Attributes: []api.AttributeAssignment{assignment},
		UserIDs:    append([]string{}, m.userIDs...),
	}
	return func() tea.Msg {
		result, err := m.client.AssignAttributes(input)
		if err != nil {
			return assignFailedMsg{err}
		}
		return assignDoneMsg{message: result.Message, assigned: result.Assigned}
	}
}

// --- View ---

func (m AssignModel) View() string {
	if !m.open {
		return ""
	}

	switch m.step {
	case assignStepWarning:
		return m.renderWarning()
	case assignStepSubmitting:
		body := m.spin.View() + " " + MutedStyle.Render(i18n.T("assign.applying"))
		return components.TitledBox(i18n.T("assign.title"), body, m.width)
	case assignStepValue:
		return m.renderValue()
	default:
		return m.renderAttributePicker()
	}
}

func (m AssignModel) renderAttributePicker() string {
	if m.loading {
		body := MutedStyle.Render(i18n.T("assign.loading"))
		return components.TitledBox(i18n.T("assign.title"), body, m.width)
	}

	var b strings.Builder
	header := fmt.Sprintf("%s · %d members", i18n.T("assign.pick_attribute"), len(m.userIDs))
	b.WriteString(MutedStyle.Render(header))
	if m.filterBuf != "" {
		b.WriteString(MutedStyle.Render(" · filter: " + components.SanitizeOneLine(m.filterBuf)))
	}
	b.WriteString("\n\n")

	filtered := m.filteredCatalog()
	if len(filtered) == 0 {
		b.WriteString(MutedStyle.Render(i18n.T("assign.no_attributes")))
	} else {
		visible := m.list.Visible()
		for i, label := range visible {
			absIdx := m.list.RelToAbs(i)
			if m.list.IsSelected(absIdx) {
				b.WriteString(SelectedStyle.Render("> ") + label)
			} else {
				b.WriteString("  " + label)
			}
			if i < len(visible)-1 {
				b.WriteString("\n")
			}
		}
	}

	if m.errText != "" {
		b.WriteString("\n\n")
		b.WriteString(ErrorStyle.Render(m.errText))
	}
	return components.TitledBox(i18n.T("assign.title"), b.String(), m.width)
}

func (m AssignModel) renderValue() string {
	attr := m.state.Selected()
	if attr == nil {
		return m.renderAttributePicker()
	}

	var b strings.Builder
	if attr.Type.Choice() {
		b.WriteString(MutedStyle.Render(i18n.T("assign.pick_value")))
		b.WriteString("\n\n")
		visible := m.list.Visible()
		for i, label := range visible {
			absIdx := m.list.RelToAbs(i)
			if m.list.IsSelected(absIdx) {
				b.WriteString(SelectedStyle.Render("> ") + label)
			} else {
				b.WriteString("  " + label)
			}
			if i < len(visible)-1 {
				b.WriteString("\n")
			}
		}
		if len(attr.Options) == 0 {
			b.WriteString(MutedStyle.Render("No options defined."))
		}
	} else {
		b.WriteString(MutedStyle.Render(i18n.T("assign.enter_value")))
		b.WriteString("\n\n")
		b.WriteString(m.input.View())
	}

	if m.errText != "" {
		b.WriteString("\n\n")
		b.WriteString(ErrorStyle.Render(m.errText))
	}
	title := components.SanitizeOneLine(attr.Name)
	return components.TitledBox(title, b.String(), m.width)
}

func (m AssignModel) renderWarning() string {
	attr := m.state.Selected()
	name := ""
	values := m.state.Values
	if attr != nil {
		name = attr.Name
		values = make([]string, 0, len(m.state.Values))
		for _, opt := range attr.Options {
			if m.state.HasValue(opt.ID) {
				values = append(values, opt.Value)
			}
		}
	}
	rows := []components.TableRow{
		{Label: "Attribute", Value: name},
		{Label: "Values", Value: strings.Join(values, ", ")},
		{Label: "Members", Value: fmt.Sprintf("%d", len(m.userIDs))},
	}
	return components.ConfirmPreviewDialog(i18n.T("assign.warning.title"), i18n.T("assign.warning.body"), rows, m.width)
}
