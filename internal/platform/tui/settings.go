package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/guess-the-met/internal/config"
	"github.com/vovakirdan/guess-the-met/internal/core"
	"github.com/vovakirdan/guess-the-met/internal/game"
)

// Settings form fields, in display order.
const (
	fieldDifficulty = iota
	fieldMedium
	fieldCountry
	fieldYearStart
	fieldYearEnd
	fieldStart
	fieldCount
)

const anyChoice = "any"

// SettingsModel is the form where the player picks difficulty and filters
// before a game.
type SettingsModel struct {
	cfg       config.SettingsConfig
	st        styles
	keyMapper *KeyMapper

	difficulties []game.Difficulty
	mediums      []string // anyChoice first
	countries    []string // anyChoice first

	difficulty int
	medium     int
	country    int
	yearStart  textinput.Model
	yearEnd    textinput.Model
	focus      int

	err        string
	submitted  bool
	wantScores bool
	quitting   bool
}

// NewSettingsModel creates a form preset to initial.
func NewSettingsModel(cfg config.SettingsConfig, st styles, initial game.Settings) SettingsModel {
	m := SettingsModel{
		cfg:          cfg,
		st:           st,
		keyMapper:    NewKeyMapper(),
		difficulties: game.Difficulties(),
		mediums:      append([]string{anyChoice}, cfg.Mediums...),
		countries:    append([]string{anyChoice}, cfg.Countries...),
		yearStart:    newYearInput(fmt.Sprintf("%d", cfg.YearMin)),
		yearEnd:      newYearInput(fmt.Sprintf("%d", cfg.YearMax)),
	}

	for i, d := range m.difficulties {
		if d == initial.Difficulty {
			m.difficulty = i
		}
	}
	m.medium = indexFold(m.mediums, initial.Medium)
	m.country = indexFold(m.countries, initial.Country)
	if initial.YearStart != nil {
		m.yearStart.SetValue(strconv.Itoa(*initial.YearStart))
	}
	if initial.YearEnd != nil {
		m.yearEnd.SetValue(strconv.Itoa(*initial.YearEnd))
	}
	return m
}

func newYearInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 5
	ti.Width = 6
	return ti
}

// indexFold returns the index of v in list ignoring case, or 0 (any).
func indexFold(list []string, v string) int {
	for i, s := range list {
		if v != "" && strings.EqualFold(s, v) {
			return i
		}
	}
	return 0
}

// Init initializes the form.
func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the form.
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}

	switch m.keyMapper.MapFormKey(key) {
	case core.ActionQuit, core.ActionBack:
		m.quitting = true
		return m, nil
	case core.ActionUp:
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case core.ActionDown:
		return m.setFocus((m.focus + 1) % fieldCount)
	case core.ActionLeft:
		if m.cycle(-1) {
			return m, nil
		}
	case core.ActionRight:
		if m.cycle(1) {
			return m, nil
		}
	case core.ActionConfirm:
		if _, err := m.Settings(); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.err = ""
		m.submitted = true
		return m, nil
	case core.ActionScores:
		m.wantScores = true
		return m, nil
	}

	if m.focus == fieldYearStart || m.focus == fieldYearEnd {
		if key.Type == tea.KeyRunes && !yearRunes(key.Runes) {
			return m, nil
		}
		return m.updateInputs(msg)
	}

	switch key.String() {
	case "q":
		m.quitting = true
	case "s":
		m.wantScores = true
	case "h":
		m.cycle(-1)
	case "l":
		m.cycle(1)
	case "k":
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case "j":
		return m.setFocus((m.focus + 1) % fieldCount)
	}
	return m, nil
}

func yearRunes(rs []rune) bool {
	for _, r := range rs {
		if (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}

func (m SettingsModel) updateInputs(msg tea.Msg) (SettingsModel, tea.Cmd) {
	var c1, c2 tea.Cmd
	m.yearStart, c1 = m.yearStart.Update(msg)
	m.yearEnd, c2 = m.yearEnd.Update(msg)
	return m, tea.Batch(c1, c2)
}

func (m SettingsModel) setFocus(f int) (SettingsModel, tea.Cmd) {
	m.focus = f
	m.yearStart.Blur()
	m.yearEnd.Blur()
	switch f {
	case fieldYearStart:
		return m, m.yearStart.Focus()
	case fieldYearEnd:
		return m, m.yearEnd.Focus()
	}
	return m, nil
}

// cycle moves the focused choice field by delta. It reports false when the
// focused field is not a choice.
func (m *SettingsModel) cycle(delta int) bool {
	wrap := func(i, n int) int { return (i + delta + n) % n }
	switch m.focus {
	case fieldDifficulty:
		m.difficulty = wrap(m.difficulty, len(m.difficulties))
	case fieldMedium:
		m.medium = wrap(m.medium, len(m.mediums))
	case fieldCountry:
		m.country = wrap(m.country, len(m.countries))
	default:
		return false
	}
	return true
}

// Settings builds game settings from the form. Year fields must be empty
// or whole years within the configured bounds.
func (m SettingsModel) Settings() (game.Settings, error) {
	s := game.Settings{Difficulty: m.difficulties[m.difficulty]}
	if m.medium > 0 {
		s.Medium = m.mediums[m.medium]
	}
	if m.country > 0 {
		s.Country = m.countries[m.country]
	}

	var err error
	if s.YearStart, err = m.parseYear("start year", m.yearStart.Value()); err != nil {
		return s, err
	}
	if s.YearEnd, err = m.parseYear("end year", m.yearEnd.Value()); err != nil {
		return s, err
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("start year must not be after end year")
	}
	return s, nil
}

func (m SettingsModel) parseYear(name, v string) (*int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	y, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%s %q is not a year", name, v)
	}
	if y < m.cfg.YearMin || y > m.cfg.YearMax {
		return nil, fmt.Errorf("%s must be between %d and %d", name, m.cfg.YearMin, m.cfg.YearMax)
	}
	return &y, nil
}

// Submitted reports whether the player confirmed the form.
func (m SettingsModel) Submitted() bool {
	return m.submitted
}

// WantsScoreboard reports whether the player asked for the scoreboard.
func (m SettingsModel) WantsScoreboard() bool {
	return m.wantScores
}

// IsQuitting returns true if user requested to quit.
func (m SettingsModel) IsQuitting() bool {
	return m.quitting
}

// clearRequests resets the one-shot flags after the app has acted on them.
func (m SettingsModel) clearRequests() SettingsModel {
	m.submitted = false
	m.wantScores = false
	return m
}

// View renders the form.
func (m SettingsModel) View(width int) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.st.title.Render("G U E S S   T H E   M E T"), width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.st.subtle.Render("Name the artwork before it comes into focus"), width))
	b.WriteString("\n\n")

	rows := []struct {
		name  string
		value string
	}{
		{"Difficulty", choice(label(string(m.difficulties[m.difficulty])))},
		{"Medium", choice(label(m.mediums[m.medium]))},
		{"Country", choice(label(m.countries[m.country]))},
		{"From year", m.yearStart.View()},
		{"To year", m.yearEnd.View()},
	}

	var form strings.Builder
	for i, row := range rows {
		cursor := "  "
		name := m.st.label.Render(fmt.Sprintf("%-11s", row.name))
		if i == m.focus {
			cursor = "> "
			name = m.st.selected.Render(fmt.Sprintf("%-11s", row.name))
		}
		form.WriteString(cursor + name + " " + row.value + "\n")
	}
	start := "[ Start ]"
	if m.focus == fieldStart {
		start = m.st.selected.Render(start)
	}
	form.WriteString("\n  " + start)

	bonus := 1.0
	if s, err := m.Settings(); err == nil {
		bonus = game.SettingsBonus(s)
	}
	form.WriteString(m.st.subtle.Render(fmt.Sprintf("   filter bonus x%.1f", bonus)))

	for _, line := range strings.Split(m.st.panel.Render(form.String()), "\n") {
		b.WriteString(centerText(line, width))
		b.WriteString("\n")
	}

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(centerText(m.st.wrong.Render(m.err), width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Field  |  Left/Right: Change  |  Enter: Start  |  S: Scores  |  Esc: Quit"
	b.WriteString(centerText(m.st.help.Render(controls), width))
	b.WriteString("\n")
	return b.String()
}

func choice(v string) string {
	return "< " + v + " >"
}
