package tui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/guess-the-met/internal/artwork"
	"github.com/vovakirdan/guess-the-met/internal/core"
	"github.com/vovakirdan/guess-the-met/internal/game"
	"github.com/vovakirdan/guess-the-met/internal/imagery"
	"github.com/vovakirdan/guess-the-met/internal/storage"
)

const (
	imageTimeout  = 30 * time.Second
	minPanelWidth = 30
	defaultName   = 15
	hatch         = '░'
)

type startedMsg struct{ err error }

type loadedMsg struct{ err error }

type imageMsg struct {
	id  string
	img image.Image
	err error
}

// PlayModel shows the current round, takes guesses and handles the game
// over screen with high score entry.
type PlayModel struct {
	sess      *session
	deps      Deps
	st        styles
	keyMapper *KeyMapper
	spinner   spinner.Model
	spinning  bool
	nameInput textinput.Model

	state  game.GameState
	cursor int
	picked int // Option chosen by the last guess, -1 if none
	notice string

	imageID   string // Target whose image is loaded or loading
	image     image.Image
	imageErr  error
	shown     int // Obfuscation level currently drawn
	animating bool
	art       string

	best         int // Best stored score for the difficulty
	scoreChecked bool
	naming       bool
	saved        bool
	saveErr      string

	width, height int
	back          bool
	wantScores    bool
	quitting      bool
}

// NewPlayModel creates the play screen for a session.
func NewPlayModel(sess *session, deps Deps, st styles) PlayModel {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = st.warn

	maxName := deps.Config.Scores.NameMaxLength
	if maxName <= 0 {
		maxName = defaultName
	}
	ti := textinput.New()
	ti.Placeholder = "your name"
	ti.CharLimit = maxName
	ti.Width = maxName + 1

	m := PlayModel{
		sess:      sess,
		deps:      deps,
		st:        st,
		keyMapper: NewKeyMapper(),
		spinner:   sp,
		nameInput: ti,
		picked:    -1,
		width:     deps.Runtime.ScreenW,
		height:    deps.Runtime.ScreenH,
	}
	m.renderArt()
	return m
}

// Start begins a new game with s.
func (m PlayModel) Start(s game.Settings) (PlayModel, tea.Cmd) {
	m.state = game.GameState{Settings: s, Loading: true, Lives: m.sess.engine.Rules().StartingLives}
	m.cursor, m.picked, m.notice = 0, -1, ""
	m.imageID, m.image, m.imageErr, m.animating = "", nil, nil, false
	m.scoreChecked, m.naming, m.saved, m.saveErr = false, false, false, ""
	m.best = m.bestScore(s.Difficulty)
	m.nameInput.Blur()
	m.renderArt()

	eng, ctx := m.sess.engine, m.sess.ctx
	start := func() tea.Msg {
		return startedMsg{err: eng.StartGame(ctx, s)}
	}
	var spin tea.Cmd
	m, spin = m.startSpinner()
	return m, tea.Batch(spin, start)
}

// Update handles messages for the play screen.
func (m PlayModel) Update(msg tea.Msg) (PlayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.naming {
			return m.updateName(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.deps.Runtime.ScreenW, m.deps.Runtime.ScreenH = msg.Width, msg.Height
		m.renderArt()
		return m, nil

	case stateMsg:
		return m.onState()

	case startedMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		}
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.notice = loadNotice(msg.err)
		}
		return m, nil

	case imageMsg:
		return m.onImage(msg)

	case TickMsg:
		return m.onTick()

	case spinner.TickMsg:
		if !m.busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.naming {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// busy reports whether something is being fetched.
func (m PlayModel) busy() bool {
	return m.state.Loading || (m.imageID != "" && m.image == nil && m.imageErr == nil)
}

func (m PlayModel) startSpinner() (PlayModel, tea.Cmd) {
	if m.spinning {
		return m, nil
	}
	m.spinning = true
	return m, m.spinner.Tick
}

func (m PlayModel) onState() (PlayModel, tea.Cmd) {
	m.state = m.sess.engine.State()
	s := m.state
	var cmds []tea.Cmd

	if s.Loading {
		var cmd tea.Cmd
		m, cmd = m.startSpinner()
		cmds = append(cmds, cmd)
	}

	if s.Round != nil {
		switch {
		case s.Round.Target.ID != m.imageID:
			m.imageID = s.Round.Target.ID
			m.image, m.imageErr = nil, nil
			m.shown = s.Round.Obfuscation
			m.animating = false
			m.cursor, m.picked = 0, -1
			var spin tea.Cmd
			m, spin = m.startSpinner()
			cmds = append(cmds, m.loadImage(s.Round.Target), spin)
		case m.shown != s.Round.Obfuscation:
			cmds = append(cmds, m.animate())
		}
		if s.LastGuess == game.GuessNone && s.Round.CanGuess {
			m.picked = -1
		}
	}

	if s.GameOver && s.Started() && !m.scoreChecked {
		m.scoreChecked = true
		var cmd tea.Cmd
		m, cmd = m.checkHighScore()
		cmds = append(cmds, cmd)
	}

	m.renderArt()
	return m, tea.Batch(cmds...)
}

func (m PlayModel) loadImage(a artwork.Artwork) tea.Cmd {
	loader, ctx, logger := m.deps.Loader, m.sess.ctx, m.deps.Logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, imageTimeout)
		defer cancel()

		img, err := loader.Load(ctx, a.PreferredImage())
		if err != nil && a.ImageURL != "" && a.ImageURL != a.PreferredImage() {
			if logger != nil {
				logger.Debug("thumbnail failed, trying full image", "id", a.ID, "error", err)
			}
			img, err = loader.Load(ctx, a.ImageURL)
		}
		return imageMsg{id: a.ID, img: img, err: err}
	}
}

func (m PlayModel) onImage(msg imageMsg) (PlayModel, tea.Cmd) {
	if msg.id != m.imageID {
		return m, nil
	}
	m.image, m.imageErr = msg.img, msg.err
	if msg.err != nil && m.deps.Logger != nil {
		m.deps.Logger.Warn("could not load artwork image", "id", msg.id, "error", msg.err)
	}
	m.renderArt()
	cmd := m.animate()
	return m, cmd
}

// targetLevel is the obfuscation level the artwork should settle at.
func (m PlayModel) targetLevel() int {
	if m.state.Round == nil {
		return m.shown
	}
	return m.state.Round.Obfuscation
}

// animate starts stepping the drawn level towards the target one.
func (m *PlayModel) animate() tea.Cmd {
	if m.animating || m.image == nil || m.shown == m.targetLevel() {
		return nil
	}
	m.animating = true
	return tickCmd(m.deps.Runtime.TickRate)
}

func (m PlayModel) onTick() (PlayModel, tea.Cmd) {
	if !m.animating {
		return m, nil
	}
	target := m.targetLevel()
	switch {
	case m.shown > target:
		m.shown--
	case m.shown < target:
		m.shown++
	}
	m.renderArt()
	if m.shown == target {
		m.animating = false
		return m, nil
	}
	return m, tickCmd(m.deps.Runtime.TickRate)
}

func (m PlayModel) handleKey(msg tea.KeyMsg) (PlayModel, tea.Cmd) {
	in := m.keyMapper.MapKey(msg)
	s := m.state

	switch in.Action {
	case core.ActionQuit:
		m.quitting = true

	case core.ActionBack:
		m.back = true

	case core.ActionScores:
		if s.GameOver {
			m.wantScores = true
		}

	case core.ActionUp:
		if s.Round != nil && m.cursor > 0 {
			m.cursor--
		}

	case core.ActionDown:
		if s.Round != nil && m.cursor < len(s.Round.Options)-1 {
			m.cursor++
		}

	case core.ActionSelect:
		m.guess(in.Option)

	case core.ActionConfirm:
		if !s.GameOver {
			m.guess(m.cursor)
		}

	case core.ActionRetry:
		switch {
		case s.GameOver:
			return m.Start(s.Settings)
		case s.LastError != nil && !s.Loading:
			m.notice = ""
			eng, ctx := m.sess.engine, m.sess.ctx
			return m, func() tea.Msg {
				return loadedMsg{err: eng.LoadNextRound(ctx)}
			}
		}
	}
	return m, nil
}

func (m *PlayModel) guess(index int) {
	if _, err := m.sess.engine.SubmitGuess(index); err != nil {
		m.notice = guessNotice(err, index)
		return
	}
	m.picked = index
	m.cursor = index
	m.notice = ""
}

func guessNotice(err error, index int) string {
	switch {
	case errors.Is(err, game.ErrLoading):
		return "Still loading, hold on."
	case errors.Is(err, game.ErrGuessClosed):
		return "Wait for the next artwork."
	case errors.Is(err, game.ErrInvalidOption):
		return fmt.Sprintf("There is no option %s.", core.OptionLabel(index))
	case errors.Is(err, game.ErrGameOver):
		return "The game is over. Press r to play again."
	case errors.Is(err, game.ErrNoRound):
		return "No artwork yet."
	}
	return err.Error()
}

func loadNotice(err error) string {
	if errors.Is(err, game.ErrLoading) {
		return "Already loading."
	}
	return err.Error()
}

func (m PlayModel) bestScore(d game.Difficulty) int {
	if m.deps.Store == nil {
		return 0
	}
	best, err := m.deps.Store.HighScore(string(d))
	if err != nil {
		if m.deps.Logger != nil {
			m.deps.Logger.Warn("could not read best score", "difficulty", d, "error", err)
		}
		return 0
	}
	return best
}

func (m PlayModel) checkHighScore() (PlayModel, tea.Cmd) {
	s := m.state
	if m.deps.Store == nil || s.Score <= 0 {
		return m, nil
	}
	ok, err := m.deps.Store.Qualifies(string(s.Settings.Difficulty), s.Score, m.deps.Config.Scores.TopN)
	if err != nil {
		if m.deps.Logger != nil {
			m.deps.Logger.Warn("could not check high scores", "error", err)
		}
		return m, nil
	}
	if !ok {
		return m, nil
	}
	m.naming = true
	m.nameInput.SetValue(storage.CleanName(m.deps.Player, m.nameInput.CharLimit))
	m.nameInput.CursorEnd()
	return m, m.nameInput.Focus()
}

func (m PlayModel) updateName(msg tea.KeyMsg) (PlayModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, nil
	case tea.KeyEsc:
		m.naming = false
		m.nameInput.Blur()
		return m, nil
	case tea.KeyEnter:
		return m.saveScore(), nil
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m PlayModel) saveScore() PlayModel {
	s := m.state
	name := storage.CleanName(m.nameInput.Value(), m.nameInput.CharLimit)
	if name == "" {
		m.saveErr = "Please enter a name."
		return m
	}
	_, err := m.deps.Store.SaveScore(storage.ScoreEntry{
		GameID:      s.ID,
		Name:        name,
		Score:       s.Score,
		Difficulty:  string(s.Settings.Difficulty),
		Rounds:      s.Correct,
		FilterBonus: game.SettingsBonus(s.Settings),
	})
	if err != nil {
		m.saveErr = err.Error()
		return m
	}
	m.naming, m.saved, m.saveErr = false, true, ""
	m.best = max(m.best, s.Score)
	m.nameInput.Blur()
	return m
}

// artSize is the cell area reserved for the artwork.
func (m PlayModel) artSize() (int, int) {
	cfg := m.deps.Runtime
	cfg.ScreenW, cfg.ScreenH = m.width, m.height
	return cfg.ArtArea()
}

func (m *PlayModel) renderArt() {
	w, h := m.artSize()
	if m.image != nil {
		m.art = RenderScreen(m.st.r, imagery.Render(m.image, m.shown, w, h))
		return
	}

	m.art = RenderScreen(m.st.r, m.placeholder(w, h))
}

// placeholder frames the art area while no image can be shown. A failed
// image is hatched so it reads differently from one still loading.
func (m PlayModel) placeholder(w, h int) *core.Screen {
	scr := core.NewScreen(w, h)
	text := ""
	switch {
	case m.imageErr != nil:
		text = "Image unavailable"
		scr.Fill(hatch)
	case m.imageID != "" || m.state.Loading:
		text = "Loading artwork..."
	case m.state.GameOver:
		text = "No artwork"
	}
	scr.DrawBox(scr.Bounds(), core.ColorGray)
	if text != "" {
		label := core.NewRect(0, h/2-1, w, 3).Inset(1)
		scr.DrawRect(label, ' ')
		scr.DrawTextCentered(h/2, text)
	}
	return scr
}

// View renders the play screen.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}

	artW, _ := m.artSize()
	panelW := max(m.width-artW-6, minPanelWidth)

	var panel string
	if m.state.GameOver {
		panel = m.gameOverPanel(panelW)
	} else {
		panel = m.roundPanel(panelW)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.art, "  ", m.st.panel.Width(panelW).Render(panel))

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m PlayModel) header() string {
	s := m.state
	starting := m.sess.engine.Rules().StartingLives
	lives := m.st.heart.Render(strings.Repeat("♥", s.Lives)) +
		m.st.subtle.Render(strings.Repeat("♡", max(starting-s.Lives, 0)))

	round := 0
	if s.Round != nil {
		round = s.Round.Number
	}
	left := m.st.title.Render("GUESS THE MET")
	score := "Score " + m.st.label.Render(game.FormatScore(s.Score))
	if m.deps.Store != nil {
		score += m.st.subtle.Render("  Best " + game.FormatScore(max(m.best, s.Score)))
	}
	right := fmt.Sprintf("%s  %s  %s  Round %d",
		m.st.subtle.Render(label(string(s.Settings.Difficulty))), score, lives, round)

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 2)
	return left + strings.Repeat(" ", gap) + right
}

func (m PlayModel) roundPanel(width int) string {
	s := m.state
	var b strings.Builder

	if s.Round == nil {
		b.WriteString(m.spinner.View() + " Finding artworks...")
		return b.String()
	}

	r := s.Round
	if text := game.ClueText(r.Target, r.Clue); r.Clue != game.ClueNone && text != "" {
		b.WriteString(m.st.label.Render(game.ClueLabel(r.Clue)+": ") + truncate(text, width-10))
		b.WriteString("\n\n")
	}

	b.WriteString(m.st.subtle.Render("Which artwork is this?"))
	b.WriteString("\n")
	for i, a := range r.Options {
		line := fmt.Sprintf("%s. %s", core.OptionLabel(i), truncate(a.Title, width-8))
		b.WriteString(m.optionStyle(i).Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case s.Loading:
		b.WriteString(m.spinner.View() + " Loading next artwork...")
	case s.LastGuess == game.GuessCorrect:
		b.WriteString(m.st.correct.Render("Correct!") + " " + r.Target.ArtistOrUnknown())
		if s.LastError != nil {
			b.WriteString("\n" + m.st.warn.Render("Could not load the next artwork. Press r to retry."))
		}
	case s.LastGuess == game.GuessIncorrect:
		b.WriteString(m.st.wrong.Render(fmt.Sprintf("Wrong! %d %s left.", s.Lives, plural(s.Lives, "life", "lives"))))
	case s.LastError != nil:
		b.WriteString(m.st.warn.Render("Could not load the next artwork. Press r to retry."))
	}
	if m.notice != "" {
		b.WriteString("\n" + m.st.warn.Render(m.notice))
	}
	return b.String()
}

func (m PlayModel) optionStyle(i int) lipgloss.Style {
	s := m.state
	r := s.Round
	switch {
	case (s.GameOver || s.LastGuess == game.GuessCorrect) && i == r.CorrectIndex:
		return m.st.correct
	case !r.CanGuess && i == m.picked && s.LastGuess != game.GuessCorrect:
		return m.st.wrong
	case r.CanGuess && i == m.cursor:
		return m.st.selected
	}
	return m.st.r.NewStyle()
}

func (m PlayModel) gameOverPanel(width int) string {
	s := m.state
	var b strings.Builder

	b.WriteString(m.st.wrong.Render("GAME OVER"))
	b.WriteString("\n\n")

	if s.Round == nil {
		b.WriteString("The game could not start.\n")
		if s.LastError != nil {
			b.WriteString(m.st.warn.Render(truncate(s.LastError.Error(), width*3)))
			b.WriteString("\n")
		}
		if errors.Is(s.LastError, artwork.ErrNotFound) {
			b.WriteString(m.st.subtle.Render("Try wider filters."))
			b.WriteString("\n")
		}
	} else {
		t := s.Round.Target
		b.WriteString(m.st.subtle.Render("The artwork was"))
		b.WriteString("\n")
		b.WriteString(m.st.label.Render(truncate(t.Title, width-2)))
		b.WriteString("\n")
		b.WriteString(truncate(joinParts(t.ArtistOrUnknown(), t.Date), width-2))
		b.WriteString("\n")
		if t.ObjectURL != "" {
			b.WriteString(m.st.subtle.Render(truncate(t.ObjectURL, width-2)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Final score  %s\n", m.st.title.Render(game.FormatScore(s.Score))))
	b.WriteString(fmt.Sprintf("Filter bonus x%.1f\n", game.SettingsBonus(s.Settings)))
	b.WriteString(fmt.Sprintf("Correct %d  Wrong %d\n", s.Correct, s.Incorrect))

	switch {
	case m.naming:
		b.WriteString("\n" + m.st.correct.Render("New high score!") + "\n")
		b.WriteString("Name: " + m.nameInput.View() + "\n")
		if m.saveErr != "" {
			b.WriteString(m.st.warn.Render(m.saveErr) + "\n")
		}
	case m.saved:
		b.WriteString("\n" + m.st.correct.Render("Score saved.") + "\n")
	case m.saveErr != "":
		b.WriteString("\n" + m.st.warn.Render(m.saveErr) + "\n")
	}
	return b.String()
}

func (m PlayModel) footer() string {
	var help string
	switch {
	case m.naming:
		help = "Enter: Save  |  Esc: Skip"
	case m.state.GameOver:
		help = "R: Play again  |  S: Scores  |  Esc: Settings  |  Q: Quit"
	default:
		help = "1-9,0: Guess  |  Up/Down + Enter: Guess  |  R: Retry load  |  Esc: Settings  |  Q: Quit"
	}
	return m.st.help.Render(help)
}

func joinParts(parts ...string) string {
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// BackToSettings returns true if the player asked for the settings form.
func (m PlayModel) BackToSettings() bool {
	return m.back
}

// WantsScoreboard returns true if the player asked for the scoreboard.
func (m PlayModel) WantsScoreboard() bool {
	return m.wantScores
}

// IsQuitting returns true if user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

func (m PlayModel) clearRequests() PlayModel {
	m.back = false
	m.wantScores = false
	return m
}
