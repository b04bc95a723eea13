package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/guess-the-met/internal/artwork"
	"github.com/vovakirdan/guess-the-met/internal/config"
	"github.com/vovakirdan/guess-the-met/internal/core"
	"github.com/vovakirdan/guess-the-met/internal/game"
	"github.com/vovakirdan/guess-the-met/internal/imagery"
	"github.com/vovakirdan/guess-the-met/internal/storage"
)

// Deps are the services one UI session runs on.
type Deps struct {
	Source   artwork.Source
	Store    *storage.Store // nil disables high scores
	Config   config.Config
	Loader   *imagery.Loader
	Logger   *log.Logger
	Runtime  core.RuntimeConfig
	Renderer *lipgloss.Renderer // nil uses the default renderer
	Player   string             // Name offered when entering a high score

	// Initial presets the settings form. With QuickStart the form is
	// skipped and a game starts right away.
	Initial    game.Settings
	QuickStart bool
}

func (d Deps) newEngine() *game.Engine {
	opts := []game.Option{game.WithRules(d.Config.GameRules())}
	if d.Logger != nil {
		opts = append(opts, game.WithLogger(d.Logger))
	}
	if d.Runtime.Seed != 0 {
		opts = append(opts, game.WithSeed(d.Runtime.Seed))
	}
	return game.New(d.Source, opts...)
}

// session ties an engine to the Bubble Tea program that displays it.
// Engine notifications are coalesced into a one-slot channel; the program
// reads the newest snapshot with Engine.State when it wakes up.
type session struct {
	engine  *game.Engine
	updates chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	unsub   func()
}

func newSession(parent context.Context, engine *game.Engine) *session {
	ctx, cancel := context.WithCancel(parent)
	s := &session{
		engine:  engine,
		updates: make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
	s.unsub = engine.Subscribe(func(game.GameState) {
		select {
		case s.updates <- struct{}{}:
		default:
		}
	})
	// SSH sessions can end without the program quitting first.
	context.AfterFunc(ctx, engine.Close)
	return s
}

// stateMsg reports that the engine published a new snapshot.
type stateMsg struct{}

// wait blocks until the engine publishes or the session ends.
func (s *session) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-s.updates:
			return stateMsg{}
		case <-s.ctx.Done():
			return nil
		}
	}
}

func (s *session) close() {
	s.unsub()
	s.engine.Close()
	s.cancel()
}

type phase int

const (
	phaseSettings phase = iota
	phasePlay
	phaseScores
)

// AppModel manages the full flow: settings -> play -> scoreboard.
// It is the top-level model for local play and SSH sessions.
type AppModel struct {
	deps     Deps
	st       styles
	sess     *session
	phase    phase
	prev     phase // Where the scoreboard returns to
	settings SettingsModel
	play     PlayModel
	scores   ScoreboardModel
	width    int
	height   int
	quitting bool
}

// NewAppModel creates the app. The session ends when ctx is cancelled.
func NewAppModel(ctx context.Context, deps Deps) AppModel {
	if deps.Loader == nil {
		deps.Loader = imagery.NewLoader(imagery.WithLogger(deps.Logger))
	}
	if deps.Runtime.TickRate <= 0 {
		deps.Runtime.TickRate = core.DefaultConfig().TickRate
	}
	initial := deps.Initial
	if !initial.Difficulty.Valid() {
		initial.Difficulty = deps.Config.DefaultDifficulty()
	}

	st := newStyles(deps.Renderer)
	sess := newSession(ctx, deps.newEngine())
	return AppModel{
		deps:     deps,
		st:       st,
		sess:     sess,
		settings: NewSettingsModel(deps.Config.Settings, st, initial),
		play:     NewPlayModel(sess, deps, st),
		width:    deps.Runtime.ScreenW,
		height:   deps.Runtime.ScreenH,
	}
}

// Init starts listening to the engine and, for quick play, the first game.
func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.sess.wait(), textinput.Blink}
	if m.deps.QuickStart {
		cmds = append(cmds, func() tea.Msg { return quickStartMsg{} })
	}
	return tea.Batch(cmds...)
}

type quickStartMsg struct{}

// Update routes messages to the active screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.deps.Runtime.ScreenW, m.deps.Runtime.ScreenH = msg.Width, msg.Height
		var cmd tea.Cmd
		m.play, cmd = m.play.Update(msg)
		if m.phase == phaseScores {
			sm, _ := m.scores.Update(msg)
			m.scores = sm.(ScoreboardModel)
		}
		return m, cmd

	case quickStartMsg:
		s, err := m.settings.Settings()
		if err != nil {
			return m, nil
		}
		return m.startGame(s)

	case stateMsg:
		// Engine updates always reach the play model so it keeps its
		// snapshot current while another screen is shown.
		var cmd tea.Cmd
		m.play, cmd = m.play.Update(msg)
		return m, tea.Batch(cmd, m.sess.wait())

	case startedMsg, loadedMsg, imageMsg, TickMsg, spinner.TickMsg:
		var cmd tea.Cmd
		m.play, cmd = m.play.Update(msg)
		return m, cmd
	}

	switch m.phase {
	case phaseSettings:
		return m.updateSettings(msg)
	case phaseScores:
		return m.updateScores(msg)
	default:
		return m.updatePlay(msg)
	}
}

func (m AppModel) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.settings, cmd = m.settings.Update(msg)

	switch {
	case m.settings.IsQuitting():
		return m.quit()
	case m.settings.WantsScoreboard():
		m.settings = m.settings.clearRequests()
		d := game.Difficulties()[m.settings.difficulty]
		return m.openScores(d), nil
	case m.settings.Submitted():
		m.settings = m.settings.clearRequests()
		s, err := m.settings.Settings()
		if err != nil {
			return m, nil
		}
		return m.startGame(s)
	}
	return m, cmd
}

func (m AppModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.play, cmd = m.play.Update(msg)

	switch {
	case m.play.IsQuitting():
		return m.quit()
	case m.play.BackToSettings():
		m.play = m.play.clearRequests()
		m.sess.engine.Close()
		m.phase = phaseSettings
		return m, nil
	case m.play.WantsScoreboard():
		m.play = m.play.clearRequests()
		return m.openScores(m.play.state.Settings.Difficulty), nil
	}
	return m, cmd
}

func (m AppModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	sm, cmd := m.scores.Update(msg)
	m.scores = sm.(ScoreboardModel)

	switch {
	case m.scores.IsQuitting():
		return m.quit()
	case m.scores.IsGoingBack():
		m.phase = m.prev
		return m, nil
	}
	return m, cmd
}

func (m AppModel) openScores(d game.Difficulty) AppModel {
	m.prev = m.phase
	m.phase = phaseScores
	m.scores = NewScoreboardModel(m.deps.Store, m.st, m.deps.Config.Scores.TopN, m.width, m.height, d)
	return m
}

func (m AppModel) startGame(s game.Settings) (tea.Model, tea.Cmd) {
	m.phase = phasePlay
	var cmd tea.Cmd
	m.play, cmd = m.play.Start(s)
	return m, cmd
}

func (m AppModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.sess.close()
	return m, tea.Quit
}

// View renders the active screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.phase {
	case phaseSettings:
		return m.settings.View(m.width)
	case phaseScores:
		return m.scores.View()
	default:
		return m.play.View()
	}
}

// Run runs the app in the local terminal until the player quits.
func Run(ctx context.Context, deps Deps) error {
	model := NewAppModel(ctx, deps)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	model.sess.close()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
