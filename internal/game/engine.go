package game

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/guess-the-met/internal/artwork"
)

// Engine owns the state of one game at a time.
//
// Every mutation publishes a new GameState snapshot. Callers read the latest
// snapshot with State or receive each one through Subscribe. Engine methods
// are safe for concurrent use; artwork fetches run without holding the lock.
type Engine struct {
	source artwork.Source
	rules  Rules
	sched  Scheduler
	logger *log.Logger
	newID  func() string

	rngMu sync.Mutex
	rng   *rand.Rand

	mu          sync.Mutex
	state       GameState
	generation  uint64
	taskSeq     uint64
	pending     map[uint64]Timer
	cancelBuild context.CancelFunc

	deliverMu sync.Mutex
	delivered uint64

	subMu   sync.Mutex
	subs    map[int]func(GameState)
	nextSub int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the default rules.
func WithRules(r Rules) Option {
	return func(e *Engine) { e.rules = r }
}

// WithScheduler sets the scheduler used for delayed transitions.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

// WithRand sets the random source for shuffles and clue picks.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithSeed seeds the random source.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithLogger sets the engine logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithIDFunc overrides game ID generation.
func WithIDFunc(f func() string) Option {
	return func(e *Engine) { e.newID = f }
}

// New creates an engine that draws artworks from source.
func New(source artwork.Source, opts ...Option) *Engine {
	e := &Engine{
		source:  source,
		rules:   DefaultRules(),
		sched:   realScheduler{},
		logger:  log.New(io.Discard),
		newID:   uuid.NewString,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		pending: make(map[uint64]Timer),
		subs:    make(map[int]func(GameState)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = GameState{Lives: e.rules.StartingLives, LastGuess: GuessNone}
	return e
}

// Rules returns the rules the engine plays by.
func (e *Engine) Rules() Rules {
	return e.rules
}

// State returns the current snapshot.
func (e *Engine) State() GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Subscribe registers fn to receive every published snapshot in Version
// order. fn runs on the goroutine that caused the change and must not call
// engine methods that mutate state. The returned func removes the subscription.
func (e *Engine) Subscribe(fn func(GameState)) (unsubscribe func()) {
	e.subMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.subMu.Lock()
			delete(e.subs, id)
			e.subMu.Unlock()
		})
	}
}

// StartGame discards any current game and builds the first round of a new
// one. Only ErrInvalidSettings is returned; fetch failures end the new game
// immediately and are reported through GameState.LastError.
func (e *Engine) StartGame(ctx context.Context, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	e.stopPendingLocked()
	if e.cancelBuild != nil {
		e.cancelBuild()
	}
	e.generation++
	gen := e.generation
	buildCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.cancelBuild = cancel
	snap := e.commitLocked(GameState{
		ID:        e.newID(),
		Lives:     e.rules.StartingLives,
		LastGuess: GuessNone,
		Loading:   true,
		Settings:  settings,
	})
	e.mu.Unlock()
	e.notify(snap)

	e.logger.Info("game started", "id", snap.ID, "difficulty", settings.Difficulty,
		"medium", settings.Medium, "country", settings.Country)

	level := e.rules.InitialObfuscation(settings.Difficulty)
	round, err := e.buildRound(buildCtx, settings, level, 1)

	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		e.logger.Debug("discarding first round of superseded game", "id", snap.ID)
		return nil
	}
	e.cancelBuild = nil
	next := e.state
	next.Loading = false
	if err != nil {
		next.GameOver = true
		next.LastError = err
	} else {
		next.Round = round
	}
	snap = e.commitLocked(next)
	e.mu.Unlock()

	if err != nil {
		e.logger.Error("could not build first round", "id", snap.ID, "error", err)
	}
	e.notify(snap)
	return nil
}

// SubmitGuess answers the current round with the option at index.
//
// A correct guess adds to the score and schedules the next round. An
// incorrect guess costs a life and either ends the game or schedules the
// round to reopen. On error the state is left unchanged.
func (e *Engine) SubmitGuess(index int) (GuessResult, error) {
	e.mu.Lock()
	s := e.state
	switch {
	case !s.Started():
		e.mu.Unlock()
		return GuessNone, ErrNoRound
	case s.GameOver:
		e.mu.Unlock()
		return GuessNone, ErrGameOver
	case s.Loading:
		e.mu.Unlock()
		return GuessNone, ErrLoading
	case s.Round == nil:
		e.mu.Unlock()
		return GuessNone, ErrNoRound
	case !s.Round.CanGuess:
		e.mu.Unlock()
		return GuessNone, ErrGuessClosed
	case index < 0 || index >= len(s.Round.Options):
		e.mu.Unlock()
		return GuessNone, ErrInvalidOption
	}

	gen := e.generation
	round := *s.Round
	round.CanGuess = false
	next := s
	next.Round = &round

	var result GuessResult
	if index == round.CorrectIndex {
		result = GuessCorrect
		next.Score += e.rules.Score(s.Settings.Difficulty, round.Obfuscation)
		next.Correct++
		round.Obfuscation = e.rules.AfterCorrect(round.Obfuscation)
		e.scheduleLocked(func() { e.advance(gen, round.Number) })
	} else {
		result = GuessIncorrect
		next.Incorrect++
		round.Obfuscation = e.rules.AfterIncorrect(round.Obfuscation)
		if s.Lives <= 1 {
			next.Lives = 0
			next.GameOver = true
			round.Obfuscation = e.rules.RevealObfuscation
		} else {
			next.Lives--
			e.scheduleLocked(func() { e.reopen(gen, round.Number) })
		}
	}
	next.LastGuess = result
	snap := e.commitLocked(next)
	e.mu.Unlock()

	e.logger.Debug("guess", "id", snap.ID, "round", round.Number, "result", result,
		"score", snap.Score, "lives", snap.Lives)
	if snap.GameOver {
		e.logger.Info("game over", "id", snap.ID, "score", snap.Score,
			"correct", snap.Correct, "incorrect", snap.Incorrect)
	}
	e.notify(snap)
	return result, nil
}

// LoadNextRound replaces the current round with a freshly built one,
// keeping the obfuscation level reached so far. If the round cannot be
// built, the previous round stays in place, Loading is cleared and
// GameState.LastError is set; nil is returned in that case too.
func (e *Engine) LoadNextRound(ctx context.Context) error {
	return e.loadNext(ctx, nil)
}

// roundKey identifies one round of one game.
type roundKey struct {
	generation uint64
	number     int
}

func (e *Engine) loadNext(ctx context.Context, expect *roundKey) error {
	e.mu.Lock()
	s := e.state
	switch {
	case expect != nil && !e.matchesLocked(*expect):
		e.mu.Unlock()
		return nil
	case !s.Started():
		e.mu.Unlock()
		return ErrNoRound
	case s.GameOver:
		e.mu.Unlock()
		return ErrGameOver
	case s.Loading:
		e.mu.Unlock()
		return ErrLoading
	}

	gen := e.generation
	level := e.rules.InitialObfuscation(s.Settings.Difficulty)
	number := 1
	if s.Round != nil {
		level = s.Round.Obfuscation
		number = s.Round.Number + 1
	}
	buildCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.cancelBuild = cancel
	next := s
	next.Loading = true
	snap := e.commitLocked(next)
	e.mu.Unlock()
	e.notify(snap)

	round, err := e.buildRound(buildCtx, s.Settings, level, number)

	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		return nil
	}
	e.cancelBuild = nil
	next = e.state
	next.Loading = false
	if err != nil {
		next.LastError = err
	} else {
		next.Round = round
		next.LastGuess = GuessNone
		next.LastError = nil
	}
	snap = e.commitLocked(next)
	e.mu.Unlock()

	if err != nil {
		e.logger.Warn("could not load next round", "id", snap.ID, "round", number, "error", err)
	}
	e.notify(snap)
	return nil
}

// Close stops pending transitions and cancels any round being built.
// The current snapshot stays readable; an interrupted load is published
// with Loading cleared.
func (e *Engine) Close() {
	e.mu.Lock()
	e.stopPendingLocked()
	if e.cancelBuild != nil {
		e.cancelBuild()
		e.cancelBuild = nil
	}
	e.generation++
	if !e.state.Loading {
		e.mu.Unlock()
		return
	}
	next := e.state
	next.Loading = false
	snap := e.commitLocked(next)
	e.mu.Unlock()
	e.notify(snap)
}

// advance loads the round after a correct guess, unless the game moved on.
func (e *Engine) advance(gen uint64, number int) {
	if err := e.loadNext(context.Background(), &roundKey{gen, number}); err != nil {
		e.logger.Debug("skipping scheduled round load", "round", number, "error", err)
	}
}

// reopen lets the player retry a round after an incorrect guess.
func (e *Engine) reopen(gen uint64, number int) {
	e.mu.Lock()
	if !e.matchesLocked(roundKey{gen, number}) || e.state.GameOver || e.state.Round.CanGuess {
		e.mu.Unlock()
		return
	}
	round := *e.state.Round
	round.CanGuess = true
	next := e.state
	next.Round = &round
	next.LastGuess = GuessNone
	snap := e.commitLocked(next)
	e.mu.Unlock()
	e.notify(snap)
}

func (e *Engine) matchesLocked(k roundKey) bool {
	return k.generation == e.generation && e.state.Round != nil && e.state.Round.Number == k.number
}

func (e *Engine) scheduleLocked(task func()) {
	e.taskSeq++
	id := e.taskSeq
	e.pending[id] = e.sched.AfterFunc(e.rules.FeedbackDelay, func() {
		e.mu.Lock()
		delete(e.pending, id)
		e.mu.Unlock()
		task()
	})
}

func (e *Engine) stopPendingLocked() {
	for id, t := range e.pending {
		t.Stop()
		delete(e.pending, id)
	}
}

// commitLocked publishes next as the current snapshot.
func (e *Engine) commitLocked(next GameState) GameState {
	next.Version = e.state.Version + 1
	e.state = next
	return next
}

// notify delivers s to subscribers unless a newer snapshot went out first.
func (e *Engine) notify(s GameState) {
	e.deliverMu.Lock()
	defer e.deliverMu.Unlock()
	if s.Version <= e.delivered {
		return
	}
	e.delivered = s.Version

	e.subMu.Lock()
	fns := make([]func(GameState), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.subMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

func (e *Engine) intn(n int) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Intn(n)
}
