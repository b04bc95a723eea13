package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/vovakirdan/guess-the-met/internal/artwork"
)

func art(id string) artwork.Artwork {
	return artwork.Artwork{ID: id, Title: "Title " + id, ImageURL: "https://images.test/" + id + ".jpg"}
}

type fakeResult struct {
	art artwork.Artwork
	err error
}

// fakeSource replays scripted results, then hands out fresh artworks.
type fakeSource struct {
	mu      sync.Mutex
	script  []fakeResult
	repeat  *artwork.Artwork // returned forever once the script is used up
	seq     int
	calls   int
	filters []artwork.Filter
}

func (f *fakeSource) FetchRandomArtwork(ctx context.Context, filter artwork.Filter) (artwork.Artwork, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.filters = append(f.filters, filter)
	if len(f.script) > 0 {
		r := f.script[0]
		f.script = f.script[1:]
		return r.art, r.err
	}
	if f.repeat != nil {
		return *f.repeat, nil
	}
	f.seq++
	return art(fmt.Sprintf("gen-%d", f.seq)), nil
}

func (f *fakeSource) ListCategories(ctx context.Context) ([]string, error) {
	return []string{"Paintings"}, nil
}

func (f *fakeSource) push(results ...fakeResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script = append(f.script, results...)
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestEngine(src artwork.Source) (*Engine, *ManualScheduler) {
	sched := NewManualScheduler()
	ids := 0
	e := New(src,
		WithScheduler(sched),
		WithSeed(42),
		WithIDFunc(func() string {
			ids++
			return fmt.Sprintf("game-%d", ids)
		}),
	)
	return e, sched
}

func startOrFail(t *testing.T, e *Engine, s Settings) GameState {
	t.Helper()
	if err := e.StartGame(context.Background(), s); err != nil {
		t.Fatalf("StartGame() failed: %v", err)
	}
	return e.State()
}

func wrongIndex(r *RoundState) int {
	return (r.CorrectIndex + 1) % len(r.Options)
}

func checkRoundInvariants(t *testing.T, r *RoundState) {
	t.Helper()
	if r == nil {
		t.Fatal("expected a round")
	}
	if r.CorrectIndex < 0 || r.CorrectIndex >= len(r.Options) {
		t.Fatalf("CorrectIndex %d out of range for %d options", r.CorrectIndex, len(r.Options))
	}
	if r.Options[r.CorrectIndex].ID != r.Target.ID {
		t.Errorf("Options[CorrectIndex] = %s, want target %s", r.Options[r.CorrectIndex].ID, r.Target.ID)
	}
	if hasDuplicateIDs(r.Options) {
		t.Errorf("duplicate option IDs: %v", r.Options)
	}
}

func TestStartGameBuildsFirstRound(t *testing.T) {
	tests := []struct {
		difficulty Difficulty
		options    int
		level      int
		clues      bool
	}{
		{DifficultyEasy, 3, 15, true},
		{DifficultyMedium, 5, 20, true},
		{DifficultyHard, 10, 25, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.difficulty), func(t *testing.T) {
			src := &fakeSource{}
			e, _ := newTestEngine(src)
			s := startOrFail(t, e, Settings{Difficulty: tt.difficulty})

			if s.GameOver || s.Loading {
				t.Fatalf("GameOver=%v Loading=%v, want both false", s.GameOver, s.Loading)
			}
			if s.Lives != 3 || s.Score != 0 {
				t.Errorf("Lives=%d Score=%d, want 3 and 0", s.Lives, s.Score)
			}
			if s.LastGuess != GuessNone {
				t.Errorf("LastGuess = %s, want none", s.LastGuess)
			}
			checkRoundInvariants(t, s.Round)
			if len(s.Round.Options) != tt.options {
				t.Errorf("len(Options) = %d, want %d", len(s.Round.Options), tt.options)
			}
			if src.callCount() != tt.options {
				t.Errorf("source called %d times, want %d", src.callCount(), tt.options)
			}
			if s.Round.Obfuscation != tt.level {
				t.Errorf("Obfuscation = %d, want %d", s.Round.Obfuscation, tt.level)
			}
			if !s.Round.CanGuess || s.Round.Number != 1 {
				t.Errorf("CanGuess=%v Number=%d, want true and 1", s.Round.CanGuess, s.Round.Number)
			}
			if tt.clues {
				if s.Round.Clue != ClueLocation && s.Round.Clue != ClueTimePeriod {
					t.Errorf("Clue = %s, want location or timeperiod", s.Round.Clue)
				}
			} else if s.Round.Clue != ClueNone {
				t.Errorf("Clue = %s, want none", s.Round.Clue)
			}
		})
	}
}

func TestStartGameInvalidSettings(t *testing.T) {
	start, end := 1900, 1800
	tests := []struct {
		name     string
		settings Settings
	}{
		{"unknown difficulty", Settings{Difficulty: "extreme"}},
		{"empty difficulty", Settings{}},
		{"inverted years", Settings{Difficulty: DifficultyEasy, YearStart: &start, YearEnd: &end}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{}
			e, _ := newTestEngine(src)
			err := e.StartGame(context.Background(), tt.settings)
			if !errors.Is(err, ErrInvalidSettings) {
				t.Fatalf("StartGame() error = %v, want ErrInvalidSettings", err)
			}
			if s := e.State(); s.Version != 0 || s.Started() {
				t.Errorf("state changed on invalid settings: %+v", s)
			}
			if src.callCount() != 0 {
				t.Errorf("source called %d times, want 0", src.callCount())
			}
		})
	}
}

func TestStartGameNotFoundEndsGame(t *testing.T) {
	src := &fakeSource{}
	src.push(fakeResult{err: fmt.Errorf("search: %w", artwork.ErrNotFound)})
	e, _ := newTestEngine(src)

	s := startOrFail(t, e, Settings{Difficulty: DifficultyEasy})
	if !s.GameOver || s.Loading {
		t.Errorf("GameOver=%v Loading=%v, want true and false", s.GameOver, s.Loading)
	}
	if s.Round != nil {
		t.Errorf("Round = %+v, want nil", s.Round)
	}
	if !errors.Is(s.LastError, artwork.ErrNotFound) {
		t.Errorf("LastError = %v, want ErrNotFound", s.LastError)
	}
	if src.callCount() != 1 {
		t.Errorf("not found should not be retried, got %d calls", src.callCount())
	}
}

func TestStartGameRetriesTarget(t *testing.T) {
	transient := fakeResult{err: fmt.Errorf("fetch: %w", artwork.ErrTransient)}
	noImage := fakeResult{art: artwork.Artwork{ID: "bare", Title: "No image"}}

	t.Run("recovers", func(t *testing.T) {
		src := &fakeSource{}
		src.push(transient, noImage, fakeResult{art: art("target")})
		e, _ := newTestEngine(src)

		s := startOrFail(t, e, Settings{Difficulty: DifficultyEasy})
		if s.GameOver {
			t.Fatalf("game over after recoverable failures: %v", s.LastError)
		}
		if s.Round.Target.ID != "target" {
			t.Errorf("Target = %s, want target", s.Round.Target.ID)
		}
	})

	t.Run("gives up", func(t *testing.T) {
		src := &fakeSource{}
		src.push(transient, transient, transient, fakeResult{art: art("late")})
		e, _ := newTestEngine(src)

		s := startOrFail(t, e, Settings{Difficulty: DifficultyEasy})
		if !s.GameOver || s.Round != nil {
			t.Fatalf("GameOver=%v Round=%v, want game over without a round", s.GameOver, s.Round)
		}
		if !errors.Is(s.LastError, artwork.ErrTransient) {
			t.Errorf("LastError = %v, want ErrTransient", s.LastError)
		}
		if got := src.callCount(); got != DefaultRules().TargetAttempts {
			t.Errorf("source called %d times, want %d", got, DefaultRules().TargetAttempts)
		}
	})
}

func TestCorrectGuessScenario(t *testing.T) {
	src := &fakeSource{}
	e, sched := newTestEngine(src)
	s := startOrFail(t, e, Settings{Difficulty: DifficultyEasy})

	result, err := e.SubmitGuess(s.Round.CorrectIndex)
	if err != nil {
		t.Fatalf("SubmitGuess() failed: %v", err)
	}
	if result != GuessCorrect {
		t.Fatalf("result = %s, want correct", result)
	}

	s = e.State()
	if s.Score != 130 {
		t.Errorf("Score = %d, want 130", s.Score)
	}
	if s.Round.Obfuscation != 13 {
		t.Errorf("Obfuscation = %d, want 13", s.Round.Obfuscation)
	}
	if s.Lives != 3 || s.Correct != 1 {
		t.Errorf("Lives=%d Correct=%d, want 3 and 1", s.Lives, s.Correct)
	}
	if s.LastGuess != GuessCorrect || s.Round.CanGuess {
		t.Errorf("LastGuess=%s CanGuess=%v, want correct and false", s.LastGuess, s.Round.CanGuess)
	}
	if sched.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", sched.Pending())
	}

	sched.Advance(DefaultRules().FeedbackDelay)

	s = e.State()
	if s.Round.Number != 2 {
		t.Fatalf("Round.Number = %d, want 2", s.Round.Number)
	}
	checkRoundInvariants(t, s.Round)
	if s.Round.Obfuscation != 13 {
		t.Errorf("next round Obfuscation = %d, want carried over 13", s.Round.Obfuscation)
	}
	if !s.Round.CanGuess || s.LastGuess != GuessNone || s.Loading {
		t.Errorf("CanGuess=%v LastGuess=%s Loading=%v after next round", s.Round.CanGuess, s.LastGuess, s.Loading)
	}
	if s.Score != 130 {
		t.Errorf("Score = %d after next round, want 130", s.Score)
	}
}

func TestObfuscationFloor(t *testing.T) {
	src := &fakeSource{}
	e, sched := newTestEngine(src)
	s := startOrFail(t, e, Settings{Difficulty: DifficultyEasy})

	// 15 -> 13 -> ... -> 5, then stays at 5.
	want := []int{13, 11, 9, 7, 5, 5, 5}
	for i, level := range want {
		if _, err := e.SubmitGuess(s.Round.CorrectIndex); err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
		if got := e.State().Round.Obfuscation; got != level {
			t.Errorf("after guess %d Obfuscation = %d, want %d", i, got, level)
		}
		sched.Advance(DefaultRules().FeedbackDelay)
		s = e.State()
	}
}

func TestIncorrectGuessReopensRound(t *testing.T) {
	src := &fakeSource{}
	e, sched := newTestEngine(src)
	s := startOrFail(t, e, Settings{Difficulty: DifficultyMedium})
	first := s.Round

	result, err := e.SubmitGuess(wrongIndex(first))
	if err != nil {
		t.Fatalf("SubmitGuess() failed: %v", err)
	}
	if result != GuessIncorrect {
		t.Fatalf("result = %s, want incorrect", result)
	}

	s = e.State()
	if s.Lives != 2 || s.Score != 0 || s.GameOver {
		t.Errorf("Lives=%d Score=%d GameOver=%v, want 2, 0, false", s.Lives, s.Score, s.GameOver)
	}
	if s.Round.Obfuscation != 15 {
		t.Errorf("Obfuscation = %d, want 15", s.Round.Obfuscation)
	}
	if s.Round.CanGuess || s.LastGuess != GuessIncorrect {
		t.Errorf("CanGuess=%v LastGuess=%s, want false and incorrect", s.Round.CanGuess, s.LastGuess)
	}
	if first.CanGuess != true || first.Obfuscation != 20 {
		t.Error("published round was modified in place")
	}

	sched.Advance(DefaultRules().FeedbackDelay)

	s = e.State()
	if s.Round.Number != 1 || s.Round.Target.ID != first.Target.ID {
		t.Errorf("round changed after incorrect guess: %+v", s.Round)
	}
	if !s.Round.CanGuess || s.LastGuess != GuessNone {
		t.Errorf("CanGuess=%v LastGuess=%s, want true and none", s.Round.CanGuess, s.LastGuess)
	}
	if src.callCount() != 5 {
		t.Errorf("retrying a round should not fetch, got %d calls", src.callCount())
	}
}

func TestLastLifeEndsGame(t *testing.T) {
	src := &fakeSource{}
	e, sched := newTestEngine(src)
	s := startOrFail(t, e, Settings{Difficulty: DifficultyHard})

	for i := 0; i < 2; i++ {
		if _, err := e.SubmitGuess(wrongIndex(s.Round)); err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
		sched.Advance(DefaultRules().FeedbackDelay)
		s = e.State()
	}
	if s.Lives != 1 {
		t.Fatalf("Lives = %d, want 1", s.Lives)
	}

	if _, err := e.SubmitGuess(wrongIndex(s.Round)); err != nil {
		t.Fatalf("final guess: %v", err)
	}
	s = e.State()
	if s.Lives != 0 || !s.GameOver {
		t.Errorf("Lives=%d GameOver=%v, want 0 and true", s.Lives, s.GameOver)
	}
	if s.Round.Obfuscation != 0 {
		t.Errorf("Obfuscation = %d, want 0", s.Round.Obfuscation)
	}
	if s.Round.CanGuess || s.LastGuess != GuessIncorrect {
		t.Errorf("CanGuess=%v LastGuess=%s, want false and incorrect", s.Round.CanGuess, s.LastGuess)
	}
	if sched.Pending() != 0 {
		t.Errorf("Pending() = %d after game over, want 0", sched.Pending())
	}

	if _, err := e.SubmitGuess(s.Round.CorrectIndex); !errors.Is(err, ErrGameOver) {
		t.Errorf("SubmitGuess() after game over = %v, want ErrGameOver", err)
	}
	if err := e.LoadNextRound(context.Background()); !errors.Is(err, ErrGameOver) {
		t.Errorf("LoadNextRound() after game over = %v, want ErrGameOver", err)
	}
	if e.State().Version != s.Version {
		t.Error("rejected operations changed the state")
	}
}

func TestSubmitGuessPreconditions(t *testing.T) {
	src := &fakeSource{}
	e, _ := newTestEngine(src)

	if _, err := e.SubmitGuess(0); !errors.Is(err, ErrNoRound) {
		t.Errorf("SubmitGuess() before start = %v, want ErrNoRound", err)
	}
	if err := e.LoadNextRound(context.Background()); !errors.Is(err, ErrNoRound) {
		t.Errorf("LoadNextRound() before start = %v, want ErrNoRound", err)
	}

	s := startOrFail(t, e, Settings{Difficulty: DifficultyEasy})
	for _, idx := range []int{-1, len(s.Round.Options)} {
		if _, err := e.SubmitGuess(idx); !errors.Is(err, ErrInvalidOption) {
			t.Errorf("SubmitGuess(%d) = %v, want ErrInvalidOption", idx, err)
		}
	}
	if e.State().Version != s.Version {
		t.Error("invalid guesses changed the state")
	}

	if _, err := e.SubmitGuess(s.Round.CorrectIndex); err != nil {
		t.Fatalf("SubmitGuess() failed: %v", err)
	}
	before := e.State()
	if _, err := e.SubmitGuess(s.Round.CorrectIndex); !errors.Is(err, ErrGuessClosed) {
		t.Errorf("second guess = %v, want ErrGuessClosed", err)
	}
	if after := e.State(); after.Score != before.Score || after.Version != before.Version {
		t.Error("closed round accepted a guess")
	}
}

func TestLoadNextRoundFailureKeepsRound(t *testing.T) {
	src := &fakeSource{}
	e, sched := newTestEngine(src)
	s := startOrFail(t, e, Settings{Difficulty: DifficultyEasy})
	first := s.Round

	if _, err := e.SubmitGuess(first.CorrectIndex); err != nil {
		t.Fatalf("SubmitGuess() failed: %v", err)
	}

	transient := fakeResult{err: fmt.Errorf("status 503: %w", artwork.ErrTransient)}
	src.push(transient, transient, transient)
	if err := e.LoadNextRound(context.Background()); err != nil {
		t.Fatalf("LoadNextRound() = %v, want nil", err)
	}

	s = e.State()
	if s.Loading || s.GameOver {
		t.Errorf("Loading=%v GameOver=%v, want both false", s.Loading, s.GameOver)
	}
	if s.Round.Number != 1 || s.Round.Target.ID != first.Target.ID {
		t.Errorf("round advanced despite failure: %+v", s.Round)
	}
	if !errors.Is(s.LastError, artwork.ErrTransient) {
		t.Errorf("LastError = %v, want ErrTransient", s.LastError)
	}

	// The pending advance from the correct guess still applies to this round.
	sched.Advance(DefaultRules().FeedbackDelay)
	s = e.State()
	if s.Round.Number != 2 || s.LastError != nil {
		t.Errorf("Round.Number=%d LastError=%v, want 2 and nil", s.Round.Number, s.LastError)
	}
}

func TestManualLoadSupersedesScheduledAdvance(t *testing.T) {
	src := &fakeSource{}
	e, sched := newTestEngine(src)
	s := startOrFail(t, e, Settings{Difficulty: DifficultyEasy})

	if _, err := e.SubmitGuess(s.Round.CorrectIndex); err != nil {
		t.Fatalf("SubmitGuess() failed: %v", err)
	}
	if err := e.LoadNextRound(context.Background()); err != nil {
		t.Fatalf("LoadNextRound() failed: %v", err)
	}
	sched.Advance(DefaultRules().FeedbackDelay)

	if n := e.State().Round.Number; n != 2 {
		t.Errorf("Round.Number = %d, want 2 (scheduled advance must not skip a round)", n)
	}
}

func TestStartGameCancelsPendingTransitions(t *testing.T) {
	src := &fakeSource{}
	e, sched := newTestEngine(src)
	s := startOrFail(t, e, Settings{Difficulty: DifficultyEasy})

	if _, err := e.SubmitGuess(s.Round.CorrectIndex); err != nil {
		t.Fatalf("SubmitGuess() failed: %v", err)
	}
	oldGen := e.generation

	fresh := startOrFail(t, e, Settings{Difficulty: DifficultyMedium})
	if sched.Pending() != 0 {
		t.Errorf("Pending() = %d after restart, want 0", sched.Pending())
	}
	if fresh.ID == s.ID {
		t.Error("new game reused the previous ID")
	}
	if fresh.Score != 0 || fresh.Lives != 3 || fresh.Round.Number != 1 {
		t.Errorf("new game not reset: %+v", fresh)
	}

	// A callback that escaped cancellation must detect it is stale.
	e.advance(oldGen, 1)
	e.reopen(oldGen, 1)
	if got := e.State(); got.Version != fresh.Version {
		t.Errorf("stale callback changed state: version %d -> %d", fresh.Version, got.Version)
	}
}

// blockingSource blocks its first fetch until the context is cancelled.
type blockingSource struct {
	fakeSource
	entered chan struct{}
	once    sync.Once
}

func (b *blockingSource) FetchRandomArtwork(ctx context.Context, filter artwork.Filter) (artwork.Artwork, error) {
	first := false
	b.once.Do(func() { first = true })
	if first {
		close(b.entered)
		<-ctx.Done()
		return artwork.Artwork{}, ctx.Err()
	}
	return b.fakeSource.FetchRandomArtwork(ctx, filter)
}

func TestStartGameSupersedesInFlightBuild(t *testing.T) {
	src := &blockingSource{entered: make(chan struct{})}
	e, _ := newTestEngine(src)

	done := make(chan error, 1)
	go func() {
		done <- e.StartGame(context.Background(), Settings{Difficulty: DifficultyEasy})
	}()
	<-src.entered

	s := startOrFail(t, e, Settings{Difficulty: DifficultyHard})
	if err := <-done; err != nil {
		t.Fatalf("superseded StartGame() = %v, want nil", err)
	}

	final := e.State()
	if final.ID != s.ID || final.GameOver || final.Round == nil {
		t.Errorf("superseded build leaked into the new game: %+v", final)
	}
	if final.Settings.Difficulty != DifficultyHard {
		t.Errorf("Difficulty = %s, want hard", final.Settings.Difficulty)
	}
}

func TestDistractorDuplicatesDiscarded(t *testing.T) {
	src := &fakeSource{}
	src.push(
		fakeResult{art: art("target")},
		fakeResult{art: art("target")},
		fakeResult{art: art("b")},
		fakeResult{art: art("b")},
		fakeResult{art: artwork.Artwork{ID: "c"}},
		fakeResult{art: art("d")},
	)
	e, _ := newTestEngine(src)
	s := startOrFail(t, e, Settings{Difficulty: DifficultyEasy})

	checkRoundInvariants(t, s.Round)
	got := map[string]bool{}
	for _, o := range s.Round.Options {
		got[o.ID] = true
	}
	for _, id := range []string{"target", "b", "d"} {
		if !got[id] {
			t.Errorf("missing option %s in %v", id, s.Round.Options)
		}
	}
}

func TestDistractorBudgetDegradesOptions(t *testing.T) {
	same := art("only")
	src := &fakeSource{repeat: &same}
	e, _ := newTestEngine(src)
	s := startOrFail(t, e, Settings{Difficulty: DifficultyEasy})

	if s.GameOver {
		t.Fatalf("low inventory ended the game: %v", s.LastError)
	}
	if len(s.Round.Options) != 1 || s.Round.CorrectIndex != 0 {
		t.Errorf("Options=%v CorrectIndex=%d, want only the target", s.Round.Options, s.Round.CorrectIndex)
	}
	want := 1 + 2*DefaultRules().DistractorAttemptsPerSlot
	if src.callCount() != want {
		t.Errorf("source called %d times, want %d", src.callCount(), want)
	}
}

func TestSettingsReachSource(t *testing.T) {
	start, end := 1800, 1900
	src := &fakeSource{}
	e, _ := newTestEngine(src)
	startOrFail(t, e, Settings{
		Difficulty: DifficultyMedium,
		Medium:     "Paintings",
		Country:    "France",
		YearStart:  &start,
		YearEnd:    &end,
	})

	for i, f := range src.filters {
		if f.Medium != "Paintings" || f.Country != "France" || f.Difficulty != "medium" {
			t.Errorf("filter %d = %+v", i, f)
		}
		if f.YearStart == nil || *f.YearStart != 1800 || f.YearEnd == nil || *f.YearEnd != 1900 {
			t.Errorf("filter %d year range not passed through", i)
		}
	}
}

func TestSubscribeDeliversInOrder(t *testing.T) {
	src := &fakeSource{}
	e, sched := newTestEngine(src)

	var versions []uint64
	var loadingSeen bool
	unsubscribe := e.Subscribe(func(s GameState) {
		versions = append(versions, s.Version)
		if s.Loading {
			loadingSeen = true
		}
	})

	s := startOrFail(t, e, Settings{Difficulty: DifficultyEasy})
	if _, err := e.SubmitGuess(s.Round.CorrectIndex); err != nil {
		t.Fatalf("SubmitGuess() failed: %v", err)
	}
	sched.Advance(DefaultRules().FeedbackDelay)

	if !loadingSeen {
		t.Error("loading snapshot was not delivered")
	}
	for i := 1; i < len(versions); i++ {
		if versions[i] <= versions[i-1] {
			t.Fatalf("versions out of order: %v", versions)
		}
	}
	if last := versions[len(versions)-1]; last != e.State().Version {
		t.Errorf("last delivered version %d, state version %d", last, e.State().Version)
	}

	unsubscribe()
	n := len(versions)
	startOrFail(t, e, Settings{Difficulty: DifficultyEasy})
	if len(versions) != n {
		t.Error("delivery continued after unsubscribe")
	}
}

func TestRandomPlayKeepsInvariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		src := &fakeSource{}
		e, sched := newTestEngine(src)
		rng := rand.New(rand.NewSource(seed))
		d := Difficulties()[rng.Intn(3)]
		s := startOrFail(t, e, Settings{Difficulty: d})

		for step := 0; step < 50 && !s.GameOver; step++ {
			idx := rng.Intn(len(s.Round.Options))
			before := s
			result, err := e.SubmitGuess(idx)
			if err != nil {
				t.Fatalf("seed %d step %d: %v", seed, step, err)
			}
			s = e.State()

			scored := s.Score > before.Score
			lostLife := s.Lives < before.Lives
			if scored == lostLife {
				t.Fatalf("seed %d step %d: scored=%v lostLife=%v", seed, step, scored, lostLife)
			}
			if (result == GuessCorrect) != scored {
				t.Fatalf("seed %d step %d: result %s but scored=%v", seed, step, result, scored)
			}
			if s.Lives < 0 || s.Lives > 3 {
				t.Fatalf("seed %d step %d: lives %d out of range", seed, step, s.Lives)
			}
			if s.GameOver != (s.Lives == 0) {
				t.Fatalf("seed %d step %d: GameOver=%v with %d lives", seed, step, s.GameOver, s.Lives)
			}
			if !s.GameOver {
				lvl := s.Round.Obfuscation
				if lvl < 5 || lvl > 30 {
					t.Fatalf("seed %d step %d: level %d out of bounds", seed, step, lvl)
				}
			}

			sched.Advance(DefaultRules().FeedbackDelay)
			s = e.State()
			if !s.GameOver {
				checkRoundInvariants(t, s.Round)
			}
		}
	}
}

func TestCloseStopsTransitions(t *testing.T) {
	src := &fakeSource{}
	e, sched := newTestEngine(src)
	s := startOrFail(t, e, Settings{Difficulty: DifficultyEasy})
	if _, err := e.SubmitGuess(s.Round.CorrectIndex); err != nil {
		t.Fatalf("SubmitGuess() failed: %v", err)
	}

	e.Close()
	before := e.State()
	sched.RunAll()
	if after := e.State(); after.Version != before.Version {
		t.Error("transition ran after Close")
	}
}

func TestCloseDuringLoadClearsLoading(t *testing.T) {
	src := &blockingSource{entered: make(chan struct{})}
	e, _ := newTestEngine(src)

	var mu sync.Mutex
	var last GameState
	unsub := e.Subscribe(func(s GameState) {
		mu.Lock()
		last = s
		mu.Unlock()
	})
	defer unsub()

	done := make(chan error, 1)
	go func() {
		done <- e.StartGame(context.Background(), Settings{Difficulty: DifficultyEasy})
	}()
	<-src.entered

	e.Close()
	if err := <-done; err != nil {
		t.Fatalf("interrupted StartGame() = %v, want nil", err)
	}

	s := e.State()
	if s.Loading || s.GameOver || s.Round != nil {
		t.Fatalf("after Close: Loading=%v GameOver=%v Round=%v", s.Loading, s.GameOver, s.Round)
	}
	mu.Lock()
	if last.Version != s.Version || last.Loading {
		t.Errorf("subscribers last saw version %d loading=%v, want version %d not loading",
			last.Version, last.Loading, s.Version)
	}
	mu.Unlock()

	if _, err := e.SubmitGuess(0); !errors.Is(err, ErrNoRound) {
		t.Errorf("SubmitGuess() error = %v, want ErrNoRound", err)
	}
	if err := e.LoadNextRound(context.Background()); err != nil {
		t.Fatalf("LoadNextRound() after Close = %v", err)
	}
	if s := e.State(); s.Loading || s.Round == nil || s.Round.Number != 1 {
		t.Errorf("LoadNextRound() after Close should build round 1, got %+v", s)
	}
}
