package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/vovakirdan/guess-the-met/internal/artwork"
)

// buildRound fetches a target and its distractors and assembles a round.
// Only a failure to fetch the target is an error; missing distractors
// shrink the option list instead.
func (e *Engine) buildRound(ctx context.Context, settings Settings, level, number int) (*RoundState, error) {
	filter := settings.Filter()
	clue := e.pickClue(settings.Difficulty)

	target, err := e.fetchTarget(ctx, filter)
	if err != nil {
		return nil, err
	}

	distractors := e.fetchDistractors(ctx, filter, target, e.rules.OptionCount(settings.Difficulty)-1)

	options := make([]artwork.Artwork, 0, len(distractors)+1)
	options = append(options, target)
	options = append(options, distractors...)
	Shuffle(options, e.intn)

	round := &RoundState{
		Number:       number,
		Target:       target,
		Options:      options,
		CorrectIndex: indexOf(options, target.ID),
		Clue:         clue,
		Obfuscation:  level,
		CanGuess:     true,
	}
	if round.CorrectIndex < 0 || hasDuplicateIDs(options) {
		return nil, fmt.Errorf("game: inconsistent options for round %d", number)
	}
	e.logger.Debug("round ready", "round", number, "target", target.ID,
		"options", len(options), "clue", clue, "level", level)
	return round, nil
}

// pickClue draws the clue kind for a round. Hard rounds get none.
func (e *Engine) pickClue(d Difficulty) Clue {
	if !e.rules.For(d).Clues {
		return ClueNone
	}
	return clueKinds[e.intn(len(clueKinds))]
}

// fetchTarget retries transient failures and image-less results up to
// Rules.TargetAttempts times. ErrNotFound and cancellation end it at once.
func (e *Engine) fetchTarget(ctx context.Context, filter artwork.Filter) (artwork.Artwork, error) {
	attempts := max(e.rules.TargetAttempts, 1)
	var lastErr error
	for i := 1; i <= attempts; i++ {
		a, err := e.fetch(ctx, filter)
		if err == nil {
			if a.HasImage() {
				return a, nil
			}
			err = fmt.Errorf("artwork %s: %w", a.ID, artwork.ErrMissingImage)
		}
		lastErr = err
		if errors.Is(err, artwork.ErrNotFound) || ctx.Err() != nil {
			break
		}
		e.logger.Warn("target fetch failed", "attempt", i, "of", attempts, "error", err)
	}
	return artwork.Artwork{}, fmt.Errorf("game: fetch target: %w", lastErr)
}

// fetchDistractors collects up to want artworks distinct from target and
// from each other. Each slot has Rules.DistractorAttemptsPerSlot attempts;
// failed fetches, image-less results and duplicates all spend the budget.
func (e *Engine) fetchDistractors(ctx context.Context, filter artwork.Filter, target artwork.Artwork, want int) []artwork.Artwork {
	if want <= 0 {
		return nil
	}
	budget := want * max(e.rules.DistractorAttemptsPerSlot, 1)
	seen := map[string]struct{}{target.ID: {}}
	out := make([]artwork.Artwork, 0, want)

	for spent := 0; spent < budget && len(out) < want; spent++ {
		if ctx.Err() != nil {
			break
		}
		a, err := e.fetch(ctx, filter)
		if err != nil {
			e.logger.Warn("distractor fetch failed", "error", err)
			if errors.Is(err, artwork.ErrNotFound) {
				break
			}
			continue
		}
		if !a.HasImage() {
			e.logger.Debug("distractor without image", "id", a.ID)
			continue
		}
		if _, dup := seen[a.ID]; dup {
			e.logger.Debug("duplicate distractor", "id", a.ID)
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}

	if len(out) < want {
		e.logger.Warn("round has fewer options than requested", "want", want+1, "got", len(out)+1)
	}
	return out
}

func (e *Engine) fetch(ctx context.Context, filter artwork.Filter) (artwork.Artwork, error) {
	if e.rules.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.rules.FetchTimeout)
		defer cancel()
	}
	return e.source.FetchRandomArtwork(ctx, filter)
}
