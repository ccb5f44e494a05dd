package token

import "wl/internal/source"

// Tokenizer is a character-fed state machine.
//
// Feed is called once per character with the character's own position.
// It either absorbs ch and returns ok == false, or completes a token and
// returns it with the range it spans. Whether that range ends before or
// after ch is the tokenizer's policy, but emitted ranges must tile the
// input with no gaps and no overlaps.
type Tokenizer interface {
	Feed(pos source.Pos, ch rune) (tok Token, rng source.Range, ok bool)
}

// Finisher is implemented by tokenizers that may hold a pending token when
// input ends. Drivers call Finish exactly once after the last Feed.
type Finisher interface {
	Finish() (tok Token, rng source.Range, ok bool)
}

// Resetter is implemented by tokenizers that can be reused for a new input.
type Resetter interface {
	Reset()
}
