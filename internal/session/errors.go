package session

import "errors"

var (
	// ErrNoUser is returned by Submit when no user is signed in. It is
	// checked before any AI call and no record is written.
	ErrNoUser = errors.New("please log in to save your practice session")

	// ErrNoCharacter is returned when an action needs a selected character.
	ErrNoCharacter = errors.New("no character selected")

	// ErrInvalidTransition is returned when an action is not allowed in
	// the current phase.
	ErrInvalidTransition = errors.New("action not allowed in current phase")

	// ErrStale is returned by Submit when the attempt was cleared or
	// replaced while its evaluations were in flight. Their results are
	// discarded.
	ErrStale = errors.New("attempt was replaced before evaluation finished")

	// ErrEmptyQuestion is returned by Ask for a blank question.
	ErrEmptyQuestion = errors.New("question is empty")
)
