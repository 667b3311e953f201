package split

import "errors"

var (
	// ErrInvalidRatio is returned for a test ratio outside (0, 1).
	ErrInvalidRatio = errors.New("split: test ratio must be in (0, 1)")
	// ErrMissingLabel is returned when a stratification label is empty.
	ErrMissingLabel = errors.New("split: missing stratification label")
	// ErrTooFewMembers is returned when a class has fewer than two members.
	ErrTooFewMembers = errors.New("split: class has fewer than 2 members")
	// ErrTooFewRows is returned when train or test cannot hold one row per class.
	ErrTooFewRows = errors.New("split: not enough rows for every class")
	// ErrMissingID is returned when an identifier cell is missing.
	ErrMissingID = errors.New("split: missing identifier")
)
