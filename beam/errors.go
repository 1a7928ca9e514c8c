package beam

import "errors"

var (
	ErrInvalidBeamSize      = errors.New("beam: size must be at least 1")
	ErrInvalidK             = errors.New("beam: number of sequences must be at least 1")
	ErrOutcomeCountMismatch = errors.New("beam: model returned a distribution of unexpected length")
	ErrInvalidProbability   = errors.New("beam: probability out of range [0,1]")
	ErrNotNormalized        = errors.New("beam: distribution does not sum to 1")
	ErrEmptyBeam            = errors.New("beam: no valid continuation")
)

var (
	ErrNilModel   = errors.New("beam: model and context generator are required")
	ErrNoOutcomes = errors.New("beam: model has no outcomes")
)
