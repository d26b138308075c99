package models

import "errors"

// Precondition violations raised by the engine. Callers match them with errors.Is
var (
	ErrInvalidConfiguration  = errors.New("invalid configuration")
	ErrDuplicateDivisionName = errors.New("duplicate division name")
	ErrDivisionNotFound      = errors.New("division not found")
	ErrConferenceNotFound    = errors.New("conference not found")
	ErrDivisionFull          = errors.New("division full")
	ErrAlreadyStarted        = errors.New("already started")
	ErrAlreadyInPostSeason   = errors.New("already in post-season")
	ErrGroupStageIncomplete  = errors.New("group stage incomplete")
	ErrPostSeasonIncomplete  = errors.New("post-season incomplete")
	ErrAlreadyFinalized      = errors.New("post-season already finalized")
	ErrUnknownMatch          = errors.New("unknown match")
	ErrDuplicateResult       = errors.New("result already recorded")
	ErrNoResult              = errors.New("no result recorded")
	ErrInvalidScore          = errors.New("invalid score")
)
