package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrInvalidLevelTable   = errors.New("invalid_level_table")
	ErrEmptyLevelTable     = errors.New("empty_level_table")
	ErrInvalidRewardType   = errors.New("invalid_reward_type")
	ErrInvalidRewardStatus = errors.New("invalid_reward_status")
	ErrRewardNotAvailable  = errors.New("reward_not_available")
)

// Validation failure codes reported for a rejected level table.
const (
	ReasonEmpty              = "empty"
	ReasonMissingFloorLevel  = "missing_floor_level"
	ReasonDuplicateLevel     = "duplicate_level_number"
	ReasonNonIncreasingMinXP = "non_increasing_min_xp"
	ReasonInvalidLevelNumber = "invalid_level_number"
	ReasonInvalidMinXP       = "invalid_min_xp"
	ReasonInvalidName        = "invalid_name"
	ReasonInvalidReward      = "invalid_reward"
)

// ValidationError describes why a level table was rejected.
type ValidationError struct {
	Code        string
	Message     string
	LevelNumber int
}

func (e *ValidationError) Error() string {
	if e.LevelNumber > 0 {
		return fmt.Sprintf("%s: %s (level %d)", e.Code, e.Message, e.LevelNumber)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidLevelTable
}

func invalid(code string, level int, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...), LevelNumber: level}
}
