package domain

import (
	"slices"
	"strings"
)

const maxPercentDiscount = 100

// ValidateLevels checks a full replacement level table. Every failure is a
// *ValidationError wrapping ErrInvalidLevelTable.
func ValidateLevels(levels []LoyaltyLevel) error {
	if len(levels) == 0 {
		return invalid(ReasonEmpty, 0, "level table must contain at least one level")
	}

	seen := make(map[int]struct{}, len(levels))
	hasZero := false
	for _, level := range levels {
		if level.LevelNumber < 1 {
			return invalid(ReasonInvalidLevelNumber, 0, "level_number must be at least 1, got %d", level.LevelNumber)
		}
		if _, dup := seen[level.LevelNumber]; dup {
			return invalid(ReasonDuplicateLevel, level.LevelNumber, "level_number %d appears more than once", level.LevelNumber)
		}
		seen[level.LevelNumber] = struct{}{}

		if level.MinXP < 0 {
			return invalid(ReasonInvalidMinXP, level.LevelNumber, "min_xp must not be negative")
		}
		if level.MinXP == 0 {
			hasZero = true
		}
		if strings.TrimSpace(level.Name) == "" {
			return invalid(ReasonInvalidName, level.LevelNumber, "name is required")
		}
		if err := validateReward(level); err != nil {
			return err
		}
	}

	if !hasZero {
		return invalid(ReasonMissingFloorLevel, 0, "one level must have min_xp 0")
	}

	ordered := slices.Clone(levels)
	SortByLevelNumber(ordered)
	if ordered[0].LevelNumber != 1 || ordered[0].MinXP != 0 {
		return invalid(ReasonMissingFloorLevel, ordered[0].LevelNumber, "level 1 must exist with min_xp 0")
	}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].MinXP <= ordered[i-1].MinXP {
			return invalid(ReasonNonIncreasingMinXP, ordered[i].LevelNumber,
				"min_xp %d must exceed %d required by level %d",
				ordered[i].MinXP, ordered[i-1].MinXP, ordered[i-1].LevelNumber)
		}
	}
	return nil
}

func validateReward(level LoyaltyLevel) error {
	if !level.RewardType.Valid() {
		return invalid(ReasonInvalidReward, level.LevelNumber, "unknown reward_type %q", string(level.RewardType))
	}
	if level.RewardValue < 0 {
		return invalid(ReasonInvalidReward, level.LevelNumber, "reward_value must not be negative")
	}
	switch level.RewardType {
	case RewardTypeDiscountPercent:
		if level.RewardValue == 0 || level.RewardValue > maxPercentDiscount {
			return invalid(ReasonInvalidReward, level.LevelNumber, "discount_percent reward_value must be between 1 and 100")
		}
	case RewardTypeDiscountFixed:
		if level.RewardValue == 0 {
			return invalid(ReasonInvalidReward, level.LevelNumber, "discount_fixed reward_value must be positive")
		}
	case RewardTypeNone, RewardTypeFreeService, RewardTypeGift:
	}
	return nil
}
