package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLevels(t *testing.T) {
	percent := func(number, minXP int, value int64) LoyaltyLevel {
		l := lvl(number, minXP, RewardTypeDiscountPercent)
		l.RewardValue = value
		return l
	}

	cases := []struct {
		name   string
		levels []LoyaltyLevel
		code   string
	}{
		{name: "valid", levels: threeLevels()},
		{name: "empty", levels: nil, code: ReasonEmpty},
		{name: "duplicate level number", levels: []LoyaltyLevel{lvl(1, 0, RewardTypeNone), lvl(2, 500, RewardTypeNone), lvl(2, 800, RewardTypeNone)}, code: ReasonDuplicateLevel},
		{name: "no zero threshold", levels: []LoyaltyLevel{lvl(1, 10, RewardTypeNone), lvl(2, 500, RewardTypeNone)}, code: ReasonMissingFloorLevel},
		{name: "floor is not level one", levels: []LoyaltyLevel{lvl(2, 0, RewardTypeNone), lvl(3, 500, RewardTypeNone)}, code: ReasonMissingFloorLevel},
		{name: "equal thresholds", levels: []LoyaltyLevel{lvl(1, 0, RewardTypeNone), lvl(2, 500, RewardTypeNone), lvl(3, 500, RewardTypeNone)}, code: ReasonNonIncreasingMinXP},
		{name: "decreasing thresholds", levels: []LoyaltyLevel{lvl(1, 0, RewardTypeNone), lvl(2, 800, RewardTypeNone), lvl(3, 500, RewardTypeNone)}, code: ReasonNonIncreasingMinXP},
		{name: "level zero", levels: []LoyaltyLevel{lvl(0, 0, RewardTypeNone)}, code: ReasonInvalidLevelNumber},
		{name: "negative min xp", levels: []LoyaltyLevel{lvl(1, 0, RewardTypeNone), lvl(2, -5, RewardTypeNone)}, code: ReasonInvalidMinXP},
		{name: "unknown reward", levels: []LoyaltyLevel{lvl(1, 0, RewardType("cashback"))}, code: ReasonInvalidReward},
		{name: "percent over 100", levels: []LoyaltyLevel{lvl(1, 0, RewardTypeNone), percent(2, 100, 150)}, code: ReasonInvalidReward},
		{name: "percent without value", levels: []LoyaltyLevel{lvl(1, 0, RewardTypeNone), percent(2, 100, 0)}, code: ReasonInvalidReward},
		{name: "missing name", levels: []LoyaltyLevel{{LevelNumber: 1, RewardType: RewardTypeNone}}, code: ReasonInvalidName},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateLevels(tc.levels)
			if tc.code == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidLevelTable)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.code, verr.Code)
		})
	}
}

func TestDefaultLevelsAreValid(t *testing.T) {
	levels := make([]LoyaltyLevel, 0, len(DefaultLevels()))
	for _, in := range DefaultLevels() {
		levels = append(levels, LoyaltyLevel{
			LevelNumber: in.LevelNumber,
			Name:        in.Name,
			MinXP:       in.MinXP,
			RewardType:  in.RewardType,
			RewardValue: in.RewardValue,
		})
	}
	assert.NoError(t, ValidateLevels(levels))
}
