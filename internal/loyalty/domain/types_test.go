package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRewardType(t *testing.T) {
	got, err := ParseRewardType(" Discount_Percent ")
	require.NoError(t, err)
	assert.Equal(t, RewardTypeDiscountPercent, got)

	got, err = ParseRewardType("")
	require.NoError(t, err)
	assert.Equal(t, RewardTypeNone, got)

	_, err = ParseRewardType("points")
	assert.ErrorIs(t, err, ErrInvalidRewardType)
}

func TestRewardTypeJSONRejectsUnknown(t *testing.T) {
	var in LevelInput
	err := json.Unmarshal([]byte(`{"reward_type":"cashback"}`), &in)
	assert.ErrorIs(t, err, ErrInvalidRewardType)

	require.NoError(t, json.Unmarshal([]byte(`{"reward_type":"gift"}`), &in))
	assert.Equal(t, RewardTypeGift, in.RewardType)
}

func TestRewardTypeGrants(t *testing.T) {
	assert.False(t, RewardTypeNone.Grants())
	for _, rt := range []RewardType{RewardTypeDiscountPercent, RewardTypeDiscountFixed, RewardTypeFreeService, RewardTypeGift} {
		assert.True(t, rt.Grants(), rt)
	}
}

func TestRewardStatusTransitionsAreMonotonic(t *testing.T) {
	assert.True(t, RewardStatusAvailable.CanTransitionTo(RewardStatusRedeemed))
	assert.True(t, RewardStatusAvailable.CanTransitionTo(RewardStatusExpired))
	assert.False(t, RewardStatusExpired.CanTransitionTo(RewardStatusAvailable))
	assert.False(t, RewardStatusRedeemed.CanTransitionTo(RewardStatusExpired))
	assert.True(t, RewardStatusExpired.Terminal())
}

func TestRewardStatusScan(t *testing.T) {
	var s RewardStatus
	require.NoError(t, s.Scan([]byte("redeemed")))
	assert.Equal(t, RewardStatusRedeemed, s)
	assert.Error(t, s.Scan("lost"))

	_, err := RewardStatus("lost").Value()
	assert.ErrorIs(t, err, ErrInvalidRewardStatus)
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reward := EarnedReward{Status: RewardStatusAvailable, ExpiresAt: now}

	assert.Equal(t, RewardStatusExpired, reward.EffectiveStatus(now))
	assert.Equal(t, RewardStatusAvailable, reward.EffectiveStatus(now.Add(-time.Second)))

	reward.Status = RewardStatusRedeemed
	assert.Equal(t, RewardStatusRedeemed, reward.EffectiveStatus(now.Add(time.Hour)))
}
