package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// RewardType is the benefit a loyalty level grants on level-up.
type RewardType string

const (
	RewardTypeNone            RewardType = "none"
	RewardTypeDiscountPercent RewardType = "discount_percent"
	RewardTypeDiscountFixed   RewardType = "discount_fixed"
	RewardTypeFreeService     RewardType = "free_service"
	RewardTypeGift            RewardType = "gift"
)

// ParseRewardType accepts the canonical lower-case names. An empty string is none.
func ParseRewardType(raw string) (RewardType, error) {
	t := RewardType(strings.ToLower(strings.TrimSpace(raw)))
	if t == "" {
		return RewardTypeNone, nil
	}
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRewardType, raw)
	}
	return t, nil
}

func (t RewardType) Valid() bool {
	switch t {
	case RewardTypeNone, RewardTypeDiscountPercent, RewardTypeDiscountFixed, RewardTypeFreeService, RewardTypeGift:
		return true
	default:
		return false
	}
}

// Grants reports whether a level-up into a level of this type creates a reward.
func (t RewardType) Grants() bool {
	switch t {
	case RewardTypeDiscountPercent, RewardTypeDiscountFixed, RewardTypeFreeService, RewardTypeGift:
		return true
	default:
		return false
	}
}

// HasValue reports whether reward_value carries meaning for this type.
func (t RewardType) HasValue() bool {
	switch t {
	case RewardTypeDiscountPercent, RewardTypeDiscountFixed:
		return true
	default:
		return false
	}
}

func (t RewardType) String() string { return string(t) }

func (t *RewardType) UnmarshalText(b []byte) error {
	parsed, err := ParseRewardType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t RewardType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRewardType, string(t))
	}
	return string(t), nil
}

func (t *RewardType) Scan(src any) error {
	raw, err := scanString(src)
	if err != nil {
		return err
	}
	return t.UnmarshalText([]byte(raw))
}

// RewardStatus is the lifecycle state of an EarnedReward.
type RewardStatus string

const (
	RewardStatusAvailable RewardStatus = "available"
	RewardStatusRedeemed  RewardStatus = "redeemed"
	RewardStatusExpired   RewardStatus = "expired"
)

func ParseRewardStatus(raw string) (RewardStatus, error) {
	s := RewardStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRewardStatus, raw)
	}
	return s, nil
}

func (s RewardStatus) Valid() bool {
	switch s {
	case RewardStatusAvailable, RewardStatusRedeemed, RewardStatusExpired:
		return true
	default:
		return false
	}
}

// Terminal statuses never change again.
func (s RewardStatus) Terminal() bool {
	switch s {
	case RewardStatusRedeemed, RewardStatusExpired:
		return true
	default:
		return false
	}
}

// CanTransitionTo allows only available -> redeemed and available -> expired.
func (s RewardStatus) CanTransitionTo(next RewardStatus) bool {
	switch s {
	case RewardStatusAvailable:
		return next == RewardStatusRedeemed || next == RewardStatusExpired
	default:
		return false
	}
}

func (s RewardStatus) String() string { return string(s) }

func (s *RewardStatus) UnmarshalText(b []byte) error {
	parsed, err := ParseRewardStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s RewardStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRewardStatus, string(s))
	}
	return string(s), nil
}

func (s *RewardStatus) Scan(src any) error {
	raw, err := scanString(src)
	if err != nil {
		return err
	}
	return s.UnmarshalText([]byte(raw))
}

func scanString(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported scan type %T", src)
	}
}
