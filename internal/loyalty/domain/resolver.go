package domain

import (
	"cmp"
	"slices"
)

// Resolution is where a given XP total sits in a level table.
type Resolution struct {
	Current  LoyaltyLevel
	Next     *LoyaltyLevel
	XPToNext int
}

// AtMaxLevel reports whether no higher level exists.
func (r Resolution) AtMaxLevel() bool {
	return r.Next == nil
}

// ProgressPercent is progress from the current threshold toward the next
// one, clamped to [0, 100]. The top level always reads 100.
func (r Resolution) ProgressPercent(totalXP int) int {
	if r.Next == nil {
		return 100
	}
	span := r.Next.MinXP - r.Current.MinXP
	if span <= 0 {
		return 100
	}
	pct := (totalXP - r.Current.MinXP) * 100 / span
	return min(max(pct, 0), 100)
}

// Resolve picks the highest level whose threshold is at most totalXP.
// Equal thresholds resolve to the higher level number. A table without a
// zero-threshold level resolves XP below every threshold to its lowest
// level. The only failure is an empty table.
func Resolve(totalXP int, levels []LoyaltyLevel) (Resolution, error) {
	if len(levels) == 0 {
		return Resolution{}, ErrEmptyLevelTable
	}
	totalXP = max(totalXP, 0)

	byThreshold := slices.Clone(levels)
	slices.SortStableFunc(byThreshold, func(a, b LoyaltyLevel) int {
		if c := cmp.Compare(b.MinXP, a.MinXP); c != 0 {
			return c
		}
		return cmp.Compare(b.LevelNumber, a.LevelNumber)
	})

	current := byThreshold[len(byThreshold)-1]
	for _, level := range byThreshold {
		if level.MinXP <= totalXP {
			current = level
			break
		}
	}

	var next *LoyaltyLevel
	for i := range levels {
		if levels[i].LevelNumber <= current.LevelNumber {
			continue
		}
		if next == nil || levels[i].LevelNumber < next.LevelNumber {
			candidate := levels[i]
			next = &candidate
		}
	}

	res := Resolution{Current: current, Next: next}
	if next != nil {
		res.XPToNext = max(next.MinXP-totalXP, 0)
	}
	return res, nil
}

// SortByLevelNumber orders a level table ascending in place.
func SortByLevelNumber(levels []LoyaltyLevel) {
	slices.SortStableFunc(levels, func(a, b LoyaltyLevel) int {
		return cmp.Compare(a.LevelNumber, b.LevelNumber)
	})
}
