package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/reservaspro/reservaspro/internal/clientprofile/domain"
	"github.com/reservaspro/reservaspro/pkg/db/option"
	"github.com/reservaspro/reservaspro/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const profileColumns = `id, org_id, email, name, phone, total_xp, current_level, level_name, total_visits, total_spent, last_visit, version, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, profile *domain.ClientProfile) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO client_profiles (`+profileColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.ID,
		profile.OrgID,
		profile.Email,
		profile.Name,
		profile.Phone,
		profile.TotalXP,
		profile.CurrentLevel,
		profile.LevelName,
		profile.TotalVisits,
		profile.TotalSpent,
		profile.LastVisit,
		profile.Version,
		profile.CreatedAt,
		profile.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.ClientProfile, error) {
	var profile domain.ClientProfile
	err := db.WithContext(ctx).Raw(
		`SELECT `+profileColumns+` FROM client_profiles WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Scan(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == 0 {
		return nil, nil
	}
	return &profile, nil
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, orgID snowflake.ID, email string) (*domain.ClientProfile, error) {
	var profile domain.ClientProfile
	err := db.WithContext(ctx).Raw(
		`SELECT `+profileColumns+` FROM client_profiles WHERE org_id = ? AND email = ?`,
		orgID,
		email,
	).Scan(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == 0 {
		return nil, nil
	}
	return &profile, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListFilter, page pagination.Pagination) ([]*domain.ClientProfile, error) {
	var profiles []*domain.ClientProfile
	stmt := db.WithContext(ctx).
		Model(&domain.ClientProfile{}).
		Where("org_id = ?", orgID)
	if filter.Email != "" {
		stmt = stmt.Where("email = ?", filter.Email)
	}
	if filter.Level > 0 {
		stmt = stmt.Where("current_level = ?", filter.Level)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *repo) UpdateContact(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, name, phone string, now time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE client_profiles SET name = ?, phone = ?, updated_at = ?
		 WHERE org_id = ? AND id = ?`,
		name,
		phone,
		now,
		orgID,
		id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) ApplyProgress(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, expectedVersion int64, p domain.Progress) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE client_profiles
		 SET total_xp = ?, current_level = ?, level_name = ?, total_visits = ?, total_spent = ?,
		     last_visit = ?, version = version + 1, updated_at = ?
		 WHERE org_id = ? AND id = ? AND version = ?`,
		p.TotalXP,
		p.CurrentLevel,
		p.LevelName,
		p.TotalVisits,
		p.TotalSpent,
		p.LastVisit,
		p.LastVisit,
		orgID,
		id,
		expectedVersion,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
