package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/reservaspro/reservaspro/internal/catalog/domain"
	"github.com/reservaspro/reservaspro/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const offeringColumns = `id, org_id, name, description, price, duration_minutes, xp_value, active, metadata, created_at, updated_at`

func (r *repo) Create(ctx context.Context, db *gorm.DB, offering *domain.Offering) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO offerings (`+offeringColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		offering.ID,
		offering.OrgID,
		offering.Name,
		offering.Description,
		offering.Price,
		offering.DurationMinutes,
		offering.XPValue,
		offering.Active,
		offering.Metadata,
		offering.CreatedAt,
		offering.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Offering, error) {
	var o domain.Offering
	err := db.WithContext(ctx).Raw(
		`SELECT `+offeringColumns+` FROM offerings WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Scan(&o).Error
	if err != nil {
		return nil, err
	}
	if o.ID == 0 {
		return nil, nil
	}
	return &o, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListRequest) ([]domain.Offering, error) {
	var items []domain.Offering
	stmt := db.WithContext(ctx).
		Model(&domain.Offering{}).
		Where("org_id = ?", orgID)

	if filter.Name != "" {
		stmt = stmt.Where("name = ?", filter.Name)
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}

	stmt = option.WithSortBy(filter.SortBy, filter.OrderBy, map[string]bool{
		"created_at": true,
		"name":       true,
		"price":      true,
	}).Apply(stmt)

	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, offering *domain.Offering) error {
	if offering == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE offerings
		 SET name = ?, description = ?, price = ?, duration_minutes = ?, xp_value = ?, active = ?, metadata = ?, updated_at = ?
		 WHERE org_id = ? AND id = ?`,
		offering.Name,
		offering.Description,
		offering.Price,
		offering.DurationMinutes,
		offering.XPValue,
		offering.Active,
		offering.Metadata,
		offering.UpdatedAt,
		offering.OrgID,
		offering.ID,
	).Error
}
