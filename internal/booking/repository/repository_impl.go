package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/reservaspro/reservaspro/internal/booking/domain"
	"github.com/reservaspro/reservaspro/pkg/db/option"
	"github.com/reservaspro/reservaspro/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const bookingColumns = `id, org_id, offering_id, professional_id, client_profile_id, client_name, client_email, client_phone,
	starts_at, ends_at, price, status, notes, metadata, completed_at, cancelled_at, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, b *domain.Booking) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO bookings (`+bookingColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.OrgID,
		b.OfferingID,
		b.ProfessionalID,
		b.ClientProfileID,
		b.ClientName,
		b.ClientEmail,
		b.ClientPhone,
		b.StartsAt,
		b.EndsAt,
		b.Price,
		b.Status,
		b.Notes,
		b.Metadata,
		b.CompletedAt,
		b.CancelledAt,
		b.CreatedAt,
		b.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Booking, error) {
	return r.find(ctx, db, orgID, id, false)
}

func (r *repo) FindForUpdate(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, lock bool) (*domain.Booking, error) {
	return r.find(ctx, db, orgID, id, lock)
}

func (r *repo) find(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, lock bool) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE org_id = ? AND id = ?`
	if lock {
		query += ` FOR UPDATE`
	}

	var b domain.Booking
	if err := db.WithContext(ctx).Raw(query, orgID, id).Scan(&b).Error; err != nil {
		return nil, err
	}
	if b.ID == 0 {
		return nil, nil
	}
	return &b, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Booking, error) {
	var items []*domain.Booking
	stmt := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("org_id = ?", orgID)

	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.ProfessionalID != 0 {
		stmt = stmt.Where("professional_id = ?", filter.ProfessionalID)
	}
	if filter.ClientProfileID != 0 {
		stmt = stmt.Where("client_profile_id = ?", filter.ClientProfileID)
	}
	if filter.From != nil {
		stmt = stmt.Where("starts_at >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("starts_at < ?", *filter.To)
	}

	stmt = option.ApplyPagination(page).Apply(stmt)
	if err := stmt.Order("created_at desc, id desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) CountOverlapping(ctx context.Context, db *gorm.DB, orgID, professionalID snowflake.ID, start, end time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM bookings
		 WHERE org_id = ? AND professional_id = ? AND status IN ?
		   AND starts_at < ? AND ends_at > ?`,
		orgID,
		professionalID,
		domain.OpenStatuses(),
		end,
		start,
	).Scan(&count).Error
	return count, err
}

func (r *repo) TransitionStatus(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, from, to domain.Status, now time.Time) (bool, error) {
	var completedAt, cancelledAt *time.Time
	switch to {
	case domain.StatusCompleted:
		completedAt = &now
	case domain.StatusCancelled:
		cancelledAt = &now
	}

	res := db.WithContext(ctx).Exec(
		`UPDATE bookings
		 SET status = ?, completed_at = COALESCE(?, completed_at), cancelled_at = COALESCE(?, cancelled_at), updated_at = ?
		 WHERE org_id = ? AND id = ? AND status = ?`,
		to,
		completedAt,
		cancelledAt,
		now,
		orgID,
		id,
		from,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
