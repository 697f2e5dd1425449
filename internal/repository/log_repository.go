package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hos-service/internal/model"
)

var (
	// ErrDuplicateLog maps the unique (driver_id, log_date) index: a second
	// record for the same driver and day is a conflict, never a merge.
	ErrDuplicateLog = errors.New("daily log already exists for driver and date")
	// ErrUnknownDriver maps the drivers FK: the driver row is owned by the
	// fleet service and must exist before logs can be created.
	ErrUnknownDriver = errors.New("unknown driver")
)

type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

type LogFilter struct {
	DriverID *uuid.UUID
	Statuses []model.LogStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

func (r *LogRepository) Create(ctx context.Context, log *model.DailyLog) error {
	if err := r.db.WithContext(ctx).Omit("Events", "Violations", "Driver").Create(log).Error; err != nil {
		return translateConstraint(err)
	}
	return nil
}

func (r *LogRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DailyLog, error) {
	var log model.DailyLog
	err := r.db.WithContext(ctx).
		Preload("Events").
		Preload("Violations").
		Preload("Driver").
		First(&log, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *LogRepository) GetByDriverDate(ctx context.Context, driverID uuid.UUID, logDate time.Time) (*model.DailyLog, error) {
	var log model.DailyLog
	err := r.db.WithContext(ctx).
		Preload("Events").
		Preload("Violations").
		Preload("Driver").
		First(&log, "driver_id = ? AND log_date = ?", driverID, logDate.Format("2006-01-02")).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *LogRepository) List(ctx context.Context, filter LogFilter) ([]model.DailyLog, error) {
	query := r.db.WithContext(ctx).Model(&model.DailyLog{})

	if filter.DriverID != nil {
		query = query.Where("driver_id = ?", *filter.DriverID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.DateFrom != nil {
		query = query.Where("log_date >= ?", filter.DateFrom.Format("2006-01-02"))
	}
	if filter.DateTo != nil {
		query = query.Where("log_date <= ?", filter.DateTo.Format("2006-01-02"))
	}

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	// Limit < 0 means unbounded (the compliance reporter reads whole ranges).
	switch {
	case filter.Limit > 0:
		query = query.Limit(filter.Limit)
	case filter.Limit == 0:
		query = query.Limit(200)
	}

	var logs []model.DailyLog
	if err := query.
		Order("log_date DESC, created_at DESC").
		Preload("Violations").
		Preload("Driver").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// Mutate runs a read-aggregate-write cycle on one log under a row lock,
// so two concurrent writers for the same (driver_id, log_date) cannot
// interleave and drop each other's recomputed violations. The callback
// receives the log with events and violations loaded; after it returns,
// new events (zero ID) are inserted, the violation set is fully replaced,
// and the log's scalar fields are saved, all in one transaction.
func (r *LogRepository) Mutate(ctx context.Context, id uuid.UUID, fn func(log *model.DailyLog) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var log model.DailyLog
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&log, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("daily_log_id = ?", id).Order("timestamp ASC").Find(&log.Events).Error; err != nil {
			return err
		}
		if err := tx.Where("daily_log_id = ?", id).Find(&log.Violations).Error; err != nil {
			return err
		}

		if err := fn(&log); err != nil {
			return err
		}

		newEvents := make([]model.DutyStatusEvent, 0)
		for i := range log.Events {
			if log.Events[i].ID == uuid.Nil {
				log.Events[i].DailyLogID = log.ID
				newEvents = append(newEvents, log.Events[i])
			}
		}
		if len(newEvents) > 0 {
			if err := tx.Create(&newEvents).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("daily_log_id = ?", id).Delete(&model.HOSViolation{}).Error; err != nil {
			return err
		}
		if len(log.Violations) > 0 {
			for i := range log.Violations {
				log.Violations[i].DailyLogID = log.ID
			}
			if err := tx.Create(&log.Violations).Error; err != nil {
				return err
			}
		}

		return tx.Omit("Events", "Violations", "Driver").Save(&log).Error
	})
}

func (r *LogRepository) LogStatusChange(ctx context.Context, entry *model.LogStatusLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *LogRepository) GetViolation(ctx context.Context, id uuid.UUID) (*model.HOSViolation, error) {
	var violation model.HOSViolation
	if err := r.db.WithContext(ctx).First(&violation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &violation, nil
}

func (r *LogRepository) ResolveViolation(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.HOSViolation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"resolved":    true,
			"resolved_by": resolvedBy,
			"resolved_at": now,
		}).Error
}

func translateConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicateLog
		case "23503":
			return ErrUnknownDriver
		}
	}
	return err
}
