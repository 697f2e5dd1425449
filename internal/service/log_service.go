package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hos-service/internal/hos"
	"hos-service/internal/model"
	"hos-service/internal/repository"
)

// LogStore is the persistence surface the services need. Implemented by
// repository.LogRepository; tests supply in-memory fakes.
type LogStore interface {
	Create(ctx context.Context, log *model.DailyLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.DailyLog, error)
	GetByDriverDate(ctx context.Context, driverID uuid.UUID, logDate time.Time) (*model.DailyLog, error)
	List(ctx context.Context, filter repository.LogFilter) ([]model.DailyLog, error)
	Mutate(ctx context.Context, id uuid.UUID, fn func(log *model.DailyLog) error) error
	LogStatusChange(ctx context.Context, entry *model.LogStatusLog) error
	GetViolation(ctx context.Context, id uuid.UUID) (*model.HOSViolation, error)
	ResolveViolation(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID) error
}

// EventSource pulls a day's raw duty-status events from the ELD provider.
type EventSource interface {
	FetchEvents(ctx context.Context, driverID uuid.UUID, date time.Time) ([]model.DutyStatusEvent, error)
}

type LogService struct {
	store LogStore
	eld   EventSource
}

func NewLogService(store LogStore, eldSource EventSource) *LogService {
	return &LogService{store: store, eld: eldSource}
}

type CreateLogInput struct {
	DriverID         uuid.UUID
	LogDate          time.Time
	StartOdometer    *float64
	EndOdometer      *float64
	StartEngineHours *float64
	EndEngineHours   *float64
}

// Create makes an empty DRAFT log for a driver and day. A second log for
// the same (driver, date) is a conflict, surfaced to the caller, never a
// silent merge.
func (s *LogService) Create(ctx context.Context, principal model.Principal, input CreateLogInput) (*model.DailyLogRecord, error) {
	if !principal.CanReview() && !principal.OwnsDriver(input.DriverID) {
		return nil, ErrPermissionDenied
	}

	log := &model.DailyLog{
		DriverID:         input.DriverID,
		LogDate:          dateOnly(input.LogDate),
		Status:           model.LogStatusDraft,
		StartOdometer:    input.StartOdometer,
		EndOdometer:      input.EndOdometer,
		StartEngineHours: input.StartEngineHours,
		EndEngineHours:   input.EndEngineHours,
	}
	hos.Recompute(log)

	if err := s.store.Create(ctx, log); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateLog):
			return nil, ErrConflict
		case errors.Is(err, repository.ErrUnknownDriver):
			return nil, ErrInvalidInput
		}
		return nil, err
	}

	if err := s.store.LogStatusChange(ctx, &model.LogStatusLog{
		DailyLogID: log.ID,
		NewStatus:  model.LogStatusDraft,
		Note:       "log created",
		ChangedBy:  &principal.UserID,
	}); err != nil {
		return nil, err
	}

	return s.record(ctx, log.ID)
}

// Ingest accepts a batch of duty-status events for one driver and day,
// creating the log on first ingestion. Every append re-runs the full
// aggregate-then-detect pipeline under the record's row lock before the
// log is persisted; the stored totals are never stale.
func (s *LogService) Ingest(ctx context.Context, principal model.Principal, batch model.DriverEventBatch) (*model.DailyLogRecord, error) {
	if !principal.CanReview() && !principal.OwnsDriver(batch.DriverID) {
		return nil, ErrPermissionDenied
	}
	if err := validateEvents(batch.Events); err != nil {
		return nil, err
	}
	return s.ingest(ctx, batch, principal.UserID)
}

// SyncFromProvider pulls a day's events from the ELD adapter and ingests
// them. The adapter owns time-zone normalization and retry policy; by the
// time events reach this method they are assumed comparable.
func (s *LogService) SyncFromProvider(ctx context.Context, principal model.Principal, driverID uuid.UUID, date time.Time) (*model.DailyLogRecord, error) {
	if !principal.CanReview() {
		return nil, ErrPermissionDenied
	}
	if s.eld == nil {
		return nil, ErrProviderUnavailable
	}

	events, err := s.eld.FetchEvents(ctx, driverID, dateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("fetch eld events: %w", err)
	}
	if err := validateEvents(events); err != nil {
		return nil, err
	}

	return s.ingest(ctx, model.DriverEventBatch{
		DriverID: driverID,
		LogDate:  dateOnly(date),
		Events:   events,
	}, principal.UserID)
}

func (s *LogService) ingest(ctx context.Context, batch model.DriverEventBatch, changedBy uuid.UUID) (*model.DailyLogRecord, error) {
	logDate := dateOnly(batch.LogDate)

	log, err := s.store.GetByDriverDate(ctx, batch.DriverID, logDate)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log = &model.DailyLog{
			DriverID: batch.DriverID,
			LogDate:  logDate,
			Status:   model.LogStatusDraft,
		}
		createErr := s.store.Create(ctx, log)
		switch {
		case createErr == nil:
			if err := s.store.LogStatusChange(ctx, &model.LogStatusLog{
				DailyLogID: log.ID,
				NewStatus:  model.LogStatusDraft,
				Note:       "log created on first ingestion",
				ChangedBy:  &changedBy,
			}); err != nil {
				return nil, err
			}
		case errors.Is(createErr, repository.ErrDuplicateLog):
			// Lost the create race; the existing record wins.
			log, err = s.store.GetByDriverDate(ctx, batch.DriverID, logDate)
			if err != nil {
				return nil, err
			}
		case errors.Is(createErr, repository.ErrUnknownDriver):
			return nil, ErrInvalidInput
		default:
			return nil, createErr
		}
	} else if err != nil {
		return nil, err
	}

	mutateErr := s.store.Mutate(ctx, log.ID, func(current *model.DailyLog) error {
		if current.Status != model.LogStatusDraft {
			return ErrInvalidStatus
		}
		for _, ev := range batch.Events {
			ev.ID = uuid.Nil
			ev.DailyLogID = current.ID
			current.Events = append(current.Events, ev)
		}
		hos.Recompute(current)
		return nil
	})
	if mutateErr != nil {
		return nil, mutateErr
	}

	return s.record(ctx, log.ID)
}

func (s *LogService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.DailyLogRecord, error) {
	log, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !principal.CanReview() && !principal.OwnsDriver(log.DriverID) {
		return nil, ErrPermissionDenied
	}
	return buildRecord(log), nil
}

type ListLogsOptions struct {
	DriverID *uuid.UUID
	Statuses []model.LogStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

func (s *LogService) List(ctx context.Context, principal model.Principal, opts ListLogsOptions) ([]model.DailyLogRecord, error) {
	filter := repository.LogFilter{
		DriverID: opts.DriverID,
		Statuses: opts.Statuses,
		DateFrom: opts.DateFrom,
		DateTo:   opts.DateTo,
		Limit:    opts.Limit,
		Offset:   opts.Offset,
	}

	if principal.IsDriver() {
		if principal.DriverID == nil {
			return nil, ErrPermissionDenied
		}
		filter.DriverID = principal.DriverID
	}

	logs, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	records := make([]model.DailyLogRecord, 0, len(logs))
	for i := range logs {
		records = append(records, *buildRecord(&logs[i]))
	}
	return records, nil
}

// Submit closes the day: DRAFT moves to SUBMITTED, and a log carrying
// violations is immediately routed to REQUIRES_REVIEW so it cannot be
// auto-approved. Both transitions land in the audit trail.
func (s *LogService) Submit(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	var requiresReview bool
	err := s.mutateWorkflow(ctx, principal, id, func(log *model.DailyLog) error {
		if !principal.CanReview() && !principal.OwnsDriver(log.DriverID) {
			return ErrPermissionDenied
		}
		if log.Status != model.LogStatusDraft {
			return ErrInvalidStatus
		}
		if log.HasViolations {
			requiresReview = true
			log.Status = model.LogStatusRequiresReview
		} else {
			log.Status = model.LogStatusSubmitted
		}
		return nil
	})
	if err != nil {
		return err
	}

	old := model.LogStatusDraft
	if err := s.store.LogStatusChange(ctx, &model.LogStatusLog{
		DailyLogID: id,
		OldStatus:  &old,
		NewStatus:  model.LogStatusSubmitted,
		Note:       "log submitted",
		ChangedBy:  &principal.UserID,
	}); err != nil {
		return err
	}
	if requiresReview {
		submitted := model.LogStatusSubmitted
		return s.store.LogStatusChange(ctx, &model.LogStatusLog{
			DailyLogID: id,
			OldStatus:  &submitted,
			NewStatus:  model.LogStatusRequiresReview,
			Note:       "violations present at submission",
			ChangedBy:  &principal.UserID,
		})
	}
	return nil
}

func (s *LogService) Approve(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.CanReview() {
		return ErrPermissionDenied
	}

	var old model.LogStatus
	err := s.mutateWorkflow(ctx, principal, id, func(log *model.DailyLog) error {
		if log.Status != model.LogStatusSubmitted && log.Status != model.LogStatusRequiresReview {
			return ErrInvalidStatus
		}
		old = log.Status
		now := time.Now()
		log.Status = model.LogStatusApproved
		log.ApprovedBy = &principal.UserID
		log.ApprovedAt = &now
		return nil
	})
	if err != nil {
		return err
	}

	return s.store.LogStatusChange(ctx, &model.LogStatusLog{
		DailyLogID: id,
		OldStatus:  &old,
		NewStatus:  model.LogStatusApproved,
		Note:       "log approved",
		ChangedBy:  &principal.UserID,
	})
}

// Reject requires a non-empty reason; rejecting without one is a caller
// error, not silently accepted. Violations on the log are left untouched.
func (s *LogService) Reject(ctx context.Context, principal model.Principal, id uuid.UUID, reason string) error {
	if !principal.CanReview() {
		return ErrPermissionDenied
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrInvalidInput
	}

	var old model.LogStatus
	err := s.mutateWorkflow(ctx, principal, id, func(log *model.DailyLog) error {
		if log.Status != model.LogStatusSubmitted && log.Status != model.LogStatusRequiresReview {
			return ErrInvalidStatus
		}
		old = log.Status
		log.Status = model.LogStatusRejected
		log.RejectionReason = reason
		return nil
	})
	if err != nil {
		return err
	}

	return s.store.LogStatusChange(ctx, &model.LogStatusLog{
		DailyLogID: id,
		OldStatus:  &old,
		NewStatus:  model.LogStatusRejected,
		Note:       reason,
		ChangedBy:  &principal.UserID,
	})
}

// Reopen returns a rejected log to DRAFT so the driver can correct it.
func (s *LogService) Reopen(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.CanReview() {
		return ErrPermissionDenied
	}

	err := s.mutateWorkflow(ctx, principal, id, func(log *model.DailyLog) error {
		if log.Status != model.LogStatusRejected {
			return ErrInvalidStatus
		}
		log.Status = model.LogStatusDraft
		log.RejectionReason = ""
		return nil
	})
	if err != nil {
		return err
	}

	old := model.LogStatusRejected
	return s.store.LogStatusChange(ctx, &model.LogStatusLog{
		DailyLogID: id,
		OldStatus:  &old,
		NewStatus:  model.LogStatusDraft,
		Note:       "log reopened for correction",
		ChangedBy:  &principal.UserID,
	})
}

// Certify records the driver's self-attestation of the day's log. It is
// orthogonal to reviewer approval and allowed in any state before the
// workflow reaches a terminal one; a certified log can still be rejected.
func (s *LogService) Certify(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsDriver() {
		return ErrPermissionDenied
	}

	return s.mutateWorkflow(ctx, principal, id, func(log *model.DailyLog) error {
		if !principal.OwnsDriver(log.DriverID) {
			return ErrPermissionDenied
		}
		if log.Status.Terminal() {
			return ErrInvalidStatus
		}
		now := time.Now()
		log.Certified = true
		log.CertifiedAt = &now
		log.CertifiedBy = &principal.UserID
		return nil
	})
}

// ResolveViolation marks one violation handled. The row is retained for
// audit and only drops out of open-violation counts; the next recompute of
// the event stream replaces the whole set.
func (s *LogService) ResolveViolation(ctx context.Context, principal model.Principal, violationID uuid.UUID) error {
	if !principal.CanReview() {
		return ErrPermissionDenied
	}

	violation, err := s.store.GetViolation(ctx, violationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if violation.Resolved {
		return ErrConflict
	}

	return s.store.ResolveViolation(ctx, violationID, principal.UserID)
}

func (s *LogService) mutateWorkflow(ctx context.Context, principal model.Principal, id uuid.UUID, fn func(log *model.DailyLog) error) error {
	err := s.store.Mutate(ctx, id, fn)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *LogService) record(ctx context.Context, id uuid.UUID) (*model.DailyLogRecord, error) {
	log, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildRecord(log), nil
}

func buildRecord(log *model.DailyLog) *model.DailyLogRecord {
	record := &model.DailyLogRecord{
		Log:            *log,
		OpenViolations: log.OpenViolations(),
	}
	if log.Driver != nil {
		record.Driver = &model.DriverBrief{
			ID:            log.Driver.ID,
			FullName:      log.Driver.FullName,
			LicenseNumber: log.Driver.LicenseNumber,
		}
	}
	return record
}

// validateEvents is the malformed-event gate: unknown statuses and zero
// timestamps never reach the computation core.
func validateEvents(events []model.DutyStatusEvent) error {
	for _, ev := range events {
		if _, err := model.ParseDutyStatus(string(ev.Status)); err != nil {
			return ErrInvalidInput
		}
		if ev.Timestamp.IsZero() {
			return ErrInvalidInput
		}
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
