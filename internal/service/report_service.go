package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hos-service/internal/hos"
	"hos-service/internal/model"
	"hos-service/internal/repository"
)

type ReportService struct {
	store LogStore
}

func NewReportService(store LogStore) *ReportService {
	return &ReportService{store: store}
}

type ReportOptions struct {
	DriverID *uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
}

// BuildReport aggregates compliance statistics over the matching logs.
// It is a read-only pass: records being recomputed concurrently may or may
// not be visible, which is acceptable for an advisory report.
func (s *ReportService) BuildReport(ctx context.Context, principal model.Principal, opts ReportOptions) (model.ComplianceReport, error) {
	if !principal.CanReview() {
		return model.ComplianceReport{}, ErrPermissionDenied
	}

	logs, err := s.store.List(ctx, repository.LogFilter{
		DriverID: opts.DriverID,
		DateFrom: opts.DateFrom,
		DateTo:   opts.DateTo,
		Limit:    -1,
	})
	if err != nil {
		return model.ComplianceReport{}, err
	}

	return hos.BuildComplianceReport(logs), nil
}
