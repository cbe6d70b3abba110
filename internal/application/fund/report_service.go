package fund

import (
	"context"

	"github.com/google/uuid"
	appaudit "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/fund"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// ReportService handles fund performance reports
type ReportService struct {
	reportRepo fund.ReportRepository
	fundRepo   fund.Repository
	authorizer *authorization.Authorizer
	recorder   *appaudit.Recorder
	uow        shared.UnitOfWork
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo fund.ReportRepository, fundRepo fund.Repository, authorizer *authorization.Authorizer, recorder *appaudit.Recorder, uow shared.UnitOfWork) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		fundRepo:   fundRepo,
		authorizer: authorizer,
		recorder:   recorder,
		uow:        uow,
	}
}

// Create adds a performance report to a fund
func (s *ReportService) Create(ctx context.Context, actor authz.Actor, fundID uuid.UUID, req CreateReportRequest) (*ReportResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindFundReport}); err != nil {
		return nil, err
	}
	f, err := s.fundRepo.FindByID(ctx, fundID)
	if err != nil {
		return nil, err
	}

	report, err := fund.NewFundReport(f.ID, req.ValutaDate, req.IRR, req.TVPI, req.DPI, req.RVPI)
	if err != nil {
		return nil, err
	}
	report.Description = req.Description

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.reportRepo.Save(ctx, report); err != nil {
			return err
		}
		return s.recorder.Created(ctx, "FundReport", report.ID, actorID(actor), reportSnapshot(report), fundParent(f.ID))
	})
	if err != nil {
		return nil, err
	}

	response := ToReportResponse(report)
	return &response, nil
}

// ListByFund returns a fund's reports
func (s *ReportService) ListByFund(ctx context.Context, actor authz.Actor, fundID uuid.UUID, filter shared.Filter) ([]ReportResponse, int64, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindFundReport}); err != nil {
		return nil, 0, err
	}
	reports, total, err := s.reportRepo.FindByFund(ctx, fundID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToReportResponses(reports), total, nil
}

// Delete removes a fund report
func (s *ReportService) Delete(ctx context.Context, actor authz.Actor, reportID uuid.UUID) error {
	if err := s.authorizer.Ensure(actor, authz.ActionDestroy, authz.Resource{Kind: authz.KindFundReport, ID: reportID}); err != nil {
		return err
	}
	report, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		return err
	}
	return s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.reportRepo.Delete(ctx, reportID); err != nil {
			return err
		}
		return s.recorder.Destroyed(ctx, "FundReport", report.ID, actorID(actor), reportSnapshot(report), fundParent(report.FundID))
	})
}

func reportSnapshot(r *fund.FundReport) audit.Snapshot {
	return audit.Snapshot{
		"fund_id":     r.FundID.String(),
		"valuta_date": r.ValutaDate,
		"description": r.Description,
		"irr":         r.IRR.String(),
		"tvpi":        r.TVPI.String(),
		"dpi":         r.DPI.String(),
		"rvpi":        r.RVPI.String(),
	}
}
