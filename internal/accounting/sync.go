package accounting

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stridewms/internal"
	"stridewms/internal/config"
	"stridewms/internal/storage"
)

type SyncService struct {
	db     *storage.DB
	client *Client
	cfg    config.Config
}

func NewSyncService(db *storage.DB, cfg config.Config) *SyncService {
	return &SyncService{db: db, client: NewClient(cfg), cfg: cfg}
}

// RunOnce pushes the active rate card to the provider, pulls the provider
// status back, and records one sync_runs row either way. A failed run is
// recorded with its error, not swallowed.
func (s *SyncService) RunOnce(ctx context.Context) (internal.SyncRun, error) {
	run := internal.SyncRun{
		TraceID:   uuid.NewString(),
		Provider:  s.cfg.AccountingProvider,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}

	rates, err := s.db.ListServiceRates()
	if err != nil {
		return s.finish(run, 0, 0, err)
	}

	charges := make([]Charge, 0, len(rates))
	for _, r := range rates {
		if !r.Active {
			continue
		}
		charges = append(charges, Charge{
			ServiceCode: r.ServiceCode,
			ServiceName: r.ServiceName,
			ClassCode:   r.ClassCode,
			BillingUnit: r.BillingUnit,
			Rate:        r.Rate,
			Taxable:     r.Taxable,
		})
	}

	pushed, err := s.client.PushCharges(ctx, charges)
	if err != nil {
		return s.finish(run, 0, 0, err)
	}

	status, err := s.client.GetStatus(ctx)
	if err != nil {
		return s.finish(run, pushed, 0, err)
	}

	_ = s.db.SetMetadata("accounting.last_sync", time.Now().UTC().Format(time.RFC3339))
	if status.LastExportAt != nil {
		_ = s.db.SetMetadata("accounting.provider_last_export", *status.LastExportAt)
	}

	return s.finish(run, pushed, status.PendingInvoices, nil)
}

func (s *SyncService) finish(run internal.SyncRun, pushed, pulled int, cause error) (internal.SyncRun, error) {
	run.Pushed = pushed
	run.Pulled = pulled
	run.FinishedAt = time.Now().UTC().Format(time.RFC3339)
	if cause != nil {
		run.Status = "failed"
		msg := cause.Error()
		run.ErrorMsg = &msg
	} else {
		run.Status = "ok"
	}

	if _, err := s.db.InsertSyncRun(run); err != nil && cause == nil {
		cause = err
	}
	return run, cause
}

// Status is what the admin sync panel shows: the latest recorded run plus
// the metadata stamps.
type Status struct {
	Provider         string
	LastRun          *internal.SyncRun
	LastSyncAt       *string
	ProviderExportAt *string
}

func (s *SyncService) Status() (Status, error) {
	out := Status{Provider: s.cfg.AccountingProvider}

	run, err := s.db.LatestSyncRun(s.cfg.AccountingProvider)
	if err != nil {
		return out, err
	}
	out.LastRun = run

	if out.LastSyncAt, err = s.db.GetMetadata("accounting.last_sync"); err != nil {
		return out, err
	}
	if out.ProviderExportAt, err = s.db.GetMetadata("accounting.provider_last_export"); err != nil {
		return out, err
	}
	return out, nil
}
