package sync

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nordhaul/pickup-coordinator/internal/audit"
	"github.com/nordhaul/pickup-coordinator/internal/cache"
	domain "github.com/nordhaul/pickup-coordinator/internal/domain/pickup"
	"github.com/nordhaul/pickup-coordinator/internal/httperr"
	"github.com/nordhaul/pickup-coordinator/internal/ingestion"
	"github.com/nordhaul/pickup-coordinator/internal/models"
	"github.com/nordhaul/pickup-coordinator/internal/outlook"
	"github.com/nordhaul/pickup-coordinator/internal/timezone"
)

const DefaultWindowDays = 30

type Result struct {
	Synced int      `json:"synced"`
	Errors []string `json:"errors"`
}

// SyncCalendar pulls the scheduling calendar and upserts one pickup per
// parseable event, keyed by the event id. One bad event never stops the
// batch.
type SyncCalendar struct {
	repo  domain.Repository
	feed  outlook.Feed
	cache *cache.Cache
	audit *audit.Dispatcher
}

func NewSyncCalendar(
	repo domain.Repository,
	feed outlook.Feed,
	cache *cache.Cache,
	audit *audit.Dispatcher,
) *SyncCalendar {
	return &SyncCalendar{
		repo:  repo,
		feed:  feed,
		cache: cache,
		audit: audit,
	}
}

func (uc *SyncCalendar) Execute(
	ctx context.Context,
	windowDays int,
) (*Result, error) {

	if uc.feed == nil {
		return nil, httperr.ErrBusiness("calendar_not_configured")
	}
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	start, _ := timezone.TodayWindow()
	end := start.AddDate(0, 0, windowDays+1)

	events, err := uc.feed.Events(ctx, start, end)
	if err != nil {
		return nil, err
	}

	result := &Result{Errors: []string{}}

	for _, ev := range events {
		candidate, ok := ingestion.ParseEvent(ev)
		if !ok {
			result.Errors = append(result.Errors,
				fmt.Sprintf("event %q has no start date", ev.Subject))
			continue
		}
		if candidate == nil {
			// unparsable content is a skip, not a failure
			logrus.WithField("subject", ev.Subject).
				Debug("calendar event not a pickup, skipped")
			continue
		}

		create := &models.Pickup{
			ReferenceNumber:  candidate.ReferenceNumber,
			Company:          candidate.Company,
			ScheduledDate:    candidate.ScheduledDate,
			GoodsDescription: candidate.GoodsDescription,
			Status:           string(domain.InitialStatus()),
		}
		update := domain.ProvenanceUpdate{
			Company:          candidate.Company,
			ScheduledDate:    candidate.ScheduledDate,
			GoodsDescription: candidate.GoodsDescription,
		}

		if err := uc.repo.UpsertByProvenance(ctx, ev.ID, create, update); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("failed to sync event %q: %v", ev.Subject, err))
			continue
		}
		result.Synced++
	}

	uc.cache.SetLastSync(ctx, timezone.Now())

	uc.audit.Dispatch(audit.Event{
		Action: audit.ActionCalendarSynced,
		Entity: "calendar",
		Metadata: map[string]any{
			"synced": result.Synced,
			"errors": len(result.Errors),
		},
	})

	logrus.WithFields(logrus.Fields{
		"synced": result.Synced,
		"errors": len(result.Errors),
	}).Info("calendar sync finished")

	return result, nil
}
