package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/themegallery/internal/gallery"
)

const (
	catalogRefreshJobName  = "gallery_catalog_refresh"
	defaultRefreshDeadline = time.Minute
)

// Reloader re-fetches the gallery listing.
type Reloader interface {
	Reload(ctx context.Context) error
}

// RegisterCatalogRefreshJob reloads the gallery listing on cronExpr. An empty
// expression disables the job.
func RegisterCatalogRefreshJob(reloader Reloader, cronExpr string, timeout time.Duration) error {
	if reloader == nil {
		return fmt.Errorf("catalog refresh job requires a reloader")
	}
	jobLogger := log.With().
		Str("component", "catalog_refresh_job").
		Str("job_name", catalogRefreshJobName).
		Str("cron", cronExpr).
		Logger()

	if strings.TrimSpace(cronExpr) == "" {
		jobLogger.Info().Msg("Catalog refresh job disabled")
		return nil
	}
	if timeout <= 0 {
		timeout = defaultRefreshDeadline
	}

	_, err := AddJob(catalogRefreshJobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		refreshCatalog(jobLogger.WithContext(ctx), reloader, &jobLogger)
	}, gocron.WithSingletonMode(gocron.LimitModeReschedule))
	if err != nil {
		return fmt.Errorf("add catalog refresh job: %w", err)
	}

	jobLogger.Info().Msg("Catalog refresh job registered")
	return nil
}

func refreshCatalog(ctx context.Context, reloader Reloader, logger *zerolog.Logger) {
	err := reloader.Reload(ctx)
	switch {
	case err == nil:
		logger.Debug().Msg("Catalog refreshed")
	case errors.Is(err, gallery.ErrStale):
		logger.Debug().Msg("Catalog refresh superseded by a newer reload")
	default:
		logger.Error().Err(err).Msg("Catalog refresh failed")
	}
}
