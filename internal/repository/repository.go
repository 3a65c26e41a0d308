package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/domain"
	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/service"
)

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

func (r *Repos) InsertLookup(ctx context.Context, l *domain.Lookup) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO zone_lookups(zone, endpoint, succeeded, status_code, duration_ms, looked_up_at)
		VALUES (:zone, :endpoint, :succeeded, :status_code, :duration_ms, :looked_up_at)`, l)
	if err != nil {
		return fmt.Errorf("insert lookup: %w", err)
	}
	return nil
}

// ObserveLookup records a fetch attempt.
func (r *Repos) ObserveLookup(ctx context.Context, ev service.LookupEvent) error {
	return r.InsertLookup(ctx, &domain.Lookup{
		Zone:       ev.Zone,
		Endpoint:   ev.Endpoint,
		Succeeded:  ev.OK,
		StatusCode: ev.StatusCode,
		DurationMS: ev.Duration.Milliseconds(),
		LookedUpAt: ev.At.UTC(),
	})
}
