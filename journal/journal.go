// Package journal persists engine notifications to Postgres so external
// indexers can consume them without subscribing to the in-process bus.
// The journal is strictly an observer: a write failure is logged and the
// event dropped, never surfaced to the operation that emitted it.
package journal

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"cosmossdk.io/log"
	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/cascade-dex/cascade/pkg/events"
)

//go:embed schema.sql
var schemaFile embed.FS

// Journal writes bus events into the engine_events table.
type Journal struct {
	db     *sql.DB
	bus    *events.Bus
	logger log.Logger
}

// Open connects to Postgres, applies the schema and returns a journal
// ready to Run.
func Open(databaseURL string, bus *events.Bus, logger log.Logger) (*Journal, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: ping database: %w", err)
	}

	j := &Journal{db: db, bus: bus, logger: logger.With("component", "journal")}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	j.logger.Info("journal connected")
	return j, nil
}

func (j *Journal) initSchema() error {
	schema, err := schemaFile.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("journal: read schema: %w", err)
	}
	if _, err := j.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("journal: apply schema: %w", err)
	}
	return nil
}

// Run consumes the bus until ctx is cancelled or the bus closes.
func (j *Journal) Run(ctx context.Context) {
	sub := j.bus.Subscribe(256)
	defer sub.Close()

	for {
		select {
		case evt, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := j.record(ctx, evt); err != nil {
				j.logger.Error("record event", "type", evt.Type, "err", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (j *Journal) record(ctx context.Context, evt events.Event) error {
	attrs, err := json.Marshal(evt.Attributes)
	if err != nil {
		return fmt.Errorf("encode attributes: %w", err)
	}
	_, err = j.db.ExecContext(ctx,
		`INSERT INTO engine_events (id, event_type, attributes, emitted_at) VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), evt.Type, attrs, evt.EmittedAt)
	return err
}

// Ping reports database reachability for health checks.
func (j *Journal) Ping(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

// Close releases the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}
