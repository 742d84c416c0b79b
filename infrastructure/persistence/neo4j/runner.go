package neo4j

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Row is one result record keyed by column name.
type Row map[string]any

// Runner executes read statements against the store.
type Runner interface {
	Run(ctx context.Context, stmt Statement) ([]Row, error)
	Ping(ctx context.Context) error
}

// SessionRunner opens one read session per call on a shared driver and runs the
// statement in a single managed read transaction.
type SessionRunner struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewSessionRunner creates a runner on an already verified driver.
func NewSessionRunner(driver neo4j.DriverWithContext, database string) *SessionRunner {
	return &SessionRunner{driver: driver, database: database}
}

func (r *SessionRunner) Run(ctx context.Context, stmt Statement) ([]Row, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: r.database,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, stmt.Cypher, stmt.Params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]Row, 0, len(records))
		for _, rec := range records {
			rows = append(rows, Row(rec.AsMap()))
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]Row), nil
}

func (r *SessionRunner) Ping(ctx context.Context) error {
	return r.driver.VerifyConnectivity(ctx)
}
