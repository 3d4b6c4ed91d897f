package sqldb

import (
	"context"
	"database/sql"

	"github.com/rovelin/investment-tracker/internal/domain"
)

// Dialect isolates the SQL that differs between backends: schema migration
// and id-returning inserts. Everything else is shared in Repository with
// placeholder rebinding.
type Dialect interface {
	Name() string
	Migrate(ctx context.Context, db *sql.DB) error
	// InsertInvestment persists a new row and fills in the server-assigned id.
	InsertInvestment(ctx context.Context, tx *sql.Tx, userID string, inv *domain.Investment) error
}
