package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/rovelin/investment-tracker/internal/domain"
	"github.com/rovelin/investment-tracker/internal/infrastructure/persistence/sqldb/migrations"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string { return "oracle" }

func (d *OracleDialect) Migrate(ctx context.Context, db *sql.DB) error {
	// Goose has no Oracle dialect, so the migration script is executed
	// statement by statement, split on '/' as in standard Oracle scripts.
	content, err := migrations.OracleFS.ReadFile("oracle/20240101000000_init.sql")
	if err != nil {
		return fmt.Errorf("reading migration file: %w", err)
	}

	statements := strings.Split(string(content), "/")

	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if _, err := db.ExecContext(ctx, stmt); err != nil {
			// ORA-00955: name is already used by an existing object
			if !strings.Contains(err.Error(), "ORA-00955") {
				return fmt.Errorf("migrating: %s: %w", stmt, err)
			}
		}
	}
	return nil
}

func (d *OracleDialect) InsertInvestment(ctx context.Context, tx *sql.Tx, userID string, inv *domain.Investment) error {
	query := `
		INSERT INTO investments
			(type, token_id, symbol, name, quantity, purchase_price, purchase_price_currency, purchase_date, transaction_fee, transaction_fee_currency, user_id)
		VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11)
		RETURNING id INTO :12
	`

	var id int64
	_, err := tx.ExecContext(ctx, query,
		string(inv.AssetClass),
		inv.MarketID,
		inv.Symbol,
		inv.Name,
		inv.Quantity,
		inv.UnitPurchasePrice,
		inv.PurchaseCurrency,
		inv.PurchaseDate,
		nullableFee(inv),
		nullableFeeCurrency(inv),
		userID,
		sql.Out{Dest: &id},
	)
	if err != nil {
		return err
	}

	inv.ID = strconv.FormatInt(id, 10)
	return nil
}
