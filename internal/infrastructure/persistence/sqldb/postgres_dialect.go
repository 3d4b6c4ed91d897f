package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"
	"github.com/rovelin/investment-tracker/internal/domain"
	"github.com/rovelin/investment-tracker/internal/infrastructure/persistence/sqldb/migrations"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.PostgresFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "postgres"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

func (d *PostgresDialect) InsertInvestment(ctx context.Context, tx *sql.Tx, userID string, inv *domain.Investment) error {
	query := `
		INSERT INTO investments
			(type, token_id, symbol, name, quantity, purchase_price, purchase_price_currency, purchase_date, transaction_fee, transaction_fee_currency, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	var id int64
	err := tx.QueryRowContext(ctx, query,
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
	).Scan(&id)
	if err != nil {
		return err
	}

	inv.ID = strconv.FormatInt(id, 10)
	return nil
}

func nullableFee(inv *domain.Investment) interface{} {
	if inv.TransactionFee == nil {
		return nil
	}
	return *inv.TransactionFee
}

func nullableFeeCurrency(inv *domain.Investment) interface{} {
	if inv.TransactionFeeCurrency == "" {
		return nil
	}
	return inv.TransactionFeeCurrency
}
