package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rovelin/investment-tracker/internal/domain"
)

const investmentColumns = `id, type, token_id, symbol, name, quantity, purchase_price, purchase_price_currency, purchase_date, transaction_fee, transaction_fee_currency`

// Repository persists investment records, scoped to the owning user. It
// implements domain.InvestmentRepository and domain.AssetLister.
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListAll(ctx context.Context, userID string) ([]domain.Investment, error) {
	query := r.rebind(`
		SELECT ` + investmentColumns + `
		FROM investments
		WHERE user_id = $1
		ORDER BY purchase_date DESC, id DESC
	`)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Error("Failed to list investments", "user_id", userID, "error", err)
		return nil, fmt.Errorf("querying investments: %w", err)
	}
	defer closeRows(rows)

	investments := []domain.Investment{}
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return investments, nil
}

func (r *Repository) FindByID(ctx context.Context, userID, id string) (*domain.Investment, error) {
	numericID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	query := r.rebind(`
		SELECT ` + investmentColumns + `
		FROM investments
		WHERE id = $1 AND user_id = $2
	`)

	rows, err := r.db.QueryContext(ctx, query, numericID, userID)
	if err != nil {
		slog.Error("Failed to find investment", "id", id, "error", err)
		return nil, fmt.Errorf("querying investment: %w", err)
	}
	defer closeRows(rows)

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, domain.ErrNotFound
	}

	inv, err := scanInvestment(rows)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *Repository) Add(ctx context.Context, userID string, inv *domain.Investment) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := r.db.Dialect.InsertInvestment(ctx, tx, userID, inv); err != nil {
			slog.Error("Failed to insert investment", "token_id", inv.MarketID, "error", err)
			return fmt.Errorf("insert investment: %w", err)
		}
		return nil
	})
}

func (r *Repository) Update(ctx context.Context, userID string, inv *domain.Investment) error {
	numericID, err := parseID(inv.ID)
	if err != nil {
		return domain.ErrNotFound
	}

	query := r.rebind(`
		UPDATE investments SET
			type = $1,
			token_id = $2,
			symbol = $3,
			name = $4,
			quantity = $5,
			purchase_price = $6,
			purchase_price_currency = $7,
			purchase_date = $8,
			transaction_fee = $9,
			transaction_fee_currency = $10
		WHERE id = $11 AND user_id = $12
	`)

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query,
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
			numericID,
			userID,
		)
		if err != nil {
			slog.Error("Failed to update investment", "id", inv.ID, "error", err)
			return fmt.Errorf("update investment: %w", err)
		}
		return requireRow(result)
	})
}

func (r *Repository) Delete(ctx context.Context, userID, id string) error {
	numericID, err := parseID(id)
	if err != nil {
		return domain.ErrNotFound
	}

	query := r.rebind("DELETE FROM investments WHERE id = $1 AND user_id = $2")

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, numericID, userID)
		if err != nil {
			return fmt.Errorf("delete investment: %w", err)
		}
		return requireRow(result)
	})
}

func (r *Repository) ClearAll(ctx context.Context, userID string) error {
	query := r.rebind("DELETE FROM investments WHERE user_id = $1")

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, userID); err != nil {
			return fmt.Errorf("clear investments: %w", err)
		}
		return nil
	})
}

// ListAssets returns the distinct priceable assets across all users.
func (r *Repository) ListAssets(ctx context.Context) ([]domain.AssetRef, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT type, token_id FROM investments")
	if err != nil {
		return nil, fmt.Errorf("querying assets: %w", err)
	}
	defer closeRows(rows)

	var assets []domain.AssetRef
	for rows.Next() {
		var class, marketID string
		if err := rows.Scan(&class, &marketID); err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}
		assets = append(assets, domain.AssetRef{Class: domain.AssetClass(class), MarketID: marketID})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}

func scanInvestment(rows *sql.Rows) (domain.Investment, error) {
	var (
		inv         domain.Investment
		id          int64
		class       string
		fee         sql.NullString
		feeCurrency sql.NullString
	)

	err := rows.Scan(
		&id, &class, &inv.MarketID, &inv.Symbol, &inv.Name,
		&inv.Quantity, &inv.UnitPurchasePrice, &inv.PurchaseCurrency, &inv.PurchaseDate,
		&fee, &feeCurrency,
	)
	if err != nil {
		return inv, fmt.Errorf("scanning investment: %w", err)
	}

	inv.ID = strconv.FormatInt(id, 10)
	inv.AssetClass = domain.AssetClass(class)
	if fee.Valid {
		parsed, err := domain.NewDecimalFromString(strings.TrimSpace(fee.String))
		if err != nil {
			return inv, fmt.Errorf("parsing transaction fee: %w", err)
		}
		inv.TransactionFee = &parsed
	}
	if feeCurrency.Valid {
		inv.TransactionFeeCurrency = feeCurrency.String
	}
	return inv, nil
}

func parseID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("Failed to close rows", "error", err)
	}
}

// rebind rewrites $n placeholders into :n for Oracle.
func (r *Repository) rebind(query string) string {
	if r.db.Dialect.Name() != "oracle" {
		return query
	}
	for i := 12; i >= 1; i-- {
		query = strings.ReplaceAll(query, fmt.Sprintf("$%d", i), fmt.Sprintf(":%d", i))
	}
	return query
}
