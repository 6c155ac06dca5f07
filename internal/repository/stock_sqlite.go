package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/scaffold-service/internal/domain/model"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStockRepository stores stock in a single SQLite file.
type SQLiteStockRepository struct {
	db *sql.DB
}

// NewSQLiteStockRepository opens (or creates) the database at path and
// applies pending migrations.
func NewSQLiteStockRepository(path string) (*SQLiteStockRepository, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// one writer keeps SQLite from returning SQLITE_BUSY under load
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}
	if err := migrate(db, sqliteMigrations); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStockRepository{db: db}, nil
}

// Close closes the underlying database.
func (r *SQLiteStockRepository) Close() error {
	return r.db.Close()
}

const stockColumns = `id, tenant_id, name, description, category, length, width, height, weight, quantity, created_at, updated_at`

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.StockItem, error) {
	var (
		item                          model.StockItem
		length, width, height, weight sql.NullFloat64
		createdAt, updatedAt          int64
	)
	err := row.Scan(&item.ID, &item.TenantID, &item.Name, &item.Description, &item.Category,
		&length, &width, &height, &weight, &item.Quantity, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	item.Length = nullableFloat(length)
	item.Width = nullableFloat(width)
	item.Height = nullableFloat(height)
	item.Weight = nullableFloat(weight)
	item.CreatedAt = time.Unix(0, createdAt).UTC()
	item.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &item, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func floatArg(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// Create inserts a new stock item.
func (r *SQLiteStockRepository) Create(ctx context.Context, item *model.StockItem) error {
	if item.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO stock_items (`+stockColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.TenantID, item.Name, item.Description, item.Category,
		floatArg(item.Length), floatArg(item.Width), floatArg(item.Height), floatArg(item.Weight),
		item.Quantity, item.CreatedAt.UnixNano(), item.UpdatedAt.UnixNano(),
	)
	return err
}

// GetByID returns the item or nil when it does not exist.
func (r *SQLiteStockRepository) GetByID(ctx context.Context, id string) (*model.StockItem, error) {
	return getItem(ctx, r.db, id)
}

func getItem(ctx context.Context, q queryer, id string) (*model.StockItem, error) {
	row := q.QueryRowContext(ctx, `SELECT `+stockColumns+` FROM stock_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return item, err
}

// List returns the tenant's items ordered by name.
func (r *SQLiteStockRepository) List(ctx context.Context, tenantID string) ([]model.StockItem, error) {
	where, args := tenantClause(tenantID)
	return r.query(ctx, `SELECT `+stockColumns+` FROM stock_items`+where+` ORDER BY name, id`, args...)
}

// Search filters the tenant's items.
func (r *SQLiteStockRepository) Search(ctx context.Context, tenantID string, filter model.StockFilter) ([]model.StockItem, error) {
	f := normalizeFilter(filter)
	var (
		conds []string
		args  []any
	)
	if tenantID != "" {
		conds = append(conds, "tenant_id = ?")
		args = append(args, tenantID)
	}
	if f.Query != "" {
		pattern := likePattern(f.Query)
		conds = append(conds, `(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if f.Category != "" {
		conds = append(conds, `LOWER(category) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(f.Category))
	}
	if f.MinStock != nil {
		conds = append(conds, "quantity >= ?")
		args = append(args, *f.MinStock)
	}
	if f.MaxStock != nil {
		conds = append(conds, "quantity <= ?")
		args = append(args, *f.MaxStock)
	}

	query := `SELECT ` + stockColumns + ` FROM stock_items`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name, id LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Skip)
	return r.query(ctx, query, args...)
}

func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

func tenantClause(tenantID string) (string, []any) {
	if tenantID == "" {
		return "", nil
	}
	return " WHERE tenant_id = ?", []any{tenantID}
}

func (r *SQLiteStockRepository) query(ctx context.Context, query string, args ...any) ([]model.StockItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	items := []model.StockItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// SetQuantity overwrites the quantity of an item.
func (r *SQLiteStockRepository) SetQuantity(ctx context.Context, id string, qty int) (*model.StockItem, error) {
	if qty < 0 {
		return nil, ErrNegativeQuantity
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE stock_items SET quantity = ?, updated_at = ? WHERE id = ?`,
		qty, time.Now().UTC().UnixNano(), id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrStockItemNotFound
	}
	return r.GetByID(ctx, id)
}

// AdjustQuantity adds delta to the quantity of an item.
func (r *SQLiteStockRepository) AdjustQuantity(ctx context.Context, id string, delta int) (*model.StockItem, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE stock_items SET quantity = quantity + ?, updated_at = ? WHERE id = ? AND quantity + ? >= 0`,
		delta, time.Now().UTC().UnixNano(), id, delta)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return r.GetByID(ctx, id)
	}

	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrStockItemNotFound
	}
	return nil, ErrNegativeQuantity
}

// Delete removes an item.
func (r *SQLiteStockRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stock_items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStockItemNotFound
	}
	return nil
}

// ListWithdrawals returns withdrawals, newest first.
func (r *SQLiteStockRepository) ListWithdrawals(ctx context.Context, q WithdrawalQuery) ([]model.Withdrawal, error) {
	var (
		conds []string
		args  []any
	)
	if q.TenantID != "" {
		conds = append(conds, "tenant_id = ?")
		args = append(args, q.TenantID)
	}
	if !q.Since.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, q.Since.UTC().UnixNano())
	}

	query := `SELECT id, stock_item_id, stock_item_name, tenant_id, user_id, quantity, total_weight, reason, created_at FROM withdrawals`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	out := []model.Withdrawal{}
	for rows.Next() {
		var (
			w         model.Withdrawal
			createdAt int64
		)
		if err := rows.Scan(&w.ID, &w.StockItemID, &w.StockItemName, &w.TenantID, &w.UserID,
			&w.Quantity, &w.TotalWeight, &w.Reason, &createdAt); err != nil {
			return nil, err
		}
		w.CreatedAt = time.Unix(0, createdAt).UTC()
		out = append(out, w)
	}
	return out, rows.Err()
}

// WithTx runs fn inside a SQLite transaction.
func (r *SQLiteStockRepository) WithTx(ctx context.Context, fn func(ctx context.Context, tx StockTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, &sqliteStockTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// Ping verifies the connection.
func (r *SQLiteStockRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type sqliteStockTx struct {
	tx *sql.Tx
}

func (t *sqliteStockTx) GetByID(ctx context.Context, id string) (*model.StockItem, error) {
	return getItem(ctx, t.tx, id)
}

func (t *sqliteStockTx) Decrement(ctx context.Context, id string, qty int) (bool, error) {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE stock_items SET quantity = quantity - ?, updated_at = ? WHERE id = ? AND quantity >= ?`,
		qty, time.Now().UTC().UnixNano(), id, qty)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (t *sqliteStockTx) InsertWithdrawal(ctx context.Context, w *model.Withdrawal) error {
	prepareWithdrawal(w)
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO withdrawals (id, stock_item_id, stock_item_name, tenant_id, user_id, quantity, total_weight, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.StockItemID, w.StockItemName, w.TenantID, w.UserID,
		w.Quantity, w.TotalWeight, w.Reason, w.CreatedAt.UnixNano())
	return err
}
