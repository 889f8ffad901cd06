package db

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB / *sql.Tx the query layer needs.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// Purchase mirrors one row of the purchases table. PurchaseDate is a
// normalized YYYY-MM-DD string.
type Purchase struct {
	ID           int64
	UserID       string
	ItemName     string
	Platform     string
	Price        float64
	PurchaseDate string
}

const createPurchase = `
INSERT INTO purchases (user_id, item_name, platform, price, purchase_date)
VALUES (?, ?, ?, ?, ?)
`

type CreatePurchaseParams struct {
	UserID       string
	ItemName     string
	Platform     string
	Price        float64
	PurchaseDate string
}

// CreatePurchase inserts a record and returns the id assigned by SQLite.
// Ids are AUTOINCREMENT, so they are never reused after a delete.
func (q *Queries) CreatePurchase(ctx context.Context, arg CreatePurchaseParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createPurchase,
		arg.UserID,
		arg.ItemName,
		arg.Platform,
		arg.Price,
		arg.PurchaseDate,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const listPurchasesByUser = `
SELECT id, user_id, item_name, platform, price, purchase_date
FROM purchases
WHERE user_id = ?
ORDER BY purchase_date DESC, id DESC
`

// ListPurchasesByUser returns one owner's records ordered by purchase date
// descending. Same-day records order newest insertion first so that virtual
// index numbering is deterministic across calls.
func (q *Queries) ListPurchasesByUser(ctx context.Context, userID string) ([]Purchase, error) {
	rows, err := q.db.QueryContext(ctx, listPurchasesByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Purchase
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.ItemName, &p.Platform, &p.Price, &p.PurchaseDate); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const deletePurchase = `
DELETE FROM purchases WHERE id = ?
`

// DeletePurchase removes a record by stable id. Returns false when the id did
// not exist, which callers use to detect a concurrent delete.
func (q *Queries) DeletePurchase(ctx context.Context, id int64) (bool, error) {
	res, err := q.db.ExecContext(ctx, deletePurchase, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const countPurchases = `
SELECT COUNT(*) FROM purchases
`

func (q *Queries) CountPurchases(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPurchases).Scan(&count)
	return count, err
}

const countPurchasesByUser = `
SELECT COUNT(*) FROM purchases WHERE user_id = ?
`

func (q *Queries) CountPurchasesByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPurchasesByUser, userID).Scan(&count)
	return count, err
}

const listAllPurchases = `
SELECT id, user_id, item_name, platform, price, purchase_date
FROM purchases
ORDER BY id
`

// ListAllPurchases returns every record regardless of owner, in insertion
// order. Used by the export and backup surfaces.
func (q *Queries) ListAllPurchases(ctx context.Context) ([]Purchase, error) {
	rows, err := q.db.QueryContext(ctx, listAllPurchases)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Purchase
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.ItemName, &p.Platform, &p.Price, &p.PurchaseDate); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
