package invoice

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lawhahq/lawha/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Numeric columns come back as text and re-enter decimal space losslessly.
const invoiceColumns = `
	i.id, COALESCE(i.number, ''), i.sellerid, i.buyerid, i.auctionid, i.status,
	i.subtotal::text, i.vatamount::text, i.total::text, i.currency,
	COALESCE(i.qr, ''), i.issuedat, i.createdat, i.updatedat`

func scanInvoice(row interface{ Scan(...any) error }) (*Invoice, error) {
	inv := &Invoice{}
	var subtotal, vatAmount, total string

	err := row.Scan(
		&inv.ID, &inv.Number, &inv.SellerID, &inv.BuyerID, &inv.AuctionID, &inv.Status,
		&subtotal, &vatAmount, &total, &inv.Currency,
		&inv.QR, &inv.IssuedAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if inv.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return nil, err
	}
	if inv.VATAmount, err = decimal.NewFromString(vatAmount); err != nil {
		return nil, err
	}
	if inv.Total, err = decimal.NewFromString(total); err != nil {
		return nil, err
	}
	return inv, nil
}

func (repository *PostgresRepository) loadItems(context context.Context, inv *Invoice) error {
	const query = `
		SELECT id, description, quantity, unitprice::text, amount::text
		FROM commerce.invoice_item
		WHERE invoiceid = $1
		ORDER BY createdat ASC`

	rows, err := repository.db.Query(context, query, inv.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	inv.Items = []LineItem{}
	for rows.Next() {
		var item LineItem
		var unitPrice, amount string
		if err := rows.Scan(&item.ID, &item.Description, &item.Quantity, &unitPrice, &amount); err != nil {
			return err
		}
		if item.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return err
		}
		if item.Amount, err = decimal.NewFromString(amount); err != nil {
			return err
		}
		inv.Items = append(inv.Items, item)
	}
	return rows.Err()
}

func (repository *PostgresRepository) List(context context.Context, f Filter, limit, offset int) ([]*Invoice, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM commerce.invoice i WHERE 1=1`, invoiceColumns)
	countQuery := `SELECT count(*) FROM commerce.invoice i WHERE 1=1`

	args := []any{}

	if f.SellerID != "" {
		args = append(args, f.SellerID)
		clause := fmt.Sprintf(" AND i.sellerid = $%d", len(args))
		query += clause
		countQuery += clause
	}
	if f.Status != "" {
		args = append(args, f.Status)
		clause := fmt.Sprintf(" AND i.status = $%d", len(args))
		query += clause
		countQuery += clause
	}

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_invoices")
	}

	query += fmt.Sprintf(" ORDER BY i.createdat DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_invoices")
	}
	defer rows.Close()

	var invoices []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_invoice")
		}
		invoices = append(invoices, inv)
	}
	rows.Close()

	for _, inv := range invoices {
		if err := repository.loadItems(context, inv); err != nil {
			return nil, 0, dberr.Wrap(err, "load_invoice_items")
		}
	}

	return invoices, total, nil
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM commerce.invoice i WHERE i.id = $1`, invoiceColumns)

	inv, err := scanInvoice(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_invoice")
	}

	if err := repository.loadItems(context, inv); err != nil {
		return nil, dberr.Wrap(err, "load_invoice_items")
	}
	return inv, nil
}

func (repository *PostgresRepository) Create(context context.Context, inv *Invoice) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_invoice")
	}
	defer func() { _ = tx.Rollback(context) }()

	const head = `
		INSERT INTO commerce.invoice (id, sellerid, buyerid, auctionid, status,
			subtotal, vatamount, total, currency, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING createdat, updatedat`

	if err := tx.QueryRow(context, head,
		inv.ID, inv.SellerID, inv.BuyerID, inv.AuctionID, inv.Status,
		inv.Subtotal, inv.VATAmount, inv.Total, inv.Currency,
	).Scan(&inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return dberr.Wrap(err, "create_invoice")
	}

	if err := insertItems(context, tx, inv); err != nil {
		return dberr.Wrap(err, "create_invoice_items")
	}

	return dberr.Wrap(tx.Commit(context), "commit_create_invoice")
}

func (repository *PostgresRepository) Update(context context.Context, inv *Invoice) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_update_invoice")
	}
	defer func() { _ = tx.Rollback(context) }()

	const head = `
		UPDATE commerce.invoice
		SET buyerid = $2, auctionid = $3, subtotal = $4, vatamount = $5, total = $6, updatedat = NOW()
		WHERE id = $1 AND status = 'draft'
		RETURNING updatedat`

	if err := tx.QueryRow(context, head,
		inv.ID, inv.BuyerID, inv.AuctionID, inv.Subtotal, inv.VATAmount, inv.Total,
	).Scan(&inv.UpdatedAt); err != nil {
		return dberr.Wrap(err, "update_invoice")
	}

	if _, err := tx.Exec(context,
		`DELETE FROM commerce.invoice_item WHERE invoiceid = $1`, inv.ID,
	); err != nil {
		return dberr.Wrap(err, "clear_invoice_items")
	}

	if err := insertItems(context, tx, inv); err != nil {
		return dberr.Wrap(err, "update_invoice_items")
	}

	return dberr.Wrap(tx.Commit(context), "commit_update_invoice")
}

func (repository *PostgresRepository) Issue(context context.Context, inv *Invoice) error {
	const query = `
		UPDATE commerce.invoice
		SET status = 'issued', issuedat = $2, qr = $3,
			number = 'INV-' || to_char($2::timestamptz, 'YYYY') || '-' ||
				lpad(nextval('commerce.invoice_number_seq')::text, 6, '0'),
			updatedat = NOW()
		WHERE id = $1 AND status = 'draft'
		RETURNING number, updatedat`

	err := repository.db.QueryRow(context, query, inv.ID, inv.IssuedAt, inv.QR).
		Scan(&inv.Number, &inv.UpdatedAt)
	return dberr.Wrap(err, "issue_invoice")
}

func (repository *PostgresRepository) SetStatus(context context.Context, id string, status Status) error {
	const query = `UPDATE commerce.invoice SET status = $2, updatedat = NOW() WHERE id = $1`

	cmd, err := repository.db.Exec(context, query, id, status)
	if err != nil {
		return dberr.Wrap(err, "set_invoice_status")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = `DELETE FROM commerce.invoice WHERE id = $1 AND status = 'draft'`

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_invoice")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func insertItems(context context.Context, tx pgx.Tx, inv *Invoice) error {
	const item = `
		INSERT INTO commerce.invoice_item (id, invoiceid, description, quantity, unitprice, amount, createdat)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	for _, line := range inv.Items {
		if _, err := tx.Exec(context, item,
			line.ID, inv.ID, line.Description, line.Quantity, line.UnitPrice, line.Amount,
		); err != nil {
			return err
		}
	}
	return nil
}
