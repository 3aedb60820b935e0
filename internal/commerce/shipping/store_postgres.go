package shipping

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lawhahq/lawha/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) GetProfile(context context.Context, sellerID string) (*Profile, error) {
	const query = `
		SELECT sellerid, addressline, city, country, carrier, handlingdays, createdat, updatedat
		FROM commerce.shipping_profile
		WHERE sellerid = $1`

	p := &Profile{}
	err := repository.db.QueryRow(context, query, sellerID).Scan(
		&p.SellerID, &p.AddressLine, &p.City, &p.Country, &p.Carrier, &p.HandlingDays,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_shipping_profile")
	}
	return p, nil
}

func (repository *PostgresRepository) UpsertProfile(context context.Context, p *Profile) error {
	const query = `
		INSERT INTO commerce.shipping_profile (sellerid, addressline, city, country, carrier, handlingdays, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (sellerid) DO UPDATE
		SET addressline = EXCLUDED.addressline, city = EXCLUDED.city, country = EXCLUDED.country,
			carrier = EXCLUDED.carrier, handlingdays = EXCLUDED.handlingdays, updatedat = NOW()
		RETURNING createdat, updatedat`

	err := repository.db.QueryRow(context, query,
		p.SellerID, p.AddressLine, p.City, p.Country, p.Carrier, p.HandlingDays,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return dberr.Wrap(err, "upsert_shipping_profile")
}

func (repository *PostgresRepository) ListTracking(context context.Context, orderID string) ([]*TrackingEvent, error) {
	const query = `
		SELECT id, orderid, sellerid, status, COALESCE(location, ''), COALESCE(note, ''), createdat
		FROM commerce.shipping_tracking_event
		WHERE orderid = $1
		ORDER BY createdat ASC`

	rows, err := repository.db.Query(context, query, orderID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_tracking_events")
	}
	defer rows.Close()

	var events []*TrackingEvent
	for rows.Next() {
		e := &TrackingEvent{}
		if err := rows.Scan(&e.ID, &e.OrderID, &e.SellerID, &e.Status, &e.Location, &e.Note, &e.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_tracking_event")
		}
		events = append(events, e)
	}

	return events, nil
}

func (repository *PostgresRepository) AppendTracking(context context.Context, e *TrackingEvent) error {
	const query = `
		INSERT INTO commerce.shipping_tracking_event (id, orderid, sellerid, status, location, note, createdat)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING createdat`

	err := repository.db.QueryRow(context, query,
		e.ID, e.OrderID, e.SellerID, e.Status, e.Location, e.Note,
	).Scan(&e.CreatedAt)
	return dberr.Wrap(err, "append_tracking_event")
}
