package event

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lawhahq/lawha/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const eventColumns = `
	e.id, e.ownerid, e.title, e.titlear, e.description, e.descriptionar,
	COALESCE(e.venue, ''), COALESCE(e.city, ''), e.startsat, e.endsat, e.imageurl,
	e.createdat, e.updatedat`

func scanEvent(row interface{ Scan(...any) error }) (*Event, error) {
	e := &Event{}
	err := row.Scan(
		&e.ID, &e.OwnerID, &e.Title, &e.TitleAr, &e.Description, &e.DescriptionAr,
		&e.Venue, &e.City, &e.StartsAt, &e.EndsAt, &e.ImageURL,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (repository *PostgresRepository) List(context context.Context, f Filter, limit, offset int) ([]*Event, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM core.event e WHERE e.deletedat IS NULL`, eventColumns)
	countQuery := `SELECT count(*) FROM core.event e WHERE e.deletedat IS NULL`

	args := []any{}

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		clause := fmt.Sprintf(" AND (e.title ILIKE $%d OR e.titlear ILIKE $%d)", len(args), len(args))
		query += clause
		countQuery += clause
	}
	if f.City != "" {
		args = append(args, f.City)
		clause := fmt.Sprintf(" AND e.city = $%d", len(args))
		query += clause
		countQuery += clause
	}
	if f.Upcoming {
		clause := " AND e.endsat > NOW()"
		query += clause
		countQuery += clause
	}

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_events")
	}

	query += fmt.Sprintf(" ORDER BY e.startsat ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_events")
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_event")
		}
		events = append(events, e)
	}

	return events, total, nil
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM core.event e WHERE e.id = $1 AND e.deletedat IS NULL`, eventColumns)

	e, err := scanEvent(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_event")
	}
	return e, nil
}

func (repository *PostgresRepository) Create(context context.Context, e *Event) error {
	const query = `
		INSERT INTO core.event (id, ownerid, title, titlear, description, descriptionar,
			venue, city, startsat, endsat, imageurl, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING createdat, updatedat`

	err := repository.db.QueryRow(context, query,
		e.ID, e.OwnerID, e.Title, e.TitleAr, e.Description, e.DescriptionAr,
		e.Venue, e.City, e.StartsAt, e.EndsAt, e.ImageURL,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	return dberr.Wrap(err, "create_event")
}

func (repository *PostgresRepository) Update(context context.Context, e *Event) error {
	const query = `
		UPDATE core.event
		SET title = $2, titlear = $3, description = $4, descriptionar = $5, venue = $6,
			city = $7, startsat = $8, endsat = $9, imageurl = $10, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL
		RETURNING updatedat`

	err := repository.db.QueryRow(context, query,
		e.ID, e.Title, e.TitleAr, e.Description, e.DescriptionAr, e.Venue,
		e.City, e.StartsAt, e.EndsAt, e.ImageURL,
	).Scan(&e.UpdatedAt)
	return dberr.Wrap(err, "update_event")
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = `UPDATE core.event SET deletedat = NOW() WHERE id = $1 AND deletedat IS NULL`

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_event")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
