package workshop

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lawhahq/lawha/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const workshopColumns = `
	w.id, w.ownerid, w.title, w.titlear, w.description, w.descriptionar,
	COALESCE(w.venue, ''), COALESCE(w.city, ''), w.capacity,
	(SELECT count(*) FROM core.workshop_registration r WHERE r.workshopid = w.id),
	w.price, w.currency, w.startsat, w.endsat, w.imageurl, w.createdat, w.updatedat`

func scanWorkshop(row interface{ Scan(...any) error }) (*Workshop, error) {
	w := &Workshop{}
	err := row.Scan(
		&w.ID, &w.OwnerID, &w.Title, &w.TitleAr, &w.Description, &w.DescriptionAr,
		&w.Venue, &w.City, &w.Capacity, &w.RegisteredCount,
		&w.Price, &w.Currency, &w.StartsAt, &w.EndsAt, &w.ImageURL, &w.CreatedAt, &w.UpdatedAt,
	)
	return w, err
}

func (repository *PostgresRepository) List(context context.Context, f Filter, limit, offset int) ([]*Workshop, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM core.workshop w WHERE w.deletedat IS NULL`, workshopColumns)
	countQuery := `SELECT count(*) FROM core.workshop w WHERE w.deletedat IS NULL`

	args := []any{}

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		clause := fmt.Sprintf(" AND (w.title ILIKE $%d OR w.titlear ILIKE $%d)", len(args), len(args))
		query += clause
		countQuery += clause
	}
	if f.City != "" {
		args = append(args, f.City)
		clause := fmt.Sprintf(" AND w.city = $%d", len(args))
		query += clause
		countQuery += clause
	}
	if f.Upcoming {
		clause := " AND w.endsat > NOW()"
		query += clause
		countQuery += clause
	}

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_workshops")
	}

	query += fmt.Sprintf(" ORDER BY w.startsat ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_workshops")
	}
	defer rows.Close()

	var workshops []*Workshop
	for rows.Next() {
		w, err := scanWorkshop(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_workshop")
		}
		workshops = append(workshops, w)
	}

	return workshops, total, nil
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Workshop, error) {
	query := fmt.Sprintf(`SELECT %s FROM core.workshop w WHERE w.id = $1 AND w.deletedat IS NULL`, workshopColumns)

	w, err := scanWorkshop(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_workshop")
	}
	return w, nil
}

func (repository *PostgresRepository) Create(context context.Context, w *Workshop) error {
	const query = `
		INSERT INTO core.workshop (id, ownerid, title, titlear, description, descriptionar,
			venue, city, capacity, price, currency, startsat, endsat, imageurl, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING createdat, updatedat`

	err := repository.db.QueryRow(context, query,
		w.ID, w.OwnerID, w.Title, w.TitleAr, w.Description, w.DescriptionAr,
		w.Venue, w.City, w.Capacity, w.Price, w.Currency, w.StartsAt, w.EndsAt, w.ImageURL,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	return dberr.Wrap(err, "create_workshop")
}

func (repository *PostgresRepository) Update(context context.Context, w *Workshop) error {
	const query = `
		UPDATE core.workshop
		SET title = $2, titlear = $3, description = $4, descriptionar = $5, venue = $6, city = $7,
			capacity = $8, price = $9, startsat = $10, endsat = $11, imageurl = $12, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL
		RETURNING updatedat`

	err := repository.db.QueryRow(context, query,
		w.ID, w.Title, w.TitleAr, w.Description, w.DescriptionAr, w.Venue, w.City,
		w.Capacity, w.Price, w.StartsAt, w.EndsAt, w.ImageURL,
	).Scan(&w.UpdatedAt)
	return dberr.Wrap(err, "update_workshop")
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = `UPDATE core.workshop SET deletedat = NOW() WHERE id = $1 AND deletedat IS NULL`

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_workshop")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Register(context context.Context, workshopID, userID string) (*Registration, error) {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "begin_register")
	}
	defer func() { _ = tx.Rollback(context) }()

	// Row lock serializes concurrent registrations against the capacity check.
	var capacity, registered int
	err = tx.QueryRow(context, `
		SELECT w.capacity,
			(SELECT count(*) FROM core.workshop_registration r WHERE r.workshopid = w.id)
		FROM core.workshop w
		WHERE w.id = $1 AND w.deletedat IS NULL
		FOR UPDATE`, workshopID,
	).Scan(&capacity, &registered)
	if err != nil {
		return nil, dberr.Wrap(err, "lock_workshop")
	}

	if registered >= capacity {
		return nil, ErrFull
	}

	registration := &Registration{WorkshopID: workshopID, UserID: userID, CreatedAt: time.Now().UTC()}

	if _, err := tx.Exec(context, `
		INSERT INTO core.workshop_registration (workshopid, userid, createdat)
		VALUES ($1, $2, $3)`,
		registration.WorkshopID, registration.UserID, registration.CreatedAt,
	); err != nil {
		return nil, dberr.Wrap(err, "insert_registration")
	}

	if err := tx.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "commit_register")
	}
	return registration, nil
}
