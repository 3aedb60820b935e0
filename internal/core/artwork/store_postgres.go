package artwork

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

const artworkColumns = `
	w.id, w.artistid, w.ownerid, w.title, w.titlear, w.slug, w.description, w.descriptionar,
	COALESCE(w.medium, ''), COALESCE(w.year, 0), COALESCE(w.widthcm, 0), COALESCE(w.heightcm, 0),
	w.price, w.currency, w.status, w.imageurl, w.createdat, w.updatedat`

func scanArtwork(row interface{ Scan(...any) error }) (*Artwork, error) {
	w := &Artwork{}
	err := row.Scan(
		&w.ID, &w.ArtistID, &w.OwnerID, &w.Title, &w.TitleAr, &w.Slug, &w.Description, &w.DescriptionAr,
		&w.Medium, &w.Year, &w.WidthCM, &w.HeightCM,
		&w.Price, &w.Currency, &w.Status, &w.ImageURL, &w.CreatedAt, &w.UpdatedAt,
	)
	return w, err
}

func (repository *PostgresRepository) List(context context.Context, f Filter, limit, offset int) ([]*Artwork, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM core.artwork w WHERE w.deletedat IS NULL`, artworkColumns)
	countQuery := `SELECT count(*) FROM core.artwork w WHERE w.deletedat IS NULL`

	args := []any{}

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		clause := fmt.Sprintf(" AND (w.title ILIKE $%d OR w.titlear ILIKE $%d)", len(args), len(args))
		query += clause
		countQuery += clause
	}
	if f.ArtistID != "" {
		args = append(args, f.ArtistID)
		clause := fmt.Sprintf(" AND w.artistid = $%d", len(args))
		query += clause
		countQuery += clause
	}
	if f.Status != "" {
		args = append(args, f.Status)
		clause := fmt.Sprintf(" AND w.status = $%d", len(args))
		query += clause
		countQuery += clause
	}

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_artworks")
	}

	query += fmt.Sprintf(" ORDER BY w.createdat DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_artworks")
	}
	defer rows.Close()

	var artworks []*Artwork
	for rows.Next() {
		w, err := scanArtwork(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_artwork")
		}
		artworks = append(artworks, w)
	}

	return artworks, total, nil
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Artwork, error) {
	query := fmt.Sprintf(`SELECT %s FROM core.artwork w WHERE w.id = $1 AND w.deletedat IS NULL`, artworkColumns)

	w, err := scanArtwork(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_artwork")
	}
	return w, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Artwork, error) {
	query := fmt.Sprintf(`SELECT %s FROM core.artwork w WHERE w.slug = $1 AND w.deletedat IS NULL`, artworkColumns)

	w, err := scanArtwork(repository.db.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "get_artwork_by_slug")
	}
	return w, nil
}

func (repository *PostgresRepository) Create(context context.Context, w *Artwork) error {
	const query = `
		INSERT INTO core.artwork (id, artistid, ownerid, title, titlear, slug, description, descriptionar,
			medium, year, widthcm, heightcm, price, currency, status, imageurl, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING createdat, updatedat`

	err := repository.db.QueryRow(context, query,
		w.ID, w.ArtistID, w.OwnerID, w.Title, w.TitleAr, w.Slug, w.Description, w.DescriptionAr,
		w.Medium, w.Year, w.WidthCM, w.HeightCM, w.Price, w.Currency, w.Status, w.ImageURL,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	return dberr.Wrap(err, "create_artwork")
}

func (repository *PostgresRepository) Update(context context.Context, w *Artwork) error {
	const query = `
		UPDATE core.artwork
		SET title = $2, titlear = $3, description = $4, descriptionar = $5, medium = $6, year = $7,
			widthcm = $8, heightcm = $9, price = $10, status = $11, imageurl = $12, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL
		RETURNING updatedat`

	err := repository.db.QueryRow(context, query,
		w.ID, w.Title, w.TitleAr, w.Description, w.DescriptionAr, w.Medium, w.Year,
		w.WidthCM, w.HeightCM, w.Price, w.Status, w.ImageURL,
	).Scan(&w.UpdatedAt)
	return dberr.Wrap(err, "update_artwork")
}

func (repository *PostgresRepository) SetStatus(context context.Context, id string, status Status) error {
	const query = `UPDATE core.artwork SET status = $2, updatedat = NOW() WHERE id = $1 AND deletedat IS NULL`

	cmd, err := repository.db.Exec(context, query, id, status)
	if err != nil {
		return dberr.Wrap(err, "set_artwork_status")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = `UPDATE core.artwork SET deletedat = NOW() WHERE id = $1 AND deletedat IS NULL`

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_artwork")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
