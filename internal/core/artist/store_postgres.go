package artist

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

const artistColumns = `
	a.id, a.ownerid, a.galleryid, a.name, a.namear, a.slug, a.bio, a.bioar,
	a.imageurl, COALESCE(a.nationality, ''),
	(SELECT count(*) FROM core.artwork w WHERE w.artistid = a.id AND w.deletedat IS NULL),
	a.createdat, a.updatedat`

func scanArtist(row interface{ Scan(...any) error }) (*Artist, error) {
	a := &Artist{}
	err := row.Scan(
		&a.ID, &a.OwnerID, &a.GalleryID, &a.Name, &a.NameAr, &a.Slug, &a.Bio, &a.BioAr,
		&a.ImageURL, &a.Nationality, &a.ArtworkCount, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (repository *PostgresRepository) List(context context.Context, f Filter, limit, offset int) ([]*Artist, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM core.artist a WHERE a.deletedat IS NULL`, artistColumns)
	countQuery := `SELECT count(*) FROM core.artist a WHERE a.deletedat IS NULL`

	args := []any{}

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		clause := fmt.Sprintf(" AND (a.name ILIKE $%d OR a.namear ILIKE $%d)", len(args), len(args))
		query += clause
		countQuery += clause
	}
	if f.GalleryID != "" {
		args = append(args, f.GalleryID)
		clause := fmt.Sprintf(" AND a.galleryid = $%d", len(args))
		query += clause
		countQuery += clause
	}

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_artists")
	}

	query += fmt.Sprintf(" ORDER BY a.name ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_artists")
	}
	defer rows.Close()

	var artists []*Artist
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_artist")
		}
		artists = append(artists, a)
	}

	return artists, total, nil
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Artist, error) {
	query := fmt.Sprintf(`SELECT %s FROM core.artist a WHERE a.id = $1 AND a.deletedat IS NULL`, artistColumns)

	a, err := scanArtist(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_artist")
	}
	return a, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Artist, error) {
	query := fmt.Sprintf(`SELECT %s FROM core.artist a WHERE a.slug = $1 AND a.deletedat IS NULL`, artistColumns)

	a, err := scanArtist(repository.db.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "get_artist_by_slug")
	}
	return a, nil
}

func (repository *PostgresRepository) Create(context context.Context, a *Artist) error {
	const query = `
		INSERT INTO core.artist (id, ownerid, galleryid, name, namear, slug, bio, bioar, imageurl, nationality, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING createdat, updatedat`

	err := repository.db.QueryRow(context, query,
		a.ID, a.OwnerID, a.GalleryID, a.Name, a.NameAr, a.Slug, a.Bio, a.BioAr, a.ImageURL, a.Nationality,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return dberr.Wrap(err, "create_artist")
}

func (repository *PostgresRepository) Update(context context.Context, a *Artist) error {
	const query = `
		UPDATE core.artist
		SET name = $2, namear = $3, bio = $4, bioar = $5, imageurl = $6, nationality = $7, galleryid = $8, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL
		RETURNING updatedat`

	err := repository.db.QueryRow(context, query,
		a.ID, a.Name, a.NameAr, a.Bio, a.BioAr, a.ImageURL, a.Nationality, a.GalleryID,
	).Scan(&a.UpdatedAt)
	return dberr.Wrap(err, "update_artist")
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = `UPDATE core.artist SET deletedat = NOW() WHERE id = $1 AND deletedat IS NULL`

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_artist")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
