package gallery

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

const galleryColumns = `
	g.id, g.ownerid, g.name, g.namear, g.slug, g.bio, g.bioar, COALESCE(g.city, ''),
	g.logourl, g.website,
	(SELECT count(*) FROM core.artist a WHERE a.galleryid = g.id AND a.deletedat IS NULL),
	g.createdat, g.updatedat`

func scanGallery(row interface{ Scan(...any) error }) (*Gallery, error) {
	g := &Gallery{}
	err := row.Scan(
		&g.ID, &g.OwnerID, &g.Name, &g.NameAr, &g.Slug, &g.Bio, &g.BioAr, &g.City,
		&g.LogoURL, &g.Website, &g.ArtistCount, &g.CreatedAt, &g.UpdatedAt,
	)
	return g, err
}

func (repository *PostgresRepository) List(context context.Context, f Filter, limit, offset int) ([]*Gallery, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM core.gallery g WHERE g.deletedat IS NULL`, galleryColumns)
	countQuery := `SELECT count(*) FROM core.gallery g WHERE g.deletedat IS NULL`

	args := []any{}

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		clause := fmt.Sprintf(" AND (g.name ILIKE $%d OR g.namear ILIKE $%d OR g.city ILIKE $%d)", len(args), len(args), len(args))
		query += clause
		countQuery += clause
	}
	if f.City != "" {
		args = append(args, f.City)
		clause := fmt.Sprintf(" AND g.city = $%d", len(args))
		query += clause
		countQuery += clause
	}

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_galleries")
	}

	query += fmt.Sprintf(" ORDER BY g.name ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_galleries")
	}
	defer rows.Close()

	var galleries []*Gallery
	for rows.Next() {
		g, err := scanGallery(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_gallery")
		}
		galleries = append(galleries, g)
	}

	return galleries, total, nil
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Gallery, error) {
	query := fmt.Sprintf(`SELECT %s FROM core.gallery g WHERE g.id = $1 AND g.deletedat IS NULL`, galleryColumns)

	g, err := scanGallery(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_gallery")
	}
	return g, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Gallery, error) {
	query := fmt.Sprintf(`SELECT %s FROM core.gallery g WHERE g.slug = $1 AND g.deletedat IS NULL`, galleryColumns)

	g, err := scanGallery(repository.db.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "get_gallery_by_slug")
	}
	return g, nil
}

func (repository *PostgresRepository) GetByOwner(context context.Context, ownerID string) (*Gallery, error) {
	query := fmt.Sprintf(`SELECT %s FROM core.gallery g WHERE g.ownerid = $1 AND g.deletedat IS NULL`, galleryColumns)

	g, err := scanGallery(repository.db.QueryRow(context, query, ownerID))
	if err != nil {
		return nil, dberr.Wrap(err, "get_gallery_by_owner")
	}
	return g, nil
}

func (repository *PostgresRepository) Create(context context.Context, g *Gallery) error {
	const query = `
		INSERT INTO core.gallery (id, ownerid, name, namear, slug, bio, bioar, city, logourl, website, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING createdat, updatedat`

	err := repository.db.QueryRow(context, query,
		g.ID, g.OwnerID, g.Name, g.NameAr, g.Slug, g.Bio, g.BioAr, g.City, g.LogoURL, g.Website,
	).Scan(&g.CreatedAt, &g.UpdatedAt)
	return dberr.Wrap(err, "create_gallery")
}

func (repository *PostgresRepository) Update(context context.Context, g *Gallery) error {
	const query = `
		UPDATE core.gallery
		SET name = $2, namear = $3, bio = $4, bioar = $5, city = $6, logourl = $7, website = $8, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL
		RETURNING updatedat`

	err := repository.db.QueryRow(context, query,
		g.ID, g.Name, g.NameAr, g.Bio, g.BioAr, g.City, g.LogoURL, g.Website,
	).Scan(&g.UpdatedAt)
	return dberr.Wrap(err, "update_gallery")
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = `UPDATE core.gallery SET deletedat = NOW() WHERE id = $1 AND deletedat IS NULL`

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_gallery")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
