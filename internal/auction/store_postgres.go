package auction

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

const auctionColumns = `
	a.id, a.artworkid, a.sellerid, a.title, a.startingprice, a.reserveprice,
	a.currentbid, a.bidincrement, a.bidcount, a.currency, a.startsat, a.endsat,
	a.phase, a.winnerid,
	(SELECT count(*) FROM core.auction_watch w WHERE w.auctionid = a.id),
	a.createdat, a.updatedat`

// derivedStatus mirrors Auction.StatusAt in SQL so list filters and the
// scheduler agree with the application clock rule.
const derivedStatus = `CASE WHEN NOW() < a.startsat THEN 'upcoming' WHEN NOW() < a.endsat THEN 'live' ELSE 'ended' END`

func scanAuction(row interface{ Scan(...any) error }) (*Auction, error) {
	a := &Auction{}
	err := row.Scan(
		&a.ID, &a.ArtworkID, &a.SellerID, &a.Title, &a.StartingPrice, &a.ReservePrice,
		&a.CurrentBid, &a.BidIncrement, &a.BidCount, &a.Currency, &a.StartsAt, &a.EndsAt,
		&a.Phase, &a.WinnerID, &a.WatchCount, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (repository *PostgresRepository) List(context context.Context, f Filter, limit, offset int) ([]*Auction, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM core.auction a WHERE a.deletedat IS NULL`, auctionColumns)
	countQuery := `SELECT count(*) FROM core.auction a WHERE a.deletedat IS NULL`

	args := []any{}

	if f.Status != "" {
		args = append(args, string(f.Status))
		clause := fmt.Sprintf(" AND %s = $%d", derivedStatus, len(args))
		query += clause
		countQuery += clause
	}
	if f.ArtworkID != "" {
		args = append(args, f.ArtworkID)
		clause := fmt.Sprintf(" AND a.artworkid = $%d", len(args))
		query += clause
		countQuery += clause
	}
	if f.SellerID != "" {
		args = append(args, f.SellerID)
		clause := fmt.Sprintf(" AND a.sellerid = $%d", len(args))
		query += clause
		countQuery += clause
	}

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_auctions")
	}

	query += fmt.Sprintf(" ORDER BY a.endsat ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_auctions")
	}
	defer rows.Close()

	var auctions []*Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_auction")
		}
		auctions = append(auctions, a)
	}

	return auctions, total, nil
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Auction, error) {
	query := fmt.Sprintf(`SELECT %s FROM core.auction a WHERE a.id = $1 AND a.deletedat IS NULL`, auctionColumns)

	a, err := scanAuction(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_auction")
	}
	return a, nil
}

func (repository *PostgresRepository) Create(context context.Context, a *Auction) error {
	const query = `
		INSERT INTO core.auction (id, artworkid, sellerid, title, startingprice, reserveprice,
			currentbid, bidincrement, bidcount, currency, startsat, endsat, phase, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING createdat, updatedat`

	err := repository.db.QueryRow(context, query,
		a.ID, a.ArtworkID, a.SellerID, a.Title, a.StartingPrice, a.ReservePrice,
		a.CurrentBid, a.BidIncrement, a.BidCount, a.Currency, a.StartsAt, a.EndsAt, a.Phase,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return dberr.Wrap(err, "create_auction")
}

func (repository *PostgresRepository) Update(context context.Context, a *Auction) error {
	const query = `
		UPDATE core.auction
		SET title = $2, startingprice = $3, reserveprice = $4, bidincrement = $5,
			startsat = $6, endsat = $7, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL
		RETURNING updatedat`

	err := repository.db.QueryRow(context, query,
		a.ID, a.Title, a.StartingPrice, a.ReservePrice, a.BidIncrement, a.StartsAt, a.EndsAt,
	).Scan(&a.UpdatedAt)
	return dberr.Wrap(err, "update_auction")
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = `UPDATE core.auction SET deletedat = NOW() WHERE id = $1 AND deletedat IS NULL`

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_auction")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) PlaceBid(context context.Context, auctionID string, decide func(a *Auction) (*Bid, error)) (*Bid, error) {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "begin_place_bid")
	}
	defer func() { _ = tx.Rollback(context) }()

	// Row lock serializes every concurrent bidder on this auction.
	const lockQuery = `
		SELECT id, artworkid, sellerid, title, startingprice, reserveprice,
			currentbid, bidincrement, bidcount, currency, startsat, endsat, phase
		FROM core.auction
		WHERE id = $1 AND deletedat IS NULL
		FOR UPDATE`

	a := &Auction{}
	err = tx.QueryRow(context, lockQuery, auctionID).Scan(
		&a.ID, &a.ArtworkID, &a.SellerID, &a.Title, &a.StartingPrice, &a.ReservePrice,
		&a.CurrentBid, &a.BidIncrement, &a.BidCount, &a.Currency, &a.StartsAt, &a.EndsAt, &a.Phase,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "lock_auction")
	}

	bid, err := decide(a)
	if err != nil {
		return nil, err
	}

	const insertBid = `
		INSERT INTO core.bid (id, auctionid, bidderid, biddername, amount, iswinning, createdat)
		VALUES ($1, $2, $3, $4, $5, false, $6)`

	if _, err := tx.Exec(context, insertBid,
		bid.ID, bid.AuctionID, bid.BidderID, bid.BidderName, bid.Amount, bid.CreatedAt,
	); err != nil {
		return nil, dberr.Wrap(err, "insert_bid")
	}

	const bump = `
		UPDATE core.auction
		SET currentbid = $2, bidcount = bidcount + 1, updatedat = NOW()
		WHERE id = $1`

	if _, err := tx.Exec(context, bump, auctionID, bid.Amount); err != nil {
		return nil, dberr.Wrap(err, "bump_current_bid")
	}

	if err := tx.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "commit_place_bid")
	}
	return bid, nil
}

func (repository *PostgresRepository) ListBids(context context.Context, auctionID string, limit, offset int) ([]*Bid, int, error) {
	var total int
	if err := repository.db.QueryRow(context,
		`SELECT count(*) FROM core.bid WHERE auctionid = $1`, auctionID,
	).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_bids")
	}

	const query = `
		SELECT id, auctionid, bidderid, biddername, amount, iswinning, createdat
		FROM core.bid
		WHERE auctionid = $1
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.db.Query(context, query, auctionID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_bids")
	}
	defer rows.Close()

	var bids []*Bid
	for rows.Next() {
		bid := &Bid{}
		if err := rows.Scan(&bid.ID, &bid.AuctionID, &bid.BidderID, &bid.BidderName, &bid.Amount, &bid.IsWinning, &bid.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_bid")
		}
		bids = append(bids, bid)
	}

	return bids, total, nil
}

func (repository *PostgresRepository) HighestBid(context context.Context, auctionID string) (*Bid, error) {
	const query = `
		SELECT id, auctionid, bidderid, biddername, amount, iswinning, createdat
		FROM core.bid
		WHERE auctionid = $1
		ORDER BY amount DESC, createdat ASC
		LIMIT 1`

	bid := &Bid{}
	err := repository.db.QueryRow(context, query, auctionID).Scan(
		&bid.ID, &bid.AuctionID, &bid.BidderID, &bid.BidderName, &bid.Amount, &bid.IsWinning, &bid.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "highest_bid")
	}
	return bid, nil
}

func (repository *PostgresRepository) DueTransitions(context context.Context, now time.Time) ([]*Auction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM core.auction a
		WHERE a.deletedat IS NULL
		  AND ((a.phase = 'upcoming' AND a.startsat <= $1) OR (a.phase = 'live' AND a.endsat <= $1))
		ORDER BY a.endsat ASC`, auctionColumns)

	rows, err := repository.db.Query(context, query, now)
	if err != nil {
		return nil, dberr.Wrap(err, "due_transitions")
	}
	defer rows.Close()

	var auctions []*Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_auction")
		}
		auctions = append(auctions, a)
	}

	return auctions, nil
}

func (repository *PostgresRepository) SetPhase(context context.Context, id string, phase Status) error {
	const query = `UPDATE core.auction SET phase = $2, updatedat = NOW() WHERE id = $1 AND deletedat IS NULL`

	cmd, err := repository.db.Exec(context, query, id, phase)
	if err != nil {
		return dberr.Wrap(err, "set_auction_phase")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) SetWinner(context context.Context, auctionID string, winning *Bid) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_set_winner")
	}
	defer func() { _ = tx.Rollback(context) }()

	// Exactly one winning bid per auction after settlement.
	if _, err := tx.Exec(context,
		`UPDATE core.bid SET iswinning = false WHERE auctionid = $1`, auctionID,
	); err != nil {
		return dberr.Wrap(err, "clear_winning_bids")
	}

	if winning == nil {
		if _, err := tx.Exec(context,
			`UPDATE core.auction SET winnerid = NULL, updatedat = NOW() WHERE id = $1`, auctionID,
		); err != nil {
			return dberr.Wrap(err, "clear_winner")
		}
		return dberr.Wrap(tx.Commit(context), "commit_set_winner")
	}

	if _, err := tx.Exec(context,
		`UPDATE core.bid SET iswinning = true WHERE id = $1`, winning.ID,
	); err != nil {
		return dberr.Wrap(err, "mark_winning_bid")
	}

	if _, err := tx.Exec(context,
		`UPDATE core.auction SET winnerid = $2, updatedat = NOW() WHERE id = $1`, auctionID, winning.BidderID,
	); err != nil {
		return dberr.Wrap(err, "set_winner")
	}

	return dberr.Wrap(tx.Commit(context), "commit_set_winner")
}

func (repository *PostgresRepository) ToggleWatch(context context.Context, auctionID, userID string) (bool, error) {
	cmd, err := repository.db.Exec(context,
		`DELETE FROM core.auction_watch WHERE auctionid = $1 AND userid = $2`, auctionID, userID,
	)
	if err != nil {
		return false, dberr.Wrap(err, "unwatch_auction")
	}
	if cmd.RowsAffected() > 0 {
		return false, nil
	}

	if _, err := repository.db.Exec(context,
		`INSERT INTO core.auction_watch (auctionid, userid, createdat) VALUES ($1, $2, NOW())`, auctionID, userID,
	); err != nil {
		return false, dberr.Wrap(err, "watch_auction")
	}
	return true, nil
}
