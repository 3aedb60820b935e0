package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lawhahq/lawha/internal/platform/dberr"
)

// Repository reads pre-aggregated dashboard rows. It is read-only;
// every write goes through the owning domain package.
type Repository interface {
	SellerDashboard(context context.Context, sellerID string) (*SellerDashboard, error)
	CollectorDashboard(context context.Context, userID string) (*CollectorDashboard, error)
}

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const derivedStatus = `CASE WHEN NOW() < a.startsat THEN 'upcoming' WHEN NOW() < a.endsat THEN 'live' ELSE 'ended' END`

func (repository *PostgresRepository) SellerDashboard(context context.Context, sellerID string) (*SellerDashboard, error) {
	board := &SellerDashboard{LiveAuctions: []AuctionSummary{}}

	const counts = `
		SELECT
			(SELECT count(*) FROM core.artwork w WHERE w.ownerid = $1 AND w.deletedat IS NULL),
			count(*) FILTER (WHERE ` + derivedStatus + ` = 'upcoming'),
			count(*) FILTER (WHERE ` + derivedStatus + ` = 'live'),
			count(*) FILTER (WHERE ` + derivedStatus + ` = 'ended'),
			COALESCE(sum(a.currentbid) FILTER (WHERE a.winnerid IS NOT NULL), 0)
		FROM core.auction a
		WHERE a.sellerid = $1 AND a.deletedat IS NULL`

	err := repository.db.QueryRow(context, counts, sellerID).Scan(
		&board.ArtworkCount,
		&board.AuctionsUpcoming, &board.AuctionsLive, &board.AuctionsEnded,
		&board.GrossSales,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "seller_dashboard_counts")
	}

	const live = `
		SELECT a.id, a.title, a.currentbid, a.bidcount, a.currency, a.endsat
		FROM core.auction a
		WHERE a.sellerid = $1 AND a.deletedat IS NULL AND ` + derivedStatus + ` = 'live'
		ORDER BY a.endsat ASC
		LIMIT 10`

	rows, err := repository.db.Query(context, live, sellerID)
	if err != nil {
		return nil, dberr.Wrap(err, "seller_dashboard_live")
	}
	defer rows.Close()

	for rows.Next() {
		var s AuctionSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.CurrentBid, &s.BidCount, &s.Currency, &s.EndsAt); err != nil {
			return nil, dberr.Wrap(err, "scan_live_auction")
		}
		board.LiveAuctions = append(board.LiveAuctions, s)
	}

	return board, nil
}

func (repository *PostgresRepository) CollectorDashboard(context context.Context, userID string) (*CollectorDashboard, error) {
	board := &CollectorDashboard{
		ActiveBids:      []BidPosition{},
		WonAuctions:     []AuctionSummary{},
		WatchedAuctions: []AuctionSummary{},
	}

	const active = `
		SELECT a.id, a.title, a.currentbid, a.bidcount, a.currency, a.endsat,
			max(b.amount), bool_or(b.amount = a.currentbid)
		FROM core.auction a
		JOIN core.bid b ON b.auctionid = a.id AND b.bidderid = $1
		WHERE a.deletedat IS NULL AND ` + derivedStatus + ` = 'live'
		GROUP BY a.id, a.title, a.currentbid, a.bidcount, a.currency, a.endsat
		ORDER BY a.endsat ASC`

	rows, err := repository.db.Query(context, active, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "collector_active_bids")
	}
	defer rows.Close()

	for rows.Next() {
		var p BidPosition
		if err := rows.Scan(&p.ID, &p.Title, &p.CurrentBid, &p.BidCount, &p.Currency, &p.EndsAt, &p.MyHighestBid, &p.Leading); err != nil {
			return nil, dberr.Wrap(err, "scan_bid_position")
		}
		board.ActiveBids = append(board.ActiveBids, p)
	}
	rows.Close()

	const won = `
		SELECT a.id, a.title, a.currentbid, a.bidcount, a.currency, a.endsat
		FROM core.auction a
		WHERE a.winnerid = $1 AND a.deletedat IS NULL
		ORDER BY a.endsat DESC
		LIMIT 20`

	if err := repository.collectSummaries(context, won, userID, &board.WonAuctions); err != nil {
		return nil, dberr.Wrap(err, "collector_won_auctions")
	}

	const watched = `
		SELECT a.id, a.title, a.currentbid, a.bidcount, a.currency, a.endsat
		FROM core.auction a
		JOIN core.auction_watch w ON w.auctionid = a.id
		WHERE w.userid = $1 AND a.deletedat IS NULL
		ORDER BY a.endsat ASC
		LIMIT 20`

	if err := repository.collectSummaries(context, watched, userID, &board.WatchedAuctions); err != nil {
		return nil, dberr.Wrap(err, "collector_watched_auctions")
	}

	return board, nil
}

func (repository *PostgresRepository) collectSummaries(context context.Context, query, userID string, out *[]AuctionSummary) error {
	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var s AuctionSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.CurrentBid, &s.BidCount, &s.Currency, &s.EndsAt); err != nil {
			return err
		}
		*out = append(*out, s)
	}
	return rows.Err()
}
