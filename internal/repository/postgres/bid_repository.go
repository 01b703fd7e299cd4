package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-settlement/internal/biddingerrors"
	"auction-settlement/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const bidColumns = `id, product_id, bidder_id, amount::text, placed_at, status`

// BidRepository implements repository.BidDB on top of a pgx pool
type BidRepository struct {
	pool *pgxpool.Pool
}

// NewBidRepository creates new instance of BidRepository.
func NewBidRepository(pool *pgxpool.Pool) *BidRepository {
	return &BidRepository{pool: pool}
}

// Connect opens a pgx pool for dsn and verifies it with a ping
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to DB: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database pool ping failed: %w", err)
	}
	return pool, nil
}

func (r *BidRepository) InsertBid(ctx context.Context, bid models.Bid) error {
	if bid.BidID == "" || bid.ProductID == "" || bid.BidderID == "" {
		return fmt.Errorf("insert bid %q: %w", bid.BidID, biddingerrors.ErrInvalidArgument)
	}

	query := `
        INSERT INTO bids (id, product_id, bidder_id, amount, placed_at, status)
        VALUES ($1, $2, $3, $4::numeric, $5, $6)
        ON CONFLICT (id) DO NOTHING
    `
	tag, err := r.pool.Exec(ctx, query,
		bid.BidID,
		bid.ProductID,
		bid.BidderID,
		bid.Amount.String(),
		bid.PlacedAt,
		string(bid.Status),
	)
	if err != nil {
		return fmt.Errorf("insert bid %s: %w", bid.BidID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("insert bid %s: %w", bid.BidID, biddingerrors.ErrBidDuplicate)
	}
	return nil
}

func (r *BidRepository) GetBid(ctx context.Context, bidID string) (models.Bid, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1`, bidID)
	bid, err := scanBid(row)
	if err != nil {
		return models.Bid{}, fmt.Errorf("get bid %s: %w", bidID, err)
	}
	return bid, nil
}

// CompareAndSwapAmount updates the row only while the stored amount equals expected,
// so concurrent read-modify-write cycles on one identity cannot interleave.
func (r *BidRepository) CompareAndSwapAmount(ctx context.Context, bidID string, expected, amount decimal.Decimal, status models.BidStatus) (models.Bid, error) {
	query := `
        UPDATE bids SET amount = $2::numeric, status = $3
        WHERE id = $1 AND amount = $4::numeric
        RETURNING ` + bidColumns
	row := r.pool.QueryRow(ctx, query, bidID, amount.String(), string(status), expected.String())
	bid, err := scanBid(row)
	if err == nil {
		return bid, nil
	}
	if !errors.Is(err, biddingerrors.ErrNotFound) {
		return models.Bid{}, fmt.Errorf("swap amount for bid %s: %w", bidID, err)
	}

	// nothing updated: either the bid is gone or its amount moved
	if _, getErr := r.GetBid(ctx, bidID); getErr != nil {
		return models.Bid{}, fmt.Errorf("swap amount for bid %s: %w", bidID, getErr)
	}
	return models.Bid{}, fmt.Errorf("swap amount for bid %s: %w", bidID, biddingerrors.ErrStaleAmount)
}

func (r *BidRepository) SetStatus(ctx context.Context, bidID string, status models.BidStatus) (models.Bid, error) {
	row := r.pool.QueryRow(ctx, `UPDATE bids SET status = $2 WHERE id = $1 RETURNING `+bidColumns, bidID, string(status))
	bid, err := scanBid(row)
	if err != nil {
		return models.Bid{}, fmt.Errorf("set status for bid %s: %w", bidID, err)
	}
	return bid, nil
}

func (r *BidRepository) GetBidsByProduct(ctx context.Context, productID string) ([]models.Bid, error) {
	query := `
        SELECT ` + bidColumns + `
        FROM bids
        WHERE product_id = $1 AND status = $2
        ORDER BY placed_at ASC, id ASC
    `
	return r.queryBids(ctx, query, productID, string(models.BidPlaced))
}

func (r *BidRepository) GetWinningBid(ctx context.Context, productID string) (models.Bid, error) {
	query := `
        SELECT ` + bidColumns + `
        FROM bids
        WHERE product_id = $1 AND status = $2
        ORDER BY amount DESC, placed_at ASC, id ASC
        LIMIT 1
    `
	row := r.pool.QueryRow(ctx, query, productID, string(models.BidPlaced))
	bid, err := scanBid(row)
	if errors.Is(err, biddingerrors.ErrNotFound) {
		return models.Bid{}, fmt.Errorf("get winning bid for product %s: %w", productID, biddingerrors.ErrNoBids)
	}
	if err != nil {
		return models.Bid{}, fmt.Errorf("get winning bid for product %s: %w", productID, err)
	}
	return bid, nil
}

func (r *BidRepository) GetBidsByBidder(ctx context.Context, bidderID string) ([]models.Bid, error) {
	query := `
        SELECT ` + bidColumns + `
        FROM bids
        WHERE bidder_id = $1 AND status = $2
        ORDER BY placed_at ASC, id ASC
    `
	return r.queryBids(ctx, query, bidderID, string(models.BidPlaced))
}

func (r *BidRepository) DeleteBid(ctx context.Context, bidID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM bids WHERE id = $1`, bidID); err != nil {
		return fmt.Errorf("delete bid %s: %w", bidID, err)
	}
	return nil
}

func (r *BidRepository) queryBids(ctx context.Context, query string, args ...any) ([]models.Bid, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := []models.Bid{}
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bids, nil
}

func scanBid(row pgx.Row) (models.Bid, error) {
	var (
		bid    models.Bid
		amount string
		status string
	)
	err := row.Scan(&bid.BidID, &bid.ProductID, &bid.BidderID, &amount, &bid.PlacedAt, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Bid{}, biddingerrors.ErrNotFound
	}
	if err != nil {
		return models.Bid{}, err
	}

	bid.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return models.Bid{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	bid.Status = models.BidStatus(status)
	return bid, nil
}
