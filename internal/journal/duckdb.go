package journal

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/quantpulse-lab/quantpulse/internal/logger"
	"github.com/quantpulse-lab/quantpulse/internal/types"
	"github.com/quantpulse-lab/quantpulse/pkg/errors"
)

// DuckDBJournal stores orders and trades in DuckDB. Pass ":memory:" as the
// path for an ephemeral journal.
type DuckDBJournal struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

var _ Journal = (*DuckDBJournal)(nil)

// NewDuckDBJournal opens the database and creates the tables.
func NewDuckDBJournal(path string, log *logger.Logger) (*DuckDBJournal, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to open journal database", err)
	}

	j := &DuckDBJournal{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := j.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return j, nil
}

func (j *DuckDBJournal) initialize() error {
	_, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS orders (
			order_id TEXT PRIMARY KEY,
			portfolio_id TEXT,
			symbol TEXT,
			side TEXT,
			quantity DOUBLE,
			order_type TEXT,
			status TEXT,
			price DOUBLE,
			reason TEXT,
			reject_reason TEXT,
			strategy TEXT,
			timestamp TIMESTAMP
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to create orders table", err)
	}

	_, err = j.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			trade_id TEXT PRIMARY KEY,
			order_id TEXT,
			portfolio_id TEXT,
			symbol TEXT,
			side TEXT,
			quantity DOUBLE,
			price DOUBLE,
			realized_pnl DOUBLE,
			strategy TEXT,
			timestamp TIMESTAMP
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to create trades table", err)
	}

	return nil
}

// RecordOrder appends an order row.
func (j *DuckDBJournal) RecordOrder(order types.Order) error {
	_, err := j.sq.
		Insert("orders").
		Columns(
			"order_id", "portfolio_id", "symbol", "side", "quantity", "order_type",
			"status", "price", "reason", "reject_reason", "strategy", "timestamp",
		).
		Values(
			order.OrderID, order.PortfolioID, order.Symbol, order.Side, order.Quantity,
			order.OrderType, order.Status, order.Price, order.Reason, order.RejectReason,
			order.Strategy, order.Timestamp,
		).
		RunWith(j.db).
		Exec()
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to insert order", err)
	}

	return nil
}

// RecordTrade appends a trade row.
func (j *DuckDBJournal) RecordTrade(trade types.TradeRecord) error {
	_, err := j.sq.
		Insert("trades").
		Columns(
			"trade_id", "order_id", "portfolio_id", "symbol", "side",
			"quantity", "price", "realized_pnl", "strategy", "timestamp",
		).
		Values(
			trade.TradeID, trade.OrderID, trade.PortfolioID, trade.Symbol, trade.Side,
			trade.Quantity, trade.Price, trade.RealizedPnL, trade.Strategy, trade.Timestamp,
		).
		RunWith(j.db).
		Exec()
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to insert trade", err)
	}

	return nil
}

// Orders returns the orders for a portfolio, oldest first.
func (j *DuckDBJournal) Orders(portfolioID string) ([]types.Order, error) {
	rows, err := j.sq.
		Select(
			"order_id", "portfolio_id", "symbol", "side", "quantity", "order_type",
			"status", "price", "reason", "reject_reason", "strategy", "timestamp",
		).
		From("orders").
		Where(squirrel.Eq{"portfolio_id": portfolioID}).
		OrderBy("timestamp ASC").
		RunWith(j.db).
		Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalQueryFailed, "failed to query orders", err)
	}
	defer rows.Close()

	var orders []types.Order

	for rows.Next() {
		var (
			order types.Order
			ts    time.Time
		)

		err := rows.Scan(
			&order.OrderID, &order.PortfolioID, &order.Symbol, &order.Side,
			&order.Quantity, &order.OrderType, &order.Status, &order.Price,
			&order.Reason, &order.RejectReason, &order.Strategy, &ts,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeJournalQueryFailed, "failed to scan order row", err)
		}

		order.Timestamp = ts
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

// Trades returns the trades for a portfolio, oldest first.
func (j *DuckDBJournal) Trades(portfolioID string) ([]types.TradeRecord, error) {
	rows, err := j.sq.
		Select(
			"trade_id", "order_id", "portfolio_id", "symbol", "side",
			"quantity", "price", "realized_pnl", "strategy", "timestamp",
		).
		From("trades").
		Where(squirrel.Eq{"portfolio_id": portfolioID}).
		OrderBy("timestamp ASC").
		RunWith(j.db).
		Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalQueryFailed, "failed to query trades", err)
	}
	defer rows.Close()

	var trades []types.TradeRecord

	for rows.Next() {
		var (
			trade types.TradeRecord
			ts    time.Time
		)

		err := rows.Scan(
			&trade.TradeID, &trade.OrderID, &trade.PortfolioID, &trade.Symbol,
			&trade.Side, &trade.Quantity, &trade.Price, &trade.RealizedPnL,
			&trade.Strategy, &ts,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeJournalQueryFailed, "failed to scan trade row", err)
		}

		trade.Timestamp = ts
		trades = append(trades, trade)
	}

	return trades, rows.Err()
}

// Close closes the underlying database.
func (j *DuckDBJournal) Close() error {
	return j.db.Close()
}
