package journal

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/quantpulse-lab/quantpulse/internal/logger"
	"github.com/quantpulse-lab/quantpulse/internal/types"
)

type DuckDBJournalTestSuite struct {
	suite.Suite
	journal *DuckDBJournal
}

func TestDuckDBJournalSuite(t *testing.T) {
	suite.Run(t, new(DuckDBJournalTestSuite))
}

func (suite *DuckDBJournalTestSuite) SetupTest() {
	j, err := NewDuckDBJournal(":memory:", logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.journal = j
}

func (suite *DuckDBJournalTestSuite) TearDownTest() {
	suite.Require().NoError(suite.journal.Close())
}

func (suite *DuckDBJournalTestSuite) filledOrder(portfolioID, symbol string, ts time.Time) types.Order {
	return types.Order{
		OrderID:     uuid.New().String(),
		PortfolioID: portfolioID,
		Symbol:      symbol,
		Side:        types.SideBuy,
		Quantity:    10,
		OrderType:   types.OrderTypeMarket,
		Status:      types.OrderStatusFilled,
		Price:       100,
		Reason:      types.OrderReasonManual,
		Timestamp:   ts,
	}
}

func (suite *DuckDBJournalTestSuite) TestRecordAndReadOrders() {
	base := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)

	first := suite.filledOrder("p1", "AAPL", base)
	second := suite.filledOrder("p1", "MSFT", base.Add(time.Minute))
	other := suite.filledOrder("p2", "AAPL", base)

	suite.Require().NoError(suite.journal.RecordOrder(first))
	suite.Require().NoError(suite.journal.RecordOrder(second))
	suite.Require().NoError(suite.journal.RecordOrder(other))

	orders, err := suite.journal.Orders("p1")
	suite.Require().NoError(err)
	suite.Require().Len(orders, 2, "orders are scoped to the portfolio")
	suite.Equal("AAPL", orders[0].Symbol)
	suite.Equal("MSFT", orders[1].Symbol)
	suite.Equal(types.OrderStatusFilled, orders[0].Status)
}

func (suite *DuckDBJournalTestSuite) TestRecordRejectedOrderKeepsReason() {
	order := suite.filledOrder("p1", "AAPL", time.Now().UTC())
	order.Status = types.OrderStatusRejected
	order.Price = 0
	order.RejectReason = "confidence 0.40 below minimum threshold 0.65"

	suite.Require().NoError(suite.journal.RecordOrder(order))

	orders, err := suite.journal.Orders("p1")
	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)
	suite.Equal(types.OrderStatusRejected, orders[0].Status)
	suite.Contains(orders[0].RejectReason, "confidence")
}

func (suite *DuckDBJournalTestSuite) TestRecordAndReadTrades() {
	base := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)

	buy := types.TradeRecord{
		TradeID:     uuid.New().String(),
		OrderID:     uuid.New().String(),
		PortfolioID: "p1",
		Symbol:      "AAPL",
		Side:        types.SideBuy,
		Quantity:    10,
		Price:       100,
		Strategy:    "momentum_trading",
		Timestamp:   base,
	}
	sell := types.TradeRecord{
		TradeID:     uuid.New().String(),
		OrderID:     uuid.New().String(),
		PortfolioID: "p1",
		Symbol:      "AAPL",
		Side:        types.SideSell,
		Quantity:    10,
		Price:       110,
		RealizedPnL: 100,
		Timestamp:   base.Add(time.Hour),
	}

	suite.Require().NoError(suite.journal.RecordTrade(buy))
	suite.Require().NoError(suite.journal.RecordTrade(sell))

	trades, err := suite.journal.Trades("p1")
	suite.Require().NoError(err)
	suite.Require().Len(trades, 2)
	suite.Equal(types.SideBuy, trades[0].Side)
	suite.Equal(types.SideSell, trades[1].Side)
	suite.InDelta(100.0, trades[1].RealizedPnL, 1e-9)
	suite.Equal("momentum_trading", trades[0].Strategy)
}

func (suite *DuckDBJournalTestSuite) TestEmptyPortfolio() {
	orders, err := suite.journal.Orders("missing")
	suite.Require().NoError(err)
	suite.Empty(orders)

	trades, err := suite.journal.Trades("missing")
	suite.Require().NoError(err)
	suite.Empty(trades)
}
