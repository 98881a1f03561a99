package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"

	"github.com/quantpulse-lab/quantpulse/pkg/errors"
)

type Side string

type OrderType string

type OrderStatus string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
)

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusFilled   OrderStatus = "FILLED"
	OrderStatusRejected OrderStatus = "REJECTED"
)

const (
	OrderReasonManual    string = "manual"
	OrderReasonAutomated string = "automated"
)

// OrderRequest is a caller-supplied request to trade. LimitPrice must be set
// for limit orders and is ignored for market orders.
type OrderRequest struct {
	PortfolioID string    `json:"portfolio_id" yaml:"portfolio_id" validate:"required"`
	Symbol      string    `json:"symbol" yaml:"symbol" validate:"required"`
	Side        Side      `json:"side" yaml:"side" validate:"required,oneof=BUY SELL"`
	Quantity    float64   `json:"quantity" yaml:"quantity" validate:"required,gt=0"`
	OrderType   OrderType `json:"order_type" yaml:"order_type" validate:"required,oneof=MARKET LIMIT"`
	LimitPrice  optional.Option[float64] `json:"limit_price" yaml:"limit_price"`
	// Automated marks orders submitted by the trading orchestrator; the risk
	// governor applies the confidence floor and no-pyramiding rule only to
	// automated orders.
	Automated bool `json:"automated" yaml:"automated"`
	// Confidence and Strategy carry signal provenance for automated orders.
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Strategy   string  `json:"strategy" yaml:"strategy"`
}

// Validate validates the OrderRequest struct.
func (r *OrderRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrderRequest, "invalid order request", err)
	}

	if r.OrderType == OrderTypeLimit {
		if r.LimitPrice.IsNone() {
			return errors.New(errors.ErrCodeInvalidPrice, "limit order requires a limit price")
		}

		if price := r.LimitPrice.Unwrap(); price <= 0 {
			return errors.Newf(errors.ErrCodeInvalidPrice, "limit price must be positive, got %f", price)
		}
	}

	return nil
}

// Order is the record of a submitted order. It transitions exactly once from
// PENDING to a terminal state within the execution engine call.
type Order struct {
	OrderID     string      `json:"order_id" yaml:"order_id"`
	PortfolioID string      `json:"portfolio_id" yaml:"portfolio_id"`
	Symbol      string      `json:"symbol" yaml:"symbol"`
	Side        Side        `json:"side" yaml:"side"`
	Quantity    float64     `json:"quantity" yaml:"quantity"`
	OrderType   OrderType   `json:"order_type" yaml:"order_type"`
	Status      OrderStatus `json:"status" yaml:"status"`
	// Price is the execution price for filled orders, zero otherwise.
	Price float64 `json:"price" yaml:"price"`
	// Reason is "manual" or "automated"; RejectReason carries the rejection
	// message for rejected orders.
	Reason       string    `json:"reason" yaml:"reason"`
	RejectReason string    `json:"reject_reason" yaml:"reject_reason"`
	Strategy     string    `json:"strategy" yaml:"strategy"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
}

// Fill is the successful result of executing an order.
type Fill struct {
	OrderID  string  `json:"order_id" yaml:"order_id"`
	Symbol   string  `json:"symbol" yaml:"symbol"`
	Side     Side    `json:"side" yaml:"side"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Price    float64 `json:"price" yaml:"price"`
	// RealizedPnL is the realized profit/loss delta for sells, zero for buys.
	RealizedPnL float64   `json:"realized_pnl" yaml:"realized_pnl"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// TradeRecord is the immutable journal entry appended after every fill.
type TradeRecord struct {
	TradeID     string    `json:"trade_id" yaml:"trade_id"`
	OrderID     string    `json:"order_id" yaml:"order_id"`
	PortfolioID string    `json:"portfolio_id" yaml:"portfolio_id"`
	Symbol      string    `json:"symbol" yaml:"symbol"`
	Side        Side      `json:"side" yaml:"side"`
	Quantity    float64   `json:"quantity" yaml:"quantity"`
	Price       float64   `json:"price" yaml:"price"`
	RealizedPnL float64   `json:"realized_pnl" yaml:"realized_pnl"`
	Strategy    string    `json:"strategy" yaml:"strategy"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}
