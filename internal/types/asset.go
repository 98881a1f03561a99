package types

import "time"

type AssetClass string

const (
	AssetClassStock    AssetClass = "stock"
	AssetClassCrypto   AssetClass = "crypto"
	AssetClassMemeCoin AssetClass = "meme_coin"
)

// Valid reports whether the asset class is one of the supported classes.
func (a AssetClass) Valid() bool {
	switch a {
	case AssetClassStock, AssetClassCrypto, AssetClassMemeCoin:
		return true
	}

	return false
}

// Instrument is a tradable symbol with a mutable current price. The
// price/volume history lives in the market package; instruments are created
// on the first price tick and deactivated rather than deleted.
type Instrument struct {
	Symbol     string     `json:"symbol" yaml:"symbol" validate:"required"`
	AssetClass AssetClass `json:"asset_class" yaml:"asset_class" validate:"required,oneof=stock crypto meme_coin"`
	// CurrentPrice is the last ingested price.
	CurrentPrice float64 `json:"current_price" yaml:"current_price"`
	// Active is false for deactivated instruments; they keep their history
	// but are skipped during signal sweeps.
	Active bool `json:"active" yaml:"active"`
	// UpdatedAt is the timestamp of the last price tick.
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// PricePoint is a single (price, volume) sample in an instrument's history.
type PricePoint struct {
	Price     float64   `json:"price" yaml:"price"`
	Volume    float64   `json:"volume" yaml:"volume"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}
