package market

import (
	"fmt"
	"time"
)

// Params are the simulation constants. Zero values are not defaults; start from
// DefaultParams.
type Params struct {
	InitialMarketCap    float64
	GraduationThreshold float64
	WindowSize          int
	MaxIncrement        float64

	SellTaxMinutes int

	KeysSold int
	KeyPrice float64
	KeySale  KeySaleRule

	NativeBalance  float64
	TokenBalance   float64
	NativeUSD      float64
	TokenUSD       float64
	DeployFee      float64
	ConnectAirdrop float64
	NativeSymbol   string
	TokenSymbol    string

	MarketCapInterval time.Duration
	SellTaxInterval   time.Duration
	KeySaleInterval   time.Duration
}

// DefaultParams returns the demo's constants.
func DefaultParams() Params {
	return Params{
		InitialMarketCap:    24500,
		GraduationThreshold: 60000,
		WindowSize:          20,
		MaxIncrement:        150,
		SellTaxMinutes:      48,
		KeysSold:            482,
		KeyPrice:            0.85,
		KeySale:             DefaultKeySaleRule,
		NativeBalance:       12.5,
		NativeUSD:           145,
		TokenUSD:            0.85,
		DeployFee:           0.05,
		ConnectAirdrop:      250,
		NativeSymbol:        "SOL",
		TokenSymbol:         "LMT",
		MarketCapInterval:   time.Second,
		SellTaxInterval:     time.Minute,
		KeySaleInterval:     4 * time.Second,
	}
}

// Validate checks the parameters an Engine cannot run without.
func (p Params) Validate() error {
	if p.WindowSize < 1 {
		return fmt.Errorf("market: window size must be positive, got %d", p.WindowSize)
	}
	if p.MarketCapInterval <= 0 || p.SellTaxInterval <= 0 || p.KeySaleInterval <= 0 {
		return fmt.Errorf("market: tick intervals must be positive")
	}
	if p.NativeUSD <= 0 || p.TokenUSD <= 0 {
		return fmt.Errorf("market: rates must be positive, got %v/%v", p.NativeUSD, p.TokenUSD)
	}
	if p.KeySale.Probability < 0 || p.KeySale.Probability > 1 {
		return fmt.Errorf("market: key sale probability %v outside [0, 1]", p.KeySale.Probability)
	}
	return nil
}
