package market

import "github.com/shopspring/decimal"

// Wallet is the simulated user wallet.
type Wallet struct {
	Provider string
	Native   decimal.Decimal
	Token    decimal.Decimal
	Keys     int
}

// Connected reports whether a provider has been attached.
func (w Wallet) Connected() bool { return w.Provider != "" }

// Rates are fixed per-unit USD prices; there is no live feed.
type Rates struct {
	NativeUSD decimal.Decimal
	TokenUSD  decimal.Decimal
}

// USDValue values the native and token balances at the given rates.
func (w Wallet) USDValue(r Rates) decimal.Decimal {
	return w.Native.Mul(r.NativeUSD).Add(w.Token.Mul(r.TokenUSD))
}

// SwapQuote returns how many tokens native buys at the fixed rates.
func (r Rates) SwapQuote(native float64) float64 {
	if r.TokenUSD.IsZero() || native <= 0 {
		return 0
	}
	q := decimal.NewFromFloat(native).Mul(r.NativeUSD).Div(r.TokenUSD).Round(1)
	return q.InexactFloat64()
}
