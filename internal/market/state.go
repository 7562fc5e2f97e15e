package market

// MarketSample is one point of the market-cap chart.
type MarketSample struct {
	Time  int     `json:"time"`
	Price float64 `json:"price"`
}

// CapState is the bonding-curve valuation and its sliding chart window.
type CapState struct {
	MarketCap float64
	Window    []MarketSample
}

// NewCapState seeds a full window of size samples at the initial value.
func NewCapState(initial float64, size int) CapState {
	if size < 1 {
		size = 1
	}
	w := make([]MarketSample, size)
	for i := range w {
		w[i] = MarketSample{Time: i, Price: initial}
	}
	return CapState{MarketCap: initial, Window: w}
}

// TickMarketCap adds a uniform increment in [0, maxIncrement) and slides the window by one
// sample whose price is the new market cap. The window length never changes.
func TickMarketCap(prev CapState, rng Rand, maxIncrement float64) CapState {
	if maxIncrement < 0 {
		maxIncrement = 0
	}
	next := CapState{MarketCap: prev.MarketCap + rng.Float64()*maxIncrement}

	last := -1
	w := make([]MarketSample, 0, max(len(prev.Window), 1))
	if n := len(prev.Window); n > 0 {
		last = prev.Window[n-1].Time
		w = append(w, prev.Window[1:]...)
	}
	next.Window = append(w, MarketSample{Time: last + 1, Price: next.MarketCap})
	return next
}

// Progress returns the market cap as a percentage of threshold, clamped to [0, 100].
func (s CapState) Progress(threshold float64) float64 {
	if threshold <= 0 {
		return 100
	}
	p := s.MarketCap / threshold * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Prices returns the window's prices, oldest first.
func (s CapState) Prices() []float64 {
	out := make([]float64, len(s.Window))
	for i, m := range s.Window {
		out[i] = m.Price
	}
	return out
}

func (s CapState) clone() CapState {
	w := make([]MarketSample, len(s.Window))
	copy(w, s.Window)
	return CapState{MarketCap: s.MarketCap, Window: w}
}

// TaxState is the sell-tax countdown.
type TaxState struct {
	MinutesRemaining int
}

// TickSellTax removes one minute, never going below zero.
func TickSellTax(prev TaxState) TaxState {
	if prev.MinutesRemaining <= 0 {
		return TaxState{}
	}
	return TaxState{MinutesRemaining: prev.MinutesRemaining - 1}
}

// KeyState is the revenue-share key market.
type KeyState struct {
	KeysSold int
	KeyPrice float64
}

// KeySaleRule parameterises TickKeySale.
type KeySaleRule struct {
	Probability float64 // chance a tick sells anything
	MinBatch    int
	MaxBatch    int // inclusive
	PriceStep   float64
}

// DefaultKeySaleRule sells 2-5 keys on 70% of ticks, adding 0.0015 per key to the price.
var DefaultKeySaleRule = KeySaleRule{Probability: 0.7, MinBatch: 2, MaxBatch: 5, PriceStep: 0.0015}

// TickKeySale sells a random batch with the rule's probability. Sales only ever raise
// KeysSold and KeyPrice.
func TickKeySale(prev KeyState, rng Rand, rule KeySaleRule) KeyState {
	if rng.Float64() >= rule.Probability {
		return prev
	}
	lo, hi := rule.MinBatch, rule.MaxBatch
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	batch := lo + rng.IntN(hi-lo+1)
	step := rule.PriceStep
	if step < 0 {
		step = 0
	}
	return KeyState{
		KeysSold: prev.KeysSold + batch,
		KeyPrice: prev.KeyPrice + step*float64(batch),
	}
}
