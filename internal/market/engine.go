package market

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Tick names one of the periodic processes.
type Tick int

const (
	TickCap Tick = iota
	TickTax
	TickKeys
)

func (t Tick) String() string {
	switch t {
	case TickCap:
		return "market_cap"
	case TickTax:
		return "sell_tax"
	case TickKeys:
		return "key_sale"
	}
	return "unknown"
}

// KeyAction is the side of a key trade.
type KeyAction string

const (
	Buy  KeyAction = "BUY"
	Sell KeyAction = "SELL"
)

// Snapshot is a deep copy of the engine state for display.
type Snapshot struct {
	MarketCap      float64
	Window         []MarketSample
	Progress       float64
	Graduated      bool
	SellTaxMinutes int
	KeysSold       int
	KeyPrice       float64
	Wallet         Wallet
	USDValue       decimal.Decimal
	Ledger         []Transaction
}

// Engine owns one session of simulated market state. It is safe for concurrent use;
// every mutation is a read-modify-write of the latest state under one lock.
type Engine struct {
	mu     sync.Mutex
	params Params
	rates  Rates
	rng    Rand
	now    func() time.Time
	newID  func() string
	logger *zap.Logger

	cap      CapState
	tax      TaxState
	keys     KeyState
	wallet   Wallet
	ledger   Ledger
	elapsed  time.Duration
	airdrops int

	listeners map[int]func(Snapshot)
	nextSub   int

	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand injects the random source.
func WithRand(r Rand) Option { return func(e *Engine) { e.rng = r } }

// WithClock sets the wall clock used for ledger timestamps.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// WithIDs sets the transaction id generator.
func WithIDs(f func() string) Option { return func(e *Engine) { e.newID = f } }

func WithLogger(l *zap.Logger) Option { return func(e *Engine) { e.logger = l } }

// NewEngine builds an engine at the initial state described by p.
func NewEngine(p Params, opts ...Option) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		params: p,
		rates: Rates{
			NativeUSD: decimal.NewFromFloat(p.NativeUSD),
			TokenUSD:  decimal.NewFromFloat(p.TokenUSD),
		},
		now:       time.Now,
		newID:     uuid.NewString,
		logger:    zap.NewNop(),
		cap:       NewCapState(p.InitialMarketCap, p.WindowSize),
		tax:       TaxState{MinutesRemaining: p.SellTaxMinutes},
		keys:      KeyState{KeysSold: p.KeysSold, KeyPrice: p.KeyPrice},
		wallet:    Wallet{Native: decimal.NewFromFloat(p.NativeBalance), Token: decimal.NewFromFloat(p.TokenBalance)},
		listeners: make(map[int]func(Snapshot)),
	}
	for _, o := range opts {
		o(e)
	}
	if e.rng == nil {
		e.rng = NewRand(uint64(time.Now().UnixNano()))
	}
	return e, nil
}

func (e *Engine) Params() Params { return e.params }
func (e *Engine) Rates() Rates   { return e.rates }

// Subscribe registers fn to receive a snapshot after every change. The returned func
// removes it.
func (e *Engine) Subscribe(fn func(Snapshot)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.listeners[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners, id)
	}
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	c := e.cap.clone()
	return Snapshot{
		MarketCap:      c.MarketCap,
		Window:         c.Window,
		Progress:       c.Progress(e.params.GraduationThreshold),
		Graduated:      c.MarketCap >= e.params.GraduationThreshold,
		SellTaxMinutes: e.tax.MinutesRemaining,
		KeysSold:       e.keys.KeysSold,
		KeyPrice:       e.keys.KeyPrice,
		Wallet:         e.wallet,
		USDValue:       e.wallet.USDValue(e.rates),
		Ledger:         e.ledger.Entries(),
	}
}

// mutate applies fn under the lock and then notifies subscribers outside it.
func (e *Engine) mutate(fn func() bool) bool {
	e.mu.Lock()
	changed := fn()
	if !changed || len(e.listeners) == 0 {
		e.mu.Unlock()
		return changed
	}
	snap := e.snapshotLocked()
	ls := make([]func(Snapshot), 0, len(e.listeners))
	for _, l := range e.listeners {
		ls = append(ls, l)
	}
	e.mu.Unlock()

	for _, l := range ls {
		l(snap)
	}
	return true
}

// Step applies one tick of the given process.
func (e *Engine) Step(t Tick) {
	e.mutate(func() bool {
		switch t {
		case TickCap:
			e.cap = TickMarketCap(e.cap, e.rng, e.params.MaxIncrement)
		case TickTax:
			e.tax = TickSellTax(e.tax)
		case TickKeys:
			e.keys = TickKeySale(e.keys, e.rng, e.params.KeySale)
		default:
			return false
		}
		return true
	})
}

// Elapse advances simulated time by d, firing every tick whose interval boundary falls
// inside the span in time order. Ticks sharing a boundary fire cap, then tax, then keys,
// so a seeded run does not depend on how the span is chunked.
func (e *Engine) Elapse(d time.Duration) {
	if d <= 0 {
		return
	}
	e.mu.Lock()
	now := e.elapsed
	e.elapsed += d
	to := e.elapsed
	e.mu.Unlock()

	schedule := []struct {
		tick     Tick
		interval time.Duration
	}{
		{TickCap, e.params.MarketCapInterval},
		{TickTax, e.params.SellTaxInterval},
		{TickKeys, e.params.KeySaleInterval},
	}
	for {
		next := time.Duration(-1)
		for _, k := range schedule {
			due := (now/k.interval + 1) * k.interval
			if next < 0 || due < next {
				next = due
			}
		}
		if next > to {
			return
		}
		for _, k := range schedule {
			if next%k.interval == 0 {
				e.Step(k.tick)
			}
		}
		now = next
	}
}

// Start runs the three periodic processes until ctx is done or Stop is called.
// It only has effect once.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.done != nil || e.stopped {
		e.mu.Unlock()
		return
	}
	ctx, e.cancel = context.WithCancel(ctx)
	e.done = make(chan struct{})
	done := e.done
	e.mu.Unlock()

	e.logger.Debug("market engine started",
		zap.Duration("cap_interval", e.params.MarketCapInterval),
		zap.Duration("tax_interval", e.params.SellTaxInterval),
		zap.Duration("key_interval", e.params.KeySaleInterval))
	go e.run(ctx, done)
}

func (e *Engine) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	capT := time.NewTicker(e.params.MarketCapInterval)
	defer capT.Stop()
	taxT := time.NewTicker(e.params.SellTaxInterval)
	defer taxT.Stop()
	keyT := time.NewTicker(e.params.KeySaleInterval)
	defer keyT.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-capT.C:
			e.Step(TickCap)
		case <-taxT.C:
			e.Step(TickTax)
		case <-keyT.C:
			e.Step(TickKeys)
		}
	}
}

// Stop cancels all periodic processes together and waits for them to finish.
// It is idempotent; a stopped engine cannot be restarted. Subscribers are dropped.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	cancel, done := e.cancel, e.done
	e.listeners = make(map[int]func(Snapshot))
	e.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	e.logger.Debug("market engine stopped")
}

func (e *Engine) record(t TxType, amount string) Transaction {
	tx := Transaction{
		ID:        e.newID(),
		Type:      t,
		Amount:    amount,
		Status:    StatusSuccess,
		Timestamp: e.now().Format("15:04:05"),
	}
	e.ledger.Prepend(tx)
	return tx
}
