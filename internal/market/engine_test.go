package market

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"go.uber.org/goleak"
)

func newTestEngine(p Params, rng Rand) *Engine {
	var n atomic.Int64
	e, err := NewEngine(p,
		WithRand(rng),
		WithClock(func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC) }),
		WithIDs(func() string { return fmt.Sprintf("tx-%d", n.Add(1)) }),
	)
	Expect(err).NotTo(HaveOccurred())
	return e
}

var _ = Describe("Engine", func() {
	var e *Engine

	BeforeEach(func() {
		e = newTestEngine(DefaultParams(), NewRand(1))
	})

	Describe("initial state", func() {
		It("matches the parameters", func() {
			s := e.Snapshot()
			Expect(s.Window).To(HaveLen(20))
			Expect(s.MarketCap).To(Equal(24500.0))
			Expect(s.SellTaxMinutes).To(Equal(48))
			Expect(s.KeysSold).To(Equal(482))
			Expect(s.KeyPrice).To(Equal(0.85))
			Expect(s.Wallet.Native.Equal(decimal.RequireFromString("12.5"))).To(BeTrue())
			Expect(s.Ledger).To(BeEmpty())
			Expect(s.Graduated).To(BeFalse())
		})

		It("values the wallet at the fixed rates", func() {
			Expect(e.Snapshot().USDValue.Equal(decimal.RequireFromString("1812.5"))).To(BeTrue())
		})

		It("rejects invalid parameters", func() {
			p := DefaultParams()
			p.WindowSize = 0
			_, err := NewEngine(p)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("OnSwap", func() {
		It("swaps 1 SOL for 14,020.5 LMT", func() {
			Expect(e.OnSwap(1.0, 14020.5)).To(BeTrue())
			s := e.Snapshot()
			Expect(s.Wallet.Native.Equal(decimal.RequireFromString("11.5"))).To(BeTrue())
			Expect(s.Wallet.Token.Equal(decimal.RequireFromString("14020.5"))).To(BeTrue())
			Expect(s.Ledger).To(HaveLen(1))
			Expect(s.Ledger[0].Type).To(Equal(TxSwap))
			Expect(s.Ledger[0].Amount).To(Equal("+14,020.5 LMT"))
			Expect(s.Ledger[0].Status).To(Equal(StatusSuccess))
			Expect(s.Ledger[0].Timestamp).To(Equal("09:30:00"))
		})

		It("prepends the swap as the newest entry", func() {
			Expect(e.OnDeploy()).To(BeTrue())
			Expect(e.OnSwap(1.0, 14020.5)).To(BeTrue())
			l := e.Snapshot().Ledger
			Expect(l[0].Type).To(Equal(TxSwap))
			Expect(l[1].Type).To(Equal(TxDeploy))
		})

		It("leaves everything unchanged when the balance is short", func() {
			before := e.Snapshot()
			Expect(e.OnSwap(13, 1000)).To(BeFalse())
			after := e.Snapshot()
			Expect(after.Wallet.Native.Equal(before.Wallet.Native)).To(BeTrue())
			Expect(after.Wallet.Token.Equal(before.Wallet.Token)).To(BeTrue())
			Expect(after.Ledger).To(BeEmpty())
		})

		It("accepts the whole balance", func() {
			Expect(e.OnSwap(12.5, 1)).To(BeTrue())
			Expect(e.Snapshot().Wallet.Native.IsZero()).To(BeTrue())
			Expect(e.OnSwap(0.01, 1)).To(BeFalse())
		})

		It("rejects non-positive amounts", func() {
			Expect(e.OnSwap(0, 10)).To(BeFalse())
			Expect(e.OnSwap(-1, 10)).To(BeFalse())
			Expect(e.Snapshot().Ledger).To(BeEmpty())
		})
	})

	Describe("OnTradeKeys", func() {
		It("buys and then sells keys", func() {
			Expect(e.QuoteKeys(3)).To(BeNumerically("~", 2.55, 1e-12))
			Expect(e.OnTradeKeys(Buy, 3, 2.55)).To(BeTrue())
			s := e.Snapshot()
			Expect(s.Wallet.Keys).To(Equal(3))
			Expect(s.Wallet.Native.Equal(decimal.RequireFromString("9.95"))).To(BeTrue())
			Expect(s.Ledger[0].Type).To(Equal(TxBuyKeys))
			Expect(s.Ledger[0].Amount).To(Equal("-2.55 SOL"))

			Expect(e.OnTradeKeys(Sell, 2, 1.7)).To(BeTrue())
			s = e.Snapshot()
			Expect(s.Wallet.Keys).To(Equal(1))
			Expect(s.Ledger[0].Type).To(Equal(TxSellKeys))
			Expect(s.Ledger[0].Amount).To(Equal("+1.7 SOL"))
		})

		It("refuses to sell keys it does not hold", func() {
			Expect(e.OnTradeKeys(Sell, 1, 0.85)).To(BeFalse())
			Expect(e.Snapshot().Ledger).To(BeEmpty())
		})

		It("refuses to overspend", func() {
			Expect(e.OnTradeKeys(Buy, 100, 85)).To(BeFalse())
			s := e.Snapshot()
			Expect(s.Wallet.Keys).To(Equal(0))
			Expect(s.Ledger).To(BeEmpty())
		})

		It("does not move the key market", func() {
			Expect(e.OnTradeKeys(Buy, 2, 1.7)).To(BeTrue())
			Expect(e.Snapshot().KeysSold).To(Equal(482))
		})
	})

	Describe("OnDeploy", func() {
		It("charges the fee", func() {
			Expect(e.OnDeploy()).To(BeTrue())
			s := e.Snapshot()
			Expect(s.Wallet.Native.Equal(decimal.RequireFromString("12.45"))).To(BeTrue())
			Expect(s.Ledger[0].Amount).To(Equal("-0.05 SOL"))
		})

		It("fails without funds", func() {
			Expect(e.OnSwap(12.5, 1)).To(BeTrue())
			Expect(e.OnDeploy()).To(BeFalse())
			Expect(e.Snapshot().Ledger).To(HaveLen(1))
		})
	})

	Describe("OnConnect", func() {
		It("credits the airdrop once", func() {
			Expect(e.OnConnect("phantom")).To(BeTrue())
			Expect(e.OnConnect("solflare")).To(BeTrue())
			s := e.Snapshot()
			Expect(s.Wallet.Provider).To(Equal("solflare"))
			Expect(s.Wallet.Token.Equal(decimal.NewFromInt(250))).To(BeTrue())
			Expect(s.Ledger).To(HaveLen(2))
			Expect(s.Ledger[0].Amount).To(Equal("+0 LMT"))
			Expect(s.Ledger[1].Amount).To(Equal("+250 LMT"))
			Expect(s.Ledger[1].Type).To(Equal(TxYield))
		})

		It("requires a provider", func() {
			Expect(e.OnConnect("")).To(BeFalse())
			Expect(e.Snapshot().Wallet.Connected()).To(BeFalse())
		})
	})

	It("gives every transaction a unique id", func() {
		live, err := NewEngine(DefaultParams())
		Expect(err).NotTo(HaveOccurred())
		seen := map[string]bool{}
		for i := 0; i < 20; i++ {
			Expect(live.OnDeploy()).To(BeTrue())
		}
		for _, tx := range live.Snapshot().Ledger {
			Expect(seen).NotTo(HaveKey(tx.ID))
			seen[tx.ID] = true
		}
	})

	Describe("Elapse", func() {
		It("fires each process on its own interval", func() {
			e.Elapse(2 * time.Minute)
			s := e.Snapshot()
			Expect(s.Window[len(s.Window)-1].Time).To(Equal(19 + 120))
			Expect(s.SellTaxMinutes).To(Equal(46))
			Expect(s.KeysSold).To(BeNumerically(">=", 482))
		})

		It("accumulates partial intervals", func() {
			for i := 0; i < 8; i++ {
				e.Elapse(500 * time.Millisecond)
			}
			s := e.Snapshot()
			Expect(s.Window[len(s.Window)-1].Time).To(Equal(19 + 4))
			Expect(s.SellTaxMinutes).To(Equal(48))
		})

		It("gives the same result however the span is chunked", func() {
			whole := newTestEngine(DefaultParams(), NewRand(42))
			whole.Elapse(2 * time.Minute)
			stepped := newTestEngine(DefaultParams(), NewRand(42))
			for i := 0; i < 120; i++ {
				stepped.Elapse(time.Second)
			}
			a, b := whole.Snapshot(), stepped.Snapshot()
			Expect(a.MarketCap).To(Equal(b.MarketCap))
			Expect(a.Window).To(Equal(b.Window))
			Expect(a.KeysSold).To(Equal(b.KeysSold))
			Expect(a.KeyPrice).To(Equal(b.KeyPrice))
			Expect(a.SellTaxMinutes).To(Equal(b.SellTaxMinutes))
		})

		It("interleaves processes in time order", func() {
			p := DefaultParams()
			p.KeySaleInterval = time.Second
			p.MarketCapInterval = 2 * time.Second
			p.KeySale = KeySaleRule{Probability: 0.5, MinBatch: 1, MaxBatch: 1, PriceStep: 0.001}
			// keys at 1s, then cap and keys at 2s
			eng := newTestEngine(p, &scripted{floats: []float64{0.9, 0.0, 0.2}})
			eng.Elapse(2 * time.Second)
			s := eng.Snapshot()
			Expect(s.MarketCap).To(Equal(24500.0))
			Expect(s.Window[len(s.Window)-1].Time).To(Equal(20))
			Expect(s.KeysSold).To(Equal(483))
		})
	})

	Describe("subscriptions", func() {
		It("notifies after changes until unsubscribed", func() {
			var calls atomic.Int32
			cancel := e.Subscribe(func(s Snapshot) { calls.Add(1) })
			e.Step(TickCap)
			e.OnDeploy()
			Expect(calls.Load()).To(Equal(int32(2)))

			e.OnSwap(100, 1)
			Expect(calls.Load()).To(Equal(int32(2)))

			cancel()
			e.Step(TickCap)
			Expect(calls.Load()).To(Equal(int32(2)))
		})
	})

	Describe("lifecycle", func() {
		It("runs the timers and stops them together", func() {
			ignore := goleak.IgnoreCurrent()

			p := DefaultParams()
			p.MarketCapInterval = 5 * time.Millisecond
			p.SellTaxInterval = 5 * time.Millisecond
			p.KeySaleInterval = 5 * time.Millisecond
			e = newTestEngine(p, NewRand(11))

			e.Start(context.Background())
			Eventually(func() int { return e.Snapshot().SellTaxMinutes }).
				WithTimeout(2 * time.Second).Should(BeNumerically("<", 48))
			Eventually(func() int { return e.Snapshot().Window[19].Time }).
				WithTimeout(2 * time.Second).Should(BeNumerically(">", 19))

			e.Stop()
			e.Stop()
			goleak.VerifyNone(GinkgoT(), ignore)

			stopped := e.Snapshot().Window[19].Time
			time.Sleep(30 * time.Millisecond)
			Expect(e.Snapshot().Window[19].Time).To(Equal(stopped))
		})

		It("cannot be restarted after Stop", func() {
			ignore := goleak.IgnoreCurrent()
			e.Stop()
			e.Start(context.Background())
			goleak.VerifyNone(GinkgoT(), ignore)
		})
	})
})
