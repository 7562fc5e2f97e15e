package market

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("market cap ticker", func() {
	It("keeps exactly the configured number of samples", func() {
		for _, ticks := range []int{0, 1, 19, 20, 21, 250} {
			s := NewCapState(24500, 20)
			rng := NewRand(7)
			for i := 0; i < ticks; i++ {
				s = TickMarketCap(s, rng, 150)
				Expect(s.Window).To(HaveLen(20))
				Expect(s.Window[19].Price).To(Equal(s.MarketCap))
			}
			Expect(s.Window).To(HaveLen(20))
		}
	})

	It("appends the next time index and drops the oldest", func() {
		s := NewCapState(100, 3)
		s = TickMarketCap(s, &scripted{floats: []float64{0.5}}, 10)
		Expect(s.MarketCap).To(Equal(105.0))
		Expect(s.Window).To(Equal([]MarketSample{{1, 100}, {2, 100}, {3, 105}}))
	})

	It("never decreases", func() {
		s := NewCapState(1000, 20)
		rng := NewRand(99)
		prev := s.MarketCap
		for i := 0; i < 500; i++ {
			s = TickMarketCap(s, rng, 150)
			Expect(s.MarketCap).To(BeNumerically(">=", prev))
			Expect(s.MarketCap - prev).To(BeNumerically("<", 150))
			prev = s.MarketCap
		}
	})

	It("does not share the window with the previous state", func() {
		a := NewCapState(10, 4)
		b := TickMarketCap(a, &scripted{floats: []float64{0.1}}, 10)
		b.Window[0].Price = -1
		Expect(a.Window[0].Price).To(Equal(10.0))
		Expect(a.Window[1].Price).To(Equal(10.0))
	})

	DescribeTable("progress toward graduation",
		func(cap, want float64) {
			Expect(CapState{MarketCap: cap}.Progress(60000)).To(BeNumerically("~", want, 1e-9))
		},
		Entry("empty", 0.0, 0.0),
		Entry("half", 30000.0, 50.0),
		Entry("at threshold", 60000.0, 100.0),
		Entry("past threshold clamps", 75000.0, 100.0),
	)
})

var _ = Describe("sell tax countdown", func() {
	It("clamps at zero", func() {
		s := TaxState{MinutesRemaining: 48}
		for i := 0; i < 100; i++ {
			s = TickSellTax(s)
			Expect(s.MinutesRemaining).To(BeNumerically(">=", 0))
		}
		Expect(s.MinutesRemaining).To(Equal(0))
	})

	It("counts down one minute per tick", func() {
		Expect(TickSellTax(TaxState{MinutesRemaining: 48}).MinutesRemaining).To(Equal(47))
	})
})

var _ = Describe("key sale simulator", func() {
	It("sells a batch of 3 at 0.0015 per key", func() {
		s := TickKeySale(KeyState{KeysSold: 482, KeyPrice: 0.85}, &scripted{floats: []float64{0.2}, ints: []int{1}}, DefaultKeySaleRule)
		Expect(s.KeysSold).To(Equal(485))
		Expect(s.KeyPrice).To(BeNumerically("~", 0.8545, 1e-12))
	})

	It("skips the tick 30% of the time", func() {
		prev := KeyState{KeysSold: 482, KeyPrice: 0.85}
		Expect(TickKeySale(prev, &scripted{floats: []float64{0.7}}, DefaultKeySaleRule)).To(Equal(prev))
		Expect(TickKeySale(prev, &scripted{floats: []float64{0.95}}, DefaultKeySaleRule)).To(Equal(prev))
	})

	It("keeps batches within [2, 5]", func() {
		for n := 0; n < 4; n++ {
			s := TickKeySale(KeyState{}, &scripted{floats: []float64{0}, ints: []int{n}}, DefaultKeySaleRule)
			Expect(s.KeysSold).To(Equal(2 + n))
		}
	})

	It("is non-decreasing over any sequence", func() {
		s := KeyState{KeysSold: 482, KeyPrice: 0.85}
		rng := NewRand(3)
		for i := 0; i < 1000; i++ {
			next := TickKeySale(s, rng, DefaultKeySaleRule)
			Expect(next.KeysSold).To(BeNumerically(">=", s.KeysSold))
			Expect(next.KeyPrice).To(BeNumerically(">=", s.KeyPrice))
			if next.KeysSold > s.KeysSold {
				Expect(next.KeyPrice).To(BeNumerically(">", s.KeyPrice))
			}
			s = next
		}
	})
})

var _ = Describe("ledger", func() {
	It("keeps the newest entry first", func() {
		var l Ledger
		l.Prepend(Transaction{ID: "a"})
		l.Prepend(Transaction{ID: "b"})
		l.Prepend(Transaction{ID: "c"})
		ids := []string{}
		for _, tx := range l.Entries() {
			ids = append(ids, tx.ID)
		}
		Expect(ids).To(Equal([]string{"c", "b", "a"}))
		Expect(l.Len()).To(Equal(3))
	})

	It("hands out copies", func() {
		var l Ledger
		l.Prepend(Transaction{ID: "a"})
		l.Entries()[0].ID = "mutated"
		Expect(l.Entries()[0].ID).To(Equal("a"))
	})

	DescribeTable("amount formatting",
		func(sign byte, v float64, sym, want string) {
			Expect(FormatAmount(sign, v, sym)).To(Equal(want))
		},
		Entry("swap", byte('+'), 14020.5, "LMT", "+14,020.5 LMT"),
		Entry("fee", byte('-'), 0.05, "SOL", "-0.05 SOL"),
		Entry("whole", byte('+'), 250.0, "LMT", "+250 LMT"),
		Entry("long tail", byte('-'), 0.8545*3, "SOL", "-2.5635 SOL"),
	)
})
