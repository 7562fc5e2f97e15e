package market

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Ensemble", func() {
	It("runs one result per seed", func() {
		rs, err := NewEnsemble(DefaultParams(), 4, 10).Run(context.Background(), time.Minute)
		Expect(err).NotTo(HaveOccurred())
		Expect(rs).To(HaveLen(4))
		for i, r := range rs {
			Expect(r.Seed).To(Equal(uint64(10 + i)))
			Expect(r.Final.Window[len(r.Final.Window)-1].Time).To(Equal(19 + 60))
			Expect(r.Final.SellTaxMinutes).To(Equal(47))
		}
	})

	It("is reproducible per seed", func() {
		a, err := NewEnsemble(DefaultParams(), 2, 5).Run(context.Background(), 30*time.Second)
		Expect(err).NotTo(HaveOccurred())
		b, err := NewEnsemble(DefaultParams(), 2, 5).Run(context.Background(), 30*time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(a[1].Final.MarketCap).To(Equal(b[1].Final.MarketCap))
		Expect(a[1].Final.KeysSold).To(Equal(b[1].Final.KeysSold))
	})

	It("records when a run graduates", func() {
		p := DefaultParams()
		p.InitialMarketCap = p.GraduationThreshold - 1
		rs, err := NewEnsemble(p, 3, 1).Run(context.Background(), 10*time.Second)
		Expect(err).NotTo(HaveOccurred())
		times := GraduationTimes(rs)
		Expect(len(times)).To(BeNumerically(">=", 1))
		for _, t := range times {
			Expect(t).To(BeNumerically(">", 0))
			Expect(t).To(BeNumerically("<=", 10*time.Second))
		}
	})

	It("stops on cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewEnsemble(DefaultParams(), 2, 1).Run(ctx, time.Hour)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("rejects an empty ensemble", func() {
		_, err := NewEnsemble(DefaultParams(), 0, 1).Run(context.Background(), time.Second)
		Expect(err).To(MatchError(ErrInvalidAmount))
	})
})
