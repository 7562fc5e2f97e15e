// Package market fabricates the dashboard feeds: a bonding-curve market cap, a sell-tax
// countdown, a key market, a wallet and a transaction ledger.
//
// Every periodic update is a pure reducer over the latest state:
//
//   - [TickMarketCap]: random non-negative increment plus a fixed-length sample window
//   - [TickSellTax]: one-minute countdown floored at zero
//   - [TickKeySale]: probabilistic key batch sale with a rising price
//
// [Engine] owns the state, drives the reducers from independent tickers and exposes the
// user actions (connect, swap, trade keys, deploy). All randomness goes through [Rand] so
// runs can be replayed exactly.
//
// Nothing here touches a real chain; every number is display data for one session.
package market
