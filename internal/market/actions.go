package market

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OnConnect attaches a wallet provider and records a YIELD entry. The connection
// airdrop is credited on the first connection of the session only.
func (e *Engine) OnConnect(providerID string) bool {
	ok, err := e.connect(providerID)
	if err != nil {
		e.logger.Debug("connect rejected", zap.String("provider", providerID), zap.Error(err))
	}
	return ok
}

func (e *Engine) connect(providerID string) (bool, error) {
	if providerID == "" {
		return false, ErrNoProvider
	}
	return e.mutate(func() bool {
		credit := 0.0
		if e.airdrops == 0 {
			credit = e.params.ConnectAirdrop
			e.airdrops++
		}
		e.wallet.Provider = providerID
		e.wallet.Token = e.wallet.Token.Add(decimal.NewFromFloat(credit))
		tx := e.record(TxYield, FormatAmount('+', credit, e.params.TokenSymbol))
		e.logger.Info("wallet connected", zap.String("provider", providerID), zap.String("tx", tx.ID))
		return true
	}), nil
}

// OnSwap trades native for token at a caller-quoted amount. It returns false and changes
// nothing when native is not positive or exceeds the native balance.
func (e *Engine) OnSwap(native, token float64) bool {
	if native <= 0 || token < 0 {
		e.logger.Debug("swap rejected", zap.Float64("native", native), zap.Error(ErrInvalidAmount))
		return false
	}
	amt := decimal.NewFromFloat(native)
	ok := e.mutate(func() bool {
		if amt.GreaterThan(e.wallet.Native) {
			return false
		}
		e.wallet.Native = e.wallet.Native.Sub(amt)
		e.wallet.Token = e.wallet.Token.Add(decimal.NewFromFloat(token))
		tx := e.record(TxSwap, FormatAmount('+', token, e.params.TokenSymbol))
		e.logger.Info("swap", zap.Float64("native", native), zap.Float64("token", token), zap.String("tx", tx.ID))
		return true
	})
	if !ok {
		e.logger.Debug("swap rejected", zap.Float64("native", native), zap.Error(ErrInsufficientBalance))
	}
	return ok
}

// OnTradeKeys buys or sells quantity keys for totalValue in native currency. Buying needs
// the native balance, selling needs the keys. On failure nothing changes.
func (e *Engine) OnTradeKeys(action KeyAction, quantity int, totalValue float64) bool {
	if quantity <= 0 || totalValue < 0 || (action != Buy && action != Sell) {
		e.logger.Debug("key trade rejected", zap.String("action", string(action)), zap.Error(ErrInvalidAmount))
		return false
	}
	total := decimal.NewFromFloat(totalValue)
	ok := e.mutate(func() bool {
		switch action {
		case Buy:
			if total.GreaterThan(e.wallet.Native) {
				return false
			}
			e.wallet.Native = e.wallet.Native.Sub(total)
			e.wallet.Keys += quantity
			e.record(TxBuyKeys, FormatAmount('-', totalValue, e.params.NativeSymbol))
		case Sell:
			if quantity > e.wallet.Keys {
				return false
			}
			e.wallet.Native = e.wallet.Native.Add(total)
			e.wallet.Keys -= quantity
			e.record(TxSellKeys, FormatAmount('+', totalValue, e.params.NativeSymbol))
		}
		return true
	})
	if !ok {
		e.logger.Debug("key trade rejected", zap.String("action", string(action)), zap.Int("quantity", quantity), zap.Error(ErrInsufficientBalance))
	}
	return ok
}

// OnDeploy charges the deploy fee and records the deployment.
func (e *Engine) OnDeploy() bool {
	fee := decimal.NewFromFloat(e.params.DeployFee)
	ok := e.mutate(func() bool {
		if fee.GreaterThan(e.wallet.Native) {
			return false
		}
		e.wallet.Native = e.wallet.Native.Sub(fee)
		tx := e.record(TxDeploy, FormatAmount('-', e.params.DeployFee, e.params.NativeSymbol))
		e.logger.Info("deployed", zap.String("tx", tx.ID))
		return true
	})
	if !ok {
		e.logger.Debug("deploy rejected", zap.Error(ErrInsufficientBalance))
	}
	return ok
}

// QuoteKeys prices quantity keys at the current key price.
func (e *Engine) QuoteKeys(quantity int) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if quantity <= 0 {
		return 0
	}
	return e.keys.KeyPrice * float64(quantity)
}
