package accounting

import "github.com/ndewijer/stock-ledger/internal/model"

// positionState is the running average-cost state of one ticker during a replay.
type positionState struct {
	remainingShares float64
	costBasis       float64
}

// sale is the outcome of replaying one sell transaction.
type sale struct {
	transaction model.Transaction
	held        float64 // Shares held before the sale
	sharesSold  float64 // Shares the sale was recognized for
	costBasis   float64 // Basis removed for the recognized shares
	realizedPL  float64
}

// replaySales walks the ledger chronologically under average-cost accounting
// and calls onSale for every sell transaction.
//
// A buy adds its shares and quantity*price + commission to the basis.
// A sell is recognized for at most the shares currently held; when nothing is
// held it realizes nothing and leaves the state untouched. Once a sale empties
// the position the basis is reset to 0 instead of carrying rounding residue.
func replaySales(transactions []model.Transaction, onSale func(sale)) {
	states := make(map[string]*positionState)

	for _, t := range sortChronologically(transactions) {
		state, ok := states[t.Ticker]
		if !ok {
			state = &positionState{}
			states[t.Ticker] = state
		}

		if t.IsBuy() {
			state.remainingShares += t.Quantity
			state.costBasis += t.Quantity*t.Price + t.Commission
			continue
		}
		if !t.IsSell() {
			continue
		}

		s := sale{transaction: t, held: state.remainingShares}
		if state.remainingShares <= 0 {
			onSale(s)
			continue
		}

		avgCostPerShare := state.costBasis / state.remainingShares
		s.sharesSold = min(abs(t.Quantity), state.remainingShares)
		s.costBasis = s.sharesSold * avgCostPerShare
		s.realizedPL = s.sharesSold*t.Price - t.Commission - s.costBasis

		state.remainingShares -= s.sharesSold
		if state.remainingShares > 0 {
			state.costBasis -= s.costBasis
		} else {
			state.costBasis = 0
		}

		onSale(s)
	}
}

// ComputeRealizedGains returns the realized gain/loss of the whole ledger
// under a single running average cost per ticker.
//
// Sales of shares that are not held realize nothing, and the part of a sale
// exceeding the held shares is ignored. DetectOversells reports both cases.
func ComputeRealizedGains(transactions []model.Transaction) float64 {
	var total float64
	replaySales(transactions, func(s sale) {
		total += s.realizedPL
	})
	return total
}

// ComputeRealizedGainsByTicker returns the realized gain/loss per ticker.
// Tickers without any sell are absent from the result.
func ComputeRealizedGainsByTicker(transactions []model.Transaction) map[string]float64 {
	gains := make(map[string]float64)
	replaySales(transactions, func(s sale) {
		gains[s.transaction.Ticker] += s.realizedPL
	})
	return gains
}

// DetectOversells lists, in chronological order, every sell that asked for
// more shares than were held at that point of the ledger.
func DetectOversells(transactions []model.Transaction) []model.Oversell {
	oversells := []model.Oversell{}
	replaySales(transactions, func(s sale) {
		requested := abs(s.transaction.Quantity)
		held := max(0, s.held)
		if requested <= held {
			return
		}
		oversells = append(oversells, model.Oversell{
			TransactionID: s.transaction.ID,
			Ticker:        s.transaction.Ticker,
			Date:          s.transaction.Date,
			Requested:     requested,
			Held:          held,
			Excess:        requested - held,
		})
	})
	return oversells
}
