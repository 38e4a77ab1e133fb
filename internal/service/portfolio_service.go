package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"log"
	"slices"
	"strconv"

	"github.com/ndewijer/stock-ledger/internal/accounting"
	"github.com/ndewijer/stock-ledger/internal/apperrors"
	"github.com/ndewijer/stock-ledger/internal/model"
	"github.com/ndewijer/stock-ledger/internal/repository"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

// PortfolioService derives the portfolio views from the ledger and the price map.
//
// Every view is computed by the accounting engine from a full snapshot of both
// inputs. Snapshots are memoized in the cache under a digest of their inputs,
// so any change to the ledger or the prices produces a new key and stale
// entries simply expire.
type PortfolioService struct {
	transactionRepo *repository.TransactionRepository
	priceRepo       *repository.PriceRepository
	cache           *cache.Cache
}

// NewPortfolioService creates a new PortfolioService.
// A nil cache disables memoization.
func NewPortfolioService(
	transactionRepo *repository.TransactionRepository,
	priceRepo *repository.PriceRepository,
	dashboardCache *cache.Cache,
) *PortfolioService {
	return &PortfolioService{
		transactionRepo: transactionRepo,
		priceRepo:       priceRepo,
		cache:           dashboardCache,
	}
}

// portfolioSnapshot is the unfiltered engine output for one ledger and price map.
type portfolioSnapshot struct {
	dashboard        model.Dashboard
	realizedByTicker map[string]float64
}

// GetDashboard returns the full derived view of the portfolio.
// The filter narrows the transaction rows only; summaries, history and totals
// always cover the whole ledger.
func (s *PortfolioService) GetDashboard(ctx context.Context, filter model.TransactionFilter) (model.Dashboard, error) {
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return model.Dashboard{}, err
	}

	dashboard := snapshot.dashboard
	if !filter.IsEmpty() {
		dashboard.Transactions = filterRows(dashboard.Transactions, filter)
	}
	return dashboard, nil
}

// GetOverview returns the per-ticker summaries and the portfolio totals.
func (s *PortfolioService) GetOverview(ctx context.Context) (model.PortfolioOverview, error) {
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return model.PortfolioOverview{}, err
	}
	return model.PortfolioOverview{
		Summaries: snapshot.dashboard.Summaries,
		Totals:    snapshot.dashboard.Totals,
	}, nil
}

// GetHistory returns the portfolio cost and value per transaction date.
func (s *PortfolioService) GetHistory(ctx context.Context) ([]model.PortfolioHistoryPoint, error) {
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.dashboard.History, nil
}

// GetSalesSummary returns the aggregate of every sell in the ledger.
func (s *PortfolioService) GetSalesSummary(ctx context.Context) (model.SalesSummary, error) {
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return model.SalesSummary{}, err
	}
	return snapshot.dashboard.SalesSummary, nil
}

// GetTickerDetail returns the drill-down view of one ticker.
// Returns apperrors.ErrTickerNotFound if the ledger has no row for it.
func (s *PortfolioService) GetTickerDetail(ctx context.Context, ticker string) (model.TickerDetail, error) {
	ticker = normalizeTicker(ticker)

	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return model.TickerDetail{}, err
	}

	idx := slices.IndexFunc(snapshot.dashboard.Summaries, func(summary model.StockSummary) bool {
		return summary.Ticker == ticker
	})
	if idx < 0 {
		return model.TickerDetail{}, apperrors.ErrTickerNotFound
	}

	return model.TickerDetail{
		Summary:       snapshot.dashboard.Summaries[idx],
		Transactions:  filterRows(snapshot.dashboard.Transactions, model.TransactionFilter{Ticker: ticker}),
		RealizedGains: snapshot.realizedByTicker[ticker],
	}, nil
}

// loadSnapshot reads the ledger and the price map concurrently and returns the
// engine output for them, from the cache when the inputs are unchanged.
func (s *PortfolioService) loadSnapshot(ctx context.Context) (*portfolioSnapshot, error) {
	var (
		transactions []model.Transaction
		prices       model.PriceMap
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.transactionRepo.ListTransactions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		prices, err = s.priceRepo.GetPriceMap(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	key := snapshotKey(transactions, prices)
	if s.cache != nil {
		if cached, found := s.cache.Get(key); found {
			return cached.(*portfolioSnapshot), nil
		}
	}

	snapshot := computeSnapshot(transactions, prices)
	if s.cache != nil {
		s.cache.Set(key, snapshot, cache.DefaultExpiration)
	}
	return snapshot, nil
}

// computeSnapshot runs the accounting engine over one ledger and price map.
func computeSnapshot(transactions []model.Transaction, prices model.PriceMap) *portfolioSnapshot {
	summaries := accounting.ComputeSummaries(transactions, prices)
	realized := accounting.ComputeRealizedGains(transactions)

	oversells := accounting.DetectOversells(transactions)
	for _, o := range oversells {
		log.Printf("Warning: sell %s of %s on %s exceeds holdings (requested %g, held %g)",
			o.TransactionID, o.Ticker, o.Date, o.Requested, o.Held)
	}

	return &portfolioSnapshot{
		dashboard: model.Dashboard{
			Summaries:     summaries,
			Transactions:  accounting.ComputeTransactionsWithPL(transactions, prices),
			History:       accounting.ComputeHistory(transactions, prices),
			Totals:        accounting.ComputeTotals(summaries, realized),
			RealizedGains: realized,
			SalesSummary:  accounting.ComputeSalesSummary(transactions),
			Allocation:    accounting.ComputeAllocation(summaries),
			Oversells:     oversells,
		},
		realizedByTicker: accounting.ComputeRealizedGainsByTicker(transactions),
	}
}

// filterRows returns the rows matching filter in a new slice.
func filterRows(rows []model.TransactionWithPL, filter model.TransactionFilter) []model.TransactionWithPL {
	filtered := []model.TransactionWithPL{}
	for _, row := range rows {
		if filter.Matches(row.Transaction) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// snapshotKey digests the ledger rows in order and the prices sorted by ticker.
func snapshotKey(transactions []model.Transaction, prices model.PriceMap) string {
	h := sha256.New()
	for _, t := range transactions {
		writeField(h, t.ID)
		writeField(h, t.Date)
		writeField(h, t.Ticker)
		writeFloat(h, t.Quantity)
		writeFloat(h, t.Price)
		writeFloat(h, t.Commission)
	}
	writeField(h, "prices")

	tickers := make([]string, 0, len(prices))
	for ticker := range prices {
		tickers = append(tickers, ticker)
	}
	slices.Sort(tickers)
	for _, ticker := range tickers {
		writeField(h, ticker)
		writeFloat(h, prices[ticker])
	}

	return "dashboard:" + hex.EncodeToString(h.Sum(nil))
}

func writeField(h hash.Hash, v string) {
	fmt.Fprintf(h, "%d:%s|", len(v), v)
}

func writeFloat(h hash.Hash, v float64) {
	writeField(h, strconv.FormatFloat(v, 'g', -1, 64))
}
