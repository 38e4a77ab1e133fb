package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ndewijer/stock-ledger/internal/accounting"
	"github.com/ndewijer/stock-ledger/internal/apperrors"
	"github.com/ndewijer/stock-ledger/internal/model"
	"github.com/ndewijer/stock-ledger/internal/repository"
	"github.com/ndewijer/stock-ledger/internal/yahoo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// maxConcurrentLookups bounds the number of in-flight Yahoo requests during a refresh.
const maxConcurrentLookups = 4

// PriceService maintains the current price map: manual prices and refreshes from Yahoo Finance.
type PriceService struct {
	priceRepo       *repository.PriceRepository
	transactionRepo *repository.TransactionRepository
	yahooClient     yahoo.Client
	limiter         *rate.Limiter
}

// NewPriceService creates a new PriceService.
// A nil limiter disables rate limiting of Yahoo lookups.
func NewPriceService(
	priceRepo *repository.PriceRepository,
	transactionRepo *repository.TransactionRepository,
	yahooClient yahoo.Client,
	limiter *rate.Limiter,
) *PriceService {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &PriceService{
		priceRepo:       priceRepo,
		transactionRepo: transactionRepo,
		yahooClient:     yahooClient,
		limiter:         limiter,
	}
}

// ListPrices returns every stored price ordered by ticker.
func (s *PriceService) ListPrices(ctx context.Context) ([]model.CurrentPrice, error) {
	return s.priceRepo.ListPrices(ctx)
}

// SetPrice stores a manual price for a ticker. The price must already be validated.
func (s *PriceService) SetPrice(ctx context.Context, ticker string, price float64) (model.CurrentPrice, error) {
	p := model.CurrentPrice{
		Ticker:    normalizeTicker(ticker),
		Price:     price,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.priceRepo.UpsertPrice(ctx, p); err != nil {
		return model.CurrentPrice{}, err
	}
	return p, nil
}

// DeletePrice removes the stored price of a ticker.
func (s *PriceService) DeletePrice(ctx context.Context, ticker string) error {
	return s.priceRepo.DeletePrice(ctx, normalizeTicker(ticker))
}

// RefreshPrices fetches the latest close of every ticker in the ledger and stores it.
//
// Lookups run concurrently, bounded by maxConcurrentLookups and the rate limiter.
// A failed lookup is recorded in the result's Failed map and does not abort the
// refresh. Only storage errors and context cancellation are returned as errors.
func (s *PriceService) RefreshPrices(ctx context.Context) (model.PriceRefreshResult, error) {
	transactions, err := s.transactionRepo.ListTransactions(ctx)
	if err != nil {
		return model.PriceRefreshResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRefreshPrices, err)
	}
	tickers := accounting.Tickers(transactions)

	result := model.PriceRefreshResult{
		Updated: []model.CurrentPrice{},
		Failed:  map[string]string{},
	}
	fetched := make([]*model.CurrentPrice, len(tickers))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	for i, ticker := range tickers {
		i, ticker := i, ticker
		g.Go(func() error {
			if err := s.limiter.Wait(gctx); err != nil {
				return err
			}
			price, err := s.fetchLatestPrice(gctx, ticker)
			if err != nil {
				log.Printf("price refresh for %s failed: %v", ticker, err)
				mu.Lock()
				result.Failed[ticker] = err.Error()
				mu.Unlock()
				return nil
			}
			fetched[i] = &model.CurrentPrice{
				Ticker:    ticker,
				Price:     price,
				UpdatedAt: time.Now().UTC(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.PriceRefreshResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRefreshPrices, err)
	}

	for _, p := range fetched {
		if p == nil {
			continue
		}
		if err := s.priceRepo.UpsertPrice(ctx, *p); err != nil {
			return model.PriceRefreshResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRefreshPrices, err)
		}
		result.Updated = append(result.Updated, *p)
	}

	log.Printf("price refresh: %d updated, %d failed", len(result.Updated), len(result.Failed))
	return result, nil
}

func (s *PriceService) fetchLatestPrice(ctx context.Context, ticker string) (float64, error) {
	response, err := s.yahooClient.QueryFiveDaySymbol(ctx, ticker)
	if err != nil {
		return 0, err
	}
	chart, err := s.yahooClient.ParseChart(response)
	if err != nil {
		return 0, err
	}
	price, ok := chart.LatestPrice()
	if !ok {
		return 0, fmt.Errorf("%w: no usable close for %s", apperrors.ErrSymbolNotFound, ticker)
	}
	return price, nil
}
