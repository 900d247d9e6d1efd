package funding

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dskrobo/earmark/pkg/retrier"
)

// BinanceSource reads free spot balances from a Binance account.
type BinanceSource struct {
	client *binance.Client
	retry  retrier.Retrier
}

func NewBinanceSource(client *binance.Client) *BinanceSource {
	return &BinanceSource{client: client, retry: retrier.Default()}
}

func (s *BinanceSource) Name() string { return "binance" }

func (s *BinanceSource) FreeBalances(ctx context.Context) (map[string]decimal.Decimal, error) {
	account, err := retrier.DoWithData(s.retry, ctx, func(ctx context.Context) (*binance.Account, error) {
		return s.client.NewGetAccountService().Do(ctx)
	})
	if err != nil {
		return nil, errors.Wrap(err, "get binance account balances")
	}

	balances := make(map[string]decimal.Decimal, len(account.Balances))
	for _, b := range account.Balances {
		free, err := decimal.NewFromString(b.Free)
		if err != nil {
			return nil, errors.Wrapf(err, "parse free balance of %s", b.Asset)
		}
		if free.IsPositive() {
			balances[b.Asset] = free
		}
	}

	return balances, nil
}
