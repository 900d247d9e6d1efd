package funding

import (
	"context"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dskrobo/earmark/pkg/retrier"
)

// BybitSource reads wallet balances from a Bybit unified account.
type BybitSource struct {
	client *bybit.Client
	retry  retrier.Retrier
}

func NewBybitSource(client *bybit.Client) *BybitSource {
	return &BybitSource{client: client, retry: retrier.Default()}
}

func (s *BybitSource) Name() string { return "bybit" }

func (s *BybitSource) FreeBalances(ctx context.Context) (map[string]decimal.Decimal, error) {
	res, err := retrier.DoWithData(s.retry, ctx, func(ctx context.Context) (*bybit.V5GetWalletBalanceResponse, error) {
		return s.client.V5().Account().GetWalletBalance(bybit.AccountTypeV5("UNIFIED"), nil)
	})
	if err != nil {
		return nil, errors.Wrap(err, "get bybit wallet balance")
	}

	balances := make(map[string]decimal.Decimal)
	for _, account := range res.Result.List {
		for _, coin := range account.Coin {
			free, err := decimal.NewFromString(coin.WalletBalance)
			if err != nil {
				return nil, errors.Wrapf(err, "parse wallet balance of %s", coin.Coin)
			}
			if free.IsPositive() {
				balances[string(coin.Coin)] = free
			}
		}
	}

	return balances, nil
}
