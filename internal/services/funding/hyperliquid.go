package funding

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	hyperliquid "github.com/sonirico/go-hyperliquid"

	"github.com/dskrobo/earmark/internal/clients"
	"github.com/dskrobo/earmark/pkg/retrier"
)

// HyperliquidSource reads spot balances for the account derived from the
// signing key.
type HyperliquidSource struct {
	info        *hyperliquid.Info
	accountAddr string
	retry       retrier.Retrier
}

func NewHyperliquidSource(client *clients.HyperliquidClient) *HyperliquidSource {
	return &HyperliquidSource{
		info:        client.Exchange().Info(),
		accountAddr: client.AccountAddress(),
		retry:       retrier.Default(),
	}
}

func (s *HyperliquidSource) Name() string { return "hyperliquid" }

func (s *HyperliquidSource) FreeBalances(ctx context.Context) (map[string]decimal.Decimal, error) {
	balances := make(map[string]decimal.Decimal)

	err := s.retry.Do(ctx, func(ctx context.Context) error {
		st, err := s.info.SpotUserState(ctx, s.accountAddr)
		if err != nil {
			return err
		}

		for _, b := range st.Balances {
			total, err := decimal.NewFromString(b.Total)
			if err != nil {
				return errors.Wrapf(err, "parse balance of %s", b.Coin)
			}
			if total.IsPositive() {
				balances[b.Coin] = total
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "get hyperliquid spot state")
	}

	return balances, nil
}
