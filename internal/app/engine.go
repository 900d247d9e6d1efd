package app

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dskrobo/earmark/config"
	"github.com/dskrobo/earmark/internal/balances"
	"github.com/dskrobo/earmark/internal/clients"
	"github.com/dskrobo/earmark/internal/entity"
	"github.com/dskrobo/earmark/internal/events"
	"github.com/dskrobo/earmark/internal/services/funding"
	"github.com/dskrobo/earmark/internal/storage/reservations"
)

// Engine wires the reservation manager to exchange accounts, the event
// broadcaster and the reservation journal, and runs the audit loop.
type Engine struct {
	cfg         config.Config
	log         *zap.Logger
	ledger      *balances.Ledger
	manager     *balances.Manager
	symbols     map[string]*entity.SymbolInfo
	sources     map[string]funding.Source
	broadcaster *events.ReservationBroadcaster
	journal     *reservations.WALStore
}

// NewEngine builds all engine components from the configuration. Exchange API
// credentials are read from the environment.
func NewEngine(cfg config.Config, log *zap.Logger) (*Engine, error) {
	sources := make(map[string]funding.Source, len(cfg.Exchanges))
	for _, ex := range cfg.Exchanges {
		source, err := newSource(ex)
		if err != nil {
			return nil, err
		}
		sources[ex.AccountID] = source
	}

	symbols := make(map[string]*entity.SymbolInfo, len(cfg.Symbols))
	for _, sc := range cfg.Symbols {
		info, err := entity.NewSymbolInfo(sc.Pair, sc.AmountTick, sc.MinAmount, sc.MinCost, sc.MarginCurrency)
		if err != nil {
			return nil, errors.Wrapf(err, "symbol %s", sc.Pair.String())
		}
		symbols[sc.Pair.String()] = info
	}

	journal, err := reservations.NewWALStore(cfg.JournalDir)
	if err != nil {
		return nil, err
	}

	clock := balances.SystemClock()
	broadcaster := events.NewReservationBroadcaster(256)
	ledger := balances.NewLedger()
	manager := balances.NewManager(ledger, balances.DefaultReservationCurrency, clock,
		newEventRecorder(broadcaster, clock), log.Named("balances"))

	return &Engine{
		cfg:         cfg,
		log:         log,
		ledger:      ledger,
		manager:     manager,
		symbols:     symbols,
		sources:     sources,
		broadcaster: broadcaster,
		journal:     journal,
	}, nil
}

func newSource(ex config.ExchangeConfig) (funding.Source, error) {
	switch ex.Platform {
	case "binance":
		apiKey, apiSecret := os.Getenv("BINANCE_API_KEY"), os.Getenv("BINANCE_API_SECRET")
		if apiKey == "" || apiSecret == "" {
			return nil, errors.New("BINANCE_API_KEY and BINANCE_API_SECRET environment variables must be set")
		}
		return funding.NewBinanceSource(clients.NewBinanceClient(apiKey, apiSecret)), nil
	case "bybit":
		apiKey, apiSecret := os.Getenv("BYBIT_API_KEY"), os.Getenv("BYBIT_API_SECRET")
		if apiKey == "" || apiSecret == "" {
			return nil, errors.New("BYBIT_API_KEY and BYBIT_API_SECRET environment variables must be set")
		}
		return funding.NewBybitSource(clients.NewBybitClient(apiKey, apiSecret)), nil
	case "hyperliquid":
		privateKey := os.Getenv("HYPERLIQUID_PRIVATE_KEY")
		if privateKey == "" {
			return nil, errors.New("HYPERLIQUID_PRIVATE_KEY environment variable must be set")
		}
		client, err := clients.NewHyperliquidClient(privateKey, os.Getenv("HYPERLIQUID_BASE_URL"))
		if err != nil {
			return nil, err
		}
		return funding.NewHyperliquidSource(client), nil
	default:
		return nil, errors.Errorf("unsupported platform %q", ex.Platform)
	}
}

// Manager exposes the canonical balance manager to strategies and the order
// pipeline.
func (e *Engine) Manager() *balances.Manager { return e.manager }

// Symbol returns the configured instrument metadata for a pair.
func (e *Engine) Symbol(pair entity.Pair) (*entity.SymbolInfo, bool) {
	info, ok := e.symbols[pair.String()]
	return info, ok
}

// Events exposes the reservation event broadcaster.
func (e *Engine) Events() *events.ReservationBroadcaster { return e.broadcaster }

// Run seeds the ledger, pumps reservation events into the journal, and audits
// exchange balances until the context is done.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.seedLedger(); err != nil {
		return errors.Wrap(err, "seed ledger")
	}

	sub := e.broadcaster.Subscribe()
	defer e.broadcaster.Unsubscribe(sub)
	go e.pumpJournal(sub)

	ticker := time.NewTicker(e.cfg.AuditInterval)
	defer ticker.Stop()

	e.log.Info("engine started",
		zap.Int("exchanges", len(e.sources)),
		zap.Int("allocations", len(e.cfg.Allocations)),
		zap.Duration("audit_interval", e.cfg.AuditInterval))

	for {
		select {
		case <-ctx.Done():
			if err := e.journal.Close(); err != nil {
				e.log.Error("close reservation journal", zap.Error(err))
			}
			return ctx.Err()
		case <-ticker.C:
			e.audit(ctx)
		}
	}
}

// seedLedger credits each configured allocation into the available-balance
// ledger. Allocations are the only funds the engine will ever reserve.
func (e *Engine) seedLedger() error {
	for _, a := range e.cfg.Allocations {
		req := entity.BalanceRequest{
			Descriptor:        a.Descriptor,
			ExchangeAccountID: a.ExchangeAccountID,
			CurrencyPair:      a.Pair,
			CurrencyCode:      a.Currency,
		}
		e.ledger.AddAmount(req, a.Amount)

		e.log.Info("allocation seeded",
			zap.String("descriptor", a.Descriptor.String()),
			zap.String("exchange", a.ExchangeAccountID),
			zap.String("pair", a.Pair.String()),
			zap.String("currency", a.Currency),
			zap.String("amount", a.Amount.String()))
	}
	return nil
}

func (e *Engine) pumpJournal(sub chan events.ReservationEvent) {
	for ev := range sub {
		if err := e.journal.Save(ev); err != nil {
			e.log.Error("journal reservation event",
				zap.String("kind", string(ev.Kind)),
				zap.Int64("reservation_id", ev.ReservationID),
				zap.Error(err))
		}
	}
}

// audit compares exchange free balances against the allocations configured on
// that account and warns on underfunding. The ledger is never mutated here:
// it stays the single source of truth for availability.
func (e *Engine) audit(ctx context.Context) {
	for accountID, source := range e.sources {
		free, err := source.FreeBalances(ctx)
		if err != nil {
			e.log.Warn("balance audit failed",
				zap.String("exchange", accountID),
				zap.String("platform", source.Name()),
				zap.Error(err))
			continue
		}

		for currency, allocated := range e.allocatedByCurrency(accountID) {
			exchangeFree := free[currency]
			if exchangeFree.LessThan(allocated) {
				e.log.Warn("exchange balance below configured allocation",
					zap.String("exchange", accountID),
					zap.String("currency", currency),
					zap.String("allocated", allocated.String()),
					zap.String("exchange_free", exchangeFree.String()))
			}
		}
	}
}

func (e *Engine) allocatedByCurrency(accountID string) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, a := range e.cfg.Allocations {
		if a.ExchangeAccountID != accountID {
			continue
		}
		totals[a.Currency] = totals[a.Currency].Add(a.Amount)
	}
	return totals
}
