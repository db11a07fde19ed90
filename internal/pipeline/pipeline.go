package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rickgao/raritywatch/internal/journal"
	"github.com/rickgao/raritywatch/internal/model"
	"github.com/rickgao/raritywatch/internal/notify"
	"github.com/rickgao/raritywatch/internal/rarity"
	"github.com/rickgao/raritywatch/internal/stream"
	"github.com/shopspring/decimal"
)

// Streamer runs one stream session per call.
type Streamer interface {
	Run(ctx context.Context, handler stream.Handler) error
}

// MetadataSource fetches NFT traits. A false result means absent.
type MetadataSource interface {
	GetMetadata(ctx context.Context, chain, contract, tokenID string) (*model.NFTMetadata, bool)
}

// Notifier delivers formatted alerts.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Recorder journals alert attempts.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) (uuid.UUID, error)
}

// Config holds pipeline configuration.
type Config struct {
	Collection     string             // collection slug, journaled with each alert
	Chain          string             // chain for metadata lookups (default: base)
	Contract       string             // collection contract address
	RareTraits     model.RareTraitSet // trait types that trigger an alert
	ReconnectDelay time.Duration      // fixed wait between sessions (default: 5s)
}

// DefaultReconnectDelay is the wait between stream sessions.
const DefaultReconnectDelay = 5 * time.Second

// Deps are the collaborators the pipeline drives. Journal may be nil.
type Deps struct {
	Stream   Streamer
	Metadata MetadataSource
	Notifier Notifier
	Journal  Recorder
}

// Stats are cumulative pipeline counters.
type Stats struct {
	Sessions int64 // stream sessions started
	Listings int64 // listings with a usable token id
	Skipped  int64 // item_listed events without a token id
	Matches  int64 // listings with at least one rare trait
	Notified int64 // alerts delivered
	Failed   int64 // alerts the sink rejected
	Panics   int64 // listings aborted by a recovered panic
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSleep replaces the reconnect wait. Tests use it to avoid real delays.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Pipeline) {
		p.sleep = sleep
	}
}

// Pipeline turns item_listed events into rarity alerts.
type Pipeline struct {
	cfg    Config
	deps   Deps
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error

	sessions atomic.Int64
	listings atomic.Int64
	skipped  atomic.Int64
	matches  atomic.Int64
	notified atomic.Int64
	failed   atomic.Int64
	panics   atomic.Int64
}

// New creates a pipeline. It does not connect.
func New(cfg Config, deps Deps, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Chain == "" {
		cfg.Chain = "base"
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}

	p := &Pipeline{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		sleep:  sleepContext,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Stats returns cumulative counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Sessions: p.sessions.Load(),
		Listings: p.listings.Load(),
		Skipped:  p.skipped.Load(),
		Matches:  p.matches.Load(),
		Notified: p.notified.Load(),
		Failed:   p.failed.Load(),
		Panics:   p.panics.Load(),
	}
}

// Run opens stream sessions until ctx is cancelled, waiting the fixed
// reconnect delay after each one ends. It returns nil on shutdown.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started",
		"collection", p.cfg.Collection,
		"rare_traits", p.cfg.RareTraits.String(),
		"reconnect_delay", p.cfg.ReconnectDelay,
	)

	for {
		p.sessions.Add(1)
		err := p.deps.Stream.Run(ctx, p.handleEvent)
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopped")
			return nil
		}

		p.logger.Warn("stream session ended, reconnecting",
			"error", err,
			"delay", p.cfg.ReconnectDelay,
			"sessions", p.sessions.Load(),
		)

		if err := p.sleep(ctx, p.cfg.ReconnectDelay); err != nil {
			p.logger.Info("pipeline stopped")
			return nil
		}
	}
}

func (p *Pipeline) handleEvent(ctx context.Context, ev stream.Event) {
	p.HandleListing(ctx, ev.Payload)
}

// HandleListing processes one item_listed payload. Nothing escapes it:
// failures are logged and counted and the caller moves on to the next event.
func (p *Pipeline) HandleListing(ctx context.Context, payload json.RawMessage) {
	defer func() {
		if r := recover(); r != nil {
			p.panics.Add(1)
			p.logger.Error("panic handling listing",
				"panic", fmt.Sprint(r),
				"payload_size", len(payload),
				"stack", string(debug.Stack()),
			)
		}
	}()

	listing, ok := model.ExtractListing(payload)
	if !ok {
		p.skipped.Add(1)
		p.logger.Debug("listing has no token id, skipping")
		return
	}
	p.listings.Add(1)

	logger := p.logger.With("token_id", listing.TokenID)
	if _, err := model.ParsePrice(listing.PriceWei); err != nil && listing.PriceWei != "" {
		logger.Warn("listing price is not numeric, using 0", "price", listing.PriceWei, "error", err)
	}
	priceETH := model.FormatPrice(listing.PriceWei)

	var traits []model.NFTTrait
	if meta, ok := p.deps.Metadata.GetMetadata(ctx, p.cfg.Chain, p.cfg.Contract, listing.TokenID); ok {
		traits = meta.Traits
	} else {
		logger.Warn("metadata unavailable, treating traits as empty")
	}

	if !rarity.HasRareTraits(traits, p.cfg.RareTraits) {
		logger.Debug("listing has no rare traits", "price_eth", priceETH, "traits", len(traits))
		return
	}
	p.matches.Add(1)
	rare := rarity.Matching(traits, p.cfg.RareTraits)

	text := notify.FormatAlert(notify.Alert{
		TokenID:    listing.TokenID,
		PriceETH:   priceETH,
		RareTraits: rare,
		Contract:   p.cfg.Contract,
	})

	delivered := true
	if err := p.deps.Notifier.Send(ctx, text); err != nil {
		delivered = false
		p.failed.Add(1)
		logger.Error("failed to send alert", "price_eth", priceETH, "error", err)
	} else {
		p.notified.Add(1)
		logger.Info("rare listing alert sent", "price_eth", priceETH, "rare_traits", len(rare))
	}

	p.record(ctx, logger, listing, rare, delivered)
}

// record journals an alert attempt when a journal is configured.
func (p *Pipeline) record(ctx context.Context, logger *slog.Logger, listing model.ListingData, rare []model.NFTTrait, delivered bool) {
	if p.deps.Journal == nil {
		return
	}

	price, err := model.ParsePrice(listing.PriceWei)
	if err != nil {
		price = decimal.Zero
	}

	_, err = p.deps.Journal.Record(ctx, journal.Entry{
		Collection: p.cfg.Collection,
		TokenID:    listing.TokenID,
		PriceETH:   price,
		Traits:     rare,
		Delivered:  delivered,
	})
	if err != nil {
		logger.Warn("failed to journal alert", "error", err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
