package domain

import (
	"fmt"
	"time"

	"custody-ledger/shared"
)

// DefaultStaleness is the maximum age of a price reading before it is
// rejected as unusable. One hour balances oracle update cadence against
// exposure to stale-price exploitation.
const DefaultStaleness = time.Hour

// PriceQuote is the raw reading from an external price source: a unit price
// in the accounting currency at the source's native precision.
type PriceQuote struct {
	Price     int64
	UpdatedAt time.Time
	Precision uint32
}

// PriceFeed is the read-only external price source. Implementations are
// untrusted and may re-enter the system; callers must complete their own
// state mutation before consulting it.
type PriceFeed interface {
	LatestPrice(source shared.SourceID) (PriceQuote, error)
}

// OracleGateway validates raw feed readings and converts them to accounting
// precision. It holds no cache: every valuation re-reads the feed so a
// multi-step operation can never act on a previously-fetched, now-stale
// price.
type OracleGateway struct {
	feed      PriceFeed
	staleness time.Duration
	now       func() time.Time
}

func NewOracleGateway(feed PriceFeed, staleness time.Duration) *OracleGateway {
	if staleness <= 0 {
		staleness = DefaultStaleness
	}
	return &OracleGateway{
		feed:      feed,
		staleness: staleness,
		now:       time.Now,
	}
}

// WithClock overrides the gateway's clock. Tests only.
func (g *OracleGateway) WithClock(now func() time.Time) *OracleGateway {
	g.now = now
	return g
}

// Price returns the unit price of the asset in accounting-precision base
// units, or ErrInvalidPriceData when the reading is non-positive, unset, or
// older than the staleness threshold.
func (g *OracleGateway) Price(source shared.SourceID) (uint64, error) {
	quote, err := g.feed.LatestPrice(source)
	if err != nil {
		return 0, fmt.Errorf("%w: feed read for %q: %v", ErrInvalidPriceData, source, err)
	}
	if quote.Price <= 0 {
		return 0, fmt.Errorf("%w: non-positive price %d from %q", ErrInvalidPriceData, quote.Price, source)
	}
	if quote.UpdatedAt.IsZero() {
		return 0, fmt.Errorf("%w: unset timestamp from %q", ErrInvalidPriceData, source)
	}
	if age := g.now().Sub(quote.UpdatedAt); age > g.staleness {
		return 0, fmt.Errorf("%w: price from %q is %s old (threshold %s)", ErrInvalidPriceData, source, age, g.staleness)
	}
	price, err := Normalize(uint64(quote.Price), quote.Precision, shared.AccountingPrecision)
	if err != nil {
		return 0, fmt.Errorf("normalizing price from %q: %w", source, err)
	}
	return price, nil
}
