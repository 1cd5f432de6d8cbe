package market

import (
	"fmt"
	"sync"

	"go.uber.org/atomic"

	"custody-ledger/domain"
	"custody-ledger/shared"
)

// StaticPriceFeed is a settable in-memory price source. Tests use it to
// simulate staleness, bad data and moving prices; the demo uses it as the
// oracle.
type StaticPriceFeed struct {
	mu     sync.RWMutex
	quotes map[shared.SourceID]domain.PriceQuote
	errs   map[shared.SourceID]error

	reads atomic.Uint64
}

func NewStaticPriceFeed() *StaticPriceFeed {
	return &StaticPriceFeed{
		quotes: make(map[shared.SourceID]domain.PriceQuote),
		errs:   make(map[shared.SourceID]error),
	}
}

func (f *StaticPriceFeed) SetQuote(source shared.SourceID, quote domain.PriceQuote) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quotes[source] = quote
	delete(f.errs, source)
}

// SetError makes reads of source fail with err.
func (f *StaticPriceFeed) SetError(source shared.SourceID, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[source] = err
}

func (f *StaticPriceFeed) LatestPrice(source shared.SourceID) (domain.PriceQuote, error) {
	f.reads.Inc()

	f.mu.RLock()
	defer f.mu.RUnlock()

	if err, ok := f.errs[source]; ok {
		return domain.PriceQuote{}, err
	}
	quote, ok := f.quotes[source]
	if !ok {
		return domain.PriceQuote{}, fmt.Errorf("unknown price source %q", source)
	}
	return quote, nil
}

// Reads reports how many times the feed has been consulted.
func (f *StaticPriceFeed) Reads() uint64 {
	return f.reads.Load()
}

var _ domain.PriceFeed = (*StaticPriceFeed)(nil)
