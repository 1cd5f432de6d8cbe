package domain

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"custody-ledger/events"
	"custody-ledger/shared"
)

// CatalogEntry describes an accepted asset: its native precision and the
// price source it is valued through. Entries are soft-disabled rather than
// deleted so existing balances stay queryable and withdrawable.
type CatalogEntry struct {
	ID           shared.AssetID
	Precision    uint32
	PriceSource  shared.SourceID
	Active       bool
	RegisteredAt time.Time
}

// AssetRegistry is the administrative catalog of accepted assets. All
// mutations are gated on a single owner principal; ownership is transferable
// but never shared.
type AssetRegistry struct {
	mu       sync.RWMutex
	owner    shared.Principal
	entries  map[shared.AssetID]CatalogEntry
	recorder Recorder
}

func NewAssetRegistry(owner shared.Principal, recorder Recorder) *AssetRegistry {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &AssetRegistry{
		owner:    owner,
		entries:  make(map[shared.AssetID]CatalogEntry),
		recorder: recorder,
	}
}

// Register adds an asset to the catalog as active. Duplicate registrations
// are rejected even when the existing entry has been deregistered, so an
// asset's precision and price binding can never be silently rewritten.
func (r *AssetRegistry) Register(caller shared.Principal, asset shared.AssetID, source shared.SourceID, precision uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.owner {
		return fmt.Errorf("%w: %q attempted to register %q", ErrNotOwner, caller, asset)
	}
	if source == "" {
		return fmt.Errorf("%w: empty handle for %q", ErrInvalidPriceSource, asset)
	}
	if _, exists := r.entries[asset]; exists {
		return fmt.Errorf("%w: %q", ErrAssetAlreadySupported, asset)
	}

	r.entries[asset] = CatalogEntry{
		ID:           asset,
		Precision:    precision,
		PriceSource:  source,
		Active:       true,
		RegisteredAt: time.Now().UTC(),
	}
	log.Printf("Asset %s registered (precision %d, source %s)", asset, precision, source)
	r.recorder.Record(events.AssetRegisteredEvent{
		BaseEvent:   events.NewBaseEvent(events.AssetRegisteredType),
		Asset:       asset,
		PriceSource: source,
		Precision:   precision,
	})
	return nil
}

// Deregister marks an asset inactive. The entry, including its price-source
// binding, is retained: withdrawals of existing balances remain possible.
func (r *AssetRegistry) Deregister(caller shared.Principal, asset shared.AssetID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.owner {
		return fmt.Errorf("%w: %q attempted to deregister %q", ErrNotOwner, caller, asset)
	}
	entry, exists := r.entries[asset]
	if !exists {
		return fmt.Errorf("%w: %q", ErrAssetNotSupported, asset)
	}
	entry.Active = false
	r.entries[asset] = entry

	log.Printf("Asset %s deregistered", asset)
	r.recorder.Record(events.AssetDeregisteredEvent{
		BaseEvent: events.NewBaseEvent(events.AssetDeregisteredType),
		Asset:     asset,
	})
	return nil
}

// TransferOwnership hands the single owner role to a new principal.
func (r *AssetRegistry) TransferOwnership(caller, newOwner shared.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.owner {
		return fmt.Errorf("%w: %q attempted ownership transfer", ErrNotOwner, caller)
	}
	if newOwner == "" {
		return NewDomainError("new owner cannot be empty")
	}
	previous := r.owner
	r.owner = newOwner

	log.Printf("Registry ownership transferred from %s to %s", previous, newOwner)
	r.recorder.Record(events.OwnershipTransferredEvent{
		BaseEvent:     events.NewBaseEvent(events.OwnershipTransferredType),
		PreviousOwner: previous,
		NewOwner:      newOwner,
	})
	return nil
}

// Owner reports the current owner principal.
func (r *AssetRegistry) Owner() shared.Principal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.owner
}

// Lookup returns the catalog entry for an asset, registered or not.
func (r *AssetRegistry) Lookup(asset shared.AssetID) (CatalogEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[asset]
	return entry, ok
}

// IsSupported reports whether the asset is currently accepting deposits.
// Unknown assets read as false, never fail.
func (r *AssetRegistry) IsSupported(asset shared.AssetID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[asset]
	return ok && entry.Active
}

// Assets returns all catalog entries, active and disabled, sorted by ID.
func (r *AssetRegistry) Assets() []CatalogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]CatalogEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		list = append(list, entry)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
