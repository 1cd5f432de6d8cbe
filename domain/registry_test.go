package domain_test

import (
	"errors"
	"testing"

	"custody-ledger/domain"
	"custody-ledger/events"
	"custody-ledger/shared"
	"custody-ledger/store"
)

func TestAssetRegistry_Register(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		journal := store.NewInMemoryJournal()
		r := domain.NewAssetRegistry(owner, journal)

		if err := r.Register(owner, token, tokSource, tokPrecision); err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		entry, ok := r.Lookup(token)
		if !ok {
			t.Fatal("registered asset not found")
		}
		if entry.Precision != tokPrecision || entry.PriceSource != tokSource || !entry.Active {
			t.Errorf("unexpected entry: %+v", entry)
		}
		if !r.IsSupported(token) {
			t.Error("registered asset should be supported")
		}

		recorded := journal.EventsOfType(events.AssetRegisteredType)
		if len(recorded) != 1 {
			t.Fatalf("expected 1 registration event, got %d", len(recorded))
		}
		event := recorded[0].(events.AssetRegisteredEvent)
		if event.Asset != token || event.PriceSource != tokSource || event.Precision != tokPrecision {
			t.Errorf("unexpected event payload: %+v", event)
		}
	})

	t.Run("NonOwnerRejected", func(t *testing.T) {
		r := domain.NewAssetRegistry(owner, nil)

		err := r.Register("mallory", token, tokSource, tokPrecision)
		if !errors.Is(err, domain.ErrNotOwner) {
			t.Errorf("expected ErrNotOwner, got %v", err)
		}
		if r.IsSupported(token) {
			t.Error("asset must not be registered by a non-owner")
		}
	})

	t.Run("EmptyPriceSourceRejected", func(t *testing.T) {
		r := domain.NewAssetRegistry(owner, nil)

		err := r.Register(owner, token, "", tokPrecision)
		if !errors.Is(err, domain.ErrInvalidPriceSource) {
			t.Errorf("expected ErrInvalidPriceSource, got %v", err)
		}
	})

	t.Run("DuplicateRejected", func(t *testing.T) {
		r := domain.NewAssetRegistry(owner, nil)

		if err := r.Register(owner, token, tokSource, tokPrecision); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		err := r.Register(owner, token, "other-source", 2)
		if !errors.Is(err, domain.ErrAssetAlreadySupported) {
			t.Errorf("expected ErrAssetAlreadySupported, got %v", err)
		}

		// The original binding is untouched.
		entry, _ := r.Lookup(token)
		if entry.PriceSource != tokSource || entry.Precision != tokPrecision {
			t.Errorf("entry rewritten by duplicate registration: %+v", entry)
		}
	})

	t.Run("DuplicateRejectedEvenAfterDeregister", func(t *testing.T) {
		r := domain.NewAssetRegistry(owner, nil)

		if err := r.Register(owner, token, tokSource, tokPrecision); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if err := r.Deregister(owner, token); err != nil {
			t.Fatalf("Deregister failed: %v", err)
		}
		err := r.Register(owner, token, tokSource, tokPrecision)
		if !errors.Is(err, domain.ErrAssetAlreadySupported) {
			t.Errorf("expected ErrAssetAlreadySupported, got %v", err)
		}
	})
}

func TestAssetRegistry_Deregister(t *testing.T) {
	t.Run("SoftDisables", func(t *testing.T) {
		journal := store.NewInMemoryJournal()
		r := domain.NewAssetRegistry(owner, journal)

		if err := r.Register(owner, token, tokSource, tokPrecision); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if err := r.Deregister(owner, token); err != nil {
			t.Fatalf("Deregister failed: %v", err)
		}

		if r.IsSupported(token) {
			t.Error("deregistered asset must not accept deposits")
		}
		entry, ok := r.Lookup(token)
		if !ok {
			t.Fatal("deregistered entry should remain in the catalog")
		}
		if entry.Active {
			t.Error("entry should be inactive")
		}
		if entry.PriceSource != tokSource {
			t.Error("price binding must survive deregistration")
		}
		if len(journal.EventsOfType(events.AssetDeregisteredType)) != 1 {
			t.Error("expected a deregistration event")
		}
	})

	t.Run("UnknownAssetRejected", func(t *testing.T) {
		r := domain.NewAssetRegistry(owner, nil)

		err := r.Deregister(owner, "DOGE")
		if !errors.Is(err, domain.ErrAssetNotSupported) {
			t.Errorf("expected ErrAssetNotSupported, got %v", err)
		}
	})

	t.Run("NonOwnerRejected", func(t *testing.T) {
		r := domain.NewAssetRegistry(owner, nil)

		if err := r.Register(owner, token, tokSource, tokPrecision); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		err := r.Deregister("mallory", token)
		if !errors.Is(err, domain.ErrNotOwner) {
			t.Errorf("expected ErrNotOwner, got %v", err)
		}
		if !r.IsSupported(token) {
			t.Error("asset must stay active after a refused deregistration")
		}
	})
}

func TestAssetRegistry_TransferOwnership(t *testing.T) {
	t.Run("NewOwnerGainsOldOwnerLoses", func(t *testing.T) {
		journal := store.NewInMemoryJournal()
		r := domain.NewAssetRegistry(owner, journal)

		if err := r.TransferOwnership(owner, "successor"); err != nil {
			t.Fatalf("TransferOwnership failed: %v", err)
		}
		if got := r.Owner(); got != "successor" {
			t.Errorf("expected owner 'successor', got %q", got)
		}

		if err := r.Register(owner, token, tokSource, tokPrecision); !errors.Is(err, domain.ErrNotOwner) {
			t.Errorf("previous owner should be locked out, got %v", err)
		}
		if err := r.Register("successor", token, tokSource, tokPrecision); err != nil {
			t.Errorf("new owner should be able to register: %v", err)
		}

		recorded := journal.EventsOfType(events.OwnershipTransferredType)
		if len(recorded) != 1 {
			t.Fatalf("expected 1 ownership event, got %d", len(recorded))
		}
		event := recorded[0].(events.OwnershipTransferredEvent)
		if event.PreviousOwner != owner || event.NewOwner != "successor" {
			t.Errorf("unexpected event payload: %+v", event)
		}
	})

	t.Run("NonOwnerRejected", func(t *testing.T) {
		r := domain.NewAssetRegistry(owner, nil)

		err := r.TransferOwnership("mallory", "mallory")
		if !errors.Is(err, domain.ErrNotOwner) {
			t.Errorf("expected ErrNotOwner, got %v", err)
		}
	})

	t.Run("EmptyNewOwnerRejected", func(t *testing.T) {
		r := domain.NewAssetRegistry(owner, nil)

		if err := r.TransferOwnership(owner, ""); err == nil {
			t.Error("expected error for empty new owner")
		}
		if got := r.Owner(); got != owner {
			t.Errorf("owner changed on refused transfer: %q", got)
		}
	})
}

func TestAssetRegistry_Assets(t *testing.T) {
	r := domain.NewAssetRegistry(owner, nil)

	for _, asset := range []struct {
		id     string
		source string
	}{
		{"ZED", "zed-ref"},
		{"ALPHA", "alpha-ref"},
		{"MID", "mid-ref"},
	} {
		if err := r.Register(owner, shared.AssetID(asset.id), shared.SourceID(asset.source), 6); err != nil {
			t.Fatalf("Register %s failed: %v", asset.id, err)
		}
	}

	list := r.Assets()
	if len(list) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(list))
	}
	if list[0].ID != "ALPHA" || list[1].ID != "MID" || list[2].ID != "ZED" {
		t.Errorf("entries not sorted by ID: %v", list)
	}
}
