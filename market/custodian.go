package market

import (
	"fmt"
	"sync"

	"custody-ledger/domain"
	"custody-ledger/shared"
)

// InMemoryCustodian simulates the external asset-transfer primitive: user
// wallets on one side, the bank's vault on the other. It is thread-safe and
// supports fault injection so tests can exercise non-conforming transfer
// implementations.
type InMemoryCustodian struct {
	mu      sync.Mutex
	wallets map[shared.UserID]map[shared.AssetID]uint64
	vault   map[shared.AssetID]uint64

	pullErr error
	pushErr error
}

func NewInMemoryCustodian() *InMemoryCustodian {
	return &InMemoryCustodian{
		wallets: make(map[shared.UserID]map[shared.AssetID]uint64),
		vault:   make(map[shared.AssetID]uint64),
	}
}

// Mint seeds a user wallet. Demo and test setup only.
func (c *InMemoryCustodian) Mint(user shared.UserID, asset shared.AssetID, amount uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.walletOf(user)[asset] += amount
}

// FailPulls makes every subsequent TransferFrom fail with err (nil restores
// normal behavior).
func (c *InMemoryCustodian) FailPulls(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pullErr = err
}

// FailPushes makes every subsequent Transfer fail with err.
func (c *InMemoryCustodian) FailPushes(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pushErr = err
}

func (c *InMemoryCustodian) TransferFrom(user shared.UserID, asset shared.AssetID, amount uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pullErr != nil {
		return c.pullErr
	}
	wallet := c.walletOf(user)
	if wallet[asset] < amount {
		return fmt.Errorf("user %s holds %d %s, cannot pull %d", user, wallet[asset], asset, amount)
	}
	wallet[asset] -= amount
	c.vault[asset] += amount
	return nil
}

func (c *InMemoryCustodian) Transfer(user shared.UserID, asset shared.AssetID, amount uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pushErr != nil {
		return c.pushErr
	}
	if c.vault[asset] < amount {
		return fmt.Errorf("vault holds %d %s, cannot push %d", c.vault[asset], asset, amount)
	}
	c.vault[asset] -= amount
	c.walletOf(user)[asset] += amount
	return nil
}

func (c *InMemoryCustodian) BalanceOf(asset shared.AssetID) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vault[asset], nil
}

// WalletBalance reports a user's wallet holding. Demo and test inspection.
func (c *InMemoryCustodian) WalletBalance(user shared.UserID, asset shared.AssetID) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.walletOf(user)[asset]
}

// creditVault adds swap proceeds directly to the vault. Used by the exchange
// simulator.
func (c *InMemoryCustodian) creditVault(asset shared.AssetID, amount uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vault[asset] += amount
}

// debitVault removes swapped-away input from the vault.
func (c *InMemoryCustodian) debitVault(asset shared.AssetID, amount uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vault[asset] < amount {
		return fmt.Errorf("vault holds %d %s, cannot swap %d", c.vault[asset], asset, amount)
	}
	c.vault[asset] -= amount
	return nil
}

func (c *InMemoryCustodian) walletOf(user shared.UserID) map[shared.AssetID]uint64 {
	wallet, ok := c.wallets[user]
	if !ok {
		wallet = make(map[shared.AssetID]uint64)
		c.wallets[user] = wallet
	}
	return wallet
}

var _ domain.Custodian = (*InMemoryCustodian)(nil)
