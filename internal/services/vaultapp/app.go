// Package vaultapp owns the process-wide simulation state. Every mutation
// (deposit, withdraw, claim, scheduler tick) settles accrual through the
// engine first, then computes the full next state and swaps it in one step,
// so no partial update is ever observable and no accrual window is lost or
// double-counted.
package vaultapp

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/keltra/internal/accrual"
	"github.com/vadiminshakov/keltra/internal/domain"
	"github.com/vadiminshakov/keltra/internal/events"
	"go.uber.org/zap"
)

var (
	// ErrVaultNotFound is returned when the vault id is not in the catalog.
	ErrVaultNotFound = errors.New("vault not found")
	// ErrInvalidAmount is returned for non-positive or non-finite amounts.
	ErrInvalidAmount = errors.New("amount must be a positive finite number")
	// ErrInsufficientBalance is returned when a deposit exceeds the wallet balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInsufficientPrincipal is returned when a withdrawal exceeds the
	// settled principal.
	ErrInsufficientPrincipal = errors.New("withdrawal exceeds deposited principal")
	// ErrNoPosition is returned when withdrawing from a vault with no position.
	ErrNoPosition = errors.New("no open position for vault")
)

// PriceFeed supplies the current reward-token USD price. A feed returning 0
// pauses token conversion for the interval; USD accrual still proceeds.
type PriceFeed interface {
	Price(ctx context.Context, token domain.RewardToken) float64
}

// ClaimJournal records successful claims. Journal failures never fail the
// claim itself.
type ClaimJournal interface {
	Save(event domain.ClaimEvent) error
}

// Option configures the App.
type Option func(*App)

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithBroadcaster sets the snapshot broadcaster notified on state changes.
func WithBroadcaster(b *events.StateBroadcaster) Option {
	return func(a *App) { a.broadcaster = b }
}

// WithClaimJournal sets the journal that persists claim events.
func WithClaimJournal(j ClaimJournal) Option {
	return func(a *App) { a.journal = j }
}

// App is the single owner of the wallet and position store.
type App struct {
	mu          sync.Mutex
	state       domain.AppState
	catalog     domain.Catalog
	feed        PriceFeed
	logger      *zap.Logger
	broadcaster *events.StateBroadcaster
	journal     ClaimJournal
	now         func() time.Time
}

// New creates the state container with the given catalog, price feed and
// starting wallet.
func New(catalog domain.Catalog, feed PriceFeed, wallet domain.Wallet, logger *zap.Logger, opts ...Option) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		state:   domain.NewAppState(wallet),
		catalog: catalog,
		feed:    feed,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Snapshot returns a deep copy of the current state.
func (a *App) Snapshot() domain.AppState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Clone()
}

// Catalog returns the vault catalog.
func (a *App) Catalog() domain.Catalog {
	return a.catalog
}

// ConnectWallet marks the simulated wallet as connected.
func (a *App) ConnectWallet() {
	a.mu.Lock()
	next := a.state.Clone()
	next.Wallet.Connected = true
	next.Wallet.Address = domain.MockAddress
	a.state = next
	a.mu.Unlock()

	a.publish(next)
	a.logger.Info("wallet connected", zap.String("address", domain.MockAddress))
}

// DisconnectWallet marks the simulated wallet as disconnected.
func (a *App) DisconnectWallet() {
	a.mu.Lock()
	next := a.state.Clone()
	next.Wallet.Connected = false
	next.Wallet.Address = ""
	a.state = next
	a.mu.Unlock()

	a.publish(next)
	a.logger.Info("wallet disconnected")
}

// Deposit settles accrual for the vault's position, then moves amount from
// the wallet into the position's principal. The position is created on first
// deposit.
func (a *App) Deposit(ctx context.Context, vaultID string, amount float64) error {
	vault, ok := a.catalog.Vault(vaultID)
	if !ok {
		return errors.Wrap(ErrVaultNotFound, vaultID)
	}
	if !validAmount(amount) {
		return ErrInvalidAmount
	}

	price := a.feed.Price(ctx, vault.Reward)

	// The settle time is read under the lock. A timestamp taken before the
	// price fetch could be older than a concurrent mutation's settlement,
	// and accruing to it would rewind LastTs and double-count the window.
	a.mu.Lock()
	nowMs := a.nowMs()
	if amount > a.state.Wallet.Usdc {
		a.mu.Unlock()
		return ErrInsufficientBalance
	}

	next := a.state.Clone()
	position, ok := next.Positions[vaultID]
	if ok {
		position = accrual.Accrue(position, vault, price, nowMs)
	} else {
		position = domain.NewPosition(nowMs)
	}
	position.PrincipalUsdc += amount
	next.Positions[vaultID] = position
	next.Wallet.Usdc -= amount
	a.state = next
	a.mu.Unlock()

	a.publish(next)
	a.logger.Info("deposit",
		zap.String("vault", vaultID),
		zap.Float64("amount", amount),
		zap.Float64("principal", position.PrincipalUsdc),
		zap.Float64("wallet_usdc", next.Wallet.Usdc))
	return nil
}

// Withdraw settles accrual, then moves amount from the position's principal
// back to the wallet. Withdrawing the full principal deletes the position;
// any accrued-but-unclaimed value at that instant is forfeited.
func (a *App) Withdraw(ctx context.Context, vaultID string, amount float64) error {
	vault, ok := a.catalog.Vault(vaultID)
	if !ok {
		return errors.Wrap(ErrVaultNotFound, vaultID)
	}
	if !validAmount(amount) {
		return ErrInvalidAmount
	}

	price := a.feed.Price(ctx, vault.Reward)

	a.mu.Lock()
	nowMs := a.nowMs()
	position, ok := a.state.Positions[vaultID]
	if !ok {
		a.mu.Unlock()
		return errors.Wrap(ErrNoPosition, vaultID)
	}

	settled := accrual.Accrue(position, vault, price, nowMs)
	if amount > settled.PrincipalUsdc {
		a.mu.Unlock()
		return ErrInsufficientPrincipal
	}

	next := a.state.Clone()
	remaining := settled.PrincipalUsdc - amount
	if remaining <= 0 {
		delete(next.Positions, vaultID)
	} else {
		settled.PrincipalUsdc = remaining
		next.Positions[vaultID] = settled
	}
	next.Wallet.Usdc += amount
	a.state = next
	a.mu.Unlock()

	a.publish(next)
	a.logger.Info("withdraw",
		zap.String("vault", vaultID),
		zap.Float64("amount", amount),
		zap.Float64("remaining_principal", remaining),
		zap.Bool("position_closed", remaining <= 0))
	return nil
}

// ClaimRewards settles accrual and credits the wallet with the accrued
// reward tokens, net of the performance fee. Claiming with nothing accrued
// is a benign no-op: the settled position is kept and (0, nil) is returned.
func (a *App) ClaimRewards(ctx context.Context, vaultID string) (float64, error) {
	vault, ok := a.catalog.Vault(vaultID)
	if !ok {
		return 0, errors.Wrap(ErrVaultNotFound, vaultID)
	}

	price := a.feed.Price(ctx, vault.Reward)

	a.mu.Lock()
	nowMs := a.nowMs()
	position, ok := a.state.Positions[vaultID]
	if !ok {
		a.mu.Unlock()
		return 0, nil
	}

	settled := accrual.Accrue(position, vault, price, nowMs)
	next := a.state.Clone()

	if settled.AccruedTokens <= 0 {
		next.Positions[vaultID] = settled
		a.state = next
		a.mu.Unlock()

		a.publish(next)
		a.logger.Info("claim skipped, nothing accrued", zap.String("vault", vaultID))
		return 0, nil
	}

	gross := settled.AccruedTokens
	net := gross * (1 - vault.PerformanceFeePct/100)

	settled.AccruedUsd = 0
	settled.AccruedTokens = 0
	settled.LifetimeRewardTokens += net
	settled.LastTs = nowMs
	next.Positions[vaultID] = settled
	next.Wallet.Rewards[vault.Reward] += net
	a.state = next
	a.mu.Unlock()

	a.publish(next)

	event := domain.ClaimEvent{
		Timestamp:   time.UnixMilli(nowMs).UTC(),
		VaultID:     vaultID,
		Token:       vault.Reward,
		GrossTokens: gross,
		NetTokens:   net,
		FeePct:      vault.PerformanceFeePct,
		TxHash:      mockTxHash(),
	}
	if a.journal != nil {
		if err := a.journal.Save(event); err != nil {
			a.logger.Warn("failed to journal claim", zap.String("vault", vaultID), zap.Error(err))
		}
	}

	a.logger.Info("rewards claimed",
		zap.String("vault", vaultID),
		zap.String("token", vault.Reward.String()),
		zap.Float64("gross_tokens", gross),
		zap.Float64("net_tokens", net),
		zap.String("tx_hash", event.TxHash))
	return net, nil
}

// UpdateAccrual settles one position on demand, outside the tick cadence.
// The state is replaced only when the settlement changed the position beyond
// the engine tolerance. A vault with no open position is a no-op.
func (a *App) UpdateAccrual(ctx context.Context, vaultID string) error {
	vault, ok := a.catalog.Vault(vaultID)
	if !ok {
		return errors.Wrap(ErrVaultNotFound, vaultID)
	}

	price := a.feed.Price(ctx, vault.Reward)

	a.mu.Lock()
	nowMs := a.nowMs()
	position, ok := a.state.Positions[vaultID]
	if !ok {
		a.mu.Unlock()
		return nil
	}

	settled := accrual.Accrue(position, vault, price, nowMs)
	if !accrual.Changed(position, settled) {
		a.mu.Unlock()
		return nil
	}

	next := a.state.Clone()
	next.Positions[vaultID] = settled
	a.state = next
	a.mu.Unlock()

	a.publish(next)
	return nil
}

// SettleAll advances accrual for every open position. It is the scheduler
// tick path: positions whose recomputed state stays within the engine
// tolerance keep their entry, and when nothing changed no snapshot is
// published. Ticks with zero positions are cheap no-ops.
func (a *App) SettleAll(ctx context.Context) {
	// Prices are looked up before taking the lock; the feed may block on a
	// live oracle.
	a.mu.Lock()
	open := make(map[string]struct{}, len(a.state.Positions))
	for id := range a.state.Positions {
		open[id] = struct{}{}
	}
	a.mu.Unlock()

	if len(open) == 0 {
		return
	}

	prices := make(map[domain.RewardToken]float64)
	for id := range open {
		vault, ok := a.catalog.Vault(id)
		if !ok {
			continue
		}
		if _, done := prices[vault.Reward]; !done {
			prices[vault.Reward] = a.feed.Price(ctx, vault.Reward)
		}
	}

	a.mu.Lock()
	nowMs := a.nowMs()
	changed := false
	next := a.state.Clone()
	for id, position := range a.state.Positions {
		vault, ok := a.catalog.Vault(id)
		if !ok {
			continue
		}
		settled := accrual.Accrue(position, vault, prices[vault.Reward], nowMs)
		if accrual.Changed(position, settled) {
			next.Positions[id] = settled
			changed = true
		}
	}
	if changed {
		a.state = next
	}
	a.mu.Unlock()

	if changed {
		a.publish(next)
	}
}

func (a *App) publish(s domain.AppState) {
	if a.broadcaster != nil {
		a.broadcaster.Publish(s)
	}
}

func (a *App) nowMs() int64 {
	return a.now().UnixMilli()
}

func validAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}

func mockTxHash() string {
	return "0x" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
