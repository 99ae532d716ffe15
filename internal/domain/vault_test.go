package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func liveVault(id string) Vault {
	return Vault{
		ID:                 id,
		Name:               "SUI Yield Vault",
		Reward:             TokenSUI,
		BaseAprStableLayer: 18,
		NaviSupplyApr:      4,
		PerformanceFeePct:  10,
		Status:             VaultStatusLive,
	}
}

func TestVault_AprMath(t *testing.T) {
	v := liveVault("suiUSD")
	assert.InDelta(t, 22.0, v.GrossApr(), 1e-9)
	assert.InDelta(t, 19.8, v.NetApr(), 1e-9)

	v.PerformanceFeePct = 0
	assert.InDelta(t, 22.0, v.NetApr(), 1e-9)

	v.PerformanceFeePct = 100
	assert.Zero(t, v.NetApr())
}

func TestVault_Validate(t *testing.T) {
	require.NoError(t, liveVault("suiUSD").Validate())

	v := liveVault("suiUSD")
	v.ID = ""
	assert.Error(t, v.Validate())

	v = liveVault("suiUSD")
	v.PerformanceFeePct = 101
	assert.Error(t, v.Validate())

	v = liveVault("suiUSD")
	v.PerformanceFeePct = -1
	assert.Error(t, v.Validate())

	v = liveVault("suiUSD")
	v.Reward = "DOGE"
	assert.Error(t, v.Validate())

	v = liveVault("suiUSD")
	v.BaseAprStableLayer = -5
	assert.Error(t, v.Validate())

	v = liveVault("suiUSD")
	v.Status = "paused"
	assert.Error(t, v.Validate())
}

func TestNewCatalog(t *testing.T) {
	catalog, err := NewCatalog([]Vault{liveVault("a"), liveVault("b")})
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())

	v, ok := catalog.Vault("a")
	assert.True(t, ok)
	assert.Equal(t, "a", v.ID)

	_, ok = catalog.Vault("ghost")
	assert.False(t, ok)
}

func TestNewCatalog_RejectsDuplicatesAndInvalid(t *testing.T) {
	_, err := NewCatalog([]Vault{liveVault("a"), liveVault("a")})
	assert.Error(t, err)

	bad := liveVault("b")
	bad.PerformanceFeePct = 200
	_, err = NewCatalog([]Vault{bad})
	assert.Error(t, err)
}

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	assert.Equal(t, 4, catalog.Len())

	sui, ok := catalog.Vault("suiUSD")
	require.True(t, ok)
	assert.Equal(t, TokenSUI, sui.Reward)
	assert.InDelta(t, 19.8, sui.NetApr(), 1e-9)

	eth, ok := catalog.Vault("ethUSD")
	require.True(t, ok)
	assert.Equal(t, VaultStatusComing, eth.Status)
}
