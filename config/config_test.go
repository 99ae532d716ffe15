package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/keltra/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFromFile(t *testing.T) {
	path := writeConfig(t, `
platform: binance
listen_addr: ":9000"
tick_interval: 5s
journal_dir: /tmp/claims
initial_usdc: "1000000.50"
prices:
  SUI: 4.2
`)

	conf, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "binance", conf.Platform)
	assert.Equal(t, ":9000", conf.ListenAddr)
	assert.Equal(t, 5*time.Second, conf.TickInterval)
	assert.Equal(t, "/tmp/claims", conf.JournalDir)
	assert.Equal(t, "1000000.5", conf.InitialUsdc.String())
	assert.Equal(t, 4.2, conf.StaticPrices()[domain.TokenSUI])
}

func TestFromFile_Defaults(t *testing.T) {
	conf, err := FromFile(writeConfig(t, `{}`))
	require.NoError(t, err)
	assert.Equal(t, "static", conf.Platform)
	assert.Equal(t, ":8088", conf.ListenAddr)
	assert.Equal(t, time.Second, conf.TickInterval)
	assert.Equal(t, DefaultInitialUsdc, conf.InitialUsdc.String())
}

func TestFromFile_Rejections(t *testing.T) {
	_, err := FromFile(writeConfig(t, `platform: kraken`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported platform")

	_, err = FromFile(writeConfig(t, `initial_usdc: "-5"`))
	require.Error(t, err)

	_, err = FromFile(writeConfig(t, "prices:\n  DOGE: 1\n"))
	require.Error(t, err)

	_, err = FromFile(writeConfig(t, `initial_usdc: "abc"`))
	require.Error(t, err)

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestCatalogOverrides(t *testing.T) {
	conf, err := FromFile(writeConfig(t, `
vaults:
  - id: customUSD
    name: Custom Vault
    reward: BTC
    base_apr_stable_layer: 10
    navi_supply_apr: 2
    performance_fee_pct: 5
    status: Live
`))
	require.NoError(t, err)

	catalog, err := conf.Catalog()
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.Len())

	v, ok := catalog.Vault("customUSD")
	require.True(t, ok)
	assert.InDelta(t, 11.4, v.NetApr(), 1e-9)
}

func TestCatalogDefaults(t *testing.T) {
	conf, err := FromFile(writeConfig(t, `{}`))
	require.NoError(t, err)

	catalog, err := conf.Catalog()
	require.NoError(t, err)
	assert.Equal(t, 4, catalog.Len())
}
