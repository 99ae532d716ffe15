package domain

import (
	"github.com/pkg/errors"
)

// VaultStatus tells whether a vault accepts deposits.
type VaultStatus string

const (
	// VaultStatusLive marks a vault open for deposits.
	VaultStatusLive VaultStatus = "Live"
	// VaultStatusComing marks a vault announced but not yet open.
	VaultStatusComing VaultStatus = "Coming"
)

// Vault is a catalog entry describing one yield vault. Catalog entries are
// immutable for the lifetime of the process.
type Vault struct {
	ID                 string      `yaml:"id" json:"id"`
	Name               string      `yaml:"name" json:"name"`
	Reward             RewardToken `yaml:"reward" json:"reward"`
	TVL                float64     `yaml:"tvl" json:"tvl"`
	DepositCap         float64     `yaml:"deposit_cap" json:"deposit_cap"`
	Deposited          float64     `yaml:"deposited" json:"deposited"`
	BaseAprStableLayer float64     `yaml:"base_apr_stable_layer" json:"base_apr_stable_layer"`
	NaviSupplyApr      float64     `yaml:"navi_supply_apr" json:"navi_supply_apr"`
	PerformanceFeePct  float64     `yaml:"performance_fee_pct" json:"performance_fee_pct"`
	Status             VaultStatus `yaml:"status" json:"status"`
	Contract           string      `yaml:"contract" json:"contract"`
	DailyApr           []float64   `yaml:"daily_apr" json:"daily_apr"`
}

// GrossApr is the annualized reward rate before the performance fee.
func (v Vault) GrossApr() float64 {
	return v.BaseAprStableLayer + v.NaviSupplyApr
}

// NetApr is the annualized rate actually credited to depositors:
// the gross APR discounted by the performance fee.
func (v Vault) NetApr() float64 {
	return v.GrossApr() * (1 - v.PerformanceFeePct/100)
}

// Validate checks catalog invariants.
func (v Vault) Validate() error {
	if v.ID == "" {
		return errors.New("vault id is required")
	}
	if _, err := ParseRewardToken(string(v.Reward)); err != nil {
		return errors.Wrapf(err, "vault %s", v.ID)
	}
	if v.PerformanceFeePct < 0 || v.PerformanceFeePct > 100 {
		return errors.Errorf("vault %s: performance fee must be in [0,100], got %v", v.ID, v.PerformanceFeePct)
	}
	if v.BaseAprStableLayer < 0 || v.NaviSupplyApr < 0 {
		return errors.Errorf("vault %s: APR components must be non-negative", v.ID)
	}
	switch v.Status {
	case VaultStatusLive, VaultStatusComing:
	default:
		return errors.Errorf("vault %s: unknown status %q", v.ID, v.Status)
	}
	return nil
}

// Catalog is an immutable, id-indexed set of vaults.
type Catalog struct {
	vaults []Vault
	byID   map[string]Vault
}

// NewCatalog builds a catalog after validating every vault.
func NewCatalog(vaults []Vault) (Catalog, error) {
	byID := make(map[string]Vault, len(vaults))
	for _, v := range vaults {
		if err := v.Validate(); err != nil {
			return Catalog{}, err
		}
		if _, ok := byID[v.ID]; ok {
			return Catalog{}, errors.Errorf("duplicate vault id: %s", v.ID)
		}
		byID[v.ID] = v
	}
	out := make([]Vault, len(vaults))
	copy(out, vaults)
	return Catalog{vaults: out, byID: byID}, nil
}

// Vault looks up a vault by id.
func (c Catalog) Vault(id string) (Vault, bool) {
	v, ok := c.byID[id]
	return v, ok
}

// Vaults returns the catalog entries in declaration order.
func (c Catalog) Vaults() []Vault {
	out := make([]Vault, len(c.vaults))
	copy(out, c.vaults)
	return out
}

// Len returns the number of vaults in the catalog.
func (c Catalog) Len() int {
	return len(c.vaults)
}

// DefaultVaults returns the built-in vault catalog.
func DefaultVaults() []Vault {
	return []Vault{
		{
			ID:                 "btcUSD",
			Name:               "BTC Rewards Vault",
			Reward:             TokenBTC,
			TVL:                60_312_450_987.45,
			DepositCap:         118_540_000_123.12,
			Deposited:          58_904_221_876.33,
			BaseAprStableLayer: 17.8,
			NaviSupplyApr:      3,
			PerformanceFeePct:  10,
			Status:             VaultStatusLive,
			Contract:           "0xabc...1321",
			DailyApr:           []float64{8.7, 9.1, 8.9, 9.0, 8.8, 9.2, 8.9, 9.0, 8.8, 9.1, 8.9, 8.7, 8.8},
		},
		{
			ID:                 "suiUSD",
			Name:               "SUI Rewards Vault",
			Reward:             TokenSUI,
			TVL:                31_784_910_554.87,
			DepositCap:         59_432_118_765.2,
			Deposited:          28_615_773_409.55,
			BaseAprStableLayer: 18,
			NaviSupplyApr:      4,
			PerformanceFeePct:  10,
			Status:             VaultStatusLive,
			Contract:           "0xdef...4567",
			DailyApr:           []float64{20, 21, 20.4, 19.8, 20.2, 20.1, 20.3},
		},
		{
			ID:                 "usdcUSD",
			Name:               "USDC Rewards Vault",
			Reward:             TokenUSDC,
			TVL:                9_812_334_120.45,
			DepositCap:         20_000_000_000.0,
			Deposited:          8_902_114_556.12,
			BaseAprStableLayer: 6.2,
			NaviSupplyApr:      1.8,
			PerformanceFeePct:  5,
			Status:             VaultStatusLive,
			Contract:           "0x123...USDC",
			DailyApr:           []float64{4.9, 5.0, 5.1, 5.0, 4.8, 5.2, 5.0},
		},
		{
			ID:                 "ethUSD",
			Name:               "ETH Rewards Vault",
			Reward:             TokenETH,
			TVL:                18_964_338_221.14,
			DepositCap:         39_985_777_654.31,
			Deposited:          12_938_440_182.77,
			BaseAprStableLayer: 8,
			NaviSupplyApr:      3,
			PerformanceFeePct:  10,
			Status:             VaultStatusComing,
			Contract:           "0x789...8901",
			DailyApr:           []float64{10.1, 10.3, 10.0, 9.9, 10.2, 10.1, 10.4},
		},
	}
}

// DefaultCatalog returns the built-in catalog. It panics only if the built-in
// data is inconsistent, which is a programming error.
func DefaultCatalog() Catalog {
	c, err := NewCatalog(DefaultVaults())
	if err != nil {
		panic(err)
	}
	return c
}
