// Package config loads the pool's bootstrap configuration: the admin
// account, the reserves to initialize at startup (risk parameters and rate
// model constants per asset), and the static prices to seed the oracle
// with.
package config

import (
	"fmt"
	"math/big"

	"github.com/spf13/viper"

	"github.com/palaseus/adrenolend/pkg/ratemodel"
	"github.com/palaseus/adrenolend/pkg/reserve"
	"github.com/palaseus/adrenolend/pkg/types"
)

// ReserveConfig is one asset's bootstrap configuration.
type ReserveConfig struct {
	Asset                string `mapstructure:"asset"`
	LTVBps               int64  `mapstructure:"ltv_bps"`
	LiquidationThreshBps int64  `mapstructure:"liquidation_threshold_bps"`
	LiquidationBonusBps  int64  `mapstructure:"liquidation_bonus_bps"`
	BaseRateRayPct       int64  `mapstructure:"base_rate_pct"`
	Slope1RayPct         int64  `mapstructure:"slope1_pct"`
	Slope2RayPct         int64  `mapstructure:"slope2_pct"`
	OptimalUtilPct       int64  `mapstructure:"optimal_utilization_pct"`
	PriceUSD             string `mapstructure:"price_usd"`
}

// Config is the pool's full bootstrap configuration.
type Config struct {
	Admin    string          `mapstructure:"admin"`
	Reserves []ReserveConfig `mapstructure:"reserves"`
}

// Load reads configuration from configFile (or the default search path —
// "./config.yaml" or "./config/config.yaml") via viper, with ADRENOLEND_*
// environment variable overrides.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix("ADRENOLEND")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal config: %w", err)
	}
	if cfg.Admin == "" {
		cfg.Admin = "admin"
	}
	return &cfg, nil
}

// RiskParams converts a ReserveConfig's basis-point fields into
// reserve.RiskParams.
func (r ReserveConfig) RiskParams() reserve.RiskParams {
	return reserve.RiskParams{
		LTV:                  big.NewInt(r.LTVBps),
		LiquidationThreshold: big.NewInt(r.LiquidationThreshBps),
		LiquidationBonus:     big.NewInt(r.LiquidationBonusBps),
	}
}

// RateModel converts a ReserveConfig's percentage fields into a ray-scaled
// TwoSlopeModel.
func (r ReserveConfig) RateModel() *ratemodel.TwoSlopeModel {
	pct := func(p int64) *big.Int {
		ray, err := ratemodel.RayFromPercent(p)
		if err != nil {
			return big.NewInt(0)
		}
		return ray
	}
	return ratemodel.NewTwoSlopeModel(pct(r.BaseRateRayPct), pct(r.Slope1RayPct), pct(r.Slope2RayPct), pct(r.OptimalUtilPct))
}

// AssetID returns the ReserveConfig's asset as a types.AssetID.
func (r ReserveConfig) AssetID() types.AssetID {
	return types.AssetID(r.Asset)
}
