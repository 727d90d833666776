// Command adrenolendctl is a single-process command-line driver for the
// lending pool: it loads a reserve bootstrap configuration, wires a
// Controller against it, and either reports the resulting reserve state or
// walks it through a scripted deposit/borrow/health-factor scenario. This
// tool does not persist pool state across invocations; each run builds a
// fresh in-memory pool from config.
package main

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"github.com/palaseus/adrenolend/pkg/config"
	"github.com/palaseus/adrenolend/pkg/fixedpoint"
	"github.com/palaseus/adrenolend/pkg/logger"
	"github.com/palaseus/adrenolend/pkg/oracle"
	"github.com/palaseus/adrenolend/pkg/pool"
	"github.com/palaseus/adrenolend/pkg/types"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "adrenolendctl",
		Short: "adrenolendctl - a driver for the multi-asset lending pool",
		Long: `adrenolendctl loads a reserve bootstrap configuration, wires a Pool
Controller against it, and exercises or reports on the resulting pool.`,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./config.yaml)")

	rootCmd.AddCommand(bootstrapCmd())
	rootCmd.AddCommand(scenarioCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildPool loads configuration, initializes every configured reserve, and
// seeds the oracle with each reserve's configured price.
func buildPool() (*pool.Controller, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewLogger(logger.DefaultConfig())
	o := oracle.NewStaticOracle()
	admin := types.AccountID(cfg.Admin)
	now := int64(0)
	c := pool.NewController(admin, o, log, func() int64 { return now })

	for _, rc := range cfg.Reserves {
		if err := c.InitializeReserve(admin, rc.AssetID(), rc.RiskParams(), rc.RateModel()); err != nil {
			return nil, fmt.Errorf("failed to initialize reserve %s: %w", rc.Asset, err)
		}
		if rc.PriceUSD != "" {
			price, ok := new(big.Int).SetString(rc.PriceUSD, 10)
			if !ok {
				return nil, fmt.Errorf("invalid price_usd for reserve %s: %q", rc.Asset, rc.PriceUSD)
			}
			if err := o.SetPrice(rc.AssetID(), price); err != nil {
				return nil, fmt.Errorf("failed to set price for reserve %s: %w", rc.Asset, err)
			}
		}
	}
	return c, nil
}

func bootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Load config and report the initialized reserve set",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildPool()
			if err != nil {
				return err
			}
			reserves := c.Reserves()
			fmt.Printf("Initialized %d reserve(s):\n", len(reserves))
			for _, r := range reserves {
				fmt.Printf("  asset=%-8s ltv=%s liqThreshold=%s liqBonus=%s liquidityIndex=%s borrowIndex=%s\n",
					r.Asset.String(), r.Risk.LTV.String(), r.Risk.LiquidationThreshold.String(),
					r.Risk.LiquidationBonus.String(), r.LiquidityIndex.String(), r.VariableBorrowIndex.String())
			}
			return nil
		},
	}
}

func scenarioCmd() *cobra.Command {
	var collateralAsset, debtAsset string
	var depositAmount, borrowAmount int64

	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Run a deposit/borrow/health-factor walkthrough against two configured reserves",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildPool()
			if err != nil {
				return err
			}
			ctx := context.Background()
			user := types.AccountID("scenario-user")

			if err := c.Deposit(ctx, user, types.AssetID(collateralAsset), big.NewInt(depositAmount)); err != nil {
				return fmt.Errorf("deposit failed: %w", err)
			}
			fmt.Printf("deposited %d %s\n", depositAmount, collateralAsset)

			if err := c.Borrow(ctx, user, types.AssetID(debtAsset), big.NewInt(borrowAmount), user); err != nil {
				return fmt.Errorf("borrow failed: %w", err)
			}
			fmt.Printf("borrowed %d %s\n", borrowAmount, debtAsset)

			hf, err := c.HealthFactor(ctx, user)
			if err != nil {
				return fmt.Errorf("health factor query failed: %w", err)
			}
			if hf.Cmp(fixedpoint.MaxUint256()) == 0 {
				fmt.Println("health factor: +infinity (no debt)")
			} else {
				fmt.Printf("health factor (wad): %s\n", hf.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&collateralAsset, "collateral-asset", "", "collateral asset ID, must be configured")
	cmd.Flags().StringVar(&debtAsset, "debt-asset", "", "debt asset ID, must be configured")
	cmd.Flags().Int64Var(&depositAmount, "deposit", 0, "amount of collateral-asset to deposit")
	cmd.Flags().Int64Var(&borrowAmount, "borrow", 0, "amount of debt-asset to borrow")
	cmd.MarkFlagRequired("collateral-asset")
	cmd.MarkFlagRequired("debt-asset")
	cmd.MarkFlagRequired("deposit")
	cmd.MarkFlagRequired("borrow")

	return cmd
}
