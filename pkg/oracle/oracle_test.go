package oracle

import (
	"context"
	"math/big"
	"testing"

	"github.com/palaseus/adrenolend/pkg/poolerr"
	"github.com/palaseus/adrenolend/pkg/types"
)

func TestStaticOracleRejectsNonPositivePrice(t *testing.T) {
	o := NewStaticOracle()
	if err := o.SetPrice("D", big.NewInt(0)); err == nil {
		t.Error("expected error setting zero price")
	}
	if err := o.SetPrice("D", big.NewInt(-5)); err == nil {
		t.Error("expected error setting negative price")
	}
}

func TestStaticOracleMissingPrice(t *testing.T) {
	o := NewStaticOracle()
	_, err := o.GetAssetPrice(context.Background(), "D")
	if err != poolerr.ErrPriceUnavailable {
		t.Errorf("got %v, want ErrPriceUnavailable", err)
	}
}

func TestAggregatingOracleFallsBackOnce(t *testing.T) {
	primary := NewStaticOracle()
	fallback := NewStaticOracle()
	if err := fallback.SetPrice("D", big.NewInt(42)); err != nil {
		t.Fatal(err)
	}

	agg := NewAggregatingOracle(primary, fallback)
	price, err := agg.GetAssetPrice(context.Background(), "D")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price.Cmp(big.NewInt(42)) != 0 {
		t.Errorf("price = %v, want 42", price)
	}
}

func TestAggregatingOraclePropagatesWithNoFallback(t *testing.T) {
	primary := NewStaticOracle()
	agg := NewAggregatingOracle(primary, nil)
	_, err := agg.GetAssetPrice(context.Background(), types.AssetID("D"))
	if err != poolerr.ErrPriceUnavailable {
		t.Errorf("got %v, want ErrPriceUnavailable", err)
	}
}
