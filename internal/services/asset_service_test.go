package services

import (
	"context"
	"testing"

	apperrors "patrimonio/internal/errors"
	"patrimonio/internal/models"
	"patrimonio/internal/testutil"
)

// stubPriceSource returns a fixed price, or a fixed error when set.
type stubPriceSource struct {
	price float64
	err   error

	lastSymbol string
}

func (s *stubPriceSource) Price(_ context.Context, symbol string) (float64, error) {
	s.lastSymbol = symbol
	if s.err != nil {
		return 0, s.err
	}
	return s.price, nil
}

func TestExtractSymbol(t *testing.T) {
	cases := []struct {
		concepto string
		want     string
	}{
		{"Bitcoin (BTC)", "BTC"},
		{"Ethereum (eth)", "ETH"},
		{"Oro físico (GOLD)", "GOLD"},
		{"Tether", "TETH"},
		{"ETH", "ETH"},
		{"  solana  ", "SOLA"},
		{"(BTC) legacy label (ETH)", "ETH"},
	}
	for _, tc := range cases {
		if got := ExtractSymbol(tc.concepto); got != tc.want {
			t.Errorf("ExtractSymbol(%q) = %q, want %q", tc.concepto, got, tc.want)
		}
	}
}

func TestCreateAsset(t *testing.T) {
	manager := testutil.SetupTestManager(t)
	service := NewAssetService(manager, nil)

	t.Run("success", func(t *testing.T) {
		asset, err := service.CreateAsset("Bitcoin (BTC)", 0.5, 30000, 60000, models.TipoCripto)
		testutil.AssertNoError(t, err)
		if asset.ID == 0 {
			t.Error("expected asset to receive an id")
		}
	})

	t.Run("missing concepto", func(t *testing.T) {
		_, err := service.CreateAsset("  ", 1, 1, 1, models.TipoAccion)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("non-positive cantidad", func(t *testing.T) {
		_, err := service.CreateAsset("Algo", 0, 1, 1, models.TipoAccion)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid tipo", func(t *testing.T) {
		_, err := service.CreateAsset("Algo", 1, 1, 1, "BOND")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestListAssets(t *testing.T) {
	manager := testutil.SetupTestManager(t)
	service := NewAssetService(manager, nil)

	t.Run("ordered by concepto and tipo normalized", func(t *testing.T) {
		err := manager.DB().Exec(
			"INSERT INTO assets (concepto, cantidad, valor, valor_unitario, tipo) VALUES ('A legacy', 1, 1, 1, '')",
		).Error
		testutil.AssertNoError(t, err)
		testutil.CreateTestAsset(t, manager, models.TipoETF)

		assets, err := service.ListAssets()
		testutil.AssertNoError(t, err)
		if len(assets) != 2 {
			t.Fatalf("expected 2 assets, got %d", len(assets))
		}
		if assets[0].Concepto != "A legacy" {
			t.Errorf("expected concepto ordering, got %q first", assets[0].Concepto)
		}
		if assets[0].Tipo != models.TipoAccion {
			t.Errorf("expected blank tipo normalized to ACCION, got %q", assets[0].Tipo)
		}
	})
}

func TestUpdateAsset(t *testing.T) {
	manager := testutil.SetupTestManager(t)
	service := NewAssetService(manager, nil)

	t.Run("partial update", func(t *testing.T) {
		asset := testutil.CreateTestAsset(t, manager, models.TipoAccion)
		cantidad := 2.5

		updated, err := service.UpdateAsset(asset.ID, AssetUpdate{Cantidad: &cantidad})
		testutil.AssertNoError(t, err)
		if !updated {
			t.Error("expected update to report a matched row")
		}

		reloaded, err := service.GetAssetByID(asset.ID)
		testutil.AssertNoError(t, err)
		if reloaded.Cantidad != 2.5 {
			t.Errorf("expected cantidad 2.5, got %f", reloaded.Cantidad)
		}
		if reloaded.Valor != asset.Valor {
			t.Errorf("expected valor untouched, got %f", reloaded.Valor)
		}
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		asset := testutil.CreateTestAsset(t, manager, models.TipoAccion)
		updated, err := service.UpdateAsset(asset.ID, AssetUpdate{})
		testutil.AssertNoError(t, err)
		if updated {
			t.Error("expected no-op for empty update")
		}
	})

	t.Run("negative valor", func(t *testing.T) {
		asset := testutil.CreateTestAsset(t, manager, models.TipoAccion)
		valor := -1.0
		_, err := service.UpdateAsset(asset.ID, AssetUpdate{Valor: &valor})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeleteAsset(t *testing.T) {
	manager := testutil.SetupTestManager(t)
	service := NewAssetService(manager, nil)

	asset := testutil.CreateTestAsset(t, manager, models.TipoFiat)
	deleted, err := service.DeleteAsset(asset.ID)
	testutil.AssertNoError(t, err)
	if !deleted {
		t.Error("expected asset to be deleted")
	}

	deleted, err = service.DeleteAsset(asset.ID)
	testutil.AssertNoError(t, err)
	if deleted {
		t.Error("expected false for already-deleted asset")
	}
}

func TestRefreshUnitPrice(t *testing.T) {
	manager := testutil.SetupTestManager(t)

	t.Run("overwrites valor_unitario only", func(t *testing.T) {
		source := &stubPriceSource{price: 65000.5}
		service := NewAssetService(manager, source)

		created, err := service.CreateAsset("Bitcoin (BTC)", 0.5, 30000, 60000, models.TipoCripto)
		testutil.AssertNoError(t, err)

		asset, err := service.RefreshUnitPrice(context.Background(), created.ID)
		testutil.AssertNoError(t, err)
		if source.lastSymbol != "BTC" {
			t.Errorf("expected oracle queried with BTC, got %q", source.lastSymbol)
		}
		if asset.ValorUnitario != 65000.5 {
			t.Errorf("expected refreshed unit price, got %f", asset.ValorUnitario)
		}

		reloaded, err := service.GetAssetByID(created.ID)
		testutil.AssertNoError(t, err)
		if reloaded.ValorUnitario != 65000.5 {
			t.Errorf("expected persisted unit price, got %f", reloaded.ValorUnitario)
		}
		if reloaded.Cantidad != 0.5 || reloaded.Valor != 30000 {
			t.Errorf("expected other fields untouched, got %+v", reloaded)
		}
	})

	t.Run("fetch failure leaves stored price untouched", func(t *testing.T) {
		source := &stubPriceSource{err: apperrors.ErrOracleUnavailable}
		service := NewAssetService(manager, source)

		created, err := service.CreateAsset("Ethereum (ETH)", 2, 4000, 2000, models.TipoCripto)
		testutil.AssertNoError(t, err)

		_, err = service.RefreshUnitPrice(context.Background(), created.ID)
		testutil.AssertAppError(t, err, "ORACLE_UNAVAILABLE")

		reloaded, err := service.GetAssetByID(created.ID)
		testutil.AssertNoError(t, err)
		if reloaded.ValorUnitario != 2000 {
			t.Errorf("expected stored price untouched, got %f", reloaded.ValorUnitario)
		}
	})

	t.Run("non-positive quote rejected", func(t *testing.T) {
		source := &stubPriceSource{price: 0}
		service := NewAssetService(manager, source)

		created, err := service.CreateAsset("Cardano (ADA)", 100, 50, 0.5, models.TipoCripto)
		testutil.AssertNoError(t, err)

		_, err = service.RefreshUnitPrice(context.Background(), created.ID)
		testutil.AssertAppError(t, err, "PRICE_NOT_FOUND")
	})

	t.Run("no oracle configured", func(t *testing.T) {
		service := NewAssetService(manager, nil)
		created, err := service.CreateAsset("Solana (SOL)", 10, 1500, 150, models.TipoCripto)
		testutil.AssertNoError(t, err)

		_, err = service.RefreshUnitPrice(context.Background(), created.ID)
		testutil.AssertAppError(t, err, "ORACLE_UNAVAILABLE")
	})

	t.Run("missing asset", func(t *testing.T) {
		service := NewAssetService(manager, &stubPriceSource{price: 1})
		_, err := service.RefreshUnitPrice(context.Background(), 99999)
		testutil.AssertAppError(t, err, "ASSET_NOT_FOUND")
	})
}
