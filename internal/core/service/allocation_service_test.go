package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/importdesk/landing-cost/internal/core/domain"
	"github.com/importdesk/landing-cost/internal/core/ports"
)

var allocTolerance = decimal.RequireFromString("0.001")

func newTestEngine() *AllocationService {
	return NewAllocationService(zerolog.Nop())
}

func methodPtr(m domain.AllocationMethod) *domain.AllocationMethod { return &m }

func approxEqual(t *testing.T, label string, got, want decimal.Decimal) {
	t.Helper()
	if got.Sub(want).Abs().GreaterThan(allocTolerance) {
		t.Errorf("%s = %s, want %s", label, got, want)
	}
}

// Two item lines with equal chargeable weight split every category pool
// evenly under the auto-selected weight method.
func TestAllocateWeightBased(t *testing.T) {
	req := ports.AllocationRequest{
		ShipmentID: "shp-1",
		Items: []domain.PurchaseItemLine{
			{ID: "a", SKU: "SKU-A", Quantity: 10, UnitPrice: decimal.NewFromInt(5), Currency: "EUR", WeightKgPerUnit: floatPtr(1), DimsPerUnit: &domain.Dimensions{LengthCm: 30, WidthCm: 20, HeightCm: 10}},
			{ID: "b", SKU: "SKU-B", Quantity: 5, UnitPrice: decimal.NewFromInt(20), Currency: "USD", WeightKgPerUnit: floatPtr(2), DimsPerUnit: &domain.Dimensions{LengthCm: 30, WidthCm: 20, HeightCm: 10}},
		},
		Costs: []domain.ShipmentCost{
			{ID: "c1", Category: domain.CostFreight, AmountOriginal: decimal.NewFromInt(100), Currency: "EUR"},
			{ID: "c2", Category: domain.CostDuty, AmountOriginal: decimal.NewFromInt(60), Currency: "EUR"},
		},
		Meta:              ports.ShipmentMeta{UnitType: "Cartons"},
		ReportingCurrency: "EUR",
		Rates:             map[string]decimal.Decimal{"USD": decimal.RequireFromString("0.9")},
	}

	resp, err := newTestEngine().Allocate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.AutoSelectedMethod != domain.MethodChargeableWeight || resp.EffectiveMethod != domain.MethodChargeableWeight {
		t.Fatalf("method = %s/%s, want CHARGEABLE_WEIGHT", resp.AutoSelectedMethod, resp.EffectiveMethod)
	}
	if resp.MethodOverridden {
		t.Error("MethodOverridden = true, want false")
	}

	a, b := resp.Items[0], resp.Items[1]
	approxEqual(t, "a.freight", a.FreightAllocated, decimal.NewFromInt(50))
	approxEqual(t, "b.freight", b.FreightAllocated, decimal.NewFromInt(50))
	approxEqual(t, "a.duty", a.DutyAllocated, decimal.NewFromInt(30))
	approxEqual(t, "a.total", a.TotalAllocated, decimal.NewFromInt(80))

	// unit value + allocated share per unit
	approxEqual(t, "a.landingCostPerUnit", a.LandingCostPerUnit, decimal.NewFromInt(13))
	approxEqual(t, "b.landingCostPerUnit", b.LandingCostPerUnit, decimal.NewFromInt(34))

	// conservation per category
	approxEqual(t, "freight sum", a.FreightAllocated.Add(b.FreightAllocated), resp.Totals.Freight)
	approxEqual(t, "duty sum", a.DutyAllocated.Add(b.DutyAllocated), resp.Totals.Duty)
	approxEqual(t, "grand total", resp.Totals.Total, decimal.NewFromInt(160))

	if resp.TotalUnits != 15 || resp.TotalChargeableWeight != 20 {
		t.Errorf("totals: units %d chargeable %v", resp.TotalUnits, resp.TotalChargeableWeight)
	}
	if got, want := resp.GrandTotalByCurrency["EUR"], decimal.NewFromInt(160); !got.Equal(want) {
		t.Errorf("byCurrency[EUR] = %s, want %s", got, want)
	}
	if len(a.Warnings) != 0 || len(b.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v / %v", a.Warnings, b.Warnings)
	}
}

// With method UNITS and N equal-quantity lines each receives pool/N.
func TestAllocateUnitsFairness(t *testing.T) {
	req := ports.AllocationRequest{
		ShipmentID: "shp-2",
		Items: []domain.PurchaseItemLine{
			{ID: "a", Quantity: 4, UnitPrice: decimal.NewFromInt(1), Currency: "EUR"},
			{ID: "b", Quantity: 4, UnitPrice: decimal.NewFromInt(2), Currency: "EUR"},
			{ID: "c", Quantity: 4, UnitPrice: decimal.NewFromInt(3), Currency: "EUR"},
		},
		Costs: []domain.ShipmentCost{
			{ID: "c1", Category: domain.CostBrokerage, AmountOriginal: decimal.NewFromInt(90), Currency: "EUR"},
		},
		Method:            methodPtr(domain.MethodUnits),
		ReportingCurrency: "EUR",
	}

	resp, err := newTestEngine().Allocate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, item := range resp.Items {
		approxEqual(t, "brokerage", item.BrokerageAllocated, decimal.NewFromInt(30))
		if i > 0 && !item.BrokerageAllocated.Equal(resp.Items[0].BrokerageAllocated) {
			t.Errorf("unequal shares: %s vs %s", item.BrokerageAllocated, resp.Items[0].BrokerageAllocated)
		}
	}
	if !resp.MethodOverridden {
		t.Error("explicit method should be recorded as an override")
	}
}

// PER_UNIT ignores quantity, UNITS is proportional to it.
func TestAllocatePerUnitVersusUnits(t *testing.T) {
	items := []domain.PurchaseItemLine{
		{ID: "a", Quantity: 1, UnitPrice: decimal.NewFromInt(1), Currency: "EUR"},
		{ID: "b", Quantity: 9, UnitPrice: decimal.NewFromInt(1), Currency: "EUR"},
	}
	costs := []domain.ShipmentCost{
		{ID: "c1", Category: domain.CostPackaging, AmountOriginal: decimal.NewFromInt(100), Currency: "EUR"},
	}

	perUnit, err := newTestEngine().Allocate(context.Background(), ports.AllocationRequest{
		Items: items, Costs: costs, Method: methodPtr(domain.MethodPerUnit), ReportingCurrency: "EUR",
	})
	if err != nil {
		t.Fatalf("per-unit: %v", err)
	}
	approxEqual(t, "per-unit a", perUnit.Items[0].PackagingAllocated, decimal.NewFromInt(50))
	approxEqual(t, "per-unit b", perUnit.Items[1].PackagingAllocated, decimal.NewFromInt(50))

	units, err := newTestEngine().Allocate(context.Background(), ports.AllocationRequest{
		Items: items, Costs: costs, Method: methodPtr(domain.MethodUnits), ReportingCurrency: "EUR",
	})
	if err != nil {
		t.Fatalf("units: %v", err)
	}
	approxEqual(t, "units a", units.Items[0].PackagingAllocated, decimal.NewFromInt(10))
	approxEqual(t, "units b", units.Items[1].PackagingAllocated, decimal.NewFromInt(90))
}

// The hybrid allocation must equal 0.6 of the pure weight run plus 0.4 of
// the pure value run, computed independently.
func TestAllocateHybridBlend(t *testing.T) {
	items := []domain.PurchaseItemLine{
		{ID: "a", Quantity: 2, UnitPrice: decimal.NewFromInt(10), Currency: "EUR", WeightKgPerUnit: floatPtr(3)},
		{ID: "b", Quantity: 5, UnitPrice: decimal.NewFromInt(4), Currency: "EUR", WeightKgPerUnit: floatPtr(1)},
		{ID: "c", Quantity: 1, UnitPrice: decimal.NewFromInt(50), Currency: "EUR", WeightKgPerUnit: floatPtr(7)},
	}
	costs := []domain.ShipmentCost{
		{ID: "c1", Category: domain.CostFreight, AmountOriginal: decimal.NewFromInt(250), Currency: "EUR"},
	}

	run := func(method domain.AllocationMethod) *ports.AllocationResponse {
		resp, err := newTestEngine().Allocate(context.Background(), ports.AllocationRequest{
			Items: items, Costs: costs, Method: methodPtr(method), ReportingCurrency: "EUR",
		})
		if err != nil {
			t.Fatalf("%s: %v", method, err)
		}
		return resp
	}

	hybrid := run(domain.MethodHybrid)
	weight := run(domain.MethodChargeableWeight)
	value := run(domain.MethodValue)

	for i := range items {
		blended := weight.Items[i].FreightAllocated.Mul(decimal.RequireFromString("0.6")).
			Add(value.Items[i].FreightAllocated.Mul(decimal.RequireFromString("0.4")))
		approxEqual(t, "hybrid "+items[i].ID, hybrid.Items[i].FreightAllocated, blended)
	}
	approxEqual(t, "hybrid conservation",
		hybrid.Items[0].FreightAllocated.Add(hybrid.Items[1].FreightAllocated).Add(hybrid.Items[2].FreightAllocated),
		decimal.NewFromInt(250))
}

// A weight method over items with no weight data degrades to a per-quantity
// split and says so, once per run and once per affected line.
func TestAllocateBasisFallback(t *testing.T) {
	req := ports.AllocationRequest{
		Items: []domain.PurchaseItemLine{
			{ID: "a", Quantity: 3, UnitPrice: decimal.NewFromInt(1), Currency: "EUR"},
			{ID: "b", Quantity: 1, UnitPrice: decimal.NewFromInt(1), Currency: "EUR"},
		},
		Costs: []domain.ShipmentCost{
			{ID: "c1", Category: domain.CostFreight, AmountOriginal: decimal.NewFromInt(40), Currency: "EUR"},
		},
		Method:            methodPtr(domain.MethodChargeableWeight),
		ReportingCurrency: "EUR",
	}

	resp, err := newTestEngine().Allocate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	approxEqual(t, "a.freight", resp.Items[0].FreightAllocated, decimal.NewFromInt(30))
	approxEqual(t, "b.freight", resp.Items[1].FreightAllocated, decimal.NewFromInt(10))

	if len(resp.Warnings) != 1 || resp.Warnings[0] != domain.WarnBasisFallback {
		t.Errorf("shipment warnings = %v, want [%s]", resp.Warnings, domain.WarnBasisFallback)
	}
	for _, item := range resp.Items {
		if !containsWarning(item.Warnings, domain.WarnMissingWeight) {
			t.Errorf("item %s warnings = %v, want MISSING_WEIGHT", item.PurchaseItemID, item.Warnings)
		}
		if !containsWarning(item.Warnings, domain.WarnMissingDimensions) {
			t.Errorf("item %s warnings = %v, want MISSING_DIMENSIONS", item.PurchaseItemID, item.Warnings)
		}
	}
}

func TestAllocateMissingItemRateBlocks(t *testing.T) {
	req := ports.AllocationRequest{
		Items: []domain.PurchaseItemLine{
			{ID: "a", Quantity: 1, UnitPrice: decimal.NewFromInt(100), Currency: "CNY"},
		},
		Costs: []domain.ShipmentCost{
			{ID: "c1", Category: domain.CostFreight, AmountOriginal: decimal.NewFromInt(10), Currency: "EUR"},
		},
		ReportingCurrency: "EUR",
	}

	_, err := newTestEngine().Allocate(context.Background(), req)
	if !errors.Is(err, domain.ErrMissingFXRate) {
		t.Fatalf("err = %v, want ErrMissingFXRate", err)
	}
	var fxErr *domain.MissingFXRateError
	if !errors.As(err, &fxErr) {
		t.Fatalf("err is %T, want *MissingFXRateError", err)
	}
	if got := fxErr.Lines["CNY"]; len(got) != 1 || got[0] != "a" {
		t.Errorf("lines[CNY] = %v, want [a]", got)
	}
}

func TestAllocateZeroQuantityWarns(t *testing.T) {
	req := ports.AllocationRequest{
		Items: []domain.PurchaseItemLine{
			{ID: "a", Quantity: 0, UnitPrice: decimal.NewFromInt(5), Currency: "EUR", WeightKgPerUnit: floatPtr(1)},
			{ID: "b", Quantity: 2, UnitPrice: decimal.NewFromInt(5), Currency: "EUR", WeightKgPerUnit: floatPtr(1)},
		},
		Costs: []domain.ShipmentCost{
			{ID: "c1", Category: domain.CostOther, AmountOriginal: decimal.NewFromInt(10), Currency: "EUR"},
		},
		Method:            methodPtr(domain.MethodUnits),
		ReportingCurrency: "EUR",
	}

	resp, err := newTestEngine().Allocate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsWarning(resp.Items[0].Warnings, domain.WarnZeroQuantity) {
		t.Errorf("warnings = %v, want ZERO_QUANTITY", resp.Items[0].Warnings)
	}
	if !resp.Items[0].LandingCostPerUnit.IsZero() {
		t.Errorf("landingCostPerUnit = %s, want 0", resp.Items[0].LandingCostPerUnit)
	}
	approxEqual(t, "b gets everything", resp.Items[1].OtherAllocated, decimal.NewFromInt(10))
}

// Rounding residue lands on the largest allocation so columns sum exactly.
func TestReconcileRounding(t *testing.T) {
	third := decimal.NewFromInt(100).Div(decimal.NewFromInt(3))
	amounts := []decimal.Decimal{third, third, third}

	out := reconcileRounding(amounts, decimal.NewFromInt(100))

	sum := decimal.Zero
	for _, a := range out {
		sum = sum.Add(a)
	}
	if !sum.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("sum = %s, want exactly 100", sum)
	}
	if !out[1].Equal(out[2]) {
		t.Errorf("untouched allocations differ: %s vs %s", out[1], out[2])
	}
}

// Identical snapshots must produce identical output, field for field.
func TestAllocateDeterministic(t *testing.T) {
	req := ports.AllocationRequest{
		ShipmentID: "shp-d",
		Items: []domain.PurchaseItemLine{
			{ID: "a", Quantity: 3, UnitPrice: decimal.RequireFromString("7.77"), Currency: "USD", WeightKgPerUnit: floatPtr(1.3)},
			{ID: "b", Quantity: 11, UnitPrice: decimal.RequireFromString("0.35"), Currency: "EUR", WeightKgPerUnit: floatPtr(0.2)},
		},
		Costs: []domain.ShipmentCost{
			{ID: "c1", Category: domain.CostFreight, AmountOriginal: decimal.RequireFromString("123.45"), Currency: "EUR"},
			{ID: "c2", Category: domain.CostDuty, AmountOriginal: decimal.RequireFromString("67.89"), Currency: "USD"},
		},
		Meta:              ports.ShipmentMeta{UnitType: "Mixed"},
		ReportingCurrency: "EUR",
		Rates:             map[string]decimal.Decimal{"USD": decimal.RequireFromString("0.91")},
	}

	first, err := newTestEngine().Allocate(context.Background(), req)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := newTestEngine().Allocate(context.Background(), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	for i := range first.Items {
		if !first.Items[i].TotalAllocated.Equal(second.Items[i].TotalAllocated) ||
			!first.Items[i].LandingCostPerUnit.Equal(second.Items[i].LandingCostPerUnit) {
			t.Errorf("item %d differs between runs", i)
		}
	}
	if !first.Totals.Total.Equal(second.Totals.Total) {
		t.Errorf("grand totals differ: %s vs %s", first.Totals.Total, second.Totals.Total)
	}
}

func TestAllocateRequiresReportingCurrency(t *testing.T) {
	_, err := newTestEngine().Allocate(context.Background(), ports.AllocationRequest{})
	if err == nil {
		t.Fatal("expected error for empty reporting currency")
	}
}

func containsWarning(warnings []string, code string) bool {
	for _, w := range warnings {
		if w == code {
			return true
		}
	}
	return false
}
