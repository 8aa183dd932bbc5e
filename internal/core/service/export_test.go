package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/importdesk/landing-cost/internal/core/domain"
	"github.com/importdesk/landing-cost/internal/core/ports"
)

func TestWriteAllocationCSV(t *testing.T) {
	req := ports.AllocationRequest{
		ShipmentID: "shp-csv",
		Items: []domain.PurchaseItemLine{
			{ID: "a", SKU: "SKU-A", Name: "Widget", Quantity: 10, UnitPrice: decimal.NewFromInt(5), Currency: "EUR", WeightKgPerUnit: floatPtr(1)},
			{ID: "b", SKU: "SKU-B", Name: "Gadget, large", Quantity: 5, UnitPrice: decimal.NewFromInt(20), Currency: "EUR", WeightKgPerUnit: floatPtr(2)},
		},
		Costs: []domain.ShipmentCost{
			{ID: "c1", Category: domain.CostFreight, AmountOriginal: decimal.NewFromInt(100), Currency: "EUR"},
		},
		Method:            methodPtr(domain.MethodChargeableWeight),
		ReportingCurrency: "EUR",
	}

	resp, err := newTestEngine().Allocate(context.Background(), req)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteAllocationCSV(&buf, resp); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}

	// header + 2 items + totals row
	if len(records) != 4 {
		t.Fatalf("rows = %d, want 4", len(records))
	}
	if records[0][0] != "SKU" || records[0][len(records[0])-1] != "Warnings" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][0] != "SKU-A" || records[2][1] != "Gadget, large" {
		t.Errorf("item rows out of order: %v / %v", records[1], records[2])
	}
	if records[3][0] != "TOTAL" {
		t.Errorf("last row = %v, want TOTAL row", records[3])
	}
	if records[3][2] != "15" {
		t.Errorf("total units = %s, want 15", records[3][2])
	}
	if records[1][6] != "50.0000" || records[2][6] != "50.0000" {
		t.Errorf("freight columns = %s / %s, want 50.0000", records[1][6], records[2][6])
	}
	if records[3][12] != "100.0000" {
		t.Errorf("grand total = %s, want 100.0000", records[3][12])
	}

	// Diff stability: same response, same bytes.
	var again bytes.Buffer
	if err := WriteAllocationCSV(&again, resp); err != nil {
		t.Fatalf("second write: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), again.Bytes()) {
		t.Error("CSV output differs between identical runs")
	}
}
