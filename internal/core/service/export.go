package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/importdesk/landing-cost/internal/core/ports"
)

var csvHeader = []string{
	"SKU",
	"Name",
	"Units",
	"Actual Weight (kg)",
	"Volumetric Weight (kg)",
	"Chargeable Weight (kg)",
	"Freight Allocated",
	"Duty",
	"Brokerage",
	"Insurance",
	"Packaging",
	"Other Fees",
	"Total Allocated",
	"Landing Cost/Unit",
	"Warnings",
}

// WriteAllocationCSV renders an allocation table as CSV: one row per item in
// input order plus a trailing TOTAL row. The output is diff-stable: the same
// response always serializes to the same bytes.
func WriteAllocationCSV(w io.Writer, resp *ports.AllocationResponse) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, item := range resp.Items {
		row := []string{
			item.SKU,
			item.Name,
			strconv.Itoa(item.Quantity),
			formatWeight(item.ActualWeightKg),
			formatWeight(item.VolumetricWeightKg),
			formatWeight(item.ChargeableWeightKg),
			item.FreightAllocated.StringFixed(amountPlaces),
			item.DutyAllocated.StringFixed(amountPlaces),
			item.BrokerageAllocated.StringFixed(amountPlaces),
			item.InsuranceAllocated.StringFixed(amountPlaces),
			item.PackagingAllocated.StringFixed(amountPlaces),
			item.OtherAllocated.StringFixed(amountPlaces),
			item.TotalAllocated.StringFixed(amountPlaces),
			item.LandingCostPerUnit.StringFixed(amountPlaces),
			strings.Join(item.Warnings, "; "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	totals := []string{
		"TOTAL",
		"",
		strconv.Itoa(resp.TotalUnits),
		formatWeight(resp.TotalActualWeight),
		formatWeight(resp.TotalVolumetricWeight),
		formatWeight(resp.TotalChargeableWeight),
		resp.Totals.Freight.StringFixed(amountPlaces),
		resp.Totals.Duty.StringFixed(amountPlaces),
		resp.Totals.Brokerage.StringFixed(amountPlaces),
		resp.Totals.Insurance.StringFixed(amountPlaces),
		resp.Totals.Packaging.StringFixed(amountPlaces),
		resp.Totals.Other.StringFixed(amountPlaces),
		resp.Totals.Total.StringFixed(amountPlaces),
		"",
		"",
	}
	if err := cw.Write(totals); err != nil {
		return fmt.Errorf("write csv totals: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

func formatWeight(kg float64) string {
	return strconv.FormatFloat(kg, 'f', 3, 64)
}
