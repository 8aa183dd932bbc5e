package handler

import (
	"github.com/importdesk/landing-cost/internal/core/domain"
	"github.com/importdesk/landing-cost/internal/core/ports"
)

func toDimensions(d *dimensionsRequest) *domain.Dimensions {
	if d == nil {
		return nil
	}
	return &domain.Dimensions{LengthCm: d.LengthCm, WidthCm: d.WidthCm, HeightCm: d.HeightCm}
}

func toAllocationRequest(shipmentID string, req allocationRequest) ports.AllocationRequest {
	out := ports.AllocationRequest{
		ShipmentID:        shipmentID,
		ReportingCurrency: req.ReportingCurrency,
		Meta: ports.ShipmentMeta{
			UnitType:               req.ShipmentMeta.UnitType,
			DefaultMode:            domain.FreightMode(req.ShipmentMeta.DefaultMode),
			ShippingCost:           req.ShipmentMeta.ShippingCost,
			ShippingCostCurrency:   req.ShipmentMeta.ShippingCostCurrency,
			InsuranceValue:         req.ShipmentMeta.InsuranceValue,
			POShippingCost:         req.ShipmentMeta.POShippingCost,
			POShippingCostCurrency: req.ShipmentMeta.POShippingCostCurrency,
		},
	}
	if req.Method != nil {
		m := domain.AllocationMethod(*req.Method)
		out.Method = &m
	}

	if req.Cartons != nil {
		out.Cartons = make([]domain.Carton, len(req.Cartons))
		for i, c := range req.Cartons {
			out.Cartons[i] = domain.Carton{
				ID:             c.ID,
				ShipmentID:     shipmentID,
				PurchaseItemID: c.PurchaseItemID,
				QtyInCarton:    c.QtyInCarton,
				Dimensions:     toDimensions(c.Dimensions),
				GrossWeightKg:  c.GrossWeightKg,
			}
		}
	}

	out.Items = make([]domain.PurchaseItemLine, len(req.Items))
	for i, item := range req.Items {
		out.Items[i] = domain.PurchaseItemLine{
			ID:              item.ID,
			SKU:             item.SKU,
			Name:            item.Name,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			Currency:        item.Currency,
			WeightKgPerUnit: item.WeightKgPerUnit,
			DimsPerUnit:     toDimensions(item.DimsPerUnit),
		}
	}

	if req.Costs != nil {
		out.Costs = make([]domain.ShipmentCost, len(req.Costs))
		for i, cost := range req.Costs {
			out.Costs[i] = domain.ShipmentCost{
				ID:                cost.ID,
				ShipmentID:        shipmentID,
				Category:          domain.CostCategory(cost.Category),
				Mode:              domain.FreightMode(cost.Mode),
				VolumetricDivisor: cost.VolumetricDivisor,
				AmountOriginal:    cost.AmountOriginal,
				Currency:          cost.Currency,
				FXRate:            cost.FXRate,
				Notes:             cost.Notes,
			}
		}
	}

	return out
}

func toAllocationResponse(resp *ports.AllocationResponse) allocationResponse {
	out := allocationResponse{
		ShipmentID:        resp.ShipmentID,
		ReportingCurrency: resp.ReportingCurrency,
		Items:             make([]itemAllocationResponse, len(resp.Items)),
		Totals: categoryTotalsResponse{
			Freight:    resp.Totals.Freight,
			Duty:       resp.Totals.Duty,
			Brokerage:  resp.Totals.Brokerage,
			Insurance:  resp.Totals.Insurance,
			Packaging:  resp.Totals.Packaging,
			Other:      resp.Totals.Other,
			GrandTotal: resp.Totals.Total,
		},
		TotalUnits:            resp.TotalUnits,
		TotalActualWeight:     resp.TotalActualWeight,
		TotalVolumetricWeight: resp.TotalVolumetricWeight,
		TotalChargeableWeight: resp.TotalChargeableWeight,
		GrandTotalByCurrency:  resp.GrandTotalByCurrency,
		AutoSelectedMethod:    string(resp.AutoSelectedMethod),
		EffectiveMethod:       string(resp.EffectiveMethod),
		MethodOverridden:      resp.MethodOverridden,
		MethodReasoning:       resp.MethodReasoning,
		Warnings:              resp.Warnings,
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	for i, item := range resp.Items {
		warnings := item.Warnings
		if warnings == nil {
			warnings = []string{}
		}
		out.Items[i] = itemAllocationResponse{
			PurchaseItemID:     item.PurchaseItemID,
			SKU:                item.SKU,
			Name:               item.Name,
			Quantity:           item.Quantity,
			ActualWeightKg:     item.ActualWeightKg,
			VolumetricWeightKg: item.VolumetricWeightKg,
			ChargeableWeightKg: item.ChargeableWeightKg,
			FreightAllocated:   item.FreightAllocated,
			DutyAllocated:      item.DutyAllocated,
			BrokerageAllocated: item.BrokerageAllocated,
			InsuranceAllocated: item.InsuranceAllocated,
			PackagingAllocated: item.PackagingAllocated,
			OtherAllocated:     item.OtherAllocated,
			TotalAllocated:     item.TotalAllocated,
			LandingCostPerUnit: item.LandingCostPerUnit,
			Warnings:           warnings,
		}
	}
	return out
}
