package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/importdesk/landing-cost/internal/core/domain"
	"github.com/importdesk/landing-cost/internal/core/ports"
)

type stubCartonRepo struct {
	byID  map[string]*domain.Carton
	order []string
}

func newStubCartonRepo() *stubCartonRepo {
	return &stubCartonRepo{byID: make(map[string]*domain.Carton)}
}

func (r *stubCartonRepo) Create(_ context.Context, c *domain.Carton) error {
	clone := *c
	r.byID[c.ID] = &clone
	r.order = append(r.order, c.ID)
	return nil
}

func (r *stubCartonRepo) Update(_ context.Context, c *domain.Carton) error {
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrCartonNotFound
	}
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCartonRepo) Delete(_ context.Context, shipmentID, cartonID string) error {
	c, ok := r.byID[cartonID]
	if !ok || c.ShipmentID != shipmentID {
		return domain.ErrCartonNotFound
	}
	delete(r.byID, cartonID)
	return nil
}

func (r *stubCartonRepo) FindByID(_ context.Context, shipmentID, cartonID string) (*domain.Carton, error) {
	c, ok := r.byID[cartonID]
	if !ok || c.ShipmentID != shipmentID {
		return nil, domain.ErrCartonNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCartonRepo) ListByShipment(_ context.Context, shipmentID string) ([]domain.Carton, error) {
	var out []domain.Carton
	for _, id := range r.order {
		if c, ok := r.byID[id]; ok && c.ShipmentID == shipmentID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCartonRepo) BulkSetDimensions(_ context.Context, shipmentID string, ids []string, dims domain.Dimensions, grossWeightKg *float64) (int64, error) {
	var updated int64
	for _, id := range ids {
		c, ok := r.byID[id]
		if !ok || c.ShipmentID != shipmentID {
			continue
		}
		d := dims
		c.Dimensions = &d
		if grossWeightKg != nil {
			w := *grossWeightKg
			c.GrossWeightKg = &w
		}
		updated++
	}
	return updated, nil
}

func newTestCartonService(repo *stubCartonRepo) *CartonService {
	return NewCartonService(repo, zerolog.Nop())
}

func TestAddCartonAllowsPartialMeasurement(t *testing.T) {
	repo := newStubCartonRepo()
	svc := newTestCartonService(repo)

	// Weight known, dimensions not yet measured.
	carton, err := svc.AddCarton(context.Background(), ports.CartonInput{
		ShipmentID:     "shp-1",
		PurchaseItemID: "item-1",
		QtyInCarton:    24,
		GrossWeightKg:  floatPtr(12.4),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if carton.ID == "" {
		t.Error("expected a generated id")
	}
	if carton.Dimensions != nil {
		t.Errorf("dimensions = %+v, want nil", carton.Dimensions)
	}
	if _, ok := repo.byID[carton.ID]; !ok {
		t.Error("carton not persisted")
	}
}

func TestAddCartonValidation(t *testing.T) {
	svc := newTestCartonService(newStubCartonRepo())

	if _, err := svc.AddCarton(context.Background(), ports.CartonInput{ShipmentID: "shp-1"}); err == nil {
		t.Error("missing purchase item id: expected error")
	}
	if _, err := svc.AddCarton(context.Background(), ports.CartonInput{
		ShipmentID: "shp-1", PurchaseItemID: "item-1", QtyInCarton: -1,
	}); err == nil {
		t.Error("negative quantity: expected error")
	}
	if _, err := svc.AddCarton(context.Background(), ports.CartonInput{
		ShipmentID: "shp-1", PurchaseItemID: "item-1", GrossWeightKg: floatPtr(-2),
	}); err == nil {
		t.Error("negative weight: expected error")
	}
}

func TestUpdateCartonKeepsID(t *testing.T) {
	repo := newStubCartonRepo()
	svc := newTestCartonService(repo)

	created, err := svc.AddCarton(context.Background(), ports.CartonInput{
		ShipmentID: "shp-1", PurchaseItemID: "item-1", QtyInCarton: 10,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateCarton(context.Background(), created.ID, ports.CartonInput{
		ShipmentID:     "shp-1",
		PurchaseItemID: "item-1",
		QtyInCarton:    10,
		Dimensions:     &domain.Dimensions{LengthCm: 60, WidthCm: 40, HeightCm: 40},
		GrossWeightKg:  floatPtr(18),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("id changed: %s -> %s", created.ID, updated.ID)
	}
	if repo.byID[created.ID].Dimensions == nil {
		t.Error("dimensions not persisted")
	}
}

func TestBulkSetDimensions(t *testing.T) {
	repo := newStubCartonRepo()
	svc := newTestCartonService(repo)

	var ids []string
	for i := 0; i < 3; i++ {
		c, err := svc.AddCarton(context.Background(), ports.CartonInput{
			ShipmentID: "shp-1", PurchaseItemID: "item-1", QtyInCarton: 12,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, c.ID)
	}

	updated, err := svc.BulkSetDimensions(context.Background(), ports.BulkDimensionsInput{
		ShipmentID:    "shp-1",
		CartonIDs:     append(ids[:2:2], "ghost"),
		Dimensions:    domain.Dimensions{LengthCm: 60, WidthCm: 40, HeightCm: 40},
		GrossWeightKg: floatPtr(15.5),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != 2 {
		t.Errorf("updated = %d, want 2", updated)
	}
	if repo.byID[ids[0]].Dimensions == nil || repo.byID[ids[0]].GrossWeightKg == nil {
		t.Error("measurement not applied to first carton")
	}
	if repo.byID[ids[2]].Dimensions != nil {
		t.Error("measurement leaked onto a carton outside the id set")
	}
}

func TestBulkSetDimensionsRequiresCompleteTriple(t *testing.T) {
	svc := newTestCartonService(newStubCartonRepo())

	_, err := svc.BulkSetDimensions(context.Background(), ports.BulkDimensionsInput{
		ShipmentID: "shp-1",
		CartonIDs:  []string{"ctn-1"},
		Dimensions: domain.Dimensions{LengthCm: 60, WidthCm: 40},
	})
	if !errors.Is(err, domain.ErrIncompleteDimensions) {
		t.Fatalf("err = %v, want ErrIncompleteDimensions", err)
	}
}

func TestBulkSetDimensionsEmptySetIsNoop(t *testing.T) {
	svc := newTestCartonService(newStubCartonRepo())

	updated, err := svc.BulkSetDimensions(context.Background(), ports.BulkDimensionsInput{ShipmentID: "shp-1"})
	if err != nil || updated != 0 {
		t.Fatalf("got (%d, %v), want (0, nil)", updated, err)
	}
}

func TestDeleteCarton(t *testing.T) {
	repo := newStubCartonRepo()
	svc := newTestCartonService(repo)

	c, err := svc.AddCarton(context.Background(), ports.CartonInput{
		ShipmentID: "shp-1", PurchaseItemID: "item-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteCarton(context.Background(), "shp-1", c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteCarton(context.Background(), "shp-1", c.ID); !errors.Is(err, domain.ErrCartonNotFound) {
		t.Errorf("double delete: err = %v, want ErrCartonNotFound", err)
	}
}
