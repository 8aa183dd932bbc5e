package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/importdesk/landing-cost/internal/core/domain"
)

const collectionCosts = "shipment_costs"

type CostRepository struct {
	col *mongo.Collection
}

func NewCostRepository(db *mongo.Database) *CostRepository {
	return &CostRepository{col: db.Collection(collectionCosts)}
}

// EnsureIndexes creates the shipment_id index every query filters on.
func (r *CostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "shipment_id", Value: 1}},
	})
	return err
}

// costDoc is the persisted shape of a cost line. Monetary amounts are stored
// as strings so no precision is lost round-tripping through BSON doubles.
type costDoc struct {
	ID                string    `bson:"_id"`
	ShipmentID        string    `bson:"shipment_id"`
	Category          string    `bson:"category"`
	Mode              string    `bson:"mode,omitempty"`
	VolumetricDivisor *float64  `bson:"volumetric_divisor,omitempty"`
	AmountOriginal    string    `bson:"amount_original"`
	Currency          string    `bson:"currency"`
	FXRate            string    `bson:"fx_rate,omitempty"`
	AmountBase        string    `bson:"amount_base"`
	Notes             string    `bson:"notes,omitempty"`
	UpdatedAt         time.Time `bson:"updated_at"`
}

func toCostDoc(c *domain.ShipmentCost) costDoc {
	doc := costDoc{
		ID:                c.ID,
		ShipmentID:        c.ShipmentID,
		Category:          string(c.Category),
		Mode:              string(c.Mode),
		VolumetricDivisor: c.VolumetricDivisor,
		AmountOriginal:    c.AmountOriginal.String(),
		Currency:          c.Currency,
		AmountBase:        c.AmountBase.String(),
		Notes:             c.Notes,
		UpdatedAt:         time.Now().UTC(),
	}
	if c.FXRate != nil {
		doc.FXRate = c.FXRate.String()
	}
	return doc
}

func (d costDoc) toDomain() (*domain.ShipmentCost, error) {
	amountOriginal, err := decimal.NewFromString(d.AmountOriginal)
	if err != nil {
		return nil, fmt.Errorf("cost %s: bad amount_original %q: %w", d.ID, d.AmountOriginal, err)
	}
	amountBase, err := decimal.NewFromString(d.AmountBase)
	if err != nil {
		return nil, fmt.Errorf("cost %s: bad amount_base %q: %w", d.ID, d.AmountBase, err)
	}
	cost := &domain.ShipmentCost{
		ID:                d.ID,
		ShipmentID:        d.ShipmentID,
		Category:          domain.CostCategory(d.Category),
		Mode:              domain.FreightMode(d.Mode),
		VolumetricDivisor: d.VolumetricDivisor,
		AmountOriginal:    amountOriginal,
		Currency:          d.Currency,
		AmountBase:        amountBase,
		Notes:             d.Notes,
	}
	if d.FXRate != "" {
		rate, err := decimal.NewFromString(d.FXRate)
		if err != nil {
			return nil, fmt.Errorf("cost %s: bad fx_rate %q: %w", d.ID, d.FXRate, err)
		}
		cost.FXRate = &rate
	}
	return cost, nil
}

func (r *CostRepository) Create(ctx context.Context, c *domain.ShipmentCost) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, toCostDoc(c))
	return err
}

func (r *CostRepository) Update(ctx context.Context, c *domain.ShipmentCost) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": c.ID, "shipment_id": c.ShipmentID}
	res, err := r.col.ReplaceOne(ctx, filter, toCostDoc(c))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrCostNotFound
	}
	return nil
}

func (r *CostRepository) Delete(ctx context.Context, shipmentID, costID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": costID, "shipment_id": shipmentID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrCostNotFound
	}
	return nil
}

func (r *CostRepository) FindByID(ctx context.Context, shipmentID, costID string) (*domain.ShipmentCost, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc costDoc
	err := r.col.FindOne(ctx, bson.M{"_id": costID, "shipment_id": shipmentID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCostNotFound
		}
		return nil, err
	}
	return doc.toDomain()
}

// ListByShipment returns the shipment's cost lines ordered by id, so repeated
// allocation runs see the lines in a stable order.
func (r *CostRepository) ListByShipment(ctx context.Context, shipmentID string) ([]domain.ShipmentCost, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"shipment_id": shipmentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.ShipmentCost
	for cur.Next(ctx) {
		var doc costDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		cost, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *cost)
	}
	return out, cur.Err()
}
