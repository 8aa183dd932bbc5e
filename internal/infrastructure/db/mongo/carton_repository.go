package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/importdesk/landing-cost/internal/core/domain"
)

const collectionCartons = "shipment_cartons"

type CartonRepository struct {
	col *mongo.Collection
}

func NewCartonRepository(db *mongo.Database) *CartonRepository {
	return &CartonRepository{col: db.Collection(collectionCartons)}
}

// EnsureIndexes creates the shipment_id index every query filters on.
func (r *CartonRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "shipment_id", Value: 1}},
	})
	return err
}

// Create inserts a new carton document.
func (r *CartonRepository) Create(ctx context.Context, c *domain.Carton) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, c)
	return err
}

func (r *CartonRepository) Update(ctx context.Context, c *domain.Carton) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": c.ID, "shipment_id": c.ShipmentID}
	res, err := r.col.ReplaceOne(ctx, filter, c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrCartonNotFound
	}
	return nil
}

func (r *CartonRepository) Delete(ctx context.Context, shipmentID, cartonID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": cartonID, "shipment_id": shipmentID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrCartonNotFound
	}
	return nil
}

func (r *CartonRepository) FindByID(ctx context.Context, shipmentID, cartonID string) (*domain.Carton, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Carton
	err := r.col.FindOne(ctx, bson.M{"_id": cartonID, "shipment_id": shipmentID}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartonNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByShipment returns the shipment's cartons ordered by id for stable
// allocation input.
func (r *CartonRepository) ListByShipment(ctx context.Context, shipmentID string) ([]domain.Carton, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"shipment_id": shipmentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Carton
	for cur.Next(ctx) {
		var c domain.Carton
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, cur.Err()
}

// BulkSetDimensions applies one measurement to every carton in ids with a
// single UpdateMany, returning how many documents matched.
func (r *CartonRepository) BulkSetDimensions(ctx context.Context, shipmentID string, ids []string, dims domain.Dimensions, grossWeightKg *float64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": bson.M{"$in": ids}, "shipment_id": shipmentID}
	set := bson.M{"dimensions": dims}
	if grossWeightKg != nil {
		set["gross_weight_kg"] = *grossWeightKg
	}
	res, err := r.col.UpdateMany(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}
