package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/scaffold-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStockRepository stores stock items and withdrawals in MongoDB.
// Transactions require a replica set.
type MongoStockRepository struct {
	client      *mongo.Client
	items       *mongo.Collection
	withdrawals *mongo.Collection
}

// NewMongoStockRepository creates a new MongoDB stock repository.
func NewMongoStockRepository(db *MongoDB) *MongoStockRepository {
	return &MongoStockRepository{
		client:      db.Client,
		items:       db.Stock,
		withdrawals: db.Withdrawals,
	}
}

// Create inserts a new stock item.
func (r *MongoStockRepository) Create(ctx context.Context, item *model.StockItem) error {
	if item.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	_, err := r.items.InsertOne(ctx, item)
	return err
}

// GetByID returns the item or nil when it does not exist.
func (r *MongoStockRepository) GetByID(ctx context.Context, id string) (*model.StockItem, error) {
	return findItem(ctx, r.items, id)
}

func findItem(ctx context.Context, coll *mongo.Collection, id string) (*model.StockItem, error) {
	var item model.StockItem
	err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns the tenant's items ordered by name.
func (r *MongoStockRepository) List(ctx context.Context, tenantID string) ([]model.StockItem, error) {
	return r.find(ctx, tenantFilter(tenantID), options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}))
}

// Search filters the tenant's items.
func (r *MongoStockRepository) Search(ctx context.Context, tenantID string, filter model.StockFilter) ([]model.StockItem, error) {
	f := normalizeFilter(filter)
	query := tenantFilter(tenantID)

	if f.Query != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(f.Query), "$options": "i"}
		query["$or"] = bson.A{bson.M{"name": pattern}, bson.M{"category": pattern}}
	}
	if f.Category != "" {
		query["category"] = bson.M{"$regex": regexp.QuoteMeta(f.Category), "$options": "i"}
	}
	if f.MinStock != nil || f.MaxStock != nil {
		qty := bson.M{}
		if f.MinStock != nil {
			qty["$gte"] = *f.MinStock
		}
		if f.MaxStock != nil {
			qty["$lte"] = *f.MaxStock
		}
		query["quantity"] = qty
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(f.Skip)).
		SetLimit(int64(f.Limit))
	return r.find(ctx, query, opts)
}

func (r *MongoStockRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.StockItem, error) {
	cursor, err := r.items.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	items := []model.StockItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetQuantity overwrites the quantity of an item.
func (r *MongoStockRepository) SetQuantity(ctx context.Context, id string, qty int) (*model.StockItem, error) {
	if qty < 0 {
		return nil, ErrNegativeQuantity
	}
	update := bson.M{"$set": bson.M{"quantity": qty, "updated_at": time.Now().UTC()}}
	return r.findAndUpdate(ctx, bson.M{"_id": id}, update)
}

// AdjustQuantity adds delta to the quantity of an item. The update only
// applies when the result stays non-negative.
func (r *MongoStockRepository) AdjustQuantity(ctx context.Context, id string, delta int) (*model.StockItem, error) {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["quantity"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"quantity": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	item, err := r.findAndUpdate(ctx, filter, update)
	if !errors.Is(err, ErrStockItemNotFound) || delta >= 0 {
		return item, err
	}

	// tell a missing item from an insufficient one
	existing, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if existing == nil {
		return nil, ErrStockItemNotFound
	}
	return nil, ErrNegativeQuantity
}

func (r *MongoStockRepository) findAndUpdate(ctx context.Context, filter, update bson.M) (*model.StockItem, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item model.StockItem
	err := r.items.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrStockItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes an item.
func (r *MongoStockRepository) Delete(ctx context.Context, id string) error {
	res, err := r.items.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrStockItemNotFound
	}
	return nil
}

// ListWithdrawals returns withdrawals, newest first.
func (r *MongoStockRepository) ListWithdrawals(ctx context.Context, q WithdrawalQuery) ([]model.Withdrawal, error) {
	filter := tenantFilter(q.TenantID)
	if !q.Since.IsZero() {
		filter["created_at"] = bson.M{"$gte": q.Since.UTC()}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := r.withdrawals.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	out := []model.Withdrawal{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WithTx runs fn inside a MongoDB multi-document transaction.
func (r *MongoStockRepository) WithTx(ctx context.Context, fn func(ctx context.Context, tx StockTx) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, &mongoStockTx{items: r.items, withdrawals: r.withdrawals})
	})
	return err
}

// Ping verifies the connection.
func (r *MongoStockRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.client.Ping(ctx, nil)
}

type mongoStockTx struct {
	items       *mongo.Collection
	withdrawals *mongo.Collection
}

func (t *mongoStockTx) GetByID(ctx context.Context, id string) (*model.StockItem, error) {
	return findItem(ctx, t.items, id)
}

func (t *mongoStockTx) Decrement(ctx context.Context, id string, qty int) (bool, error) {
	res, err := t.items.UpdateOne(ctx,
		bson.M{"_id": id, "quantity": bson.M{"$gte": qty}},
		bson.M{
			"$inc": bson.M{"quantity": -qty},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (t *mongoStockTx) InsertWithdrawal(ctx context.Context, w *model.Withdrawal) error {
	prepareWithdrawal(w)
	_, err := t.withdrawals.InsertOne(ctx, w)
	return err
}

func tenantFilter(tenantID string) bson.M {
	if tenantID == "" {
		return bson.M{}
	}
	return bson.M{"tenant_id": tenantID}
}
