package todo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("todo not found")
)

// Repository defines persistence operations for todos. Ownership is enforced
// by the caller after FindByID; DeleteByIDAndOwner is the one operation that
// filters by owner inside the store (a single conditional delete, no separate
// existence check).
type Repository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*Todo, error)
	FindByID(ctx context.Context, id string) (*Todo, error)
	Create(ctx context.Context, t *Todo) (string, error)
	Save(ctx context.Context, t *Todo) error
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (int64, error)
}

// MongoRepository implements Repository using a Mongo collection.
// IDs are ObjectID hex strings stored in the "_id" field.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	// index supporting the owner-scoped listing sorted by creation date
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "user", Value: 1}, {Key: "creationDate", Value: -1}}}
	col.Indexes().CreateOne(context.Background(), idxModel)
	return &MongoRepository{col: col}
}

func (r *MongoRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Todo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "creationDate", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Todo{}
	for cur.Next(ctx) {
		var t Todo
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, cur.Err()
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*Todo, error) {
	var t Todo
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *MongoRepository) Create(ctx context.Context, t *Todo) (string, error) {
	if t.ID == "" {
		t.ID = primitive.NewObjectID().Hex()
	}
	t.CreatedAt = time.Now().UTC()
	if _, err := r.col.InsertOne(ctx, t); err != nil {
		return "", err
	}
	return t.ID, nil
}

// Save persists the editable fields of a previously loaded todo. A vanished
// document (concurrent delete between load and save) reports ErrNotFound so
// the caller treats it as an update failure rather than ignoring it.
func (r *MongoRepository) Save(ctx context.Context, t *Todo) error {
	set := bson.M{"title": t.Title, "details": t.Details, "dueDate": t.DueDate}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": t.ID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "user": ownerID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
