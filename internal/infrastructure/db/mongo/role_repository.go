package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const roleCollection = "roles"

type MongoRoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *MongoRoleRepository {
	return &MongoRoleRepository{coll: db.Collection(roleCollection)}
}

// Seed reconciles the canonical role set: create-if-absent, never delete or
// rename. Upserts keyed on the role name keep this idempotent and safe when
// several replicas start at once.
func (r *MongoRoleRepository) Seed(ctx context.Context, names []string) error {
	for _, name := range names {
		_, err := r.coll.UpdateOne(ctx,
			bson.M{"name": name},
			bson.M{"$setOnInsert": bson.M{"name": name}},
			options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("seed role %q: %w", name, err)
		}
	}
	return nil
}

func (r *MongoRoleRepository) Exists(ctx context.Context, name string) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{"name": name}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find role: %w", err)
	}
	return true, nil
}

func (r *MongoRoleRepository) List(ctx context.Context) ([]string, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cur.Close(ctx)

	var names []string
	for cur.Next(ctx) {
		var doc struct {
			Name string `bson:"name"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode role: %w", err)
		}
		names = append(names, doc.Name)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}
	return names, nil
}
