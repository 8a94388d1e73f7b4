package repository

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/vilain-Petit-Canard/API-Films/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Collection(name string) Collection {
	return &mongoCollection{col: s.db.Collection(name)}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// EnsureUniqueIndex creates a unique ascending index on field. It backs
// InsertIfAbsent so that concurrent upserts cannot both insert.
func (s *MongoStore) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	_, err := s.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(field + "_unique"),
	})
	return errors.Wrapf(err, "mongo: unique index %s.%s", collection, field)
}

type mongoCollection struct {
	col *mongo.Collection
}

func (c *mongoCollection) Add(ctx context.Context, doc models.Document) (string, error) {
	res, err := c.col.InsertOne(ctx, bson.M(stripID(doc)))
	if err != nil {
		return "", errors.Wrapf(err, "mongo: insert into %s", c.col.Name())
	}
	return idString(res.InsertedID), nil
}

func (c *mongoCollection) Get(ctx context.Context, id string) (models.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var raw bson.M
	err = c.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "mongo: get %s/%s", c.col.Name(), id)
	}
	_, doc := toRecord(raw)
	return doc, nil
}

func (c *mongoCollection) Update(ctx context.Context, id string, partial models.Document) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	filter := bson.M{"_id": oid}

	partial = stripID(partial)
	if len(partial) == 0 {
		// $set refuses an empty document; only existence matters here.
		n, err := c.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
		if err != nil {
			return errors.Wrapf(err, "mongo: update %s/%s", c.col.Name(), id)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	}

	res, err := c.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M(partial)})
	if err != nil {
		return errors.Wrapf(err, "mongo: update %s/%s", c.col.Name(), id)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *mongoCollection) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = c.col.DeleteOne(ctx, bson.M{"_id": oid})
	return errors.Wrapf(err, "mongo: delete %s/%s", c.col.Name(), id)
}

var mongoOperators = map[Operator]string{
	OpEq:  "$eq",
	OpNe:  "$ne",
	OpLt:  "$lt",
	OpLte: "$lte",
	OpGt:  "$gt",
	OpGte: "$gte",
}

func (c *mongoCollection) Where(ctx context.Context, field string, op Operator, value any) ([]models.Record, error) {
	if err := checkOperator(op); err != nil {
		return nil, err
	}
	filter := bson.M{field: bson.M{mongoOperators[op]: value}}
	if op == OpNe {
		// Firestore-style: documents lacking the field never match.
		filter[field] = bson.M{"$exists": true, "$ne": value}
	}

	cur, err := c.col.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrapf(err, "mongo: query %s", c.col.Name())
	}
	return collect(ctx, cur)
}

func (c *mongoCollection) List(ctx context.Context, field string, dir Direction, limit int) ([]models.Record, error) {
	order := 1
	if dir == Desc {
		order = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: order}, {Key: "_id", Value: 1}}).
		SetLimit(int64(absLimit(limit)))

	cur, err := c.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "mongo: list %s", c.col.Name())
	}
	return collect(ctx, cur)
}

func (c *mongoCollection) InsertIfAbsent(ctx context.Context, field string, value any, doc models.Document) (string, error) {
	res, err := c.col.UpdateOne(ctx,
		bson.M{field: value},
		bson.M{"$setOnInsert": bson.M(stripID(doc))},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		return "", ErrDuplicate
	}
	if err != nil {
		return "", errors.Wrapf(err, "mongo: insert-if-absent into %s", c.col.Name())
	}
	if res.UpsertedCount == 0 {
		return "", ErrDuplicate
	}
	return idString(res.UpsertedID), nil
}

func collect(ctx context.Context, cur *mongo.Cursor) ([]models.Record, error) {
	defer cur.Close(ctx)

	out := []models.Record{}
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, errors.Wrap(err, "mongo: decode")
		}
		id, doc := toRecord(raw)
		out = append(out, models.Record{ID: id, Data: doc})
	}
	return out, errors.Wrap(cur.Err(), "mongo: cursor")
}

func toRecord(raw bson.M) (string, models.Document) {
	id := idString(raw["_id"])
	doc := make(models.Document, len(raw))
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		doc[k] = fromBSON(v)
	}
	return id, doc
}

// fromBSON turns driver container types into plain maps and slices so
// documents look the same whichever store produced them.
func fromBSON(v any) any {
	switch x := v.(type) {
	case bson.M:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = fromBSON(e)
		}
		return m
	case bson.D:
		m := make(map[string]any, len(x))
		for _, e := range x {
			m[e.Key] = fromBSON(e.Value)
		}
		return m
	case bson.A:
		s := make([]any, len(x))
		for i, e := range x {
			s[i] = fromBSON(e)
		}
		return s
	case primitive.ObjectID:
		return x.Hex()
	case int32:
		return int64(x)
	default:
		return v
	}
}

func idString(v any) string {
	switch x := v.(type) {
	case primitive.ObjectID:
		return x.Hex()
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
