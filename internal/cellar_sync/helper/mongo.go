package helper

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cellar-sync/internal/cellar_sync/model"
)

type Stores struct {
	DB       *mongo.Database
	Wines    *mongo.Collection
	Bottles  *mongo.Collection
	SyncRuns *mongo.Collection
}

func MustMongo(ctx context.Context, host, dbname, username, password, authSource string) *Stores {
	clientOpts := options.Client().
		ApplyURI("mongodb://" + host).
		SetAuth(options.Credential{
			Username:   username,
			Password:   password,
			AuthSource: authSource,
		})

	cli, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		panic(err)
	}
	if err = cli.Ping(ctx, nil); err != nil {
		panic(err)
	}

	db := cli.Database(dbname)
	s := &Stores{
		DB:       db,
		Wines:    db.Collection(model.CollWines),
		Bottles:  db.Collection(model.CollBottles),
		SyncRuns: db.Collection(model.CollSyncRuns),
	}
	ensureIndexes(ctx, s)
	return s
}

func ensureIndexes(ctx context.Context, s *Stores) {
	unique := options.Index().SetUnique(true)
	_, _ = s.Wines.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: model.WineKey, Value: 1}}, Options: unique},
	})
	_, _ = s.Bottles.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: model.BottleKey, Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "wine_id", Value: 1}}},
		{Keys: bson.D{{Key: "bottle_state", Value: 1}}},
	})
	_, _ = s.SyncRuns.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "synced_at", Value: -1}}},
	})
}

func (s *Stores) collection(name string) *mongo.Collection {
	return s.DB.Collection(name)
}

// Upsert writes one batch of flat records keyed on the given natural-key
// field: insert-or-replace per row, single round trip.
func (s *Stores) Upsert(ctx context.Context, coll string, rows []bson.M, key string) error {
	if len(rows) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(rows))
	for _, row := range rows {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{key: row[key]}).
			SetReplacement(row).
			SetUpsert(true))
	}
	_, err := s.collection(coll).BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	return err
}

// Page reads one offset/limit page, sorted by _id for a stable order across
// the read-until-short-page loops.
func (s *Stores) Page(ctx context.Context, coll string, filter bson.M, skip, limit int64) ([]bson.M, error) {
	if filter == nil {
		filter = bson.M{}
	}
	opts := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.collection(coll).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var out []bson.M
	for cur.Next(ctx) {
		var m bson.M
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}

// Count returns the row count matching the equality filter.
func (s *Stores) Count(ctx context.Context, coll string, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return s.collection(coll).CountDocuments(ctx, filter)
}

// InsertSyncRun appends one audit row.
func (s *Stores) InsertSyncRun(ctx context.Context, run *model.SyncRun) error {
	_, err := s.SyncRuns.InsertOne(ctx, run)
	return err
}

// RecentSyncRuns returns the newest audit rows for the HTTP surface.
func (s *Stores) RecentSyncRuns(ctx context.Context, limit int64) ([]model.SyncRun, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "synced_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.SyncRuns.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var out []model.SyncRun
	for cur.Next(ctx) {
		var run model.SyncRun
		if err := cur.Decode(&run); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, cur.Err()
}
