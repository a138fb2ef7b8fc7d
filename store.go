package main

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Ryen-X/petal/models"
)

// Store is the read/write contract against the observation database. The
// core never queries Mongo directly; handlers go through this interface so
// the store stays an explicitly constructed collaborator.
type Store interface {
	// ListObservations returns NDVI history ascending by measurement date.
	ListObservations(ctx context.Context) ([]models.NdviRecord, error)
	// ListSatellitePoints returns up to limit rows, most recent first.
	ListSatellitePoints(ctx context.Context, limit int64) ([]models.NdviRecord, error)
	// ListContributedPoints returns up to limit rows, most recent first.
	ListContributedPoints(ctx context.Context, limit int64) ([]models.Contribution, error)
	InsertContribution(ctx context.Context, c *models.Contribution) error

	CreateUser(ctx context.Context, u *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type mongoStore struct {
	ndvi          *mongo.Collection
	contributions *mongo.Collection
	users         *mongo.Collection
	counters      *mongo.Collection
}

func newMongoStore(db *mongo.Database) *mongoStore {
	return &mongoStore{
		ndvi:          db.Collection("ndvi_data"),
		contributions: db.Collection("user_contributions"),
		users:         db.Collection("users"),
		counters:      db.Collection("counters"),
	}
}

// nextSeq hands out the next integer id for a collection. Contribution ids
// only need to be unique within their own collection; they are not unique
// against the imported satellite ids.
func (s *mongoStore) nextSeq(ctx context.Context, name string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

func (s *mongoStore) ensureIndexes(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	if _, err := s.ndvi.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "measurement_date", Value: -1}},
	}); err != nil {
		return err
	}
	_, err := s.contributions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "measurement_date", Value: -1}},
	})
	return err
}

func (s *mongoStore) ListObservations(ctx context.Context) ([]models.NdviRecord, error) {
	cur, err := s.ndvi.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "measurement_date", Value: 1}}).
			SetProjection(bson.M{"measurement_date": 1, "ndvi_value": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.NdviRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoStore) ListSatellitePoints(ctx context.Context, limit int64) ([]models.NdviRecord, error) {
	cur, err := s.ndvi.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "measurement_date", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.NdviRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoStore) ListContributedPoints(ctx context.Context, limit int64) ([]models.Contribution, error) {
	cur, err := s.contributions.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "measurement_date", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Contribution
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoStore) InsertContribution(ctx context.Context, c *models.Contribution) error {
	seq, err := s.nextSeq(ctx, "user_contributions")
	if err != nil {
		return err
	}
	c.ID = seq

	res, err := s.contributions.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.OID = oid
	}
	return nil
}

func (s *mongoStore) CreateUser(ctx context.Context, u *models.User) error {
	res, err := s.users.InsertOne(ctx, u)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

func (s *mongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *mongoStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}
