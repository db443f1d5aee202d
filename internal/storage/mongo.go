package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection is the subset of *mongo.Collection the store uses.
type Collection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

type calculationDocument struct {
	ID             string    `bson:"_id"`
	CalculatorType string    `bson:"calculatorType"`
	Input          bson.M    `bson:"input"`
	Result         bson.M    `bson:"result"`
	CreatedAt      time.Time `bson:"createdAt"`
}

type preferencesDocument struct {
	CalculatorType string    `bson:"_id"`
	DefaultValues  bson.M    `bson:"defaultValues"`
	UpdatedAt      time.Time `bson:"updatedAt"`
}

// MongoStore persists records in two MongoDB collections.
type MongoStore struct {
	calculations Collection
	preferences  Collection
	client       *mongo.Client
	now          func() time.Time
	logger       *zap.Logger
}

// NewMongoStore builds a store over existing collections. Close is a no-op for
// stores built this way.
func NewMongoStore(calculations, preferences Collection, logger *zap.Logger) *MongoStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MongoStore{
		calculations: calculations,
		preferences:  preferences,
		now:          time.Now,
		logger:       logger,
	}
}

// ConnectMongo connects to uri and returns a store over database. The timeout
// bounds the connection check.
func ConnectMongo(ctx context.Context, uri, database string, timeout time.Duration, logger *zap.Logger) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, wrap("connect mongo", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, wrap("connect mongo", fmt.Errorf("ping failed: %w", err))
	}

	db := client.Database(database)
	store := NewMongoStore(db.Collection(constants.HistoryCollection), db.Collection(constants.PreferencesCollection), logger)
	store.client = client
	store.logger.Info("connected to mongo",
		zap.String("op", "storage.ConnectMongo"),
		zap.String("database", database))
	return store, nil
}

// SaveCalculation implements Repository.
func (s *MongoStore) SaveCalculation(ctx context.Context, calculatorType string, input, result map[string]any) (*HistoryRecord, error) {
	in, err := plain("input", input)
	if err != nil {
		return nil, err
	}
	res, err := plain("result", result)
	if err != nil {
		return nil, err
	}

	// Mongo keeps millisecond precision.
	record := newHistoryRecord(calculatorType, in, res, s.now().Truncate(time.Millisecond))
	doc := calculationDocument{
		ID:             record.ID,
		CalculatorType: calculatorType,
		Input:          bson.M(in),
		Result:         bson.M(res),
		CreatedAt:      record.CreatedAt,
	}
	if _, err := s.calculations.InsertOne(ctx, doc); err != nil {
		return nil, wrap("save calculation", err)
	}
	s.logger.Debug("saved calculation",
		zap.String("op", "storage.MongoStore.SaveCalculation"),
		zap.String("type", calculatorType),
		zap.String("id", record.ID))
	return record, nil
}

// History implements Repository.
func (s *MongoStore) History(ctx context.Context, calculatorType string) ([]HistoryRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.calculations.Find(ctx, bson.M{"calculatorType": calculatorType}, opts)
	if err != nil {
		return nil, wrap("history", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			s.logger.Warn("failed to close cursor",
				zap.String("op", "storage.MongoStore.History"),
				zap.Error(err))
		}
	}()

	records := []HistoryRecord{}
	for cursor.Next(ctx) {
		var doc calculationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, malformed("decoding calculation: %v", err)
		}
		in, err := plain("input", doc.Input)
		if err != nil {
			return nil, err
		}
		res, err := plain("result", doc.Result)
		if err != nil {
			return nil, err
		}
		records = append(records, HistoryRecord{
			ID:        doc.ID,
			Type:      doc.CalculatorType,
			Input:     in,
			Result:    res,
			CreatedAt: doc.CreatedAt.UTC(),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, wrap("history", err)
	}
	return records, nil
}

// SavePreferences implements Repository.
func (s *MongoStore) SavePreferences(ctx context.Context, calculatorType string, defaults map[string]any) (*PreferencesRecord, error) {
	values, err := plain("defaultValues", defaults)
	if err != nil {
		return nil, err
	}

	updated := s.now().UTC().Truncate(time.Millisecond)
	update := bson.M{"$set": bson.M{"defaultValues": bson.M(values), "updatedAt": updated}}
	opts := options.Update().SetUpsert(true)
	if _, err := s.preferences.UpdateOne(ctx, bson.M{"_id": calculatorType}, update, opts); err != nil {
		return nil, wrap("save preferences", err)
	}
	return &PreferencesRecord{CalculatorType: calculatorType, DefaultValues: values, UpdatedAt: updated}, nil
}

// Preferences implements Repository.
func (s *MongoStore) Preferences(ctx context.Context, calculatorType string) (*PreferencesRecord, error) {
	var doc preferencesDocument
	if err := s.preferences.FindOne(ctx, bson.M{"_id": calculatorType}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, wrap("preferences", err)
	}

	values, err := plain("defaultValues", doc.DefaultValues)
	if err != nil {
		return nil, err
	}
	return &PreferencesRecord{CalculatorType: doc.CalculatorType, DefaultValues: values, UpdatedAt: doc.UpdatedAt.UTC()}, nil
}

// Close disconnects the client when the store owns one.
func (s *MongoStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(context.Background())
}
