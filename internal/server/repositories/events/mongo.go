package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dmitrijs2005/holidaycal/internal/server/models"
)

const CollectionName = "calendarevents"

type eventDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	UserID      primitive.ObjectID `bson:"userId"`
	Title       string             `bson:"title"`
	Date        time.Time          `bson:"date"`
	CountryCode string             `bson:"countryCode"`
	HolidayType string             `bson:"holidayType"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *eventDocument) model() *models.CalendarEvent {
	return &models.CalendarEvent{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		Title:       d.Title,
		Date:        day(d.Date),
		CountryCode: d.CountryCode,
		HolidayType: d.HolidayType,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func newDocument(e *models.CalendarEvent) (*eventDocument, error) {
	id, err := primitive.ObjectIDFromHex(e.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid event id %q: %w", e.ID, err)
	}
	uid, err := primitive.ObjectIDFromHex(e.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", e.UserID, err)
	}
	return &eventDocument{
		ID:          id,
		UserID:      uid,
		Title:       e.Title,
		Date:        day(e.Date),
		CountryCode: e.CountryCode,
		HolidayType: e.HolidayType,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}, nil
}

type MongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName), now: time.Now}
}

// EnsureIndexes creates the lookup index on (userId, date) and the unique
// index on (userId, title, date).
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}}},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "title", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create calendar event indexes: %w", err)
	}
	return nil
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID string) ([]*models.CalendarEvent, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []*models.CalendarEvent{}, nil
	}

	return r.find(ctx, bson.M{"userId": uid})
}

func (r *MongoRepository) FindInRange(ctx context.Context, userID, countryCode string, from, to time.Time) ([]*models.CalendarEvent, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []*models.CalendarEvent{}, nil
	}

	return r.find(ctx, bson.M{
		"userId":      uid,
		"countryCode": countryCode,
		"date":        bson.M{"$gte": day(from), "$lte": day(to)},
	})
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]*models.CalendarEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to select events: %w", err)
	}
	defer cur.Close(ctx)

	result := []*models.CalendarEvent{}
	for cur.Next(ctx) {
		var doc eventDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.model())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// InsertMany issues one unordered bulk insert. Duplicate key failures are
// skipped, any other write error fails the call.
func (r *MongoRepository) InsertMany(ctx context.Context, events []*models.CalendarEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	now := r.now().UTC()
	docs := make([]any, 0, len(events))
	for _, e := range events {
		prepare(e, now)
		doc, err := newDocument(e)
		if err != nil {
			return 0, err
		}
		docs = append(docs, doc)
	}

	res, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err == nil {
		return len(res.InsertedIDs), nil
	}

	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || bwe.WriteConcernError != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	for _, we := range bwe.WriteErrors {
		if !isDuplicateKeyCode(we.Code) {
			return 0, fmt.Errorf("db error: %w", err)
		}
	}

	return len(docs) - len(bwe.WriteErrors), nil
}

func isDuplicateKeyCode(code int) bool {
	return code == 11000 || code == 11001 || code == 12582
}
