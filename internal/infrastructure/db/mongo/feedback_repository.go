package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
)

const collectionFeedback = "feedback"

// FeedbackRepository is append-only: no update or delete exists by design.
type FeedbackRepository struct {
	col *mongo.Collection
}

func NewFeedbackRepository(db *mongo.Database) *FeedbackRepository {
	return &FeedbackRepository{col: db.Collection(collectionFeedback)}
}

type feedbackDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerUID    string             `bson:"uid"`
	Location    string             `bson:"location"`
	Rating      int                `bson:"rating"`
	Sector      string             `bson:"sector"`
	Description string             `bson:"description"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (r *FeedbackRepository) Create(ctx context.Context, f *domain.Feedback) (*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := feedbackDoc{
		ID:          primitive.NewObjectID(),
		OwnerUID:    f.OwnerUID,
		Location:    f.Location,
		Rating:      f.Rating,
		Sector:      f.Sector,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, domain.Upstream("insert feedback", err)
	}
	return toFeedback(doc), nil
}

func (r *FeedbackRepository) ListByOwner(ctx context.Context, ownerUID string) ([]*domain.Feedback, error) {
	return r.list(ctx, bson.M{"uid": ownerUID}, nil)
}

func (r *FeedbackRepository) ListAll(ctx context.Context) ([]*domain.Feedback, error) {
	sort := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.list(ctx, bson.M{}, sort)
}

func (r *FeedbackRepository) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = r.col.Find(ctx, filter, opts)
	} else {
		cur, err = r.col.Find(ctx, filter)
	}
	if err != nil {
		return nil, domain.Upstream("list feedback", err)
	}
	defer cur.Close(ctx)

	var items []*domain.Feedback
	for cur.Next(ctx) {
		var doc feedbackDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, domain.Upstream("decode feedback", err)
		}
		items = append(items, toFeedback(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, domain.Upstream("list feedback", err)
	}
	return items, nil
}

// EnsureIndexes creates the owner index used by the my-feedback listing.
func (r *FeedbackRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "uid", Value: 1}},
	})
	return err
}

func toFeedback(doc feedbackDoc) *domain.Feedback {
	return &domain.Feedback{
		ID:          doc.ID.Hex(),
		OwnerUID:    doc.OwnerUID,
		Location:    doc.Location,
		Rating:      doc.Rating,
		Sector:      doc.Sector,
		Description: doc.Description,
		CreatedAt:   doc.CreatedAt,
	}
}
