package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
)

const collectionIssues = "issues"

type IssueRepository struct {
	col *mongo.Collection
}

func NewIssueRepository(db *mongo.Database) *IssueRepository {
	return &IssueRepository{col: db.Collection(collectionIssues)}
}

type issueDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerUID    string             `bson:"uid"`
	Name        string             `bson:"issue_name"`
	Location    string             `bson:"location"`
	Description string             `bson:"description"`
	CreatedAt   time.Time          `bson:"date"`
	Status      string             `bson:"status"`
	Image       string             `bson:"image,omitempty"`
}

func (r *IssueRepository) Create(ctx context.Context, i *domain.Issue) (*domain.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := issueDoc{
		ID:          primitive.NewObjectID(),
		OwnerUID:    i.OwnerUID,
		Name:        i.Name,
		Location:    i.Location,
		Description: i.Description,
		CreatedAt:   i.CreatedAt,
		Status:      string(i.Status),
		Image:       i.Image,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, domain.Upstream("insert issue", err)
	}
	return toIssue(doc), nil
}

func (r *IssueRepository) FindByID(ctx context.Context, id string) (*domain.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrIssueNotFound
	}

	var doc issueDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIssueNotFound
		}
		return nil, domain.Upstream("find issue", err)
	}
	return toIssue(doc), nil
}

func (r *IssueRepository) ListAll(ctx context.Context) ([]*domain.Issue, error) {
	return r.list(ctx, bson.M{})
}

func (r *IssueRepository) ListByOwner(ctx context.Context, ownerUID string) ([]*domain.Issue, error) {
	return r.list(ctx, bson.M{"uid": ownerUID})
}

func (r *IssueRepository) list(ctx context.Context, filter bson.M) ([]*domain.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, domain.Upstream("list issues", err)
	}
	defer cur.Close(ctx)

	var issues []*domain.Issue
	for cur.Next(ctx) {
		var doc issueDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, domain.Upstream("decode issue", err)
		}
		issues = append(issues, toIssue(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, domain.Upstream("list issues", err)
	}
	return issues, nil
}

// UpdateStatus overwrites only the status field; everything else on the issue
// is immutable after creation.
func (r *IssueRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrIssueNotFound
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return domain.Upstream("update issue status", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIssueNotFound
	}
	return nil
}

// EnsureIndexes creates the owner index used by the my-issues listing.
func (r *IssueRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "uid", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func toIssue(doc issueDoc) *domain.Issue {
	return &domain.Issue{
		ID:          doc.ID.Hex(),
		OwnerUID:    doc.OwnerUID,
		Name:        doc.Name,
		Location:    doc.Location,
		Description: doc.Description,
		CreatedAt:   doc.CreatedAt,
		Status:      domain.Status(doc.Status),
		Image:       doc.Image,
	}
}
