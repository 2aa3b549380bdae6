package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
)

const collectionDirectory = "directory"

// DirectoryRepository is the identity gateway: the system of record for
// credentials. Roles never live here; they belong to the profile record.
type DirectoryRepository struct {
	col *mongo.Collection
}

func NewDirectoryRepository(db *mongo.Database) *DirectoryRepository {
	return &DirectoryRepository{col: db.Collection(collectionDirectory)}
}

type identityDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Provider     string             `bson:"provider"`
	CreatedAt    int64              `bson:"created_at"`
	LastLogin    int64              `bson:"last_login,omitempty"`
}

func (r *DirectoryRepository) CreateIdentity(ctx context.Context, name, email, password string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	doc := identityDoc{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Provider:     "password",
		CreatedAt:    time.Now().Unix(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrIdentityExists
		}
		return nil, domain.Upstream("create identity", err)
	}
	return toIdentity(doc), nil
}

func (r *DirectoryRepository) VerifyPassword(ctx context.Context, email, password string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc identityDoc
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.Upstream("find identity", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(doc.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	// Best effort; a failed last_login stamp never blocks a login.
	_, _ = r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": bson.M{"last_login": time.Now().Unix()}})

	return toIdentity(doc), nil
}

func (r *DirectoryRepository) FindByUID(ctx context.Context, uid string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return nil, domain.ErrIdentityNotFound
	}

	var doc identityDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, domain.Upstream("find identity", err)
	}
	return toIdentity(doc), nil
}

func (r *DirectoryRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc identityDoc
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, domain.Upstream("find identity", err)
	}
	return toIdentity(doc), nil
}

func (r *DirectoryRepository) DeleteIdentity(ctx context.Context, uid string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return domain.ErrIdentityNotFound
	}
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return domain.Upstream("delete identity", err)
	}
	return nil
}

// EnsureIndexes creates the unique email index that backs duplicate
// registration detection.
func (r *DirectoryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func toIdentity(doc identityDoc) *domain.Identity {
	id := &domain.Identity{
		UID:          doc.ID.Hex(),
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		Provider:     doc.Provider,
		CreatedAt:    time.Unix(doc.CreatedAt, 0).UTC(),
	}
	if doc.LastLogin != 0 {
		id.LastLogin = time.Unix(doc.LastLogin, 0).UTC()
	}
	return id
}
