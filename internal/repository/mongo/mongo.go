// Package mongo stores catalog entities in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"assetcatalog/internal/domain"
	"assetcatalog/internal/repository"
)

const (
	DefaultDatabase   = "catalog"
	DefaultCollection = "products"
)

// entityDoc is the stored document shape
type entityDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Price       float64            `bson:"price"`
	Colors      []string           `bson:"colors,omitempty"`
	Description string             `bson:"description,omitempty"`
	AssetPaths  []string           `bson:"asset_paths"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *entityDoc) toDomain() *domain.Entity {
	paths := d.AssetPaths
	if paths == nil {
		paths = []string{}
	}
	return &domain.Entity{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Price:       d.Price,
		Colors:      d.Colors,
		Description: d.Description,
		AssetPaths:  paths,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func fromDomain(e *domain.Entity) (*entityDoc, error) {
	oid, err := primitive.ObjectIDFromHex(e.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q: %w", e.ID, err)
	}
	return &entityDoc{
		ID:          oid,
		Name:        e.Name,
		Price:       e.Price,
		Colors:      e.Colors,
		Description: e.Description,
		AssetPaths:  e.AssetPaths,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}, nil
}

// Repository implements repository.EntityRepository on a MongoDB collection
type Repository struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

var _ repository.EntityRepository = (*Repository)(nil)

// Open connects to uri and uses the products collection of database
func Open(ctx context.Context, uri, database string) (*Repository, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}
	if database == "" {
		database = DefaultDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	repo := &Repository{
		client: client,
		coll:   client.Database(database).Collection(DefaultCollection),
		now:    time.Now,
	}

	_, err = repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "price", Value: 1}},
	})
	if err != nil {
		client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to create price index: %w", err)
	}

	return repo, nil
}

// Close disconnects the client
func (r *Repository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

// stamp returns the current time at the precision BSON dates keep
func (r *Repository) stamp() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}

// Create inserts a new document
func (r *Repository) Create(ctx context.Context, draft domain.EntityDraft) (*domain.Entity, error) {
	const op = "create entity"

	e := domain.NewEntity(domain.NewID(), draft, r.stamp())
	doc, err := fromDomain(e)
	if err != nil {
		return nil, domain.NewStorageError(op, "", err)
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, domain.NewStorageError(op, "", fmt.Errorf("failed to insert entity: %w", err))
	}
	return e, nil
}

// FindByID loads one document
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Entity, error) {
	const op = "find entity"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.NewNotFoundError(op, id)
	}

	var doc entityDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.NewNotFoundError(op, id)
	}
	if err != nil {
		return nil, domain.NewStorageError(op, id, fmt.Errorf("failed to load entity: %w", err))
	}
	return doc.toDomain(), nil
}

// FindAll streams matching documents. The cursor is opened when the sequence
// is first ranged over and closed when iteration stops.
func (r *Repository) FindAll(ctx context.Context, q domain.Query) iter.Seq2[*domain.Entity, error] {
	const op = "list entities"

	return repository.Once(func(yield func(*domain.Entity, error) bool) {
		if err := q.Validate(); err != nil {
			yield(nil, err)
			return
		}

		opts := options.Find()
		if sort := buildSort(q); sort != nil {
			opts.SetSort(sort)
		}

		cur, err := r.coll.Find(ctx, buildFilter(q), opts)
		if err != nil {
			yield(nil, domain.NewStorageError(op, "", fmt.Errorf("failed to query entities: %w", err)))
			return
		}
		defer cur.Close(context.WithoutCancel(ctx))

		for cur.Next(ctx) {
			var doc entityDoc
			if err := cur.Decode(&doc); err != nil {
				yield(nil, domain.NewStorageError(op, "", fmt.Errorf("failed to decode entity: %w", err)))
				return
			}
			if !yield(doc.toDomain(), nil) {
				return
			}
		}
		if err := cur.Err(); err != nil {
			yield(nil, domain.NewStorageError(op, "", fmt.Errorf("error iterating entities: %w", err)))
		}
	})
}

// Update applies the supplied fields and returns the document after the write
func (r *Repository) Update(ctx context.Context, id string, patch domain.EntityPatch) (*domain.Entity, error) {
	const op = "update entity"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.NewNotFoundError(op, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc entityDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, buildUpdate(patch, r.stamp()), opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.NewNotFoundError(op, id)
	}
	if err != nil {
		return nil, domain.NewStorageError(op, id, fmt.Errorf("failed to update entity: %w", err))
	}
	return doc.toDomain(), nil
}

// Delete removes the document and returns it
func (r *Repository) Delete(ctx context.Context, id string) (*domain.Entity, error) {
	const op = "delete entity"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.NewNotFoundError(op, id)
	}

	var doc entityDoc
	err = r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.NewNotFoundError(op, id)
	}
	if err != nil {
		return nil, domain.NewStorageError(op, id, fmt.Errorf("failed to delete entity: %w", err))
	}
	return doc.toDomain(), nil
}
