package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gigboard/marketplace/internal/core/domain"
	"github.com/gigboard/marketplace/internal/core/ports"
)

type JobRepository struct {
	store *Store
}

func NewJobRepository(store *Store) *JobRepository {
	return &JobRepository{store: store}
}

// Create inserts a new job document.
func (r *JobRepository) Create(ctx context.Context, j *domain.Job) error {
	col, err := r.store.collection(collectionJobs)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := col.InsertOne(ctx, j); err != nil {
		return storeErr("insert job", err)
	}
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	col, err := r.store.collection(collectionJobs)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var j domain.Job
	if err := col.FindOne(ctx, bson.M{"id": id}).Decode(&j); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, storeErr("find job", err)
	}
	return &j, nil
}

// List returns the jobs matching filter, newest first.
func (r *JobRepository) List(ctx context.Context, filter ports.JobFilter) ([]*domain.Job, error) {
	col, err := r.store.collection(collectionJobs)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.ClientID != "" {
		query["client_id"] = filter.ClientID
	}

	cur, err := col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "posted_at", Value: -1}}))
	if err != nil {
		return nil, storeErr("list jobs", err)
	}
	jobs, err := decodeAll[domain.Job](ctx, cur)
	if err != nil {
		return nil, storeErr("decode jobs", err)
	}
	return jobs, nil
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	col, err := r.store.collection(collectionJobs)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return storeErr("delete job", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}
