package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gigboard/marketplace/internal/core/domain"
)

type ProposalRepository struct {
	store *Store
}

func NewProposalRepository(store *Store) *ProposalRepository {
	return &ProposalRepository{store: store}
}

// Create inserts a new proposal. The unique (job_id, freelancer_id) index
// turns a racing second submission into domain.ErrDuplicateProposal.
func (r *ProposalRepository) Create(ctx context.Context, p *domain.Proposal) error {
	col, err := r.store.collection(collectionProposals)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := col.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateProposal
		}
		return storeErr("insert proposal", err)
	}
	return nil
}

func (r *ProposalRepository) FindByID(ctx context.Context, id string) (*domain.Proposal, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *ProposalRepository) FindByJobAndFreelancer(ctx context.Context, jobID, freelancerID string) (*domain.Proposal, error) {
	return r.findOne(ctx, bson.M{"job_id": jobID, "freelancer_id": freelancerID})
}

func (r *ProposalRepository) ListByFreelancer(ctx context.Context, freelancerID string) ([]*domain.Proposal, error) {
	return r.find(ctx, bson.M{"freelancer_id": freelancerID})
}

func (r *ProposalRepository) ListByJob(ctx context.Context, jobID string) ([]*domain.Proposal, error) {
	return r.find(ctx, bson.M{"job_id": jobID})
}

func (r *ProposalRepository) Delete(ctx context.Context, id string) error {
	col, err := r.store.collection(collectionProposals)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return storeErr("delete proposal", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProposalNotFound
	}
	return nil
}

func (r *ProposalRepository) DeleteByJob(ctx context.Context, jobID string) (int64, error) {
	col, err := r.store.collection(collectionProposals)
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.DeleteMany(ctx, bson.M{"job_id": jobID})
	if err != nil {
		return 0, storeErr("delete proposals of job", err)
	}
	return res.DeletedCount, nil
}

func (r *ProposalRepository) findOne(ctx context.Context, filter bson.M) (*domain.Proposal, error) {
	col, err := r.store.collection(collectionProposals)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Proposal
	if err := col.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProposalNotFound
		}
		return nil, storeErr("find proposal", err)
	}
	return &p, nil
}

func (r *ProposalRepository) find(ctx context.Context, filter bson.M) ([]*domain.Proposal, error) {
	col, err := r.store.collection(collectionProposals)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, storeErr("list proposals", err)
	}
	proposals, err := decodeAll[domain.Proposal](ctx, cur)
	if err != nil {
		return nil, storeErr("decode proposals", err)
	}
	return proposals, nil
}
