package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "festas/internal/bookings/errors"
	"festas/pkg/config"
	"festas/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SlotLockRepository manages the advisory locks taken while a booking is
// being created. Creation relies on _id uniqueness: a duplicate-key error
// means another request holds the slot. Find lets the service inspect the
// holder's expiry so a lock left by a dead request can be reclaimed.
type SlotLockRepository interface {
	Create(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error)
	Find(ctx context.Context, lockID string) (*model.SlotLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoSlotLockRepository struct {
	collection *mongo.Collection
}

func NewSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{
		collection: db.Collection("slot_locks"),
	}
}

func (r *mongoSlotLockRepository) Create(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error) {
	lock.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		return nil, err
	}
	return lock, nil
}

func (r *mongoSlotLockRepository) Find(ctx context.Context, lockID string) (*model.SlotLock, error) {
	var lock model.SlotLock
	err := r.collection.FindOne(ctx, bson.M{"_id": lockID}).Decode(&lock)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrLockNotFound
		}
		return nil, fmt.Errorf("failed to find slot lock: %w", err)
	}
	return &lock, nil
}

func (r *mongoSlotLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
