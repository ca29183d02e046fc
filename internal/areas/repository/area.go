package repository

import (
	"context"
	"errors"
	"fmt"

	areaserrors "festas/internal/areas/errors"
	"festas/pkg/config"
	"festas/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "areas"

type AreaRepository interface {
	FindByID(ctx context.Context, id string) (*model.Area, error)
	FindAll(ctx context.Context) ([]*model.Area, error)
	Upsert(ctx context.Context, area *model.Area) error
}

type mongoAreaRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAreaRepository(cfg *config.Config) AreaRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAreaRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoAreaRepository) FindByID(ctx context.Context, id string) (*model.Area, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var area model.Area
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&area)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, areaserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find area: %w", err)
	}
	return &area, nil
}

func (r *mongoAreaRepository) FindAll(ctx context.Context) ([]*model.Area, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find areas: %w", err)
	}
	defer cursor.Close(ctx)

	var areas []*model.Area
	if err = cursor.All(ctx, &areas); err != nil {
		return nil, fmt.Errorf("failed to decode areas: %w", err)
	}
	return areas, nil
}

// Upsert exists for seeding; areas are otherwise managed out of band.
func (r *mongoAreaRepository) Upsert(ctx context.Context, area *model.Area) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": area.ID},
		bson.M{"$set": bson.M{"name": area.Name}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert area: %w", err)
	}
	return nil
}
