package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/realworld/conduit-api/internal/core/domain"
)

const collectionTags = "tags"

type TagRepository struct {
	col *mongo.Collection
}

func NewTagRepository(db *mongo.Database) *TagRepository {
	return &TagRepository{col: db.Collection(collectionTags)}
}

type mongoTag struct {
	ID   int64  `bson:"_id"`
	Name string `bson:"name"`
}

// List returns every tag ordered by id.
func (r *TagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	var docs []mongoTag
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}

	tags := make([]domain.Tag, 0, len(docs))
	for _, d := range docs {
		tags = append(tags, domain.Tag{ID: d.ID, Name: d.Name})
	}
	return tags, nil
}
