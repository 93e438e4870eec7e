package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/opencircle-app/opencircle/backend/internal/models"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error)
	UpdateComment(ctx context.Context, id string, comment *models.Comment) error
	DeleteComment(ctx context.Context, id string) error
	ListCommentIDsByPostID(ctx context.Context, postID primitive.ObjectID) ([]primitive.ObjectID, error)
	DeleteCommentsByPostID(ctx context.Context, postID primitive.ObjectID) (int64, error)
	ListCommentIDs(ctx context.Context) ([]primitive.ObjectID, error)

	IncrementLikes(ctx context.Context, commentID primitive.ObjectID) error
	DecrementLikes(ctx context.Context, commentID primitive.ObjectID) error
	SetLikes(ctx context.Context, commentID primitive.ObjectID, likes int64) (bool, error)
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

// CreateComment creates a new comment in MongoDB
func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.Likes = 0
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

// GetCommentByID retrieves a comment by ID from MongoDB
func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedID, id)
	}

	var comment models.Comment
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID retrieves all comments for a specific post from MongoDB
func (r *MongoCommentRepository) GetCommentsByPostID(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"post": postID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateComment updates the content of an existing comment in MongoDB
func (r *MongoCommentRepository) UpdateComment(ctx context.Context, id string, comment *models.Comment) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrMalformedID, id)
	}

	comment.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"content":    comment.Content,
			"updated_at": comment.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteComment deletes a comment by ID from MongoDB
func (r *MongoCommentRepository) DeleteComment(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrMalformedID, id)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCommentIDsByPostID returns the ids of all comments under a post,
// collected before a post delete so the cascade can retract them from
// user membership sets.
func (r *MongoCommentRepository) ListCommentIDsByPostID(ctx context.Context, postID primitive.ObjectID) ([]primitive.ObjectID, error) {
	findOptions := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"post": postID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}
	return ids, nil
}

// DeleteCommentsByPostID deletes every comment under a post
func (r *MongoCommentRepository) DeleteCommentsByPostID(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"post": postID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListCommentIDs returns the ids of all comments, used by the reconciliation sweep.
func (r *MongoCommentRepository) ListCommentIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return listIDs(ctx, r.collection)
}

// IncrementLikes increments the likes counter of a comment by one
func (r *MongoCommentRepository) IncrementLikes(ctx context.Context, commentID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": commentID}, bson.M{"$inc": bson.M{"likes": 1}})
	return err
}

// DecrementLikes decrements the likes counter of a comment by one, floored at zero
func (r *MongoCommentRepository) DecrementLikes(ctx context.Context, commentID primitive.ObjectID) error {
	filter := bson.M{"_id": commentID, "likes": bson.M{"$gt": 0}}
	_, err := r.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"likes": -1}})
	return err
}

// SetLikes overwrites the likes counter when it differs from the given value
func (r *MongoCommentRepository) SetLikes(ctx context.Context, commentID primitive.ObjectID, likes int64) (bool, error) {
	filter := bson.M{"_id": commentID, "likes": bson.M{"$ne": likes}}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"likes": likes}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}
