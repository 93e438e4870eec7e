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

// UserRepository defines the interface for user data operations.
//
// The membership mutators (AddLikedPost, RemoveLikedPost, ...) are atomic
// conditional updates: the membership precondition and the set mutation are
// evaluated by the store in a single document operation, and the returned
// bool reports whether this call performed the transition. Callers use that
// bool to decide whether a counter delta is owed on the target document.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, user *models.User) error
	DeleteUser(ctx context.Context, id string) error
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)

	AddLikedPost(ctx context.Context, userID, postID primitive.ObjectID) (bool, error)
	RemoveLikedPost(ctx context.Context, userID, postID primitive.ObjectID) (bool, error)
	AddLikedComment(ctx context.Context, userID, commentID primitive.ObjectID) (bool, error)
	RemoveLikedComment(ctx context.Context, userID, commentID primitive.ObjectID) (bool, error)
	AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) (bool, error)

	PullLikedPostFromAll(ctx context.Context, postID primitive.ObjectID) (int64, error)
	PullLikedCommentsFromAll(ctx context.Context, commentIDs []primitive.ObjectID) (int64, error)
	PullFriendFromAll(ctx context.Context, userID primitive.ObjectID) (int64, error)

	CountUsersLikingPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
	CountUsersLikingComment(ctx context.Context, commentID primitive.ObjectID) (int64, error)
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser creates a new user in MongoDB
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	if user.LikedPosts == nil {
		user.LikedPosts = []primitive.ObjectID{}
	}
	if user.LikedComments == nil {
		user.LikedComments = []primitive.ObjectID{}
	}
	if user.FriendsList == nil {
		user.FriendsList = []primitive.ObjectID{}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// GetUserByID retrieves a user by ID from MongoDB
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedID, id)
	}

	var user models.User
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username, matched case-insensitively
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	filter := bson.M{"username": bson.M{"$regex": primitive.Regex{Pattern: "^" + username + "$", Options: "i"}}}
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUsers retrieves all users from MongoDB
func (r *MongoUserRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser updates the mutable profile fields of an existing user
func (r *MongoUserRepository) UpdateUser(ctx context.Context, id string, user *models.User) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrMalformedID, id)
	}

	user.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"username":   user.Username,
			"updated_at": user.UpdatedAt,
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

// DeleteUser deletes a user by ID from MongoDB
func (r *MongoUserRepository) DeleteUser(ctx context.Context, id string) error {
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

// GetUsersByIDs retrieves the users whose ids are in the given list. Missing
// ids are simply absent from the result; the caller decides how to render them.
func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AddLikedPost adds postID to the user's likedPosts set only if it is not
// already a member. Returns true when this call made the transition.
func (r *MongoUserRepository) AddLikedPost(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	return r.addMember(ctx, userID, "liked_posts", postID)
}

// RemoveLikedPost removes postID from the user's likedPosts set only if it is
// currently a member. Returns true when this call made the transition.
func (r *MongoUserRepository) RemoveLikedPost(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	return r.removeMember(ctx, userID, "liked_posts", postID)
}

// AddLikedComment adds commentID to the user's likedComments set if absent.
func (r *MongoUserRepository) AddLikedComment(ctx context.Context, userID, commentID primitive.ObjectID) (bool, error) {
	return r.addMember(ctx, userID, "liked_comments", commentID)
}

// RemoveLikedComment removes commentID from the user's likedComments set if present.
func (r *MongoUserRepository) RemoveLikedComment(ctx context.Context, userID, commentID primitive.ObjectID) (bool, error) {
	return r.removeMember(ctx, userID, "liked_comments", commentID)
}

// AddFriend adds friendID to the user's friendsList set if absent. The
// relationship is one-directional: nothing is written to the friend's document.
func (r *MongoUserRepository) AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) (bool, error) {
	return r.addMember(ctx, userID, "friends_list", friendID)
}

func (r *MongoUserRepository) addMember(ctx context.Context, userID primitive.ObjectID, field string, member primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": userID, field: bson.M{"$ne": member}}
	update := bson.M{
		"$addToSet": bson.M{field: member},
		"$set":      bson.M{"updated_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoUserRepository) removeMember(ctx context.Context, userID primitive.ObjectID, field string, member primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": userID, field: member}
	update := bson.M{
		"$pull": bson.M{field: member},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// PullLikedPostFromAll removes postID from every user's likedPosts set and
// returns how many documents were touched.
func (r *MongoUserRepository) PullLikedPostFromAll(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return r.pullFromAll(ctx, "liked_posts", bson.M{"liked_posts": postID}, postID)
}

// PullLikedCommentsFromAll removes every id in commentIDs from every user's
// likedComments set.
func (r *MongoUserRepository) PullLikedCommentsFromAll(ctx context.Context, commentIDs []primitive.ObjectID) (int64, error) {
	if len(commentIDs) == 0 {
		return 0, nil
	}
	filter := bson.M{"liked_comments": bson.M{"$in": commentIDs}}
	update := bson.M{"$pull": bson.M{"liked_comments": bson.M{"$in": commentIDs}}}
	res, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// PullFriendFromAll removes userID from every other user's friendsList.
func (r *MongoUserRepository) PullFriendFromAll(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.pullFromAll(ctx, "friends_list", bson.M{"friends_list": userID}, userID)
}

func (r *MongoUserRepository) pullFromAll(ctx context.Context, field string, filter bson.M, member primitive.ObjectID) (int64, error) {
	res, err := r.collection.UpdateMany(ctx, filter, bson.M{"$pull": bson.M{field: member}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CountUsersLikingPost counts the users whose likedPosts set contains postID.
func (r *MongoUserRepository) CountUsersLikingPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"liked_posts": postID})
}

// CountUsersLikingComment counts the users whose likedComments set contains commentID.
func (r *MongoUserRepository) CountUsersLikingComment(ctx context.Context, commentID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"liked_comments": commentID})
}
