package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a member of the network stored in MongoDB. The three
// membership arrays are semantically sets: the repository layer only ever
// mutates them through guarded $addToSet/$pull updates, so an id can appear
// at most once.
type User struct {
	ID            primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	Username      string               `json:"username" bson:"username"`
	LikedPosts    []primitive.ObjectID `json:"likedPosts" bson:"liked_posts"`
	LikedComments []primitive.ObjectID `json:"likedComments" bson:"liked_comments"`
	FriendsList   []primitive.ObjectID `json:"friendsList" bson:"friends_list"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updated_at"`
}

// HasLikedPost reports whether the given post id is in the user's membership set.
func (u *User) HasLikedPost(postID primitive.ObjectID) bool {
	return containsID(u.LikedPosts, postID)
}

// HasLikedComment reports whether the given comment id is in the user's membership set.
func (u *User) HasLikedComment(commentID primitive.ObjectID) bool {
	return containsID(u.LikedComments, commentID)
}

// HasFriend reports whether the given user id is in the user's friends list.
func (u *User) HasFriend(userID primitive.ObjectID) bool {
	return containsID(u.FriendsList, userID)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// CreateUserRequest defines the request body for creating a new user
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=30"`
}

// UpdateUserRequest defines the request body for updating an existing user
type UpdateUserRequest struct {
	Username string `json:"username,omitempty" validate:"omitempty,min=2,max=30"`
}

// FriendView is a friend entry resolved to its document. Friends whose user
// document no longer exists are rendered as an explicit tombstone instead of
// being silently dropped.
type FriendView struct {
	ID       primitive.ObjectID `json:"_id"`
	Username string             `json:"username,omitempty"`
	Deleted  bool               `json:"deleted,omitempty"`
}

// UserWithFriends is the read-enriched view returned when listing a user's
// friends: the user document with its friend ids resolved.
type UserWithFriends struct {
	User    `json:",inline" bson:",inline"`
	Friends []FriendView `json:"friends"`
}
