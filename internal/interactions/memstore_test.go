package interactions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/opencircle-app/opencircle/backend/internal/models"
	"github.com/opencircle-app/opencircle/backend/internal/repositories"
)

// In-memory repository fakes. Each mutator takes the store lock for the whole
// operation, mirroring the per-document atomicity of the real store's
// conditional updates.

type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (r *memUserRepo) addUser(username string) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := &models.User{
		ID:            primitive.NewObjectID(),
		Username:      username,
		LikedPosts:    []primitive.ObjectID{},
		LikedComments: []primitive.ObjectID{},
		FriendsList:   []primitive.ObjectID{},
	}
	r.users[user.ID] = user
	return user
}

func (r *memUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = primitive.NewObjectID()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", repositories.ErrMalformedID, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[objID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	copied.LikedPosts = append([]primitive.ObjectID{}, user.LikedPosts...)
	copied.LikedComments = append([]primitive.ObjectID{}, user.LikedComments...)
	copied.FriendsList = append([]primitive.ObjectID{}, user.FriendsList...)
	return &copied, nil
}

func (r *memUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUserRepo) GetUsers(ctx context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, *user)
	}
	return users, nil
}

func (r *memUserRepo) UpdateUser(ctx context.Context, id string, user *models.User) error {
	existing, err := r.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[existing.ID].Username = user.Username
	return nil
}

func (r *memUserRepo) DeleteUser(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %q", repositories.ErrMalformedID, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[objID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.users, objID)
	return nil
}

func (r *memUserRepo) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (r *memUserRepo) AddLikedPost(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	return r.addMember(userID, postID, func(u *models.User) *[]primitive.ObjectID { return &u.LikedPosts })
}

func (r *memUserRepo) RemoveLikedPost(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	return r.removeMember(userID, postID, func(u *models.User) *[]primitive.ObjectID { return &u.LikedPosts })
}

func (r *memUserRepo) AddLikedComment(ctx context.Context, userID, commentID primitive.ObjectID) (bool, error) {
	return r.addMember(userID, commentID, func(u *models.User) *[]primitive.ObjectID { return &u.LikedComments })
}

func (r *memUserRepo) RemoveLikedComment(ctx context.Context, userID, commentID primitive.ObjectID) (bool, error) {
	return r.removeMember(userID, commentID, func(u *models.User) *[]primitive.ObjectID { return &u.LikedComments })
}

func (r *memUserRepo) AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) (bool, error) {
	return r.addMember(userID, friendID, func(u *models.User) *[]primitive.ObjectID { return &u.FriendsList })
}

func (r *memUserRepo) addMember(userID, member primitive.ObjectID, set func(*models.User) *[]primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	members := set(user)
	for _, existing := range *members {
		if existing == member {
			return false, nil
		}
	}
	*members = append(*members, member)
	return true, nil
}

func (r *memUserRepo) removeMember(userID, member primitive.ObjectID, set func(*models.User) *[]primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	members := set(user)
	for i, existing := range *members {
		if existing == member {
			*members = append((*members)[:i], (*members)[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) PullLikedPostFromAll(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return r.pullFromAll([]primitive.ObjectID{postID}, func(u *models.User) *[]primitive.ObjectID { return &u.LikedPosts })
}

func (r *memUserRepo) PullLikedCommentsFromAll(ctx context.Context, commentIDs []primitive.ObjectID) (int64, error) {
	return r.pullFromAll(commentIDs, func(u *models.User) *[]primitive.ObjectID { return &u.LikedComments })
}

func (r *memUserRepo) PullFriendFromAll(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.pullFromAll([]primitive.ObjectID{userID}, func(u *models.User) *[]primitive.ObjectID { return &u.FriendsList })
}

func (r *memUserRepo) pullFromAll(members []primitive.ObjectID, set func(*models.User) *[]primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pull := map[primitive.ObjectID]bool{}
	for _, member := range members {
		pull[member] = true
	}
	var touched int64
	for _, user := range r.users {
		current := set(user)
		kept := (*current)[:0]
		removed := false
		for _, id := range *current {
			if pull[id] {
				removed = true
				continue
			}
			kept = append(kept, id)
		}
		if removed {
			*current = kept
			touched++
		}
	}
	return touched, nil
}

func (r *memUserRepo) CountUsersLikingPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return r.countMembers(postID, func(u *models.User) []primitive.ObjectID { return u.LikedPosts })
}

func (r *memUserRepo) CountUsersLikingComment(ctx context.Context, commentID primitive.ObjectID) (int64, error) {
	return r.countMembers(commentID, func(u *models.User) []primitive.ObjectID { return u.LikedComments })
}

func (r *memUserRepo) countMembers(member primitive.ObjectID, set func(*models.User) []primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, user := range r.users {
		for _, id := range set(user) {
			if id == member {
				count++
				break
			}
		}
	}
	return count, nil
}

type memPostRepo struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*models.Post

	incrementErr error
	decrementErr error
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: map[primitive.ObjectID]*models.Post{}}
}

func (r *memPostRepo) addPost(author primitive.ObjectID, content string) *models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	post := &models.Post{ID: primitive.NewObjectID(), Author: author, Content: content}
	r.posts[post.ID] = post
	return post
}

func (r *memPostRepo) CreatePost(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	r.posts[post.ID] = post
	return nil
}

func (r *memPostRepo) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", repositories.ErrMalformedID, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[objID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (r *memPostRepo) GetPostsByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var posts []models.Post
	for _, post := range r.posts {
		if post.Author == authorID {
			posts = append(posts, *post)
		}
	}
	return posts, nil
}

func (r *memPostRepo) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	posts := make([]models.Post, 0, len(r.posts))
	for _, post := range r.posts {
		posts = append(posts, *post)
	}
	return posts, nil
}

func (r *memPostRepo) UpdatePost(ctx context.Context, id string, post *models.Post) error {
	existing, err := r.GetPostByID(ctx, id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[existing.ID].Content = post.Content
	return nil
}

func (r *memPostRepo) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %q", repositories.ErrMalformedID, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[objID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.posts, objID)
	return nil
}

func (r *memPostRepo) ListPostIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]primitive.ObjectID, 0, len(r.posts))
	for id := range r.posts {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *memPostRepo) IncrementLikes(ctx context.Context, postID primitive.ObjectID) error {
	if r.incrementErr != nil {
		return r.incrementErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if post, ok := r.posts[postID]; ok {
		post.Likes++
	}
	return nil
}

func (r *memPostRepo) DecrementLikes(ctx context.Context, postID primitive.ObjectID) error {
	if r.decrementErr != nil {
		return r.decrementErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if post, ok := r.posts[postID]; ok && post.Likes > 0 {
		post.Likes--
	}
	return nil
}

func (r *memPostRepo) SetLikes(ctx context.Context, postID primitive.ObjectID, likes int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok || post.Likes == int(likes) {
		return false, nil
	}
	post.Likes = int(likes)
	return true, nil
}

type memCommentRepo struct {
	mu       sync.Mutex
	comments map[primitive.ObjectID]*models.Comment

	incrementErr error
	decrementErr error
}

func newMemCommentRepo() *memCommentRepo {
	return &memCommentRepo{comments: map[primitive.ObjectID]*models.Comment{}}
}

func (r *memCommentRepo) addComment(author, postID primitive.ObjectID, content string) *models.Comment {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment := &models.Comment{ID: primitive.NewObjectID(), Author: author, Post: postID, Content: content}
	r.comments[comment.ID] = comment
	return comment
}

func (r *memCommentRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = primitive.NewObjectID()
	r.comments[comment.ID] = comment
	return nil
}

func (r *memCommentRepo) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", repositories.ErrMalformedID, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[objID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *comment
	return &copied, nil
}

func (r *memCommentRepo) GetCommentsByPostID(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var comments []models.Comment
	for _, comment := range r.comments {
		if comment.Post == postID {
			comments = append(comments, *comment)
		}
	}
	return comments, nil
}

func (r *memCommentRepo) UpdateComment(ctx context.Context, id string, comment *models.Comment) error {
	existing, err := r.GetCommentByID(ctx, id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments[existing.ID].Content = comment.Content
	return nil
}

func (r *memCommentRepo) DeleteComment(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %q", repositories.ErrMalformedID, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[objID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.comments, objID)
	return nil
}

func (r *memCommentRepo) ListCommentIDsByPostID(ctx context.Context, postID primitive.ObjectID) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []primitive.ObjectID
	for id, comment := range r.comments {
		if comment.Post == postID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *memCommentRepo) DeleteCommentsByPostID(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, comment := range r.comments {
		if comment.Post == postID {
			delete(r.comments, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *memCommentRepo) ListCommentIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]primitive.ObjectID, 0, len(r.comments))
	for id := range r.comments {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *memCommentRepo) IncrementLikes(ctx context.Context, commentID primitive.ObjectID) error {
	if r.incrementErr != nil {
		return r.incrementErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if comment, ok := r.comments[commentID]; ok {
		comment.Likes++
	}
	return nil
}

func (r *memCommentRepo) DecrementLikes(ctx context.Context, commentID primitive.ObjectID) error {
	if r.decrementErr != nil {
		return r.decrementErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if comment, ok := r.comments[commentID]; ok && comment.Likes > 0 {
		comment.Likes--
	}
	return nil
}

func (r *memCommentRepo) SetLikes(ctx context.Context, commentID primitive.ObjectID, likes int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[commentID]
	if !ok || comment.Likes == int(likes) {
		return false, nil
	}
	comment.Likes = int(likes)
	return true, nil
}

// memLocker is an in-process Locker for reconciler tests.
type memLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemLocker() *memLocker {
	return &memLocker{held: map[string]bool{}}
}

func (l *memLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *memLocker) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}
