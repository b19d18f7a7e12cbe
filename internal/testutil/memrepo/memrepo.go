// Package memrepo holds in-memory repositories for service and router tests.
package memrepo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/pkg/apperrors"
)

// Store is shared by every repository of one fixture so that joins such as
// authors and membership checks see the same rows.
type Store struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]*models.User
	joins    map[string]map[[2]int64]bool
	posts    map[int64]*models.Post
	comments map[int64]*models.Comment
	circles  map[int64]*models.StudyCircle
	circleMs []*models.CircleMessage
	messages map[int64]*models.Message
	jobs     map[int64]*models.Job
	lookups  map[string][]*models.LookupItem

	topics        map[int64]*models.DiscussionTopic
	topicComments map[int64]*models.Comment
	listings      map[int64]*models.FreelanceService
	resumes       map[int64]*models.Resume
	articles      map[int64]*models.Article
	videos        map[int64]*models.Video
	content       map[string]map[int64]models.ContentRow
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{
		users:    map[int64]*models.User{},
		joins:    map[string]map[[2]int64]bool{},
		posts:    map[int64]*models.Post{},
		comments: map[int64]*models.Comment{},
		circles:  map[int64]*models.StudyCircle{},
		messages: map[int64]*models.Message{},
		jobs:     map[int64]*models.Job{},
		lookups:  map[string][]*models.LookupItem{},

		topics:        map[int64]*models.DiscussionTopic{},
		topicComments: map[int64]*models.Comment{},
		listings:      map[int64]*models.FreelanceService{},
		resumes:       map[int64]*models.Resume{},
		articles:      map[int64]*models.Article{},
		videos:        map[int64]*models.Video{},
		content:       map[string]map[int64]models.ContentRow{},
	}
}

// Repositories bundles the in-memory implementations
func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		UserRepository:        &Users{s},
		ToggleRepository:      &Toggles{s},
		PostRepository:        &Posts{s},
		DiscussionRepository:  &Discussions{s},
		StudyCircleRepository: &Circles{s},
		MessageRepository:     &Messages{s},
		FreelanceRepository:   &Freelance{s},
		ResumeRepository:      &Resumes{s},
		JobRepository:         &Jobs{s},
		ArticleRepository:     &Articles{s},
		ContentRepository:     &Content{s},
		VideoRepository:       &Videos{s},
		LookupRepository:      &Lookups{s},
		StatsRepository:       &Stats{s},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) author(userID int64) *models.Author {
	a := &models.Author{ID: userID}
	if u, ok := s.users[userID]; ok {
		a.Name = u.Name
		a.PhotoURL = u.PhotoURL
	}
	return a
}

func (s *Store) joined(table string, userID, resourceID int64) bool {
	return s.joins[table][[2]int64{userID, resourceID}]
}

func (s *Store) count(table string, resourceID int64) int {
	n := 0
	for k := range s.joins[table] {
		if k[1] == resourceID {
			n++
		}
	}
	return n
}

func (s *Store) set(table string, userID, resourceID int64, on bool) {
	if s.joins[table] == nil {
		s.joins[table] = map[[2]int64]bool{}
	}
	key := [2]int64{userID, resourceID}
	if on {
		s.joins[table][key] = true
	} else {
		delete(s.joins[table], key)
	}
}

func (s *Store) dropResource(resourceID int64, tables ...string) {
	for _, table := range tables {
		for k := range s.joins[table] {
			if k[1] == resourceID {
				delete(s.joins[table], k)
			}
		}
	}
}

func window[T any](items []T, page repositories.Page) []T {
	start := int(page.Offset)
	if start > len(items) {
		return []T{}
	}
	end := len(items)
	if page.Limit > 0 && start+int(page.Limit) < end {
		end = start + int(page.Limit)
	}
	return items[start:end]
}

// Users implements repositories.UserRepository
type Users struct{ s *Store }

func (r *Users) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = r.s.id()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *Users) find(match func(*models.User) bool) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *Users) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *Users) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.GoogleID != nil && *u.GoogleID == googleID })
}

func (r *Users) mutate(id int64, fn func(*models.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now()
	return nil
}

func (r *Users) LinkGoogleID(ctx context.Context, userID int64, googleID string) error {
	return r.mutate(userID, func(u *models.User) { u.GoogleID = &googleID })
}

// UpdateFields honours the profile allow-list for the string columns tests use
func (r *Users) UpdateFields(ctx context.Context, id int64, fields map[string]any) (*models.User, error) {
	fields = repositories.ProfileUpdate.Filter(fields)
	if len(fields) == 0 {
		return nil, apperrors.ErrNoFieldsToUpdate
	}
	err := r.mutate(id, func(u *models.User) {
		for col, v := range fields {
			str, _ := v.(string)
			switch col {
			case "name":
				u.Name = str
			case "title":
				u.Title = &str
			case "university":
				u.University = &str
			case "city":
				u.City = &str
			case "bio":
				u.Bio = &str
			case "major_id":
				if n, ok := v.(int64); ok {
					u.MajorID = &n
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *Users) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.mutate(id, func(u *models.User) {
		now := time.Now()
		u.PasswordHash = passwordHash
		u.PasswordChangedAt = &now
	})
}

func (r *Users) SetPhotoURL(ctx context.Context, id int64, photoURL string) error {
	return r.mutate(id, func(u *models.User) { u.PhotoURL = &photoURL })
}

func (r *Users) Unsubscribe(ctx context.Context, email string) (*models.User, error) {
	u, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := r.mutate(u.ID, func(u *models.User) { u.EmailUnsubscribed = true }); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, u.ID)
}

func (r *Users) List(ctx context.Context, search string, page repositories.Page) ([]*models.User, int64, error) {
	all, _ := r.ListAll(ctx)
	out := []*models.User{}
	for _, u := range all {
		if search == "" || strings.Contains(strings.ToLower(u.Name+" "+u.Email), strings.ToLower(search)) {
			out = append(out, u)
		}
	}
	return window(out, page), int64(len(out)), nil
}

func (r *Users) ListAll(ctx context.Context) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Users) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	return r.mutate(id, func(u *models.User) { u.IsAdmin = isAdmin })
}

func (r *Users) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *Users) Authors(ctx context.Context, ids []int64) (map[int64]*models.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[int64]*models.Author, len(ids))
	for _, id := range ids {
		out[id] = r.s.author(id)
	}
	return out, nil
}

// Toggles implements repositories.ToggleRepository
type Toggles struct{ s *Store }

func (r *Toggles) Toggle(ctx context.Context, table string, userID, resourceID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	on := !r.s.joined(table, userID, resourceID)
	r.s.set(table, userID, resourceID, on)
	return on, nil
}

func (r *Toggles) InsertOnce(ctx context.Context, table string, userID, resourceID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.joined(table, userID, resourceID) {
		return false, nil
	}
	r.s.set(table, userID, resourceID, true)
	return true, nil
}

func (r *Toggles) Exists(ctx context.Context, table string, userID, resourceID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.joined(table, userID, resourceID), nil
}

func (r *Toggles) Count(ctx context.Context, table string, resourceID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.count(table, resourceID), nil
}

// Posts implements repositories.PostRepository
type Posts struct{ s *Store }

func (r *Posts) Create(ctx context.Context, post *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	post.ID = r.s.id()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	cp := *post
	r.s.posts[post.ID] = &cp
	return nil
}

func (r *Posts) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Post not found")
	}
	cp := *p
	return &cp, nil
}

func (r *Posts) List(ctx context.Context, page repositories.Page) ([]*models.Post, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Post, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return window(out, page), int64(len(out)), nil
}

func (r *Posts) Update(ctx context.Context, id int64, fields map[string]any) (*models.Post, error) {
	fields = repositories.PostUpdate.Filter(fields)
	if len(fields) == 0 {
		return nil, apperrors.ErrNoFieldsToUpdate
	}
	r.s.mu.Lock()
	p, ok := r.s.posts[id]
	if !ok {
		r.s.mu.Unlock()
		return nil, apperrors.NewResourceNotFoundError("Post not found")
	}
	if content, ok := fields["content"].(string); ok {
		p.Content = content
	}
	p.UpdatedAt = time.Now()
	r.s.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *Posts) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return apperrors.NewResourceNotFoundError("Post not found")
	}
	delete(r.s.posts, id)
	for cid, c := range r.s.comments {
		if c.ParentID == id {
			delete(r.s.comments, cid)
		}
	}
	r.s.dropResource(id, repositories.TablePostLikes, repositories.TablePostFollows, repositories.TablePostShares)
	return nil
}

func (r *Posts) Enrich(ctx context.Context, posts []*models.Post, viewerID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range posts {
		p.Author = r.s.author(p.UserID)
		p.LikeCount = r.s.count(repositories.TablePostLikes, p.ID)
		p.FollowCount = r.s.count(repositories.TablePostFollows, p.ID)
		p.ShareCount = r.s.count(repositories.TablePostShares, p.ID)
		p.Liked = r.s.joined(repositories.TablePostLikes, viewerID, p.ID)
		p.Followed = r.s.joined(repositories.TablePostFollows, viewerID, p.ID)
		p.Comments = []*models.Comment{}
		for _, c := range r.s.comments {
			if c.ParentID == p.ID {
				cp := *c
				p.Comments = append(p.Comments, &cp)
			}
		}
		p.CommentCount = len(p.Comments)
	}
	return nil
}

func (r *Posts) CreateComment(ctx context.Context, postID int64, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	comment.ID = r.s.id()
	comment.ParentID = postID
	comment.CreatedAt = time.Now()
	comment.Author = r.s.author(comment.UserID)
	cp := *comment
	r.s.comments[comment.ID] = &cp
	return nil
}

func (r *Posts) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Comment not found")
	}
	cp := *c
	return &cp, nil
}

func (r *Posts) ListComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Comment{}
	for _, c := range r.s.comments {
		if c.ParentID == postID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Posts) UpdateComment(ctx context.Context, id int64, content string) (*models.Comment, error) {
	r.s.mu.Lock()
	c, ok := r.s.comments[id]
	if ok {
		c.Content = content
	}
	r.s.mu.Unlock()
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Comment not found")
	}
	return r.GetComment(ctx, id)
}

func (r *Posts) DeleteComment(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return apperrors.NewResourceNotFoundError("Comment not found")
	}
	delete(r.s.comments, id)
	return nil
}

// Circles implements repositories.StudyCircleRepository
type Circles struct{ s *Store }

func (r *Circles) Create(ctx context.Context, circle *models.StudyCircle, memberIDs []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range memberIDs {
		if _, ok := r.s.users[id]; !ok {
			return apperrors.NewCustomError(apperrors.ErrInvalidReference, fmt.Sprintf("User %d does not exist", id))
		}
	}
	circle.ID = r.s.id()
	circle.CreatedAt = time.Now()
	circle.UpdatedAt = circle.CreatedAt
	for _, id := range append([]int64{circle.CreatedBy}, memberIDs...) {
		r.s.set(repositories.TableCircleMembers, id, circle.ID, true)
	}
	circle.MemberCount = r.s.count(repositories.TableCircleMembers, circle.ID)
	circle.IsMember = true
	cp := *circle
	r.s.circles[circle.ID] = &cp
	return nil
}

func (r *Circles) GetByID(ctx context.Context, id int64) (*models.StudyCircle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.circles[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Study circle not found")
	}
	cp := *c
	cp.MemberCount = r.s.count(repositories.TableCircleMembers, id)
	return &cp, nil
}

func (r *Circles) List(ctx context.Context, viewerID int64) ([]*models.StudyCircle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.StudyCircle{}
	for _, c := range r.s.circles {
		member := r.s.joined(repositories.TableCircleMembers, viewerID, c.ID)
		if !c.IsPublic && !member {
			continue
		}
		cp := *c
		cp.IsMember = member
		cp.MemberCount = r.s.count(repositories.TableCircleMembers, c.ID)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *Circles) Members(ctx context.Context, circleID int64) ([]*models.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Author{}
	for k := range r.s.joins[repositories.TableCircleMembers] {
		if k[1] == circleID {
			out = append(out, r.s.author(k[0]))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Circles) Update(ctx context.Context, id int64, fields map[string]any) (*models.StudyCircle, error) {
	fields = repositories.CircleUpdate.Filter(fields)
	if len(fields) == 0 {
		return nil, apperrors.ErrNoFieldsToUpdate
	}
	r.s.mu.Lock()
	c, ok := r.s.circles[id]
	if ok {
		if name, isStr := fields["name"].(string); isStr {
			c.Name = name
		}
		if public, isBool := fields["is_public"].(bool); isBool {
			c.IsPublic = public
		}
	}
	r.s.mu.Unlock()
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Study circle not found")
	}
	return r.GetByID(ctx, id)
}

func (r *Circles) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.circles[id]; !ok {
		return apperrors.NewResourceNotFoundError("Study circle not found")
	}
	delete(r.s.circles, id)
	r.s.dropResource(id, repositories.TableCircleMembers)
	kept := r.s.circleMs[:0]
	for _, m := range r.s.circleMs {
		if m.CircleID != id {
			kept = append(kept, m)
		}
	}
	r.s.circleMs = kept
	return nil
}

func (r *Circles) IsMember(ctx context.Context, circleID, userID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.joined(repositories.TableCircleMembers, userID, circleID), nil
}

func (r *Circles) CreateMessage(ctx context.Context, circleID, userID int64, content string) (*models.CircleMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.circles[circleID]; !ok {
		return nil, apperrors.NewResourceNotFoundError("Study circle not found")
	}
	msg := &models.CircleMessage{
		ID:        r.s.id(),
		CircleID:  circleID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
		Author:    r.s.author(userID),
	}
	r.s.circleMs = append(r.s.circleMs, msg)
	cp := *msg
	return &cp, nil
}

func (r *Circles) ListMessages(ctx context.Context, circleID int64, page repositories.Page) ([]*models.CircleMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.CircleMessage{}
	for _, m := range r.s.circleMs {
		if m.CircleID == circleID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return window(out, page), nil
}

// Messages implements repositories.MessageRepository
type Messages struct{ s *Store }

func (r *Messages) Create(ctx context.Context, msg *models.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	msg.ID = r.s.id()
	msg.CreatedAt = time.Now()
	cp := *msg
	r.s.messages[msg.ID] = &cp
	return nil
}

func (r *Messages) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.messages[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Message not found")
	}
	cp := *m
	return &cp, nil
}

func (r *Messages) sorted() []*models.Message {
	out := make([]*models.Message, 0, len(r.s.messages))
	for _, m := range r.s.messages {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Messages) Conversations(ctx context.Context, userID int64) ([]*models.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byPeer := map[int64]*models.Conversation{}
	order := []int64{}
	for _, m := range r.sorted() {
		var peer int64
		switch userID {
		case m.SenderID:
			peer = m.ReceiverID
		case m.ReceiverID:
			peer = m.SenderID
		default:
			continue
		}
		conv, ok := byPeer[peer]
		if !ok {
			conv = &models.Conversation{Peer: *r.s.author(peer)}
			byPeer[peer] = conv
			order = append(order, peer)
		}
		conv.LastMessage = m
		if m.ReceiverID == userID && m.ReadAt == nil {
			conv.UnreadCount++
		}
	}
	out := make([]*models.Conversation, 0, len(order))
	for _, peer := range order {
		out = append(out, byPeer[peer])
	}
	return out, nil
}

func (r *Messages) Thread(ctx context.Context, userID, peerID int64, page repositories.Page) ([]*models.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Message{}
	for _, m := range r.sorted() {
		if (m.SenderID == userID && m.ReceiverID == peerID) || (m.SenderID == peerID && m.ReceiverID == userID) {
			out = append(out, m)
		}
	}
	return window(out, page), nil
}

func (r *Messages) MarkThreadRead(ctx context.Context, userID, peerID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	now := time.Now()
	for _, m := range r.s.messages {
		if m.SenderID == peerID && m.ReceiverID == userID && m.ReadAt == nil {
			m.ReadAt = &now
			n++
		}
	}
	return n, nil
}

func (r *Messages) MarkRead(ctx context.Context, id int64) (*models.Message, error) {
	r.s.mu.Lock()
	m, ok := r.s.messages[id]
	if ok && m.ReadAt == nil {
		now := time.Now()
		m.ReadAt = &now
	}
	r.s.mu.Unlock()
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Message not found")
	}
	return r.GetByID(ctx, id)
}

func (r *Messages) UnreadCount(ctx context.Context, userID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, m := range r.s.messages {
		if m.ReceiverID == userID && m.ReadAt == nil {
			n++
		}
	}
	return n, nil
}

// Jobs implements repositories.JobRepository
type Jobs struct{ s *Store }

func (r *Jobs) Create(ctx context.Context, job *models.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	job.ID = r.s.id()
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	cp := *job
	r.s.jobs[job.ID] = &cp
	return nil
}

func (r *Jobs) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.jobs[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Job not found")
	}
	cp := *j
	return &cp, nil
}

func (r *Jobs) List(ctx context.Context, filter models.JobFilter) ([]*models.Job, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	out := []*models.Job{}
	for _, j := range r.s.jobs {
		if filter.ActiveOnly && (!j.IsActive || (j.ExpiresAt != nil && !j.ExpiresAt.After(now))) {
			continue
		}
		if filter.CategoryID != nil && (j.CategoryID == nil || *j.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(j.Title+" "+j.Company), strings.ToLower(filter.Search)) {
			continue
		}
		cp := *j
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return window(out, repositories.Page{Offset: filter.Offset, Limit: uint64(max(filter.Limit, 0))}), int64(len(out)), nil
}

func (r *Jobs) Update(ctx context.Context, id int64, fields map[string]any) (*models.Job, error) {
	fields = repositories.JobUpdate.Filter(fields)
	if len(fields) == 0 {
		return nil, apperrors.ErrNoFieldsToUpdate
	}
	r.s.mu.Lock()
	j, ok := r.s.jobs[id]
	if ok {
		if title, isStr := fields["title"].(string); isStr {
			j.Title = title
		}
	}
	r.s.mu.Unlock()
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Job not found")
	}
	return r.GetByID(ctx, id)
}

func (r *Jobs) SetActive(ctx context.Context, id int64, active bool) (*models.Job, error) {
	r.s.mu.Lock()
	j, ok := r.s.jobs[id]
	if ok {
		j.IsActive = active
	}
	r.s.mu.Unlock()
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Job not found")
	}
	return r.GetByID(ctx, id)
}

func (r *Jobs) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[id]; !ok {
		return apperrors.NewResourceNotFoundError("Job not found")
	}
	delete(r.s.jobs, id)
	return nil
}

// Lookups implements repositories.LookupRepository
type Lookups struct{ s *Store }

// Seed adds reference rows for kind
func (r *Lookups) Seed(kind string, names ...string) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, name := range names {
		r.s.lookups[kind] = append(r.s.lookups[kind], &models.LookupItem{ID: r.s.id(), Name: name})
	}
}

func (r *Lookups) List(ctx context.Context, kind string, filters map[string]string) ([]*models.LookupItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := append([]*models.LookupItem{}, r.s.lookups[kind]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Lookups) Create(ctx context.Context, kind, name string) (*models.LookupItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, item := range r.s.lookups[kind] {
		if strings.EqualFold(item.Name, name) {
			return nil, apperrors.NewConflictError(name + " already exists")
		}
	}
	item := &models.LookupItem{ID: r.s.id(), Name: name}
	r.s.lookups[kind] = append(r.s.lookups[kind], item)
	return item, nil
}

func (r *Lookups) Exists(ctx context.Context, kind string, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, item := range r.s.lookups[kind] {
		if item.ID == id {
			return true, nil
		}
	}
	return false, nil
}
