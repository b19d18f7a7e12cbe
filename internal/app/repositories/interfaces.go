package repositories

import (
	"context"

	"github.com/ypropel/backend/internal/app/models"
)

// Page selects a window of a list query
type Page struct {
	Offset uint64
	Limit  uint64
}

// UserRepository persists member accounts
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	LinkGoogleID(ctx context.Context, userID int64, googleID string) error
	UpdateFields(ctx context.Context, id int64, fields map[string]any) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetPhotoURL(ctx context.Context, id int64, photoURL string) error
	Unsubscribe(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, search string, page Page) ([]*models.User, int64, error)
	ListAll(ctx context.Context) ([]*models.User, error)
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error
	Delete(ctx context.Context, id int64) error
	Authors(ctx context.Context, ids []int64) (map[int64]*models.Author, error)
}

// ToggleRepository flips membership rows of the registered join tables
type ToggleRepository interface {
	Toggle(ctx context.Context, table string, userID, resourceID int64) (bool, error)
	InsertOnce(ctx context.Context, table string, userID, resourceID int64) (bool, error)
	Exists(ctx context.Context, table string, userID, resourceID int64) (bool, error)
	Count(ctx context.Context, table string, resourceID int64) (int, error)
}

// PostRepository persists feed posts and their comments
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context, page Page) ([]*models.Post, int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*models.Post, error)
	Delete(ctx context.Context, id int64) error
	Enrich(ctx context.Context, posts []*models.Post, viewerID int64) error

	CreateComment(ctx context.Context, postID int64, comment *models.Comment) error
	GetComment(ctx context.Context, id int64) (*models.Comment, error)
	ListComments(ctx context.Context, postID int64) ([]*models.Comment, error)
	UpdateComment(ctx context.Context, id int64, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

// DiscussionRepository persists discussion topics and their comments
type DiscussionRepository interface {
	Create(ctx context.Context, topic *models.DiscussionTopic) error
	GetByID(ctx context.Context, id int64) (*models.DiscussionTopic, error)
	List(ctx context.Context, category string, page Page) ([]*models.DiscussionTopic, int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*models.DiscussionTopic, error)
	Delete(ctx context.Context, id int64) error
	Enrich(ctx context.Context, topics []*models.DiscussionTopic, viewerID int64) error

	CreateComment(ctx context.Context, topicID int64, comment *models.Comment) error
	GetComment(ctx context.Context, id int64) (*models.Comment, error)
	ListComments(ctx context.Context, topicID int64) ([]*models.Comment, error)
}

// StudyCircleRepository persists circles, their members and their chat
type StudyCircleRepository interface {
	Create(ctx context.Context, circle *models.StudyCircle, memberIDs []int64) error
	GetByID(ctx context.Context, id int64) (*models.StudyCircle, error)
	List(ctx context.Context, viewerID int64) ([]*models.StudyCircle, error)
	Members(ctx context.Context, circleID int64) ([]*models.Author, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*models.StudyCircle, error)
	Delete(ctx context.Context, id int64) error
	IsMember(ctx context.Context, circleID, userID int64) (bool, error)
	CreateMessage(ctx context.Context, circleID, userID int64, content string) (*models.CircleMessage, error)
	ListMessages(ctx context.Context, circleID int64, page Page) ([]*models.CircleMessage, error)
}

// MessageRepository persists direct messages
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	Conversations(ctx context.Context, userID int64) ([]*models.Conversation, error)
	Thread(ctx context.Context, userID, peerID int64, page Page) ([]*models.Message, error)
	MarkThreadRead(ctx context.Context, userID, peerID int64) (int64, error)
	MarkRead(ctx context.Context, id int64) (*models.Message, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
}

// FreelanceFilter narrows the freelance listing
type FreelanceFilter struct {
	ServiceTypeID *int64
	UserID        *int64
	Search        string
}

// FreelanceRepository persists freelance listings
type FreelanceRepository interface {
	Create(ctx context.Context, svc *models.FreelanceService) error
	GetByID(ctx context.Context, id int64) (*models.FreelanceService, error)
	List(ctx context.Context, filter FreelanceFilter) ([]*models.FreelanceService, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*models.FreelanceService, error)
	Delete(ctx context.Context, id int64) error
}

// ResumeRepository persists uploaded CVs and keeps users.resume_url in step
type ResumeRepository interface {
	Create(ctx context.Context, resume *models.Resume) error
	GetByID(ctx context.Context, id int64) (*models.Resume, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Resume, error)
	Delete(ctx context.Context, resume *models.Resume) error
}

// JobRepository persists job postings
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id int64) (*models.Job, error)
	List(ctx context.Context, filter models.JobFilter) ([]*models.Job, int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*models.Job, error)
	SetActive(ctx context.Context, id int64, active bool) (*models.Job, error)
	Delete(ctx context.Context, id int64) error
}

// ArticleRepository persists articles
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	List(ctx context.Context, page Page) ([]*models.Article, int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*models.Article, error)
	Delete(ctx context.Context, id int64) error
	Enrich(ctx context.Context, articles []*models.Article, viewerID int64) error
}

// ContentRepository persists the curated content kinds of the registry
type ContentRepository interface {
	List(ctx context.Context, kind string, filters map[string]any, page Page) ([]models.ContentRow, int64, error)
	GetByID(ctx context.Context, kind string, id int64) (models.ContentRow, error)
	Create(ctx context.Context, kind string, fields map[string]any) (models.ContentRow, error)
	Update(ctx context.Context, kind string, id int64, fields map[string]any) (models.ContentRow, error)
	Delete(ctx context.Context, kind string, id int64) error
}

// VideoRepository persists member videos
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id int64) (*models.Video, error)
	List(ctx context.Context, page Page) ([]*models.Video, int64, error)
	Delete(ctx context.Context, id int64) error
	IncrementShare(ctx context.Context, id int64) (int, error)
	Enrich(ctx context.Context, videos []*models.Video, viewerID int64) error
}

// LookupRepository reads and extends the reference tables
type LookupRepository interface {
	List(ctx context.Context, kind string, filters map[string]string) ([]*models.LookupItem, error)
	Create(ctx context.Context, kind, name string) (*models.LookupItem, error)
	Exists(ctx context.Context, kind string, id int64) (bool, error)
}

// StatsRepository summarises row counts for the admin dashboard
type StatsRepository interface {
	Counts(ctx context.Context) (models.Stats, error)
}
