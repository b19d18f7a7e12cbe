package repositories

import (
	"github.com/ypropel/backend/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        UserRepository
	ToggleRepository      ToggleRepository
	PostRepository        PostRepository
	DiscussionRepository  DiscussionRepository
	StudyCircleRepository StudyCircleRepository
	MessageRepository     MessageRepository
	FreelanceRepository   FreelanceRepository
	ResumeRepository      ResumeRepository
	JobRepository         JobRepository
	ArticleRepository     ArticleRepository
	ContentRepository     ContentRepository
	VideoRepository       VideoRepository
	LookupRepository      LookupRepository
	StatsRepository       StatsRepository
}

// NewRepositories initializes all repositories over one pool
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(database),
		ToggleRepository:      NewToggleRepository(database),
		PostRepository:        NewPostRepository(database),
		DiscussionRepository:  NewDiscussionRepository(database),
		StudyCircleRepository: NewStudyCircleRepository(database),
		MessageRepository:     NewMessageRepository(database),
		FreelanceRepository:   NewFreelanceRepository(database),
		ResumeRepository:      NewResumeRepository(database),
		JobRepository:         NewJobRepository(database),
		ArticleRepository:     NewArticleRepository(database),
		ContentRepository:     NewContentRepository(database),
		VideoRepository:       NewVideoRepository(database),
		LookupRepository:      NewLookupRepository(database),
		StatsRepository:       NewStatsRepository(database),
	}
}
