package services

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	appauth "github.com/ypropel/backend/internal/app/auth"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/auth"
	"github.com/ypropel/backend/internal/pkg/email"
	"github.com/ypropel/backend/internal/pkg/filestorage"
	"github.com/ypropel/backend/internal/pkg/helpers"
	"github.com/ypropel/backend/internal/pkg/websocket"
)

// TokenIssuer is the part of the JWT service the auth flows use
type TokenIssuer interface {
	GenerateAccessToken(identity auth.Identity) (string, error)
	GenerateResetToken(userID int64, email string) (string, error)
	ValidateResetToken(token string) (int64, time.Time, error)
	ValidateUnsubscribeToken(token string) (string, error)
}

// Broadcaster pushes chat frames to connected circle members
type Broadcaster interface {
	Broadcast(message *websocket.Message)
}

// Dependencies are the collaborators shared by the services
type Dependencies struct {
	Repos  *repositories.Repositories
	Tokens TokenIssuer
	Google auth.IdentityVerifier
	Email  email.EmailService
	Media  filestorage.MediaStore
	Hub    Broadcaster
	Authz  *appauth.AuthorizationService
	Logger zerolog.Logger
}

// Services holds all the service instances
type Services struct {
	Auth       AuthService
	User       UserService
	Post       PostService
	Discussion DiscussionService
	Circle     StudyCircleService
	Message    MessageService
	Freelance  FreelanceService
	Resume     ResumeService
	Job        JobService
	Article    ArticleService
	Content    ContentService
	Video      VideoService
	Lookup     LookupService
	Admin      AdminService
}

// NewServices wires every service from the shared dependencies
func NewServices(d Dependencies) *Services {
	r := d.Repos
	authz := d.Authz
	if authz == nil {
		authz = appauth.NewAuthorizationService()
	}
	return &Services{
		Auth:       NewAuthService(r.UserRepository, d.Tokens, d.Google, d.Email, d.Logger.With().Str("service", "auth").Logger()),
		User:       NewUserService(r.UserRepository, r.LookupRepository, d.Media, d.Logger.With().Str("service", "user").Logger()),
		Post:       NewPostService(r.PostRepository, r.ToggleRepository, d.Media, authz, d.Logger.With().Str("service", "post").Logger()),
		Discussion: NewDiscussionService(r.DiscussionRepository, r.ToggleRepository, authz, d.Logger.With().Str("service", "discussion").Logger()),
		Circle:     NewStudyCircleService(r.StudyCircleRepository, r.ToggleRepository, d.Hub, authz, d.Logger.With().Str("service", "circle").Logger()),
		Message:    NewMessageService(r.MessageRepository, r.UserRepository, d.Logger.With().Str("service", "message").Logger()),
		Freelance:  NewFreelanceService(r.FreelanceRepository, authz, d.Logger.With().Str("service", "freelance").Logger()),
		Resume:     NewResumeService(r.ResumeRepository, d.Media, authz, d.Logger.With().Str("service", "resume").Logger()),
		Job:        NewJobService(r.JobRepository, d.Logger.With().Str("service", "job").Logger()),
		Article:    NewArticleService(r.ArticleRepository, r.ToggleRepository, d.Logger.With().Str("service", "article").Logger()),
		Content:    NewContentService(r.ContentRepository, d.Logger.With().Str("service", "content").Logger()),
		Video:      NewVideoService(r.VideoRepository, r.ToggleRepository, d.Media, authz, d.Logger.With().Str("service", "video").Logger()),
		Lookup:     NewLookupService(r.LookupRepository),
		Admin:      NewAdminService(r.UserRepository, r.StatsRepository, d.Logger.With().Str("service", "admin").Logger()),
	}
}

// pageOf converts 1-based paging into a repository window
func pageOf(page, size int) repositories.Page {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	return repositories.Page{Offset: offset, Limit: uint64(limit)}
}

func paged[T any](items []T, total int64, page, size int) *dto.PagedResponse[T] {
	return &dto.PagedResponse[T]{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}
}

// uploadMedia validates and stores an optional file, returning nil without one
func uploadMedia(ctx context.Context, store filestorage.MediaStore, fh *multipart.FileHeader, kind filestorage.Kind, folder string) (*string, error) {
	if fh == nil {
		return nil, nil
	}
	if store == nil {
		return nil, apperrors.NewBadRequestError("File uploads are not available")
	}
	if err := filestorage.Validate(fh, kind); err != nil {
		return nil, uploadError(err)
	}
	url, err := store.Upload(ctx, fh, folder)
	if err != nil {
		return nil, err
	}
	return &url, nil
}

// uploadError turns a rejected upload into a 400 carrying the rule that failed
func uploadError(err error) error {
	if errors.Is(err, filestorage.ErrInvalidUpload) {
		msg := err.Error()
		if u, ok := err.(interface{ Unwrap() []error }); ok {
			if parts := u.Unwrap(); len(parts) > 1 {
				msg = parts[len(parts)-1].Error()
			}
		}
		return apperrors.NewBadRequestError(msg)
	}
	return err
}

// discardMedia deletes a stored file, logging failures
func discardMedia(ctx context.Context, store filestorage.MediaStore, url *string, lgr zerolog.Logger) {
	if store == nil || url == nil || *url == "" {
		return
	}
	if err := store.Delete(ctx, *url); err != nil {
		lgr.Warn().Err(err).Str("url", *url).Msg("Failed to delete stored file")
	}
}

// idValue reads an id out of a decoded JSON body value
func idValue(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
