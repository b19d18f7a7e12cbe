package memrepo

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/pkg/apperrors"
)

// optString reads a nullable text column out of a decoded request body
func optString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// Discussions implements repositories.DiscussionRepository
type Discussions struct{ s *Store }

func (r *Discussions) Create(ctx context.Context, topic *models.DiscussionTopic) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	topic.ID = r.s.id()
	topic.CreatedAt = time.Now()
	topic.UpdatedAt = topic.CreatedAt
	cp := *topic
	r.s.topics[topic.ID] = &cp
	return nil
}

func (r *Discussions) GetByID(ctx context.Context, id int64) (*models.DiscussionTopic, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.topics[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Discussion topic not found")
	}
	cp := *t
	return &cp, nil
}

func (r *Discussions) List(ctx context.Context, category string, page repositories.Page) ([]*models.DiscussionTopic, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.DiscussionTopic{}
	for _, t := range r.s.topics {
		if category != "" && (t.Category == nil || *t.Category != category) {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return window(out, page), int64(len(out)), nil
}

func (r *Discussions) Update(ctx context.Context, id int64, fields map[string]any) (*models.DiscussionTopic, error) {
	fields = repositories.DiscussionUpdate.Filter(fields)
	if len(fields) == 0 {
		return nil, apperrors.ErrNoFieldsToUpdate
	}
	r.s.mu.Lock()
	t, ok := r.s.topics[id]
	if ok {
		if title, isStr := fields["title"].(string); isStr {
			t.Title = title
		}
		if content, isStr := fields["content"].(string); isStr {
			t.Content = content
		}
		if v, has := fields["category"]; has {
			t.Category = optString(v)
		}
		t.UpdatedAt = time.Now()
	}
	r.s.mu.Unlock()
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Discussion topic not found")
	}
	return r.GetByID(ctx, id)
}

func (r *Discussions) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.topics[id]; !ok {
		return apperrors.NewResourceNotFoundError("Discussion topic not found")
	}
	delete(r.s.topics, id)
	for cid, c := range r.s.topicComments {
		if c.ParentID == id {
			delete(r.s.topicComments, cid)
		}
	}
	r.s.dropResource(id,
		repositories.TableDiscussionLikes, repositories.TableDiscussionFollows, repositories.TableDiscussionUpvotes)
	return nil
}

func (r *Discussions) Enrich(ctx context.Context, topics []*models.DiscussionTopic, viewerID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range topics {
		t.Author = r.s.author(t.UserID)
		t.LikeCount = r.s.count(repositories.TableDiscussionLikes, t.ID)
		t.FollowCount = r.s.count(repositories.TableDiscussionFollows, t.ID)
		t.UpvoteCount = r.s.count(repositories.TableDiscussionUpvotes, t.ID)
		t.Liked = r.s.joined(repositories.TableDiscussionLikes, viewerID, t.ID)
		t.Followed = r.s.joined(repositories.TableDiscussionFollows, viewerID, t.ID)
		t.Upvoted = r.s.joined(repositories.TableDiscussionUpvotes, viewerID, t.ID)
		t.CommentCount = 0
		for _, c := range r.s.topicComments {
			if c.ParentID == t.ID {
				t.CommentCount++
			}
		}
	}
	return nil
}

// CreateComment stores the row only. The author is joined on read.
func (r *Discussions) CreateComment(ctx context.Context, topicID int64, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	comment.ID = r.s.id()
	comment.ParentID = topicID
	comment.CreatedAt = time.Now()
	cp := *comment
	r.s.topicComments[comment.ID] = &cp
	return nil
}

func (r *Discussions) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.topicComments[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Comment not found")
	}
	cp := *c
	cp.Author = r.s.author(c.UserID)
	return &cp, nil
}

func (r *Discussions) ListComments(ctx context.Context, topicID int64) ([]*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Comment{}
	for _, c := range r.s.topicComments {
		if c.ParentID == topicID {
			cp := *c
			cp.Author = r.s.author(c.UserID)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Freelance implements repositories.FreelanceRepository
type Freelance struct{ s *Store }

func (r *Freelance) Create(ctx context.Context, svc *models.FreelanceService) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	svc.ID = r.s.id()
	svc.CreatedAt = time.Now()
	svc.UpdatedAt = svc.CreatedAt
	cp := *svc
	cp.Gallery = append([]string{}, svc.Gallery...)
	r.s.listings[svc.ID] = &cp
	return nil
}

func (r *Freelance) GetByID(ctx context.Context, id int64) (*models.FreelanceService, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.listings[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Freelance service not found")
	}
	cp := *l
	cp.Author = r.s.author(l.UserID)
	return &cp, nil
}

func (r *Freelance) List(ctx context.Context, filter repositories.FreelanceFilter) ([]*models.FreelanceService, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(filter.Search)
	out := []*models.FreelanceService{}
	for _, l := range r.s.listings {
		if filter.UserID != nil && l.UserID != *filter.UserID {
			continue
		}
		if filter.ServiceTypeID != nil && (l.ServiceTypeID == nil || *l.ServiceTypeID != *filter.ServiceTypeID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(l.Title+" "+l.Description), search) {
			continue
		}
		cp := *l
		cp.Author = r.s.author(l.UserID)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *Freelance) Update(ctx context.Context, id int64, fields map[string]any) (*models.FreelanceService, error) {
	fields = repositories.FreelanceUpdate.Filter(fields)
	if len(fields) == 0 {
		return nil, apperrors.ErrNoFieldsToUpdate
	}
	var gallery []string
	if raw, ok := fields["gallery"]; ok && raw != nil {
		items, isList := raw.([]any)
		if !isList {
			return nil, apperrors.NewBadRequestError("gallery must be an array of image URLs")
		}
		gallery = []string{}
		for _, item := range items {
			url, isStr := item.(string)
			if !isStr {
				return nil, apperrors.NewBadRequestError("gallery must be an array of image URLs")
			}
			gallery = append(gallery, url)
		}
	}

	r.s.mu.Lock()
	l, ok := r.s.listings[id]
	if ok {
		for col, v := range fields {
			switch col {
			case "title":
				l.Title, _ = v.(string)
			case "description":
				l.Description, _ = v.(string)
			case "price":
				l.Price = optString(v)
			case "location":
				l.Location = optString(v)
			case "contact_email":
				l.ContactEmail = optString(v)
			case "gallery":
				if gallery == nil {
					gallery = []string{}
				}
				l.Gallery = gallery
			}
		}
		l.UpdatedAt = time.Now()
	}
	r.s.mu.Unlock()
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Freelance service not found")
	}
	return r.GetByID(ctx, id)
}

func (r *Freelance) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.listings[id]; !ok {
		return apperrors.NewResourceNotFoundError("Freelance service not found")
	}
	delete(r.s.listings, id)
	return nil
}

// Resumes implements repositories.ResumeRepository. The owner's resume_url
// follows the latest upload.
type Resumes struct{ s *Store }

func (r *Resumes) Create(ctx context.Context, resume *models.Resume) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[resume.UserID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	resume.ID = r.s.id()
	resume.CreatedAt = time.Now()
	cp := *resume
	r.s.resumes[resume.ID] = &cp

	url := resume.FileURL
	u.ResumeURL = &url
	u.UpdatedAt = resume.CreatedAt
	return nil
}

func (r *Resumes) GetByID(ctx context.Context, id int64) (*models.Resume, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.resumes[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Resume not found")
	}
	cp := *res
	return &cp, nil
}

func (r *Resumes) ListByUser(ctx context.Context, userID int64) ([]*models.Resume, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Resume{}
	for _, res := range r.s.resumes {
		if res.UserID == userID {
			cp := *res
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *Resumes) Delete(ctx context.Context, resume *models.Resume) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.resumes[resume.ID]; !ok {
		return apperrors.NewResourceNotFoundError("Resume not found")
	}
	delete(r.s.resumes, resume.ID)
	if u, ok := r.s.users[resume.UserID]; ok && u.ResumeURL != nil && *u.ResumeURL == resume.FileURL {
		u.ResumeURL = nil
		u.UpdatedAt = time.Now()
	}
	return nil
}

// Articles implements repositories.ArticleRepository
type Articles struct{ s *Store }

func (r *Articles) Create(ctx context.Context, article *models.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	article.ID = r.s.id()
	article.CreatedAt = time.Now()
	article.UpdatedAt = article.CreatedAt
	cp := *article
	r.s.articles[article.ID] = &cp
	return nil
}

func (r *Articles) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.articles[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Article not found")
	}
	cp := *a
	return &cp, nil
}

func (r *Articles) List(ctx context.Context, page repositories.Page) ([]*models.Article, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Article, 0, len(r.s.articles))
	for _, a := range r.s.articles {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return window(out, page), int64(len(out)), nil
}

func (r *Articles) Update(ctx context.Context, id int64, fields map[string]any) (*models.Article, error) {
	fields = repositories.ArticleUpdate.Filter(fields)
	if len(fields) == 0 {
		return nil, apperrors.ErrNoFieldsToUpdate
	}
	r.s.mu.Lock()
	a, ok := r.s.articles[id]
	if ok {
		for col, v := range fields {
			switch col {
			case "title":
				a.Title, _ = v.(string)
			case "content":
				a.Content, _ = v.(string)
			case "subtitle":
				a.Subtitle = optString(v)
			case "cover_image":
				a.CoverImage = optString(v)
			}
		}
		a.UpdatedAt = time.Now()
	}
	r.s.mu.Unlock()
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Article not found")
	}
	return r.GetByID(ctx, id)
}

func (r *Articles) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.articles[id]; !ok {
		return apperrors.NewResourceNotFoundError("Article not found")
	}
	delete(r.s.articles, id)
	r.s.dropResource(id, repositories.TableArticleLikes)
	return nil
}

func (r *Articles) Enrich(ctx context.Context, articles []*models.Article, viewerID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range articles {
		a.LikeCount = r.s.count(repositories.TableArticleLikes, a.ID)
		a.Liked = r.s.joined(repositories.TableArticleLikes, viewerID, a.ID)
	}
	return nil
}

// Content implements repositories.ContentRepository. Writes go through the
// same registry and builders as the SQL repository so validation matches.
type Content struct{ s *Store }

func (r *Content) rows(kind string) map[int64]models.ContentRow {
	if r.s.content[kind] == nil {
		r.s.content[kind] = map[int64]models.ContentRow{}
	}
	return r.s.content[kind]
}

func copyRow(row models.ContentRow) models.ContentRow {
	cp := make(models.ContentRow, len(row))
	for k, v := range row {
		cp[k] = v
	}
	return cp
}

func (r *Content) List(ctx context.Context, kind string, filters map[string]any, page repositories.Page) ([]models.ContentRow, int64, error) {
	k, err := repositories.LookupContentKind(kind)
	if err != nil {
		return nil, 0, err
	}
	search, _ := filters["search"].(string)
	search = strings.ToLower(strings.TrimSpace(search))

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.ContentRow{}
	for _, row := range r.rows(kind) {
		title, _ := row["title"].(string)
		if search != "" && !strings.Contains(strings.ToLower(title), search) {
			continue
		}
		match := true
		for _, col := range k.Filters {
			if v, ok := filters[col]; ok && v != nil && row[col] != v {
				match = false
			}
		}
		if match {
			out = append(out, copyRow(row))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i]["id"].(int64) > out[j]["id"].(int64) })
	return window(out, page), int64(len(out)), nil
}

func (r *Content) GetByID(ctx context.Context, kind string, id int64) (models.ContentRow, error) {
	k, err := repositories.LookupContentKind(kind)
	if err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.rows(kind)[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError(k.Label + " not found")
	}
	return copyRow(row), nil
}

func (r *Content) Create(ctx context.Context, kind string, fields map[string]any) (models.ContentRow, error) {
	k, err := repositories.LookupContentKind(kind)
	if err != nil {
		return nil, err
	}
	if _, _, err := repositories.BuildContentInsert(kind, fields); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	row := models.ContentRow{"id": r.s.id(), "created_at": now, "updated_at": now}
	for _, col := range k.Columns {
		if v, ok := fields[col]; ok {
			row[col] = v
		}
	}
	r.rows(kind)[row["id"].(int64)] = row
	return copyRow(row), nil
}

func (r *Content) Update(ctx context.Context, kind string, id int64, fields map[string]any) (models.ContentRow, error) {
	k, err := repositories.LookupContentKind(kind)
	if err != nil {
		return nil, err
	}
	spec := repositories.UpdateSpec{Table: k.Table, Allowed: k.Columns, Touch: true}
	if _, _, err := repositories.BuildUpdate(spec, fields, id); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.rows(kind)[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError(k.Label + " not found")
	}
	for col, v := range spec.Filter(fields) {
		row[col] = v
	}
	row["updated_at"] = time.Now()
	return copyRow(row), nil
}

func (r *Content) Delete(ctx context.Context, kind string, id int64) error {
	k, err := repositories.LookupContentKind(kind)
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.rows(kind)[id]; !ok {
		return apperrors.NewResourceNotFoundError(k.Label + " not found")
	}
	delete(r.rows(kind), id)
	return nil
}

// Videos implements repositories.VideoRepository
type Videos struct{ s *Store }

func (r *Videos) Create(ctx context.Context, video *models.Video) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	video.ID = r.s.id()
	video.CreatedAt = time.Now()
	cp := *video
	r.s.videos[video.ID] = &cp
	return nil
}

func (r *Videos) GetByID(ctx context.Context, id int64) (*models.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Video not found")
	}
	cp := *v
	return &cp, nil
}

func (r *Videos) List(ctx context.Context, page repositories.Page) ([]*models.Video, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Video, 0, len(r.s.videos))
	for _, v := range r.s.videos {
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return window(out, page), int64(len(out)), nil
}

func (r *Videos) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.videos[id]; !ok {
		return apperrors.NewResourceNotFoundError("Video not found")
	}
	delete(r.s.videos, id)
	r.s.dropResource(id, repositories.TableVideoLikes)
	return nil
}

func (r *Videos) IncrementShare(ctx context.Context, id int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[id]
	if !ok {
		return 0, apperrors.NewResourceNotFoundError("Video not found")
	}
	v.ShareCount++
	return v.ShareCount, nil
}

func (r *Videos) Enrich(ctx context.Context, videos []*models.Video, viewerID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range videos {
		v.Author = r.s.author(v.UserID)
		v.LikeCount = r.s.count(repositories.TableVideoLikes, v.ID)
		v.Liked = r.s.joined(repositories.TableVideoLikes, viewerID, v.ID)
	}
	return nil
}

// Stats implements repositories.StatsRepository over the tables the store keeps
type Stats struct{ s *Store }

func (r *Stats) Counts(ctx context.Context) (models.Stats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stats := models.Stats{
		"users":              int64(len(r.s.users)),
		"posts":              int64(len(r.s.posts)),
		"comments":           int64(len(r.s.comments)),
		"discussion_topics":  int64(len(r.s.topics)),
		"messages":           int64(len(r.s.messages)),
		"study_circles":      int64(len(r.s.circles)),
		"freelance_services": int64(len(r.s.listings)),
		"resumes":            int64(len(r.s.resumes)),
		"jobs":               int64(len(r.s.jobs)),
		"articles":           int64(len(r.s.articles)),
		"videos":             int64(len(r.s.videos)),
	}
	for _, kind := range []string{
		repositories.KindNews, repositories.KindMiniCourses, repositories.KindSummerPrograms, repositories.KindJobFairs,
	} {
		stats[kind] = int64(len(r.s.content[kind]))
	}
	return stats, nil
}
