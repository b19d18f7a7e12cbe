package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/db"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/dberrors"
	"github.com/ypropel/backend/internal/pkg/helpers"
)

// FreelanceUpdate lists the columns an owner (or admin) may change
var FreelanceUpdate = UpdateSpec{
	Table: "freelance_services",
	Allowed: []string{
		"title", "description", "service_type_id", "price", "location", "contact_email", "gallery",
	},
	Touch:     true,
	Returning: []string{"id"},
}

var freelanceColumns = []string{
	"id", "user_id", "title", "description", "service_type_id", "price",
	"location", "contact_email", "gallery", "created_at", "updated_at",
}

type freelanceRepository struct {
	baseRepository
}

// NewFreelanceRepository creates a new FreelanceRepository
func NewFreelanceRepository(database *db.PostgresDB) FreelanceRepository {
	return &freelanceRepository{baseRepository: newBase(database)}
}

// EncodeGallery serialises gallery URLs into the stored JSON text
func EncodeGallery(gallery []string) (string, error) {
	if gallery == nil {
		gallery = []string{}
	}
	data, err := json.Marshal(gallery)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeGallery parses stored JSON text. Malformed values yield an empty gallery.
func DecodeGallery(raw string) []string {
	gallery := []string{}
	if raw == "" {
		return gallery
	}
	if err := json.Unmarshal([]byte(raw), &gallery); err != nil {
		return []string{}
	}
	return gallery
}

func (r *freelanceRepository) selectServices() squirrel.SelectBuilder {
	return r.sb.Select(append(prefixed("f", freelanceColumns), "u.name", "u.photo_url")...).
		From("freelance_services f").
		Join("users u ON u.id = f.user_id")
}

func scanFreelance(row pgx.Row) (*models.FreelanceService, error) {
	f := &models.FreelanceService{Author: &models.Author{}}
	var gallery string
	if err := row.Scan(&f.ID, &f.UserID, &f.Title, &f.Description, &f.ServiceTypeID, &f.Price,
		&f.Location, &f.ContactEmail, &gallery, &f.CreatedAt, &f.UpdatedAt,
		&f.Author.Name, &f.Author.PhotoURL); err != nil {
		return nil, err
	}
	f.Gallery = DecodeGallery(gallery)
	f.Author.ID = f.UserID
	return f, nil
}

func (r *freelanceRepository) Create(ctx context.Context, svc *models.FreelanceService) error {
	gallery, err := EncodeGallery(svc.Gallery)
	if err != nil {
		return fmt.Errorf("failed to encode gallery: %w", err)
	}

	query, args, err := r.sb.Insert("freelance_services").
		Columns("user_id", "title", "description", "service_type_id", "price", "location", "contact_email", "gallery").
		Values(svc.UserID, svc.Title, svc.Description, svc.ServiceTypeID, svc.Price, svc.Location, svc.ContactEmail, gallery).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create freelance query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&svc.ID, &svc.CreatedAt, &svc.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewCustomError(apperrors.ErrInvalidReference, "Invalid service_type_id")
		}
		return fmt.Errorf("error creating freelance service: %w", err)
	}
	return nil
}

func (r *freelanceRepository) GetByID(ctx context.Context, id int64) (*models.FreelanceService, error) {
	query, args, err := r.selectServices().Where(squirrel.Eq{"f.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get freelance query: %w", err)
	}
	svc, err := scanFreelance(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "Freelance service not found")
	}
	return svc, nil
}

func (r *freelanceRepository) List(ctx context.Context, filter FreelanceFilter) ([]*models.FreelanceService, error) {
	where := squirrel.And{}
	if filter.ServiceTypeID != nil {
		where = append(where, squirrel.Eq{"f.service_type_id": *filter.ServiceTypeID})
	}
	if filter.UserID != nil {
		where = append(where, squirrel.Eq{"f.user_id": *filter.UserID})
	}
	if filter.Search != "" {
		pattern := helpers.LikePattern(filter.Search)
		where = append(where, squirrel.Or{
			squirrel.ILike{"f.title": pattern},
			squirrel.ILike{"f.description": pattern},
		})
	}

	query, args, err := r.selectServices().Where(where).OrderBy("f.created_at DESC", "f.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list freelance query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying freelance services: %w", err)
	}
	defer rows.Close()

	services := []*models.FreelanceService{}
	for rows.Next() {
		svc, err := scanFreelance(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning freelance service: %w", err)
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

func (r *freelanceRepository) Update(ctx context.Context, id int64, fields map[string]any) (*models.FreelanceService, error) {
	fields = FreelanceUpdate.Filter(fields)
	if raw, ok := fields["gallery"]; ok {
		encoded, err := encodeGalleryValue(raw)
		if err != nil {
			return nil, err
		}
		fields["gallery"] = encoded
	}

	query, args, err := BuildUpdate(FreelanceUpdate, fields, id)
	if err != nil {
		return nil, err
	}
	var updatedID int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidReference, "Invalid service_type_id")
		}
		return nil, writeFailed(err, "Freelance service not found")
	}
	return r.GetByID(ctx, updatedID)
}

// encodeGalleryValue accepts the decoded JSON array of a request body
func encodeGalleryValue(raw any) (string, error) {
	if raw == nil {
		return "[]", nil
	}
	items, ok := raw.([]any)
	if !ok {
		return "", apperrors.NewBadRequestError("gallery must be an array of URLs")
	}
	gallery := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return "", apperrors.NewBadRequestError("gallery must be an array of URLs")
		}
		gallery = append(gallery, s)
	}
	return EncodeGallery(gallery)
}

func (r *freelanceRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM freelance_services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting freelance service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("Freelance service not found")
	}
	return nil
}
