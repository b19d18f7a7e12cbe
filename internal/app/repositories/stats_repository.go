package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/db"
)

// statsTables are the resources reported on the admin dashboard
var statsTables = []string{
	"users", "posts", "comments", "discussion_topics", "messages", "study_circles",
	"freelance_services", "resumes", "jobs", "job_fairs", "articles", "news",
	"mini_courses", "summer_programs", "videos",
}

type statsRepository struct {
	baseRepository
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(database *db.PostgresDB) StatsRepository {
	return &statsRepository{baseRepository: newBase(database)}
}

// BuildStatsSQL returns a single SELECT with one COUNT(*) subquery per table
func BuildStatsSQL() string {
	parts := make([]string, len(statsTables))
	for i, table := range statsTables {
		parts[i] = fmt.Sprintf("(SELECT COUNT(*) FROM %s)", table)
	}
	return "SELECT " + strings.Join(parts, ", ")
}

func (r *statsRepository) Counts(ctx context.Context) (models.Stats, error) {
	counts := make([]int64, len(statsTables))
	dest := make([]any, len(statsTables))
	for i := range counts {
		dest[i] = &counts[i]
	}
	if err := r.db.QueryRow(ctx, BuildStatsSQL()).Scan(dest...); err != nil {
		return nil, fmt.Errorf("error counting resources: %w", err)
	}

	stats := make(models.Stats, len(statsTables))
	for i, table := range statsTables {
		stats[table] = counts[i]
	}
	return stats, nil
}
