package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/ypropel/backend/internal/db"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/logger"
)

// Registered join tables
const (
	TablePostLikes         = "post_likes"
	TablePostFollows       = "post_follows"
	TablePostShares        = "post_shares"
	TableDiscussionLikes   = "discussion_likes"
	TableDiscussionFollows = "discussion_follows"
	TableDiscussionUpvotes = "discussion_upvotes"
	TableVideoLikes        = "video_likes"
	TableArticleLikes      = "article_likes"
	TableCircleMembers     = "study_circle_members"
)

// joinTables maps each join table to its resource column. Both columns carry
// a UNIQUE (user_id, <resource>) constraint in the schema.
var joinTables = map[string]string{
	TablePostLikes:         "post_id",
	TablePostFollows:       "post_id",
	TablePostShares:        "post_id",
	TableDiscussionLikes:   "topic_id",
	TableDiscussionFollows: "topic_id",
	TableDiscussionUpvotes: "topic_id",
	TableVideoLikes:        "video_id",
	TableArticleLikes:      "article_id",
	TableCircleMembers:     "circle_id",
}

func resourceColumn(table string) (string, error) {
	col, ok := joinTables[table]
	if !ok {
		return "", fmt.Errorf("%w: %s", apperrors.ErrUnknownJoinTable, table)
	}
	return col, nil
}

// BuildToggleSQL returns one statement that deletes the (user, resource) row
// when present and inserts it otherwise. It yields true when the row exists
// afterwards. Parameters: $1 user id, $2 resource id.
func BuildToggleSQL(table string) (string, error) {
	col, err := resourceColumn(table)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`WITH del AS (
	DELETE FROM %[1]s WHERE user_id = $1 AND %[2]s = $2 RETURNING 1
), ins AS (
	INSERT INTO %[1]s (user_id, %[2]s)
	SELECT $1::bigint, $2::bigint WHERE NOT EXISTS (SELECT 1 FROM del)
	ON CONFLICT (user_id, %[2]s) DO NOTHING
	RETURNING 1
)
SELECT EXISTS (SELECT 1 FROM ins)`, table, col), nil
}

// BuildInsertOnceSQL returns a statement inserting the row unless it exists.
// It yields true when a row was inserted.
func BuildInsertOnceSQL(table string) (string, error) {
	col, err := resourceColumn(table)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`WITH ins AS (
	INSERT INTO %[1]s (user_id, %[2]s) VALUES ($1, $2)
	ON CONFLICT (user_id, %[2]s) DO NOTHING
	RETURNING 1
)
SELECT EXISTS (SELECT 1 FROM ins)`, table, col), nil
}

type toggleRepository struct {
	baseRepository
}

// NewToggleRepository creates the repository behind every like, follow,
// upvote, share and membership action.
func NewToggleRepository(database *db.PostgresDB) ToggleRepository {
	return &toggleRepository{baseRepository: newBase(database)}
}

func (r *toggleRepository) Toggle(ctx context.Context, table string, userID, resourceID int64) (bool, error) {
	query, err := BuildToggleSQL(table)
	if err != nil {
		return false, err
	}

	var on bool
	if err := r.db.QueryRow(ctx, query, userID, resourceID).Scan(&on); err != nil {
		logger.Error().Err(err).Str("table", table).Int64("userID", userID).Int64("resourceID", resourceID).Msg("Toggle failed")
		return false, fmt.Errorf("toggle %s: %w", table, err)
	}
	return on, nil
}

func (r *toggleRepository) InsertOnce(ctx context.Context, table string, userID, resourceID int64) (bool, error) {
	query, err := BuildInsertOnceSQL(table)
	if err != nil {
		return false, err
	}

	var inserted bool
	if err := r.db.QueryRow(ctx, query, userID, resourceID).Scan(&inserted); err != nil {
		return false, fmt.Errorf("insert into %s: %w", table, err)
	}
	return inserted, nil
}

func (r *toggleRepository) Exists(ctx context.Context, table string, userID, resourceID int64) (bool, error) {
	col, err := resourceColumn(table)
	if err != nil {
		return false, err
	}

	query, args, err := r.sb.Select("1").From(table).
		Where(squirrel.Eq{"user_id": userID, col: resourceID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists in %s: %w", table, err)
	}
	return exists, nil
}

func (r *toggleRepository) Count(ctx context.Context, table string, resourceID int64) (int, error) {
	counts, err := countByResource(ctx, r.db, table, []int64{resourceID})
	if err != nil {
		return 0, err
	}
	return counts[resourceID], nil
}

// countByResource returns the number of join rows per resource id
func countByResource(ctx context.Context, q db.Querier, table string, ids []int64) (map[int64]int, error) {
	col, err := resourceColumn(table)
	if err != nil {
		return nil, err
	}
	return countGrouped(ctx, q, table, col, ids)
}

// countGrouped counts rows of table per value of col restricted to ids
func countGrouped(ctx context.Context, q db.Querier, table, col string, ids []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	query, args, err := psql.Select(col, "COUNT(*)").From(table).
		Where(squirrel.Eq{col: ids}).
		GroupBy(col).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan %s count: %w", table, err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// flaggedByUser returns the subset of ids for which userID has a join row
func flaggedByUser(ctx context.Context, q db.Querier, table string, userID int64, ids []int64) (map[int64]bool, error) {
	flags := make(map[int64]bool)
	if userID == 0 || len(ids) == 0 {
		return flags, nil
	}
	col, err := resourceColumn(table)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Select(col).From(table).
		Where(squirrel.Eq{"user_id": userID, col: ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build flag query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("flags %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s flag: %w", table, err)
		}
		flags[id] = true
	}
	return flags, rows.Err()
}
