package repositories

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ypropel/backend/internal/pkg/apperrors"
)

func TestBuildUpdate_AllowListOrderAndIDLast(t *testing.T) {
	spec := UpdateSpec{
		Table:     "users",
		Allowed:   []string{"name", "title", "major_id", "bio"},
		Touch:     true,
		Returning: []string{"id"},
	}
	body := map[string]any{
		"bio":      "hi",
		"is_admin": true,
		"name":     "Ada",
		"major_id": float64(3),
	}

	sql, args, err := BuildUpdate(spec, body, 42)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users SET name = $1, major_id = $2, bio = $3, updated_at = NOW() WHERE id = $4 RETURNING id", sql)
	assert.Equal(t, []any{"Ada", int64(3), "hi", int64(42)}, args)
	assert.NotContains(t, sql, "is_admin")
}

func TestBuildUpdate_NothingAllowed(t *testing.T) {
	sql, args, err := BuildUpdate(UpdateSpec{Table: "posts", Allowed: []string{"content"}},
		map[string]any{"user_id": 9, "id; DROP TABLE posts": "x"}, 1)
	assert.ErrorIs(t, err, apperrors.ErrNoFieldsToUpdate)
	assert.Empty(t, sql)
	assert.Nil(t, args)
}

func TestBuildUpdate_NullValue(t *testing.T) {
	sql, args, err := BuildUpdate(UpdateSpec{Table: "posts", Allowed: []string{"image_url"}, IDColumn: "id"},
		map[string]any{"image_url": nil}, 5)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE posts SET image_url = $1 WHERE id = $2", sql)
	assert.Equal(t, []any{nil, int64(5)}, args)
}

func TestBuildUpdate_RejectsObjectsAndArrays(t *testing.T) {
	for _, body := range []map[string]any{
		{"graduation_year": float64(2026), "bio": map[string]any{"x": float64(1)}},
		{"city": []any{"Austin", "Dallas"}},
	} {
		sql, args, err := BuildUpdate(ProfileUpdate, body, 7)
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		assert.Empty(t, sql)
		assert.Nil(t, args)
	}
}

func TestBuildContentInsert_RejectsObjects(t *testing.T) {
	_, _, err := BuildContentInsert(KindMiniCourses, map[string]any{
		"title": "Go basics",
		"price": map[string]any{"amount": float64(10)},
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestWriteFailed(t *testing.T) {
	err := writeFailed(fmt.Errorf("scan: %w", &pgconn.PgError{Code: "22P02"}), "Post not found")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.Equal(t, MsgInvalidFieldValue, apperrors.PublicMessage(err, ""))

	err = writeFailed(&pgconn.PgError{Code: "23502", ColumnName: "title"}, "Post not found")
	assert.Equal(t, "Invalid value for title", apperrors.PublicMessage(err, ""))

	err = writeFailed(pgx.ErrNoRows, "Post not found")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	err = writeFailed(&pgconn.PgError{Code: "23503"}, "Post not found")
	assert.ErrorIs(t, err, apperrors.ErrInvalidReference)
}

func TestUpdateSpecFilter(t *testing.T) {
	spec := UpdateSpec{Allowed: []string{"a", "b"}}
	assert.Equal(t, map[string]any{"a": 1}, spec.Filter(map[string]any{"a": 1, "c": 2}))
}

func TestBuildToggleSQL(t *testing.T) {
	sql, err := BuildToggleSQL(TablePostLikes)
	require.NoError(t, err)
	assert.Contains(t, sql, "DELETE FROM post_likes WHERE user_id = $1 AND post_id = $2 RETURNING 1")
	assert.Contains(t, sql, "WHERE NOT EXISTS (SELECT 1 FROM del)")
	assert.Contains(t, sql, "ON CONFLICT (user_id, post_id) DO NOTHING")
	assert.True(t, strings.HasSuffix(sql, "SELECT EXISTS (SELECT 1 FROM ins)"))

	sql, err = BuildToggleSQL(TableCircleMembers)
	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO study_circle_members (user_id, circle_id)")
}

func TestBuildToggleSQL_UnknownTable(t *testing.T) {
	_, err := BuildToggleSQL("users")
	assert.ErrorIs(t, err, apperrors.ErrUnknownJoinTable)

	_, err = BuildInsertOnceSQL("users; --")
	assert.ErrorIs(t, err, apperrors.ErrUnknownJoinTable)
}

func TestBuildInsertOnceSQL(t *testing.T) {
	sql, err := BuildInsertOnceSQL(TablePostShares)
	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO post_shares (user_id, post_id) VALUES ($1, $2)")
	assert.Contains(t, sql, "ON CONFLICT (user_id, post_id) DO NOTHING")
}

func TestEveryJoinTableIsToggleable(t *testing.T) {
	for table := range joinTables {
		_, err := BuildToggleSQL(table)
		assert.NoError(t, err, table)
	}
}
