package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/pkg/apperrors"
)

func TestJobConditions_ActiveOnly(t *testing.T) {
	category := int64(4)
	sql, args, err := JobConditions(models.JobFilter{ActiveOnly: true, CategoryID: &category, Search: "go"}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "is_active = ?")
	assert.Contains(t, sql, "(expires_at IS NULL OR expires_at > NOW())")
	assert.Contains(t, sql, "category_id = ?")
	assert.Contains(t, sql, "title ILIKE ?")
	assert.Equal(t, []any{true, int64(4), "%go%", "%go%", "%go%"}, args)
}

func TestJobConditions_AdminSeesEverything(t *testing.T) {
	sql, args, err := JobConditions(models.JobFilter{}).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "is_active")
	assert.Empty(t, args)
}

func TestBuildContentInsert(t *testing.T) {
	sql, args, err := BuildContentInsert(KindSummerPrograms, map[string]any{
		"title":           "Research camp",
		"program_type_id": float64(2),
		"id":              99,
	})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO summer_programs (title,program_type_id) VALUES ($1,$2) RETURNING *", sql)
	assert.Equal(t, []any{"Research camp", int64(2)}, args)
}

func TestBuildContentInsert_RequiresTitle(t *testing.T) {
	_, _, err := BuildContentInsert(KindNews, map[string]any{"title": "  ", "summary": "x"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, _, err = BuildContentInsert("podcasts", map[string]any{"title": "x"})
	assert.ErrorIs(t, err, apperrors.ErrUnknownContentKind)
}

func TestContentKindUpdateOnlyTouchesOwnColumns(t *testing.T) {
	k, err := LookupContentKind(KindMiniCourses)
	require.NoError(t, err)

	sql, args, err := BuildUpdate(k.updateSpec(), map[string]any{"price": "free", "deadline": "2025-01-01"}, 3)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE mini_courses SET price = $1, updated_at = NOW() WHERE id = $2 RETURNING *", sql)
	assert.Equal(t, []any{"free", int64(3)}, args)
}

func TestGalleryEncoding(t *testing.T) {
	encoded, err := EncodeGallery(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", encoded)

	encoded, err = encodeGalleryValue([]any{"https://cdn/a.png", "https://cdn/b.png"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn/a.png", "https://cdn/b.png"}, DecodeGallery(encoded))

	_, err = encodeGalleryValue("https://cdn/a.png")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	assert.Equal(t, []string{}, DecodeGallery("not json"))
}

func TestLookupRegistry(t *testing.T) {
	for _, kind := range LookupKinds() {
		_, err := lookupFor(kind)
		assert.NoError(t, err, kind)
	}
	_, err := lookupFor("planets")
	assert.Error(t, err)
}

func TestBuildStatsSQL(t *testing.T) {
	sql := BuildStatsSQL()
	assert.Contains(t, sql, "(SELECT COUNT(*) FROM users)")
	assert.Contains(t, sql, "(SELECT COUNT(*) FROM videos)")
}
