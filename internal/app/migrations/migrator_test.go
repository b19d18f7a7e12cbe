package migrations

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("001_init.sql"))
	assert.Equal(t, "002", Version("dir/002_seed_lookups.sql"))
}

func TestPending_SortsAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"002_b.sql": {Data: []byte("SELECT 2")},
		"001_a.sql": {Data: []byte("SELECT 1")},
		"README.md": {Data: []byte("docs")},
		"010_c.sql": {Data: []byte("SELECT 3")},
		"sub/x.sql": {Data: []byte("SELECT 4")},
	}
	files, err := Pending(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a.sql", "002_b.sql", "010_c.sql"}, files)
}

func TestEmbeddedSchema_HasUniqueJoinRows(t *testing.T) {
	sub, err := fs.Sub(Embedded, "sql")
	require.NoError(t, err)
	files, err := Pending(sub)
	require.NoError(t, err)
	require.NotEmpty(t, files)

	content, err := fs.ReadFile(sub, files[0])
	require.NoError(t, err)
	schema := string(content)

	for _, constraint := range []string{
		"UNIQUE (user_id, post_id)",
		"UNIQUE (user_id, topic_id)",
		"UNIQUE (user_id, video_id)",
		"UNIQUE (user_id, article_id)",
		"UNIQUE (user_id, circle_id)",
	} {
		assert.True(t, strings.Contains(schema, constraint), constraint)
	}
}
