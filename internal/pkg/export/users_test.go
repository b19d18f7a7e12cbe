package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/ypropel/backend/internal/app/models"
)

func TestWriteUsers(t *testing.T) {
	city := "Austin"
	grad := int32(2026)
	users := []*models.User{
		{ID: 1, Name: "Ada", Email: "ada@example.com", IsAdmin: true, City: &city, GraduationYear: &grad,
			CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Name: "Bo", Email: "bo@example.com", IsStudent: true,
			CreatedAt: time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteUsers(&buf, users))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(UsersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Email", rows[0][2])
	assert.Equal(t, []string{"1", "Ada", "ada@example.com", "yes", "no", "", "", "Austin", "", "", "2026", "no", "2025-03-01"}, rows[1])
	assert.Equal(t, "bo@example.com", rows[2][2])
	assert.Equal(t, "yes", rows[2][4])
}

func TestWriteUsers_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUsers(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(UsersSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
