// Package export renders admin reports as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
	"github.com/ypropel/backend/internal/app/models"
)

// UsersSheet is the worksheet name of the member export
const UsersSheet = "Users"

// XLSXContentType is the MIME type of the generated workbook
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var userColumns = []string{
	"ID", "Name", "Email", "Admin", "Student", "Title", "University",
	"City", "State", "Country", "Graduation Year", "Unsubscribed", "Joined",
}

// WriteUsers writes one row per user to w as an XLSX workbook
func WriteUsers(w io.Writer, users []*models.User) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", UsersSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(userColumns))
	for i, col := range userColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(UsersSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(userColumns))
	if err := f.SetCellStyle(UsersSheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, u := range users {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			u.ID, u.Name, u.Email, yesNo(u.IsAdmin), yesNo(u.IsStudent),
			deref(u.Title), deref(u.University), deref(u.City), deref(u.State), deref(u.Country),
			year(u.GraduationYear), yesNo(u.EmailUnsubscribed), u.CreatedAt.Format("2006-01-02"),
		}
		if err := f.SetSheetRow(UsersSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(UsersSheet, "B", "C", 28)
	_ = f.SetColWidth(UsersSheet, "F", "G", 24)
	_ = f.SetPanes(UsersSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	return f.Write(w)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func year(y *int32) string {
	if y == nil {
		return ""
	}
	return strconv.Itoa(int(*y))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
