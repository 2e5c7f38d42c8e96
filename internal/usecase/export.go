package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"go-biodata-backend/internal/domain"
	"go-biodata-backend/pkg/apperror"
	"go-biodata-backend/pkg/security"

	"github.com/xuri/excelize/v2"
)

const (
	ExportFormatXLSX = "xlsx"
	ExportFormatCSV  = "csv"

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv"
)

// exportColumns is the sheet layout; list fields are written as JSON text.
var exportColumns = []struct {
	header string
	value  func(a *domain.Applicant) string
}{
	{"ID", func(a *domain.Applicant) string { return strconv.FormatInt(a.ID, 10) }},
	{"USERNAME", func(a *domain.Applicant) string { return deref(a.Username) }},
	{"ACCOUNT EMAIL", func(a *domain.Applicant) string { return deref(a.UserEmail) }},
	{"POSITION", func(a *domain.Applicant) string { return deref(a.Position) }},
	{"FULL NAME", func(a *domain.Applicant) string { return a.FullName }},
	{"NATIONAL ID", func(a *domain.Applicant) string { return deref(a.NationalID) }},
	{"BIRTH PLACE", func(a *domain.Applicant) string { return deref(a.BirthPlace) }},
	{"BIRTH DATE", func(a *domain.Applicant) string { return deref(a.BirthDate) }},
	{"GENDER", func(a *domain.Applicant) string { return deref(a.Gender) }},
	{"RELIGION", func(a *domain.Applicant) string { return deref(a.Religion) }},
	{"BLOOD TYPE", func(a *domain.Applicant) string { return deref(a.BloodType) }},
	{"MARITAL STATUS", func(a *domain.Applicant) string { return deref(a.MaritalStatus) }},
	{"ID CARD ADDRESS", func(a *domain.Applicant) string { return deref(a.IDCardAddress) }},
	{"DOMICILE ADDRESS", func(a *domain.Applicant) string { return deref(a.DomicileAddress) }},
	{"EMAIL", func(a *domain.Applicant) string { return deref(a.Email) }},
	{"PHONE", func(a *domain.Applicant) string { return deref(a.Phone) }},
	{"EMERGENCY CONTACT", func(a *domain.Applicant) string { return deref(a.EmergencyContact) }},
	{"EDUCATION", func(a *domain.Applicant) string { return encodeList(a.Education) }},
	{"TRAINING", func(a *domain.Applicant) string { return encodeList(a.Training) }},
	{"WORK HISTORY", func(a *domain.Applicant) string { return encodeList(a.WorkHistory) }},
	{"SKILLS", func(a *domain.Applicant) string { return deref(a.Skills) }},
	{"PLACEMENT WILLINGNESS", func(a *domain.Applicant) string { return deref(a.PlacementWillingness) }},
	{"EXPECTED INCOME", func(a *domain.Applicant) string { return deref(a.ExpectedIncome) }},
	{"CREATED AT", func(a *domain.Applicant) string { return a.CreatedAt.Format(time.RFC3339) }},
	{"UPDATED AT", func(a *domain.Applicant) string { return a.UpdatedAt.Format(time.RFC3339) }},
}

// Export renders every profile as a spreadsheet or CSV. Admin only.
func (u *applicantUsecase) Export(ctx context.Context, identity domain.Identity, format string) (*domain.ExportFile, error) {
	if format == "" {
		format = ExportFormatXLSX
	}
	if format != ExportFormatXLSX && format != ExportFormatCSV {
		return nil, apperror.BadRequest(fmt.Sprintf("Unsupported export format: %s", format))
	}

	applicants, err := u.ListAll(ctx, identity)
	if err != nil {
		return nil, err
	}

	var file *domain.ExportFile
	switch format {
	case ExportFormatCSV:
		file, err = exportCSV(applicants)
	default:
		file, err = exportExcel(applicants)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	security.DefaultLogger().LogAdminAction(ctx, security.EventDataExport, identity.ID,
		map[string]interface{}{"format": format, "rows": len(applicants)})
	return file, nil
}

func exportExcel(applicants []domain.Applicant) (*domain.ExportFile, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Applicants"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col.header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx := range applicants {
		for colIdx, col := range exportColumns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, col.value(&applicants[rowIdx]))
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return &domain.ExportFile{
		Filename:    fmt.Sprintf("applicants_%s.xlsx", time.Now().Format("20060102_150405")),
		ContentType: contentTypeXLSX,
		Content:     buf.Bytes(),
	}, nil
}

func exportCSV(applicants []domain.Applicant) (*domain.ExportFile, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(exportColumns))
	for i, col := range exportColumns {
		header[i] = col.header
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for i := range applicants {
		record := make([]string, len(exportColumns))
		for j, col := range exportColumns {
			record[j] = col.value(&applicants[i])
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return &domain.ExportFile{
		Filename:    fmt.Sprintf("applicants_%s.csv", time.Now().Format("20060102_150405")),
		ContentType: contentTypeCSV,
		Content:     buf.Bytes(),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func encodeList(l domain.RecordList) string {
	encoded, err := domain.EncodeRecordList(l)
	if err != nil {
		return ""
	}
	return encoded
}
