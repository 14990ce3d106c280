package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/repositories"
)

const assignmentSheet = "Assignments"

// Column headers of the assignment sheet. Import matches them case
// insensitively and ignores unknown columns.
const (
	colID             = "ID"
	colTitle          = "Title"
	colSoundLetter    = "Sound Letter"
	colQuestionType   = "Question Type"
	colDescription    = "Description"
	colQuestionsCount = "Questions Count"
	colQuestions      = "Questions"
	colCreatedAt      = "Created At"
)

var exportHeaders = []string{
	colID, colTitle, colSoundLetter, colQuestionType, colDescription, colQuestionsCount, colQuestions, colCreatedAt,
}

type importExportService struct {
	repo        repositories.Repository
	assignments AssignmentService
	logger      *slog.Logger
}

func NewImportExportService(repo repositories.Repository, assignments AssignmentService, logger *slog.Logger) ImportExportService {
	return &importExportService{
		repo:        repo,
		assignments: assignments,
		logger:      logger,
	}
}

// ===== EXPORT OPERATIONS =====

// ExportAssignmentsToExcel writes one row per assignment of the material. The
// questions column holds the stored JSON so the sheet can be imported back.
func (s *importExportService) ExportAssignmentsToExcel(ctx context.Context, materialID uint) ([]byte, error) {
	material, err := s.repo.Material().GetByID(ctx, materialID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %d", ErrMaterialNotFound, materialID)
		}
		return nil, storageFailure("get material", err)
	}

	assignments, err := s.repo.Assignment().GetByMaterial(ctx, materialID)
	if err != nil {
		return nil, storageFailure("get assignments", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(assignmentSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := f.SetSheetRow(assignmentSheet, "A1", &exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for rowIndex, a := range assignments {
		questions, err := json.Marshal(a.Questions)
		if err != nil {
			return nil, fmt.Errorf("failed to encode questions of assignment %d: %w", a.ID, err)
		}

		description := ""
		if a.Description != nil {
			description = *a.Description
		}

		row := []interface{}{
			a.ID,
			a.Title,
			a.SoundLetter,
			string(a.QuestionType),
			description,
			len(a.Questions),
			string(questions),
			a.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIndex, value := range row {
			// excelize cuts longer strings without an error, which would
			// break the questions JSON on import
			if str, ok := value.(string); ok && utf8.RuneCountInString(str) > excelize.TotalCellChars {
				return nil, fmt.Errorf("%w: assignment %d column %q has %d characters, the limit is %d",
					ErrExportCellTooLarge, a.ID, exportHeaders[colIndex], utf8.RuneCountInString(str), excelize.TotalCellChars)
			}
			cell, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			if err != nil {
				return nil, fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(assignmentSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write assignment %d: %w", a.ID, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported assignments", "material_id", materialID, "material", material.Title, "rows", len(assignments))
	return buf.Bytes(), nil
}

// ===== IMPORT OPERATIONS =====

// ImportAssignmentsFromExcel creates one assignment per data row of the first
// sheet. Rows are independent: a bad row is reported and the rest still load.
func (s *importExportService) ImportAssignmentsFromExcel(ctx context.Context, materialID uint, r io.Reader, actor models.Principal) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnsupportedFile)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet is empty", ErrUnsupportedFile)
	}

	headerMap := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, required := range []string{colTitle, colSoundLetter, colQuestionType, colQuestions} {
		if _, ok := headerMap[strings.ToLower(required)]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrUnsupportedFile, required)
		}
	}

	result := &ImportResult{Errors: []ImportRowError{}}
	for i, record := range rows[1:] {
		rowNum := i + 2
		if blankRow(record) {
			continue
		}
		result.TotalRows++

		req, rowErr := parseAssignmentRow(record, headerMap, materialID, rowNum)
		if rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			continue
		}

		assignment, err := s.assignments.Create(ctx, req, actor)
		if err != nil {
			if IsStorageFailure(err) || IsNotFound(err) {
				return nil, err
			}
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		result.Assignments = append(result.Assignments, assignment.Summary())
	}

	result.SuccessCount = len(result.Assignments)
	result.ErrorCount = len(result.Errors)

	s.logger.Info("Imported assignments",
		"material_id", materialID,
		"rows", result.TotalRows,
		"created", result.SuccessCount,
		"failed", result.ErrorCount)
	return result, nil
}

func parseAssignmentRow(record []string, headerMap map[string]int, materialID uint, rowNum int) (*AssignmentRequest, *ImportRowError) {
	cell := func(column string) string {
		idx, ok := headerMap[strings.ToLower(column)]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	req := &AssignmentRequest{
		MaterialID:   materialID,
		Title:        cell(colTitle),
		SoundLetter:  cell(colSoundLetter),
		QuestionType: models.QuestionType(cell(colQuestionType)),
	}
	if description := cell(colDescription); description != "" {
		req.Description = &description
	}

	raw := cell(colQuestions)
	if raw == "" {
		return nil, &ImportRowError{Row: rowNum, Field: "questions", Message: "is required"}
	}
	if err := json.Unmarshal([]byte(raw), &req.Questions); err != nil {
		return nil, &ImportRowError{Row: rowNum, Field: "questions", Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return req, nil
}

func blankRow(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
