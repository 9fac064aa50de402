package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fadhlanhapp/courtsplit-backend/models"
	"github.com/fadhlanhapp/courtsplit-backend/utils"
)

const (
	matchesSheet      = "Matches"
	participantsSheet = "Players"
)

// ExcelService handles Excel export functionality
type ExcelService struct {
	matchService *MatchService
}

// NewExcelService creates a new Excel service
func NewExcelService(matchService *MatchService) *ExcelService {
	return &ExcelService{matchService: matchService}
}

// ExportMatchesToExcel generates a workbook with one row per match and one
// row per participant
func (s *ExcelService) ExportMatchesToExcel(ctx context.Context, filter models.MatchFilter) (*excelize.File, string, error) {
	matches, err := s.matchService.FindMatches(ctx, filter, "", "")
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()

	if err := s.createMatchesSheet(f, matches); err != nil {
		f.Close()
		return nil, "", fmt.Errorf("failed to create matches sheet: %w", err)
	}
	if err := s.createParticipantsSheet(f, matches); err != nil {
		f.Close()
		return nil, "", fmt.Errorf("failed to create players sheet: %w", err)
	}

	// Delete the default sheet if it exists
	f.DeleteSheet("Sheet1")
	if index, err := f.GetSheetIndex(matchesSheet); err == nil {
		f.SetActiveSheet(index)
	}

	filename := fmt.Sprintf("%s_%s.xlsx",
		utils.CleanFileName("Court Matches"),
		time.Now().Format("2006-01-02"))

	return f, filename, nil
}

// createMatchesSheet creates Sheet 1: one row per match
func (s *ExcelService) createMatchesSheet(f *excelize.File, matches []models.Match) error {
	if _, err := f.NewSheet(matchesSheet); err != nil {
		return err
	}

	headers := []string{"Date", "Court Cost", "Total Hours", "Pix Key", "Players", "Paid", "Status", "Completed At"}
	if err := s.writeHeaders(f, matchesSheet, headers); err != nil {
		return err
	}

	for i, m := range matches {
		row := i + 2
		paid := 0
		for _, p := range m.Participants {
			if p.Settled {
				paid++
			}
		}
		completedAt := ""
		if m.CompletedAt != nil {
			completedAt = utils.FormatDateTime(*m.CompletedAt)
		}

		values := []interface{}{
			utils.FormatDateTime(m.OccursAt),
			m.TotalCost,
			m.TotalWeight,
			m.PayoutKey,
			len(m.Participants),
			paid,
			string(m.Status),
			completedAt,
		}
		if err := f.SetSheetRow(matchesSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
	}

	return f.SetColWidth(matchesSheet, "A", "H", 16)
}

// createParticipantsSheet creates Sheet 2: one row per participant
func (s *ExcelService) createParticipantsSheet(f *excelize.File, matches []models.Match) error {
	if _, err := f.NewSheet(participantsSheet); err != nil {
		return err
	}

	headers := []string{"Date", "Player", "Hours Played", "Amount", "Paid", "Payment Date", "Receipt"}
	if err := s.writeHeaders(f, participantsSheet, headers); err != nil {
		return err
	}

	row := 2
	for _, m := range matches {
		for _, p := range m.SortedParticipants() {
			var amount interface{}
			if p.OwedAmount != nil {
				amount = *p.OwedAmount
			}
			paymentDate := ""
			if p.SettledAt != nil {
				paymentDate = utils.FormatDateTime(*p.SettledAt)
			}

			values := []interface{}{
				utils.FormatDateTime(m.OccursAt),
				utils.DisplayName(p.Name),
				p.Contribution,
				amount,
				p.Settled,
				paymentDate,
				p.ReceiptRef,
			}
			if err := f.SetSheetRow(participantsSheet, fmt.Sprintf("A%d", row), &values); err != nil {
				return err
			}
			row++
		}
	}

	return f.SetColWidth(participantsSheet, "A", "G", 16)
}

// writeHeaders writes and styles the header row
func (s *ExcelService) writeHeaders(f *excelize.File, sheet string, headers []string) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	lastCell, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", lastCell, headerStyle)
}
