package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/reservaspro/reservaspro/internal/clientprofile/domain"
	"github.com/reservaspro/reservaspro/internal/orgcontext"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheet    = "Clients"
	exportPageSize = 250
)

var exportHeaders = []string{"Name", "Email", "Phone", "Level", "Level Name", "Total XP", "Visits", "Total Spent", "Last Visit", "Client Since"}

var exportWidths = []float64{24, 30, 16, 8, 16, 10, 8, 14, 20, 20}

// ExportXLSX writes every profile of the tenant to a spreadsheet.
func (s *Service) ExportXLSX(ctx context.Context, w io.Writer) error {
	if _, ok := orgcontext.OrgIDFromContext(ctx); !ok {
		return domain.ErrInvalidOrganization
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	for i, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(exportSheet, cell, cell, headerStyle); err != nil {
			return err
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(exportSheet, col, col, exportWidths[i]); err != nil {
			return err
		}
	}

	row := 2
	token := ""
	for {
		page, err := s.List(ctx, domain.ListRequest{PageToken: token, PageSize: exportPageSize})
		if err != nil {
			return err
		}
		for _, p := range page.ClientProfiles {
			if err := writeProfileRow(f, row, p); err != nil {
				return err
			}
			row++
		}
		if !page.HasMore || page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeProfileRow(f *excelize.File, row int, p domain.ClientProfile) error {
	lastVisit := ""
	if p.LastVisit != nil {
		lastVisit = p.LastVisit.Format(time.DateTime)
	}
	values := []any{
		p.Name,
		p.Email,
		p.Phone,
		p.CurrentLevel,
		p.LevelName,
		p.TotalXP,
		p.TotalVisits,
		formatMinor(p.TotalSpent),
		lastVisit,
		p.CreatedAt.Format(time.DateOnly),
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(exportSheet, cell, &values)
}

func formatMinor(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}

