package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"sales-analytics/internal/service/dashboard"
)

const (
	SheetKPI      = "KPI"
	SheetRevenue  = "Revenue by month"
	SheetWins     = "Wins by quarter"
	SheetPipeline = "Pipeline"
	SheetSignings = "Signings"
)

type ReportSource interface {
	Report(ctx context.Context, username string, year int) (*dashboard.Report, error)
}

type Service struct {
	source ReportSource
}

func NewService(source ReportSource) *Service {
	return &Service{source: source}
}

// GenerateExcel collects the landing page figures for the user and lays them out as a workbook.
func (s *Service) GenerateExcel(ctx context.Context, username string, year int) ([]byte, error) {
	rep, err := s.source.Report(ctx, username, year)
	if err != nil {
		return nil, err
	}

	return Build(rep)
}

// Build renders a report to xlsx bytes, one sheet per landing page widget.
func Build(rep *dashboard.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetKPI); err != nil {
		return nil, err
	}

	sheets := []struct {
		name    string
		headers []string
		rows    [][]any
	}{
		{SheetKPI, []string{"Metric", "Value"}, kpiRows(rep)},
		{SheetRevenue, []string{"Month", "Revenue"}, revenueRows(rep.Revenue)},
		{SheetWins, []string{"Quarter", "Wins"}, winRows(rep.Wins)},
		{SheetPipeline, []string{"Forecast category", "Count", "Percentage"}, pipelineRows(rep.Pipeline)},
		{SheetSignings, []string{"Product category", "Count", "Percentage"}, signingRows(rep.Signings)},
	}

	for i, sh := range sheets {
		if i > 0 {
			if _, err := f.NewSheet(sh.name); err != nil {
				return nil, fmt.Errorf("sheet %s: %w", sh.name, err)
			}
		}
		if err := writeTable(f, sh.name, sh.headers, sh.rows, headerStyle); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sh.name, err)
		}
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, sheet string, headers []string, rows [][]any, style int) error {
	for i, name := range headers {
		if err := f.SetCellValue(sheet, cellName(i+1, 1), name); err != nil {
			return err
		}
	}

	if err := f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), style); err != nil {
		return err
	}

	for r, row := range rows {
		for c, v := range row {
			if err := f.SetCellValue(sheet, cellName(c+1, r+2), v); err != nil {
				return err
			}
		}
	}

	// header stays visible while scrolling
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	}); err != nil {
		return err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	return f.SetColWidth(sheet, "A", lastCol, 20)
}

func kpiRows(rep *dashboard.Report) [][]any {
	return [][]any{
		{"User", rep.Username},
		{"Fiscal year", rep.Year},
		{"Pipeline", rep.KPIs.Pipeline},
		{"Revenue", rep.KPIs.Revenue},
		{"Signings", rep.KPIs.Signings},
		{"Wins", rep.KPIs.Wins},
	}
}

func revenueRows(points []dashboard.RevenuePoint) [][]any {
	rows := make([][]any, len(points))
	for i, p := range points {
		rows[i] = []any{p.Month, p.Revenue}
	}
	return rows
}

func winRows(points []dashboard.WinPoint) [][]any {
	rows := make([][]any, len(points))
	for i, p := range points {
		rows[i] = []any{fmt.Sprintf("Q%d", p.Quarter), p.WinCount}
	}
	return rows
}

func pipelineRows(shares []dashboard.PipelineShare) [][]any {
	rows := make([][]any, len(shares))
	for i, s := range shares {
		rows[i] = []any{s.ForecastCategory, s.Count, s.Percentage}
	}
	return rows
}

func signingRows(shares []dashboard.SigningShare) [][]any {
	rows := make([][]any, len(shares))
	for i, s := range shares {
		rows[i] = []any{s.ProductCategory, s.Count, s.Percentage}
	}
	return rows
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
