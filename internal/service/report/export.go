package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	ContentTypeCSV  = "application/vnd.ms-excel"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeader = []string{"Booking ID", "Token", "Patient Name", "Doctor", "Date", "Slot", "Fee", "Payment", "Status"}

// FileName keeps the .xls extension for the comma-separated variant so spreadsheet apps pick it up.
func FileName(format Format, today time.Time) string {
	ext := "xls"
	if format == FormatXLSX {
		ext = "xlsx"
	}
	return fmt.Sprintf("OPD_Report_%s.%s", today.Format(domain.DateLayout), ext)
}

func row(b domain.Booking) []string {
	return []string{
		b.ID, strconv.Itoa(b.TokenNumber), b.PatientName, b.DoctorName, b.Date, b.Slot,
		strconv.FormatInt(b.Fee, 10), string(b.PaymentMode), string(b.Status),
	}
}

func WriteCSV(w io.Writer, bookings []domain.Booking) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, b := range bookings {
		if err := cw.Write(row(b)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func XLSX(bookings []domain.Booking) ([]byte, error) {
	f := excelize.NewFile()

	sheet := "OPD Report"
	index, err := f.NewSheet(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0F2FE"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, title := range exportHeader {
		if err := setCell(f, sheet, col+1, 1, title); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "I1", headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "A", 38); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "C", "D", 24); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	for i, b := range bookings {
		r := i + 2
		values := []interface{}{
			b.ID, b.TokenNumber, b.PatientName, b.DoctorName, b.Date, b.Slot,
			b.Fee, string(b.PaymentMode), string(b.Status),
		}
		for col, v := range values {
			if err := setCell(f, sheet, col+1, r, v); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, sheet string, col, r int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, r)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}
