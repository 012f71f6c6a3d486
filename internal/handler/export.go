package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/srikanth112236/pg-application-sub004/internal/service"
	"github.com/xuri/excelize/v2"
)

// ExportHandler streams a residents workbook for offline review.
type ExportHandler struct {
	Residents service.ResidentService
}

func (h ExportHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/export/residents", h.residents)
}

func (h ExportHandler) residents(w http.ResponseWriter, r *http.Request) {
	branchID, err := branchIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "branch_id is required")
		return
	}
	items, err := h.Residents.ListByBranch(r.Context(), branchID, r.URL.Query().Get("status"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	f := excelize.NewFile()
	sheet := "Residents"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Name", "Phone", "Email", "Status", "Room", "Bed", "Check-in", "Vacation Date", "Rent", "Current Month Paid"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}
	for i, res := range items {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), res.Name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), res.Phone)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), res.Email)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), string(res.Status))
		if res.RoomID != nil {
			_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), *res.RoomID)
		}
		if res.BedNumber != nil {
			_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), *res.BedNumber)
		}
		if res.CheckInDate != nil {
			_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), res.CheckInDate.Format(dateLayout))
		}
		if res.VacationDate != nil {
			_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", row), res.VacationDate.Format(dateLayout))
		}
		_ = f.SetCellValue(sheet, fmt.Sprintf("I%d", row), res.RentAmount.Amount)
		_ = f.SetCellValue(sheet, fmt.Sprintf("J%d", row), res.CurrentMonthPaid)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=residents.xlsx")
	// Headers are already written; a stream failure here cannot become a
	// second response.
	_, _ = f.WriteTo(w)
}
