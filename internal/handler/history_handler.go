package handler

import (
	"html/template"
	"log"
	"net/http"

	"fense-console/internal/domain"
	"fense-console/internal/service"
	"fense-console/pkg/datetime"
)

const msgHistoryLoadFailed = "Không thể tải lịch sử xác thực, vui lòng thử lại."

type HistoryHandler struct {
	historyService  *service.HistoryService
	dateFormatter   *datetime.Formatter
	historyTemplate *template.Template
}

func NewHistoryHandler(historyService *service.HistoryService, dateFormatter *datetime.Formatter) *HistoryHandler {
	historyTemplate, err := template.ParseFiles("templates/history.html")
	if err != nil {
		log.Fatalf("Failed to parse history template: %v", err)
	}

	return &HistoryHandler{
		historyService:  historyService,
		dateFormatter:   dateFormatter,
		historyTemplate: historyTemplate,
	}
}

type historyRow struct {
	domain.HistoryItem
	DisplayTime string
}

type historyPageData struct {
	Rows  []historyRow
	Error string
}

// ViewHistory lists past verification requests. Timestamps are converted to
// the viewer's local format here, at render time, leaving the fetched items
// untouched.
func (h *HistoryHandler) ViewHistory(w http.ResponseWriter, r *http.Request) {
	items, err := h.historyService.List(r.Context())
	if err != nil {
		log.Printf("Error fetching history: %v", err)
		h.renderPage(w, historyPageData{Error: msgHistoryLoadFailed})
		return
	}

	rows := make([]historyRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, historyRow{
			HistoryItem: item,
			DisplayTime: h.dateFormatter.DisplayLocal(item.Timestamp),
		})
	}

	h.renderPage(w, historyPageData{Rows: rows})
}

func (h *HistoryHandler) renderPage(w http.ResponseWriter, data historyPageData) {
	if err := h.historyTemplate.Execute(w, data); err != nil {
		log.Printf("Error executing history template: %v", err)
	}
}
