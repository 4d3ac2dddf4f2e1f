package handler

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/gorilla/csrf"

	"fense-console/internal/domain"
	"fense-console/internal/service"
)

const (
	msgCrawlDone   = "Đã xử lý xong!"
	msgCrawlFailed = "❌ Có lỗi xảy ra khi crawl!"
	msgCrawlEmpty  = "Vui lòng nhập ít nhất một đường dẫn."
)

type DashboardHandler struct {
	crawlService      *service.CrawlService
	dashboardTemplate *template.Template
}

func NewDashboardHandler(crawlService *service.CrawlService) *DashboardHandler {
	dashboardTemplate, err := template.ParseFiles("templates/dashboard.html")
	if err != nil {
		log.Fatalf("Failed to parse dashboard template: %v", err)
	}

	return &DashboardHandler{
		crawlService:      crawlService,
		dashboardTemplate: dashboardTemplate,
	}
}

type dashboardPageData struct {
	URLs      string
	Message   string
	Error     string
	CSRFField template.HTML
}

func (h *DashboardHandler) ViewDashboard(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, dashboardPageData{})
}

// TriggerCrawl submits the pasted URL block as one batch job. The input is
// cleared only on success; a failed trigger keeps the operator's list in
// place for retry.
func (h *DashboardHandler) TriggerCrawl(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	urls := r.FormValue("urls")

	message, err := h.crawlService.Trigger(r.Context(), urls)
	if err != nil {
		log.Printf("Crawl trigger error: %v", err)

		errMsg := msgCrawlFailed
		if errors.Is(err, domain.ErrEmptySourceList) {
			errMsg = msgCrawlEmpty
		}
		h.renderPage(w, r, dashboardPageData{URLs: urls, Error: errMsg})
		return
	}

	if message == "" {
		message = msgCrawlDone
	}
	h.renderPage(w, r, dashboardPageData{Message: message})
}

func (h *DashboardHandler) renderPage(w http.ResponseWriter, r *http.Request, data dashboardPageData) {
	data.CSRFField = csrf.TemplateField(r)

	if err := h.dashboardTemplate.Execute(w, data); err != nil {
		log.Printf("Error executing dashboard template: %v", err)
	}
}
