package handler

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"

	"fense-console/internal/domain"
	"fense-console/internal/service"
)

const (
	msgNewsLoadFailed = "Không thể tải danh sách bài báo, vui lòng thử lại."
	msgNewsAddFailed  = "Không thể lưu bài báo, vui lòng thử lại."
	msgNewsAddEmpty   = "Vui lòng nhập tiêu đề bài báo."
)

type NewsHandler struct {
	newsService     *service.NewsService
	newsTemplate    *template.Template
	addNewsTemplate *template.Template
}

func NewNewsHandler(newsService *service.NewsService) *NewsHandler {
	newsTemplate, err := template.ParseFiles("templates/news.html")
	if err != nil {
		log.Fatalf("Failed to parse news template: %v", err)
	}

	addNewsTemplate, err := template.ParseFiles("templates/add_news.html")
	if err != nil {
		log.Fatalf("Failed to parse add_news template: %v", err)
	}

	return &NewsHandler{
		newsService:     newsService,
		newsTemplate:    newsTemplate,
		addNewsTemplate: addNewsTemplate,
	}
}

type newsPageData struct {
	Items     []domain.NewsItem
	Query     string
	Error     string
	CSRFField template.HTML
}

// ViewNews lists crawled articles, optionally filtered through the
// backend's retrieval index. A fetch failure is shown as a visible error
// banner, never silently collapsed into an empty table.
func (h *NewsHandler) ViewNews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	items, err := h.newsService.Search(r.Context(), query)
	if err != nil {
		log.Printf("Error fetching news: %v", err)
		h.renderList(w, r, newsPageData{Query: query, Error: msgNewsLoadFailed})
		return
	}

	h.renderList(w, r, newsPageData{Items: items, Query: query})
}

func (h *NewsHandler) AddNews(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		h.showAddNewsPage(w, r, "")
		return
	}

	if r.Method == "POST" {
		h.handleAddNewsPost(w, r)
		return
	}

	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

func (h *NewsHandler) showAddNewsPage(w http.ResponseWriter, r *http.Request, errMsg string) {
	data := map[string]interface{}{
		"Error":     errMsg,
		"csrfField": csrf.TemplateField(r),
	}

	if err := h.addNewsTemplate.Execute(w, data); err != nil {
		log.Printf("Error executing add_news template: %v", err)
	}
}

func (h *NewsHandler) handleAddNewsPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	title := r.FormValue("title")
	content := r.FormValue("content")
	link := r.FormValue("link")

	_, err := h.newsService.Add(r.Context(), title, content, link)
	if err != nil {
		log.Printf("Error adding news: %v", err)

		errMsg := msgNewsAddFailed
		if errors.Is(err, domain.ErrInvalidNewsTitle) {
			errMsg = msgNewsAddEmpty
		}
		h.showAddNewsPage(w, r, errMsg)
		return
	}

	http.Redirect(w, r, "/news", http.StatusFound)
}

func (h *NewsHandler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, err := h.newsService.Delete(r.Context(), id); err != nil {
		log.Printf("Error deleting news %s: %v", id, err)
		http.Error(w, "Error deleting news", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/news", http.StatusFound)
}

func (h *NewsHandler) renderList(w http.ResponseWriter, r *http.Request, data newsPageData) {
	data.CSRFField = csrf.TemplateField(r)

	if err := h.newsTemplate.Execute(w, data); err != nil {
		log.Printf("Error executing news template: %v", err)
	}
}
