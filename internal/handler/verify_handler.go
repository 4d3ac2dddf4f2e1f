package handler

import (
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"

	"fense-console/internal/domain"
	"fense-console/internal/middleware"
	"fense-console/internal/preview"
	"fense-console/internal/render"
	"fense-console/internal/service"
)

// Matches the backend's upload ceiling.
const maxImageBytes = 10 << 20

const (
	msgVerifyFailed    = "Đã có lỗi xảy ra khi gửi yêu cầu"
	msgVerifyBusy      = "Yêu cầu trước đó vẫn đang được xử lý, vui lòng chờ."
	msgVerifyEmpty     = "Vui lòng nhập nội dung hoặc chọn hình ảnh cần xác thực."
	msgImageNotAnImage = "Tệp được chọn không phải hình ảnh."
	msgImageTooLarge   = "Hình ảnh vượt quá giới hạn cho phép."
)

type VerifyHandler struct {
	verifyService  *service.VerifyService
	previews       *preview.Store
	authMiddleware *middleware.AuthMiddleware
	verifyTemplate *template.Template
}

func NewVerifyHandler(verifyService *service.VerifyService, previews *preview.Store, authMiddleware *middleware.AuthMiddleware) *VerifyHandler {
	verifyTemplate, err := template.ParseFiles("templates/verify.html")
	if err != nil {
		log.Fatalf("Failed to parse verify template: %v", err)
	}

	return &VerifyHandler{
		verifyService:  verifyService,
		previews:       previews,
		authMiddleware: authMiddleware,
		verifyTemplate: verifyTemplate,
	}
}

type verifyPageData struct {
	InputText  string
	PreviewURL string
	Findings   []render.Finding
	TTPMatches []domain.TTPMatch
	Error      string
	CSRFField  template.HTML
}

func (h *VerifyHandler) ViewForm(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.authMiddleware.OwnerID(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	h.renderPage(w, r, owner, verifyPageData{})
}

// Submit sends the typed text plus the staged image to the backend and
// renders the parsed findings. A file attached directly to the submit form
// replaces the staged image first, like picking a new file in the UI.
func (h *VerifyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.authMiddleware.OwnerID(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+1<<20)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		log.Printf("Error parsing verify form: %v", err)
		h.renderPage(w, r, owner, verifyPageData{Error: msgImageTooLarge})
		return
	}

	inputText := r.FormValue("input_text")

	if err := h.stageUploadedImage(r, owner); err != nil {
		h.renderPage(w, r, owner, verifyPageData{
			InputText: inputText,
			Error:     imageErrorMessage(err),
		})
		return
	}

	response, err := h.verifyService.Submit(r.Context(), owner, inputText)
	if err != nil {
		log.Printf("Verification error for owner %s: %v", owner, err)
		h.renderPage(w, r, owner, verifyPageData{
			InputText: inputText,
			Error:     submitErrorMessage(err),
		})
		return
	}

	// Success clears the text input; the staged image stays put.
	h.renderPage(w, r, owner, verifyPageData{
		Findings:   render.Findings(response.VerificationResult.Raw),
		TTPMatches: response.TTPMatches,
	})
}

// StageImage stores an uploaded or pasted image as the owner's staged
// preview, replacing any previous one.
func (h *VerifyHandler) StageImage(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.authMiddleware.OwnerID(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+1<<20)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		log.Printf("Error parsing image form: %v", err)
		h.renderPage(w, r, owner, verifyPageData{Error: msgImageTooLarge})
		return
	}

	if err := h.stageUploadedImage(r, owner); err != nil {
		h.renderPage(w, r, owner, verifyPageData{Error: imageErrorMessage(err)})
		return
	}

	http.Redirect(w, r, "/verify", http.StatusFound)
}

// RemoveImage revokes the staged preview so the same file can be re-selected
// later.
func (h *VerifyHandler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.authMiddleware.OwnerID(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	h.previews.Remove(owner)
	http.Redirect(w, r, "/verify", http.StatusFound)
}

// ServePreview streams a live staged image. Revoked resources yield 404.
func (h *VerifyHandler) ServePreview(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	resource, err := h.previews.Get(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", resource.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.Write(resource.Data)
}

// stageUploadedImage stages the request's input_image file, if one was sent.
// A request without the field leaves the current staging untouched.
func (h *VerifyHandler) stageUploadedImage(r *http.Request, owner string) error {
	file, header, err := r.FormFile("input_image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil
		}
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		return err
	}
	if len(data) > maxImageBytes {
		return domain.ErrImageTooLarge
	}
	if len(data) == 0 {
		return nil
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return domain.ErrNotAnImage
	}

	h.previews.Put(owner, header.Filename, contentType, data)
	return nil
}

func (h *VerifyHandler) renderPage(w http.ResponseWriter, r *http.Request, owner string, data verifyPageData) {
	if resource, ok := h.previews.Current(owner); ok {
		data.PreviewURL = resource.URL()
	}
	data.CSRFField = csrf.TemplateField(r)

	if err := h.verifyTemplate.Execute(w, data); err != nil {
		log.Printf("Error executing verify template: %v", err)
	}
}

func submitErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrSubmissionInFlight):
		return msgVerifyBusy
	case errors.Is(err, domain.ErrEmptySubmission):
		return msgVerifyEmpty
	default:
		return msgVerifyFailed
	}
}

func imageErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrImageTooLarge):
		return msgImageTooLarge
	case errors.Is(err, domain.ErrNotAnImage):
		return msgImageNotAnImage
	default:
		return msgVerifyFailed
	}
}
