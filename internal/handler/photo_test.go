package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fieldreport-backend/internal/imagestore"
	"fieldreport-backend/internal/model"
	"fieldreport-backend/internal/service"
)

// =============================================================================
// MOCKS
// =============================================================================

type mockReportRepo struct {
	exists    bool
	existsErr error
}

func (m *mockReportRepo) Create(ctx context.Context, report *model.Report) error { return nil }
func (m *mockReportRepo) GetByID(ctx context.Context, id int64) (*model.Report, error) {
	if !m.exists {
		return nil, model.ErrReportNotFound
	}
	return &model.Report{ID: id, Category: "test"}, nil
}
func (m *mockReportRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return m.exists, m.existsErr
}

type mockPhotoRepo struct {
	photos      map[int64]*model.Photo
	createErr   error
	deleteCalls []int64
}

func (m *mockPhotoRepo) Create(ctx context.Context, photo *model.Photo) error {
	if m.createErr != nil {
		return m.createErr
	}
	photo.ID = 7
	photo.CreatedAt = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	return nil
}

func (m *mockPhotoRepo) GetByID(ctx context.Context, id int64) (*model.Photo, error) {
	if p, ok := m.photos[id]; ok {
		return p, nil
	}
	return nil, model.ErrPhotoNotFound
}

func (m *mockPhotoRepo) GetByReportID(ctx context.Context, reportID int64) ([]model.Photo, error) {
	return []model.Photo{}, nil
}

func (m *mockPhotoRepo) Delete(ctx context.Context, id int64) error {
	m.deleteCalls = append(m.deleteCalls, id)
	if _, ok := m.photos[id]; !ok {
		return model.ErrPhotoNotFound
	}
	delete(m.photos, id)
	return nil
}

type mockStore struct {
	uploadErr   error
	deleteErr   error
	uploadCalls int
	deleteCalls int
}

func (m *mockStore) Upload(ctx context.Context, data []byte, folder string, opts imagestore.UploadOptions) (*imagestore.UploadResult, error) {
	m.uploadCalls++
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	url := "https://cdn.example.com/upload/" + folder + "/generated"
	return &imagestore.UploadResult{PublicID: folder + "/generated", SecureURL: url, URL: url}, nil
}

func (m *mockStore) Delete(ctx context.Context, publicID string) error {
	m.deleteCalls++
	return m.deleteErr
}

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestRouter(reports *mockReportRepo, photos *mockPhotoRepo, store *mockStore) chi.Router {
	svc := service.NewPhotoService(reports, photos, store)
	h := NewPhotoHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Post("/reports/{reportID}/photos", h.Upload)
	r.Delete("/photos/{id}", h.Delete)
	return r
}

func multipartBody(t *testing.T, fieldName, fileName, contentType string, data []byte, caption string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if fieldName != "" {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+fileName+`"`)
		hdr.Set("Content-Type", contentType)
		part, err := w.CreatePart(hdr)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if caption != "" {
		if err := w.WriteField("caption", caption); err != nil {
			t.Fatalf("write caption: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

type errorBody struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	} `json:"error"`
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

// =============================================================================
// UPLOAD TESTS
// =============================================================================

func TestPhotoHandler_Upload_Success(t *testing.T) {
	store := &mockStore{}
	router := newTestRouter(&mockReportRepo{exists: true}, &mockPhotoRepo{}, store)

	body, contentType := multipartBody(t, "file", "wall.png", model.ContentTypePNG, testPNG(t), "north wall")
	req := httptest.NewRequest(http.MethodPost, "/reports/42/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID        int64  `json:"id"`
		URL       string `json:"url"`
		Caption   string `json:"caption"`
		CreatedAt string `json:"createdAt"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != 7 {
		t.Errorf("id = %d, want 7", resp.ID)
	}
	if !strings.HasPrefix(resp.URL, "https://") {
		t.Errorf("url = %q, want https url", resp.URL)
	}
	if resp.Caption != "north wall" {
		t.Errorf("caption = %q, want %q", resp.Caption, "north wall")
	}
	if _, err := time.Parse(time.RFC3339, resp.CreatedAt); err != nil {
		t.Errorf("createdAt %q is not RFC3339: %v", resp.CreatedAt, err)
	}
	if store.uploadCalls != 1 {
		t.Errorf("upload calls = %d, want 1", store.uploadCalls)
	}
}

func TestPhotoHandler_Upload_NoCaption(t *testing.T) {
	router := newTestRouter(&mockReportRepo{exists: true}, &mockPhotoRepo{}, &mockStore{})

	body, contentType := multipartBody(t, "file", "a.png", model.ContentTypePNG, testPNG(t), "")
	req := httptest.NewRequest(http.MethodPost, "/reports/42/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, present := resp["caption"]; present {
		t.Error("caption should be omitted when not provided")
	}
}

func TestPhotoHandler_Upload_MissingFile(t *testing.T) {
	store := &mockStore{}
	router := newTestRouter(&mockReportRepo{exists: true}, &mockPhotoRepo{}, store)

	body, contentType := multipartBody(t, "", "", "", nil, "just a caption")
	req := httptest.NewRequest(http.MethodPost, "/reports/42/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	errBody := decodeErrorBody(t, rec)
	if errBody.Error.Code != model.CodeValidationError {
		t.Errorf("code = %q, want %q", errBody.Error.Code, model.CodeValidationError)
	}
	if errBody.Error.RequestID == "" {
		t.Error("error body should carry the request id")
	}
	if store.uploadCalls != 0 {
		t.Error("no remote call should be made without a file")
	}
}

func TestPhotoHandler_Upload_UnsupportedType(t *testing.T) {
	store := &mockStore{}
	router := newTestRouter(&mockReportRepo{exists: true}, &mockPhotoRepo{}, store)

	body, contentType := multipartBody(t, "file", "doc.pdf", "application/pdf", []byte("%PDF-1.4"), "")
	req := httptest.NewRequest(http.MethodPost, "/reports/42/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	errBody := decodeErrorBody(t, rec)
	if errBody.Error.Code != model.CodeValidationError {
		t.Errorf("code = %q, want %q", errBody.Error.Code, model.CodeValidationError)
	}
	if store.uploadCalls != 0 {
		t.Error("no remote call should be made for an unsupported type")
	}
}

func TestPhotoHandler_Upload_ReportNotFound(t *testing.T) {
	store := &mockStore{}
	router := newTestRouter(&mockReportRepo{exists: false}, &mockPhotoRepo{}, store)

	body, contentType := multipartBody(t, "file", "a.png", model.ContentTypePNG, testPNG(t), "")
	req := httptest.NewRequest(http.MethodPost, "/reports/999/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	errBody := decodeErrorBody(t, rec)
	if errBody.Error.Code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", errBody.Error.Code)
	}
	if store.uploadCalls != 0 {
		t.Error("no remote call should be made for a missing report")
	}
}

func TestPhotoHandler_Upload_InvalidReportID(t *testing.T) {
	router := newTestRouter(&mockReportRepo{exists: true}, &mockPhotoRepo{}, &mockStore{})

	body, contentType := multipartBody(t, "file", "a.png", model.ContentTypePNG, testPNG(t), "")
	req := httptest.NewRequest(http.MethodPost, "/reports/abc/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPhotoHandler_Upload_StoreFailure(t *testing.T) {
	store := &mockStore{uploadErr: errors.New("remote api unavailable")}
	router := newTestRouter(&mockReportRepo{exists: true}, &mockPhotoRepo{}, store)

	body, contentType := multipartBody(t, "file", "a.png", model.ContentTypePNG, testPNG(t), "")
	req := httptest.NewRequest(http.MethodPost, "/reports/42/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	errBody := decodeErrorBody(t, rec)
	if errBody.Error.Code != model.CodeUploadFailed {
		t.Errorf("code = %q, want %q", errBody.Error.Code, model.CodeUploadFailed)
	}
	// The failure detail stays server-side.
	if strings.Contains(errBody.Error.Message, "unavailable") {
		t.Error("internal error detail should not leak to the caller")
	}
}

// =============================================================================
// DELETE TESTS
// =============================================================================

func TestPhotoHandler_Delete_Success(t *testing.T) {
	photos := &mockPhotoRepo{photos: map[int64]*model.Photo{
		5: {ID: 5, ReportID: 1, URL: "https://cdn.example.com/upload/reports/1/abc"},
	}}
	store := &mockStore{}
	router := newTestRouter(&mockReportRepo{exists: true}, photos, store)

	req := httptest.NewRequest(http.MethodDelete, "/photos/5", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if body, _ := io.ReadAll(rec.Body); len(body) != 0 {
		t.Errorf("body should be empty, got %q", body)
	}
	if store.deleteCalls != 1 {
		t.Errorf("remote delete calls = %d, want 1", store.deleteCalls)
	}
}

func TestPhotoHandler_Delete_NotFound(t *testing.T) {
	router := newTestRouter(&mockReportRepo{exists: true}, &mockPhotoRepo{}, &mockStore{})

	req := httptest.NewRequest(http.MethodDelete, "/photos/999", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	errBody := decodeErrorBody(t, rec)
	if errBody.Error.Code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", errBody.Error.Code)
	}
}

func TestPhotoHandler_Delete_UnrecognizedURLStillDeletesRow(t *testing.T) {
	photos := &mockPhotoRepo{photos: map[int64]*model.Photo{
		5: {ID: 5, ReportID: 1, URL: "https://elsewhere.example.com/assets/photo.jpg"},
	}}
	store := &mockStore{}
	router := newTestRouter(&mockReportRepo{exists: true}, photos, store)

	req := httptest.NewRequest(http.MethodDelete, "/photos/5", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if store.deleteCalls != 0 {
		t.Errorf("remote delete calls = %d, want 0", store.deleteCalls)
	}
	if len(photos.deleteCalls) != 1 {
		t.Errorf("row delete calls = %d, want 1", len(photos.deleteCalls))
	}
}

func TestPhotoHandler_Delete_RemoteFailureSwallowed(t *testing.T) {
	photos := &mockPhotoRepo{photos: map[int64]*model.Photo{
		5: {ID: 5, ReportID: 1, URL: "https://cdn.example.com/upload/reports/1/abc"},
	}}
	store := &mockStore{deleteErr: errors.New("remote api unavailable")}
	router := newTestRouter(&mockReportRepo{exists: true}, photos, store)

	req := httptest.NewRequest(http.MethodDelete, "/photos/5", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if len(photos.deleteCalls) != 1 {
		t.Errorf("row delete calls = %d, want 1", len(photos.deleteCalls))
	}
}

func TestPhotoHandler_Delete_InvalidID(t *testing.T) {
	router := newTestRouter(&mockReportRepo{exists: true}, &mockPhotoRepo{}, &mockStore{})

	req := httptest.NewRequest(http.MethodDelete, "/photos/abc", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
