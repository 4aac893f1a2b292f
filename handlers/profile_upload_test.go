package handlers

import (
	"bytes"
	"context"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/stedward-parish/directorybackend/config"
	"github.com/stedward-parish/directorybackend/media"
	"github.com/stedward-parish/directorybackend/models"
	"github.com/stedward-parish/directorybackend/repository"
)

// stubProfileRepo backs the upload handler with a single in-memory profile.
type stubProfileRepo struct {
	profile      *models.Profile
	updatedPath  *string
	updateCalled bool
}

func (s *stubProfileRepo) Create(profile *models.Profile) error { return nil }

func (s *stubProfileRepo) GetByID(id uint) (*models.Profile, error) {
	if s.profile != nil && s.profile.ID == id {
		return s.profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfileRepo) GetByUserID(userID uint) (*models.Profile, error) {
	if s.profile != nil && s.profile.UserID == userID {
		return s.profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfileRepo) List(filter repository.ProfileFilter) ([]models.Profile, error) {
	return nil, nil
}

func (s *stubProfileRepo) Update(profile *models.Profile) error { return nil }

func (s *stubProfileRepo) UpdatePhotoPath(profileID uint, photoPath *string) error {
	s.updateCalled = true
	s.updatedPath = photoPath
	s.profile.PhotoPath = photoPath
	return nil
}

func (s *stubProfileRepo) Delete(id uint) error { return nil }

func newUploadHandler(t *testing.T) (*ProfileHandler, *stubProfileRepo, string) {
	t.Helper()
	mediaRoot := t.TempDir()
	store, err := media.NewLocalStorage(mediaRoot)
	if err != nil {
		t.Fatalf("failed to init media store: %v", err)
	}

	repo := &stubProfileRepo{profile: &models.Profile{ID: 3, UserID: 7, ParishID: 1}}
	cfg := config.Config{ProfilePhotosPath: filepath.Join(mediaRoot, "profiles")}
	return NewProfileHandler(cfg, repo, nil, store), repo, mediaRoot
}

func multipartBody(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="photo"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create multipart part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write multipart data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func doUpload(h *ProfileHandler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/profile/photo", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(context.WithValue(req.Context(), UserContextKey, &models.User{ID: 7, Username: "member"}))

	rec := httptest.NewRecorder()
	h.UploadPhoto(rec, req)
	return rec
}

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 120, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestUploadPhotoRejectsOversizedFile(t *testing.T) {
	h, repo, _ := newUploadHandler(t)

	// just over the 25MiB cap; rejected before any decoding happens
	body, contentType := multipartBody(t, "huge.jpg", "image/jpeg", make([]byte, 26*1024*1024))
	rec := doUpload(h, body, contentType)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "under 25MB") {
		t.Errorf("response %q does not name the 25MB limit", rec.Body.String())
	}
	if repo.updateCalled {
		t.Error("oversized upload reached the repository")
	}
}

func TestUploadPhotoRejectsUnsupportedType(t *testing.T) {
	h, repo, _ := newUploadHandler(t)

	body, contentType := multipartBody(t, "notes.txt", "text/plain", []byte("hello"))
	rec := doUpload(h, body, contentType)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "unsupported_photo_type") {
		t.Errorf("response %q, want unsupported_photo_type error", rec.Body.String())
	}
	if repo.updateCalled {
		t.Error("unsupported upload reached the repository")
	}
}

func TestUploadPhotoRejectsUndecodableImage(t *testing.T) {
	h, repo, _ := newUploadHandler(t)

	// declared type is fine but the bytes are not an image
	body, contentType := multipartBody(t, "fake.jpg", "image/jpeg", []byte("not an image at all"))
	rec := doUpload(h, body, contentType)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "image_processing_failed") {
		t.Errorf("response %q, want image_processing_failed error", rec.Body.String())
	}
	if repo.updateCalled {
		t.Error("undecodable upload reached the repository")
	}
}

func TestUploadPhotoStoresNormalizedFile(t *testing.T) {
	h, repo, mediaRoot := newUploadHandler(t)

	body, contentType := multipartBody(t, "beach.png", "image/png", encodeTestPNG(t, 800, 600))
	rec := doUpload(h, body, contentType)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if repo.updatedPath == nil {
		t.Fatal("photo path was not persisted")
	}
	if *repo.updatedPath != "profiles/u7/beach.png" {
		t.Errorf("stored path = %q, want profiles/u7/beach.png", *repo.updatedPath)
	}

	stored, err := os.ReadFile(filepath.Join(mediaRoot, filepath.FromSlash(*repo.updatedPath)))
	if err != nil {
		t.Fatalf("stored photo missing: %v", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(stored))
	if err != nil {
		t.Fatalf("stored photo does not decode: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("stored format = %q, want jpeg", format)
	}
	if cfg.Width != media.PhotoLandscapeWidth || cfg.Height != media.PhotoLandscapeHeight {
		t.Errorf("stored dimensions = %dx%d, want %dx%d", cfg.Width, cfg.Height, media.PhotoLandscapeWidth, media.PhotoLandscapeHeight)
	}
}

func TestUploadPhotoReplacesPreviousFile(t *testing.T) {
	h, repo, mediaRoot := newUploadHandler(t)

	first, firstType := multipartBody(t, "old.png", "image/png", encodeTestPNG(t, 640, 480))
	if rec := doUpload(h, first, firstType); rec.Code != http.StatusOK {
		t.Fatalf("first upload status = %d; body: %s", rec.Code, rec.Body.String())
	}
	oldPath := filepath.Join(mediaRoot, filepath.FromSlash(*repo.updatedPath))

	second, secondType := multipartBody(t, "new.png", "image/png", encodeTestPNG(t, 640, 480))
	if rec := doUpload(h, second, secondType); rec.Code != http.StatusOK {
		t.Fatalf("second upload status = %d; body: %s", rec.Code, rec.Body.String())
	}

	if *repo.updatedPath != "profiles/u7/new.png" {
		t.Errorf("stored path = %q, want profiles/u7/new.png", *repo.updatedPath)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Errorf("previous photo %s still exists after replacement", oldPath)
	}
}
