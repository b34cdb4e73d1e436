package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/talentlink/identity-api/internal/core/domain"
	"github.com/talentlink/identity-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error)
	loginFn    func(ctx context.Context, email, password string) (string, error)
	profileFn  func(ctx context.Context, email string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Profile(ctx context.Context, email string) (*domain.User, error) {
	return s.profileFn(ctx, email)
}

type stubAvatarService struct {
	uploadFn func(ctx context.Context, userID string, upload ports.AvatarUpload) (string, error)
}

func (s *stubAvatarService) Upload(ctx context.Context, userID string, upload ports.AvatarUpload) (string, error) {
	return s.uploadFn(ctx, userID, upload)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

const validRegisterBody = `{"email":"ada@example.com","password":"s3cret-pass","firstName":"Ada","lastName":"Lovelace","country":"UK","bio":"First programmer","bioTitle":"Engineer"}`

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
			if in.Email != "ada@example.com" || in.Role != "" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "u1", Email: in.Email}, domain.RoleClient, nil
		},
	}
	h := NewAuthHandler(stub, &stubAvatarService{})

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/register", validRegisterBody)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["userId"] != "u1" {
		t.Fatalf("expected userId u1, got %q", resp["userId"])
	}
	if !strings.Contains(resp["message"], domain.RoleClient) {
		t.Fatalf("message should name the assigned role: %q", resp["message"])
	}
}

func TestAuthHandler_Register_MissingField(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
			t.Fatalf("service must not be called on invalid input")
			return nil, "", nil
		},
	}
	h := NewAuthHandler(stub, &stubAvatarService{})

	// bio missing
	body := `{"email":"ada@example.com","password":"s3cret-pass","firstName":"Ada","lastName":"Lovelace","country":"UK","bioTitle":"Engineer"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/auth/register", body)
	_ = h.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "bio is required") {
		t.Fatalf("expected field error, got %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
			return nil, "", domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub, &stubAvatarService{})

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/register", validRegisterBody)
	_ = h.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_UnknownRole(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
			return &domain.User{ID: "u1"}, "", &domain.RoleNotFoundError{Role: in.Role}
		},
	}
	h := NewAuthHandler(stub, &stubAvatarService{})

	body := strings.Replace(validRegisterBody, `"bioTitle":"Engineer"`, `"bioTitle":"Engineer","role":"Nonexistent"`, 1)
	c, rec := newTestContext(t, http.MethodPost, "/api/auth/register", body)
	_ = h.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Nonexistent") {
		t.Fatalf("response should name the missing role: %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			if email != "ada@example.com" || password != "s3cret-pass" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", nil
		},
	}
	h := NewAuthHandler(stub, &stubAvatarService{})

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"s3cret-pass"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %q", resp["token"])
	}
}

func TestAuthHandler_Login_GenericFailure(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			return "", domain.ErrInvalidLogin
		},
	}
	h := NewAuthHandler(stub, &stubAvatarService{})

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"wrong"}`)
	_ = h.Login(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "Invalid login attempt" {
		t.Fatalf("expected the fixed generic message, got %q", resp["error"])
	}
}

func TestAuthHandler_Me(t *testing.T) {
	stub := &stubAuthService{
		profileFn: func(ctx context.Context, email string) (*domain.User, error) {
			if email != "ada@example.com" {
				t.Fatalf("unexpected email: %s", email)
			}
			return &domain.User{ID: "u1", Email: email, FirstName: "Ada"}, nil
		},
	}
	h := NewAuthHandler(stub, &stubAvatarService{})

	c, rec := newTestContext(t, http.MethodGet, "/api/auth/me", "")
	c.Set("username", "ada@example.com")

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"first_name":"Ada"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func newUploadContext(t *testing.T, fileField, fileName, userID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte("image-bytes")); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if userID != "" {
		if err := w.WriteField("userId", userID); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/photo", body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_UploadAvatar_Success(t *testing.T) {
	stub := &stubAvatarService{
		uploadFn: func(ctx context.Context, userID string, upload ports.AvatarUpload) (string, error) {
			if userID != "u1" {
				t.Fatalf("unexpected userID: %s", userID)
			}
			if upload.Filename != "portrait.png" || upload.Size == 0 || upload.Content == nil {
				t.Fatalf("unexpected upload: %+v", upload)
			}
			return "/uploads/abc.png", nil
		},
	}
	h := NewAuthHandler(&stubAuthService{}, stub)

	c, rec := newUploadContext(t, "avatarFile", "portrait.png", "u1")
	if err := h.UploadAvatar(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["filePath"] != "/uploads/abc.png" {
		t.Fatalf("expected filePath, got %q", resp["filePath"])
	}
}

func TestAuthHandler_UploadAvatar_NoFile(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubAvatarService{
		uploadFn: func(ctx context.Context, userID string, upload ports.AvatarUpload) (string, error) {
			t.Fatalf("service must not be called without a file")
			return "", nil
		},
	})

	c, rec := newUploadContext(t, "", "", "u1")
	_ = h.UploadAvatar(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_UploadAvatar_MissingUserID(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubAvatarService{})

	c, rec := newUploadContext(t, "avatarFile", "portrait.png", "")
	_ = h.UploadAvatar(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_UploadAvatar_BadType(t *testing.T) {
	stub := &stubAvatarService{
		uploadFn: func(ctx context.Context, userID string, upload ports.AvatarUpload) (string, error) {
			return "", domain.ErrUnsupportedFileType
		},
	}
	h := NewAuthHandler(&stubAuthService{}, stub)

	c, rec := newUploadContext(t, "avatarFile", "a.gif", "u1")
	_ = h.UploadAvatar(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_UploadAvatar_UserNotFound(t *testing.T) {
	stub := &stubAvatarService{
		uploadFn: func(ctx context.Context, userID string, upload ports.AvatarUpload) (string, error) {
			return "", domain.ErrUserNotFound
		},
	}
	h := NewAuthHandler(&stubAuthService{}, stub)

	c, rec := newUploadContext(t, "avatarFile", "portrait.png", "ghost")
	_ = h.UploadAvatar(c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
