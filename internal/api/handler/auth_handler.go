package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talentlink/identity-api/internal/api/metrics"
	"github.com/talentlink/identity-api/internal/core/domain"
	"github.com/talentlink/identity-api/internal/core/ports"
)

// AuthHandler handles registration, login, profile and avatar uploads.
type AuthHandler struct {
	auth    ports.AuthService
	avatars ports.AvatarService
}

func NewAuthHandler(auth ports.AuthService, avatars ports.AvatarService) *AuthHandler {
	return &AuthHandler{auth: auth, avatars: avatars}
}

type registerRequest struct {
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Country   string `json:"country"   validate:"required"`
	Bio       string `json:"bio"       validate:"required"`
	BioTitle  string `json:"bioTitle"  validate:"required"`
	Role      string `json:"role"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type uploadResponse struct {
	FilePath string `json:"filePath"`
}

// Register creates a new user account and assigns its role.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      200   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, role, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Country:   req.Country,
		Bio:       req.Bio,
		BioTitle:  req.BioTitle,
		Role:      req.Role,
	})
	if err != nil {
		var roleErr *domain.RoleNotFoundError
		switch {
		case errors.Is(err, domain.ErrUserExists):
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.As(err, &roleErr):
			// The user record already exists at this point; only the role
			// assignment failed.
			metrics.RegistrationsTotal.WithLabelValues("role_missing").Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"error": roleErr.Error()})
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusOK, registerResponse{
		Message: "user registered successfully with role " + role,
		UserID:  user.ID,
	})
}

// Login verifies credentials and returns a signed bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		// Malformed credentials get the same generic answer as wrong ones.
		metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid login attempt"})
	}

	token, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidLogin) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid login attempt"})
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: token})
}

// Me returns the authenticated user's profile.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	username, _ := c.Get("username").(string)
	if username == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	user, err := h.auth.Profile(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UploadAvatar stores an uploaded image and points the user record at it.
//
// @Summary      Upload an avatar
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Param        avatarFile  formData  file    true  "Avatar image (jpg, jpeg, png)"
// @Param        userId      formData  string  true  "Target user identifier"
// @Success      200  {object}  uploadResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/auth/photo [post]
func (h *AuthHandler) UploadAvatar(c echo.Context) error {
	userID := c.FormValue("userId")
	if userID == "" {
		userID = c.QueryParam("userId")
	}
	if userID == "" {
		metrics.AvatarUploadsTotal.WithLabelValues("rejected").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "userId is required"})
	}

	fh, err := c.FormFile("avatarFile")
	if err != nil {
		metrics.AvatarUploadsTotal.WithLabelValues("rejected").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": domain.ErrEmptyUpload.Error()})
	}

	src, err := fh.Open()
	if err != nil {
		metrics.AvatarUploadsTotal.WithLabelValues("error").Inc()
		return err
	}
	defer src.Close()

	path, err := h.avatars.Upload(c.Request().Context(), userID, ports.AvatarUpload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Content:  src,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyUpload),
			errors.Is(err, domain.ErrUnsupportedFileType),
			errors.Is(err, domain.ErrFileTooLarge):
			metrics.AvatarUploadsTotal.WithLabelValues("rejected").Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.AvatarUploadsTotal.WithLabelValues("user_not_found").Inc()
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		metrics.AvatarUploadsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.AvatarUploadsTotal.WithLabelValues("stored").Inc()
	metrics.AvatarUploadBytes.Observe(float64(fh.Size))
	return c.JSON(http.StatusOK, uploadResponse{FilePath: path})
}
