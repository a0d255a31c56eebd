package v1

import (
	"net/http"

	"github.com/Moses2004/JobX/internal/delivery/http/response"
	"github.com/Moses2004/JobX/internal/domain"
	"github.com/Moses2004/JobX/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	sessionUC domain.SessionUsecase
	routerUC  domain.RouterUsecase
}

func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup, sessionUC domain.SessionUsecase, routerUC domain.RouterUsecase) {
	handler := &AuthHandler{
		sessionUC: sessionUC,
		routerUC:  routerUC,
	}

	// Public Routes
	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/register", handler.Register)
		publicAuth.POST("/login", handler.Login)
		publicAuth.POST("/forgot-password", handler.ForgotPassword)
		// Note: the reset link itself is handled by Supabase; it redirects the
		// browser back to AppOrigin/reset-password.
	}

	// Protected Routes
	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.GET("/me", handler.Me)
		protectedAuth.POST("/logout", handler.Logout)
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Role     string `json:"role" binding:"omitempty,oneof=job_seeker employer both"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Register godoc
// @Summary      User Registration
// @Description  Create credentials and seed the initial profile row.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      RegisterRequest  true  "Registration Details"
// @Success      201    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      409    {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	user, err := h.sessionUC.SignUp(c.Request.Context(), req.Email, req.Password, domain.SignUpFields{
		Name:     req.Name,
		Location: req.Location,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Registration successful. Please check your email to confirm your account.", gin.H{
		"user": user,
	})
}

// Login godoc
// @Summary      User Login
// @Description  Exchange email and password for a session. Completing the
// @Description  flow also lands the shell on the feed view.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "Credentials"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	session, err := h.sessionUC.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	seed := domain.Profile{}
	if session.User != nil {
		seed.ID = session.User.ID
		seed.Email = session.User.Email
		seed.Name = session.User.Name()
	}
	h.routerUC.CompleteAuth(seed)

	response.Success(c, http.StatusOK, "Login successful", gin.H{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"expires_at":    session.ExpiresAt,
		"user":          session.User,
		"view":          h.routerUC.ResolvedView(),
	})
}

// ForgotPassword godoc
// @Summary      Request Password Reset
// @Description  Send a password reset email. Always reports success so the
// @Description  endpoint cannot be used to probe which emails exist.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        forgot  body      ForgotPasswordRequest  true  "Account Email"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.sessionUC.ResetPassword(c.Request.Context(), req.Email); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "If the email exists, a reset link has been sent", nil)
}

// Me godoc
// @Summary      Current Session
// @Description  Return the authenticated user, their profile, and the
// @Description  controller's loading flag.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	snap := h.sessionUC.Snapshot()
	if !snap.IsAuthenticated {
		c.Error(apperror.Unauthorized("No active session"))
		return
	}

	response.Success(c, http.StatusOK, "Session retrieved", gin.H{
		"user":       snap.User,
		"profile":    snap.Profile,
		"loading":    snap.Loading,
		"expires_at": sessionExpiry(snap),
	})
}

// Logout godoc
// @Summary      Logout
// @Description  Revoke the session and reset the shell to the landing view.
// @Description  Local state is cleared even when the remote revocation fails.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200    {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	err := h.sessionUC.SignOut(c.Request.Context())
	h.routerUC.Logout()
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Logged out", gin.H{
		"view": h.routerUC.ResolvedView(),
	})
}

func sessionExpiry(snap domain.SessionSnapshot) int64 {
	if snap.Session == nil {
		return 0
	}
	return snap.Session.ExpiresAt
}
