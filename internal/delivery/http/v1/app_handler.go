package v1

import (
	"net/http"

	"github.com/Moses2004/JobX/internal/delivery/http/response"
	"github.com/Moses2004/JobX/internal/domain"
	"github.com/Moses2004/JobX/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AppHandler struct {
	sessionUC domain.SessionUsecase
	routerUC  domain.RouterUsecase
}

func NewAppHandler(public *gin.RouterGroup, protected *gin.RouterGroup, sessionUC domain.SessionUsecase, routerUC domain.RouterUsecase) {
	handler := &AppHandler{
		sessionUC: sessionUC,
		routerUC:  routerUC,
	}

	// Public Routes
	publicApp := public.Group("/app")
	{
		publicApp.GET("/view", handler.View)
		publicApp.POST("/navigate", handler.Navigate)
	}

	// Protected Routes
	protectedApp := protected.Group("/app")
	{
		protectedApp.POST("/employer/onboarding", handler.CompleteEmployerOnboarding)
		protectedApp.GET("/applications", handler.ListApplications)
		protectedApp.POST("/applications", handler.Apply)
		protectedApp.DELETE("/applications/:jobID", handler.Withdraw)
		protectedApp.POST("/messages/open", handler.OpenMessages)
		protectedApp.POST("/messages/close", handler.CloseMessages)
	}
}

type NavigateRequest struct {
	View string `json:"view" binding:"required"`
}

type OnboardingRequest struct {
	Name        string `json:"name" binding:"required"`
	Industry    string `json:"industry"`
	Location    string `json:"location"`
	Website     string `json:"website"`
	Size        string `json:"size"`
	Description string `json:"description"`
}

type ApplyRequest struct {
	JobID     string            `json:"job_id" binding:"required"`
	CoverNote string            `json:"cover_note"`
	Answers   map[string]string `json:"answers"`
}

func (h *AppHandler) viewState() gin.H {
	return gin.H{
		"current_view":  h.routerUC.CurrentView(),
		"resolved_view": h.routerUC.ResolvedView(),
		"messages_open": h.routerUC.MessagesOpen(),
		"authenticated": h.routerUC.IsAuthenticated(),
		"role":          h.routerUC.Role(),
	}
}

// View godoc
// @Summary      Current View
// @Description  Return the shell's stored view, the view actually shown after
// @Description  the auth gate, and the drawer state.
// @Tags         app
// @Produce      json
// @Success      200    {object}  response.Response
// @Router       /app/view [get]
func (h *AppHandler) View(c *gin.Context) {
	response.Success(c, http.StatusOK, "View state", h.viewState())
}

// Navigate godoc
// @Summary      Navigate
// @Description  Move the shell to another view. Navigating to post-opportunity
// @Description  without completed company data lands on employer onboarding
// @Description  instead.
// @Tags         app
// @Accept       json
// @Produce      json
// @Param        navigate  body      NavigateRequest  true  "Target view"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /app/navigate [post]
func (h *AppHandler) Navigate(c *gin.Context) {
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	target := domain.View(req.View)
	if !target.IsValid() {
		c.Error(apperror.BadRequest("Unknown view: " + req.View))
		return
	}

	h.routerUC.Navigate(target)
	response.Success(c, http.StatusOK, "Navigation applied", h.viewState())
}

// CompleteEmployerOnboarding godoc
// @Summary      Complete Employer Onboarding
// @Description  Record company data, unlock employer capability, persist it on
// @Description  the profile, and land on the employer dashboard.
// @Tags         app
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        company  body      OnboardingRequest  true  "Company Details"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Router       /app/employer/onboarding [post]
func (h *AppHandler) CompleteEmployerOnboarding(c *gin.Context) {
	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	company := domain.CompanyData{
		Name:        req.Name,
		Industry:    req.Industry,
		Location:    req.Location,
		Website:     req.Website,
		Size:        req.Size,
		Description: req.Description,
	}
	h.routerUC.CompleteEmployerOnboarding(company)

	// The shell state is authoritative for this request; the profile write
	// is best-effort and reported but not fatal to onboarding.
	merged := h.routerUC.UserData()
	var persisted *domain.Profile
	if merged != nil && merged.CompanyData != nil {
		var err error
		persisted, err = h.sessionUC.UpdateProfile(c.Request.Context(), domain.ProfileUpdate{CompanyData: merged.CompanyData})
		if err != nil {
			c.Error(err)
			return
		}
	}

	state := h.viewState()
	state["profile"] = persisted
	response.Success(c, http.StatusOK, "Employer onboarding complete", state)
}

// ListApplications godoc
// @Summary      List Applications
// @Description  Return the session's job applications in submission order.
// @Tags         app
// @Produce      json
// @Security     BearerAuth
// @Success      200    {object}  response.Response
// @Router       /app/applications [get]
func (h *AppHandler) ListApplications(c *gin.Context) {
	response.Success(c, http.StatusOK, "Applications retrieved", h.routerUC.Applications())
}

// Apply godoc
// @Summary      Apply For Job
// @Description  Record a job application for this session.
// @Tags         app
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        application  body      ApplyRequest  true  "Application"
// @Success      201    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /app/applications [post]
func (h *AppHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	app := h.routerUC.ApplyForJob(domain.Application{
		JobID:     req.JobID,
		CoverNote: req.CoverNote,
		Answers:   req.Answers,
	})

	response.Success(c, http.StatusCreated, "Application submitted", app)
}

// Withdraw godoc
// @Summary      Withdraw Application
// @Description  Remove every application for the given job from this session.
// @Tags         app
// @Produce      json
// @Security     BearerAuth
// @Param        jobID  path      string  true  "Job ID"
// @Success      200    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /app/applications/{jobID} [delete]
func (h *AppHandler) Withdraw(c *gin.Context) {
	jobID := c.Param("jobID")
	if !h.routerUC.WithdrawApplication(jobID) {
		c.Error(apperror.NotFound("No application found for job " + jobID))
		return
	}

	response.Success(c, http.StatusOK, "Application withdrawn", h.routerUC.Applications())
}

// OpenMessages godoc
// @Summary      Open Messages Drawer
// @Tags         app
// @Produce      json
// @Security     BearerAuth
// @Success      200    {object}  response.Response
// @Router       /app/messages/open [post]
func (h *AppHandler) OpenMessages(c *gin.Context) {
	h.routerUC.OpenMessages()
	response.Success(c, http.StatusOK, "Messages opened", h.viewState())
}

// CloseMessages godoc
// @Summary      Close Messages Drawer
// @Tags         app
// @Produce      json
// @Security     BearerAuth
// @Success      200    {object}  response.Response
// @Router       /app/messages/close [post]
func (h *AppHandler) CloseMessages(c *gin.Context) {
	h.routerUC.CloseMessages()
	response.Success(c, http.StatusOK, "Messages closed", h.viewState())
}
