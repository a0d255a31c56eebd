package v1

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/Moses2004/JobX/config"
	"github.com/Moses2004/JobX/internal/delivery/http/response"
	"github.com/Moses2004/JobX/internal/domain"
	"github.com/Moses2004/JobX/pkg/apperror"
	"github.com/Moses2004/JobX/pkg/logger"
	"github.com/Moses2004/JobX/pkg/supabase"

	"github.com/gin-gonic/gin"
	"golang.org/x/image/draw"
)

const maxLogoUploadBytes = 5 << 20 // 5MB

type ProfileHandler struct {
	sessionUC domain.SessionUsecase
	routerUC  domain.RouterUsecase
	storage   *supabase.Client
	config    *config.Config
}

func NewProfileHandler(protected *gin.RouterGroup, sessionUC domain.SessionUsecase, routerUC domain.RouterUsecase, storage *supabase.Client, cfg *config.Config) {
	handler := &ProfileHandler{
		sessionUC: sessionUC,
		routerUC:  routerUC,
		storage:   storage,
		config:    cfg,
	}

	profile := protected.Group("/profile")
	{
		profile.GET("", handler.Get)
		profile.PATCH("", handler.Update)
		profile.POST("/company/logo", handler.UploadCompanyLogo)
	}
}

// Get godoc
// @Summary      Get Profile
// @Description  Return the active user's profile.
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Router       /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	snap := h.sessionUC.Snapshot()
	if !snap.IsAuthenticated {
		c.Error(domain.ErrNoActiveUser)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved", snap.Profile)
}

// Update godoc
// @Summary      Update Profile
// @Description  Merge the provided fields into the active user's profile.
// @Description  Absent fields are left untouched.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        update  body      domain.ProfileUpdate  true  "Fields to change"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Router       /profile [patch]
func (h *ProfileHandler) Update(c *gin.Context) {
	var upd domain.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	profile, err := h.sessionUC.UpdateProfile(c.Request.Context(), upd)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated", profile)
}

// UploadCompanyLogo godoc
// @Summary      Upload Company Logo
// @Description  Upload a logo image. Images are compressed automatically and
// @Description  served from public storage; the resulting URL is written to
// @Description  the profile's company data.
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Logo image (png or jpeg)"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Router       /profile/company/logo [post]
func (h *ProfileHandler) UploadCompanyLogo(c *gin.Context) {
	snap := h.sessionUC.Snapshot()
	if !snap.IsAuthenticated {
		c.Error(domain.ErrNoActiveUser)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.BadRequest("File is required"))
		return
	}
	if file.Size > maxLogoUploadBytes {
		c.Error(apperror.BadRequest("File exceeds the 5MB limit"))
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.Error(apperror.BadRequest("Only image uploads are accepted"))
		return
	}

	src, err := file.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer src.Close()

	fileBytes, err := io.ReadAll(src)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	finalBytes := fileBytes
	uploadType := contentType
	if compressed, compressErr := compressImage(fileBytes, h.config.LogoMaxDimension, 80); compressErr != nil {
		logger.Log.Warn("logo compression failed, uploading original", "error", compressErr)
	} else {
		finalBytes = compressed
		uploadType = "image/jpeg" // Compressed images are always JPEG
	}

	objectPath := path.Join("logos", snap.User.ID+".jpg")
	publicURL, err := h.storage.UploadObject(c.Request.Context(), h.config.LogoBucket, objectPath, uploadType, finalBytes)
	if err != nil {
		c.Error(err)
		return
	}

	// Persist the URL on the profile and keep the shell state in step.
	company := domain.CompanyData{}
	if snap.Profile != nil && snap.Profile.CompanyData != nil {
		company = *snap.Profile.CompanyData
	}
	company.LogoURL = publicURL

	profile, err := h.sessionUC.UpdateProfile(c.Request.Context(), domain.ProfileUpdate{CompanyData: &company})
	if err != nil {
		c.Error(err)
		return
	}
	h.routerUC.SaveCompanyProfile(domain.CompanyData{LogoURL: publicURL})

	response.Success(c, http.StatusOK, "Logo uploaded", gin.H{
		"logo_url": publicURL,
		"profile":  profile,
	})
}

// compressImage scales an image down to maxDimension on its longest side and
// re-encodes it as JPEG at the given quality.
func compressImage(data []byte, maxDimension, quality int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	newWidth, newHeight := width, height
	if width > height {
		if width > maxDimension {
			newWidth = maxDimension
			newHeight = int(float64(height) * float64(maxDimension) / float64(width))
		}
	} else {
		if height > maxDimension {
			newHeight = maxDimension
			newWidth = int(float64(width) * float64(maxDimension) / float64(height))
		}
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
