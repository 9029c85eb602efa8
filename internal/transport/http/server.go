package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"photofolio/internal/domain/models"
	"photofolio/internal/lib/logger/sl"
	deploy "photofolio/internal/services/deploy_service"
	"photofolio/internal/transport/http/dto"
	"photofolio/internal/transport/http/dto/request"
	"photofolio/internal/transport/http/dto/response"
)

type GalleryService interface {
	Images(ctx context.Context, category models.Category) (models.Listing, error)
	Categories() []models.Category
	Invalidate(category models.Category)
}

type MediaService interface {
	Upload(ctx context.Context, input dto.UploadInput) (string, error)
	Delete(ctx context.Context, category models.Category, src string) error
}

type DeployService interface {
	TriggerDeploy(ctx context.Context) error
}

type Routers struct {
	log            *slog.Logger
	GalleryService GalleryService
	MediaService   MediaService
	DeployService  DeployService
}

func NewRouter(log *slog.Logger, galleryService GalleryService, mediaService MediaService, deployService DeployService) *Routers {
	return &Routers{
		log:            log,
		GalleryService: galleryService,
		MediaService:   mediaService,
		DeployService:  deployService,
	}
}

// GetImages отдаёт листинг раздела: GET /api/v1/images?category={c}
func (r *Routers) GetImages(c echo.Context) error {
	const op = "http.routers.GetImages"

	log := r.log.With(
		slog.String("op", op),
	)

	raw := c.QueryParam("category")
	if raw == "" {
		return c.JSON(http.StatusBadRequest, response.Error("Category parameter is required"))
	}

	category, err := models.ParseCategory(raw)
	if err != nil {
		log.Warn("invalid category requested", slog.String("category", raw))
		return c.JSON(http.StatusBadRequest, response.Error("Invalid category"))
	}

	images, err := r.GalleryService.Images(c.Request().Context(), category)
	if err != nil {
		log.Error("failed to read gallery", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.Error("Failed to load gallery"))
	}

	return c.JSON(http.StatusOK, response.ImagesResponse{
		Success: true,
		Images:  images,
	})
}

// GetCategories отдаёт фиксированный список разделов.
func (r *Routers) GetCategories(c echo.Context) error {
	categories := r.GalleryService.Categories()

	out := make([]string, 0, len(categories))
	for _, category := range categories {
		out = append(out, category.String())
	}

	return c.JSON(http.StatusOK, out)
}

// Upload принимает multipart-форму с полями file и category.
func (r *Routers) Upload(c echo.Context) error {
	const op = "http.routers.Upload"

	log := r.log.With(
		slog.String("op", op),
	)

	file, err := c.FormFile("file")
	if err != nil {
		log.Warn("empty file in request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.Error("No file provided"))
	}

	raw := c.FormValue("category")
	if raw == "" {
		return c.JSON(http.StatusBadRequest, response.Error("No category provided"))
	}

	category, err := models.ParseCategory(raw)
	if err != nil {
		log.Warn("invalid category", slog.String("category", raw))
		return c.JSON(http.StatusBadRequest, response.Error("Invalid category"))
	}

	src, err := r.MediaService.Upload(c.Request().Context(), dto.UploadInput{
		File:     file,
		Category: category,
	})
	if err != nil {
		if models.IsImageValidationError(err) {
			return c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		}

		if errors.Is(err, models.ErrStoredNotListed) {
			// Бинарник сохранён, листинг не обновился: честно сообщаем
			// частичный исход, а не полный успех или полный провал
			r.GalleryService.Invalidate(category)
			log.Error("upload partially failed", sl.Err(err))
			return c.JSON(http.StatusBadGateway, response.UploadResponse{
				Success:  false,
				Message:  "File stored but gallery listing was not updated",
				FilePath: src,
			})
		}

		log.Error("upload failed", sl.Err(err), slog.String("filename", file.Filename))
		return c.JSON(http.StatusInternalServerError, response.Error("Error uploading file"))
	}

	r.GalleryService.Invalidate(category)

	log.Info("upload successful",
		slog.String("file_path", src),
		slog.Int64("file_size", file.Size))

	return c.JSON(http.StatusOK, response.UploadResponse{
		Success:  true,
		Message:  "File uploaded successfully",
		FilePath: src,
	})
}

// DeleteImage удаляет изображение: DELETE /api/v1/images, JSON {src, category}.
func (r *Routers) DeleteImage(c echo.Context) error {
	const op = "http.routers.DeleteImage"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.DeleteImageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Error("Invalid request format"))
	}

	if req.Src == "" {
		return c.JSON(http.StatusBadRequest, response.Error("Image source is required"))
	}
	if req.Category == "" {
		return c.JSON(http.StatusBadRequest, response.Error("Category is required"))
	}

	category, err := models.ParseCategory(req.Category)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.Error("Invalid category"))
	}

	err = r.MediaService.Delete(c.Request().Context(), category, req.Src)
	if err != nil {
		switch {
		case models.IsImageValidationError(err):
			return c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		case errors.Is(err, models.ErrImageNotFound):
			// Цели уже нет — намерение пользователя выполнено
			return c.JSON(http.StatusOK, response.OK("Image already removed"))
		case errors.Is(err, models.ErrDeletedNotUnlisted):
			r.GalleryService.Invalidate(category)
			log.Error("delete partially failed", sl.Err(err))
			return c.JSON(http.StatusBadGateway, response.Error("Image deleted but gallery listing was not updated"))
		default:
			log.Error("delete failed", sl.Err(err), slog.String("src", req.Src))
			return c.JSON(http.StatusInternalServerError, response.Error("Error removing image"))
		}
	}

	r.GalleryService.Invalidate(category)

	log.Info("image removed", slog.String("src", req.Src))

	return c.JSON(http.StatusOK, response.OK("Image removed from gallery"))
}

// TriggerDeploy дёргает deploy hook пересборки сайта.
func (r *Routers) TriggerDeploy(c echo.Context) error {
	const op = "http.routers.TriggerDeploy"

	log := r.log.With(
		slog.String("op", op),
	)

	if err := r.DeployService.TriggerDeploy(c.Request().Context()); err != nil {
		if errors.Is(err, deploy.ErrHookNotConfigured) {
			return c.JSON(http.StatusInternalServerError, response.Error("Deploy hook is not configured in environment variables"))
		}

		log.Error("deploy trigger failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.Error("Failed to trigger deployment"))
	}

	return c.JSON(http.StatusOK, response.OK("Deployment triggered successfully. Your changes will be live in a few minutes."))
}

func (r *Routers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
