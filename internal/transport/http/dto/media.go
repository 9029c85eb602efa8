package dto

import (
	"mime/multipart"

	"photofolio/internal/domain/models"
)

// UploadInput описывает принятую multipart-форму загрузки изображения.
type UploadInput struct {
	File     *multipart.FileHeader `json:"-" form:"file" validate:"required"`
	Category models.Category       `json:"category" form:"category" validate:"required"`
}
