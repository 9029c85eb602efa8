package response

import (
	"photofolio/internal/domain/models"
)

// Формат ответов совпадает с тем, что ожидает фронтенд галереи:
// плоский объект с success и человекочитаемым message.

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ImagesResponse struct {
	Success bool           `json:"success"`
	Images  models.Listing `json:"images"`
	Message string         `json:"message,omitempty"`
}

type UploadResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	FilePath string `json:"filePath,omitempty"`
}

func Error(message string) MessageResponse {
	return MessageResponse{Success: false, Message: message}
}

func OK(message string) MessageResponse {
	return MessageResponse{Success: true, Message: message}
}
