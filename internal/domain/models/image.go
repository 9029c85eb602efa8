package models

import (
	"errors"
	"fmt"
	"strings"
)

// Category задаёт раздел галереи. Набор разделов фиксированный,
// сравнение строгое с учётом регистра.
type Category string

const (
	CategoryNature       Category = "nature"
	CategoryWildlife     Category = "wildlife"
	CategoryArchitecture Category = "architecture"
	CategoryTravel       Category = "travel"
)

const (
	// DefaultWidth и DefaultHeight подставляются, когда реальные
	// размеры изображения определить не удалось.
	DefaultWidth  = 1000
	DefaultHeight = 800
)

var (
	ErrInvalidCategory    = errors.New("invalid category")
	ErrImageNotFound      = errors.New("image not found")
	ErrStoredNotListed    = errors.New("image stored but listing not updated")
	ErrDeletedNotUnlisted = errors.New("image deleted but listing not updated")
)

var categories = []Category{
	CategoryNature,
	CategoryWildlife,
	CategoryArchitecture,
	CategoryTravel,
}

// Categories возвращает разделы галереи в каноническом порядке.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory валидирует строку раздела.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryNature, CategoryWildlife, CategoryArchitecture, CategoryTravel:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// GalleryImage представляет одну запись листинга галереи.
type GalleryImage struct {
	Src    string `json:"src"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Normalized возвращает копию записи с подставленными размерами по умолчанию.
func (img GalleryImage) Normalized() GalleryImage {
	if img.Width <= 0 {
		img.Width = DefaultWidth
	}
	if img.Height <= 0 {
		img.Height = DefaultHeight
	}
	return img
}

// Validate проверяет корректность записи листинга.
func (img GalleryImage) Validate() error {
	var validationErrors []string

	if img.Src == "" {
		validationErrors = append(validationErrors, "src is required")
	}
	if img.Width <= 0 {
		validationErrors = append(validationErrors, "width must be positive")
	}
	if img.Height <= 0 {
		validationErrors = append(validationErrors, "height must be positive")
	}

	if len(validationErrors) > 0 {
		return &ImageValidationError{Errors: validationErrors}
	}

	return nil
}

// Listing — упорядоченный список записей раздела, свежие в начале.
type Listing []GalleryImage

// IndexOf ищет запись по точному совпадению src.
func (l Listing) IndexOf(src string) int {
	for i, img := range l {
		if img.Src == src {
			return i
		}
	}
	return -1
}

// Prepend добавляет запись в голову листинга, вытесняя существующую
// запись с тем же src. Порядок "свежие первыми" сохраняется.
func (l Listing) Prepend(img GalleryImage) Listing {
	out := make(Listing, 0, len(l)+1)
	out = append(out, img)
	for _, existing := range l {
		if existing.Src != img.Src {
			out = append(out, existing)
		}
	}
	return out
}

// Without возвращает листинг без записи с данным src.
func (l Listing) Without(src string) Listing {
	out := make(Listing, 0, len(l))
	for _, img := range l {
		if img.Src != src {
			out = append(out, img)
		}
	}
	return out
}

// ImageValidationError кастомный тип ошибки для валидации записи.
type ImageValidationError struct {
	Errors []string
}

func (e *ImageValidationError) Error() string {
	return fmt.Sprintf("image validation failed: %s", strings.Join(e.Errors, "; "))
}

// IsImageValidationError проверяет, является ли ошибка ошибкой валидации.
func IsImageValidationError(err error) bool {
	var ve *ImageValidationError
	return errors.As(err, &ve)
}
