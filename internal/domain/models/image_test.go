package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photofolio/internal/domain/models"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"nature", "nature", false},
		{"wildlife", "wildlife", false},
		{"architecture", "architecture", false},
		{"travel", "travel", false},
		{"empty string", "", true},
		{"unknown", "portraits", true},
		{"case variant", "Nature", true},
		{"upper case", "TRAVEL", true},
		{"with spaces", " nature", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, err := models.ParseCategory(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, models.ErrInvalidCategory)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.input, category.String())
				assert.True(t, category.IsValid())
			}
		})
	}
}

func TestCategories(t *testing.T) {
	categories := models.Categories()

	assert.Equal(t, []models.Category{
		models.CategoryNature,
		models.CategoryWildlife,
		models.CategoryArchitecture,
		models.CategoryTravel,
	}, categories)

	// Возвращается копия, мутация не трогает оригинал
	categories[0] = "mutated"
	assert.Equal(t, models.CategoryNature, models.Categories()[0])
}

func TestGalleryImage_Normalized(t *testing.T) {
	img := models.GalleryImage{Src: "/static/portfolio/nature/a.jpg"}

	normalized := img.Normalized()

	assert.Equal(t, models.DefaultWidth, normalized.Width)
	assert.Equal(t, models.DefaultHeight, normalized.Height)

	known := models.GalleryImage{Src: "/a.jpg", Width: 2048, Height: 1365}
	assert.Equal(t, known, known.Normalized())
}

func TestGalleryImage_Validate(t *testing.T) {
	valid := models.GalleryImage{Src: "/a.jpg", Width: 100, Height: 100}
	require.NoError(t, valid.Validate())

	invalid := models.GalleryImage{Width: -1}
	err := invalid.Validate()
	require.Error(t, err)
	assert.True(t, models.IsImageValidationError(err))
}

func TestListing_Prepend(t *testing.T) {
	listing := models.Listing{
		{Src: "/b.jpg", Width: 1, Height: 1},
		{Src: "/c.jpg", Width: 1, Height: 1},
	}

	entry := models.GalleryImage{Src: "/a.jpg", Width: 2, Height: 3}
	updated := listing.Prepend(entry)

	require.Len(t, updated, 3)
	assert.Equal(t, entry, updated[0])

	// Повторная вставка того же src не создаёт дубликата
	again := updated.Prepend(models.GalleryImage{Src: "/a.jpg", Width: 9, Height: 9})
	require.Len(t, again, 3)
	assert.Equal(t, 9, again[0].Width)
	assert.Equal(t, -1, again[1:].IndexOf("/a.jpg"))
}

func TestListing_Without(t *testing.T) {
	listing := models.Listing{
		{Src: "/a.jpg", Width: 1, Height: 1},
		{Src: "/b.jpg", Width: 1, Height: 1},
	}

	updated := listing.Without("/a.jpg")
	require.Len(t, updated, 1)
	assert.Equal(t, "/b.jpg", updated[0].Src)

	// Удаление последнего элемента оставляет корректный пустой листинг
	empty := updated.Without("/b.jpg")
	assert.NotNil(t, empty)
	assert.Len(t, empty, 0)

	// Отсутствующий src ничего не меняет
	assert.Len(t, listing.Without("/missing.jpg"), 2)
}
