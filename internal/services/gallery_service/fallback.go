package services

import (
	"photofolio/internal/domain/models"
)

// Вшитые наборы на случай недоступности хранилища: галерея показывает
// хоть что-то вместо ошибки.
var fallbacks = map[models.Category]models.Listing{
	models.CategoryNature: {
		{Src: "/static/portfolio/nature/DSC05124.jpg", Width: 2048, Height: 1365},
		{Src: "/static/portfolio/nature/DSC05132.jpg", Width: 1365, Height: 2048},
		{Src: "/static/portfolio/nature/DSC05145.jpg", Width: 1365, Height: 2048},
		{Src: "/static/portfolio/nature/DSC07495.jpg", Width: 3376, Height: 6000},
	},
	models.CategoryWildlife: {
		{Src: "/static/portfolio/wildlife/DSC00333.jpg", Width: 2048, Height: 1365},
		{Src: "/static/portfolio/wildlife/DSC00671.jpg", Width: 2048, Height: 1365},
		{Src: "/static/portfolio/wildlife/DSC01767.jpg", Width: 1365, Height: 2048},
	},
	models.CategoryArchitecture: {
		{Src: "/static/portfolio/architecture/DSC03818.jpg", Width: 2048, Height: 1365},
		{Src: "/static/portfolio/architecture/DSC04338.jpg", Width: 1365, Height: 2048},
	},
	models.CategoryTravel: {
		{Src: "/static/portfolio/travel/DSC02780.jpg", Width: 2048, Height: 1365},
		{Src: "/static/portfolio/travel/DSC06001.jpg", Width: 2048, Height: 1365},
	},
}

func fallbackImages(category models.Category) models.Listing {
	listing, ok := fallbacks[category]
	if !ok {
		return models.Listing{}
	}

	out := make(models.Listing, len(listing))
	copy(out, listing)
	return out
}
