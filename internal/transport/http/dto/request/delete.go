package request

type DeleteImageRequest struct {
	Src      string `json:"src" validate:"required"`
	Category string `json:"category" validate:"required"`
}
