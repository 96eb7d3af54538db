package request

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

type SaveEventRequest struct {
	Title           string   `json:"title"`
	Date            string   `json:"date"`       // YYYY-MM-DD
	StartTime       string   `json:"start_time"` // HH:MM
	EndTime         string   `json:"end_time"`   // HH:MM
	Venue           string   `json:"venue"`
	City            string   `json:"city"`
	Category        string   `json:"category"`
	Description     string   `json:"description"`
	Tags            []string `json:"tags"`
	MaxParticipants int      `json:"max_participants"`
}

func (req *SaveEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Date, validation.Required, validation.Match(dateRegex)),
		validation.Field(&req.StartTime, validation.Required, validation.Match(timeRegex)),
		validation.Field(&req.EndTime, validation.Required, validation.Match(timeRegex)),
		validation.Field(&req.Venue, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.City, validation.Required, validation.Length(2, 50)),
		validation.Field(&req.Category, validation.Required),
		validation.Field(&req.Description, validation.Required, validation.Length(10, 2000)),
		validation.Field(&req.MaxParticipants, validation.Required, validation.Min(1)),
	)
}

type SubmitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (req *SubmitReviewRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&req.Comment, validation.Required, validation.Length(10, 1000)),
	)
}

type UploadImageRequest struct {
	DataURL string `json:"data_url"`
}

func (req *UploadImageRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.DataURL, validation.Required),
	)
}
