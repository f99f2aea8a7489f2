package model

import (
	"strings"
	"time"
)

// Medium is a user-defined category of media such as Books or Movies.
type Medium struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	ImageURL    string    `json:"imageUrl" bson:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// MediumSummary is the part of a medium embedded in item responses.
type MediumSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

// MediumInput holds the fields accepted when creating a medium.
type MediumInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	ImageURL    string `json:"imageUrl" validate:"required"`
}

// Normalize trims surrounding whitespace from all fields.
func (in *MediumInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
}

// MediumPatch is a partial medium update. Nil and blank fields are left unchanged.
type MediumPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}

// Apply copies the present fields onto m.
func (p MediumPatch) Apply(m *Medium) {
	setString(&m.Title, p.Title)
	setString(&m.Description, p.Description)
	setString(&m.ImageURL, p.ImageURL)
}

// setString assigns a trimmed value to dst unless it is nil or blank.
func setString(dst *string, v *string) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(*v); s != "" {
		*dst = s
	}
}
