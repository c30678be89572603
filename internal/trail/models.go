package trail

import (
	"strconv"
	"strings"
	"time"
)

// DefaultImageURL is used when a trail is created without an image.
const DefaultImageURL = "/images/default-trail.jpg"

type Trail struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Difficulty  string    `json:"difficulty"`
	Length      float64   `json:"length"`
	Duration    float64   `json:"duration"`
	ImageURL    string    `json:"imageUrl"`
	Likes       int       `json:"likes"`
	SavedBy     []string  `json:"savedBy"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Number accepts either a JSON number or a numeric string, since clients
// submit length and duration straight from form inputs.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

type CreateInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Difficulty  string  `json:"difficulty"`
	Length      *Number `json:"length"`
	Duration    *Number `json:"duration"`
	ImageURL    string  `json:"imageUrl"`
	UserID      string  `json:"userId"`
}

// UpdateInput is a partial update: nil means "keep the stored value".
type UpdateInput struct {
	UserID      string  `json:"userId"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Difficulty  *string `json:"difficulty"`
	Length      *Number `json:"length"`
	Duration    *Number `json:"duration"`
	ImageURL    *string `json:"imageUrl"`
}

// Filter narrows List to trails owned by or saved by one user.
type Filter struct {
	UserID  string
	SavedBy string
}

type ToggleResult struct {
	Message string `json:"message"`
	IsSaved bool   `json:"isSaved"`
	Likes   int    `json:"likes"`
}

func validDifficulty(d string) bool {
	return d == "easy" || d == "moderate" || d == "hard"
}

func validImageURL(u string) bool {
	return strings.HasPrefix(u, "http")
}
