package user

import "time"

type User struct {
	ID          string    `json:"_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	AvatarURL   string    `json:"avatarUrl"`
	TrailsCount int       `json:"trailsCount"`
	SavedTrails []string  `json:"savedTrails"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TrailCard is the reduced trail projection shown on a profile page.
type TrailCard struct {
	ID         string  `json:"_id"`
	Name       string  `json:"name"`
	ImageURL   string  `json:"imageUrl"`
	Difficulty string  `json:"difficulty"`
	Length     float64 `json:"length"`
}

// Profile is a user document joined with the trails they created and saved.
// The outer SavedTrails field shadows the embedded id list with full cards.
type Profile struct {
	User
	CreatedTrails []TrailCard `json:"createdTrails"`
	SavedTrails   []TrailCard `json:"savedTrails"`
}

type LeaderboardEntry struct {
	Username    string    `json:"username"`
	AvatarURL   string    `json:"avatarUrl"`
	TrailsCount int       `json:"trailsCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RegisterInput accepts the id under either key the client has used.
type RegisterInput struct {
	ID       string `json:"_id"`
	AltID    string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (in RegisterInput) UserID() string {
	if in.ID != "" {
		return in.ID
	}
	return in.AltID
}

type UpdateProfileInput struct {
	ID        string  `json:"id"`
	Username  *string `json:"username"`
	AvatarURL *string `json:"avatarUrl"`
}

type UpdateResult struct {
	Message  string `json:"message"`
	Updated  bool   `json:"updated"`
	Upserted bool   `json:"upserted"`
}
