package trail

import (
	"context"
	"errors"
	"slices"

	"github.com/4u6kopek/trail-explorer-backend/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound  = errors.New("trail not found")
	ErrForbidden = errors.New("caller does not own this trail")
)

// ValidationError carries a message safe to echo back to the client.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

type Service struct {
	db    db.Querier
	authz Authorizer
}

func NewService(db db.Querier) *Service {
	return &Service{db: db, authz: OwnerOnly{}}
}

func (s *Service) WithAuthorizer(a Authorizer) *Service {
	s.authz = a
	return s
}

const trailColumns = `id, name, description, location, difficulty, length, duration, image_url, likes, saved_by, user_id, created_at`

func (s *Service) List(ctx context.Context, f Filter) ([]Trail, error) {
	query := `SELECT ` + trailColumns + ` FROM trails`
	var args []any
	switch {
	case f.UserID != "":
		query += ` WHERE user_id=$1`
		args = append(args, f.UserID)
	case f.SavedBy != "":
		query += ` WHERE $1 = ANY(saved_by)`
		args = append(args, f.SavedBy)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trails := []Trail{}
	for rows.Next() {
		t, err := scanTrail(rows)
		if err != nil {
			return nil, err
		}
		trails = append(trails, t)
	}
	return trails, rows.Err()
}

func (s *Service) Get(ctx context.Context, id string) (Trail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Trail{}, ValidationError("Invalid trail ID")
	}
	row := s.db.QueryRow(ctx, `SELECT `+trailColumns+` FROM trails WHERE id=$1`, id)
	t, err := scanTrail(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Trail{}, ErrNotFound
	}
	return t, err
}

func (s *Service) Create(ctx context.Context, input CreateInput) (Trail, error) {
	if input.Name == "" || input.Description == "" || input.Location == "" ||
		input.Difficulty == "" || input.Length == nil || input.Duration == nil ||
		input.UserID == "" {
		return Trail{}, ValidationError("Missing required fields")
	}
	if !validDifficulty(input.Difficulty) {
		return Trail{}, ValidationError("Invalid difficulty. Must be easy, moderate, or hard")
	}
	if *input.Length < 0 || *input.Duration < 0 {
		return Trail{}, ValidationError("Length and duration must be non-negative")
	}
	imageURL := input.ImageURL
	if imageURL == "" {
		imageURL = DefaultImageURL
	} else if !validImageURL(imageURL) {
		return Trail{}, ValidationError("Image URL must start with http")
	}

	t := Trail{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Location:    input.Location,
		Difficulty:  input.Difficulty,
		Length:      float64(*input.Length),
		Duration:    float64(*input.Duration),
		ImageURL:    imageURL,
		Likes:       0,
		SavedBy:     []string{},
		UserID:      input.UserID,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO trails (id, name, description, location, difficulty, length, duration, image_url, likes, saved_by, user_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,0,'{}',$9)
		RETURNING created_at
	`, t.ID, t.Name, t.Description, t.Location, t.Difficulty, t.Length, t.Duration, t.ImageURL, t.UserID)
	if err := row.Scan(&t.CreatedAt); err != nil {
		return Trail{}, err
	}

	// Mirror counter on the owner. Creates a stub row when the user has never
	// registered; not atomic with the insert above.
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, username, email, avatar_url, trails_count, saved_trails)
		VALUES ($1, '', '', '', 1, '{}')
		ON CONFLICT (id) DO UPDATE SET trails_count = users.trails_count + 1
	`, t.UserID)
	if err != nil {
		return Trail{}, err
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, id string, patch UpdateInput) (Trail, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return Trail{}, err
	}
	if !s.authz.CanModify(t.UserID, patch.UserID) {
		return Trail{}, ErrForbidden
	}

	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Location != nil {
		t.Location = *patch.Location
	}
	if patch.Difficulty != nil {
		if !validDifficulty(*patch.Difficulty) {
			return Trail{}, ValidationError("Invalid difficulty. Must be easy, moderate, or hard")
		}
		t.Difficulty = *patch.Difficulty
	}
	if patch.Length != nil {
		if *patch.Length < 0 {
			return Trail{}, ValidationError("Length and duration must be non-negative")
		}
		t.Length = float64(*patch.Length)
	}
	if patch.Duration != nil {
		if *patch.Duration < 0 {
			return Trail{}, ValidationError("Length and duration must be non-negative")
		}
		t.Duration = float64(*patch.Duration)
	}
	if patch.ImageURL != nil {
		if !validImageURL(*patch.ImageURL) {
			return Trail{}, ValidationError("Image URL must start with http")
		}
		t.ImageURL = *patch.ImageURL
	}

	_, err = s.db.Exec(ctx, `
		UPDATE trails
		SET name=$2, description=$3, location=$4, difficulty=$5, length=$6, duration=$7, image_url=$8
		WHERE id=$1
	`, t.ID, t.Name, t.Description, t.Location, t.Difficulty, t.Length, t.Duration, t.ImageURL)
	if err != nil {
		return Trail{}, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !s.authz.CanModify(t.UserID, userID) {
		return ErrForbidden
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM trails WHERE id=$1`, t.ID); err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		UPDATE users SET trails_count = GREATEST(trails_count - 1, 0) WHERE id=$1
	`, t.UserID)
	return err
}

// ToggleSave flips the saved state of a trail for one user. The saved_by
// mutation and the likes counter move in a single statement, so a trail row
// always satisfies likes == cardinality(saved_by); the mirror on the user row
// is a separate statement.
func (s *Service) ToggleSave(ctx context.Context, trailID, userID string) (ToggleResult, error) {
	if _, err := uuid.Parse(trailID); err != nil {
		return ToggleResult{}, ValidationError("Invalid trail ID")
	}

	var savedBy []string
	err := s.db.QueryRow(ctx, `SELECT saved_by FROM trails WHERE id=$1`, trailID).Scan(&savedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return ToggleResult{}, ErrNotFound
	}
	if err != nil {
		return ToggleResult{}, err
	}

	saved := slices.Contains(savedBy, userID)
	var likes int
	if saved {
		err = s.db.QueryRow(ctx, `
			UPDATE trails SET saved_by = array_remove(saved_by, $2), likes = likes - 1
			WHERE id=$1 RETURNING likes
		`, trailID, userID).Scan(&likes)
		if err != nil {
			return ToggleResult{}, err
		}
		_, err = s.db.Exec(ctx, `
			UPDATE users SET saved_trails = array_remove(saved_trails, $2) WHERE id=$1
		`, userID, trailID)
		if err != nil {
			return ToggleResult{}, err
		}
		return ToggleResult{Message: "Trail unsaved", IsSaved: false, Likes: likes}, nil
	}

	err = s.db.QueryRow(ctx, `
		UPDATE trails SET saved_by = array_append(saved_by, $2), likes = likes + 1
		WHERE id=$1 RETURNING likes
	`, trailID, userID).Scan(&likes)
	if err != nil {
		return ToggleResult{}, err
	}
	_, err = s.db.Exec(ctx, `
		UPDATE users SET saved_trails = array_append(saved_trails, $2)
		WHERE id=$1 AND NOT ($2 = ANY(saved_trails))
	`, userID, trailID)
	if err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{Message: "Trail saved", IsSaved: true, Likes: likes}, nil
}

func scanTrail(row pgx.Row) (Trail, error) {
	var t Trail
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Location, &t.Difficulty,
		&t.Length, &t.Duration, &t.ImageURL, &t.Likes, &t.SavedBy, &t.UserID, &t.CreatedAt)
	if err != nil {
		return Trail{}, err
	}
	if t.SavedBy == nil {
		t.SavedBy = []string{}
	}
	return t, nil
}
