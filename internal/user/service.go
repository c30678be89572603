package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/4u6kopek/trail-explorer-backend/internal/db"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("user not found")

// ValidationError carries a message safe to echo back to the client.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// ConflictError reports which unique field is already taken.
type ConflictError string

func (e ConflictError) Error() string { return string(e) }

const (
	leaderboardKey = "leaderboard:top10"
	leaderboardTTL = 30 * time.Second
)

type Service struct {
	db    db.Querier
	cache Cache
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) WithCache(c Cache) *Service {
	s.cache = c
	return s
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	id := input.UserID()
	if id == "" || input.Username == "" || input.Email == "" {
		return User{}, ValidationError("User ID, username and email are required")
	}

	var exID, exEmail, exUsername string
	err := s.db.QueryRow(ctx, `
		SELECT id, email, username FROM users
		WHERE id=$1 OR email=$2 OR username=$3
		LIMIT 1
	`, id, input.Email, input.Username).Scan(&exID, &exEmail, &exUsername)
	if err == nil {
		switch {
		case exID == id:
			return User{}, ConflictError("User ID already exists")
		case exEmail == input.Email:
			return User{}, ConflictError("Email already in use")
		default:
			return User{}, ConflictError("Username already taken")
		}
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return User{}, err
	}

	u := User{
		ID:          id,
		Username:    input.Username,
		Email:       input.Email,
		AvatarURL:   placeholderAvatar(input.Username),
		TrailsCount: 0,
		SavedTrails: []string{},
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, username, email, avatar_url, trails_count, saved_trails)
		VALUES ($1,$2,$3,$4,0,'{}')
		RETURNING created_at
	`, u.ID, u.Username, u.Email, u.AvatarURL)
	if err := row.Scan(&u.CreatedAt); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) Profile(ctx context.Context, id string) (Profile, error) {
	var u User
	err := s.db.QueryRow(ctx, `
		SELECT id, username, email, avatar_url, trails_count, saved_trails, created_at
		FROM users WHERE id=$1
	`, id).Scan(&u.ID, &u.Username, &u.Email, &u.AvatarURL, &u.TrailsCount, &u.SavedTrails, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	if u.SavedTrails == nil {
		u.SavedTrails = []string{}
	}

	created, err := s.trailCards(ctx, `
		SELECT id, name, image_url, difficulty, length
		FROM trails WHERE user_id=$1
		ORDER BY created_at DESC
	`, u.ID)
	if err != nil {
		return Profile{}, err
	}

	saved := []TrailCard{}
	if len(u.SavedTrails) > 0 {
		saved, err = s.trailCards(ctx, `
			SELECT id, name, image_url, difficulty, length
			FROM trails WHERE id = ANY($1)
		`, u.SavedTrails)
		if err != nil {
			return Profile{}, err
		}
	}

	return Profile{User: u, CreatedTrails: created, SavedTrails: saved}, nil
}

func (s *Service) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	if s.cache != nil {
		if val, ok := s.cache.Get(ctx, leaderboardKey); ok {
			var entries []LeaderboardEntry
			if err := json.Unmarshal([]byte(val), &entries); err == nil {
				return entries, nil
			}
		}
	}

	rows, err := s.db.Query(ctx, `
		SELECT username, avatar_url, trails_count, created_at
		FROM users WHERE trails_count > 0
		ORDER BY trails_count DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []LeaderboardEntry{}
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.AvatarURL, &e.TrailsCount, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if val, err := json.Marshal(entries); err == nil {
			s.cache.Set(ctx, leaderboardKey, string(val), leaderboardTTL)
		}
	}
	return entries, nil
}

func (s *Service) UpdateProfile(ctx context.Context, input UpdateProfileInput) (UpdateResult, error) {
	if input.ID == "" {
		return UpdateResult{}, ValidationError("User ID is required")
	}
	if input.Username != nil && len(*input.Username) < 3 {
		return UpdateResult{}, ValidationError("Username must be at least 3 characters")
	}
	if input.AvatarURL != nil && !hasHTTPPrefix(*input.AvatarURL) {
		return UpdateResult{}, ValidationError("Invalid avatar URL")
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE users
		SET username = COALESCE($2, username), avatar_url = COALESCE($3, avatar_url)
		WHERE id=$1
	`, input.ID, input.Username, input.AvatarURL)
	if err != nil {
		return UpdateResult{}, err
	}

	result := UpdateResult{Message: "Profile updated", Updated: tag.RowsAffected() > 0}
	if !result.Updated {
		// The original upserts a profile stub when the user is unknown.
		_, err := s.db.Exec(ctx, `
			INSERT INTO users (id, username, email, avatar_url, trails_count, saved_trails)
			VALUES ($1, COALESCE($2,''), '', COALESCE($3,''), 0, '{}')
		`, input.ID, input.Username, input.AvatarURL)
		if err != nil {
			return UpdateResult{}, err
		}
		result.Upserted = true
	}
	return result, nil
}

func (s *Service) trailCards(ctx context.Context, query string, arg any) ([]TrailCard, error) {
	rows, err := s.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []TrailCard{}
	for rows.Next() {
		var c TrailCard
		if err := rows.Scan(&c.ID, &c.Name, &c.ImageURL, &c.Difficulty, &c.Length); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func placeholderAvatar(username string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random", url.QueryEscape(username))
}

func hasHTTPPrefix(u string) bool {
	return len(u) >= 4 && u[:4] == "http"
}
