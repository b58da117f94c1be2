package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/tutorbot/pkg/models"
)

// UserProfileRepository stores each user's profile as a single JSON
// document. The profile is the atomic persistence unit: callers read the
// whole profile, mutate it in memory and write it back. There is no
// locking or versioning; the bot assumes one active interaction per user
// at a time, so a concurrent write from the same user can be lost.
type UserProfileRepository struct{}

// NewUserProfileRepository creates a new repository instance
func NewUserProfileRepository() *UserProfileRepository {
	return &UserProfileRepository{}
}

// Get returns the profile for the user, creating and persisting an empty
// one if none exists yet.
func (r *UserProfileRepository) Get(userID int64) (*models.UserProfile, error) {
	var raw string
	err := DB.Get(&raw, DB.Rebind("SELECT profile FROM user_profiles WHERE user_id = ?"), userID)
	if errors.Is(err, sql.ErrNoRows) {
		profile := models.NewUserProfile(userID)
		if err := r.Set(profile); err != nil {
			return nil, fmt.Errorf("failed to create profile for user %d: %w", userID, err)
		}
		return profile, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile for user %d: %w", userID, err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile for user %d: %w", userID, err)
	}
	return &profile, nil
}

// Set writes the whole profile back, inserting or replacing it.
func (r *UserProfileRepository) Set(profile *models.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile for user %d: %w", profile.UserID, err)
	}

	_, err = DB.Exec(DB.Rebind(`
		INSERT INTO user_profiles (user_id, profile, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			profile = excluded.profile,
			updated_at = excluded.updated_at
	`), profile.UserID, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store profile for user %d: %w", profile.UserID, err)
	}
	return nil
}

// Remove deletes the user's profile.
func (r *UserProfileRepository) Remove(userID int64) error {
	_, err := DB.Exec(DB.Rebind("DELETE FROM user_profiles WHERE user_id = ?"), userID)
	if err != nil {
		return fmt.Errorf("failed to remove profile for user %d: %w", userID, err)
	}
	return nil
}

// All returns every stored profile, for the batch jobs.
func (r *UserProfileRepository) All() ([]*models.UserProfile, error) {
	var raws []string
	if err := DB.Select(&raws, "SELECT profile FROM user_profiles ORDER BY user_id"); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiles := make([]*models.UserProfile, 0, len(raws))
	for _, raw := range raws {
		var profile models.UserProfile
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			return nil, fmt.Errorf("failed to decode stored profile: %w", err)
		}
		profiles = append(profiles, &profile)
	}
	return profiles, nil
}
