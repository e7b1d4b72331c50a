package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/lmagsino/stride/internal/onboarding"
)

type Profile struct {
	ID                  string  `json:"id"`
	ExperienceLevel     string  `json:"experience_level"`
	CurrentWeeklyKm     float64 `json:"current_weekly_km"`
	AvailableDays       int     `json:"available_days"`
	PreferredLongRunDay string  `json:"preferred_long_run_day"`
	InjuryNotes         *string `json:"injury_notes"`
}

type Race struct {
	ID             string  `json:"id"`
	RaceName       *string `json:"race_name"`
	DistanceKm     float64 `json:"distance_km"`
	FinishTime     string  `json:"finish_time"`
	FinishTimeSecs int     `json:"finish_time_secs"`
	RaceDate       string  `json:"race_date"`
	Notes          *string `json:"notes"`
}

// ProfileResponse is the profile page payload. Profile is nil until the
// runner finishes onboarding.
type ProfileResponse struct {
	Profile       *Profile `json:"profile"`
	RaceHistories []Race   `json:"race_histories"`
}

func (c *Client) GetProfile(ctx context.Context) (ProfileResponse, error) {
	var resp ProfileResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/profile", nil, &resp)
	return resp, err
}

func (c *Client) UpdateProfile(ctx context.Context, p onboarding.ProfileUpdate) (Profile, error) {
	var resp struct {
		Profile Profile `json:"profile"`
	}
	err := c.do(ctx, http.MethodPut, "/api/v1/profile", map[string]any{"profile": p}, &resp)
	return resp.Profile, err
}

func (c *Client) CreateRace(ctx context.Context, r onboarding.RaceEntry) (Race, error) {
	var resp struct {
		RaceHistory Race `json:"race_history"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/profile/race_histories", map[string]any{"race_history": r}, &resp)
	return resp.RaceHistory, err
}

func (c *Client) DeleteRace(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/profile/race_histories/"+url.PathEscape(id), nil, nil)
}

// Store adapts the client to the onboarding pipeline.
func (c *Client) Store() onboarding.Store {
	return store{c: c}
}

type store struct {
	c *Client
}

func (s store) UpdateProfile(ctx context.Context, p onboarding.ProfileUpdate) error {
	_, err := s.c.UpdateProfile(ctx, p)
	return err
}

func (s store) CreateRace(ctx context.Context, r onboarding.RaceEntry) error {
	_, err := s.c.CreateRace(ctx, r)
	return err
}
