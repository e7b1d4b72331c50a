package profile

import (
	"context"
	"errors"

	"github.com/lmagsino/stride/internal/apierr"
	"github.com/lmagsino/stride/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const invalidTextRepresentation = "22P02"

var ErrRaceNotFound = errors.New("race history not found")

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// GetProfile returns nil when the user has not saved a profile yet.
func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, experience_level, current_weekly_km, available_days,
		       preferred_long_run_day, injury_notes, created_at, updated_at
		FROM runner_profiles WHERE user_id=$1
	`, userID)

	var p Profile
	if err := row.Scan(&p.ID, &p.UserID, &p.ExperienceLevel, &p.CurrentWeeklyKm, &p.AvailableDays,
		&p.PreferredLongRunDay, &p.InjuryNotes, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// UpdateProfile creates or updates the user's single profile.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (Profile, error) {
	current, err := s.GetProfile(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	p := newProfile(userID)
	if current != nil {
		p = *current
	} else {
		p.ID = uuid.NewString()
	}

	if details := in.Apply(&p); len(details) > 0 {
		return Profile{}, apierr.Validation("Profile update failed", details)
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO runner_profiles (id, user_id, experience_level, current_weekly_km, available_days, preferred_long_run_day, injury_notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (user_id) DO UPDATE SET
			experience_level=EXCLUDED.experience_level,
			current_weekly_km=EXCLUDED.current_weekly_km,
			available_days=EXCLUDED.available_days,
			preferred_long_run_day=EXCLUDED.preferred_long_run_day,
			injury_notes=EXCLUDED.injury_notes,
			updated_at=NOW()
		RETURNING id, created_at, updated_at
	`, p.ID, p.UserID, p.ExperienceLevel, p.CurrentWeeklyKm, p.AvailableDays, p.PreferredLongRunDay, p.InjuryNotes)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Races lists the user's race history, most recent race first.
func (s *Service) Races(ctx context.Context, userID string) ([]RaceHistory, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, race_name, distance_km, finish_time_secs, race_date, notes, created_at
		FROM race_histories WHERE user_id=$1
		ORDER BY race_date DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	races := []RaceHistory{}
	for rows.Next() {
		var r RaceHistory
		if err := rows.Scan(&r.ID, &r.UserID, &r.RaceName, &r.DistanceKm, &r.FinishTimeSecs, &r.RaceDate, &r.Notes, &r.CreatedAt); err != nil {
			return nil, err
		}
		races = append(races, r)
	}
	return races, rows.Err()
}

func (s *Service) CreateRace(ctx context.Context, userID string, in RaceInput) (RaceHistory, error) {
	if details := in.Validate(); len(details) > 0 {
		return RaceHistory{}, apierr.Validation("Could not save race history", details)
	}
	date, _ := in.date()

	race := RaceHistory{
		ID:             uuid.NewString(),
		UserID:         userID,
		RaceName:       in.RaceName,
		DistanceKm:     *in.DistanceKm,
		FinishTimeSecs: *in.FinishTimeSecs,
		RaceDate:       date,
		Notes:          in.Notes,
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO race_histories (id, user_id, race_name, distance_km, finish_time_secs, race_date, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at
	`, race.ID, race.UserID, race.RaceName, race.DistanceKm, race.FinishTimeSecs, race.RaceDate, race.Notes)
	if err := row.Scan(&race.CreatedAt); err != nil {
		return RaceHistory{}, err
	}
	return race, nil
}

// DeleteRace removes one of the user's races. Races owned by someone else
// are reported as not found.
func (s *Service) DeleteRace(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM race_histories WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation {
			return ErrRaceNotFound
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRaceNotFound
	}
	return nil
}
