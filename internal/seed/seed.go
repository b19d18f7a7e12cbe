package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	appModels "github.com/ypropel/backend/internal/app/models"
	appRepos "github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/db"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/auth"
)

// Admin describes the bootstrap administrator. An empty email skips it.
type Admin struct {
	Name     string
	Email    string
	Password string
}

// lookupRows are the single-column reference tables and their default rows
var lookupRows = []struct {
	table string
	names []string
}{
	{"majors", []string{
		"Accounting", "Biology", "Business Administration", "Chemistry", "Communications",
		"Computer Science", "Economics", "Electrical Engineering", "Finance", "Marketing",
		"Mathematics", "Mechanical Engineering", "Nursing", "Physics", "Psychology",
	}},
	{"experience_levels", []string{"Internship", "Entry Level", "Associate", "Mid Level", "Senior Level"}},
	{"countries", []string{"United States", "Canada", "Mexico", "United Kingdom", "Germany", "India"}},
	{"program_types", []string{"Research", "Internship", "Academic", "Leadership", "Volunteer"}},
	{"service_types", []string{"Tutoring", "Design", "Web Development", "Writing", "Photography", "Marketing"}},
	{"job_categories", []string{
		"Engineering", "Finance", "Healthcare", "Marketing", "Education", "Sales", "Design", "Operations",
	}},
}

var usStates = [][2]string{
	{"Alabama", "AL"}, {"Alaska", "AK"}, {"Arizona", "AZ"}, {"Arkansas", "AR"}, {"California", "CA"},
	{"Colorado", "CO"}, {"Connecticut", "CT"}, {"Delaware", "DE"}, {"Florida", "FL"}, {"Georgia", "GA"},
	{"Hawaii", "HI"}, {"Idaho", "ID"}, {"Illinois", "IL"}, {"Indiana", "IN"}, {"Iowa", "IA"},
	{"Kansas", "KS"}, {"Kentucky", "KY"}, {"Louisiana", "LA"}, {"Maine", "ME"}, {"Maryland", "MD"},
	{"Massachusetts", "MA"}, {"Michigan", "MI"}, {"Minnesota", "MN"}, {"Mississippi", "MS"}, {"Missouri", "MO"},
	{"Montana", "MT"}, {"Nebraska", "NE"}, {"Nevada", "NV"}, {"New Hampshire", "NH"}, {"New Jersey", "NJ"},
	{"New Mexico", "NM"}, {"New York", "NY"}, {"North Carolina", "NC"}, {"North Dakota", "ND"}, {"Ohio", "OH"},
	{"Oklahoma", "OK"}, {"Oregon", "OR"}, {"Pennsylvania", "PA"}, {"Rhode Island", "RI"}, {"South Carolina", "SC"},
	{"South Dakota", "SD"}, {"Tennessee", "TN"}, {"Texas", "TX"}, {"Utah", "UT"}, {"Vermont", "VT"},
	{"Virginia", "VA"}, {"Washington", "WA"}, {"West Virginia", "WV"}, {"Wisconsin", "WI"}, {"Wyoming", "WY"},
}

// cities keyed by state name
var cities = map[string][]string{
	"California":    {"Los Angeles", "San Diego", "San Francisco", "San Jose"},
	"Texas":         {"Austin", "Dallas", "Houston", "San Antonio"},
	"New York":      {"Buffalo", "New York City", "Rochester"},
	"Florida":       {"Miami", "Orlando", "Tampa"},
	"Illinois":      {"Chicago", "Springfield"},
	"Washington":    {"Seattle", "Spokane"},
	"Massachusetts": {"Boston", "Cambridge"},
}

var sb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// CreateDefaultData inserts the reference rows and the bootstrap admin. Every
// insert is idempotent so this runs on each start.
func CreateDefaultData(ctx context.Context, database *db.PostgresDB, admin Admin, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (lookups/admin)...")
	var finalErr error

	err := database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return seedLookups(ctx, tx)
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Error seeding reference tables")
		finalErr = errors.Join(finalErr, err)
	}

	if strings.TrimSpace(admin.Email) != "" {
		if err := ensureAdmin(ctx, appRepos.NewUserRepository(database), admin, lgr); err != nil {
			lgr.Error().Err(err).Str("email", admin.Email).Msg("Error creating admin account")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check/creation complete.")
	}
	return finalErr
}

func seedLookups(ctx context.Context, tx pgx.Tx) error {
	for _, t := range lookupRows {
		q := sb.Insert(t.table).Columns("name").Suffix("ON CONFLICT DO NOTHING")
		for _, name := range t.names {
			q = q.Values(name)
		}
		if err := execBuilder(ctx, tx, t.table, q); err != nil {
			return err
		}
	}

	states := sb.Insert("us_states").Columns("name", "abbreviation").Suffix("ON CONFLICT DO NOTHING")
	for _, s := range usStates {
		states = states.Values(s[0], s[1])
	}
	if err := execBuilder(ctx, tx, "us_states", states); err != nil {
		return err
	}

	cityRows := sb.Insert("cities").Columns("name", "state").Suffix("ON CONFLICT DO NOTHING")
	for state, names := range cities {
		for _, name := range names {
			cityRows = cityRows.Values(name, state)
		}
	}
	return execBuilder(ctx, tx, "cities", cityRows)
}

func execBuilder(ctx context.Context, tx pgx.Tx, table string, q squirrel.InsertBuilder) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s seed: %w", table, err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to seed %s: %w", table, err)
	}
	return nil
}

// ensureAdmin creates the admin account when missing and makes sure it keeps
// the admin flag.
func ensureAdmin(ctx context.Context, users appRepos.UserRepository, admin Admin, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if !existing.IsAdmin {
			return users.SetAdmin(ctx, existing.ID, true)
		}
		return nil
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return err
	}

	if admin.Password == "" {
		return fmt.Errorf("admin password is required to create %s", email)
	}
	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return err
	}

	user := &appModels.User{Name: admin.Name, Email: email, PasswordHash: hash}
	if err := users.Create(ctx, user); err != nil {
		return err
	}
	if err := users.SetAdmin(ctx, user.ID, true); err != nil {
		return err
	}
	lgr.Info().Int64("userID", user.ID).Str("email", email).Msg("Admin account created")
	return nil
}
