package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Moses2004/JobX/internal/domain"
	"github.com/Moses2004/JobX/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

const profileColumns = `id, email, name, location, role, industries, skills, goal, company_data, created_at, updated_at`

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE id = $1`, profileColumns)
	profile, err := scanProfile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (r *profileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	companyJSON, err := marshalCompany(profile.CompanyData)
	if err != nil {
		return err
	}

	query := `INSERT INTO profiles (id, email, name, location, role, industries, skills, goal, company_data, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.db.Exec(ctx, query,
		profile.ID, profile.Email, profile.Name, profile.Location, string(profile.Role),
		pq.Array(profile.Industries), pq.Array(profile.Skills), profile.Goal,
		companyJSON, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflict("Profile already exists for this user")
		}
		return apperror.Internal(err)
	}
	return nil
}

// UpdatePartial applies only the fields set on upd and returns the updated
// row, so the caller can replace its held copy with what the database
// actually stored.
func (r *profileRepo) UpdatePartial(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	sets := []string{}
	args := []interface{}{id}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Location != nil {
		add("location", *upd.Location)
	}
	if upd.Role != nil {
		add("role", string(*upd.Role))
	}
	if upd.Industries != nil {
		add("industries", pq.Array(*upd.Industries))
	}
	if upd.Skills != nil {
		add("skills", pq.Array(*upd.Skills))
	}
	if upd.Goal != nil {
		add("goal", *upd.Goal)
	}
	if upd.CompanyData != nil {
		companyJSON, err := marshalCompany(upd.CompanyData)
		if err != nil {
			return nil, err
		}
		add("company_data", companyJSON)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	add("updated_at", time.Now())

	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), profileColumns)

	profile, err := scanProfile(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		profile     domain.Profile
		role        string
		companyJSON []byte
	)
	err := row.Scan(
		&profile.ID, &profile.Email, &profile.Name, &profile.Location, &role,
		pq.Array(&profile.Industries), pq.Array(&profile.Skills), &profile.Goal,
		&companyJSON, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	profile.Role = domain.Role(role)
	if len(companyJSON) > 0 {
		var company domain.CompanyData
		if err := json.Unmarshal(companyJSON, &company); err != nil {
			return nil, err
		}
		profile.CompanyData = &company
	}
	return &profile, nil
}

func marshalCompany(company *domain.CompanyData) ([]byte, error) {
	if company == nil {
		return nil, nil
	}
	return json.Marshal(company)
}
