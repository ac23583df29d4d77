package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kymanzi/ofisi/core/member"
)

type memberRepository struct {
	db *sqlx.DB
}

var _ member.Repository = (*memberRepository)(nil) // interface compliance check

func NewMemberRepository(db *sqlx.DB) member.Repository {
	return &memberRepository{db: db}
}

type dbMember struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Initials  string    `db:"initials"`
	Email     string    `db:"email"`
	Color     string    `db:"color"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row dbMember) toDomain() member.Member {
	return member.Member(row)
}

const memberColumns = `id, name, initials, email, color, is_active, created_at, updated_at`

func (repo *memberRepository) CheckEmailUniqueness(ctx context.Context, email string, excluded ...member.Member) error {
	query := `SELECT COUNT(*) FROM members WHERE email = ?`
	args := []interface{}{email}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, m := range excluded {
			ids = append(ids, m.ID)
		}
		in, inArgs, err := sqlx.In(` AND id NOT IN (?)`, ids)
		if err != nil {
			return errors.Wrap(err, "building uniqueness check")
		}
		query += in
		args = append(args, inArgs...)
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if count > 0 {
		return member.ErrEmailExists
	}
	return nil
}

func (repo *memberRepository) CreateMember(ctx context.Context, mbr member.Member) (member.Member, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO members (`+memberColumns+`)
		VALUES (:id, :name, :initials, :email, :color, :is_active, :created_at, :updated_at)`,
		dbMember(mbr),
	)
	if err != nil {
		return member.Member{}, errors.Wrap(err, "inserting member")
	}
	return mbr, nil
}

func (repo *memberRepository) QueryAllMembers(ctx context.Context) ([]member.Member, error) {
	var rows []dbMember
	if err := repo.db.SelectContext(ctx, &rows, `SELECT `+memberColumns+` FROM members ORDER BY name, id`); err != nil {
		return nil, errors.Wrap(err, "querying members")
	}
	members := make([]member.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toDomain())
	}
	return members, nil
}

func (repo *memberRepository) GetMemberByID(ctx context.Context, id string) (member.Member, error) {
	return repo.get(ctx, `id = ?`, id)
}

func (repo *memberRepository) GetMemberByEmail(ctx context.Context, email string) (member.Member, error) {
	return repo.get(ctx, `email = ?`, email)
}

func (repo *memberRepository) get(ctx context.Context, cond string, arg interface{}) (member.Member, error) {
	var row dbMember
	err := repo.db.GetContext(ctx, &row, repo.db.Rebind(`SELECT `+memberColumns+` FROM members WHERE `+cond), arg)
	if err == sql.ErrNoRows {
		return member.Member{}, member.ErrNotFound
	}
	if err != nil {
		return member.Member{}, errors.Wrap(err, "getting member")
	}
	return row.toDomain(), nil
}

func (repo *memberRepository) FilterMembers(ctx context.Context, filter member.QueryFilter) ([]member.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE 1=1`
	var args []interface{}

	if filter.Search != "" {
		query += ` AND (LOWER(name) LIKE ? OR LOWER(email) LIKE ?)`
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		args = append(args, pattern, pattern)
	}
	if filter.IsActive != nil {
		query += ` AND is_active = ?`
		args = append(args, *filter.IsActive)
	}
	query += ` ORDER BY name, id`

	var rows []dbMember
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "filtering members")
	}
	members := make([]member.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toDomain())
	}
	return members, nil
}

func (repo *memberRepository) UpdateMember(ctx context.Context, mbr member.Member, isActive *bool) (member.Member, error) {
	orig, err := repo.GetMemberByID(ctx, mbr.ID)
	if err != nil {
		return member.Member{}, err
	}
	if mbr.Name == "" {
		mbr.Name = orig.Name
	}
	if mbr.Initials == "" {
		mbr.Initials = orig.Initials
	}
	if mbr.Email == "" {
		mbr.Email = orig.Email
	}
	if mbr.Color == "" {
		mbr.Color = orig.Color
	}
	mbr.IsActive = orig.IsActive
	if isActive != nil {
		mbr.IsActive = *isActive
	}
	mbr.CreatedAt = orig.CreatedAt

	_, err = repo.db.NamedExecContext(ctx, `
		UPDATE members
		SET name = :name, initials = :initials, email = :email, color = :color,
		    is_active = :is_active, updated_at = :updated_at
		WHERE id = :id`,
		dbMember(mbr),
	)
	if err != nil {
		return member.Member{}, errors.Wrap(err, "updating member")
	}
	return mbr, nil
}

func (repo *memberRepository) DeleteMembersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM members WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete")
	}
	if _, err := repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting members")
	}
	return nil
}
