package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"library-backend/internal/domains/member/model"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/database"
)

// Repository - data access for members and their user accounts
type Repository interface {
	List(ctx context.Context, filter model.MemberFilter) ([]model.Member, int, error)
	GetByID(ctx context.Context, id string) (*model.Member, error)
	Create(ctx context.Context, m model.NewMember) error
	Update(ctx context.Context, id string, patch model.Patch) error
	// Delete removes member and user together and returns the removed member
	Delete(ctx context.Context, id string) (*model.Member, error)
	HasActiveBorrowings(ctx context.Context, id string) (bool, error)
	FilterOptions(ctx context.Context) (faculties, programs []string, err error)
}

const memberSelect = `
	SELECT m.id, m.user_id, m.member_code, m.nim, m.faculty, m.study_program, m.phone,
	       m.address, m.join_date, m.status, m.profile_picture, m.created_at, m.updated_at,
	       u.name, u.email
	FROM members m
	JOIN users u ON u.id = m.user_id`

type postgresRepository struct {
	pool database.Pool
}

func NewPostgresRepository(pool database.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) List(ctx context.Context, f model.MemberFilter) ([]model.Member, int, error) {
	w := &utils.Where{}
	if f.Search != "" {
		w.ILikeAny(f.Search, "u.name", "m.member_code", "m.nim")
	}
	if f.Status != "" {
		w.Eq("m.status", string(f.Status))
	}
	if f.Faculty != "" {
		w.Eq("m.faculty", f.Faculty)
	}
	if f.StudyProgram != "" {
		w.Eq("m.study_program", f.StudyProgram)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM members m JOIN users u ON u.id = m.user_id ` + w.SQL()
	if err := r.pool.QueryRow(ctx, countQuery, w.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count members: %w", err)
	}
	if total == 0 {
		return []model.Member{}, 0, nil
	}

	query := fmt.Sprintf(`%s %s ORDER BY m.created_at DESC LIMIT $%d OFFSET $%d`,
		memberSelect, w.SQL(), w.Next(), w.Next()+1)
	rows, err := r.pool.Query(ctx, query, append(w.Args(), f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := make([]model.Member, 0, f.Limit)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, err
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}
	return members, total, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*model.Member, error) {
	m, err := scanMember(r.pool.QueryRow(ctx, memberSelect+` WHERE m.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrMemberNotFound
	}
	return m, err
}

// Create inserts the user (role anggota) and the member in one transaction
func (r *postgresRepository) Create(ctx context.Context, m model.NewMember) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var userID string
		err := tx.QueryRow(ctx, `
			INSERT INTO users (name, email, password_hash, role)
			VALUES ($1, $2, $3, 'anggota')
			RETURNING id`,
			m.Name, m.Email, m.PasswordHash,
		).Scan(&userID)
		if err != nil {
			return translate(err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO members (id, user_id, member_code, nim, faculty, study_program, phone,
			                     address, join_date, status, profile_picture)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			m.ID, userID, m.MemberCode, m.NIM, m.Faculty, m.StudyProgram, m.Phone,
			m.Address, m.JoinDate, string(m.Status), m.Picture,
		)
		if err != nil {
			return translate(err)
		}
		return nil
	})
}

// Update applies the user and member halves of patch in one transaction
func (r *postgresRepository) Update(ctx context.Context, id string, p model.Patch) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var userID string
		err := tx.QueryRow(ctx, `SELECT user_id FROM members WHERE id = $1 FOR UPDATE`, id).Scan(&userID)
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrMemberNotFound
		}
		if err != nil {
			return fmt.Errorf("lock member: %w", err)
		}

		userSets := &setList{}
		userSets.add("name", p.Name)
		userSets.add("email", p.Email)
		userSets.add("password_hash", p.PasswordHash)
		if err := userSets.exec(ctx, tx, "users", userID); err != nil {
			return err
		}

		memberSets := &setList{}
		memberSets.add("member_code", p.MemberCode)
		memberSets.add("nim", p.NIM)
		memberSets.add("faculty", p.Faculty)
		memberSets.add("study_program", p.StudyProgram)
		memberSets.add("phone", p.Phone)
		memberSets.add("address", p.Address)
		memberSets.add("profile_picture", p.Picture)
		if p.JoinDate != nil {
			memberSets.set("join_date", *p.JoinDate)
		}
		if p.Status != nil {
			memberSets.set("status", string(*p.Status))
		}
		return memberSets.exec(ctx, tx, "members", id)
	})
}

func (r *postgresRepository) Delete(ctx context.Context, id string) (*model.Member, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Member, error) {
		m, err := scanMember(tx.QueryRow(ctx, memberSelect+` WHERE m.id = $1 FOR UPDATE OF m`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMemberNotFound
		}
		if err != nil {
			return nil, err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM members WHERE id = $1`, id); err != nil {
			return nil, translate(err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, m.UserID); err != nil {
			return nil, translate(err)
		}
		return m, nil
	})
}

func (r *postgresRepository) HasActiveBorrowings(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM borrowings WHERE member_id = $1 AND status = 'dipinjam')`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active borrowings: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) FilterOptions(ctx context.Context) ([]string, []string, error) {
	faculties, err := distinct(ctx, r.pool, "faculty")
	if err != nil {
		return nil, nil, err
	}
	programs, err := distinct(ctx, r.pool, "study_program")
	if err != nil {
		return nil, nil, err
	}
	return faculties, programs, nil
}

// column is one of a fixed set, never user input
func distinct(ctx context.Context, db database.DBTX, column string) ([]string, error) {
	rows, err := db.Query(ctx, fmt.Sprintf(
		`SELECT DISTINCT %[1]s FROM members WHERE %[1]s IS NOT NULL AND %[1]s <> '' ORDER BY %[1]s`, column))
	if err != nil {
		return nil, fmt.Errorf("query %s options: %w", column, err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect %s options: %w", column, err)
	}
	return values, nil
}

// ---- helpers ----

type setList struct {
	w    utils.Where
	sets []string
}

func (s *setList) set(column string, v any) {
	s.sets = append(s.sets, column+" = "+s.w.Arg(v))
}

func (s *setList) add(column string, v *string) {
	if v != nil {
		s.set(column, *v)
	}
}

func (s *setList) exec(ctx context.Context, tx pgx.Tx, table, id string) error {
	if len(s.sets) == 0 {
		return nil
	}
	s.sets = append(s.sets, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s", table, strings.Join(s.sets, ", "), s.w.Arg(id))
	if _, err := tx.Exec(ctx, query, s.w.Args()...); err != nil {
		return translate(err)
	}
	return nil
}

func scanMember(row pgx.Row) (*model.Member, error) {
	var m model.Member
	var status string
	err := row.Scan(
		&m.ID, &m.UserID, &m.MemberCode, &m.NIM, &m.Faculty, &m.StudyProgram, &m.Phone,
		&m.Address, &m.JoinDate, &status, &m.ProfilePicture, &m.CreatedAt, &m.UpdatedAt,
		&m.Name, &m.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan member: %w", err)
	}
	m.Status = model.Status(status)
	return &m, nil
}

func translate(err error) error {
	switch {
	case database.IsUniqueViolation(err):
		if strings.Contains(database.ConstraintName(err), "email") {
			return model.ErrEmailExists
		}
		return model.ErrMemberCodeExists
	case database.IsForeignKeyViolation(err):
		return model.ErrMemberHasHistory
	default:
		return fmt.Errorf("write member: %w", err)
	}
}
