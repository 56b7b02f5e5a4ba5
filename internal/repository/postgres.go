package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yoraldineaminah-commits/version20/internal/domain"
)

// Compile-time interface assertions.
var (
	_ UserRepository       = (*PostgresUserRepo)(nil)
	_ SupervisorRepository = (*PostgresSupervisorRepo)(nil)
	_ InternRepository     = (*PostgresInternRepo)(nil)
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

const userColumns = `id, email, password_hash, first_name, last_name, phone, department, role, account_status, created_at, updated_at`

const insertUserSQL = `INSERT INTO users (id, email, password_hash, first_name, last_name, phone, department, role, account_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING created_at, updated_at`

type userRow interface {
	Scan(dest ...any) error
}

func scanUser(row userRow) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone, &u.Department, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func insertUser(ctx context.Context, tx pgx.Tx, user *domain.User) error {
	err := tx.QueryRow(ctx, insertUserSQL,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Department,
		user.Role,
		user.Status,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

// PostgresUserRepo implements UserRepository over pgx.
type PostgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{db: pool}
}

func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by email: %w", err)
	}
	return exists, nil
}

func (r *PostgresUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("begin create user: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertUser(ctx, tx, &user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return domain.User{}, err
		}
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.User{}, fmt.Errorf("commit create user: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepo) Update(ctx context.Context, user domain.User) (domain.User, error) {
	const q = `UPDATE users
SET email = $2, first_name = $3, last_name = $4, phone = $5, department = $6, updated_at = now()
WHERE id = $1
RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, q,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Department,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.User{}, ErrDuplicateEmail
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at`, role)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return users, nil
}

// SetPassword applies the one-shot credential write. The WHERE clause is
// the compare-and-set: a concurrent writer that already stored a hash
// leaves zero rows for this statement to touch.
func (r *PostgresUserRepo) SetPassword(ctx context.Context, userID int64, hash string) (bool, error) {
	const q = `UPDATE users
SET password_hash = $2, account_status = $3, updated_at = now()
WHERE id = $1 AND password_hash = ''`
	tag, err := r.db.Exec(ctx, q, userID, hash, domain.AccountActive)
	if err != nil {
		return false, fmt.Errorf("set password: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// PostgresSupervisorRepo implements SupervisorRepository.
type PostgresSupervisorRepo struct {
	db *pgxpool.Pool
}

func NewPostgresSupervisorRepo(pool *pgxpool.Pool) *PostgresSupervisorRepo {
	return &PostgresSupervisorRepo{db: pool}
}

const supervisorColumns = `id, user_id, department, specialization, created_at, updated_at`

func scanSupervisor(row userRow) (domain.Supervisor, error) {
	var s domain.Supervisor
	err := row.Scan(&s.ID, &s.UserID, &s.Department, &s.Specialization, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *PostgresSupervisorRepo) CreateWithUser(ctx context.Context, user domain.User, sup domain.Supervisor) (domain.User, domain.Supervisor, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.User{}, domain.Supervisor{}, fmt.Errorf("begin create supervisor: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertUser(ctx, tx, &user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return domain.User{}, domain.Supervisor{}, err
		}
		return domain.User{}, domain.Supervisor{}, fmt.Errorf("insert supervisor user: %w", err)
	}

	const q = `INSERT INTO supervisors (id, user_id, department, specialization)
VALUES ($1, $2, $3, $4)
RETURNING created_at, updated_at`
	if err := tx.QueryRow(ctx, q, sup.ID, user.ID, sup.Department, sup.Specialization).Scan(&sup.CreatedAt, &sup.UpdatedAt); err != nil {
		return domain.User{}, domain.Supervisor{}, fmt.Errorf("insert supervisor profile: %w", err)
	}
	sup.UserID = user.ID

	if err := tx.Commit(ctx); err != nil {
		return domain.User{}, domain.Supervisor{}, fmt.Errorf("commit create supervisor: %w", err)
	}
	return user, sup, nil
}

func (r *PostgresSupervisorRepo) GetByUserID(ctx context.Context, userID int64) (domain.Supervisor, error) {
	row := r.db.QueryRow(ctx, `SELECT `+supervisorColumns+` FROM supervisors WHERE user_id = $1`, userID)
	sup, err := scanSupervisor(row)
	if err != nil {
		return domain.Supervisor{}, fmt.Errorf("get supervisor by user id: %w", err)
	}
	return sup, nil
}

func (r *PostgresSupervisorRepo) GetByID(ctx context.Context, id int64) (domain.Supervisor, error) {
	row := r.db.QueryRow(ctx, `SELECT `+supervisorColumns+` FROM supervisors WHERE id = $1`, id)
	sup, err := scanSupervisor(row)
	if err != nil {
		return domain.Supervisor{}, fmt.Errorf("get supervisor: %w", err)
	}
	return sup, nil
}

// PostgresInternRepo implements InternRepository.
type PostgresInternRepo struct {
	db *pgxpool.Pool
}

func NewPostgresInternRepo(pool *pgxpool.Pool) *PostgresInternRepo {
	return &PostgresInternRepo{db: pool}
}

const internColumns = `id, user_id, supervisor_id, school, department, start_date, end_date, status, created_at, updated_at`

func scanIntern(row userRow) (domain.Intern, error) {
	var i domain.Intern
	err := row.Scan(&i.ID, &i.UserID, &i.SupervisorID, &i.School, &i.Department, &i.StartDate, &i.EndDate, &i.Status, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func (r *PostgresInternRepo) CreateWithUser(ctx context.Context, user domain.User, intern domain.Intern) (domain.User, domain.Intern, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.User{}, domain.Intern{}, fmt.Errorf("begin create intern: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertUser(ctx, tx, &user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return domain.User{}, domain.Intern{}, err
		}
		return domain.User{}, domain.Intern{}, fmt.Errorf("insert intern user: %w", err)
	}

	const q = `INSERT INTO interns (id, user_id, supervisor_id, school, department, start_date, end_date, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at, updated_at`
	err = tx.QueryRow(ctx, q,
		intern.ID,
		user.ID,
		intern.SupervisorID,
		intern.School,
		intern.Department,
		intern.StartDate,
		intern.EndDate,
		intern.Status,
	).Scan(&intern.CreatedAt, &intern.UpdatedAt)
	if err != nil {
		return domain.User{}, domain.Intern{}, fmt.Errorf("insert intern profile: %w", err)
	}
	intern.UserID = user.ID

	if err := tx.Commit(ctx); err != nil {
		return domain.User{}, domain.Intern{}, fmt.Errorf("commit create intern: %w", err)
	}
	return user, intern, nil
}

func (r *PostgresInternRepo) GetByUserID(ctx context.Context, userID int64) (domain.Intern, error) {
	row := r.db.QueryRow(ctx, `SELECT `+internColumns+` FROM interns WHERE user_id = $1`, userID)
	intern, err := scanIntern(row)
	if err != nil {
		return domain.Intern{}, fmt.Errorf("get intern by user id: %w", err)
	}
	return intern, nil
}

func (r *PostgresInternRepo) List(ctx context.Context) ([]domain.Intern, error) {
	rows, err := r.db.Query(ctx, `SELECT `+internColumns+` FROM interns ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list interns: %w", err)
	}
	defer rows.Close()
	return collectInterns(rows)
}

func (r *PostgresInternRepo) ListBySupervisor(ctx context.Context, supervisorID int64) ([]domain.Intern, error) {
	rows, err := r.db.Query(ctx, `SELECT `+internColumns+` FROM interns WHERE supervisor_id = $1 ORDER BY created_at`, supervisorID)
	if err != nil {
		return nil, fmt.Errorf("list interns by supervisor: %w", err)
	}
	defer rows.Close()
	return collectInterns(rows)
}

func collectInterns(rows pgx.Rows) ([]domain.Intern, error) {
	var interns []domain.Intern
	for rows.Next() {
		intern, err := scanIntern(rows)
		if err != nil {
			return nil, fmt.Errorf("scan intern: %w", err)
		}
		interns = append(interns, intern)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("collect interns: %w", err)
	}
	return interns, nil
}

// UpdateWithUser commits the account edits and the profile edits
// together, so a rejected profile write never leaves a half-applied
// account change behind.
func (r *PostgresInternRepo) UpdateWithUser(ctx context.Context, user domain.User, intern domain.Intern) (domain.User, domain.Intern, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.User{}, domain.Intern{}, fmt.Errorf("begin update intern: %w", err)
	}
	defer tx.Rollback(ctx)

	const uq = `UPDATE users
SET email = $2, first_name = $3, last_name = $4, phone = $5, department = $6, updated_at = now()
WHERE id = $1
RETURNING created_at, updated_at`
	err = tx.QueryRow(ctx, uq,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Department,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.User{}, domain.Intern{}, ErrDuplicateEmail
	}
	if err != nil {
		return domain.User{}, domain.Intern{}, fmt.Errorf("update intern user: %w", err)
	}

	const q = `UPDATE interns
SET supervisor_id = $2, school = $3, department = $4, start_date = $5, end_date = $6, status = $7, updated_at = now()
WHERE id = $1
RETURNING created_at, updated_at`
	err = tx.QueryRow(ctx, q,
		intern.ID,
		intern.SupervisorID,
		intern.School,
		intern.Department,
		intern.StartDate,
		intern.EndDate,
		intern.Status,
	).Scan(&intern.CreatedAt, &intern.UpdatedAt)
	if err != nil {
		return domain.User{}, domain.Intern{}, fmt.Errorf("update intern profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.User{}, domain.Intern{}, fmt.Errorf("commit update intern: %w", err)
	}
	return user, intern, nil
}
