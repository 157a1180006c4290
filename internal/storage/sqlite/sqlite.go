// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using database/sql and mattn/go-sqlite3.
//
// SQLite keeps the whole portal in a single file, which is all the dev
// server needs. Ids are random UUID strings so they look like the
// document ids the real API hands out.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/student-portal/internal/auth"
	"github.com/aanand-mishra/student-portal/internal/config"
	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
)

// SQLite is the concrete storage backend.
type SQLite struct {
	Db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS classes (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	admin_id TEXT REFERENCES users(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS students (
	id         TEXT PRIMARY KEY,
	student_id TEXT NOT NULL UNIQUE,
	full_name  TEXT NOT NULL,
	email      TEXT NOT NULL,
	class_id   TEXT NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS subjects (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	code TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS attendance (
	id         TEXT PRIMARY KEY,
	student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	date       TEXT NOT NULL,
	status     TEXT NOT NULL,
	UNIQUE (student_id, date)
);

CREATE TABLE IF NOT EXISTS marks (
	id         TEXT PRIMARY KEY,
	student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	subject_id TEXT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
	mark       INTEGER NOT NULL,
	total_mark INTEGER NOT NULL,
	created_at TEXT NOT NULL
);
`

// New opens (or creates) the database file at cfg.StoragePath and makes
// sure every table exists.
func New(cfg *config.Config) (*SQLite, error) {
	// Foreign keys are per connection in SQLite; the DSN flag turns them
	// on for every connection in the pool.
	db, err := sql.Open("sqlite3", cfg.StoragePath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create tables: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// mapErr turns driver constraint failures into storage sentinels.
func mapErr(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", storage.ErrConflict, err)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %v", storage.ErrNotFound, err)
		}
	}
	return err
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *SQLite) CreateUser(username, password string, role types.Role) (string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("CreateUser: hash: %w", err)
	}

	stmt, err := s.Db.Prepare(
		"INSERT INTO users (id, username, password_hash, role) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return "", fmt.Errorf("CreateUser: prepare: %w", err)
	}
	defer stmt.Close()

	id := uuid.NewString()
	if _, err := stmt.Exec(id, username, hash, string(role)); err != nil {
		return "", fmt.Errorf("CreateUser: exec: %w", mapErr(err))
	}
	return id, nil
}

func (s *SQLite) Authenticate(username, password string) (storage.User, error) {
	var id, hash string
	err := s.Db.QueryRow(
		"SELECT id, password_hash FROM users WHERE username = ? LIMIT 1", username,
	).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.User{}, storage.ErrInvalidCredentials
		}
		return storage.User{}, fmt.Errorf("Authenticate: scan: %w", err)
	}

	if !auth.CheckPassword(hash, password) {
		return storage.User{}, storage.ErrInvalidCredentials
	}
	return s.GetUser(id)
}

func (s *SQLite) GetUser(id string) (storage.User, error) {
	stmt, err := s.Db.Prepare(`
		SELECT u.id, u.username, u.role,
		       COALESCE(c.id, st.class_id, ''), COALESCE(st.id, '')
		FROM users u
		LEFT JOIN classes c   ON c.admin_id = u.id
		LEFT JOIN students st ON st.user_id = u.id
		WHERE u.id = ?
		LIMIT 1`)
	if err != nil {
		return storage.User{}, fmt.Errorf("GetUser: prepare: %w", err)
	}
	defer stmt.Close()

	var u storage.User
	var role string
	err = stmt.QueryRow(id).Scan(&u.ID, &u.Username, &role, &u.ClassID, &u.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.User{}, fmt.Errorf("no user found with id %s: %w", id, storage.ErrNotFound)
		}
		return storage.User{}, fmt.Errorf("GetUser: scan: %w", err)
	}
	u.Role = types.Role(role)
	return u, nil
}

func (s *SQLite) CreateClass(c types.NewClass) (string, error) {
	hash, err := auth.HashPassword(c.AdminPassword)
	if err != nil {
		return "", fmt.Errorf("CreateClass: hash: %w", err)
	}

	tx, err := s.Db.Begin()
	if err != nil {
		return "", fmt.Errorf("CreateClass: begin: %w", err)
	}
	defer tx.Rollback()

	adminID := uuid.NewString()
	_, err = tx.Exec(
		"INSERT INTO users (id, username, password_hash, role) VALUES (?, ?, ?, ?)",
		adminID, c.AdminUsername, hash, string(types.RoleAdmin),
	)
	if err != nil {
		return "", fmt.Errorf("CreateClass: insert admin: %w", mapErr(err))
	}

	classID := uuid.NewString()
	_, err = tx.Exec(
		"INSERT INTO classes (id, name, admin_id) VALUES (?, ?, ?)",
		classID, c.Name, adminID,
	)
	if err != nil {
		return "", fmt.Errorf("CreateClass: insert class: %w", mapErr(err))
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("CreateClass: commit: %w", err)
	}
	return classID, nil
}

func (s *SQLite) GetClasses() ([]types.SchoolClass, error) {
	rows, err := s.Db.Query(`
		SELECT c.id, c.name, u.id, u.username
		FROM classes c
		LEFT JOIN users u ON u.id = c.admin_id
		ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("GetClasses: query: %w", err)
	}
	defer rows.Close()

	classes := make([]types.SchoolClass, 0)
	for rows.Next() {
		var c types.SchoolClass
		var adminID, username sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &adminID, &username); err != nil {
			return nil, fmt.Errorf("GetClasses: scan row: %w", err)
		}
		if adminID.Valid {
			c.AdminID = adminID.String
			c.Admin = &types.AdminRef{ID: adminID.String, Username: username.String}
		}
		classes = append(classes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetClasses: rows iteration: %w", err)
	}
	return classes, nil
}

func (s *SQLite) DeleteClass(id string) error {
	tx, err := s.Db.Begin()
	if err != nil {
		return fmt.Errorf("DeleteClass: begin: %w", err)
	}
	defer tx.Rollback()

	var adminID sql.NullString
	err = tx.QueryRow("SELECT admin_id FROM classes WHERE id = ?", id).Scan(&adminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("no class found with id %s: %w", id, storage.ErrNotFound)
		}
		return fmt.Errorf("DeleteClass: scan: %w", err)
	}

	// Student accounts go first; their student rows cascade.
	_, err = tx.Exec(
		"DELETE FROM users WHERE id IN (SELECT user_id FROM students WHERE class_id = ?)", id,
	)
	if err != nil {
		return fmt.Errorf("DeleteClass: delete students: %w", err)
	}
	if adminID.Valid {
		if _, err := tx.Exec("DELETE FROM users WHERE id = ?", adminID.String); err != nil {
			return fmt.Errorf("DeleteClass: delete admin: %w", err)
		}
	}
	if _, err := tx.Exec("DELETE FROM classes WHERE id = ?", id); err != nil {
		return fmt.Errorf("DeleteClass: delete class: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("DeleteClass: commit: %w", err)
	}
	return nil
}

func (s *SQLite) ResetAdminPassword(id, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("ResetAdminPassword: hash: %w", err)
	}

	stmt, err := s.Db.Prepare("UPDATE users SET password_hash = ? WHERE id = ? AND role = ?")
	if err != nil {
		return fmt.Errorf("ResetAdminPassword: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(hash, id, string(types.RoleAdmin))
	if err != nil {
		return fmt.Errorf("ResetAdminPassword: exec: %w", err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("ResetAdminPassword: %s: %w", id, err)
	}
	return nil
}

func (s *SQLite) DeleteAdmin(id string) error {
	stmt, err := s.Db.Prepare("DELETE FROM users WHERE id = ? AND role = ?")
	if err != nil {
		return fmt.Errorf("DeleteAdmin: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(id, string(types.RoleAdmin))
	if err != nil {
		return fmt.Errorf("DeleteAdmin: exec: %w", err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("DeleteAdmin: %s: %w", id, err)
	}
	return nil
}

func (s *SQLite) CreateStudent(classID string, st types.NewStudent) (string, error) {
	hash, err := auth.HashPassword(st.Password)
	if err != nil {
		return "", fmt.Errorf("CreateStudent: hash: %w", err)
	}

	tx, err := s.Db.Begin()
	if err != nil {
		return "", fmt.Errorf("CreateStudent: begin: %w", err)
	}
	defer tx.Rollback()

	// Students log in with their student ID.
	userID := uuid.NewString()
	_, err = tx.Exec(
		"INSERT INTO users (id, username, password_hash, role) VALUES (?, ?, ?, ?)",
		userID, st.StudentID, hash, string(types.RoleStudent),
	)
	if err != nil {
		return "", fmt.Errorf("CreateStudent: insert user: %w", mapErr(err))
	}

	id := uuid.NewString()
	_, err = tx.Exec(
		`INSERT INTO students (id, student_id, full_name, email, class_id, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, st.StudentID, st.FullName, st.Email, classID, userID,
	)
	if err != nil {
		return "", fmt.Errorf("CreateStudent: insert student: %w", mapErr(err))
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("CreateStudent: commit: %w", err)
	}
	return id, nil
}

func (s *SQLite) GetStudents(classID string) ([]types.Student, error) {
	stmt, err := s.Db.Prepare(
		"SELECT id, student_id, full_name, email FROM students WHERE class_id = ? ORDER BY full_name",
	)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(classID)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		var st types.Student
		if err := rows.Scan(&st.ID, &st.StudentID, &st.FullName, &st.Email); err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}
	return students, nil
}

func (s *SQLite) DeleteStudent(classID, id string) error {
	var userID string
	err := s.Db.QueryRow(
		"SELECT user_id FROM students WHERE id = ? AND class_id = ?", id, classID,
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("no student found with id %s: %w", id, storage.ErrNotFound)
		}
		return fmt.Errorf("DeleteStudent: scan: %w", err)
	}

	// Removing the account cascades to the student, attendance and marks.
	if _, err := s.Db.Exec("DELETE FROM users WHERE id = ?", userID); err != nil {
		return fmt.Errorf("DeleteStudent: exec: %w", err)
	}
	return nil
}

func (s *SQLite) GetAttendance(classID, date string) ([]types.AttendanceEntry, error) {
	stmt, err := s.Db.Prepare(`
		SELECT st.id, st.student_id, st.full_name, COALESCE(a.status, ?)
		FROM students st
		LEFT JOIN attendance a ON a.student_id = st.id AND a.date = ?
		WHERE st.class_id = ?
		ORDER BY st.full_name`)
	if err != nil {
		return nil, fmt.Errorf("GetAttendance: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(string(types.StatusNotMarked), date, classID)
	if err != nil {
		return nil, fmt.Errorf("GetAttendance: query: %w", err)
	}
	defer rows.Close()

	entries := make([]types.AttendanceEntry, 0)
	for rows.Next() {
		var e types.AttendanceEntry
		var status string
		if err := rows.Scan(&e.ID, &e.StudentID, &e.FullName, &status); err != nil {
			return nil, fmt.Errorf("GetAttendance: scan row: %w", err)
		}
		e.Status = types.AttendanceStatus(status)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetAttendance: rows iteration: %w", err)
	}
	return entries, nil
}

func (s *SQLite) MarkAttendance(classID string, m types.MarkAttendance) error {
	stmt, err := s.Db.Prepare(`
		INSERT INTO attendance (id, student_id, date, status)
		SELECT ?, st.id, ?, ? FROM students st WHERE st.id = ? AND st.class_id = ?
		ON CONFLICT (student_id, date) DO UPDATE SET status = excluded.status`)
	if err != nil {
		return fmt.Errorf("MarkAttendance: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(uuid.NewString(), m.Date, string(m.Status), m.StudentID, classID)
	if err != nil {
		return fmt.Errorf("MarkAttendance: exec: %w", err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("MarkAttendance: student %s: %w", m.StudentID, err)
	}
	return nil
}

func (s *SQLite) CreateMark(classID string, m types.NewMark) (string, error) {
	stmt, err := s.Db.Prepare(`
		INSERT INTO marks (id, student_id, subject_id, mark, total_mark, created_at)
		SELECT ?, st.id, ?, ?, ?, ? FROM students st WHERE st.id = ? AND st.class_id = ?`)
	if err != nil {
		return "", fmt.Errorf("CreateMark: prepare: %w", err)
	}
	defer stmt.Close()

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := stmt.Exec(id, m.SubjectID, m.Mark, types.MaxMark, now, m.StudentID, classID)
	if err != nil {
		return "", fmt.Errorf("CreateMark: exec: %w", mapErr(err))
	}
	if err := expectOne(res); err != nil {
		return "", fmt.Errorf("CreateMark: student %s: %w", m.StudentID, err)
	}
	return id, nil
}

func (s *SQLite) GetMarks(classID string) ([]types.Mark, error) {
	stmt, err := s.Db.Prepare(`
		SELECT m.id, st.id, st.full_name, st.student_id, sub.id, sub.name, m.mark
		FROM marks m
		JOIN students st ON st.id = m.student_id
		JOIN subjects sub ON sub.id = m.subject_id
		WHERE st.class_id = ?
		ORDER BY m.created_at`)
	if err != nil {
		return nil, fmt.Errorf("GetMarks: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(classID)
	if err != nil {
		return nil, fmt.Errorf("GetMarks: query: %w", err)
	}
	defer rows.Close()

	marks := make([]types.Mark, 0)
	for rows.Next() {
		var m types.Mark
		if err := rows.Scan(
			&m.ID,
			&m.Student.ID, &m.Student.FullName, &m.Student.StudentID,
			&m.Subject.ID, &m.Subject.Name,
			&m.Mark,
		); err != nil {
			return nil, fmt.Errorf("GetMarks: scan row: %w", err)
		}
		marks = append(marks, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetMarks: rows iteration: %w", err)
	}
	return marks, nil
}

func (s *SQLite) CreateSubject(sub types.NewSubject) (string, error) {
	stmt, err := s.Db.Prepare("INSERT INTO subjects (id, name, code) VALUES (?, ?, ?)")
	if err != nil {
		return "", fmt.Errorf("CreateSubject: prepare: %w", err)
	}
	defer stmt.Close()

	id := uuid.NewString()
	if _, err := stmt.Exec(id, sub.Name, sub.Code); err != nil {
		return "", fmt.Errorf("CreateSubject: exec: %w", mapErr(err))
	}
	return id, nil
}

func (s *SQLite) GetSubjects() ([]types.Subject, error) {
	rows, err := s.Db.Query("SELECT id, name, code FROM subjects ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("GetSubjects: query: %w", err)
	}
	defer rows.Close()

	subjects := make([]types.Subject, 0)
	for rows.Next() {
		var sub types.Subject
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Code); err != nil {
			return nil, fmt.Errorf("GetSubjects: scan row: %w", err)
		}
		subjects = append(subjects, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetSubjects: rows iteration: %w", err)
	}
	return subjects, nil
}

func (s *SQLite) DeleteSubject(id string) error {
	stmt, err := s.Db.Prepare("DELETE FROM subjects WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteSubject: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(id)
	if err != nil {
		return fmt.Errorf("DeleteSubject: exec: %w", err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("DeleteSubject: %s: %w", id, err)
	}
	return nil
}

func (s *SQLite) GetStudentInfo(studentID string) (types.StudentInfo, error) {
	var info types.StudentInfo
	err := s.Db.QueryRow(`
		SELECT st.id, st.full_name, c.name, st.student_id
		FROM students st
		JOIN classes c ON c.id = st.class_id
		WHERE st.id = ?`, studentID,
	).Scan(&info.ID, &info.Name, &info.Class, &info.RollNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.StudentInfo{}, fmt.Errorf("no student found with id %s: %w", studentID, storage.ErrNotFound)
		}
		return types.StudentInfo{}, fmt.Errorf("GetStudentInfo: scan: %w", err)
	}
	return info, nil
}

func (s *SQLite) GetStudentAttendance(studentID string) ([]types.AttendanceRecord, error) {
	stmt, err := s.Db.Prepare(`
		SELECT id, date, status FROM attendance
		WHERE student_id = ? AND status != ?
		ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("GetStudentAttendance: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(studentID, string(types.StatusNotMarked))
	if err != nil {
		return nil, fmt.Errorf("GetStudentAttendance: query: %w", err)
	}
	defer rows.Close()

	records := make([]types.AttendanceRecord, 0)
	for rows.Next() {
		var r types.AttendanceRecord
		var status string
		if err := rows.Scan(&r.ID, &r.Date, &status); err != nil {
			return nil, fmt.Errorf("GetStudentAttendance: scan row: %w", err)
		}
		r.Status = types.AttendanceStatus(status)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudentAttendance: rows iteration: %w", err)
	}
	return records, nil
}

func (s *SQLite) GetStudentScores(studentID string) ([]types.Score, error) {
	stmt, err := s.Db.Prepare(`
		SELECT m.id, sub.name, m.mark, m.total_mark
		FROM marks m
		JOIN subjects sub ON sub.id = m.subject_id
		WHERE m.student_id = ?
		ORDER BY sub.name, m.created_at`)
	if err != nil {
		return nil, fmt.Errorf("GetStudentScores: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(studentID)
	if err != nil {
		return nil, fmt.Errorf("GetStudentScores: query: %w", err)
	}
	defer rows.Close()

	scores := make([]types.Score, 0)
	for rows.Next() {
		var sc types.Score
		if err := rows.Scan(&sc.ID, &sc.Subject, &sc.Mark, &sc.TotalMark); err != nil {
			return nil, fmt.Errorf("GetStudentScores: scan row: %w", err)
		}
		scores = append(scores, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudentScores: rows iteration: %w", err)
	}
	return scores, nil
}
