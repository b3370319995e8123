package learnify

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the persistence adapter. Each collection (users, quizzes,
// quiz attempts, classrooms, join requests) is independently
// addressable. Read-modify-write with no locking: the system assumes a
// single writer (see DESIGN.md).
type Store struct {
	db *sql.DB
}

// OpenStore opens the database, creates missing tables and seeds the
// built-in defaults on first access.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.seedIfEmpty(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL,
			name TEXT NOT NULL,
			password TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS quizzes (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			subject TEXT NOT NULL,
			skill_level TEXT NOT NULL,
			created_by TEXT NOT NULL,
			timer_minutes INTEGER NOT NULL DEFAULT 0,
			classroom_id TEXT NOT NULL DEFAULT '',
			due_date DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id TEXT NOT NULL,
			quiz_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			options TEXT NOT NULL,
			correct_answer TEXT NOT NULL,
			PRIMARY KEY (quiz_id, id),
			FOREIGN KEY (quiz_id) REFERENCES quizzes(id)
		)`,
		`CREATE TABLE IF NOT EXISTS quiz_attempts (
			id TEXT PRIMARY KEY,
			quiz_id TEXT NOT NULL,
			student_id TEXT NOT NULL,
			answers TEXT NOT NULL,
			score REAL NOT NULL,
			submitted_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS classrooms (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			subject TEXT NOT NULL,
			created_by TEXT NOT NULL,
			join_code TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS classroom_members (
			classroom_id TEXT NOT NULL,
			student_id TEXT NOT NULL,
			PRIMARY KEY (classroom_id, student_id)
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id TEXT PRIMARY KEY,
			classroom_id TEXT NOT NULL,
			content TEXT NOT NULL,
			author_name TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS join_requests (
			id TEXT PRIMARY KEY,
			classroom_id TEXT NOT NULL,
			student_id TEXT NOT NULL,
			status TEXT NOT NULL,
			requested_at DATETIME NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute %s: %w", query, err)
		}
	}
	return nil
}

// --- users ---

// CreateUser inserts a new user.
func (s *Store) CreateUser(user *User) error {
	_, err := s.db.Exec(
		"INSERT INTO users (id, email, role, name, password) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Email, user.Role, user.Name, user.Password,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// User retrieves a user by id.
func (s *Store) User(id string) (*User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT id, email, role, name, password FROM users WHERE id = ?", id))
}

// UserByEmail retrieves a user by email.
func (s *Store) UserByEmail(email string) (*User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT id, email, role, name, password FROM users WHERE email = ?", email))
}

func (s *Store) scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Role, &u.Name, &u.Password)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// UsersByRole retrieves all users with the given role.
func (s *Store) UsersByRole(role Role) ([]User, error) {
	rows, err := s.db.Query(
		"SELECT id, email, role, name, password FROM users WHERE role = ? ORDER BY name", role)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Role, &u.Name, &u.Password); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

func (s *Store) countUsers() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// --- quizzes ---

// CreateQuiz inserts a quiz and its questions in one transaction.
func (s *Store) CreateQuiz(quiz *Quiz) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var due interface{}
	if quiz.DueDate != nil {
		due = *quiz.DueDate
	}
	_, err = tx.Exec(
		"INSERT INTO quizzes (id, title, subject, skill_level, created_by, timer_minutes, classroom_id, due_date) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		quiz.ID, quiz.Title, quiz.Subject, quiz.SkillLevel, quiz.CreatedBy, quiz.Timer, quiz.ClassroomID, due,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}

	if err := insertQuestions(tx, quiz.ID, quiz.Questions); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit quiz: %w", err)
	}
	return nil
}

func insertQuestions(tx *sql.Tx, quizID string, questions []Question) error {
	for i, q := range questions {
		optionsJSON, err := OptionsToJSON(q.Options)
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			"INSERT INTO questions (id, quiz_id, position, text, options, correct_answer) VALUES (?, ?, ?, ?, ?, ?)",
			q.ID, quizID, i, q.Text, optionsJSON, q.CorrectAnswer,
		)
		if err != nil {
			return fmt.Errorf("failed to create question: %w", err)
		}
	}
	return nil
}

// UpdateQuiz overwrites a quiz and replaces its question set.
func (s *Store) UpdateQuiz(quiz *Quiz) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var due interface{}
	if quiz.DueDate != nil {
		due = *quiz.DueDate
	}
	res, err := tx.Exec(
		"UPDATE quizzes SET title = ?, subject = ?, skill_level = ?, timer_minutes = ?, classroom_id = ?, due_date = ? WHERE id = ?",
		quiz.Title, quiz.Subject, quiz.SkillLevel, quiz.Timer, quiz.ClassroomID, due, quiz.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update quiz: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("quiz %s: %w", quiz.ID, ErrNotFound)
	}

	if _, err := tx.Exec("DELETE FROM questions WHERE quiz_id = ?", quiz.ID); err != nil {
		return fmt.Errorf("failed to clear questions: %w", err)
	}
	if err := insertQuestions(tx, quiz.ID, quiz.Questions); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit quiz: %w", err)
	}
	return nil
}

// DeleteQuiz removes a quiz and its questions.
func (s *Store) DeleteQuiz(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM questions WHERE quiz_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete questions: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM quizzes WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// Quiz retrieves a quiz by id, questions in their defined order.
func (s *Store) Quiz(id string) (*Quiz, error) {
	var (
		quiz Quiz
		due  sql.NullTime
	)
	err := s.db.QueryRow(
		"SELECT id, title, subject, skill_level, created_by, timer_minutes, classroom_id, due_date FROM quizzes WHERE id = ?",
		id,
	).Scan(&quiz.ID, &quiz.Title, &quiz.Subject, &quiz.SkillLevel, &quiz.CreatedBy, &quiz.Timer, &quiz.ClassroomID, &due)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("quiz %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if due.Valid {
		t := due.Time
		quiz.DueDate = &t
	}

	questions, err := s.questionsForQuiz(id)
	if err != nil {
		return nil, err
	}
	quiz.Questions = questions
	return &quiz, nil
}

func (s *Store) questionsForQuiz(quizID string) ([]Question, error) {
	rows, err := s.db.Query(
		"SELECT id, text, options, correct_answer FROM questions WHERE quiz_id = ? ORDER BY position",
		quizID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var (
			q           Question
			optionsJSON string
		)
		if err := rows.Scan(&q.ID, &q.Text, &optionsJSON, &q.CorrectAnswer); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		options, err := JSONToOptions(optionsJSON)
		if err != nil {
			return nil, err
		}
		q.Options = options
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	return questions, nil
}

// QuizFilter narrows ListQuizzes. Zero values match everything.
type QuizFilter struct {
	Search      string // case-insensitive title substring
	Subject     string
	SkillLevel  SkillLevel
	CreatedBy   string
	ClassroomID string
}

// ListQuizzes retrieves quizzes matching the filter, including their
// questions.
func (s *Store) ListQuizzes(filter QuizFilter) ([]Quiz, error) {
	query := "SELECT id FROM quizzes WHERE 1=1"
	var args []interface{}
	if filter.Search != "" {
		query += " AND LOWER(title) LIKE ?"
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Subject != "" {
		query += " AND subject = ?"
		args = append(args, filter.Subject)
	}
	if filter.SkillLevel != "" {
		query += " AND skill_level = ?"
		args = append(args, filter.SkillLevel)
	}
	if filter.CreatedBy != "" {
		query += " AND created_by = ?"
		args = append(args, filter.CreatedBy)
	}
	if filter.ClassroomID != "" {
		query += " AND classroom_id = ?"
		args = append(args, filter.ClassroomID)
	}
	query += " ORDER BY title"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan quiz id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quizzes: %w", err)
	}

	quizzes := make([]Quiz, 0, len(ids))
	for _, id := range ids {
		quiz, err := s.Quiz(id)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, *quiz)
	}
	return quizzes, nil
}

func (s *Store) countQuizzes() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM quizzes").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count quizzes: %w", err)
	}
	return n, nil
}

// --- quiz attempts ---

// CreateAttempt appends a new attempt. Attempts are immutable.
func (s *Store) CreateAttempt(attempt *QuizAttempt) error {
	answersJSON, err := json.Marshal(attempt.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT INTO quiz_attempts (id, quiz_id, student_id, answers, score, submitted_at) VALUES (?, ?, ?, ?, ?, ?)",
		attempt.ID, attempt.QuizID, attempt.StudentID, string(answersJSON), attempt.Score, attempt.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create attempt: %w", err)
	}
	return nil
}

// AttemptForQuizAndStudent retrieves the attempt for a (quiz, student)
// pair, or ErrNotFound when the student has not attempted the quiz.
func (s *Store) AttemptForQuizAndStudent(quizID, studentID string) (*QuizAttempt, error) {
	row := s.db.QueryRow(
		"SELECT id, quiz_id, student_id, answers, score, submitted_at FROM quiz_attempts WHERE quiz_id = ? AND student_id = ?",
		quizID, studentID,
	)
	return scanAttempt(row)
}

func scanAttempt(row *sql.Row) (*QuizAttempt, error) {
	var (
		a           QuizAttempt
		answersJSON string
	)
	err := row.Scan(&a.ID, &a.QuizID, &a.StudentID, &answersJSON, &a.Score, &a.SubmittedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("attempt: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if err := json.Unmarshal([]byte(answersJSON), &a.Answers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
	}
	return &a, nil
}

// ListAttemptsByQuiz retrieves all attempts for a quiz, newest first.
func (s *Store) ListAttemptsByQuiz(quizID string) ([]QuizAttempt, error) {
	return s.listAttempts("quiz_id", quizID)
}

// ListAttemptsByStudent retrieves all of a student's attempts, newest
// first.
func (s *Store) ListAttemptsByStudent(studentID string) ([]QuizAttempt, error) {
	return s.listAttempts("student_id", studentID)
}

func (s *Store) listAttempts(column, value string) ([]QuizAttempt, error) {
	rows, err := s.db.Query(
		"SELECT id, quiz_id, student_id, answers, score, submitted_at FROM quiz_attempts WHERE "+column+" = ? ORDER BY submitted_at DESC",
		value,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []QuizAttempt
	for rows.Next() {
		var (
			a           QuizAttempt
			answersJSON string
		)
		if err := rows.Scan(&a.ID, &a.QuizID, &a.StudentID, &answersJSON, &a.Score, &a.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		if err := json.Unmarshal([]byte(answersJSON), &a.Answers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attempts: %w", err)
	}
	return attempts, nil
}

// --- classrooms ---

// CreateClassroom inserts a new classroom.
func (s *Store) CreateClassroom(classroom *Classroom) error {
	_, err := s.db.Exec(
		"INSERT INTO classrooms (id, name, subject, created_by, join_code) VALUES (?, ?, ?, ?, ?)",
		classroom.ID, classroom.Name, classroom.Subject, classroom.CreatedBy, classroom.JoinCode,
	)
	if err != nil {
		return fmt.Errorf("failed to create classroom: %w", err)
	}
	return nil
}

// Classroom retrieves a classroom with its member set and posts
// (newest first).
func (s *Store) Classroom(id string) (*Classroom, error) {
	var c Classroom
	err := s.db.QueryRow(
		"SELECT id, name, subject, created_by, join_code FROM classrooms WHERE id = ?", id,
	).Scan(&c.ID, &c.Name, &c.Subject, &c.CreatedBy, &c.JoinCode)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("classroom %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}
	if err := s.fillClassroom(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ClassroomByJoinCode resolves a join code to its classroom.
func (s *Store) ClassroomByJoinCode(code string) (*Classroom, error) {
	var id string
	err := s.db.QueryRow("SELECT id FROM classrooms WHERE join_code = ?", code).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("join code %s: %w", code, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve join code: %w", err)
	}
	return s.Classroom(id)
}

func (s *Store) fillClassroom(c *Classroom) error {
	rows, err := s.db.Query(
		"SELECT student_id FROM classroom_members WHERE classroom_id = ? ORDER BY student_id", c.ID)
	if err != nil {
		return fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan member: %w", err)
		}
		c.StudentIDs = append(c.StudentIDs, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating members: %w", err)
	}

	posts, err := s.db.Query(
		"SELECT id, content, author_name, created_at FROM posts WHERE classroom_id = ? ORDER BY created_at DESC",
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get posts: %w", err)
	}
	defer posts.Close()
	for posts.Next() {
		var p Post
		if err := posts.Scan(&p.ID, &p.Content, &p.AuthorName, &p.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan post: %w", err)
		}
		c.Posts = append(c.Posts, p)
	}
	if err := posts.Err(); err != nil {
		return fmt.Errorf("error iterating posts: %w", err)
	}
	return nil
}

// ListClassroomsByTeacher retrieves the classrooms a teacher owns.
func (s *Store) ListClassroomsByTeacher(teacherID string) ([]Classroom, error) {
	return s.listClassrooms(
		"SELECT id FROM classrooms WHERE created_by = ? ORDER BY name", teacherID)
}

// ListClassroomsByStudent retrieves the classrooms a student belongs to.
func (s *Store) ListClassroomsByStudent(studentID string) ([]Classroom, error) {
	return s.listClassrooms(
		"SELECT classroom_id FROM classroom_members WHERE student_id = ?", studentID)
}

func (s *Store) listClassrooms(query, arg string) ([]Classroom, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list classrooms: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan classroom id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating classrooms: %w", err)
	}

	classrooms := make([]Classroom, 0, len(ids))
	for _, id := range ids {
		c, err := s.Classroom(id)
		if err != nil {
			return nil, err
		}
		classrooms = append(classrooms, *c)
	}
	return classrooms, nil
}

// AddClassroomMember adds a student to the member set. Idempotent: a
// second add of the same student is a no-op.
func (s *Store) AddClassroomMember(classroomID, studentID string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO classroom_members (classroom_id, student_id) VALUES (?, ?)",
		classroomID, studentID,
	)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// CreatePost appends a post to a classroom feed.
func (s *Store) CreatePost(classroomID string, post *Post) error {
	_, err := s.db.Exec(
		"INSERT INTO posts (id, classroom_id, content, author_name, created_at) VALUES (?, ?, ?, ?, ?)",
		post.ID, classroomID, post.Content, post.AuthorName, post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// DeleteClassroom removes a classroom, its member set and posts.
func (s *Store) DeleteClassroom(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM classroom_members WHERE classroom_id = ?",
		"DELETE FROM posts WHERE classroom_id = ?",
		"DELETE FROM classrooms WHERE id = ?",
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("failed to delete classroom: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// --- join requests ---

// CreateJoinRequest inserts a new join request.
func (s *Store) CreateJoinRequest(req *JoinRequest) error {
	_, err := s.db.Exec(
		"INSERT INTO join_requests (id, classroom_id, student_id, status, requested_at) VALUES (?, ?, ?, ?, ?)",
		req.ID, req.ClassroomID, req.StudentID, req.Status, req.RequestedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create join request: %w", err)
	}
	return nil
}

// JoinRequest retrieves a join request by id.
func (s *Store) JoinRequest(id string) (*JoinRequest, error) {
	row := s.db.QueryRow(
		"SELECT id, classroom_id, student_id, status, requested_at FROM join_requests WHERE id = ?", id)
	var r JoinRequest
	err := row.Scan(&r.ID, &r.ClassroomID, &r.StudentID, &r.Status, &r.RequestedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("join request %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get join request: %w", err)
	}
	return &r, nil
}

// JoinRequestForClassroomAndStudent retrieves any request for the pair,
// whatever its status, or ErrNotFound.
func (s *Store) JoinRequestForClassroomAndStudent(classroomID, studentID string) (*JoinRequest, error) {
	row := s.db.QueryRow(
		"SELECT id, classroom_id, student_id, status, requested_at FROM join_requests WHERE classroom_id = ? AND student_id = ?",
		classroomID, studentID,
	)
	var r JoinRequest
	err := row.Scan(&r.ID, &r.ClassroomID, &r.StudentID, &r.Status, &r.RequestedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("join request: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get join request: %w", err)
	}
	return &r, nil
}

// ListJoinRequestsByClassroom retrieves all requests for a classroom,
// oldest first.
func (s *Store) ListJoinRequestsByClassroom(classroomID string) ([]JoinRequest, error) {
	rows, err := s.db.Query(
		"SELECT id, classroom_id, student_id, status, requested_at FROM join_requests WHERE classroom_id = ? ORDER BY requested_at",
		classroomID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}
	defer rows.Close()

	var requests []JoinRequest
	for rows.Next() {
		var r JoinRequest
		if err := rows.Scan(&r.ID, &r.ClassroomID, &r.StudentID, &r.Status, &r.RequestedAt); err != nil {
			return nil, fmt.Errorf("failed to scan join request: %w", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating join requests: %w", err)
	}
	return requests, nil
}

// UpdateJoinRequestStatus sets the status of a request.
func (s *Store) UpdateJoinRequestStatus(id string, status JoinRequestStatus) error {
	res, err := s.db.Exec("UPDATE join_requests SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("failed to update join request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("join request %s: %w", id, ErrNotFound)
	}
	return nil
}

// OptionsToJSON converts an options slice to its JSON column value.
func OptionsToJSON(options []string) (string, error) {
	data, err := json.Marshal(options)
	if err != nil {
		return "", fmt.Errorf("failed to marshal options: %w", err)
	}
	return string(data), nil
}

// JSONToOptions converts a JSON column value back to an options slice.
func JSONToOptions(optionsJSON string) ([]string, error) {
	var options []string
	if err := json.Unmarshal([]byte(optionsJSON), &options); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	return options, nil
}
