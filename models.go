package learnify

import "time"

// SkillLevel classifies quiz difficulty.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "Beginner"
	SkillIntermediate SkillLevel = "Intermediate"
	SkillAdvanced     SkillLevel = "Advanced"
)

// Role distinguishes the two kinds of accounts.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// User represents an account. Passwords are stored and compared as
// plaintext against the local user collection.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
}

// Question is a single multiple-choice question. CorrectAnswer must be
// one of Options.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// Quiz is an ordered set of questions owned by a teacher. Timer is in
// minutes; zero means untimed. ClassroomID and DueDate are optional.
type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Subject     string     `json:"subject"`
	SkillLevel  SkillLevel `json:"skill_level"`
	CreatedBy   string     `json:"created_by"` // teacher id
	Questions   []Question `json:"questions"`
	Timer       int        `json:"timer,omitempty"`
	ClassroomID string     `json:"classroom_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// QuizAttempt is one student's completed run through a quiz. Attempts
// are created once at submission and immutable thereafter. At most one
// attempt exists per (quiz, student) pair; the attempt engine enforces
// this, not storage.
type QuizAttempt struct {
	ID          string            `json:"id"`
	QuizID      string            `json:"quiz_id"`
	StudentID   string            `json:"student_id"`
	Answers     map[string]string `json:"answers"` // question id -> chosen option
	Score       float64           `json:"score"`   // percentage in [0,100]
	SubmittedAt time.Time         `json:"submitted_at"`
}

// Post is an announcement on a classroom feed.
type Post struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// Classroom groups students under a teacher. JoinCode is the short
// token students use to request membership.
type Classroom struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Subject    string   `json:"subject"`
	CreatedBy  string   `json:"created_by"` // teacher id
	JoinCode   string   `json:"join_code"`
	StudentIDs []string `json:"student_ids"`
	Posts      []Post   `json:"posts"`
}

// JoinRequestStatus is the state of a membership request.
type JoinRequestStatus string

const (
	RequestPending  JoinRequestStatus = "pending"
	RequestApproved JoinRequestStatus = "approved"
	RequestDenied   JoinRequestStatus = "denied"
)

// JoinRequest is a student's request to join a classroom. A request
// transitions pending -> approved or pending -> denied exactly once.
type JoinRequest struct {
	ID          string            `json:"id"`
	ClassroomID string            `json:"classroom_id"`
	StudentID   string            `json:"student_id"`
	Status      JoinRequestStatus `json:"status"`
	RequestedAt time.Time         `json:"requested_at"`
}

// QuizGenerationRequest asks the LLM for a fresh set of questions.
type QuizGenerationRequest struct {
	SourceContent string     `json:"source_content"` // topic or pasted text
	NumQuestions  int        `json:"num_questions"`
	SkillLevel    SkillLevel `json:"skill_level"`
}

// ExplanationRequest asks the LLM why a student's answer was wrong.
type ExplanationRequest struct {
	Question      string `json:"question"`
	StudentAnswer string `json:"student_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Topic         string `json:"topic"`
}
