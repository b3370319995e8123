package learnify

import (
	"fmt"
	"time"
)

// ClassroomStore is the slice of the persistence adapter classroom
// management needs.
type ClassroomStore interface {
	Classroom(id string) (*Classroom, error)
	CreateClassroom(classroom *Classroom) error
	DeleteClassroom(id string) error
	CreatePost(classroomID string, post *Post) error
}

// ClassroomService owns classroom authoring and the announcement feed.
// Membership changes go through the join request workflow, never
// through this service.
type ClassroomService struct {
	store ClassroomStore
	now   func() time.Time
}

// NewClassroomService creates a classroom service backed by the given
// store.
func NewClassroomService(store ClassroomStore) *ClassroomService {
	return &ClassroomService{store: store, now: time.Now}
}

// Create stores a new classroom owned by the teacher, with a freshly
// generated join code and no members.
func (cs *ClassroomService) Create(teacherID, name, subject string) (*Classroom, error) {
	if name == "" {
		return nil, fmt.Errorf("classroom name is required")
	}
	classroom := &Classroom{
		ID:        NewID(),
		Name:      name,
		Subject:   subject,
		CreatedBy: teacherID,
		JoinCode:  NewJoinCode(),
	}
	if err := cs.store.CreateClassroom(classroom); err != nil {
		return nil, err
	}
	return classroom, nil
}

// Delete removes a classroom the teacher owns.
func (cs *ClassroomService) Delete(teacherID, classroomID string) error {
	classroom, err := cs.store.Classroom(classroomID)
	if err != nil {
		return err
	}
	if classroom.CreatedBy != teacherID {
		return fmt.Errorf("classroom %s is not owned by teacher %s: %w", classroomID, teacherID, ErrNotFound)
	}
	return cs.store.DeleteClassroom(classroomID)
}

// Post appends an announcement to a classroom the teacher owns and
// returns it.
func (cs *ClassroomService) Post(teacherID, teacherName, classroomID, content string) (*Post, error) {
	if content == "" {
		return nil, fmt.Errorf("post content is required")
	}
	classroom, err := cs.store.Classroom(classroomID)
	if err != nil {
		return nil, err
	}
	if classroom.CreatedBy != teacherID {
		return nil, fmt.Errorf("classroom %s is not owned by teacher %s: %w", classroomID, teacherID, ErrNotFound)
	}

	post := &Post{
		ID:         NewID(),
		Content:    content,
		AuthorName: teacherName,
		CreatedAt:  cs.now(),
	}
	if err := cs.store.CreatePost(classroomID, post); err != nil {
		return nil, err
	}
	return post, nil
}

// IsMember reports whether the student belongs to the classroom.
func (c *Classroom) IsMember(studentID string) bool {
	for _, id := range c.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}
