package learnify

import (
	"errors"
	"fmt"
	"time"
)

// JoinRequestStore is the slice of the persistence adapter the join
// request workflow needs.
type JoinRequestStore interface {
	Classroom(id string) (*Classroom, error)
	JoinRequest(id string) (*JoinRequest, error)
	JoinRequestForClassroomAndStudent(classroomID, studentID string) (*JoinRequest, error)
	CreateJoinRequest(req *JoinRequest) error
	UpdateJoinRequestStatus(id string, status JoinRequestStatus) error
	AddClassroomMember(classroomID, studentID string) error
}

// JoinRequestWorkflow mediates classroom membership through a
// request/approval protocol. The workflow trusts its caller on
// authorization: only the handler layer checks that the deciding user
// owns the classroom.
type JoinRequestWorkflow struct {
	store JoinRequestStore
	now   func() time.Time
}

// NewJoinRequestWorkflow creates a workflow backed by the given store.
func NewJoinRequestWorkflow(store JoinRequestStore) *JoinRequestWorkflow {
	return &JoinRequestWorkflow{store: store, now: time.Now}
}

// RequestToJoin creates a pending membership request.
//
// Fails with ErrNotFound when the classroom does not exist and with
// ErrDuplicateRequest when any request for the (classroom, student)
// pair already exists, terminal or not. Re-requesting after a denial is
// therefore not possible; product has been asked whether that is
// intended.
func (w *JoinRequestWorkflow) RequestToJoin(classroomID, studentID string) (*JoinRequest, error) {
	if _, err := w.store.Classroom(classroomID); err != nil {
		return nil, err
	}

	existing, err := w.store.JoinRequestForClassroomAndStudent(classroomID, studentID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to look up join request: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateRequest
	}

	req := &JoinRequest{
		ID:          NewID(),
		ClassroomID: classroomID,
		StudentID:   studentID,
		Status:      RequestPending,
		RequestedAt: w.now(),
	}
	if err := w.store.CreateJoinRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Decide settles a pending request. Outcome must be RequestApproved or
// RequestDenied; both are terminal.
//
// Approval adds the student to the classroom member set with set
// semantics, so deciding the same request twice (or racing a
// double-click) can never add a member twice. Denial changes only the
// request status. Fails with ErrNotFound for an unknown request and
// ErrInvalidTransition when the request is no longer pending.
func (w *JoinRequestWorkflow) Decide(requestID string, outcome JoinRequestStatus) (*JoinRequest, error) {
	if outcome != RequestApproved && outcome != RequestDenied {
		return nil, fmt.Errorf("outcome %q: %w", outcome, ErrInvalidTransition)
	}

	req, err := w.store.JoinRequest(requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != RequestPending {
		return nil, ErrInvalidTransition
	}

	if outcome == RequestApproved {
		if err := w.store.AddClassroomMember(req.ClassroomID, req.StudentID); err != nil {
			return nil, err
		}
	}
	if err := w.store.UpdateJoinRequestStatus(req.ID, outcome); err != nil {
		return nil, err
	}

	req.Status = outcome
	return req, nil
}
