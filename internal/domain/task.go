package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TaskStatus represents the progress state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusOpen       TaskStatus = "OPEN"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// Length limits for task text fields, counted in characters.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// Validation errors specific to Task
var (
	ErrEmptyTaskID     = errors.New("task ID cannot be empty")
	ErrEmptyTaskUserID = errors.New("task user ID cannot be empty")
)

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTask creates a new OPEN task for userID.
// The title is trimmed of surrounding whitespace and must not be empty.
func NewTask(userID uuid.UUID, title, description string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      TaskStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}

	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}

	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}

	if !isValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	return nil
}

// UpdateStatus changes the task's status and bumps UpdatedAt.
func (t *Task) UpdateStatus(s TaskStatus) error {
	if !isValidTaskStatus(s) {
		return ErrInvalidTaskStatus
	}

	t.Status = s
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// ParseTaskStatus converts raw input to a TaskStatus. Matching is exact;
// "done" is rejected just like "FINISHED".
func ParseTaskStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(raw)
	if !isValidTaskStatus(s) {
		return "", ErrInvalidTaskStatus
	}
	return s, nil
}

// TaskStatuses lists every valid status in workflow order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusOpen, TaskStatusInProgress, TaskStatusDone}
}

// isValidTaskStatus checks if the given status is a valid TaskStatus.
func isValidTaskStatus(s TaskStatus) bool {
	for _, known := range TaskStatuses() {
		if s == known {
			return true
		}
	}
	return false
}
