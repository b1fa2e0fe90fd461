package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"taskmanager/models"
	"taskmanager/repositories"

	"gorm.io/gorm"
)

// DueDateLayout is the wire format for task due dates.
const DueDateLayout = "2006-01-02"

// The TaskService interface defines the task CRUD operations plus the
// completion-state toggles.
type TaskService interface {
	FindAll() ([]models.Task, error)
	GetTaskByID(id uint) (*models.Task, error)
	CreateTask(task *models.Task) (*models.Task, error)
	UpdateTask(id uint, task *models.Task) (*models.Task, error)
	DeleteTask(id uint) error
	SetTaskCompleted(id uint) error
	SetTaskNotCompleted(id uint) error
}

// TaskInput carries the task form fields as submitted.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date,omitempty"`
	OwnerID     *uint  `json:"owner_id,omitempty"`
}

// ValidationErrors maps a field name to a human-readable problem with it.
type ValidationErrors map[string]string

// Validate checks the submitted fields and returns nil when the input is
// acceptable. It is a pure function of the input, independent of any request
// context; the controller decides what to do with a non-nil result.
func (in *TaskInput) Validate() ValidationErrors {
	errs := ValidationErrors{}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		errs["title"] = "Title is required"
	} else if len(title) < 3 || len(title) > 255 {
		errs["title"] = "Title must be between 3 and 255 characters"
	}

	if in.DueDate != "" {
		if _, err := time.Parse(DueDateLayout, in.DueDate); err != nil {
			errs["due_date"] = "Due date must use the YYYY-MM-DD format"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// DueDateValue returns the parsed due date, or nil when none was submitted.
// Call Validate first; an unparseable date yields nil here.
func (in *TaskInput) DueDateValue() *time.Time {
	if in.DueDate == "" {
		return nil
	}
	t, err := time.Parse(DueDateLayout, in.DueDate)
	if err != nil {
		return nil
	}
	return &t
}

type taskService struct {
	taskRepo repositories.TaskRepository
}

var _ TaskService = (*taskService)(nil)

// NewTaskService creates a new TaskService instance
func NewTaskService(taskRepo repositories.TaskRepository) TaskService {
	return &taskService{taskRepo: taskRepo}
}

// FindAll returns every task. Both list views receive the full set; filtering
// in-progress tasks is the consumer's job.
func (s *taskService) FindAll() ([]models.Task, error) {
	return s.taskRepo.FindAll()
}

// GetTaskByID returns the task or ErrTaskNotFound.
func (s *taskService) GetTaskByID(id uint) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("retrieving task: %w", err)
	}
	return task, nil
}

// CreateTask persists a new task and returns the stored record.
func (s *taskService) CreateTask(task *models.Task) (*models.Task, error) {
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return s.taskRepo.FindByID(task.ID)
}

// UpdateTask applies the editable fields of the submitted task to the stored
// record. The creator-name snapshot never changes, and completion state only
// moves through the mark done/undone toggles.
func (s *taskService) UpdateTask(id uint, task *models.Task) (*models.Task, error) {
	existing, err := s.GetTaskByID(id)
	if err != nil {
		return nil, err
	}

	existing.Title = task.Title
	existing.Description = task.Description
	existing.DueDate = task.DueDate
	existing.OwnerID = task.OwnerID
	existing.Owner = nil // let the association be reloaded from OwnerID

	if err := s.taskRepo.Update(existing); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return s.taskRepo.FindByID(id)
}

// DeleteTask removes the task or returns ErrTaskNotFound.
func (s *taskService) DeleteTask(id uint) error {
	task, err := s.GetTaskByID(id)
	if err != nil {
		return err
	}
	if err := s.taskRepo.Delete(task); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// SetTaskCompleted marks the task done.
func (s *taskService) SetTaskCompleted(id uint) error {
	return s.setCompleted(id, true)
}

// SetTaskNotCompleted marks the task not done.
func (s *taskService) SetTaskNotCompleted(id uint) error {
	return s.setCompleted(id, false)
}

func (s *taskService) setCompleted(id uint, completed bool) error {
	task, err := s.GetTaskByID(id)
	if err != nil {
		return err
	}
	task.Completed = completed
	if err := s.taskRepo.Update(task); err != nil {
		return fmt.Errorf("failed to update task completion: %w", err)
	}
	return nil
}
