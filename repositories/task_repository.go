package repositories

import (
	"taskmanager/models"

	"gorm.io/gorm"
)

// TaskRepository interface defines Task-related database operations
type TaskRepository interface {
	Create(task *models.Task) error
	FindByID(id uint) (*models.Task, error)
	FindAll() ([]models.Task, error)
	Update(task *models.Task) error
	Delete(task *models.Task) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository instance
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create creates a new Task
func (r *taskRepository) Create(task *models.Task) error {
	result := r.db.Create(task)
	return result.Error
}

// FindByID finds Task by ID, owner included
func (r *taskRepository) FindByID(id uint) (*models.Task, error) {
	var task models.Task
	result := r.db.Preload("Owner").First(&task, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &task, nil
}

// FindAll returns all Tasks, owner included
func (r *taskRepository) FindAll() ([]models.Task, error) {
	var tasks []models.Task
	result := r.db.Preload("Owner").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// Update updates Task information
func (r *taskRepository) Update(task *models.Task) error {
	result := r.db.Save(task)
	return result.Error
}

// Delete deletes Task
func (r *taskRepository) Delete(task *models.Task) error {
	result := r.db.Delete(task)
	return result.Error
}
