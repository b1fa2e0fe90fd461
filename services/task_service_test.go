package services

import (
	"testing"
	"time"

	"taskmanager/models"
	"taskmanager/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTaskService(t *testing.T, db *gorm.DB) TaskService {
	t.Helper()
	return NewTaskService(repositories.NewTaskRepository(db))
}

func seedTask(t *testing.T, db *gorm.DB, task *models.Task) *models.Task {
	t.Helper()
	require.NoError(t, db.Create(task).Error)
	return task
}

func TestTaskInputValidate(t *testing.T) {
	t.Run("Valid input", func(t *testing.T) {
		in := &TaskInput{Title: "Water the plants", Description: "Balcony only", DueDate: "2026-09-15"}
		assert.Nil(t, in.Validate())
		require.NotNil(t, in.DueDateValue())
		assert.Equal(t, "2026-09-15", in.DueDateValue().Format(DueDateLayout))
	})

	t.Run("Missing title", func(t *testing.T) {
		in := &TaskInput{Title: "   "}
		errs := in.Validate()
		require.NotNil(t, errs)
		assert.Contains(t, errs, "title")
	})

	t.Run("Title too short", func(t *testing.T) {
		errs := (&TaskInput{Title: "ab"}).Validate()
		require.NotNil(t, errs)
		assert.Contains(t, errs, "title")
	})

	t.Run("Bad due date", func(t *testing.T) {
		errs := (&TaskInput{Title: "Water the plants", DueDate: "15/09/2026"}).Validate()
		require.NotNil(t, errs)
		assert.Contains(t, errs, "due_date")
		assert.NotContains(t, errs, "title")
	})

	t.Run("Due date is optional", func(t *testing.T) {
		in := &TaskInput{Title: "Water the plants"}
		assert.Nil(t, in.Validate())
		assert.Nil(t, in.DueDateValue())
	})
}

func TestCreateAndGetTask(t *testing.T) {
	db := setupTestDB(t)
	svc := newTaskService(t, db)

	created, err := svc.CreateTask(&models.Task{Title: "Write report", CreatorName: "Alice"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.GetTaskByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, "Alice", got.CreatorName)
	assert.False(t, got.Completed)

	_, err = svc.GetTaskByID(9999)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestUpdateTask(t *testing.T) {
	t.Run("Updates editable fields only", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newTaskService(t, db)

		due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		task := seedTask(t, db, &models.Task{Title: "Old title", CreatorName: "Alice", DueDate: &due, Completed: true})

		updated, err := svc.UpdateTask(task.ID, &models.Task{Title: "New title", Description: "Now with details"})
		require.NoError(t, err)

		assert.Equal(t, "New title", updated.Title)
		assert.Equal(t, "Now with details", updated.Description)
		assert.Nil(t, updated.DueDate)
		// The creator-name snapshot never changes, and completion state only
		// moves through the toggles.
		assert.Equal(t, "Alice", updated.CreatorName)
		assert.True(t, updated.Completed)
	})

	t.Run("Unknown task", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newTaskService(t, db)

		_, err := svc.UpdateTask(9999, &models.Task{Title: "New title"})
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestCreatorNameIsASnapshot(t *testing.T) {
	db := setupTestDB(t)
	seedRoles(t, db)
	taskSvc := newTaskService(t, db)
	userSvc := newUserService(t, db)

	user, err := userSvc.CreateUser(&CreateUserInput{Email: "a@x.com", Name: "Alice", Password: "secret"})
	require.NoError(t, err)

	task, err := taskSvc.CreateTask(&models.Task{Title: "Quarterly report", CreatorName: user.Name, OwnerID: &user.ID})
	require.NoError(t, err)

	// Renaming the user does not retroactively change past task records
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("name", "Alicia").Error)

	got, err := taskSvc.GetTaskByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.CreatorName)
	require.NotNil(t, got.Owner)
	assert.Equal(t, "Alicia", got.Owner.Name)
}

func TestCompletionToggles(t *testing.T) {
	db := setupTestDB(t)
	svc := newTaskService(t, db)

	task := seedTask(t, db, &models.Task{Title: "Review PR", CreatorName: "Alice"})

	require.NoError(t, svc.SetTaskCompleted(task.ID))
	got, err := svc.GetTaskByID(task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	require.NoError(t, svc.SetTaskNotCompleted(task.ID))
	got, err = svc.GetTaskByID(task.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)

	assert.ErrorIs(t, svc.SetTaskCompleted(9999), ErrTaskNotFound)
	assert.ErrorIs(t, svc.SetTaskNotCompleted(9999), ErrTaskNotFound)
}

func TestDeleteTask(t *testing.T) {
	db := setupTestDB(t)
	svc := newTaskService(t, db)

	task := seedTask(t, db, &models.Task{Title: "Throw away", CreatorName: "Alice"})

	require.NoError(t, svc.DeleteTask(task.ID))
	_, err := svc.GetTaskByID(task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	assert.ErrorIs(t, svc.DeleteTask(task.ID), ErrTaskNotFound)
}

func TestFindAllTasks(t *testing.T) {
	db := setupTestDB(t)
	svc := newTaskService(t, db)

	seedTask(t, db, &models.Task{Title: "First task", CreatorName: "Alice"})
	seedTask(t, db, &models.Task{Title: "Second task", CreatorName: "Bob", Completed: true})

	tasks, err := svc.FindAll()
	require.NoError(t, err)
	// Both list views receive every task; filtering is the consumer's job.
	assert.Len(t, tasks, 2)
}
