package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"taskmanager/auth"
	"taskmanager/models"
	"taskmanager/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
)

// TaskController is the HTTP-facing orchestration for tasks: it resolves the
// signed-in identity, applies the admin-vs-user visibility rules, assembles
// response data and dispatches create/edit/delete/complete actions.
type TaskController struct {
	taskService services.TaskService
	userService services.UserService
}

// NewTaskController creates a new TaskController instance
func NewTaskController(taskService services.TaskService, userService services.UserService) *TaskController {
	return &TaskController{taskService: taskService, userService: userService}
}

// RegisterRoutes sets up the task-related routes on a go-restful WebService.
// All routes require an authenticated caller.
func (ctl *TaskController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)

	ws.Route(ws.GET("/tasks").Filter(auth.AuthFilter()).To(ctl.listTasksHandler).
		Doc("List all tasks with the data both list views share").
		Metadata(restfulspec.KeyOpenAPITags, []string{"tasks"}).
		Writes(TasksListResponse{}).
		Returns(http.StatusOK, "Task list", TasksListResponse{}).
		Returns(http.StatusUnauthorized, "Unauthorized", nil))

	ws.Route(ws.GET("/tasks/inProgress").Filter(auth.AuthFilter()).To(ctl.listTasksInProgressHandler).
		Doc("List tasks flagged for the in-progress-only view").
		Metadata(restfulspec.KeyOpenAPITags, []string{"tasks"}).
		Writes(TasksListResponse{}).
		Returns(http.StatusOK, "Task list", TasksListResponse{}).
		Returns(http.StatusUnauthorized, "Unauthorized", nil))

	ws.Route(ws.GET("/task/create").Filter(auth.AuthFilter()).To(ctl.showEmptyTaskFormHandler).
		Doc("Empty task form model, owner pre-filled per role").
		Metadata(restfulspec.KeyOpenAPITags, []string{"tasks"}).
		Writes(TaskFormResponse{}).
		Returns(http.StatusOK, "Form model", TaskFormResponse{}).
		Returns(http.StatusUnauthorized, "Unauthorized", nil))

	ws.Route(ws.POST("/task/create").Filter(auth.AuthFilter()).To(ctl.createTaskHandler).
		Doc("Validate and create a task").
		Metadata(restfulspec.KeyOpenAPITags, []string{"tasks"}).
		Reads(services.TaskInput{}).
		Returns(http.StatusSeeOther, "Created, redirecting to /tasks", nil).
		Returns(http.StatusUnprocessableEntity, "Validation failed, form redisplayed", TaskFormResponse{}).
		Returns(http.StatusBadRequest, "Invalid request body", nil))

	ws.Route(ws.GET("/task/edit/{task-id}").Filter(auth.AuthFilter()).To(ctl.showFilledTaskFormHandler).
		Doc("Pre-filled edit form model for a task").
		Param(ws.PathParameter("task-id", "Identifier of the task").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"tasks"}).
		Writes(TaskFormResponse{}).
		Returns(http.StatusOK, "Form model", TaskFormResponse{}).
		Returns(http.StatusNotFound, "Task not found", nil))

	ws.Route(ws.POST("/task/edit/{task-id}").Filter(auth.AuthFilter()).To(ctl.updateTaskHandler).
		Doc("Validate and update a task").
		Param(ws.PathParameter("task-id", "Identifier of the task").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"tasks"}).
		Reads(services.TaskInput{}).
		Returns(http.StatusSeeOther, "Updated, redirecting to /tasks", nil).
		Returns(http.StatusUnprocessableEntity, "Validation failed, form redisplayed", TaskFormResponse{}).
		Returns(http.StatusNotFound, "Task not found", nil).
		Returns(http.StatusForbidden, "Forbidden", nil))

	ws.Route(ws.GET("/task/delete/{task-id}").Filter(auth.AuthFilter()).To(ctl.deleteTaskHandler).
		Doc("Delete a task").
		Param(ws.PathParameter("task-id", "Identifier of the task").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"tasks"}).
		Returns(http.StatusSeeOther, "Deleted, redirecting to /tasks", nil).
		Returns(http.StatusNotFound, "Task not found", nil).
		Returns(http.StatusForbidden, "Forbidden", nil))

	ws.Route(ws.GET("/task/markDone/{task-id}").Filter(auth.AuthFilter()).To(ctl.markDoneHandler).
		Doc("Mark a task completed").
		Param(ws.PathParameter("task-id", "Identifier of the task").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"tasks"}).
		Returns(http.StatusSeeOther, "Marked done, redirecting to /tasks", nil).
		Returns(http.StatusNotFound, "Task not found", nil).
		Returns(http.StatusForbidden, "Forbidden", nil))

	ws.Route(ws.GET("/task/markUndone/{task-id}").Filter(auth.AuthFilter()).To(ctl.markUndoneHandler).
		Doc("Mark a task not completed").
		Param(ws.PathParameter("task-id", "Identifier of the task").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"tasks"}).
		Returns(http.StatusSeeOther, "Marked undone, redirecting to /tasks", nil).
		Returns(http.StatusNotFound, "Task not found", nil).
		Returns(http.StatusForbidden, "Forbidden", nil))
}

// prepareTasksListResponse builds the base data both list views receive: all
// tasks, all users, the signed user and the admin flag. The in-progress flag
// only tells the consumer which filter to apply.
func (ctl *TaskController) prepareTasksListResponse(identity auth.Identity, onlyInProgress bool) (*TasksListResponse, error) {
	signedUser, err := ctl.userService.GetUserByEmail(identity.Email)
	if err != nil {
		return nil, err
	}

	tasks, err := ctl.taskService.FindAll()
	if err != nil {
		return nil, err
	}
	users, err := ctl.userService.FindAll()
	if err != nil {
		return nil, err
	}

	taskViews := make([]TaskView, len(tasks))
	for i := range tasks {
		taskViews[i] = mapModelToTaskView(&tasks[i])
	}
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = mapModelToUserResponse(&users[i])
	}

	return &TasksListResponse{
		Tasks:          taskViews,
		Users:          userResponses,
		SignedUser:     mapModelToUserResponse(signedUser),
		IsAdminSigned:  auth.HasRole(identity.Roles, models.RoleAdmin),
		OnlyInProgress: onlyInProgress,
	}, nil
}

// listTasksHandler (Handles GET /tasks)
func (ctl *TaskController) listTasksHandler(request *restful.Request, response *restful.Response) {
	ctl.listTasks(request, response, false)
}

// listTasksInProgressHandler (Handles GET /tasks/inProgress)
func (ctl *TaskController) listTasksInProgressHandler(request *restful.Request, response *restful.Response) {
	ctl.listTasks(request, response, true)
}

func (ctl *TaskController) listTasks(request *restful.Request, response *restful.Response, onlyInProgress bool) {
	identity, ok := requestIdentity(request, response)
	if !ok {
		return
	}

	list, err := ctl.prepareTasksListResponse(identity, onlyInProgress)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, list, restful.MIME_JSON)
}

// showEmptyTaskFormHandler (Handles GET /task/create) builds an empty task
// with the creator-name snapshot set to the signed user's display name.
// Regular users can only create tasks for themselves, so for a "USER" caller
// the owner is pre-assigned; admins get an unassigned owner and pick one.
func (ctl *TaskController) showEmptyTaskFormHandler(request *restful.Request, response *restful.Response) {
	identity, ok := requestIdentity(request, response)
	if !ok {
		return
	}

	signedUser, err := ctl.userService.GetUserByEmail(identity.Email)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	task := TaskView{CreatorName: signedUser.Name}
	if auth.HasRole(identity.Roles, models.RoleUser) {
		ownerID := signedUser.ID
		task.OwnerID = &ownerID
		owner := mapModelToUserResponse(signedUser)
		task.Owner = &owner
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, TaskFormResponse{Task: task}, restful.MIME_JSON)
}

// createTaskHandler (Handles POST /task/create)
func (ctl *TaskController) createTaskHandler(request *restful.Request, response *restful.Response) {
	identity, ok := requestIdentity(request, response)
	if !ok {
		return
	}

	input := new(services.TaskInput)
	if err := request.ReadEntity(input); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, map[string]string{"message": "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	signedUser, err := ctl.userService.GetUserByEmail(identity.Email)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	if errs := input.Validate(); errs != nil {
		ctl.redisplayForm(response, 0, input, signedUser.Name, errs)
		return
	}

	task := &models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		DueDate:     input.DueDateValue(),
		CreatorName: signedUser.Name,
		OwnerID:     input.OwnerID,
	}

	if _, err := ctl.taskService.CreateTask(task); err != nil {
		handleServiceError(response, err)
		return
	}

	redirectToTasks(response)
}

// showFilledTaskFormHandler (Handles GET /task/edit/{task-id})
func (ctl *TaskController) showFilledTaskFormHandler(request *restful.Request, response *restful.Response) {
	if _, ok := requestIdentity(request, response); !ok {
		return
	}

	taskID, ok := taskIDFromPath(request, response)
	if !ok {
		return
	}

	task, err := ctl.taskService.GetTaskByID(taskID)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, TaskFormResponse{Task: mapModelToTaskView(task)}, restful.MIME_JSON)
}

// updateTaskHandler (Handles POST /task/edit/{task-id})
func (ctl *TaskController) updateTaskHandler(request *restful.Request, response *restful.Response) {
	identity, ok := requestIdentity(request, response)
	if !ok {
		return
	}

	taskID, ok := taskIDFromPath(request, response)
	if !ok {
		return
	}

	existing, err := ctl.taskService.GetTaskByID(taskID)
	if err != nil {
		handleServiceError(response, err)
		return
	}
	if !canChangeTask(identity, existing) {
		writeForbiddenTaskChange(response)
		return
	}

	input := new(services.TaskInput)
	if err := request.ReadEntity(input); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, map[string]string{"message": "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	if errs := input.Validate(); errs != nil {
		// Redisplay with the submitted data; the stored record is untouched.
		ctl.redisplayForm(response, taskID, input, existing.CreatorName, errs)
		return
	}

	task := &models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		DueDate:     input.DueDateValue(),
		OwnerID:     input.OwnerID,
	}

	if _, err := ctl.taskService.UpdateTask(taskID, task); err != nil {
		handleServiceError(response, err)
		return
	}

	redirectToTasks(response)
}

// deleteTaskHandler (Handles GET /task/delete/{task-id})
func (ctl *TaskController) deleteTaskHandler(request *restful.Request, response *restful.Response) {
	ctl.singleTaskAction(request, response, ctl.taskService.DeleteTask)
}

// markDoneHandler (Handles GET /task/markDone/{task-id})
func (ctl *TaskController) markDoneHandler(request *restful.Request, response *restful.Response) {
	ctl.singleTaskAction(request, response, ctl.taskService.SetTaskCompleted)
}

// markUndoneHandler (Handles GET /task/markUndone/{task-id})
func (ctl *TaskController) markUndoneHandler(request *restful.Request, response *restful.Response) {
	ctl.singleTaskAction(request, response, ctl.taskService.SetTaskNotCompleted)
}

// singleTaskAction delegates one state change to the task service and
// redirects back to the task list. An unknown id answers 404.
func (ctl *TaskController) singleTaskAction(request *restful.Request, response *restful.Response, action func(uint) error) {
	identity, ok := requestIdentity(request, response)
	if !ok {
		return
	}

	taskID, ok := taskIDFromPath(request, response)
	if !ok {
		return
	}

	task, err := ctl.taskService.GetTaskByID(taskID)
	if err != nil {
		handleServiceError(response, err)
		return
	}
	if !canChangeTask(identity, task) {
		writeForbiddenTaskChange(response)
		return
	}

	if err := action(taskID); err != nil {
		handleServiceError(response, err)
		return
	}

	redirectToTasks(response)
}

func (ctl *TaskController) redisplayForm(response *restful.Response, taskID uint, input *services.TaskInput, creatorName string, errs services.ValidationErrors) {
	form := TaskFormResponse{
		Task: TaskView{
			ID:          taskID,
			Title:       input.Title,
			Description: input.Description,
			DueDate:     input.DueDate,
			CreatorName: creatorName,
			OwnerID:     input.OwnerID,
		},
		Errors: errs,
	}
	_ = response.WriteHeaderAndJson(http.StatusUnprocessableEntity, form, restful.MIME_JSON)
}

// canChangeTask is the write-authorization rule: admins may change any task,
// regular users only tasks they own.
func canChangeTask(identity auth.Identity, task *models.Task) bool {
	if identity.IsAdmin() {
		return true
	}
	return task.OwnerID != nil && *task.OwnerID == identity.UserID
}

func writeForbiddenTaskChange(response *restful.Response) {
	_ = response.WriteHeaderAndJson(http.StatusForbidden, map[string]string{"message": "Forbidden: only admins or the task owner may change this task"}, restful.MIME_JSON)
}

func taskIDFromPath(request *restful.Request, response *restful.Response) (uint, bool) {
	idStr := request.PathParameter("task-id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, map[string]string{"message": "Invalid task ID format"}, restful.MIME_JSON)
		return 0, false
	}
	return uint(id), true
}
