package controllers

import (
	"errors"
	"net/http"
	"time"

	"taskmanager/auth"
	"taskmanager/models"
	"taskmanager/services"

	restful "github.com/emicklei/go-restful/v3"
)

// UserResponse defines the response structure of user information
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Active    int       `json:"active"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskView is the task representation used by list and form responses.
type TaskView struct {
	ID          uint          `json:"id,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	DueDate     string        `json:"due_date,omitempty"`
	Completed   bool          `json:"completed"`
	CreatorName string        `json:"creator_name"`
	OwnerID     *uint         `json:"owner_id,omitempty"`
	Owner       *UserResponse `json:"owner,omitempty"`
	CreatedAt   time.Time     `json:"created_at,omitempty"`
	UpdatedAt   time.Time     `json:"updated_at,omitempty"`
}

// TasksListResponse carries the base data both list views receive. Filtering
// on OnlyInProgress is the consumer's responsibility.
type TasksListResponse struct {
	Tasks          []TaskView     `json:"tasks"`
	Users          []UserResponse `json:"users"`
	SignedUser     UserResponse   `json:"signed_user"`
	IsAdminSigned  bool           `json:"is_admin_signed"`
	OnlyInProgress bool           `json:"only_in_progress"`
}

// TaskFormResponse is returned by the form endpoints. On validation failure
// the submitted data comes back in Task together with field errors, so
// entered data is never lost.
type TaskFormResponse struct {
	Task   TaskView                  `json:"task"`
	Errors services.ValidationErrors `json:"errors,omitempty"`
}

func mapModelToUserResponse(user *models.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Active:    user.Active,
		Roles:     user.RoleNames(),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func mapModelToTaskView(task *models.Task) TaskView {
	if task == nil {
		return TaskView{}
	}
	view := TaskView{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatorName: task.CreatorName,
		OwnerID:     task.OwnerID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.DueDate != nil {
		view.DueDate = task.DueDate.Format(services.DueDateLayout)
	}
	if task.Owner != nil {
		owner := mapModelToUserResponse(task.Owner)
		view.Owner = &owner
	}
	return view
}

// requestIdentity extracts the authenticated identity set by the auth filter,
// answering 401 itself when it is missing.
func requestIdentity(req *restful.Request, resp *restful.Response) (auth.Identity, bool) {
	identity, ok := auth.IdentityFromRequest(req)
	if !ok {
		_ = resp.WriteHeaderAndJson(http.StatusUnauthorized, map[string]string{"message": "Unauthorized: cannot identify requesting user"}, restful.MIME_JSON)
		return auth.Identity{}, false
	}
	return identity, true
}

// redirectToTasks answers the redirect-after-post: a 303 pointing back at the
// task list, so a refresh never resubmits the mutation.
func redirectToTasks(resp *restful.Response) {
	resp.AddHeader("Location", "/tasks")
	resp.WriteHeader(http.StatusSeeOther)
}

// handleServiceError translates service sentinel errors to HTTP responses.
func handleServiceError(resp *restful.Response, err error) {
	statusCode := http.StatusInternalServerError
	message := "An internal error occurred"

	switch {
	case errors.Is(err, services.ErrTaskNotFound), errors.Is(err, services.ErrUserNotFound):
		statusCode = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, services.ErrEmailTaken):
		statusCode = http.StatusConflict
		message = err.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		message = err.Error()
	}

	_ = resp.WriteHeaderAndJson(statusCode, map[string]string{"message": message}, restful.MIME_JSON)
}
