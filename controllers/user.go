package controllers

import (
	"net/http"
	"strconv"

	"taskmanager/auth"
	"taskmanager/models"
	"taskmanager/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
)

// UserController exposes sign-up, login and the admin-only user views.
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController instance
func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// LoginCredentials defines the structure of the login request
type LoginCredentials struct {
	Email    string `json:"email" description:"Email for login"`
	Password string `json:"password" description:"Password for login"`
}

// LoginResponse defines the structure of the login response
type LoginResponse struct {
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

// RegisterRoutes sets up the user-related routes for a go-restful WebService.
func (ctl *UserController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/users").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)

	// Registration and login stay outside the authenticated group.
	ws.Route(ws.POST("/register").To(ctl.registerHandler).
		Doc("Register a new user").
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Reads(services.CreateUserInput{}).
		Returns(http.StatusCreated, "User created successfully", UserResponse{}).
		Returns(http.StatusBadRequest, "Invalid request body", nil).
		Returns(http.StatusConflict, "Email already exists", nil))

	ws.Route(ws.POST("/login").To(ctl.loginHandler).
		Doc("Exchange credentials for a token").
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Reads(LoginCredentials{}).
		Returns(http.StatusOK, "Token issued", LoginResponse{}).
		Returns(http.StatusUnauthorized, "Invalid credentials", nil))

	ws.Route(ws.GET("").Filter(auth.AuthFilter()).Filter(auth.RoleFilter(models.RoleAdmin)).To(ctl.listUsersHandler).
		Doc("List all users").
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Writes([]UserResponse{}).
		Returns(http.StatusOK, "Users listed successfully", []UserResponse{}).
		Returns(http.StatusUnauthorized, "Unauthorized", nil).
		Returns(http.StatusForbidden, "Forbidden", nil))

	ws.Route(ws.PUT("/{user-id}/promote").Filter(auth.AuthFilter()).Filter(auth.RoleFilter(models.RoleAdmin)).To(ctl.promoteHandler).
		Doc("Replace the user's role set with the admin role").
		Param(ws.PathParameter("user-id", "Identifier of the user to promote").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Writes(UserResponse{}).
		Returns(http.StatusOK, "User promoted", UserResponse{}).
		Returns(http.StatusUnauthorized, "Unauthorized", nil).
		Returns(http.StatusForbidden, "Forbidden", nil).
		Returns(http.StatusNotFound, "User not found", nil))
}

// registerHandler (Handles POST /users/register)
func (ctl *UserController) registerHandler(request *restful.Request, response *restful.Response) {
	input := new(services.CreateUserInput)
	if err := request.ReadEntity(input); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, map[string]string{"message": "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	if input.Email == "" || input.Name == "" || input.Password == "" {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, map[string]string{"message": "Email, name and password are required"}, restful.MIME_JSON)
		return
	}

	present, err := ctl.userService.IsUserEmailPresent(input.Email)
	if err != nil {
		handleServiceError(response, err)
		return
	}
	if present {
		_ = response.WriteHeaderAndJson(http.StatusConflict, map[string]string{"message": services.ErrEmailTaken.Error()}, restful.MIME_JSON)
		return
	}

	user, err := ctl.userService.CreateUser(input)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusCreated, mapModelToUserResponse(user), restful.MIME_JSON)
}

// loginHandler (Handles POST /users/login)
func (ctl *UserController) loginHandler(request *restful.Request, response *restful.Response) {
	creds := new(LoginCredentials)
	if err := request.ReadEntity(creds); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, LoginResponse{Message: "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	if creds.Email == "" || creds.Password == "" {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, LoginResponse{Message: "Email and password are required"}, restful.MIME_JSON)
		return
	}

	user, err := ctl.userService.Authenticate(creds.Email, creds.Password)
	if err != nil {
		// Avoid revealing whether the account exists
		_ = response.WriteHeaderAndJson(http.StatusUnauthorized, LoginResponse{Message: "Invalid credentials"}, restful.MIME_JSON)
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		_ = response.WriteHeaderAndJson(http.StatusInternalServerError, LoginResponse{Message: "Could not generate token"}, restful.MIME_JSON)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, LoginResponse{Token: token}, restful.MIME_JSON)
}

// listUsersHandler (Handles GET /users)
func (ctl *UserController) listUsersHandler(request *restful.Request, response *restful.Response) {
	users, err := ctl.userService.FindAll()
	if err != nil {
		handleServiceError(response, err)
		return
	}

	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = mapModelToUserResponse(&users[i])
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, userResponses, restful.MIME_JSON)
}

// promoteHandler (Handles PUT /users/{user-id}/promote)
func (ctl *UserController) promoteHandler(request *restful.Request, response *restful.Response) {
	targetIDStr := request.PathParameter("user-id")
	targetID, err := strconv.ParseUint(targetIDStr, 10, 32)
	if err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, map[string]string{"message": "Invalid user ID format"}, restful.MIME_JSON)
		return
	}

	user, err := ctl.userService.ChangeRoleToAdmin(uint(targetID))
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, mapModelToUserResponse(user), restful.MIME_JSON)
}
