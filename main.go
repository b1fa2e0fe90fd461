package main

import (
	"fmt"
	"net/http"
	"time"

	"taskmanager/auth"
	"taskmanager/config"
	"taskmanager/controllers"
	"taskmanager/database"
	"taskmanager/repositories"
	"taskmanager/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"
)

// RequestLogger logs one line per handled request.
func RequestLogger(logger *zap.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		startTime := time.Now()

		chain.ProcessFilter(req, resp)

		logger.Info("Request",
			zap.String("method", req.Request.Method),
			zap.Int("status_code", resp.StatusCode()),
			zap.Duration("latency", time.Since(startTime)),
			zap.String("user_agent", req.Request.UserAgent()),
			zap.String("path", req.Request.URL.Path),
		)
	}
}

func main() {
	// Initialize configs
	config.InitConfig()

	var logger *zap.Logger
	switch config.AppConfig.LogLevel {
	case "debug":
		logger, _ = zap.NewDevelopment()
	case "info":
		logger, _ = zap.NewProduction()
	default:
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync() // Make sure the buffer is flushed before the program exits

	auth.SetSigningKey([]byte(config.AppConfig.JwtSecret))

	db := database.InitDB()

	userRepo := repositories.NewUserRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	taskRepo := repositories.NewTaskRepository(db)

	userService := services.NewUserService(userRepo, roleRepo)
	taskService := services.NewTaskService(taskRepo)

	userController := controllers.NewUserController(userService)
	taskController := controllers.NewTaskController(taskService, userService)

	container := restful.NewContainer()
	container.Filter(RequestLogger(logger))

	tasksWS := new(restful.WebService)
	taskController.RegisterRoutes(tasksWS)
	tasksWS.Route(tasksWS.GET("/healthz").To(func(req *restful.Request, resp *restful.Response) {
		_ = resp.WriteHeaderAndJson(http.StatusOK, map[string]string{"status": "ok"}, restful.MIME_JSON)
	}).Doc("Liveness probe"))
	container.Add(tasksWS)

	usersWS := new(restful.WebService)
	userController.RegisterRoutes(usersWS)
	container.Add(usersWS)

	openAPIConfig := restfulspec.Config{
		WebServices: container.RegisteredWebServices(),
		APIPath:     "/apidocs.json",
	}
	container.Add(restfulspec.NewOpenAPIService(openAPIConfig))

	addr := fmt.Sprintf(":%d", config.AppConfig.HTTPPort)
	logger.Info("Starting server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, container); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
