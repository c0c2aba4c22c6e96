package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"user-api/internal/dto"
	"user-api/internal/service"
)

// HealthChecker reports whether the backing store is reachable. *sql.DB satisfies it.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

type Config struct {
	Users  service.UserService
	Health HealthChecker
	Logger logrus.FieldLogger
	// RateLimitPerMinute caps requests per client address; zero disables limiting.
	RateLimitPerMinute int
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users   service.UserService
	health  HealthChecker
	logger  logrus.FieldLogger
	limiter *clientRateLimiter
}

func NewHandler(cfg Config) (*Handler, error) {
	if cfg.Users == nil {
		return nil, fmt.Errorf("user service is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if err := registerValidators(); err != nil {
		return nil, err
	}

	h := &Handler{
		users:  cfg.Users,
		health: cfg.Health,
		logger: cfg.Logger,
	}
	if cfg.RateLimitPerMinute > 0 {
		h.limiter = newClientRateLimiter(cfg.RateLimitPerMinute)
	}
	return h, nil
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(
		requestIDMiddleware(),
		h.accessLogMiddleware(),
		gin.CustomRecoveryWithWriter(nil, h.recoverPanic),
		h.translateErrors(),
		corsMiddleware(),
	)
	if h.limiter != nil {
		router.Use(h.limiter.middleware())
	}
	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(&statusError{
			status:  http.StatusNotFound,
			message: fmt.Sprintf("no route for %s %s", c.Request.Method, c.Request.URL.Path),
		})
	})

	api := router.Group("/api")
	{
		api.GET("/hello", func(c *gin.Context) {
			c.String(http.StatusOK, "Hello World")
		})
		api.GET("/hello2", func(c *gin.Context) {
			c.String(http.StatusOK, "Hello World2")
		})
		api.GET("/health", h.checkHealth)

		api.POST("/users", h.createUser)
		api.GET("/users", h.listUsers)
		api.GET("/users/:id", h.getUser)
		api.PUT("/users/:id", h.updateUser)
		api.DELETE("/users/:id", h.deleteUser)
	}
}

func (h *Handler) createUser(c *gin.Context) {
	req, err := bindUserRequest(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.users.CreateUser(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) listUsers(c *gin.Context) {
	resp, err := h.users.GetAllUsers(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getUser(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.users.GetUserByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) updateUser(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	req, err := bindUserRequest(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.users.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) checkHealth(c *gin.Context) {
	if h.health != nil {
		if err := h.health.PingContext(c.Request.Context()); err != nil {
			_ = c.Error(fmt.Errorf("ping store: %w", err))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parseUserID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &statusError{status: http.StatusBadRequest, message: "invalid user id"}
	}
	return id, nil
}

// bindUserRequest decodes and validates the JSON body. Validation failures are
// returned untouched so the error translator can report every field.
func bindUserRequest(c *gin.Context) (dto.UserCreateRequest, error) {
	var req dto.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isValidationError(err) {
			return req, err
		}
		return req, &statusError{
			status:  http.StatusBadRequest,
			message: "request body must be a JSON object with name, email and phone",
			cause:   err,
		}
	}
	return req, nil
}
