package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	"tasktracker/internal/cache"
	"tasktracker/internal/config"
	"tasktracker/internal/models"
	"tasktracker/internal/repository"
	"tasktracker/internal/validation"
	"tasktracker/pkg/logger"
)

// Controller maps HTTP requests to task store operations and store
// outcomes back to status codes.
type Controller struct {
	store repository.TaskStore
	cache *cache.Cache
	group singleflight.Group
	cfg   *config.Config
}

// New creates a Controller. cache may be nil (caching disabled).
func New(store repository.TaskStore, c *cache.Cache) *Controller {
	return &Controller{store: store, cache: c, cfg: config.Get()}
}

func errorBody(code, message string) gin.H {
	return gin.H{"error": gin.H{"code": code, "message": message}}
}

func (ct *Controller) notFound(c *gin.Context, id int64) {
	c.JSON(http.StatusNotFound, errorBody("TASK_NOT_FOUND",
		fmt.Sprintf("task with id %d does not exist", id)))
}

func (ct *Controller) validationFailed(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorBody("TASK_VALIDATION_ERROR", err.Error()))
}

func (ct *Controller) storeFailed(c *gin.Context, err error) {
	logger.Error(c.Request.Context(), "Store operation failed", "error", err)
	c.JSON(http.StatusServiceUnavailable, errorBody("STORE_UNAVAILABLE", "task store is unavailable"))
}

func (ct *Controller) badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorBody("BAD_REQUEST", message))
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// getStats returns the aggregate counts, cache-first; concurrent misses
// collapse into one store query.
func (ct *Controller) getStats(ctx context.Context) (*models.Stats, error) {
	if b, ok := ct.cache.GetStats(ctx); ok {
		var s models.Stats
		if err := json.Unmarshal(b, &s); err == nil {
			return &s, nil
		}
	}
	v, err, _ := ct.group.Do("stats", func() (interface{}, error) {
		return ct.store.Stats(context.Background())
	})
	if err != nil {
		return nil, err
	}
	s := v.(*models.Stats)
	if b, err := json.Marshal(s); err == nil {
		ct.cache.SetStatsAsync(b)
	}
	return s, nil
}

// ListTasks handles GET /tasks?skip=&limit=&completed= — one filtered
// page plus aggregate counts over the unfiltered set.
func (ct *Controller) ListTasks(c *gin.Context) {
	ctx := c.Request.Context()

	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		ct.badRequest(c, "skip must be a non-negative integer")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(ct.cfg.DefaultPageSize)))
	if err != nil || limit <= 0 {
		ct.badRequest(c, "limit must be a positive integer")
		return
	}
	if limit > ct.cfg.MaxPageSize {
		limit = ct.cfg.MaxPageSize
	}

	filter := repository.FilterAll
	switch c.Query("completed") {
	case "":
	case "true":
		filter = repository.FilterCompleted
	case "false":
		filter = repository.FilterPending
	default:
		ct.badRequest(c, "completed must be true or false")
		return
	}

	tasks, err := ct.store.List(ctx, filter, skip, limit)
	if err != nil {
		ct.storeFailed(c, err)
		return
	}
	stats, err := ct.getStats(ctx)
	if err != nil {
		ct.storeFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, models.TaskList{
		Tasks:     tasks,
		Total:     stats.Total,
		Completed: stats.Completed,
		Pending:   stats.Pending,
	})
}

// GetStats handles GET /tasks/stats.
func (ct *Controller) GetStats(c *gin.Context) {
	stats, err := ct.getStats(c.Request.Context())
	if err != nil {
		ct.storeFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetTask handles GET /tasks/:id.
func (ct *Controller) GetTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		ct.badRequest(c, "invalid task id")
		return
	}
	task, err := ct.store.Get(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		ct.notFound(c, id)
		return
	}
	if err != nil {
		ct.storeFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask handles POST /tasks.
func (ct *Controller) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()
	var body models.CreateTaskRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		ct.badRequest(c, "invalid request body")
		return
	}
	title, err := validation.NormalizeTitle(body.Title)
	if err != nil {
		ct.validationFailed(c, err)
		return
	}
	task, err := ct.store.Create(ctx, title)
	if err != nil {
		ct.storeFailed(c, err)
		return
	}
	ct.cache.Invalidate(ctx)
	logger.Info(ctx, "Task created", "id", task.ID)
	c.JSON(http.StatusCreated, task)
}

// UpdateTask handles PUT /tasks/:id (partial update).
func (ct *Controller) UpdateTask(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := taskID(c)
	if !ok {
		ct.badRequest(c, "invalid task id")
		return
	}
	var body models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		ct.badRequest(c, "invalid request body")
		return
	}
	title, err := validation.ValidateUpdate(body.Title, body.Completed)
	if err != nil {
		ct.validationFailed(c, err)
		return
	}
	task, err := ct.store.Update(ctx, id, title, body.Completed)
	if errors.Is(err, repository.ErrNotFound) {
		ct.notFound(c, id)
		return
	}
	if err != nil {
		ct.storeFailed(c, err)
		return
	}
	ct.cache.Invalidate(ctx)
	logger.Info(ctx, "Task updated", "id", task.ID)
	c.JSON(http.StatusOK, task)
}

// CompleteTask handles POST /tasks/:id/complete. Re-applies on an
// already-completed task; updated_at still moves forward.
func (ct *Controller) CompleteTask(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := taskID(c)
	if !ok {
		ct.badRequest(c, "invalid task id")
		return
	}
	task, err := ct.store.Complete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		ct.notFound(c, id)
		return
	}
	if err != nil {
		ct.storeFailed(c, err)
		return
	}
	ct.cache.Invalidate(ctx)
	logger.Info(ctx, "Task completed", "id", task.ID)
	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/:id.
func (ct *Controller) DeleteTask(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := taskID(c)
	if !ok {
		ct.badRequest(c, "invalid task id")
		return
	}
	err := ct.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		ct.notFound(c, id)
		return
	}
	if err != nil {
		ct.storeFailed(c, err)
		return
	}
	ct.cache.Invalidate(ctx)
	logger.Info(ctx, "Task deleted", "id", id)
	c.Status(http.StatusNoContent)
}

// Health handles GET /health: probes store connectivity.
func (ct *Controller) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := ct.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}
