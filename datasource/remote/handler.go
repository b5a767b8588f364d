package remote

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-task-repository/task"
)

type handler struct {
	ds task.DataSource
}

// NewHandler returns a gin router serving ds.
func NewHandler(ds task.DataSource, middleware ...gin.HandlerFunc) http.Handler {
	h := &handler{ds: ds}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)

	router.GET("/tasks", h.list)
	router.DELETE("/tasks", h.deleteMany)

	item := router.Group("/tasks/:id")
	{
		item.GET("", h.get)
		item.PUT("", h.save)
		item.DELETE("", h.deleteOne)
		item.POST("/complete", h.complete)
		item.POST("/activate", h.activate)
	}

	return router
}

func (h *handler) list(c *gin.Context) {
	tasks, err := h.ds.FetchAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *handler) get(c *gin.Context) {
	t, err := h.ds.FetchOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *handler) save(c *gin.Context) {
	h.write(c, h.ds.Save)
}

func (h *handler) complete(c *gin.Context) {
	h.write(c, h.ds.MarkCompleted)
}

func (h *handler) activate(c *gin.Context) {
	h.write(c, h.ds.MarkActive)
}

func (h *handler) write(c *gin.Context, op func(context.Context, task.Task) error) {
	var t task.Task
	if err := c.ShouldBindJSON(&t); err != nil {
		writeError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid request body").
			WithCode(http.StatusBadRequest).
			WithTextCode("INVALID_BODY"))
		return
	}
	t.ID = c.Param("id")
	if err := t.Validate(); err != nil {
		writeError(c, err)
		return
	}

	if err := op(c.Request.Context(), t); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *handler) deleteOne(c *gin.Context) {
	if err := h.ds.DeleteOne(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) deleteMany(c *gin.Context) {
	var err error
	if c.Query("completed") == "true" {
		err = h.ds.ClearCompleted(c.Request.Context())
	} else {
		err = h.ds.DeleteAll(c.Request.Context())
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	rich := goerrors.MapToError(err, goerrors.DefaultErrorMappers()).Clone()
	rich.Code = status
	c.AbortWithStatusJSON(status, rich.ToErrorResponse(false, nil))
}

func statusFor(err error) int {
	switch {
	case task.IsNotFound(err):
		return http.StatusNotFound
	case task.IsInvalidTask(err), goerrors.HasCategory(err, goerrors.CategoryBadInput):
		return http.StatusBadRequest
	case task.IsSourceUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
