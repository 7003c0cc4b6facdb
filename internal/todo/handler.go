package todo

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type titleRequest struct {
	Title string `json:"title"`
}

// NewRouter builds the JSON API for the todo store.
func NewRouter(store *Store) *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	{
		api.GET("/todos", listTodos(store))
		api.POST("/todos", addTodo(store))
		api.POST("/todos/:id/toggle", toggleTodo(store))
		api.PUT("/todos/:id", renameTodo(store))
		api.DELETE("/todos/:id", deleteTodo(store))
	}

	return r
}

func listTodos(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		todos, err := store.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if todos == nil {
			todos = []Todo{}
		}
		c.JSON(http.StatusOK, todos)
	}
}

func addTodo(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req titleRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}

		t, err := store.Add(c.Request.Context(), req.Title)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(http.StatusCreated, t)
	}
}

func toggleTodo(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := store.Toggle(c.Request.Context(), c.Param("id"))
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		default:
			c.JSON(http.StatusOK, t)
		}
	}
}

func renameTodo(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req titleRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}

		t, err := store.Rename(c.Request.Context(), c.Param("id"), req.Title)
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		default:
			c.JSON(http.StatusOK, t)
		}
	}
}

func deleteTodo(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := store.Delete(c.Request.Context(), c.Param("id"))
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		default:
			c.Status(http.StatusNoContent)
		}
	}
}
