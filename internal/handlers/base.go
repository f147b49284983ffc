package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every failure a handler can report goes through one of these helpers,
// so the mapping from the error taxonomy to status codes lives in one
// place: 400 invalid input / duplicate, 401 credential failures (the auth
// middleware owns those), 403 permission denied, 404 not found, 500 for
// everything unexpected.

const permissionDeniedMessage = "Permission denied. You do not have the necessary permissions."

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": permissionDeniedMessage})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"error": message})
}

// serverError is the centralized sink for unexpected failures (store
// unavailable and the like): log the cause, hand the caller a generic
// body that leaks nothing.
func serverError(c *gin.Context, err error) {
	log.Printf("internal error: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"status":  http.StatusInternalServerError,
		"message": "Something went wrong",
	})
}
