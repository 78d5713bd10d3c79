package api

import (
	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/metrics"
	"alcyxob/training-planner/internal/service"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Request headers set by the upstream gateway after authentication.
const (
	HeaderOrganizationID = "X-Organization-ID"
	HeaderActorID        = "X-Actor-ID"
	HeaderActorKind      = "X-Actor-Kind"
)

// Constants for context keys
const (
	ContextOrganizationIDKey = "organizationID"
	ContextAuthorKey         = "author"
)

// TenantMiddleware resolves the organization and acting author of a request.
// Without actor headers the organization itself is the author.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, err := primitive.ObjectIDFromHex(c.GetHeader(HeaderOrganizationID))
		if err != nil {
			abortWithError(c, http.StatusBadRequest, HeaderOrganizationID+" header must be a valid id")
			return
		}

		author := domain.Author{Kind: domain.AuthorOrganization, ID: &orgID}
		kind := domain.AuthorKind(strings.ToLower(c.GetHeader(HeaderActorKind)))
		actor := c.GetHeader(HeaderActorID)
		switch {
		case kind == domain.AuthorSystem:
			author = domain.SystemAuthor()
		case kind != "" || actor != "":
			if kind == "" {
				kind = domain.AuthorEmployee
			}
			actorID, err := primitive.ObjectIDFromHex(actor)
			if err != nil {
				abortWithError(c, http.StatusBadRequest, HeaderActorID+" header must be a valid id")
				return
			}
			author = domain.Author{Kind: kind, ID: &actorID}
		}
		if !author.Valid() {
			abortWithError(c, http.StatusBadRequest, HeaderActorKind+" must be 'employee', 'organization' or 'system'")
			return
		}

		c.Set(ContextOrganizationIDKey, orgID)
		c.Set(ContextAuthorKey, author)
		c.Next()
	}
}

// RequestLogger logs every request through logrus and records its duration.
func RequestLogger(metricsManager *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		metricsManager.HistRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).
			Observe(elapsed.Seconds())

		entry := logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   status,
			"duration": elapsed,
		})
		if status >= http.StatusInternalServerError {
			entry.Warn("request failed")
		} else {
			entry.Debug("request served")
		}
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// abortWithServiceError maps the domain error taxonomy onto HTTP status codes.
func abortWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrReferentialIntegrity):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrExportUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// Helper function to get the organization ID from context (used by handlers)
func getOrganizationID(c *gin.Context) primitive.ObjectID {
	raw, _ := c.Get(ContextOrganizationIDKey)
	orgID, _ := raw.(primitive.ObjectID)
	return orgID
}

// Helper function to get the acting author from context (used by handlers)
func getAuthor(c *gin.Context) domain.Author {
	raw, _ := c.Get(ContextAuthorKey)
	author, _ := raw.(domain.Author)
	return author
}

// pathID parses an id path parameter, aborting with 400 when it is malformed.
func pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return primitive.NilObjectID, false
	}
	return id, true
}

// bindJSON decodes the request body, aborting with 400 on failure. Domain
// validation errors raised while decoding keep their field name.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return false
		}
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return false
	}
	return true
}
