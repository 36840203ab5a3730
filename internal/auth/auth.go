package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keoroanthony/go-customers/internal/models"
	"github.com/Keoroanthony/go-customers/internal/store"
)

// ErrInvalidCredentials means the email is unknown or the password is wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UnauthorizedMessage is the body returned for every 401.
const UnauthorizedMessage = "Please login with proper credentials"

const customerKey = "customer"

// CustomerLookup is the part of the store the gate needs.
type CustomerLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
}

// Gate checks basic-auth credentials against stored customers. Nothing is
// cached: every request authenticates from scratch.
type Gate struct {
	customers CustomerLookup
	hasher    Hasher
}

func NewGate(customers CustomerLookup, hasher Hasher) *Gate {
	return &Gate{customers: customers, hasher: hasher}
}

// Authenticate returns the customer owning username if password verifies.
func (g *Gate) Authenticate(ctx context.Context, username, password string) (*models.Customer, error) {
	if username == "" {
		return nil, ErrInvalidCredentials
	}

	c, err := g.customers.GetByEmail(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate %q: %w", username, err)
	}

	if !g.hasher.Verify(c.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return c, nil
}

// RequireAuth ensures the request carries valid basic-auth credentials and
// injects the acting *models.Customer into the context.
func RequireAuth(g *Gate, realm string, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			abortUnauthorized(c, realm)
			return
		}

		cust, err := g.Authenticate(c.Request.Context(), username, password)
		if errors.Is(err, ErrInvalidCredentials) {
			abortUnauthorized(c, realm)
			return
		}
		if err != nil {
			log.ErrorContext(c.Request.Context(), "authentication lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Set(customerKey, cust)
		c.Next()
	}
}

// CurrentCustomer returns the customer bound by RequireAuth.
func CurrentCustomer(c *gin.Context) (*models.Customer, bool) {
	v, ok := c.Get(customerKey)
	if !ok {
		return nil, false
	}
	cust, ok := v.(*models.Customer)
	return cust, ok
}

func abortUnauthorized(c *gin.Context, realm string) {
	c.Header("WWW-Authenticate", fmt.Sprintf("Basic realm=%q", realm))
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": UnauthorizedMessage})
}
