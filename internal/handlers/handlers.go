package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Keoroanthony/go-customers/internal/auth"
	"github.com/Keoroanthony/go-customers/internal/metrics"
	"github.com/Keoroanthony/go-customers/internal/models"
	"github.com/Keoroanthony/go-customers/internal/store"
	"github.com/Keoroanthony/go-customers/internal/validation"
)

const (
	BadRequestMessage       = "Bad request"
	NotFoundMessage         = "Page not found"
	InternalErrorMessage    = "Internal server error"
	CustomerNotFoundMessage = "Could not find customer"
)

const defaultTimeout = 10 * time.Second

var errMissingCustomer = errors.New("authenticated customer missing from context")

// Notifier sends account notifications. Failures never fail a request.
type Notifier interface {
	Welcome(ctx context.Context, c *models.Customer) error
	TemporaryPassword(ctx context.Context, c *models.Customer, password string) error
	PasswordChanged(ctx context.Context, c *models.Customer) error
}

// Deps are shared by the front and admin handlers.
type Deps struct {
	Store    store.CustomerStore
	Hasher   auth.Hasher
	Notifier Notifier // optional
	Metrics  *metrics.Customers
	Log      *slog.Logger
	Timeout  time.Duration
}

type base struct {
	Deps
}

func newBase(d Deps) base {
	if d.Timeout <= 0 {
		d.Timeout = defaultTimeout
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return base{Deps: d}
}

func (b base) context(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), b.Timeout)
}

func (b base) internalError(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	b.Log.ErrorContext(c.Request.Context(), msg, "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": InternalErrorMessage})
}

// notify runs a notification and only logs its failure.
func (b base) notify(ctx context.Context, cust *models.Customer, kind string, send func(context.Context, Notifier) error) {
	if b.Notifier == nil {
		return
	}
	if err := send(ctx, b.Notifier); err != nil {
		b.Metrics.Inc(metrics.EventNotifyFailed)
		b.Log.WarnContext(ctx, "notification failed", "kind", kind, "customer_id", cust.ID, "error", err)
	}
}

// bindJSON decodes the request body into v. An empty body leaves v
// untouched so that missing fields surface as validation errors.
func bindJSON(c *gin.Context, v any) error {
	if c.Request.Body == nil {
		return nil
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func validationFailed(c *gin.Context, errs validation.Errors) {
	c.JSON(http.StatusOK, gin.H{"errors": errs})
}

// BadRequest and NotFound render the generic error bodies.
func BadRequest(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": BadRequestMessage})
}

func NotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": NotFoundMessage})
}

func customerIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// looseString accepts a JSON string or number; cellphones are often sent as
// numbers.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

type profilePayload struct {
	FirstName  *string      `json:"first_name"`
	LastName   *string      `json:"last_name"`
	Cellphone  *looseString `json:"cellphone"`
	Newsletter *bool        `json:"newsletter"`
}

func (p profilePayload) profile() models.Profile {
	prof := models.Profile{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Newsletter: p.Newsletter,
	}
	if p.Cellphone != nil {
		cell := string(*p.Cellphone)
		prof.Cellphone = &cell
	}
	return prof
}
