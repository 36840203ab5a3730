package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keoroanthony/go-customers/internal/auth"
	"github.com/Keoroanthony/go-customers/internal/metrics"
	"github.com/Keoroanthony/go-customers/internal/models"
	"github.com/Keoroanthony/go-customers/internal/validation"
)

// CustomerHandler serves the customer-facing /customer routes.
type CustomerHandler struct {
	base
}

func NewCustomerHandler(d Deps) *CustomerHandler {
	return &CustomerHandler{base: newBase(d)}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	Password    string `json:"password"`
	Confirm     string `json:"confirm"`
}

// Register creates an inactive customer and returns its id.
func (h *CustomerHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		BadRequest(c)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	errs, err := validation.Registration(ctx, h.Store, req.Email, req.Password)
	if err != nil {
		h.internalError(c, "registration validation failed", err)
		return
	}
	if !errs.Empty() {
		validationFailed(c, errs)
		return
	}

	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		h.internalError(c, "hashing password failed", err)
		return
	}

	customer := models.NewCustomer(req.Email, hash)
	if err := h.Store.Create(ctx, customer); err != nil {
		h.internalError(c, "creating customer failed", err)
		return
	}
	h.Metrics.Inc(metrics.EventRegistered)
	h.Log.InfoContext(ctx, "customer registered", "customer_id", customer.ID)

	h.notify(ctx, customer, "welcome", func(ctx context.Context, n Notifier) error {
		return n.Welcome(ctx, customer)
	})

	c.JSON(http.StatusOK, gin.H{"id": customer.ID})
}

func (h *CustomerHandler) GetProfile(c *gin.Context) {
	customer, ok := auth.CurrentCustomer(c)
	if !ok {
		h.internalError(c, "no authenticated customer in context", errMissingCustomer)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer.JSON()})
}

// UpdateProfile overwrites the profile fields present in the body.
func (h *CustomerHandler) UpdateProfile(c *gin.Context) {
	customer, ok := auth.CurrentCustomer(c)
	if !ok {
		h.internalError(c, "no authenticated customer in context", errMissingCustomer)
		return
	}

	var req profilePayload
	if err := bindJSON(c, &req); err != nil {
		BadRequest(c)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	req.profile().Apply(&customer.Data)
	if err := h.Store.Update(ctx, customer); err != nil {
		h.internalError(c, "updating profile failed", err)
		return
	}
	h.Metrics.Inc(metrics.EventUpdated)

	c.JSON(http.StatusOK, gin.H{"customer": customer.JSON()})
}

// ChangePassword requires the current password and a confirmed new one.
func (h *CustomerHandler) ChangePassword(c *gin.Context) {
	customer, ok := auth.CurrentCustomer(c)
	if !ok {
		h.internalError(c, "no authenticated customer in context", errMissingCustomer)
		return
	}

	var req ChangePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		BadRequest(c)
		return
	}

	errs := validation.PasswordChange(c.Request.Method, h.Hasher, customer, req.OldPassword, req.Password, req.Confirm)
	if !errs.Empty() {
		validationFailed(c, errs)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		h.internalError(c, "hashing password failed", err)
		return
	}
	customer.PasswordHash = hash

	if err := h.Store.Update(ctx, customer); err != nil {
		h.internalError(c, "updating password failed", err)
		return
	}
	h.Metrics.Inc(metrics.EventPasswordChanged)
	h.Log.InfoContext(ctx, "customer password changed", "customer_id", customer.ID)

	h.notify(ctx, customer, "password_changed", func(ctx context.Context, n Notifier) error {
		return n.PasswordChanged(ctx, customer)
	})

	c.JSON(http.StatusOK, gin.H{"msg": "OK"})
}
