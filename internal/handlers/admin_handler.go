package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Keoroanthony/go-customers/internal/metrics"
	"github.com/Keoroanthony/go-customers/internal/models"
	"github.com/Keoroanthony/go-customers/internal/store"
	"github.com/Keoroanthony/go-customers/internal/utils"
	"github.com/Keoroanthony/go-customers/internal/validation"
)

// AdminCustomerHandler serves the back-office /admin/customer routes. It
// performs no authentication of its own.
type AdminCustomerHandler struct {
	base
}

func NewAdminCustomerHandler(d Deps) *AdminCustomerHandler {
	return &AdminCustomerHandler{base: newBase(d)}
}

type CreateCustomerRequest struct {
	Email string `json:"email"`
	profilePayload
}

type ListCustomersRequest struct {
	Page *int `json:"page"`
}

type ListCustomersResponse struct {
	CurrentPage int                   `json:"current_page"`
	TotalPages  int                   `json:"total_pages"`
	Customers   []models.CustomerJSON `json:"customers"`
}

func (h *AdminCustomerHandler) Get(c *gin.Context) {
	id, ok := customerIDParam(c)
	if !ok {
		NotFound(c)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	customer, err := h.Store.GetByID(ctx, id)
	if isNotFound(err) {
		c.JSON(http.StatusOK, gin.H{"msg": CustomerNotFoundMessage})
		return
	}
	if err != nil {
		h.internalError(c, "fetching customer failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer.JSON()})
}

// Create adds a customer with a generated password, which is sent to the
// customer and never returned.
func (h *AdminCustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := bindJSON(c, &req); err != nil {
		BadRequest(c)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	errs, err := validation.AdminCreate(ctx, h.Store, req.Email)
	if err != nil {
		h.internalError(c, "admin create validation failed", err)
		return
	}
	if !errs.Empty() {
		validationFailed(c, errs)
		return
	}

	password, err := utils.GeneratePassword(utils.GeneratedPasswordLength)
	if err != nil {
		h.internalError(c, "generating password failed", err)
		return
	}
	hash, err := h.Hasher.Hash(password)
	if err != nil {
		h.internalError(c, "hashing password failed", err)
		return
	}

	customer := models.NewCustomer(req.Email, hash)
	req.profile().Apply(&customer.Data)

	if err := h.Store.Create(ctx, customer); err != nil {
		h.internalError(c, "creating customer failed", err)
		return
	}
	h.Metrics.Inc(metrics.EventAdminCreated)
	h.Log.InfoContext(ctx, "customer created by admin", "customer_id", customer.ID)

	h.notify(ctx, customer, "temporary_password", func(ctx context.Context, n Notifier) error {
		return n.TemporaryPassword(ctx, customer, password)
	})

	c.JSON(http.StatusOK, gin.H{"customer": customer.JSON()})
}

// Update overwrites profile fields. Email and password cannot be changed
// here.
func (h *AdminCustomerHandler) Update(c *gin.Context) {
	id, ok := customerIDParam(c)
	if !ok {
		NotFound(c)
		return
	}

	var req profilePayload
	if err := bindJSON(c, &req); err != nil {
		BadRequest(c)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	customer, err := h.Store.GetByID(ctx, id)
	if isNotFound(err) {
		c.JSON(http.StatusOK, gin.H{"msg": CustomerNotFoundMessage})
		return
	}
	if err != nil {
		h.internalError(c, "fetching customer failed", err)
		return
	}

	req.profile().Apply(&customer.Data)
	if err := h.Store.Update(ctx, customer); err != nil {
		h.internalError(c, "updating customer failed", err)
		return
	}
	h.Metrics.Inc(metrics.EventUpdated)

	c.JSON(http.StatusOK, gin.H{"customer": customer.JSON()})
}

func (h *AdminCustomerHandler) Delete(c *gin.Context) {
	id, ok := customerIDParam(c)
	if !ok {
		NotFound(c)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	deleted, err := h.Store.DeleteByID(ctx, id)
	if err != nil {
		h.internalError(c, "deleting customer failed", err)
		return
	}
	if deleted {
		h.Metrics.Inc(metrics.EventDeleted)
		h.Log.InfoContext(ctx, "customer deleted", "customer_id", id)
	}

	c.JSON(http.StatusOK, gin.H{"result": deleted})
}

// List returns one page of customers. The page comes from the JSON body,
// falling back to the ?page= query parameter, and defaults to 0.
func (h *AdminCustomerHandler) List(c *gin.Context) {
	var req ListCustomersRequest
	if err := bindJSON(c, &req); err != nil {
		BadRequest(c)
		return
	}

	page := 0
	switch {
	case req.Page != nil:
		page = *req.Page
	case c.Query("page") != "":
		p, err := strconv.Atoi(c.Query("page"))
		if err != nil {
			BadRequest(c)
			return
		}
		page = p
	}

	if errs := validation.Page(page); !errs.Empty() {
		validationFailed(c, errs)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	total, err := h.Store.Count(ctx)
	if err != nil {
		h.internalError(c, "counting customers failed", err)
		return
	}

	start := page * store.PageSize
	customers, err := h.Store.List(ctx, start, start+store.PageSize)
	if err != nil {
		h.internalError(c, "listing customers failed", err)
		return
	}

	resp := ListCustomersResponse{
		CurrentPage: page,
		TotalPages:  int((total + store.PageSize - 1) / store.PageSize),
		Customers:   make([]models.CustomerJSON, 0, len(customers)),
	}
	for i := range customers {
		resp.Customers = append(resp.Customers, customers[i].JSON())
	}

	c.JSON(http.StatusOK, resp)
}
