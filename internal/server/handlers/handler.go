package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockpilot/internal/domain"
	"github.com/mamadbah2/stockpilot/internal/domain/models"
)

// Terminal is the point-of-sale application state served over HTTP.
type Terminal interface {
	Login(ctx context.Context, username, password string) (models.Session, error)
	Logout() error
	Session() (models.Session, bool)

	Products(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int, in models.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int) error
	ImportProducts(ctx context.Context, filename string, content io.Reader) (*models.ImportResult, error)
	ExportProducts(ctx context.Context) (string, error)
	ScanCode(code string) (models.Product, error)

	RegisterMovement(ctx context.Context, in models.MovementInput) (*models.MovementResult, error)
	Movements(ctx context.Context, filter models.MovementFilter) ([]models.Movement, error)
	PurgeMovements(ctx context.Context, before, adminPassword string) (*models.PurgeResult, error)

	AddToCart(productID int) (models.CartLine, error)
	RemoveFromCart(index int) error
	ClearCart()
	Cart() models.CartSummary
	Checkout(ctx context.Context) (models.Receipt, error)

	InventoryValue(ctx context.Context) (*models.InventoryValue, error)
	DailyCut(ctx context.Context) (*models.DailyCut, error)
	Settings(ctx context.Context) (*models.StoreSettings, error)
	SaveSettings(ctx context.Context, settings models.StoreSettings) error
	Users(ctx context.Context) ([]models.User, error)
	RegisterUser(ctx context.Context, in models.UserInput) error
	DeleteUser(ctx context.Context, id int) error
}

// Reports closes the day and renders it.
type Reports interface {
	CloseDay(ctx context.Context, closedBy string) (models.DailyCutRecord, string, error)
	DailyCutPDF(ctx context.Context, closedBy string) ([]byte, error)
	Location() *time.Location
}

// Handler adapts the terminal and the reports to the local HTTP API.
type Handler struct {
	terminal Terminal
	reports  Reports
	logger   *zap.Logger
}

// NewHandler constructs the HTTP handler adapter.
func NewHandler(terminal Terminal, reports Reports, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{terminal: terminal, reports: reports, logger: logger}
}

// Health answers liveness probes.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail writes err as {"error": notice} with the status its kind maps to.
func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		h.logger.Debug("request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": domain.Notice(err)})
}

func (h *Handler) badRequest(c *gin.Context, op string, err error) {
	h.fail(c, domain.Invalid(op, err.Error()))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrAuthExpired),
		errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrLineNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSoldOut),
		errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrCheckoutInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNetwork),
		errors.Is(err, domain.ErrServer):
		return http.StatusBadGateway
	}

	var checkoutErr *domain.CheckoutError
	if errors.As(err, &checkoutErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func pathInt(c *gin.Context, name string) (int, error) {
	return strconv.Atoi(c.Param(name))
}
