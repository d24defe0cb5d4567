package terminal

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockpilot/internal/cart"
	"github.com/mamadbah2/stockpilot/internal/checkout"
	"github.com/mamadbah2/stockpilot/internal/domain"
	"github.com/mamadbah2/stockpilot/internal/domain/models"
	"github.com/mamadbah2/stockpilot/internal/inventory"
	"github.com/mamadbah2/stockpilot/internal/session"
	"github.com/mamadbah2/stockpilot/pkg/validator"
)

const (
	exportDateLayout = "2006-01-02"
	builtinAdmin     = "admin"
)

// API is the part of the StockPilot gateway the terminal drives directly.
type API interface {
	CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int, in models.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int) error
	ImportProducts(ctx context.Context, filename string, content io.Reader) (*models.ImportResult, error)
	ExportProducts(ctx context.Context) ([]byte, error)

	RegisterMovement(ctx context.Context, in models.MovementInput) (*models.MovementResult, error)
	ListMovements(ctx context.Context, filter models.MovementFilter) ([]models.Movement, error)
	PurgeMovements(ctx context.Context, before, adminPassword string) (*models.PurgeResult, error)

	InventoryValue(ctx context.Context) (*models.InventoryValue, error)
	DailyCut(ctx context.Context) (*models.DailyCut, error)

	Settings(ctx context.Context) (*models.StoreSettings, error)
	SaveSettings(ctx context.Context, settings models.StoreSettings) error
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, in models.UserInput) error
	DeleteUser(ctx context.Context, id int) error
}

// Service is the terminal's application state. It owns the session, the
// inventory snapshot, the cart and the checkout flow, and keeps the snapshot
// fresh after every mutation it performs.
type Service struct {
	api       API
	sessions  *session.Store
	inventory *inventory.Cache
	cart      *cart.Cart
	checkout  *checkout.Flow
	downloads checkout.Saver
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a terminal over its components.
func NewService(api API, sessions *session.Store, cache *inventory.Cache, c *cart.Cart, flow *checkout.Flow, downloads checkout.Saver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:       api,
		sessions:  sessions,
		inventory: cache,
		cart:      c,
		checkout:  flow,
		downloads: downloads,
		logger:    logger,
		now:       time.Now,
	}
}

// Login opens a session and loads the catalog. A failed first load does not
// undo the login.
func (s *Service) Login(ctx context.Context, username, password string) (models.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.Session{}, fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
	}

	current, err := s.sessions.Login(ctx, username, password)
	if err != nil {
		return models.Session{}, err
	}

	if _, err := s.inventory.Refresh(ctx); err != nil {
		s.logger.Warn("initial inventory load failed", zap.Error(err))
	}
	return current, nil
}

// Logout closes the session and drops the pending sale.
func (s *Service) Logout() error {
	s.cart.Clear()
	return s.sessions.Logout()
}

// Session returns the active session, if any.
func (s *Service) Session() (models.Session, bool) {
	return s.sessions.Current()
}

func (s *Service) requireSession() (models.Session, error) {
	current, ok := s.sessions.Current()
	if !ok {
		return models.Session{}, domain.ErrNotAuthenticated
	}
	return current, nil
}

func (s *Service) requireAdmin(op string) (models.Session, error) {
	current, err := s.requireSession()
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if !current.IsAdmin() {
		return models.Session{}, fmt.Errorf("%s: %w", op, domain.ErrForbidden)
	}
	return current, nil
}

// mutate runs a backend mutation and refreshes the snapshot when it succeeds.
// A failed refresh leaves the previous snapshot in place and is only logged.
func (s *Service) mutate(ctx context.Context, op string, fn func() error) error {
	if err := fn(); err != nil {
		return err
	}
	if _, err := s.inventory.Refresh(ctx); err != nil {
		s.logger.Warn("inventory refresh after mutation failed", zap.String("op", op), zap.Error(err))
	}
	return nil
}

func validate(op string, payload interface{}) error {
	if err := validator.Struct(payload); err != nil {
		return domain.Invalid(op, err.Error())
	}
	return nil
}

// Products refreshes the snapshot and returns it.
func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	return s.inventory.Refresh(ctx)
}

// CreateProduct registers a product.
func (s *Service) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	if err := validate("create product", in); err != nil {
		return nil, err
	}

	var created *models.Product
	err := s.mutate(ctx, "create product", func() error {
		var err error
		created, err = s.api.CreateProduct(ctx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("product created", zap.Int("product_id", created.ID), zap.String("sku", created.SKU))
	return created, nil
}

// UpdateProduct overwrites a product.
func (s *Service) UpdateProduct(ctx context.Context, id int, in models.ProductInput) (*models.Product, error) {
	if err := validate("update product", in); err != nil {
		return nil, err
	}

	var updated *models.Product
	err := s.mutate(ctx, "update product", func() error {
		var err error
		updated, err = s.api.UpdateProduct(ctx, id, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, id int) error {
	return s.mutate(ctx, "delete product", func() error {
		return s.api.DeleteProduct(ctx, id)
	})
}

// ImportProducts uploads a spreadsheet of products.
func (s *Service) ImportProducts(ctx context.Context, filename string, content io.Reader) (*models.ImportResult, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, domain.Invalid("import products", "file name is required")
	}

	var result *models.ImportResult
	err := s.mutate(ctx, "import products", func() error {
		var err error
		result, err = s.api.ImportProducts(ctx, filename, content)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("products imported", zap.Int("created", result.Created), zap.Int("updated", result.Updated))
	return result, nil
}

// ExportProducts downloads the catalog spreadsheet and returns where it was saved.
func (s *Service) ExportProducts(ctx context.Context) (string, error) {
	data, err := s.api.ExportProducts(ctx)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("inventario_%s.xlsx", s.now().Format(exportDateLayout))
	path, err := s.downloads.Save(name, data)
	if err != nil {
		return "", fmt.Errorf("export products: %w", err)
	}
	return path, nil
}

// ScanCode resolves a scanned QR or barcode against the snapshot by SKU.
// ErrProductNotFound tells the caller to offer creating the product.
func (s *Service) ScanCode(code string) (models.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.Product{}, domain.Invalid("scan", "empty code")
	}
	product, ok := s.inventory.FindBySKU(code)
	if !ok {
		return models.Product{}, fmt.Errorf("scan %q: %w", code, domain.ErrProductNotFound)
	}
	return product, nil
}

// RegisterMovement records a stock IN/OUT, attributed to the session user
// unless another responsible user is given.
func (s *Service) RegisterMovement(ctx context.Context, in models.MovementInput) (*models.MovementResult, error) {
	current, err := s.requireSession()
	if err != nil {
		return nil, fmt.Errorf("register movement: %w", err)
	}
	if strings.TrimSpace(in.ResponsibleUser) == "" {
		in.ResponsibleUser = current.Username
	}
	in.Type = models.ParseMovementType(string(in.Type))
	if err := validate("register movement", in); err != nil {
		return nil, err
	}

	var result *models.MovementResult
	err = s.mutate(ctx, "register movement", func() error {
		var err error
		result, err = s.api.RegisterMovement(ctx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Movements lists the stock history, optionally bounded by dates.
func (s *Service) Movements(ctx context.Context, filter models.MovementFilter) ([]models.Movement, error) {
	if err := validate("list movements", filter); err != nil {
		return nil, err
	}
	return s.api.ListMovements(ctx, filter)
}

// PurgeMovements deletes history older than before (YYYY-MM-DD).
func (s *Service) PurgeMovements(ctx context.Context, before, adminPassword string) (*models.PurgeResult, error) {
	if _, err := s.requireAdmin("purge movements"); err != nil {
		return nil, err
	}
	if _, err := time.Parse(exportDateLayout, before); err != nil {
		return nil, domain.Invalid("purge movements", "fecha_limite must be YYYY-MM-DD")
	}
	if adminPassword == "" {
		return nil, domain.Invalid("purge movements", "admin password is required")
	}

	result, err := s.api.PurgeMovements(ctx, before, adminPassword)
	if err != nil {
		return nil, err
	}
	s.logger.Info("movement history purged", zap.String("before", before))
	return result, nil
}

// AddToCart adds one unit of a product.
func (s *Service) AddToCart(productID int) (models.CartLine, error) {
	return s.cart.Add(productID)
}

// RemoveFromCart drops the line at index.
func (s *Service) RemoveFromCart(index int) error {
	return s.cart.Remove(index)
}

// ClearCart empties the cart.
func (s *Service) ClearCart() {
	s.cart.Clear()
}

// Cart returns the lines and the total.
func (s *Service) Cart() models.CartSummary {
	lines := s.cart.Lines()
	return models.CartSummary{Lines: lines, Total: cart.Total(lines)}
}

// Checkout settles the cart on behalf of the session user.
func (s *Service) Checkout(ctx context.Context) (models.Receipt, error) {
	current, err := s.requireSession()
	if err != nil {
		return models.Receipt{}, fmt.Errorf("checkout: %w", err)
	}
	return s.checkout.Checkout(ctx, current.Username)
}

// InventoryValue fetches the aggregate warehouse value.
func (s *Service) InventoryValue(ctx context.Context) (*models.InventoryValue, error) {
	return s.api.InventoryValue(ctx)
}

// DailyCut fetches today's cash cut.
func (s *Service) DailyCut(ctx context.Context) (*models.DailyCut, error) {
	return s.api.DailyCut(ctx)
}

// Settings fetches the store configuration.
func (s *Service) Settings(ctx context.Context) (*models.StoreSettings, error) {
	if _, err := s.requireAdmin("get settings"); err != nil {
		return nil, err
	}
	return s.api.Settings(ctx)
}

// SaveSettings replaces the store configuration.
func (s *Service) SaveSettings(ctx context.Context, settings models.StoreSettings) error {
	if _, err := s.requireAdmin("save settings"); err != nil {
		return err
	}
	if err := validate("save settings", settings); err != nil {
		return err
	}
	return s.api.SaveSettings(ctx, settings)
}

// Users lists every account.
func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	if _, err := s.requireAdmin("list users"); err != nil {
		return nil, err
	}
	return s.api.ListUsers(ctx)
}

// RegisterUser creates an account.
func (s *Service) RegisterUser(ctx context.Context, in models.UserInput) error {
	if _, err := s.requireAdmin("create user"); err != nil {
		return err
	}
	in.Username = strings.TrimSpace(in.Username)
	if err := validate("create user", in); err != nil {
		return err
	}
	if err := s.api.CreateUser(ctx, in); err != nil {
		return err
	}
	s.logger.Info("user created", zap.String("username", in.Username), zap.String("role", in.Role))
	return nil
}

// DeleteUser removes an account. The built-in admin account cannot be deleted.
func (s *Service) DeleteUser(ctx context.Context, id int) error {
	if _, err := s.requireAdmin("delete user"); err != nil {
		return err
	}

	users, err := s.api.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, user := range users {
		if user.ID != id {
			continue
		}
		if user.Username == builtinAdmin {
			return domain.Invalid("delete user", "the admin account cannot be deleted")
		}
		return s.api.DeleteUser(ctx, id)
	}
	return &domain.APIError{Op: "delete user", Detail: fmt.Sprintf("user %d not found", id), Kind: domain.ErrNotFound}
}
