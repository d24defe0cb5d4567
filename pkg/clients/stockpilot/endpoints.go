package stockpilot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/mamadbah2/stockpilot/internal/domain"
	"github.com/mamadbah2/stockpilot/internal/domain/models"
)

// Login exchanges credentials for a bearer token. It never uses the bound session.
func (c *APIClient) Login(ctx context.Context, username, password string) (*models.LoginResult, error) {
	result := new(models.LoginResult)

	resp, err := c.request(ctx).
		SetFormData(map[string]string{
			"username": username,
			"password": password,
		}).
		SetResult(result).
		Post("/token")
	if err != nil {
		return nil, c.check("login", resp, err)
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusUnauthorized, status == http.StatusBadRequest:
		return nil, &domain.APIError{Op: "login", Status: status, Detail: parseDetail(resp.Body()), Kind: domain.ErrInvalidCredentials}
	case status >= http.StatusBadRequest:
		return nil, c.check("login", resp, nil)
	}

	if result.AccessToken == "" {
		return nil, &domain.APIError{Op: "login", Status: resp.StatusCode(), Detail: "empty access token", Kind: domain.ErrServer}
	}
	return result, nil
}

// ListProducts fetches the whole catalog.
func (c *APIClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	req, err := c.authed(ctx, "list products")
	if err != nil {
		return nil, err
	}

	var products []models.Product
	resp, err := req.SetResult(&products).Get("/productos/")
	if err := c.check("list products", resp, err); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct registers a new catalog entry.
func (c *APIClient) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	req, err := c.authed(ctx, "create product")
	if err != nil {
		return nil, err
	}

	product := new(models.Product)
	resp, err := req.SetBody(in).SetResult(product).Post("/productos/")
	if err := c.check("create product", resp, err); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct overwrites a catalog entry.
func (c *APIClient) UpdateProduct(ctx context.Context, id int, in models.ProductInput) (*models.Product, error) {
	req, err := c.authed(ctx, "update product")
	if err != nil {
		return nil, err
	}

	product := new(models.Product)
	resp, err := req.SetBody(in).SetResult(product).Put("/productos/" + strconv.Itoa(id))
	if err := c.check("update product", resp, err); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a catalog entry.
func (c *APIClient) DeleteProduct(ctx context.Context, id int) error {
	req, err := c.authed(ctx, "delete product")
	if err != nil {
		return err
	}

	resp, err := req.Delete("/productos/" + strconv.Itoa(id))
	return c.check("delete product", resp, err)
}

// ImportProducts uploads a spreadsheet; the backend creates or updates products by SKU.
func (c *APIClient) ImportProducts(ctx context.Context, filename string, content io.Reader) (*models.ImportResult, error) {
	req, err := c.authed(ctx, "import products")
	if err != nil {
		return nil, err
	}

	result := new(models.ImportResult)
	resp, err := req.SetFileReader("file", filename, content).SetResult(result).Post("/productos/importar_excel")
	if err := c.check("import products", resp, err); err != nil {
		return nil, err
	}
	return result, nil
}

// ExportProducts downloads the catalog as an .xlsx spreadsheet.
func (c *APIClient) ExportProducts(ctx context.Context) ([]byte, error) {
	req, err := c.authed(ctx, "export products")
	if err != nil {
		return nil, err
	}

	resp, err := req.Get("/productos/exportar_excel")
	if err := c.check("export products", resp, err); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// InventoryValue fetches the aggregate warehouse value.
func (c *APIClient) InventoryValue(ctx context.Context) (*models.InventoryValue, error) {
	req, err := c.authed(ctx, "inventory value")
	if err != nil {
		return nil, err
	}

	value := new(models.InventoryValue)
	resp, err := req.SetResult(value).Get("/reportes/valor-inventario")
	if err := c.check("inventory value", resp, err); err != nil {
		return nil, err
	}
	return value, nil
}

// DailyCut fetches today's cash-register reconciliation.
func (c *APIClient) DailyCut(ctx context.Context) (*models.DailyCut, error) {
	req, err := c.authed(ctx, "daily cut")
	if err != nil {
		return nil, err
	}

	cut := new(models.DailyCut)
	resp, err := req.SetResult(cut).Get("/reportes/corte_dia")
	if err := c.check("daily cut", resp, err); err != nil {
		return nil, err
	}
	return cut, nil
}

// RegisterMovement records a stock IN/OUT.
func (c *APIClient) RegisterMovement(ctx context.Context, in models.MovementInput) (*models.MovementResult, error) {
	req, err := c.authed(ctx, "register movement")
	if err != nil {
		return nil, err
	}

	result := new(models.MovementResult)
	resp, err := req.SetBody(in).SetResult(result).Post("/movimientos/")
	if err := c.check("register movement", resp, err); err != nil {
		return nil, err
	}
	return result, nil
}

// ListMovements fetches the movement log, newest first, optionally bounded by dates.
func (c *APIClient) ListMovements(ctx context.Context, filter models.MovementFilter) ([]models.Movement, error) {
	req, err := c.authed(ctx, "list movements")
	if err != nil {
		return nil, err
	}

	if filter.From != "" {
		req.SetQueryParam("fecha_inicio", filter.From)
	}
	if filter.To != "" {
		req.SetQueryParam("fecha_fin", filter.To)
	}

	var movements []models.Movement
	resp, err := req.SetResult(&movements).Get("/movimientos/")
	if err := c.check("list movements", resp, err); err != nil {
		return nil, err
	}
	return movements, nil
}

// PurgeMovements deletes history older than before (YYYY-MM-DD). The backend
// checks adminPassword.
func (c *APIClient) PurgeMovements(ctx context.Context, before, adminPassword string) (*models.PurgeResult, error) {
	req, err := c.authed(ctx, "purge movements")
	if err != nil {
		return nil, err
	}

	result := new(models.PurgeResult)
	resp, err := req.
		SetQueryParams(map[string]string{
			"fecha_limite": before,
			"clave_admin":  adminPassword,
		}).
		SetResult(result).
		Delete("/movimientos/limpiar")
	if err := c.check("purge movements", resp, err); err != nil {
		return nil, err
	}
	return result, nil
}

// Checkout settles a sale.
func (c *APIClient) Checkout(ctx context.Context, sale models.SaleRequest) (*models.SaleResult, error) {
	req, err := c.authed(ctx, "checkout")
	if err != nil {
		return nil, err
	}

	result := new(models.SaleResult)
	resp, err := req.SetBody(sale).SetResult(result).Post("/ventas/checkout")
	if err := c.check("checkout", resp, err); err != nil {
		return nil, err
	}
	return result, nil
}

// TicketPDF renders the receipt of a sale as PDF bytes.
func (c *APIClient) TicketPDF(ctx context.Context, sale models.SaleRequest) ([]byte, error) {
	req, err := c.authed(ctx, "ticket pdf")
	if err != nil {
		return nil, err
	}

	resp, err := req.SetHeader("Accept", "application/pdf").SetBody(sale).Post("/ventas/ticket_pdf")
	if err := c.check("ticket pdf", resp, err); err != nil {
		return nil, err
	}
	if len(resp.Body()) == 0 {
		return nil, errors.New("ticket pdf: empty document")
	}
	return resp.Body(), nil
}

// Settings fetches the store configuration.
func (c *APIClient) Settings(ctx context.Context) (*models.StoreSettings, error) {
	req, err := c.authed(ctx, "get settings")
	if err != nil {
		return nil, err
	}

	settings := new(models.StoreSettings)
	resp, err := req.SetResult(settings).Get("/configuracion/")
	if err := c.check("get settings", resp, err); err != nil {
		return nil, err
	}
	return settings, nil
}

// SaveSettings replaces the store configuration.
func (c *APIClient) SaveSettings(ctx context.Context, settings models.StoreSettings) error {
	req, err := c.authed(ctx, "save settings")
	if err != nil {
		return err
	}

	resp, err := req.SetBody(settings).Post("/configuracion/")
	return c.check("save settings", resp, err)
}

// ListUsers fetches every account.
func (c *APIClient) ListUsers(ctx context.Context) ([]models.User, error) {
	req, err := c.authed(ctx, "list users")
	if err != nil {
		return nil, err
	}

	var users []models.User
	resp, err := req.SetResult(&users).Get("/usuarios/")
	if err := c.check("list users", resp, err); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser registers an account through the public sign-up route.
func (c *APIClient) CreateUser(ctx context.Context, in models.UserInput) error {
	req, err := c.authed(ctx, "create user")
	if err != nil {
		return err
	}

	resp, err := req.SetBody(in).Post("/registrar/")
	return c.check("create user", resp, err)
}

// DeleteUser removes an account.
func (c *APIClient) DeleteUser(ctx context.Context, id int) error {
	req, err := c.authed(ctx, "delete user")
	if err != nil {
		return err
	}

	resp, err := req.Delete(fmt.Sprintf("/usuarios/%d", id))
	return c.check("delete user", resp, err)
}
