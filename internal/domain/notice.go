package domain

import "errors"

// Notice turns an error into the message shown to the store operator.
// Server-rejected payloads surface the backend detail verbatim.
func Notice(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Usuario o contraseña incorrectos"
	case errors.Is(err, ErrAuthExpired), errors.Is(err, ErrNotAuthenticated):
		return "Tu sesión ha expirado, inicia sesión de nuevo"
	case errors.Is(err, ErrForbidden):
		return "Solo un administrador puede realizar esta acción"
	case errors.Is(err, ErrNetwork):
		return "Error de conexión con el servidor"
	case errors.Is(err, ErrSoldOut):
		return "Producto agotado"
	case errors.Is(err, ErrOutOfStock):
		return "¡No tienes más stock de este producto!"
	case errors.Is(err, ErrEmptyCart):
		return "Agrega productos antes de cobrar"
	case errors.Is(err, ErrProductNotFound):
		return "El producto no existe en el inventario"
	case errors.Is(err, ErrLineNotFound):
		return "El artículo ya no está en el carrito"
	case errors.Is(err, ErrCheckoutInProgress):
		return "Ya hay un cobro en proceso"
	}

	if detail := Detail(err); detail != "" {
		return detail
	}

	switch {
	case errors.Is(err, ErrValidation):
		return "Datos inválidos"
	case errors.Is(err, ErrNotFound):
		return "Recurso no encontrado"
	}

	var checkoutErr *CheckoutError
	if errors.As(err, &checkoutErr) {
		return "No se pudo procesar la venta"
	}

	return "Ocurrió un error inesperado"
}
