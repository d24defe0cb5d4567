package models

// StoreSettings holds the store identity printed on tickets.
type StoreSettings struct {
	StoreName     string `json:"nombre_tienda" validate:"required"`
	Address       string `json:"direccion"`
	Phone         string `json:"telefono"`
	TicketMessage string `json:"mensaje_ticket"`
}

// User is an account as listed by GET /usuarios/.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"rol"`
}

// UserInput registers a new account.
type UserInput struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"rol" validate:"required,oneof=admin cajero empleado"`
}
