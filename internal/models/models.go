package models

const RoleAdmin = "admin"

// User is one entry of the user.json collection. PasswordHash is a bcrypt
// hash and must never leave the process.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password"`
	Role         string `json:"role"`
}

// Product is one entry of the products.json collection. Img is nil when no
// image was ever supplied.
type Product struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Price    float64  `json:"price"`
	Img      *string  `json:"img"`
	Stock    bool     `json:"stock"`
	Sizes    []string `json:"sizes"`
}
