package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/avanti-store/catalog-backend/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	ProductHandler *ProductHTTP
	Guard          *authmw.Guard
	StaticDir      string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	// uploaded images live under STATIC_DIR/uploads
	e.Static("/static", d.StaticDir)

	api := e.Group("/api")
	api.POST("/register", d.AuthHandler.Register)
	api.POST("/login", d.AuthHandler.Login)
	api.GET("/logout", d.AuthHandler.Logout)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.List)

	admin := products.Group("", d.Guard.RequireAdmin)
	admin.GET("/:id", d.ProductHandler.Get)
	admin.POST("", d.ProductHandler.Create)
	admin.PUT("/:id", d.ProductHandler.Update)
	admin.DELETE("/:id", d.ProductHandler.Delete)
}
