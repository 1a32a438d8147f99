package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avanti-store/catalog-backend/internal/service"
	"github.com/avanti-store/catalog-backend/internal/upload"
	"github.com/avanti-store/catalog-backend/pkg/logging"
)

// uploadField is the multipart field carrying the product image.
const uploadField = "img_file"

type ProductHTTP struct {
	Svc     *service.CatalogService
	Uploads *upload.Saver
}

func (h *ProductHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.Svc.List(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_products_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read products")
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	product, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_failed", "status", 404, "reason", "unknown product")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read product")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()

	in, err := h.formInput(c)
	if err != nil {
		return err
	}

	product, err := h.Svc.Create(ctx, *in)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid product data")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create product")
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()

	in, err := h.formInput(c)
	if err != nil {
		return err
	}

	// without a fresh upload the image keeps whatever URL the client sent
	if in.Img == nil {
		if v := c.FormValue("img_url"); v != "" {
			in.Img = &v
		}
	}

	product, err := h.Svc.Update(ctx, c.Param("id"), *in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid product data")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
		}
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.Svc.Delete(ctx, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete product")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "product deleted",
	})
}

// formInput collects the multipart form fields and stores the uploaded image,
// if any. Uploads with disallowed extensions count as "no image".
func (h *ProductHTTP) formInput(c echo.Context) (*service.ProductInput, error) {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.form")

	in := service.ProductInput{
		Name:     c.FormValue("name"),
		Category: c.FormValue("category"),
		Price:    c.FormValue("price"),
		Stock:    c.FormValue("stock"),
		Sizes:    c.FormValue("sizes"),
	}

	file, err := c.FormFile(uploadField)
	if err != nil || file.Filename == "" {
		return &in, nil
	}

	src, err := file.Open()
	if err != nil {
		l.Warn("upload_failed", "status", 400, "reason", "cannot open upload", "error", err)
		return nil, echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}
	defer src.Close()

	url, err := h.Uploads.Save(file.Filename, src)
	if err != nil {
		l.Error("upload_failed", "status", 500, "error", err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "cannot store uploaded file")
	}
	if url != "" {
		in.Img = &url
	}
	return &in, nil
}
