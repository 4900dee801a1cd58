package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
)

const (
	msgInvalidBody     = "Invalid request body"
	msgProductNotFound = "Product not found"

	HeaderTotalCount = "X-Total-Count"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	offset, limit, _ := util.Paging(c.QueryParam("page"), c.QueryParam("size"))
	total, items, err := h.Svc.GetProducts(ctx, offset, limit)
	if err != nil {
		l.Error("get_products_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve products")
	}

	c.Response().Header().Set(HeaderTotalCount, strconv.FormatInt(total, 10))
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	product, err := h.Svc.GetProduct(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_failed", "status", 404, "product_id", c.Param("id"))
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		}
		l.Error("get_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve product")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			l.Warn("search_failed", "status", 400, "reason", ve.Message)
			return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
		}
		l.Error("search_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to search products")
	}

	c.Response().Header().Set(HeaderTotalCount, strconv.FormatInt(total, 10))
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	created, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			l.Warn("product_create_failed", "status", 400, "reason", ve.Message)
			return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
		}
		l.Error("product_create_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create product")
	}

	l.Info("product_created", "product_id", created.ID)
	return c.JSON(http.StatusCreated, created)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	var req transport.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_update_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	prod, err := h.Svc.PatchProduct(ctx, req, c.Param("id"))
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("product_update_failed", "status", 404, "product_id", c.Param("id"))
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		case errors.As(err, &ve):
			l.Warn("product_update_failed", "status", 400, "reason", ve.Message)
			return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
		default:
			l.Error("product_update_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update product")
		}
	}

	l.Info("product_updated", "product_id", prod.ID)
	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	if err := h.Svc.DeleteProduct(ctx, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("product_delete_failed", "status", 404, "product_id", c.Param("id"))
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		}
		l.Error("product_delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete product")
	}

	l.Info("product_deleted", "product_id", c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}
