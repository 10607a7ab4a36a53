package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/school-rewards-web/internal/db"
	"github.com/Spok95/school-rewards-web/internal/models"
)

func (s *Server) adminShop(c *gin.Context) {
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	products, err := db.ListProducts(ctx, s.db, false)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "admin/shop", s.view(c, gin.H{"products": products}))
}

// productDetail — создание и редактирование товара одной формой:
// без :id в пути работаем с новым товаром.
func (s *Server) productDetail(c *gin.Context) {
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	product := &models.Product{}
	isNew := c.Param("id") == ""
	if !isNew {
		id, ok := paramID(c, "id")
		if !ok {
			c.Status(http.StatusNotFound)
			return
		}
		var err error
		product, err = db.GetProductByID(ctx, s.db, id)
		if errors.Is(err, db.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		if err != nil {
			s.serverError(c, err)
			return
		}
	}

	if c.Request.Method == http.MethodPost {
		if done := s.saveProduct(c, product, isNew); done {
			return
		}
	}

	categories, err := db.ListCategories(ctx, s.db)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "admin/product_detail", s.view(c, gin.H{
		"product":    product,
		"categories": categories,
		"is_new":     isNew,
	}))
}

// saveProduct валидирует форму и пишет товар; false — остаёмся на
// форме с флешем об ошибке.
func (s *Server) saveProduct(c *gin.Context, product *models.Product, isNew bool) bool {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		s.flash(c, "error", "Название товара не может быть пустым")
		return false
	}

	price, okPrice := formInt(c, "price")
	quantity, okQty := formInt(c, "quantity")
	if !okPrice || !okQty {
		s.flash(c, "error", "Цена и количество должны быть неотрицательными числами")
		return false
	}

	originalPrice := price
	if v := strings.TrimSpace(c.PostForm("original_price")); v != "" {
		op, ok := formInt(c, "original_price")
		if !ok {
			s.flash(c, "error", "Цена и количество должны быть неотрицательными числами")
			return false
		}
		originalPrice = op
	}
	if price > originalPrice {
		s.flash(c, "error", "Цена со скидкой не может быть больше оригинальной")
		return false
	}

	product.Name = name
	product.Price = price
	product.OriginalPrice = originalPrice
	product.Quantity = quantity
	product.Category = strings.TrimSpace(c.PostForm("category"))
	product.Description = nil
	if d := strings.TrimSpace(c.PostForm("description")); d != "" {
		product.Description = &d
	}

	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		path, err := s.uploads.Save(fh)
		if err != nil {
			s.serverError(c, err)
			return true
		}
		product.Image = &path
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	if isNew {
		if _, err := db.CreateProduct(ctx, s.db, product); err != nil {
			s.serverError(c, err)
			return true
		}
		s.flash(c, "success", fmt.Sprintf("Товар %s добавлен", product.Name))
	} else {
		if err := db.UpdateProduct(ctx, s.db, product); err != nil {
			s.serverError(c, err)
			return true
		}
		s.flash(c, "success", "Товар обновлен")
	}
	c.Redirect(http.StatusFound, "/admin/shop")
	return true
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	if err := db.DeleteProduct(ctx, s.db, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		s.serverError(c, err)
		return
	}
	s.flash(c, "success", "Товар удален")
	c.Redirect(http.StatusFound, "/admin/shop")
}

func (s *Server) adminOrders(c *gin.Context) {
	ctx, cancel := s.dbCtx(c)
	defer cancel()

	orders, err := db.ListOrders(ctx, s.db)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "admin/orders", s.view(c, gin.H{"orders": orders}))
}

// orderDetail — карточка заказа; выдача и отмена разрешены только из
// статуса "pending", повторное нажатие получает флеш об ошибке.
func (s *Server) orderDetail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	ctx, cancel := s.dbCtx(c)
	defer cancel()

	if c.Request.Method == http.MethodPost {
		var err error
		switch {
		case c.PostForm("complete_order") != "":
			if err = db.CompleteOrder(ctx, s.db, id); err == nil {
				s.flash(c, "success", "Заказ выдан")
			}
		case c.PostForm("cancel_order") != "":
			if err = db.CancelOrder(ctx, s.db, id); err == nil {
				s.flash(c, "success", "Заказ отменен, баллы возвращены")
				if o, gerr := db.GetOrderByID(ctx, s.db, id); gerr == nil {
					s.notifier.OrderCancelled(o)
				}
			}
		}
		switch {
		case errors.Is(err, db.ErrOrderNotPending):
			s.flash(c, "error", "Заказ уже обработан")
		case errors.Is(err, db.ErrNotFound):
			c.Status(http.StatusNotFound)
			return
		case err != nil:
			s.serverError(c, err)
			return
		}
		c.Redirect(http.StatusFound, fmt.Sprintf("/admin/orders/%d", id))
		return
	}

	order, err := db.GetOrderByID(ctx, s.db, id)
	if errors.Is(err, db.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render.HTML(c, http.StatusOK, "admin/order_detail", s.view(c, gin.H{"order": order}))
}
