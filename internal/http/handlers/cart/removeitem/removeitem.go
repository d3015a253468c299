// Package removeitem реализует HTTP-обработчик удаления товара из корзины.
//
// Удаление отсутствующей строки не считается ошибкой.
package removeitem

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/velotech/storefront/internal/http/middlewarectx"
	"github.com/velotech/storefront/internal/http/response"
	"github.com/velotech/storefront/internal/lib/sl"
	"github.com/velotech/storefront/internal/models"
)

// Handler обрабатывает запросы удаления товара из корзины.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления из корзины.
type Service interface {
	RemoveItem(ctx context.Context, userUID, productID string) error
	GetCart(ctx context.Context, userUID string) (*models.Cart, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить товар из корзины
// @Description Удаляет строку корзины. Повторный вызов безопасен.
// @Tags Cart
// @Produce  json
// @Security BearerAuth
// @Param productID path string true "ID товара"
// @Success 200 {object} map[string]any "Обновленная корзина"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /cart/items/{productID} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.removeitem"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	productID := chi.URLParam(r, "productID")
	if productID == "" {
		log.Error("missing product id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing product id"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.RemoveItem(r.Context(), userUID, productID); err != nil {
		log.Error("failed to remove cart item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove cart item"))
		return
	}

	cart, err := h.service.GetCart(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read cart after remove", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read cart"))
		return
	}

	log.Info("cart item removed", slog.String("product_id", productID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"cart": cart,
	}))
}
