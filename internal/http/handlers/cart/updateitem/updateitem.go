// Package updateitem реализует HTTP-обработчик изменения количества товара в корзине.
//
// Количество ноль или меньше трактуется как удаление строки корзины.
package updateitem

import (
	"context"
	"encoding/json"
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

// Request — входные данные для изменения количества.
type Request struct {
	Quantity int `json:"quantity"`
}

// Handler обрабатывает запросы изменения количества товара в корзине.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики изменения корзины.
type Service interface {
	UpdateQuantity(ctx context.Context, userUID, productID string, quantity int) error
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
// @Summary Изменить количество товара в корзине
// @Description Устанавливает новое количество. Ноль или отрицательное значение удаляет строку.
// @Tags Cart
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param productID path string true "ID товара"
// @Param request body Request true "Новое количество"
// @Success 200 {object} map[string]any "Обновленная корзина"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /cart/items/{productID} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.updateitem"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.UpdateQuantity(r.Context(), userUID, productID, req.Quantity); err != nil {
		log.Error("failed to update cart item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update cart item"))
		return
	}

	cart, err := h.service.GetCart(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read cart after update", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read cart"))
		return
	}

	log.Info("cart item updated", slog.String("product_id", productID), slog.Int("quantity", req.Quantity))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"cart": cart,
	}))
}
