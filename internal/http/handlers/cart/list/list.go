// Package list реализует HTTP-обработчик получения корзины текущего покупателя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/velotech/storefront/internal/http/middlewarectx"
	"github.com/velotech/storefront/internal/http/response"
	"github.com/velotech/storefront/internal/lib/sl"
	"github.com/velotech/storefront/internal/models"
)

// Handler обрабатывает запросы содержимого корзины.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики корзины.
type Service interface {
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
// @Summary Корзина покупателя
// @Description Возвращает строки корзины вместе с итогами по количеству и сумме.
// @Tags Cart
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Содержимое корзины"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /cart [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	cart, err := h.service.GetCart(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read cart", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read cart"))
		return
	}

	log.Info("success to read cart", slog.Int("items", len(cart.Items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"cart": cart,
	}))
}
