// Package merge реализует HTTP-обработчик слияния анонимной корзины с серверной.
//
// Клиент после входа присылает строки локальной корзины, количества совпадающих
// товаров суммируются с уже лежащими на сервере. Неизвестные товары пропускаются.
package merge

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/velotech/storefront/internal/http/middlewarectx"
	"github.com/velotech/storefront/internal/http/response"
	"github.com/velotech/storefront/internal/lib/sl"
	"github.com/velotech/storefront/internal/models"
)

// Request — строки анонимной корзины для слияния.
type Request struct {
	Items []models.MergeItem `json:"items" validate:"required,dive"`
}

// Handler обрабатывает запросы слияния корзин.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики слияния корзин.
type Service interface {
	Merge(ctx context.Context, userUID string, items []models.MergeItem) error
	GetCart(ctx context.Context, userUID string) (*models.Cart, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Слить анонимную корзину
// @Description Суммирует количества присланных строк с серверной корзиной.
// @Tags Cart
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Строки анонимной корзины"
// @Success 200 {object} map[string]any "Обновленная корзина"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /cart/merge [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.merge"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Int("items", len(req.Items)))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Merge(r.Context(), userUID, req.Items); err != nil {
		log.Error("failed to merge carts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not merge carts"))
		return
	}

	cart, err := h.service.GetCart(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read cart after merge", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read cart"))
		return
	}

	log.Info("carts merged", slog.Int("items", len(req.Items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"cart": cart,
	}))
}
