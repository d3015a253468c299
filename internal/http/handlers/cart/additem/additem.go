// Package additem реализует HTTP-обработчик добавления товара в корзину.
//
// Повторное добавление того же товара увеличивает количество уже существующей
// строки корзины, а не создает дубликат.
package additem

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/velotech/storefront/internal/http/middlewarectx"
	"github.com/velotech/storefront/internal/http/response"
	"github.com/velotech/storefront/internal/lib/sl"
	"github.com/velotech/storefront/internal/models"
	services "github.com/velotech/storefront/internal/services/cart"
)

// Request — входные данные для добавления товара в корзину.
type Request struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// Handler обрабатывает запросы добавления товара в корзину.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики добавления в корзину.
type Service interface {
	AddItem(ctx context.Context, userUID, productID string, quantity int) error
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
// @Summary Добавить товар в корзину
// @Description Добавляет товар либо увеличивает количество уже лежащей в корзине строки.
// @Tags Cart
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Товар и количество"
// @Success 200 {object} map[string]any "Обновленная корзина"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /cart/items [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.additem"

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
	log.Info("request body decoded", slog.Any("request", req))

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

	if err := h.service.AddItem(r.Context(), userUID, req.ProductID, req.Quantity); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			log.Error("product not found", slog.String("product_id", req.ProductID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("product not found"))
			return
		}
		log.Error("failed to add item to cart", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not add item to cart"))
		return
	}

	cart, err := h.service.GetCart(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read cart after add", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read cart"))
		return
	}

	log.Info("item added to cart", slog.String("product_id", req.ProductID), slog.Int("quantity", req.Quantity))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"cart": cart,
	}))
}
