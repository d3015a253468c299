// Package message реализует HTTP-обработчик сообщений чат-бота поддержки.
//
// Handler принимает текст сообщения и опциональный ID диалога, вызывает
// бизнес-логику чата и возвращает ответ ассистента вместе с товарами,
// попавшими в контекст.
package message

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/velotech/storefront/internal/http/response"
	"github.com/velotech/storefront/internal/lib/sl"
	services "github.com/velotech/storefront/internal/services/chat"
)

// Request — входные данные сообщения чат-бота.
type Request struct {
	Message        string `json:"message" validate:"required,max=2000"`
	ConversationID string `json:"conversation_id,omitempty"`
	SessionID      string `json:"session_id" validate:"required"`
}

// Handler обрабатывает сообщения чат-бота.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики чата.
type Service interface {
	HandleMessage(ctx context.Context, message, conversationID, sessionID string) (*services.Reply, error)
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
// @Summary Сообщение чат-боту
// @Description Отправляет сообщение ассистенту магазина и возвращает его ответ.
// @Tags Chat
// @Accept  json
// @Produce  json
// @Param request body Request true "Текст сообщения и идентификаторы диалога"
// @Success 200 {object} map[string]any "Ответ ассистента"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /chat/message [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.message"

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
	log.Info("request body decoded", slog.String("session_id", req.SessionID))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	reply, err := h.service.HandleMessage(r.Context(), req.Message, req.ConversationID, req.SessionID)
	if err != nil {
		log.Error("failed to handle chat message", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not process message"))
		return
	}

	log.Info("chat message handled", slog.String("conversation_id", reply.ConversationID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"reply":           reply.Text,
		"conversation_id": reply.ConversationID,
		"products":        reply.Products,
	}))
}
