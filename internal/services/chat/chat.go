// Package services реализует чат-бота поддержки магазина.
//
// Релевантные товары подбираются простым пересечением ключевых слов запроса
// с текстом карточки и подмешиваются контекстом в запрос к языковой модели.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/velotech/storefront/internal/llm"
	"github.com/velotech/storefront/internal/metrics"
	"github.com/velotech/storefront/internal/models"
)

const systemPrompt = "You are the VeloTech support assistant, an online store for bicycles and " +
	"cycling gear. Help customers pick products, answer questions about cycling and maintenance, " +
	"and mention relevant store products with name and price when they appear in the context. " +
	"Keep answers concise."

const historyLimit = 10

// maxContextProducts сколько товаров попадает в контекст модели.
const maxContextProducts = 5

// ProductLister отдает каталог для текстового поиска.
type ProductLister interface {
	List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
}

// ChatRepository определяет хранение диалогов и сообщений.
type ChatRepository interface {
	CreateConversation(ctx context.Context, sessionID string) (*models.ChatConversation, error)
	SaveChatMessage(ctx context.Context, conversationID, role, content string) error
	ListChatMessages(ctx context.Context, conversationID string, limit int) ([]models.ChatMessage, error)
}

// Completer абстракция над клиентом языковой модели.
type Completer interface {
	ChatCompletion(ctx context.Context, messages []llm.Message) (string, error)
}

// Reply ответ чат-бота вместе с товарами, попавшими в контекст.
type Reply struct {
	Text           string
	ConversationID string
	Products       []models.ScoredProduct
}

// ChatService обрабатывает сообщения чат-бота.
type ChatService struct {
	repo      ChatRepository
	products  ProductLister
	completer Completer
	log       *slog.Logger
}

// NewChatService создает новый экземпляр ChatService.
func NewChatService(repo ChatRepository, products ProductLister, completer Completer, log *slog.Logger) *ChatService {
	return &ChatService{
		repo:      repo,
		products:  products,
		completer: completer,
		log:       log,
	}
}

// HandleMessage обрабатывает сообщение клиента: ищет товары, собирает историю,
// спрашивает модель и сохраняет обе реплики.
func (s *ChatService) HandleMessage(ctx context.Context, message, conversationID, sessionID string) (*Reply, error) {
	const op = "chat.HandleMessage"

	catalog, err := s.products.List(ctx, models.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	relevant := SearchProducts(catalog, message)

	if conversationID == "" {
		conv, err := s.repo.CreateConversation(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		conversationID = conv.ID
	}

	history, err := s.repo.ListChatMessages(ctx, conversationID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    "system",
		Content: systemPrompt + productContext(relevant),
	})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: models.ChatRoleUser, Content: message})

	answer, err := s.completer.ChatCompletion(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.SaveChatMessage(ctx, conversationID, models.ChatRoleUser, message); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.SaveChatMessage(ctx, conversationID, models.ChatRoleAssistant, answer); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.ChatMessagesTotal.Inc()

	return &Reply{
		Text:           answer,
		ConversationID: conversationID,
		Products:       relevant,
	}, nil
}

// SearchProducts оценивает товары по числу совпавших слов запроса
// (учитываются слова длиннее двух символов) и возвращает до пяти лучших.
func SearchProducts(catalog []*models.Product, query string) []models.ScoredProduct {
	var terms []string
	for _, t := range strings.Fields(strings.ToLower(query)) {
		if len(t) > 2 {
			terms = append(terms, t)
		}
	}
	if len(terms) == 0 {
		return nil
	}

	var scored []models.ScoredProduct
	for _, p := range catalog {
		searchText := strings.ToLower(p.Name + " " + p.Description + " " + p.Category)
		score := 0
		for _, term := range terms {
			if strings.Contains(searchText, term) {
				score++
			}
		}
		if score > 0 {
			scored = append(scored, models.ScoredProduct{Product: *p, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > maxContextProducts {
		scored = scored[:maxContextProducts]
	}
	return scored
}

func productContext(products []models.ScoredProduct) string {
	if len(products) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nRelevant store products:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- %s: %.2f (category: %s)\n", p.Name, p.Price, p.Category)
		if p.Description != "" {
			fmt.Fprintf(&b, "  %s\n", p.Description)
		}
	}
	return b.String()
}
