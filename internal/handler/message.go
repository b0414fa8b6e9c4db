package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mensajes/internal/model"
	"github.com/iliyamo/mensajes/internal/queue"
	"github.com/iliyamo/mensajes/internal/repository"
)

// MessageHandler serves the feed: listing, creating and deleting
// messages. Session middleware has already placed the authenticated
// user id in the context.
type MessageHandler struct {
	Users    *repository.UserRepo
	Messages *repository.MessageRepo
}

func NewMessageHandler(u *repository.UserRepo, m *repository.MessageRepo) *MessageHandler {
	return &MessageHandler{Users: u, Messages: m}
}

// ----- DTOs -----

type textReq struct {
	Text string `json:"texto"`
}

type likesPart struct {
	Total int  `json:"total"`
	Liked bool `json:"dio_like"`
}

type repostsPart struct {
	Total    int  `json:"total"`
	Reposted bool `json:"republico"`
}

type commentPart struct {
	ID        uint64    `json:"id"`
	Text      string    `json:"texto"`
	CreatedAt time.Time `json:"fecha"`
	Author    string    `json:"usuario"`
}

type feedItemPart struct {
	ID          uint64        `json:"id"`
	Text        string        `json:"texto"`
	CreatedAt   time.Time     `json:"fecha"`
	AuthorName  string        `json:"authorName"`
	Username    string        `json:"username"`
	Likes       likesPart     `json:"likes"`
	Comments    []commentPart `json:"comentarios"`
	Reposts     repostsPart   `json:"republicaciones"`
}

func toFeedItemPart(it repository.FeedItem) feedItemPart {
	comments := make([]commentPart, 0, len(it.Comments))
	for _, fc := range it.Comments {
		comments = append(comments, commentPart{
			ID:        fc.ID,
			Text:      fc.Text,
			CreatedAt: fc.CreatedAt,
			Author:    fc.AuthorName,
		})
	}
	return feedItemPart{
		ID:         it.ID,
		Text:       it.Text,
		CreatedAt:  it.CreatedAt,
		AuthorName: it.AuthorName,
		Username:   it.AuthorEmail,
		Likes:      likesPart{Total: it.LikeTotal, Liked: it.Liked},
		Comments:   comments,
		Reposts:    repostsPart{Total: it.RepostTotal, Reposted: it.Reposted},
	}
}

// validateText applies the shared rules for user-supplied text: trim,
// reject empty, reject over the column limit. Returns the trimmed text
// and an empty string, or "" and a client-facing error message.
func validateText(raw, what string) (string, string) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", "El " + what + " no puede estar vacío."
	}
	if len([]rune(text)) > model.MaxTextLen {
		return "", "El " + what + " supera el máximo de 2000 caracteres."
	}
	return text, ""
}

// List handles GET /api/mensajes: all messages newest-first, annotated
// for the requesting user.
func (h *MessageHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No autorizado"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Messages.ListFeed(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error de base de datos"})
	}
	out := make([]feedItemPart, 0, len(items))
	for _, it := range items {
		out = append(out, toFeedItemPart(it))
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /api/mensajes and returns the new message in the
// same shape as a zero-engagement feed item.
func (h *MessageHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No autorizado"})
	}
	var req textReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cuerpo inválido"})
	}
	text, msg := validateText(req.Text, "mensaje")
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error de base de datos"})
	}
	m, err := h.Messages.Create(ctx, userID, text)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo publicar el mensaje"})
	}

	publishActivity(queue.ActivityEvent{
		Kind:       queue.ActivityMessagePublished,
		MessageID:  m.ID,
		UserID:     userID,
		ActorName:  u.DisplayName(),
		Active:     true,
		OccurredAt: m.CreatedAt.Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, feedItemPart{
		ID:         m.ID,
		Text:       m.Text,
		CreatedAt:  m.CreatedAt,
		AuthorName: u.DisplayName(),
		Username:   u.Email,
		Likes:      likesPart{},
		Comments:   []commentPart{},
		Reposts:    repostsPart{},
	})
}

// Delete handles DELETE /api/mensajes/:id. Only the author may delete;
// dependent engagement rows cascade with the message.
func (h *MessageHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No autorizado"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Mensaje no encontrado"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Messages.Delete(ctx, id, userID); err != nil {
		switch err {
		case repository.ErrMessageNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Mensaje no encontrado"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "No autorizado"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo eliminar el mensaje"})
		}
	}

	publishActivity(queue.ActivityEvent{
		Kind:       queue.ActivityMessageDeleted,
		MessageID:  id,
		UserID:     userID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"mensaje": "Mensaje eliminado"})
}
