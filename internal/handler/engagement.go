package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mensajes/internal/queue"
	"github.com/iliyamo/mensajes/internal/repository"
)

// EngagementHandler serves likes, reposts and comments. Likes and
// reposts share the toggle protocol and differ only in table and
// response field name; comments are append-only.
type EngagementHandler struct {
	Users    *repository.UserRepo
	Messages *repository.MessageRepo
	Likes    *repository.EngagementRepo
	Reposts  *repository.EngagementRepo
	Comments *repository.CommentRepo
}

func NewEngagementHandler(u *repository.UserRepo, m *repository.MessageRepo, likes, reposts *repository.EngagementRepo, comments *repository.CommentRepo) *EngagementHandler {
	return &EngagementHandler{Users: u, Messages: m, Likes: likes, Reposts: reposts, Comments: comments}
}

// ToggleLike handles POST /api/mensajes/:id/like.
func (h *EngagementHandler) ToggleLike(c echo.Context) error {
	total, active, done, err := h.toggle(c, h.Likes, queue.ActivityLikeToggled)
	if done {
		return err
	}
	return c.JSON(http.StatusOK, likesPart{Total: total, Liked: active})
}

// ToggleRepost handles POST /api/mensajes/:id/republicar.
func (h *EngagementHandler) ToggleRepost(c echo.Context) error {
	total, active, done, err := h.toggle(c, h.Reposts, queue.ActivityRepostToggled)
	if done {
		return err
	}
	return c.JSON(http.StatusOK, repostsPart{Total: total, Reposted: active})
}

// toggle runs the shared like/repost flow. When done is true an error
// response has already been written and callers must not render a
// body of their own.
func (h *EngagementHandler) toggle(c echo.Context, repo *repository.EngagementRepo, kind string) (total int, active, done bool, err error) {
	userID, err := getUserID(c)
	if err != nil {
		return 0, false, true, c.JSON(http.StatusUnauthorized, echo.Map{"error": "No autorizado"})
	}
	messageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || messageID == 0 {
		return 0, false, true, c.JSON(http.StatusNotFound, echo.Map{"error": "Mensaje no encontrado"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Messages.GetByID(ctx, messageID); err != nil {
		if err == repository.ErrMessageNotFound {
			return 0, false, true, c.JSON(http.StatusNotFound, echo.Map{"error": "Mensaje no encontrado"})
		}
		return 0, false, true, c.JSON(http.StatusInternalServerError, echo.Map{"error": "error de base de datos"})
	}

	total, active, err = repo.Toggle(ctx, userID, messageID)
	if err != nil {
		if err == repository.ErrMessageNotFound {
			return 0, false, true, c.JSON(http.StatusNotFound, echo.Map{"error": "Mensaje no encontrado"})
		}
		return 0, false, true, c.JSON(http.StatusInternalServerError, echo.Map{"error": "error de base de datos"})
	}

	publishActivity(queue.ActivityEvent{
		Kind:       kind,
		MessageID:  messageID,
		UserID:     userID,
		Active:     active,
		Total:      total,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
	return total, active, false, nil
}

// AddComment handles POST /api/mensajes/:id/comentarios. Comment text
// follows the same validation rules as message text.
func (h *EngagementHandler) AddComment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No autorizado"})
	}
	messageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || messageID == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Mensaje no encontrado"})
	}
	var req textReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cuerpo inválido"})
	}
	text, msg := validateText(req.Text, "comentario")
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Messages.GetByID(ctx, messageID); err != nil {
		if err == repository.ErrMessageNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Mensaje no encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error de base de datos"})
	}

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error de base de datos"})
	}
	cm, err := h.Comments.Create(ctx, userID, messageID, text)
	if err != nil {
		if err == repository.ErrMessageNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Mensaje no encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo agregar el comentario"})
	}

	publishActivity(queue.ActivityEvent{
		Kind:       queue.ActivityCommentAdded,
		MessageID:  messageID,
		UserID:     userID,
		ActorName:  u.DisplayName(),
		Active:     true,
		OccurredAt: cm.CreatedAt.Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, commentPart{
		ID:        cm.ID,
		Text:      cm.Text,
		CreatedAt: cm.CreatedAt,
		Author:    u.Name,
	})
}
