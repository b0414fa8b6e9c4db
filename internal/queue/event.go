// Package queue defines message payloads exchanged over the message broker.
package queue

// Activity kinds published to the feed.activity queue.
const (
	ActivityMessagePublished = "mensaje.publicado"
	ActivityMessageDeleted   = "mensaje.eliminado"
	ActivityLikeToggled      = "like.alternado"
	ActivityCommentAdded     = "comentario.agregado"
	ActivityRepostToggled    = "republicacion.alternada"
)

// ActivityEvent is published whenever a user posts, deletes, likes,
// comments or reposts. It carries enough information for downstream
// consumers to log, notify, or feed analytics without querying the
// primary database. Active reports the post-toggle state for like and
// repost events and is true for the others.
type ActivityEvent struct {
	Kind       string `json:"kind"`
	MessageID  uint64 `json:"message_id"`
	UserID     uint64 `json:"user_id"`
	ActorName  string `json:"actor_name"`
	Active     bool   `json:"active"`
	Total      int    `json:"total"`
	OccurredAt string `json:"occurred_at"`
}
