package handlers

import (
	"net/http"

	"gameon/apperrors"
	"gameon/middleware"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ConnectionRequest struct {
	ReceiverID string `json:"receiverId"`
}

func (h *Handler) RequestConnection(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	var req ConnectionRequest
	if !bindJSON(c, "Connections", &req) {
		return
	}
	receiver, err := primitive.ObjectIDFromHex(req.ReceiverID)
	if err != nil {
		fail(c, "Connections", apperrors.Validation("Invalid user ID", map[string]string{"receiverId": "Invalid user ID"}))
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	conn, err := h.Connections.Request(ctx, middleware.UserID(c), receiver)
	if err != nil {
		fail(c, "Connections", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"connection": conn})
}

func (h *Handler) AcceptConnection(c *gin.Context) { h.respond(c, true) }

func (h *Handler) RejectConnection(c *gin.Context) { h.respond(c, false) }

func (h *Handler) respond(c *gin.Context, accept bool) {
	if _, ok := currentUser(c); !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, "Connections", apperrors.NotFound("Connection request not found"))
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	conn, err := h.Connections.Respond(ctx, middleware.UserID(c), id, accept)
	if err != nil {
		fail(c, "Connections", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connection": conn})
}

// ListConnections returns accepted connections and requests awaiting the
// caller's answer.
func (h *Handler) ListConnections(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	userID := middleware.UserID(c)

	ctx, cancel := h.requestContext(c)
	defer cancel()

	accepted, err := h.Connections.ListAccepted(ctx, userID)
	if err != nil {
		fail(c, "Connections", err)
		return
	}
	pending, err := h.Connections.ListPending(ctx, userID)
	if err != nil {
		fail(c, "Connections", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connections": accepted, "pending": pending})
}
