package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/craftforge/craftforge/internal/middleware"
	"github.com/craftforge/craftforge/internal/notify"
	"github.com/craftforge/craftforge/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is consumed from arbitrary origins; auth happens via token.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebSocket upgrades the connection and pumps notifications to the
// authenticated user until either side disconnects.
func handleWebSocket(hub *notify.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			utils.UnauthorizedResponse(c, "Authorization token required")
			return
		}
		claims, err := middleware.ParseToken(token)
		if err != nil {
			utils.UnauthorizedResponse(c, "Invalid token")
			return
		}
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			utils.UnauthorizedResponse(c, "Invalid token")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.WithError(err).Warn("websocket upgrade failed")
			return
		}
		hub.ServeConn(conn, userID)
	}
}
