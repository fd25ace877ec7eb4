package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"traffic-worker-go/internal/models"
	"traffic-worker-go/internal/services/broadcast"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type StreamHandler struct {
	broadcast *broadcast.Service
}

func NewStreamHandler(bcast *broadcast.Service) *StreamHandler {
	return &StreamHandler{broadcast: bcast}
}

// wsViewer adapts a websocket connection to the broadcast viewer contract.
type wsViewer struct {
	conn *websocket.Conn
}

func (v *wsViewer) Send(msg *models.StreamMessage) error {
	return v.conn.WriteJSON(msg)
}

// Stream godoc
// @Summary Live detection stream
// @Description Upgrade to a websocket and receive annotated frames with running counts
// @Tags stream
// @Router /ws [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}
	defer conn.Close()

	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("Stream viewer connected")

	h.broadcast.Run(c.Request.Context(), &wsViewer{conn: conn})

	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("Stream viewer disconnected")
}
