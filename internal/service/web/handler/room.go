package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/qiniu/x/xlog"

	errors2 "github.com/solutions/interview-prep/internal/protodef/errors"
	"github.com/solutions/interview-prep/internal/protodef/model"
)

const closeWriteWait = time.Second

// Replier 单轮对话，由 *relay.Relay 实现。
type Replier interface {
	Reply(ctx context.Context, xl *xlog.Logger, system, text string) string
}

// SystemPrompter 选择会话的 system prompt，由 *relay.PromptBuilder 实现。
type SystemPrompter interface {
	SystemPrompt(ctx context.Context, xl *xlog.Logger, interviewCode string) (string, error)
}

type RoomApiHandler struct {
	Relay    Replier
	Prompts  SystemPrompter
	upgrader websocket.Upgrader
}

func NewRoomApiHandler(relay Replier, prompts SystemPrompter) *RoomApiHandler {
	return &RoomApiHandler{
		Relay:   relay,
		Prompts: prompts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Chat GET /room, upgrades to a websocket. Every text frame from the client gets
// exactly one reply frame before the next frame is read. The optional code query
// parameter turns the session into a mock interview for that applicant.
func (h *RoomApiHandler) Chat(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		xl.Infof("websocket upgrade failed, error %v", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.New().String()
	sxl := xlog.New(sessionID)
	sxl.Infof("room session opened, request %s", xl.ReqId)
	ctx := c.Request.Context()

	system, err := h.Prompts.SystemPrompt(ctx, sxl, c.Query("code"))
	if err != nil {
		code, reason := websocket.CloseInternalServerErr, "session setup failed"
		if err == errors2.ErrApplicantNotFound {
			code, reason = websocket.ClosePolicyViolation, "Applicant not found"
		}
		sxl.Infof("closing room session, error %v", err)
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(closeWriteWait))
		return
	}

	turns := 0
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				sxl.Warnf("room session read failed, error %v", err)
			}
			sxl.Infof("room session closed after %d turns", turns)
			return
		}
		reply := h.Relay.Reply(ctx, sxl, system, string(data))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
			sxl.Warnf("room session write failed, error %v", err)
			return
		}
		turns++
	}
}
