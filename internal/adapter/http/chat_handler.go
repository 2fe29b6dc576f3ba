package http

import (
	"net/http"

	"credify-backend/internal/usecase/assistant"

	"github.com/labstack/echo/v4"
)

type ChatHandler struct{ uc *assistant.Usecase }

func NewChatHandler(uc *assistant.Usecase) *ChatHandler { return &ChatHandler{uc: uc} }

type chatPart struct {
	Text string `json:"text"`
}

type chatMessage struct {
	Role  string     `json:"role"`
	Text  string     `json:"text"`
	Parts []chatPart `json:"parts"`
}

func (m chatMessage) content() string {
	if m.Text != "" {
		return m.Text
	}
	if len(m.Parts) > 0 {
		return m.Parts[0].Text
	}
	return ""
}

type chatReq struct {
	Message string        `json:"message"`
	History []chatMessage `json:"history"`
}

// Chat runs one assistant turn. Authentication is optional; when the caller
// is a signed-in borrower, a completed loan request is filed under them.
func (h *ChatHandler) Chat(c echo.Context) error {
	var req chatReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	in := assistant.ChatInput{Message: req.Message}
	if cl := claims(c); cl.Role == "borrower" {
		in.BorrowerUID = cl.UID
	}
	for _, m := range req.History {
		in.History = append(in.History, assistant.Message{Role: m.Role, Text: m.content()})
	}
	res, err := h.uc.Chat(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
