package web

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tigerroll/mapchat/internal/domain/entity"
	"github.com/tigerroll/mapchat/internal/export"
	"github.com/tigerroll/mapchat/internal/ingest"
	"github.com/tigerroll/mapchat/internal/repository"
)

type chatView struct {
	Title    string
	Error    string
	Messages []entity.ChatTurn
}

type uploadView struct {
	Title  string
	Error  string
	Result *ingest.UploadResult
	Stats  *repository.Stats
}

func (s *Server) chatPage(c echo.Context) error {
	ctx := c.Request().Context()
	history, err := s.chat.History(ctx, conversationID(c))
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "chat.html", chatView{Title: "Chat", Messages: history})
}

func (s *Server) askPage(c echo.Context) error {
	ctx := c.Request().Context()
	id := conversationID(c)
	answer, err := s.chat.Ask(ctx, id, c.FormValue("prompt"))
	if err != nil {
		history, herr := s.chat.History(ctx, id)
		if herr != nil {
			return herr
		}
		return c.Render(statusOf(err), "chat.html", chatView{Title: "Chat", Error: userMessage(err), Messages: history})
	}
	return c.Render(http.StatusOK, "chat.html", chatView{Title: "Chat", Messages: answer.History})
}

func (s *Server) clearPage(c echo.Context) error {
	if err := s.chat.Clear(c.Request().Context(), conversationID(c)); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) uploadPage(c echo.Context) error {
	return c.Render(http.StatusOK, "upload.html", s.uploadView(c, nil, nil))
}

func (s *Server) uploadFile(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		if statusOf(err) == http.StatusRequestEntityTooLarge {
			return err
		}
		return c.Render(http.StatusBadRequest, "upload.html", s.uploadView(c, nil, echo.NewHTTPError(http.StatusBadRequest, "choose a location history file to upload")))
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := s.uploads.Upload(c.Request().Context(), f)
	if err != nil {
		return c.Render(statusOf(err), "upload.html", s.uploadView(c, result, err))
	}
	return c.Render(http.StatusOK, "upload.html", s.uploadView(c, result, nil))
}

func (s *Server) uploadView(c echo.Context, result *ingest.UploadResult, err error) uploadView {
	view := uploadView{Title: "Upload location history", Result: result}
	if err != nil {
		view.Error = userMessage(err)
	}
	if stats, serr := s.uploads.Stats(c.Request().Context()); serr == nil {
		view.Stats = &stats
	}
	return view
}

type chatRequest struct {
	Question string `json:"question" form:"question"`
}

type historyResponse struct {
	ConversationID string            `json:"conversation_id"`
	History        []entity.ChatTurn `json:"history"`
}

func (s *Server) apiChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	answer, err := s.chat.Ask(c.Request().Context(), conversationID(c), req.Question)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, answer)
}

func (s *Server) apiHistory(c echo.Context) error {
	id := conversationID(c)
	history, err := s.chat.History(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, historyResponse{ConversationID: id, History: history})
}

func (s *Server) apiClear(c echo.Context) error {
	if err := s.chat.Clear(c.Request().Context(), conversationID(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) apiStats(c echo.Context) error {
	stats, err := s.uploads.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) downloadVisits(c echo.Context) error {
	var buf bytes.Buffer
	if _, err := s.visits.WriteVisits(c.Request().Context(), &buf); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="visits.parquet"`)
	return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
}
