package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/viajante/journal/internal/application"
	"github.com/viajante/journal/internal/domain/entity"
	"github.com/viajante/journal/pkg/response"
)

// maxImageSize caps diary image uploads at 8 MiB.
const maxImageSize = 8 << 20

type DiaryHandler struct {
	Svc    *application.DiaryService
	Feed   *application.Dispatcher
	Logger *logrus.Logger
}

func NewDiaryHandler(svc *application.DiaryService, feed *application.Dispatcher, logger *logrus.Logger) *DiaryHandler {
	return &DiaryHandler{Svc: svc, Feed: feed, Logger: logger}
}

func diaryJSON(d *entity.Diary) gin.H {
	return gin.H{
		"id":         d.ID,
		"title":      d.Title,
		"content":    d.Content,
		"location":   d.Location,
		"image_url":  d.ImageURL,
		"user_id":    d.UserID,
		"user_nick":  d.UserNick,
		"user_name":  d.UserName,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}
}

func diariesJSON(list []entity.Diary) []gin.H {
	out := make([]gin.H, 0, len(list))
	for i := range list {
		out = append(out, diaryJSON(&list[i]))
	}
	return out
}

// imageFromForm extracts the optional "image" part from a multipart
// request. The caller must close the returned file.
func imageFromForm(c *gin.Context) (*application.ImageUpload, multipart.File, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if fh.Size > maxImageSize {
		return nil, nil, fmt.Errorf("image too large: %d bytes", fh.Size)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	ct := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		_ = f.Close()
		return nil, nil, fmt.Errorf("unsupported content type %q", ct)
	}
	return &application.ImageUpload{
		Filename:    fh.Filename,
		ContentType: ct,
		Reader:      io.LimitReader(f, maxImageSize),
	}, f, nil
}

// List GET /api/diaries: all entries, newest first.
func (h *DiaryHandler) List(c *gin.Context) {
	list, err := h.Svc.ListAll(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("diary list failed")
		response.Fail(c, http.StatusInternalServerError, "failed to list entries", nil)
		return
	}
	response.Success(c, http.StatusOK, diariesJSON(list), "entries", nil)
}

// Mine GET /api/diaries/mine: the caller's entries, newest first.
func (h *DiaryHandler) Mine(c *gin.Context) {
	list, err := h.Svc.ListMine(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.Logger.WithError(err).Error("diary mine failed")
		response.Fail(c, http.StatusInternalServerError, "failed to list entries", nil)
		return
	}
	response.Success(c, http.StatusOK, diariesJSON(list), "entries", nil)
}

// Stream GET /api/diaries/stream: server-sent events for diary
// changes. Clients re-query the list when an event arrives.
func (h *DiaryHandler) Stream(c *gin.Context) {
	events, cancel := h.Feed.Subscribe(c.Request.Context())
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				return true
			}
			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
			return true
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": keep-alive\n\n")
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// Get GET /api/diaries/:id
func (h *DiaryHandler) Get(c *gin.Context) {
	d, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, "entry not found", nil)
			return
		}
		h.Logger.WithError(err).Error("diary get failed")
		response.Fail(c, http.StatusInternalServerError, "failed to load entry", nil)
		return
	}
	response.Success(c, http.StatusOK, diaryJSON(d), "entry", nil)
}

// Add POST /api/diaries: multipart form with title, content, location
// and an optional image part.
func (h *DiaryHandler) Add(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	content := c.PostForm("content")
	location := strings.TrimSpace(c.PostForm("location"))
	if title == "" || content == "" {
		response.Fail(c, http.StatusBadRequest, "title and content are required", nil)
		return
	}

	img, f, err := imageFromForm(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid image", gin.H{"reason": err.Error()})
		return
	}
	if f != nil {
		defer func() { _ = f.Close() }()
	}

	d := &entity.Diary{Title: title, Content: content, Location: location}
	created, err := h.Svc.Add(c.Request.Context(), c.GetString("userID"), d, img)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrNotAuthenticated):
			response.Fail(c, http.StatusUnauthorized, "not authenticated", nil)
		case errors.Is(err, application.ErrUpload):
			response.Fail(c, http.StatusBadGateway, "image upload failed", nil)
		default:
			h.Logger.WithError(err).Error("diary add failed")
			response.Fail(c, http.StatusInternalServerError, "failed to create entry", nil)
		}
		return
	}
	response.Success(c, http.StatusCreated, diaryJSON(created), "entry created", nil)
}

// Edit PUT /api/diaries/:id: multipart form; empty fields keep their
// stored value, a new image replaces the old URL.
func (h *DiaryHandler) Edit(c *gin.Context) {
	img, f, err := imageFromForm(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid image", gin.H{"reason": err.Error()})
		return
	}
	if f != nil {
		defer func() { _ = f.Close() }()
	}

	d := &entity.Diary{
		ID:       c.Param("id"),
		Title:    strings.TrimSpace(c.PostForm("title")),
		Content:  c.PostForm("content"),
		Location: strings.TrimSpace(c.PostForm("location")),
	}
	updated, err := h.Svc.Edit(c.Request.Context(), d, img)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrNotFound):
			response.Fail(c, http.StatusNotFound, "entry not found", nil)
		case errors.Is(err, application.ErrNoOwner):
			response.Fail(c, http.StatusUnprocessableEntity, "entry has no recorded owner", nil)
		case errors.Is(err, application.ErrUpload):
			response.Fail(c, http.StatusBadGateway, "image upload failed", nil)
		default:
			h.Logger.WithError(err).Error("diary edit failed")
			response.Fail(c, http.StatusInternalServerError, "failed to update entry", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, diaryJSON(updated), "entry updated", nil)
}

// Delete DELETE /api/diaries/:id
func (h *DiaryHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Logger.WithError(err).Error("diary delete failed")
		response.Fail(c, http.StatusInternalServerError, "failed to delete entry", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "entry deleted", nil)
}

// Search GET /api/diaries/search?q=...&size=...
func (h *DiaryHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Fail(c, http.StatusBadRequest, "q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("diary search failed")
		response.Fail(c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}
