package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/viajante/journal/internal/domain/entity"
	"github.com/viajante/journal/internal/domain/repository"
)

// imageFolder is the storage prefix diary images live under, one
// subfolder per owning user.
const imageFolder = "diarios"

// ImageUpload is an incoming image blob for add/edit.
type ImageUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// DiaryService owns every read and write of diary entries. Writes stamp
// ownership and sequencing invariants before the row ever reaches the
// store: image upload completes first, timestamps come from the server,
// owner fields come from the session's profile.
type DiaryService struct {
	Repo     repository.DiaryRepository
	Users    repository.UserRepository
	Uploader Uploader
	Feed     *Dispatcher
	Logger   *logrus.Logger

	ES             *elasticsearch.Client
	ESDiariesIndex string

	PlaceholderImageURL string
}

// ListAll returns every entry, newest first.
func (s *DiaryService) ListAll(ctx context.Context) ([]entity.Diary, error) {
	return s.Repo.ListAll(ctx)
}

// ListMine returns the caller's entries, newest first.
func (s *DiaryService) ListMine(ctx context.Context, userID string) ([]entity.Diary, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	return s.Repo.ListByUser(ctx, userID)
}

func (s *DiaryService) GetByID(ctx context.Context, id string) (*entity.Diary, error) {
	d, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// Add creates an entry for userID. When an image is supplied it is
// uploaded first and the write only proceeds once a durable URL exists;
// without an image the placeholder URL is stored. Owner id, nick and
// name are stamped from the caller's profile as it is right now.
func (s *DiaryService) Add(ctx context.Context, userID string, d *entity.Diary, img *ImageUpload) (*entity.Diary, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	owner, err := s.Users.GetByID(ctx, userID)
	if err != nil || owner == nil {
		return nil, ErrNotAuthenticated
	}

	imageURL := s.PlaceholderImageURL
	if img != nil {
		imageURL, err = s.uploadImage(ctx, userID, img)
		if err != nil {
			return nil, err
		}
	}

	d.ID = ""
	d.ImageURL = imageURL
	d.UserID = owner.ID
	d.UserNick = owner.Nick
	d.UserName = owner.Name
	if err := s.Repo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.publish(EventDiaryCreated, d.ID)
	s.indexDiary(ctx, d)
	return d, nil
}

// Edit merges the supplied fields into the stored entry. A new image
// replaces the old URL after a completed upload namespaced by the
// entry's recorded owner; otherwise the prior URL is kept. Ownership of
// the caller is not checked here; backend rules are the sole authority.
func (s *DiaryService) Edit(ctx context.Context, d *entity.Diary, img *ImageUpload) (*entity.Diary, error) {
	existing, err := s.GetByID(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	if existing.UserID == "" {
		return nil, ErrNoOwner
	}

	if img != nil {
		url, err := s.uploadImage(ctx, existing.UserID, img)
		if err != nil {
			return nil, err
		}
		existing.ImageURL = url
	}
	if d.Title != "" {
		existing.Title = d.Title
	}
	if d.Content != "" {
		existing.Content = d.Content
	}
	if d.Location != "" {
		existing.Location = d.Location
	}
	if err := s.Repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.publish(EventDiaryUpdated, existing.ID)
	s.indexDiary(ctx, existing)
	return existing, nil
}

// Delete removes the entry unconditionally; there is no client-side
// ownership check, mirroring the store-rules-only authorization model.
func (s *DiaryService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(EventDiaryDeleted, id)
	s.deleteIndexed(ctx, id)
	return nil
}

func (s *DiaryService) uploadImage(ctx context.Context, ownerID string, img *ImageUpload) (string, error) {
	if s.Uploader == nil {
		return "", ErrUpload
	}
	ext := strings.ToLower(filepath.Ext(img.Filename))
	objectPath := filepath.ToSlash(filepath.Join(imageFolder, ownerID, uuid.NewString()+ext))
	url, err := s.Uploader.Upload(ctx, objectPath, img.ContentType, img.Reader)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("path", objectPath).Error("image upload failed")
		}
		return "", ErrUpload
	}
	return url, nil
}

func (s *DiaryService) publish(eventType, diaryID string) {
	if s.Feed == nil {
		return
	}
	s.Feed.Publish(FeedEvent{Type: eventType, DiaryID: diaryID})
}

// Search runs a multi_match query over title, content and location.
func (s *DiaryService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESDiariesIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "location^2", "content"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESDiariesIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// indexDiary mirrors the entry into Elasticsearch, best-effort.
func (s *DiaryService) indexDiary(ctx context.Context, d *entity.Diary) {
	if s.ES == nil || s.ESDiariesIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         d.ID,
		"title":      d.Title,
		"content":    d.Content,
		"location":   d.Location,
		"image_url":  d.ImageURL,
		"user_id":    d.UserID,
		"user_nick":  d.UserNick,
		"user_name":  d.UserName,
		"created_at": d.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESDiariesIndex, DocumentID: d.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("diary_id", d.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("diary_id", d.ID).Warn("es index response error")
	}
}

func (s *DiaryService) deleteIndexed(ctx context.Context, id string) {
	if s.ES == nil || s.ESDiariesIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESDiariesIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("diary_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}
