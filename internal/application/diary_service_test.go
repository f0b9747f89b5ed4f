package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/viajante/journal/internal/domain/entity"
	"github.com/viajante/journal/internal/domain/repository"
)

const placeholderURL = "https://cdn.example.com/img/placeholder.png"

func newDiaryService(repo *diaryRepoMock, users *userRepoMock, up *uploaderMock) *DiaryService {
	return &DiaryService{
		Repo:                repo,
		Users:               users,
		Uploader:            up,
		Feed:                NewDispatcher(),
		PlaceholderImageURL: placeholderURL,
	}
}

func ownerRepo() *userRepoMock {
	return &userRepoMock{
		GetByIDFn: func(_ context.Context, id string) (*entity.User, error) {
			return &entity.User{ID: id, Nick: "ana", Name: "Ana"}, nil
		},
	}
}

func TestListAllPreservesRepositoryOrder(t *testing.T) {
	newer := entity.Diary{ID: "d2", CreatedAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)}
	older := entity.Diary{ID: "d1", CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	repo := &diaryRepoMock{
		ListAllFn: func(_ context.Context) ([]entity.Diary, error) {
			return []entity.Diary{newer, older}, nil
		},
	}
	svc := newDiaryService(repo, ownerRepo(), &uploaderMock{})

	got, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(got) != 2 || got[0].ID != "d2" || got[1].ID != "d1" {
		t.Fatalf("expected newest first, got %+v", got)
	}
}

func TestListMineRequiresSession(t *testing.T) {
	repo := &diaryRepoMock{
		ListByUserFn: func(_ context.Context, userID string) ([]entity.Diary, error) {
			return []entity.Diary{{ID: "d1", UserID: userID}}, nil
		},
	}
	svc := newDiaryService(repo, ownerRepo(), &uploaderMock{})

	if _, err := svc.ListMine(context.Background(), ""); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	got, err := svc.ListMine(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "u1" {
		t.Fatalf("expected caller's entries, got %+v", got)
	}
}

func TestAddStampsOwnerFromProfile(t *testing.T) {
	var created *entity.Diary
	repo := &diaryRepoMock{
		CreateFn: func(_ context.Context, d *entity.Diary) error {
			d.ID = "d1"
			created = d
			return nil
		},
	}
	svc := newDiaryService(repo, ownerRepo(), &uploaderMock{})

	d, err := svc.Add(context.Background(), "u1", &entity.Diary{Title: "Lisboa", Content: "..."}, nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if created.UserID != "u1" || created.UserNick != "ana" || created.UserName != "Ana" {
		t.Fatalf("owner not stamped: %+v", created)
	}
	if d.ImageURL != placeholderURL {
		t.Fatalf("want placeholder image, got %q", d.ImageURL)
	}
}

func TestAddRequiresSession(t *testing.T) {
	svc := newDiaryService(&diaryRepoMock{}, ownerRepo(), &uploaderMock{})
	_, err := svc.Add(context.Background(), "", &entity.Diary{Title: "t"}, nil)
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("want ErrNotAuthenticated, got %v", err)
	}
}

func TestAddUploadsBeforeWrite(t *testing.T) {
	order := []string{}
	up := &uploaderMock{}
	repo := &diaryRepoMock{
		CreateFn: func(_ context.Context, d *entity.Diary) error {
			order = append(order, "create")
			if d.ImageURL == "" || d.ImageURL == placeholderURL {
				t.Fatal("row written without the uploaded URL")
			}
			d.ID = "d1"
			return nil
		},
	}
	svc := newDiaryService(repo, ownerRepo(), up)

	img := &ImageUpload{Filename: "praia.JPG", ContentType: "image/jpeg", Reader: strings.NewReader("img")}
	d, err := svc.Add(context.Background(), "u1", &entity.Diary{Title: "Praia", Content: "..."}, img)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(up.paths) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(up.paths))
	}
	path := up.paths[0]
	if !strings.HasPrefix(path, "diarios/u1/") || !strings.HasSuffix(path, ".jpg") {
		t.Fatalf("upload path %q not namespaced by owner", path)
	}
	if d.ImageURL != "https://cdn.example.com/"+path {
		t.Fatalf("unexpected image URL %q", d.ImageURL)
	}
}

func TestAddFailedUploadWritesNothing(t *testing.T) {
	wrote := false
	repo := &diaryRepoMock{
		CreateFn: func(_ context.Context, _ *entity.Diary) error {
			wrote = true
			return nil
		},
	}
	up := &uploaderMock{
		UploadFn: func(_ context.Context, _, _ string, _ io.Reader) (string, error) {
			return "", errors.New("gcs down")
		},
	}
	svc := newDiaryService(repo, ownerRepo(), up)

	img := &ImageUpload{Filename: "a.png", ContentType: "image/png", Reader: strings.NewReader("img")}
	_, err := svc.Add(context.Background(), "u1", &entity.Diary{Title: "t", Content: "c"}, img)
	if !errors.Is(err, ErrUpload) {
		t.Fatalf("want ErrUpload, got %v", err)
	}
	if wrote {
		t.Fatal("entry must not be written when the upload fails")
	}
}

func TestEditMergesAndKeepsPriorImage(t *testing.T) {
	stored := &entity.Diary{
		ID: "d1", Title: "Lisboa", Content: "old", Location: "Portugal",
		ImageURL: "https://cdn.example.com/diarios/u1/old.jpg",
		UserID:   "u1", UserNick: "ana", UserName: "Ana",
	}
	var updated *entity.Diary
	repo := &diaryRepoMock{
		GetByIDFn: func(_ context.Context, _ string) (*entity.Diary, error) {
			cp := *stored
			return &cp, nil
		},
		UpdateFn: func(_ context.Context, d *entity.Diary) error {
			updated = d
			return nil
		},
	}
	svc := newDiaryService(repo, ownerRepo(), &uploaderMock{})

	_, err := svc.Edit(context.Background(), &entity.Diary{ID: "d1", Content: "new text"}, nil)
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if updated.Content != "new text" {
		t.Fatalf("content not merged: %q", updated.Content)
	}
	if updated.Title != "Lisboa" || updated.Location != "Portugal" {
		t.Fatal("empty fields must keep their stored value")
	}
	if updated.ImageURL != stored.ImageURL {
		t.Fatal("prior image must be kept when no new image is supplied")
	}
	if updated.UserID != "u1" || updated.UserNick != "ana" {
		t.Fatal("edit must not touch the recorded owner")
	}
}

func TestEditUploadsUnderRecordedOwner(t *testing.T) {
	repo := &diaryRepoMock{
		GetByIDFn: func(_ context.Context, _ string) (*entity.Diary, error) {
			return &entity.Diary{ID: "d1", Title: "t", UserID: "owner9"}, nil
		},
		UpdateFn: func(_ context.Context, _ *entity.Diary) error { return nil },
	}
	up := &uploaderMock{}
	svc := newDiaryService(repo, ownerRepo(), up)

	img := &ImageUpload{Filename: "novo.png", ContentType: "image/png", Reader: strings.NewReader("img")}
	d, err := svc.Edit(context.Background(), &entity.Diary{ID: "d1"}, img)
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if len(up.paths) != 1 || !strings.HasPrefix(up.paths[0], "diarios/owner9/") {
		t.Fatalf("upload must be namespaced by the recorded owner, got %v", up.paths)
	}
	if !strings.Contains(d.ImageURL, "diarios/owner9/") {
		t.Fatalf("image URL %q not rewritten", d.ImageURL)
	}
}

func TestEditRejectsOwnerlessEntry(t *testing.T) {
	repo := &diaryRepoMock{
		GetByIDFn: func(_ context.Context, _ string) (*entity.Diary, error) {
			return &entity.Diary{ID: "d1", Title: "t"}, nil
		},
	}
	svc := newDiaryService(repo, ownerRepo(), &uploaderMock{})

	_, err := svc.Edit(context.Background(), &entity.Diary{ID: "d1", Title: "x"}, nil)
	if !errors.Is(err, ErrNoOwner) {
		t.Fatalf("want ErrNoOwner, got %v", err)
	}
}

func TestEditMissingEntry(t *testing.T) {
	repo := &diaryRepoMock{
		GetByIDFn: func(_ context.Context, _ string) (*entity.Diary, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := newDiaryService(repo, ownerRepo(), &uploaderMock{})

	_, err := svc.Edit(context.Background(), &entity.Diary{ID: "nope"}, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDeletePublishesFeedEvent(t *testing.T) {
	repo := &diaryRepoMock{
		DeleteFn: func(_ context.Context, _ string) error { return nil },
	}
	svc := newDiaryService(repo, ownerRepo(), &uploaderMock{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, unsub := svc.Feed.Subscribe(ctx)
	defer unsub()

	if err := svc.Delete(context.Background(), "d1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	select {
	case ev := <-events:
		if ev.Type != EventDiaryDeleted || ev.DiaryID != "d1" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no feed event published")
	}
}
