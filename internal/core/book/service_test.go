// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package book_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiori-press/shiori/internal/platform/apperr"
	"github.com/shiori-press/shiori/internal/core/book"
	"github.com/shiori-press/shiori/pkg/pointer"
)

// # In-Memory Fakes

// fakeBookRepo mimics the PostgreSQL store, including its optimistic-locking
// and published-release guards, against plain maps.
type fakeBookRepo struct {
	books map[string]*book.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[string]*book.Book)}
}

func (f *fakeBookRepo) Create(_ context.Context, b *book.Book, first *book.Release) error {
	stored := copyBook(b)
	stored.Releases = []*book.Release{copyRelease(first)}
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	f.books[b.ID] = stored
	return nil
}

func (f *fakeBookRepo) FindByID(_ context.Context, id string) (*book.Book, error) {
	stored, ok := f.books[id]
	if !ok {
		return nil, apperr.NotFound("Book")
	}
	return copyBook(stored), nil
}

func (f *fakeBookRepo) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*book.Book, int, error) {
	var matches []*book.Book
	for _, stored := range f.books {
		if stored.OwnerID == ownerID {
			matches = append(matches, copyBook(stored))
		}
	}
	return matches, len(matches), nil
}

func (f *fakeBookRepo) ListPublished(_ context.Context, limit, offset int) ([]*book.Book, int, error) {
	var matches []*book.Book
	for _, stored := range f.books {
		if stored.Status == book.StatusPublished {
			matches = append(matches, copyBook(stored))
		}
	}
	return matches, len(matches), nil
}

func (f *fakeBookRepo) UpdateStatus(_ context.Context, bookID string, status book.Status, expectedVersion int) error {
	stored, ok := f.books[bookID]
	if !ok {
		return apperr.NotFound("Book")
	}
	if stored.Version != expectedVersion {
		return apperr.StateConflict("The book was modified concurrently, retry the request")
	}
	stored.Status = status
	stored.Version++
	return nil
}

func (f *fakeBookRepo) UpdateLanguage(_ context.Context, bookID, language string, expectedVersion int) error {
	stored, ok := f.books[bookID]
	if !ok {
		return apperr.NotFound("Book")
	}
	if stored.Version != expectedVersion {
		return apperr.StateConflict("The book was modified concurrently, retry the request")
	}
	stored.Language = language
	stored.Version++
	return nil
}

func (f *fakeBookRepo) AppendRelease(_ context.Context, bookID string, expectedVersion int, release *book.Release) error {
	stored, ok := f.books[bookID]
	if !ok {
		return apperr.NotFound("Book")
	}
	if stored.Version != expectedVersion {
		return apperr.StateConflict("The book was modified concurrently, retry the request")
	}
	stored.Releases = append(stored.Releases, copyRelease(release))
	stored.Version++
	return nil
}

func (f *fakeBookRepo) UpdateDraft(_ context.Context, release *book.Release) error {
	stored := f.findRelease(release.ID)
	if stored == nil || stored.Status != book.ReleaseUnpublished {
		return apperr.StateConflict("The release is no longer editable")
	}
	stored.Title = release.Title
	stored.Description = release.Description
	stored.Price = release.Price
	stored.ISBN = release.ISBN
	stored.CategoryIDs = append([]string(nil), release.CategoryIDs...)
	return nil
}

func (f *fakeBookRepo) PublishDraft(_ context.Context, releaseID, releaseName, releaseNotes string, publishedAt time.Time) error {
	stored := f.findRelease(releaseID)
	if stored == nil || stored.Status != book.ReleaseUnpublished {
		return apperr.StateConflict("The release is already published")
	}
	stored.Status = book.ReleasePublished
	stored.ReleaseName = releaseName
	stored.ReleaseNotes = releaseNotes
	if stored.PublishedAt == nil {
		stored.PublishedAt = pointer.To(publishedAt)
	}
	return nil
}

func (f *fakeBookRepo) findRelease(id string) *book.Release {
	for _, stored := range f.books {
		for _, release := range stored.Releases {
			if release.ID == id {
				return release
			}
		}
	}
	return nil
}

// fakeAssetRepo stores asset records and shares the book map so attach
// operations can enforce the draft-only guard.
type fakeAssetRepo struct {
	bookRepo *fakeBookRepo
	covers   map[string]*book.CoverAsset
	files    map[string]*book.FileAsset
}

func newFakeAssetRepo(bookRepo *fakeBookRepo) *fakeAssetRepo {
	return &fakeAssetRepo{
		bookRepo: bookRepo,
		covers:   make(map[string]*book.CoverAsset),
		files:    make(map[string]*book.FileAsset),
	}
}

func (f *fakeAssetRepo) FindCover(_ context.Context, id string) (*book.CoverAsset, error) {
	cover, ok := f.covers[id]
	if !ok {
		return nil, apperr.NotFound("Cover asset")
	}
	duplicate := *cover
	return &duplicate, nil
}

func (f *fakeAssetRepo) CreateCover(_ context.Context, cover *book.CoverAsset) error {
	duplicate := *cover
	f.covers[cover.ID] = &duplicate
	return nil
}

func (f *fakeAssetRepo) UpdateCover(_ context.Context, cover *book.CoverAsset) error {
	stored, ok := f.covers[cover.ID]
	if !ok {
		return apperr.NotFound("Cover asset")
	}
	stored.ContentType = cover.ContentType
	stored.Blurhash = cover.Blurhash
	stored.AspectRatio = cover.AspectRatio
	return nil
}

func (f *fakeAssetRepo) AttachCover(_ context.Context, releaseID, coverID string) error {
	release := f.bookRepo.findRelease(releaseID)
	if release == nil || release.Status != book.ReleaseUnpublished {
		return apperr.StateConflict("The release is no longer editable")
	}
	release.CoverAssetID = pointer.To(coverID)
	return nil
}

func (f *fakeAssetRepo) FindFile(_ context.Context, id string) (*book.FileAsset, error) {
	file, ok := f.files[id]
	if !ok {
		return nil, apperr.NotFound("File asset")
	}
	duplicate := *file
	return &duplicate, nil
}

func (f *fakeAssetRepo) CreateFile(_ context.Context, file *book.FileAsset) error {
	duplicate := *file
	f.files[file.ID] = &duplicate
	return nil
}

func (f *fakeAssetRepo) UpdateFile(_ context.Context, file *book.FileAsset) error {
	stored, ok := f.files[file.ID]
	if !ok {
		return apperr.NotFound("File asset")
	}
	stored.ContentType = file.ContentType
	stored.FileName = file.FileName
	return nil
}

func (f *fakeAssetRepo) AttachFile(_ context.Context, releaseID, fileID string) error {
	release := f.bookRepo.findRelease(releaseID)
	if release == nil || release.Status != book.ReleaseUnpublished {
		return apperr.StateConflict("The release is no longer editable")
	}
	release.FileAssetID = pointer.To(fileID)
	return nil
}

// fakeStorage records uploads keyed by object key.
type fakeStorage struct {
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(_ context.Context, objectKey, contentType string, payload []byte) error {
	f.objects[objectKey] = append([]byte(nil), payload...)
	return nil
}

func (f *fakeStorage) DownloadURL(_ context.Context, objectKey string) (string, error) {
	return "https://cdn.test/" + objectKey, nil
}

// fakeCatalog records first-publication times, add-only.
type fakeCatalog struct {
	entries map[string]time.Time
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{entries: make(map[string]time.Time)}
}

func (f *fakeCatalog) AddLatest(_ context.Context, bookID string, publishedAt time.Time) error {
	if _, ok := f.entries[bookID]; !ok {
		f.entries[bookID] = publishedAt
	}
	return nil
}

// # Copy Helpers

func copyBook(b *book.Book) *book.Book {
	duplicate := *b
	duplicate.Releases = make([]*book.Release, len(b.Releases))
	for i, release := range b.Releases {
		duplicate.Releases[i] = copyRelease(release)
	}
	return &duplicate
}

func copyRelease(r *book.Release) *book.Release {
	duplicate := *r
	duplicate.CategoryIDs = append([]string(nil), r.CategoryIDs...)
	return &duplicate
}

// # Test Fixture

type fixture struct {
	service  *book.Service
	bookRepo *fakeBookRepo
	assets   *fakeAssetRepo
	storage  *fakeStorage
	catalog  *fakeCatalog
}

func newFixture() *fixture {
	bookRepo := newFakeBookRepo()
	assets := newFakeAssetRepo(bookRepo)
	storage := newFakeStorage()
	catalog := newFakeCatalog()
	return &fixture{
		service:  book.NewService(bookRepo, assets, storage, catalog),
		bookRepo: bookRepo,
		assets:   assets,
		storage:  storage,
		catalog:  catalog,
	}
}

var (
	authorAlice = book.Principal{UserID: "author-alice", Role: "author"}
	authorBob   = book.Principal{UserID: "author-bob", Role: "author"}
	adminEve    = book.Principal{UserID: "admin-eve", Role: "admin"}
	anonymous   = book.Principal{}
)

// createDraftBook creates a fresh unpublished book owned by Alice.
func createDraftBook(t *testing.T, f *fixture) *book.View {
	t.Helper()
	view, err := f.service.CreateBook(context.Background(), authorAlice, book.CreateBookInput{
		Title:       "The Long Walk North",
		Description: pointer.To("A memoir of a season on the trail."),
		Language:    "en",
		Price:       pointer.To(1299),
	})
	require.NoError(t, err)
	return view
}

// completeDraftBook creates a book that passes the completeness gate:
// description, cover, and file all present.
func completeDraftBook(t *testing.T, f *fixture) *book.View {
	t.Helper()
	view := createDraftBook(t, f)

	_, err := f.service.UploadCover(context.Background(), authorAlice, view.ID, testPNG(t), "image/png")
	require.NoError(t, err)

	_, err = f.service.UploadFile(context.Background(), authorAlice, view.ID, []byte("%PDF-1.7 test"), "application/pdf", "")
	require.NoError(t, err)

	return view
}

// publishedBook creates a complete book and takes it live as the admin.
func publishedBook(t *testing.T, f *fixture) *book.View {
	t.Helper()
	view := completeDraftBook(t, f)

	updated, err := f.service.UpdateBook(context.Background(), adminEve, view.ID, book.UpdateBookInput{
		Status: pointer.To(book.StatusPublished),
	})
	require.NoError(t, err)
	return updated
}

// testPNG renders a small valid PNG payload for cover uploads.
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 12))
	var buffer bytes.Buffer
	require.NoError(t, png.Encode(&buffer, img))
	return buffer.Bytes()
}

// # Creation & Editing

/*
TestCreateBook_StartsUnpublishedWithSingleDraft verifies the initial shape
of a new book: one draft release at position zero and no publication state.
*/
func TestCreateBook_StartsUnpublishedWithSingleDraft(t *testing.T) {
	f := newFixture()
	view := createDraftBook(t, f)

	assert.Equal(t, book.StatusUnpublished, view.Status)
	assert.Equal(t, book.ReleaseUnpublished, view.ReleaseStatus)
	assert.Equal(t, 1, view.ReleaseCount)
	assert.Equal(t, "The Long Walk North", view.Title)
	assert.Equal(t, authorAlice.UserID, view.OwnerID)

	releases, err := f.service.ListReleases(context.Background(), authorAlice, view.ID)
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, 0, releases[0].Position)
}

/*
TestCreateBook_Validation exercises the aggregated field validation.
*/
func TestCreateBook_Validation(t *testing.T) {
	tests := []struct {
		name   string
		input  book.CreateBookInput
		fields []string
	}{
		{
			name:   "missing_title_and_language",
			input:  book.CreateBookInput{},
			fields: []string{"title", "language"},
		},
		{
			name: "bad_price_and_isbn",
			input: book.CreateBookInput{
				Title:    "Ok",
				Language: "en",
				Price:    pointer.To(-5),
				ISBN:     pointer.To("12-34"),
			},
			fields: []string{"price", "isbn"},
		},
		{
			name: "unsupported_language",
			input: book.CreateBookInput{
				Title:    "Ok",
				Language: "xx",
			},
			fields: []string{"language"},
		},
		{
			name: "too_many_categories",
			input: book.CreateBookInput{
				Title:    "Ok",
				Language: "en",
				CategoryIDs: []string{
					"0193e1b2-0000-7000-8000-000000000001",
					"0193e1b2-0000-7000-8000-000000000002",
					"0193e1b2-0000-7000-8000-000000000003",
					"0193e1b2-0000-7000-8000-000000000004",
				},
			},
			fields: []string{"categories"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.service.CreateBook(context.Background(), authorAlice, tt.input)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)

			var got []string
			for _, detail := range ae.Details {
				got = append(got, detail.Field)
			}
			for _, field := range tt.fields {
				assert.Contains(t, got, field)
			}
		})
	}
}

/*
TestCreateBook_RequiresAuthorRole checks that readers cannot create books
and that only admins may create on behalf of someone else.
*/
func TestCreateBook_RequiresAuthorRole(t *testing.T) {
	f := newFixture()

	_, err := f.service.CreateBook(context.Background(), book.Principal{UserID: "reader", Role: "member"}, book.CreateBookInput{
		Title: "No", Language: "en",
	})
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	_, err = f.service.CreateBook(context.Background(), authorAlice, book.CreateBookInput{
		Title: "No", Language: "en", OwnerID: authorBob.UserID,
	})
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	view, err := f.service.CreateBook(context.Background(), adminEve, book.CreateBookInput{
		Title: "Ghostwritten", Language: "en", OwnerID: authorBob.UserID,
	})
	require.NoError(t, err)
	assert.Equal(t, authorBob.UserID, view.OwnerID)
}

/*
TestUpdateBook_DraftEditsInPlace verifies that editing a book whose active
release is still a draft mutates that draft without growing the sequence.
*/
func TestUpdateBook_DraftEditsInPlace(t *testing.T) {
	f := newFixture()
	view := createDraftBook(t, f)

	updated, err := f.service.UpdateBook(context.Background(), authorAlice, view.ID, book.UpdateBookInput{
		Title: pointer.To("The Longer Walk North"),
		Price: pointer.To(1499),
	})
	require.NoError(t, err)

	assert.Equal(t, "The Longer Walk North", updated.Title)
	assert.Equal(t, 1499, *updated.Price)
	assert.Equal(t, 1, updated.ReleaseCount)
	assert.Equal(t, view.ReleaseID, updated.ReleaseID)
}

/*
TestUpdateBook_CopyOnWriteAfterPublication is the core versioning property:
editing a published book appends a cloned draft and leaves the published
release byte-for-byte intact.
*/
func TestUpdateBook_CopyOnWriteAfterPublication(t *testing.T) {
	f := newFixture()
	view := publishedBook(t, f)

	updated, err := f.service.UpdateBook(context.Background(), authorAlice, view.ID, book.UpdateBookInput{
		Title: pointer.To("Second Edition"),
	})
	require.NoError(t, err)

	// A new draft appeared at the tail
	assert.Equal(t, 2, updated.ReleaseCount)
	assert.NotEqual(t, view.ReleaseID, updated.ReleaseID)
	assert.Equal(t, book.ReleaseUnpublished, updated.ReleaseStatus)
	assert.Equal(t, "Second Edition", updated.Title)

	releases, err := f.service.ListReleases(context.Background(), authorAlice, view.ID)
	require.NoError(t, err)
	require.Len(t, releases, 2)

	// Published history is untouched
	published := releases[0]
	assert.Equal(t, book.ReleasePublished, published.Status)
	assert.Equal(t, "The Long Walk North", published.Title)
	assert.Equal(t, 0, published.Position)

	// The clone carried every content field forward
	draft := releases[1]
	assert.Equal(t, 1, draft.Position)
	assert.Equal(t, *published.Description, *draft.Description)
	assert.Equal(t, *published.Price, *draft.Price)
	assert.Equal(t, *published.CoverAssetID, *draft.CoverAssetID)
	assert.Equal(t, *published.FileAssetID, *draft.FileAssetID)
}

/*
TestUpdateBook_SecondEditReusesDraft confirms that only the first edit
after publication clones; later edits keep landing on the same draft.
*/
func TestUpdateBook_SecondEditReusesDraft(t *testing.T) {
	f := newFixture()
	view := publishedBook(t, f)

	first, err := f.service.UpdateBook(context.Background(), authorAlice, view.ID, book.UpdateBookInput{
		Title: pointer.To("Second Edition"),
	})
	require.NoError(t, err)

	second, err := f.service.UpdateBook(context.Background(), authorAlice, view.ID, book.UpdateBookInput{
		Description: pointer.To("Now with a new afterword."),
	})
	require.NoError(t, err)

	assert.Equal(t, first.ReleaseID, second.ReleaseID)
	assert.Equal(t, 2, second.ReleaseCount)
	assert.Equal(t, "Second Edition", second.Title)
	assert.Equal(t, "Now with a new afterword.", *second.Description)
}

/*
TestUpdateBook_LanguageFrozenAfterPublication verifies the language lock.
*/
func TestUpdateBook_LanguageFrozenAfterPublication(t *testing.T) {
	f := newFixture()
	view := publishedBook(t, f)

	_, err := f.service.UpdateBook(context.Background(), authorAlice, view.ID, book.UpdateBookInput{
		Language: pointer.To("de"),
	})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "STATE_CONFLICT", ae.Code)

	// Before publication it is a plain edit
	f2 := newFixture()
	draft := createDraftBook(t, f2)
	updated, err := f2.service.UpdateBook(context.Background(), authorAlice, draft.ID, book.UpdateBookInput{
		Language: pointer.To("de"),
	})
	require.NoError(t, err)
	assert.Equal(t, "de", updated.Language)
}

/*
TestUpdateBook_OwnershipEnforced verifies that another author cannot touch
the book while the admin can.
*/
func TestUpdateBook_OwnershipEnforced(t *testing.T) {
	f := newFixture()
	view := createDraftBook(t, f)

	_, err := f.service.UpdateBook(context.Background(), authorBob, view.ID, book.UpdateBookInput{
		Title: pointer.To("Hijacked"),
	})
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	_, err = f.service.UpdateBook(context.Background(), anonymous, view.ID, book.UpdateBookInput{
		Title: pointer.To("Hijacked"),
	})
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	updated, err := f.service.UpdateBook(context.Background(), adminEve, view.ID, book.UpdateBookInput{
		Title: pointer.To("Edited by staff"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Edited by staff", updated.Title)
}

// # Visibility

/*
TestGetBook_PublicSeesPublishedContentOnly checks the projection rules:
the public never sees drafts, review copies, or hidden books.
*/
func TestGetBook_PublicSeesPublishedContentOnly(t *testing.T) {
	f := newFixture()
	view := publishedBook(t, f)

	// Stage a draft edit on the live book
	_, err := f.service.UpdateBook(context.Background(), authorAlice, view.ID, book.UpdateBookInput{
		Title: pointer.To("Unreleased Draft Title"),
	})
	require.NoError(t, err)

	// Anonymous callers get the published release
	public, err := f.service.GetBook(context.Background(), anonymous, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Long Walk North", public.Title)
	assert.Equal(t, book.ReleasePublished, public.ReleaseStatus)
	assert.NotNil(t, public.Cover)
	assert.Empty(t, public.File.URL, "file download link is owner-only")

	// The owner gets the draft
	private, err := f.service.GetBook(context.Background(), authorAlice, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unreleased Draft Title", private.Title)

	// Hidden books vanish from public view
	_, err = f.service.UpdateBook(context.Background(), authorAlice, view.ID, book.UpdateBookInput{
		Status: pointer.To(book.StatusHidden),
	})
	require.NoError(t, err)

	_, err = f.service.GetBook(context.Background(), anonymous, view.ID)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestGetBook_UnpublishedHiddenFromPublic verifies pre-publication invisibility.
*/
func TestGetBook_UnpublishedHiddenFromPublic(t *testing.T) {
	f := newFixture()
	view := createDraftBook(t, f)

	_, err := f.service.GetBook(context.Background(), anonymous, view.ID)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	_, err = f.service.GetBook(context.Background(), authorBob, view.ID)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
