package services_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"photofolio/internal/domain/models"
	services "photofolio/internal/services/media_service"
	"photofolio/internal/storage"
	"photofolio/internal/transport/http/dto"
)

type MockBlobStorage struct {
	mock.Mock
}

func (m *MockBlobStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockBlobStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockBlobStorage) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	args := m.Called(ctx, prefix)
	objects, _ := args.Get(0).([]storage.ObjectInfo)
	return objects, args.Error(1)
}

type MockSynchronizer struct {
	mock.Mock
}

func (m *MockSynchronizer) Add(ctx context.Context, category models.Category, img models.GalleryImage) error {
	args := m.Called(ctx, category, img)
	return args.Error(0)
}

func (m *MockSynchronizer) Remove(ctx context.Context, category models.Category, src string) error {
	args := m.Called(ctx, category, src)
	return args.Error(0)
}

func newTestService(blob *MockBlobStorage, sync *MockSynchronizer) *services.MediaService {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return services.NewMediaService(log, blob, sync, 10<<20)
}

// makeFileHeader собирает multipart.FileHeader с явным Content-Type,
// минуя HTTP-слой.
func makeFileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["file"]
	require.Len(t, files, 1)

	return files[0]
}

// pngBytes кодирует картинку заданных размеров, чтобы проверить
// чтение размеров из самого файла.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func TestMediaService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores file and updates listing", func(t *testing.T) {
		blob := new(MockBlobStorage)
		sync := new(MockSynchronizer)
		svc := newTestService(blob, sync)

		data := pngBytes(t, 640, 480)
		file := makeFileHeader(t, "sunset.png", "image/png", data)

		blob.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "portfolio/nature/sunset-") &&
				strings.HasSuffix(key, ".png")
		}), data, "image/png").Return(nil).Once()

		sync.On("Add", ctx, models.CategoryNature, mock.MatchedBy(func(img models.GalleryImage) bool {
			return img.Width == 640 && img.Height == 480 &&
				strings.HasPrefix(img.Src, "/static/portfolio/nature/sunset-")
		})).Return(nil).Once()

		src, err := svc.Upload(ctx, dto.UploadInput{File: file, Category: models.CategoryNature})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(src, "/static/portfolio/nature/sunset-"))

		blob.AssertExpectations(t)
		sync.AssertExpectations(t)
	})

	t.Run("undecodable payload falls back to default dimensions", func(t *testing.T) {
		blob := new(MockBlobStorage)
		sync := new(MockSynchronizer)
		svc := newTestService(blob, sync)

		// Заголовок заявляет webp, но содержимое не декодируется
		file := makeFileHeader(t, "photo.webp", "image/webp", []byte("not really an image"))

		blob.On("Put", ctx, mock.Anything, mock.Anything, "image/webp").Return(nil).Once()
		sync.On("Add", ctx, models.CategoryTravel, mock.MatchedBy(func(img models.GalleryImage) bool {
			return img.Width == models.DefaultWidth && img.Height == models.DefaultHeight
		})).Return(nil).Once()

		_, err := svc.Upload(ctx, dto.UploadInput{File: file, Category: models.CategoryTravel})
		require.NoError(t, err)
	})

	t.Run("rejects missing file", func(t *testing.T) {
		svc := newTestService(new(MockBlobStorage), new(MockSynchronizer))

		_, err := svc.Upload(ctx, dto.UploadInput{Category: models.CategoryNature})
		assert.True(t, models.IsImageValidationError(err))
	})

	t.Run("rejects invalid category", func(t *testing.T) {
		svc := newTestService(new(MockBlobStorage), new(MockSynchronizer))

		file := makeFileHeader(t, "a.png", "image/png", pngBytes(t, 1, 1))
		_, err := svc.Upload(ctx, dto.UploadInput{File: file, Category: "cats"})
		assert.ErrorIs(t, err, models.ErrInvalidCategory)
	})

	t.Run("rejects disallowed content type without touching storage", func(t *testing.T) {
		blob := new(MockBlobStorage)
		sync := new(MockSynchronizer)
		svc := newTestService(blob, sync)

		file := makeFileHeader(t, "notes.txt", "text/plain", []byte("hello"))

		_, err := svc.Upload(ctx, dto.UploadInput{File: file, Category: models.CategoryNature})
		assert.True(t, models.IsImageValidationError(err))
		blob.AssertNotCalled(t, "Put")
		sync.AssertNotCalled(t, "Add")
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		blob := new(MockBlobStorage)
		log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc := services.NewMediaService(log, blob, new(MockSynchronizer), 10)

		file := makeFileHeader(t, "big.png", "image/png", pngBytes(t, 16, 16))

		_, err := svc.Upload(ctx, dto.UploadInput{File: file, Category: models.CategoryNature})
		assert.True(t, models.IsImageValidationError(err))
		blob.AssertNotCalled(t, "Put")
	})

	t.Run("storage failure aborts upload", func(t *testing.T) {
		blob := new(MockBlobStorage)
		sync := new(MockSynchronizer)
		svc := newTestService(blob, sync)

		file := makeFileHeader(t, "a.png", "image/png", pngBytes(t, 1, 1))
		blob.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ErrStoreUnavailable).Once()

		src, err := svc.Upload(ctx, dto.UploadInput{File: file, Category: models.CategoryNature})
		assert.ErrorIs(t, err, storage.ErrStoreUnavailable)
		assert.Empty(t, src)
		sync.AssertNotCalled(t, "Add")
	})

	t.Run("listing failure reports partial outcome with path", func(t *testing.T) {
		blob := new(MockBlobStorage)
		sync := new(MockSynchronizer)
		svc := newTestService(blob, sync)

		file := makeFileHeader(t, "a.png", "image/png", pngBytes(t, 1, 1))
		blob.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		sync.On("Add", ctx, models.CategoryNature, mock.Anything).
			Return(errors.New("listing store down")).Once()

		src, err := svc.Upload(ctx, dto.UploadInput{File: file, Category: models.CategoryNature})
		assert.ErrorIs(t, err, models.ErrStoredNotListed)
		// Путь сохранённого файла возвращается для ручного восстановления
		assert.True(t, strings.HasPrefix(src, "/static/portfolio/nature/"))
	})
}

func TestMediaService_Delete(t *testing.T) {
	ctx := context.Background()

	const src = "/static/portfolio/nature/a.jpg"
	const key = "portfolio/nature/a.jpg"

	t.Run("removes object and listing entry", func(t *testing.T) {
		blob := new(MockBlobStorage)
		sync := new(MockSynchronizer)
		svc := newTestService(blob, sync)

		blob.On("Delete", ctx, key).Return(nil).Once()
		sync.On("Remove", ctx, models.CategoryNature, src).Return(nil).Once()

		require.NoError(t, svc.Delete(ctx, models.CategoryNature, src))
		blob.AssertExpectations(t)
		sync.AssertExpectations(t)
	})

	t.Run("bare filename resolves under category prefix", func(t *testing.T) {
		blob := new(MockBlobStorage)
		sync := new(MockSynchronizer)
		svc := newTestService(blob, sync)

		blob.On("Delete", ctx, key).Return(nil).Once()
		sync.On("Remove", ctx, models.CategoryNature, src).Return(nil).Once()

		require.NoError(t, svc.Delete(ctx, models.CategoryNature, "a.jpg"))
		blob.AssertExpectations(t)
	})

	t.Run("missing object still clears stale listing entry", func(t *testing.T) {
		blob := new(MockBlobStorage)
		sync := new(MockSynchronizer)
		svc := newTestService(blob, sync)

		blob.On("Delete", ctx, key).Return(storage.ErrObjectNotFound).Once()
		sync.On("Remove", ctx, models.CategoryNature, src).Return(nil).Once()

		require.NoError(t, svc.Delete(ctx, models.CategoryNature, src))
	})

	t.Run("nothing to delete anywhere is not found", func(t *testing.T) {
		blob := new(MockBlobStorage)
		sync := new(MockSynchronizer)
		svc := newTestService(blob, sync)

		blob.On("Delete", ctx, key).Return(storage.ErrObjectNotFound).Once()
		sync.On("Remove", ctx, models.CategoryNature, src).Return(models.ErrImageNotFound).Once()

		err := svc.Delete(ctx, models.CategoryNature, src)
		assert.ErrorIs(t, err, models.ErrImageNotFound)
	})

	t.Run("object deleted with no listing entry succeeds", func(t *testing.T) {
		blob := new(MockBlobStorage)
		sync := new(MockSynchronizer)
		svc := newTestService(blob, sync)

		blob.On("Delete", ctx, key).Return(nil).Once()
		sync.On("Remove", ctx, models.CategoryNature, src).Return(models.ErrImageNotFound).Once()

		require.NoError(t, svc.Delete(ctx, models.CategoryNature, src))
	})

	t.Run("listing failure after delete reports partial outcome", func(t *testing.T) {
		blob := new(MockBlobStorage)
		sync := new(MockSynchronizer)
		svc := newTestService(blob, sync)

		blob.On("Delete", ctx, key).Return(nil).Once()
		sync.On("Remove", ctx, models.CategoryNature, src).
			Return(errors.New("listing store down")).Once()

		err := svc.Delete(ctx, models.CategoryNature, src)
		assert.ErrorIs(t, err, models.ErrDeletedNotUnlisted)
	})

	t.Run("rejects empty src", func(t *testing.T) {
		svc := newTestService(new(MockBlobStorage), new(MockSynchronizer))

		err := svc.Delete(ctx, models.CategoryNature, "")
		assert.True(t, models.IsImageValidationError(err))
	})
}
