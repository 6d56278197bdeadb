package files

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	file      tgbotapi.File
	err       error
	requested string
}

func (f *fakeGetter) GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error) {
	f.requested = config.FileID
	return f.file, f.err
}

func newTestService(t *testing.T, getter FileGetter, handler http.HandlerFunc) *FileService {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewFileService(getter, "TOKEN").
		WithFileEndpoint(srv.URL + "/file/bot%s/%s").
		WithHTTPClient(srv.Client())
}

func TestDownload_Success(t *testing.T) {
	getter := &fakeGetter{file: tgbotapi.File{FileID: "AgAD", FilePath: "photos/file_1.jpg"}}

	var gotPath, gotAccept string
	fs := newTestService(t, getter, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("jpeg-bytes"))
	})

	dl, err := fs.Download(context.Background(), "AgAD")
	require.NoError(t, err)

	assert.Equal(t, "AgAD", getter.requested)
	assert.Equal(t, "/file/botTOKEN/photos/file_1.jpg", gotPath)
	assert.Equal(t, "image/*, video/*", gotAccept)
	assert.Equal(t, "photos/file_1.jpg", dl.Path)
	assert.Equal(t, []byte("jpeg-bytes"), dl.Data)
}

func TestDownload_GetFileError(t *testing.T) {
	getErr := errors.New("Bad Request: invalid file_id")
	fs := newTestService(t, &fakeGetter{err: getErr}, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("download must not be attempted")
	})

	_, err := fs.Download(context.Background(), "bogus")
	assert.ErrorIs(t, err, getErr)
}

func TestDownload_EmptyBody(t *testing.T) {
	getter := &fakeGetter{file: tgbotapi.File{FilePath: "videos/file_2.mp4"}}
	fs := newTestService(t, getter, func(w http.ResponseWriter, r *http.Request) {})

	_, err := fs.Download(context.Background(), "BAAD")
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestDownload_BadStatus(t *testing.T) {
	getter := &fakeGetter{file: tgbotapi.File{FilePath: "videos/file_3.mp4"}}
	fs := newTestService(t, getter, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})

	_, err := fs.Download(context.Background(), "BAAD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
