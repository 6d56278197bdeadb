package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var ErrEmptyFile = errors.New("failed to fetch file data from Telegram")

// FileGetter is the part of *tgbotapi.BotAPI needed to resolve a file id.
type FileGetter interface {
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
}

// Download is a fetched Telegram file. Path is the storage path Telegram
// reported, e.g. "photos/file_12.jpg".
type Download struct {
	Path string
	Data []byte
}

type FileService struct {
	getter       FileGetter
	token        string
	fileEndpoint string
	client       *http.Client
}

func NewFileService(getter FileGetter, token string) *FileService {
	return &FileService{
		getter:       getter,
		token:        token,
		fileEndpoint: tgbotapi.FileEndpoint,
		client:       http.DefaultClient,
	}
}

// WithFileEndpoint overrides the format string used to build download links.
// It takes the bot token and the file path, like tgbotapi.FileEndpoint.
func (fs *FileService) WithFileEndpoint(endpoint string) *FileService {
	fs.fileEndpoint = endpoint
	return fs
}

func (fs *FileService) WithHTTPClient(client *http.Client) *FileService {
	fs.client = client
	return fs
}

func (fs *FileService) Download(ctx context.Context, fileID string) (*Download, error) {
	file, err := fs.getter.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("FileService.Download: cannot get file: %w", err)
	}

	link := fmt.Sprintf(fs.fileEndpoint, fs.token, file.FilePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("FileService.Download: cannot build request: %w", err)
	}
	req.Header.Set("Accept", "image/*, video/*")

	resp, err := fs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("FileService.Download: cannot download file: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FileService.Download: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("FileService.Download: cannot read file: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("FileService.Download: %w", ErrEmptyFile)
	}

	return &Download{
		Path: file.FilePath,
		Data: data,
	}, nil
}
