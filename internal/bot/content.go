package bot

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownContentType = errors.New("unrecognized file path")

type ContentType int

const (
	ContentTypeUnknown ContentType = iota
	ContentTypeImage
	ContentTypeVideo
)

// MIME returns the value stored with an approved record.
func (c ContentType) MIME() string {
	switch c {
	case ContentTypeImage:
		return "image/jpeg"
	case ContentTypeVideo:
		return "video/mp4"
	default:
		return ""
	}
}

func (c ContentType) String() string {
	switch c {
	case ContentTypeImage:
		return "image"
	case ContentTypeVideo:
		return "video"
	default:
		return "unknown"
	}
}

var pathPrefixes = []struct {
	prefix      string
	contentType ContentType
}{
	{"photos/", ContentTypeImage},
	{"animations/", ContentTypeVideo},
	{"videos/", ContentTypeVideo},
}

// ClassifyFilePath maps a Telegram storage path to a content type by its
// top-level directory.
func ClassifyFilePath(path string) ContentType {
	for _, p := range pathPrefixes {
		if strings.HasPrefix(path, p.prefix) {
			return p.contentType
		}
	}

	return ContentTypeUnknown
}

func classify(path string) (ContentType, error) {
	contentType := ClassifyFilePath(path)
	if contentType == ContentTypeUnknown {
		return ContentTypeUnknown, fmt.Errorf("%w: %q", ErrUnknownContentType, path)
	}

	return contentType, nil
}
