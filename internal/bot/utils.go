package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type mediaKind int

const (
	mediaNone mediaKind = iota
	mediaPhoto
	mediaVideo
	mediaAnimation
)

type submittedMedia struct {
	Kind   mediaKind
	FileID string
}

func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ToLower(text)

	return text
}

// MentionsBot reports whether text contains @username. Telegram usernames
// are case-insensitive.
func MentionsBot(text, username string) bool {
	if username == "" {
		return false
	}

	return strings.Contains(NormalizeText(text), "@"+NormalizeText(username))
}

// extractMedia picks the file to relay. Photos come in several sizes and the
// last one is the largest.
func extractMedia(message *tgbotapi.Message) (submittedMedia, bool) {
	switch {
	case len(message.Photo) > 0:
		return submittedMedia{Kind: mediaPhoto, FileID: message.Photo[len(message.Photo)-1].FileID}, true
	case message.Video != nil:
		return submittedMedia{Kind: mediaVideo, FileID: message.Video.FileID}, true
	case message.Animation != nil:
		return submittedMedia{Kind: mediaAnimation, FileID: message.Animation.FileID}, true
	default:
		return submittedMedia{}, false
	}
}
