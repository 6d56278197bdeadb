package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AlekSi/pointer"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/gratefultolord/meme_relay_bot/internal/db"
	"github.com/gratefultolord/meme_relay_bot/internal/files"
	"github.com/gratefultolord/meme_relay_bot/internal/metrics"
)

const (
	promptText        = "Please send a meme."
	forwardedText     = "Your media has been forwarded to the admin for approval."
	forwardFailedText = "An error occurred while forwarding the media to the admin."
	approvalText      = "Approve this meme?"
	approvedText      = "You have approved this media."
	rejectedText      = "You have rejected this media."
	timeoutTextFormat = "%s took too long to send an image. The conversation has ended."
)

var ErrNoModerationChat = errors.New("moderation chat is not configured")

// TelegramClient is the subset of *tgbotapi.BotAPI the bot uses.
type TelegramClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type MediaDownloader interface {
	Download(ctx context.Context, fileID string) (*files.Download, error)
}

type MediaStore interface {
	Create(ctx context.Context, media *db.Media) error
}

type BotService struct {
	botAPI      TelegramClient
	botUsername string
	channelID   *int64
	states      *StateTracker
	tokens      *TokenMapper
	downloader  MediaDownloader
	mediaRepo   MediaStore
	logger      *slog.Logger
}

func New(
	botAPI TelegramClient,
	botUsername string,
	channelID *int64,
	states *StateTracker,
	tokens *TokenMapper,
	downloader MediaDownloader,
	mediaRepo MediaStore,
	logger *slog.Logger,
) *BotService {
	return &BotService{
		botAPI:      botAPI,
		botUsername: botUsername,
		channelID:   channelID,
		states:      states,
		tokens:      tokens,
		downloader:  downloader,
		mediaRepo:   mediaRepo,
		logger:      logger,
	}
}

// Start polls for updates and handles them one at a time until ctx is done.
func (b *BotService) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.botAPI.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.botAPI.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

func (b *BotService) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *BotService) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}

	key := StateKey{ChatID: message.Chat.ID, UserID: message.From.ID}

	if b.states.Step(key) != StepAwaitingMedia {
		if MentionsBot(message.Text, b.botUsername) {
			b.handleMention(ctx, key, message.From.FirstName)
		}
		return
	}

	if media, ok := extractMedia(message); ok {
		b.handleSubmission(ctx, key, message, media)
		return
	}

	// The window opened by the first mention still governs.
	if MentionsBot(message.Text, b.botUsername) {
		return
	}

	b.sendText(ctx, key.ChatID, promptText)
}

func (b *BotService) handleMention(ctx context.Context, key StateKey, firstName string) {
	started := b.states.Begin(key, func() {
		b.handleTimeout(key, firstName)
	})
	if !started {
		return
	}

	metrics.AwaitingConversations.Inc()
	b.logger.DebugContext(ctx, "awaiting media", "chat_id", key.ChatID, "user_id", key.UserID)

	b.sendText(ctx, key.ChatID, promptText)
}

func (b *BotService) handleTimeout(key StateKey, firstName string) {
	metrics.AwaitingConversations.Dec()
	metrics.ConversationTimeouts.Inc()
	b.logger.Info("conversation timed out", "chat_id", key.ChatID, "user_id", key.UserID)

	b.sendText(context.Background(), key.ChatID, fmt.Sprintf(timeoutTextFormat, firstName))
}

// handleSubmission relays the media once. The conversation ends whether or
// not relaying succeeds. If the deadline already ended the conversation the
// media is ignored.
func (b *BotService) handleSubmission(ctx context.Context, key StateKey, message *tgbotapi.Message, media submittedMedia) {
	if !b.states.Complete(key) {
		b.logger.DebugContext(ctx, "media arrived after conversation ended", "chat_id", key.ChatID, "user_id", key.UserID)
		return
	}
	metrics.AwaitingConversations.Dec()

	if err := b.relay(message, media); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		b.logger.ErrorContext(ctx, "failed to relay media", "chat_id", key.ChatID, "user_id", key.UserID, "err", err)
		b.sendText(ctx, key.ChatID, fmt.Sprintf("%s %v", forwardFailedText, err))
		return
	}

	metrics.SubmissionsTotal.WithLabelValues("forwarded").Inc()
	b.sendText(ctx, key.ChatID, forwardedText)
}

func (b *BotService) relay(message *tgbotapi.Message, media submittedMedia) error {
	if b.channelID == nil {
		return ErrNoModerationChat
	}
	channelID := *b.channelID

	token := b.tokens.Mint(media.FileID)

	var relayed tgbotapi.Message
	var err error

	switch media.Kind {
	case mediaPhoto:
		relayed, err = b.botAPI.Send(tgbotapi.NewForward(channelID, message.Chat.ID, message.MessageID))
	case mediaVideo:
		relayed, err = b.botAPI.Send(tgbotapi.NewVideo(channelID, tgbotapi.FileID(media.FileID)))
	case mediaAnimation:
		relayed, err = b.botAPI.Send(tgbotapi.NewAnimation(channelID, tgbotapi.FileID(media.FileID)))
	}
	if err != nil {
		return fmt.Errorf("BotService.relay: %w", err)
	}

	prompt := tgbotapi.NewMessage(channelID, approvalText)
	prompt.ReplyToMessageID = relayed.MessageID
	prompt.ReplyMarkup = ModerationKeyboard(token)

	if _, err := b.botAPI.Send(prompt); err != nil {
		return fmt.Errorf("BotService.relay: cannot send controls: %w", err)
	}

	return nil
}

func (b *BotService) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := b.botAPI.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.WarnContext(ctx, "failed to answer callback query", "err", err)
	}

	if query.Message == nil || query.Message.Chat == nil {
		return
	}

	chatID := query.Message.Chat.ID
	if b.channelID == nil || chatID != *b.channelID {
		b.logger.WarnContext(ctx, "callback outside moderation chat", "chat_id", chatID)
		return
	}

	messageID := query.Message.MessageID

	fileID, ok := b.tokens.Resolve(query.Data)
	if !ok {
		metrics.DecisionsTotal.WithLabelValues("rejected").Inc()
		b.editText(ctx, chatID, messageID, rejectedText)
		return
	}

	if err := b.approve(ctx, fileID); err != nil {
		metrics.DecisionsTotal.WithLabelValues("failed").Inc()
		b.logger.ErrorContext(ctx, "failed to approve media", "file_id", fileID, "err", err)
		b.sendText(ctx, chatID, fmt.Sprintf("Error: %v", err))
		return
	}

	metrics.DecisionsTotal.WithLabelValues("approved").Inc()
	b.editText(ctx, chatID, messageID, approvedText)
}

func (b *BotService) approve(ctx context.Context, fileID string) error {
	download, err := b.downloader.Download(ctx, fileID)
	if err != nil {
		return err
	}

	if len(download.Data) == 0 {
		return files.ErrEmptyFile
	}

	contentType, err := classify(download.Path)
	if err != nil {
		return err
	}

	media := db.Media{
		FileID:      fileID,
		Data:        download.Data,
		ContentType: contentType.MIME(),
	}

	if err := b.mediaRepo.Create(ctx, pointer.To(media)); err != nil {
		return err
	}

	b.logger.InfoContext(ctx, "media approved", "file_id", fileID, "content_type", contentType.String(), "size", len(download.Data))

	return nil
}

func (b *BotService) editText(ctx context.Context, chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := b.botAPI.Send(edit); err != nil {
		b.logger.ErrorContext(ctx, "failed to edit message", "chat_id", chatID, "message_id", messageID, "err", err)
		b.sendText(ctx, chatID, fmt.Sprintf("Error updating message text: %v", err))
	}
}

func (b *BotService) sendText(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.botAPI.Send(msg); err != nil {
		b.logger.ErrorContext(ctx, "failed to send message", "chat_id", chatID, "err", err)
	}
}
