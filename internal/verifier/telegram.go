// Package verifier checks social mission requirements against Telegram.
package verifier

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"spudverse/internal/logger"
)

// Verifier answers whether a user satisfies a channel-membership requirement.
type Verifier interface {
	IsChannelMember(ctx context.Context, channel string, userID int64) (bool, error)
}

// TelegramVerifier asks the Bot API for the user's member status in a
// channel. The bot must be an admin of the channel for getChatMember to work.
type TelegramVerifier struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramVerifier(botToken string) (*TelegramVerifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	logger.Info("telegram verifier ready", "bot", bot.Self.UserName)
	return &TelegramVerifier{bot: bot}, nil
}

func (v *TelegramVerifier) IsChannelMember(ctx context.Context, channel string, userID int64) (bool, error) {
	member, err := v.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: channel,
			UserID:             userID,
		},
	})
	if err != nil {
		return false, err
	}

	switch member.Status {
	case "creator", "administrator", "member":
		return true, nil
	default:
		return false, nil
	}
}
