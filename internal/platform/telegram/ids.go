package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"
)

// Telegram numbers messages per chat, so message ids handed to the registry
// carry the chat: "<chat id>:<message id>".

func messageKey(chatID int64, messageID int) string {
	return strconv.FormatInt(chatID, 10) + ":" + strconv.Itoa(messageID)
}

// storedMessage resolves a message key within chat. A bare message id is
// taken as belonging to chat.
func storedMessage(chatID int64, key string) (tele.StoredMessage, error) {
	chat, id, found := strings.Cut(key, ":")
	if !found {
		return tele.StoredMessage{MessageID: key, ChatID: chatID}, nil
	}

	if chat != strconv.FormatInt(chatID, 10) {
		return tele.StoredMessage{}, fmt.Errorf("message %s does not belong to chat %d", key, chatID)
	}
	return tele.StoredMessage{MessageID: id, ChatID: chatID}, nil
}
