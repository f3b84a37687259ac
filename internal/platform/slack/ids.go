package slack

import (
	"fmt"
	"strings"
)

// Message timestamps are only unique within a channel, so message ids handed
// to the registry carry the channel: "<channel id>:<ts>".

func messageKey(channelID, ts string) string {
	return channelID + ":" + ts
}

// timestamp resolves a message key within channelID. A bare timestamp is
// taken as belonging to channelID.
func timestamp(channelID, key string) (string, error) {
	channel, ts, found := strings.Cut(key, ":")
	if !found {
		return key, nil
	}

	if channel != channelID {
		return "", fmt.Errorf("message %s does not belong to channel %s", key, channelID)
	}
	return ts, nil
}
