package telegram

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"promptbot/internal/domain"
	"promptbot/internal/prompt"

	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// isNotModified reports whether an edit failed only because nothing changed
func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

// renderText flattens content and embeds into a plain text body.
// Telegram has no embeds, so each one becomes a paragraph.
func renderText(msg domain.PromptMessage) string {
	var parts []string
	if msg.Content != "" {
		parts = append(parts, msg.Content)
	}

	for _, embed := range msg.Embeds {
		var lines []string
		if embed.Title != "" {
			lines = append(lines, embed.Title)
		}
		if embed.Description != "" {
			lines = append(lines, embed.Description)
		}
		for _, field := range embed.Fields {
			lines = append(lines, fmt.Sprintf("%s: %s", field.Name, field.Value))
		}
		if embed.URL != "" {
			lines = append(lines, embed.URL)
		}
		if embed.Footer != "" {
			lines = append(lines, embed.Footer)
		}
		if len(lines) > 0 {
			parts = append(parts, strings.Join(lines, "\n"))
		}
	}

	return strings.Join(parts, "\n\n")
}

// renderMarkup builds an inline keyboard. Telegram buttons cannot be
// disabled, so disabled ones keep their label and lose their action.
func renderMarkup(components domain.Components) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	rows := make([]tele.Row, 0, len(components))
	for _, row := range components {
		btns := make([]tele.Btn, 0, len(row))
		for _, button := range row {
			data := button.CustomID
			if button.Disabled {
				data = prompt.PageLabelKey
			}
			btns = append(btns, markup.Data(button.Label, "", data))
		}
		rows = append(rows, markup.Row(btns...))
	}

	markup.Inline(rows...)
	return markup
}

// renderDocument turns an attachment into a sendable document
func renderDocument(attachment domain.Attachment, caption string) *tele.Document {
	return &tele.Document{
		File:     tele.FromReader(bytes.NewReader(attachment.Data)),
		FileName: attachment.Name,
		MIME:     attachment.ContentType,
		Caption:  caption,
	}
}
