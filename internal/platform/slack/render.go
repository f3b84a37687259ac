package slack

import (
	"fmt"
	"strings"

	"promptbot/internal/domain"

	slackapi "github.com/slack-go/slack"
)

// renderBlocks lays a message out as Block Kit blocks. Slack buttons cannot
// be disabled, so disabled buttons are left out.
func renderBlocks(msg domain.PromptMessage) []slackapi.Block {
	var blocks []slackapi.Block

	if msg.Content != "" {
		blocks = append(blocks, markdownSection(msg.Content))
	}

	for _, embed := range msg.Embeds {
		blocks = append(blocks, renderEmbed(embed)...)
	}

	for i, row := range msg.Components {
		var elements []slackapi.BlockElement
		for _, button := range row {
			if button.Disabled {
				continue
			}
			btn := slackapi.NewButtonBlockElement(
				button.CustomID,
				button.CustomID,
				slackapi.NewTextBlockObject(slackapi.PlainTextType, button.Label, false, false),
			)
			btn.Style = buttonStyle(button.Style)
			elements = append(elements, btn)
		}
		if len(elements) > 0 {
			blocks = append(blocks, slackapi.NewActionBlock(fmt.Sprintf("prompt_row_%d", i), elements...))
		}
	}

	return blocks
}

func renderEmbed(embed domain.Embed) []slackapi.Block {
	var blocks []slackapi.Block

	var text []string
	if embed.Title != "" {
		title := "*" + embed.Title + "*"
		if embed.URL != "" {
			title = fmt.Sprintf("*<%s|%s>*", embed.URL, embed.Title)
		}
		text = append(text, title)
	}
	if embed.Description != "" {
		text = append(text, embed.Description)
	}

	var fields []*slackapi.TextBlockObject
	for _, field := range embed.Fields {
		fields = append(fields, slackapi.NewTextBlockObject(slackapi.MarkdownType,
			fmt.Sprintf("*%s*\n%s", field.Name, field.Value), false, false))
	}

	if len(text) > 0 || len(fields) > 0 {
		var textObj *slackapi.TextBlockObject
		if len(text) > 0 {
			textObj = slackapi.NewTextBlockObject(slackapi.MarkdownType, strings.Join(text, "\n"), false, false)
		}
		blocks = append(blocks, slackapi.NewSectionBlock(textObj, fields, nil))
	}

	if embed.Footer != "" {
		blocks = append(blocks, slackapi.NewContextBlock("",
			slackapi.NewTextBlockObject(slackapi.MarkdownType, embed.Footer, false, false),
		))
	}

	return blocks
}

func markdownSection(text string) *slackapi.SectionBlock {
	return slackapi.NewSectionBlock(
		slackapi.NewTextBlockObject(slackapi.MarkdownType, text, false, false),
		nil, nil,
	)
}

func buttonStyle(style domain.ButtonStyle) slackapi.Style {
	switch style {
	case domain.ButtonPrimary, domain.ButtonSuccess:
		return slackapi.StylePrimary
	case domain.ButtonDanger:
		return slackapi.StyleDanger
	default:
		return slackapi.StyleDefault
	}
}

// fallbackText is the notification text shown where blocks are not
func fallbackText(msg domain.PromptMessage) string {
	if msg.Content != "" {
		return msg.Content
	}
	for _, embed := range msg.Embeds {
		for _, s := range []string{embed.Title, embed.Description, embed.Footer} {
			if s != "" {
				return s
			}
		}
	}
	return " "
}

// messageOptions renders msg for post and update calls. An empty block list
// is sent explicitly so an update clears the old buttons.
func messageOptions(msg domain.PromptMessage) []slackapi.MsgOption {
	blocks := renderBlocks(msg)
	if blocks == nil {
		blocks = []slackapi.Block{}
	}
	return []slackapi.MsgOption{
		slackapi.MsgOptionText(fallbackText(msg), false),
		slackapi.MsgOptionBlocks(blocks...),
	}
}
