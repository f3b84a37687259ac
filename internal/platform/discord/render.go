package discord

import (
	"bytes"

	"promptbot/internal/domain"

	"github.com/bwmarrin/discordgo"
)

var buttonStyles = map[domain.ButtonStyle]discordgo.ButtonStyle{
	domain.ButtonPrimary:   discordgo.PrimaryButton,
	domain.ButtonSecondary: discordgo.SecondaryButton,
	domain.ButtonSuccess:   discordgo.SuccessButton,
	domain.ButtonDanger:    discordgo.DangerButton,
}

func renderComponents(components domain.Components) []discordgo.MessageComponent {
	rows := make([]discordgo.MessageComponent, 0, len(components))
	for _, row := range components {
		buttons := make([]discordgo.MessageComponent, 0, len(row))
		for _, button := range row {
			style, ok := buttonStyles[button.Style]
			if !ok {
				style = discordgo.SecondaryButton
			}
			buttons = append(buttons, discordgo.Button{
				Label:    button.Label,
				Style:    style,
				Disabled: button.Disabled,
				CustomID: button.CustomID,
			})
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}
	return rows
}

func renderEmbeds(embeds []domain.Embed) []*discordgo.MessageEmbed {
	rendered := make([]*discordgo.MessageEmbed, 0, len(embeds))
	for _, embed := range embeds {
		e := &discordgo.MessageEmbed{
			URL:         embed.URL,
			Title:       embed.Title,
			Description: embed.Description,
			Color:       embed.Color,
		}
		if embed.Footer != "" {
			e.Footer = &discordgo.MessageEmbedFooter{Text: embed.Footer}
		}
		for _, field := range embed.Fields {
			e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
				Name:   field.Name,
				Value:  field.Value,
				Inline: field.Inline,
			})
		}
		rendered = append(rendered, e)
	}
	return rendered
}

func renderFiles(attachments []domain.Attachment) []*discordgo.File {
	files := make([]*discordgo.File, 0, len(attachments))
	for _, attachment := range attachments {
		files = append(files, &discordgo.File{
			Name:        attachment.Name,
			ContentType: attachment.ContentType,
			Reader:      bytes.NewReader(attachment.Data),
		})
	}
	return files
}

// renderMentions maps the mention policy. nil keeps Discord's default.
func renderMentions(mentions *domain.AllowedMentions) *discordgo.MessageAllowedMentions {
	if mentions == nil {
		return nil
	}

	rendered := &discordgo.MessageAllowedMentions{
		Parse: []discordgo.AllowedMentionType{},
		Users: mentions.UserIDs,
		Roles: mentions.RoleIDs,
	}
	if mentions.Everyone {
		rendered.Parse = append(rendered.Parse, discordgo.AllowedMentionTypeEveryone)
	}
	// Parsing a type and listing ids for it are mutually exclusive
	if mentions.Users && len(mentions.UserIDs) == 0 {
		rendered.Parse = append(rendered.Parse, discordgo.AllowedMentionTypeUsers)
	}
	if mentions.Roles && len(mentions.RoleIDs) == 0 {
		rendered.Parse = append(rendered.Parse, discordgo.AllowedMentionTypeRoles)
	}
	return rendered
}

func renderSend(msg domain.PromptMessage) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content:         msg.Content,
		Embeds:          renderEmbeds(msg.Embeds),
		Components:      renderComponents(msg.Components),
		Files:           renderFiles(msg.Attachments),
		AllowedMentions: renderMentions(msg.AllowedMentions),
	}
}

// renderEdit replaces the components always and the other fields only when
// the message sets them
func renderEdit(channelID, messageID string, msg domain.PromptMessage) *discordgo.MessageEdit {
	components := renderComponents(msg.Components)
	edit := &discordgo.MessageEdit{
		ID:              messageID,
		Channel:         channelID,
		Components:      &components,
		AllowedMentions: renderMentions(msg.AllowedMentions),
	}
	if msg.Content != "" {
		edit.Content = &msg.Content
	}
	if len(msg.Embeds) > 0 {
		embeds := renderEmbeds(msg.Embeds)
		edit.Embeds = &embeds
	}
	if len(msg.Attachments) > 0 {
		edit.Files = renderFiles(msg.Attachments)
	}
	return edit
}

func renderWebhookEdit(msg domain.PromptMessage) *discordgo.WebhookEdit {
	components := renderComponents(msg.Components)
	edit := &discordgo.WebhookEdit{
		Components:      &components,
		AllowedMentions: renderMentions(msg.AllowedMentions),
	}
	if msg.Content != "" {
		edit.Content = &msg.Content
	}
	if len(msg.Embeds) > 0 {
		embeds := renderEmbeds(msg.Embeds)
		edit.Embeds = &embeds
	}
	if len(msg.Attachments) > 0 {
		edit.Files = renderFiles(msg.Attachments)
	}
	return edit
}

func renderResponseData(msg domain.PromptMessage, ephemeral bool) *discordgo.InteractionResponseData {
	data := &discordgo.InteractionResponseData{
		Content:         msg.Content,
		Embeds:          renderEmbeds(msg.Embeds),
		Components:      renderComponents(msg.Components),
		Files:           renderFiles(msg.Attachments),
		AllowedMentions: renderMentions(msg.AllowedMentions),
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return data
}

func renderFollowup(msg domain.PromptMessage, ephemeral bool) *discordgo.WebhookParams {
	params := &discordgo.WebhookParams{
		Content:         msg.Content,
		Embeds:          renderEmbeds(msg.Embeds),
		Components:      renderComponents(msg.Components),
		Files:           renderFiles(msg.Attachments),
		AllowedMentions: renderMentions(msg.AllowedMentions),
	}
	if ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	return params
}
