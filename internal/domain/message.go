package domain

// Embed colors used by the default prompt messages
const (
	ColorRed    = 0xE74C3C
	ColorOrange = 0xE67E22
	ColorGreen  = 0x2ECC71
)

// Embed is a rich block rendered under the message text
type Embed struct {
	Title       string
	Description string
	URL         string
	Color       int
	Footer      string
	Fields      []EmbedField
}

// EmbedField is a name/value pair inside an embed
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Attachment is a file uploaded with the message
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// AllowedMentions restricts who a message may ping
type AllowedMentions struct {
	Everyone bool
	Users    bool
	Roles    bool
	UserIDs  []string
	RoleIDs  []string
}

// PromptMessage is an immutable bundle of optional rendering fields.
// Build it with MessageBuilder and never mutate it afterwards.
type PromptMessage struct {
	Content         string
	Embeds          []Embed
	Attachments     []Attachment
	Components      Components
	AllowedMentions *AllowedMentions
	// Delete removes the message instead of editing it
	Delete bool
}

// IsEmpty reports whether the message carries no visible content
func (m PromptMessage) IsEmpty() bool {
	return m.Content == "" && len(m.Embeds) == 0 && len(m.Attachments) == 0
}

// WithComponents returns a copy of the message with components replaced
func (m PromptMessage) WithComponents(components Components) PromptMessage {
	m.Components = components
	return m
}

// MessageBuilder assembles a PromptMessage
type MessageBuilder struct {
	msg PromptMessage
}

// NewMessage starts an empty message builder
func NewMessage() *MessageBuilder {
	return &MessageBuilder{}
}

func (b *MessageBuilder) WithContent(content string) *MessageBuilder {
	b.msg.Content = content
	return b
}

func (b *MessageBuilder) WithEmbeds(embeds ...Embed) *MessageBuilder {
	b.msg.Embeds = append(b.msg.Embeds, embeds...)
	return b
}

func (b *MessageBuilder) WithAttachments(attachments ...Attachment) *MessageBuilder {
	b.msg.Attachments = append(b.msg.Attachments, attachments...)
	return b
}

func (b *MessageBuilder) WithComponents(components Components) *MessageBuilder {
	b.msg.Components = components
	return b
}

func (b *MessageBuilder) WithAllowedMentions(mentions *AllowedMentions) *MessageBuilder {
	b.msg.AllowedMentions = mentions
	return b
}

func (b *MessageBuilder) WithDelete(del bool) *MessageBuilder {
	b.msg.Delete = del
	return b
}

// Build returns a message that shares no slices with the builder
func (b *MessageBuilder) Build() PromptMessage {
	msg := b.msg
	msg.Embeds = append([]Embed(nil), b.msg.Embeds...)
	msg.Attachments = append([]Attachment(nil), b.msg.Attachments...)
	if b.msg.Components != nil {
		msg.Components = NewComponents(b.msg.Components...)
	}
	if b.msg.AllowedMentions != nil {
		mentions := *b.msg.AllowedMentions
		mentions.UserIDs = append([]string(nil), mentions.UserIDs...)
		mentions.RoleIDs = append([]string(nil), mentions.RoleIDs...)
		msg.AllowedMentions = &mentions
	}
	return msg
}
