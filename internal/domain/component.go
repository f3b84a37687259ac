package domain

// ButtonStyle selects how a button is rendered
type ButtonStyle int

const (
	ButtonPrimary ButtonStyle = iota
	ButtonSecondary
	ButtonSuccess
	ButtonDanger
)

// Button is a single clickable control
type Button struct {
	Label    string
	CustomID string
	Style    ButtonStyle
	Disabled bool
}

// Row is one line of buttons
type Row []Button

// Components is the interactive control set attached to a message
type Components []Row

// NewComponents builds a component set from rows, dropping empty ones
func NewComponents(rows ...Row) Components {
	components := make(Components, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		components = append(components, append(Row(nil), row...))
	}
	return components
}

// Buttons returns every button in row order
func (c Components) Buttons() []Button {
	var buttons []Button
	for _, row := range c {
		buttons = append(buttons, row...)
	}
	return buttons
}

// Button looks up a button by custom id
func (c Components) Button(customID string) (Button, bool) {
	for _, row := range c {
		for _, button := range row {
			if button.CustomID == customID {
				return button, true
			}
		}
	}
	return Button{}, false
}

// IsEmpty reports whether there is nothing to render
func (c Components) IsEmpty() bool {
	for _, row := range c {
		if len(row) > 0 {
			return false
		}
	}
	return true
}
