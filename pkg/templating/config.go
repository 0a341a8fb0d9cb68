package templating

// TemplateConfig holds the literal tokens the renderer looks for and the
// fixed blocks it emits. All markers are matched as plain substrings.
type TemplateConfig struct {
	// NamePlaceholder is replaced with the attendee name everywhere outside
	// the accommodation region.
	NamePlaceholder string `json:"name_placeholder"`

	// OpenMarker starts the accommodation region and the custom-message branch.
	OpenMarker string `json:"open_marker"`

	// HostMarker starts the host/place branch.
	HostMarker string `json:"host_marker"`

	// ElseMarker starts the fallback branch.
	ElseMarker string `json:"else_marker"`

	// CloseMarker ends the accommodation region.
	CloseMarker string `json:"close_marker"`

	// MessageBlock is emitted for attendees with a custom message.
	// {{ accommodation_message }} is replaced verbatim.
	MessageBlock string `json:"message_block"`

	// HostBlock is emitted for attendees with a host but no message.
	// {{ name }} and {{ accommodation }} are replaced verbatim.
	HostBlock string `json:"host_block"`

	// FallbackBlock is emitted when neither field is set and the template's
	// region carries no fallback branch of its own.
	FallbackBlock string `json:"fallback_block"`
}

const (
	messageToken = "{{ accommodation_message }}"
	hostToken    = "{{ accommodation }}"
	nameToken    = "{{ name }}"
)

// DefaultConfig returns the markers used by templates/personal_page.html.
func DefaultConfig() TemplateConfig {
	return TemplateConfig{
		NamePlaceholder: nameToken,
		OpenMarker:      "{% if accommodation_message %}",
		HostMarker:      "{% elif accommodation %}",
		ElseMarker:      "{% else %}",
		CloseMarker:     "{% endif %}",
		MessageBlock:    "<p>" + messageToken + "</p>",
		HostBlock: "<p>Hey " + nameToken + "! Thanks again for joining, we look forward to having you here. " +
			"You should have received a personal message from us regarding your accommodation. " +
			"We have planned your stay with: <strong>" + hostToken + "</strong></p>\n" +
			"        <p>Please let us know if this is okay for you.</p>",
		FallbackBlock: `<div class="coming-soon">
            <p>Accommodation details coming soon!</p>
        </div>`,
	}
}

// withDefaults fills any empty field from DefaultConfig so a partially
// written config file still yields a usable renderer.
func (c TemplateConfig) withDefaults() TemplateConfig {
	d := DefaultConfig()
	orDefault(&c.NamePlaceholder, d.NamePlaceholder)
	orDefault(&c.OpenMarker, d.OpenMarker)
	orDefault(&c.HostMarker, d.HostMarker)
	orDefault(&c.ElseMarker, d.ElseMarker)
	orDefault(&c.CloseMarker, d.CloseMarker)
	orDefault(&c.MessageBlock, d.MessageBlock)
	orDefault(&c.HostBlock, d.HostBlock)
	orDefault(&c.FallbackBlock, d.FallbackBlock)
	return c
}

func orDefault(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}
