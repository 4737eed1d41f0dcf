package comms

import (
	"fmt"

	"stridewms/internal"
	"stridewms/internal/storage"
)

// Sender delivers rendered messages; implemented by notify.
type Sender interface {
	SendEmail(to, subject, htmlBody, textBody string) error
	SendSMS(to, body string) error
}

// Dispatcher resolves an alert event to its trigger and template, renders
// with live entity data over the sample catalog, and hands the result to
// the configured channel.
type Dispatcher struct {
	db     *storage.DB
	brand  internal.BrandProfile
	vars   []internal.TemplateVariable
	sender Sender
}

func NewDispatcher(db *storage.DB, brand internal.BrandProfile, vars []internal.TemplateVariable, sender Sender) *Dispatcher {
	return &Dispatcher{db: db, brand: brand, vars: vars, sender: sender}
}

// Dispatch fires the trigger registered for event. Disabled or unregistered
// events are a no-op. Live entity values override brand values, which
// override catalog samples.
func (d *Dispatcher) Dispatch(event string, entity map[string]string, to string) error {
	trigger, err := d.db.GetAlertTrigger(event)
	if err != nil {
		return err
	}
	if trigger == nil || !trigger.Enabled {
		return nil
	}

	tpl, err := d.db.GetTemplate(trigger.TemplateKey)
	if err != nil {
		return err
	}
	if tpl == nil {
		return fmt.Errorf("trigger %s references missing template %s", event, trigger.TemplateKey)
	}

	ctx := MergeContexts(SampleContext(d.vars), BrandContext(d.brand), entity)
	subject, htmlBody, textBody := RenderMessage(*tpl, d.brand, ctx)

	switch trigger.Channel {
	case "sms":
		return d.sender.SendSMS(to, textBody)
	default:
		return d.sender.SendEmail(to, subject, htmlBody, textBody)
	}
}

// RenderMessage token-substitutes a template and builds both the branded
// HTML envelope and the plain-text alternative.
func RenderMessage(tpl internal.MessageTemplate, brand internal.BrandProfile, ctx map[string]string) (subject, htmlBody, textBody string) {
	subject = Render(tpl.Subject, ctx)
	heading := Render(tpl.Heading, ctx)
	textBody = Render(tpl.Body, ctx)

	var cta *CTA
	if tpl.CTALabel != "" || tpl.CTALink != "" {
		cta = &CTA{Label: Render(tpl.CTALabel, ctx), Link: Render(tpl.CTALink, ctx)}
	}

	htmlBody = BuildEmailHTML(brand, heading, RenderMarkdownLite(textBody), cta)
	return subject, htmlBody, textBody
}

// Preview renders a template against catalog samples plus optional
// overrides, for the editor's live preview. Never errors; unknown tokens
// stay verbatim.
func Preview(tpl internal.MessageTemplate, brand internal.BrandProfile, vars []internal.TemplateVariable, overrides map[string]string) (subject, htmlBody string) {
	ctx := MergeContexts(SampleContext(vars), BrandContext(brand), overrides)
	subject, htmlBody, _ = RenderMessage(tpl, brand, ctx)
	return subject, htmlBody
}
