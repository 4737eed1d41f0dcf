package comms

import (
	"path/filepath"
	"strings"
	"testing"

	"stridewms/internal"
	"stridewms/internal/storage"
)

type recordingSender struct {
	emails int
	sms    int
	lastTo string
	body   string
}

func (s *recordingSender) SendEmail(to, subject, htmlBody, textBody string) error {
	s.emails++
	s.lastTo = to
	s.body = textBody
	return nil
}

func (s *recordingSender) SendSMS(to, body string) error {
	s.sms++
	s.lastTo = to
	s.body = body
	return nil
}

func dispatchFixture(t *testing.T) (*storage.DB, *recordingSender, *Dispatcher) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sender := &recordingSender{}
	d := NewDispatcher(db, testBrand(), DefaultVariables(), sender)
	return db, sender, d
}

func TestDispatch(t *testing.T) {
	db, sender, d := dispatchFixture(t)

	err := db.UpsertTemplate(internal.MessageTemplate{
		Key:     "shipment_delivered",
		Channel: "email",
		Subject: "Delivered: {{order_number}}",
		Heading: "Delivered",
		Body:    "Hi {{recipient_name}}, order {{order_number}} was delivered.",
	})
	if err != nil {
		t.Fatalf("upsert template: %v", err)
	}
	err = db.UpsertAlertTrigger(internal.AlertTrigger{
		Event:       "shipment.delivered",
		Channel:     "email",
		TemplateKey: "shipment_delivered",
		Enabled:     true,
	})
	if err != nil {
		t.Fatalf("upsert trigger: %v", err)
	}

	entity := map[string]string{"order_number": "SO-4417", "recipient_name": "Dana"}
	if err := d.Dispatch("shipment.delivered", entity, "dana@example.com"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if sender.emails != 1 || sender.sms != 0 {
		t.Fatalf("emails=%d sms=%d", sender.emails, sender.sms)
	}
	if sender.lastTo != "dana@example.com" {
		t.Fatalf("to = %q", sender.lastTo)
	}
	if !strings.Contains(sender.body, "order SO-4417 was delivered") {
		t.Fatalf("entity values not rendered: %q", sender.body)
	}
}

func TestDispatchDisabledTriggerIsNoop(t *testing.T) {
	db, sender, d := dispatchFixture(t)

	err := db.UpsertAlertTrigger(internal.AlertTrigger{
		Event:       "shipment.delayed",
		Channel:     "email",
		TemplateKey: "shipment_delayed",
		Enabled:     false,
	})
	if err != nil {
		t.Fatalf("upsert trigger: %v", err)
	}

	if err := d.Dispatch("shipment.delayed", nil, "dana@example.com"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := d.Dispatch("never.registered", nil, "dana@example.com"); err != nil {
		t.Fatalf("dispatch unregistered: %v", err)
	}
	if sender.emails != 0 || sender.sms != 0 {
		t.Fatalf("sender called for no-op events")
	}
}

func TestDispatchMissingTemplate(t *testing.T) {
	db, _, d := dispatchFixture(t)

	err := db.UpsertAlertTrigger(internal.AlertTrigger{
		Event:       "invoice.overdue",
		Channel:     "sms",
		TemplateKey: "does_not_exist",
		Enabled:     true,
	})
	if err != nil {
		t.Fatalf("upsert trigger: %v", err)
	}

	if err := d.Dispatch("invoice.overdue", nil, "+15550100"); err == nil {
		t.Fatal("expected error for missing template")
	}
}

func TestDispatchSMSChannel(t *testing.T) {
	db, sender, d := dispatchFixture(t)

	if err := db.UpsertTemplate(internal.MessageTemplate{
		Key:     "pick_ready",
		Channel: "sms",
		Body:    "Pick wave {{order_number}} is ready.",
	}); err != nil {
		t.Fatalf("upsert template: %v", err)
	}
	if err := db.UpsertAlertTrigger(internal.AlertTrigger{
		Event:       "pick.ready",
		Channel:     "sms",
		TemplateKey: "pick_ready",
		Enabled:     true,
	}); err != nil {
		t.Fatalf("upsert trigger: %v", err)
	}

	if err := d.Dispatch("pick.ready", map[string]string{"order_number": "W-9"}, "+15550100"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if sender.sms != 1 || sender.emails != 0 {
		t.Fatalf("emails=%d sms=%d", sender.emails, sender.sms)
	}
	if sender.body != "Pick wave W-9 is ready." {
		t.Fatalf("sms body = %q", sender.body)
	}
}

func TestPreview(t *testing.T) {
	tpl := internal.MessageTemplate{
		Key:      "welcome",
		Subject:  "Welcome to {{tenant_name}}",
		Heading:  "Welcome",
		Body:     "Hello {{recipient_name}}",
		CTALabel: "Open portal",
		CTALink:  "{{portal_url}}",
	}
	subject, html := Preview(tpl, testBrand(), DefaultVariables(), map[string]string{"recipient_name": "Kim"})

	if subject != "Welcome to Acme Warehousing" {
		t.Fatalf("subject = %q", subject)
	}
	if !strings.Contains(html, "Hello Kim") {
		t.Fatalf("override not applied: %s", html)
	}
	if !strings.Contains(html, "Open portal") {
		t.Fatalf("cta missing from preview")
	}
}
