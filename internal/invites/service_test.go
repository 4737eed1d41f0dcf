package invites

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"stridewms/internal"
	"stridewms/internal/comms"
	"stridewms/internal/config"
	"stridewms/internal/storage"
)

type captureSender struct {
	to      string
	subject string
	html    string
	sent    int
}

func (s *captureSender) SendEmail(to, subject, htmlBody, textBody string) error {
	s.sent++
	s.to = to
	s.subject = subject
	s.html = htmlBody
	return nil
}

func (s *captureSender) SendSMS(to, body string) error { return nil }

func newTestService(t *testing.T, sender comms.Sender) (*Service, *storage.DB) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{InviteExpiryDays: 7}
	brand := internal.BrandProfile{TenantName: "Acme Warehousing", PortalURL: "https://portal.example.com"}
	return NewService(db, cfg, brand, comms.DefaultVariables(), sender), db
}

func TestCreateAndAccept(t *testing.T) {
	svc, _ := newTestService(t, nil)

	inv, err := svc.Create("Ops@Example.com ", "manager", "Alex Rivera")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.Email != "ops@example.com" {
		t.Fatalf("email not normalized: %q", inv.Email)
	}
	if inv.Token == "" || inv.Status != "pending" {
		t.Fatalf("unexpected invitation: %+v", inv)
	}

	accepted, err := svc.Accept(inv.Token)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != "accepted" {
		t.Fatalf("status = %q", accepted.Status)
	}

	if _, err := svc.Accept(inv.Token); err == nil {
		t.Fatal("second accept should fail")
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t, nil)

	if _, err := svc.Create("not-an-email", "manager", "Alex"); err == nil {
		t.Fatal("expected error for bad email")
	}
	if _, err := svc.Create("ops@example.com", " ", "Alex"); err == nil {
		t.Fatal("expected error for missing role")
	}
}

func TestCreateRefreshesPendingDuplicate(t *testing.T) {
	svc, _ := newTestService(t, nil)

	first, err := svc.Create("ops@example.com", "manager", "Alex")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Create("ops@example.com", "manager", "Alex")
	if err != nil {
		t.Fatalf("re-create: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("duplicate row created: %d vs %d", second.ID, first.ID)
	}
	if second.Token == first.Token {
		t.Fatal("token not rotated on refresh")
	}

	list, err := svc.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len(list) = %d", len(list))
	}
}

func TestCreateSendsInviteEmail(t *testing.T) {
	sender := &captureSender{}
	svc, _ := newTestService(t, sender)

	inv, err := svc.Create("ops@example.com", "manager", "Alex Rivera")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sender.sent != 1 || sender.to != "ops@example.com" {
		t.Fatalf("sent=%d to=%q", sender.sent, sender.to)
	}
	if sender.subject != "You have been invited to Acme Warehousing" {
		t.Fatalf("subject = %q", sender.subject)
	}
	if !strings.Contains(sender.html, "https://portal.example.com/invite/"+inv.Token) {
		t.Fatal("invite link missing from email body")
	}
	if !strings.Contains(sender.html, "Accept invitation") {
		t.Fatal("cta missing from email body")
	}
}

func TestListDerivesExpired(t *testing.T) {
	svc, db := newTestService(t, nil)

	inv, err := svc.Create("late@example.com", "viewer", "Alex")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	past := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	if err := db.RefreshInvitation(inv.ID, inv.Token, past); err != nil {
		t.Fatalf("backdate: %v", err)
	}

	list, err := svc.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Status != "expired" {
		t.Fatalf("list = %+v", list)
	}

	stored, err := db.GetInvitationByToken(inv.Token)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != "pending" {
		t.Fatalf("expiry written back: %q", stored.Status)
	}

	if _, err := svc.Accept(inv.Token); err == nil {
		t.Fatal("accept of expired invitation should fail")
	}
}
