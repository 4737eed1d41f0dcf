package invites

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"stridewms/internal"
	"stridewms/internal/comms"
	"stridewms/internal/config"
	"stridewms/internal/storage"
)

type Service struct {
	db     *storage.DB
	cfg    config.Config
	brand  internal.BrandProfile
	vars   []internal.TemplateVariable
	sender comms.Sender
}

// NewService wires invitation creation to the comms renderer and the
// delivery sender. sender may be nil, in which case invites are recorded
// but no email goes out (useful for tests and offline admin work).
func NewService(db *storage.DB, cfg config.Config, brand internal.BrandProfile, vars []internal.TemplateVariable, sender comms.Sender) *Service {
	return &Service{db: db, cfg: cfg, brand: brand, vars: vars, sender: sender}
}

// Create issues an invitation for email with the given role. A pending
// invitation for the same address is refreshed (new token, new expiry)
// instead of duplicated.
func (s *Service) Create(email, role, invitedBy string) (internal.Invitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return internal.Invitation{}, fmt.Errorf("invalid email address: %q", email)
	}
	if strings.TrimSpace(role) == "" {
		return internal.Invitation{}, fmt.Errorf("role is required")
	}

	token := uuid.NewString()
	expiresAt := time.Now().UTC().Add(time.Duration(s.cfg.InviteExpiryDays) * 24 * time.Hour).Format(time.RFC3339)

	existing, err := s.db.GetPendingInvitationByEmail(email)
	if err != nil {
		return internal.Invitation{}, err
	}

	inv := internal.Invitation{
		Token:     token,
		Email:     email,
		Role:      role,
		InvitedBy: invitedBy,
		Status:    "pending",
		ExpiresAt: expiresAt,
	}
	if existing != nil {
		if err := s.db.RefreshInvitation(existing.ID, token, expiresAt); err != nil {
			return internal.Invitation{}, err
		}
		inv.ID = existing.ID
	} else {
		id, err := s.db.InsertInvitation(inv)
		if err != nil {
			return internal.Invitation{}, err
		}
		inv.ID = int(id)
	}

	if s.sender != nil {
		if err := s.sendInviteEmail(inv); err != nil {
			return inv, fmt.Errorf("invitation recorded but email failed: %w", err)
		}
	}
	return inv, nil
}

// Accept marks a pending, unexpired invitation accepted.
func (s *Service) Accept(token string) (internal.Invitation, error) {
	inv, err := s.db.GetInvitationByToken(token)
	if err != nil {
		return internal.Invitation{}, err
	}
	if inv == nil {
		return internal.Invitation{}, fmt.Errorf("invitation not found")
	}
	if inv.Status != "pending" {
		return internal.Invitation{}, fmt.Errorf("invitation is %s", inv.Status)
	}
	if expired(inv.ExpiresAt) {
		return internal.Invitation{}, fmt.Errorf("invitation expired at %s", inv.ExpiresAt)
	}

	if err := s.db.UpdateInvitationStatus(inv.ID, "accepted"); err != nil {
		return internal.Invitation{}, err
	}
	inv.Status = "accepted"
	return *inv, nil
}

func (s *Service) Revoke(id int) error {
	return s.db.UpdateInvitationStatus(id, "revoked")
}

// List reports invitations with pending-but-expired ones shown as expired.
// The expiry is derived at read time, never written back.
func (s *Service) List() ([]internal.Invitation, error) {
	out, err := s.db.ListInvitations()
	if err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Status == "pending" && expired(out[i].ExpiresAt) {
			out[i].Status = "expired"
		}
	}
	return out, nil
}

func (s *Service) sendInviteEmail(inv internal.Invitation) error {
	tpl, err := s.db.GetTemplate("user_invite")
	if err != nil {
		return err
	}
	if tpl == nil {
		tpl = defaultInviteTemplate()
	}

	entity := map[string]string{
		"recipient_email": inv.Email,
		"role":            inv.Role,
		"invited_by":      inv.InvitedBy,
		"invite_link":     strings.TrimRight(s.brand.PortalURL, "/") + "/invite/" + inv.Token,
	}
	ctx := comms.MergeContexts(comms.SampleContext(s.vars), comms.BrandContext(s.brand), entity)
	subject, htmlBody, textBody := comms.RenderMessage(*tpl, s.brand, ctx)

	return s.sender.SendEmail(inv.Email, subject, htmlBody, textBody)
}

func defaultInviteTemplate() *internal.MessageTemplate {
	return &internal.MessageTemplate{
		Key:      "user_invite",
		Channel:  "email",
		Subject:  "You have been invited to {{tenant_name}}",
		Heading:  "Join {{tenant_name}}",
		Body:     "{{invited_by}} invited you to join **{{tenant_name}}** as {{role}}.\nThe invitation link expires in a few days.",
		CTALabel: "Accept invitation",
		CTALink:  "{{invite_link}}",
	}
}

func expired(expiresAt string) bool {
	parsed, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return false
	}
	return time.Now().UTC().After(parsed)
}
