package storage

import (
	"database/sql"
	"errors"

	"stridewms/internal"
)

func (d *DB) UpsertTemplate(t internal.MessageTemplate) error {
	_, err := d.conn.Exec(`
INSERT INTO templates (key, channel, subject, heading, body, ctaLabel, ctaLink, rawLegacy)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  channel=excluded.channel,
  subject=excluded.subject,
  heading=excluded.heading,
  body=excluded.body,
  ctaLabel=excluded.ctaLabel,
  ctaLink=excluded.ctaLink,
  rawLegacy=COALESCE(excluded.rawLegacy, templates.rawLegacy),
  updatedAt=CURRENT_TIMESTAMP
`, t.Key, t.Channel, t.Subject, t.Heading, t.Body, t.CTALabel, t.CTALink, t.RawLegacy)
	return err
}

func (d *DB) GetTemplate(key string) (*internal.MessageTemplate, error) {
	var t internal.MessageTemplate
	err := d.conn.QueryRow(`
SELECT key, channel, COALESCE(subject, ''), COALESCE(heading, ''), COALESCE(body, ''),
       COALESCE(ctaLabel, ''), COALESCE(ctaLink, ''), rawLegacy
FROM templates WHERE key = ?`, key).
		Scan(&t.Key, &t.Channel, &t.Subject, &t.Heading, &t.Body, &t.CTALabel, &t.CTALink, &t.RawLegacy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (d *DB) ListTemplates() ([]internal.MessageTemplate, error) {
	rows, err := d.conn.Query(`
SELECT key, channel, COALESCE(subject, ''), COALESCE(heading, ''), COALESCE(body, ''),
       COALESCE(ctaLabel, ''), COALESCE(ctaLink, ''), rawLegacy
FROM templates ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.MessageTemplate
	for rows.Next() {
		var t internal.MessageTemplate
		if err := rows.Scan(&t.Key, &t.Channel, &t.Subject, &t.Heading, &t.Body, &t.CTALabel, &t.CTALink, &t.RawLegacy); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (d *DB) UpsertAlertTrigger(t internal.AlertTrigger) error {
	_, err := d.conn.Exec(`
INSERT INTO alert_triggers (event, channel, templateKey, enabled) VALUES (?, ?, ?, ?)
ON CONFLICT(event) DO UPDATE SET
  channel=excluded.channel,
  templateKey=excluded.templateKey,
  enabled=excluded.enabled
`, t.Event, t.Channel, t.TemplateKey, boolToInt(t.Enabled))
	return err
}

func (d *DB) GetAlertTrigger(event string) (*internal.AlertTrigger, error) {
	var t internal.AlertTrigger
	var enabled int
	err := d.conn.QueryRow(`SELECT id, event, channel, templateKey, enabled FROM alert_triggers WHERE event = ?`, event).
		Scan(&t.ID, &t.Event, &t.Channel, &t.TemplateKey, &enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.Enabled = enabled != 0
	return &t, nil
}

func (d *DB) ListAlertTriggers() ([]internal.AlertTrigger, error) {
	rows, err := d.conn.Query(`SELECT id, event, channel, templateKey, enabled FROM alert_triggers ORDER BY event`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.AlertTrigger
	for rows.Next() {
		var t internal.AlertTrigger
		var enabled int
		if err := rows.Scan(&t.ID, &t.Event, &t.Channel, &t.TemplateKey, &enabled); err != nil {
			return nil, err
		}
		t.Enabled = enabled != 0
		out = append(out, t)
	}
	return out, rows.Err()
}

func (d *DB) UpsertPrompt(p internal.Prompt) error {
	_, err := d.conn.Exec(`
INSERT INTO prompts (key, title, body) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  title=excluded.title,
  body=excluded.body,
  updatedAt=CURRENT_TIMESTAMP
`, p.Key, p.Title, p.Body)
	return err
}

func (d *DB) GetPrompt(key string) (*internal.Prompt, error) {
	var p internal.Prompt
	err := d.conn.QueryRow(`SELECT key, title, body, updatedAt FROM prompts WHERE key = ?`, key).
		Scan(&p.Key, &p.Title, &p.Body, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *DB) ListPrompts() ([]internal.Prompt, error) {
	rows, err := d.conn.Query(`SELECT key, title, body, updatedAt FROM prompts ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Prompt
	for rows.Next() {
		var p internal.Prompt
		if err := rows.Scan(&p.Key, &p.Title, &p.Body, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (d *DB) InsertInvitation(inv internal.Invitation) (int64, error) {
	result, err := d.conn.Exec(`
INSERT INTO invitations (token, email, role, invitedBy, status, expiresAt)
VALUES (?, ?, ?, ?, ?, ?)
`, inv.Token, inv.Email, inv.Role, inv.InvitedBy, inv.Status, inv.ExpiresAt)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) GetInvitationByToken(token string) (*internal.Invitation, error) {
	return d.getInvitation(`token = ?`, token)
}

func (d *DB) GetPendingInvitationByEmail(email string) (*internal.Invitation, error) {
	return d.getInvitation(`email = ? AND status = 'pending'`, email)
}

func (d *DB) getInvitation(where string, arg any) (*internal.Invitation, error) {
	var inv internal.Invitation
	err := d.conn.QueryRow(`
SELECT id, token, email, role, COALESCE(invitedBy, ''), status, expiresAt, createdAt
FROM invitations WHERE `+where, arg).
		Scan(&inv.ID, &inv.Token, &inv.Email, &inv.Role, &inv.InvitedBy, &inv.Status, &inv.ExpiresAt, &inv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (d *DB) ListInvitations() ([]internal.Invitation, error) {
	rows, err := d.conn.Query(`
SELECT id, token, email, role, COALESCE(invitedBy, ''), status, expiresAt, createdAt
FROM invitations ORDER BY createdAt DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Invitation
	for rows.Next() {
		var inv internal.Invitation
		if err := rows.Scan(&inv.ID, &inv.Token, &inv.Email, &inv.Role, &inv.InvitedBy, &inv.Status, &inv.ExpiresAt, &inv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (d *DB) UpdateInvitationStatus(id int, status string) error {
	_, err := d.conn.Exec(`UPDATE invitations SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	return err
}

func (d *DB) RefreshInvitation(id int, token, expiresAt string) error {
	_, err := d.conn.Exec(`
UPDATE invitations SET token = ?, expiresAt = ?, status = 'pending', updatedAt = CURRENT_TIMESTAMP
WHERE id = ?`, token, expiresAt, id)
	return err
}
