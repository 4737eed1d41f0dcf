package comms

import "stridewms/internal"

// DefaultVariables returns the standard variable catalog. A fresh slice is
// built on every call so callers can trim or extend their copy; nothing in
// this package holds catalog state.
func DefaultVariables() []internal.TemplateVariable {
	return []internal.TemplateVariable{
		{Key: "tenant_name", Label: "Tenant name", Description: "Display name of the tenant", Group: "Tenant", Sample: "Acme Warehousing"},
		{Key: "company_name", Label: "Company name", Description: "Legal company name shown in footers", Group: "Tenant", Sample: "Acme Warehousing LLC"},
		{Key: "portal_url", Label: "Portal URL", Description: "Customer portal link", Group: "Tenant", Sample: "https://portal.example.com"},
		{Key: "support_email", Label: "Support email", Description: "Support contact address", Group: "Tenant", Sample: "support@example.com"},

		{Key: "recipient_name", Label: "Recipient name", Description: "Full name of the message recipient", Group: "Recipient", Sample: "Jordan Smith"},
		{Key: "recipient_email", Label: "Recipient email", Description: "Email address of the recipient", Group: "Recipient", Sample: "jordan@example.com"},
		{Key: "invited_by", Label: "Invited by", Description: "Name of the admin who sent the invite", Group: "Recipient", Sample: "Alex Rivera"},
		{Key: "role", Label: "Role", Description: "Role granted by the invitation", Group: "Recipient", Sample: "Operations Manager"},
		{Key: "invite_link", Label: "Invite link", Description: "One-time invitation acceptance link", Group: "Recipient", Sample: "https://portal.example.com/invite/sample-token"},

		{Key: "shipment_number", Label: "Shipment number", Description: "Reference number of the shipment", Group: "Shipment", Sample: "SHP-10482"},
		{Key: "carrier", Label: "Carrier", Description: "Carrier handling the shipment", Group: "Shipment", Sample: "FastFreight"},
		{Key: "tracking_number", Label: "Tracking number", Description: "Carrier tracking number", Group: "Shipment", Sample: "1Z999AA10123456784"},
		{Key: "warehouse_name", Label: "Warehouse", Description: "Receiving warehouse", Group: "Shipment", Sample: "North DC"},
		{Key: "bay_name", Label: "Bay", Description: "Bay or staging location", Group: "Shipment", Sample: "BAY-12"},
		{Key: "delivered_at", Label: "Delivered at", Description: "Delivery timestamp", Group: "Shipment", Sample: "2026-03-14 09:30"},

		{Key: "invoice_number", Label: "Invoice number", Description: "Billing invoice reference", Group: "Billing", Sample: "INV-2026-0088"},
		{Key: "invoice_total", Label: "Invoice total", Description: "Formatted invoice total", Group: "Billing", Sample: "$1,254.00"},
		{Key: "service_name", Label: "Service", Description: "Billed service name", Group: "Billing", Sample: "Receiving - Palletized"},
		{Key: "rate", Label: "Rate", Description: "Billed rate", Group: "Billing", Sample: "$14.50"},
	}
}

// SampleContext builds a render context from catalog samples.
func SampleContext(vars []internal.TemplateVariable) map[string]string {
	out := make(map[string]string, len(vars))
	for _, v := range vars {
		out[v.Key] = v.Sample
	}
	return out
}

// BrandContext maps live tenant brand settings onto catalog keys so they
// override the generic samples.
func BrandContext(brand internal.BrandProfile) map[string]string {
	return map[string]string{
		"tenant_name":   brand.TenantName,
		"company_name":  brand.CompanyName,
		"portal_url":    brand.PortalURL,
		"support_email": brand.SupportEmail,
	}
}

// MergeContexts overlays contexts left to right; last write wins.
func MergeContexts(layers ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}
