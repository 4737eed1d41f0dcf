package internal

type BillingUnit string

const (
	BillingDay  BillingUnit = "Day"
	BillingItem BillingUnit = "Item"
	BillingTask BillingUnit = "Task"
)

func ValidBillingUnit(v string) bool {
	switch BillingUnit(v) {
	case BillingDay, BillingItem, BillingTask:
		return true
	default:
		return false
	}
}

// ImportRow is one line of an uploaded rate sheet after header aliasing,
// before validation.
type ImportRow struct {
	LineNo           int
	ClassCode        string
	ServiceCode      string
	ServiceName      string
	BillingUnit      string
	Rate             float64
	RateRaw          string
	Taxable          bool
	AssemblyRequired bool
	Active           bool
	Notes            string
	Errors           []string
	Valid            bool
}

// ImportResult tallies one import run. Invalid rows never enter any bucket;
// they are excluded before the insert phase.
type ImportResult struct {
	Success int
	Failed  int
	Skipped int
	Errors  []string
}

type ServiceRate struct {
	ID               int
	ServiceCode      string
	ServiceName      string
	ClassCode        *string
	BillingUnit      string
	Rate             float64
	Taxable          bool
	AssemblyRequired bool
	Active           bool
	Notes            string
}

type SizeCategory struct {
	Code        string
	Name        string
	Description string
	SortOrder   int
}

type AssemblyTier struct {
	Code             string
	Label            string
	Rate             float64
	EstimatedMinutes int
}

type ItemFlag struct {
	Code        string
	Label       string
	Description string
	DefaultOn   bool
}

type PricingOverride struct {
	ID            int
	ServiceCode   string
	Field         string
	Value         string
	Reason        string
	EffectiveDate string
}

type Location struct {
	ID            int
	Name          string
	WarehouseName string
	Type          string
	Status        string
}

type Invitation struct {
	ID        int
	Token     string
	Email     string
	Role      string
	InvitedBy string
	Status    string
	ExpiresAt string
	CreatedAt string
}

type AlertTrigger struct {
	ID          int
	Event       string
	Channel     string
	TemplateKey string
	Enabled     bool
}

// MessageTemplate is the stored plain-text-with-tokens format. RawLegacy
// keeps the original standalone HTML for templates that went through the
// legacy migration, since that migration is lossy.
type MessageTemplate struct {
	Key       string
	Channel   string
	Subject   string
	Heading   string
	Body      string
	CTALabel  string
	CTALink   string
	RawLegacy *string
}

type Prompt struct {
	Key       string
	Title     string
	Body      string
	UpdatedAt string
}

// TemplateVariable is one entry of the injected variable catalog.
type TemplateVariable struct {
	Key         string
	Label       string
	Description string
	Group       string
	Sample      string
}

type BrandProfile struct {
	TenantName   string
	CompanyName  string
	AccentColor  string
	LogoURL      string
	PortalURL    string
	SupportEmail string
}

type SyncRun struct {
	ID         int
	TraceID    string
	Provider   string
	Status     string
	Pushed     int
	Pulled     int
	ErrorMsg   *string
	StartedAt  string
	FinishedAt string
}
