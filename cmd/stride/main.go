package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stridewms/internal"
	"stridewms/internal/accounting"
	"stridewms/internal/comms"
	"stridewms/internal/config"
	"stridewms/internal/importer"
	"stridewms/internal/invites"
	"stridewms/internal/notify"
	"stridewms/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	brand := brandProfile(cfg)
	vars := comms.DefaultVariables()

	cmd := os.Args[1]
	switch cmd {
	case "sizes:seed":
		seedSizeCategories(db)
	case "sizes:list":
		categories, err := db.ListSizeCategories()
		must(err)
		for _, c := range categories {
			fmt.Printf("%-4s %-20s %s\n", c.Code, c.Name, c.Description)
		}
	case "rates:import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "rate sheet path (.csv, .xlsx, .pdf)")
		dryRun := fs.Bool("dry-run", false, "validate only, insert nothing")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}
		runImport(db, *file, *dryRun)
	case "rates:list":
		rates, err := db.ListServiceRates()
		must(err)
		for _, r := range rates {
			class := "-"
			if r.ClassCode != nil {
				class = *r.ClassCode
			}
			fmt.Printf("%-24s %-6s %-6s %8.2f active=%v\n", r.ServiceCode, class, r.BillingUnit, r.Rate, r.Active)
		}
	case "rates:export":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		rates, err := db.ListServiceRates()
		must(err)
		must(importer.ExportRatesXLSX(rates, *out))
		fmt.Printf("exported %d rates to %s\n", len(rates), *out)
	case "tiers:set":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		code := fs.String("code", "", "tier code")
		label := fs.String("label", "", "tier label")
		rate := fs.Float64("rate", 0, "tier rate")
		minutes := fs.Int("minutes", 0, "estimated minutes")
		_ = fs.Parse(os.Args[2:])
		if *code == "" || *label == "" {
			must(fmt.Errorf("--code and --label are required"))
		}
		must(db.UpsertAssemblyTier(internal.AssemblyTier{Code: *code, Label: *label, Rate: *rate, EstimatedMinutes: *minutes}))
	case "tiers:list":
		tiers, err := db.ListAssemblyTiers()
		must(err)
		for _, t := range tiers {
			fmt.Printf("%-8s %-24s %8.2f %4dmin\n", t.Code, t.Label, t.Rate, t.EstimatedMinutes)
		}
	case "flags:set":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		code := fs.String("code", "", "flag code")
		label := fs.String("label", "", "flag label")
		desc := fs.String("description", "", "flag description")
		defaultOn := fs.Bool("default-on", false, "enabled for new items")
		_ = fs.Parse(os.Args[2:])
		if *code == "" || *label == "" {
			must(fmt.Errorf("--code and --label are required"))
		}
		must(db.UpsertItemFlag(internal.ItemFlag{Code: *code, Label: *label, Description: *desc, DefaultOn: *defaultOn}))
	case "flags:list":
		flags, err := db.ListItemFlags()
		must(err)
		for _, f := range flags {
			fmt.Printf("%-16s %-24s default=%v\n", f.Code, f.Label, f.DefaultOn)
		}
	case "overrides:set":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		service := fs.String("service", "", "service code")
		field := fs.String("field", "", "overridden field")
		value := fs.String("value", "", "override value")
		reason := fs.String("reason", "", "why")
		effective := fs.String("effective", "", "effective date (YYYY-MM-DD)")
		_ = fs.Parse(os.Args[2:])
		if *service == "" || *field == "" || *value == "" {
			must(fmt.Errorf("--service --field --value are required"))
		}
		must(db.InsertPricingOverride(internal.PricingOverride{
			ServiceCode: *service, Field: *field, Value: *value, Reason: *reason, EffectiveDate: *effective,
		}))
	case "overrides:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		service := fs.String("service", "", "filter by service code")
		_ = fs.Parse(os.Args[2:])
		overrides, err := db.ListPricingOverrides(*service)
		must(err)
		for _, o := range overrides {
			fmt.Printf("%-24s %-16s %-12s %s\n", o.ServiceCode, o.Field, o.Value, o.Reason)
		}
	case "locations:add":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		name := fs.String("name", "", "location name")
		warehouse := fs.String("warehouse", "", "warehouse name")
		locType := fs.String("type", "bay", "bay|dock|staging|bin")
		status := fs.String("status", "active", "active|inactive")
		_ = fs.Parse(os.Args[2:])
		if *name == "" || *warehouse == "" {
			must(fmt.Errorf("--name and --warehouse are required"))
		}
		id, err := db.InsertLocation(internal.Location{Name: *name, WarehouseName: *warehouse, Type: *locType, Status: *status})
		must(err)
		fmt.Printf("added location id=%d\n", id)
	case "locations:list":
		locations, err := db.ListLocations()
		must(err)
		for _, l := range locations {
			fmt.Printf("%-4d %-16s %-16s %-8s %s\n", l.ID, l.Name, l.WarehouseName, l.Type, l.Status)
		}
	case "locations:export":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output csv path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		locations, err := db.ListLocations()
		must(err)
		must(os.MkdirAll(filepath.Dir(*out), 0o755))
		f, err := os.Create(*out)
		must(err)
		defer f.Close()
		must(importer.ExportLocationsCSV(locations, f))
		fmt.Printf("exported %d locations to %s\n", len(locations), *out)
	case "invite:create":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		email := fs.String("email", "", "invitee email")
		role := fs.String("role", "", "granted role")
		by := fs.String("by", "", "inviting admin")
		noSend := fs.Bool("no-send", false, "record without sending email")
		_ = fs.Parse(os.Args[2:])
		var sender comms.Sender
		if !*noSend {
			sender = notify.NewService(cfg)
		}
		svc := invites.NewService(db, cfg, brand, vars, sender)
		inv, err := svc.Create(*email, *role, *by)
		must(err)
		fmt.Printf("invitation id=%d token=%s expires=%s\n", inv.ID, inv.Token, inv.ExpiresAt)
	case "invite:list":
		svc := invites.NewService(db, cfg, brand, vars, nil)
		list, err := svc.List()
		must(err)
		for _, inv := range list {
			fmt.Printf("%-4d %-32s %-20s %-8s expires=%s\n", inv.ID, inv.Email, inv.Role, inv.Status, inv.ExpiresAt)
		}
	case "invite:revoke":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.Int("id", 0, "invitation id")
		_ = fs.Parse(os.Args[2:])
		if *id == 0 {
			must(fmt.Errorf("--id is required"))
		}
		svc := invites.NewService(db, cfg, brand, vars, nil)
		must(svc.Revoke(*id))
	case "template:set":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		key := fs.String("key", "", "template key")
		channel := fs.String("channel", "email", "email|sms")
		subject := fs.String("subject", "", "subject line")
		heading := fs.String("heading", "", "email heading")
		body := fs.String("body", "", "template body")
		ctaLabel := fs.String("cta-label", "", "button label")
		ctaLink := fs.String("cta-link", "", "button link")
		_ = fs.Parse(os.Args[2:])
		if *key == "" {
			must(fmt.Errorf("--key is required"))
		}
		must(db.UpsertTemplate(internal.MessageTemplate{
			Key: *key, Channel: *channel, Subject: *subject, Heading: *heading,
			Body: *body, CTALabel: *ctaLabel, CTALink: *ctaLink,
		}))
		warnUnknownTokens(vars, *subject, *heading, *body)
	case "template:preview":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		key := fs.String("key", "", "template key")
		_ = fs.Parse(os.Args[2:])
		tpl := mustTemplate(db, *key)
		subject, html := comms.Preview(*tpl, brand, vars, nil)
		fmt.Printf("subject: %s\n\n%s\n", subject, html)
	case "template:send-test":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		key := fs.String("key", "", "template key")
		to := fs.String("to", "", "recipient (email address or phone)")
		_ = fs.Parse(os.Args[2:])
		if *to == "" {
			must(fmt.Errorf("--to is required"))
		}
		tpl := mustTemplate(db, *key)
		sendTest(cfg, brand, vars, tpl, *to)
	case "template:migrate-legacy":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		key := fs.String("key", "", "template key")
		_ = fs.Parse(os.Args[2:])
		tpl := mustTemplate(db, *key)
		migrateLegacy(db, tpl)
	case "triggers:set":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		event := fs.String("event", "", "alert event")
		channel := fs.String("channel", "email", "email|sms")
		template := fs.String("template", "", "template key")
		enabled := fs.Bool("enabled", true, "trigger enabled")
		_ = fs.Parse(os.Args[2:])
		if *event == "" || *template == "" {
			must(fmt.Errorf("--event and --template are required"))
		}
		must(db.UpsertAlertTrigger(internal.AlertTrigger{Event: *event, Channel: *channel, TemplateKey: *template, Enabled: *enabled}))
	case "triggers:list":
		triggers, err := db.ListAlertTriggers()
		must(err)
		for _, t := range triggers {
			fmt.Printf("%-24s %-6s template=%s enabled=%v\n", t.Event, t.Channel, t.TemplateKey, t.Enabled)
		}
	case "triggers:fire":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		event := fs.String("event", "", "alert event")
		to := fs.String("to", "", "recipient")
		_ = fs.Parse(os.Args[2:])
		if *event == "" || *to == "" {
			must(fmt.Errorf("--event and --to are required"))
		}
		dispatcher := comms.NewDispatcher(db, brand, vars, notify.NewService(cfg))
		must(dispatcher.Dispatch(*event, nil, *to))
		fmt.Printf("dispatched %s to %s\n", *event, *to)
	case "prompts:set":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		key := fs.String("key", "", "prompt key")
		title := fs.String("title", "", "prompt title")
		body := fs.String("body", "", "prompt body")
		_ = fs.Parse(os.Args[2:])
		if *key == "" || *body == "" {
			must(fmt.Errorf("--key and --body are required"))
		}
		must(db.UpsertPrompt(internal.Prompt{Key: *key, Title: *title, Body: *body}))
		warnUnknownTokens(vars, *body)
	case "prompts:list":
		prompts, err := db.ListPrompts()
		must(err)
		for _, p := range prompts {
			fmt.Printf("%-24s %s (updated %s)\n", p.Key, p.Title, p.UpdatedAt)
		}
	case "accounting:sync":
		svc := accounting.NewSyncService(db, cfg)
		run, err := svc.RunOnce(context.Background())
		must(err)
		fmt.Printf("sync %s pushed=%d pulled=%d trace=%s\n", run.Status, run.Pushed, run.Pulled, run.TraceID)
	case "accounting:status":
		svc := accounting.NewSyncService(db, cfg)
		status, err := svc.Status()
		must(err)
		printSyncStatus(status)
	default:
		usage()
		os.Exit(1)
	}
}

func runImport(db *storage.DB, file string, dryRun bool) {
	blob, err := os.ReadFile(file)
	must(err)

	rows, err := importer.ParseFile(filepath.Base(file), blob, importer.DefaultAliases())
	must(err)

	if dryRun {
		classCodes, err := db.SizeCategoryCodes()
		must(err)
		invalid := importer.ValidateAll(rows, classCodes)
		fmt.Printf("parsed %d rows, %d invalid\n", len(rows), len(invalid))
		for _, row := range invalid {
			for _, e := range row.Errors {
				fmt.Println("  " + e)
			}
		}
		return
	}

	im := importer.NewImporter(db)
	result, invalid, err := im.Run(rows, func(pct float64) {
		fmt.Printf("\rimporting... %3.0f%%", pct)
	})
	must(err)
	fmt.Println()

	fmt.Printf("import done: success=%d failed=%d skipped=%d invalid=%d\n",
		result.Success, result.Failed, result.Skipped, len(invalid))
	for _, row := range invalid {
		for _, e := range row.Errors {
			fmt.Println("  invalid: " + e)
		}
	}
	for _, e := range result.Errors {
		fmt.Println("  " + e)
	}
}

func sendTest(cfg config.Config, brand internal.BrandProfile, vars []internal.TemplateVariable, tpl *internal.MessageTemplate, to string) {
	subject, htmlBody := comms.Preview(*tpl, brand, vars, nil)
	functions := notify.NewFunctionClient(cfg)

	var ok bool
	var err error
	if tpl.Channel == "sms" {
		body := comms.Render(tpl.Body, comms.MergeContexts(comms.SampleContext(vars), comms.BrandContext(brand)))
		ok, err = functions.SendTestSMS(context.Background(), to, body)
	} else {
		ok, err = functions.SendTestEmail(context.Background(), to, subject, htmlBody)
	}
	must(err)
	fmt.Printf("test send to %s: success=%v\n", to, ok)
}

func migrateLegacy(db *storage.DB, tpl *internal.MessageTemplate) {
	if !comms.IsLegacyHTML(tpl.Body) {
		fmt.Printf("template %s is not legacy HTML, nothing to do\n", tpl.Key)
		return
	}

	raw := tpl.Body
	extract := comms.MigrateLegacy(raw)
	tpl.Heading = extract.Heading
	tpl.Body = extract.Body
	tpl.CTALabel = extract.CTALabel
	tpl.CTALink = extract.CTALink
	tpl.RawLegacy = &raw
	must(db.UpsertTemplate(*tpl))
	fmt.Printf("migrated template %s (heading=%q cta=%q); original kept in rawLegacy\n", tpl.Key, extract.Heading, extract.CTALabel)
}

func seedSizeCategories(db *storage.DB) {
	defaults := []internal.SizeCategory{
		{Code: "S", Name: "Small", Description: "Fits a single shelf slot", SortOrder: 1},
		{Code: "M", Name: "Medium", Description: "Standard carton", SortOrder: 2},
		{Code: "L", Name: "Large", Description: "Half pallet", SortOrder: 3},
		{Code: "XL", Name: "Extra large", Description: "Full pallet", SortOrder: 4},
		{Code: "OS", Name: "Oversize", Description: "Requires special handling", SortOrder: 5},
	}
	for _, c := range defaults {
		must(db.UpsertSizeCategory(c))
	}
	fmt.Printf("seeded %d size categories\n", len(defaults))
}

func warnUnknownTokens(vars []internal.TemplateVariable, bodies ...string) {
	catalog := comms.SampleContext(vars)
	for _, body := range bodies {
		for _, name := range comms.UnknownTokens(body, catalog) {
			fmt.Printf("warning: token {{%s}} is not in the variable catalog\n", name)
		}
	}
}

func mustTemplate(db *storage.DB, key string) *internal.MessageTemplate {
	if key == "" {
		must(fmt.Errorf("--key is required"))
	}
	tpl, err := db.GetTemplate(key)
	must(err)
	if tpl == nil {
		must(fmt.Errorf("template not found: %s", key))
	}
	return tpl
}

func brandProfile(cfg config.Config) internal.BrandProfile {
	return internal.BrandProfile{
		TenantName:   cfg.BrandTenantName,
		CompanyName:  cfg.BrandCompanyName,
		AccentColor:  cfg.BrandAccentColor,
		LogoURL:      cfg.BrandLogoURL,
		PortalURL:    cfg.BrandPortalURL,
		SupportEmail: cfg.BrandSupportEmail,
	}
}

func usage() {
	fmt.Println("usage: stride <command>")
	fmt.Println("commands:")
	fmt.Println("  sizes:seed | sizes:list")
	fmt.Println("  rates:import --file=rates.csv [--dry-run]")
	fmt.Println("  rates:list | rates:export --out=./out/rates.xlsx")
	fmt.Println("  tiers:set --code=T1 --label=... --rate=25 | tiers:list")
	fmt.Println("  flags:set --code=FRAGILE --label=... | flags:list")
	fmt.Println("  overrides:set --service=... --field=rate --value=12.50 | overrides:list")
	fmt.Println("  locations:add --name=BAY-1 --warehouse=North | locations:list | locations:export --out=...")
	fmt.Println("  invite:create --email=... --role=... [--by=...] [--no-send] | invite:list | invite:revoke --id=1")
	fmt.Println("  template:set --key=... --subject=... --body=... | template:preview --key=...")
	fmt.Println("  template:send-test --key=... --to=... | template:migrate-legacy --key=...")
	fmt.Println("  triggers:set --event=... --template=... | triggers:list | triggers:fire --event=... --to=...")
	fmt.Println("  prompts:set --key=... --body=... | prompts:list")
	fmt.Println("  accounting:sync | accounting:status")
}

func printSyncStatus(status accounting.Status) {
	fmt.Printf("provider: %s\n", status.Provider)
	if status.LastSyncAt != nil {
		fmt.Printf("last sync: %s\n", *status.LastSyncAt)
	}
	if status.ProviderExportAt != nil {
		fmt.Printf("provider last export: %s\n", *status.ProviderExportAt)
	}
	if status.LastRun == nil {
		fmt.Println("no sync runs recorded")
		return
	}
	run := status.LastRun
	fmt.Printf("last run: %s pushed=%d pulled=%d at %s\n", run.Status, run.Pushed, run.Pulled, run.FinishedAt)
	if run.ErrorMsg != nil {
		fmt.Printf("last error: %s\n", *run.ErrorMsg)
	}
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
