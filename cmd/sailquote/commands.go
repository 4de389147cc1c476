package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cdr.dev/slog"
	"github.com/gofiber/fiber/v3"

	"github.com/piwi3910/SailQuote/internal/api"
	"github.com/piwi3910/SailQuote/internal/engine"
	"github.com/piwi3910/SailQuote/internal/export"
	"github.com/piwi3910/SailQuote/internal/importer"
	"github.com/piwi3910/SailQuote/internal/model"
	"github.com/piwi3910/SailQuote/internal/pricing"
	"github.com/piwi3910/SailQuote/internal/project"
	"github.com/piwi3910/SailQuote/internal/store"
	"github.com/piwi3910/SailQuote/internal/units"
)

const maxRecentDesigns = 10

// loadEngine builds the quote engine from the stored catalog and pricing
// profile, merging the price list named in the config if any.
func loadEngine(ctx context.Context, appCfg model.AppConfig, log slog.Logger) (*engine.Engine, error) {
	cat, err := project.LoadCatalog(project.DefaultCatalogPath())
	if err != nil {
		return nil, err
	}
	if appCfg.CatalogPath != "" {
		res := importer.ImportCatalog(appCfg.CatalogPath)
		for _, w := range res.Warnings {
			log.Debug(ctx, "catalog import", slog.F("path", appCfg.CatalogPath), slog.F("warning", w))
		}
		if len(res.Errors) > 0 {
			return nil, fmt.Errorf("failed to import catalog %s: %s", appCfg.CatalogPath, strings.Join(res.Errors, "; "))
		}
		cat.Merge(res.Catalog)
	}

	profile, err := project.LoadPricingProfile(project.DefaultPricingPath())
	if err != nil {
		return nil, err
	}
	log.Debug(ctx, "engine ready",
		slog.F("fabrics", len(cat.Fabrics)),
		slog.F("base_currency", profile.Rates.Base),
	)
	return engine.New(cat, profile.Rates, profile.Rules), nil
}

func serve(ctx context.Context, args []string, log slog.Logger) error {
	o := newOptions("serve")
	addr := o.flags.String("addr", "", "listen address, overrides config and $SAILQUOTE_PORT")
	dbPath := o.flags.String("db", os.Getenv("SAILQUOTE_DB"), "SQLite order database, overrides config")
	rest, appCfg, log, err := o.parse(args, log)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return usageError{"serve takes no arguments"}
	}

	listen := appCfg.ListenAddr
	if port := os.Getenv("SAILQUOTE_PORT"); port != "" {
		listen = ":" + port
	}
	if *addr != "" {
		listen = *addr
	}
	path := appCfg.DBPath
	if *dbPath != "" {
		path = *dbPath
	}

	eng, err := loadEngine(ctx, appCfg, log)
	if err != nil {
		return err
	}

	db, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open order store: %w", err)
	}
	defer db.Close()

	repo := store.New(db)
	if err := repo.Init(ctx); err != nil {
		return err
	}

	app := api.New(eng, repo, log, api.DefaultOptions()).App()

	errc := make(chan error, 1)
	go func() {
		errc <- app.Listen(listen, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	log.Info(ctx, "starting quote API", slog.F("addr", listen), slog.F("db", path))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info(context.Background(), "shutting down")
		return app.Shutdown()
	}
}

func quote(ctx context.Context, args []string, stdout io.Writer, log slog.Logger) error {
	o := newOptions("quote")
	currency := o.flags.String("currency", "", "price in this currency instead of the design's")
	asJSON := o.flags.Bool("json", false, "print the full calculation as JSON")
	rest, appCfg, log, err := o.parse(args, log)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return usageError{"quote takes exactly one design file"}
	}

	d, err := project.LoadDesign(rest[0])
	if err != nil {
		return err
	}
	cfg := d.ToConfiguration()
	appCfg.ApplyToConfiguration(&cfg)
	if *currency != "" {
		cfg.Currency = strings.ToUpper(*currency)
	}

	eng, err := loadEngine(ctx, appCfg, log)
	if err != nil {
		return err
	}
	calc := eng.Calculate(cfg)

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(calc); err != nil {
			return err
		}
	} else {
		printQuote(stdout, d.Name, cfg, calc)
	}

	if abs, err := filepath.Abs(rest[0]); err == nil {
		appCfg.AddRecentDesign(abs, maxRecentDesigns)
		if err := project.SaveAppConfig(*o.configPath, appCfg); err != nil {
			log.Warn(ctx, "could not record recent design", slog.Error(err))
		}
	}

	if !calc.Valid {
		return fmt.Errorf("design %q cannot be quoted", d.Name)
	}
	return nil
}

func printQuote(w io.Writer, name string, cfg model.ShadeConfiguration, calc model.ShadeCalculations) {
	fmt.Fprintf(w, "%s: %d-corner %s sail, %s\n", name, cfg.Corners, cfg.FabricColor, cfg.EdgeType)
	if !calc.Valid {
		for _, r := range calc.Reasons {
			if r.Field != "" {
				fmt.Fprintf(w, "  ! %s: %s\n", r.Field, r.Message)
			} else {
				fmt.Fprintf(w, "  ! %s\n", r.Message)
			}
		}
		return
	}
	fmt.Fprintf(w, "  Area:      %s\n", units.FormatArea(calc.Area, cfg.Unit))
	fmt.Fprintf(w, "  Perimeter: %s\n", units.FormatPerimeter(calc.Perimeter, cfg.Unit))
	if calc.WireThickness > 0 {
		fmt.Fprintf(w, "  Wire:      %gmm\n", calc.WireThickness)
	}
	keys := make([]string, 0, len(calc.FinishedEdges))
	for k := range calc.FinishedEdges {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  Edge %s:   %s finished\n", k, units.FormatMeasurement(calc.FinishedEdges[k], cfg.Unit))
	}
	for _, warn := range calc.Warnings {
		fmt.Fprintf(w, "  * %s\n", warn.Message)
	}
	fmt.Fprintf(w, "  Total:     %s\n", pricing.FormatPrice(calc.TotalPrice, calc.Currency))
}

func survey(ctx context.Context, args []string, stdout io.Writer, log slog.Logger) error {
	o := newOptions("survey")
	unitFlag := o.flags.String("unit", string(model.UnitMetric), "drawing unit: metric (mm) or imperial (in)")
	name := o.flags.String("name", "", "save the result to the design library under this name")
	out := o.flags.String("out", "", "write the design to this file instead of stdout")
	rest, appCfg, log, err := o.parse(args, log)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return usageError{"survey takes exactly one DXF file"}
	}
	unit := model.Unit(*unitFlag)
	if unit != model.UnitMetric && unit != model.UnitImperial {
		return usageError{fmt.Sprintf("unknown unit %q", *unitFlag)}
	}

	res := importer.ImportSurveyDXF(rest[0], unit)
	for _, w := range res.Warnings {
		log.Warn(ctx, "survey import", slog.F("warning", w))
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("failed to import survey %s: %s", rest[0], strings.Join(res.Errors, "; "))
	}

	cfg := res.Configuration
	appCfg.ApplyToConfiguration(&cfg)
	base := filepath.Base(rest[0])
	title := *name
	if title == "" {
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	d := model.NewSavedDesign(title, "Imported from "+base, cfg)

	if *name != "" {
		designs, err := project.LoadDesigns(project.DefaultDesignsPath())
		if err != nil {
			return err
		}
		if existing := designs.FindByName(*name); existing != nil {
			existing.Update(cfg)
		} else {
			designs.Add(d)
		}
		if err := project.SaveDesigns(project.DefaultDesignsPath(), designs); err != nil {
			return err
		}
		log.Info(ctx, "design saved", slog.F("name", *name), slog.F("corners", cfg.Corners))
	}

	if *out != "" {
		return project.SaveDesign(*out, d)
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

func importCatalog(ctx context.Context, args []string, stdout io.Writer, log slog.Logger) error {
	o := newOptions("import-catalog")
	rest, _, log, err := o.parse(args, log)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return usageError{"import-catalog takes exactly one CSV or XLSX file"}
	}

	res := importer.ImportCatalog(rest[0])
	for _, w := range res.Warnings {
		log.Info(ctx, "catalog import", slog.F("warning", w))
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("failed to import catalog %s: %s", rest[0], strings.Join(res.Errors, "; "))
	}

	path := project.DefaultCatalogPath()
	cat, err := project.LoadCatalog(path)
	if err != nil {
		return err
	}
	before := len(cat.Fabrics)
	cat.Merge(res.Catalog)
	if err := project.SaveCatalog(path, cat); err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "imported %d fabrics (%d new) into %s\n",
		len(res.Catalog.Fabrics), len(cat.Fabrics)-before, path)
	return err
}

func backup(ctx context.Context, args []string, log slog.Logger) error {
	o := newOptions("backup")
	rest, appCfg, log, err := o.parse(args, log)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return usageError{"backup takes exactly one output file"}
	}

	cat, err := project.LoadCatalog(project.DefaultCatalogPath())
	if err != nil {
		return err
	}
	profile, err := project.LoadPricingProfile(project.DefaultPricingPath())
	if err != nil {
		return err
	}
	designs, err := project.LoadDesigns(project.DefaultDesignsPath())
	if err != nil {
		return err
	}
	if err := project.ExportAllData(rest[0], project.NewBackup(appCfg, cat, profile, designs)); err != nil {
		return err
	}
	log.Info(ctx, "backup written", slog.F("path", rest[0]), slog.F("designs", len(designs.Designs)))
	return nil
}

func restore(ctx context.Context, args []string, log slog.Logger) error {
	o := newOptions("restore")
	rest, _, log, err := o.parse(args, log)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return usageError{"restore takes exactly one backup file"}
	}

	b, err := project.ImportAllData(rest[0])
	if err != nil {
		return err
	}
	if err := project.SaveAppConfig(*o.configPath, b.Config); err != nil {
		return err
	}
	if err := project.SaveCatalog(project.DefaultCatalogPath(), b.Catalog); err != nil {
		return err
	}
	if err := project.SavePricingProfile(project.DefaultPricingPath(), b.Pricing); err != nil {
		return err
	}
	if err := project.SaveDesigns(project.DefaultDesignsPath(), b.Designs); err != nil {
		return err
	}
	log.Info(ctx, "backup restored", slog.F("path", rest[0]), slog.F("created_at", b.CreatedAt))
	return nil
}

func ticket(ctx context.Context, args []string, stdout io.Writer, log slog.Logger) error {
	o := newOptions("ticket")
	dbPath := o.flags.String("db", os.Getenv("SAILQUOTE_DB"), "SQLite order database, overrides config")
	outDir := o.flags.String("out", ".", "directory for the ticket and corner tag PNGs")
	rest, appCfg, log, err := o.parse(args, log)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return usageError{"ticket takes exactly one order ID"}
	}
	path := appCfg.DBPath
	if *dbPath != "" {
		path = *dbPath
	}

	db, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open order store: %w", err)
	}
	defer db.Close()

	repo := store.New(db)
	if err := repo.Init(ctx); err != nil {
		return err
	}
	ord, err := repo.GetOrder(ctx, rest[0])
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}
	ticketPath := filepath.Join(*outDir, ord.ID+"-ticket.png")
	if err := export.ExportTicket(ticketPath, *ord); err != nil {
		return err
	}
	tags, err := export.ExportCornerTags(*outDir, *ord)
	if err != nil {
		return err
	}
	log.Info(ctx, "ticket exported", slog.F("order", ord.ID), slog.F("tags", len(tags)))

	for _, p := range append([]string{ticketPath}, tags...) {
		if _, err := fmt.Fprintln(stdout, p); err != nil {
			return err
		}
	}
	return nil
}

func designs(ctx context.Context, args []string, stdout io.Writer, log slog.Logger) error {
	o := newOptions("designs")
	remove := o.flags.String("remove", "", "delete the design with this ID")
	rest, _, log, err := o.parse(args, log)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return usageError{"designs takes no arguments"}
	}

	path := project.DefaultDesignsPath()
	lib, err := project.LoadDesigns(path)
	if err != nil {
		return err
	}

	if *remove != "" {
		d := lib.FindByID(*remove)
		if d == nil {
			return fmt.Errorf("no design with ID %q", *remove)
		}
		name := d.Name
		lib.Remove(*remove)
		if err := project.SaveDesigns(path, lib); err != nil {
			return err
		}
		log.Info(ctx, "design removed", slog.F("id", *remove), slog.F("name", name))
		return nil
	}

	for _, d := range lib.Designs {
		if _, err := fmt.Fprintf(stdout, "%s  %-24s %d corners  %s\n",
			d.ID, d.Name, d.Configuration.Corners, d.UpdatedAt); err != nil {
			return err
		}
	}
	return nil
}
