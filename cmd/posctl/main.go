package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/abhishake-droid/pos-console/internal/client"
	"github.com/abhishake-droid/pos-console/internal/config"
	"github.com/abhishake-droid/pos-console/internal/enum"
	"github.com/abhishake-droid/pos-console/internal/importer"
	"github.com/abhishake-droid/pos-console/internal/order"
	"github.com/abhishake-droid/pos-console/internal/reconcile"
	"github.com/abhishake-droid/pos-console/internal/session"
	"github.com/abhishake-droid/pos-console/internal/workbench"
)

var (
	configFlag = flag.String("config", "", "Path to a YAML config file")
	debugFlag  = flag.Bool("debug", false, "Enable debug logging")
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: posctl [flags] <command>

Commands:
  order get <orderID>
  order list [-page N] [-size N] [-status S] [-from D] [-to D] [-order-id ID]
  order cancel <orderID>
  order retry <orderID>
  invoice generate <orderID>
  invoice download <orderID>
  product search <query>
  product barcode <code>
  import products <file.tsv>
  import inventory <file.tsv>
  serve [-addr :PORT]`)
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()

	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *debugFlag {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Load()
	if *configFlag != "" {
		var err error
		cfg, err = config.LoadFile(*configFlag)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load config file")
		}
	}

	sess := session.New()
	if token := os.Getenv("POS_AUTH_TOKEN"); token != "" {
		sess.SetToken(token)
		if sess.Expired(time.Now()) {
			logger.Warn("Auth token is expired, backend will reject requests")
		}
	}
	sess.OnInvalidate(func() {
		logger.Warn("Session invalidated, set a fresh POS_AUTH_TOKEN")
	})

	api := client.New(cfg.APIBaseURL, sess, logger, cfg.RequestTimeout)
	app := &app{
		cfg:    cfg,
		logger: logger,
		api:    api,
		bench:  workbench.New(api, logger),
		search: workbench.NewProductSearch(api, cfg.SearchDebounce),
	}
	app.importer = importer.New(api, logger)
	app.importer.Codec().MaxBytes = cfg.UploadMaxBytes
	app.importer.Codec().MaxRows = cfg.UploadMaxRows

	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	ctx := context.Background()
	var err error
	switch args[0] {
	case "order":
		err = app.runOrder(ctx, args[1:])
	case "invoice":
		err = app.runInvoice(ctx, args[1:])
	case "product":
		err = app.runProduct(ctx, args[1:])
	case "import":
		err = app.runImport(ctx, args[1:])
	case "serve":
		err = app.runServe(args[1:])
	default:
		usage()
	}
	if err != nil {
		logger.Fatal(err)
	}
}

type app struct {
	cfg      *config.Config
	logger   *logrus.Logger
	api      *client.Client
	bench    *workbench.Workbench
	search   *workbench.ProductSearch
	importer *importer.Importer
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) runOrder(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage()
	}
	switch args[0] {
	case "get":
		if len(args) != 2 {
			usage()
		}
		o, err := a.api.GetOrder(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(o)

	case "list":
		fs := flag.NewFlagSet("order list", flag.ExitOnError)
		page := fs.Int("page", 0, "Page number, zero-based")
		size := fs.Int("size", 20, "Page size")
		status := fs.String("status", "", "Filter by order status")
		from := fs.String("from", "", "Filter from date, YYYY-MM-DD")
		to := fs.String("to", "", "Filter to date, YYYY-MM-DD")
		orderID := fs.String("order-id", "", "Filter by order ID")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *status != "" && !enum.IsValidOrderStatus(*status) {
			return fmt.Errorf("unknown order status %q", *status)
		}
		p, err := a.api.ListOrders(ctx, *page, *size, order.SearchFilters{
			FromDate: *from,
			ToDate:   *to,
			Status:   *status,
			OrderID:  *orderID,
		})
		if err != nil {
			return err
		}
		return printJSON(p)

	case "cancel":
		if len(args) != 2 {
			usage()
		}
		o, err := a.api.GetOrder(ctx, args[1])
		if err != nil {
			return err
		}
		cancelled, err := a.bench.Cancel(ctx, *o)
		if err != nil {
			return err
		}
		return printJSON(cancelled)

	case "retry":
		if len(args) != 2 {
			usage()
		}
		if _, err := a.bench.OpenRetry(ctx, args[1]); err != nil {
			return err
		}
		o, err := a.bench.Submit(ctx)
		if err != nil {
			return err
		}
		return printJSON(o)
	}
	usage()
	return nil
}

func (a *app) runInvoice(ctx context.Context, args []string) error {
	if len(args) != 2 {
		usage()
	}
	switch args[0] {
	case "generate":
		o, err := a.api.GetOrder(ctx, args[1])
		if err != nil {
			return err
		}
		invoiced, err := a.bench.GenerateInvoice(ctx, *o)
		if err != nil {
			return err
		}
		return printJSON(invoiced)

	case "download":
		o, err := a.api.GetOrder(ctx, args[1])
		if err != nil {
			return err
		}
		path := filepath.Join(a.cfg.DownloadDir, client.InvoiceFileName(o.OrderID))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create invoice file: %w", err)
		}
		defer f.Close()
		if err := a.bench.DownloadInvoice(ctx, *o, f); err != nil {
			os.Remove(path)
			return err
		}
		fmt.Println(path)
		return nil
	}
	usage()
	return nil
}

func (a *app) runProduct(ctx context.Context, args []string) error {
	if len(args) != 2 {
		usage()
	}
	switch args[0] {
	case "search":
		products, err := a.search.Search(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(products)

	case "barcode":
		p, err := a.api.GetProductByBarcode(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(p)
	}
	usage()
	return nil
}

func (a *app) runImport(ctx context.Context, args []string) error {
	if len(args) != 2 {
		usage()
	}
	var kind string
	switch args[0] {
	case "products":
		kind = enum.ImportKindProducts
	case "inventory":
		kind = enum.ImportKindInventory
	default:
		usage()
	}

	res, err := a.importer.UploadFile(ctx, kind, args[1])
	if err != nil {
		return err
	}

	fmt.Printf("uploaded: %d ok, %d failed, %d skipped\n",
		res.Report.SuccessCount, res.Report.FailedCount, res.Report.SkippedCount)
	if !res.Report.HasErrors {
		return nil
	}

	for _, f := range res.Report.Failures {
		fmt.Printf("  row %s: %s (%s)\n", f.RowNumber, f.Error, f.Data)
	}
	path, err := a.importer.SaveArtifact(a.cfg.DownloadDir, res)
	if err != nil {
		return err
	}
	fmt.Println("results:", path)

	xlsxPath := filepath.Join(a.cfg.DownloadDir, reconcile.ExcelArtifactName(kind, time.Now()))
	f, err := os.Create(xlsxPath)
	if err != nil {
		return fmt.Errorf("create failures workbook: %w", err)
	}
	defer f.Close()
	if err := res.Report.WriteFailuresXLSX(f, "Failures"); err != nil {
		return err
	}
	fmt.Println("failures:", xlsxPath)
	return nil
}

// runServe starts a localhost bridge so desktop shells can drive the
// client over plain HTTP instead of linking the module directly.
func (a *app) runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "127.0.0.1:7070", "Bridge listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/orders/{orderID}", func(w http.ResponseWriter, req *http.Request) {
		o, err := a.api.GetOrder(req.Context(), chi.URLParam(req, "orderID"))
		a.respond(w, o, err)
	})
	r.Get("/orders/{orderID}/actions", func(w http.ResponseWriter, req *http.Request) {
		o, err := a.api.GetOrder(req.Context(), chi.URLParam(req, "orderID"))
		if err != nil {
			a.respond(w, nil, err)
			return
		}
		a.respond(w, order.AllowedActions(*o), nil)
	})
	r.Get("/products/search", func(w http.ResponseWriter, req *http.Request) {
		products, err := a.search.Search(req.Context(), req.URL.Query().Get("q"))
		a.respond(w, products, err)
	})

	a.logger.WithField("addr", *addr).Info("Bridge listening")
	return http.ListenAndServe(*addr, r)
}

func (a *app) respond(w http.ResponseWriter, v any, err error) {
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		status := http.StatusBadGateway
		var apiErr *client.APIError
		switch {
		case client.IsUnauthorized(err):
			status = http.StatusUnauthorized
		case errors.As(err, &apiErr):
			status = apiErr.StatusCode
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"message": err.Error()})
		return
	}
	json.NewEncoder(w).Encode(v)
}
