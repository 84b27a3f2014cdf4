package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"menutheme/api"
	"menutheme/colormath"
	"menutheme/config"
	"menutheme/logging"
	"menutheme/preview"
	"menutheme/scheduler"
	"menutheme/storage"
	"menutheme/theme"
)

//go:embed templates
var templatesFS embed.FS

//go:embed web
var webFS embed.FS

var (
	dataDir    string
	listen     string
	listenPort int
	logLevel   string
	plain      bool
	appVersion = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "menutheme",
	Short: "menutheme – per-restaurant brand themes",
	Long:  "menutheme derives accessible brand color scales for each restaurant location and keeps open menu pages themed live.",
	RunE:  run,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  "Manage menutheme configuration files.",
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a default configuration file",
	Long:  "Generate a default menutheme.config file in the specified data directory (or current directory if not specified).",
	RunE:  runConfigGenerate,
}

var paletteCmd = &cobra.Command{
	Use:   "palette <color>",
	Short: "Print the brand scale derived from a color",
	Long:  "Print the 10-step brand scale, text color and contrast ratios derived from a #rrggbb color. Invalid colors fall back to the default accent.",
	Args:  cobra.MaximumNArgs(1),
	Run:   runPalette,
}

func init() {
	wd, _ := os.Getwd()
	rootCmd.Version = appVersion
	rootCmd.Flags().StringVar(&dataDir, "data-dir", wd, "Data directory (default: current directory)")
	rootCmd.Flags().StringVar(&listen, "listen", "all", "IP address to listen on (default: all)")
	rootCmd.Flags().IntVar(&listenPort, "listen-port", 8080, "Port to listen on (default: 8080)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	configGenerateCmd.Flags().StringVar(&dataDir, "data-dir", wd, "Data directory where config file will be created (default: current directory)")
	configCmd.AddCommand(configGenerateCmd)

	paletteCmd.Flags().BoolVar(&plain, "plain", false, "Print CSS declarations instead of swatches")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(paletteCmd)
}

func run(cmd *cobra.Command, args []string) error {
	// Load config from data-dir
	cfg, err := config.Load(dataDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override config with CLI flags only if they were explicitly provided
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = dataDir
	} else if cfg.DataDir == "" || cfg.DataDir == "." {
		cfg.DataDir = dataDir
	}
	if cmd.Flags().Changed("listen") || cmd.Flags().Changed("listen-port") {
		if listen != "" && listen != "all" {
			cfg.ListenAddr = net.JoinHostPort(listen, fmt.Sprint(listenPort))
		} else {
			cfg.ListenAddr = fmt.Sprintf(":%d", listenPort)
		}
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	logger, err := logging.Stderr(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	dataDirAbs, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	cfg.DataDir = dataDirAbs

	store := storage.New(cfg.DataDir)
	if err := store.EnsureDirs(); err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}

	themeManager, err := theme.NewManager(templatesFS, logger)
	if err != nil {
		return fmt.Errorf("initialize theme manager: %w", err)
	}
	themeHandler := theme.NewHandler(themeManager)

	index, err := newIndexHandler(themeHandler, cfg.Template)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	apiServer := api.NewServer(store, themeHandler, logger)

	sched := scheduler.New(apiServer.Sessions().RefreshAll, cfg.RefreshInterval, logger)
	sched.Start(ctx)

	mux := http.NewServeMux()
	apiServer.Register(mux)
	mux.Handle("/", index)
	mux.Handle("/t/", index)
	mux.HandleFunc("/theme.js", func(w http.ResponseWriter, r *http.Request) {
		content, err := webFS.ReadFile("web/theme.js")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		_, _ = w.Write(content)
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	printListeningAddresses(logger, cfg.ListenAddr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	logger.Info().Msg("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("server shutdown")
	}
	return nil
}

// newIndexHandler serves the menu page. The first paint carries the default
// brand properties inline; the live session then swaps in the tenant's theme.
func newIndexHandler(themes *theme.Handler, defaultTemplate string) (http.Handler, error) {
	indexHTML, err := webFS.ReadFile("web/index.html")
	if err != nil {
		return nil, fmt.Errorf("read index.html: %w", err)
	}
	indexTemplate, err := template.New("index").Parse(string(indexHTML))
	if err != nil {
		return nil, fmt.Errorf("parse index.html: %w", err)
	}

	firstPaint := theme.Derive(colormath.DefaultColor)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slug := ""
		switch {
		case r.URL.Path == "/":
		case strings.HasPrefix(r.URL.Path, "/t/"):
			slug = strings.Trim(strings.TrimPrefix(r.URL.Path, "/t/"), "/")
			if !storage.ValidSlug(slug) {
				http.NotFound(w, r)
				return
			}
		default:
			http.NotFound(w, r)
			return
		}

		templateName := defaultTemplate
		if t := r.URL.Query().Get("template"); t != "" && themes.Manager().GetTemplate(t) != nil {
			templateName = t
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = indexTemplate.Execute(w, map[string]any{
			"Title":            "menutheme",
			"Slug":             slug,
			"BaseColor":        firstPaint.BaseColor,
			"FirstPaintCSS":    template.CSS(theme.RenderCSS(firstPaint)),
			"CurrentTemplate":  templateName,
			"TemplateMenuHTML": template.HTML(themes.GenerateTemplateMenuHTML(templateName)),
			"SwatchHTML":       template.HTML(theme.GenerateSwatchHTML()),
		})
	}), nil
}

func runConfigGenerate(cmd *cobra.Command, args []string) error {
	// Ensure data directory exists and is absolute
	dataDirAbs, err := filepath.Abs(dataDir)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := config.Default()
	cfg.DataDir = dataDirAbs

	cfgPath := filepath.Join(dataDirAbs, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("config file already exists: %s", cfgPath)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated default config file: %s\n", cfgPath)
	return nil
}

func runPalette(cmd *cobra.Command, args []string) {
	color := colormath.DefaultColor
	if len(args) == 1 {
		color = args[0]
		if !strings.HasPrefix(color, "#") && colormath.IsHex("#"+color) {
			color = "#" + color
		}
	}

	if _, err := logging.Stderr("warn", "console"); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	}

	state := theme.Derive(color)
	if plain {
		fmt.Fprint(cmd.OutOrStdout(), preview.Plain(state))
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), preview.Render(state))
}

func printListeningAddresses(logger zerolog.Logger, addr string) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		logger.Info().Msgf("listening on http://%s", addr)
		return
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		// Listening on all interfaces
		addrs, err := net.InterfaceAddrs()
		if err != nil {
			logger.Info().Msgf("listening on http://0.0.0.0:%s", port)
			return
		}
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
				logger.Info().Msgf("listening on http://%s:%s", ipnet.IP.String(), port)
			}
		}
		logger.Info().Msgf("listening on http://localhost:%s", port)
		return
	}
	logger.Info().Msgf("listening on http://%s:%s", host, port)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
