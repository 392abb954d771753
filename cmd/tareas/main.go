package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/sirupsen/logrus"

	"github.com/tareas-app/tareas/internal/auth"
	"github.com/tareas-app/tareas/internal/board"
	"github.com/tareas-app/tareas/internal/config"
	"github.com/tareas-app/tareas/internal/db"
	"github.com/tareas-app/tareas/internal/mcp"
	"github.com/tareas-app/tareas/internal/server"
	"github.com/tareas-app/tareas/internal/ui"
)

const (
	envLocal = "local"
	envProd  = "prod"
)

var (
	configPath string
	dbPath     string
	env        string
)

func main() {
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&dbPath, "db-path", "", "Path to database file (overrides config)")
	flag.StringVar(&env, "env", "", "Environment: local or prod (overrides config)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if env != "" {
		cfg.Env = env
	}

	var command string
	var args []string

	if flag.NArg() == 0 {
		selected, err := ui.RunMenu()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running menu: %v\n", err)
			os.Exit(1)
		}
		if selected == "" {
			os.Exit(0)
		}
		command = selected
		args = []string{}
	} else {
		command = flag.Arg(0)
		args = flag.Args()[1:]
	}

	switch command {
	case "board":
		err = runBoard(cfg)
	case "init":
		err = runInit(cfg, args)
	case "mcp":
		err = runMCP(cfg)
	case "serve":
		err = runServe(cfg, args)
	case "export":
		err = runExport(cfg, args)
	case "import":
		err = runImport(cfg, args)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger writes to a file next to the database so log lines never
// bleed into the alternate screen the TUI owns.
func setupLogger(cfg config.Config) (*logrus.Entry, error) {
	log := logrus.New()

	logPath := filepath.Join(filepath.Dir(cfg.DBPath), "tareas.log")
	if cfg.DBPath == ":memory:" {
		logPath = "tareas.log"
	}

	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}
	log.SetOutput(logFile)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	switch cfg.Env {
	case envLocal:
		log.SetLevel(logrus.DebugLevel)
	case envProd:
		log.SetLevel(logrus.WarnLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return logrus.NewEntry(log), nil
}

func openDB(cfg config.Config) (*db.DB, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := database.Init(context.Background()); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return database, nil
}

func runBoard(cfg config.Config) error {
	log, err := setupLogger(cfg)
	if err != nil {
		return err
	}

	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	log.WithField("env", cfg.Env).Info("application start")

	session, err := ui.RunLogin(auth.New(database, log))
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	return ui.RunBoard(board.New(database, log), session)
}

func runInit(cfg config.Config, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	tareasDir := filepath.Join(targetDir, ".tareas")
	if err := os.MkdirAll(tareasDir, 0755); err != nil {
		return fmt.Errorf("failed to create .tareas directory: %w", err)
	}
	fmt.Println("✓ Created .tareas/ directory")

	gitignorePath := filepath.Join(tareasDir, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte("tareas.db*\ntareas.log\n"), 0644); err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}
	fmt.Println("✓ Created .tareas/.gitignore")

	finalDBPath := cfg.DBPath
	if cfg.DBPath == ".tareas/tareas.db" {
		finalDBPath = filepath.Join(tareasDir, "tareas.db")
	}

	database, err := db.Open(finalDBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	if err := database.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	fmt.Printf("✓ Initialized database at %s\n", finalDBPath)

	username, password, name, err := promptCredential()
	if err != nil {
		return err
	}
	if username != "" {
		if _, err := database.CreateCredential(ctx, username, password, name); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		fmt.Printf("✓ Created user %s\n", username)
	}

	fmt.Println("✓ Tareas initialized successfully")
	return nil
}

// promptCredential asks for a first login interactively. An empty username
// skips user creation entirely.
func promptCredential() (username, password, name string, err error) {
	fmt.Print("Username (empty to skip): ")
	if _, err = fmt.Scanln(&username); err != nil {
		// Scanln errors on an empty line; treat that as a skip.
		return "", "", "", nil
	}
	if username == "" {
		return "", "", "", nil
	}

	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", "", "", fmt.Errorf("failed to read password: %w", err)
	}
	password = string(raw)

	fmt.Print("Display name: ")
	fmt.Scanln(&name)
	if name == "" {
		name = username
	}

	return username, password, name, nil
}

func runMCP(cfg config.Config) error {
	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	s := mcp.NewServer(database)
	return mcp.Serve(s)
}

func runServe(cfg config.Config, args []string) error {
	serveFlags := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := serveFlags.String("addr", cfg.Address, "Address to listen on")
	if err := serveFlags.Parse(args); err != nil {
		return err
	}

	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(database)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Listening on %s\n", *addr)
	return srv.Start(*addr)
}

func runExport(cfg config.Config, args []string) error {
	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	if len(args) > 0 {
		if err := database.ExportSnapshot(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Exported snapshot to %s\n", args[0])
		return nil
	}
	return database.Export(ctx, os.Stdout)
}

func runImport(cfg config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tareas import <file>")
	}

	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	ctx := context.Background()
	if err := database.Import(ctx, f); err != nil {
		return err
	}
	fmt.Printf("✓ Imported snapshot from %s\n", args[0])
	return nil
}
