package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	charmLog "github.com/charmbracelet/log"

	"github.com/ahlgren/tavla/internal/app"
	"github.com/ahlgren/tavla/internal/config"
	"github.com/ahlgren/tavla/internal/domain"
	"github.com/ahlgren/tavla/internal/platform"
	"github.com/ahlgren/tavla/internal/storage"
	"github.com/ahlgren/tavla/internal/tui"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// main handles main.
func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run runs the requested command flow.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	fs := flag.NewFlagSet("tavla", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		configPath string
		storageDir string
		appName    string
		devMode    bool
		showVer    bool
	)
	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("TAVLA_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("TAVLA_APP_NAME")); envApp != "" {
		appName = envApp
	} else {
		appName = "tavla"
	}
	fs.StringVar(&configPath, "config", "", "path to config TOML")
	fs.StringVar(&storageDir, "dir", "", "path to board storage directory")
	fs.StringVar(&appName, "app", appName, "application name for config/data path resolution")
	fs.BoolVar(&devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")
	fs.BoolVar(&showVer, "version", false, "show version")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showVer {
		_, _ = fmt.Fprintf(stdout, "tavla %s\n", version)
		return nil
	}

	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: appName,
		DevMode: devMode,
	})
	if err != nil {
		return err
	}

	command := firstArg(fs.Args())
	switch command {
	case "paths":
		_, _ = fmt.Fprintf(stdout, "app: %s\n", appName)
		_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", devMode)
		_, _ = fmt.Fprintf(stdout, "config: %s\n", paths.ConfigPath)
		_, _ = fmt.Fprintf(stdout, "storage_dir: %s\n", paths.StorageDir)
		return nil
	case "", "export", "import":
		// Continue.
	default:
		return fmt.Errorf("unknown command: %s", command)
	}

	dirOverridden := strings.TrimSpace(storageDir) != ""
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("TAVLA_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	if !dirOverridden {
		if envPath := strings.TrimSpace(os.Getenv("TAVLA_STORAGE_DIR")); envPath != "" {
			storageDir = envPath
			dirOverridden = true
		} else {
			storageDir = paths.StorageDir
		}
	}

	cfg, err := config.Load(configPath, config.Default(storageDir))
	if err != nil {
		return fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dirOverridden {
		cfg.Storage.Dir = storageDir
	}

	logger, closeLogger, err := newRuntimeLogger(stderr, appName, cfg, command == "")
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	defer closeLogger()

	logger.Info("startup configuration resolved", "app", appName, "dev_mode", devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "storage_dir", cfg.Storage.Dir)

	store, err := storage.NewWithDir(cfg.Storage.Dir)
	if err != nil {
		logger.Error("open storage", "dir", cfg.Storage.Dir, "err", err)
		return fmt.Errorf("open storage: %w", err)
	}

	switch command {
	case "export":
		if err := runExport(ctx, store, fs.Args()[1:], cfg.Board.DefaultName, stdout); err != nil {
			logger.Error("command flow failed", "command", "export", "err", err)
			return fmt.Errorf("run export command: %w", err)
		}
		return nil
	case "import":
		if err := runImport(ctx, store, fs.Args()[1:]); err != nil {
			logger.Error("command flow failed", "command", "import", "err", err)
			return fmt.Errorf("run import command: %w", err)
		}
		return nil
	}

	a, err := app.New(store, logger, time.Now, app.Defaults{
		BoardName: cfg.Board.DefaultName,
		Columns:   cfg.Board.Columns,
	})
	if err != nil {
		logger.Error("load active board", "err", err)
		return fmt.Errorf("load active board: %w", err)
	}
	logger.Info("board loaded", "board", a.BoardName(), "tasks", a.Board().TaskCount())

	m := tui.NewModel(a)
	if _, err := programFactory(m).Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	logger.Info("command flow complete", "command", "tui")
	return nil
}

// runExport runs the requested command flow.
func runExport(ctx context.Context, store *storage.Store, args []string, defaultName string, stdout io.Writer) error {
	fs := flag.NewFlagSet("tavla export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		boardName string
		outPath   string
	)
	fs.StringVar(&boardName, "board", "", "board name (defaults to the active board)")
	fs.StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse export flags: %w", err)
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected export arguments: %v", fs.Args())
	}

	if boardName == "" {
		name, err := store.ActiveBoardName()
		if err != nil {
			return fmt.Errorf("resolve active board: %w", err)
		}
		boardName = name
	}
	if boardName == "" {
		boardName = defaultName
	}
	board, err := store.LoadBoard(boardName, time.Now())
	if err != nil {
		return fmt.Errorf("load board %q: %w", boardName, err)
	}
	encoded, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return fmt.Errorf("encode board json: %w", err)
	}
	encoded = append(encoded, '\n')

	if outPath == "-" {
		if _, err := stdout.Write(encoded); err != nil {
			return fmt.Errorf("write board to stdout: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create export output dir: %w", err)
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// runImport runs the requested command flow.
func runImport(ctx context.Context, store *storage.Store, args []string) error {
	fs := flag.NewFlagSet("tavla import", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		inPath    string
		boardName string
	)
	fs.StringVar(&inPath, "in", "", "input board JSON file")
	fs.StringVar(&boardName, "board", "", "board name (defaults to the name inside the file)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse import flags: %w", err)
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected import arguments: %v", fs.Args())
	}
	if inPath == "" {
		return fmt.Errorf("--in is required")
	}

	content, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	var board domain.Board
	if err := json.Unmarshal(content, &board); err != nil {
		return fmt.Errorf("decode board json: %w", err)
	}
	board.Normalize(time.Now())
	if boardName == "" {
		boardName = board.Name
	}
	if strings.TrimSpace(boardName) == "" {
		return fmt.Errorf("board name missing; pass --board")
	}
	board.Name = boardName
	if err := store.SaveBoard(boardName, board); err != nil {
		return fmt.Errorf("save board %q: %w", boardName, err)
	}
	return nil
}

// firstArg handles first arg.
func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// parseBoolEnv parses input into a normalized form.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// newRuntimeLogger builds the session logger. While the TUI owns the
// terminal, events go to a log file under the storage dir instead of
// stderr.
func newRuntimeLogger(stderr io.Writer, appName string, cfg config.Config, tuiMode bool) (*charmLog.Logger, func(), error) {
	level, err := charmLog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse logging level %q: %w", cfg.Logging.Level, err)
	}

	sink := stderr
	closeFn := func() {}
	if tuiMode {
		logPath := filepath.Join(cfg.Storage.Dir, appName+".log")
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		sink = logFile
		closeFn = func() { _ = logFile.Close() }
	}

	logger := charmLog.NewWithOptions(sink, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	})
	return logger, closeFn, nil
}
