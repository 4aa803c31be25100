package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	configPath string
	saveDir    string
	pngFlag    bool

	config  *Config
	logFile io.Closer
)

var rootCmd = &cobra.Command{
	Use:          "dxgmr [title...]",
	Short:        "Draw box-and-arrow diagrams as plain text",
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if saveDir != "" {
			cfg.SaveDirectory = expandPath(saveDir)
		}
		config = cfg
		logFile = setupLogging(cfg)
		setupColors()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		if title == "" {
			title = promptTitle(os.Stdin, os.Stdout)
		}
		return openAndEdit(title)
	},
}

var newCmd = &cobra.Command{
	Use:   "new <title...>",
	Short: "Start an empty diagram",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newFileStore(config)
		return runEditor(NewCanvas(strings.Join(args, " ")), store, systemClipboard{}, "")
	},
}

var openCmd = &cobra.Command{
	Use:   "open <title...>",
	Short: "Open a saved diagram",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return openAndEdit(strings.Join(args, " "))
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <title...>",
	Short: "Print the plain-text render of a saved diagram",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		store := newFileStore(config)
		canvas, err := store.Open(title)
		if err != nil {
			return err
		}
		grid, warn := RenderExport(canvas)
		if warn != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", warn)
		}
		fmt.Fprint(cmd.OutOrStdout(), grid.String())
		if pngFlag {
			path := store.pathFor(title, ".png")
			if err := exportPNG(grid, path); err != nil {
				return &IOError{Op: "write", Path: path, Err: err}
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "wrote", path)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/dxgmr/config.toml)")
	rootCmd.PersistentFlags().StringVar(&saveDir, "dir", "", "directory diagrams are saved to and opened from")
	exportCmd.Flags().BoolVar(&pngFlag, "png", false, "also write a PNG next to the saved diagram")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(exportCmd)
}

// openAndEdit loads title when it exists and falls back to an empty
// diagram with that title when it is missing or unreadable.
func openAndEdit(title string) error {
	store := newFileStore(config)
	canvas, err := openOrNew(store, title)
	notice := ""
	if err != nil {
		var formatErr *FormatError
		if errors.As(err, &formatErr) {
			notice = formatErr.Error()
		} else {
			notice = err.Error()
		}
		slog.Warn("starting with an empty diagram", "title", title, "err", err)
		fmt.Fprintln(os.Stderr, notice)
	}
	return runEditor(canvas, store, systemClipboard{}, notice)
}

// promptTitle asks for a diagram title when in is a terminal. Anything
// else, or an empty answer, yields the default title.
func promptTitle(in *os.File, out io.Writer) string {
	if !term.IsTerminal(int(in.Fd())) {
		return defaultTitle
	}
	fmt.Fprint(out, "Diagram title: ")
	line, _ := bufio.NewReader(in).ReadString('\n')
	if title := strings.TrimSpace(line); title != "" {
		return title
	}
	return defaultTitle
}

// setupLogging sends slog output to the configured log file and returns it
// for closing. Without one, logs are discarded so nothing writes over the
// editor.
func setupLogging(cfg *Config) io.Closer {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg.LogFile == "" {
		slog.SetDefault(discard)
		return nil
	}
	f, err := tea.LogToFile(cfg.LogFile, "dxgmr")
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not open log file:", err)
		slog.SetDefault(discard)
		return nil
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return f
}

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}
