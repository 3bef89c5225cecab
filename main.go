// Package main provides the CLI entrypoint for go-match.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"go-match/internal/clock"
	"go-match/internal/config"
	"go-match/internal/deck"
	"go-match/internal/game"
	"go-match/internal/logger"
)

const (
	defaultSimMisses = 1
	defaultSimThink  = 400 * time.Millisecond
)

var errNotTerminal = errors.New("play needs an interactive terminal, try the simulate command")

var errOut io.Writer = os.Stderr

var (
	configPath string
	envFile    string
	seedFlag   uint64
	logLevel   string
	logFile    string
	iconsPath  string

	simMisses int
	simThink  time.Duration
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "go-match",
		Short:        "Memory matching game for the terminal",
		SilenceUsage: true,
		RunE:         runPlayCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file with GO_MATCH_ variables")
	pf.Uint64Var(&seedFlag, "seed", 0, "shuffle seed (0 picks one at random)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&logFile, "log-file", "", "append logs to this file")
	pf.StringVar(&iconsPath, "icons", "", "icon file or directory, one symbol per line")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "play",
		Short: "Play in the terminal (default)",
		RunE:  runPlayCmd,
	})
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "levels",
		Short: "Print the level catalog",
		RunE:  runLevelsCmd,
	})

	return rootCmd
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play every level with a bot on a virtual clock",
		RunE:  runSimulateCmd,
	}
	cmd.Flags().IntVar(&simMisses, "misses", defaultSimMisses, "deliberate misses per level")
	cmd.Flags().DurationVar(&simThink, "think", defaultSimThink, "bot pause before each flip")
	return cmd
}

// loadConfig layers command-line flags over the file and environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seedFlag
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("icons") {
		cfg.IconsPath = iconsPath
	}
	if err := cfg.Resolve(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// runInfo identifies one run in logs and output.
type runInfo struct {
	ID   string
	Seed uint64
}

// newSession wires a session to src and tags its log records with a run ID.
func newSession(cfg config.Config, src clock.Source, log *slog.Logger) (*game.Session, runInfo, error) {
	cat, err := cfg.Catalog()
	if err != nil {
		return nil, runInfo{}, err
	}

	id, err := gonanoid.New(10)
	if err != nil {
		return nil, runInfo{}, fmt.Errorf("generate run id: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	gen := deck.NewGenerator(cfg.Icons, rand.New(rand.NewPCG(seed, seed>>1|1)))

	sess, err := game.NewSession(game.Options{
		Catalog:   cat,
		Generator: gen,
		Source:    src,
		Delays:    cfg.GameDelays(),
		Logger:    log.With("run", id),
	})
	if err != nil {
		return nil, runInfo{}, err
	}
	return sess, runInfo{ID: id, Seed: seed}, nil
}

func closeLog(c io.Closer) {
	if err := c.Close(); err != nil {
		logErrf("failed to close log file: %v\n", err)
	}
}

func logErrf(format string, args ...any) {
	fmt.Fprintf(errOut, format, args...)
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	log, closer, err := logger.Open(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog(closer)

	sched := newTeaScheduler()
	sess, run, err := newSession(cfg, sched, log)
	if err != nil {
		return err
	}
	log.Info("game starting", "run", run.ID, "seed", run.Seed, "levels", sess.Catalog().Len())

	p := tea.NewProgram(newPlayModel(sess, sched), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running the program: %w", err)
	}
	return nil
}

func runSimulateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel, cmd.ErrOrStderr())
	if cfg.LogFile != "" {
		fileLog, closer, err := logger.Open(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return err
		}
		defer closeLog(closer)
		log = fileLog
	}

	clk := clock.NewManual(time.Now())
	sess, run, err := newSession(cfg, clk, log)
	if err != nil {
		return err
	}

	sum, err := runSimulation(sess, clk, botOptions{Misses: simMisses, Think: simThink})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\nseed: %d\n", run.ID, run.Seed)
	fmt.Fprintln(out, renderLevelTable(sess.History()))
	fmt.Fprint(out, renderSummary(sum))
	return nil
}

func runLevelsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderCatalog(cat))
	fmt.Fprintf(cmd.OutOrStdout(), "%d pairs in total, %d icons available\n", cat.TotalPairs(), len(cfg.Icons))
	return nil
}
