package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/promptdeck/internal/config"
	"github.com/JaimeStill/promptdeck/internal/infrastructure"
	"github.com/JaimeStill/promptdeck/internal/prompts"
	"github.com/JaimeStill/promptdeck/pkg/pagination"
)

// session is an opened prompt system.
type session struct {
	prompts    prompts.System
	pagination pagination.Config
	close      func() error
}

// env carries the process boundaries of the CLI.
type env struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	open   func(configDir string) (*session, error)
}

func defaultEnv() *env {
	return &env{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		open:   openSession,
	}
}

// openSession runs the configured store in-process, the same way the
// server does.
func openSession(configDir string) (*session, error) {
	cfg, err := config.LoadFrom(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := infra.Start(); err != nil {
		return nil, err
	}
	infra.Lifecycle.WaitForStartup()

	return &session{
		prompts:    prompts.New(infra.Store, nil, infra.Logger.With("module", "cli"), cfg.API.Pagination),
		pagination: cfg.API.Pagination,
		close: func() error {
			return infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())
		},
	}, nil
}

type cli struct {
	env       *env
	configDir string
	output    string
}

func newRootCmd(e *env) *cobra.Command {
	c := &cli{env: e}

	root := &cobra.Command{
		Use:   "promptctl",
		Short: "Manage prompt configurations from the command line",
		Long: `promptctl reads and edits prompt configurations against the store
named in config.toml, outside the HTTP server.

Every edit records a new patch version, exactly as the dashboard does.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := parseFormat(c.output)
			return err
		},
	}

	root.SetIn(e.in)
	root.SetOut(e.out)
	root.SetErr(e.errOut)

	root.PersistentFlags().StringVar(
		&c.configDir, "config", ".", "directory holding config.toml",
	)
	root.PersistentFlags().StringVarP(
		&c.output, "output", "o", string(formatYAML), "output format: yaml or json",
	)

	root.AddCommand(
		c.listCmd(),
		c.getCmd(),
		c.createCmd(),
		c.updateCmd(),
		c.deleteCmd(),
		c.historyCmd(),
		c.versionCmd(),
		c.compareCmd(),
		c.catalogCmd(),
	)

	return root
}

// withSession opens the store for the duration of fn.
func (c *cli) withSession(fn func(s *session) error) (err error) {
	s, err := c.env.open(c.configDir)
	if err != nil {
		return err
	}
	if s.close != nil {
		defer func() {
			err = errors.Join(err, s.close())
		}()
	}
	return fn(s)
}

func (c *cli) print(data any) error {
	format, err := parseFormat(c.output)
	if err != nil {
		return err
	}
	return writeOutput(c.env.out, format, data)
}

// confirm asks a yes/no question on the command's streams.
func (c *cli) confirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N]: ", question)

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
