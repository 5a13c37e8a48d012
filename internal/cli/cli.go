package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/unkn0wn-root/rediskit"
	"github.com/unkn0wn-root/rediskit/codec"
	"github.com/unkn0wn-root/rediskit/internal/logger"
)

// Config is the connection setup shared by every subcommand.
type Config struct {
	Addr        string
	Username    string
	Password    string
	AskPassword bool
	DB          int
	DialTimeout time.Duration
	Timeout     time.Duration
	Format      string
	LogLevel    string
}

// app carries the connected client from PersistentPreRunE to the subcommands.
type app struct {
	cfg    Config
	client *rediskit.Client
	// readPassword is swapped in tests.
	readPassword func(in io.Reader) (string, error)
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	root, _ := newRoot()
	return root
}

func newRoot() (*cobra.Command, *app) {
	a := &app{readPassword: readPassword}

	root := &cobra.Command{
		Use:   "rediskit",
		Short: "Typed Redis commands for string, list, set and hash keys",
		Long: `Typed Redis commands for string, list, set and hash keys.

Results are printed as JSON. Non-text values written by rediskit are decoded
before printing.

Examples:
  rediskit set string name dummy --ex 120
  rediskit set hash user name=Ada lang=go
  rediskit get list colors
  rediskit len set tags`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !needsStore(cmd) {
				return nil
			}
			return a.connect(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfg.Addr, "addr", "localhost:6379", "Redis server address (host:port)")
	f.StringVar(&a.cfg.Username, "username", "", "ACL username")
	f.StringVarP(&a.cfg.Password, "password", "a", "", "Redis password")
	f.BoolVar(&a.cfg.AskPassword, "ask-password", false, "Prompt for the password")
	f.IntVarP(&a.cfg.DB, "db", "n", 0, "Database number")
	f.DurationVar(&a.cfg.DialTimeout, "dial-timeout", 5*time.Second, "Connect timeout")
	f.DurationVar(&a.cfg.Timeout, "timeout", 10*time.Second, "Read/write timeout")
	f.StringVar(&a.cfg.Format, "format", "msgpack", "Encoding for non-text values (msgpack, cbor, json)")
	f.StringVar(&a.cfg.LogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		a.getCmd(),
		a.setCmd(),
		a.delCmd(),
		a.existsCmd(),
		a.typeCmd(),
		a.expireCmd(),
		a.lenCmd(),
	)
	return root, a
}

// Execute runs the CLI against os.Args. Called by main.main().
func Execute() {
	root, a := newRoot()
	err := root.Execute()
	// PersistentPostRunE is skipped when a subcommand fails
	_ = a.close()
	if err != nil {
		os.Exit(1)
	}
}

func (a *app) close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

func (a *app) connect(cmd *cobra.Command) error {
	logger.Init(logger.LogLevel(a.cfg.LogLevel))

	format, err := codec.ParseFormat(a.cfg.Format)
	if err != nil {
		return err
	}
	if a.cfg.AskPassword {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		pw, err := a.readPassword(cmd.InOrStdin())
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		a.cfg.Password = pw
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.DialTimeout+a.cfg.Timeout)
	defer cancel()
	c, err := rediskit.New(ctx, rediskit.Options{
		Addr:                a.cfg.Addr,
		Username:            a.cfg.Username,
		Password:            a.cfg.Password,
		DB:                  a.cfg.DB,
		DialTimeout:         a.cfg.DialTimeout,
		ReadTimeout:         a.cfg.Timeout,
		WriteTimeout:        a.cfg.Timeout,
		HealthCheckInterval: -1,
		Format:              format,
		Logger:              logger.Kit(),
	})
	if err != nil {
		return err
	}
	a.client = c
	logger.WithField("addr", a.cfg.Addr).Debug("connected")
	return nil
}

func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "help" || c.Name() == "completion" {
			return false
		}
	}
	return cmd.HasParent()
}

// readPassword reads without echo from a terminal, otherwise one line.
func readPassword(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		return string(b), err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
