package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"

	"github.com/datambit/datambit"
	"github.com/datambit/datambit/client"
)

// App holds state shared by sub-commands.
type App struct {
	ctx     context.Context
	options *Options
	stdin   *bufio.Reader
	stdout  io.Writer
	stderr  io.Writer
	client  *client.Client
}

// New creates an app writing results to stdout and diagnostics to stderr.
func New(stdin io.Reader, stdout, stderr io.Writer) *App {
	return &App{stdin: bufio.NewReader(stdin), stdout: stdout, stderr: stderr}
}

// Run parses flags and executes the selected command.
func Run(args []string) error {
	return New(os.Stdin, os.Stdout, os.Stderr).Run(context.Background(), args)
}

// Run parses args and executes the selected command.
func (a *App) Run(ctx context.Context, args []string) error {
	a.ctx = ctx
	a.options = &Options{}
	if URL := extractConfigPath(args); URL != "" {
		loaded, err := datambit.LoadOptions(ctx, URL)
		if err != nil {
			return err
		}
		a.options.ClientOptions = *loaded
	}
	a.options.Init(a)
	parser := flags.NewParser(a.options, flags.HelpFlag|flags.PassDoubleDash)
	_, err := parser.ParseArgs(args)
	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
		_, _ = fmt.Fprintln(a.stdout, flagsErr.Message)
		return nil
	}
	return err
}

// Client lazily creates the API client from the parsed options.
func (a *App) Client() (*client.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	options := &a.options.ClientOptions
	level := slog.LevelWarn
	if a.options.Verbose {
		level = slog.LevelDebug
	}
	options.Logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	options.OnUnauthenticated = func(ctx context.Context) {
		_, _ = fmt.Fprintln(a.stderr, "login required: run 'datambit login'")
	}
	cli, err := datambit.NewClient(options)
	if err != nil {
		return nil, err
	}
	a.client = cli
	return cli, nil
}

func (a *App) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(a.stdout, format, args...)
}

func (a *App) printJSON(value interface{}) error {
	encoder := json.NewEncoder(a.stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// prompt reads a line from stdin when value is empty.
func (a *App) prompt(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	_, _ = fmt.Fprintf(a.stderr, "%v: ", label)
	line, err := a.stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if line = strings.TrimSpace(line); line == "" {
		return "", fmt.Errorf("%v is required", label)
	}
	return line, nil
}

// extractConfigPath scans raw args for -f/--config before full parsing so that
// flags can override the loaded options.
func extractConfigPath(args []string) string {
	for i, arg := range args {
		switch arg {
		case "-f", "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		default:
			if strings.HasPrefix(arg, "--config=") {
				return strings.TrimPrefix(arg, "--config=")
			}
		}
	}
	return ""
}
