// Command newsctl lists, creates, updates and deletes announcements through
// either the identity-token endpoint or the shared-key script backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/akarihousing/news-backend/internal/editor"
)

const (
	backendEndpoint = "endpoint"
	backendScript   = "script"
)

var errUsage = errors.New("usage")

// options are the global flags shared by every command.
type options struct {
	backend string
	url     string
	token   string
	key     string
	timeout time.Duration
}

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// readSecret reads a secret without echo; nil when stdin is not a terminal.
	readSecret func(prompt string) (string, error)
}

func main() {
	// Optional .env next to the binary's working directory.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		a.readSecret = func(prompt string) (string, error) {
			fmt.Fprint(os.Stderr, prompt)
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			return string(b), err
		}
	}

	os.Exit(a.run(ctx, os.Args[1:]))
}

func (a *app) run(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("newsctl", flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	var opts options
	fs.StringVar(&opts.backend, "backend", envOr("NEWSCTL_BACKEND", backendEndpoint), "backend: endpoint or script")
	fs.StringVar(&opts.url, "url", os.Getenv("NEWSCTL_URL"), "endpoint URL, e.g. https://example.com/api/news")
	fs.StringVar(&opts.token, "token", os.Getenv("NEWS_ID_TOKEN"), "identity token for the endpoint backend")
	fs.StringVar(&opts.key, "key", os.Getenv("NEWS_ACCESS_KEY"), "access key for the script backend")
	fs.DurationVar(&opts.timeout, "timeout", editor.DefaultTimeout, "request timeout")
	fs.Usage = func() { a.usage(fs) }

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		a.usage(fs)
		return 2
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]

	var err error
	switch cmd {
	case "hashkey":
		err = a.hashKey(rest)
	case "list", "put", "delete":
		var backend editor.Backend
		backend, err = a.newBackend(ctx, opts)
		if err != nil {
			break
		}
		ed := editor.New(backend)
		switch cmd {
		case "list":
			err = a.list(ctx, ed)
		case "put":
			err = a.put(ctx, ed, rest)
		case "delete":
			err = a.remove(ctx, ed, rest)
		}
	default:
		fmt.Fprintf(a.stderr, "unknown command %q\n", cmd)
		a.usage(fs)
		return 2
	}

	switch {
	case errors.Is(err, errUsage):
		return 2
	case err != nil:
		fmt.Fprintln(a.stderr, "error:", editor.Message(err, err.Error()))
		return 1
	}
	return 0
}

func (a *app) newBackend(ctx context.Context, opts options) (editor.Backend, error) {
	if opts.url == "" {
		return nil, errors.New("-url or NEWSCTL_URL is required")
	}
	client := &http.Client{Timeout: opts.timeout}

	switch opts.backend {
	case backendEndpoint:
		return editor.NewEndpointBackend(opts.url, editor.StaticToken(opts.token), client), nil
	case backendScript:
		key := strings.TrimSpace(opts.key)
		if key == "" && a.readSecret != nil {
			var err error
			if key, err = a.readSecret("アクセスキー: "); err != nil {
				return nil, err
			}
			key = strings.TrimSpace(key)
		}
		if key == "" {
			return nil, errors.New("アクセスキーを入力してください。")
		}

		b := editor.NewScriptBackend(opts.url, key, client)
		ok, err := b.VerifyKey(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New("アクセスキーが一致しません。")
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown backend %q: want %s or %s", opts.backend, backendEndpoint, backendScript)
	}
}

func (a *app) usage(fs *flag.FlagSet) {
	fmt.Fprintf(a.stderr, "Usage: newsctl [options] <command> [args]\n\nCommands:\n")
	fmt.Fprintf(a.stderr, "  list                       list announcements, newest first\n")
	fmt.Fprintf(a.stderr, "  put [-edit id] [fields]    create an announcement, or update the one stored as id\n")
	fmt.Fprintf(a.stderr, "  delete [-y] id             delete an announcement\n")
	fmt.Fprintf(a.stderr, "  hashkey [-cost n]          print a bcrypt hash for SCRIPT_ACCESS_KEY_HASH\n")
	fmt.Fprintf(a.stderr, "\nOptions:\n")
	fs.PrintDefaults()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
