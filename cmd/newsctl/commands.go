package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/crypto/bcrypt"

	"github.com/akarihousing/news-backend/internal/auth"
	"github.com/akarihousing/news-backend/internal/editor"
	"github.com/akarihousing/news-backend/internal/news"
)

func (a *app) list(ctx context.Context, ed *editor.Editor) error {
	if err := ed.Refresh(ctx); err != nil {
		return err
	}

	items := ed.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.stdout, "お知らせは登録されていません。")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tID\tTITLE")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Date, item.ID, item.Title)
	}
	return tw.Flush()
}

func (a *app) put(ctx context.Context, ed *editor.Editor, args []string) error {
	fs := flag.NewFlagSet("put", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	edit := fs.String("edit", "", "id of the announcement to update")
	id := fs.String("id", "", "id for a new announcement; derived from date and title when empty")
	date := fs.String("date", "", "date, YYYY-MM-DD (default today for new announcements)")
	title := fs.String("title", "", "title")
	excerpt := fs.String("excerpt", "", "excerpt")
	content := fs.String("content", "", "content")
	contentFile := fs.String("content-file", "", "read content from file, - for stdin")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if err := ed.Refresh(ctx); err != nil {
		return err
	}
	if *edit != "" {
		if !ed.OpenEdit(*edit) {
			return fmt.Errorf("対象のお知らせが見つかりません: %s", *edit)
		}
	} else {
		ed.OpenNew()
	}

	values := ed.Form().Values
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["id"] {
		values.ID = *id
	}
	if set["date"] {
		values.Date = *date
	}
	if set["title"] {
		values.Title = *title
	}
	if set["excerpt"] {
		values.Excerpt = *excerpt
	}
	if set["content"] {
		values.Content = *content
	}
	if set["content-file"] {
		body, err := a.readContent(*contentFile)
		if err != nil {
			return err
		}
		values.Content = body
	}

	if err := ed.Submit(ctx, values); err != nil {
		a.printFieldErrors(ed)
		return err
	}

	fmt.Fprintln(a.stdout, ed.Status().Message)
	return nil
}

func (a *app) remove(ctx context.Context, ed *editor.Editor, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	yes := fs.Bool("y", false, "do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.stderr, "Usage: newsctl delete [-y] id")
		return errUsage
	}
	id := fs.Arg(0)

	if err := ed.Refresh(ctx); err != nil {
		return err
	}
	item, ok := ed.Find(id)
	if !ok {
		return fmt.Errorf("対象のお知らせが見つかりません: %s", id)
	}

	if !*yes && !a.confirm(fmt.Sprintf("「%s」を削除しますか？ [y/N]: ", item.Title)) {
		fmt.Fprintln(a.stdout, "中止しました。")
		return nil
	}

	if err := ed.Remove(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, ed.Status().Message)
	return nil
}

func (a *app) hashKey(args []string) error {
	fs := flag.NewFlagSet("hashkey", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	cost := fs.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var key string
	if a.readSecret != nil {
		var err error
		if key, err = a.readSecret("アクセスキー: "); err != nil {
			return err
		}
	} else {
		line, err := bufio.NewReader(a.stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		key = line
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("アクセスキーを入力してください。")
	}

	hash, err := auth.HashAccessKey(key, *cost)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, hash)
	return nil
}

func (a *app) readContent(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(a.stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read content file: %w", err)
	}
	return string(b), nil
}

func (a *app) confirm(prompt string) bool {
	fmt.Fprint(a.stderr, prompt)
	line, _ := bufio.NewReader(a.stdin).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (a *app) printFieldErrors(ed *editor.Editor) {
	for _, f := range news.Fields {
		if msg := ed.FieldError(f); msg != "" {
			fmt.Fprintf(a.stderr, "  %s: %s\n", f, msg)
		}
	}
}
