package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nhle/notifeed/internal/model"
)

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()

	cfg := model.DefaultAppConfig()
	cfg.GitHub.BaseURL = baseURL
	cfg.GitHub.PageLimit = 2
	cfg.Log.File = filepath.Join(dir, "notifeed.log")
	cfg.Store.Path = filepath.Join(dir, "journal.db")

	path := filepath.Join(dir, "config.yaml")
	if err := model.SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	return path
}

func thread(id, repo string) string {
	return fmt.Sprintf(`{"id":%q,"unread":true,"reason":"mention","updated_at":"2026-03-01T12:00:00Z",
		"subject":{"title":"subject %s","type":"Issue","url":"https://api.github.com/repos/%s/issues/%s"},
		"repository":{"full_name":%q,"html_url":"https://github.com/%s"}}`, id, id, repo, id, repo, repo)
}

func TestHelp(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"--help"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "--once") || !strings.Contains(out.String(), "GITHUB_TOKEN") {
		t.Errorf("unexpected help:\n%s", out.String())
	}
}

func TestUnexpectedArgument(t *testing.T) {
	if err := run([]string{"extra"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for positional argument")
	}
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	var out bytes.Buffer
	if err := run([]string{"--init-config", "--config", path}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	cfg, err := model.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.GitHub.PageLimit != model.DefaultPageLimit {
		t.Errorf("unexpected page limit %d", cfg.GitHub.PageLimit)
	}

	if err := run([]string{"--init-config", "--config", path}, &out); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestOncePrintsGroupedFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprintf(w, "[%s,%s]", thread("1", "org/a"), thread("2", "org/b"))
		default:
			fmt.Fprintf(w, "[%s]", thread("3", "org/a"))
		}
	}))
	defer srv.Close()

	t.Setenv("GITHUB_TOKEN", "test-token")
	cfgPath := writeConfig(t, srv.URL)

	var out bytes.Buffer
	if err := run([]string{"--config", cfgPath, "--once", "--pages", "3", "--filter", "all"}, &out); err != nil {
		t.Fatalf("run: %v\n%s", err, out.String())
	}

	got := out.String()
	if !strings.Contains(got, "All notifications (3 in 2 repositories, 2 page(s))") {
		t.Errorf("unexpected summary header:\n%s", got)
	}
	if strings.Index(got, "org/a") > strings.Index(got, "org/b") {
		t.Errorf("repositories out of order:\n%s", got)
	}

	out.Reset()
	if err := run([]string{"--config", cfgPath, "--journal", "5"}, &out); err != nil {
		t.Fatalf("run --journal: %v", err)
	}
	if lines := strings.Count(strings.TrimSpace(out.String()), "\n"); lines != 2 {
		t.Errorf("expected header plus 2 journal rows, got:\n%s", out.String())
	}
}

func TestOnceReportsAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Bad credentials"}`)
	}))
	defer srv.Close()

	t.Setenv("GITHUB_TOKEN", "wrong")
	cfgPath := writeConfig(t, srv.URL)

	var out bytes.Buffer
	err := run([]string{"--config", cfgPath, "--once"}, &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(out.String(), "authentication failed") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}
