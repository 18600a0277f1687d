package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/manifoldco/promptui"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orc-hfg/uploader/config"
	"github.com/orc-hfg/uploader/internal/bootstrap"
)

type fakePrompter struct {
	answers []string
	selects []string
	labels  []string
}

func (f *fakePrompter) PromptRequired(label string, _ bool) (string, error) {
	f.labels = append(f.labels, label)
	if len(f.answers) == 0 {
		return "", ErrInterrupted
	}
	answer := f.answers[0]
	f.answers = f.answers[1:]
	return answer, nil
}

func (f *fakePrompter) SelectFromList(label string, _ []string) (string, error) {
	f.labels = append(f.labels, label)
	if len(f.selects) == 0 {
		return "", ErrInterrupted
	}
	choice := f.selects[0]
	f.selects = f.selects[1:]
	return choice, nil
}

type cliFixture struct {
	deps   Deps
	appURL string
}

// startUploader serves the uploader with the authentication mock enabled.
func startUploader(t *testing.T, p Prompter) cliFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var handler http.Handler
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	t.Setenv("NODE_ENV", "test")
	t.Setenv("DEV", "true")
	t.Setenv("AUTH_SERVER_URL", srv.URL+"/uploader/")
	var cfg config.AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	require.NoError(t, cfg.Validate())

	var err error
	handler, err = bootstrap.BuildHTTPHandler(bootstrap.HandlerDeps{
		Config: &cfg,
		FS:     afero.NewMemMapFs(),
		Logger: logger,
	})
	require.NoError(t, err)

	return cliFixture{
		deps:   Deps{Config: cfg, Prompter: p, Logger: logger},
		appURL: srv.URL + "/uploader",
	}
}

func execute(t *testing.T, fx cliFixture, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(fx.deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--app-url", fx.appURL}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd(Deps{Prompter: &fakePrompter{}})
	assert.Equal(t, "uploader-cli", cmd.Use)

	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"sign-in", "visit", "session"})
}

func TestSignInCmd(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		answers  []string
		wantErr  bool
		contains []string
	}{
		{
			name:     "flags",
			args:     []string{"sign-in", "--login", "test", "--password", "123"},
			contains: []string{"Signed in as first_name last_name (test)", "200 /de/projekte Projekte – Uploader"},
		},
		{
			name:     "prompted password in english",
			args:     []string{"--locale", "en", "sign-in", "--login", "test"},
			answers:  []string{"123"},
			contains: []string{"200 /en/projects Projects – Uploader"},
		},
		{
			name:     "invalid credentials",
			args:     []string{"sign-in", "--login", "test", "--password", "wrong"},
			wantErr:  true,
			contains: []string{"Die Anmeldedaten sind ungültig."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := startUploader(t, &fakePrompter{answers: tt.answers})
			out, err := execute(t, fx, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestSignInCmd_PromptInterrupted(t *testing.T) {
	fx := startUploader(t, &fakePrompter{})
	_, err := execute(t, fx, "sign-in")
	require.ErrorIs(t, err, ErrInterrupted)
}

func TestVisitCmd(t *testing.T) {
	fx := startUploader(t, &fakePrompter{})

	out, err := execute(t, fx, "visit", "/de/projekte")
	require.NoError(t, err)
	assert.Contains(t, out, "200 /de/anmeldung Anmeldung – Uploader")

	out, err = execute(t, fx, "visit", "--login", "test", "--password", "123", "/en/project/3")
	require.NoError(t, err)
	assert.Contains(t, out, "200 /en/project/3 Project – Uploader")

	out, err = execute(t, fx, "visit", "/de/unbekannt")
	require.NoError(t, err)
	assert.Contains(t, out, "404 /de/unbekannt Fehler – Uploader")
}

func TestInvalidRootFlags(t *testing.T) {
	fx := startUploader(t, &fakePrompter{})

	_, err := execute(t, fx, "--guard-mode", "cookies", "visit", "/de/projekte")
	require.Error(t, err)

	_, err = execute(t, fx, "--locale", "fr", "visit", "/de/projekte")
	require.Error(t, err)
}

func TestSessionCmd(t *testing.T) {
	p := &fakePrompter{
		selects: []string{actionProjects, actionSignIn, actionWhoAmI, actionSignOut, actionWhoAmI, actionQuit},
		answers: []string{"test", "123"},
	}
	fx := startUploader(t, p)

	out, err := execute(t, fx, "session")
	require.NoError(t, err)

	assert.Contains(t, out, "200 /de/anmeldung Anmeldung – Uploader")
	assert.Contains(t, out, "first_name last_name (test, id test-123)")
	assert.Contains(t, out, "Signed out")
	assert.Contains(t, out, "error: ")
}

func TestRunSession_StopsOnInterrupt(t *testing.T) {
	err := runSession(context.Background(), io.Discard, &fakePrompter{}, nil)
	assert.NoError(t, err)
}

func TestHandlePromptError(t *testing.T) {
	assert.NoError(t, handlePromptError(nil))
	assert.ErrorIs(t, handlePromptError(promptui.ErrInterrupt), ErrInterrupted)

	cause := errors.New("terminal closed")
	err := handlePromptError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "prompt failed")
}
