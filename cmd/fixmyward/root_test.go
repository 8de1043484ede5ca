package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fixmyward/ward-server/internal/services"
	"github.com/fixmyward/ward-server/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type offlineGenerator struct{}

func (offlineGenerator) GenerateText(context.Context, string) (string, error) {
	return "", errors.New("offline")
}

func newTestApp() *app {
	return &app{
		store:  storage.NewMemoryStore(),
		gen:    offlineGenerator{},
		logger: zap.NewNop().Sugar(),
		wards:  services.NewWardDirectory(services.DefaultWards),
	}
}

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_CitizenAndCouncillor(t *testing.T) {
	a := newTestApp()
	ward := "Ward 80: Indiranagar"

	out, err := run(t, a, "signup", "--username", "asha", "--full-name", "Asha K", "--password", "pw1", "--confirm-password", "pw1", "--ward", ward)
	require.NoError(t, err)
	assert.Contains(t, out, "asha created as CITIZEN")

	_, err = run(t, a, "login", "--username", "asha", "--password", "pw1", "--role", "councillor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registered as a CITIZEN")

	_, err = run(t, a, "whoami")
	assert.Error(t, err)

	_, err = run(t, a, "login", "--username", "asha", "--password", "pw1")
	require.NoError(t, err)

	raw, err := a.store.Get(context.Background(), storage.SessionKey)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")

	out, err = run(t, a, "report", "submit", "--title", "Pothole", "--note", "pothole on 5th cross")
	require.NoError(t, err)
	assert.Contains(t, out, "Formal Report for Ward 80: Indiranagar: pothole on 5th cross.")
	reportID := strings.Fields(out)[1]

	out, err = run(t, a, "report", "list")
	require.NoError(t, err)
	assert.Contains(t, out, reportID)
	assert.Contains(t, out, "PENDING")

	_, err = run(t, a, "report", "status", reportID, "STARTED")
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = run(t, a, "logout")
	require.NoError(t, err)

	_, err = run(t, a, "signup", "--username", "anand", "--full-name", "Anand Kumar", "--password", "x", "--confirm-password", "x", "--role", "COUNCILLOR", "--ward", ward)
	require.NoError(t, err)
	_, err = run(t, a, "login", "--username", "anand", "--password", "x", "--role", "COUNCILLOR")
	require.NoError(t, err)

	out, err = run(t, a, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Anand Kumar (anand) COUNCILLOR")

	_, err = run(t, a, "report", "status", reportID, "started")
	require.NoError(t, err)

	out, err = run(t, a, "report", "list", "--status", "STARTED")
	require.NoError(t, err)
	assert.Contains(t, out, reportID)

	out, err = run(t, a, "report", "list", "--status", "PENDING")
	require.NoError(t, err)
	assert.Contains(t, out, "No reports")

	out, err = run(t, a, "report", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "councillor Anand Kumar")
	assert.Contains(t, out, "pending=0 started=1 completed=0 rejected=0 citizens=1")
}

func TestCLI_SignupRejectsUnknownWard(t *testing.T) {
	_, err := run(t, newTestApp(), "signup", "--username", "x", "--full-name", "X", "--password", "p", "--confirm-password", "p", "--ward", "Atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown ward")
}

func TestCLI_Wards(t *testing.T) {
	out, err := run(t, newTestApp(), "wards")
	require.NoError(t, err)
	assert.Contains(t, out, "Ward 174: HSR Layout")
	assert.Contains(t, out, "Gurumurthy Reddy")
}

func TestImageDataURI(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n0000"), 0o644))

	uri, err := imageDataURI(png)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	txt := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o644))
	_, err = imageDataURI(txt)
	assert.Error(t, err)
}
