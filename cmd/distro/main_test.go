package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/distro-wizard/internal/config"
)

const releaseYAML = `
artist:
  has_distributed: "no"
  name: Nova
release:
  type: single
  title: Sunrise
files:
  cover_art: cover.png
  audio: sunrise.mp3
metadata:
  genre: Afrobeats
  release_date: "2025-07-01"
  lyrics: first line
rights:
  copyright:
    year: 2025
    owner: Nova
  record_label: "no"
  songwriter: self
  songwriters: [Nova]
distribution:
  all_platforms: true
agreements:
  terms: true
  youtubeAck: true
  promoAck: true
  rightsAck: true
  nameAck: true
  distributionAck: true
`

type fakeServer struct {
	*httptest.Server
	posts      atomic.Int32
	postStatus int
	postBody   string
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{
		postStatus: http.StatusOK,
		postBody:   `{"message":"Distribution request created successfully"}`,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/check", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"authenticated":true,"user":{"id":"7","email":"nova@example.com","username":"nova"}}`))
	})
	mux.HandleFunc("/api/profile/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"artist_name":"Nova","wallet_balance":1500,"currency":"usd"}`))
	})
	mux.HandleFunc("/api/payment-details/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/api/distribution/requests/", func(w http.ResponseWriter, r *http.Request) {
		fs.posts.Add(1)
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(fs.postStatus)
		_, _ = w.Write([]byte(fs.postBody))
	})
	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

// writeFixture lays out a release manifest with its files and a settings
// file pointing at baseURL. It returns the settings and manifest paths.
func writeFixture(t *testing.T, baseURL string, files ...string) (string, string) {
	t.Helper()
	dir := t.TempDir()

	for _, name := range files {
		switch filepath.Ext(name) {
		case ".png":
			img := image.NewRGBA(image.Rect(0, 0, 8, 8))
			img.Set(1, 1, color.RGBA{R: 255, A: 255})
			var buf bytes.Buffer
			require.NoError(t, png.Encode(&buf, img))
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0644))
		default:
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("ID3\x04\x00\x00\x00\x00\x00\x00audio"), 0644))
		}
	}

	manifestPath := filepath.Join(dir, "release.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(releaseYAML), 0644))

	s := config.DefaultSettings()
	s.APIBaseURL = baseURL
	s.RetryAttempts = 1
	s.LogLevel = "error"
	settingsPath := filepath.Join(dir, "settings.json")
	require.NoError(t, s.Save(settingsPath))

	return settingsPath, manifestPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestValidate_Ready(t *testing.T) {
	settings, release := writeFixture(t, "http://127.0.0.1:1", "cover.png", "sunrise.mp3")

	out, err := execute(t, "validate", "-c", settings, release)
	require.NoError(t, err)
	assert.Contains(t, out, `"Sunrise" is ready to submit`)
}

func TestValidate_MissingFile(t *testing.T) {
	settings, release := writeFixture(t, "http://127.0.0.1:1", "sunrise.mp3")

	out, err := execute(t, "validate", "-c", settings, release)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 problem(s)")
	assert.Contains(t, out, "coverArt")
	assert.Contains(t, out, "File not found: cover.png")
	assert.Contains(t, out, "3. Files")
}

func TestSubmit_Success(t *testing.T) {
	srv := newFakeServer(t)
	settings, release := writeFixture(t, srv.URL, "cover.png", "sunrise.mp3")

	out, err := execute(t, "submit", "-c", settings, release)
	require.NoError(t, err)
	assert.Contains(t, out, `"Sunrise" submitted for distribution`)
	assert.Equal(t, int32(1), srv.posts.Load())
}

func TestSubmit_InsufficientFunds(t *testing.T) {
	srv := newFakeServer(t)
	srv.postStatus = http.StatusConflict
	srv.postBody = `{"message":"insufficient balance"}`
	settings, release := writeFixture(t, srv.URL, "cover.png", "sunrise.mp3")

	_, err := execute(t, "submit", "--skip-auth", "-c", settings, release)
	require.Error(t, err)
	assert.Equal(t, "Insufficient funds. Please top up your wallet and try again.", err.Error())
	assert.Equal(t, int32(1), srv.posts.Load())
}

func TestSubmit_ProblemsBlockRequest(t *testing.T) {
	srv := newFakeServer(t)
	settings, release := writeFixture(t, srv.URL, "cover.png")

	out, err := execute(t, "submit", "--skip-auth", "-c", settings, release)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing was submitted")
	assert.Contains(t, out, "audioFile")
	assert.Zero(t, srv.posts.Load())
}

func TestWhoami(t *testing.T) {
	srv := newFakeServer(t)
	settings, _ := writeFixture(t, srv.URL)

	out, err := execute(t, "whoami", "-c", settings)
	require.NoError(t, err)
	assert.Contains(t, out, "nova@example.com")
	assert.Contains(t, out, "USD 1,500")
	assert.Contains(t, out, "not set")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var saved map[string]any
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, "http://localhost:8000", saved["api_base_url"])

	_, err = execute(t, "config", "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "config", "init", "--force", path)
	require.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	settings, _ := writeFixture(t, "http://example.test")

	out, err := execute(t, "config", "show", "-c", settings)
	require.NoError(t, err)
	assert.Contains(t, out, "http://example.test")
	assert.Contains(t, out, "not set")
}

func TestMachine(t *testing.T) {
	out, err := execute(t, "machine")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
	assert.Contains(t, out, "distribution-submission")
}
