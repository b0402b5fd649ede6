package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"homework_status_bot/internal/infra/config"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingSender) Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, what.(string))
	return &telebot.Message{}, nil
}

func (r *recordingSender) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sent...)
}

func TestSetupMissingCredentialMakesNoNetworkCalls(t *testing.T) {
	chdir(t, t.TempDir())
	for _, k := range []string{"PRACTICUM_TOKEN", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID"} {
		t.Setenv(k, "value")
	}
	t.Setenv("TELEGRAM_CHAT_ID", "")

	botCalls := 0
	newBot := func(token string, log *logrus.Logger) (telegram.Sender, error) {
		botCalls++
		return &recordingSender{}, nil
	}

	s, err := setup(config.Load, newBot)
	require.ErrorIs(t, err, config.ErrMissingCredential)
	assert.Nil(t, s)
	assert.Zero(t, botCalls)
}

func TestSetupWiresPollLoop(t *testing.T) {
	var requests int
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
		assert.Equal(t, "OAuth p-token", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"homeworks":[{"homework_name":"hw1","status":"reviewing"}]}`)
	}))
	defer srv.Close()

	load := func() (*config.AppConfig, error) {
		return &config.AppConfig{
			PracticumToken:    "p-token",
			TelegramToken:     "t-token",
			TelegramChatID:    42,
			PracticumEndpoint: srv.URL,
			PollSchedule:      "@every 1h",
			Lookback:          time.Hour,
			HTTPTimeout:       time.Second,
			LogLevel:          "error",
			Environment:       "development",
		}, nil
	}
	sender := &recordingSender{}
	var gotToken string
	newBot := func(token string, log *logrus.Logger) (telegram.Sender, error) {
		gotToken = token
		return sender, nil
	}

	s, err := setup(load, newBot)
	require.NoError(t, err)
	logger.Log.SetOutput(io.Discard)
	assert.Equal(t, "t-token", gotToken)

	mu.Lock()
	assert.Zero(t, requests, "no API request before the scheduler starts")
	mu.Unlock()

	s.Start(context.Background())
	require.Eventually(t, func() bool { return len(sender.messages()) == 1 }, 2*time.Second, 5*time.Millisecond)
	s.Stop()

	assert.Equal(t, `Изменился статус проверки работы "hw1".Работа взята на проверку ревьюером.`, sender.messages()[0])
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
