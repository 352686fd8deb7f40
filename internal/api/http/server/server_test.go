package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/gophaccounts-server/internal/mocks"
)

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/status", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestHTTPServer_Address(t *testing.T) {
	s := NewHTTPServer(newApp(), ":8080")
	assert.Equal(t, ":8080", s.Address())
}

func TestHTTPServer_StartServesAndStops(t *testing.T) {
	srv := NewHTTPServer(newApp(), ":0")
	sec := mocks.NewSecurityLayer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	sec.On("Listen", "tcp", ":0").Return(ln, nil)

	done := make(chan error, 1)
	go func() { done <- srv.Start(sec) }()

	client := &http.Client{Timeout: time.Second}
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = client.Get("http://" + ln.Addr().String() + "/status")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	client.CloseIdleConnections()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestHTTPServer_StartListenError(t *testing.T) {
	srv := NewHTTPServer(newApp(), ":0")
	sec := mocks.NewSecurityLayer(t)

	listenErr := errors.New("address in use")
	sec.On("Listen", "tcp", ":0").Return(nil, listenErr)

	err := srv.Start(sec)
	require.ErrorIs(t, err, listenErr)
	assert.Contains(t, err.Error(), "failed to listen")
}
