package handlers

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateOnePerKey(t *testing.T) {
	var g gate

	release, ok := g.enter("s1")
	require.True(t, ok)

	_, ok = g.enter("s1")
	assert.False(t, ok, "second request for same visitor is refused")

	other, ok := g.enter("s2")
	require.True(t, ok, "other visitors are not blocked")
	other()

	release()
	again, ok := g.enter("s1")
	require.True(t, ok, "released key can enter again")
	again()
}

func TestGateEmptyKeyNeverBlocks(t *testing.T) {
	var g gate
	first, ok := g.enter("")
	require.True(t, ok)
	second, ok := g.enter("")
	require.True(t, ok)
	first()
	second()
}

func TestOverlappingSignInsOnOneSession(t *testing.T) {
	var calls atomic.Int32
	entered := make(chan struct{}, 1)
	unblock := make(chan struct{})
	var once sync.Once
	finish := func() { once.Do(func() { close(unblock) }) }
	defer finish()

	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		entered <- struct{}{}
		<-unblock
		_, _ = w.Write([]byte(`{"redirect":"/dashboard"}`))
	}))
	sess := startWizard(t, app)

	firstStatus := make(chan int, 1)
	go func() {
		resp, err := app.Test(formRequest("/signin?lang=en", signInForm(), sess), -1)
		if err != nil {
			firstStatus <- 0
			return
		}
		_ = resp.Body.Close()
		firstStatus <- resp.StatusCode
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first sign-in never reached the auth service")
	}

	resp, body := do(t, app, formRequest("/signin?lang=en", signInForm(), sess))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, "Please wait")
	assert.Contains(t, body, "Your previous request is still being processed.")
	assert.Contains(t, body, `value="taro@example.com"`)

	finish()
	select {
	case status := <-firstStatus:
		assert.Equal(t, fiber.StatusOK, status)
	case <-time.After(5 * time.Second):
		t.Fatal("first sign-in never finished")
	}
	assert.Equal(t, int32(1), calls.Load())

	// the session is free again
	resp, _ = do(t, app, formRequest("/signin?lang=en", signInForm(), sess))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSignUpSubmitWhileBusy(t *testing.T) {
	backend := &accountBackend{}
	app, g := newGatedApp(t, backend)
	sess := startWizard(t, app)

	release, ok := g.enter(sess.Value)
	require.True(t, ok)
	defer release()

	resp, body := do(t, app, formRequest("/signup/credentials?lang=en", credentialsForm(), sess))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, "Please wait")
	assert.Contains(t, body, `value="taro@example.com"`)
	checks, _ := backend.counts()
	assert.Equal(t, 0, checks)
}

func TestSignUpToggleWhileBusyLeavesWizardAlone(t *testing.T) {
	backend := &accountBackend{}
	app, g := newGatedApp(t, backend)
	sess := startWizard(t, app)

	form := credentialsForm()
	form.Set("action", "toggle_password")

	release, ok := g.enter(sess.Value)
	require.True(t, ok)
	resp, body := do(t, app, formRequest("/signup/credentials?lang=en", form, sess))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="taro@example.com"`, "the screen still echoes the input")
	release()

	_, body = do(t, app, getRequest("/signup?lang=en", sess))
	assert.NotContains(t, body, `value="taro@example.com"`, "busy toggle did not write the wizard")

	do(t, app, formRequest("/signup/credentials?lang=en", form, sess))
	_, body = do(t, app, getRequest("/signup?lang=en", sess))
	assert.Contains(t, body, `value="taro@example.com"`, "idle toggle keeps the input")
}
