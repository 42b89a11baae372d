package middleware

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/dobryakk5/nsk/core/config"
	"github.com/dobryakk5/nsk/core/worker"
)

func textUpdate(id int, user int64, text string) tele.Update {
	return tele.Update{ID: id, Message: &tele.Message{
		Sender: &tele.User{ID: user, Username: "anna"},
		Chat:   &tele.Chat{ID: user},
		Text:   text,
	}}
}

func ctxFor(u tele.Update) tele.Context { return tele.NewContext(nil, u) }

func TestDedupeRemembersWithinTTL(t *testing.T) {
	now := time.Unix(0, 0)
	d := newDedupe(10 * time.Second)
	d.now = func() time.Time { return now }

	assert.True(t, d.first(1))
	assert.False(t, d.first(1))
	assert.True(t, d.first(2))

	now = now.Add(11 * time.Second)
	assert.True(t, d.first(1), "expired ids are forgotten")
}

func TestUpdateAttrs(t *testing.T) {
	attrs := updateAttrs(textUpdate(5, 7, "/start ref"))
	require.GreaterOrEqual(t, len(attrs), 3)
	assert.Equal(t, "kind", attrs[0].Key)
	assert.Equal(t, "command", attrs[0].Value.String())
	assert.Equal(t, "/start", attrs[2].Value.String())

	attrs = updateAttrs(tele.Update{ID: 9})
	assert.Equal(t, "ignored", attrs[0].Value.String())
}

func TestRequestLoggerStampsRID(t *testing.T) {
	c := ctxFor(textUpdate(3, 7, "hi"))
	called := false
	err := RequestLogger()(func(c tele.Context) error {
		called = true
		rid, _ := c.Get("rid").(string)
		assert.NotEmpty(t, rid)
		return nil
	})(c)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestRecoverMiddlewareSwallowsPanic(t *testing.T) {
	h := RecoverMiddleware(func(tele.Context) error { panic("boom") })
	assert.NotPanics(t, func() { assert.NoError(t, h(ctxFor(textUpdate(1, 1, "x")))) })

	boom := errors.New("boom")
	h = RecoverMiddleware(func(tele.Context) error { return boom })
	assert.ErrorIs(t, h(ctxFor(textUpdate(1, 1, "x"))), boom)
}

func TestRateLimitDropsBurstsPerUser(t *testing.T) {
	limited := 0
	mw := RateLimitMiddleware(RateLimitOptions{
		Interval:  time.Hour,
		OnLimited: func(tele.Context) error { limited++; return nil },
	})
	handled := 0
	h := mw(func(tele.Context) error { handled++; return nil })

	require.NoError(t, h(ctxFor(textUpdate(1, 1, "a"))))
	require.NoError(t, h(ctxFor(textUpdate(2, 1, "b"))))
	require.NoError(t, h(ctxFor(textUpdate(3, 2, "c"))))

	assert.Equal(t, 2, handled, "second update from user 1 is dropped")
	assert.Equal(t, 1, limited)
}

func TestRateLimitExcludesCallbacks(t *testing.T) {
	mw := RateLimitMiddleware(RateLimitOptions{
		Interval: time.Hour,
		Exclude:  map[string]struct{}{coreconfig.UpdateCallback: {}},
	})
	handled := 0
	h := mw(func(tele.Context) error { handled++; return nil })

	cb := tele.Update{ID: 1, Callback: &tele.Callback{Sender: &tele.User{ID: 1}, Data: "my_data"}}
	for i := 0; i < 3; i++ {
		require.NoError(t, h(ctxFor(cb)))
	}
	assert.Equal(t, 3, handled)
}

func TestSequentialKeepsPerUserOrder(t *testing.T) {
	lanes := worker.New(0)
	var (
		mu  sync.Mutex
		got []string
	)
	h := Sequential(lanes)(func(c tele.Context) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, c.Text())
		return nil
	})

	for i, text := range []string{"1", "2", "3", "4"} {
		require.NoError(t, h(ctxFor(textUpdate(i, 42, text))))
	}
	lanes.Close()
	assert.Equal(t, []string{"1", "2", "3", "4"}, got)
}

func TestSequentialDropsAfterClose(t *testing.T) {
	lanes := worker.New(1)
	lanes.Close()
	called := false
	h := Sequential(lanes)(func(tele.Context) error { called = true; return nil })

	assert.NoError(t, h(ctxFor(textUpdate(1, 1, "x"))))
	assert.False(t, called)
}

func TestSequentialRunsSenderlessInline(t *testing.T) {
	lanes := worker.New(1)
	defer lanes.Close()
	called := false
	h := Sequential(lanes)(func(tele.Context) error { called = true; return nil })

	require.NoError(t, h(ctxFor(tele.Update{ID: 1})))
	assert.True(t, called)
}
