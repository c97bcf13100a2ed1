package toast

import (
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/ui"
)

func messages(n *Notifier) []string {
	var out []string
	for _, t := range n.Toasts() {
		out = append(out, t.Message)
	}
	return out
}

func TestShowExpires(t *testing.T) {
	n := New(10 * time.Millisecond)
	cmd := n.Show("saved", Success)
	require.NotNil(t, cmd)
	require.Equal(t, 1, n.Len())

	msg := cmd()
	exp, ok := msg.(ExpiredMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, n.Toasts()[0].ID, exp.ID)

	assert.True(t, n.Update(exp))
	assert.Zero(t, n.Len())
}

func TestToastsCoexistInOrder(t *testing.T) {
	n := New(time.Second)
	n.Info("one")
	n.Error("two")
	n.Success("three")
	assert.Equal(t, []string{"one", "two", "three"}, messages(n))

	// expiring the middle one leaves the others in place
	n.Update(ExpiredMsg{ID: n.Toasts()[1].ID})
	assert.Equal(t, []string{"one", "three"}, messages(n))

	// unknown ids are ignored
	n.Update(ExpiredMsg{ID: 999})
	assert.Equal(t, 2, n.Len())
}

func TestDismiss(t *testing.T) {
	n := New(time.Second)
	n.Info("a")
	n.Info("b")
	n.Info("c")

	assert.True(t, n.DismissAt(0))
	assert.Equal(t, []string{"b", "c"}, messages(n))
	assert.False(t, n.DismissAt(5))

	assert.True(t, n.DismissLatest())
	assert.Equal(t, []string{"b"}, messages(n))
	assert.True(t, n.DismissLatest())
	assert.False(t, n.DismissLatest())
}

func TestUpdateIgnoresOtherMessages(t *testing.T) {
	n := New(time.Second)
	n.Info("x")
	assert.False(t, n.Update("tick"))
	assert.Equal(t, 1, n.Len())
}

func TestDefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, New(0).ttl)
}

func TestViewSanitizes(t *testing.T) {
	n := New(time.Second)
	assert.Empty(t, n.View(ui.NewTheme("mono")))

	n.Error("bad \x1b[31mthing\x1b[0m\nhappened")
	n.Success("ok")
	out := ansi.Strip(n.View(ui.NewTheme("mono")))
	assert.Equal(t, "✖ bad thing happened\n✔ ok", out)
}
