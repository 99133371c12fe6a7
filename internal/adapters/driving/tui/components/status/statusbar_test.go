package status

import (
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driving/tui/keymap"
	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.MatchCount())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_Init(t *testing.T) {
	assert.Nil(t, NewBar(nil, nil).Init())
}

func TestStatusBar_SetState(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.NotNil(t, bar.SetState(StateThinking), "thinking starts the spinner")
	assert.Equal(t, StateThinking, bar.State())

	assert.Nil(t, bar.SetState(StateReady))
	assert.Equal(t, StateReady, bar.State())
}

func TestStatusBar_Update(t *testing.T) {
	t.Run("ignores keys", func(t *testing.T) {
		bar := NewBar(nil, nil)

		updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

		assert.Equal(t, bar, updated)
		assert.Nil(t, cmd)
	})

	t.Run("ignores ticks when idle", func(t *testing.T) {
		bar := NewBar(nil, nil)

		_, cmd := bar.Update(spinner.TickMsg{})

		assert.Nil(t, cmd)
	})
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(b *Bar)
		contains []string
	}{
		{"ready", func(_ *Bar) {}, []string{"Ready", "enter: ask"}},
		{"thinking", func(b *Bar) { b.SetState(StateThinking) }, []string{"Thinking..."}},
		{"error with message", func(b *Bar) {
			b.SetState(StateError)
			b.SetMessage("index unavailable")
		}, []string{"Error: index unavailable"}},
		{"error without message", func(b *Bar) { b.SetState(StateError) }, []string{"Error"}},
		{"help", func(b *Bar) { b.SetState(StateHelp) }, []string{"Help"}},
		{"match count", func(b *Bar) { b.SetMatchCount(6) }, []string{"6 context chunks"}},
		{"custom message", func(b *Bar) { b.SetMessage("rebuild started") }, []string{"rebuild started"}},
		{"matches hints", func(b *Bar) { b.SetState(StateMatches) }, []string{"esc: back"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(140)
			tt.setup(bar)

			view := bar.View()
			for _, want := range tt.contains {
				assert.Contains(t, view, want)
			}
		})
	}
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetMatchCount(3)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.MatchCount())
}
