package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

func TestNewPromptStore_WithCustomDir(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPromptStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewPromptStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".loom", "prompts"), store.Dir())
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(domain.PromptShopAnalyst)
	require.NoError(t, err)

	for _, f := range []string{"shop_analyst.txt", "catalog_concierge.txt"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, "expected file %s to exist", f)
	}
}

func TestPromptStore_Load_ReturnsDefaultContent(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	prompt, err := store.Load(domain.PromptCatalogConcierge)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPrompts()[domain.PromptCatalogConcierge], prompt)
}

func TestPromptStore_Load_ReturnsCustomContent(t *testing.T) {
	dir := t.TempDir()
	custom := "Context: %[1]s\nQ: %[2]s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shop_analyst.txt"), []byte(custom+"\n\n"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(domain.PromptShopAnalyst)

	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_Load_RejectsMissingPlaceholders(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shop_analyst.txt"), []byte("Just answer: %s"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(domain.PromptShopAnalyst)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPrompts()[domain.PromptShopAnalyst], prompt)
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("query_rewrite")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPromptStore_Reload_ClearsCache(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(domain.PromptShopAnalyst)
	require.NoError(t, err)

	updated := "New: %[1]s / %[2]s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shop_analyst.txt"), []byte(updated), 0600))

	cached, err := store.Load(domain.PromptShopAnalyst)
	require.NoError(t, err)
	assert.NotEqual(t, updated, cached)

	store.Reload()

	fresh, err := store.Load(domain.PromptShopAnalyst)
	require.NoError(t, err)
	assert.Equal(t, updated, fresh)
}

func TestPromptStore_Load_ConcurrentAccess(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Load(domain.PromptCatalogConcierge)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestPromptStore_DoesNotOverwriteExistingFiles(t *testing.T) {
	dir := t.TempDir()
	custom := "Mine %[1]s %[2]s"
	path := filepath.Join(dir, "catalog_concierge.txt")
	require.NoError(t, os.WriteFile(path, []byte(custom), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	_, err = store.Load(domain.PromptShopAnalyst)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}
