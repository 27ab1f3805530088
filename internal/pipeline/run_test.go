package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanm/newslinker/internal/kv"
	"github.com/evanm/newslinker/internal/types"
)

func articleDoc(subject, ogURL string) types.Document {
	return types.Document{
		Subject:       subject,
		SenderAddress: "The Letter <hello@news.example>",
		HTMLBody: `<meta property="og:url" content="` + ogURL + `">` +
			`<a href="https://list.example/unsubscribe">Unsubscribe</a>`,
	}
}

func TestRunResolvesAndRecords(t *testing.T) {
	backend := kv.NewMemoryStore()

	verdicts, err := Run(context.Background(), RunOptions{
		Documents: []types.Document{
			articleDoc("Story one", "https://www.news.example/story-1/?utm_source=nl"),
			articleDoc("Story two", "https://news.example/story-2"),
		},
		Store:         backend,
		RetentionDays: 180,
	})
	require.NoError(t, err)
	require.Len(t, verdicts, 2)

	assert.True(t, verdicts[0].Resolved)
	assert.Equal(t, "https://news.example/story-1", verdicts[0].ResolvedURL)
	assert.False(t, verdicts[0].Duplicate)
	assert.True(t, verdicts[0].Recorded)

	assert.Equal(t, "https://news.example/story-2", verdicts[1].ResolvedURL)
	assert.True(t, verdicts[1].Recorded)

	// The state was persisted to the backend.
	raw, ok, err := backend.Get(context.Background(), "seen_urls")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, "https://news.example/story-1")
}

func TestRunDetectsDuplicates(t *testing.T) {
	backend := kv.NewMemoryStore()
	ctx := context.Background()

	first, err := Run(ctx, RunOptions{
		Documents: []types.Document{articleDoc("Story", "https://news.example/story-1")},
		Store:     backend,
	})
	require.NoError(t, err)
	require.True(t, first[0].Recorded)

	// A cosmetic variant of the same article arrives in the next run.
	second, err := Run(ctx, RunOptions{
		Documents: []types.Document{articleDoc("Story again", "https://www.news.example/story-1/")},
		Store:     backend,
	})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.True(t, second[0].Resolved)
	assert.True(t, second[0].Duplicate)
	assert.False(t, second[0].Recorded)
}

func TestRunDuplicateWithinBatch(t *testing.T) {
	verdicts, err := Run(context.Background(), RunOptions{
		Documents: []types.Document{
			articleDoc("First send", "https://news.example/story-1"),
			articleDoc("Resend", "https://news.example/story-1?utm_source=resend"),
		},
		Store: kv.NewMemoryStore(),
	})
	require.NoError(t, err)
	require.Len(t, verdicts, 2)
	assert.True(t, verdicts[0].Recorded)
	assert.True(t, verdicts[1].Duplicate, "the second copy in the same batch is a duplicate")
}

func TestRunUnresolvedDocument(t *testing.T) {
	verdicts, err := Run(context.Background(), RunOptions{
		Documents: []types.Document{
			{Subject: "Nothing here", HTMLBody: `<a href="https://list.example/unsubscribe">Unsubscribe</a>`},
		},
		Store: kv.NewMemoryStore(),
	})
	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	assert.False(t, verdicts[0].Resolved)
	assert.False(t, verdicts[0].Recorded)
}

func TestRunDerivesPlainTextBody(t *testing.T) {
	// No header, canonical, meta or anchor; the only link lives in prose, and
	// the plain body must be derived from HTML before the scan finds it.
	doc := types.Document{
		Subject:  "Prose only",
		HTMLBody: `<html><body><p>Read it at https://news.example/story-1</p></body></html>`,
	}

	verdicts, err := Run(context.Background(), RunOptions{
		Documents: []types.Document{doc},
		Store:     kv.NewMemoryStore(),
	})
	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	assert.True(t, verdicts[0].Resolved)
	assert.Equal(t, "https://news.example/story-1", verdicts[0].ResolvedURL)
}

func TestRunMaxDocuments(t *testing.T) {
	verdicts, err := Run(context.Background(), RunOptions{
		Documents: []types.Document{
			articleDoc("One", "https://news.example/1"),
			articleDoc("Two", "https://news.example/2"),
			articleDoc("Three", "https://news.example/3"),
		},
		Store:        kv.NewMemoryStore(),
		MaxDocuments: 2,
	})
	require.NoError(t, err)
	assert.Len(t, verdicts, 2)
}

func TestRunReadsDocumentsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "documents.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"subject": "Story", "sender_address": "hello@news.example",
		 "html_body": "<meta property=\"og:url\" content=\"https://news.example/story-1\">"}
	]`), 0o644))

	verdicts, err := Run(context.Background(), RunOptions{
		DocumentsPath: path,
		Store:         kv.NewMemoryStore(),
	})
	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	assert.Equal(t, "https://news.example/story-1", verdicts[0].ResolvedURL)
}

func TestRunNoDocuments(t *testing.T) {
	_, err := Run(context.Background(), RunOptions{Store: kv.NewMemoryStore()})
	assert.Error(t, err)
}

func TestRunEmitsProgress(t *testing.T) {
	var events []ProgressEvent
	_, err := Run(context.Background(), RunOptions{
		Documents: []types.Document{articleDoc("Story", "https://news.example/story-1")},
		Store:     kv.NewMemoryStore(),
		OnProgress: func(event ProgressEvent) {
			events = append(events, event)
		},
	})
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "resolve", events[0].Step)
	assert.Equal(t, "done", events[1].Step)
	assert.NotEmpty(t, events[0].RunID)
	assert.Equal(t, events[0].RunID, events[1].RunID)
}

func TestRunFileStoreFallback(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")

	_, err := Run(context.Background(), RunOptions{
		Documents: []types.Document{articleDoc("Story", "https://news.example/story-1")},
		StatePath: statePath,
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(statePath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "https://news.example/story-1")
}
