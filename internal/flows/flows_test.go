package flows

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/animus-coder/readmeart/internal/catalog"
	"github.com/animus-coder/readmeart/internal/config"
	"github.com/animus-coder/readmeart/internal/fallback"
	"github.com/animus-coder/readmeart/internal/imagegen"
	"github.com/animus-coder/readmeart/internal/llm"
	"github.com/animus-coder/readmeart/internal/llm/mock"
	"github.com/animus-coder/readmeart/internal/output"
)

var fixedNow = time.Date(2025, 8, 9, 10, 11, 12, 345_000_000, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Chat: config.ChatConfig{DefaultModel: "openai/gpt-4.1"},
		Fallback: config.FallbackConfig{
			PromptBudget:    5,
			ArtBudget:       3,
			ImageBudget:     10,
			ImageExhaustion: config.ExhaustionStrict,
			DefaultPrompt:   "a cat sitting on a computer keyboard",
			Placeholder:     "generated-image.png",
		},
		Output: config.OutputConfig{
			Root:       ".",
			Readme:     "README.md",
			ImagesDir:  "images",
			OutputsDir: "outputs",
			ModelsFile: "models/github-models.json",
			ImageName:  "generated-image.png",
		},
	}
}

type harness struct {
	dir    string
	out    *bytes.Buffer
	runner *Runner
}

func newHarness(t *testing.T, d Deps) *harness {
	t.Helper()

	dir := t.TempDir()
	sink, err := output.NewSink(dir, nil)
	require.NoError(t, err)

	if d.Config == nil {
		d.Config = testConfig()
	}
	out := &bytes.Buffer{}
	d.Sink = sink
	d.Out = out
	d.Rand = rand.New(rand.NewSource(42))
	d.Now = func() time.Time { return fixedNow }

	r, err := New(d)
	require.NoError(t, err)
	return &harness{dir: dir, out: out, runner: r}
}

func (h *harness) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(h.dir, rel))
	require.NoError(t, err)
	return string(data)
}

type fakeCatalog struct {
	entries []catalog.Entry
	err     error
}

func (f *fakeCatalog) Fetch(context.Context) ([]catalog.Entry, error) {
	return f.entries, f.err
}

func textEntry(id, name, tier string) catalog.Entry {
	return catalog.Entry{
		ID:                        id,
		Name:                      name,
		HTMLURL:                   "https://github.com/marketplace/models/" + id,
		RateLimitTier:             tier,
		Limits:                    &catalog.Limits{MaxInputTokens: 131072},
		SupportedOutputModalities: []string{"text"},
	}
}

func twoModelCatalog() *fakeCatalog {
	return &fakeCatalog{entries: []catalog.Entry{
		textEntry("lab/broken", "broken", "low"),
		textEntry("lab/works", "works", "high"),
		{ID: "lab/embed", Name: "embed", SupportedOutputModalities: []string{"embeddings"}},
	}}
}

func isArtRequest(req llm.ChatRequest) bool {
	return strings.Contains(req.Messages[0].Content, "Create ASCII art of:")
}

func TestASCIIWithoutTokenUsesMockArt(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Deps{})
	require.NoError(t, h.runner.ASCII(context.Background()))

	content := h.read(t, "README.md")
	require.True(t, strings.HasPrefix(content, "# ASCII Art Generator Output\n"))
	require.Contains(t, content, "**Model**: Fallback: Default Prompt (Fallback: Default Prompt)")
	require.Contains(t, content, "**Model**: Mock ASCII Art Generator (mock/ascii-art)")

	var prompt string
	for _, p := range ASCIIPrompts.Canned {
		if strings.Contains(content, "**Prompt**: "+p+"\n") {
			prompt = p
		}
	}
	require.NotEmpty(t, prompt)
	require.Contains(t, h.out.String(), "Generated ASCII Art:")
}

func TestASCIIFallsThroughFailingModels(t *testing.T) {
	t.Parallel()

	chat := &mock.Provider{ChatFn: func(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
		if !isArtRequest(req) {
			return mock.Reply("  a robot making coffee \n"), nil
		}
		if req.Model == "lab/broken" {
			return llm.ChatResponse{}, context.DeadlineExceeded
		}
		return mock.Reply("  [o_o\n ( ) "), nil
	}}

	h := newHarness(t, Deps{Catalog: twoModelCatalog(), Chat: chat})
	require.NoError(t, h.runner.ASCII(context.Background()))

	content := h.read(t, "README.md")
	require.Contains(t, content, "**Prompt**: a robot making coffee\n")
	require.Contains(t, content, "[o_o\n ( )]\n")
	require.Contains(t, content, "## Generation Model\n\n**Model**: works (lab/works)\n")
	require.Contains(t, h.out.String(), "131,072 tokens")

	var artCalls int
	for _, req := range chat.Requests() {
		require.NotEqual(t, "lab/embed", req.Model)
		if isArtRequest(req) {
			artCalls++
			require.Contains(t, req.Messages[0].Content, "Create ASCII art of: a robot making coffee")
		}
	}
	require.LessOrEqual(t, artCalls, 2)
}

func TestASCIIExhaustionFailsWithoutREADME(t *testing.T) {
	t.Parallel()

	chat := &mock.Provider{ChatFn: func(context.Context, llm.ChatRequest) (llm.ChatResponse, error) {
		return llm.ChatResponse{}, &llm.StatusError{Provider: "github", Code: http.StatusForbidden}
	}}

	h := newHarness(t, Deps{Catalog: twoModelCatalog(), Chat: chat})
	err := h.runner.ASCII(context.Background())
	require.ErrorIs(t, err, fallback.ErrExhausted)
	require.NoFileExists(t, filepath.Join(h.dir, "README.md"))

	// two prompt attempts then two art attempts
	require.Len(t, chat.Requests(), 4)
	for _, req := range chat.Requests()[2:] {
		require.Contains(t, req.Messages[0].Content, "Create ASCII art of: a cat sitting on a computer keyboard")
	}
}

func TestASCIIWithoutTextModelsFails(t *testing.T) {
	t.Parallel()

	chat := &mock.Provider{}
	h := newHarness(t, Deps{
		Catalog: &fakeCatalog{entries: []catalog.Entry{
			{ID: "lab/embed", Name: "embed", SupportedOutputModalities: []string{"embeddings"}},
		}},
		Chat: chat,
	})
	err := h.runner.ASCII(context.Background())
	require.ErrorIs(t, err, catalog.ErrNoModels)
	require.Empty(t, chat.Requests())
	require.NoFileExists(t, filepath.Join(h.dir, "README.md"))
}

func TestASCIICatalogFailureIsFatal(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Deps{
		Catalog: &fakeCatalog{err: &catalog.StatusError{Code: http.StatusUnauthorized}},
		Chat:    &mock.Provider{},
	})
	err := h.runner.ASCII(context.Background())
	var statusErr *catalog.StatusError
	require.True(t, errors.As(err, &statusErr))
}

func TestGeneratePromptRecordsModel(t *testing.T) {
	t.Parallel()

	chat := &mock.Provider{ChatFn: func(context.Context, llm.ChatRequest) (llm.ChatResponse, error) {
		return mock.Reply("a lighthouse in fog"), nil
	}}
	cat := &fakeCatalog{entries: []catalog.Entry{textEntry("openai/gpt-4.1", "OpenAI GPT-4.1", "high")}}
	h := newHarness(t, Deps{Catalog: cat, Chat: chat})

	pool := catalog.ToModels(cat.entries)
	pr, err := h.runner.GeneratePrompt(context.Background(), ImagePrompts, pool)
	require.NoError(t, err)
	require.Equal(t, "a lighthouse in fog", pr.Prompt)
	require.Equal(t, "gpt-4.1", pr.Model.Name)
	require.Equal(t, "https://github.com/marketplace/models/openai/gpt-4.1", pr.Model.HTMLURL)
	require.Equal(t, ImagePrompts.Request, chat.Requests()[0].Messages[0].Content)
}

func TestGeneratePromptEmptyReplyFallsBack(t *testing.T) {
	t.Parallel()

	chat := &mock.Provider{ChatFn: func(context.Context, llm.ChatRequest) (llm.ChatResponse, error) {
		return mock.Reply(" \n "), nil
	}}
	h := newHarness(t, Deps{Catalog: twoModelCatalog(), Chat: chat})

	pr, err := h.runner.GeneratePrompt(context.Background(), ASCIIPrompts, []catalog.Model{{ID: "lab/works"}})
	require.NoError(t, err)
	require.Equal(t, "a cat sitting on a computer keyboard", pr.Prompt)
	require.Equal(t, FallbackModelID, pr.Model.ID)
	require.Len(t, chat.Requests(), 1)
}

func TestImageWithoutCredentialsUsesPlaceholder(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Deps{})
	require.NoError(t, h.runner.Image(context.Background()))

	content := h.read(t, "README.md")
	require.Contains(t, content, "](#)\n")
	require.Contains(t, content, "![Generated Image](./images/generated-image.png)")
	require.NoFileExists(t, filepath.Join(h.dir, "images", "generated-image.png"))
}

func TestImageSavesGeneratedBytes(t *testing.T) {
	t.Parallel()

	chat := &mock.Provider{ChatFn: func(context.Context, llm.ChatRequest) (llm.ChatResponse, error) {
		return mock.Reply("a vintage lamp"), nil
	}}
	primary := &fakeGenerator{name: "together", err: errors.New("free tier exhausted")}
	secondary := &fakeGenerator{name: "qwen", img: imagegen.Image{Data: []byte("PNG"), Provider: "qwen"}}

	h := newHarness(t, Deps{
		Catalog: twoModelCatalog(),
		Chat:    chat,
		Images:  &imagegen.Tiered{Primary: primary, Secondary: secondary},
	})
	require.NoError(t, h.runner.Image(context.Background()))

	require.Equal(t, "PNG", h.read(t, "images/generated-image.png"))
	content := h.read(t, "README.md")
	require.Contains(t, content, "**Prompt**: a vintage lamp\n")
	require.Contains(t, content, "(https://github.com/marketplace/models/lab/")
	require.Equal(t, 1, primary.calls)
	require.Equal(t, 1, secondary.calls)
	require.Equal(t, []string{"a vintage lamp"}, secondary.prompts)
}

func TestImageWithoutCatalogStillUsesGenerator(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{name: "qwen", img: imagegen.Image{Data: []byte("IMG")}}
	h := newHarness(t, Deps{Images: gen})
	require.NoError(t, h.runner.Image(context.Background()))

	require.Equal(t, "IMG", h.read(t, "images/generated-image.png"))
	require.Equal(t, 1, gen.calls)
	require.Contains(t, ImagePrompts.Canned, gen.prompts[0])
}

func TestImageExhaustion(t *testing.T) {
	t.Parallel()

	broken := &fakeGenerator{name: "together", err: errors.New("down")}

	h := newHarness(t, Deps{Images: broken})
	err := h.runner.Image(context.Background())
	require.ErrorIs(t, err, fallback.ErrExhausted)
	require.NoFileExists(t, filepath.Join(h.dir, "README.md"))

	cfg := testConfig()
	cfg.Fallback.ImageExhaustion = config.ExhaustionPlaceholder
	h = newHarness(t, Deps{Config: cfg, Images: broken})
	require.NoError(t, h.runner.Image(context.Background()))
	require.Contains(t, h.read(t, "README.md"), "./images/generated-image.png")
	require.NoFileExists(t, filepath.Join(h.dir, "images", "generated-image.png"))
}

func TestModelsListsAndSavesFreeModels(t *testing.T) {
	t.Parallel()

	cat := &fakeCatalog{entries: []catalog.Entry{
		textEntry("z/zeta", "Zeta", "high"),
		textEntry("a/alpha", "alpha", "high"),
		textEntry("l/low", "Low", "low"),
	}}
	h := newHarness(t, Deps{Catalog: cat})
	require.NoError(t, h.runner.Models(context.Background(), ""))

	out := h.out.String()
	require.Contains(t, out, "Total models available: 3")
	require.Contains(t, out, "Free models found: 2")
	require.Less(t, strings.Index(out, "(a/alpha)"), strings.Index(out, "(z/zeta)"))
	require.Contains(t, out, "Max Input Tokens: 131,072")

	saved := h.read(t, "models/github-models.json")
	require.Contains(t, saved, `"id": "a/alpha"`)
	require.NotContains(t, saved, "l/low")

	require.NoError(t, h.runner.Models(context.Background(), "yaml"))
	require.Contains(t, h.read(t, "models/github-models.yaml"), "id: a/alpha")

	require.Error(t, h.runner.Models(context.Background(), "xml"))
}

func TestCommandsRequireToken(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Deps{})
	require.ErrorIs(t, h.runner.Models(context.Background(), "json"), catalog.ErrMissingToken)
	require.ErrorIs(t, h.runner.Chat(context.Background(), "", ChatOptions{}), catalog.ErrMissingToken)
}

func TestChatPrintsAndSaves(t *testing.T) {
	t.Parallel()

	chat := &mock.Provider{ChatFn: func(_ context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
		return mock.Reply("Paris"), nil
	}}
	h := newHarness(t, Deps{Chat: chat})

	require.NoError(t, h.runner.Chat(context.Background(), "", ChatOptions{Save: true}))
	require.Contains(t, h.out.String(), "Original prompt: What is the capital of France?")
	require.Contains(t, h.out.String(), "Paris")
	require.Equal(t, "openai/gpt-4.1", chat.Requests()[0].Model)
	require.Equal(t, "Paris", h.read(t, "outputs/ascii-art-2025-08-09T10-11-12-345Z.txt"))

	require.NoError(t, h.runner.Chat(context.Background(), "hi", ChatOptions{Model: "meta/llama"}))
	require.Equal(t, "meta/llama", chat.Requests()[1].Model)
}

func TestChatWrapsProviderError(t *testing.T) {
	t.Parallel()

	chat := &mock.Provider{ChatFn: func(context.Context, llm.ChatRequest) (llm.ChatResponse, error) {
		return llm.ChatResponse{}, llm.ErrEmptyContent
	}}
	h := newHarness(t, Deps{Chat: chat})
	require.ErrorIs(t, h.runner.Chat(context.Background(), "x", ChatOptions{}), llm.ErrEmptyContent)
}

func TestQwenDownloadsURLResult(t *testing.T) {
	t.Parallel()

	reg := imagegen.NewRegistry()
	reg.Register("qwen", &fakeGenerator{name: "qwen", img: imagegen.Image{URL: "https://fal.media/x.png"}})
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("PIXELS"))}, nil
	})}

	h := newHarness(t, Deps{Registry: reg, HTTP: hc})
	require.NoError(t, h.runner.Qwen(context.Background(), "qwen", ""))
	require.Equal(t, "PIXELS", h.read(t, "outputs/qwen-image-2025-08-09T10-11-12-345Z.png"))
	require.Contains(t, h.out.String(), DefaultQwenPrompt)

	require.Error(t, h.runner.Qwen(context.Background(), "missing", "x"))
}

func TestImagenReplacesImagesDir(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{name: "imagen", img: imagegen.Image{Data: []byte("JPEG")}}
	reg := imagegen.NewRegistry()
	reg.Register("imagen", gen)

	h := newHarness(t, Deps{Registry: reg})
	require.NoError(t, os.MkdirAll(filepath.Join(h.dir, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "images", "old.jpeg"), []byte("old"), 0o644))

	require.NoError(t, h.runner.Imagen(context.Background(), "imagen", ""))
	require.Equal(t, []string{DefaultImagenPrompt}, gen.prompts)

	entries, err := os.ReadDir(filepath.Join(h.dir, "images"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	name := entries[0].Name()
	require.True(t, strings.HasPrefix(name, "generated-1754734272345-"), name)
	require.True(t, strings.HasSuffix(name, ".jpeg"))
	require.Equal(t, "JPEG", h.read(t, filepath.Join("images", name)))
}

type fakeGenerator struct {
	name    string
	img     imagegen.Image
	err     error
	calls   int
	prompts []string
}

func (f *fakeGenerator) Name() string { return f.name }

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (imagegen.Image, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.img, f.err
}

type roundTripFunc func(r *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
