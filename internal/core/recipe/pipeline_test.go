package recipe

import (
	"context"
	"errors"
	"math"
	"testing"

	"grocery-planning/internal/core/ai/model"
	"grocery-planning/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// 以變數宣告，讓溫度運算與執行期的 float64 結果一致
var baseTemp = 0.3

type mockInvoker struct {
	mock.Mock
}

func (m *mockInvoker) Invoke(ctx context.Context, prompt string, opts model.Options) (string, error) {
	args := m.Called(prompt, opts)
	return args.String(0), args.Error(1)
}

func newTestPipeline() (*Pipeline, *mockInvoker) {
	inv := new(mockInvoker)
	return NewPipeline(inv, Settings{MaxTokens: 600, Temperature: baseTemp}), inv
}

var (
	primaryRetryOpts = model.Options{Temperature: math.Min(0.55, baseTemp+0.2)}
	strictOpts       = model.Options{MaxTokens: 620, Temperature: math.Min(0.5, baseTemp+0.15)}
	strictRetryOpts  = model.Options{MaxTokens: 620, Temperature: math.Min(0.6, baseTemp+0.25)}
	repairOpts       = model.Options{MaxTokens: 580, Temperature: math.Min(0.55, baseTemp+0.2)}
)

const goodJSON = `{"title":"  Garlic Rice  ","steps":["Rinse 200 g rice.","Warm 1 tbsp oil (1 min).","Fry 2 garlic cloves 1 min.","Add rice; toast 2 min.","Add 400 ml water; simmer 15 min.","Rest 5 min; fluff; serve."]}`

func TestGenerateReturnsPrimaryExampleVerbatim(t *testing.T) {
	p, inv := newTestPipeline()
	ingredients := []string{"pasta", "tomatoes", "garlic", "basil"}
	example := promptExamples[0].Output
	inv.On("Invoke", BuildPrimaryPrompt(ingredients), model.Options{}).Return(example, nil).Once()

	got, err := p.Generate(context.Background(), ingredients)

	require.NoError(t, err)
	assert.Equal(t, "Pasta al Pomodoro", got.Title)
	assert.Equal(t, []string{
		"Boil pasta in salted water 8–10 min; drain.",
		"Warm 2 tbsp olive oil (2 min).",
		"Sauté 2 minced garlic cloves 1–2 min.",
		"Add 300 g crushed tomatoes; simmer 6–8 min; season.",
		"Toss with pasta; add torn basil; 1 min; serve.",
		"Optional: finish with grated Parmesan.",
	}, got.Steps)
	inv.AssertExpectations(t)
	inv.AssertNumberOfCalls(t, "Invoke", 1)
}

func TestGenerateRetriesSamePromptOnRefusal(t *testing.T) {
	p, inv := newTestPipeline()
	ingredients := []string{"rice", "garlic"}
	prompt := BuildPrimaryPrompt(ingredients)
	inv.On("Invoke", prompt, model.Options{}).Return("I cannot help with that.", nil).Once()
	inv.On("Invoke", prompt, primaryRetryOpts).Return(goodJSON, nil).Once()

	got, err := p.Generate(context.Background(), ingredients)

	require.NoError(t, err)
	assert.Equal(t, "Garlic Rice", got.Title)
	inv.AssertExpectations(t)
	inv.AssertNumberOfCalls(t, "Invoke", 2)
}

func TestGenerateEscalatesToStrict(t *testing.T) {
	p, inv := newTestPipeline()
	ingredients := []string{"rice", "garlic"}
	inv.On("Invoke", BuildPrimaryPrompt(ingredients), model.Options{}).Return(`{"title":"Short","steps":["a","b"]}`, nil).Once()
	inv.On("Invoke", BuildStrictPrompt(ingredients), strictOpts).Return("```json\n"+goodJSON+"\n```", nil).Once()

	got, err := p.Generate(context.Background(), ingredients)

	require.NoError(t, err)
	assert.Equal(t, "Garlic Rice", got.Title)
	assert.Len(t, got.Steps, 6)
	inv.AssertExpectations(t)
}

func TestGenerateStrictRefusalRetry(t *testing.T) {
	p, inv := newTestPipeline()
	ingredients := []string{"rice"}
	inv.On("Invoke", BuildPrimaryPrompt(ingredients), model.Options{}).Return("Here you go: nothing useful", nil).Once()
	inv.On("Invoke", BuildStrictPrompt(ingredients), strictOpts).Return("As an AI I won't.", nil).Once()
	inv.On("Invoke", BuildStrictPrompt(ingredients), strictRetryOpts).Return(goodJSON, nil).Once()

	got, err := p.Generate(context.Background(), ingredients)

	require.NoError(t, err)
	assert.Equal(t, "Garlic Rice", got.Title)
	inv.AssertExpectations(t)
	inv.AssertNumberOfCalls(t, "Invoke", 3)
}

func TestGenerateRepairSeededWithStrictOutput(t *testing.T) {
	p, inv := newTestPipeline()
	ingredients := []string{"eggs"}
	strictRaw := `Sure: {"title":"Eggs","steps":["Step 1: crack eggs","Step 2: cook"]}`
	inv.On("Invoke", BuildPrimaryPrompt(ingredients), model.Options{}).Return("Scrambled eggs are nice.", nil).Once()
	inv.On("Invoke", BuildStrictPrompt(ingredients), strictOpts).Return(strictRaw, nil).Once()
	inv.On("Invoke", BuildRepairPrompt(strictRaw), repairOpts).Return(goodJSON, nil).Once()

	got, err := p.Generate(context.Background(), ingredients)

	require.NoError(t, err)
	assert.Equal(t, "Garlic Rice", got.Title)
	inv.AssertExpectations(t)
}

func TestGenerateRepairFallsBackToPrimaryOutput(t *testing.T) {
	p, inv := newTestPipeline()
	ingredients := []string{"eggs"}
	primaryRaw := "Scrambled eggs are nice."
	inv.On("Invoke", BuildPrimaryPrompt(ingredients), model.Options{}).Return(primaryRaw, nil).Once()
	inv.On("Invoke", BuildStrictPrompt(ingredients), strictOpts).Return("", nil).Once()
	inv.On("Invoke", BuildStrictPrompt(ingredients), strictRetryOpts).Return("", nil).Once()
	inv.On("Invoke", BuildRepairPrompt(primaryRaw), repairOpts).Return(goodJSON, nil).Once()

	got, err := p.Generate(context.Background(), ingredients)

	require.NoError(t, err)
	assert.Equal(t, "Garlic Rice", got.Title)
	inv.AssertExpectations(t)
}

func TestGenerateFallsBackWhenEveryStageFails(t *testing.T) {
	for _, ingredients := range [][]string{nil, {"tuna"}, {"pasta", "basil"}} {
		p, inv := newTestPipeline()
		inv.On("Invoke", mock.Anything, mock.Anything).Return("no recipe today", nil)

		got, err := p.Generate(context.Background(), ingredients)

		require.NoError(t, err)
		assert.Equal(t, FallbackRecipe(), got)
		assert.NotEmpty(t, got.Title)
		assert.NotEmpty(t, got.Steps)
		inv.AssertNumberOfCalls(t, "Invoke", 3)
	}
}

func TestGenerateAtMostFiveCalls(t *testing.T) {
	p, inv := newTestPipeline()
	inv.On("Invoke", mock.Anything, mock.Anything).Return("I refuse.", nil)

	got, err := p.Generate(context.Background(), []string{"corn"})

	require.NoError(t, err)
	assert.Equal(t, fallbackTitle, got.Title)
	inv.AssertNumberOfCalls(t, "Invoke", 5)
}

func TestGeneratePropagatesInvokeError(t *testing.T) {
	p, inv := newTestPipeline()
	boom := common.ErrModelInvocation.Wrap(errors.New("throttled"))
	inv.On("Invoke", mock.Anything, mock.Anything).Return("", boom).Once()

	_, err := p.Generate(context.Background(), []string{"corn"})

	assert.ErrorIs(t, err, common.ErrModelInvocation)
	inv.AssertNumberOfCalls(t, "Invoke", 1)
}

func TestGeneratePropagatesRetryError(t *testing.T) {
	p, inv := newTestPipeline()
	ingredients := []string{"corn"}
	boom := errors.New("deadline exceeded")
	inv.On("Invoke", BuildPrimaryPrompt(ingredients), model.Options{}).Return("", nil).Once()
	inv.On("Invoke", BuildPrimaryPrompt(ingredients), primaryRetryOpts).Return("", boom).Once()

	_, err := p.Generate(context.Background(), ingredients)

	assert.ErrorIs(t, err, boom)
	inv.AssertExpectations(t)
}

func TestAcceptCandidateTitle(t *testing.T) {
	six := `["a1","a2","a3","a4","a5","a6"]`
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"trimmed", `{"title":"  Soup ","steps":` + six + `}`, "Soup"},
		{"missing", `{"steps":` + six + `}`, defaultTitle},
		{"blank", `{"title":"   ","steps":` + six + `}`, defaultTitle},
		{"null", `{"title":null,"steps":` + six + `}`, defaultTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := acceptCandidate(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Title)
		})
	}
}

func TestFallbackRecipeIsACopy(t *testing.T) {
	r := FallbackRecipe()
	r.Steps[0] = "mutated"

	assert.Equal(t, "Heat 2 tbsp oil over medium heat (2 min).", FallbackRecipe().Steps[0])
	assert.Len(t, FallbackRecipe().Steps, 5)
}
