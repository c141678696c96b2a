// Package advisor turns quiz answers and product inputs into Gemini prompts
// and turns the model's JSON replies back into typed results.
package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/me0hharryy/dermaGo/internal/quiz"
	"github.com/me0hharryy/dermaGo/internal/routines"
	"github.com/me0hharryy/dermaGo/internal/scans"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
	"github.com/me0hharryy/dermaGo/pkg/gemini"
	"github.com/me0hharryy/dermaGo/pkg/logger"
	"github.com/me0hharryy/dermaGo/pkg/metrics"
)

// Screens a failed generation sends the user back to.
const (
	ResetToQuiz    = "/quiz"
	ResetToScanner = "/scanner"
)

const (
	routineFailedMsg = "Failed to generate your routine. Please try again."
	labelFailedMsg   = "Failed to analyze product. Please ensure the image is clear and try again."
	barcodeFailedMsg = "Failed to analyze product. Please try again."
)

// JSONGenerator is the model call the advisor depends on.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, images ...gemini.Image) (string, error)
}

// Params groups advisor dependencies.
type Params struct {
	Generator JSONGenerator
	Metrics   *metrics.GenerationMetrics
	Logger    *logger.Logger
}

// Advisor implements routine generation and product analysis.
type Advisor struct {
	gen     JSONGenerator
	metrics *metrics.GenerationMetrics
	logg    *logger.Logger
	routine *decoder
	product *decoder
	now     func() time.Time
}

// New builds an Advisor and compiles its response schemas.
func New(params Params) (*Advisor, error) {
	if params.Generator == nil {
		return nil, fmt.Errorf("advisor generator is required")
	}
	routineDec, err := loadDecoder("routine")
	if err != nil {
		return nil, err
	}
	productDec, err := loadDecoder("product")
	if err != nil {
		return nil, err
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Advisor{
		gen:     params.Generator,
		metrics: params.Metrics,
		logg:    logg,
		routine: routineDec,
		product: productDec,
		now:     time.Now,
	}, nil
}

// GenerationFailed is the recoverable error returned for any model failure.
func GenerationFailed(cause error, message, resetTo string) *pkgerrors.Error {
	return pkgerrors.Wrap(pkgerrors.CodeGenerationFailed, cause, message).
		WithDetails(map[string]string{"action": "try_again", "reset_to": resetTo})
}

// Routine asks the model for an AM/PM routine.
func (a *Advisor) Routine(ctx context.Context, answers quiz.Answers) (routines.Result, error) {
	var out routines.Result
	err := a.generate(ctx, call{
		kind:    metrics.KindRoutine,
		prompt:  RoutinePrompt(answers),
		dec:     a.routine,
		message: routineFailedMsg,
		resetTo: ResetToQuiz,
	}, &out)
	if err != nil {
		return routines.Result{}, err
	}
	if out.Tip != nil && strings.TrimSpace(*out.Tip) == "" {
		out.Tip = nil
	}
	return out, nil
}

// Label analyzes a product from a photo of its ingredient label.
func (a *Advisor) Label(ctx context.Context, productName string, image gemini.Image) (scans.Analysis, error) {
	var out scans.Analysis
	err := a.generate(ctx, call{
		kind:    metrics.KindLabelScan,
		prompt:  LabelPrompt(productName),
		images:  []gemini.Image{image},
		dec:     a.product,
		message: labelFailedMsg,
		resetTo: ResetToScanner,
	}, &out)
	if err != nil {
		return scans.Analysis{}, err
	}
	if strings.TrimSpace(out.ProductName) == "" {
		out.ProductName = productName
	}
	return normalizeAnalysis(out), nil
}

// Barcode analyzes the product a barcode identifies.
func (a *Advisor) Barcode(ctx context.Context, barcode string) (scans.Analysis, error) {
	var out scans.Analysis
	err := a.generate(ctx, call{
		kind:    metrics.KindBarcodeScan,
		prompt:  BarcodePrompt(barcode),
		dec:     a.product,
		message: barcodeFailedMsg,
		resetTo: ResetToScanner,
	}, &out)
	if err != nil {
		return scans.Analysis{}, err
	}
	return normalizeAnalysis(out), nil
}

type call struct {
	kind    string
	prompt  string
	images  []gemini.Image
	dec     *decoder
	message string
	resetTo string
}

func (a *Advisor) generate(ctx context.Context, c call, out any) error {
	ctx = a.logg.WithOperation(ctx, "advisor."+c.kind)
	start := a.now()

	text, err := a.gen.GenerateJSON(ctx, c.prompt, c.images...)
	if err != nil {
		a.metrics.Observe(c.kind, metrics.OutcomeFailure, a.now().Sub(start))
		a.logg.Error(ctx, "model call failed", err)
		return GenerationFailed(err, c.message, c.resetTo)
	}
	if err := c.dec.decode(ctx, text, out); err != nil {
		a.metrics.Observe(c.kind, metrics.OutcomeMalformed, a.now().Sub(start))
		a.logg.Error(a.logg.WithField(ctx, "raw_len", len(text)), "model returned malformed output", err)
		return GenerationFailed(err, c.message, c.resetTo)
	}
	a.metrics.Observe(c.kind, metrics.OutcomeSuccess, a.now().Sub(start))
	return nil
}

func normalizeAnalysis(a scans.Analysis) scans.Analysis {
	if a.HarmfulIngredients == nil {
		a.HarmfulIngredients = []scans.Ingredient{}
	}
	if a.SuitableSkinTypes == nil {
		a.SuitableSkinTypes = []string{}
	}
	if a.SolvesProblems == nil {
		a.SolvesProblems = []string{}
	}
	return a
}
