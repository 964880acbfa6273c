package patientgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"medquest/internal/adapter/llm"
	"medquest/internal/catalog"
	"medquest/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// Completer is the subset of llm.Completer the generator needs.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error)
}

var _ Completer = (*llm.Completer)(nil)

// Generator samples a disease server-side and asks the model for a persona.
type Generator struct {
	completer Completer
	logger    *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a generator. A nil rng gets a time-seeded source.
func NewGenerator(completer Completer, rng *rand.Rand, logger *zap.Logger) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{completer: completer, rng: rng, logger: logger}
}

var _ domain.PatientGenerator = (*Generator)(nil)

func descriptionQuality(d domain.Difficulty) string {
	switch d {
	case domain.DifficultyEasy:
		return "detailed and accurate"
	case domain.DifficultyMedium:
		return "fairly accurate but may miss some details"
	default:
		return "inaccurate, may confuse descriptions and complain about unrelated symptoms"
	}
}

func buildPrompt(disease string, d domain.Difficulty) string {
	return fmt.Sprintf(`Create virtual patient data with the disease: %s.
The patient should describe their symptoms %s.
Include the following information:
1. Name
2. Age
3. Gender
4. Main complaints
5. Medical history
6. Additional information

Also create preliminary patient responses to the following questions:
1. Describe your symptoms
2. How long have you had these symptoms?
3. Do you have any allergies or chronic diseases?
4. Are you taking any medications?
5. Describe your appearance
6. What do you feel when touching or pressing the area of discomfort?
IMPORTANT: DO NOT MENTION THE NAME OF YOUR DISEASE

Return only a JSON object with two keys: "patient_data" and "patient_responses".`,
		disease, descriptionQuality(d))
}

func (g *Generator) pick(pool []string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return pool[g.rng.Intn(len(pool))]
}

type personaPayload struct {
	PatientData      json.RawMessage `json:"patient_data"`
	PatientResponses json.RawMessage `json:"patient_responses"`
}

// GeneratePatient implements domain.PatientGenerator.
func (g *Generator) GeneratePatient(ctx context.Context, difficulty domain.Difficulty) (*domain.PatientCase, error) {
	disease := g.pick(catalog.PoolFor(difficulty))
	prompt := buildPrompt(disease, difficulty)

	g.logger.Info("Generating patient", zap.String("difficulty", string(difficulty)))

	raw, err := g.completer.Complete(ctx, prompt, llms.WithJSONMode())
	if err != nil {
		return nil, domain.NewGenerationError("patient generation failed", err)
	}

	persona, err := parsePersona(raw)
	if err != nil {
		g.logger.Error("Unusable patient persona from LLM", zap.Error(err), zap.String("raw_response", raw))
		return nil, domain.NewGenerationError("patient generation returned an invalid persona", err)
	}

	return &domain.PatientCase{
		PatientData:      persona.PatientData,
		PatientResponses: persona.PatientResponses,
		CorrectDiagnosis: disease,
		Difficulty:       difficulty,
	}, nil
}

func parsePersona(raw string) (*personaPayload, error) {
	cleaned := llm.CleanResponse(raw)
	var p personaPayload
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if isEmpty(p.PatientData) {
		return nil, errors.New(`missing "patient_data"`)
	}
	if isEmpty(p.PatientResponses) {
		return nil, errors.New(`missing "patient_responses"`)
	}
	return &p, nil
}

func isEmpty(m json.RawMessage) bool {
	t := bytes.TrimSpace(m)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}
