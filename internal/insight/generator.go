// ABOUTME: Generator produces canned insights and records them for a user.
// ABOUTME: Template choice comes from an injected random source.
package insight

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/healthai/internal/models"
)

// Rand picks an index in [0, n). *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// LockedRand serializes access to a Rand so one source can be shared
// between goroutines.
type LockedRand struct {
	mu sync.Mutex
	r  Rand
}

// NewLockedRand wraps r.
func NewLockedRand(r Rand) *LockedRand {
	return &LockedRand{r: r}
}

func (l *LockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// Appender records a generated insight.
type Appender interface {
	Append(ctx context.Context, in *models.HealthInsight) error
}

type template struct {
	Type        models.InsightType
	Title       string
	Description string
	Confidence  int
}

var templates = []template{
	{
		Type:        models.InsightCorrelation,
		Title:       "Exercise & Sleep Quality",
		Description: "Your sleep quality improves by 23% on days you exercise for more than 30 minutes. Morning workouts show the strongest correlation.",
		Confidence:  89,
	},
	{
		Type:        models.InsightRecommendation,
		Title:       "Hydration Optimization",
		Description: "Based on your activity patterns, drinking water 30 minutes before meals could improve your energy levels by 18%.",
		Confidence:  82,
	},
	{
		Type:        models.InsightTrend,
		Title:       "Recovery Pattern",
		Description: "Your heart rate variability has improved 12% over the past month, indicating better cardiovascular fitness and recovery.",
		Confidence:  91,
	},
}

// Generator creates insights from templates.
type Generator struct {
	store   Appender
	rand    Rand
	now     func() time.Time
	latency time.Duration
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) { g.now = now }
}

// WithLatency delays every Generate call by d.
func WithLatency(d time.Duration) GeneratorOption {
	return func(g *Generator) { g.latency = d }
}

// NewGenerator creates a Generator that records insights in store.
// r must be safe for concurrent use; see LockedRand.
func NewGenerator(store Appender, r Rand, opts ...GeneratorOption) *Generator {
	g := &Generator{store: store, rand: r, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate picks a template, stamps it for userID and appends it.
// The query does not influence the choice.
func (g *Generator) Generate(ctx context.Context, userID, query string) (*models.HealthInsight, error) {
	if err := Delay(ctx, g.latency); err != nil {
		return nil, err
	}

	tpl := templates[g.rand.Intn(len(templates))]

	in := &models.HealthInsight{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        tpl.Type,
		Title:       tpl.Title,
		Description: tpl.Description,
		Confidence:  tpl.Confidence,
		Timestamp:   g.now(),
		Generated:   true,
	}
	if err := g.store.Append(ctx, in); err != nil {
		return nil, fmt.Errorf("record insight: %w", err)
	}
	return in, nil
}

// Delay waits for d or until ctx is done.
func Delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
