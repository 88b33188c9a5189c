package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"concierge/assemble"
	"concierge/cache"
	"concierge/catalog"
	"concierge/classify"
	"concierge/common/logger"
	"concierge/config"
	"concierge/history"
	"concierge/inference"
	"concierge/metrics"
	"concierge/schema"
)

// FallbackMessage is the single user-visible answer for any unrecoverable
// internal failure. It carries no error codes or internal identifiers.
const FallbackMessage = "Sorry, I couldn't process your request right now. Please try again in a moment."

// SenderRoleUser marks a message from an end user. Messages from any other
// sender (staff, operators, bots) are never auto-answered.
const SenderRoleUser = "user"

// historyTimeout bounds the background turn-recording write.
const historyTimeout = 2 * time.Second

// Generator produces a complete answer for a prompt, or fails.
type Generator interface {
	Generate(ctx context.Context, prompt string, profile schema.DecodingProfile) (string, error)
}

// ResponseCache is the subset of the tiered cache the orchestrator uses.
// Get reports which tier answered a hit.
type ResponseCache interface {
	Get(ctx context.Context, key string) (value, tier string, ok bool)
	Set(ctx context.Context, key, value string)
}

// Orchestrator runs the full respond pipeline: classify, consult the cache,
// assemble catalog context, generate, store. Respond never returns an error;
// every internal failure degrades to FallbackMessage.
type Orchestrator struct {
	cfg        *config.Config
	classifier *classify.Classifier
	assembler  *assemble.Assembler
	cache      ResponseCache
	generator  Generator
	catalog    catalog.Provider
	history    history.Store
}

// New wires an orchestrator from its collaborators. history may be nil, in
// which case turns are discarded.
func New(cfg *config.Config, cls *classify.Classifier, asm *assemble.Assembler, rc ResponseCache, gen Generator, cat catalog.Provider, hist history.Store) *Orchestrator {
	if hist == nil {
		hist = history.Nop{}
	}
	return &Orchestrator{
		cfg:        cfg,
		classifier: cls,
		assembler:  asm,
		cache:      rc,
		generator:  gen,
		catalog:    cat,
		history:    hist,
	}
}

// Respond answers one inbound message. Messages whose senderRole is not an
// end user return "" immediately, with no cache, catalog or backend calls.
func (o *Orchestrator) Respond(ctx context.Context, tenantID, clientID, rawText, senderRole string) string {
	if senderRole != "" && senderRole != SenderRoleUser {
		return ""
	}

	start := time.Now()
	rm := metrics.NewRequestMetrics(uuid.NewString(), tenantID)

	answer := o.respond(ctx, tenantID, rawText, rm)

	rm.TotalLatencyMs = time.Since(start).Milliseconds()
	rm.LogJSON()
	metrics.IncResponse(rm.Source)

	o.recordTurns(tenantID, clientID, rawText, answer)
	return answer
}

func (o *Orchestrator) respond(ctx context.Context, tenantID, rawText string, rm *metrics.RequestMetrics) string {
	cls := o.classifier.Classify(rawText)
	rm.Category = string(cls.Category)
	rm.Language = cls.Language
	metrics.IncClassification(string(cls.Category))

	// Greetings are contextless and cheap to regenerate: no cache, no
	// catalog. A static template answers when one exists for the detected
	// language; otherwise the backend generates one from an empty context.
	if cls.Category == schema.CategoryGreeting {
		if tmpl, ok := greetingTemplates[cls.Language]; ok {
			rm.Source = "template"
			rm.Success = true
			return tmpl
		}
		return o.generate(ctx, "", cls, rawText, "", rm)
	}

	key := cache.Key(tenantID, cls.Category, rawText)
	rm.CacheChecked = true
	if cached, tier, ok := o.cache.Get(ctx, key); ok {
		rm.CacheHit = true
		rm.CacheTier = tier
		rm.Source = "cache"
		rm.Success = true
		return cached
	}

	contextText := o.assembleContext(ctx, tenantID, cls, rawText)
	rm.ContextBytes = len(contextText)
	rm.ContextEmpty = contextText == "" || contextText == assemble.NoDataMarker

	return o.generate(ctx, contextText, cls, rawText, key, rm)
}

// generate calls the backend and applies the cache-store policy. An empty
// cacheKey means the answer is never stored.
func (o *Orchestrator) generate(ctx context.Context, contextText string, cls schema.Classification, rawText, cacheKey string, rm *metrics.RequestMetrics) string {
	prompt := assemble.BuildPrompt(o.cfg.Prompt.Preamble, contextText, rawText)

	infStart := time.Now()
	answer, err := o.generator.Generate(ctx, prompt, cls.Profile)
	if err != nil {
		rm.RecordInference(outcomeFor(err), time.Since(infStart))
		rm.Source = "fallback"
		rm.ErrorMsg = err.Error()
		logger.Errorf("orchestrator: generation failed for category %s: %v", cls.Category, err)
		return FallbackMessage
	}
	rm.RecordInference("ok", time.Since(infStart))
	rm.Source = "inference"
	rm.Success = true

	if cacheKey != "" && cacheable(answer) {
		o.cache.Set(ctx, cacheKey, answer)
		rm.CacheStored = true
	}
	return answer
}

// assembleContext fetches the tenant snapshot (and hours, when relevant) and
// renders it. A failing catalog provider yields an empty snapshot; the
// assembler degrades that to its no-data marker.
func (o *Orchestrator) assembleContext(ctx context.Context, tenantID string, cls schema.Classification, rawText string) string {
	snapshot, err := o.catalog.Snapshot(ctx, tenantID)
	if err != nil {
		logger.Warnf("orchestrator: catalog snapshot for tenant %s failed: %v", tenantID, err)
		snapshot = nil
	}
	var hours string
	if cls.Category == schema.CategoryHours {
		if hours, err = o.catalog.Hours(ctx, tenantID); err != nil {
			logger.Warnf("orchestrator: hours lookup for tenant %s failed: %v", tenantID, err)
			hours = ""
		}
	}
	return o.assembler.Assemble(snapshot, hours, cls, rawText)
}

// recordTurns persists the user and assistant turns off the request path. A
// slow or failing history store never delays the answer.
func (o *Orchestrator) recordTurns(tenantID, clientID, rawText, answer string) {
	userTurn := history.NewTurn(tenantID, clientID, "user", rawText)
	assistantTurn := history.NewTurn(tenantID, clientID, "assistant", answer)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		if err := o.history.RecordTurn(ctx, userTurn); err != nil {
			logger.Warnf("orchestrator: recording user turn failed: %v", err)
		}
		if err := o.history.RecordTurn(ctx, assistantTurn); err != nil {
			logger.Warnf("orchestrator: recording assistant turn failed: %v", err)
		}
	}()
}

// nonCacheablePatterns flags answers that describe the current absence of
// data. Storing one would keep serving "not available" after the catalog
// gains a real match.
var nonCacheablePatterns = []string{
	"not available",
	"no catalog data",
	"don't have",
	"do not have",
	"unavailable",
	"sorry",
	"apolog",
	"unfortunately",
}

func cacheable(answer string) bool {
	lowered := strings.ToLower(answer)
	for _, p := range nonCacheablePatterns {
		if strings.Contains(lowered, p) {
			return false
		}
	}
	return true
}

func outcomeFor(err error) string {
	if errors.Is(err, inference.ErrTimeout) {
		return "timeout"
	}
	return "failed"
}

// greetingTemplates answers greetings without a backend round trip, keyed by
// detected language.
var greetingTemplates = map[string]string{
	"en": "Hello! Welcome — I can help you browse the menu, check our hours, or find something that fits your taste. What can I do for you?",
	"es": "¡Hola! Bienvenido. Puedo ayudarte a ver el menú, consultar nuestros horarios o encontrar algo a tu gusto. ¿En qué puedo ayudarte?",
	"fr": "Bonjour ! Bienvenue. Je peux vous aider à parcourir le menu, vérifier nos horaires ou trouver un plat à votre goût. Que puis-je faire pour vous ?",
	"it": "Ciao! Benvenuto. Posso aiutarti a sfogliare il menù, controllare i nostri orari o trovare qualcosa di tuo gusto. Come posso aiutarti?",
}
