// Package engine wires the full honeypot pipeline: language detection,
// scam classification, emotional state, tactics, reply generation, intel
// extraction, fingerprinting and escalation. One inbound scammer message
// flows through ProcessMessage and produces one victim reply.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/scamshield/honeypot/internal/agent"
	"github.com/scamshield/honeypot/internal/alerts"
	"github.com/scamshield/honeypot/internal/archive"
	"github.com/scamshield/honeypot/internal/automation"
	"github.com/scamshield/honeypot/internal/emotion"
	"github.com/scamshield/honeypot/internal/fingerprint"
	"github.com/scamshield/honeypot/internal/intel"
	"github.com/scamshield/honeypot/internal/langdetect"
	"github.com/scamshield/honeypot/internal/observability/metrics"
	"github.com/scamshield/honeypot/internal/persona"
	"github.com/scamshield/honeypot/internal/report"
	"github.com/scamshield/honeypot/internal/scam"
	"github.com/scamshield/honeypot/internal/session"
	"github.com/scamshield/honeypot/internal/tactics"
)

// Inbound is a single message as received from the outside.
type Inbound struct {
	Sender    string
	Text      string
	Timestamp time.Time
}

// Meta is optional request context supplied by the caller.
type Meta struct {
	Channel  string
	Language string
	Locale   string
}

// Request carries one scammer message plus any history the caller wants
// synced into the session.
type Request struct {
	SessionID string
	Message   Inbound
	History   []Inbound
	Meta      Meta
}

// Result is the outcome of processing one message.
type Result struct {
	Reply          string                    `json:"reply"`
	ReplySource    string                    `json:"replySource"`
	ScamDetected   bool                      `json:"scamDetected"`
	ScamConfidence float64                   `json:"scamConfidence"`
	ScamType       string                    `json:"scamType"`
	Language       string                    `json:"language"`
	EmotionalState string                    `json:"emotionalState"`
	Stage          string                    `json:"stage"`
	Artifact       *tactics.ArtifactDecision `json:"artifact,omitempty"`
	Escalated      bool                      `json:"escalated"`
}

// Reply generation sources.
const (
	replySourceLLM      = "llm"
	replySourceScripted = "scripted"
	replySourceNeutral  = "neutral"
)

// Engine orchestrates the honeypot pipeline over shared components.
type Engine struct {
	store    session.Store
	detector *scam.Detector
	emotions *emotion.Manager
	tactics  *tactics.Engine
	personas *persona.Generator
	tracker  *fingerprint.Tracker
	policy   automation.Policy
	agent    *agent.Agent
	reporter report.Sink
	notifier alerts.Notifier
	archive  *archive.Store
	metrics  *metrics.EngineMetrics
	logger   *slog.Logger

	useLLM bool

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock is reference counted so the locks map only holds entries
// for sessions with an in-flight request.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// Config bundles the engine's collaborators. Store, Detector, Emotions,
// Tactics, Personas, Tracker and Agent are required; the rest may be nil.
type Config struct {
	Store    session.Store
	Detector *scam.Detector
	Emotions *emotion.Manager
	Tactics  *tactics.Engine
	Personas *persona.Generator
	Tracker  *fingerprint.Tracker
	Policy   automation.Policy
	Agent    *agent.Agent
	UseLLM   bool
	Reporter report.Sink
	Notifier alerts.Notifier
	Archive  *archive.Store
	Metrics  *metrics.EngineMetrics
	Logger   *slog.Logger
}

// New creates an Engine from its collaborators.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:    cfg.Store,
		detector: cfg.Detector,
		emotions: cfg.Emotions,
		tactics:  cfg.Tactics,
		personas: cfg.Personas,
		tracker:  cfg.Tracker,
		policy:   cfg.Policy,
		agent:    cfg.Agent,
		useLLM:   cfg.UseLLM,
		reporter: cfg.Reporter,
		notifier: cfg.Notifier,
		archive:  cfg.Archive,
		metrics:  cfg.Metrics,
		logger:   logger,
		locks:    make(map[string]*sessionLock),
	}
}

// lockSession serializes processing per session id. The returned release
// func drops the lock and evicts the map entry once no caller holds or
// waits on it.
func (e *Engine) lockSession(sessionID string) func() {
	e.mu.Lock()
	l, ok := e.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		e.locks[sessionID] = l
	}
	l.refs++
	e.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		e.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(e.locks, sessionID)
		}
		e.mu.Unlock()
	}
}

// ProcessMessage runs the full pipeline for one scammer message. External
// calls (LLM, report callback, alerts) run without the session lock held;
// their failures degrade the reply or are logged, never corrupt state.
func (e *Engine) ProcessMessage(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()

	unlock := e.lockSession(req.SessionID)
	prep, err := e.ingest(ctx, req)
	unlock()
	if err != nil {
		e.metrics.ObserveMessage(req.Meta.Language, "error")
		return nil, err
	}

	reply, source := e.generateReply(ctx, prep)

	unlock = e.lockSession(req.SessionID)
	result, escalation, events, err := e.finalize(ctx, req.SessionID, prep, reply, source)
	unlock()
	if err != nil {
		e.metrics.ObserveMessage(prep.language, "error")
		return nil, err
	}

	events = append(prep.events, events...)

	if escalation != nil {
		e.deliverEscalation(ctx, req.SessionID, *escalation, result)
	}
	for _, ev := range events {
		e.notify(ctx, ev)
	}

	e.metrics.ObserveMessage(result.Language, "ok")
	e.metrics.ObserveReply(result.ReplySource)
	e.metrics.ObserveProcessLatency(result.ScamDetected, time.Since(started).Seconds())

	return result, nil
}

// prepared is the snapshot taken under the session lock before the reply
// is generated.
type prepared struct {
	sessionID      string
	lastText       string
	language       string
	scamDetected   bool
	scamConfidence float64
	classification scam.Classification
	identity       *persona.Identity
	emotionalState string
	promptModifier string
	detectedTactic string
	history        string
	artifact       tactics.ArtifactDecision
	stage          tactics.Stage
	channel        string
	events         []alerts.Event
}

func (e *Engine) ingest(ctx context.Context, req Request) (*prepared, error) {
	sess, err := e.store.GetOrCreate(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("engine: failed to load session: %w", err)
	}

	// Sync any caller-supplied history the session does not have yet.
	for _, msg := range req.History {
		if !hasText(sess, msg.Text) {
			sess.AddMessage(msg.Sender, msg.Text, msg.Timestamp)
		}
	}
	sess.AddMessage(req.Message.Sender, req.Message.Text, req.Message.Timestamp)

	text := req.Message.Text

	language := langdetect.Detect(text)
	if code := metaLanguageCode(req.Meta.Language); code != "" {
		language = code
	}
	sess.Language = language

	classification := scam.Classify(text, sess.ScammerTexts())

	detection := e.detector.Detect(text)
	if !detection.IsScam && sess.MessageCount() > 1 {
		detection = e.detector.DetectConversation(sess.ScammerTexts())
	}

	var events []alerts.Event
	firstDetection := false
	if detection.IsScam {
		firstDetection = !sess.ScamDetected
		sess.ScamDetected = true
		if detection.Confidence > sess.ScamConfidence {
			sess.ScamConfidence = detection.Confidence
		}
		if classification.ScamType != "UNKNOWN" {
			sess.ScamType = classification.ScamType
		}
	}
	if firstDetection {
		e.metrics.ObserveScamDetected(sess.ScamType)
		events = append(events, alerts.Event{
			Kind:      alerts.KindNewScamSession,
			SessionID: req.SessionID,
			ScamType:  sess.ScamType,
			Message:   text,
		})
	}

	// Repeat offender check against identifiers in this message alone.
	if match := e.tracker.Check(intel.FromText(text)); match.Known {
		e.logger.Info("repeat scammer detected",
			"session_id", req.SessionID,
			"fingerprint_id", match.FingerprintID,
			"previous_sessions", match.SessionCount,
		)
		events = append(events, alerts.Event{
			Kind:          alerts.KindRepeatScammer,
			SessionID:     req.SessionID,
			FingerprintID: match.FingerprintID,
			SessionCount:  match.SessionCount,
			ScamTypes:     match.ScamTypes,
		})
	}

	emoCtx := e.emotions.ProcessMessage(req.SessionID, text)
	stage := e.tactics.CurrentStage(req.SessionID)

	prep := &prepared{
		sessionID:      req.SessionID,
		lastText:       text,
		language:       language,
		scamDetected:   sess.ScamDetected,
		scamConfidence: sess.ScamConfidence,
		classification: classification,
		identity:       e.personas.Identity(req.SessionID),
		emotionalState: string(emoCtx.Current),
		promptModifier: emoCtx.PromptModifier(),
		detectedTactic: emotion.DetectTactic(text),
		history:        sess.HistoryForPrompt(10),
		artifact:       tactics.DecideArtifact(text, stage),
		stage:          stage,
		channel:        req.Meta.Channel,
		events:         events,
	}

	if err := e.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("engine: failed to save session: %w", err)
	}
	return prep, nil
}

// generateReply runs without the session lock. Scam sessions get a
// persona reply (LLM when configured, scripted tactics otherwise);
// unconfirmed sessions get a neutral reply.
func (e *Engine) generateReply(ctx context.Context, prep *prepared) (string, string) {
	if !prep.scamDetected {
		return e.agent.NeutralReply(prep.language), replySourceNeutral
	}

	if e.useLLM {
		pc := agent.PersonaContext{
			Channel:           prep.channel,
			Language:          prep.language,
			Identity:          prep.identity,
			EmotionalState:    prep.emotionalState,
			EmotionalModifier: prep.promptModifier,
			ScamType:          prep.classification.ScamType,
			Tactics:           headStrings(prep.classification.SuggestedTactics, 2),
			ProbingQuestion:   e.tactics.ProbingQuestion(prep.sessionID, prep.classification.ScamType, prep.language),
			History:           prep.history,
		}
		if prep.artifact.Send {
			pc.Artifact = prep.artifact.Type
		}
		return e.agent.GenerateReply(ctx, pc, prep.lastText), replySourceLLM
	}

	// Scripted path: threats draw an emotional reaction, everything else
	// follows the staged playbook.
	if prep.detectedTactic == "threat" {
		return e.emotions.Response(prep.sessionID, prep.language), replySourceScripted
	}
	resp := e.tactics.Respond(prep.sessionID, prep.classification.ScamType, prep.language)
	return resp.Text, replySourceScripted
}

func (e *Engine) finalize(ctx context.Context, sessionID string, prep *prepared, reply, source string) (*Result, *report.Result, []alerts.Event, error) {
	sess, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("engine: failed to reload session: %w", err)
	}

	sess.AddMessage("user", reply, time.Time{})

	if sess.ScamDetected {
		prep.stage = e.tactics.AdvanceStage(sessionID)
	}

	// Recompute intel over the whole conversation so risk stays monotonic
	// and order-independent.
	before := intelIdentifierCount(sess.Intel)
	sess.Intel = intel.FromMessages(sess.IntelMessages())
	after := intelIdentifierCount(sess.Intel)

	var events []alerts.Event
	if after > before {
		e.observeIntel(sess.Intel)
		if len(sess.Intel.PhoneNumbers) > 0 || len(sess.Intel.UPIIDs) > 0 || len(sess.Intel.BankAccounts) > 0 {
			events = append(events, alerts.Event{
				Kind:      alerts.KindIntelExtracted,
				SessionID: sessionID,
				ScamType:  sess.ScamType,
				Intel:     sess.Intel,
			})
		}
	}

	if fp := e.tracker.Track(sessionID, sess.Intel, sess.ScamType, sess.Language); fp != nil {
		e.tracker.RecordEngagement(fp.ID, 1, sess.Duration())
	}

	var escalation *report.Result
	if e.policy.ShouldEscalate(sess) {
		escalation = &report.Result{
			SessionID:              sess.ID,
			ScamDetected:           sess.ScamDetected,
			TotalMessagesExchanged: sess.MessageCount(),
			ExtractedIntelligence:  sess.Intel,
			AgentNotes:             intel.AgentNotes(sess.Intel),
		}
	}

	if err := e.store.Save(ctx, sess); err != nil {
		return nil, nil, nil, fmt.Errorf("engine: failed to save session: %w", err)
	}

	result := &Result{
		Reply:          reply,
		ReplySource:    source,
		ScamDetected:   sess.ScamDetected,
		ScamConfidence: sess.ScamConfidence,
		ScamType:       sess.ScamType,
		Language:       sess.Language,
		EmotionalState: prep.emotionalState,
		Stage:          string(prep.stage),
		Escalated:      escalation != nil,
	}
	if prep.artifact.Send {
		artifact := prep.artifact
		result.Artifact = &artifact
	}

	return result, escalation, events, nil
}

// deliverEscalation sends the report callback and, on success, marks the
// session delivered and archives it.
func (e *Engine) deliverEscalation(ctx context.Context, sessionID string, rep report.Result, result *Result) {
	if e.reporter == nil {
		return
	}

	if err := e.reporter.Send(ctx, rep); err != nil {
		e.logger.Error("escalation callback failed",
			"session_id", sessionID,
			"error", err.Error(),
		)
		e.metrics.ObserveEscalation("failed")
		result.Escalated = false
		return
	}
	e.metrics.ObserveEscalation("delivered")

	unlock := e.lockSession(sessionID)
	defer unlock()

	sess, err := e.store.Get(ctx, sessionID)
	if err != nil {
		e.logger.Error("failed to reload session after escalation",
			"session_id", sessionID,
			"error", err.Error(),
		)
		return
	}
	sess.CallbackSent = true
	if err := e.store.Save(ctx, sess); err != nil {
		e.logger.Error("failed to mark callback sent",
			"session_id", sessionID,
			"error", err.Error(),
		)
		return
	}

	e.archiveSession(ctx, sess, rep.AgentNotes)

	e.notify(ctx, alerts.Event{
		Kind:          alerts.KindSessionComplete,
		SessionID:     sessionID,
		Intel:         sess.Intel,
		TotalMessages: sess.MessageCount(),
		Duration:      sess.Duration(),
	})
}

// Escalate forces the report callback for a session regardless of the
// automation policy. Returns false when the callback was already sent.
func (e *Engine) Escalate(ctx context.Context, sessionID string) (bool, error) {
	unlock := e.lockSession(sessionID)
	sess, err := e.store.Get(ctx, sessionID)
	if err != nil {
		unlock()
		return false, fmt.Errorf("engine: failed to load session: %w", err)
	}
	if sess.CallbackSent {
		unlock()
		return false, nil
	}
	rep := report.Result{
		SessionID:              sess.ID,
		ScamDetected:           sess.ScamDetected,
		TotalMessagesExchanged: sess.MessageCount(),
		ExtractedIntelligence:  sess.Intel,
		AgentNotes:             intel.AgentNotes(sess.Intel),
	}
	unlock()

	if e.reporter == nil {
		return false, fmt.Errorf("engine: no report sink configured")
	}
	if err := e.reporter.Send(ctx, rep); err != nil {
		e.metrics.ObserveEscalation("failed")
		return false, fmt.Errorf("engine: escalation callback failed: %w", err)
	}
	e.metrics.ObserveEscalation("delivered")

	unlock = e.lockSession(sessionID)
	defer unlock()
	sess, err = e.store.Get(ctx, sessionID)
	if err != nil {
		return true, nil
	}
	sess.CallbackSent = true
	if err := e.store.Save(ctx, sess); err != nil {
		e.logger.Error("failed to mark callback sent",
			"session_id", sessionID,
			"error", err.Error(),
		)
	}
	e.archiveSession(ctx, sess, rep.AgentNotes)
	return true, nil
}

func (e *Engine) archiveSession(ctx context.Context, sess *session.Session, notes string) {
	if e.archive == nil {
		return
	}
	if err := e.archive.SaveSession(ctx, sess, notes); err != nil {
		e.logger.Error("failed to archive session",
			"session_id", sess.ID,
			"error", err.Error(),
		)
	}
	if match := e.tracker.Check(sess.Intel); match.Known {
		if fp, ok := e.tracker.Get(match.FingerprintID); ok {
			if err := e.archive.SaveFingerprint(ctx, fp); err != nil {
				e.logger.Error("failed to archive fingerprint",
					"fingerprint_id", fp.ID,
					"error", err.Error(),
				)
			}
		}
	}
}

func (e *Engine) notify(ctx context.Context, event alerts.Event) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Notify(ctx, event); err != nil {
		e.logger.Warn("alert notification failed",
			"kind", event.Kind,
			"error", err.Error(),
		)
	}
}

func (e *Engine) observeIntel(b *intel.Bundle) {
	if b == nil {
		return
	}
	e.metrics.ObserveIntel("upi_ids", len(b.UPIIDs))
	e.metrics.ObserveIntel("phone_numbers", len(b.PhoneNumbers))
	e.metrics.ObserveIntel("bank_accounts", len(b.BankAccounts))
	e.metrics.ObserveIntel("phishing_links", len(b.PhishingLinks))
	e.metrics.ObserveIntel("emails", len(b.EmailAddresses))
}

func hasText(sess *session.Session, text string) bool {
	for _, m := range sess.Conversation {
		if m.Text == text {
			return true
		}
	}
	return false
}

func headStrings(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func intelIdentifierCount(b *intel.Bundle) int {
	if b == nil {
		return 0
	}
	return len(b.UPIIDs) + len(b.PhoneNumbers) + len(b.BankAccounts) +
		len(b.EmailAddresses) + len(b.PhishingLinks) + len(b.CardNumbers) +
		len(b.AadhaarNumbers) + len(b.PANNumbers) + len(b.CryptoAddresses)
}

// metaLanguageCode maps caller-supplied language names to codes.
var metaLanguageNames = map[string]string{
	"english": "en", "hindi": "hi", "tamil": "ta",
	"telugu": "te", "kannada": "kn", "malayalam": "ml",
	"bengali": "bn", "marathi": "mr", "gujarati": "gu", "punjabi": "pa",
}

func metaLanguageCode(name string) string {
	return metaLanguageNames[strings.ToLower(strings.TrimSpace(name))]
}
