package errors

import (
	"strings"
	"sync"
	"time"
)

// Context carries optional request metadata attached to a classified error.
type Context struct {
	Component string
	Action    string
	UserID    string
	Timestamp time.Time
}

// ClassifiedError is the result of running an arbitrary error through the handler.
type ClassifiedError struct {
	StandardError
	Context Context
}

// Handler classifies caught errors into the taxonomy and keeps a bounded log
// of recent classifications for diagnostics.
type Handler struct {
	mu         sync.Mutex
	recent     []ClassifiedError
	maxLogSize int
}

// NewHandler creates a Handler with the default log capacity of 100 entries.
func NewHandler() *Handler {
	return &Handler{maxLogSize: 100}
}

// Handle classifies err, records it, and returns the structured result.
func (h *Handler) Handle(err error, ctx Context) ClassifiedError {
	if ctx.Timestamp.IsZero() {
		ctx.Timestamp = time.Now().UTC()
	}

	info := ClassifiedError{
		StandardError: Classify(err),
		Context:       ctx,
	}

	h.mu.Lock()
	h.recent = append([]ClassifiedError{info}, h.recent...)
	if len(h.recent) > h.maxLogSize {
		h.recent = h.recent[:h.maxLogSize]
	}
	h.mu.Unlock()

	return info
}

// RecentErrors returns a copy of the recent error log, newest first.
func (h *Handler) RecentErrors() []ClassifiedError {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]ClassifiedError, len(h.recent))
	copy(out, h.recent)
	return out
}

// ClearLog empties the recent error log.
func (h *Handler) ClearLog() {
	h.mu.Lock()
	h.recent = nil
	h.mu.Unlock()
}

// HasRecentCritical reports whether a critical error was recorded within the
// given window.
func (h *Handler) HasRecentCritical(window time.Duration) bool {
	cutoff := time.Now().UTC().Add(-window)
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, e := range h.recent {
		if e.Severity == SeverityCritical && e.Context.Timestamp.After(cutoff) {
			return true
		}
	}
	return false
}

// Classify maps an arbitrary error onto the taxonomy. A *StandardError passes
// through unchanged; everything else is bucketed by message substrings.
func Classify(err error) StandardError {
	if std, ok := err.(*StandardError); ok {
		return *std
	}

	msg := ""
	if err != nil {
		msg = err.Error()
	}
	lower := strings.ToLower(msg)

	errType := classifyType(lower)
	return StandardError{
		Code:        codeForType(errType),
		Type:        errType,
		Severity:    severityFor(errType, lower),
		Message:     msg,
		UserMessage: userMessageFor(errType, lower),
		Retryable:   shouldRetry(errType, lower),
		Timestamp:   time.Now().UTC(),
	}
}

func classifyType(lower string) ErrorType {
	switch {
	case strings.Contains(lower, "network"),
		strings.Contains(lower, "fetch"),
		strings.Contains(lower, "connection"),
		strings.Contains(lower, "timeout"),
		strings.Contains(lower, "offline"):
		return TypeNetwork
	case strings.Contains(lower, "401"),
		strings.Contains(lower, "unauthorized"),
		strings.Contains(lower, "token"),
		strings.Contains(lower, "session"),
		strings.Contains(lower, "auth"):
		return TypeAuth
	case strings.Contains(lower, "validation"),
		strings.Contains(lower, "invalid"),
		strings.Contains(lower, "required"),
		strings.Contains(lower, "format"):
		return TypeValidation
	case strings.Contains(lower, "500"),
		strings.Contains(lower, "502"),
		strings.Contains(lower, "503"),
		strings.Contains(lower, "server"),
		strings.Contains(lower, "internal"):
		return TypeServer
	default:
		return TypeUnknown
	}
}

func codeForType(t ErrorType) ErrorCode {
	switch t {
	case TypeAuth:
		return ErrCodeAuthenticationError
	case TypeValidation:
		return ErrCodeValidationFailed
	default:
		return ErrorCode(strings.ToUpper(string(t)) + "_ERROR")
	}
}

func severityFor(t ErrorType, lower string) Severity {
	switch {
	case t == TypeAuth, strings.Contains(lower, "critical"), strings.Contains(lower, "fatal"):
		return SeverityCritical
	case t == TypeServer, strings.Contains(lower, "database"), strings.Contains(lower, "storage"):
		return SeverityHigh
	case t == TypeNetwork, strings.Contains(lower, "timeout"):
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func userMessageFor(t ErrorType, lower string) string {
	switch t {
	case TypeNetwork:
		if strings.Contains(lower, "offline") || strings.Contains(lower, "disconnected") {
			return "Connessione internet assente. Controlla la tua rete e riprova."
		}
		if strings.Contains(lower, "timeout") {
			return "La richiesta sta impiegando troppo tempo. Riprova tra poco."
		}
		return "Problemi di connessione. Controlla la tua rete e riprova."
	case TypeAuth:
		if strings.Contains(lower, "401") || strings.Contains(lower, "unauthorized") {
			return "Sessione scaduta. Effettua di nuovo l'accesso."
		}
		if strings.Contains(lower, "token") {
			return "Token di accesso non valido. Effettua di nuovo l'accesso."
		}
		return "Problema di autenticazione. Effettua di nuovo l'accesso."
	case TypeValidation:
		if strings.Contains(lower, "email") {
			return "Indirizzo email non valido. Controlla e riprova."
		}
		if strings.Contains(lower, "required") {
			return "Compila tutti i campi obbligatori."
		}
		return "Dati inseriti non validi. Controlla e riprova."
	case TypeServer:
		if strings.Contains(lower, "503") {
			return "Servizio temporaneamente non disponibile. Riprova tra poco."
		}
		return "Problema del server. Riprova tra poco."
	default:
		return "Ops! Qualcosa è andato storto. Riprova tra poco."
	}
}

func shouldRetry(t ErrorType, lower string) bool {
	if t == TypeValidation || t == TypeAuth {
		return false
	}
	if t == TypeNetwork || t == TypeServer {
		return true
	}
	return strings.Contains(lower, "timeout")
}
