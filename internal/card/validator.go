package card

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/999aryaDharma/HackStack/internal/clock"
)

// ValidationError describes why a candidate was rejected.
type ValidationError struct {
	Field   string // Candidate field that failed
	Rule    string // Validation tag, e.g. "max" or "oneof"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("card field %s: %s", e.Field, e.Message)
}

// Validator checks candidates against the card content rules and converts
// the survivors into cards. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	clock    clock.Clock
	newID    func() string
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithClock sets the clock used for CreatedAt.
func WithClock(c clock.Clock) ValidatorOption {
	return func(v *Validator) { v.clock = c }
}

// WithIDFunc overrides id generation for candidates without an id.
func WithIDFunc(fn func() string) ValidatorOption {
	return func(v *Validator) { v.newID = fn }
}

// NewValidator builds a Validator with the "lang" rule registered.
func NewValidator(opts ...ValidatorOption) *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for an empty tag or nil func.
	_ = validate.RegisterValidation("lang", func(fl validator.FieldLevel) bool {
		return slices.Contains(SupportedLanguages, fl.Field().String())
	})

	v := &Validator{
		validate: validate,
		clock:    clock.System{},
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate normalizes c, checks it and returns the resulting card.
// The returned error is a *ValidationError for content failures.
func (v *Validator) Validate(c Candidate) (Card, error) {
	c = normalizeCandidate(c)

	if err := v.validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return Card{}, toValidationError(fieldErrs[0])
		}
		return Card{}, fmt.Errorf("validate card: %w", err)
	}

	out := Card{
		ID:          c.ID,
		Type:        Type(c.Type),
		Language:    c.Language,
		Difficulty:  Difficulty(c.Difficulty),
		Question:    c.Question,
		Answer:      c.Answer,
		Explanation: c.Explanation,
		Taunt:       c.Taunt,
		Topic:       c.Topic,
		Source:      Source(c.Source),
		Model:       c.Model,
		CreatedAt:   v.clock.Now(),
	}
	if out.ID == "" {
		out.ID = v.newID()
	}
	if out.Source == "" {
		out.Source = SourceGenerated
	}
	return out, nil
}

func normalizeCandidate(c Candidate) Candidate {
	c.ID = strings.TrimSpace(c.ID)
	c.Type = strings.ToLower(strings.TrimSpace(c.Type))
	c.Difficulty = strings.ToLower(strings.TrimSpace(c.Difficulty))
	if lang, ok := ParseLanguage(c.Language); ok {
		c.Language = lang
	}
	c.Question = strings.TrimSpace(c.Question)
	c.Answer = strings.TrimSpace(c.Answer)
	c.Explanation = strings.TrimSpace(c.Explanation)
	c.Taunt = strings.TrimSpace(c.Taunt)
	c.Topic = strings.TrimSpace(c.Topic)
	return c
}

func toValidationError(fe validator.FieldError) *ValidationError {
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "max":
		msg = fmt.Sprintf("exceeds %s characters", fe.Param())
	case "oneof":
		msg = fmt.Sprintf("%q is not one of [%s]", fe.Value(), fe.Param())
	case "lang":
		msg = fmt.Sprintf("unsupported language %q", fe.Value())
	default:
		msg = fmt.Sprintf("failed %q rule", fe.Tag())
	}
	return &ValidationError{Field: fe.Field(), Rule: fe.Tag(), Message: msg}
}
