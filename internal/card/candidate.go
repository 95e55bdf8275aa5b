package card

// Candidate is unvalidated card content as produced by a generator or read
// from the bundle file. ID, Source and Model are optional; the validator
// fills them in when empty.
type Candidate struct {
	ID          string `json:"id,omitempty" yaml:"id"`
	Type        string `json:"type" yaml:"type" validate:"required,oneof=snippet quiz trivia"`
	Language    string `json:"lang" yaml:"lang" validate:"required,lang"`
	Difficulty  string `json:"difficulty" yaml:"difficulty" validate:"required,oneof=easy medium hard god"`
	Question    string `json:"question" yaml:"question" validate:"required,max=500"`
	Answer      string `json:"answer" yaml:"answer" validate:"required,max=200"`
	Explanation string `json:"explanation" yaml:"explanation" validate:"required,max=400"`
	Taunt       string `json:"taunt,omitempty" yaml:"taunt" validate:"max=200"`
	Topic       string `json:"topic,omitempty" yaml:"topic" validate:"max=80"`
	Source      string `json:"-" yaml:"-" validate:"omitempty,oneof=generated bundled session-added"`
	Model       string `json:"-" yaml:"-"`
}
