// Package payment implements the donation wizard: amount selection, preview,
// a single asynchronous submission, and its outcome.
package payment

// Step identifies a wizard screen.
type Step int

const (
	StepAmount Step = iota
	StepPreview
	StepProcessing
	StepSuccess
	StepError
)

func (s Step) String() string {
	switch s {
	case StepAmount:
		return "amount"
	case StepPreview:
		return "preview"
	case StepProcessing:
		return "processing"
	case StepSuccess:
		return "success"
	case StepError:
		return "error"
	default:
		return "unknown"
	}
}

// Options are the donor's optional extras, editable on the amount screen.
type Options struct {
	Message   string
	Anonymous bool
}

// State is one of Amount, Preview, Processing, Success or Failure. Each
// variant carries only the fields meaningful for its step.
type State interface {
	Step() Step
	options() Options
}

// Amount is the initial screen.
type Amount struct {
	Options
}

// Preview shows the chosen amount and total cost before confirmation.
type Preview struct {
	Amount string
	Options
}

// Processing means the donation request is in flight.
type Processing struct {
	Amount string
	Options
}

// Success carries the hash of the settled donation transaction.
type Success struct {
	Amount string
	Options
	TxHash string
}

// Failure carries the user-facing reason the donation did not go through.
type Failure struct {
	Amount string
	Options
	Message string
}

func (Amount) Step() Step     { return StepAmount }
func (Preview) Step() Step    { return StepPreview }
func (Processing) Step() Step { return StepProcessing }
func (Success) Step() Step    { return StepSuccess }
func (Failure) Step() Step    { return StepError }

func (s Amount) options() Options     { return s.Options }
func (s Preview) options() Options    { return s.Options }
func (s Processing) options() Options { return s.Options }
func (s Success) options() Options    { return s.Options }
func (s Failure) options() Options    { return s.Options }

// Preset is a one-click donation amount.
type Preset struct {
	Label   string
	Amount  string
	Popular bool
}

// DefaultPresets are the amounts offered on the amount screen.
var DefaultPresets = []Preset{
	{Label: "0.01 ETH", Amount: "0.01"},
	{Label: "0.05 ETH", Amount: "0.05", Popular: true},
	{Label: "0.1 ETH", Amount: "0.1"},
	{Label: "0.5 ETH", Amount: "0.5"},
}
