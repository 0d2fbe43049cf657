package domain

// Strategy identifies which extraction path produced the text of an outcome.
type Strategy string

const (
	StrategyOCR        Strategy = "ocr"
	StrategyPlainText  Strategy = "plain_text"
	StrategyDiagnostic Strategy = "diagnostic"
	StrategyNone       Strategy = "none"
)

// Stage is one attempt in the ordered extraction fallback chain.
type Stage int

const (
	StageOCR Stage = iota
	StagePlainText
	StageDiagnostic
	StageExhausted
)

// Next returns the stage to try after s has failed. The chain is strictly
// linear: OCR -> plain text -> diagnostic -> exhausted.
func (s Stage) Next() Stage {
	switch s {
	case StageOCR:
		return StagePlainText
	case StagePlainText:
		return StageDiagnostic
	default:
		return StageExhausted
	}
}

func (s Stage) String() string {
	switch s {
	case StageOCR:
		return "ocr"
	case StagePlainText:
		return "plain_text"
	case StageDiagnostic:
		return "diagnostic"
	default:
		return "exhausted"
	}
}

// StagedDocument is the byte-materialized, named form of an uploaded file,
// ready for transmission to the extraction backend. The staged file lives
// until the owning stager releases it.
type StagedDocument struct {
	Name        string
	ContentType string
	Size        int64
	Path        string
}

// ExtractionOutcome is the unified result of one upload attempt through the
// fallback chain. Immutable once produced.
//
// DiagnosticMessage is a human-readable summary suitable for direct display;
// for the diagnostic and none strategies it equals RawText, which then carries
// a synthesized troubleshooting report instead of extracted text.
type ExtractionOutcome struct {
	StrategyUsed      Strategy `json:"strategy_used"`
	RawText           string   `json:"raw_text"`
	DiagnosticMessage string   `json:"diagnostic_message"`
	Succeeded         bool     `json:"succeeded"`
}
