package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"prescription-reader/internal/domain"
)

// analysisQuery is the fixed prompt sent to the backend AI for a narrative.
const analysisQuery = "Parse this prescription and extract: 1) Medicine names and generic names, 2) Dosage information, 3) Frequency and duration, 4) Doctor information, 5) Safety warnings"

const (
	medicationMarker = "MEDICATION DETAILS:"
	prescriberMarker = "PRESCRIBER INFORMATION:"
	safetyMarker     = "SAFETY NOTES:"
	bulletMarker     = "•"
)

// interactionAdvisory is appended whenever a narrative mentions interactions,
// and is the sole interaction entry of a narrative-free fallback analysis.
const interactionAdvisory = "Check for drug interactions with other medications"

// fallbackWarnings are the generic safety reminders of a narrative-free
// analysis.
var fallbackWarnings = []string{
	"Always follow the prescribed dosage and frequency",
	"Consult your doctor before making any changes",
	"Check for drug interactions with other medications",
	"Contact your pharmacist for any questions",
}

// fallbackConfidence reflects an analysis that worked but had no AI
// reasoning behind it.
const fallbackConfidence = 0.7

// AnalysisService assembles a structured analysis from extracted text,
// enriched by the backend AI narrative when that call succeeds. A narrative
// failure never propagates: the service degrades to a text-only analysis.
type AnalysisService struct {
	api    domain.ExtractionAPI
	logger domain.Logger
}

func NewAnalysisService(api domain.ExtractionAPI, logger domain.Logger) *AnalysisService {
	return &AnalysisService{
		api:    api,
		logger: logger,
	}
}

// Analyze builds the analysis record for extracted text. The returned record
// always has deduplicated medicines and fully populated doctor info.
func (s *AnalysisService) Analyze(ctx context.Context, extractedText string) (*domain.PrescriptionAnalysis, error) {
	resp, _, err := s.api.Ask(ctx, &domain.AskRequest{Query: analysisQuery, Context: extractedText})
	if err != nil {
		s.logger.Warn("AI analysis unavailable, using text-only fallback", "error", err)
		return s.fallbackAnalysis(extractedText), nil
	}
	if resp == nil || resp.Response == "" {
		s.logger.Warn("AI analysis returned an empty narrative, using text-only fallback")
		return s.fallbackAnalysis(extractedText), nil
	}

	return s.assemble(extractedText, resp.Response), nil
}

// assemble merges text-derived and narrative-derived medicines. Text-derived
// entries come first, so they win the by-name deduplication.
func (s *AnalysisService) assemble(extractedText, narrative string) *domain.PrescriptionAnalysis {
	medicines := ExtractMedicines(extractedText)
	medicines = append(medicines, medicinesFromNarrative(narrative)...)

	return &domain.PrescriptionAnalysis{
		ID:            uuid.New().String(),
		ExtractedText: extractedText,
		Confidence:    ConfidenceScore(extractedText),
		Medicines:     dedupeMedicines(medicines),
		DoctorInfo:    ExtractDoctorInfo(extractedText),
		Warnings:      warningsFromNarrative(narrative),
		Interactions:  interactionsFromNarrative(narrative),
		AnalyzedAt:    time.Now(),
	}
}

func (s *AnalysisService) fallbackAnalysis(extractedText string) *domain.PrescriptionAnalysis {
	warnings := make([]string, len(fallbackWarnings))
	copy(warnings, fallbackWarnings)

	return &domain.PrescriptionAnalysis{
		ID:            uuid.New().String(),
		ExtractedText: extractedText,
		Confidence:    fallbackConfidence,
		Medicines:     dedupeMedicines(ExtractMedicines(extractedText)),
		DoctorInfo:    ExtractDoctorInfo(extractedText),
		Warnings:      warnings,
		Interactions:  []string{interactionAdvisory},
		AnalyzedAt:    time.Now(),
	}
}

// medicinesFromNarrative parses the bullet list of the medication section,
// bounded by the prescriber section or end of text. Fragments of ten
// characters or fewer are noise.
func medicinesFromNarrative(narrative string) []domain.Medicine {
	idx := strings.Index(narrative, medicationMarker)
	if idx < 0 {
		return nil
	}
	section := narrative[idx+len(medicationMarker):]
	if end := strings.Index(section, prescriberMarker); end >= 0 {
		section = section[:end]
	}

	var medicines []domain.Medicine
	for _, item := range strings.Split(section, bulletMarker) {
		trimmed := strings.TrimSpace(item)
		if len(trimmed) <= 10 {
			continue
		}
		medicine := ParseMedicineLine(trimmed)
		if medicine.Name == "" {
			continue
		}
		medicines = append(medicines, medicine)
	}
	return medicines
}

// warningsFromNarrative parses the bullet list following the safety section
// marker, discarding fragments of five characters or fewer.
func warningsFromNarrative(narrative string) []string {
	idx := strings.Index(narrative, safetyMarker)
	if idx < 0 {
		return nil
	}

	var warnings []string
	for _, item := range strings.Split(narrative[idx+len(safetyMarker):], bulletMarker) {
		trimmed := strings.TrimSpace(item)
		if len(trimmed) <= 5 {
			continue
		}
		warnings = append(warnings, trimmed)
	}
	return warnings
}

func interactionsFromNarrative(narrative string) []string {
	if strings.Contains(strings.ToLower(narrative), "interaction") {
		return []string{interactionAdvisory}
	}
	return nil
}

// dedupeMedicines keeps the first occurrence of each medicine name. Names
// compare exactly; case variants remain distinct entries.
func dedupeMedicines(medicines []domain.Medicine) []domain.Medicine {
	seen := make(map[string]bool, len(medicines))
	deduped := make([]domain.Medicine, 0, len(medicines))
	for _, medicine := range medicines {
		if seen[medicine.Name] {
			continue
		}
		seen[medicine.Name] = true
		deduped = append(deduped, medicine)
	}
	return deduped
}
