package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prescription-reader/internal/domain"
)

const sampleNarrative = `Here is the parsed prescription.
Watch for drug interaction with blood thinners.

MEDICATION DETAILS:
• Metformin 850mg tablet twice daily for 30 days
• Atorvastatin tablet 10mg once daily
• ok

PRESCRIBER INFORMATION:
• Dr. John Smith, MBBS

SAFETY NOTES:
• Take with food to reduce stomach upset
• Avoid alcohol while on this medication
• n/a`

func TestAnalyze_FallbackWhenAskFails(t *testing.T) {
	api := &mockAPI{askErr: errors.New("request to /ask failed: connection refused")}
	svc := NewAnalysisService(api, nopLogger{})

	analysis, err := svc.Analyze(context.Background(), samplePrescription)
	require.NoError(t, err)

	assert.NotEmpty(t, analysis.ID)
	assert.Equal(t, samplePrescription, analysis.ExtractedText)
	assert.InDelta(t, 0.7, analysis.Confidence, 1e-9)
	assert.Equal(t, fallbackWarnings, analysis.Warnings)
	assert.Equal(t, []string{interactionAdvisory}, analysis.Interactions)
	assert.False(t, analysis.AnalyzedAt.IsZero())

	// Text-only parsing still runs.
	require.Len(t, analysis.Medicines, 2)
	assert.Equal(t, "Paracetamol", analysis.Medicines[0].Name)
	assert.Equal(t, "Amoxicillin", analysis.Medicines[1].Name)
	assert.Equal(t, "John Smith", analysis.DoctorInfo.Name)
}

func TestAnalyze_FallbackWhenNarrativeEmpty(t *testing.T) {
	api := &mockAPI{askResp: &domain.AskResponse{Response: "", Success: true}}
	svc := NewAnalysisService(api, nopLogger{})

	analysis, err := svc.Analyze(context.Background(), samplePrescription)
	require.NoError(t, err)

	assert.InDelta(t, 0.7, analysis.Confidence, 1e-9)
	assert.Equal(t, fallbackWarnings, analysis.Warnings)
}

func TestAnalyze_MergesNarrativeSections(t *testing.T) {
	api := &mockAPI{askResp: &domain.AskResponse{Response: sampleNarrative, Success: true}}
	svc := NewAnalysisService(api, nopLogger{})

	text := "Dr. John Smith, MBBS\nMetformin 500mg once daily for 90 days"
	analysis, err := svc.Analyze(context.Background(), text)
	require.NoError(t, err)

	// The text-derived Metformin wins deduplication over the narrative one.
	require.Len(t, analysis.Medicines, 2)
	assert.Equal(t, "Metformin", analysis.Medicines[0].Name)
	assert.Equal(t, "500mg", analysis.Medicines[0].Dosage)
	assert.Equal(t, "Atorvastatin", analysis.Medicines[1].Name)

	// Short bullet fragments are filtered from both sections.
	assert.Equal(t, []string{
		"Take with food to reduce stomach upset",
		"Avoid alcohol while on this medication",
	}, analysis.Warnings)

	assert.Equal(t, []string{interactionAdvisory}, analysis.Interactions)
	assert.Equal(t, "John Smith", analysis.DoctorInfo.Name)
	assert.GreaterOrEqual(t, analysis.Confidence, 0.5)
}

func TestAnalyze_NarrativeWithoutMarkers(t *testing.T) {
	api := &mockAPI{askResp: &domain.AskResponse{Response: "The document appears to be a prescription.", Success: true}}
	svc := NewAnalysisService(api, nopLogger{})

	analysis, err := svc.Analyze(context.Background(), samplePrescription)
	require.NoError(t, err)

	// No sections to parse: medicines come from text alone, nothing else.
	require.Len(t, analysis.Medicines, 2)
	assert.Empty(t, analysis.Warnings)
	assert.Empty(t, analysis.Interactions)
}

func TestDedupeMedicines_FirstOccurrenceWins(t *testing.T) {
	medicines := []domain.Medicine{
		{Name: "Metformin", Dosage: "500mg"},
		{Name: "Atorvastatin", Dosage: "10mg"},
		{Name: "Metformin", Dosage: "850mg"},
	}

	deduped := dedupeMedicines(medicines)

	require.Len(t, deduped, 2)
	assert.Equal(t, "500mg", deduped[0].Dosage)
	assert.Equal(t, "Atorvastatin", deduped[1].Name)
}

func TestMedicinesFromNarrative_BoundedByPrescriberSection(t *testing.T) {
	medicines := medicinesFromNarrative(sampleNarrative)

	require.Len(t, medicines, 2)
	assert.Equal(t, "Metformin", medicines[0].Name)
	assert.Equal(t, "850mg", medicines[0].Dosage)
	assert.Equal(t, domain.MedicineTablet, medicines[0].Type)
	assert.Equal(t, "Atorvastatin", medicines[1].Name)
}
