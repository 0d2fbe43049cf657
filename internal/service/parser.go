package service

import (
	"math"
	"regexp"
	"strings"

	"prescription-reader/internal/domain"
)

// Deterministic field extraction over raw prescription text. Every function
// here is pure: same text in, same fields out. The patterns are heuristic and
// tuned for Latin-script prescriptions; they trade precision for never
// returning an outright failure.

var (
	doctorNamePattern     = regexp.MustCompile(`(?i)Dr\.?\s+([A-Za-z\s]+)`)
	hospitalPattern       = regexp.MustCompile(`(?i)(\w+\s+(?:Clinic|Hospital|Care|Medical|Center))`)
	specializationPattern = regexp.MustCompile(`(?i)MBBS|M\.D|M\.S|MD|MS`)
	phonePattern          = regexp.MustCompile(`\d{3}[-.\s]?\d{4}|\d{10}`)
	licensePattern        = regexp.MustCompile(`(?i)(?:No|Reg|License)[:.\s]+(\d+)`)
	dosagePattern         = regexp.MustCompile(`(?i)\d+\s*(?:mg|ml|tablet|capsule)`)
	durationPattern       = regexp.MustCompile(`(?i)\d+\s*(?:days?|weeks?|months?)`)
)

// medicineLineKeywords flag a line as a medicine candidate.
var medicineLineKeywords = []string{"tablet", "capsule", "mg", "ml", "dose", "take", "daily", "twice"}

// ExtractDoctorInfo recovers prescriber details from text. Fields without a
// match carry their sentinel so the client never renders a blank field.
func ExtractDoctorInfo(text string) domain.DoctorInfo {
	info := domain.DoctorInfo{
		Name:           domain.SentinelDoctorName,
		Specialization: domain.SentinelSpecialization,
		Hospital:       domain.SentinelHospital,
		LicenseNumber:  domain.SentinelLicenseNumber,
		PhoneNumber:    domain.SentinelPhoneNumber,
	}

	if m := doctorNamePattern.FindStringSubmatch(text); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			info.Name = name
		}
	}
	if m := hospitalPattern.FindStringSubmatch(text); m != nil {
		if hospital := strings.TrimSpace(m[1]); hospital != "" {
			info.Hospital = hospital
		}
	}
	if matches := specializationPattern.FindAllString(text, -1); len(matches) > 0 {
		info.Specialization = strings.Join(matches, ", ")
	}
	if m := phonePattern.FindString(text); m != "" {
		info.PhoneNumber = m
	}
	if m := licensePattern.FindStringSubmatch(text); m != nil {
		info.LicenseNumber = m[1]
	}

	return info
}

// ExtractMedicines scans text line by line for medicine candidates. A line
// qualifies when it mentions any dosage/frequency keyword; a candidate whose
// name cannot be recovered is discarded.
func ExtractMedicines(text string) []domain.Medicine {
	var medicines []domain.Medicine
	for _, line := range strings.Split(text, "\n") {
		if !isMedicineLine(line) {
			continue
		}
		medicine := ParseMedicineLine(strings.TrimSpace(line))
		if medicine.Name == "" {
			continue
		}
		medicines = append(medicines, medicine)
	}
	return medicines
}

func isMedicineLine(line string) bool {
	lower := strings.ToLower(line)
	for _, keyword := range medicineLineKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// ParseMedicineLine parses a single candidate line into a medicine entry.
// The original line is preserved as the instructions.
func ParseMedicineLine(line string) domain.Medicine {
	return domain.Medicine{
		Name:         extractMedicineName(line),
		GenericName:  "",
		Dosage:       dosagePattern.FindString(line),
		Frequency:    extractFrequency(line),
		Duration:     extractDuration(line),
		Instructions: line,
		SideEffects:  nil,
		Type:         classifyMedicineType(line),
	}
}

// extractMedicineName picks the first word longer than three characters that
// is not a dosage/frequency token.
func extractMedicineName(line string) string {
	for _, word := range strings.Split(line, " ") {
		if len(word) <= 3 {
			continue
		}
		lower := strings.ToLower(word)
		if strings.Contains(lower, "take") || strings.Contains(lower, "daily") || strings.Contains(lower, "mg") {
			continue
		}
		return word
	}
	return ""
}

// extractFrequency classifies dosing frequency by keyword priority. The bare
// digit checks ("2"/"3"/"1") match anywhere in the line, so a dosage figure
// can trigger them; the priority order below is the contract.
func extractFrequency(line string) string {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "twice") || strings.Contains(lower, "2"):
		return "Twice daily"
	case strings.Contains(lower, "thrice") || strings.Contains(lower, "3"):
		return "Three times daily"
	case strings.Contains(lower, "once") || strings.Contains(lower, "1"):
		return "Once daily"
	case strings.Contains(lower, "daily"):
		return "Daily"
	default:
		return "As directed"
	}
}

func extractDuration(line string) string {
	if m := durationPattern.FindString(line); m != "" {
		return m
	}
	return "Not specified"
}

func classifyMedicineType(line string) domain.MedicineType {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "tablet"):
		return domain.MedicineTablet
	case strings.Contains(lower, "capsule"):
		return domain.MedicineCapsule
	case strings.Contains(lower, "syrup"):
		return domain.MedicineSyrup
	case strings.Contains(lower, "injection"):
		return domain.MedicineInjection
	case strings.Contains(lower, "drops"):
		return domain.MedicineDrops
	case strings.Contains(lower, "cream"):
		return domain.MedicineCream
	default:
		return domain.MedicineOther
	}
}

// ConfidenceScore estimates extraction quality from content markers. This is
// a heuristic signal, not a statistical estimate; the result is always within
// [0.5, 1.0].
func ConfidenceScore(text string) float64 {
	confidence := 0.5
	lower := strings.ToLower(text)
	if strings.Contains(lower, "dr.") {
		confidence += 0.1
	}
	if strings.Contains(lower, "mg") {
		confidence += 0.1
	}
	if strings.Contains(lower, "tablet") || strings.Contains(lower, "capsule") {
		confidence += 0.1
	}
	if strings.Contains(lower, "daily") {
		confidence += 0.1
	}
	if len(text) > 200 {
		confidence += 0.1
	}
	return math.Min(1.0, confidence)
}
