package domain

import "time"

// MedicineType classifies the form a medicine is dispensed in.
type MedicineType string

const (
	MedicineTablet    MedicineType = "TABLET"
	MedicineCapsule   MedicineType = "CAPSULE"
	MedicineSyrup     MedicineType = "SYRUP"
	MedicineInjection MedicineType = "INJECTION"
	MedicineDrops     MedicineType = "DROPS"
	MedicineCream     MedicineType = "CREAM"
	MedicineOintment  MedicineType = "OINTMENT"
	MedicineInhaler   MedicineType = "INHALER"
	MedicineOther     MedicineType = "OTHER"
)

// Medicine is one medication entry recovered from a prescription.
// Two entries are considered the same medicine when their names match exactly.
type Medicine struct {
	Name         string       `json:"name"`
	GenericName  string       `json:"generic_name"`
	Dosage       string       `json:"dosage"`
	Frequency    string       `json:"frequency"`
	Duration     string       `json:"duration"`
	Instructions string       `json:"instructions"`
	SideEffects  []string     `json:"side_effects"`
	Type         MedicineType `json:"type"`
}

// DoctorInfo holds prescriber details recovered from the extracted text.
// Fields that cannot be recovered carry a sentinel placeholder rather than an
// empty string so the client never renders a blank field.
type DoctorInfo struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Hospital       string `json:"hospital"`
	LicenseNumber  string `json:"license_number"`
	PhoneNumber    string `json:"phone_number"`
}

// Sentinel values for missing prescriber fields.
const (
	SentinelDoctorName     = "Doctor information not found"
	SentinelSpecialization = "Not specified"
	SentinelHospital       = "Hospital/Clinic not specified"
	SentinelLicenseNumber  = "Not available"
	SentinelPhoneNumber    = "Not available"
)

// PrescriptionAnalysis is the structured result of analyzing an extracted
// prescription. It is immutable after construction and owned by the caller.
type PrescriptionAnalysis struct {
	ID            string     `json:"id"`
	ExtractedText string     `json:"extracted_text"`
	Confidence    float64    `json:"confidence"`
	Medicines     []Medicine `json:"medicines"`
	DoctorInfo    DoctorInfo `json:"doctor_info"`
	Warnings      []string   `json:"warnings"`
	Interactions  []string   `json:"interactions"`
	AnalyzedAt    time.Time  `json:"analyzed_at"`
}
