/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package biomarker

// Biomarker categories used to group the summary view.
const (
	CategoryBloodCounts      = "Blood Counts"
	CategoryLipidPanel       = "Lipid Panel"
	CategoryMetabolic        = "Metabolic"
	CategoryLiverFunction    = "Liver Function"
	CategoryVitaminsMinerals = "Vitamins & Minerals"
	CategoryEndocrine        = "Endocrine"
	CategoryInflammation     = "Inflammation"
	CategoryOther            = "Other"
)

func ptr(f float64) *float64 {
	return &f
}

// DefaultDefinitions returns the built-in catalog. Ranges are adult
// conventional-unit ranges as reported by the major US reference labs.
// This is the authoritative source synced to the database on startup.
func DefaultDefinitions() []Definition {
	return []Definition{
		// ===== BLOOD COUNTS =====
		{Name: "White Blood Cells", Unit: "x10E3/uL", Category: CategoryBloodCounts, ReferenceLow: ptr(3.4), ReferenceHigh: ptr(10.8)},
		{Name: "Red Blood Cells", Unit: "x10E6/uL", Category: CategoryBloodCounts, ReferenceLow: ptr(4.14), ReferenceHigh: ptr(5.80)},
		{Name: "Hemoglobin", Unit: "g/dL", Category: CategoryBloodCounts, ReferenceLow: ptr(12.6), ReferenceHigh: ptr(17.7)},
		{Name: "Hematocrit", Unit: "%", Category: CategoryBloodCounts, ReferenceLow: ptr(37.5), ReferenceHigh: ptr(51.0)},
		{Name: "MCV", Unit: "fL", Category: CategoryBloodCounts, ReferenceLow: ptr(79), ReferenceHigh: ptr(97)},
		{Name: "MCH", Unit: "pg", Category: CategoryBloodCounts, ReferenceLow: ptr(26.6), ReferenceHigh: ptr(33.0)},
		{Name: "MCHC", Unit: "g/dL", Category: CategoryBloodCounts, ReferenceLow: ptr(31.5), ReferenceHigh: ptr(35.7)},
		{Name: "RDW", Unit: "%", Category: CategoryBloodCounts, ReferenceLow: ptr(11.6), ReferenceHigh: ptr(15.4)},
		{Name: "Platelets", Unit: "x10E3/uL", Category: CategoryBloodCounts, ReferenceLow: ptr(150), ReferenceHigh: ptr(450)},
		{Name: "Neutrophils", Unit: "%", Category: CategoryBloodCounts, ReferenceLow: ptr(40), ReferenceHigh: ptr(70)},
		{Name: "Lymphocytes", Unit: "%", Category: CategoryBloodCounts, ReferenceLow: ptr(20), ReferenceHigh: ptr(40)},
		{Name: "Monocytes", Unit: "%", Category: CategoryBloodCounts, ReferenceLow: ptr(2), ReferenceHigh: ptr(8)},
		{Name: "Eosinophils", Unit: "%", Category: CategoryBloodCounts, ReferenceLow: ptr(1), ReferenceHigh: ptr(4)},
		{Name: "Basophils", Unit: "%", Category: CategoryBloodCounts, ReferenceLow: ptr(0.5), ReferenceHigh: ptr(1)},

		// ===== LIPID PANEL =====
		// Upper-bound-only ranges: no clinically meaningful floor.
		{Name: "Total Cholesterol", Unit: "mg/dL", Category: CategoryLipidPanel, ReferenceLow: ptr(100), ReferenceHigh: ptr(199)},
		{Name: "LDL Cholesterol", Unit: "mg/dL", Category: CategoryLipidPanel, ReferenceHigh: ptr(99)},
		{Name: "HDL Cholesterol", Unit: "mg/dL", Category: CategoryLipidPanel, ReferenceLow: ptr(39)},
		{Name: "Triglycerides", Unit: "mg/dL", Category: CategoryLipidPanel, ReferenceHigh: ptr(149)},
		{Name: "Non-HDL Cholesterol", Unit: "mg/dL", Category: CategoryLipidPanel, ReferenceHigh: ptr(129)},
		{Name: "Apolipoprotein B", Unit: "mg/dL", Category: CategoryLipidPanel, ReferenceHigh: ptr(89)},
		{Name: "Lipoprotein(a)", Unit: "nmol/L", Category: CategoryLipidPanel, ReferenceHigh: ptr(75)},

		// ===== METABOLIC =====
		{Name: "Glucose", Unit: "mg/dL", Category: CategoryMetabolic, ReferenceLow: ptr(70), ReferenceHigh: ptr(99)},
		{Name: "BUN", Unit: "mg/dL", Category: CategoryMetabolic, ReferenceLow: ptr(6), ReferenceHigh: ptr(24)},
		{Name: "Creatinine", Unit: "mg/dL", Category: CategoryMetabolic, ReferenceLow: ptr(0.76), ReferenceHigh: ptr(1.27)},
		{Name: "eGFR", Unit: "mL/min/1.73", Category: CategoryMetabolic, ReferenceLow: ptr(59)},
		{Name: "Sodium", Unit: "mmol/L", Category: CategoryMetabolic, ReferenceLow: ptr(134), ReferenceHigh: ptr(144)},
		{Name: "Potassium", Unit: "mmol/L", Category: CategoryMetabolic, ReferenceLow: ptr(3.5), ReferenceHigh: ptr(5.2)},
		{Name: "Chloride", Unit: "mmol/L", Category: CategoryMetabolic, ReferenceLow: ptr(96), ReferenceHigh: ptr(106)},
		{Name: "Carbon Dioxide", Unit: "mmol/L", Category: CategoryMetabolic, ReferenceLow: ptr(20), ReferenceHigh: ptr(29)},
		{Name: "Calcium", Unit: "mg/dL", Category: CategoryMetabolic, ReferenceLow: ptr(8.7), ReferenceHigh: ptr(10.2)},
		{Name: "Uric Acid", Unit: "mg/dL", Category: CategoryMetabolic, ReferenceLow: ptr(3.8), ReferenceHigh: ptr(8.4)},
		{Name: "Insulin", Unit: "uIU/mL", Category: CategoryMetabolic, ReferenceLow: ptr(2.6), ReferenceHigh: ptr(24.9)},

		// ===== LIVER FUNCTION =====
		{Name: "ALT", Unit: "IU/L", Category: CategoryLiverFunction, ReferenceHigh: ptr(44)},
		{Name: "AST", Unit: "IU/L", Category: CategoryLiverFunction, ReferenceHigh: ptr(40)},
		{Name: "GGT", Unit: "IU/L", Category: CategoryLiverFunction, ReferenceHigh: ptr(65)},
		{Name: "Alkaline Phosphatase", Unit: "IU/L", Category: CategoryLiverFunction, ReferenceLow: ptr(44), ReferenceHigh: ptr(121)},
		{Name: "Bilirubin, Total", Unit: "mg/dL", Category: CategoryLiverFunction, ReferenceHigh: ptr(1.2)},
		{Name: "Albumin", Unit: "g/dL", Category: CategoryLiverFunction, ReferenceLow: ptr(3.8), ReferenceHigh: ptr(4.9)},
		{Name: "Globulin, Total", Unit: "g/dL", Category: CategoryLiverFunction, ReferenceLow: ptr(1.5), ReferenceHigh: ptr(4.5)},
		{Name: "Protein, Total", Unit: "g/dL", Category: CategoryLiverFunction, ReferenceLow: ptr(6.0), ReferenceHigh: ptr(8.5)},

		// ===== VITAMINS & MINERALS =====
		{Name: "Vitamin D, 25-Hydroxy", Unit: "ng/mL", Category: CategoryVitaminsMinerals, ReferenceLow: ptr(30), ReferenceHigh: ptr(100)},
		{Name: "Vitamin B12", Unit: "pg/mL", Category: CategoryVitaminsMinerals, ReferenceLow: ptr(232), ReferenceHigh: ptr(1245)},
		{Name: "Folate", Unit: "ng/mL", Category: CategoryVitaminsMinerals, ReferenceLow: ptr(3.0)},
		{Name: "Ferritin", Unit: "ng/mL", Category: CategoryVitaminsMinerals, ReferenceLow: ptr(30), ReferenceHigh: ptr(400)},
		{Name: "Iron", Unit: "ug/dL", Category: CategoryVitaminsMinerals, ReferenceLow: ptr(38), ReferenceHigh: ptr(169)},
		{Name: "Magnesium", Unit: "mg/dL", Category: CategoryVitaminsMinerals, ReferenceLow: ptr(1.6), ReferenceHigh: ptr(2.3)},
		{Name: "Zinc", Unit: "ug/dL", Category: CategoryVitaminsMinerals, ReferenceLow: ptr(44), ReferenceHigh: ptr(115)},

		// ===== ENDOCRINE =====
		{Name: "Hemoglobin A1c", Unit: "%", Category: CategoryEndocrine, ReferenceLow: ptr(4.8), ReferenceHigh: ptr(5.6)},
		{Name: "TSH", Unit: "uIU/mL", Category: CategoryEndocrine, ReferenceLow: ptr(0.45), ReferenceHigh: ptr(4.5)},
		{Name: "Free T4", Unit: "ng/dL", Category: CategoryEndocrine, ReferenceLow: ptr(0.82), ReferenceHigh: ptr(1.77)},
		{Name: "Testosterone, Total", Unit: "ng/dL", Category: CategoryEndocrine, ReferenceLow: ptr(264), ReferenceHigh: ptr(916)},
		{Name: "Cortisol", Unit: "ug/dL", Category: CategoryEndocrine, ReferenceLow: ptr(6.2), ReferenceHigh: ptr(19.4)},

		// ===== INFLAMMATION =====
		{Name: "hs-CRP", Unit: "mg/L", Category: CategoryInflammation, ReferenceHigh: ptr(3.0)},
		{Name: "ESR", Unit: "mm/hr", Category: CategoryInflammation, ReferenceHigh: ptr(15)},
		{Name: "Homocysteine", Unit: "umol/L", Category: CategoryInflammation, ReferenceHigh: ptr(14.5)},
	}
}
