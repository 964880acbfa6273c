// Package catalog holds the static diagnosis pools used to seed patients.
package catalog

import "medquest/internal/domain"

// Common conditions a first-year resident is expected to recognise.
var Common = []string{
	"Common cold",
	"Influenza",
	"Acute bronchitis",
	"Streptococcal pharyngitis",
	"Acute otitis media",
	"Acute sinusitis",
	"Urinary tract infection",
	"Gastroenteritis",
	"Migraine",
	"Tension headache",
	"Allergic rhinitis",
	"Conjunctivitis",
	"Iron deficiency anemia",
	"Gastroesophageal reflux disease",
	"Essential hypertension",
	"Type 2 diabetes mellitus",
	"Asthma",
	"Lower back strain",
	"Contact dermatitis",
	"Constipation",
}

// Medium conditions need a more careful history to tell apart.
var Medium = []string{
	"Community-acquired pneumonia",
	"Acute appendicitis",
	"Acute cholecystitis",
	"Peptic ulcer disease",
	"Hypothyroidism",
	"Hyperthyroidism",
	"Kidney stones",
	"Deep vein thrombosis",
	"Gout",
	"Rheumatoid arthritis",
	"Irritable bowel syndrome",
	"Celiac disease",
	"Infectious mononucleosis",
	"Shingles",
	"Lyme disease",
	"Atrial fibrillation",
	"Generalized anxiety disorder",
	"Major depressive disorder",
}

// Hard conditions are rare or present with misleading symptoms.
var Hard = []string{
	"Addison's disease",
	"Cushing's syndrome",
	"Pheochromocytoma",
	"Systemic lupus erythematosus",
	"Sarcoidosis",
	"Multiple sclerosis",
	"Myasthenia gravis",
	"Guillain-Barre syndrome",
	"Wilson's disease",
	"Hemochromatosis",
	"Takayasu arteritis",
	"Acute intermittent porphyria",
	"Infective endocarditis",
	"Aortic dissection",
	"Pulmonary embolism",
	"Amyloidosis",
}

var (
	easyPool   = Common
	mediumPool = concat(Common, Medium)
	hardPool   = concat(Common, Medium, Hard)
)

func concat(lists ...[]string) []string {
	var n int
	for _, l := range lists {
		n += len(l)
	}
	out := make([]string, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// PoolFor returns the candidate diseases for a difficulty. Pools are nested:
// every easy disease is also a medium candidate and every medium one a hard
// candidate. Unknown difficulties get the hard pool.
// Callers must not modify the returned slice.
func PoolFor(d domain.Difficulty) []string {
	switch d {
	case domain.DifficultyEasy:
		return easyPool
	case domain.DifficultyMedium:
		return mediumPool
	default:
		return hardPool
	}
}
