package models

// RationalePointCount is the exact number of justification bullets a result carries
const RationalePointCount = 3

// Identification is the model's single best guess for the photographed organism
type Identification struct {
	NameKO          string   `json:"name_ko"`
	NameEN          string   `json:"name_en"`
	Confidence      float64  `json:"confidence"`
	RationalePoints []string `json:"rationale_points"`
}

// AnalysisResult is the validated reply returned to the client.
// Values are only produced by the response parser after schema validation.
type AnalysisResult struct {
	Top1     Identification `json:"top1"`
	Warnings []string       `json:"warnings"`
}

// AnalysisRequest is one uploaded photo plus the optional category hint
type AnalysisRequest struct {
	RequestID string
	Image     []byte
	MIMEType  string
	Hint      string
}
