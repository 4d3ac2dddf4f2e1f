package domain

// VerificationRequest carries one staff submission to the verification
// backend. Both fields are optional on the wire; absent fields are omitted
// from the multipart body entirely rather than sent empty.
type VerificationRequest struct {
	Text  string
	Image *ImageAttachment
}

// ImageAttachment is an image captured from the file picker or pasted from
// the clipboard, held in memory for the lifetime of one request.
type ImageAttachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (r *VerificationRequest) Validate() error {
	if r.Text == "" && r.Image == nil {
		return ErrEmptySubmission
	}
	return nil
}

// VerifyResponse mirrors the backend's /verify_input envelope. It is
// immutable once decoded; a new submission replaces it wholesale.
type VerifyResponse struct {
	InputText          string             `json:"input_text"`
	InputImage         string             `json:"input_image"`
	Message            string             `json:"message"`
	VerificationResult VerificationResult `json:"verification_result"`
	TTPMatches         []TTPMatch         `json:"ttp_matches,omitempty"`
}

// VerificationResult holds the model-generated assessment as loosely
// structured text. Presentation-side parsing lives in internal/render.
type VerificationResult struct {
	Raw string `json:"raw"`
}

// TTPMatch is a tactic/technique/procedure annotation attached to a
// verification result.
type TTPMatch struct {
	Category string `json:"category"`
	TTP      string `json:"ttp"`
	Source   string `json:"source"`
}
