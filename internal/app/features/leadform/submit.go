package leadform

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/starterkit/internal/app/system/htmlsanitize"
	"github.com/dalemusser/starterkit/internal/app/system/inputval"
	"github.com/dalemusser/starterkit/internal/app/system/mailer"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxBodyBytes = 16 << 10

const (
	msgName       = "Name must be at least 2 characters."
	msgPhone      = "Please enter a valid phone number."
	msgEmail      = "Please enter a valid email."
	msgValidation = "Validation error. Please check your input."
	msgMalformed  = "Invalid request body."
	msgSent       = "Your request has been sent successfully. We will contact you shortly."
	msgUnexpected = "An unexpected error occurred. Please try again."
	msgRequired   = "Required"
)

// Lead is a submitted lead. It is mailed, never stored.
type Lead struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Validate returns the per-field messages for l.
func (l Lead) Validate() inputval.FieldErrors {
	fe := inputval.FieldErrors{}
	if !inputval.MinLength(l.Name, 2) {
		fe.Add("name", msgName)
	}
	if !inputval.MinLength(l.Phone, 10) {
		fe.Add("phone", msgPhone)
	}
	if !inputval.IsValidEmail(l.Email) {
		fe.Add("email", msgEmail)
	}
	return fe
}

type response struct {
	Success   bool                 `json:"success"`
	Message   string               `json:"message,omitempty"`
	Errors    inputval.FieldErrors `json:"errors,omitempty"`
	Mock      bool                 `json:"mock,omitempty"`
	Reference string               `json:"reference,omitempty"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/lead-form                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// Submit validates the lead and sends the notification email through the
// mock mailer. Values are checked as sent, without trimming.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var fields map[string]json.RawMessage
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&fields); err != nil || fields == nil {
		h.Log.Debug("lead form: malformed body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: msgMalformed})
		return
	}

	lead, fe := decodeLead(fields)
	if fe.HasErrors() {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Errors: fe, Message: msgValidation})
		return
	}

	ref := uuid.NewString()
	msg := mailer.BuildLeadEmail(mailer.LeadEmailData{
		SiteName:  h.Site.Profile.Name,
		Reference: ref,
		Name:      htmlsanitize.StripTags(lead.Name),
		Phone:     htmlsanitize.StripTags(lead.Phone),
		Email:     lead.Email,
	})
	msg.To = h.MailTo

	h.Log.Info("[MOCK EMAIL] lead form submitted",
		zap.String("reference", ref),
		zap.String("reply_to", lead.Email))

	if err := h.Mail.Send(msg); err != nil {
		h.Log.Error("[MOCK EMAIL] lead form send failed", zap.String("reference", ref), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, response{Success: false, Message: msgUnexpected})
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Message: msgSent, Mock: true, Reference: ref})
}

// Preflight answers the CORS preflight for the lead form.
func (h *Handler) Preflight(w http.ResponseWriter, r *http.Request) {
	hdr := w.Header()
	hdr.Set("Access-Control-Allow-Origin", "*")
	hdr.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	hdr.Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusOK)
}

// decodeLead reads the string fields of a lead. A missing or non-string
// field is reported against that field and skips its format check.
// Format checks run for the rest.
func decodeLead(fields map[string]json.RawMessage) (Lead, inputval.FieldErrors) {
	fe := inputval.FieldErrors{}
	str := func(name string) string {
		raw, ok := fields[name]
		if !ok {
			fe.Add(name, msgRequired)
			return ""
		}
		var v string
		if t := jsonType(raw); t != "string" || json.Unmarshal(raw, &v) != nil {
			fe.Add(name, "Expected string, received "+t)
			return ""
		}
		return v
	}
	lead := Lead{Name: str("name"), Phone: str("phone"), Email: str("email")}

	for field, msgs := range lead.Validate() {
		if _, bad := fe[field]; bad {
			continue
		}
		for _, m := range msgs {
			fe.Add(field, m)
		}
	}
	return lead, fe
}

func jsonType(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "undefined"
	}
	switch raw[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
