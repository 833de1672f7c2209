package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"uniconnect/internal/models"
)

// userPayload accepts every user shape the backends have produced.
type userPayload struct {
	ID                  json.RawMessage `json:"id"`
	UserID              json.RawMessage `json:"user_id"`
	Name                string          `json:"name"`
	Username            string          `json:"username"`
	Email               string          `json:"email"`
	UserType            string          `json:"user_type"`
	Type                string          `json:"type"`
	ProfilePicture      string          `json:"profile_picture"`
	ProfilePictureCamel string          `json:"profilePicture"`
	Profile             models.Profile  `json:"profile"`
}

// ParseUser normalizes a backend or persisted user record.
func ParseUser(raw []byte) (models.User, error) {
	var p userPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.User{}, fmt.Errorf("decode user: %w", err)
	}

	id := rawID(p.ID)
	if id == "" {
		id = rawID(p.UserID)
	}
	if id == "" {
		return models.User{}, fmt.Errorf("user record has no id")
	}

	u := models.User{
		ID:             id,
		Name:           firstNonEmpty(p.Name, p.Username),
		Email:          p.Email,
		ProfilePicture: firstNonEmpty(p.ProfilePicture, p.ProfilePictureCamel),
		Profile:        p.Profile,
	}
	if r := models.Role(strings.ToLower(firstNonEmpty(p.UserType, p.Type))); r.Valid() {
		u.Type = r
	}
	if u.Type != models.RoleNone && u.Profile == (models.Profile{}) {
		u.Profile = models.DefaultProfile(u.Type)
	}
	return u, nil
}

// rawID renders a JSON number or string id in its decimal string form.
func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
