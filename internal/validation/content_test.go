package validation

import (
	"strings"
	"testing"

	"uniconnect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHashtags(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"Empty", "", []string{}},
		{"Whitespace Only", "  ,  , ", []string{}},
		{"Drops Empty Keeps Duplicates", "ai, , education,ai", []string{"ai", "education", "ai"}},
		{"Keeps Hash Prefix", "#student, #library", []string{"#student", "#library"}},
		{"Single", "go", []string{"go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHashtags(tt.raw))
		})
	}
}

func TestValidateMessage(t *testing.T) {
	t.Parallel()

	got, err := ValidateMessage("  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	_, err = ValidateMessage(" \t\n")
	assert.Error(t, err)

	_, err = ValidateMessage(strings.Repeat("x", MaxCommentLength+1))
	assert.Error(t, err)
}

func TestValidatePost(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		content  string
		hashtags []string
		files    int
		wantErr  bool
	}{
		{"Content Only", "hi", nil, 0, false},
		{"Files Only", "", nil, 1, false},
		{"Nothing", "", nil, 0, true},
		{"Blank Content", "   ", []string{"ai"}, 0, true},
		{"Too Many Files", "hi", nil, MaxFilesPerPost + 1, true},
		{"Too Long", strings.Repeat("y", MaxPostLength+1), nil, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePost(tt.content, tt.hashtags, tt.files)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "campus2024", false},
		{"Too Short", "ab1", true},
		{"Too Long", strings.Repeat("a", 72) + "1", true},
		{"No Digit", "onlyletters", true},
		{"No Letter", "1234567890", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateEmail("john@example.com"))
	assert.Error(t, ValidateEmail("john@"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@x.io"))
}

func TestValidateRole(t *testing.T) {
	t.Parallel()
	r, err := ValidateRole(" Investor ")
	require.NoError(t, err)
	assert.Equal(t, models.RoleInvestor, r)

	_, err = ValidateRole("admin")
	assert.Error(t, err)
}

func TestValidateProfile(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateProfile(models.RoleStudent, models.Profile{Student: &models.StudentProfile{GraduationYear: 2024}}))
	assert.Error(t, ValidateProfile(models.RoleStudent, models.Profile{Investor: &models.InvestorProfile{}}))
	assert.Error(t, ValidateProfile(models.RoleStudent, models.Profile{Student: &models.StudentProfile{GraduationYear: 1200}}))
	assert.Error(t, ValidateProfile(models.RoleInvestor, models.Profile{Investor: &models.InvestorProfile{MinInvestment: 10, MaxInvestment: 5}}))
	assert.NoError(t, ValidateProfile(models.RoleInvestor, models.Profile{Investor: &models.InvestorProfile{MinInvestment: 50000, MaxInvestment: 500000}}))
	assert.Error(t, ValidateProfile(models.RoleNone, models.Profile{}))
}
