package models

// Role gates which profile fields and dashboard widgets apply.
type Role string

const (
	RoleNone      Role = ""
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
	RoleInvestor  Role = "investor"
)

// Roles lists the selectable roles.
var Roles = []Role{RoleStudent, RoleProfessor, RoleInvestor}

// Valid reports whether r is one of the selectable roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleProfessor, RoleInvestor:
		return true
	}
	return false
}

// StudentProfile holds the fields a student fills in.
type StudentProfile struct {
	University     string `json:"university"`
	Degree         string `json:"degree"`
	GraduationYear int    `json:"graduation_year,omitempty"`
	Skills         string `json:"skills"`
	LinkedIn       string `json:"linkedin,omitempty"`
	Portfolio      string `json:"portfolio,omitempty"`
}

// ProfessorProfile holds the fields a professor fills in.
type ProfessorProfile struct {
	Company           string `json:"company"`
	Industry          string `json:"industry"`
	WorkExperience    string `json:"work_experience"`
	ExpertiseAreas    string `json:"expertise_areas"`
	OpenForMentorship bool   `json:"open_for_mentorship"`
	Availability      string `json:"availability,omitempty"`
}

// InvestorProfile holds the fields an investor fills in.
type InvestorProfile struct {
	InvestmentFirm       string `json:"investment_firm"`
	InvestmentCategories string `json:"investment_categories"`
	MinInvestment        int64  `json:"min_investment"`
	MaxInvestment        int64  `json:"max_investment"`
	StageOfInterest      string `json:"stage_of_interest"`
}

// Profile carries at most one role-specific section.
type Profile struct {
	Student   *StudentProfile   `json:"student,omitempty"`
	Professor *ProfessorProfile `json:"professor,omitempty"`
	Investor  *InvestorProfile  `json:"investor,omitempty"`
}

// DefaultProfile returns the empty profile shape for a role.
func DefaultProfile(r Role) Profile {
	switch r {
	case RoleStudent:
		return Profile{Student: &StudentProfile{}}
	case RoleProfessor:
		return Profile{Professor: &ProfessorProfile{}}
	case RoleInvestor:
		return Profile{Investor: &InvestorProfile{}}
	}
	return Profile{}
}

// Clone deep-copies the profile sections.
func (p Profile) Clone() Profile {
	var out Profile
	if p.Student != nil {
		s := *p.Student
		out.Student = &s
	}
	if p.Professor != nil {
		s := *p.Professor
		out.Professor = &s
	}
	if p.Investor != nil {
		s := *p.Investor
		out.Investor = &s
	}
	return out
}

// User is the authenticated actor as stored between runs.
type User struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Type           Role    `json:"type"`
	ProfilePicture string  `json:"profilePicture,omitempty"`
	Profile        Profile `json:"profile"`
}
