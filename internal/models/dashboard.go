package models

import (
	"bytes"
	"encoding/json"
)

// AnalyticsPoint is one month of activity for the analytics chart.
type AnalyticsPoint struct {
	Name        string `json:"name"`
	Posts       int    `json:"posts"`
	Engagement  int    `json:"engagement"`
	Connections int    `json:"connections"`
}

// Project is a tracked piece of work on the dashboard.
type Project struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Progress      int    `json:"progress"`
	Collaborators int    `json:"collaborators"`
	DueDate       string `json:"dueDate"`
}

type Notification struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Time        string `json:"time"`
	Read        bool   `json:"read"`
}

type Resource struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Type   string  `json:"type"`
	Author string  `json:"author"`
	Rating float64 `json:"rating"`
}

// RecommendedUser is a person suggested for a connection.
type RecommendedUser struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Role              string `json:"role"`
	Type              Role   `json:"type"`
	MutualConnections int    `json:"mutualConnections"`
	IsConnected       bool   `json:"isConnected"`
}

type Activity struct {
	ID       string `json:"id"`
	Person   string `json:"person"`
	Activity string `json:"activity"`
	Target   string `json:"target"`
	Time     string `json:"time"`
}

// UnmarshalJSON accepts person as a plain name or as {"name": ...}.
func (a *Activity) UnmarshalJSON(b []byte) error {
	type plain Activity
	var aux struct {
		plain
		Person json.RawMessage `json:"person"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*a = Activity(aux.plain)
	person := bytes.TrimSpace(aux.Person)
	switch {
	case len(person) == 0 || bytes.Equal(person, []byte("null")):
	case person[0] == '{':
		var p struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(person, &p); err != nil {
			return err
		}
		a.Person = p.Name
	default:
		if err := json.Unmarshal(person, &a.Person); err != nil {
			return err
		}
	}
	return nil
}

type DiscoverItem struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Author string   `json:"author"`
	Type   string   `json:"type"`
	Image  string   `json:"image,omitempty"`
	Tags   []string `json:"tags"`
}

type Course struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Instructor string `json:"instructor"`
	Progress   int    `json:"progress"`
	Status     string `json:"status"`
	Duration   int    `json:"duration"`
}

// DashboardData is the payload returned by the dashboard endpoint.
type DashboardData struct {
	Analytics       []AnalyticsPoint  `json:"analytics"`
	Projects        []Project         `json:"projects"`
	Notifications   []Notification    `json:"notifications"`
	Resources       []Resource        `json:"resources"`
	Recommended     []RecommendedUser `json:"recommended_users"`
	Activity        []Activity        `json:"recent_activity"`
	Discover        []DiscoverItem    `json:"discover"`
	Courses         []Course          `json:"courses"`
	TrendingTopics  []string          `json:"trending_topics"`
	Posts           []Post            `json:"-"`
	HasPostsPayload bool              `json:"-"`
}

// Startup is a student-submitted venture that investors can vote on.
type Startup struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ProblemStatement string `json:"problem_statement"`
	SolutionApproach string `json:"solution_approach"`
	BusinessModel    string `json:"business_model"`
	MarketAudience   string `json:"market_audience"`
	FundingRequired  string `json:"funding_required"`
	Category         string `json:"category"`
	StudentName      string `json:"student_name"`
	Votes            int    `json:"votes"`
	Voted            bool   `json:"voted"`
}
