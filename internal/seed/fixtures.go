package seed

import (
	"strconv"
	"time"

	"uniconnect/internal/models"
)

// DemoUsers are the three role accounts shown in demos.
func DemoUsers() []models.User {
	return []models.User{
		{
			ID: "user1", Name: "John Doe", Email: "john@example.com", Type: models.RoleStudent,
			Profile: models.Profile{Student: &models.StudentProfile{
				University: "Stanford University", Degree: "Computer Science",
				GraduationYear: 2024, Skills: "React, TypeScript, Node.js",
			}},
		},
		{
			ID: "user2", Name: "Jane Smith", Email: "jane@example.com", Type: models.RoleProfessor,
			Profile: models.Profile{Professor: &models.ProfessorProfile{
				Company: "MIT", Industry: "Computer Science", WorkExperience: "10 years",
				ExpertiseAreas: "Machine Learning, AI", OpenForMentorship: true,
			}},
		},
		{
			ID: "user3", Name: "Bob Johnson", Email: "bob@example.com", Type: models.RoleInvestor,
			Profile: models.Profile{Investor: &models.InvestorProfile{
				InvestmentFirm: "Tech Ventures", InvestmentCategories: "EdTech, AI, Blockchain",
				MinInvestment: 50000, MaxInvestment: 500000, StageOfInterest: "Seed, Series A",
			}},
		},
	}
}

// DemoPosts is the starting feed of the in-process backend.
func DemoPosts(now time.Time) []models.Post {
	mk := func(id, content string, tags []string, likes int, comments ...string) models.Post {
		p := models.Post{
			ID:        id,
			Author:    models.Author{ID: "demo", Name: "UniConnect"},
			Content:   content,
			Hashtags:  tags,
			Media:     []models.Media{},
			CreatedAt: now,
			LikeCount: likes,
			Comments:  []models.Comment{},
		}
		for i, c := range comments {
			p.Comments = append(p.Comments, models.Comment{
				ID:        id + "-c" + strconv.Itoa(i),
				Author:    p.Author,
				Content:   c,
				CreatedAt: now,
				Replies:   []models.Reply{},
			})
		}
		return p
	}
	return []models.Post{
		mk("1", "As a student, I find the new library resources incredibly useful for my research #student #library",
			[]string{"#student", "#library"}, 3, "Great resource!", "Thanks for sharing!"),
		mk("2", "Investing in renewable energy is the future. #investor #greenenergy",
			[]string{"#investor", "#greenenergy"}, 5, "I agree!", "Well said."),
		mk("3", "The latest research on quantum computing shows promising advancements. #professor #quantumcomputing",
			[]string{"#professor", "#quantumcomputing"}, 7, "Fascinating!", "Looking forward to more updates."),
	}
}

// Dashboard returns the static widget data served to every role.
func Dashboard() models.DashboardData {
	return models.DashboardData{
		Analytics: []models.AnalyticsPoint{
			{Name: "Jan", Posts: 4, Engagement: 13, Connections: 2},
			{Name: "Feb", Posts: 3, Engagement: 9, Connections: 1},
			{Name: "Mar", Posts: 5, Engagement: 17, Connections: 3},
			{Name: "Apr", Posts: 7, Engagement: 25, Connections: 4},
			{Name: "May", Posts: 6, Engagement: 20, Connections: 2},
			{Name: "Jun", Posts: 9, Engagement: 30, Connections: 5},
		},
		Projects: []models.Project{
			{ID: "proj1", Title: "AI Learning Platform", Description: "An educational platform that uses AI to personalize learning experiences", Progress: 75, Collaborators: 4, DueDate: "2023-12-15"},
			{ID: "proj2", Title: "Research Paper on Quantum Computing", Description: "A comprehensive study on quantum computing applications in cryptography", Progress: 40, Collaborators: 2, DueDate: "2024-03-20"},
			{ID: "proj3", Title: "Sustainable Energy Startup", Description: "A startup focused on developing new solar energy technologies", Progress: 25, Collaborators: 5, DueDate: "2024-06-30"},
		},
		Notifications: []models.Notification{
			{ID: "notif1", Title: "New Connection", Description: "Jane Smith has accepted your connection request", Time: "10 minutes ago"},
			{ID: "notif2", Title: "Project Update", Description: "AI Learning Platform project has been updated with new milestones", Time: "2 hours ago"},
			{ID: "notif3", Title: "Research Paper Published", Description: "Your research paper has been published in the Digital Library", Time: "1 day ago", Read: true},
		},
		Resources: []models.Resource{
			{ID: "res1", Title: "Introduction to AI", Type: "Course", Author: "Robert Chen", Rating: 4.8},
			{ID: "res2", Title: "Blockchain Technology Applications", Type: "Research Paper", Author: "Jane Smith", Rating: 4.5},
			{ID: "res3", Title: "Startup Funding Strategies", Type: "E-Book", Author: "Bob Johnson", Rating: 4.7},
			{ID: "res4", Title: "Web Development Masterclass", Type: "Video Series", Author: "Alice Johnson", Rating: 4.9},
		},
		Recommended: []models.RecommendedUser{
			{ID: "rec1", Name: "Alice Johnson", Role: "PhD Candidate", Type: models.RoleStudent, MutualConnections: 3},
			{ID: "rec2", Name: "Robert Chen", Role: "Associate Professor", Type: models.RoleProfessor, MutualConnections: 1},
			{ID: "rec3", Name: "Sarah Williams", Role: "Angel Investor", Type: models.RoleInvestor, MutualConnections: 2, IsConnected: true},
		},
		Activity: []models.Activity{
			{ID: "act1", Person: "Jane Smith", Activity: "published a new paper on", Target: "Machine Learning Applications", Time: "2 hours ago"},
			{ID: "act2", Person: "Bob Johnson", Activity: "invested in", Target: "EdTech Startup XYZ", Time: "1 day ago"},
			{ID: "act3", Person: "Alice Johnson", Activity: "completed a course on", Target: "Advanced React Development", Time: "3 days ago"},
		},
		Discover: []models.DiscoverItem{
			{ID: "disc1", Title: "AI and the Future of Education", Author: "Robert Chen", Type: "Research Paper", Tags: []string{"AI", "Education", "Future"}},
			{ID: "disc2", Title: "Sustainable Energy Innovation", Author: "Green Tech Inc.", Type: "Startup", Tags: []string{"Energy", "Sustainability", "Innovation"}},
			{ID: "disc3", Title: "Blockchain for Financial Inclusion", Author: "Sarah Williams", Type: "Project", Tags: []string{"Blockchain", "Finance", "Inclusion"}},
		},
		Courses: []models.Course{
			{ID: "course1", Title: "Introduction to AI", Instructor: "Robert Chen", Progress: 75, Status: "Active", Duration: 12},
			{ID: "course2", Title: "Data Science Fundamentals", Instructor: "Jane Smith", Progress: 100, Status: "Completed", Duration: 10},
			{ID: "course3", Title: "Blockchain Technology", Instructor: "Bob Johnson", Progress: 30, Status: "Active", Duration: 8},
		},
		TrendingTopics: []string{
			"Artificial Intelligence", "Virtual Reality", "Adaptive Learning", "EdTech Investment",
			"Remote Education", "Blockchain Credentials", "Learning Analytics", "Neuroscience",
		},
	}
}
