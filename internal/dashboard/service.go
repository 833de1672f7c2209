// Package dashboard assembles the role-specific dashboard view.
package dashboard

import (
	"context"

	"uniconnect/internal/gateway"
	"uniconnect/internal/models"
	"uniconnect/internal/observability"
	"uniconnect/internal/session"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Widget names a dashboard panel.
type Widget string

const (
	WidgetAnalytics      Widget = "analytics"
	WidgetNotifications  Widget = "notifications"
	WidgetResources      Widget = "resources"
	WidgetDiscover       Widget = "discover"
	WidgetPeople         Widget = "people"
	WidgetActivity       Widget = "activity"
	WidgetCourses        Widget = "courses"
	WidgetProjects       Widget = "projects"
	WidgetManagedCourses Widget = "managed_courses"
	WidgetPortfolio      Widget = "portfolio"
)

var common = []Widget{
	WidgetAnalytics,
	WidgetNotifications,
	WidgetResources,
	WidgetDiscover,
	WidgetPeople,
	WidgetActivity,
}

// WidgetsFor lists the panels shown to role, common panels first.
func WidgetsFor(role models.Role) []Widget {
	widgets := append([]Widget{}, common...)
	switch role {
	case models.RoleStudent:
		widgets = append(widgets, WidgetCourses, WidgetProjects)
	case models.RoleProfessor:
		widgets = append(widgets, WidgetProjects, WidgetManagedCourses)
	case models.RoleInvestor:
		widgets = append(widgets, WidgetPortfolio)
	}
	return widgets
}

// View is a loaded dashboard. Data only carries the sections that belong to
// one of Widgets.
type View struct {
	Role     models.Role
	Widgets  []Widget
	Data     models.DashboardData
	Startups []models.Startup
	Unread   int
}

// Has reports whether w is shown.
func (v View) Has(w Widget) bool {
	for _, got := range v.Widgets {
		if got == w {
			return true
		}
	}
	return false
}

// BackendRouter picks the backend serving an actor.
type BackendRouter interface {
	For(role models.Role, actorID string) gateway.Backend
}

type Service struct {
	router BackendRouter
	log    *observability.ActionLogger
}

func NewService(router BackendRouter) *Service {
	return &Service{router: router, log: observability.NewActionLogger("dashboard")}
}

// Load fetches the dashboard for sess. Investors also get the startup list
// for their portfolio panel.
func (s *Service) Load(ctx context.Context, sess session.Session) (View, error) {
	if !sess.Authenticated() {
		return View{}, models.NewUnauthorizedError("sign in to view the dashboard")
	}
	ctx, span := observability.StartSpan(ctx, "dashboard.load", trace.SpanKindInternal,
		attribute.String("role", string(sess.Role)))
	defer span.End()

	backend := s.router.For(sess.Role, sess.ActorID)
	data, err := backend.Dashboard(ctx)
	if err != nil {
		span.SetError(err)
		s.log.LogError(ctx, "load", err, map[string]interface{}{"role": string(sess.Role)})
		return View{}, err
	}

	v := View{Role: sess.Role, Widgets: WidgetsFor(sess.Role)}
	if v.Has(WidgetPortfolio) {
		startups, err := backend.ListStartups(ctx)
		if err != nil {
			span.SetError(err)
			s.log.LogError(ctx, "load_startups", err, nil)
			return View{}, err
		}
		v.Startups = startups
	}
	v.Data = filter(data, v)
	v.Unread = UnreadCount(v.Data.Notifications)

	s.log.LogAction(ctx, "load", map[string]interface{}{
		"role":    string(sess.Role),
		"widgets": len(v.Widgets),
		"unread":  v.Unread,
	})
	return v, nil
}

func filter(d models.DashboardData, v View) models.DashboardData {
	if !v.Has(WidgetCourses) && !v.Has(WidgetManagedCourses) {
		d.Courses = nil
	}
	if !v.Has(WidgetProjects) {
		d.Projects = nil
	}
	return d
}

// UnreadCount counts notifications not yet read.
func UnreadCount(notifications []models.Notification) int {
	n := 0
	for _, notif := range notifications {
		if !notif.Read {
			n++
		}
	}
	return n
}
