package echoweb

import (
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/eduspace/web/core/permission"
)

//go:embed templates
var templatesFS embed.FS

var pageNames = []string{
	"login",
	"dashboard",
	"subject",
	"assignment",
	"profile",
	"createuser",
	"metrics",
	"notfound",
	"error",
}

var templateFuncs = template.FuncMap{
	"datetime": func(t time.Time) string { return t.Local().Format("02.01.2006 15:04") },
	"datetimeLocal": func(t time.Time) string {
		// value format of <input type="datetime-local">
		return t.Local().Format("2006-01-02T15:04")
	},
}

// renderer holds one parsed template set per page: the shared layout plus the
// page's "content" definition.
type renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*renderer)(nil)

func newRenderer() *renderer {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		pages[name] = template.Must(
			template.New("layout.gohtml").
				Funcs(templateFuncs).
				ParseFS(templatesFS, "templates/layout.gohtml", "templates/"+name+".gohtml"),
		)
	}
	return &renderer{pages: pages}
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tpl, ok := r.pages[name]
	if !ok {
		return errors.Errorf("unknown template %q", name)
	}
	return errors.Wrapf(tpl.ExecuteTemplate(w, "layout", data), "rendering %q", name)
}

// page is the view model every template receives. Data carries the
// page-specific part.
type page struct {
	Title         string
	Authenticated bool
	// UserName fills the header once the profile fetch lands.
	UserName string
	// PermsLoading drives the single layout-level loading indicator shown
	// while the capability set is being fetched.
	PermsLoading      bool
	ShowCreateUserNav bool
	Data              interface{}
}

// newPage assembles the layout-level view model. For authenticated requests
// the header name and nav gating come from the session's application context.
func (s *server) newPage(ctx echo.Context, title string, data interface{}) page {
	p := page{Title: title, Data: data}
	sess := contextSession(ctx)
	if !sess.IsAuthenticated() {
		return p
	}
	ac := s.appContext(ctx)
	p.Authenticated = true
	p.UserName = ac.Profile.Snapshot().Profile.FullName()
	p.PermsLoading = ac.Permissions.Loading()
	p.ShowCreateUserNav = ac.Permissions.Allowed(permission.CapCreateUser)
	return p
}
