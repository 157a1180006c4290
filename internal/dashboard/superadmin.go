package dashboard

import (
	"context"

	"github.com/aanand-mishra/student-portal/internal/ordering"
	"github.com/aanand-mishra/student-portal/internal/resource"
	"github.com/aanand-mishra/student-portal/internal/types"
)

// SuperAdminAPI is the slice of the API the super-admin dashboard calls.
type SuperAdminAPI interface {
	Classes(ctx context.Context) ([]types.SchoolClass, error)
	CreateClass(ctx context.Context, c types.NewClass) error
	DeleteClass(ctx context.Context, id string) error
	ResetAdminPassword(ctx context.Context, id, password string) error
	DeleteAdmin(ctx context.Context, id string) error
	Subjects(ctx context.Context) ([]types.Subject, error)
	CreateSubject(ctx context.Context, s types.NewSubject) error
	DeleteSubject(ctx context.Context, id string) error
}

// Form field names of the super-admin forms.
const (
	FieldClassName     = "name"
	FieldAdminUsername = "adminUsername"
	FieldAdminPassword = "adminPassword"
	FieldSubjectName   = "name"
	FieldSubjectCode   = "code"
)

const (
	MsgPasswordRequired = "Password is required"
	MsgPasswordReset    = "Password reset successfully"
)

// SuperAdmin manages classes, class-admins, and the subject catalogue.
type SuperAdmin struct {
	api SuperAdminAPI
	tabs

	classes  *resource.Controller[types.SchoolClass]
	admins   *resource.Controller[types.Admin]
	subjects *resource.Controller[types.Subject]
}

// NewSuperAdmin returns the dashboard with no tab mounted yet.
func NewSuperAdmin(api SuperAdminAPI) *SuperAdmin {
	return &SuperAdmin{
		api:  api,
		tabs: tabs{order: []Tab{TabClasses, TabAdmins, TabSubjects}},
	}
}

// Open mounts the default tab.
func (d *SuperAdmin) Open(ctx context.Context) error {
	return d.Select(ctx, TabClasses)
}

// Close unmounts every controller.
func (d *SuperAdmin) Close() {
	d.unmountAll()
}

// Select switches to tab and fetches its data.
func (d *SuperAdmin) Select(ctx context.Context, tab Tab) error {
	if err := d.check(tab); err != nil {
		return err
	}
	d.classes, d.admins, d.subjects = nil, nil, nil

	switch tab {
	case TabClasses:
		d.classes = d.newClasses()
		return d.swap(ctx, tab, d.classes)
	case TabAdmins:
		d.admins = d.newAdmins()
		return d.swap(ctx, tab, d.admins)
	default:
		d.subjects = d.newSubjects()
		return d.swap(ctx, tab, d.subjects)
	}
}

// Classes is the classes tab controller; nil unless that tab is active.
func (d *SuperAdmin) Classes() *resource.Controller[types.SchoolClass] { return d.classes }

// Admins is the admins tab controller; nil unless that tab is active.
func (d *SuperAdmin) Admins() *resource.Controller[types.Admin] { return d.admins }

// Subjects is the subjects tab controller; nil unless that tab is active.
func (d *SuperAdmin) Subjects() *resource.Controller[types.Subject] { return d.subjects }

func (d *SuperAdmin) newClasses() *resource.Controller[types.SchoolClass] {
	return resource.New(resource.Config[types.SchoolClass]{
		Name:     "classes",
		Fetch:    d.api.Classes,
		Required: []string{FieldClassName, FieldAdminUsername, FieldAdminPassword},
		Create: func(ctx context.Context, f resource.Form) error {
			return d.api.CreateClass(ctx, types.NewClass{
				Name:          f[FieldClassName],
				AdminUsername: f[FieldAdminUsername],
				AdminPassword: f[FieldAdminPassword],
			})
		},
		Remove: d.api.DeleteClass,
		Messages: resource.Messages{
			Load:          "Failed to load classes. Please try again.",
			Create:        "Failed to create class. Please try again.",
			Delete:        "Failed to delete class. Please try again.",
			ConfirmDelete: "Are you sure you want to delete this class?",
		},
	})
}

// AdminsFromClasses derives the admin list from the class list; there is
// no admin listing endpoint.
func AdminsFromClasses(classes []types.SchoolClass) []types.Admin {
	admins := make([]types.Admin, 0, len(classes))
	for _, c := range classes {
		if c.Admin == nil {
			continue
		}
		admins = append(admins, types.Admin{
			ID:       c.Admin.ID,
			Username: c.Admin.Username,
			Role:     types.RoleAdmin,
			Class:    &types.ClassRef{ID: c.ID, Name: c.Name},
		})
	}
	ordering.ByKey(admins, func(a types.Admin) string { return a.Username })
	return admins
}

func (d *SuperAdmin) newAdmins() *resource.Controller[types.Admin] {
	return resource.New(resource.Config[types.Admin]{
		Name: "admins",
		Fetch: func(ctx context.Context) ([]types.Admin, error) {
			classes, err := d.api.Classes(ctx)
			if err != nil {
				return nil, err
			}
			return AdminsFromClasses(classes), nil
		},
		Remove: d.api.DeleteAdmin,
		Messages: resource.Messages{
			Load:          "Failed to load admins. Please try again.",
			Delete:        "Failed to remove admin. Please try again.",
			ConfirmDelete: "Are you sure you want to remove this admin?",
		},
	})
}

// ResetPassword sets a new password for the admin with id. An empty
// password is rejected without a request.
func (d *SuperAdmin) ResetPassword(ctx context.Context, id, password string) error {
	c := d.admins
	if c == nil {
		return ErrTabInactive
	}
	if err := resource.CheckVar("password", password, "required", MsgPasswordRequired); err != nil {
		c.Fail(MsgPasswordRequired)
		return err
	}
	return c.Do(ctx, resource.Action{
		Name:   "reset-password",
		Fail:   "Failed to reset password. Please try again.",
		Notice: MsgPasswordReset,
		Run: func(ctx context.Context) error {
			return d.api.ResetAdminPassword(ctx, id, password)
		},
	})
}

func (d *SuperAdmin) newSubjects() *resource.Controller[types.Subject] {
	return resource.New(resource.Config[types.Subject]{
		Name:      "subjects",
		Fetch:     d.api.Subjects,
		Normalize: ordering.SubjectsByName,
		Required:  []string{FieldSubjectName, FieldSubjectCode},
		Create: func(ctx context.Context, f resource.Form) error {
			return d.api.CreateSubject(ctx, types.NewSubject{
				Name: f[FieldSubjectName],
				Code: f[FieldSubjectCode],
			})
		},
		Remove: d.api.DeleteSubject,
		Messages: resource.Messages{
			Load:          "Failed to load subjects. Please try again.",
			Create:        "Failed to create subject. Please try again.",
			Delete:        "Failed to delete subject. Please try again.",
			ConfirmDelete: "Are you sure you want to delete this subject?",
		},
	})
}
