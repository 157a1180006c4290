package console

import (
	"context"
	"io"

	"github.com/aanand-mishra/student-portal/internal/dashboard"
	"github.com/aanand-mishra/student-portal/internal/types"
)

type superScreen struct {
	*dashboard.SuperAdmin
}

func (s *superScreen) title() string { return "Super Admin Dashboard" }

func (s *superScreen) help() []string {
	return []string{
		"add               create a class (classes tab) or subject (subjects tab)",
		"delete ROW        delete a class, subject, or admin",
		"reset ROW         set a new password for an admin (admins tab)",
	}
}

func (s *superScreen) render(w io.Writer) {
	switch s.Active() {
	case dashboard.TabClasses:
		st := s.Classes().Snapshot()
		banner(w, st.Loading, st.Error, st.Notice)
		rows := make([][]string, 0, len(st.Items))
		for _, c := range st.Items {
			admin := "-"
			if c.Admin != nil {
				admin = c.Admin.Username
			}
			rows = append(rows, []string{c.Name, admin})
		}
		table(w, "No classes found.", []string{"Class", "Admin"}, rows)

	case dashboard.TabAdmins:
		st := s.Admins().Snapshot()
		banner(w, st.Loading, st.Error, st.Notice)
		rows := make([][]string, 0, len(st.Items))
		for _, a := range st.Items {
			class := "-"
			if a.Class != nil {
				class = a.Class.Name
			}
			rows = append(rows, []string{a.Username, class})
		}
		table(w, "No admins found.", []string{"Username", "Class"}, rows)

	case dashboard.TabSubjects:
		st := s.Subjects().Snapshot()
		banner(w, st.Loading, st.Error, st.Notice)
		rows := make([][]string, 0, len(st.Items))
		for _, sub := range st.Items {
			rows = append(rows, []string{sub.Name, sub.Code})
		}
		table(w, "No subjects found.", []string{"Subject", "Code"}, rows)
	}
}

func (s *superScreen) exec(ctx context.Context, c *Console, cmd string, args []string) (bool, error) {
	switch cmd {
	case "add":
		return true, s.add(ctx, c)
	case "delete", "remove":
		ref, err := oneArg(args, cmd+" ROW")
		if err != nil {
			return true, err
		}
		return true, s.delete(ctx, c, ref)
	case "reset":
		ref, err := oneArg(args, "reset ROW")
		if err != nil {
			return true, err
		}
		return true, s.reset(ctx, c, ref)
	}
	return false, nil
}

func (s *superScreen) add(ctx context.Context, c *Console) error {
	switch s.Active() {
	case dashboard.TabClasses:
		form, err := c.fill([]field{
			{name: dashboard.FieldClassName, label: "Class name"},
			{name: dashboard.FieldAdminUsername, label: "Admin username"},
			{name: dashboard.FieldAdminPassword, label: "Admin password", secret: true},
		})
		if err != nil {
			return err
		}
		return s.Classes().Submit(ctx, form)
	case dashboard.TabSubjects:
		form, err := c.fill([]field{
			{name: dashboard.FieldSubjectName, label: "Subject name"},
			{name: dashboard.FieldSubjectCode, label: "Subject code"},
		})
		if err != nil {
			return err
		}
		return s.Subjects().Submit(ctx, form)
	}
	return dashboard.ErrTabInactive
}

func (s *superScreen) delete(ctx context.Context, c *Console, ref string) error {
	switch s.Active() {
	case dashboard.TabClasses:
		ctrl := s.Classes()
		row, err := pick(ctrl.Snapshot().Items, ref, func(cl types.SchoolClass) string { return cl.ID })
		if err != nil {
			return err
		}
		return ctrl.Delete(ctx, row.ID, c.confirm)
	case dashboard.TabAdmins:
		ctrl := s.Admins()
		row, err := pick(ctrl.Snapshot().Items, ref, func(a types.Admin) string { return a.ID })
		if err != nil {
			return err
		}
		return ctrl.Delete(ctx, row.ID, c.confirm)
	default:
		ctrl := s.Subjects()
		row, err := pick(ctrl.Snapshot().Items, ref, func(sub types.Subject) string { return sub.ID })
		if err != nil {
			return err
		}
		return ctrl.Delete(ctx, row.ID, c.confirm)
	}
}

func (s *superScreen) reset(ctx context.Context, c *Console, ref string) error {
	ctrl := s.Admins()
	if ctrl == nil {
		return dashboard.ErrTabInactive
	}
	row, err := pick(ctrl.Snapshot().Items, ref, func(a types.Admin) string { return a.ID })
	if err != nil {
		return err
	}
	pwd, err := c.readPassword("New password for " + row.Username + ": ")
	if err != nil {
		return err
	}
	return s.ResetPassword(ctx, row.ID, pwd)
}
