// Package router wires every dev-server route to its handler and role
// gate.
package router

import (
	"net/http"

	"github.com/aanand-mishra/student-portal/internal/auth"
	"github.com/aanand-mishra/student-portal/internal/http/handlers/admin"
	"github.com/aanand-mishra/student-portal/internal/http/handlers/attendance"
	"github.com/aanand-mishra/student-portal/internal/http/handlers/class"
	"github.com/aanand-mishra/student-portal/internal/http/handlers/health"
	"github.com/aanand-mishra/student-portal/internal/http/handlers/login"
	"github.com/aanand-mishra/student-portal/internal/http/handlers/mark"
	"github.com/aanand-mishra/student-portal/internal/http/handlers/portal"
	"github.com/aanand-mishra/student-portal/internal/http/handlers/student"
	"github.com/aanand-mishra/student-portal/internal/http/handlers/subject"
	"github.com/aanand-mishra/student-portal/internal/http/middleware"
	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
)

// New builds the route table.
//
// Go 1.22+ ServeMux matches on method and path, so "GET /students" and
// "POST /students" are separate routes and {id} is read with
// r.PathValue("id").
func New(storage storage.Storage, sessions *auth.Sessions) *http.ServeMux {
	g := middleware.Guard{Sessions: sessions, Storage: storage}
	superAdmin := types.RoleSuperAdmin
	classAdmin := types.RoleAdmin
	self := types.RoleStudent

	router := http.NewServeMux()

	router.HandleFunc("GET /health", health.Get())
	router.HandleFunc("POST /login", login.New(storage, sessions))

	router.HandleFunc("GET /classes", g.Require(class.GetList(storage), superAdmin))
	router.HandleFunc("POST /classes", g.Require(class.New(storage), superAdmin))
	router.HandleFunc("DELETE /classes/{id}", g.Require(class.Delete(storage), superAdmin))
	router.HandleFunc("POST /admins/{id}", g.Require(admin.ResetPassword(storage), superAdmin))
	router.HandleFunc("DELETE /admins/{id}", g.Require(admin.Delete(storage), superAdmin))
	router.HandleFunc("GET /subjects", g.Require(subject.GetList(storage), superAdmin, classAdmin))
	router.HandleFunc("POST /subjects", g.Require(subject.New(storage), superAdmin))
	router.HandleFunc("DELETE /subjects/{id}", g.Require(subject.Delete(storage), superAdmin))

	router.HandleFunc("GET /students", g.Require(student.GetList(storage), classAdmin))
	router.HandleFunc("POST /students", g.Require(student.New(storage), classAdmin))
	router.HandleFunc("DELETE /students/{id}", g.Require(student.Delete(storage), classAdmin))
	router.HandleFunc("GET /attendance", g.Require(attendance.GetList(storage), classAdmin))
	router.HandleFunc("POST /attendance", g.Require(attendance.Mark(storage), classAdmin))
	router.HandleFunc("GET /marks", g.Require(mark.GetList(storage), classAdmin))
	router.HandleFunc("POST /marks", g.Require(mark.New(storage), classAdmin))

	router.HandleFunc("GET /student/info", g.Require(portal.Info(storage), self))
	router.HandleFunc("GET /student/attendance", g.Require(portal.Attendance(storage), self))
	router.HandleFunc("GET /student/performance", g.Require(portal.Performance(storage), self))

	return router
}
