// Package console is the terminal front-end. It renders the shell's
// login screen and the three dashboards as text, and turns typed
// commands into controller calls.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/aanand-mishra/student-portal/internal/dashboard"
	"github.com/aanand-mishra/student-portal/internal/resource"
	"github.com/aanand-mishra/student-portal/internal/shell"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	isTerminalFunc   = term.IsTerminal   // mockable

	errQuit  = errors.New("quit")
	errNoRow = errors.New("no such row")
)

// usageError is printed as-is.
type usageError string

func (e usageError) Error() string { return string(e) }

// API is every endpoint the console reaches through the dashboards.
type API interface {
	shell.Authenticator
	dashboard.SuperAdminAPI
	dashboard.ClassAdminAPI
	dashboard.StudentAPI
}

// board is what every dashboard offers.
type board interface {
	Open(ctx context.Context) error
	Close()
	Select(ctx context.Context, tab dashboard.Tab) error
	Reload(ctx context.Context) error
	Tabs() []dashboard.Tab
	Active() dashboard.Tab
}

// screen is a dashboard plus its text rendering and commands.
type screen interface {
	board
	title() string
	render(w io.Writer)
	exec(ctx context.Context, c *Console, cmd string, args []string) (bool, error)
	help() []string
}

// Console reads commands from in and writes screens to out.
type Console struct {
	api   API
	shell *shell.Shell

	in  *bufio.Scanner
	fd  int
	out io.Writer

	screen screen
}

// New returns a console on the login screen. Passwords are read without
// echo when in is a terminal.
func New(api API, in io.Reader, out io.Writer) *Console {
	fd := -1
	if f, ok := in.(*os.File); ok {
		fd = int(f.Fd())
	}
	return &Console{
		api:   api,
		shell: shell.New(api),
		in:    bufio.NewScanner(in),
		fd:    fd,
		out:   out,
	}
}

func (c *Console) printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// readLine prompts and returns one trimmed line, or io.EOF when input
// is exhausted.
func (c *Console) readLine(prompt string) (string, error) {
	c.printf("%s", prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) readPassword(prompt string) (string, error) {
	if c.fd < 0 || !isTerminalFunc(c.fd) {
		return c.readLine(prompt)
	}
	c.printf("%s", prompt)
	pwd, err := readPasswordFunc(c.fd)
	c.printf("\n")
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

// confirm is the resource.Confirm used for deletes.
func (c *Console) confirm(prompt string) bool {
	answer, err := c.readLine(prompt + " [y/N] ")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

// Run drives the console until the user quits or input ends.
func (c *Console) Run(ctx context.Context) error {
	c.printf("Student Management System\n")
	defer c.closeScreen()

	for {
		var err error
		if c.screen == nil {
			err = c.login(ctx)
		} else {
			err = c.command(ctx)
		}
		switch {
		case errors.Is(err, errQuit), errors.Is(err, io.EOF):
			c.printf("Bye.\n")
			return nil
		case err != nil:
			return err
		}
	}
}

func (c *Console) login(ctx context.Context) error {
	c.printf("\n== Login ==\n")
	if notice := c.shell.Notice(); notice != "" {
		c.printf("Error: %s\n", notice)
	}

	username, err := c.readLine("Username: ")
	if err != nil {
		return err
	}
	if username == "quit" {
		return errQuit
	}
	password, err := c.readPassword("Password: ")
	if err != nil {
		return err
	}

	state, err := c.shell.Login(ctx, username, password)
	if err != nil {
		// The notice is shown on the next pass.
		return nil
	}
	return c.open(ctx, state)
}

func (c *Console) open(ctx context.Context, state shell.State) error {
	switch state {
	case shell.StateSuperAdmin:
		c.screen = &superScreen{SuperAdmin: dashboard.NewSuperAdmin(c.api)}
	case shell.StateClassAdmin:
		c.screen = &classScreen{ClassAdmin: dashboard.NewClassAdmin(c.api)}
	case shell.StateStudent:
		c.screen = &studentScreen{Student: dashboard.NewStudent(c.api)}
	default:
		return nil
	}

	// Load failures land in the tab state and are rendered below.
	if err := c.screen.Open(ctx); err != nil {
		slog.Debug("dashboard open failed", slog.String("error", err.Error()))
	}
	c.render()
	return nil
}

func (c *Console) closeScreen() {
	if c.screen != nil {
		c.screen.Close()
		c.screen = nil
	}
}

func (c *Console) render() {
	sess, _ := c.shell.Session()
	c.printf("\n== %s ==  (%s, %s)\n", c.screen.title(), sess.Username, c.shell.State().Path())
	renderTabs(c.out, c.screen.Tabs(), c.screen.Active())
	c.screen.render(c.out)
}

func (c *Console) help() {
	c.printf("Commands:\n")
	lines := []string{
		"tab NAME          switch tab",
		"refresh           reload the current tab",
		"goto PATH         open a screen by path",
		"logout            end the session",
		"quit              leave",
	}
	lines = append(c.screen.help(), lines...)
	for _, l := range lines {
		c.printf("  %s\n", l)
	}
}

func (c *Console) command(ctx context.Context) error {
	line, err := c.readLine("> ")
	if err != nil {
		return err
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return errQuit
	case "help":
		c.help()
		return nil
	case "logout":
		c.closeScreen()
		if err := c.shell.Logout(); err != nil {
			return err
		}
		c.printf("Logged out.\n")
		return nil
	case "goto":
		if len(args) != 1 {
			c.printf("usage: goto PATH\n")
			return nil
		}
		return c.navigate(ctx, args[0])
	case "tab":
		if len(args) != 1 {
			c.printf("usage: tab NAME\n")
			return nil
		}
		err = c.screen.Select(ctx, dashboard.Tab(args[0]))
	case "refresh":
		err = c.screen.Reload(ctx)
	default:
		var handled bool
		handled, err = c.screen.exec(ctx, c, cmd, args)
		if !handled {
			c.printf("Unknown command %q. Type help.\n", cmd)
			return nil
		}
	}

	if err := c.explain(err); err != nil {
		return err
	}
	c.render()
	return nil
}

// explain prints what the rendered state does not already show. Only
// input exhaustion is returned.
func (c *Console) explain(err error) error {
	var usage usageError
	var invalid *resource.ValidationError
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		return err
	case errors.As(err, &usage):
		c.printf("%s\n", usage)
	case errors.Is(err, resource.ErrCancelled):
		c.printf("Cancelled.\n")
	case errors.Is(err, errNoRow):
		c.printf("%s\n", err)
	case errors.Is(err, dashboard.ErrUnknownTab):
		c.printf("Unknown tab. Tabs: %s\n", joinTabs(c.screen.Tabs()))
	case errors.Is(err, dashboard.ErrTabInactive), errors.Is(err, resource.ErrUnsupported):
		c.printf("Not available on this tab.\n")
	case errors.As(err, &invalid):
		// Shown in the tab's error banner.
	default:
		slog.Debug("command failed", slog.String("error", err.Error()))
	}
	return nil
}

func (c *Console) navigate(ctx context.Context, path string) error {
	state, err := c.shell.Navigate(path)
	switch {
	case errors.Is(err, shell.ErrUnknownPath):
		c.printf("Unknown path %s\n", path)
		return nil
	case errors.Is(err, shell.ErrForbidden):
		c.printf("Not permitted: %s\n", path)
		return nil
	case err != nil:
		return err
	}

	if state == shell.StateLogin {
		c.closeScreen()
		return nil
	}
	c.render()
	return nil
}

// field is one prompted form input.
type field struct {
	name   string
	label  string
	secret bool
}

// fill prompts for every field in order.
func (c *Console) fill(fields []field) (resource.Form, error) {
	form := resource.Form{}
	for _, f := range fields {
		read := c.readLine
		if f.secret {
			read = c.readPassword
		}
		v, err := read(f.label + ": ")
		if err != nil {
			return nil, err
		}
		form[f.name] = v
	}
	return form, nil
}

// choose lists options and maps the typed number to its id. Anything
// else yields "", which the form's required check rejects.
func (c *Console) choose(label string, options []string, ids []string) (string, error) {
	c.printf("%s:\n", label)
	for i, o := range options {
		c.printf("  %d) %s\n", i+1, o)
	}
	answer, err := c.readLine(label + " #: ")
	if err != nil {
		return "", err
	}
	var n int
	if _, err := fmt.Sscanf(answer, "%d", &n); err != nil || n < 1 || n > len(ids) {
		return "", nil
	}
	return ids[n-1], nil
}
