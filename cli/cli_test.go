package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datambit/datambit/client/auth/mock"
	"github.com/datambit/datambit/schema"
)

type fixture struct {
	server *mock.HTTPTestAPIServer
	dir    string
	global []string
}

func newFixture(t *testing.T) *fixture {
	server, err := mock.NewHTTPTestAPIServer(mock.WithUser("analyst", "pass"))
	require.NoError(t, err)
	t.Cleanup(server.Close)
	dir := t.TempDir()
	return &fixture{
		server: server,
		dir:    dir,
		global: []string{"-u", server.URL, "-s", filepath.Join(dir, "credentials.json")},
	}
}

func (f *fixture) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	app := New(strings.NewReader(stdin), stdout, stderr)
	err := app.Run(context.Background(), append(append([]string{}, f.global...), args...))
	return stdout.String(), stderr.String(), err
}

func TestRun_Session(t *testing.T) {
	f := newFixture(t)

	stdout, _, err := f.run(t, "", "consent", "accepted")
	require.NoError(t, err)
	assert.Equal(t, "consent: accepted\n", stdout)

	stdout, _, err = f.run(t, "pass\n", "login", "--user", "analyst", "--remember")
	require.NoError(t, err)
	assert.Equal(t, "logged in as analyst\n", stdout)

	stdout, _, err = f.run(t, "", "status", "--validate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "logged in (durable store)")
	assert.Contains(t, stdout, "Token is valid for analyst")

	stdout, _, err = f.run(t, "", "logout")
	require.NoError(t, err)
	assert.Equal(t, "logged out\n", stdout)

	stdout, _, err = f.run(t, "", "status")
	require.NoError(t, err)
	assert.Equal(t, "not logged in\n", stdout)
}

func TestRun_RememberWithoutConsent(t *testing.T) {
	f := newFixture(t)
	_, stderr, err := f.run(t, "", "login", "--user", "analyst", "--password", "pass", "--remember")
	require.NoError(t, err)
	assert.Contains(t, stderr, "session kept in memory")

	stdout, _, err := f.run(t, "", "status")
	require.NoError(t, err)
	assert.Equal(t, "not logged in\n", stdout, "ephemeral session must not outlive the process")
}

func TestRun_UploadAndReports(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.run(t, "", "consent", "accepted")
	require.NoError(t, err)
	_, _, err = f.run(t, "", "login", "--user", "analyst", "--password", "pass", "--remember")
	require.NoError(t, err)

	image := filepath.Join(f.dir, "face.png")
	require.NoError(t, os.WriteFile(image, []byte("png"), 0644))
	stdout, _, err := f.run(t, "", "upload", "--media", "image", image)
	require.NoError(t, err)
	uploadID := strings.TrimSpace(stdout)
	require.NotEmpty(t, uploadID)

	stdout, _, err = f.run(t, "", "reports", "--type", "image")
	require.NoError(t, err)
	page := &schema.ReportPage{}
	require.NoError(t, json.Unmarshal([]byte(stdout), page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, uploadID, page.Data[0].UploadID)

	stdout, _, err = f.run(t, "", "report", uploadID)
	require.NoError(t, err)
	detail := &schema.ReportDetail{}
	require.NoError(t, json.Unmarshal([]byte(stdout), detail))
	require.Len(t, detail.FileUploads, 1)
	assert.Equal(t, "face.png", detail.FileUploads[0].FileMetadata.Filename)
	assert.Equal(t, "image/png", detail.FileUploads[0].FileMetadata.ContentType)

	_, _, err = f.run(t, "", "upload", "--media", "image")
	assert.Error(t, err)
}

func TestRun_Support(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.run(t, "", "consent", "accepted")
	require.NoError(t, err)
	_, _, err = f.run(t, "", "login", "--user", "analyst", "--password", "pass", "-r")
	require.NoError(t, err)

	stdout, _, err := f.run(t, "", "support", "--reason", "wrong verdict")
	require.NoError(t, err)
	ticketID := strings.TrimSpace(stdout)

	stdout, _, err = f.run(t, "", "tickets")
	require.NoError(t, err)
	var tickets []*schema.SupportTicket
	require.NoError(t, json.Unmarshal([]byte(stdout), &tickets))
	require.Len(t, tickets, 1)
	assert.Equal(t, ticketID, tickets[0].TicketID)
}

func TestRun_LoginRequired(t *testing.T) {
	f := newFixture(t)
	_, stderr, err := f.run(t, "", "tickets")
	assert.ErrorIs(t, err, schema.ErrTokenMissing)
	assert.Contains(t, stderr, "login required")
	assert.Equal(t, 0, f.server.Calls(schema.EndpointSupportTickets))
}

func TestRun_RegisterAndAccess(t *testing.T) {
	f := newFixture(t)
	stdout, _, err := f.run(t, "", "register", "--user", "new", "--password", "pw", "--code", f.server.AccessCode)
	require.NoError(t, err)
	assert.Equal(t, "user registered\n", stdout)

	stdout, _, err = f.run(t, "", "reset-password", "--user", "new")
	require.NoError(t, err)
	assert.Equal(t, "OTP sent\n", stdout)
	stdout, _, err = f.run(t, "changed\n", "reset-password", "--user", "new", "--code", f.server.ResetCode("new"))
	require.NoError(t, err)
	assert.Equal(t, "Password updated\n", stdout)

	_, _, err = f.run(t, "", "access", "--name", "Ada", "--email", "ada@acme.test", "--organisation", "Acme")
	require.NoError(t, err)
	require.Len(t, f.server.AccessRequests(), 1)
}

func TestRun_Config(t *testing.T) {
	f := newFixture(t)
	config := filepath.Join(f.dir, "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte("baseURL: "+f.server.URL+"\nstore:\n  memory: true\n"), 0644))

	stdout := &bytes.Buffer{}
	app := New(strings.NewReader(""), stdout, &bytes.Buffer{})
	err := app.Run(context.Background(), []string{"-f", config, "login", "--user", "analyst", "--password", "pass"})
	require.NoError(t, err)
	assert.Equal(t, "logged in as analyst\n", stdout.String())
}

func TestExtractConfigPath(t *testing.T) {
	testCases := []struct {
		description string
		args        []string
		expect      string
	}{
		{description: "short", args: []string{"-f", "a.yaml", "status"}, expect: "a.yaml"},
		{description: "long", args: []string{"status", "--config", "b.yaml"}, expect: "b.yaml"},
		{description: "assignment", args: []string{"--config=c.yaml"}, expect: "c.yaml"},
		{description: "absent", args: []string{"status"}, expect: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expect, extractConfigPath(tc.args))
		})
	}
}
