package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRootCmdIncludesSubcommands(t *testing.T) {
	cmd := buildRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, name := range []string{"dashboard", "leads"} {
		assert.True(t, names[name], "expected subcommand %q to be registered", name)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := buildRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDashboardCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/leads/analytics", r.URL.Path)
		assert.Equal(t, "Loan", r.URL.Query().Get("category"))
		_, _ = w.Write([]byte(`{"success":true,"source":"server","data":{"totalLeads":3,
			"dateWiseStats":{"2024-01-02":2,"2024-01-01":1},
			"statusDistribution":{"pending":2,"approved":1,"completed":0,"rejected":0},
			"categoryDistribution":{"Loan":3},"userDistribution":{"Alice":3}}}`))
	}))
	defer srv.Close()

	out, err := execute(t, "dashboard", "--api-url", srv.URL, "--category", "Loan")
	require.NoError(t, err)

	assert.Contains(t, out, "Source: server")
	assert.Contains(t, out, "Total leads: 3")
	assert.Regexp(t, `pending\s+2\s+#3B82F6`, out)
	assert.NotContains(t, out, "completed")
	assert.Less(t, bytes.Index([]byte(out), []byte("2024-01-01")), bytes.Index([]byte(out), []byte("2024-01-02")))
}

func TestDashboardCommand_RejectsBadDate(t *testing.T) {
	_, err := execute(t, "dashboard", "--api-url", "http://127.0.0.1:1", "--start", "yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--start")
}

func TestLeadsCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/leads", r.URL.Path)
		assert.Equal(t, "approved", r.URL.Query().Get("status"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"leads":[
			{"id":"65a000000000000000000001","customerName":"Ravi","category":"Loan","status":"approved","createdAt":"2024-01-02T03:04:05Z"}
		],"total":1,"page":1,"limit":20,"hasNextPage":false}}`))
	}))
	defer srv.Close()

	out, err := execute(t, "leads", "--api-url", srv.URL, "--status", "Approved")
	require.NoError(t, err)
	assert.Contains(t, out, "65a000000000000000000001")
	assert.Contains(t, out, "Ravi")
	assert.Contains(t, out, "2024-01-02T03:04:05Z")
	assert.Contains(t, out, "Page 1, 1 of 1 leads")
}

func TestLeadsCommand_RejectsUnknownStatus(t *testing.T) {
	_, err := execute(t, "leads", "--status", "lost")
	require.Error(t, err)
}
