//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"issue_tracker/internal/app"
	"issue_tracker/internal/config"
	"issue_tracker/internal/db"
	apihttp "issue_tracker/internal/http"
	"issue_tracker/internal/service"
)

func startPostgres(t *testing.T, ctx context.Context) (*sql.DB, func()) {
	t.Helper()

	// 1. Если задан E2E_DSN, используем его (режим docker-compose)
	if dsn := os.Getenv("E2E_DSN"); dsn != "" {
		conn, err := sql.Open("postgres", dsn)
		if err != nil {
			t.Fatalf("failed to open db with E2E_DSN: %v", err)
		}

		ctxPing, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := conn.PingContext(ctxPing); err != nil {
			t.Fatalf("failed to ping db with E2E_DSN: %v", err)
		}

		return conn, func() { _ = conn.Close() }
	}

	// 2. Иначе локальный режим, поднимаем Postgres через testcontainers
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").
			WithStartupTimeout(30 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn := "postgres://test:test@" + host + ":" + mappedPort.Port() + "/testdb?sslmode=disable"

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	// контейнер слушает порт раньше, чем postgres готов принимать соединения
	deadline := time.Now().Add(30 * time.Second)
	for {
		ctxPing, cancelPing := context.WithTimeout(ctx, 2*time.Second)
		err = conn.PingContext(ctxPing)
		cancelPing()
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("failed to ping db: %v", err)
		}
		time.Sleep(500 * time.Millisecond)
	}

	teardown := func() {
		_ = conn.Close()
		_ = container.Terminate(context.Background())
	}

	return conn, teardown
}

type flow struct {
	t      *testing.T
	client *http.Client
	base   string
}

// call отправляет JSON и возвращает статус и тело ответа.
func (f *flow) call(method, path string, body any) (int, []byte) {
	f.t.Helper()

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			f.t.Fatal(err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, f.base+path, payload)
	if err != nil {
		f.t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		f.t.Fatalf("%s %s request failed: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func (f *flow) expect(want int, method, path string, body any, out any) {
	f.t.Helper()

	status, data := f.call(method, path, body)
	if status != want {
		f.t.Fatalf("%s %s: unexpected status %d, body: %s", method, path, status, string(data))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			f.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
}

func TestE2E_FullFlow(t *testing.T) {
	ctx := context.Background()

	conn, teardown := startPostgres(t, ctx)
	defer teardown()

	// схема идемпотентна, её можно применять и к уже поднятой базе docker-compose
	if err := db.Migrate(ctx, conn, config.DriverPostgres); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repos := app.NewRepositories(conn)
	svcs := service.NewServices(repos, zerolog.Nop())

	server := httptest.NewServer(apihttp.NewRouter(config.Config{AppEnv: "test"}, zerolog.Nop(), svcs))
	defer server.Close()

	f := &flow{t: t, client: server.Client(), base: server.URL}

	// логины уникальны на прогон, чтобы повторный запуск против той же базы не упирался в конфликт
	suffix := time.Now().Format("150405.000000")
	manager, dev, tester := "alice-"+suffix, "dave-"+suffix, "carol-"+suffix
	for _, login := range []string{manager, dev, tester} {
		f.expect(http.StatusCreated, http.MethodPost, "/users", map[string]string{"login": login, "name": login}, nil)
	}

	// 1) проект и состав
	var project struct {
		ID              string   `json:"id"`
		DeveloperLogins []string `json:"developer_logins"`
	}
	f.expect(http.StatusCreated, http.MethodPost, "/projects?user="+manager, map[string]string{"name": "e2e"}, &project)

	membersURL := "/projects/" + project.ID + "/members?user=" + manager + "&role=MANAGER"
	f.expect(http.StatusOK, http.MethodPost, membersURL, map[string]string{"user_login": dev, "role": "DEVELOPER"}, nil)
	f.expect(http.StatusOK, http.MethodPost, membersURL, map[string]string{"user_login": tester, "role": "TESTER"}, &project)
	if len(project.DeveloperLogins) != 1 || project.DeveloperLogins[0] != dev {
		t.Fatalf("developers = %v", project.DeveloperLogins)
	}

	// 2) веха и тикет до DONE
	var milestone struct {
		ID string `json:"id"`
	}
	f.expect(http.StatusCreated, http.MethodPost, "/projects/"+project.ID+"/milestones?user="+manager+"&role=MANAGER",
		map[string]string{"name": "M", "start_date": "2024-01-01", "end_date": "2024-01-31"}, &milestone)
	f.expect(http.StatusOK, http.MethodPatch, "/milestones/"+milestone.ID+"?user="+manager+"&role=MANAGER",
		map[string]string{"action": "ACTIVATE"}, nil)

	var ticket struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	f.expect(http.StatusCreated, http.MethodPost, "/tickets?user="+manager+"&role=MANAGER",
		map[string]string{"project_id": project.ID, "milestone_id": milestone.ID, "title": "T"}, &ticket)
	f.expect(http.StatusOK, http.MethodPatch, "/tickets/"+ticket.ID+"?user="+manager+"&role=MANAGER",
		map[string]string{"assignee_login": dev}, nil)

	devQuery := "?user=" + dev + "&role=DEVELOPER"
	for _, s := range []string{"ACCEPTED", "IN_PROGRESS", "DONE"} {
		f.expect(http.StatusOK, http.MethodPatch, "/tickets/"+ticket.ID+devQuery, map[string]string{"status": s}, &ticket)
	}
	if ticket.Status != "DONE" {
		t.Fatalf("ticket status = %s", ticket.Status)
	}

	// 3) баг: тестировщик -> разработчик -> тестировщик
	var bug struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	testerQuery := "?user=" + tester + "&role=TESTER"
	f.expect(http.StatusCreated, http.MethodPost, "/bugs"+testerQuery, map[string]string{"project_id": project.ID, "title": "crash"}, &bug)
	f.expect(http.StatusConflict, http.MethodPatch, "/bugs/"+bug.ID+testerQuery, map[string]string{"status": "FIXED"}, nil)
	f.expect(http.StatusOK, http.MethodPatch, "/bugs/"+bug.ID+devQuery, map[string]string{"assignee_login": dev, "status": "FIXED"}, nil)
	f.expect(http.StatusOK, http.MethodPatch, "/bugs/"+bug.ID+testerQuery, map[string]string{"status": "TESTED"}, nil)
	f.expect(http.StatusOK, http.MethodPatch, "/bugs/"+bug.ID+testerQuery, map[string]string{"status": "CLOSED"}, &bug)
	if bug.Status != "CLOSED" {
		t.Fatalf("bug status = %s", bug.Status)
	}

	// 4) закрываем веху и проверяем, что тикеты заморожены
	f.expect(http.StatusOK, http.MethodPatch, "/milestones/"+milestone.ID+"?user="+manager+"&role=MANAGER",
		map[string]string{"action": "CLOSE"}, nil)
	f.expect(http.StatusConflict, http.MethodPatch, "/tickets/"+ticket.ID+"?user="+manager+"&role=MANAGER",
		map[string]string{"assignee_login": dev}, nil)

	var tickets []json.RawMessage
	f.expect(http.StatusOK, http.MethodGet, "/milestones/"+milestone.ID+"/tickets", nil, &tickets)
	if len(tickets) != 1 {
		t.Fatalf("milestone tickets = %d", len(tickets))
	}
}
