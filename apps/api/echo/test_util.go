package echoapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kymanzi/ofisi/core"
	"github.com/kymanzi/ofisi/core/event"
	"github.com/kymanzi/ofisi/core/member"
	dummydb "github.com/kymanzi/ofisi/storage/database/dummy"
)

type testApp struct {
	server    Server
	eventSvc  *event.Service
	memberSvc *member.Service
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	conf := &core.Config{
		Env:      "test",
		TestMode: true,
		AppName:  "Ofisi",
		Server: core.ServerConfig{
			Host:            "localhost",
			Port:            "8000",
			ShutdownTimeout: time.Second,
		},
	}

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("newTestApp() failed: %v", err)
	}
	eventSvc := event.NewService(dummydb.NewEventRepository(db))
	memberSvc := member.NewService(dummydb.NewMemberRepository(db))

	validate, translator := core.NewValidator()
	event.RegisterValidators(validate, translator)

	server := NewServer(&Options{
		Conf:           conf,
		Logger:         core.StdLogger{Std: log.New(io.Discard, "", 0)},
		DisableReqLogs: true,
		EventSvc:       eventSvc,
		MemberSvc:      memberSvc,
		Validate:       validate,
		Translator:     translator,
	})
	return &testApp{server: server, eventSvc: eventSvc, memberSvc: memberSvc}
}

func (a *testApp) request(t *testing.T, method, path string, data ...[]byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.server.ServeHTTP(rec, req)
	return rec
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decodeBody() failed: %v; body = %s", err, rec.Body.String())
	}
}

func checkCode(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()

	if rec.Code != want {
		t.Errorf("code = %v; wantCode %v; body = %s", rec.Code, want, rec.Body.String())
	}
}
