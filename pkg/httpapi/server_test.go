package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-tripsurvey/components/tourcodes"
	"github.com/goliatone/go-tripsurvey/pkg/contract"
	"github.com/goliatone/go-tripsurvey/pkg/engine"
	"github.com/goliatone/go-tripsurvey/pkg/httpapi"
	"github.com/goliatone/go-tripsurvey/pkg/payload"
	"github.com/goliatone/go-tripsurvey/pkg/persistence"
	"github.com/goliatone/go-tripsurvey/pkg/testsupport"
	"github.com/goliatone/go-tripsurvey/pkg/transport"
)

func newServer(t *testing.T, sender transport.Sender, options ...httpapi.Option) http.Handler {
	t.Helper()
	eng, err := engine.New(testsupport.Context(), persistence.NewMemoryStore(), sender)
	require.NoError(t, err)
	srv, err := httpapi.New(eng, options...)
	require.NoError(t, err)
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(target))
}

func TestNew_RequiresEngine(t *testing.T) {
	_, err := httpapi.New(nil)
	assert.ErrorIs(t, err, httpapi.ErrEngineRequired)
}

func TestHealth(t *testing.T) {
	rec := do(t, newServer(t, nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSetAnswer_RegeneratesQuestionnaire(t *testing.T) {
	h := newServer(t, nil)

	rec := do(t, h, http.MethodPut, "/answers/tour_nights", `{"value":"3"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var change engine.Change
	decodeBody(t, rec, &change)
	assert.True(t, change.Changed)
	assert.True(t, change.Regenerated)

	rec = do(t, h, http.MethodPut, "/answers/hotel_3_name", `{"value":"Riad"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &change)
	assert.Equal(t, []string{"hotel_3"}, change.RelabeledSections)

	rec = do(t, h, http.MethodGet, "/questionnaire", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Titles      map[string]string `json:"titles"`
		ActionLabel string            `json:"actionLabel"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "Riad", body.Titles["hotel_3"])
	assert.Equal(t, engine.ActionSave, body.ActionLabel)
}

func TestAnswers_ErrorsMapToStatus(t *testing.T) {
	h := newServer(t, nil)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
	}{
		{"unknown field", http.MethodPut, "/answers/nope", `{"value":"x"}`, http.StatusNotFound},
		{"action field", http.MethodPut, "/answers/transport_add", `{"value":"x"}`, http.StatusUnprocessableEntity},
		{"kind mismatch", http.MethodPost, "/answers/your_name/options", `{"option":"x","present":true}`, http.StatusUnprocessableEntity},
		{"missing value", http.MethodPut, "/answers/your_name", `{}`, http.StatusBadRequest},
		{"bad json", http.MethodPut, "/answers/your_name", `{`, http.StatusBadRequest},
		{"unknown action", http.MethodPost, "/actions/launch", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())
		})
	}
}

func TestToggleOptionsAndClear(t *testing.T) {
	h := newServer(t, nil)

	rec := do(t, h, http.MethodPost, "/answers/plastic_bottles_actions/options", `{"option":"Used refill app","present":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/answers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stored map[string]any
	decodeBody(t, rec, &stored)
	assert.Equal(t, []any{"Used refill app"}, stored["plastic_bottles_actions"])

	rec = do(t, h, http.MethodDelete, "/answers", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/answers", "")
	assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestAddTransportAction(t *testing.T) {
	h := newServer(t, nil)

	rec := do(t, h, http.MethodPost, "/actions/add_transport", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var change engine.Change
	decodeBody(t, rec, &change)
	assert.True(t, change.Regenerated)

	rec = do(t, h, http.MethodGet, "/questionnaire", "")
	assert.Contains(t, rec.Body.String(), `"transport_2"`)
}

func TestSubmit_PartialSave(t *testing.T) {
	sender := &testsupport.CaptureSender{}
	h := newServer(t, sender)

	rec := do(t, h, http.MethodPut, "/answers/your_name", `{"value":"Sam"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/submit", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result engine.Result
	decodeBody(t, rec, &result)
	assert.False(t, result.Final)
	assert.Equal(t, engine.StatusSaved, result.Status)
	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Sam", sent[0].Data["your_name"])
}

func TestSubmit_Failures(t *testing.T) {
	rec := do(t, newServer(t, nil), http.MethodPost, "/submit", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body struct {
		Status string `json:"status"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, engine.StatusMissingEndpoint, body.Status)

	failing := &testsupport.CaptureSender{Err: transport.ErrSendFailed}
	rec = do(t, newServer(t, failing), http.MethodPost, "/submit", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	decodeBody(t, rec, &body)
	assert.Equal(t, engine.StatusSubmitFailed, body.Status)
}

func TestRecipient(t *testing.T) {
	h := newServer(t, nil)

	rec := do(t, h, http.MethodGet, "/recipient", "")
	var resp struct {
		Choice  string `json:"choice"`
		Address string `json:"address"`
		Status  string `json:"status"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, engine.StatusSelectRecipient, resp.Status)

	rec = do(t, h, http.MethodPut, "/recipient", `{"choice":"other","other":"pm@explore.co.uk"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/recipient", "")
	resp.Status = ""
	decodeBody(t, rec, &resp)
	assert.Equal(t, payload.OtherRecipient, resp.Choice)
	assert.Equal(t, "pm@explore.co.uk", resp.Address)
	assert.Empty(t, resp.Status)
}

func TestReportAndContract(t *testing.T) {
	h := newServer(t, nil, httpapi.WithContractInfo(contract.Info{Title: "Collector"}))

	rec := do(t, h, http.MethodGet, "/report", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, rec.Body.String(), "Hotel 1")

	rec = do(t, h, http.MethodGet, "/contract", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var doc map[string]any
	decodeBody(t, rec, &doc)
	assert.Equal(t, "3.0.3", doc["openapi"])
}

func TestTourCodesMounted(t *testing.T) {
	h := newServer(t, nil, httpapi.WithTourCodes([]tourcodes.Code{{Code: "MRC", Name: "Morocco"}}))

	rec := do(t, h, http.MethodGet, "/tour-codes?q=mr", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[{"value":"MRC","label":"MRC - Morocco"}]}`, rec.Body.String())
}

func TestConcurrentWritesAreSerialised(t *testing.T) {
	h := newServer(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			do(t, h, http.MethodPost, "/actions/add_transport", "")
		}()
	}
	wg.Wait()

	rec := do(t, h, http.MethodGet, "/answers", "")
	var stored map[string]any
	decodeBody(t, rec, &stored)
	assert.Equal(t, "10", stored["transport_count"])
}
