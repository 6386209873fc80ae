package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	cases := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
		wantVary   bool
	}{
		{name: "listed origin", allowed: []string{"https://futplan.example.com"}, method: http.MethodGet, origin: "https://futplan.example.com", wantStatus: http.StatusOK, wantAllow: "https://futplan.example.com", wantVary: true},
		{name: "wildcard preflight", allowed: []string{"*"}, method: http.MethodOptions, origin: "https://futplan.example.com", wantStatus: http.StatusNoContent, wantAllow: "*"},
		{name: "unlisted origin", allowed: []string{"https://allowed.example.com"}, method: http.MethodGet, origin: "https://other.example.com", wantStatus: http.StatusOK},
		{name: "no origin header", allowed: []string{"*"}, method: http.MethodGet, wantStatus: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := CORS(tc.allowed, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tc.method, "/v1/matches", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d want %d", rec.Code, tc.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantAllow {
				t.Fatalf("Access-Control-Allow-Origin = %q want %q", got, tc.wantAllow)
			}
			if got := rec.Header().Get("Vary") == "Origin"; got != tc.wantVary {
				t.Fatalf("Vary: Origin present = %v want %v", got, tc.wantVary)
			}
		})
	}
}

func TestShouldTraceRequest(t *testing.T) {
	cases := map[string]bool{
		"/healthz":                  false,
		" /HEALTHZ ":                false,
		"/readyz":                   false,
		"/livez":                    false,
		"/v1/matches":               true,
		"/v1/matches/m-1/dashboard": true,
		"/docs":                     true,
	}
	for path, want := range cases {
		if got := shouldTraceRequest(path); got != want {
			t.Fatalf("shouldTraceRequest(%q) = %v want %v", path, got, want)
		}
	}
}

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	cases := map[string]bool{
		"httpapi.Handler.RecordEvent":      true,
		"httpapi.Handler.DistributeRoster": true,
		"httpapi.RequestLogging":           false,
		"httpapi.RequireRole":              false,
		"httpapi.writeError":               false,
	}
	for name, want := range cases {
		if got := shouldCreateHTTPAPISpan(name); got != want {
			t.Fatalf("shouldCreateHTTPAPISpan(%q) = %v want %v", name, got, want)
		}
	}
}

func TestResolveClientIP(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "fly header wins", headers: map[string]string{"Fly-Client-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"}, remote: "10.0.0.1:5000", want: "203.0.113.7"},
		{name: "first forwarded hop", headers: map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.2"}, remote: "10.0.0.1:5000", want: "198.51.100.1"},
		{name: "socket address", remote: "192.0.2.10:41000", want: "192.0.2.10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/matches", nil)
			req.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			if got := resolveClientIP(req); got != tc.want {
				t.Fatalf("resolveClientIP = %q want %q", got, tc.want)
			}
		})
	}
}
