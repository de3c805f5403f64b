package handlers

import (
	"net/http"
	"testing"
)

func TestListLanguages(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodGet, "/api/languages", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	langs := decode[[]struct {
		Code     string `json:"code"`
		Name     string `json:"name"`
		Greeting string `json:"greeting"`
	}](t, w)
	if len(langs) != 11 {
		t.Fatalf("expected 11 languages, got %d", len(langs))
	}
	if langs[0].Code != "en" || langs[1].Code != "zu" || langs[1].Greeting != "Sawubona" {
		t.Fatalf("unexpected catalog head: %+v", langs[:2])
	}
	if w.Header().Get("Cache-Control") == "" {
		t.Fatal("expected Cache-Control on the static catalog")
	}
}
