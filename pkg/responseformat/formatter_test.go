package responseformat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

type payload struct {
	Name string `json:"location_name"`
	Temp int    `json:"temp"`
}

func TestWriteResponse(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		accept      string
		wantType    string
		wantMsgPack bool
	}{
		{"default json", "/api/weather", "", ContentTypeJSON, false},
		{"format param", "/api/weather?format=msgpack", "", ContentTypeMsgPack, true},
		{"accept header", "/api/weather", "application/x-msgpack", ContentTypeMsgPack, true},
		{"unknown format", "/api/weather?format=xml", "", ContentTypeJSON, false},
	}

	f := NewFormatter()
	want := payload{Name: "Beverly Hills", Temp: 75}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			rec := httptest.NewRecorder()

			if err := f.WriteResponseWithStatus(rec, req, http.StatusCreated, want, map[string]string{"X-Test": "1"}); err != nil {
				t.Fatal(err)
			}

			if rec.Code != http.StatusCreated {
				t.Errorf("status = %d", rec.Code)
			}
			if got := rec.Header().Get("Content-Type"); got != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", got, tt.wantType)
			}
			if rec.Header().Get("X-Test") != "1" {
				t.Error("extra header not written")
			}

			var got payload
			var err error
			if tt.wantMsgPack {
				dec := msgpack.NewDecoder(rec.Body)
				dec.SetCustomStructTag("json")
				err = dec.Decode(&got)
			} else {
				err = json.NewDecoder(rec.Body).Decode(&got)
			}
			if err != nil || got != want {
				t.Errorf("decoded %+v, %v", got, err)
			}
		})
	}
}

func TestMsgPackUsesJSONFieldNames(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/weather?format=msgpack", nil)
	rec := httptest.NewRecorder()

	if err := NewFormatter().WriteResponse(rec, req, payload{Name: "Beverly Hills", Temp: 75}, nil); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := msgpack.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got["location_name"] != "Beverly Hills" {
		t.Errorf("keys = %v, want json field names", got)
	}
	if _, ok := got["Name"]; ok {
		t.Error("Go field name leaked into msgpack output")
	}
}
