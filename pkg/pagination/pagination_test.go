package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(rawQuery string) Params {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	return FromContext(c)
}

func TestFromContext(t *testing.T) {
	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", DefaultLimit, 0},
		{"limit=50&offset=10", 50, 10},
		{"limit=0", DefaultLimit, 0},
		{"limit=-5&offset=-3", DefaultLimit, 0},
		{"limit=1000", MaxLimit, 0},
	}
	for _, tc := range cases {
		got := paramsFor(tc.query)
		if got.Limit != tc.wantLimit || got.Offset != tc.wantOffset {
			t.Errorf("FromContext(%q) = %+v, want limit=%d offset=%d",
				tc.query, got, tc.wantLimit, tc.wantOffset)
		}
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	if !NewResponse(nil, 100, 20, 0).HasMore {
		t.Error("expected more pages")
	}
	if NewResponse(nil, 20, 20, 0).HasMore {
		t.Error("expected no more pages")
	}
}
