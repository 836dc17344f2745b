package server

import (
	"net/http"
	"net/http/httptest"
	"strconv"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}
